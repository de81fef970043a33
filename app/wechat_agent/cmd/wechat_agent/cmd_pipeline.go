package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/pipeline"
)

var (
	compOpts  pipeline.CompOptions
	paperOpts pipeline.WeeklyOptions
	appOpts   pipeline.WeeklyOptions
)

var compExpressCmd = &cobra.Command{
	Use:   "comp-express",
	Short: "Kaggle 竞赛速递：进行中的比赛总览",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context(), func(ctx context.Context, p *pipeline.Pipeline) error {
			return p.CompExpress(ctx, compOpts)
		})
	},
}

var compReviewCmd = &cobra.Command{
	Use:   "comp-review",
	Short: "Kaggle 竞赛复盘：已结束比赛的高分方案总结",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context(), func(ctx context.Context, p *pipeline.Pipeline) error {
			return p.CompReview(ctx, compOpts)
		})
	},
}

var paperExpressCmd = &cobra.Command{
	Use:   "paper-express",
	Short: "Hugging Face 周榜论文速递",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context(), func(ctx context.Context, p *pipeline.Pipeline) error {
			return p.PaperExpress(ctx, paperOpts)
		})
	},
}

var appExpressCmd = &cobra.Command{
	Use:   "app-express",
	Short: "Product Hunt 周榜产品速递",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context(), func(ctx context.Context, p *pipeline.Pipeline) error {
			return p.AppExpress(ctx, appOpts)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{compExpressCmd, compReviewCmd} {
		c.Flags().IntVar(&compOpts.Pages, "pages", 3, "比赛列表爬取页数")
	}
	compReviewCmd.Flags().IntVar(&compOpts.DiscussionPages, "dis-pages", 5, "讨论区爬取页数")
	compReviewCmd.Flags().IntVar(&compOpts.Details, "details", 30, "爬取前 N 条讨论详情")
	compReviewCmd.Flags().IntVar(&compOpts.TopK, "topk", 100, "只保留排名前 K 的方案")

	paperExpressCmd.Flags().IntVar(&paperOpts.Year, "year", 0, "年份，留空取上一周")
	paperExpressCmd.Flags().StringVar(&paperOpts.Week, "week", "", "周数，如 W25")
	paperExpressCmd.Flags().IntVar(&paperOpts.TopK, "topk", 10, "获取前 K 篇论文")

	appExpressCmd.Flags().IntVar(&appOpts.Year, "year", 0, "年份，留空取上一周")
	appExpressCmd.Flags().StringVar(&appOpts.Week, "week", "", "周数，如 26")
	appExpressCmd.Flags().IntVar(&appOpts.TopK, "topk", 10, "获取前 K 个产品")
}

func runPipeline(ctx context.Context, run func(ctx context.Context, p *pipeline.Pipeline) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	p, cleanup, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := run(ctx, p); err != nil {
		if errors.Is(err, pipeline.ErrAborted) {
			logger.Log.Info("程序已退出。")
			return nil
		}
		return err
	}
	logger.Log.Info("流程执行完成")
	return nil
}
