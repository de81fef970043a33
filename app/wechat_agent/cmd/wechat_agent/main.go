package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
)

var (
	configPath string
	noInput    bool
)

var rootCmd = &cobra.Command{
	Use:   "wechat_agent",
	Short: "公众号内容流水线：Kaggle 竞赛速递/复盘、HF 论文速递、Product Hunt 产品速递",
	Long: `wechat_agent 爬取 Kaggle、Hugging Face 与 Product Hunt 的榜单，
调用 LLM 翻译总结为中文，填充 HTML 模板并生成封面，最后创建公众号草稿。

每个步骤的产物都会落盘，再次运行时会询问是否重新执行。`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&noInput, "yes", "y", false, "非交互模式，所有提问使用默认回答")

	rootCmd.AddCommand(compExpressCmd, compReviewCmd, paperExpressCmd, appExpressCmd)
	rootCmd.AddCommand(uploadCmd, draftCmd)
}

// loadConfig 加载配置并初始化日志
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("无法加载配置文件: %w", err)
	}
	if err := logger.InitLogger(cfg.Log); err != nil {
		return nil, fmt.Errorf("无法初始化日志: %w", err)
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
