package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/cover"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/hfpaper"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/producthunt"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/render"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/wechat"
)

// WeeklyOptions 周榜类流程参数，Year 或 Week 为空时取上一周
type WeeklyOptions struct {
	Year int
	Week string
	TopK int
}

// ResolveWeek 统一为 W05 形式的 ISO 周
func ResolveWeek(now time.Time, year int, week string) (int, string) {
	if year == 0 || week == "" {
		y, w := textutil.PreviousWeek(now)
		logger.Log.Infof("自动获取上一周: %d年 %s", y, w)
		return y, w
	}
	return year, fmt.Sprintf("W%02d", textutil.WeekNumber(week))
}

// coverURL 读取已上传封面的地址，未上传时返回空
func coverURL(dir string) string {
	m, err := wechat.LoadMaterialResult(filepath.Join(dir, "cover", "cover.json"))
	if err != nil {
		return ""
	}
	return m.URL
}

// paperWeekLabel 保留两位周数，如 2025年第05周
func paperWeekLabel(year int, week string) string {
	return fmt.Sprintf("%d年第%s周", year, strings.TrimPrefix(week, "W"))
}

// appWeekLabel 不补零，如 2025年第5周
func appWeekLabel(year int, week string) string {
	return fmt.Sprintf("%d年第%d周", year, textutil.WeekNumber(week))
}

// PaperExpress 论文速递：周榜 -> 详情 -> 翻译总结 -> 封面 -> HTML -> 草稿
func (p *Pipeline) PaperExpress(ctx context.Context, opts WeeklyOptions) error {
	year, week := ResolveWeek(time.Now(), opts.Year, opts.Week)
	dir := p.ws.PaperDir(year, week)
	listPath := filepath.Join(dir, hfpaper.ListFile(year, week))
	detailsPath := filepath.Join(dir, paperDetailsFile)
	zhPath := filepath.Join(dir, zhPaperDetailsFile)
	htmlPath := filepath.Join(dir, paperHTML)
	logger.Log.Infof("处理时间: %d年 %s，获取论文数量: %d，数据目录: %s", year, week, opts.TopK, dir)

	return p.runner.Run(ctx,
		Stage{Name: "爬取论文列表", Output: listPath, Run: func(ctx context.Context) error {
			papers, err := p.deps.Papers.CrawlList(ctx, year, week, opts.TopK, dir)
			if err != nil {
				return err
			}
			if len(papers) == 0 {
				return fmt.Errorf("no paper found for %d-%s", year, week)
			}
			return nil
		}},
		Stage{Name: "爬取论文详情", Output: detailsPath, Run: func(ctx context.Context) error {
			var papers []model.Paper
			if err := model.LoadJSON(listPath, &papers); err != nil {
				return err
			}
			_, err := p.deps.Papers.CrawlDetails(ctx, papers, dir)
			return err
		}},
		Stage{Name: "翻译和总结论文", Output: zhPath, Run: func(ctx context.Context) error {
			var papers []model.Paper
			if err := model.LoadJSON(detailsPath, &papers); err != nil {
				return err
			}
			_, err := p.deps.Paper.Summarize(ctx, papers, zhPath)
			return err
		}},
		p.coverStage(cover.KindPaperExpress, dir, func() (cover.CoverData, error) {
			return cover.CoverData{Year: year, Week: week}, nil
		}),
		p.uploadStage(dir),
		Stage{Name: "填充论文速递HTML模板", Output: htmlPath, Run: func(ctx context.Context) error {
			var papers []model.ZhPaper
			if err := model.LoadJSON(zhPath, &papers); err != nil {
				return err
			}
			html, err := render.Papers(coverURL(dir), papers)
			if err != nil {
				return err
			}
			return writeHTML(htmlPath, html)
		}},
		p.draftStage(func() (draftInput, error) {
			return draftInput{
				kind:     cover.KindPaperExpress,
				title:    fmt.Sprintf("HF论文速递 | %sAI精选热门论文", paperWeekLabel(year, week)),
				digest:   fmt.Sprintf("Hugging Face论文速递 | %sAI精选热门论文", paperWeekLabel(year, week)),
				htmlPath: htmlPath,
				coverDir: dir,
			}, nil
		}),
	)
}

// AppExpress 产品速递：周榜 -> 详情 -> 翻译总结 -> 封面 -> HTML -> 草稿
func (p *Pipeline) AppExpress(ctx context.Context, opts WeeklyOptions) error {
	year, week := ResolveWeek(time.Now(), opts.Year, opts.Week)
	dir := p.ws.AppDir(year, week)
	listPath := filepath.Join(dir, producthunt.ListFile(week))
	detailsPath := filepath.Join(dir, appDetailsFile)
	zhPath := filepath.Join(dir, zhAppDetailsFile)
	htmlPath := filepath.Join(dir, appHTML)
	logger.Log.Infof("处理时间: %d年 %s，获取产品数量: %d，数据目录: %s", year, week, opts.TopK, dir)

	return p.runner.Run(ctx,
		Stage{Name: "爬取产品列表", Output: listPath, Run: func(ctx context.Context) error {
			products, err := p.deps.Products.CrawlList(ctx, year, week, opts.TopK, dir)
			if err != nil {
				return err
			}
			if len(products) == 0 {
				return fmt.Errorf("no product found for %d-%s", year, week)
			}
			return nil
		}},
		Stage{Name: "爬取产品详情", Output: detailsPath, Run: func(ctx context.Context) error {
			var products []model.Product
			if err := model.LoadJSON(listPath, &products); err != nil {
				return err
			}
			_, err := p.deps.Products.CrawlDetails(ctx, products, dir)
			return err
		}},
		Stage{Name: "翻译和总结产品", Output: zhPath, Run: func(ctx context.Context) error {
			var products []model.Product
			if err := model.LoadJSON(detailsPath, &products); err != nil {
				return err
			}
			_, err := p.deps.App.Summarize(ctx, products, zhPath)
			return err
		}},
		p.coverStage(cover.KindAppExpress, dir, func() (cover.CoverData, error) {
			return cover.CoverData{Year: year, Week: week}, nil
		}),
		p.uploadStage(dir),
		Stage{Name: "填充产品速递HTML模板", Output: htmlPath, Run: func(ctx context.Context) error {
			var apps []model.ZhProduct
			if err := model.LoadJSON(zhPath, &apps); err != nil {
				return err
			}
			html, err := render.Apps(coverURL(dir), apps)
			if err != nil {
				return err
			}
			return writeHTML(htmlPath, html)
		}},
		p.draftStage(func() (draftInput, error) {
			return draftInput{
				kind:     cover.KindAppExpress,
				title:    fmt.Sprintf("ProductHunt产品速递 | %s热门创新产品精选", appWeekLabel(year, week)),
				digest:   fmt.Sprintf("Product Hunt产品速递 | %s热门创新产品精选", appWeekLabel(year, week)),
				htmlPath: htmlPath,
				coverDir: dir,
			}, nil
		}),
	)
}
