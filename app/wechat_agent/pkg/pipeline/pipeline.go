// Package pipeline 串联爬取、翻译、模板填充、封面与草稿创建
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/cover"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/storage"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/wechat"
)

// CompCrawler Kaggle 爬虫
type CompCrawler interface {
	CrawlList(ctx context.Context, pageLimit int) ([]model.Competition, error)
	CrawlOverview(ctx context.Context, url, imageDir string) (*model.CompOverview, error)
	CrawlDiscussions(ctx context.Context, compURL string, pageLimit int) ([]model.Discussion, string, error)
	CrawlDiscussionDetail(ctx context.Context, url, dir string) (*model.DiscussionDetail, error)
}

type PaperCrawler interface {
	CrawlList(ctx context.Context, year int, week string, topK int, dir string) ([]model.Paper, error)
	CrawlDetails(ctx context.Context, papers []model.Paper, dir string) ([]model.Paper, error)
}

type ProductCrawler interface {
	CrawlList(ctx context.Context, year int, week string, topK int, dir string) ([]model.Product, error)
	CrawlDetails(ctx context.Context, products []model.Product, dir string) ([]model.Product, error)
}

type OverviewSummarizer interface {
	Summarize(ctx context.Context, ov *model.CompOverview, comp model.Competition) (*model.ZhOverview, error)
}

type SolutionSummarizer interface {
	SummarizeTop(ctx context.Context, top []model.TopSolution, outPath string) ([]model.SolutionEntry, error)
}

type PaperSummarizer interface {
	Summarize(ctx context.Context, papers []model.Paper, outPath string) ([]model.ZhPaper, error)
}

type AppSummarizer interface {
	Summarize(ctx context.Context, products []model.Product, outPath string) ([]model.ZhProduct, error)
}

type CoverMaker interface {
	Make(ctx context.Context, kind string, data cover.CoverData, outPath string) error
}

// Publisher 上传素材，按来源或内容去重
type Publisher interface {
	PublishURL(ctx context.Context, srcURL, localPath string) (*wechat.Material, error)
	PublishFile(ctx context.Context, path string, opts wechat.UploadOptions) (*wechat.Material, error)
}

type DraftCreator interface {
	AddDraft(ctx context.Context, a wechat.Article) (string, error)
}

// DraftRecorder 草稿历史，为空时不记录
type DraftRecorder interface {
	RecordDraft(ctx context.Context, rec *storage.DraftRecord) error
}

// Deps 流程依赖，某个流程用不到的字段可以为空
type Deps struct {
	Kaggle    CompCrawler
	Papers    PaperCrawler
	Products  ProductCrawler
	Overview  OverviewSummarizer
	Solution  SolutionSummarizer
	Paper     PaperSummarizer
	App       AppSummarizer
	Cover     CoverMaker
	Publisher Publisher
	Drafts    DraftCreator
	Store     DraftRecorder
}

// Pipeline 各类推文的生成流程
type Pipeline struct {
	deps     Deps
	ws       Workspace
	prompter Prompter
	runner   *Runner
	authors  map[string]string
	runID    string
}

func New(deps Deps, ws Workspace, p Prompter, authors map[string]string) *Pipeline {
	return &Pipeline{
		deps:     deps,
		ws:       ws,
		prompter: p,
		runner:   NewRunner(p),
		authors:  authors,
		runID:    uuid.NewString(),
	}
}

// RunID 本次运行的标识，随草稿记录入库
func (p *Pipeline) RunID() string {
	return p.runID
}

// coverStage 生成封面图
func (p *Pipeline) coverStage(kind, dir string, data func() (cover.CoverData, error)) Stage {
	out := CoverPNG(dir)
	return Stage{Name: "制作封面图", Output: out, Run: func(ctx context.Context) error {
		d, err := data()
		if err != nil {
			return err
		}
		return p.deps.Cover.Make(ctx, kind, d, out)
	}}
}

// uploadCover 上传封面并写出 cover.json，素材缓存命中时不会重复上传
func (p *Pipeline) uploadCover(ctx context.Context, dir string) (*wechat.Material, error) {
	png := CoverPNG(dir)
	m, err := p.deps.Publisher.PublishFile(ctx, png, wechat.UploadOptions{})
	if err != nil {
		return nil, fmt.Errorf("upload cover failed: %w", err)
	}
	if _, err := wechat.SaveMaterialResult(png, m); err != nil {
		return nil, fmt.Errorf("save cover result failed: %w", err)
	}
	logger.Log.Infof("[封面图] ✓ 上传完成: media_id=%s", m.MediaID)
	return m, nil
}

type draftInput struct {
	kind     string
	title    string
	digest   string
	htmlPath string
	coverDir string
}

// createDraft 读取 HTML 与 cover.json 创建草稿并记录历史
func (p *Pipeline) createDraft(ctx context.Context, in draftInput) (string, error) {
	content, err := os.ReadFile(in.htmlPath)
	if err != nil {
		return "", fmt.Errorf("read html failed: %w", err)
	}
	thumb, err := wechat.LoadMaterialResult(filepath.Join(in.coverDir, "cover", "cover.json"))
	if err != nil {
		return "", fmt.Errorf("load cover result failed: %w", err)
	}

	mediaID, err := p.deps.Drafts.AddDraft(ctx, wechat.Article{
		Title:        in.title,
		Author:       p.authors[in.kind],
		Digest:       in.digest,
		Content:      string(content),
		ThumbMediaID: thumb.MediaID,
	})
	if err != nil {
		return "", err
	}
	logger.Log.Infof("[草稿] ✓ 创建完成: %s", in.title)

	if p.deps.Store != nil {
		rec := &storage.DraftRecord{
			RunID:    p.runID,
			Kind:     in.kind,
			Title:    in.title,
			Digest:   in.digest,
			MediaID:  mediaID,
			HTMLPath: in.htmlPath,
		}
		if err := p.deps.Store.RecordDraft(ctx, rec); err != nil {
			logger.Log.Warnf("记录草稿历史失败: %v", err)
		}
	}
	return mediaID, nil
}

// uploadStage 每次运行都会上传封面
func (p *Pipeline) uploadStage(dir string) Stage {
	return Stage{Name: "上传封面图", Run: func(ctx context.Context) error {
		_, err := p.uploadCover(ctx, dir)
		return err
	}}
}

// draftStage 草稿字段依赖前面步骤的产物，执行时才读取
func (p *Pipeline) draftStage(input func() (draftInput, error)) Stage {
	return Stage{Name: "创建草稿", Run: func(ctx context.Context) error {
		in, err := input()
		if err != nil {
			return err
		}
		_, err = p.createDraft(ctx, in)
		return err
	}}
}

func writeHTML(path, html string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir failed: %w", err)
	}
	return os.WriteFile(path, []byte(html), 0o644)
}
