package hfpaper

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/browser"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/cover"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/fetch"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/wechat"
)

// FilePublisher 上传本地文件为公众号素材
type FilePublisher interface {
	PublishFile(ctx context.Context, path string, opts wechat.UploadOptions) (*wechat.Material, error)
}

// Downloader 下载远程文件
type Downloader interface {
	Download(ctx context.Context, rawURL, path string) error
}

// Crawler Hugging Face 周榜爬虫
type Crawler struct {
	browser    browser.Browser
	fetcher    fetch.Fetcher
	downloader Downloader
	publisher  FilePublisher
}

func NewCrawler(b browser.Browser, f fetch.Fetcher, dl Downloader, pub FilePublisher) *Crawler {
	return &Crawler{browser: b, fetcher: f, downloader: dl, publisher: pub}
}

// PaperDir 单篇论文目录 {index}_{safe_title}
func PaperDir(root string, p model.Paper) string {
	return filepath.Join(root, fmt.Sprintf("%d_%s", p.Index, textutil.SafeTitle(p.Title)))
}

// ListFile 周榜列表文件名
func ListFile(year int, week string) string {
	return fmt.Sprintf("paper_list_%d-%s.json", year, week)
}

func (c *Crawler) pageHTML(ctx context.Context, url string) (string, error) {
	page, err := c.browser.Open(ctx, url)
	if err != nil {
		return "", err
	}
	defer page.Close()
	if err := page.ScrollBottom(); err != nil {
		return "", err
	}
	return page.HTML()
}

// CrawlList 爬取周榜前 topK 篇论文并处理封面，结果写入 dir/paper_list_{year}-{week}.json
func (c *Crawler) CrawlList(ctx context.Context, year int, week string, topK int, dir string) ([]model.Paper, error) {
	url := WeekURL(year, week)
	logger.Log.Infof("正在访问: %s", url)
	html, err := c.pageHTML(ctx, url)
	if err != nil {
		return nil, err
	}
	papers, err := ParsePaperList(html, topK)
	if err != nil {
		return nil, err
	}

	for i := range papers {
		p := &papers[i]
		if p.CoverURL == "" {
			continue
		}
		if err := c.publishCover(ctx, p, filepath.Join(PaperDir(dir, *p), "covers")); err != nil {
			logger.Log.Warnf("处理论文封面失败: %s, %v", p.Title, err)
		}
		logger.Log.Infof("已处理第 %d 篇论文: %s", p.Index, textutil.Truncate(p.Title, 50))
	}

	if err := model.SaveJSON(filepath.Join(dir, ListFile(year, week)), papers); err != nil {
		return nil, err
	}
	logger.Log.Infof("爬取完成！共获取 %d 篇论文信息", len(papers))
	return papers, nil
}

// publishCover 图片封面直接下载，视频封面改为 arXiv 摘要页截图，统一裁剪到 1200x648 后上传
func (c *Crawler) publishCover(ctx context.Context, p *model.Paper, dir string) error {
	raw := filepath.Join(dir, "cover_raw"+coverExt(p.CoverURL))
	if p.CoverType == "video" {
		logger.Log.Infof("检测到视频，改为截取 arXiv 页面: %s", p.Title)
		raw = filepath.Join(dir, "cover_raw.png")
		if err := c.screenshot(ctx, ArxivAbsURL(p.HFURL), raw); err != nil {
			return err
		}
	} else if err := c.downloader.Download(ctx, p.CoverURL, raw); err != nil {
		return err
	}

	out := filepath.Join(dir, "cover_material.png")
	if err := cover.Fit(raw, out, cover.PaperCoverWidth, cover.PaperCoverHeight); err != nil {
		return err
	}
	p.CoverLocalPath = out
	m, err := c.publisher.PublishFile(ctx, out, wechat.UploadOptions{})
	if err != nil {
		return err
	}
	p.CoverUploadURL = m.URL
	return nil
}

func (c *Crawler) screenshot(ctx context.Context, url, path string) error {
	page, err := c.browser.Open(ctx, url)
	if err != nil {
		return err
	}
	defer page.Close()
	return page.Screenshot(path)
}

func coverExt(u string) string {
	l := strings.ToLower(u)
	if strings.Contains(l, "jpg") || strings.Contains(l, "jpeg") {
		return ".jpg"
	}
	return ".png"
}

// CrawlDetails 爬取每篇论文详情，写入 {index}_{safe}/paper_details.json 与 all_papers_details.json
func (c *Crawler) CrawlDetails(ctx context.Context, papers []model.Paper, dir string) ([]model.Paper, error) {
	var out []model.Paper
	for i, p := range papers {
		logger.Log.Infof("正在处理第 %d/%d 篇论文: %s", i+1, len(papers), p.Title)
		html, err := c.pageHTML(ctx, p.HFURL)
		if err != nil {
			logger.Log.Errorf("获取论文详情失败: %v", err)
			continue
		}
		d, err := ParsePaperDetail(html)
		if err != nil {
			logger.Log.Errorf("解析论文详情失败: %v", err)
			continue
		}
		d.Apply(&p)

		if p.GithubURL == "" && p.PDFURL != "" {
			logger.Log.Info("Hugging Face页面未找到GitHub URL，尝试从 arXiv 页面提取...")
			if gh, err := GithubFromArxiv(ctx, c.fetcher, p.HFURL); err != nil {
				logger.Log.Warnf("访问 arXiv 失败: %v", err)
			} else {
				p.GithubURL = gh
			}
		}
		if p.CoverUploadURL != "" {
			p.ImageURLs = []string{p.CoverUploadURL}
		}

		if err := model.SaveJSON(filepath.Join(PaperDir(dir, p), "paper_details.json"), p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	if err := model.SaveJSON(filepath.Join(dir, "all_papers_details.json"), out); err != nil {
		return nil, err
	}
	return out, nil
}
