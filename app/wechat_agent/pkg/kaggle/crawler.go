package kaggle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/browser"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/wechat"
)

// ImagePublisher 下载远程图片并上传为公众号素材
type ImagePublisher interface {
	PublishURL(ctx context.Context, srcURL, localPath string) (*wechat.Material, error)
}

// Downloader 仅下载到本地
type Downloader interface {
	Download(ctx context.Context, rawURL, path string) error
}

// Crawler Kaggle 页面爬虫
type Crawler struct {
	browser    browser.Browser
	publisher  ImagePublisher
	downloader Downloader
	now        func() time.Time
}

func NewCrawler(b browser.Browser, pub ImagePublisher, dl Downloader) *Crawler {
	return &Crawler{browser: b, publisher: pub, downloader: dl, now: time.Now}
}

func (c *Crawler) load(ctx context.Context, url string) (browser.Page, string, error) {
	page, err := c.browser.Open(ctx, url)
	if err != nil {
		return nil, "", err
	}
	if err := page.ScrollBottom(); err != nil {
		page.Close()
		return nil, "", err
	}
	html, err := page.HTML()
	if err != nil {
		page.Close()
		return nil, "", err
	}
	return page, html, nil
}

// CrawlList 切换为列表视图后逐页解析，直到下一页不可用或达到 pageLimit
func (c *Crawler) CrawlList(ctx context.Context, pageLimit int) ([]model.Competition, error) {
	page, err := c.browser.Open(ctx, CompetitionURL)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if ok, err := page.ClickXPath(xpathListViewButton); err != nil || !ok {
		logger.Log.Warnf("未找到列表视图按钮: %v", err)
	}

	date := c.now().Format("20060102")
	var all []model.Competition
	for n := 1; ; n++ {
		if err := page.ScrollBottom(); err != nil {
			return nil, err
		}
		html, err := page.HTML()
		if err != nil {
			return nil, err
		}
		list, err := ParseCompetitionList(html, date)
		if err != nil {
			return nil, err
		}
		all = append(all, list...)
		logger.Log.Infof("第 %d 页爬取完成，当前共累积获取 %d 个比赛信息", n, len(all))

		if n >= pageLimit {
			logger.Log.Infof("已达到页数爬取上限 %d", pageLimit)
			break
		}
		ok, err := page.ClickXPath(xpathNextPage)
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Log.Info("已到达最后一页")
			break
		}
	}
	return all, nil
}

// CrawlOverview 爬取比赛总览，段落图片保存到 imageDir/{n}.png 并上传
func (c *Crawler) CrawlOverview(ctx context.Context, url, imageDir string) (*model.CompOverview, error) {
	page, html, err := c.load(ctx, url)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	n := 0
	return ParseOverview(html, url, func(src string) (string, error) {
		path := filepath.Join(imageDir, fmt.Sprintf("%d.png", n))
		n++
		m, err := c.publisher.PublishURL(ctx, src, path)
		if err != nil {
			return "", err
		}
		return m.URL, nil
	})
}

// CrawlDiscussions 按发布时间爬取讨论区列表，返回帖子与比赛标题
func (c *Crawler) CrawlDiscussions(ctx context.Context, compURL string, pageLimit int) ([]model.Discussion, string, error) {
	base := strings.TrimRight(compURL, "/") + "/discussion?sort=published"
	var (
		all   []model.Discussion
		title string
	)
	for n := 1; n <= pageLimit; n++ {
		logger.Log.Infof("正在爬取第 %d 页...", n)
		page, html, err := c.load(ctx, fmt.Sprintf("%s&page=%d", base, n))
		if err != nil {
			return nil, "", err
		}
		page.Close()

		if n == 1 {
			title = ParseCompTitle(html)
		}
		items, empty, err := ParseDiscussionList(html, n == 1)
		if err != nil {
			return nil, "", err
		}
		if empty {
			logger.Log.Info("已超出最后一页，跳出")
			break
		}
		all = append(all, items...)
	}
	return all, title, nil
}

// CrawlDiscussionDetail 爬取讨论帖并写入 dir/discussion_content.md，图片保存在 dir/images
// 没有排名或排名过低时返回 ErrNoRank / ErrRankTooLow
func (c *Crawler) CrawlDiscussionDetail(ctx context.Context, url, dir string) (*model.DiscussionDetail, error) {
	page, html, err := c.load(ctx, url)
	if err != nil {
		return nil, err
	}
	page.Close()

	d, err := ParseDiscussionDetail(html, url)
	if err != nil {
		return d, err
	}

	names := make([]string, 0, len(d.Images))
	for name := range d.Images {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		src := d.Images[name]
		if err := c.downloader.Download(ctx, src, filepath.Join(dir, "images", name)); err != nil {
			logger.Log.Warnf("下载图片时出错: %v，URL: %s", err, src)
			// 保留原始地址作为引用
			d.Markdown = strings.ReplaceAll(d.Markdown, "(images/"+name+")", "("+src+")")
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, DiscussionFile), []byte(d.Markdown), 0o644); err != nil {
		return nil, fmt.Errorf("write markdown failed: %w", err)
	}
	if err := model.SaveJSON(filepath.Join(dir, "img_name2scr_dict.json"), d.Images); err != nil {
		return nil, err
	}
	logger.Log.Infof("内容已保存到: %s", dir)
	return d, nil
}
