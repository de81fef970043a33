package producthunt

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/browser"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/wechat"
)

// ImagePublisher 下载远程图片并上传为公众号素材
type ImagePublisher interface {
	PublishURL(ctx context.Context, srcURL, localPath string) (*wechat.Material, error)
}

// Crawler Product Hunt 周榜爬虫
type Crawler struct {
	browser   browser.Browser
	publisher ImagePublisher
}

func NewCrawler(b browser.Browser, pub ImagePublisher) *Crawler {
	return &Crawler{browser: b, publisher: pub}
}

// ProductDir 单个产品目录 {index}_{safe_title}
func ProductDir(root string, p model.Product) string {
	return filepath.Join(root, fmt.Sprintf("%d_%s", p.Index, textutil.SafeTitle(p.Title)))
}

// ListFile 周榜列表文件名，与地址末段一致
func ListFile(week string) string {
	return fmt.Sprintf("software_list_%d.json", textutil.WeekNumber(week))
}

// CrawlList 爬取周榜并上传产品图标，结果写入 dir/software_list_{week}.json
func (c *Crawler) CrawlList(ctx context.Context, year int, week string, topK int, dir string) ([]model.Product, error) {
	url := WeekURL(year, week)
	logger.Log.Infof("正在访问: %s", url)
	page, err := c.browser.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer page.Close()
	if err := page.ScrollBottom(); err != nil {
		return nil, err
	}
	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	products, err := ParseProductList(html, topK)
	if err != nil {
		return nil, err
	}
	for i := range products {
		p := &products[i]
		if p.ImgURL == "" {
			continue
		}
		path := filepath.Join(ProductDir(dir, *p), "app_icon.png")
		m, err := c.publisher.PublishURL(ctx, p.ImgURL, path)
		if err != nil {
			logger.Log.Warnf("上传产品图标失败: %s, %v", p.Title, err)
			continue
		}
		p.IconLocalPath = path
		p.IconUploadURL = m.URL
	}

	if err := model.SaveJSON(filepath.Join(dir, ListFile(week)), products); err != nil {
		return nil, err
	}
	logger.Log.Infof("爬取完成！共获取 %d 个产品信息", len(products))
	return products, nil
}

// CrawlDetails 爬取每个产品详情并上传图集，写入 {index}_{safe}/software_details.json 与 all_software_details.json
func (c *Crawler) CrawlDetails(ctx context.Context, products []model.Product, dir string) ([]model.Product, error) {
	var out []model.Product
	for i, p := range products {
		logger.Log.Infof("正在处理第 %d/%d 个产品: %s", i+1, len(products), p.Title)
		d, err := c.detail(ctx, p.ProductHuntURL)
		if err != nil {
			logger.Log.Errorf("获取产品详情失败: %v", err)
			continue
		}
		d.Apply(&p)

		p.ImagesUploadURL = nil
		for n, src := range p.ImageURLs {
			m, err := c.publisher.PublishURL(ctx, src, filepath.Join(ProductDir(dir, p), "images", fmt.Sprintf("%d.png", n)))
			if err != nil {
				logger.Log.Warnf("上传产品图片失败: %v, URL: %s", err, src)
				continue
			}
			p.ImagesUploadURL = append(p.ImagesUploadURL, m.URL)
		}

		if err := model.SaveJSON(filepath.Join(ProductDir(dir, p), "software_details.json"), p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	if err := model.SaveJSON(filepath.Join(dir, "all_software_details.json"), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Crawler) detail(ctx context.Context, url string) (*Detail, error) {
	page, err := c.browser.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	// 关闭通知授权弹窗
	if ok, err := page.ClickXPath(xpathDismissNotification); err == nil && ok {
		logger.Log.Debug("已关闭通知弹窗")
	}
	html, err := page.HTML()
	if err != nil {
		return nil, err
	}
	return ParseProductDetail(html)
}
