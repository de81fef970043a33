package producthunt

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
)

const BaseURL = "https://www.producthunt.com"

const (
	selMain = `#root-container > div:nth-of-type(3) > div > main`

	selProductItems         = selMain + ` > div > div > div:nth-of-type(2) > *`
	selProductItemsFallback = selMain + ` > div > div > *`

	selContent         = selMain + ` > div:nth-of-type(1) > div:nth-of-type(2) > div > p`
	selContentFallback = selMain + ` > div:nth-of-type(1) > div:nth-of-type(1) > div > p`
	selRating          = selMain + ` > div:nth-of-type(1) > section > div:nth-of-type(1) > span > a:nth-of-type(1) > span`
	selFans            = selMain + ` > div:nth-of-type(1) > section > div:nth-of-type(1) > span > p`
	selWebsite         = selMain + ` > div:nth-of-type(1) > section > div:nth-of-type(2) > a`

	xpathDismissNotification = `//button[contains(text(), 'Block') or contains(text(), '阻止') or contains(text(), 'Not now') or contains(text(), '以后再说')]`
)

// 图集在不同版式下的位置，依次尝试
var selGallery = []string{
	selMain + ` > section:nth-of-type(1) > div > div:nth-of-type(1) > section > *`,
	selMain + ` > div:nth-of-type(2) > div:nth-of-type(1) > div > div:nth-of-type(1) > section > *`,
	selMain + ` > div:nth-of-type(3) > div:nth-of-type(1) > div > div:nth-of-type(1) > section > *`,
	selMain + ` > div:nth-of-type(3) > div > div > div:nth-of-type(3) > div > div:nth-of-type(1) > section > *`,
}

// WeekURL 周榜地址，week 形如 W26，地址中只保留数字
func WeekURL(year int, week string) string {
	return fmt.Sprintf("%s/leaderboard/weekly/%d/%d", BaseURL, year, textutil.WeekNumber(week))
}

func imageURL(img *goquery.Selection) string {
	srcset, _ := img.Attr("srcset")
	src, _ := img.Attr("src")
	return textutil.HighestSrcset(srcset, src)
}

// ParseProductList 解析周榜前 topK 个产品，跳过广告位
func ParseProductList(html string, topK int) ([]model.Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html failed: %w", err)
	}

	items := doc.Find(selProductItems)
	if items.Length() == 0 {
		items = doc.Find(selProductItemsFallback)
	}

	var products []model.Product
	items.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if c, _ := s.Attr("data-sentry-component"); c == "Ad" {
			return true
		}
		p, ok := parseProductItem(s)
		if !ok {
			return true
		}
		p.Index = len(products) + 1
		products = append(products, p)
		return topK <= 0 || len(products) < topK
	})
	return products, nil
}

func parseProductItem(s *goquery.Selection) (model.Product, bool) {
	var p model.Product
	title := s.Find("div > a").First()
	p.Title = textutil.CollapseSpace(title.Text())
	if p.Title == "" {
		return p, false
	}
	href, _ := title.Attr("href")
	p.ProductHuntURL = absURL(href)
	p.ImgURL = imageURL(s.Find("img").First())
	p.SentenceDescription = textutil.CollapseSpace(s.Find("div > a:nth-of-type(2)").First().Text())

	s.Find(`[data-sentry-component="TagList"]`).First().Children().Each(func(_ int, t *goquery.Selection) {
		for _, tag := range strings.Split(t.Text(), "•") {
			if tag = strings.TrimSpace(tag); tag != "" {
				p.Tags = append(p.Tags, tag)
			}
		}
	})

	p.Comments = strings.TrimSpace(s.Find("button:nth-of-type(1) > div > p").First().Text())
	p.Upvotes = strings.TrimSpace(s.Find("button:nth-of-type(2) > div > p").First().Text())
	return p, true
}

// Detail 产品详情页字段
type Detail struct {
	ContentDescription string
	Rating             string
	Fans               string
	Website            string
	Images             []string
}

// Apply 合并到列表信息中
func (d Detail) Apply(p *model.Product) {
	p.ContentDescription = d.ContentDescription
	p.Rating = d.Rating
	p.Fans = d.Fans
	p.Website = d.Website
	p.ImageURLs = d.Images
}

// ParseProductDetail 解析产品详情页
func ParseProductDetail(html string) (*Detail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html failed: %w", err)
	}

	content := doc.Find(selContent).First()
	if content.Length() == 0 {
		content = doc.Find(selContentFallback).First()
	}
	d := &Detail{
		ContentDescription: strings.TrimSpace(content.Text()),
		Rating:             strings.TrimSpace(doc.Find(selRating).First().Text()),
		Fans:               strings.TrimSpace(strings.Replace(doc.Find(selFans).First().Text(), " followers", "", 1)),
	}
	d.Website, _ = doc.Find(selWebsite).First().Attr("href")

	for _, sel := range selGallery {
		items := doc.Find(sel)
		if items.Length() == 0 {
			continue
		}
		items.Each(func(_ int, s *goquery.Selection) {
			img := s.Find("div > img").First()
			if img.Length() == 0 {
				return
			}
			if u := imageURL(img); u != "" {
				d.Images = append(d.Images, u)
			}
		})
		break
	}
	return d, nil
}

func absURL(href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return BaseURL + href
}
