package hfpaper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
)

const BaseURL = "https://huggingface.co"

const (
	selPaperItems   = `body > div:nth-of-type(1) > main > div:nth-of-type(2) > section > div:nth-of-type(2) > *`
	selDetailHeader = `body > div:nth-of-type(1) > main > div > section:nth-of-type(1) > div > div:nth-of-type(1)`
	selPublished    = selDetailHeader + ` > div:nth-of-type(2) > div:nth-of-type(1)`
	selAuthors      = selDetailHeader + ` > div:nth-of-type(4) > *`
	selAISummary    = `body > div > main > div > section:nth-of-type(1) > div > div:nth-of-type(2) > div > div > p`
	selAbstract     = `body > div > main > div > section:nth-of-type(1) > div > div:nth-of-type(2) > div > p`
	selLinks        = `body > div:nth-of-type(1) > main > div > section:nth-of-type(1) > div > div:nth-of-type(3) > *`
)

var firstNumber = regexp.MustCompile(`\d+`)

// WeekURL 周榜地址，week 形如 W26
func WeekURL(year int, week string) string {
	return fmt.Sprintf("%s/papers/week/%d-%s", BaseURL, year, week)
}

// children 沿直接子节点逐级查找
func children(sel *goquery.Selection, path ...string) *goquery.Selection {
	for _, p := range path {
		sel = sel.ChildrenFiltered(p)
	}
	return sel
}

// ParsePaperList 解析周榜前 topK 篇论文，单篇解析失败时跳过
func ParsePaperList(html string, topK int) ([]model.Paper, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html failed: %w", err)
	}

	var papers []model.Paper
	doc.Find(selPaperItems).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if topK > 0 && i >= topK {
			return false
		}
		p, ok := parsePaperItem(s)
		if !ok {
			return true
		}
		p.Index = i + 1
		papers = append(papers, p)
		return true
	})
	return papers, nil
}

func parsePaperItem(s *goquery.Selection) (model.Paper, bool) {
	var p model.Paper
	title := s.Find("h3 > a").First()
	p.Title = textutil.CollapseSpace(title.Text())
	if p.Title == "" {
		return p, false
	}
	href, _ := title.Attr("href")
	p.HFURL = absURL(href)

	p.Likes, _ = strconv.Atoi(strings.TrimSpace(s.Find("a > div > div").First().Text()))
	if n := firstNumber.FindString(s.Find("div > a > ul > li:nth-of-type(6) > div").First().Text()); n != "" {
		p.AuthorCount, _ = strconv.Atoi(n)
	}

	// 有 GitHub 仓库时该区域有两个子节点，第一个是 star 数
	if gh := children(s, "article", "div:nth-of-type(2)", "div", "div:nth-of-type(2)", "div", "div").Children(); gh.Length() == 2 {
		p.GithubStars = strings.TrimSpace(gh.First().ChildrenFiltered("span").Text())
	}

	media := children(s, "a")
	if v := media.ChildrenFiltered("video"); v.Length() > 0 {
		p.CoverURL, _ = v.Attr("src")
		p.CoverType = "video"
	} else if img := media.ChildrenFiltered("img"); img.Length() > 0 {
		p.CoverURL, _ = img.Attr("src")
		p.CoverType = "image"
	}
	if p.CoverURL == "" {
		p.CoverType = ""
	}
	return p, true
}

// Detail 论文详情页字段
type Detail struct {
	PublishedDate string
	Authors       []string
	AISummary     string
	Abstract      string
	PDFURL        string
	GithubURL     string
}

// Apply 合并到列表信息中
func (d Detail) Apply(p *model.Paper) {
	p.PublishedDate = d.PublishedDate
	p.Authors = d.Authors
	p.AISummary = d.AISummary
	p.Abstract = d.Abstract
	p.PDFURL = d.PDFURL
	p.GithubURL = d.GithubURL
}

// ParsePaperDetail 解析论文详情页
func ParsePaperDetail(html string) (*Detail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html failed: %w", err)
	}

	d := &Detail{
		PublishedDate: textutil.CollapseSpace(doc.Find(selPublished).First().Text()),
		AISummary:     textutil.CollapseSpace(doc.Find(selAISummary).First().Text()),
		Abstract:      textutil.CollapseSpace(doc.Find(selAbstract).First().Text()),
	}

	doc.Find(selAuthors).Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(strings.TrimSuffix(textutil.CollapseSpace(s.Text()), ","))
		if name == "" || name == "Authors:" {
			return
		}
		d.Authors = append(d.Authors, name)
	})

	doc.Find(selLinks).Each(func(_ int, s *goquery.Selection) {
		text := textutil.CollapseSpace(s.Text())
		href, ok := s.Attr("href")
		if !ok {
			href, _ = s.Find("a").First().Attr("href")
		}
		switch {
		case text == "View PDF" || text == "View arXiv page":
			d.PDFURL = href
		case strings.Contains(text, "GitHub"):
			d.GithubURL = href
		}
	})
	return d, nil
}

func absURL(href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return BaseURL + href
}
