// Package render 将翻译结果填充为公众号图文 HTML
package render

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
)

//go:embed templates/*.html
var templates embed.FS

var funcs = template.FuncMap{
	"oneline":  textutil.StripNewlines,
	"lines":    lines,
	"table":    table,
	"inc":      func(i int) int { return i + 1 },
	"keywords": keywords,
	"join":     strings.Join,
	"carousel": newCarousel,
}

var tpl = template.Must(template.New("render").Funcs(funcs).ParseFS(templates, "templates/*.html"))

func keywords(list []string) string {
	return textutil.JoinKeywords(list, "、")
}

// lines 按换行拆分并去掉空行
func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// table 表格原样输出，去掉其中的 <br>
func table(s string) template.HTML {
	return template.HTML(strings.ReplaceAll(s, "<br>", ""))
}

type carousel struct {
	URLs    []string
	Caption string
}

// newCarousel 可左右滑动的图片集，无图时不输出
func newCarousel(urls []string, caption string) carousel {
	return carousel{URLs: urls, Caption: caption}
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Overview 比赛速览推文
func Overview(zh model.ZhOverview) (string, error) {
	return execute("overview.html", zh)
}

type reviewData struct {
	Comp      model.ZhOverview
	Solutions []model.SolutionEntry
}

// Review 比赛复盘推文，包含比赛信息与高分方案总结
func Review(zh model.ZhOverview, solutions []model.SolutionEntry) (string, error) {
	return execute("review.html", reviewData{Comp: zh, Solutions: solutions})
}

type paperData struct {
	CoverURL string
	Papers   []model.ZhPaper
}

// Papers 论文速递推文
func Papers(coverURL string, papers []model.ZhPaper) (string, error) {
	return execute("papers.html", paperData{CoverURL: coverURL, Papers: papers})
}

type appData struct {
	CoverURL string
	Apps     []model.ZhProduct
}

// Apps 产品速递推文
func Apps(coverURL string, apps []model.ZhProduct) (string, error) {
	return execute("apps.html", appData{CoverURL: coverURL, Apps: apps})
}
