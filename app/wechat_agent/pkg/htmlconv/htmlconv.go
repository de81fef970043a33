// Package htmlconv 把抓取到的 DOM 节点转换为结构化元素或 Markdown。
package htmlconv

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
)

var (
	mathJaxClass = regexp.MustCompile(`MathJax|MJX`)
	leftoverTags = regexp.MustCompile(`<[^>]+>`)
)

// 讨论正文交给 LLM 与 Markdown 文件，原文中的 _ * 1. 不转义
var inlineConverter = md.NewConverter("", true, &md.Options{EscapeMode: "disabled"})

// ImageFunc 处理段落中的图片，返回上传后的地址
type ImageFunc func(src string) (string, error)

// ParagraphText 获取段落文本，MathJax 渲染结果替换为 $公式$
func ParagraphText(sel *goquery.Selection) string {
	s := sel.Clone()
	s.Find("span").Each(func(_ int, span *goquery.Selection) {
		if class, ok := span.Attr("class"); ok && mathJaxClass.MatchString(class) {
			span.Remove()
		}
	})
	s.Find(`script[type*="math/tex"]`).Each(func(_ int, script *goquery.Selection) {
		script.ReplaceWithHtml("$" + html.EscapeString(strings.TrimSpace(script.Text())) + "$")
	})
	return textutil.CollapseSpace(s.Text())
}

// ExtractElements 按顺序把子元素转换为 model.Element
func ExtractElements(children *goquery.Selection, onImage ImageFunc) []model.Element {
	var out []model.Element
	children.Each(func(_ int, el *goquery.Selection) {
		tag := goquery.NodeName(el)
		switch tag {
		case "p":
			if text := ParagraphText(el); text != "" {
				out = append(out, model.Element{Type: "p", Content: text})
			}
			imgs := el.Find("img")
			if imgs.Length() == 0 || onImage == nil {
				return
			}
			src, _ := imgs.Last().Attr("src")
			if src == "" {
				return
			}
			url, err := onImage(src)
			if err != nil {
				logger.Log.Warnf("处理图片失败: %s, %v", src, err)
				return
			}
			out = append(out, model.Element{Type: "image", Content: url})
		case "ol", "ul":
			var b strings.Builder
			n := 0
			el.Find("li").Each(func(_ int, li *goquery.Selection) {
				text := strings.TrimSpace(li.Text())
				if text == "" {
					return
				}
				n++
				if tag == "ol" {
					fmt.Fprintf(&b, "%d. %s\n", n, text)
				} else {
					fmt.Fprintf(&b, "● %s\n", text)
				}
			})
			out = append(out, model.Element{Type: tag, Content: b.String()})
		case "table":
			if h, err := goquery.OuterHtml(el); err == nil && h != "" {
				out = append(out, model.Element{Type: tag, Content: h})
			}
		default:
			if text := strings.TrimSpace(el.Text()); text != "" {
				out = append(out, model.Element{Type: tag, Content: text})
			}
		}
	})
	return out
}

// InlineMarkdown 把段落内的链接与代码转为 Markdown，图片与其余标签去除
func InlineMarkdown(sel *goquery.Selection) string {
	s := sel.Clone()
	s.Find("img").Remove()
	s.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if strings.TrimSpace(a.Text()) == "" {
			a.SetText(a.AttrOr("href", ""))
		}
	})
	inner, err := s.Html()
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	out, err := inlineConverter.ConvertString(inner)
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	return strings.TrimSpace(leftoverTags.ReplaceAllString(out, ""))
}
