package htmlconv

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MarkdownImageFunc 处理第 n 张图片，返回 Markdown 中引用的地址
type MarkdownImageFunc func(src string, n int) string

// 这些块级元素整体转换，内部节点不再单独处理
var containerTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true,
	"ul": true, "ol": true, "table": true, "blockquote": true, "pre": true,
}

// ToMarkdown 按文档顺序遍历 root 的后代并生成 Markdown
func ToMarkdown(root *goquery.Selection, onImage MarkdownImageFunc) string {
	var b strings.Builder
	imgNo := 0

	root.Find("*").Each(func(_ int, el *goquery.Selection) {
		tag := goquery.NodeName(el)
		if tag != "img" && insideContainer(el, root) {
			return
		}
		if tag == "img" && insideTag(el, root, "pre", "table") {
			return
		}

		switch tag {
		case "p":
			if text := InlineMarkdown(el); text != "" {
				b.WriteString(text + "\n\n")
			}
		case "h1", "h2", "h3":
			level := int(tag[1] - '0')
			b.WriteString(strings.Repeat("#", level) + " " + InlineMarkdown(el) + "\n\n")
		case "ul", "ol":
			el.Find("li").Each(func(i int, li *goquery.Selection) {
				if tag == "ol" {
					fmt.Fprintf(&b, "%d. %s\n", i+1, InlineMarkdown(li))
				} else {
					b.WriteString("- " + InlineMarkdown(li) + "\n")
				}
			})
			b.WriteString("\n")
		case "table":
			writeTable(&b, el)
		case "img":
			src, _ := el.Attr("src")
			if src == "" {
				return
			}
			imgNo++
			ref := src
			if onImage != nil {
				ref = onImage(src, imgNo)
			}
			fmt.Fprintf(&b, "![image_%d.png](%s)\n\n", imgNo, ref)
		case "blockquote":
			b.WriteString("> " + InlineMarkdown(el) + "\n\n")
		case "pre":
			if code := strings.TrimSpace(el.Text()); code != "" {
				b.WriteString("```\n" + code + "\n```\n\n")
			}
		}
	})
	return strings.TrimSpace(b.String())
}

func writeTable(b *strings.Builder, table *goquery.Selection) {
	var headers []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})
	if len(headers) > 0 {
		sep := make([]string, len(headers))
		for i := range sep {
			sep[i] = "---"
		}
		b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
		b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) > 0 {
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
	})
	b.WriteString("\n")
}

// insideContainer el 在 root 之下是否有块级祖先
func insideContainer(el, root *goquery.Selection) bool {
	for p := el.Parent(); p.Length() > 0 && !p.IsSelection(root); p = p.Parent() {
		if containerTags[goquery.NodeName(p)] {
			return true
		}
	}
	return false
}

func insideTag(el, root *goquery.Selection, tags ...string) bool {
	for p := el.Parent(); p.Length() > 0 && !p.IsSelection(root); p = p.Parent() {
		name := goquery.NodeName(p)
		for _, t := range tags {
			if name == t {
				return true
			}
		}
	}
	return false
}
