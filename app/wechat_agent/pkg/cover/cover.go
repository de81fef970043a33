package cover

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/browser"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
)

//go:embed templates/*.html
var templates embed.FS

// 封面视口，与公众号头图 2.35:1 一致
const (
	Width  = 900
	Height = 383
)

// 封面类型
const (
	KindCompExpress  = "comp_express"
	KindCompReview   = "comp_review"
	KindPaperExpress = "paper_express"
	KindAppExpress   = "app_express"
)

var labels = map[string]string{
	KindCompExpress:  "Kaggle竞赛速递",
	KindCompReview:   "Kaggle竞赛复盘",
	KindPaperExpress: "HF论文速递",
	KindAppExpress:   "ProductHunt产品速递",
}

// CoverData 封面模板字段，周报只需要 Year 与 Week
type CoverData struct {
	Year     int
	Week     string
	Title    string
	Host     string
	Keywords []string
}

type coverView struct {
	CoverData
	Label      string
	WeekNumber int
	Keywords   string
	Weekly     bool
}

// Maker 渲染 HTML 封面模板并通过浏览器截图生成 PNG
type Maker struct {
	browser browser.Browser
	tpl     *template.Template
}

func NewMaker(b browser.Browser) (*Maker, error) {
	tpl, err := template.ParseFS(templates, "templates/cover.html")
	if err != nil {
		return nil, fmt.Errorf("parse cover template failed: %w", err)
	}
	return &Maker{browser: b, tpl: tpl}, nil
}

// HTMLPath 封面 HTML 与 PNG 放在同一目录
func HTMLPath(outPath string) string {
	return filepath.Join(filepath.Dir(outPath), "cover.html")
}

// Make 生成 kind 类型的封面并截图到 outPath
func (m *Maker) Make(ctx context.Context, kind string, data CoverData, outPath string) error {
	label, ok := labels[kind]
	if !ok {
		return fmt.Errorf("unknown cover kind: %s", kind)
	}

	var buf bytes.Buffer
	err := m.tpl.Execute(&buf, coverView{
		CoverData:  data,
		Label:      label,
		WeekNumber: textutil.WeekNumber(data.Week),
		Keywords:   textutil.JoinKeywords(data.Keywords, "、"),
		Weekly:     kind == KindPaperExpress || kind == KindAppExpress,
	})
	if err != nil {
		return fmt.Errorf("render cover failed: %w", err)
	}

	htmlPath, err := filepath.Abs(HTMLPath(outPath))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(htmlPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(htmlPath, buf.Bytes(), 0o644); err != nil {
		return err
	}

	page, err := m.browser.Open(ctx, "file://"+filepath.ToSlash(htmlPath))
	if err != nil {
		return err
	}
	defer page.Close()

	if err := page.SetViewport(Width, Height); err != nil {
		return err
	}
	if err := page.ScreenshotElement("#cover", outPath); err != nil {
		return fmt.Errorf("screenshot cover failed: %w", err)
	}
	logger.Log.Infof("[封面图] 制作完成: %s", outPath)
	return nil
}
