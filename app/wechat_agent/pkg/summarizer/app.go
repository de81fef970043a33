package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/fetch"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/llm"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
)

// 官网正文截断长度
const websiteTextLimit = 5000

type appFields struct {
	SentenceDescription string   `json:"sentence_description"`
	Tags                []string `json:"tags"`
	ContentDescription  string   `json:"content_description"`
}

// App 翻译产品信息并结合官网内容生成总结
type App struct {
	base
	fetcher fetch.Fetcher
}

func NewApp(client llm.Client, fetcher fetch.Fetcher, workers int) *App {
	return &App{base: newBase(client, workers), fetcher: fetcher}
}

// Summarize 处理全部产品并写入 outPath
func (a *App) Summarize(ctx context.Context, products []model.Product, outPath string) ([]model.ZhProduct, error) {
	zh, err := fanOut(ctx, a.workers, products, a.summarizeOne)
	if err != nil {
		return nil, err
	}
	if err := model.SaveJSON(outPath, zh); err != nil {
		return nil, err
	}
	return zh, nil
}

func (a *App) summarizeOne(ctx context.Context, p model.Product) (model.ZhProduct, error) {
	zh := model.ZhProduct{Product: p}

	fields, err := a.translate(ctx, p)
	if err != nil {
		return zh, err
	}
	zh.ZhSentenceDescription = fields.SentenceDescription
	zh.ZhTags = fields.Tags
	zh.ZhContentDescription = fields.ContentDescription

	var website string
	if p.Website != "" {
		if website, err = fetch.WebsiteText(ctx, a.fetcher, p.Website, websiteTextLimit); err != nil {
			logger.Log.Warnf("获取官网内容失败: %s, %v", p.Website, err)
		}
	}
	prompt := fmt.Sprintf(promptAppSummary, p.Title, p.SentenceDescription, p.ContentDescription, website)
	if zh.ZhSummary, err = a.generate(ctx, prompt, defaultTemperature); err != nil {
		return zh, fmt.Errorf("summarize app failed: %w", err)
	}
	logger.Log.Infof("产品总结完成: %s", p.Title)
	return zh, nil
}

// translate 输出无法解析时返回空字段
func (a *App) translate(ctx context.Context, p model.Product) (appFields, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	if err := enc.Encode(appFields{SentenceDescription: p.SentenceDescription, Tags: tags, ContentDescription: p.ContentDescription}); err != nil {
		return appFields{}, err
	}

	out, err := a.generate(ctx, fmt.Sprintf(promptAppTranslate, buf.String()), defaultTemperature)
	if err != nil {
		return appFields{}, fmt.Errorf("translate app failed: %w", err)
	}
	var fields appFields
	if err := llm.ParseJSONOutput(out, &fields); err != nil {
		logger.Log.Warnf("产品翻译解析失败: %s, %v", p.Title, err)
		return appFields{Tags: []string{}}, nil
	}
	return fields, nil
}
