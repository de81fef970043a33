package summarizer

import (
	"context"
	"fmt"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/llm"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
)

const maxPaperKeywords = 5

// Paper 翻译论文摘要并生成关键词
type Paper struct {
	base
}

func NewPaper(client llm.Client, workers int) *Paper {
	return &Paper{base: newBase(client, workers)}
}

// Summarize 翻译全部论文并写入 outPath
func (p *Paper) Summarize(ctx context.Context, papers []model.Paper, outPath string) ([]model.ZhPaper, error) {
	zh, err := fanOut(ctx, p.workers, papers, p.summarizeOne)
	if err != nil {
		return nil, err
	}
	if err := model.SaveJSON(outPath, zh); err != nil {
		return nil, err
	}
	return zh, nil
}

func (p *Paper) summarizeOne(ctx context.Context, paper model.Paper) (model.ZhPaper, error) {
	zh := model.ZhPaper{Paper: paper, ZhPublishedDate: textutil.PublishedDateToChinese(paper.PublishedDate)}

	var err error
	if zh.ZhAISummary, err = p.translate(ctx, paper.AISummary); err != nil {
		return zh, err
	}
	if zh.ZhAbstract, err = p.translate(ctx, paper.Abstract); err != nil {
		return zh, err
	}

	out, err := p.generate(ctx, fmt.Sprintf(promptPaperKeywords, paper.Title, paper.AISummary, paper.Abstract), defaultTemperature)
	if err != nil {
		return zh, fmt.Errorf("generate keywords failed: %w", err)
	}
	zh.Keywords = limit(llm.ParseStringList(out), maxPaperKeywords)
	logger.Log.Infof("论文翻译完成: %s", textutil.Truncate(paper.Title, 50))
	return zh, nil
}

func (p *Paper) translate(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}
	out, err := p.generate(ctx, fmt.Sprintf(promptAbstract, text), defaultTemperature)
	if err != nil {
		return "", fmt.Errorf("translate abstract failed: %w", err)
	}
	return out, nil
}
