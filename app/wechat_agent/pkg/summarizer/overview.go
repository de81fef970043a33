package summarizer

import (
	"context"
	"fmt"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/llm"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
)

const maxCompKeywords = 4

// Overview 生成比赛速览
type Overview struct {
	base
}

func NewOverview(client llm.Client, workers int) *Overview {
	return &Overview{base: newBase(client, workers)}
}

// Summarize 翻译比赛总览，comp 为列表页中的元信息
func (o *Overview) Summarize(ctx context.Context, ov *model.CompOverview, comp model.Competition) (*model.ZhOverview, error) {
	title := ov.Title
	if title == "" {
		title = comp.Name
	}

	keywords, err := o.keywords(ctx, title, ov)
	if err != nil {
		return nil, err
	}

	overview, description, err := o.normalize(ctx, ov.Overview, ov.Description)
	if err != nil {
		return nil, err
	}

	zh := &model.ZhOverview{
		Name:          title,
		Subtitle:      comp.Description,
		CompType:      comp.CompType,
		Keywords:      keywords,
		Host:          ov.Host,
		StartTime:     textutil.KaggleTimeToChinese(ov.StartTime),
		EndTime:       textutil.KaggleTimeToChinese(ov.EndTime),
		Participation: ov.Participation,
		URL:           comp.Link,
	}
	if zh.URL == "" {
		zh.URL = ov.URL
	}

	sections := []struct {
		name string
		in   []model.Element
		out  *[]model.Element
	}{
		{"竞赛总览", overview, &zh.Overview},
		{"详细描述", description, &zh.Description},
		{"评估指标", ov.Evaluation, &zh.Evaluation},
		{"时间线", ov.Timeline, &zh.Timeline},
		{"奖金", ov.Prize, &zh.Prize},
	}
	for _, s := range sections {
		if len(s.in) == 0 {
			*s.out = []model.Element{}
			continue
		}
		translated, err := o.translateElements(ctx, s.in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		*s.out = translated
		logger.Log.Infof("[%s] 翻译完成，共 %d 段", s.name, len(translated))
	}
	return zh, nil
}

func (o *Overview) keywords(ctx context.Context, title string, ov *model.CompOverview) ([]string, error) {
	prompt := fmt.Sprintf(promptCompKeywords, title,
		orDefault(joinContent(ov.Overview), "暂无详细比赛总览"),
		orDefault(joinContent(ov.Description), "暂无比赛描述"),
		orDefault(joinContent(ov.Evaluation), "暂无评估指标"))
	out, err := o.generate(ctx, prompt, defaultTemperature)
	if err != nil {
		return nil, fmt.Errorf("generate keywords failed: %w", err)
	}
	list := llm.ParseStringList(out)
	if list == nil {
		logger.Log.Warnf("关键词解析失败: %s", out)
	}
	return limit(list, maxCompKeywords), nil
}

// normalize 处理总览与描述缺失的情况
// 只有总览时，原总览作为描述，总览改为总结；总览多段时做总结；只有描述时从描述总结出总览
func (o *Overview) normalize(ctx context.Context, overview, description []model.Element) ([]model.Element, []model.Element, error) {
	var prompt, source string
	switch {
	case len(overview) > 0 && len(description) == 0:
		description = overview
		prompt, source = promptSummaryFromDescription, joinContent(overview)
	case len(overview) > 1:
		prompt, source = promptSummaryOverview, joinContent(overview)
	case len(overview) == 0 && len(description) > 0:
		prompt, source = promptSummaryFromDescription, joinContent(description)
	default:
		return overview, description, nil
	}

	summary, err := o.generate(ctx, fmt.Sprintf(prompt, source), defaultTemperature)
	if err != nil {
		return nil, nil, fmt.Errorf("summarize overview failed: %w", err)
	}
	return []model.Element{{Type: "p", Content: summary}}, description, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
