package summarizer

import (
	"context"
	"fmt"
	"os"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/llm"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
)

const maxCoreTechniques = 5

// Solution 总结高分方案
type Solution struct {
	base
}

func NewSolution(client llm.Client, workers int) *Solution {
	return &Solution{base: newBase(client, workers)}
}

// Summarize 返回结构化总结，输出无法解析时 Raw 保留原文
func (s *Solution) Summarize(ctx context.Context, markdown string) (model.SolutionSummary, error) {
	out, err := s.generate(ctx, fmt.Sprintf(promptSolution, markdown), solutionTemperature)
	if err != nil {
		return model.SolutionSummary{}, fmt.Errorf("summarize solution failed: %w", err)
	}
	var summary model.SolutionSummary
	if err := llm.ParseJSONOutput(out, &summary); err != nil {
		logger.Log.Warnf("方案总结解析失败，保留原始输出: %v", err)
		return model.SolutionSummary{Raw: out}, nil
	}
	if len(summary.CoreTechniques) > maxCoreTechniques {
		summary.CoreTechniques = summary.CoreTechniques[:maxCoreTechniques]
	}
	return summary, nil
}

// SummarizeTop 逐篇总结 top 方案并写入 outPath
func (s *Solution) SummarizeTop(ctx context.Context, top []model.TopSolution, outPath string) ([]model.SolutionEntry, error) {
	entries, err := fanOut(ctx, s.workers, top, func(ctx context.Context, t model.TopSolution) (model.SolutionEntry, error) {
		content, err := os.ReadFile(t.Path)
		if err != nil {
			return model.SolutionEntry{}, err
		}
		summary, err := s.Summarize(ctx, string(content))
		if err != nil {
			return model.SolutionEntry{}, err
		}
		logger.Log.Infof("方案总结完成: %s (Rank %d)", t.Name, t.Rank)
		return model.SolutionEntry{
			Title:             t.Name,
			Rank:              t.Rank,
			URL:               t.URL,
			DiscussionContent: string(content),
			Summary:           summary,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	if err := model.SaveJSON(outPath, entries); err != nil {
		return nil, err
	}
	return entries, nil
}
