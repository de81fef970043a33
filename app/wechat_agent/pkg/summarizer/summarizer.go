// Package summarizer 调用 LLM 将爬取的英文内容翻译、总结为中文
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/llm"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
)

const (
	defaultTemperature  = 0.15
	solutionTemperature = 0.7
)

type base struct {
	client  llm.Client
	workers int
}

func newBase(client llm.Client, workers int) base {
	if workers < 1 {
		workers = 1
	}
	return base{client: client, workers: workers}
}

func (b base) generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	out, err := b.client.Generate(ctx, prompt, llm.WithTemperature(temperature))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// fanOut 以 workers 为上限并发执行 fn，结果按输入顺序返回
func fanOut[T, R any](ctx context.Context, workers int, in []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range in {
		i, item := i, item
		g.Go(func() error {
			r, err := fn(ctx, item)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// translateElements 按类型翻译内容块
func (b base) translateElements(ctx context.Context, elems []model.Element) ([]model.Element, error) {
	return fanOut(ctx, b.workers, elems, b.translateElement)
}

func (b base) translateElement(ctx context.Context, e model.Element) (model.Element, error) {
	var prompt string
	switch e.Type {
	case "table", "image", "pre", "h1", "h2":
		return e, nil
	case "ol":
		prompt = promptOrderedList
	case "ul":
		prompt = promptUnorderedList
	default:
		if e.Content == "" || isDisplayMath(e.Content) {
			return e, nil
		}
		prompt = promptParagraph
	}
	zh, err := b.generate(ctx, fmt.Sprintf(prompt, e.Content), defaultTemperature)
	if err != nil {
		return e, fmt.Errorf("translate %s failed: %w", e.Type, err)
	}
	return model.Element{Type: e.Type, Content: zh}, nil
}

// isDisplayMath 整段只有一个 $...$ 行间公式
func isDisplayMath(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, "$") && strings.HasSuffix(s, "$") &&
		!strings.Contains(s[1:len(s)-1], "$")
}

func joinContent(elems []model.Element) string {
	var sb strings.Builder
	for _, e := range elems {
		if e.Content != "" {
			sb.WriteString(e.Content)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func limit(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
