package llm

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
)

// OpenAIClient 基于 go-openai 的实现
type OpenAIClient struct {
	client      *goopenai.Client
	model       string
	maxTokens   int
	temperature float32
	limiter     *rate.Limiter
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient 创建 go-openai 客户端，BaseURL 为空时使用官方地址
func NewOpenAIClient(cfg config.LLMConfig, limiter *rate.Limiter) *OpenAIClient {
	oc := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		client:      goopenai.NewClientWithConfig(oc),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		limiter:     limiter,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	o := applyOptions(c.temperature, opts)

	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if o.system != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: o.system})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: prompt})

	return withRetry(ctx, c.limiter, func() (string, error) {
		resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: *o.temperature,
			MaxTokens:   c.maxTokens,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty completion")
		}
		return resp.Choices[0].Message.Content, nil
	})
}
