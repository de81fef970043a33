package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
)

// EinoClient 基于 eino ChatModel 的实现
type EinoClient struct {
	chatModel   model.BaseChatModel
	limiter     *rate.Limiter
	temperature float32
}

var _ Client = (*EinoClient)(nil)

// NewEinoClient 初始化 OpenAI 兼容的 eino ChatModel
func NewEinoClient(ctx context.Context, cfg config.LLMConfig, limiter *rate.Limiter) (*EinoClient, error) {
	mc := &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	}
	if cfg.MaxTokens > 0 {
		maxTokens := cfg.MaxTokens
		mc.MaxTokens = &maxTokens
	}
	chatModel, err := openai.NewChatModel(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return newEinoClient(chatModel, limiter, cfg.Temperature), nil
}

func newEinoClient(cm model.BaseChatModel, limiter *rate.Limiter, temperature float32) *EinoClient {
	return &EinoClient{chatModel: cm, limiter: limiter, temperature: temperature}
}

// Generate 发送单轮对话并返回模型输出
func (c *EinoClient) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	o := applyOptions(c.temperature, opts)

	messages := make([]*schema.Message, 0, 2)
	if o.system != "" {
		messages = append(messages, &schema.Message{Role: schema.System, Content: o.system})
	}
	messages = append(messages, &schema.Message{Role: schema.User, Content: prompt})

	return withRetry(ctx, c.limiter, func() (string, error) {
		resp, err := c.chatModel.Generate(ctx, messages, model.WithTemperature(*o.temperature))
		if err != nil {
			return "", err
		}
		return resp.Content, nil
	})
}
