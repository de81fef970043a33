package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
)

// Client 定义通用的 LLM 调用接口
type Client interface {
	Generate(ctx context.Context, prompt string, opts ...Option) (string, error)
}

// Option 单次调用选项
type Option func(*options)

type options struct {
	temperature *float32
	system      string
}

// WithTemperature 覆盖本次调用的温度
func WithTemperature(t float32) Option {
	return func(o *options) { o.temperature = &t }
}

// WithSystem 为本次调用附加 system 消息
func WithSystem(s string) Option {
	return func(o *options) { o.system = s }
}

func applyOptions(defaultTemp float32, opts []Option) options {
	o := options{temperature: &defaultTemp}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewLimiter 按 RPM/QPS 创建限流器
func NewLimiter(cfg config.ConcurrencyConfig) *rate.Limiter {
	rpm, qps := cfg.RPM, cfg.QPS
	if rpm <= 0 {
		rpm = 60
	}
	if qps <= 0 {
		qps = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), qps)
}

// NewClient 根据配置创建 LLM 客户端
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("llm api key is missing")
	}
	limiter := NewLimiter(cfg.Concurrency)

	switch cfg.LLM.Provider {
	case "", "eino":
		return NewEinoClient(ctx, cfg.LLM, limiter)
	case "go-openai":
		return NewOpenAIClient(cfg.LLM, limiter), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
}

const maxRetries = 3

// baseDelay 测试中会调小
var baseDelay = 2 * time.Second

// withRetry 每次尝试前等待限流器，仅对 429 类错误做指数退避重试
func withRetry(ctx context.Context, limiter *rate.Limiter, call func() (string, error)) (string, error) {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		out, err := call()
		if err == nil {
			return out, nil
		}
		if !isRateLimited(err) {
			return "", err
		}
		lastErr = err
		if i < maxRetries {
			delay := baseDelay * time.Duration(1<<i)
			logger.Log.Warnf("LLM 触发限流，%v 后重试 (%d/%d)", delay, i+1, maxRetries)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return "", fmt.Errorf("llm retries exhausted: %w", lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}
