package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
)

const defaultBaseURL = "https://api.weixin.qq.com"

// access_token 无效或过期时返回的 errcode
var tokenErrCodes = []int{40001, 40014, 42001}

// APIError 微信接口返回的非零 errcode
type APIError struct {
	Code    int    `json:"errcode"`
	Message string `json:"errmsg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wechat api error %d: %s", e.Code, e.Message)
}

// Client 公众号 API 客户端
type Client struct {
	appID   string
	secret  string
	baseURL string
	client  *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewClient 创建客户端，微信接口不走代理
func NewClient(cfg config.WeChatConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		appID:   cfg.AppID,
		secret:  cfg.AppSecret,
		baseURL: base,
		client:  &http.Client{Transport: &http.Transport{Proxy: nil}, Timeout: 60 * time.Second},
		now:     time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// AccessToken 获取 access_token，在过期前 5 分钟内复用缓存
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiresAt) {
		return c.token, nil
	}

	q := url.Values{}
	q.Set("grant_type", "client_credential")
	q.Set("appid", c.appID)
	q.Set("secret", c.secret)

	var resp tokenResponse
	if err := c.do(ctx, http.MethodGet, "/cgi-bin/token?"+q.Encode(), nil, "", &resp); err != nil {
		return "", fmt.Errorf("get access token failed: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("get access token failed: empty token")
	}

	expiresIn := resp.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 7200
	}
	c.token = resp.AccessToken
	c.expiresAt = c.now().Add(time.Duration(expiresIn)*time.Second - 5*time.Minute)
	logger.Log.Infof("Access Token 获取成功，有效期 %d 秒", expiresIn)
	return c.token, nil
}

// withToken 携带 access_token 调用 fn，token 失效时刷新并重试一次
func (c *Client) withToken(ctx context.Context, fn func(token string) error) error {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return err
	}
	err = fn(token)
	if !isTokenError(err) {
		return err
	}
	logger.Log.Warnf("access_token 已失效，重新获取: %v", err)
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	if token, err = c.AccessToken(ctx); err != nil {
		return err
	}
	return fn(token)
}

func isTokenError(err error) bool {
	for _, code := range tokenErrCodes {
		if IsAPIError(err, code) {
			return true
		}
	}
	return false
}

// do 发送请求并解析响应，errcode 非零时返回 *APIError
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read body failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("wechat api error (status %d): %s", res.StatusCode, string(data))
	}

	var apiErr APIError
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Code != 0 {
		return &apiErr
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response failed: %w", err)
	}
	return nil
}

// marshalNoEscape 正文 HTML 需原样提交，不能转义 < > &
func marshalNoEscape(v any) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return &buf, nil
}

// IsAPIError 判断 err 是否为指定 errcode 的微信错误，code 为 0 时匹配任意 errcode
func IsAPIError(err error, code int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return code == 0 || apiErr.Code == code
}
