package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
)

// Fetcher 获取网页或文件内容
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Downloader 带代理、UA 与重试的 HTTP 下载器
type Downloader struct {
	client    *http.Client
	userAgent string
	attempts  int
}

var _ Fetcher = (*Downloader)(nil)

// retryDelay 测试中会调小
var retryDelay = time.Second

// NewDownloader 根据浏览器与代理配置创建下载器
func NewDownloader(bc config.BrowserConfig, pc config.ProxyConfig) (*Downloader, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if pc.Enabled && pc.URL != "" {
		u, err := url.Parse(pc.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(u)
	}
	ua := bc.UserAgent
	if ua == "" {
		ua = config.DefaultUserAgent
	}
	return &Downloader{
		client:    &http.Client{Transport: transport, Timeout: 60 * time.Second},
		userAgent: ua,
		attempts:  3,
	}, nil
}

// Get 请求 url，网络错误与 5xx 会重试
func (d *Downloader) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for i := 0; i < d.attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay * time.Duration(i)):
			}
		}
		body, retry, err := d.get(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			break
		}
		logger.Log.Warnf("下载失败，准备重试 (%d/%d): %s, %v", i+1, d.attempts, rawURL, err)
	}
	return nil, lastErr
}

func (d *Downloader) get(ctx context.Context, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("send request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500, fmt.Errorf("api returned status %d: %s", resp.StatusCode, rawURL)
	}
	return body, false, nil
}

// Download 下载到本地文件，自动创建父目录
func (d *Downloader) Download(ctx context.Context, rawURL, path string) error {
	body, err := d.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir failed: %w", err)
	}
	return os.WriteFile(path, body, 0o644)
}

// WebsiteText 提取网页正文，readability 失败时拼接全部 <p> 文本，按 limit 截断
func WebsiteText(ctx context.Context, f Fetcher, rawURL string, limit int) (string, error) {
	body, err := f.Get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	body = toUTF8(body)
	pageURL, _ := url.Parse(rawURL)

	text := ""
	if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
		text = strings.TrimSpace(article.TextContent)
	}
	if text == "" {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("parse html failed: %w", err)
		}
		var parts []string
		doc.Find("p").Each(func(_ int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		text = strings.Join(parts, "\n")
	}
	return textutil.Truncate(text, limit), nil
}

// toUTF8 按 meta 声明或内容嗅探转换编码，失败时保持原样
func toUTF8(body []byte) []byte {
	r, err := charset.NewReader(bytes.NewReader(body), "")
	if err != nil {
		return body
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return out
}
