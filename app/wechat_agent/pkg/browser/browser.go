package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
)

// Browser 浏览器抽象，爬虫只依赖该接口
type Browser interface {
	Open(ctx context.Context, url string) (Page, error)
	Close() error
}

// Page 已加载的页面
type Page interface {
	HTML() (string, error)
	ScrollBottom() error
	// ClickXPath 元素不存在或处于 disabled 状态时返回 false
	ClickXPath(xpath string) (bool, error)
	Screenshot(path string) error
	ScreenshotElement(selector, path string) error
	SetViewport(width, height int) error
	Close() error
}

// 隐藏 navigator.webdriver，避免被站点识别为自动化
const hideWebdriver = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

const clickXPathJS = `(xpath) => {
	const el = document.evaluate(xpath, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	if (!el || el.disabled || el.getAttribute('aria-disabled') === 'true') {
		return false;
	}
	el.click();
	return true;
}`

// Rod 基于 go-rod 的 Chrome 实现
type Rod struct {
	browser     *rod.Browser
	userAgent   string
	pageTimeout time.Duration
	settleWait  time.Duration
}

var _ Browser = (*Rod)(nil)

// NewRod 启动 Chrome 并建立 CDP 连接
func NewRod(cfg config.BrowserConfig, proxy config.ProxyConfig) (*Rod, error) {
	l := launcher.New().Headless(cfg.IsHeadless())
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	if proxy.Enabled && proxy.URL != "" {
		l = l.Proxy(proxy.URL)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome failed: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome failed: %w", err)
	}
	logger.Log.Infof("浏览器已启动: headless=%v", cfg.IsHeadless())

	return &Rod{
		browser:     b,
		userAgent:   cfg.UserAgent,
		pageTimeout: seconds(cfg.PageTimeout, 60),
		settleWait:  seconds(cfg.SettleWait, 0),
	}, nil
}

func seconds(n, def int) time.Duration {
	if n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Second
}

// Open 新建标签页并加载 url，加载完成后再等待 settle_wait
func (r *Rod) Open(ctx context.Context, url string) (Page, error) {
	p, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page failed: %w", err)
	}
	if _, err := p.EvalOnNewDocument(hideWebdriver); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("inject script failed: %w", err)
	}
	if r.userAgent != "" {
		if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: r.userAgent}); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("set user agent failed: %w", err)
		}
	}

	page := p.Context(ctx)
	if err := page.Timeout(r.pageTimeout).Navigate(url); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("navigate %s failed: %w", url, err)
	}
	if err := page.Timeout(r.pageTimeout).WaitLoad(); err != nil {
		logger.Log.Warnf("页面加载超时，继续解析: %s, %v", url, err)
	}
	if err := sleep(ctx, r.settleWait); err != nil {
		_ = p.Close()
		return nil, err
	}
	return &rodPage{page: page, settle: r.settleWait}, nil
}

func (r *Rod) Close() error {
	return r.browser.Close()
}

type rodPage struct {
	page   *rod.Page
	settle time.Duration
}

func (p *rodPage) HTML() (string, error) {
	return p.page.HTML()
}

func (p *rodPage) ScrollBottom() error {
	if _, err := p.page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	return sleep(p.page.GetContext(), time.Second)
}

func (p *rodPage) ClickXPath(xpath string) (bool, error) {
	res, err := p.page.Eval(clickXPathJS, xpath)
	if err != nil {
		return false, fmt.Errorf("click %s failed: %w", xpath, err)
	}
	if !res.Value.Bool() {
		return false, nil
	}
	return true, sleep(p.page.GetContext(), p.settle)
}

func (p *rodPage) Screenshot(path string) error {
	data, err := p.page.Screenshot(false, &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return writeFile(path, data)
}

func (p *rodPage) ScreenshotElement(selector, path string) error {
	el, err := p.page.Element(selector)
	if err != nil {
		return fmt.Errorf("element %s not found: %w", selector, err)
	}
	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return fmt.Errorf("screenshot %s failed: %w", selector, err)
	}
	return writeFile(path, data)
}

func (p *rodPage) SetViewport(width, height int) error {
	return p.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
}

func (p *rodPage) Close() error {
	return p.page.Close()
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
