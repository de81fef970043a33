// Package browsertest 提供以固定 HTML 快照响应的 browser.Browser
package browsertest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/browser"
)

// Static Pages 的 key 为 url，值为页面快照。
// 只有点击 NextXPath 会切换到下一个快照，其他 xpath 视为元素不存在
type Static struct {
	mu        sync.Mutex
	Pages     map[string][]string
	NextXPath string
	Opened    []string
	Clicked   []string
}

var _ browser.Browser = (*Static)(nil)

func (s *Static) Open(ctx context.Context, url string) (browser.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snaps, ok := s.Pages[url]
	if !ok || len(snaps) == 0 {
		return nil, fmt.Errorf("navigate %s failed: no such page", url)
	}
	s.Opened = append(s.Opened, url)
	return &staticPage{owner: s, snaps: snaps}, nil
}

func (s *Static) Close() error { return nil }

type staticPage struct {
	owner *Static
	snaps []string
	cur   int
}

func (p *staticPage) HTML() (string, error) { return p.snaps[p.cur], nil }

func (p *staticPage) ScrollBottom() error { return nil }

// ClickXPath 最后一个快照上的下一页按钮视为 disabled
func (p *staticPage) ClickXPath(xpath string) (bool, error) {
	p.owner.mu.Lock()
	p.owner.Clicked = append(p.owner.Clicked, xpath)
	p.owner.mu.Unlock()

	if xpath != p.owner.NextXPath || p.cur+1 >= len(p.snaps) {
		return false, nil
	}
	p.cur++
	return true, nil
}

func (p *staticPage) Screenshot(path string) error {
	return writeFile(path, []byte(p.snaps[p.cur]))
}

func (p *staticPage) ScreenshotElement(_, path string) error {
	return writeFile(path, []byte(p.snaps[p.cur]))
}

func (p *staticPage) SetViewport(int, int) error { return nil }

func (p *staticPage) Close() error { return nil }

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
