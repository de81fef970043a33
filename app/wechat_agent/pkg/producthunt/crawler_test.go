package producthunt

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/browser/browsertest"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/wechat"
)

type fakePublisher struct {
	paths []string
	fail  string
}

func (f *fakePublisher) PublishURL(_ context.Context, srcURL, localPath string) (*wechat.Material, error) {
	if f.fail != "" && strings.Contains(srcURL, f.fail) {
		return nil, errors.New("upload failed")
	}
	f.paths = append(f.paths, localPath)
	return &wechat.Material{MediaID: "m", URL: "http://mmbiz.qpic.cn/" + filepath.Base(localPath)}, nil
}

func TestCrawler_CrawlList(t *testing.T) {
	b := &browsertest.Static{Pages: map[string][]string{
		WeekURL(2025, "W26"): {fixture(t, "product_list.html")},
	}}
	pub := &fakePublisher{fail: "notion"}
	dir := t.TempDir()

	products, err := NewCrawler(b, pub).CrawlList(context.Background(), 2025, "W26", 3, dir)
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, filepath.Join(dir, "1_cursor_10", "app_icon.png"), products[0].IconLocalPath)
	assert.Equal(t, "http://mmbiz.qpic.cn/app_icon.png", products[0].IconUploadURL)
	assert.Empty(t, products[2].IconUploadURL)
	assert.Len(t, pub.paths, 2)

	var saved []model.Product
	require.NoError(t, model.LoadJSON(filepath.Join(dir, "software_list_26.json"), &saved))
	assert.Len(t, saved, 3)
}

func TestCrawler_CrawlDetails(t *testing.T) {
	b := &browsertest.Static{Pages: map[string][]string{
		"https://www.producthunt.com/posts/cursor-1-0": {fixture(t, "product_detail.html")},
	}}
	pub := &fakePublisher{fail: "g2.png"}
	dir := t.TempDir()

	in := []model.Product{
		{Index: 1, Title: "Cursor 1.0", ProductHuntURL: "https://www.producthunt.com/posts/cursor-1-0"},
		{Index: 2, Title: "Gone", ProductHuntURL: "https://www.producthunt.com/posts/gone"},
	}
	out, err := NewCrawler(b, pub).CrawlDetails(context.Background(), in, dir)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "5,210", out[0].Fans)
	assert.Len(t, out[0].ImageURLs, 2)
	assert.Equal(t, []string{"http://mmbiz.qpic.cn/0.png"}, out[0].ImagesUploadURL)
	assert.FileExists(t, filepath.Join(dir, "1_cursor_10", "software_details.json"))
	assert.FileExists(t, filepath.Join(dir, "all_software_details.json"))
}
