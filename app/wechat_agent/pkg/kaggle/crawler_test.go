package kaggle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/browser/browsertest"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/wechat"
)

type fakePublisher struct{ paths []string }

func (f *fakePublisher) PublishURL(ctx context.Context, srcURL, localPath string) (*wechat.Material, error) {
	f.paths = append(f.paths, localPath)
	return &wechat.Material{MediaID: "m", URL: "http://mmbiz.qpic.cn/" + filepath.Base(localPath)}, nil
}

type fakeDownloader struct{ fail bool }

func (f *fakeDownloader) Download(ctx context.Context, rawURL, path string) error {
	if f.fail {
		return errors.New("timeout")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("img"), 0o644)
}

func newTestCrawler(t *testing.T, pages map[string][]string, dl *fakeDownloader) (*Crawler, *fakePublisher) {
	t.Helper()
	pub := &fakePublisher{}
	c := NewCrawler(&browsertest.Static{Pages: pages, NextXPath: xpathNextPage}, pub, dl)
	c.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return c, pub
}

func TestCrawler_CrawlList(t *testing.T) {
	pages := map[string][]string{CompetitionURL: {
		fixture(t, "competitions_page1.html"),
		fixture(t, "competitions_page2.html"),
	}}

	c, _ := newTestCrawler(t, pages, &fakeDownloader{})
	list, err := c.CrawlList(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "20250601", list[3].CurrentDate)
	b := c.browser.(*browsertest.Static)
	assert.Equal(t, []string{xpathListViewButton, xpathNextPage, xpathNextPage}, b.Clicked)

	c, _ = newTestCrawler(t, pages, &fakeDownloader{})
	list, err = c.CrawlList(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 3)
}

func TestCrawler_CrawlOverview(t *testing.T) {
	url := "https://www.kaggle.com/competitions/drw-crypto-market-prediction"
	c, pub := newTestCrawler(t, map[string][]string{url: {fixture(t, "overview.html")}}, &fakeDownloader{})

	dir := t.TempDir()
	ov, err := c.CrawlOverview(context.Background(), url, filepath.Join(dir, "images"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "images", "0.png")}, pub.paths)
	assert.Equal(t, "http://mmbiz.qpic.cn/0.png", ov.Description[1].Content)
}

func TestCrawler_CrawlDiscussions(t *testing.T) {
	comp := "https://www.kaggle.com/competitions/image-matching-challenge-2025"
	base := comp + "/discussion?sort=published&page="
	pages := map[string][]string{
		base + "1": {fixture(t, "discussions_page1.html")},
		base + "2": {fixture(t, "discussions_page2.html")},
		base + "3": {fixture(t, "discussions_page3.html")},
	}
	c, _ := newTestCrawler(t, pages, &fakeDownloader{})

	items, title, err := c.CrawlDiscussions(context.Background(), comp, 5)
	require.NoError(t, err)
	assert.Equal(t, "Image Matching Challenge 2025", title)
	assert.Len(t, items, 3)
}

func TestCrawler_CrawlDiscussionDetail(t *testing.T) {
	url := "https://www.kaggle.com/competitions/image-matching-challenge-2025/discussion/583401"
	dir := filepath.Join(t.TempDir(), DiscussionDetailsDir, "1st_place_solution")
	c, _ := newTestCrawler(t, map[string][]string{url: {fixture(t, "discussion_detail.html")}}, &fakeDownloader{})

	_, err := c.CrawlDiscussionDetail(context.Background(), url, dir)
	require.NoError(t, err)

	md, err := os.ReadFile(filepath.Join(dir, DiscussionFile))
	require.NoError(t, err)
	assert.Contains(t, string(md), "![image_1.png](images/image_1.png)")
	assert.FileExists(t, filepath.Join(dir, "images", "image_1.png"))
	assert.FileExists(t, filepath.Join(dir, "img_name2scr_dict.json"))
}

func TestCrawler_CrawlDiscussionDetail_DownloadFallback(t *testing.T) {
	url := "https://www.kaggle.com/competitions/image-matching-challenge-2025/discussion/583401"
	root := t.TempDir()
	c, _ := newTestCrawler(t, map[string][]string{url: {fixture(t, "discussion_detail.html")}}, &fakeDownloader{fail: true})

	d, err := c.CrawlDiscussionDetail(context.Background(), url, root)
	require.NoError(t, err)
	assert.True(t, strings.Contains(d.Markdown, "![image_1.png](https://www.googleapis.com/download/storage/v1/b/kaggle-forum/pipeline.png)"))
}

func TestCrawler_CrawlDiscussionDetail_NoRank(t *testing.T) {
	url := "https://www.kaggle.com/competitions/x/discussion/1"
	root := t.TempDir()
	c, _ := newTestCrawler(t, map[string][]string{url: {fixture(t, "discussion_norank.html")}}, &fakeDownloader{})

	_, err := c.CrawlDiscussionDetail(context.Background(), url, filepath.Join(root, "no_rank"))
	assert.ErrorIs(t, err, ErrNoRank)
	entries, _ := os.ReadDir(root)
	assert.Empty(t, entries)
}
