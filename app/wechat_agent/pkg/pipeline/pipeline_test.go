package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/cover"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/kaggle"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/storage"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/wechat"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakePrompter 按顺序返回 answers，Confirm 统一返回 confirm
type fakePrompter struct {
	mu      sync.Mutex
	confirm bool
	answers []string
	asked   []string
}

func (f *fakePrompter) Confirm(q string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked = append(f.asked, q)
	return f.confirm
}

func (f *fakePrompter) Ask(q string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked = append(f.asked, q)
	if len(f.answers) == 0 {
		return ""
	}
	a := f.answers[0]
	f.answers = f.answers[1:]
	return a
}

type fakeKaggle struct {
	list        []model.Competition
	discussions []model.Discussion
	// details 帖子链接 -> 排名，0 表示无排名
	details map[string]int
	crawled []string
}

func (f *fakeKaggle) CrawlList(context.Context, int) ([]model.Competition, error) {
	return f.list, nil
}

func (f *fakeKaggle) CrawlOverview(_ context.Context, url, _ string) (*model.CompOverview, error) {
	return &model.CompOverview{URL: url, Title: "Image Matching Challenge 2025", Host: "Kaggle"}, nil
}

func (f *fakeKaggle) CrawlDiscussions(context.Context, string, int) ([]model.Discussion, string, error) {
	return f.discussions, "Image Matching Challenge 2025", nil
}

func (f *fakeKaggle) CrawlDiscussionDetail(_ context.Context, url, dir string) (*model.DiscussionDetail, error) {
	f.crawled = append(f.crawled, url)
	rank := f.details[url]
	if rank == 0 {
		return nil, kaggle.ErrNoRank
	}
	title := fmt.Sprintf("%d Place Solution", rank)
	md := fmt.Sprintf("# %s\n\n**Author Rank**: %dST\n\n**Link**: %s\n\n正文", title, rank, url)
	if err := os.MkdirAll(filepath.Join(dir, "images"), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, kaggle.DiscussionFile), []byte(md), 0o644); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, "images", "image_1.png"), []byte("png"), 0o644); err != nil {
		return nil, err
	}
	images := map[string]string{"image_1.png": "https://kaggle.com/a.png", "image_2.png": "https://kaggle.com/b.png"}
	return &model.DiscussionDetail{Title: title}, model.SaveJSON(filepath.Join(dir, "img_name2scr_dict.json"), images)
}

type fakeOverview struct{}

func (fakeOverview) Summarize(_ context.Context, ov *model.CompOverview, comp model.Competition) (*model.ZhOverview, error) {
	return &model.ZhOverview{
		Name:     comp.Name,
		Host:     ov.Host,
		Keywords: []string{"三维重建", "图像匹配"},
		URL:      comp.Link,
		Overview: []model.Element{{Type: "p", Content: "比赛总览"}},
	}, nil
}

type fakeSolution struct{}

func (fakeSolution) SummarizeTop(_ context.Context, top []model.TopSolution, outPath string) ([]model.SolutionEntry, error) {
	var out []model.SolutionEntry
	for _, t := range top {
		out = append(out, model.SolutionEntry{
			Title: t.Name, Rank: t.Rank, URL: t.URL,
			Summary: model.SolutionSummary{SolutionDescription: "方案介绍 " + t.Name},
		})
	}
	return out, model.SaveJSON(outPath, out)
}

type fakeCover struct {
	kinds []string
	data  []cover.CoverData
}

func (f *fakeCover) Make(_ context.Context, kind string, data cover.CoverData, outPath string) error {
	f.kinds = append(f.kinds, kind)
	f.data = append(f.data, data)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte("png"), 0o644)
}

type fakePublisher struct {
	files []string
	urls  []string
	fail  string
}

func (f *fakePublisher) PublishURL(_ context.Context, src, localPath string) (*wechat.Material, error) {
	if f.fail != "" && strings.Contains(src, f.fail) {
		return nil, errors.New("download failed")
	}
	f.urls = append(f.urls, src)
	return &wechat.Material{MediaID: "mid_url", URL: "http://mmbiz.qpic.cn/" + filepath.Base(localPath)}, nil
}

func (f *fakePublisher) PublishFile(_ context.Context, path string, _ wechat.UploadOptions) (*wechat.Material, error) {
	f.files = append(f.files, path)
	base := filepath.Base(path)
	return &wechat.Material{MediaID: "mid_" + base, URL: "http://mmbiz.qpic.cn/" + base}, nil
}

type fakeDrafts struct {
	articles []wechat.Article
}

func (f *fakeDrafts) AddDraft(_ context.Context, a wechat.Article) (string, error) {
	f.articles = append(f.articles, a)
	return fmt.Sprintf("draft_%d", len(f.articles)), nil
}

type fakeStore struct {
	records []storage.DraftRecord
}

func (f *fakeStore) RecordDraft(_ context.Context, rec *storage.DraftRecord) error {
	f.records = append(f.records, *rec)
	return nil
}

type testEnv struct {
	pipeline  *Pipeline
	prompter  *fakePrompter
	kaggle    *fakeKaggle
	cover     *fakeCover
	publisher *fakePublisher
	drafts    *fakeDrafts
	store     *fakeStore
	out       config.OutputConfig
}

func newTestEnv(t *testing.T, answers ...string) *testEnv {
	t.Helper()
	root := t.TempDir()
	out := config.OutputConfig{
		Root:         root,
		CompExpress:  filepath.Join(root, "comp_express"),
		CompReview:   filepath.Join(root, "comp_review"),
		PaperExpress: filepath.Join(root, "paper_express"),
		AppExpress:   filepath.Join(root, "app_express"),
	}
	env := &testEnv{
		prompter: &fakePrompter{answers: answers},
		kaggle: &fakeKaggle{list: []model.Competition{
			{Name: "Old Comp", Link: "https://www.kaggle.com/competitions/old", LeaveTime: "2 months ago", CompReward: "$10,000"},
			{Name: "Image Matching Challenge 2025", Link: "https://www.kaggle.com/competitions/image-matching-challenge-2025", LeaveTime: "2 months to go", CompReward: "$50,000"},
			{Name: "Playground", Link: "https://www.kaggle.com/competitions/playground", LeaveTime: "1 month to go", CompReward: "Swag"},
		}},
		cover:     &fakeCover{},
		publisher: &fakePublisher{},
		drafts:    &fakeDrafts{},
		store:     &fakeStore{},
		out:       out,
	}
	deps := Deps{
		Kaggle:    env.kaggle,
		Overview:  fakeOverview{},
		Solution:  fakeSolution{},
		Cover:     env.cover,
		Publisher: env.publisher,
		Drafts:    env.drafts,
		Store:     env.store,
	}
	env.pipeline = New(deps, NewWorkspace(out), env.prompter, map[string]string{
		cover.KindCompExpress:  "宅小K",
		cover.KindCompReview:   "宅小K",
		cover.KindPaperExpress: "宅小P",
		cover.KindAppExpress:   "宅小A",
	})
	return env
}

func TestRunner_SkipsExistingOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "done.json")
	require.NoError(t, os.WriteFile(out, []byte("{}"), 0o644))

	var ran []string
	stage := func(name, output string) Stage {
		return Stage{Name: name, Output: output, Run: func(context.Context) error {
			ran = append(ran, name)
			return nil
		}}
	}

	p := &fakePrompter{}
	require.NoError(t, NewRunner(p).Run(context.Background(), stage("爬取列表", out), stage("翻译", "")))
	assert.Equal(t, []string{"翻译"}, ran)
	assert.Equal(t, []string{"是否需要重新爬取列表?"}, p.asked)

	ran = nil
	p.confirm = true
	require.NoError(t, NewRunner(p).Run(context.Background(), stage("爬取列表", out)))
	assert.Equal(t, []string{"爬取列表"}, ran)
}

func TestRunner_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	called := false
	err := NewRunner(&fakePrompter{}).Run(context.Background(),
		Stage{Name: "翻译", Run: func(context.Context) error { return boom }},
		Stage{Name: "填充", Run: func(context.Context) error { called = true; return nil }},
	)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "翻译")
	assert.False(t, called)
}

func TestRunner_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewRunner(&fakePrompter{}).Run(ctx, Stage{Name: "x", Run: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseIndices(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"1", []int{0}, false},
		{"3, 1,3", []int{2, 0}, false},
		{"0", nil, true},
		{"4", nil, true},
		{"a", nil, true},
		{" , ", nil, true},
	}
	for _, tt := range tests {
		got, err := parseIndices(tt.in, 3)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestConsolePrompter(t *testing.T) {
	var out strings.Builder
	p := NewConsolePrompter(strings.NewReader("Yes\n 2 \nn\n"), &out, false)
	assert.True(t, p.Confirm("是否需要重新翻译?"))
	assert.Equal(t, "2", p.Ask("请输入您的选择"))
	assert.False(t, p.Confirm("是否需要重新翻译?"))
	// 输入结束后视为直接回车
	assert.Equal(t, "", p.Ask("请输入"))
	assert.Contains(t, out.String(), "是否需要重新翻译? (y/N): ")

	quiet := NewConsolePrompter(strings.NewReader("y\n"), &out, true)
	assert.False(t, quiet.Confirm("是否需要重新翻译?"))
	assert.Equal(t, "", quiet.Ask("请输入"))
}

func TestResolveWeek(t *testing.T) {
	now := time.Date(2025, 6, 25, 10, 0, 0, 0, time.UTC)
	year, week := ResolveWeek(now, 0, "")
	assert.Equal(t, 2025, year)
	assert.Equal(t, "W25", week)

	year, week = ResolveWeek(now, 2024, "5")
	assert.Equal(t, 2024, year)
	assert.Equal(t, "W05", week)
}

func TestCompExpress(t *testing.T) {
	env := newTestEnv(t, "1")
	require.NoError(t, env.pipeline.CompExpress(context.Background(), CompOptions{Pages: 1}))

	ws := NewWorkspace(env.out)
	dir := ws.CompExpressDir("Image Matching Challenge 2025")
	assert.FileExists(t, ws.CompList())
	assert.FileExists(t, filepath.Join(dir, overviewFile))
	assert.FileExists(t, filepath.Join(dir, zhOverviewFile))
	assert.FileExists(t, filepath.Join(dir, "cover", "cover.json"))

	html, err := os.ReadFile(filepath.Join(dir, overviewHTML))
	require.NoError(t, err)
	assert.Contains(t, string(html), "比赛总览")

	assert.Equal(t, []string{cover.KindCompExpress}, env.cover.kinds)
	assert.Equal(t, "Kaggle", env.cover.data[0].Host)

	require.Len(t, env.drafts.articles, 1)
	a := env.drafts.articles[0]
	assert.Equal(t, "Kaggle竞赛速递: Image Matching Challenge 2025", a.Title)
	assert.Equal(t, "宅小K", a.Author)
	assert.Equal(t, "关键词：三维重建、图像匹配", a.Digest)
	assert.Equal(t, "mid_cover.png", a.ThumbMediaID)
	assert.Equal(t, string(html), a.Content)

	require.Len(t, env.store.records, 1)
	rec := env.store.records[0]
	assert.Equal(t, env.pipeline.RunID(), rec.RunID)
	assert.Equal(t, cover.KindCompExpress, rec.Kind)
	assert.Equal(t, "draft_1", rec.MediaID)
}

func TestCompExpress_Aborted(t *testing.T) {
	env := newTestEnv(t, "q")
	err := env.pipeline.CompExpress(context.Background(), CompOptions{Pages: 1})
	assert.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, env.drafts.articles)
}

func TestCompExpress_InvalidSelectionRetries(t *testing.T) {
	env := newTestEnv(t, "9", "abc", "1")
	require.NoError(t, env.pipeline.CompExpress(context.Background(), CompOptions{Pages: 1}))
	require.Len(t, env.drafts.articles, 1)
}

func TestCompReview(t *testing.T) {
	base := "https://www.kaggle.com/competitions/old/discussion/"
	// 选择比赛，全部高分方案
	env := newTestEnv(t, "1", "")
	env.kaggle.discussions = []model.Discussion{
		{Title: "1 Place Solution", Link: base + "1"},
		{Title: "Question about data", Link: base + "2"},
		{Title: "3 Place Solution", Link: base + "3"},
		{Title: "Not crawled", Link: base + "4"},
	}
	env.kaggle.details = map[string]int{base + "1": 1, base + "3": 3}

	require.NoError(t, env.pipeline.CompReview(context.Background(), CompOptions{Pages: 1, DiscussionPages: 1, Details: 3, TopK: 10}))
	assert.Equal(t, []string{base + "1", base + "2", base + "3"}, env.kaggle.crawled)

	ws := NewWorkspace(env.out)
	dir := ws.CompReviewDir("Old Comp")
	assert.FileExists(t, filepath.Join(ws.CompExpressDir("Old Comp"), zhOverviewFile))

	var entries []model.SolutionEntry
	require.NoError(t, model.LoadJSON(filepath.Join(dir, summariesFile), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	// 本地图片走文件上传，缺失的改用原始地址
	assert.Equal(t, []string{"http://mmbiz.qpic.cn/image_1.png", "http://mmbiz.qpic.cn/image_2.png"}, entries[0].ImageURLs)
	assert.Contains(t, env.publisher.urls, "https://kaggle.com/b.png")

	html, err := os.ReadFile(filepath.Join(dir, reviewHTML))
	require.NoError(t, err)
	assert.Contains(t, string(html), "方案出处汇总")
	assert.Contains(t, string(html), base+"3")

	require.Len(t, env.drafts.articles, 1)
	assert.Equal(t, "Kaggle竞赛复盘: Old Comp", env.drafts.articles[0].Title)
	assert.Equal(t, []string{cover.KindCompReview}, env.cover.kinds)
}

func TestCrawlDetails_SkipsExistingByListTitle(t *testing.T) {
	base := "https://www.kaggle.com/competitions/old/discussion/"
	env := newTestEnv(t)
	// 列表标题与帖子正文标题不同
	env.kaggle.details = map[string]int{base + "1": 1}
	dir := t.TempDir()
	disPath := filepath.Join(dir, discussionListFile)
	require.NoError(t, model.SaveJSON(disPath, []model.Discussion{
		{Title: "[1st] Dense matching + SfM, code released", Link: base + "1"},
	}))
	root := filepath.Join(dir, kaggle.DiscussionDetailsDir)

	require.NoError(t, env.pipeline.crawlDetails(context.Background(), disPath, root, 10))
	require.NoError(t, env.pipeline.crawlDetails(context.Background(), disPath, root, 10))
	assert.Equal(t, []string{base + "1"}, env.kaggle.crawled)
	assert.FileExists(t, filepath.Join(root, textutil.SafeTitle("[1st] Dense matching + SfM, code released"), kaggle.DiscussionFile))
}

func TestCompReview_PickSubset(t *testing.T) {
	base := "https://www.kaggle.com/competitions/old/discussion/"
	env := newTestEnv(t, "1", "2")
	env.kaggle.discussions = []model.Discussion{
		{Title: "1 Place Solution", Link: base + "1"},
		{Title: "3 Place Solution", Link: base + "3"},
	}
	env.kaggle.details = map[string]int{base + "1": 1, base + "3": 3}
	require.NoError(t, env.pipeline.CompReview(context.Background(), CompOptions{Pages: 1, DiscussionPages: 1, Details: 30, TopK: 10}))

	var top []model.TopSolution
	require.NoError(t, model.LoadJSON(filepath.Join(NewWorkspace(env.out).CompReviewDir("Old Comp"), topSolutionsFile), &top))
	require.Len(t, top, 1)
	assert.Equal(t, 3, top[0].Rank)
}
