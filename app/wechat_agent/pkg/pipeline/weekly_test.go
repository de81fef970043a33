package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/cover"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/hfpaper"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/producthunt"
)

type fakePapers struct {
	papers []model.Paper
}

func (f *fakePapers) CrawlList(_ context.Context, year int, week string, topK int, dir string) ([]model.Paper, error) {
	list := f.papers
	if len(list) > topK {
		list = list[:topK]
	}
	return list, model.SaveJSON(filepath.Join(dir, hfpaper.ListFile(year, week)), list)
}

func (f *fakePapers) CrawlDetails(_ context.Context, papers []model.Paper, dir string) ([]model.Paper, error) {
	for i := range papers {
		papers[i].Abstract = "abstract of " + papers[i].Title
	}
	return papers, model.SaveJSON(filepath.Join(dir, "all_papers_details.json"), papers)
}

type fakePaperSum struct{}

func (fakePaperSum) Summarize(_ context.Context, papers []model.Paper, outPath string) ([]model.ZhPaper, error) {
	var out []model.ZhPaper
	for _, p := range papers {
		out = append(out, model.ZhPaper{Paper: p, ZhAbstract: "摘要：" + p.Title, Keywords: []string{"大模型"}})
	}
	return out, model.SaveJSON(outPath, out)
}

type fakeProducts struct{}

func (fakeProducts) CrawlList(_ context.Context, _ int, week string, _ int, dir string) ([]model.Product, error) {
	list := []model.Product{{Index: 1, Title: "Cursor"}, {Index: 2, Title: "Gamma"}}
	return list, model.SaveJSON(filepath.Join(dir, producthunt.ListFile(week)), list)
}

func (fakeProducts) CrawlDetails(_ context.Context, products []model.Product, dir string) ([]model.Product, error) {
	return products, model.SaveJSON(filepath.Join(dir, "all_software_details.json"), products)
}

type fakeAppSum struct{}

func (fakeAppSum) Summarize(_ context.Context, products []model.Product, outPath string) ([]model.ZhProduct, error) {
	var out []model.ZhProduct
	for _, p := range products {
		out = append(out, model.ZhProduct{Product: p, ZhSummary: "总结：" + p.Title})
	}
	return out, model.SaveJSON(outPath, out)
}

func TestPaperExpress(t *testing.T) {
	env := newTestEnv(t)
	env.pipeline.deps.Papers = &fakePapers{papers: []model.Paper{
		{Index: 1, Title: "MiniMax-M1"},
		{Index: 2, Title: "Seedance"},
		{Index: 3, Title: "Dropped"},
	}}
	env.pipeline.deps.Paper = fakePaperSum{}

	require.NoError(t, env.pipeline.PaperExpress(context.Background(), WeeklyOptions{Year: 2025, Week: "W25", TopK: 2}))

	dir := NewWorkspace(env.out).PaperDir(2025, "W25")
	assert.FileExists(t, filepath.Join(dir, "paper_list_2025-W25.json"))
	html, err := os.ReadFile(filepath.Join(dir, paperHTML))
	require.NoError(t, err)
	assert.Contains(t, string(html), `src="http://mmbiz.qpic.cn/cover.png"`)
	assert.Contains(t, string(html), "摘要：Seedance")
	assert.NotContains(t, string(html), "Dropped")

	assert.Equal(t, []string{cover.KindPaperExpress}, env.cover.kinds)
	assert.Equal(t, cover.CoverData{Year: 2025, Week: "W25"}, env.cover.data[0])

	require.Len(t, env.drafts.articles, 1)
	a := env.drafts.articles[0]
	assert.Equal(t, "HF论文速递 | 2025年第25周AI精选热门论文", a.Title)
	assert.Equal(t, "Hugging Face论文速递 | 2025年第25周AI精选热门论文", a.Digest)
	assert.Equal(t, "宅小P", a.Author)
	require.Len(t, env.store.records, 1)
	assert.Equal(t, cover.KindPaperExpress, env.store.records[0].Kind)
}

func TestPaperExpress_NoPapers(t *testing.T) {
	env := newTestEnv(t)
	env.pipeline.deps.Papers = &fakePapers{}
	err := env.pipeline.PaperExpress(context.Background(), WeeklyOptions{Year: 2025, Week: "W25", TopK: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "爬取论文列表")
	assert.Empty(t, env.drafts.articles)
}

func TestAppExpress_ReusesCachedStages(t *testing.T) {
	env := newTestEnv(t)
	env.pipeline.deps.Products = fakeProducts{}
	env.pipeline.deps.App = fakeAppSum{}
	opts := WeeklyOptions{Year: 2025, Week: "26", TopK: 10}

	require.NoError(t, env.pipeline.AppExpress(context.Background(), opts))
	dir := NewWorkspace(env.out).AppDir(2025, "W26")
	assert.FileExists(t, filepath.Join(dir, "software_list_26.json"))
	html, err := os.ReadFile(filepath.Join(dir, appHTML))
	require.NoError(t, err)
	assert.Contains(t, string(html), "TOP2: Gamma")
	assert.Contains(t, string(html), "总结：Cursor")

	// 第二次运行全部复用缓存，只重新上传封面与创建草稿
	env.pipeline.deps.Products = nil
	env.pipeline.deps.App = nil
	require.NoError(t, env.pipeline.AppExpress(context.Background(), opts))
	assert.Len(t, env.cover.kinds, 1)
	require.Len(t, env.drafts.articles, 2)
	assert.Equal(t, "ProductHunt产品速递 | 2025年第26周热门创新产品精选", env.drafts.articles[1].Title)
	assert.Equal(t, "宅小A", env.drafts.articles[1].Author)
}

func TestWeekLabels(t *testing.T) {
	assert.Equal(t, "2025年第05周", paperWeekLabel(2025, "W05"))
	assert.Equal(t, "2025年第5周", appWeekLabel(2025, "W05"))
	assert.Equal(t, "2025年第26周", appWeekLabel(2025, "W26"))
}
