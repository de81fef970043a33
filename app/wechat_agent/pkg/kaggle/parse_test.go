package kaggle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestParseCompetitionList(t *testing.T) {
	list, err := ParseCompetitionList(fixture(t, "competitions_page1.html"), "20250601")
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, model.Competition{
		Name:        "DRW - Crypto Market Prediction",
		Link:        "https://www.kaggle.com/competitions/drw-crypto-market-prediction",
		Description: "Develop a model capable of predicting crypto future price movements",
		CompType:    "Featured · Code Competition",
		TeamNumber:  "1,037",
		LeaveTime:   "2 months to go",
		CompReward:  "$50,000",
		CurrentDate: "20250601",
	}, list[0])
	assert.Equal(t, "Research", list[1].CompType)
	assert.Equal(t, "3 days ago", list[1].LeaveTime)
	assert.Equal(t, "Knowledge", list[2].CompReward)
}

func TestFilters(t *testing.T) {
	list, err := ParseCompetitionList(fixture(t, "competitions_page1.html"), "20250601")
	require.NoError(t, err)

	active := FilterActive(list)
	require.Len(t, active, 1)
	assert.Equal(t, "DRW - Crypto Market Prediction", active[0].Name)

	ended := FilterEnded(list)
	require.Len(t, ended, 1)
	assert.Equal(t, "Image Matching Challenge 2025", ended[0].Name)
}

func TestParseOverview(t *testing.T) {
	var images []string
	ov, err := ParseOverview(fixture(t, "overview.html"), "https://www.kaggle.com/competitions/drw-crypto-market-prediction",
		func(src string) (string, error) {
			images = append(images, src)
			return "http://mmbiz.qpic.cn/fig1.png", nil
		})
	require.NoError(t, err)

	assert.Equal(t, "DRW - Crypto Market Prediction", ov.Title)
	assert.Equal(t, []model.Element{
		{Type: "p", Content: "Develop a model to predict short-term crypto returns."},
		{Type: "p", Content: `Leaderboard score uses $\rho$.`},
	}, ov.Overview)
	assert.Equal(t, "Thu May 29 2025 08:00:00 GMT+0800 (China Standard Time)", ov.StartTime)
	assert.Equal(t, "Mon Aug 04 2025 07:59:00 GMT+0800 (China Standard Time)", ov.EndTime)
	assert.Equal(t, "DRW", ov.Host)
	assert.Equal(t, []string{"1,037 Entrants", "1,053 Participants", "1,037 Teams"}, ov.Participation)
	assert.Equal(t, []string{"Finance", "Time Series Analysis"}, ov.Tags)

	require.Len(t, ov.Description, 4)
	assert.Equal(t, model.Element{Type: "image", Content: "http://mmbiz.qpic.cn/fig1.png"}, ov.Description[1])
	assert.Equal(t, "● Use order book data\n● Predict returns\n", ov.Description[2].Content)
	assert.Equal(t, "table", ov.Description[3].Type)
	assert.Equal(t, []string{"https://storage.googleapis.com/kaggle-media/fig1.png"}, images)

	require.Len(t, ov.Evaluation, 2)
	assert.Equal(t, model.Element{Type: "pre", Content: "id,prediction"}, ov.Evaluation[1])
	assert.Equal(t, "● 1st Place - $25,000\n● 2nd Place - $15,000\n", ov.Prize[0].Content)
	assert.Len(t, ov.Timeline, 1)
}

func TestParseOverview_NoTitle(t *testing.T) {
	_, err := ParseOverview("<html><body></body></html>", "u", nil)
	assert.ErrorIs(t, err, ErrNoTitle)
}

func TestParseDiscussionList(t *testing.T) {
	items, empty, err := ParseDiscussionList(fixture(t, "discussions_page1.html"), true)
	require.NoError(t, err)
	assert.False(t, empty)
	require.Len(t, items, 2)
	assert.Equal(t, model.Discussion{
		Title:      "1st Place Solution",
		Link:       "https://www.kaggle.com/competitions/image-matching-challenge-2025/discussion/583401",
		Author:     "alice",
		AuthorLink: "https://www.kaggle.com/alice",
		PostTime:   "Jun 5, 2025",
		Likes:      "88",
	}, items[0])

	// 非首页不再按分组标题过滤
	items, _, err = ParseDiscussionList(fixture(t, "discussions_page1.html"), false)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	items, _, err = ParseDiscussionList(fixture(t, "discussions_page2.html"), false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "3", items[0].Likes)

	_, empty, err = ParseDiscussionList(fixture(t, "discussions_page3.html"), false)
	require.NoError(t, err)
	assert.True(t, empty)

	assert.Equal(t, "Image Matching Challenge 2025", ParseCompTitle(fixture(t, "discussions_page1.html")))
}

func TestParseDiscussionDetail(t *testing.T) {
	url := "https://www.kaggle.com/competitions/image-matching-challenge-2025/discussion/583401"
	d, err := ParseDiscussionDetail(fixture(t, "discussion_detail.html"), url)
	require.NoError(t, err)

	assert.Equal(t, "Image Matching Challenge 2025", d.CompTitle)
	assert.Equal(t, "1st Place Solution", d.Title)
	assert.Equal(t, "1ST in this Competition", d.AuthorRank)
	assert.Equal(t, "Thu Jun 05 2025 10:00:00 GMT+0800", d.PostTime)
	assert.Equal(t, map[string]string{
		"image_1.png": "https://www.googleapis.com/download/storage/v1/b/kaggle-forum/pipeline.png",
	}, d.Images)

	assert.True(t, strings.HasPrefix(d.Markdown, "# 1st Place Solution\n\n**Author Rank**: 1ST in this Competition\n\n**Publish Time**: Thu Jun 05 2025 10:00:00 GMT+0800\n\n**Link**: "+url+"\n\n---\n\n"))
	for _, want := range []string{
		"[GitHub](https://github.com/alice/imc25)",
		"## Overview",
		"`MASt3R`",
		"![image_1.png](images/image_1.png)",
		"1. Global retrieval\n2. Local matching",
		"| Stage | mAA |\n| --- | --- |\n| baseline | 0.41 |",
	} {
		assert.Contains(t, d.Markdown, want)
	}
	assert.NotContains(t, d.Markdown, "pipeline.png")
}

func TestParseDiscussionDetail_Skipped(t *testing.T) {
	d, err := ParseDiscussionDetail(fixture(t, "discussion_norank.html"), "u")
	assert.ErrorIs(t, err, ErrNoRank)
	assert.Equal(t, "Wed Apr 02 2025 09:00:00 GMT+0800", d.PostTime)

	_, err = ParseDiscussionDetail(fixture(t, "discussion_lowrank.html"), "u")
	assert.ErrorIs(t, err, ErrRankTooLow)
}
