package kaggle

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/htmlconv"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
)

// MaxAuthorRank 排名超过该值的讨论帖不视为高分方案
const MaxAuthorRank = 100

var (
	ErrNoRank     = errors.New("discussion author has no rank")
	ErrRankTooLow = errors.New("discussion author rank too low")
	ErrNoTitle    = errors.New("competition title not found")
)

const (
	unknownField   = "未知"
	noDiscussionsH = "No discussions found"
)

func newDoc(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html failed: %w", err)
	}
	return doc, nil
}

func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.First().Text())
}

func absURL(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.IsAbs() {
		return href
	}
	base, _ := url.Parse(BaseURL)
	return base.ResolveReference(u).String()
}

// ParseCompetitionList 解析比赛列表页，date 形如 20250601
func ParseCompetitionList(html, date string) ([]model.Competition, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, err
	}

	var list []model.Competition
	doc.Find(selCompItems).Each(func(i int, comp *goquery.Selection) {
		meta := strings.Split(text(comp.Find(selCompMeta)), "·")
		for j := range meta {
			meta[j] = strings.TrimSpace(meta[j])
		}
		if len(meta) < 2 {
			logger.Log.Warnf("解析第%d个比赛信息时出错: 元信息不完整", i+1)
			return
		}
		team := strings.Fields(meta[len(meta)-2])
		teamNumber := ""
		if len(team) > 0 {
			teamNumber = team[0]
		}
		reward := comp.ChildrenFiltered("div").ChildrenFiltered("div:nth-of-type(1)").ChildrenFiltered("div")

		list = append(list, model.Competition{
			Name:        text(comp.Find(selCompName)),
			Link:        absURL(comp.Find("a").First().AttrOr("href", "")),
			Description: text(comp.Find(selCompDescription)),
			CompType:    strings.Join(meta[:len(meta)-2], " · "),
			TeamNumber:  teamNumber,
			LeaveTime:   meta[len(meta)-1],
			CompReward:  text(reward),
			CurrentDate: date,
		})
	})
	return list, nil
}

// FilterActive 进行中且有奖金的比赛
func FilterActive(list []model.Competition) []model.Competition {
	return filter(list, "to go")
}

// FilterEnded 已结束且有奖金的比赛
func FilterEnded(list []model.Competition) []model.Competition {
	return filter(list, "ago")
}

func filter(list []model.Competition, leave string) []model.Competition {
	var out []model.Competition
	for _, c := range list {
		if strings.Contains(c.LeaveTime, leave) && strings.Contains(c.CompReward, "$") {
			out = append(out, c)
		}
	}
	return out
}

// timeAttr 优先取内层 span 的 title，其次外层 span 的 title，最后取文本
func timeAttr(doc *goquery.Document, sel string) string {
	if t, ok := doc.Find(sel + " > span").First().Attr("title"); ok && t != "" {
		return t
	}
	outer := doc.Find(sel).First()
	if t, ok := outer.Attr("title"); ok && t != "" {
		return t
	}
	return strings.TrimSpace(outer.Text())
}

// ParseOverview 解析比赛总览页，段落中的图片交给 onImage 上传
func ParseOverview(html, pageURL string, onImage htmlconv.ImageFunc) (*model.CompOverview, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, err
	}
	title := text(doc.Find(selCompTitle))
	if title == "" {
		return nil, ErrNoTitle
	}

	texts := func(sel string) []string {
		var out []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			out = append(out, strings.TrimSpace(s.Text()))
		})
		return out
	}
	elements := func(sel string) []model.Element {
		return htmlconv.ExtractElements(doc.Find(sel).First().Children(), onImage)
	}

	return &model.CompOverview{
		URL:           pageURL,
		Title:         title,
		Overview:      elements(selOverview),
		StartTime:     timeAttr(doc, selStartTime),
		EndTime:       timeAttr(doc, selEndTime),
		Description:   elements(selDescription),
		Host:          text(doc.Find(selHost)),
		Participation: texts(selParticipation),
		Tags:          texts(selTags),
		Evaluation:    elements(sectionBody("evaluation")),
		Timeline:      elements(sectionBody("timeline")),
		Prize:         elements(sectionBody("prizes")),
	}, nil
}

// ParseCompTitle 比赛页标题，讨论区页面同样适用
func ParseCompTitle(html string) string {
	doc, err := newDoc(html)
	if err != nil {
		return ""
	}
	return text(doc.Find(selCompTitle))
}

// ParseDiscussionList 解析讨论区列表页，empty 表示已超出最后一页
// 第一页只保留 "All other topics" 之后的帖子，没有分组标题时保留全部
func ParseDiscussionList(html string, firstPage bool) (items []model.Discussion, empty bool, err error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, false, err
	}
	if text(doc.Find(selNoDiscussions)) == noDiscussionsH {
		return nil, true, nil
	}

	children := doc.Find(selDiscussionItems).First().Children()
	keep := !firstPage || children.Filter("h3").Length() == 0
	children.Each(func(i int, el *goquery.Selection) {
		switch goquery.NodeName(el) {
		case "h3":
			if strings.TrimSpace(el.Text()) == "All other topics" {
				keep = true
			}
			return
		case "li":
		default:
			return
		}
		if !keep {
			return
		}
		author := el.Find(selDisAuthor).First()
		d := model.Discussion{
			Title:      text(el.Find(selDisTitle)),
			Link:       absURL(el.Find(selDisLink).First().AttrOr("href", "")),
			Author:     strings.TrimSpace(author.Text()),
			AuthorLink: absURL(author.AttrOr("href", "")),
			PostTime:   text(el.Find(selDisPostTime)),
			Likes:      text(el.Find(selDisLikes)),
		}
		if d.Title == "" || d.Link == "" {
			logger.Log.Warnf("解析帖子时出错: 第%d项缺少标题或链接", i+1)
			return
		}
		items = append(items, d)
	})
	return items, false, nil
}

// ParseDiscussionDetail 解析讨论帖详情并生成 Markdown 文档
// 图片引用统一写为 images/image_N.png，原始地址记录在 Images 中
func ParseDiscussionDetail(html, pageURL string) (*model.DiscussionDetail, error) {
	doc, err := newDoc(html)
	if err != nil {
		return nil, err
	}

	d := &model.DiscussionDetail{
		CompTitle: text(doc.Find(selCompTitle)),
		Title:     text(doc.Find(selPostTitle)),
		URL:       pageURL,
		Images:    map[string]string{},
	}
	d.AuthorRank, d.PostTime = authorAndTime(doc.Find(selPostMeta).First())

	if d.AuthorRank == unknownField {
		return d, ErrNoRank
	}
	if rank, ok := textutil.ParseRank(d.AuthorRank); ok && rank > MaxAuthorRank {
		return d, ErrRankTooLow
	}

	body := htmlconv.ToMarkdown(doc.Find(selPostContent).First(), func(src string, n int) string {
		name := fmt.Sprintf("image_%d.png", n)
		d.Images[name] = src
		return "images/" + name
	})

	d.Markdown = fmt.Sprintf("# %s\n\n**Author Rank**: %s\n\n**Publish Time**: %s\n\n**Link**: %s\n\n---\n\n%s\n",
		d.Title, d.AuthorRank, d.PostTime, d.URL, body)
	return d, nil
}

// authorAndTime 只有一个 span 时为发布时间，两个及以上时依次为排名与发布时间
func authorAndTime(meta *goquery.Selection) (rank, postTime string) {
	rank, postTime = unknownField, unknownField
	spans := meta.Find("span > span")
	timeOf := func(s *goquery.Selection) string {
		if t, ok := s.Attr("title"); ok && t != "" {
			return t
		}
		return strings.TrimSpace(s.Text())
	}

	switch {
	case spans.Length() == 1:
		postTime = timeOf(spans.Eq(0))
	case spans.Length() >= 2:
		if r := strings.TrimSpace(spans.Eq(0).Text()); r != "" {
			rank = r
		}
		postTime = timeOf(spans.Eq(1))
	}
	return rank, postTime
}
