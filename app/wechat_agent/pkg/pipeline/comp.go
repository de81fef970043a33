package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/cover"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/kaggle"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/render"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/wechat"
)

// CompOptions 比赛类流程的爬取规模
type CompOptions struct {
	Pages           int // 比赛列表页数
	DiscussionPages int // 讨论区页数
	Details         int // 爬取前 N 条讨论详情
	TopK            int // 名次阈值
}

// loadCompetitions 爬取或复用比赛列表，按 filter 过滤后供选择
func (p *Pipeline) loadCompetitions(ctx context.Context, pages int, filter func([]model.Competition) []model.Competition) ([]model.Competition, error) {
	path := p.ws.CompList()
	err := p.runner.Run(ctx, Stage{Name: "爬取比赛列表", Output: path, Run: func(ctx context.Context) error {
		list, err := p.deps.Kaggle.CrawlList(ctx, pages)
		if err != nil {
			return err
		}
		logger.Log.Infof("爬取完成，共获取 %d 个比赛信息", len(list))
		return model.SaveJSON(path, list)
	}})
	if err != nil {
		return nil, err
	}

	var all []model.Competition
	if err := model.LoadJSON(path, &all); err != nil {
		return nil, err
	}
	filtered := filter(all)
	logger.Log.Infof("[比赛列表] 原始比赛数量: %d，筛选后比赛数量: %d", len(all), len(filtered))
	return filtered, nil
}

func (p *Pipeline) selectCompetition(list []model.Competition) (model.Competition, error) {
	if len(list) == 0 {
		return model.Competition{}, fmt.Errorf("no competition matched")
	}
	for i, c := range list {
		logger.Log.Infof("%d. %s | 奖金: %s | 剩余时间: %s | 类型: %s | 参与队伍: %s | 链接: %s",
			i+1, c.Name, c.CompReward, c.LeaveTime, c.CompType, c.TeamNumber, c.Link)
	}
	i, err := p.selectOne(len(list))
	if err != nil {
		return model.Competition{}, err
	}
	logger.Log.Infof("您选择了比赛：[%d] %s", i+1, list[i].Name)
	return list[i], nil
}

// overviewStages 爬取并翻译比赛总览，产物放在速递目录下供复盘复用
func (p *Pipeline) overviewStages(comp model.Competition, dir string) []Stage {
	ovPath := filepath.Join(dir, overviewFile)
	zhPath := filepath.Join(dir, zhOverviewFile)
	return []Stage{
		{Name: "爬取比赛概览", Output: ovPath, Run: func(ctx context.Context) error {
			ov, err := p.deps.Kaggle.CrawlOverview(ctx, comp.Link, filepath.Join(dir, "images"))
			if err != nil {
				return err
			}
			return model.SaveJSON(ovPath, ov)
		}},
		{Name: "翻译比赛概览", Output: zhPath, Run: func(ctx context.Context) error {
			var ov model.CompOverview
			if err := model.LoadJSON(ovPath, &ov); err != nil {
				return err
			}
			zh, err := p.deps.Overview.Summarize(ctx, &ov, comp)
			if err != nil {
				return err
			}
			return model.SaveJSON(zhPath, zh)
		}},
	}
}

func loadZhOverview(dir string) (*model.ZhOverview, error) {
	var zh model.ZhOverview
	if err := model.LoadJSON(filepath.Join(dir, zhOverviewFile), &zh); err != nil {
		return nil, err
	}
	return &zh, nil
}

func compCoverData(dir string) func() (cover.CoverData, error) {
	return func() (cover.CoverData, error) {
		zh, err := loadZhOverview(dir)
		if err != nil {
			return cover.CoverData{}, err
		}
		return cover.CoverData{Title: zh.Name, Host: zh.Host, Keywords: zh.Keywords}, nil
	}
}

func compDraft(kind, prefix string, comp model.Competition, overviewDir, dir, htmlPath string) func() (draftInput, error) {
	return func() (draftInput, error) {
		zh, err := loadZhOverview(overviewDir)
		if err != nil {
			return draftInput{}, err
		}
		return draftInput{
			kind:     kind,
			title:    prefix + comp.Name,
			digest:   "关键词：" + textutil.JoinKeywords(zh.Keywords, "、"),
			htmlPath: htmlPath,
			coverDir: dir,
		}, nil
	}
}

// CompExpress 竞赛速递：比赛列表 -> 总览 -> 翻译 -> HTML -> 封面 -> 草稿
func (p *Pipeline) CompExpress(ctx context.Context, opts CompOptions) error {
	comps, err := p.loadCompetitions(ctx, opts.Pages, kaggle.FilterActive)
	if err != nil {
		return err
	}
	comp, err := p.selectCompetition(comps)
	if err != nil {
		return err
	}

	dir := p.ws.CompExpressDir(comp.Name)
	htmlPath := filepath.Join(dir, overviewHTML)
	stages := p.overviewStages(comp, dir)
	stages = append(stages,
		Stage{Name: "填充竞赛速递HTML模板", Output: htmlPath, Run: func(ctx context.Context) error {
			zh, err := loadZhOverview(dir)
			if err != nil {
				return err
			}
			html, err := render.Overview(*zh)
			if err != nil {
				return err
			}
			return writeHTML(htmlPath, html)
		}},
		p.coverStage(cover.KindCompExpress, dir, compCoverData(dir)),
		p.uploadStage(dir),
		p.draftStage(compDraft(cover.KindCompExpress, "Kaggle竞赛速递: ", comp, dir, dir, htmlPath)),
	)
	return p.runner.Run(ctx, stages...)
}

// CompReview 竞赛复盘：总览 -> 讨论列表 -> 讨论详情 -> 高分方案 -> 总结 -> HTML -> 封面 -> 草稿
func (p *Pipeline) CompReview(ctx context.Context, opts CompOptions) error {
	comps, err := p.loadCompetitions(ctx, opts.Pages, kaggle.FilterEnded)
	if err != nil {
		return err
	}
	comp, err := p.selectCompetition(comps)
	if err != nil {
		return err
	}

	ovDir := p.ws.CompExpressDir(comp.Name)
	dir := p.ws.CompReviewDir(comp.Name)
	disPath := filepath.Join(dir, discussionListFile)
	detailsRoot := filepath.Join(dir, kaggle.DiscussionDetailsDir)
	topPath := filepath.Join(dir, topSolutionsFile)
	sumPath := filepath.Join(dir, summariesFile)
	htmlPath := filepath.Join(dir, reviewHTML)

	stages := p.overviewStages(comp, ovDir)
	stages = append(stages,
		Stage{Name: "爬取讨论帖列表", Output: disPath, Run: func(ctx context.Context) error {
			items, _, err := p.deps.Kaggle.CrawlDiscussions(ctx, comp.Link, opts.DiscussionPages)
			if err != nil {
				return err
			}
			logger.Log.Infof("[讨论列表] 共获取 %d 个讨论帖", len(items))
			return model.SaveJSON(disPath, items)
		}},
		Stage{Name: "爬取讨论帖正文", Output: detailsRoot, Run: func(ctx context.Context) error {
			return p.crawlDetails(ctx, disPath, detailsRoot, opts.Details)
		}},
		Stage{Name: "寻找高分方案", Output: topPath, Run: func(ctx context.Context) error {
			return p.pickTopSolutions(dir, topPath, opts.TopK)
		}},
		Stage{Name: "总结高分方案", Output: sumPath, Run: func(ctx context.Context) error {
			var top []model.TopSolution
			if err := model.LoadJSON(topPath, &top); err != nil {
				return err
			}
			entries, err := p.deps.Solution.SummarizeTop(ctx, top, sumPath)
			if err != nil {
				return err
			}
			for i := range entries {
				entries[i].ImageURLs = p.publishSolutionImages(ctx, filepath.Dir(top[i].Path))
			}
			return model.SaveJSON(sumPath, entries)
		}},
		Stage{Name: "填充竞赛复盘HTML模板", Output: htmlPath, Run: func(ctx context.Context) error {
			zh, err := loadZhOverview(ovDir)
			if err != nil {
				return err
			}
			var entries []model.SolutionEntry
			if err := model.LoadJSON(sumPath, &entries); err != nil {
				return err
			}
			html, err := render.Review(*zh, entries)
			if err != nil {
				return err
			}
			return writeHTML(htmlPath, html)
		}},
		p.coverStage(cover.KindCompReview, dir, compCoverData(ovDir)),
		p.uploadStage(dir),
		p.draftStage(compDraft(cover.KindCompReview, "Kaggle竞赛复盘: ", comp, ovDir, dir, htmlPath)),
	)
	return p.runner.Run(ctx, stages...)
}

// crawlDetails 爬取前 limit 条讨论详情，已存在的跳过，无排名的帖子不落盘
func (p *Pipeline) crawlDetails(ctx context.Context, disPath, detailsRoot string, limit int) error {
	var items []model.Discussion
	if err := model.LoadJSON(disPath, &items); err != nil {
		return err
	}
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	if err := os.MkdirAll(detailsRoot, 0o755); err != nil {
		return err
	}

	saved := 0
	for i, d := range items[:limit] {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Log.Infof("[讨论详情] 正在处理（%d/%d）: %s", i+1, limit, d.Title)
		dir := filepath.Join(detailsRoot, textutil.SafeTitle(d.Title))
		if exists(filepath.Join(dir, kaggle.DiscussionFile)) {
			logger.Log.Infof("    ✓ 跳过: %s (使用现有数据)", d.Title)
			continue
		}
		_, err := p.deps.Kaggle.CrawlDiscussionDetail(ctx, d.Link, dir)
		switch {
		case errors.Is(err, kaggle.ErrNoRank), errors.Is(err, kaggle.ErrRankTooLow):
			logger.Log.Infof("    跳过: %s (%v)", d.Title, err)
		case err != nil:
			logger.Log.Warnf("    爬取讨论详情失败: %s, %v", d.Title, err)
		default:
			saved++
		}
	}
	logger.Log.Infof("[讨论详情] 新增 %d 篇讨论详情", saved)
	return nil
}

// pickTopSolutions 列出高分方案供用户挑选，结果写入 topPath
func (p *Pipeline) pickTopSolutions(dir, topPath string, topK int) error {
	top, err := kaggle.FindTopSolutions(dir, topK)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		return fmt.Errorf("no top solution found within rank %d", topK)
	}
	for i, s := range top {
		logger.Log.Infof("%d. %s - 排名: %d | 链接: %s", i+1, s.Name, s.Rank, s.URL)
	}
	idx, err := p.selectMany(len(top))
	if err != nil {
		return err
	}
	selected := make([]model.TopSolution, 0, len(idx))
	for _, i := range idx {
		selected = append(selected, top[i])
	}
	logger.Log.Infof("[高分方案] 已选择 %d 个方案", len(selected))
	return model.SaveJSON(topPath, selected)
}

// publishSolutionImages 上传方案帖中的图片，本地下载失败的改用原始地址上传
func (p *Pipeline) publishSolutionImages(ctx context.Context, solutionDir string) []string {
	var images map[string]string
	if err := model.LoadJSON(filepath.Join(solutionDir, "img_name2scr_dict.json"), &images); err != nil {
		return nil
	}
	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, name)
	}
	sort.Strings(names)

	var urls []string
	for _, name := range names {
		local := filepath.Join(solutionDir, "images", name)
		var (
			m   *wechat.Material
			err error
		)
		if exists(local) {
			m, err = p.deps.Publisher.PublishFile(ctx, local, wechat.UploadOptions{})
		} else {
			m, err = p.deps.Publisher.PublishURL(ctx, images[name], local)
		}
		if err != nil {
			logger.Log.Warnf("上传方案图片失败: %s, %v", name, err)
			continue
		}
		urls = append(urls, m.URL)
	}
	return urls
}
