package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
)

// Workspace 各流程的产物路径
type Workspace struct {
	cfg config.OutputConfig
}

func NewWorkspace(cfg config.OutputConfig) Workspace {
	return Workspace{cfg: cfg}
}

// CompList 比赛列表在速递与复盘间共用
func (w Workspace) CompList() string {
	return filepath.Join(w.cfg.Root, "kaggle_competitions_list.json")
}

// CompExpressDir 比赛总览与翻译结果也供复盘使用
func (w Workspace) CompExpressDir(name string) string {
	return filepath.Join(w.cfg.CompExpress, textutil.SafeTitle(name))
}

func (w Workspace) CompReviewDir(name string) string {
	return filepath.Join(w.cfg.CompReview, textutil.SafeTitle(name))
}

func (w Workspace) PaperDir(year int, week string) string {
	return filepath.Join(w.cfg.PaperExpress, fmt.Sprintf("%d_%s", year, week))
}

func (w Workspace) AppDir(year int, week string) string {
	return filepath.Join(w.cfg.AppExpress, fmt.Sprintf("%d_%s", year, week))
}

// CoverPNG 封面图，上传结果写在同目录的 cover.json
func CoverPNG(dir string) string {
	return filepath.Join(dir, "cover", "cover.png")
}

const (
	overviewFile   = "comp_overview.json"
	zhOverviewFile = "zh_comp_overview.json"
	overviewHTML   = "zh_comp_overview.html"

	discussionListFile = "comp_dis_list.json"
	topSolutionsFile   = "top_solutions.json"
	summariesFile      = "top_solution_summarys.json"
	reviewHTML         = "solution_summary.html"

	paperDetailsFile   = "all_papers_details.json"
	zhPaperDetailsFile = "zh_all_papers_details.json"
	paperHTML          = "zh_all_papers_express.html"

	appDetailsFile   = "all_software_details.json"
	zhAppDetailsFile = "zh_all_software_details.json"
	appHTML          = "zh_all_software_express.html"
)
