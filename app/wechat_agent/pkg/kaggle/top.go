package kaggle

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/model"
)

const (
	DiscussionDetailsDir = "discussion_details"
	DiscussionFile       = "discussion_content.md"
)

var (
	mdRankPattern = regexp.MustCompile(`\*\*Author Rank\*\*: (\d+)(?:TH|RD|ST|ND)`)
	mdLinkPattern = regexp.MustCompile(`\*\*Link\*\*: (https://www\.kaggle\.com/competitions/[\w-]+/discussion/\d+)`)
)

// FindTopSolutions 扫描 compDir/discussion_details 下的帖子，按排名升序返回 rank <= topK 的方案
func FindTopSolutions(compDir string, topK int) ([]model.TopSolution, error) {
	root := filepath.Join(compDir, DiscussionDetailsDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s failed: %w", root, err)
	}

	var all []model.TopSolution
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(root, e.Name(), DiscussionFile)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		m := mdRankPattern.FindSubmatch(data)
		if m == nil {
			continue
		}
		rank, _ := strconv.Atoi(string(m[1]))
		s := model.TopSolution{Name: e.Name(), Rank: rank, Path: path}
		if l := mdLinkPattern.FindSubmatch(data); l != nil {
			s.URL = string(l[1])
		}
		all = append(all, s)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Rank < all[j].Rank })

	var top []model.TopSolution
	name2rank := map[string]int{}
	name2url := map[string]string{}
	for _, s := range all {
		if s.Rank > topK {
			break
		}
		top = append(top, s)
		name2rank[s.Name] = s.Rank
		name2url[s.Name] = s.URL
	}

	if err := model.SaveJSON(filepath.Join(compDir, "top_k_disussion_name2rank.json"), name2rank); err != nil {
		return nil, err
	}
	if err := model.SaveJSON(filepath.Join(compDir, "top_k_disussion_name2url.json"), name2url); err != nil {
		return nil, err
	}
	return top, nil
}
