package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
)

const maxSelectAttempts = 3

func isQuit(s string) bool {
	s = strings.ToLower(s)
	return s == "exit" || s == "q"
}

// parseIndices 解析逗号分隔的 1 起始序号，去重并保持输入顺序
func parseIndices(input string, n int) ([]int, error) {
	seen := map[int]bool{}
	var out []int
	for _, item := range strings.Split(input, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		i, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", item)
		}
		if i < 1 || i > n {
			return nil, fmt.Errorf("index %d out of range (1-%d)", i, n)
		}
		if !seen[i] {
			seen[i] = true
			out = append(out, i-1)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no index selected")
	}
	return out, nil
}

// selectOne 选择单个序号，直接回车选第一个
func (p *Pipeline) selectOne(n int) (int, error) {
	for i := 0; i < maxSelectAttempts; i++ {
		input := p.prompter.Ask(fmt.Sprintf("请输入您的选择 (1-%d)，输入 exit 或 q 退出", n))
		if isQuit(input) {
			return 0, ErrAborted
		}
		if input == "" {
			return 0, nil
		}
		idx, err := parseIndices(input, n)
		if err != nil {
			logger.Log.Warnf("输入格式错误，请重新输入: %v", err)
			continue
		}
		return idx[0], nil
	}
	return 0, ErrAborted
}

// selectMany 选择多个序号，直接回车选择全部
func (p *Pipeline) selectMany(n int) ([]int, error) {
	for i := 0; i < maxSelectAttempts; i++ {
		input := p.prompter.Ask(fmt.Sprintf("请输入您的选择 (1-%d，如 1,2,3，直接回车选择全部)，输入 exit 或 q 退出", n))
		if isQuit(input) {
			return nil, ErrAborted
		}
		if input == "" {
			all := make([]int, n)
			for j := range all {
				all[j] = j
			}
			return all, nil
		}
		idx, err := parseIndices(input, n)
		if err != nil {
			logger.Log.Warnf("输入格式错误，请重新输入: %v", err)
			continue
		}
		return idx, nil
	}
	return nil, ErrAborted
}
