package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON 模型输出中找不到可解析的 JSON
var ErrNoJSON = errors.New("no json found in llm output")

var (
	jsonFence  = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	plainFence = regexp.MustCompile("(?s)```\\s*(.*?)```")
)

// StripCodeFence 去掉首尾的 markdown 代码块标记
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseJSONOutput 依次尝试直接解析、```json 块、``` 块、最外层 {} 与 []
func ParseJSONOutput(s string, v any) error {
	candidates := []string{strings.TrimSpace(s)}
	if m := jsonFence.FindStringSubmatch(s); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := plainFence.FindStringSubmatch(s); m != nil {
		candidates = append(candidates, m[1])
	}
	if c, ok := outermost(s, '{', '}'); ok {
		candidates = append(candidates, c)
	}
	if c, ok := outermost(s, '[', ']'); ok {
		candidates = append(candidates, c)
	}

	for _, c := range candidates {
		if json.Unmarshal([]byte(strings.TrimSpace(c)), v) == nil {
			return nil
		}
	}
	return ErrNoJSON
}

// ParseStringList 解析 ["a","b"] 或 ['a', 'b'] 形式的列表，失败返回 nil
func ParseStringList(s string) []string {
	var list []string
	if ParseJSONOutput(s, &list) == nil {
		return list
	}
	c, ok := outermost(s, '[', ']')
	if !ok {
		return nil
	}
	if json.Unmarshal([]byte(strings.ReplaceAll(c, "'", `"`)), &list) == nil {
		return list
	}
	return nil
}

func outermost(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
