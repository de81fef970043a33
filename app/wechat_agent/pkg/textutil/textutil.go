package textutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	unsafeTitleChars = regexp.MustCompile(`[\\/*?:"<>|.,。，\-]`)
	rankPattern      = regexp.MustCompile(`(\d+)(?:TH|RD|ST|ND)`)
	spaces           = regexp.MustCompile(`\s+`)
	// Kaggle 的时间格式: Mon Jun 02 2025 08:00:00 GMT+0800 (中国标准时间)
	kaggleTimePattern = regexp.MustCompile(`^\w{3} (\w{3} \d{2} \d{4} \d{2}:\d{2}:\d{2}) GMT([+-]\d{4})`)
)

var monthNames = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

// untitled 标题清洗后为空时使用的目录名
const untitled = "untitled"

// SafeTitle 把标题转换为可用作目录名的形式
func SafeTitle(title string) string {
	s := unsafeTitleChars.ReplaceAllString(title, "")
	if strings.TrimSpace(s) == "" {
		return untitled
	}
	if r := []rune(s); len(r) > 80 {
		s = string(r[:80])
	}
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, " ", "_")
}

// PreviousWeek 返回上一个 ISO 周，如 (2025, "W25")
func PreviousWeek(now time.Time) (int, string) {
	year, week := now.AddDate(0, 0, -7).ISOWeek()
	return year, fmt.Sprintf("W%02d", week)
}

// WeekNumber 去掉周数前缀 W，W05 -> 5
func WeekNumber(week string) int {
	n, _ := strconv.Atoi(strings.TrimLeft(strings.TrimPrefix(week, "W"), "0"))
	return n
}

// KaggleTimeToChinese 将 Kaggle 页面时间转为 2006年01月02日 15:04，无法解析时原样返回
func KaggleTimeToChinese(s string) string {
	m := kaggleTimePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return s
	}
	t, err := time.Parse("Jan 02 2006 15:04:05 -0700", m[1]+" "+m[2])
	if err != nil {
		return s
	}
	return t.Format("2006年01月02日 15:04")
}

// PublishedDateToChinese "Published on Jun 16, 2024" -> "发布于2024年6月16日"
func PublishedDateToChinese(s string) string {
	if s == "" {
		return s
	}
	parts := strings.Fields(strings.TrimSpace(strings.Replace(s, "Published on ", "", 1)))
	if len(parts) < 2 {
		return s
	}
	month, ok := monthNames[parts[0]]
	if !ok {
		return s
	}
	zh := fmt.Sprintf("%d月%s日", month, strings.TrimSuffix(parts[1], ","))
	if len(parts) > 2 {
		zh = parts[2] + "年" + zh
	}
	return "发布于" + zh
}

// HighestSrcset 取 srcset 中最后一项（最高 DPI），没有时回退到 src
func HighestSrcset(srcset, src string) string {
	var last string
	for _, item := range strings.Split(srcset, ",") {
		if f := strings.Fields(item); len(f) > 0 {
			last = f[0]
		}
	}
	if last == "" {
		return src
	}
	return last
}

// ParseRank 从 "8TH" / "Rank 1ST" 等文本中提取名次
func ParseRank(s string) (int, bool) {
	m := rankPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// CollapseSpace 合并连续空白并去除首尾空白
func CollapseSpace(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// StripNewlines 去除换行，模板头部字段使用
func StripNewlines(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

// Truncate 按 rune 截断
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n])
}

// JoinKeywords 拼接关键词，忽略空项
func JoinKeywords(list []string, sep string) string {
	out := make([]string, 0, len(list))
	for _, k := range list {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return strings.Join(out, sep)
}
