package hfpaper

import (
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/fetch"
)

var githubRepo = regexp.MustCompile(`https?://github\.com/[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+`)

// ArxivAbsURL HF 论文地址对应的 arXiv 摘要页
func ArxivAbsURL(hfURL string) string {
	return "https://arxiv.org/abs/" + path.Base(strings.TrimRight(hfURL, "/"))
}

// GithubFromArxiv 从 arXiv 摘要页中提取第一个 GitHub 仓库地址，没有时返回空串
func GithubFromArxiv(ctx context.Context, f fetch.Fetcher, hfURL string) (string, error) {
	body, err := f.Get(ctx, ArxivAbsURL(hfURL))
	if err != nil {
		return "", err
	}
	m := githubRepo.Find(body)
	if m == nil {
		return "", nil
	}
	repo := strings.TrimRight(string(m), ".")
	return strings.TrimSuffix(repo, ".git"), nil
}
