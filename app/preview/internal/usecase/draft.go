package usecase

import (
	"context"
	"os"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/wechat_agent/app/preview/internal/biz"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// DraftUseCase 草稿历史的查询与正文读取
type DraftUseCase struct {
	repo biz.DraftRepo
	log  *log.Helper
}

func NewDraftUseCase(repo biz.DraftRepo, logger log.Logger) *DraftUseCase {
	return &DraftUseCase{repo: repo, log: log.NewHelper(logger)}
}

// List 分页列出草稿，按创建时间倒序
func (uc *DraftUseCase) List(ctx context.Context, page, pageSize int) ([]*biz.Draft, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return uc.repo.ListDrafts(ctx, page, pageSize)
}

// Article 读取草稿对应的正文 HTML
func (uc *DraftUseCase) Article(ctx context.Context, id int64) (*biz.Draft, []byte, error) {
	d, err := uc.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	content, err := os.ReadFile(d.HTMLPath)
	if err != nil {
		uc.log.Warnf("read draft html failed: %v", err)
		return nil, nil, errors.NotFound("ARTICLE_NOT_FOUND", "article html not found")
	}
	return d, content, nil
}
