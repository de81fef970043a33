package biz

import (
	"context"
	"time"
)

// Draft 已创建的公众号草稿
type Draft struct {
	ID        int64
	RunID     string
	Kind      string
	Title     string
	Digest    string
	MediaID   string
	HTMLPath  string
	CreatedAt time.Time
}

type DraftRepo interface {
	ListDrafts(ctx context.Context, page, pageSize int) ([]*Draft, int, error)
	GetDraft(ctx context.Context, id int64) (*Draft, error)
}
