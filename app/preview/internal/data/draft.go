package data

import (
	"context"
	stderrors "errors"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/wechat_agent/app/preview/internal/biz"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/storage"
)

type draftRepo struct {
	data *Data
	log  *log.Helper
}

func NewDraftRepo(data *Data, logger log.Logger) biz.DraftRepo {
	return &draftRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *draftRepo) ListDrafts(ctx context.Context, page, pageSize int) ([]*biz.Draft, int, error) {
	recs, total, err := r.data.store.ListDrafts(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	drafts := make([]*biz.Draft, 0, len(recs))
	for i := range recs {
		drafts = append(drafts, toBiz(&recs[i]))
	}
	return drafts, total, nil
}

func (r *draftRepo) GetDraft(ctx context.Context, id int64) (*biz.Draft, error) {
	rec, err := r.data.store.GetDraft(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, errors.NotFound("DRAFT_NOT_FOUND", "draft not found")
		}
		return nil, err
	}
	return toBiz(rec), nil
}

func toBiz(rec *storage.DraftRecord) *biz.Draft {
	return &biz.Draft{
		ID:        rec.ID,
		RunID:     rec.RunID,
		Kind:      rec.Kind,
		Title:     rec.Title,
		Digest:    rec.Digest,
		MediaID:   rec.MediaID,
		HTMLPath:  rec.HTMLPath,
		CreatedAt: rec.CreatedAt,
	}
}
