package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/wechat"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// DraftRecord 已创建草稿的历史记录
type DraftRecord struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Digest    string    `json:"digest"`
	MediaID   string    `json:"media_id"`
	HTMLPath  string    `json:"html_path"`
	CreatedAt time.Time `json:"created_at"`
}

// Store 素材缓存与草稿历史
type Store interface {
	LookupMaterial(ctx context.Context, key string) (*wechat.Material, bool, error)
	SaveMaterial(ctx context.Context, key string, m *wechat.Material) error
	RecordDraft(ctx context.Context, rec *DraftRecord) error
	ListDrafts(ctx context.Context, page, pageSize int) ([]DraftRecord, int, error)
	GetDraft(ctx context.Context, id int64) (*DraftRecord, error)
	Close() error
}

// NewStore 根据驱动创建存储，driver 为空时返回 nil
func NewStore(cfg config.DBConfig) (Store, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case "postgres":
		s, err := NewPostgres(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := NewSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown db driver: %s", cfg.Driver)
	}
}

// sqlStore 两种方言共用的实现，查询统一用 ? 占位
type sqlStore struct {
	db     *sql.DB
	rebind func(string) string
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func (s *sqlStore) initSchema(queries []string) error {
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}
	return nil
}

func (s *sqlStore) LookupMaterial(ctx context.Context, key string) (*wechat.Material, bool, error) {
	var m wechat.Material
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT media_id, url FROM materials WHERE material_key = ?`), key).
		Scan(&m.MediaID, &m.URL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query material: %w", err)
	}
	return &m, true, nil
}

func (s *sqlStore) SaveMaterial(ctx context.Context, key string, m *wechat.Material) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO materials (material_key, media_id, url, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (material_key) DO UPDATE SET media_id = excluded.media_id, url = excluded.url`),
		key, m.MediaID, m.URL, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save material: %w", err)
	}
	return nil
}

func (s *sqlStore) RecordDraft(ctx context.Context, rec *DraftRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO drafts (run_id, kind, title, digest, media_id, html_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		rec.RunID, rec.Kind, rec.Title, rec.Digest, rec.MediaID, rec.HTMLPath, rec.CreatedAt).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to insert draft: %w", err)
	}
	return nil
}

// ListDrafts 按创建时间倒序分页，page 从 1 开始
func (s *sqlStore) ListDrafts(ctx context.Context, page, pageSize int) ([]DraftRecord, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drafts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count drafts: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, run_id, kind, title, digest, media_id, html_path, created_at
		FROM drafts ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`),
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var list []DraftRecord
	for rows.Next() {
		var r DraftRecord
		if err := rows.Scan(&r.ID, &r.RunID, &r.Kind, &r.Title, &r.Digest, &r.MediaID, &r.HTMLPath, &r.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan draft: %w", err)
		}
		list = append(list, r)
	}
	return list, total, rows.Err()
}

func (s *sqlStore) GetDraft(ctx context.Context, id int64) (*DraftRecord, error) {
	var r DraftRecord
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, run_id, kind, title, digest, media_id, html_path, created_at
		FROM drafts WHERE id = ?`), id).
		Scan(&r.ID, &r.RunID, &r.Kind, &r.Title, &r.Digest, &r.MediaID, &r.HTMLPath, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query draft: %w", err)
	}
	return &r, nil
}

// dollarRebind 把 ? 占位符替换为 postgres 的 $1, $2 ...
func dollarRebind(q string) string {
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func noRebind(q string) string { return q }
