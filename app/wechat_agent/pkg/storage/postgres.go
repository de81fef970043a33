package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
)

// Postgres 基于 lib/pq 的存储
type Postgres struct {
	sqlStore
}

var _ Store = (*Postgres)(nil)

func NewPostgres(cfg config.DBConfig) (*Postgres, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Postgres{sqlStore{db: db, rebind: dollarRebind}}
	if err := s.initSchema(postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS materials (
		material_key TEXT PRIMARY KEY,
		media_id TEXT NOT NULL,
		url TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS drafts (
		id SERIAL PRIMARY KEY,
		run_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		title TEXT,
		digest TEXT,
		media_id TEXT,
		html_path TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_drafts_created_at ON drafts (created_at)`,
}
