package server

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/wechat_agent/app/preview/internal/conf"
	"github.com/iWorld-y/wechat_agent/app/preview/internal/data"
	"github.com/iWorld-y/wechat_agent/app/preview/internal/service"
	"github.com/iWorld-y/wechat_agent/app/preview/internal/usecase"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/storage"
)

func newTestServer(t *testing.T) (nethttp.Handler, int64) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "wechat_agent.db")

	// 先用 wechat_agent 的存储写入一条草稿
	store, err := storage.NewStore(config.DBConfig{Driver: "sqlite", Path: dbPath})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	htmlPath := filepath.Join(dir, "zh_comp_overview.html")
	if err := os.WriteFile(htmlPath, []byte("<section>Kaggle竞赛速递</section>"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := &storage.DraftRecord{RunID: "run-1", Kind: "comp_express", Title: "Kaggle竞赛速递: Demo", HTMLPath: htmlPath}
	if err := store.RecordDraft(context.Background(), rec); err != nil {
		t.Fatalf("RecordDraft() error = %v", err)
	}
	store.Close()

	d, cleanup, err := data.NewData(&conf.Data{Database: &conf.Database{Driver: "sqlite", Path: dbPath}}, log.DefaultLogger)
	if err != nil {
		t.Fatalf("NewData() error = %v", err)
	}
	t.Cleanup(cleanup)
	uc := usecase.NewDraftUseCase(data.NewDraftRepo(d, log.DefaultLogger), log.DefaultLogger)
	srv := NewHTTPServer(&conf.Server{Http: &conf.HTTP{Addr: "127.0.0.1:0", Timeout: "1s"}},
		service.NewPreviewService(uc, log.DefaultLogger), log.DefaultLogger)
	return srv, rec.ID
}

func TestHTTPServer_Routes(t *testing.T) {
	srv, id := newTestServer(t)
	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/", nethttp.StatusOK, "Kaggle竞赛速递: Demo"},
		{"/?page=2", nethttp.StatusOK, "共 1 篇草稿"},
		{"/drafts/" + strconv.FormatInt(id, 10), nethttp.StatusOK, "<section>Kaggle竞赛速递</section>"},
		{"/drafts/" + strconv.FormatInt(id+1, 10), nethttp.StatusNotFound, "draft not found"},
		{"/drafts/x", nethttp.StatusBadRequest, "invalid draft id"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, tt.path, nil))
		if rec.Code != tt.wantCode {
			t.Errorf("GET %s code = %d, want %d", tt.path, rec.Code, tt.wantCode)
		}
		if !strings.Contains(rec.Body.String(), tt.wantBody) {
			t.Errorf("GET %s body = %q, want contains %q", tt.path, rec.Body.String(), tt.wantBody)
		}
	}
}
