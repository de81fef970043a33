package service

import (
	"embed"
	"html/template"
	nethttp "net/http"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/wechat_agent/app/preview/internal/biz"
	"github.com/iWorld-y/wechat_agent/app/preview/internal/usecase"
)

//go:embed assets/index.html
var assets embed.FS

var indexTpl = template.Must(template.ParseFS(assets, "assets/index.html"))

const pageSize = 20

var kindNames = map[string]string{
	"comp_express":  "竞赛速递",
	"comp_review":   "竞赛复盘",
	"paper_express": "论文速递",
	"app_express":   "产品速递",
}

type indexData struct {
	Drafts   []*biz.Draft
	Kinds    map[string]string
	Total    int
	Page     int
	PrevPage int
	NextPage int
}

// PreviewService 浏览已生成的草稿
type PreviewService struct {
	uc  *usecase.DraftUseCase
	log *log.Helper
}

func NewPreviewService(uc *usecase.DraftUseCase, logger log.Logger) *PreviewService {
	return &PreviewService{uc: uc, log: log.NewHelper(logger)}
}

// Index GET /?page=N
func (s *PreviewService) Index(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/" {
		nethttp.NotFound(w, r)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	drafts, total, err := s.uc.List(r.Context(), page, pageSize)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data := indexData{Drafts: drafts, Kinds: kindNames, Total: total, Page: page}
	if page > 1 {
		data.PrevPage = page - 1
	}
	if page*pageSize < total {
		data.NextPage = page + 1
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTpl.Execute(w, data); err != nil {
		s.log.Errorf("render index failed: %v", err)
	}
}

// Article GET /drafts/{id}
func (s *PreviewService) Article(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/drafts/"), 10, 64)
	if err != nil || id < 1 {
		s.writeError(w, errors.BadRequest("INVALID_ID", "invalid draft id"))
		return
	}
	_, content, err := s.uc.Article(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(content)
}

func (s *PreviewService) writeError(w nethttp.ResponseWriter, err error) {
	e := errors.FromError(err)
	if e.Code >= 500 {
		s.log.Errorf("request failed: %v", err)
	}
	nethttp.Error(w, e.Message, int(e.Code))
}
