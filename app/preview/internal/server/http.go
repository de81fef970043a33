package server

import (
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/wechat_agent/app/preview/internal/conf"
	"github.com/iWorld-y/wechat_agent/app/preview/internal/service"
)

func NewHTTPServer(c *conf.Server, s *service.PreviewService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Http != nil && c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http != nil && c.Http.Timeout != "" {
		if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)
	srv.HandlePrefix("/drafts/", nethttp.HandlerFunc(s.Article))
	srv.HandleFunc("/", s.Index)
	return srv
}
