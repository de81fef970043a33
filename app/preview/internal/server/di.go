package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/wechat_agent/app/preview/internal/data"
	"github.com/iWorld-y/wechat_agent/app/preview/internal/service"
	"github.com/iWorld-y/wechat_agent/app/preview/internal/usecase"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewHTTPServer, data.NewData, data.NewDraftRepo, usecase.NewDraftUseCase, service.NewPreviewService)
