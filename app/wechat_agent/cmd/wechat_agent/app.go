package main

import (
	"context"
	"os"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/browser"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/cover"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/fetch"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/hfpaper"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/kaggle"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/llm"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/media"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/pipeline"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/producthunt"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/storage"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/summarizer"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/wechat"
)

// services 上传与草稿命令只需要公众号客户端和素材缓存
type services struct {
	cfg        *config.Config
	store      storage.Store
	wechat     *wechat.Client
	downloader *fetch.Downloader
	publisher  *media.Publisher
}

func newServices(cfg *config.Config) (*services, func(), error) {
	dl, err := fetch.NewDownloader(cfg.Browser, cfg.Proxy)
	if err != nil {
		return nil, nil, err
	}

	// 数据库不可用时仍可继续，只是没有素材缓存与草稿历史
	store, err := storage.NewStore(cfg.DB)
	if err != nil {
		logger.Log.Errorf("无法连接数据库: %v，将不记录素材缓存与草稿历史", err)
		store = nil
	}
	cleanup := func() {
		if store != nil {
			store.Close()
		}
	}

	wc := wechat.NewClient(cfg.WeChat)
	return &services{
		cfg:        cfg,
		store:      store,
		wechat:     wc,
		downloader: dl,
		publisher:  media.NewPublisher(dl, wc, store),
	}, cleanup, nil
}

// newPipeline 组装完整流水线，返回的 cleanup 会关闭浏览器与数据库
func newPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, func(), error) {
	svc, closeSvc, err := newServices(cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		closeSvc()
		return nil, nil, err
	}
	b, err := browser.NewRod(cfg.Browser, cfg.Proxy)
	if err != nil {
		closeSvc()
		return nil, nil, err
	}
	cleanup := func() {
		b.Close()
		closeSvc()
	}
	maker, err := cover.NewMaker(b)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	workers := cfg.Concurrency.Workers
	deps := pipeline.Deps{
		Kaggle:    kaggle.NewCrawler(b, svc.publisher, svc.downloader),
		Papers:    hfpaper.NewCrawler(b, svc.downloader, svc.downloader, svc.publisher),
		Products:  producthunt.NewCrawler(b, svc.publisher),
		Overview:  summarizer.NewOverview(client, workers),
		Solution:  summarizer.NewSolution(client, workers),
		Paper:     summarizer.NewPaper(client, workers),
		App:       summarizer.NewApp(client, svc.downloader, workers),
		Cover:     maker,
		Publisher: svc.publisher,
		Drafts:    svc.wechat,
	}
	if svc.store != nil {
		deps.Store = svc.store
	}

	prompter := pipeline.NewConsolePrompter(os.Stdin, os.Stdout, noInput)
	p := pipeline.New(deps, pipeline.NewWorkspace(cfg.Output), prompter, cfg.WeChat.Authors)
	logger.Log.Infof("本次运行 ID: %s", p.RunID())
	return p, cleanup, nil
}
