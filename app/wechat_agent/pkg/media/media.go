package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/storage"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/wechat"
)

// Downloader 下载远程文件到本地
type Downloader interface {
	Download(ctx context.Context, rawURL, path string) error
}

// Publisher 下载并上传素材，store 非空时按来源去重
type Publisher struct {
	downloader Downloader
	uploader   wechat.Uploader
	store      storage.Store
}

func NewPublisher(d Downloader, u wechat.Uploader, store storage.Store) *Publisher {
	return &Publisher{downloader: d, uploader: u, store: store}
}

// PublishURL 以来源 url 为缓存键，未命中时下载到 localPath 再上传
func (p *Publisher) PublishURL(ctx context.Context, srcURL, localPath string) (*wechat.Material, error) {
	if m, ok := p.lookup(ctx, srcURL); ok {
		return m, nil
	}
	if err := p.downloader.Download(ctx, srcURL, localPath); err != nil {
		return nil, fmt.Errorf("download %s failed: %w", srcURL, err)
	}
	return p.upload(ctx, srcURL, localPath, wechat.UploadOptions{})
}

// PublishFile 以文件内容的 sha256 为缓存键上传本地文件
func (p *Publisher) PublishFile(ctx context.Context, path string, opts wechat.UploadOptions) (*wechat.Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s failed: %w", path, err)
	}
	sum := sha256.Sum256(data)
	key := "sha256:" + hex.EncodeToString(sum[:])
	if m, ok := p.lookup(ctx, key); ok {
		return m, nil
	}
	return p.upload(ctx, key, path, opts)
}

func (p *Publisher) lookup(ctx context.Context, key string) (*wechat.Material, bool) {
	if p.store == nil {
		return nil, false
	}
	m, ok, err := p.store.LookupMaterial(ctx, key)
	if err != nil {
		logger.Log.Warnf("查询素材缓存失败: %v", err)
		return nil, false
	}
	if ok {
		logger.Log.Debugf("素材缓存命中: %s", key)
	}
	return m, ok
}

func (p *Publisher) upload(ctx context.Context, key, path string, opts wechat.UploadOptions) (*wechat.Material, error) {
	m, err := p.uploader.UploadMaterial(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	if p.store != nil {
		if err := p.store.SaveMaterial(ctx, key, m); err != nil {
			logger.Log.Warnf("保存素材缓存失败: %v", err)
		}
	}
	return m, nil
}
