package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/textutil"
)

// Material 永久素材上传结果
type Material struct {
	MediaID string `json:"media_id"`
	URL     string `json:"url"`
}

// UploadOptions 视频素材需要的标题与简介
type UploadOptions struct {
	Title        string
	Introduction string
}

// Uploader 上传永久素材
type Uploader interface {
	UploadMaterial(ctx context.Context, path string, opts UploadOptions) (*Material, error)
}

var _ Uploader = (*Client)(nil)

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true}

// MaterialType 根据扩展名推断素材类型
func MaterialType(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case imageExts[ext]:
		return "image", nil
	case ext == ".mp4":
		return "video", nil
	default:
		return "", fmt.Errorf("unsupported material type: %s", ext)
	}
}

// UploadMaterial 上传图片或视频为永久素材
func (c *Client) UploadMaterial(ctx context.Context, path string, opts UploadOptions) (*Material, error) {
	mtype, err := MaterialType(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open material failed: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("media", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read material failed: %w", err)
	}
	if mtype == "video" {
		title := opts.Title
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		desc, err := json.Marshal(map[string]string{
			"title":        textutil.Truncate(title, 30),
			"introduction": opts.Introduction,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal description failed: %w", err)
		}
		if err := w.WriteField("description", string(desc)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var m Material
	err = c.withToken(ctx, func(token string) error {
		q := url.Values{}
		q.Set("access_token", token)
		q.Set("type", mtype)
		return c.do(ctx, http.MethodPost, "/cgi-bin/material/add_material?"+q.Encode(), bytes.NewReader(body.Bytes()), w.FormDataContentType(), &m)
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s failed: %w", filepath.Base(path), err)
	}
	logger.Log.Infof("素材上传成功: %s, media_id=%s", filepath.Base(path), m.MediaID)
	return &m, nil
}

// SaveMaterialResult 把上传结果写到同目录的 <stem>.json，例如 cover.png -> cover.json
func SaveMaterialResult(path string, m *Material) (string, error) {
	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return "", err
	}
	return out, os.WriteFile(out, data, 0o644)
}

// LoadMaterialResult 读取 SaveMaterialResult 写出的文件
func LoadMaterialResult(path string) (*Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Material
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s failed: %w", filepath.Base(path), err)
	}
	return &m, nil
}
