package wechat

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
)

// Article 草稿中的一篇图文
type Article struct {
	Title        string
	Author       string
	Digest       string
	Content      string
	ThumbMediaID string
}

type draftArticle struct {
	ArticleType        string `json:"article_type"`
	Title              string `json:"title"`
	Author             string `json:"author"`
	Digest             string `json:"digest"`
	Content            string `json:"content"`
	ThumbMediaID       string `json:"thumb_media_id"`
	NeedOpenComment    int    `json:"need_open_comment"`
	OnlyFansCanComment int    `json:"only_fans_can_comment"`
}

type draftRequest struct {
	Articles []draftArticle `json:"articles"`
}

type draftResponse struct {
	MediaID string `json:"media_id"`
}

// AddDraft 新建草稿，返回草稿 media_id
func (c *Client) AddDraft(ctx context.Context, a Article) (string, error) {
	if a.ThumbMediaID == "" {
		return "", fmt.Errorf("thumb_media_id is required")
	}
	body, err := marshalNoEscape(draftRequest{Articles: []draftArticle{{
		ArticleType:        "news",
		Title:              a.Title,
		Author:             a.Author,
		Digest:             a.Digest,
		Content:            a.Content,
		ThumbMediaID:       a.ThumbMediaID,
		NeedOpenComment:    1,
		OnlyFansCanComment: 0,
	}}})
	if err != nil {
		return "", fmt.Errorf("marshal request failed: %w", err)
	}

	var resp draftResponse
	err = c.withToken(ctx, func(token string) error {
		q := url.Values{}
		q.Set("access_token", token)
		return c.do(ctx, http.MethodPost, "/cgi-bin/draft/add?"+q.Encode(), bytes.NewReader(body.Bytes()), "application/json; charset=utf-8", &resp)
	})
	if err != nil {
		return "", fmt.Errorf("add draft failed: %w", err)
	}
	logger.Log.Infof("草稿创建成功: %s, media_id=%s", a.Title, resp.MediaID)
	return resp.MediaID, nil
}
