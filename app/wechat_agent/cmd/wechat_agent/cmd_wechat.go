package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/storage"
	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/wechat"
)

var uploadOpts wechat.UploadOptions

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "上传图片或视频为永久素材，结果写入同目录的 json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := wechatServices()
		if err != nil {
			return err
		}
		defer cleanup()

		m, err := svc.publisher.PublishFile(cmd.Context(), args[0], uploadOpts)
		if err != nil {
			return err
		}
		out, err := wechat.SaveMaterialResult(args[0], m)
		if err != nil {
			return err
		}
		logger.Log.Infof("上传完成: media_id=%s, url=%s, 结果已保存到 %s", m.MediaID, m.URL, out)
		return nil
	},
}

var draftOpts struct {
	kind   string
	title  string
	digest string
	html   string
	thumb  string
}

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "用已有的 HTML 与封面图创建草稿",
	RunE: func(cmd *cobra.Command, args []string) error {
		if draftOpts.title == "" || draftOpts.html == "" || draftOpts.thumb == "" {
			return errors.New("--title, --html and --thumb are required")
		}
		svc, cleanup, err := wechatServices()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		content, err := os.ReadFile(draftOpts.html)
		if err != nil {
			return fmt.Errorf("read html failed: %w", err)
		}
		thumb, err := svc.publisher.PublishFile(ctx, draftOpts.thumb, wechat.UploadOptions{})
		if err != nil {
			return err
		}
		mediaID, err := svc.wechat.AddDraft(ctx, wechat.Article{
			Title:        draftOpts.title,
			Author:       svc.cfg.Author(draftOpts.kind),
			Digest:       draftOpts.digest,
			Content:      string(content),
			ThumbMediaID: thumb.MediaID,
		})
		if err != nil {
			return err
		}

		if svc.store != nil {
			err := svc.store.RecordDraft(ctx, &storage.DraftRecord{
				RunID:    uuid.NewString(),
				Kind:     draftOpts.kind,
				Title:    draftOpts.title,
				Digest:   draftOpts.digest,
				MediaID:  mediaID,
				HTMLPath: draftOpts.html,
			})
			if err != nil {
				logger.Log.Warnf("记录草稿历史失败: %v", err)
			}
		}
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadOpts.Title, "title", "", "视频素材标题")
	uploadCmd.Flags().StringVar(&uploadOpts.Introduction, "intro", "", "视频素材简介")

	draftCmd.Flags().StringVar(&draftOpts.kind, "kind", "comp_express", "推文类型: comp_express/comp_review/paper_express/app_express")
	draftCmd.Flags().StringVar(&draftOpts.title, "title", "", "草稿标题")
	draftCmd.Flags().StringVar(&draftOpts.digest, "digest", "", "草稿摘要")
	draftCmd.Flags().StringVar(&draftOpts.html, "html", "", "正文 HTML 文件")
	draftCmd.Flags().StringVar(&draftOpts.thumb, "thumb", "", "封面图文件")
}

func wechatServices() (*services, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.WeChat.AppID == "" || cfg.WeChat.AppSecret == "" {
		return nil, nil, errors.New("wechat.app_id/app_secret is missing")
	}
	return newServices(cfg)
}
