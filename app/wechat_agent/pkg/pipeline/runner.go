package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/logger"
)

// ErrAborted 用户在选择环节退出
var ErrAborted = errors.New("aborted by user")

// Stage 流程中的一步，Output 为空表示每次都执行
type Stage struct {
	Name   string
	Output string
	Run    func(ctx context.Context) error
}

// Runner 按顺序执行 Stage，产物已存在时询问是否重新执行
type Runner struct {
	prompter Prompter
	now      func() time.Time
}

func NewRunner(p Prompter) *Runner {
	return &Runner{prompter: p, now: time.Now}
}

func (r *Runner) Run(ctx context.Context, stages ...Stage) error {
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.Output != "" && exists(s.Output) {
			logger.Log.Infof("发现已存在的%s结果: %s", s.Name, s.Output)
			if !r.prompter.Confirm(fmt.Sprintf("是否需要重新%s?", s.Name)) {
				logger.Log.Infof("[%s] ✓ 跳过 (使用现有数据)", s.Name)
				continue
			}
		}

		logger.Log.Infof("========== %s ==========", s.Name)
		start := r.now()
		if err := s.Run(ctx); err != nil {
			return fmt.Errorf("%s failed: %w", s.Name, err)
		}
		logger.Log.Infof("[%s] ✓ 完成，耗时 %.2f 秒", s.Name, r.now().Sub(start).Seconds())
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
