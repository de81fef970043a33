package logger

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/wechat_agent/app/wechat_agent/pkg/config"
)

func TestCustomFormatter_Format(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2025, 6, 16, 8, 30, 0, 0, time.Local),
		Level:   logrus.WarnLevel,
		Message: "封面图上传失败",
	}
	out, err := (&CustomFormatter{}).Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "[2025-06-16 08:30:00] [WARN] [] 封面图上传失败\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestInitLogger_WritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "agent.log")
	if err := InitLogger(config.LogConfig{Level: "debug", File: file}); err != nil {
		t.Fatalf("InitLogger() error = %v", err)
	}
	Log.Debugf("第 %d 页爬取完成", 1)

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := strings.TrimSpace(string(data))
	if !regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] \[DEBU\] \[logger_test\.go:\d+\] 第 1 页爬取完成$`).MatchString(line) {
		t.Errorf("unexpected log line: %q", line)
	}
}

func TestInitLogger_BadLevelFallsBackToInfo(t *testing.T) {
	if err := InitLogger(config.LogConfig{Level: "loud"}); err != nil {
		t.Fatalf("InitLogger() error = %v", err)
	}
	if Log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", Log.GetLevel())
	}
}
