package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultUserAgent 浏览器与下载器默认使用的 UA
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	WeChat      WeChatConfig      `yaml:"wechat"`
	Browser     BrowserConfig     `yaml:"browser"`
	Proxy       ProxyConfig       `yaml:"proxy"`
	Output      OutputConfig      `yaml:"output"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // eino 或 go-openai
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// WeChatConfig 公众号相关配置
type WeChatConfig struct {
	AppID     string            `yaml:"app_id"`
	AppSecret string            `yaml:"app_secret"`
	BaseURL   string            `yaml:"base_url"`
	Authors   map[string]string `yaml:"authors"` // 各 pipeline 的作者署名
}

// BrowserConfig 浏览器自动化配置
type BrowserConfig struct {
	Bin         string `yaml:"bin"`
	Headless    *bool  `yaml:"headless"`
	UserAgent   string `yaml:"user_agent"`
	PageTimeout int    `yaml:"page_timeout"` // 秒
	SettleWait  int    `yaml:"settle_wait"`  // 页面加载后额外等待的秒数
}

// IsHeadless 未配置时默认无头模式
func (b BrowserConfig) IsHeadless() bool {
	return b.Headless == nil || *b.Headless
}

// ProxyConfig 代理配置
type ProxyConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// OutputConfig 输出目录配置
type OutputConfig struct {
	Root         string `yaml:"root"`
	CompExpress  string `yaml:"comp_express"`
	CompReview   string `yaml:"comp_review"`
	PaperExpress string `yaml:"paper_express"`
	AppExpress   string `yaml:"app_express"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS     int `yaml:"qps"`
	RPM     int `yaml:"rpm"`
	Workers int `yaml:"workers"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Driver   string `yaml:"driver"` // postgres 或 sqlite，留空则不启用
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
}

// LoadConfig 从指定路径加载配置，并用 .env 与环境变量补全密钥
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// .env 不存在时忽略
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))
	_ = godotenv.Load()
	cfg.applyEnv()
	cfg.applyDefaults()

	return &cfg, nil
}

// applyEnv 环境变量仅覆盖 yaml 中为空的字段
func (c *Config) applyEnv() {
	setIfEmpty(&c.LLM.APIKey, os.Getenv("OPENAI_API_KEY"))
	setIfEmpty(&c.WeChat.AppID, os.Getenv("WECHAT_APP_ID"))
	setIfEmpty(&c.WeChat.AppSecret, os.Getenv("WECHAT_APP_SECRET"))
	setIfEmpty(&c.DB.Password, os.Getenv("DB_PASSWORD"))
	if p := os.Getenv("WECHAT_AGENT_PROXY"); p != "" && c.Proxy.URL == "" {
		c.Proxy.URL = p
		c.Proxy.Enabled = true
	}
}

func (c *Config) applyDefaults() {
	setIfEmpty(&c.LLM.Provider, "eino")
	setIfEmpty(&c.LLM.Model, "gpt-4o")
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 8192
	}
	setIfEmpty(&c.WeChat.BaseURL, "https://api.weixin.qq.com")
	if c.WeChat.Authors == nil {
		c.WeChat.Authors = map[string]string{}
	}
	for kind, author := range map[string]string{
		"comp_express":  "宅小K",
		"comp_review":   "宅小K",
		"paper_express": "宅小P",
		"app_express":   "宅小A",
	} {
		if c.WeChat.Authors[kind] == "" {
			c.WeChat.Authors[kind] = author
		}
	}

	setIfEmpty(&c.Browser.UserAgent, DefaultUserAgent)
	if c.Browser.PageTimeout == 0 {
		c.Browser.PageTimeout = 60
	}
	if c.Browser.SettleWait == 0 {
		c.Browser.SettleWait = 3
	}

	setIfEmpty(&c.Output.Root, "./output")
	setIfEmpty(&c.Output.CompExpress, filepath.Join(c.Output.Root, "comp_express"))
	setIfEmpty(&c.Output.CompReview, filepath.Join(c.Output.Root, "comp_review"))
	setIfEmpty(&c.Output.PaperExpress, filepath.Join(c.Output.Root, "paper_express"))
	setIfEmpty(&c.Output.AppExpress, filepath.Join(c.Output.Root, "app_express"))

	setIfEmpty(&c.Log.Level, "info")
	if c.Concurrency.QPS == 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.RPM == 0 {
		c.Concurrency.RPM = 60
	}
	if c.Concurrency.Workers == 0 {
		c.Concurrency.Workers = 4
	}
	if c.DB.Driver == "sqlite" {
		setIfEmpty(&c.DB.Path, filepath.Join(c.Output.Root, "wechat_agent.db"))
	}
}

// Validate 校验在线流程必需的配置
func (c *Config) Validate() error {
	var errs []error
	if c.LLM.APIKey == "" {
		errs = append(errs, errors.New("llm.api_key is missing"))
	}
	if c.WeChat.AppID == "" || c.WeChat.AppSecret == "" {
		errs = append(errs, errors.New("wechat.app_id/app_secret is missing"))
	}
	switch c.DB.Driver {
	case "", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unknown db driver: %s", c.DB.Driver))
	}
	return errors.Join(errs...)
}

// Author 返回某类推文的作者署名
func (c *Config) Author(kind string) string {
	return c.WeChat.Authors[kind]
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
