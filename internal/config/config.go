package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"StreamSync/internal/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	ProviderTheSportsDB = "thesportsdb"
	ProviderOddsAPI     = "oddsapi"

	ScraperHTML    = "html"
	ScraperBrowser = "browser"
)

// DefaultMediaSelectors 详情页中承载视频的元素
var DefaultMediaSelectors = []string{"iframe", "video", "embed", "video source", "source"}

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`     // 服务器配置
	Log        LogConfig        `mapstructure:"log"`        // 日志配置
	Aggregator AggregatorConfig `mapstructure:"aggregator"` // 聚合引擎配置
	Database   DatabaseConfig   `mapstructure:"database"`   // 来源目录库（可选）
	Providers  []ProviderConfig `mapstructure:"providers"`  // 赛程 provider，按顺序合并
	Scrapers   []ScraperConfig  `mapstructure:"scrapers"`   // 抓取站点，按顺序合并
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`            // 服务端口
	Mode           string        `mapstructure:"mode"`            // Gin运行模式：debug/release/test
	AllowOrigins   []string      `mapstructure:"allow_origins"`   // CORS 白名单，空表示全部
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // 单次请求整体期限
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`  // trace/debug/info/warn/error
	Format string `mapstructure:"format"` // text/json
}

// AggregatorConfig 聚合引擎的全局默认值
type AggregatorConfig struct {
	CallTimeout     time.Duration `mapstructure:"call_timeout"`     // 单次上游调用超时（来源未单独配置时使用）
	PageConcurrency int           `mapstructure:"page_concurrency"` // 单个站点并发抓取详情页数
	UserAgent       string        `mapstructure:"user_agent"`       // 抓取使用的 UA
}

// DatabaseConfig PostgreSQL 配置，DSN 为空则不启用来源目录
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// ProviderConfig 单个赛程 provider 的独立配置
type ProviderConfig struct {
	Name     string         `mapstructure:"name" json:"name"`           // 来源名称（唯一）
	Kind     string         `mapstructure:"kind" json:"kind"`           // thesportsdb/oddsapi
	BaseURL  string         `mapstructure:"base_url" json:"base_url"`   // API基础地址
	APIKey   string         `mapstructure:"api_key" json:"-"`           // 访问密钥
	Timeout  time.Duration  `mapstructure:"timeout" json:"timeout"`     // 请求超时
	Proxy    string         `mapstructure:"proxy" json:"proxy"`         // 代理地址
	DaysFrom int            `mapstructure:"days_from" json:"days_from"` // oddsapi 回看天数
	Leagues  []model.League `mapstructure:"leagues" json:"leagues"`     // 联赛/运动列表
}

// RequiresKey 该类型的 provider 没有密钥时无法访问（thesportsdb 有公共测试密钥）
func (p *ProviderConfig) RequiresKey() bool {
	return p.Kind == ProviderOddsAPI
}

// ScraperConfig 单个抓取站点的配置：站点之间只有选择器不同
type ScraperConfig struct {
	Name            string        `mapstructure:"name" json:"name"`
	Kind            string        `mapstructure:"kind" json:"kind"` // html/browser
	BaseURL         string        `mapstructure:"base_url" json:"base_url"`
	ListingPath     string        `mapstructure:"listing_path" json:"listing_path"`
	ListingSelector string        `mapstructure:"listing_selector" json:"listing_selector"`
	MediaSelectors  []string      `mapstructure:"media_selectors" json:"media_selectors"`
	MaxPages        int           `mapstructure:"max_pages" json:"max_pages"` // 0 表示不限
	Timeout         time.Duration `mapstructure:"timeout" json:"timeout"`
	Proxy           string        `mapstructure:"proxy" json:"proxy"`
	UserAgent       string        `mapstructure:"user_agent" json:"user_agent"`
	PageConcurrency int           `mapstructure:"page_concurrency" json:"page_concurrency"`
	RenderWait      time.Duration `mapstructure:"render_wait" json:"render_wait"` // browser 模式下等待脚本渲染
}

// LoadConfig 加载配置文件（默认 config/config.yaml），敏感项从 .env / 环境变量覆盖
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load() // .env 可不存在

	v := viper.New()
	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	} else {
		v.SetConfigFile(path)
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
			v.SetConfigType(ext)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	overrideFromEnv(&cfg)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置（优先级 env > yaml）
func overrideFromEnv(cfg *Config) {
	for i := range cfg.Providers {
		key := "STREAMSYNC_" + strings.ToUpper(cfg.Providers[i].Kind) + "_KEY"
		if v := os.Getenv(key); v != "" {
			cfg.Providers[i].APIKey = v
		}
	}
	if v := os.Getenv("STREAMSYNC_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 4000
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = 45 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Aggregator.CallTimeout <= 0 {
		c.Aggregator.CallTimeout = 15 * time.Second
	}
	if c.Aggregator.PageConcurrency <= 0 {
		c.Aggregator.PageConcurrency = 4
	}
	if c.Aggregator.UserAgent == "" {
		c.Aggregator.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"
	}
	for i := range c.Providers {
		p := &c.Providers[i]
		p.Kind = strings.ToLower(strings.TrimSpace(p.Kind))
		if p.Timeout <= 0 {
			p.Timeout = c.Aggregator.CallTimeout
		}
		if p.Kind == ProviderOddsAPI && p.DaysFrom <= 0 {
			p.DaysFrom = 1
		}
	}
	for i := range c.Scrapers {
		s := &c.Scrapers[i]
		s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))
		if s.Kind == "" {
			s.Kind = ScraperHTML
		}
		if s.ListingPath == "" {
			s.ListingPath = "/"
		}
		if len(s.MediaSelectors) == 0 {
			s.MediaSelectors = append([]string(nil), DefaultMediaSelectors...)
		}
		if s.Timeout <= 0 {
			s.Timeout = c.Aggregator.CallTimeout
		}
		if s.UserAgent == "" {
			s.UserAgent = c.Aggregator.UserAgent
		}
		if s.PageConcurrency <= 0 {
			s.PageConcurrency = c.Aggregator.PageConcurrency
		}
		if s.Kind == ScraperBrowser && s.RenderWait <= 0 {
			s.RenderWait = 2 * time.Second
		}
	}
}

// Validate 校验来源配置
func (c *Config) Validate() error {
	seen := make(map[string]struct{})
	checkName := func(name string) error {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("来源名称不能为空")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("来源名称重复: %s", name)
		}
		seen[name] = struct{}{}
		return nil
	}
	for _, p := range c.Providers {
		if err := checkName(p.Name); err != nil {
			return err
		}
		switch p.Kind {
		case ProviderTheSportsDB, ProviderOddsAPI:
		default:
			return fmt.Errorf("provider %s: 未支持的类型 %q", p.Name, p.Kind)
		}
		if p.BaseURL == "" {
			return fmt.Errorf("provider %s: base_url 必填", p.Name)
		}
		if len(p.Leagues) == 0 {
			return fmt.Errorf("provider %s: 至少配置一个 league", p.Name)
		}
	}
	for _, s := range c.Scrapers {
		if err := checkName(s.Name); err != nil {
			return err
		}
		switch s.Kind {
		case ScraperHTML, ScraperBrowser:
		default:
			return fmt.Errorf("scraper %s: 未支持的类型 %q", s.Name, s.Kind)
		}
		if s.BaseURL == "" {
			return fmt.Errorf("scraper %s: base_url 必填", s.Name)
		}
		if s.ListingSelector == "" {
			return fmt.Errorf("scraper %s: listing_selector 必填", s.Name)
		}
	}
	return nil
}

// WithoutSources 返回去掉指定来源后的副本，顺序不变
func (c *Config) WithoutSources(disabled map[string]bool) *Config {
	out := *c
	out.Providers = make([]ProviderConfig, 0, len(c.Providers))
	for _, p := range c.Providers {
		if !disabled[p.Name] {
			out.Providers = append(out.Providers, p)
		}
	}
	out.Scrapers = make([]ScraperConfig, 0, len(c.Scrapers))
	for _, s := range c.Scrapers {
		if !disabled[s.Name] {
			out.Scrapers = append(out.Scrapers, s)
		}
	}
	return &out
}

// GetGORMConfig 获取GORM配置，只输出慢查询与错误
func (d *DatabaseConfig) GetGORMConfig() gorm.Config {
	return gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
}
