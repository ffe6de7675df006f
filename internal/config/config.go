package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 主配置结构
type Config struct {
	App            App            `yaml:"app"`
	Server         Server         `yaml:"server"`
	Database       DB             `yaml:"database"`
	Cache          Cache          `yaml:"cache"`
	Auth           Auth           `yaml:"auth"`
	RateLimit      Limit          `yaml:"rate_limit"`
	Log            Log            `yaml:"log"`
	Link           Link           `yaml:"link"`
	BotDetection   BotDetection   `yaml:"bot_detection"`
	Classification Classification `yaml:"classification"`
	Security       Security       `yaml:"security"`
}

// 应用配置
type App struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode" env:"LINKWRAP_APP_MODE"`
	Version string `yaml:"version"`
}

// 服务器配置
type Server struct {
	Port           int `yaml:"port" env:"LINKWRAP_SERVER_PORT"`
	ReadTimeout    int `yaml:"read_timeout"`
	WriteTimeout   int `yaml:"write_timeout"`
	StoreTimeoutMs int `yaml:"store_timeout_ms"`
}

// StoreTimeout 单次请求内访问存储的最长时间
func (s Server) StoreTimeout() time.Duration {
	return time.Duration(s.StoreTimeoutMs) * time.Millisecond
}

// 数据库配置, Driver 取值 mysql 或 sqlite
type DB struct {
	Driver   string `yaml:"driver" env:"LINKWRAP_DB_DRIVER"`
	Host     string `yaml:"host" env:"LINKWRAP_DB_HOST"`
	Port     int    `yaml:"port" env:"LINKWRAP_DB_PORT"`
	User     string `yaml:"user" env:"LINKWRAP_DB_USER"`
	Password string `yaml:"password" env:"LINKWRAP_DB_PASSWORD"`
	Name     string `yaml:"name" env:"LINKWRAP_DB_NAME"`
	Charset  string `yaml:"charset"`
	Path     string `yaml:"path" env:"LINKWRAP_DB_PATH"`
}

// 缓存配置（Redis + 进程内缓存）
type Cache struct {
	Host          string `yaml:"host" env:"LINKWRAP_REDIS_HOST"`
	Port          int    `yaml:"port" env:"LINKWRAP_REDIS_PORT"`
	Password      string `yaml:"password" env:"LINKWRAP_REDIS_PASSWORD"`
	DB            int    `yaml:"db"`
	TTLMinutes    int    `yaml:"ttl_minutes"`
	LocalMaxItems int64  `yaml:"local_max_items"`
}

// 认证配置
type Auth struct {
	Secret          string `yaml:"secret" env:"LINKWRAP_AUTH_SECRET"`
	Issuer          string `yaml:"issuer"`
	ExpirationHours int    `yaml:"expiration_hours"`
}

// 限流配置, 仅作用于创建接口
type Limit struct {
	Enabled       bool     `yaml:"enabled"`
	Requests      int64    `yaml:"requests"`
	WindowSeconds int      `yaml:"window_seconds"`
	SkipPaths     []string `yaml:"skip_paths"`
}

// Window 限流窗口
func (l Limit) Window() time.Duration {
	return time.Duration(l.WindowSeconds) * time.Second
}

// 日志配置
type Log struct {
	Level      string `yaml:"level" env:"LINKWRAP_LOG_LEVEL"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// 短链配置
type Link struct {
	MaxShortIDLength    int `yaml:"max_short_id_length"`
	CreateRetries       int `yaml:"create_retries"`
	UnlockTokenMinutes  int `yaml:"unlock_token_minutes"`
	ClickWorkers        int `yaml:"click_workers"`
	ClickQueueSize      int `yaml:"click_queue_size"`
	ClickTimeoutSeconds int `yaml:"click_timeout_seconds"`
}

// 爬虫识别配置, 追加到内置特征之后
type BotDetection struct {
	ExtraSearchCrawlers []string `yaml:"extra_search_crawlers"`
	ExtraSocialPreviews []string `yaml:"extra_social_previews"`
	ExtraAutomation     []string `yaml:"extra_automation"`
	BlockPaths          []string `yaml:"block_paths"`
}

// 链接分类配置, 追加到内置域名表之后
type Classification struct {
	NormalDomains    []string `yaml:"normal_domains"`
	SensitiveDomains []string `yaml:"sensitive_domains"`
}

// 安全配置
type Security struct {
	// base64 编码的 32 字节密钥, 为空时原始链接明文存储
	URLEncryptionKey string `yaml:"url_encryption_key" env:"LINKWRAP_URL_ENCRYPTION_KEY"`
}

// 加载配置: YAML -> .env -> 环境变量 -> 默认值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// .env 文件可选
	_ = godotenv.Load()
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default 返回一份全部使用默认值的配置, 主要用于测试
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "linkwrap"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.StoreTimeoutMs == 0 {
		c.Server.StoreTimeoutMs = 2000
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Path == "" {
		c.Database.Path = "linkwrap.db"
	}
	if c.Cache.TTLMinutes == 0 {
		c.Cache.TTLMinutes = 60 * 24
	}
	if c.Cache.LocalMaxItems == 0 {
		c.Cache.LocalMaxItems = 10000
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "linkwrap"
	}
	if c.Auth.ExpirationHours == 0 {
		c.Auth.ExpirationHours = 24
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 50
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 3600
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = "./logs/app.log"
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = 10
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 5
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = 30
	}
	if c.Link.MaxShortIDLength == 0 {
		c.Link.MaxShortIDLength = 20
	}
	if c.Link.CreateRetries == 0 {
		c.Link.CreateRetries = 5
	}
	if c.Link.UnlockTokenMinutes == 0 {
		c.Link.UnlockTokenMinutes = 10
	}
	if c.Link.ClickWorkers == 0 {
		c.Link.ClickWorkers = 4
	}
	if c.Link.ClickQueueSize == 0 {
		c.Link.ClickQueueSize = 1024
	}
	if c.Link.ClickTimeoutSeconds == 0 {
		c.Link.ClickTimeoutSeconds = 3
	}
	if len(c.BotDetection.BlockPaths) == 0 {
		c.BotDetection.BlockPaths = []string{"/api/link/"}
	}
}
