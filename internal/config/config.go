package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（匹配config/config.yaml）
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`    // 服务器配置
	Database  DatabaseConfig  `mapstructure:"database"`  // 历史存储数据库配置
	Upstream  UpstreamConfig  `mapstructure:"upstream"`  // 上游数据源配置
	Cache     CacheConfig     `mapstructure:"cache"`     // 快照缓存配置
	Resolver  ResolverConfig  `mapstructure:"resolver"`  // 赛事解析配置
	Refresher RefresherConfig `mapstructure:"refresher"` // 后台刷新配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// DatabaseConfig 历史存储配置。DSN 以 postgres:// 开头走PostgreSQL，
// 其余情况当作sqlite文件路径
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN或sqlite文件路径
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// UpstreamConfig 上游数据源配置
type UpstreamConfig struct {
	BaseURL      string `mapstructure:"base_url"`      // API基础地址
	Timeout      int    `mapstructure:"timeout"`       // 请求超时（秒）
	RetryCount   int    `mapstructure:"retry_count"`   // 重试次数
	RetryBackoff int    `mapstructure:"retry_backoff"` // 重试间隔（秒，固定退避）
	Proxy        string `mapstructure:"proxy"`         // 代理地址
}

// CacheConfig 快照缓存配置
type CacheConfig struct {
	FreshnessWindow time.Duration `mapstructure:"freshness_window"` // 快照新鲜度窗口
	Capacity        int           `mapstructure:"capacity"`         // 最大条目数（超出淘汰最旧）
}

// ResolverConfig 赛事解析配置
type ResolverConfig struct {
	MemoizeWindow   time.Duration `mapstructure:"memoize_window"`   // 解析结果复用窗口
	CandidateLimit  int           `mapstructure:"candidate_limit"`  // 向列表源请求的候选数量
	DefaultPrevious int           `mapstructure:"default_previous"` // 兜底：上一场赛事ID
	DefaultCurrent  int           `mapstructure:"default_current"`  // 兜底：当前赛事ID
	DefaultNext     int           `mapstructure:"default_next"`     // 兜底：下一场赛事ID
}

// RefresherConfig 后台刷新配置
type RefresherConfig struct {
	Cron    string `mapstructure:"cron"`    // 刷新调度表达式（如 @every 30m）
	Enabled bool   `mapstructure:"enabled"` // 是否启用后台刷新
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）。
// 配置文件不存在时使用内置默认值，保证纯环境变量也能启动
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 默认值（配置文件缺失时的兜底）
	setDefaults()

	// 3. 读取 config.yaml（缺失不报错，其他错误上抛）
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 4. 敏感/部署字段：用 env 覆盖（优先级 env > yaml > 默认值）
	overrideFromEnv(&cfg)
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("database.dsn", "data/history.db")
	viper.SetDefault("database.max_open_conns", 10)
	viper.SetDefault("database.max_idle_conns", 2)
	viper.SetDefault("database.conn_max_lifetime", time.Hour)
	viper.SetDefault("upstream.base_url", "https://api.ufcstats.dev/v1")
	viper.SetDefault("upstream.timeout", 8)
	viper.SetDefault("upstream.retry_count", 3)
	viper.SetDefault("upstream.retry_backoff", 2)
	viper.SetDefault("cache.freshness_window", 30*time.Minute)
	viper.SetDefault("cache.capacity", 10)
	viper.SetDefault("resolver.memoize_window", time.Hour)
	viper.SetDefault("resolver.candidate_limit", 3)
	viper.SetDefault("resolver.default_previous", 300)
	viper.SetDefault("resolver.default_current", 301)
	viper.SetDefault("resolver.default_next", 302)
	viper.SetDefault("refresher.cron", "@every 30m")
	viper.SetDefault("refresher.enabled", true)
}

// overrideFromEnv 用环境变量覆盖部署相关配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("UPSTREAM_BASE_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("UPSTREAM_PROXY"); v != "" {
		cfg.Upstream.Proxy = v
	}
}
