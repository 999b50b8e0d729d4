package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构
// 设计说明：使用Viper管理配置，支持YAML文件、环境变量覆盖
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MQ        MQConfig        `mapstructure:"mq"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Sweeper   SweeperConfig   `mapstructure:"sweeper"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN 生成MySQL连接字符串
// 格式：user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
// 注意：loc参数需要URL编码（Asia/Shanghai → Asia%2FShanghai）
func (d DatabaseConfig) DSN() string {
	loc := url.QueryEscape(d.Loc)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	StatsTTL     time.Duration `mapstructure:"stats_ttl"` // 商品库存统计缓存TTL
}

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MQConfig 消息队列配置
// Driver=log时事件只写日志（默认），Driver=rabbitmq时发布到RabbitMQ
type MQConfig struct {
	Driver   string `mapstructure:"driver"` // log | rabbitmq
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

// InventoryConfig 库存业务配置
// 设计说明：业务配置与技术配置分离
type InventoryConfig struct {
	DefaultExpiresMinutes int `mapstructure:"default_expires_minutes"` // 预留默认过期窗口
	MaxExpiresMinutes     int `mapstructure:"max_expires_minutes"`     // 预留最大过期窗口
	LowStockLimit         int `mapstructure:"low_stock_limit"`         // 低库存查询默认上限
}

// SweeperConfig 过期预留清理配置
type SweeperConfig struct {
	Interval  time.Duration `mapstructure:"interval"`   // 扫描间隔
	BatchSize int           `mapstructure:"batch_size"` // 单轮处理上限
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // console | json
	Output string `mapstructure:"output"` // stdout | stderr | /path/to/file
}

// Load 加载配置文件
// 支持：
// 1. 默认加载config/config.yaml
// 2. 环境变量覆盖（如INVENTORY_DATABASE_PASSWORD → database.password）
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 业务默认值
	v.SetDefault("server.mode", "debug")
	v.SetDefault("inventory.default_expires_minutes", 60)
	v.SetDefault("inventory.max_expires_minutes", 1440)
	v.SetDefault("inventory.low_stock_limit", 100)
	v.SetDefault("sweeper.interval", time.Minute)
	v.SetDefault("sweeper.batch_size", 100)
	v.SetDefault("mq.driver", "log")
	v.SetDefault("redis.stats_ttl", 30*time.Second)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	v.SetEnvPrefix("INVENTORY")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		return fmt.Errorf("数据库配置不完整")
	}

	if cfg.Inventory.DefaultExpiresMinutes < 1 || cfg.Inventory.DefaultExpiresMinutes > cfg.Inventory.MaxExpiresMinutes {
		return fmt.Errorf("无效的预留过期窗口: default=%d max=%d",
			cfg.Inventory.DefaultExpiresMinutes, cfg.Inventory.MaxExpiresMinutes)
	}

	if cfg.Sweeper.Interval <= 0 {
		return fmt.Errorf("清理间隔必须大于0: %v", cfg.Sweeper.Interval)
	}

	if cfg.MQ.Driver == "rabbitmq" && cfg.MQ.URL == "" {
		return fmt.Errorf("启用RabbitMQ时必须配置mq.url")
	}

	return nil
}
