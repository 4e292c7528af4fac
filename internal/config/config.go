package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPrefix 环境变量前缀，例如 HOLDEM_REDIS_ADDR
const envPrefix = "holdem"

// Config 牌桌协调服务配置
type Config struct {
	Redis  RedisConfig  `yaml:"redis" split_words:"true"`
	Dealer DealerConfig `yaml:"dealer" split_words:"true"`
	Table  TableConfig  `yaml:"table" split_words:"true"`
	Hand   HandConfig   `yaml:"hand" split_words:"true"`
	Log    LogConfig    `yaml:"log" split_words:"true"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	DB       int    `yaml:"db" split_words:"true"`
}

// DealerConfig 发牌服务配置
type DealerConfig struct {
	URL     string `yaml:"url" split_words:"true"`
	Timeout int    `yaml:"timeout" split_words:"true"` // 请求超时（秒）
}

// TimeoutDuration 返回发牌请求超时时长
func (c *DealerConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// TableConfig 牌桌配置
type TableConfig struct {
	MaxSeats     int `yaml:"max_seats" split_words:"true"`
	JoinAttempts int `yaml:"join_attempts" split_words:"true"` // 入座冲突重试次数
}

// HandConfig 牌局配置
type HandConfig struct {
	SmallBlind float64 `yaml:"small_blind" split_words:"true"`
	BuyIn      float64 `yaml:"buy_in" split_words:"true"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level" split_words:"true"`
	File  string `yaml:"file" split_words:"true"`
	JSON  bool   `yaml:"json" split_words:"true"`
}

// Load 加载配置文件，再用环境变量覆盖
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FromEnv 仅从环境变量构建配置
func FromEnv() (*Config, error) {
	cfg := Default()
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Dealer: DealerConfig{
			URL:     "http://127.0.0.1:5003",
			Timeout: 5,
		},
		Table: TableConfig{
			MaxSeats:     10,
			JoinAttempts: 11,
		},
		Hand: HandConfig{
			SmallBlind: 10,
			BuyIn:      1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Redis.Addr == "" {
		c.Redis.Addr = def.Redis.Addr
	}
	if c.Dealer.URL == "" {
		c.Dealer.URL = def.Dealer.URL
	}
	if c.Dealer.Timeout == 0 {
		c.Dealer.Timeout = def.Dealer.Timeout
	}
	if c.Table.MaxSeats == 0 {
		c.Table.MaxSeats = def.Table.MaxSeats
	}
	if c.Table.JoinAttempts == 0 {
		c.Table.JoinAttempts = def.Table.JoinAttempts
	}
	if c.Hand.SmallBlind == 0 {
		c.Hand.SmallBlind = def.Hand.SmallBlind
	}
	if c.Hand.BuyIn == 0 {
		c.Hand.BuyIn = def.Hand.BuyIn
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// Validate 检查配置取值范围
func (c *Config) Validate() error {
	if c.Table.MaxSeats < 2 || c.Table.MaxSeats > 10 {
		return fmt.Errorf("table.max_seats must be between 2 and 10, got %d", c.Table.MaxSeats)
	}
	if c.Table.JoinAttempts < 1 {
		return fmt.Errorf("table.join_attempts must be positive, got %d", c.Table.JoinAttempts)
	}
	if c.Hand.SmallBlind <= 0 {
		return fmt.Errorf("hand.small_blind must be positive, got %v", c.Hand.SmallBlind)
	}
	if c.Dealer.Timeout < 0 {
		return fmt.Errorf("dealer.timeout must not be negative, got %d", c.Dealer.Timeout)
	}
	return nil
}
