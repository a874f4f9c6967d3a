package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Cutout  CutoutConfig  `mapstructure:"cutout"`
	Matting MattingConfig `mapstructure:"matting"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type UploadConfig struct {
	MaxSize      int64         `mapstructure:"max_size"`
	OutputDir    string        `mapstructure:"output_dir"`
	AllowedTypes []string      `mapstructure:"allowed_types"`
	RetainFor    time.Duration `mapstructure:"retain_for"`
}

type CutoutConfig struct {
	Mode            string `mapstructure:"mode"`
	Threshold       uint16 `mapstructure:"threshold"`
	SmoothingRadius uint16 `mapstructure:"smoothing_radius"`
	MaxDimension    int    `mapstructure:"max_dimension"`
	ThumbnailSize   int    `mapstructure:"thumbnail_size"`
	MaxConcurrent   int    `mapstructure:"max_concurrent"`
	QueueTimeout    int    `mapstructure:"queue_timeout"`
}

type MattingConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Load 从 YAML 文件加载配置，环境变量 CUTOUT_* 优先于文件
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 设置默认值
	setDefaults(v)

	v.SetEnvPrefix("cutout")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// New 使用默认配置路径加载配置
func New() *Config {
	cfg, err := Load("config.yaml")
	if err != nil {
		// 如果加载失败，返回默认配置
		return getDefaultConfig()
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("upload.max_size", 10*1024*1024)
	v.SetDefault("upload.output_dir", "./output")
	v.SetDefault("upload.allowed_types", []string{"image/jpeg", "image/png", "image/webp"})
	v.SetDefault("upload.retain_for", 24*time.Hour)

	v.SetDefault("cutout.mode", "auto")
	v.SetDefault("cutout.threshold", 30)
	v.SetDefault("cutout.smoothing_radius", 2)
	v.SetDefault("cutout.max_dimension", 2048)
	v.SetDefault("cutout.thumbnail_size", 256)
	v.SetDefault("cutout.max_concurrent", 3)
	v.SetDefault("cutout.queue_timeout", 30)

	v.SetDefault("matting.endpoint", "")
	v.SetDefault("matting.api_key", "")
	v.SetDefault("matting.timeout", 60*time.Second)
}

func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			Mode:         "debug",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			TTL:      24 * time.Hour,
		},
		Upload: UploadConfig{
			MaxSize:      10 * 1024 * 1024,
			OutputDir:    "./output",
			AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
			RetainFor:    24 * time.Hour,
		},
		Cutout: CutoutConfig{
			Mode:            "auto",
			Threshold:       30,
			SmoothingRadius: 2,
			MaxDimension:    2048,
			ThumbnailSize:   256,
			MaxConcurrent:   3,
			QueueTimeout:    30,
		},
		Matting: MattingConfig{
			Endpoint: "",
			APIKey:   "",
			Timeout:  60 * time.Second,
		},
	}
}
