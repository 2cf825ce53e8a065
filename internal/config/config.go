package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode string `mapstructure:"mode"`
	Port int    `mapstructure:"port"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`

	RTCAppID   string        `mapstructure:"rtc_app_id"`
	RTCAppKey  string        `mapstructure:"rtc_app_key"`
	RTCHost    string        `mapstructure:"rtc_host"`
	RTCTimeout time.Duration `mapstructure:"rtc_timeout"`

	// Media endpoints for drift (camera device) streams.
	RTMPHost string `mapstructure:"rtmp_host"`
	RTMPPort int    `mapstructure:"rtmp_port"`
	RTSPPort int    `mapstructure:"rtsp_port"`

	// ServerSignature is the value the envelope signature field is compared
	// against. Real signature verification lives with the vendor.
	ServerSignature string        `mapstructure:"server_signature"`
	TokenExpire     time.Duration `mapstructure:"token_expire"`
	InformWorkers   int           `mapstructure:"inform_workers"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("redis_addr", "127.0.0.1:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_prefix", "vcmeet:")
	v.SetDefault("rtc_host", "https://rtc.volcengineapi.com")
	v.SetDefault("rtc_timeout", "10s")
	v.SetDefault("rtmp_host", "127.0.0.1")
	v.SetDefault("rtmp_port", 1935)
	v.SetDefault("rtsp_port", 8554)
	v.SetDefault("server_signature", "temp_server_signature")
	v.SetDefault("token_expire", "24h")
	v.SetDefault("inform_workers", 16)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
