package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Debug            bool          `mapstructure:"debug"`
	Port             int           `mapstructure:"port"`
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	StaticPath       string        `mapstructure:"static_path"`
	DrawingSeconds   int           `mapstructure:"drawing_seconds"`
	AnsweringSeconds int           `mapstructure:"answering_seconds"`
	DefaultRounds    int           `mapstructure:"default_rounds"`
	SendBuffer       int           `mapstructure:"send_buffer"`
	InboundRate      float64       `mapstructure:"inbound_rate"`
	InboundBurst     int           `mapstructure:"inbound_burst"`
	PingPeriod       time.Duration `mapstructure:"ping_period"`
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

	v.SetDefault("debug", false)
	v.SetDefault("port", 3001)
	v.SetDefault("allowed_origins", []string{"http://localhost:3001"})
	v.SetDefault("static_path", "./public")
	v.SetDefault("drawing_seconds", 30)
	v.SetDefault("answering_seconds", 15)
	v.SetDefault("default_rounds", 3)
	v.SetDefault("send_buffer", 256)
	v.SetDefault("inbound_rate", 100)
	v.SetDefault("inbound_burst", 200)
	v.SetDefault("ping_period", "30s")

	if err := v.ReadInConfig(); err != nil {
		slog.Warn("config file not found, using defaults", "file", fileName)
	} else {
		slog.Info("loaded config", "file", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
