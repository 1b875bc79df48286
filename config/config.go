package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config 是渲染服务与命令行共用的配置，全部来自 MONTAGE_* 环境变量。
type Config struct {
	Port          int           `envconfig:"PORT" default:"8080"`
	ScriptDir     string        `envconfig:"SCRIPT_DIR" default:"./scripts"`
	FontDir       string        `envconfig:"FONT_DIR" default:"./fonts"`
	Width         int           `envconfig:"WIDTH" default:"1920"`
	Height        int           `envconfig:"HEIGHT" default:"1200"`
	DPI           float64       `envconfig:"DPI" default:"300"`
	JPEGQuality   int           `envconfig:"JPEG_QUALITY" default:"100"`
	MaxPixels     int           `envconfig:"MAX_PIXELS" default:"50000000"`
	RenderTimeout time.Duration `envconfig:"RENDER_TIMEOUT" default:"30s"`
	MaxScriptSize int64         `envconfig:"MAX_SCRIPT_SIZE" default:"1048576"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("montage", &cfg); err != nil {
		return nil, err
	}
	if cfg.JPEGQuality < 0 || cfg.JPEGQuality > 100 {
		return nil, fmt.Errorf("MONTAGE_JPEG_QUALITY 必须在 0-100 之间: %d", cfg.JPEGQuality)
	}
	if cfg.MaxPixels <= 0 {
		return nil, fmt.Errorf("MONTAGE_MAX_PIXELS 必须为正: %d", cfg.MaxPixels)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.DPI <= 0 {
		return nil, fmt.Errorf("默认文档尺寸与 dpi 必须为正")
	}
	return &cfg, nil
}

// Level maps LogLevel to a slog level; unknown values fall back to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
