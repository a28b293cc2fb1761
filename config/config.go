// Package config loads runtime settings from the environment and an
// optional yaml file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything tunable about the server.
type Config struct {
	// BaseURL is the thesis center root, without a trailing slash.
	BaseURL string
	// RequestTimeout bounds page fetches; PDF downloads get twice this.
	RequestTimeout time.Duration
	// UserAgent is sent on every request; the site rejects bare clients.
	UserAgent string
	// RequestsPerSecond caps the outbound request rate.
	RequestsPerSecond float64

	// CacheDir holds downloaded PDFs; empty disables the disk tier.
	CacheDir string
	// CacheMaxMB bounds the in-memory PDF cache.
	CacheMaxMB int
	// CacheMaxItems bounds the in-memory PDF cache entry count.
	CacheMaxItems int
	// CacheTTL expires disk-cached PDFs.
	CacheTTL time.Duration

	// MarkitdownPath is the converter executable.
	MarkitdownPath string
}

// Load reads configuration with the YOKTEZ_ env prefix, overlaid on an
// optional yoktez-mcp.yaml in the working directory or
// ~/.config/yoktez-mcp.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("yoktez-mcp")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "yoktez-mcp"))
	}
	v.SetEnvPrefix("YOKTEZ")
	v.AutomaticEnv()

	v.SetDefault("base_url", "https://tez.yok.gov.tr")
	v.SetDefault("request_timeout", "60s")
	v.SetDefault("user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("requests_per_second", 2.0)
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("cache_max_mb", 100)
	v.SetDefault("cache_max_items", 50)
	v.SetDefault("cache_ttl", (30 * 24 * time.Hour).String())
	v.SetDefault("markitdown_path", "markitdown")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return &Config{
		BaseURL:           v.GetString("base_url"),
		RequestTimeout:    v.GetDuration("request_timeout"),
		UserAgent:         v.GetString("user_agent"),
		RequestsPerSecond: v.GetFloat64("requests_per_second"),
		CacheDir:          v.GetString("cache_dir"),
		CacheMaxMB:        v.GetInt("cache_max_mb"),
		CacheMaxItems:     v.GetInt("cache_max_items"),
		CacheTTL:          v.GetDuration("cache_ttl"),
		MarkitdownPath:    v.GetString("markitdown_path"),
	}, nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "yoktez-mcp")
}
