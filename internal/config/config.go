// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the run configuration through viper: built-in
// defaults, then the YAML config file, then PAPER_FEED_* environment
// variables, then any flags bound by the CLI.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-feed/internal/feed"
	"github.com/pdiddy/paper-feed/internal/httputil"
	"github.com/pdiddy/paper-feed/pkg/types"
)

const (
	// Name is the config file's base name and the xdg subdirectory.
	Name = "paper-feed"
	// EnvPrefix prefixes environment overrides (PAPER_FEED_LIMIT_DAYS, ...).
	EnvPrefix = "PAPER_FEED"
)

// ErrNoSources is returned when the configuration lists no sources.
var ErrNoSources = errors.New("no sources configured")

// SetDefaults registers the default value of every scalar key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("limit_days", 1)
	v.SetDefault("site_title", Name)
	v.SetDefault("target_dir", "target")
	v.SetDefault("target_name", "index.html")
	v.SetDefault("statics_dir", "statics")
	v.SetDefault("templates_dir", "includes")
	v.SetDefault("cache_url", "")
	v.SetDefault("api_base", feed.DefaultAPIBase)
	v.SetDefault("bucket", string(types.BucketDay))
	v.SetDefault("concurrency", 0)
	v.SetDefault("http.timeout", httputil.DefaultTimeout)
	v.SetDefault("http.user_agent", httputil.DefaultUserAgent)
	v.SetDefault("http.proxy", "")
	v.SetDefault("http.max_retries", 5)
}

// Setup points v at cfgFile, or at paper-feed.yaml in the working directory
// and the user's xdg config directory, and enables environment overrides.
func Setup(v *viper.Viper, cfgFile string) {
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, Name))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Read loads the config file, if any, and returns its path. Not finding a
// file while searching is fine; an explicit file that cannot be read is
// an error.
func Read(v *viper.Viper) (string, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load decodes v into a FeedConfig and validates it.
func Load(v *viper.Viper) (types.FeedConfig, error) {
	var cfg types.FeedConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	normalize(&cfg)
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func normalize(cfg *types.FeedConfig) {
	if cfg.LimitDays < 1 {
		cfg.LimitDays = 1
	}
	if cfg.HTTP.Timeout <= 0 {
		cfg.HTTP.Timeout = httputil.DefaultTimeout
	}
	if cfg.Bucket == "" {
		cfg.Bucket = types.BucketDay
	}
	cfg.Bucket = types.BucketGranularity(strings.ToLower(string(cfg.Bucket)))
	for i := range cfg.Sources {
		cfg.Sources[i].Category = strings.TrimSpace(cfg.Sources[i].Category)
		if cfg.Sources[i].Title == "" {
			cfg.Sources[i].Title = cfg.Sources[i].Category
		}
	}
}

// Validate checks the fields the pipeline depends on.
func Validate(cfg types.FeedConfig) error {
	if len(cfg.Sources) == 0 {
		return ErrNoSources
	}
	for i, src := range cfg.Sources {
		if src.Category == "" {
			return fmt.Errorf("source %d: category is required", i+1)
		}
		if src.Limit < 0 {
			return fmt.Errorf("source %d (%s): limit must not be negative", i+1, src.Category)
		}
	}
	switch cfg.Bucket {
	case types.BucketDay, types.BucketExact:
	default:
		return fmt.Errorf("bucket %q: must be %q or %q", cfg.Bucket, types.BucketDay, types.BucketExact)
	}
	if cfg.TargetDir == "" {
		return fmt.Errorf("target_dir is required")
	}
	if cfg.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	return nil
}

// Describe returns a one-line summary for logs.
func Describe(cfg types.FeedConfig) string {
	cats := make([]string, len(cfg.Sources))
	for i, s := range cfg.Sources {
		cats[i] = s.Category
	}
	return fmt.Sprintf("%d source(s) [%s], window %d day(s), timeout %s",
		len(cfg.Sources), strings.Join(cats, ","), cfg.LimitDays, cfg.HTTP.Timeout.Round(time.Second))
}
