package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-feed/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// Proxy is an optional proxy URL for all outgoing requests.
	Proxy string `json:"proxy,omitempty" yaml:"proxy,omitempty" mapstructure:"proxy"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// SourceConfig names one upstream category to pull.
type SourceConfig struct {
	// Category is the arXiv category (e.g. "cs.CL").
	Category string `json:"category" yaml:"category" mapstructure:"category"`

	// Title is the heading the category's papers are grouped under.
	Title string `json:"title" yaml:"title" mapstructure:"title"`

	// Limit is the max_results sent upstream.
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`
}

// BucketGranularity selects how a paper's updated time maps to a bucket key.
type BucketGranularity string

const (
	// BucketDay truncates to the start of the UTC day.
	BucketDay BucketGranularity = "day"
	// BucketExact keys on the full updated timestamp.
	BucketExact BucketGranularity = "exact"
)

// Window is the retention window in days.
type Window struct {
	Days int
}

// NewWindow returns a window of days, floored to one.
func NewWindow(days int) Window {
	if days < 1 {
		days = 1
	}
	return Window{Days: days}
}

// Cutoff returns the oldest bucket key kept at now: the start of the UTC
// day Days days before now.
func (w Window) Cutoff(now time.Time) time.Time {
	days := w.Days
	if days < 1 {
		days = 1
	}
	return TruncateDay(now.AddDate(0, 0, -days))
}

// Contains reports whether bucket falls inside the window at now.
func (w Window) Contains(bucket, now time.Time) bool {
	return !bucket.Before(w.Cutoff(now))
}

// TruncateDay returns the start of t's UTC day.
func TruncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// FeedConfig holds everything one run needs. It is loaded by
// internal/config and validated before the pipeline starts.
type FeedConfig struct {
	HTTP HTTPConfig `json:"http" yaml:"http" mapstructure:"http"`

	// LimitDays is the retention window in days (floored to 1).
	LimitDays int `json:"limit_days" yaml:"limit_days" mapstructure:"limit_days"`

	// SiteTitle is shown at the top of the rendered page.
	SiteTitle string `json:"site_title" yaml:"site_title" mapstructure:"site_title"`

	// TargetDir receives cache.json, the rendered page, and static assets.
	TargetDir string `json:"target_dir" yaml:"target_dir" mapstructure:"target_dir"`

	// TargetName is the rendered page's file name (default "index.html").
	TargetName string `json:"target_name" yaml:"target_name" mapstructure:"target_name"`

	// StaticsDir is copied verbatim into TargetDir.
	StaticsDir string `json:"statics_dir" yaml:"statics_dir" mapstructure:"statics_dir"`

	// TemplatesDir holds optional *.tmpl files that extend or replace the
	// embedded index template.
	TemplatesDir string `json:"templates_dir" yaml:"templates_dir" mapstructure:"templates_dir"`

	// CacheURL is where the previous snapshot is read from: an http(s) URL,
	// a file:// URL, or a local path. Empty means start from nothing.
	CacheURL string `json:"cache_url,omitempty" yaml:"cache_url,omitempty" mapstructure:"cache_url"`

	// APIBase is the upstream query endpoint.
	APIBase string `json:"api_base" yaml:"api_base" mapstructure:"api_base"`

	// Bucket selects day or exact bucketing.
	Bucket BucketGranularity `json:"bucket" yaml:"bucket" mapstructure:"bucket"`

	// Concurrency caps in-flight feed fetches (0 = one per source).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// Sources lists the categories to pull, in display order.
	Sources []SourceConfig `json:"sources" yaml:"sources" mapstructure:"sources"`
}

// Window returns the configured retention window.
func (c FeedConfig) Window() Window {
	return NewWindow(c.LimitDays)
}
