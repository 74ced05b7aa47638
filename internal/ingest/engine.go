// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest runs one fetch-and-merge cycle: it pulls every configured
// source, files the papers that fall inside the retention window into a
// collection seeded from the previous snapshot, and trims buckets that
// have aged out.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paper-feed/internal/collection"
	"github.com/pdiddy/paper-feed/internal/feed"
	"github.com/pdiddy/paper-feed/pkg/types"
)

// Fetcher retrieves and parses the feed for one query. *feed.Client
// implements it.
type Fetcher interface {
	FetchPapers(ctx context.Context, q feed.Query) ([]types.Paper, error)
}

// Engine merges freshly fetched papers into a collection.
type Engine struct {
	fetcher     Fetcher
	logger      *zap.Logger
	now         func() time.Time
	bucket      types.BucketGranularity
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock replaces time.Now for window computations.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithBucket selects day or exact bucketing.
func WithBucket(g types.BucketGranularity) Option {
	return func(e *Engine) { e.bucket = g }
}

// WithConcurrency caps in-flight fetches. Zero or less means one per source.
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// New returns an Engine that fetches through f.
func New(f Fetcher, opts ...Option) *Engine {
	e := &Engine{
		fetcher: f,
		logger:  zap.NewNop(),
		now:     time.Now,
		bucket:  types.BucketDay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Summary counts what happened to the fetched papers during Run.
type Summary struct {
	Sources     int
	Fetched     int
	Inserted    int
	Duplicates  int
	OutOfWindow int
}

// Run fetches every source and inserts each paper whose bucket lies inside
// window into c, filed under the source's title. Fetches may run
// concurrently, but c is only touched after all of them succeed, in source
// order, from this goroutine. The first fetch or parse error cancels the
// remaining fetches and is returned; c is then left unchanged.
func (e *Engine) Run(ctx context.Context, c *collection.Collection, sources []types.SourceConfig, window types.Window) (Summary, error) {
	summary := Summary{Sources: len(sources)}

	queries := make([]feed.Query, len(sources))
	for i, src := range sources {
		q, err := feed.NewQuery(src.Category, src.Limit)
		if err != nil {
			return summary, fmt.Errorf("source %q: %w", src.Title, err)
		}
		queries[i] = q
	}

	results := make([][]types.Paper, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			start := time.Now()
			papers, err := e.fetcher.FetchPapers(gctx, queries[i])
			if err != nil {
				return fmt.Errorf("fetching %s (%s): %w", src.Title, src.Category, err)
			}
			e.logger.Info("fetched source",
				zap.String("source", src.Title),
				zap.String("category", src.Category),
				zap.Int("papers", len(papers)),
				zap.Duration("elapsed", time.Since(start)))
			results[i] = papers
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	now := e.now()
	cutoff := window.Cutoff(now)
	for i, src := range sources {
		for _, p := range results[i] {
			summary.Fetched++
			bucket := collection.BucketOf(p.Updated, e.bucket)
			if bucket.Before(cutoff) {
				summary.OutOfWindow++
				continue
			}
			if c.Insert(bucket, src.Title, p) {
				summary.Inserted++
			} else {
				summary.Duplicates++
			}
		}
	}

	e.logger.Info("merge complete",
		zap.Int("fetched", summary.Fetched),
		zap.Int("inserted", summary.Inserted),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("out_of_window", summary.OutOfWindow),
		zap.Time("cutoff", cutoff))
	return summary, nil
}

// Finalize drops every bucket of c that lies outside window, including
// buckets carried over from the snapshot, and returns c.
func (e *Engine) Finalize(c *collection.Collection, window types.Window) *collection.Collection {
	now := e.now()
	before := c.Len()
	c.Retain(func(bucket time.Time) bool {
		return window.Contains(bucket, now)
	})
	e.logger.Info("retention applied",
		zap.Int("days", window.Days),
		zap.Int("buckets_kept", c.Len()),
		zap.Int("buckets_dropped", before-c.Len()))
	return c
}
