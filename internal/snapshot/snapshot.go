// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot reads and writes the persisted collection from the
// previous run. Reading never fails a run: any problem is logged and an
// empty collection is returned. Writing failures are returned.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-feed/internal/collection"
	"github.com/pdiddy/paper-feed/internal/httputil"
)

// FileName is the snapshot's name inside the target directory.
const FileName = "cache.json"

// Load reads the snapshot at location: an http(s) URL, a file:// URL, or a
// local path. An empty location, an unreachable source, a non-200 status,
// or a malformed document logs a warning and yields an empty collection.
func Load(ctx context.Context, client *http.Client, location string, logger *zap.Logger) *collection.Collection {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == "" {
		logger.Debug("no cache location configured, starting empty")
		return collection.New()
	}

	logger.Info("loading cache", zap.String("location", location))
	data, err := read(ctx, client, location)
	if err != nil {
		logger.Warn("cache read failed, starting empty", zap.String("location", location), zap.Error(err))
		return collection.New()
	}

	c := collection.New()
	if err := json.Unmarshal(data, c); err != nil {
		logger.Warn("cache malformed, starting empty", zap.String("location", location), zap.Error(err))
		return collection.New()
	}

	logger.Info("cache loaded",
		zap.Int("buckets", c.Len()),
		zap.Int("papers", c.PaperCount()))
	return c
}

func read(ctx context.Context, client *http.Client, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return fetch(ctx, client, location)
		case "file":
			return os.ReadFile(u.Path)
		}
	}
	return os.ReadFile(location)
}

func fetch(ctx context.Context, client *http.Client, location string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", httputil.DefaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, location)
	}
	return io.ReadAll(resp.Body)
}

// Persist writes c to dir/cache.json, creating dir if needed and replacing
// any previous snapshot. The file is written to a temporary name first and
// renamed into place, so a failed write leaves the old snapshot intact.
func Persist(c *collection.Collection, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding cache: %w", err)
	}

	path := filepath.Join(dir, FileName)
	tmp, err := os.CreateTemp(dir, ".cache-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing cache: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return path, nil
}
