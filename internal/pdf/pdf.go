// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdf downloads the PDF of a cached paper.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-feed/internal/httputil"
	"github.com/pdiddy/paper-feed/pkg/types"
)

// ErrNoPDF is returned for a paper without a PDF link.
var ErrNoPDF = errors.New("paper has no pdf link")

// OutputPath returns out with a ".pdf" suffix. An empty out derives the
// file name from the paper id inside the current directory.
func OutputPath(p types.Paper, out string) string {
	if out == "" {
		id := p.ID
		if i := strings.LastIndex(id, "/"); i >= 0 {
			id = id[i+1:]
		}
		out = strings.ReplaceAll(id, ":", "-")
	}
	if !strings.HasSuffix(out, ".pdf") {
		out += ".pdf"
	}
	return out
}

// Download fetches p's PDF to out (see OutputPath) through a temporary file
// that is renamed into place on success. It returns the written path.
func Download(ctx context.Context, client *http.Client, p types.Paper, out string, cfg types.HTTPConfig) (string, error) {
	if p.PDFURL == "" {
		return "", fmt.Errorf("%s: %w", p.ID, ErrNoPDF)
	}
	dest := OutputPath(p, out)

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.PDFURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", httputil.UserAgent(cfg))
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries, nil)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, p.PDFURL)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), ".pdf-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return dest, nil
}
