// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-feed/pkg/types"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const (
	indexTemplate     = "index"
	defaultTargetName = "index.html"
)

// Renderer executes the site templates against a View.
type Renderer struct {
	tmpl   *template.Template
	logger *zap.Logger
}

// NewRenderer parses the embedded templates and then every *.tmpl file in
// templatesDir, so user templates may add partials or redefine "index".
// A missing templatesDir is not an error.
func NewRenderer(templatesDir string, logger *zap.Logger) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.New(indexTemplate).Funcs(funcMap()).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing embedded templates: %w", err)
	}

	if templatesDir != "" {
		matches, err := filepath.Glob(filepath.Join(templatesDir, "*.tmpl"))
		if err != nil {
			return nil, fmt.Errorf("listing templates in %s: %w", templatesDir, err)
		}
		if len(matches) > 0 {
			logger.Info("loading templates", zap.String("dir", templatesDir), zap.Int("files", len(matches)))
			if tmpl, err = tmpl.ParseFiles(matches...); err != nil {
				return nil, fmt.Errorf("parsing templates in %s: %w", templatesDir, err)
			}
		}
	}

	return &Renderer{tmpl: tmpl, logger: logger}, nil
}

// Render writes the index page for view to w.
func (r *Renderer) Render(w io.Writer, view types.View) error {
	if err := r.tmpl.ExecuteTemplate(w, indexTemplate, view); err != nil {
		return fmt.Errorf("rendering %s: %w", indexTemplate, err)
	}
	return nil
}

// WriteSite copies the static assets into the target directory and writes
// the rendered page there. It returns the page's path.
func (r *Renderer) WriteSite(cfg types.FeedConfig, view types.View) (string, error) {
	if err := os.MkdirAll(cfg.TargetDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", cfg.TargetDir, err)
	}

	if cfg.StaticsDir != "" {
		r.logger.Info("copying static files", zap.String("from", cfg.StaticsDir), zap.String("to", cfg.TargetDir))
		if err := CopyStatics(cfg.StaticsDir, cfg.TargetDir); err != nil {
			return "", err
		}
	}

	name := cfg.TargetName
	if name == "" {
		name = defaultTargetName
	}
	path := filepath.Join(cfg.TargetDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	renderErr := r.Render(f, view)
	closeErr := f.Close()
	if renderErr != nil {
		return "", renderErr
	}
	if closeErr != nil {
		return "", fmt.Errorf("closing %s: %w", path, closeErr)
	}

	r.logger.Info("page generated", zap.String("path", path), zap.Int("papers", view.PaperCount()))
	return path, nil
}

// CopyStatics copies the tree under src into dst. A missing src is skipped.
func CopyStatics(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
		return nil
	})
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"time_format": timeFormat,
		"join":        strings.Join,
		"revised":     func(p types.Paper) bool { return p.Revised() },
		"abs_url":     absURL,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
}

// timeFormat formats t as "rfc2822", "rfc3339", or a Go layout. With no
// layout it uses time.Time's default string form.
func timeFormat(t time.Time, layout ...string) string {
	t = t.UTC()
	if len(layout) == 0 || layout[0] == "" {
		return t.String()
	}
	switch layout[0] {
	case "rfc2822":
		return t.Format(time.RFC1123Z)
	case "rfc3339":
		return t.Format(time.RFC3339)
	default:
		return t.Format(layout[0])
	}
}

// absURL returns an https link for a feed id.
func absURL(id string) string {
	if strings.HasPrefix(id, "http:") {
		return "https:" + strings.TrimPrefix(id, "http:")
	}
	return id
}
