// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-feed/pkg/types"
)

// ExportYAML writes view to dir/view.yaml and returns the path.
func ExportYAML(view types.View, dir string) (string, error) {
	data, err := yaml.Marshal(view)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeExport(dir, "view.yaml", data)
}

// ExportJSON writes view to dir/view.json and returns the path.
func ExportJSON(view types.View, dir string) (string, error) {
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeExport(dir, "view.json", data)
}

func writeExport(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
