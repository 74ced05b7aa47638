// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/paper-feed/internal/collection"
	"github.com/pdiddy/paper-feed/pkg/types"
)

var day = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

func sample() *collection.Collection {
	c := collection.New()
	c.Insert(day, "NLP", types.Paper{
		ID:        "http://arxiv.org/abs/2610.00001v1",
		Updated:   day.Add(time.Hour),
		Published: day.Add(time.Hour),
		Title:     "T",
		PDFURL:    "https://arxiv.org/pdf/2610.00001v1.pdf",
	})
	return c
}

func TestPersistThenLoadFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "target")

	path, err := Persist(sample(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	got := Load(context.Background(), nil, path, nil)
	assert.Equal(t, 1, got.PaperCount())

	got = Load(context.Background(), nil, "file://"+path, nil)
	assert.Equal(t, 1, got.PaperCount())
}

func TestPersist_Overwrites(t *testing.T) {
	dir := t.TempDir()
	_, err := Persist(sample(), dir)
	require.NoError(t, err)

	_, err = Persist(collection.New(), dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestPersist_DirectoryError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := Persist(sample(), filepath.Join(blocker, "sub"))
	assert.Error(t, err)
}

func TestLoad_HTTP(t *testing.T) {
	data, err := json.Marshal(sample())
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer ts.Close()

	got := Load(context.Background(), ts.Client(), ts.URL+"/cache.json", nil)
	assert.Equal(t, 1, got.PaperCount())
}

func TestLoad_DegradesToEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.Write([]byte(`{"not a date": {}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	tests := []struct {
		name     string
		location string
		message  string
	}{
		{"http 404", ts.URL + "/missing", "cache read failed, starting empty"},
		{"malformed", ts.URL + "/bad", "cache malformed, starting empty"},
		{"missing file", filepath.Join(t.TempDir(), "nope.json"), "cache read failed, starting empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			got := Load(context.Background(), ts.Client(), tt.location, zap.New(core))

			require.NotNil(t, got)
			assert.Equal(t, 0, got.Len())
			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tt.message, logs.All()[0].Message)
		})
	}
}

func TestLoad_EmptyLocation(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	got := Load(context.Background(), nil, "", zap.New(core))
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, 0, logs.Len())
}
