// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-feed/internal/collection"
	"github.com/pdiddy/paper-feed/pkg/types"
)

var (
	day1 = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	day2 = day1.AddDate(0, 0, 1)
	day3 = day1.AddDate(0, 0, 2)
)

func fresh(id string, at time.Time) types.Paper {
	return types.Paper{ID: id, Updated: at, Published: at, Title: "Title " + id, PDFURL: "https://x/" + id + ".pdf"}
}

func revised(id string, at time.Time) types.Paper {
	p := fresh(id, at)
	p.Published = at.AddDate(0, 0, -30)
	return p
}

func ids(papers []types.Paper) []string {
	out := make([]string, len(papers))
	for i, p := range papers {
		out[i] = p.ID
	}
	return out
}

func TestBuildView_DaysDescending(t *testing.T) {
	c := collection.New()
	c.Insert(day2, "NLP", fresh("b", day2))
	c.Insert(day1, "NLP", fresh("a", day1))
	c.Insert(day3, "NLP", fresh("c", day3))

	v := BuildView(Meta{SiteTitle: "Daily"}, c)

	require.Len(t, v.Days, 3)
	assert.Equal(t, day3, v.Days[0].Date)
	assert.Equal(t, day2, v.Days[1].Date)
	assert.Equal(t, day1, v.Days[2].Date)
	assert.Equal(t, "Daily", v.SiteTitle)
	assert.False(t, v.BuildTime.IsZero())
}

func TestBuildView_SortStability(t *testing.T) {
	tests := []struct {
		name   string
		insert []types.Paper
		want   []string
	}{
		{
			"revised last",
			[]types.Paper{fresh("A", day1), fresh("B", day1), fresh("C", day1), revised("D", day1)},
			[]string{"A", "B", "C", "D"},
		},
		{
			"revised first moves after fresh",
			[]types.Paper{revised("D", day1), fresh("A", day1), fresh("B", day1), fresh("C", day1)},
			[]string{"A", "B", "C", "D"},
		},
		{
			"interleaved keeps relative order",
			[]types.Paper{revised("R1", day1), fresh("A", day1), revised("R2", day1), fresh("B", day1)},
			[]string{"A", "B", "R1", "R2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := collection.New()
			for _, p := range tt.insert {
				c.Insert(day1, "NLP", p)
			}
			v := BuildView(Meta{}, c)
			require.Len(t, v.Days, 1)
			require.Len(t, v.Days[0].Subjects, 1)
			assert.Equal(t, tt.want, ids(v.Days[0].Subjects[0].Papers))
		})
	}
}

func TestBuildView_CategoryOrderAndNoDedup(t *testing.T) {
	c := collection.New()
	p := fresh("same", day1)
	c.Insert(day1, "Zeta", p)
	c.Insert(day1, "Alpha", p)

	v := BuildView(Meta{}, c)
	require.Len(t, v.Days[0].Subjects, 2)
	assert.Equal(t, "Zeta", v.Days[0].Subjects[0].Subject)
	assert.Equal(t, "Alpha", v.Days[0].Subjects[1].Subject)
	assert.Equal(t, 2, v.PaperCount())
}

func TestBuildView_Empty(t *testing.T) {
	v := BuildView(Meta{}, collection.New())
	assert.NotNil(t, v.Days)
	assert.Empty(t, v.Days)
}

func TestRenderer_DefaultTemplate(t *testing.T) {
	comment := "NeurIPS <2026>"
	p := fresh("http://arxiv.org/abs/2610.00001v1", day1)
	p.Authors = []string{"Ada", "Alan"}
	p.Comment = &comment

	c := collection.New()
	c.Insert(day1, "NLP", p)
	v := BuildView(Meta{SiteTitle: "Daily arXiv", ProjectName: "paper-feed", BuildTime: day2}, c)

	r, err := NewRenderer("", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, v))
	out := buf.String()

	assert.Contains(t, out, "<title>Daily arXiv</title>")
	assert.Contains(t, out, "Ada, Alan")
	assert.Contains(t, out, "https://arxiv.org/abs/2610.00001v1")
	assert.Contains(t, out, "NeurIPS &lt;2026&gt;")
	assert.Contains(t, out, "Wednesday, 14 October 2026")
}

func TestRenderer_UserTemplateOverridesIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.tmpl"),
		[]byte(`{{define "index"}}{{.SiteTitle}}:{{len .Days}}:{{time_format .BuildTime "2006"}}{{end}}`), 0o644))

	r, err := NewRenderer(dir, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, types.View{SiteTitle: "X", BuildTime: day1}))
	assert.Equal(t, "X:0:2026", buf.String())
}

func TestRenderer_BadUserTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.tmpl"), []byte(`{{define "index"}}{{.Nope`), 0o644))

	_, err := NewRenderer(dir, nil)
	assert.Error(t, err)
}

func TestWriteSite(t *testing.T) {
	root := t.TempDir()
	statics := filepath.Join(root, "statics")
	require.NoError(t, os.MkdirAll(filepath.Join(statics, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(statics, "style.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(statics, "img", "logo.svg"), []byte("<svg/>"), 0o644))

	cfg := types.FeedConfig{
		TargetDir:  filepath.Join(root, "target"),
		StaticsDir: statics,
		TargetName: "daily.html",
	}

	r, err := NewRenderer("", nil)
	require.NoError(t, err)
	path, err := r.WriteSite(cfg, types.View{SiteTitle: "Site"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.TargetDir, "daily.html"), path)

	page, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(page), "No papers in the retention window."))

	css, err := os.ReadFile(filepath.Join(cfg.TargetDir, "style.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(css))
	assert.FileExists(t, filepath.Join(cfg.TargetDir, "img", "logo.svg"))
}

func TestCopyStatics_MissingSource(t *testing.T) {
	assert.NoError(t, CopyStatics(filepath.Join(t.TempDir(), "none"), t.TempDir()))
}

func TestTimeFormat(t *testing.T) {
	ts := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-18T09:30:00Z", timeFormat(ts, "rfc3339"))
	assert.Equal(t, "Sun, 18 Oct 2026 09:30:00 +0000", timeFormat(ts, "rfc2822"))
	assert.Equal(t, "2026/10/18", timeFormat(ts, "2006/01/02"))
	assert.Equal(t, ts.String(), timeFormat(ts))
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	c := collection.New()
	c.Insert(day1, "NLP", fresh("a", day1))
	v := BuildView(Meta{SiteTitle: "S", BuildTime: day2}, c)

	yamlPath, err := ExportYAML(v, dir)
	require.NoError(t, err)
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML types.View
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, "S", fromYAML.SiteTitle)
	require.Len(t, fromYAML.Days, 1)
	assert.Equal(t, "a", fromYAML.Days[0].Subjects[0].Papers[0].ID)

	jsonPath, err := ExportJSON(v, dir)
	require.NoError(t, err)
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON types.View
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, 1, fromJSON.PaperCount())
}
