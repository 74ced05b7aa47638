// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns a collection into the sorted view consumed by the
// HTML templates, renders the site, and exports the view as YAML or JSON.
package render

import (
	"sort"
	"time"

	"github.com/pdiddy/paper-feed/internal/collection"
	"github.com/pdiddy/paper-feed/pkg/types"
)

// Meta is the site and build information stamped on a view.
type Meta struct {
	SiteTitle       string
	ProjectName     string
	ProjectVersion  string
	ProjectHomepage string
	BuildTime       time.Time
}

// BuildView flattens c into a View. Days are sorted newest first. Inside a
// category, papers that were never revised come before revised ones, and
// papers keep their collection order otherwise. Categories keep insertion
// order. BuildView does no deduplication of its own.
func BuildView(meta Meta, c *collection.Collection) types.View {
	buildTime := meta.BuildTime
	if buildTime.IsZero() {
		buildTime = time.Now().UTC()
	}

	view := types.View{
		SiteTitle:       meta.SiteTitle,
		BuildTime:       buildTime,
		ProjectName:     meta.ProjectName,
		ProjectVersion:  meta.ProjectVersion,
		ProjectHomepage: meta.ProjectHomepage,
		Days:            []types.DayEntry{},
	}

	for _, bucket := range c.Buckets() {
		g := c.Group(bucket)
		day := types.DayEntry{Date: bucket, Subjects: []types.CategoryEntry{}}
		for _, name := range g.Categories() {
			papers := g.Papers(name)
			SortPapers(papers)
			day.Subjects = append(day.Subjects, types.CategoryEntry{Subject: name, Papers: papers})
		}
		view.Days = append(view.Days, day)
	}

	sort.SliceStable(view.Days, func(i, j int) bool {
		return view.Days[i].Date.After(view.Days[j].Date)
	})
	return view
}

// SortPapers orders papers in place: fresh papers first, revised ones
// after, stable within each group.
func SortPapers(papers []types.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		return !papers[i].Revised() && papers[j].Revised()
	})
}
