// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// View is the fully sorted tree handed to the rendering stage. Site and
// build metadata appear once; the days below hold the papers.
type View struct {
	SiteTitle       string     `json:"site_title" yaml:"site_title"`
	BuildTime       time.Time  `json:"build_time" yaml:"build_time"`
	ProjectName     string     `json:"project_name" yaml:"project_name"`
	ProjectVersion  string     `json:"project_version" yaml:"project_version"`
	ProjectHomepage string     `json:"project_homepage" yaml:"project_homepage"`
	Days            []DayEntry `json:"days" yaml:"days"`
}

// DayEntry groups the categories of one bucket.
type DayEntry struct {
	Date     time.Time       `json:"datetime" yaml:"datetime"`
	Subjects []CategoryEntry `json:"subjects" yaml:"subjects"`
}

// CategoryEntry holds the papers of one source title within a day.
type CategoryEntry struct {
	Subject string  `json:"subject" yaml:"subject"`
	Papers  []Paper `json:"papers" yaml:"papers"`
}

// PaperCount returns the number of papers across all days and categories.
func (v View) PaperCount() int {
	n := 0
	for _, d := range v.Days {
		for _, s := range d.Subjects {
			n += len(s.Papers)
		}
	}
	return n
}
