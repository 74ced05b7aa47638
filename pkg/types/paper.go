// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-feed pipeline:
// the Paper record produced by the feed parser, the render view handed to
// the HTML stage, and the configuration consumed by the CLI.
package types

import (
	"strconv"
	"strings"
	"time"
)

// Paper is one feed entry. Papers are values: once the parser emits one it
// is only ever inserted, retained, or discarded, never modified.
type Paper struct {
	// ID is the feed's canonical identifier (e.g. "http://arxiv.org/abs/2301.07041v1").
	ID string `json:"id" yaml:"id"`

	// Updated is the time of the latest revision.
	Updated time.Time `json:"updated" yaml:"updated"`

	// Published is the time of the first version.
	Published time.Time `json:"published" yaml:"published"`

	// Title is the paper title as returned by the feed.
	Title string `json:"title" yaml:"title"`

	// Summary is the abstract.
	Summary string `json:"summary" yaml:"summary"`

	// Authors lists the paper authors in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// PDFURL is the https link to the PDF, always ending in ".pdf".
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Comment is the optional author comment (page counts, venue, ...).
	Comment *string `json:"comment" yaml:"comment"`
}

// Revised reports whether the paper was updated after its first publication.
func (p Paper) Revised() bool {
	return !p.Updated.Equal(p.Published)
}

// Equal reports whether p and o match on every field. Timestamps compare as
// instants, so the same moment in two locations is equal.
func (p Paper) Equal(o Paper) bool {
	if p.ID != o.ID || p.Title != o.Title || p.Summary != o.Summary || p.PDFURL != o.PDFURL {
		return false
	}
	if !p.Updated.Equal(o.Updated) || !p.Published.Equal(o.Published) {
		return false
	}
	if len(p.Authors) != len(o.Authors) {
		return false
	}
	for i := range p.Authors {
		if p.Authors[i] != o.Authors[i] {
			return false
		}
	}
	switch {
	case p.Comment == nil && o.Comment == nil:
		return true
	case p.Comment == nil || o.Comment == nil:
		return false
	default:
		return *p.Comment == *o.Comment
	}
}

// Key returns a string that is identical for two papers exactly when Equal
// reports true. Every variable-length field is length-prefixed so that no
// two distinct papers share a key.
func (p Paper) Key() string {
	var b strings.Builder
	field := func(s string) {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	field(p.ID)
	field(p.Updated.UTC().Format(time.RFC3339Nano))
	field(p.Published.UTC().Format(time.RFC3339Nano))
	field(p.Title)
	field(p.Summary)
	b.WriteString(strconv.Itoa(len(p.Authors)))
	b.WriteByte('#')
	for _, a := range p.Authors {
		field(a)
	}
	field(p.PDFURL)
	if p.Comment == nil {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
		field(*p.Comment)
	}
	return b.String()
}

// Clone returns a deep copy of p.
func (p Paper) Clone() Paper {
	c := p
	if p.Authors != nil {
		c.Authors = append([]string(nil), p.Authors...)
	}
	if p.Comment != nil {
		s := *p.Comment
		c.Comment = &s
	}
	return c
}
