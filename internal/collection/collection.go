// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collection holds the nested, insertion-ordered grouping of papers
// by bucket and category. Papers are deduplicated structurally: two papers
// are the same only when every field matches, so a revised paper is kept
// as an additional record next to its older version.
package collection

import (
	"time"

	"github.com/pdiddy/paper-feed/pkg/types"
)

// BucketOf returns the bucket key for a paper updated at t.
func BucketOf(t time.Time, g types.BucketGranularity) time.Time {
	if g == types.BucketExact {
		return t.UTC()
	}
	return types.TruncateDay(t)
}

// PaperSet is an insertion-ordered set of papers.
type PaperSet struct {
	papers []types.Paper
	keys   map[string]struct{}
}

func newPaperSet() *PaperSet {
	return &PaperSet{keys: make(map[string]struct{})}
}

// Add appends p unless an equal paper is already present, and reports
// whether it was added.
func (s *PaperSet) Add(p types.Paper) bool {
	k := p.Key()
	if _, ok := s.keys[k]; ok {
		return false
	}
	s.keys[k] = struct{}{}
	s.papers = append(s.papers, p)
	return true
}

// Len returns the number of papers.
func (s *PaperSet) Len() int { return len(s.papers) }

// Papers returns the papers in insertion order.
func (s *PaperSet) Papers() []types.Paper {
	return append([]types.Paper(nil), s.papers...)
}

// Group maps category titles to paper sets, in insertion order.
type Group struct {
	names []string
	sets  map[string]*PaperSet
}

func newGroup() *Group {
	return &Group{sets: make(map[string]*PaperSet)}
}

// Insert adds p under category and reports whether it was new.
func (g *Group) Insert(category string, p types.Paper) bool {
	set, ok := g.sets[category]
	if !ok {
		set = newPaperSet()
		g.sets[category] = set
		g.names = append(g.names, category)
	}
	return set.Add(p)
}

// Categories returns the category titles in insertion order.
func (g *Group) Categories() []string {
	return append([]string(nil), g.names...)
}

// Papers returns the papers filed under category.
func (g *Group) Papers(category string) []types.Paper {
	set, ok := g.sets[category]
	if !ok {
		return nil
	}
	return set.Papers()
}

// Set returns the paper set for category, or nil.
func (g *Group) Set(category string) *PaperSet {
	return g.sets[category]
}

// PaperCount returns the number of papers across all categories.
func (g *Group) PaperCount() int {
	n := 0
	for _, set := range g.sets {
		n += set.Len()
	}
	return n
}

// Collection maps bucket keys to category groups. Bucket iteration order
// is insertion order; nothing here sorts. A Collection is not safe for
// concurrent mutation.
type Collection struct {
	buckets []time.Time
	groups  map[string]*Group
}

// New returns an empty Collection.
func New() *Collection {
	return &Collection{groups: make(map[string]*Group)}
}

func bucketID(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Insert files p under bucket and category. Inserting a paper equal to one
// already in that bucket and category is a no-op; Insert reports whether
// the paper was new.
func (c *Collection) Insert(bucket time.Time, category string, p types.Paper) bool {
	bucket = bucket.UTC()
	id := bucketID(bucket)
	g, ok := c.groups[id]
	if !ok {
		g = newGroup()
		c.groups[id] = g
		c.buckets = append(c.buckets, bucket)
	}
	return g.Insert(category, p)
}

// Retain drops every bucket for which keep returns false.
func (c *Collection) Retain(keep func(bucket time.Time) bool) {
	kept := c.buckets[:0]
	for _, b := range c.buckets {
		if keep(b) {
			kept = append(kept, b)
			continue
		}
		delete(c.groups, bucketID(b))
	}
	c.buckets = kept
}

// MergeFrom folds other into c, bucket by bucket and category by category,
// with the same dedup rule as Insert.
func (c *Collection) MergeFrom(other *Collection) {
	if other == nil {
		return
	}
	for _, b := range other.buckets {
		g := other.groups[bucketID(b)]
		for _, name := range g.names {
			for _, p := range g.sets[name].papers {
				c.Insert(b, name, p)
			}
		}
	}
}

// Buckets returns the bucket keys in insertion order.
func (c *Collection) Buckets() []time.Time {
	return append([]time.Time(nil), c.buckets...)
}

// Group returns the category group for bucket, or nil.
func (c *Collection) Group(bucket time.Time) *Group {
	return c.groups[bucketID(bucket)]
}

// Len returns the number of buckets.
func (c *Collection) Len() int { return len(c.buckets) }

// PaperCount returns the number of papers across all buckets, counting a
// paper once per bucket and category it appears in.
func (c *Collection) PaperCount() int {
	n := 0
	for _, g := range c.groups {
		n += g.PaperCount()
	}
	return n
}
