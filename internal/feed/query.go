// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed builds arXiv listing queries, fetches the Atom feeds they
// describe, and parses those feeds into Paper records.
package feed

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultAPIBase is the arXiv query endpoint.
	DefaultAPIBase = "https://export.arxiv.org/api/query"

	defaultMaxResults = 100
	sortByUpdated     = "lastUpdatedDate"
	sortDescending    = "descending"
)

// ErrEmptySearchScope is returned by NewQuery when no category is given.
var ErrEmptySearchScope = errors.New("query has no search scope")

// Query describes one listing request. It is a plain value; build it with
// NewQuery so the sort parameters are always set.
type Query struct {
	SearchQuery string
	Start       int
	MaxResults  int
	SortBy      string
	SortOrder   string
}

// NewQuery returns the listing query for category, newest revisions first.
// A limit <= 0 falls back to 100 results.
func NewQuery(category string, limit int) (Query, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return Query{}, ErrEmptySearchScope
	}
	if limit <= 0 {
		limit = defaultMaxResults
	}
	return Query{
		SearchQuery: "cat:" + category,
		Start:       0,
		MaxResults:  limit,
		SortBy:      sortByUpdated,
		SortOrder:   sortDescending,
	}, nil
}

// Encode returns the URL query string in the parameter order the API
// documents.
func (q Query) Encode() string {
	parts := []string{
		"search_query=" + url.QueryEscape(q.SearchQuery),
		"start=" + strconv.Itoa(q.Start),
		"max_results=" + strconv.Itoa(q.MaxResults),
		"sortBy=" + url.QueryEscape(q.SortBy),
		"sortOrder=" + url.QueryEscape(q.SortOrder),
	}
	return strings.Join(parts, "&")
}

// URL returns the full request URL against base.
func (q Query) URL(base string) string {
	if base == "" {
		base = DefaultAPIBase
	}
	return base + "?" + q.Encode()
}
