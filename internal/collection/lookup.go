// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collection

import (
	"regexp"
	"strings"

	"github.com/pdiddy/paper-feed/pkg/types"
)

var versionSuffix = regexp.MustCompile(`v\d+$`)

// Lookup returns the most recently updated paper whose id matches id. The
// id may be the full feed id, the bare arXiv id ("2301.07041"), or a
// versioned one ("2301.07041v2").
func (c *Collection) Lookup(id string) (types.Paper, bool) {
	id = strings.TrimSpace(id)
	var (
		best  types.Paper
		found bool
	)
	for _, g := range c.groups {
		for _, set := range g.sets {
			for _, p := range set.papers {
				if !MatchesID(p.ID, id) {
					continue
				}
				if !found || p.Updated.After(best.Updated) {
					best, found = p, true
				}
			}
		}
	}
	return best, found
}

// MatchesID reports whether a feed id refers to want.
func MatchesID(feedID, want string) bool {
	if want == "" {
		return false
	}
	if feedID == want {
		return true
	}
	short := feedID
	if i := strings.LastIndex(feedID, "/abs/"); i >= 0 {
		short = feedID[i+len("/abs/"):]
	}
	if short == want {
		return true
	}
	return versionSuffix.ReplaceAllString(short, "") == want
}
