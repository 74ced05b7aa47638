// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"errors"
	"fmt"
)

// ErrMissingID is wrapped by a ParseError when an entry closes without an id.
var ErrMissingID = errors.New("entry has no id")

// ParseError reports why a feed document was rejected. Parsing is
// all-or-nothing, so a ParseError always means no papers were returned.
type ParseError struct {
	Entry int    // 1-based index of the entry being parsed, 0 outside entries
	Field string // element that failed, if any
	Err   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("parsing feed entry %d <%s>: %v", e.Entry, e.Field, e.Err)
	case e.Entry > 0:
		return fmt.Sprintf("parsing feed entry %d: %v", e.Entry, e.Err)
	default:
		return fmt.Sprintf("parsing feed: %v", e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// StatusError reports a non-200 response from the upstream API.
type StatusError struct {
	StatusCode int
	URL        string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("arXiv API returned HTTP %d for %s", e.StatusCode, e.URL)
}

// IsMalformed reports whether err was caused by a rejected feed document.
func IsMalformed(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
