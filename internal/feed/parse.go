// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/paper-feed/pkg/types"
)

// Parse reads one Atom feed document from r and returns its entries as
// Papers in document order. It walks the token stream and keeps only the
// entry under construction in memory. Any malformed timestamp, XML error,
// or read error rejects the whole document. Parsing stops at </feed>;
// anything after it is never read.
func Parse(r io.Reader) ([]types.Paper, error) {
	p := &parser{dec: xml.NewDecoder(r)}
	return p.run()
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(data []byte) ([]types.Paper, error) {
	return Parse(bytes.NewReader(data))
}

type parser struct {
	dec    *xml.Decoder
	papers []types.Paper

	cur      types.Paper
	inEntry  bool
	inAuthor bool
	entries  int

	// capture is the element whose text is being collected, "" when idle.
	// depth counts unknown elements nested inside it.
	capture string
	depth   int
	text    strings.Builder
}

func (p *parser) run() ([]types.Paper, error) {
	for {
		tok, err := p.dec.Token()
		if errors.Is(err, io.EOF) {
			return p.papers, nil
		}
		if err != nil {
			return nil, p.fail("", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.start(t); err != nil {
				return nil, err
			}
		case xml.CharData:
			if p.capture != "" {
				p.text.Write(t)
			}
		case xml.EndElement:
			done, err := p.end(t)
			if err != nil {
				return nil, err
			}
			if done {
				return p.papers, nil
			}
		}
	}
}

func (p *parser) start(t xml.StartElement) error {
	if p.capture != "" {
		p.depth++
		return nil
	}

	name := t.Name.Local
	if name == "entry" {
		p.cur = types.Paper{}
		p.inEntry = true
		p.inAuthor = false
		p.entries++
		return nil
	}
	if !p.inEntry {
		return nil
	}

	switch name {
	case "id", "updated", "published", "title", "summary", "comment":
		p.begin(name)
	case "author":
		p.inAuthor = true
	case "name":
		if p.inAuthor {
			p.begin(name)
		}
	case "link":
		if attr(t, "title") == "pdf" {
			p.cur.PDFURL = NormalizePDFURL(attr(t, "href"))
		}
	}
	return nil
}

// end handles a closing tag and reports whether parsing is finished.
func (p *parser) end(t xml.EndElement) (bool, error) {
	if p.capture != "" {
		if p.depth > 0 {
			p.depth--
			return false, nil
		}
		return false, p.assign()
	}

	switch t.Name.Local {
	case "feed":
		return true, nil
	case "author":
		p.inAuthor = false
	case "entry":
		if !p.inEntry {
			return false, nil
		}
		if p.cur.ID == "" {
			return false, p.fail("", ErrMissingID)
		}
		p.papers = append(p.papers, p.cur.Clone())
		p.inEntry = false
	}
	return false, nil
}

func (p *parser) begin(field string) {
	p.capture = field
	p.depth = 0
	p.text.Reset()
}

func (p *parser) assign() error {
	field, text := p.capture, p.text.String()
	p.capture = ""
	p.text.Reset()

	switch field {
	case "id":
		p.cur.ID = text
	case "title":
		p.cur.Title = text
	case "summary":
		p.cur.Summary = text
	case "comment":
		p.cur.Comment = &text
	case "name":
		p.cur.Authors = append(p.cur.Authors, text)
	case "updated", "published":
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(text))
		if err != nil {
			return p.fail(field, err)
		}
		if field == "updated" {
			p.cur.Updated = ts.UTC()
		} else {
			p.cur.Published = ts.UTC()
		}
	}
	return nil
}

func (p *parser) fail(field string, err error) error {
	entry := 0
	if p.inEntry {
		entry = p.entries
	}
	return &ParseError{Entry: entry, Field: field, Err: err}
}

// NormalizePDFURL rewrites a leading "http:" to "https:" and makes sure the
// link ends in ".pdf".
func NormalizePDFURL(href string) string {
	if strings.HasPrefix(href, "http:") {
		href = "https:" + strings.TrimPrefix(href, "http:")
	}
	if href != "" && !strings.HasSuffix(href, ".pdf") {
		href += ".pdf"
	}
	return href
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
