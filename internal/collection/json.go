// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/paper-feed/pkg/types"
)

// MarshalJSON encodes c as {"<bucket>": {"<category>": [paper, ...]}},
// writing buckets, categories, and papers in insertion order.
func (c *Collection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range c.buckets {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, bucketID(b)); err != nil {
			return nil, err
		}
		g := c.groups[bucketID(b)]
		buf.WriteByte('{')
		for j, name := range g.names {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, name); err != nil {
				return nil, err
			}
			papers := g.sets[name].papers
			if papers == nil {
				papers = []types.Paper{}
			}
			data, err := json.Marshal(papers)
			if err != nil {
				return nil, fmt.Errorf("encoding papers for %s/%s: %w", bucketID(b), name, err)
			}
			buf.Write(data)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	data, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(data)
	buf.WriteByte(':')
	return nil
}

// UnmarshalJSON decodes the MarshalJSON form into c, keeping document
// order. Papers repeated within a category are absorbed by the set rule.
// A JSON null yields an empty collection.
func (c *Collection) UnmarshalJSON(data []byte) error {
	*c = *New()

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	if tok == nil {
		return nil
	}
	if err := expectDelim(tok, '{'); err != nil {
		return err
	}

	for dec.More() {
		key, err := stringToken(dec)
		if err != nil {
			return err
		}
		bucket, err := time.Parse(time.RFC3339Nano, key)
		if err != nil {
			return fmt.Errorf("snapshot bucket %q: %w", key, err)
		}
		if err := c.decodeGroup(dec, bucket); err != nil {
			return fmt.Errorf("snapshot bucket %q: %w", key, err)
		}
	}

	tok, err = dec.Token()
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	return expectDelim(tok, '}')
}

func (c *Collection) decodeGroup(dec *json.Decoder, bucket time.Time) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if err := expectDelim(tok, '{'); err != nil {
		return err
	}
	for dec.More() {
		name, err := stringToken(dec)
		if err != nil {
			return err
		}
		var papers []types.Paper
		if err := dec.Decode(&papers); err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}
		for _, p := range papers {
			c.Insert(bucket, name, p)
		}
		if len(papers) == 0 {
			c.ensureCategory(bucket, name)
		}
	}
	tok, err = dec.Token()
	if err != nil {
		return err
	}
	return expectDelim(tok, '}')
}

// ensureCategory registers an empty category so that a decoded empty list
// survives a round trip.
func (c *Collection) ensureCategory(bucket time.Time, name string) {
	bucket = bucket.UTC()
	id := bucketID(bucket)
	g, ok := c.groups[id]
	if !ok {
		g = newGroup()
		c.groups[id] = g
		c.buckets = append(c.buckets, bucket)
	}
	if _, ok := g.sets[name]; !ok {
		g.sets[name] = newPaperSet()
		g.names = append(g.names, name)
	}
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return s, nil
}

func expectDelim(tok json.Token, want json.Delim) error {
	d, ok := tok.(json.Delim)
	if !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
