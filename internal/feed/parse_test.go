// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-feed/pkg/types"
)

const oneEntryFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title type="html">ArXiv Query: search_query=cat:cs.CL</title>
  <id>http://arxiv.org/api/feedid</id>
  <updated>2026-10-17T00:00:00-04:00</updated>
  <entry>
    <id>http://arxiv.org/abs/2610.01234v2</id>
    <updated>2026-10-16T17:59:59Z</updated>
    <published>2026-10-14T12:00:00Z</published>
    <title>Streaming Parsers for Fun</title>
    <summary>We parse feeds.</summary>
    <author>
      <name>Ada Lovelace</name>
    </author>
    <author>
      <name>Alan Turing</name>
      <arxiv:affiliation>Bletchley</arxiv:affiliation>
    </author>
    <arxiv:comment>12 pages, 3 figures</arxiv:comment>
    <link href="http://arxiv.org/abs/2610.01234v2" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2610.01234v2" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
</feed>
`

func strPtr(s string) *string { return &s }

func TestParse_RoundTrip(t *testing.T) {
	papers, err := ParseBytes([]byte(oneEntryFeed))
	require.NoError(t, err)
	require.Len(t, papers, 1)

	want := types.Paper{
		ID:        "http://arxiv.org/abs/2610.01234v2",
		Updated:   time.Date(2026, 10, 16, 17, 59, 59, 0, time.UTC),
		Published: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC),
		Title:     "Streaming Parsers for Fun",
		Summary:   "We parse feeds.",
		Authors:   []string{"Ada Lovelace", "Alan Turing"},
		PDFURL:    "https://arxiv.org/pdf/2610.01234v2.pdf",
		Comment:   strPtr("12 pages, 3 figures"),
	}
	if diff := cmp.Diff(want, papers[0]); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_StopsAtFeedEnd(t *testing.T) {
	truncated, err := ParseBytes([]byte(oneEntryFeed))
	require.NoError(t, err)

	trailing := oneEntryFeed + `<entry><id>ghost</id></entry><<< not even xml`
	withTrailer, err := ParseBytes([]byte(trailing))
	require.NoError(t, err)

	if diff := cmp.Diff(truncated, withTrailer); diff != "" {
		t.Errorf("trailing content changed result (-want +got):\n%s", diff)
	}
}

func TestParse_MalformedTimestamp(t *testing.T) {
	doc := strings.Replace(oneEntryFeed,
		"<updated>2026-10-16T17:59:59Z</updated>",
		"<updated>not-a-date</updated>", 1)

	papers, err := ParseBytes([]byte(doc))
	require.Error(t, err)
	assert.Nil(t, papers)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "updated", pe.Field)
	assert.Equal(t, 1, pe.Entry)
	assert.True(t, IsMalformed(err))
}

func TestParse_MalformedPublishedAfterGoodEntry(t *testing.T) {
	doc := `<feed>
<entry><id>a</id><updated>2026-01-01T00:00:00Z</updated><published>2026-01-01T00:00:00Z</published></entry>
<entry><id>b</id><updated>2026-01-01T00:00:00Z</updated><published>yesterday</published></entry>
</feed>`
	papers, err := ParseBytes([]byte(doc))
	require.Error(t, err)
	assert.Nil(t, papers, "no partial result on failure")
}

func TestParse_NotWellFormed(t *testing.T) {
	doc := `<feed><entry><id>a</id><title>unclosed</entry></feed>`
	papers, err := ParseBytes([]byte(doc))
	require.Error(t, err)
	assert.Nil(t, papers)
	assert.True(t, IsMalformed(err))
}

func TestParse_MissingID(t *testing.T) {
	doc := `<feed><entry><title>no id</title></entry></feed>`
	_, err := ParseBytes([]byte(doc))
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestParse_EmptyFeed(t *testing.T) {
	papers, err := ParseBytes([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"><title>empty</title></feed>`))
	require.NoError(t, err)
	assert.Empty(t, papers)
}

func TestParse_FeedLevelFieldsIgnored(t *testing.T) {
	// Feed-level <updated> is not a timestamp here but lies outside any entry.
	doc := `<feed><updated>whenever</updated><entry><id>x</id></entry></feed>`
	papers, err := ParseBytes([]byte(doc))
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "x", papers[0].ID)
}

func TestParse_EntriesAreIndependent(t *testing.T) {
	doc := `<feed>
<entry><id>a</id><author><name>One</name></author><arxiv:comment xmlns:arxiv="x">c</arxiv:comment></entry>
<entry><id>b</id><author><name>Two</name></author></entry>
</feed>`
	papers, err := ParseBytes([]byte(doc))
	require.NoError(t, err)
	require.Len(t, papers, 2)
	assert.Equal(t, []string{"One"}, papers[0].Authors)
	assert.Equal(t, []string{"Two"}, papers[1].Authors)
	require.NotNil(t, papers[0].Comment)
	assert.Nil(t, papers[1].Comment)
}

func TestParse_TextWithEntitiesAndCDATA(t *testing.T) {
	doc := `<feed><entry><id>a</id><title>Q&amp;A <![CDATA[<raw>]]> done</title></entry></feed>`
	papers, err := ParseBytes([]byte(doc))
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "Q&A <raw> done", papers[0].Title)
}

func TestNormalizePDFURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://arxiv.org/pdf/2301.07041v1", "https://arxiv.org/pdf/2301.07041v1.pdf"},
		{"https://arxiv.org/pdf/2301.07041v1", "https://arxiv.org/pdf/2301.07041v1.pdf"},
		{"http://arxiv.org/pdf/2301.07041v1.pdf", "https://arxiv.org/pdf/2301.07041v1.pdf"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePDFURL(tt.in))
		})
	}
}
