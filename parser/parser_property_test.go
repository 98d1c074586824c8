package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/BaSui01/llmxml/schema"
)

// collectClosedScalars gathers the coerced values of every explicitly closed
// scalar position, keyed by dotted path.
func collectClosedScalars(v *Value, path string, out map[string]any) {
	if v == nil {
		return
	}
	switch v.Desc.Inner().Kind {
	case schema.KindScalar:
		if v.Closed() && v.State == Valid {
			out[path] = v.Scalar
		}
	case schema.KindObject:
		for _, name := range v.Order {
			collectClosedScalars(v.Fields[name], path+"."+name, out)
		}
	case schema.KindList:
		for i, item := range v.Items {
			collectClosedScalars(item, fieldPath(path, i), out)
		}
	case schema.KindUnion:
		if v.Branch != "" {
			collectClosedScalars(v.Child, path+"."+v.Branch, out)
		}
	}
}

// Every prefix of a well-formed document parses cleanly in partial mode, and
// a scalar that was explicitly closed in some prefix keeps exactly the value
// the full parse assigns it.
func TestPrefixStability(t *testing.T) {
	desc, err := schema.ForType[movieResponse]()
	require.NoError(t, err)
	p, err := New(desc)
	require.NoError(t, err)

	full, err := p.Parse(movieDoc, Partial)
	require.NoError(t, err)
	finals := make(map[string]any)
	collectClosedScalars(full.Value, "movie_response", finals)
	require.NotEmpty(t, finals)

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, len(movieDoc)).Draw(t, "n")
		res, err := p.Parse(movieDoc[:n], Partial)
		if err != nil {
			t.Fatalf("partial parse of prefix %d failed: %v", n, err)
		}
		seen := make(map[string]any)
		collectClosedScalars(res.Value, "movie_response", seen)
		for path, val := range seen {
			want, ok := finals[path]
			if !ok {
				t.Fatalf("prefix %d closed %s which the full parse never did", n, path)
			}
			if want != val {
				t.Fatalf("prefix %d: %s = %v, full parse has %v", n, path, val, want)
			}
		}
	})
}

// Arbitrary input never errors or panics in partial mode.
func TestPartialParseTotality(t *testing.T) {
	desc, err := schema.ForType[movieResponse]()
	require.NoError(t, err)
	p, err := New(desc)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		res, err := p.Parse(s, Partial)
		if err != nil {
			t.Fatalf("partial parse errored on %q: %v", s, err)
		}
		if res == nil || res.Value == nil {
			t.Fatalf("partial parse returned nil result for %q", s)
		}
		for _, name := range res.LastOpen {
			if name == "" {
				t.Fatalf("empty name in LastOpen for %q", s)
			}
		}
	})
}

// Tag soup built from schema vocabulary still terminates and stays total.
func TestSchemaTagSoup(t *testing.T) {
	desc, err := schema.ForType[movieResponse]()
	require.NoError(t, err)
	p, err := New(desc)
	require.NoError(t, err)

	fragment := rapid.SampledFrom([]string{
		"<movie_response>", "</movie_response>",
		"<movies>", "</movies>",
		"<movie>", "</movie>",
		"<title>", "</title>",
		"<director>", "</director>",
		"<year>", "</year>",
		"<rating>", "</rating>",
		"<unknown>", "</unknown>",
		"Inception", "2010", "8.8", "text < with > noise", "<", "</", "<mov",
	})

	rapid.Check(t, func(t *rapid.T) {
		parts := rapid.SliceOfN(fragment, 0, 24).Draw(t, "parts")
		var doc string
		for _, part := range parts {
			doc += part
		}
		if _, err := p.Parse(doc, Partial); err != nil {
			t.Fatalf("partial parse errored on %q: %v", doc, err)
		}
	})
}
