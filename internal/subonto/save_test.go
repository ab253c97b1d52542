// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package subonto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ontoply/internal/owl"
)

func TestSaveRoundTrip(t *testing.T) {
	for _, format := range []owl.Format{owl.FormatRDFXML, owl.FormatNTriples} {
		t.Run(string(format), func(t *testing.T) {
			e := newExtractor(t, sampleSource(t))
			_, err := e.AddConcepts([]string{"Marital Status", "Bias", "Outcome"}, DefaultOptions())
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "out", "sub.owl")
			require.NoError(t, e.Save(path, format))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotContains(t, string(data), placeholder)

			got, err := decodeFile(path, format)
			require.NoError(t, err)

			assert.Equal(t, sourceIRI, got.IRI())
			assert.Equal(t, sourceIRI+"#", got.BaseIRI())

			want := e.Destination().Classes()
			require.Len(t, got.Classes(), len(want))
			for _, w := range want {
				c, ok := got.Class(w.Name)
				require.True(t, ok, w.Name)
				assert.Equal(t, w.Labels, c.Labels, w.Name)
				assert.Equal(t, w.Parent(), c.Parent(), w.Name)
				assert.Equal(t, sourceIRI+"#"+w.Name, c.IRI)
			}
		})
	}
}

func TestSaveEmptyDestination(t *testing.T) {
	e := newExtractor(t, sampleSource(t))
	path := filepath.Join(t.TempDir(), "empty.owl")
	require.NoError(t, e.Save(path, owl.FormatRDFXML))

	got, err := owl.Load(path)
	require.NoError(t, err)
	assert.Equal(t, sourceIRI, got.IRI())
	assert.Equal(t, 0, got.Len())
}

// Labels equal to the placeholder are rewritten too. This is a known
// limitation of the text substitution.
func TestSaveRewritesMatchingLabels(t *testing.T) {
	src := owl.New(sourceIRI)
	declare(t, src, "C1", placeholder)
	e := newExtractor(t, src)

	_, err := e.AddConcept(placeholder, DefaultOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sub.owl")
	require.NoError(t, e.Save(path, owl.FormatRDFXML))

	got, err := owl.Load(path)
	require.NoError(t, err)
	c, ok := got.Class("C1")
	require.True(t, ok)
	assert.Equal(t, []string{sourceIRI}, c.Labels)
}

func TestSaveUnsupportedFormat(t *testing.T) {
	e := newExtractor(t, sampleSource(t))
	dir := t.TempDir()
	path := filepath.Join(dir, "sub.ttl")

	assert.Error(t, e.Save(path, owl.Format("turtle")))
	assert.NoFileExists(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file removed")
}

func TestSaveUnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	e := newExtractor(t, sampleSource(t))
	err := e.Save(filepath.Join(blocker, "sub.owl"), owl.FormatRDFXML)
	assert.Error(t, err)
}

func TestRewriteNamespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("a=http://tmp/x b=http://tmp/x#C1 c=other"), 0o644))

	n, err := RewriteNamespace(path, "http://tmp/x", "http://real/y")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a=http://real/y b=http://real/y#C1 c=other", string(data))

	n, err = RewriteNamespace(path, "http://tmp/x", "http://real/y")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = RewriteNamespace(path, "", "http://real/y")
	assert.Error(t, err)

	_, err = RewriteNamespace(filepath.Join(t.TempDir(), "absent"), "a", "b")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func decodeFile(path string, format owl.Format) (*owl.Ontology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return owl.Decode(f, format)
}
