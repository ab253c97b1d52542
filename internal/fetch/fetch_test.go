// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ontoply/internal/httputil"
	"github.com/pdiddy/ontoply/pkg/types"
)

const body = `<?xml version="1.0"?><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"/>`

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func testConfig(t *testing.T) types.FetchConfig {
	t.Helper()
	return types.FetchConfig{
		HTTPConfig:    types.HTTPConfig{UserAgent: "ontoply-test"},
		OntologiesDir: filepath.Join(t.TempDir(), "ontologies"),
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://example.org/ontologies/ncit.owl", "ncit.owl", false},
		{"https://example.org/ontologies/ncit.owl?version=24", "ncit.owl", false},
		{"http://purl.obolibrary.org/obo/go", "go.owl", false},
		{"https://example.org/", "ontology.owl", false},
		{"https://example.org", "ontology.owl", false},
		{"ftp://example.org/a.owl", "", true},
		{"not a url", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := FileName(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOntologyDownloads(t *testing.T) {
	var gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(body))
	}))
	defer ts.Close()

	cfg := testConfig(t)
	var out bytes.Buffer
	res, err := Ontology(context.Background(), ts.Client(), ts.URL+"/onto/mini.owl", cfg, &out, nil)
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assert.Equal(t, filepath.Join(cfg.OntologiesDir, "mini.owl"), res.Path)
	assert.Equal(t, int64(len(body)), res.Bytes)
	assert.Equal(t, "ontoply-test", gotUA)
	assert.Contains(t, gotAccept, "application/rdf+xml")
	assert.Contains(t, out.String(), "saved")

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestOntologySkipsExisting(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(body))
	}))
	defer ts.Close()

	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.OntologiesDir, 0o755))
	existing := filepath.Join(cfg.OntologiesDir, "mini.owl")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o644))

	var out bytes.Buffer
	res, err := Ontology(context.Background(), ts.Client(), ts.URL+"/mini.owl", cfg, &out, nil)
	require.NoError(t, err)

	assert.True(t, res.Skipped)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.Contains(t, out.String(), "skipped")

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestOntologyRetriesUnavailable(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(body))
	}))
	defer ts.Close()

	res, err := Ontology(context.Background(), ts.Client(), ts.URL+"/mini.owl", testConfig(t), &bytes.Buffer{}, nil)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestOntologyHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	cfg := testConfig(t)
	_, err := Ontology(context.Background(), ts.Client(), ts.URL+"/missing.owl", cfg, &bytes.Buffer{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")

	entries, err := os.ReadDir(cfg.OntologiesDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial file left behind")
}
