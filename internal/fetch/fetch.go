// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads source ontology files into the local ontologies
// directory so they can be loaded or imported into the catalog.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ontoply/internal/httputil"
	"github.com/pdiddy/ontoply/pkg/types"
)

// Result describes one fetch.
type Result struct {
	URL     string
	Path    string
	Bytes   int64
	Skipped bool
}

// FileName derives the local file name for an ontology URL: the last
// path segment, or "ontology.owl" when the URL has none. A name without
// an extension gets ".owl".
func FileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		name = "ontology.owl"
	}
	if path.Ext(name) == "" {
		name += ".owl"
	}
	return name, nil
}

// Ontology downloads rawURL into cfg.OntologiesDir. An existing file is
// kept and reported as skipped. Progress lines go to w.
func Ontology(ctx context.Context, client *http.Client, rawURL string, cfg types.FetchConfig, w io.Writer, logger logrus.FieldLogger) (*Result, error) {
	name, err := FileName(rawURL)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OntologiesDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ontologies directory: %w", err)
	}
	destPath := filepath.Join(cfg.OntologiesDir, name)

	if info, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(w, "skipped %s (already exists)\n", destPath)
		return &Result{URL: rawURL, Path: destPath, Bytes: info.Size(), Skipped: true}, nil
	}

	fmt.Fprintf(w, "fetching %s\n", rawURL)
	n, err := download(ctx, client, rawURL, destPath, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	fmt.Fprintf(w, "saved   %s (%d bytes)\n", destPath, n)
	return &Result{URL: rawURL, Path: destPath, Bytes: n}, nil
}

// download fetches rawURL to destPath through a temporary file, so an
// interrupted transfer never leaves a truncated ontology behind.
func download(ctx context.Context, client *http.Client, rawURL, destPath string, cfg types.FetchConfig, logger logrus.FieldLogger) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	req.Header.Set("Accept", strings.Join([]string{
		"application/rdf+xml", "application/owl+xml", "application/n-triples", "*/*;q=0.1",
	}, ", "))

	resp, err := httputil.DoWithRetry(ctx, client, req, 0, logger)
	if err != nil {
		return 0, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	n, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return n, nil
}
