// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package subonto

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ontoply/internal/owl"
)

// PublishedNamespace returns the namespace the saved file is published
// under: the source base IRI without its trailing "#".
func (e *Extractor) PublishedNamespace() string {
	return strings.TrimSuffix(e.source.BaseIRI(), "#")
}

// Save writes the destination ontology to path and then rewrites every
// occurrence of the placeholder namespace in the file to the published
// namespace.
//
// The rewrite is a plain text substitution over the serialized file. Any
// other text equal to the placeholder string, such as a label quoting it,
// is rewritten as well.
func (e *Extractor) Save(path string, format owl.Format) error {
	if err := writeAtomic(path, func(f *os.File) error {
		return owl.Encode(f, e.dest, format)
	}); err != nil {
		return fmt.Errorf("saving ontology: %w", err)
	}

	n, err := RewriteNamespace(path, e.namespace, e.PublishedNamespace())
	if err != nil {
		return err
	}

	e.logger.WithFields(logrus.Fields{
		"path":         path,
		"format":       format,
		"classes":      e.dest.Len(),
		"replacements": n,
		"namespace":    e.PublishedNamespace(),
	}).Info("ontology saved")
	return nil
}

// RewriteNamespace replaces every occurrence of from with to in the file
// at path and returns the number of replacements.
func RewriteNamespace(path, from, to string) (int, error) {
	if from == "" {
		return 0, fmt.Errorf("rewriting %s: empty namespace", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading saved ontology: %w", err)
	}

	n := bytes.Count(data, []byte(from))
	if n == 0 || from == to {
		return n, nil
	}
	out := bytes.ReplaceAll(data, []byte(from), []byte(to))

	if err := writeAtomic(path, func(f *os.File) error {
		_, err := f.Write(out)
		return err
	}); err != nil {
		return 0, fmt.Errorf("rewriting namespace: %w", err)
	}
	return n, nil
}

// writeAtomic writes through a temp file in the target directory and
// renames it into place, so a failed write never leaves a partial file.
func writeAtomic(path string, write func(*os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".ontoply-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s: %w", tmpPath, err)
	}
	return nil
}
