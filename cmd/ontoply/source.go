// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ontoply/internal/catalog"
	"github.com/pdiddy/ontoply/internal/owl"
	"github.com/pdiddy/ontoply/internal/subonto"
	"github.com/pdiddy/ontoply/pkg/types"
)

// openSource returns the ontology to extract from. Without a catalog the
// source file is parsed into memory. With one, the file is imported when
// the catalog does not already hold it unchanged, and the catalog answers
// the queries. The returned func releases the source.
func openSource(ctx context.Context, sourcePath string, cfg types.CatalogConfig) (subonto.Source, func() error, error) {
	if cfg.Path == "" {
		if sourcePath == "" {
			return nil, nil, errors.New("no source: set --source or --catalog")
		}
		o, err := loadOntology(sourcePath)
		if err != nil {
			return nil, nil, err
		}
		return o, func() error { return nil }, nil
	}

	store, err := catalog.Open(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if sourcePath != "" {
		if _, err := indexSource(ctx, store, sourcePath, false); err != nil {
			store.Close()
			return nil, nil, err
		}
	}
	return store, store.Close, nil
}

// indexSource imports sourcePath into store unless it is already there
// unchanged or force is set. It reports whether an import happened.
func indexSource(ctx context.Context, store *catalog.Store, sourcePath string, force bool) (bool, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return false, fmt.Errorf("reading source ontology: %w", err)
	}

	if !force {
		fresh, err := store.Fresh(ctx, sourcePath, info.ModTime())
		if err != nil {
			return false, err
		}
		if fresh {
			logger.WithField("source", sourcePath).Debug("catalog up to date")
			return false, nil
		}
	}

	o, err := loadOntology(sourcePath)
	if err != nil {
		return false, err
	}
	if err := store.Import(ctx, o, sourcePath, info.ModTime()); err != nil {
		return false, err
	}
	return true, nil
}

func loadOntology(path string) (*owl.Ontology, error) {
	start := time.Now()
	o, err := owl.Load(path)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"source":   path,
		"iri":      o.IRI(),
		"classes":  o.Len(),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("source ontology loaded")
	return o, nil
}
