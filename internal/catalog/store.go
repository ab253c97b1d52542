// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog caches a source ontology in SQLite so repeated
// extractions do not have to parse a large OWL file every run. A Store
// answers the same label and hierarchy queries as an in-memory
// owl.Ontology.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ontoply/internal/owl"
	"github.com/pdiddy/ontoply/pkg/types"
)

// ErrEmpty is returned by queries against a catalog nothing was imported into.
var ErrEmpty = errors.New("catalog is empty")

// inChunk bounds the number of bound parameters per IN query.
const inChunk = 500

// Store manages the catalog SQLite database.
type Store struct {
	db         *sqlx.DB
	logger     logrus.FieldLogger
	maxResults int
	iri        string
}

// Open opens or creates the catalog database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.CatalogConfig, logger logrus.FieldLogger) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("catalog path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, logger: logger, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if err := s.db.Get(&s.iri, `SELECT iri FROM ontology WHERE id = 1`); err != nil && !errors.Is(err, sql.ErrNoRows) {
		db.Close()
		return nil, fmt.Errorf("reading ontology record: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// MaxResults returns the default search result limit.
func (s *Store) MaxResults() int { return s.maxResults }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ontology (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			iri TEXT NOT NULL,
			source_path TEXT NOT NULL,
			source_mod_time TEXT NOT NULL,
			imported_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS classes (
			name TEXT PRIMARY KEY,
			iri TEXT NOT NULL,
			position INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS labels (
			class TEXT NOT NULL REFERENCES classes(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			label TEXT NOT NULL,
			lang TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (class, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_labels_label ON labels(label)`,
		`CREATE TABLE IF NOT EXISTS superclasses (
			class TEXT NOT NULL REFERENCES classes(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			super TEXT NOT NULL REFERENCES classes(name) ON DELETE CASCADE,
			PRIMARY KEY (class, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_superclasses_super ON superclasses(super)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Fresh reports whether the catalog already holds sourcePath as it was
// at modTime, in which case Import can be skipped.
func (s *Store) Fresh(ctx context.Context, sourcePath string, modTime time.Time) (bool, error) {
	var rec struct {
		SourcePath string `db:"source_path"`
		ModTime    string `db:"source_mod_time"`
	}
	err := s.db.GetContext(ctx, &rec, `SELECT source_path, source_mod_time FROM ontology WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading ontology record: %w", err)
	}
	return rec.SourcePath == sourcePath && rec.ModTime == formatTime(modTime), nil
}

// Import replaces the catalog contents with o in one transaction.
func (s *Store) Import(ctx context.Context, o *owl.Ontology, sourcePath string, modTime time.Time) error {
	start := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM classes`); err != nil {
		return fmt.Errorf("clearing classes: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ontology (id, iri, source_path, source_mod_time, imported_at)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			iri=excluded.iri, source_path=excluded.source_path,
			source_mod_time=excluded.source_mod_time, imported_at=excluded.imported_at`,
		o.IRI(), sourcePath, formatTime(modTime), formatTime(time.Now()),
	); err != nil {
		return fmt.Errorf("writing ontology record: %w", err)
	}

	insertClass, err := tx.PreparexContext(ctx, `INSERT INTO classes (name, iri, position) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing class insert: %w", err)
	}
	defer insertClass.Close()
	insertLabel, err := tx.PreparexContext(ctx, `INSERT INTO labels (class, position, label, lang) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing label insert: %w", err)
	}
	defer insertLabel.Close()
	insertSuper, err := tx.PreparexContext(ctx, `INSERT INTO superclasses (class, position, super) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing superclass insert: %w", err)
	}
	defer insertSuper.Close()

	// Classes go in before any row that references them; superclasses may
	// be declared after their subclasses.
	classes := o.Classes()
	for i, c := range classes {
		if _, err := insertClass.ExecContext(ctx, c.Name, c.IRI, i); err != nil {
			return fmt.Errorf("inserting class %s: %w", c.Name, err)
		}
		for j, label := range c.Labels {
			if _, err := insertLabel.ExecContext(ctx, c.Name, j, label, c.LabelLang(j)); err != nil {
				return fmt.Errorf("inserting label of %s: %w", c.Name, err)
			}
		}
	}
	for _, c := range classes {
		for j, super := range c.Superclasses {
			if _, err := insertSuper.ExecContext(ctx, c.Name, j, super); err != nil {
				return fmt.Errorf("inserting superclass of %s: %w", c.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	s.iri = o.IRI()

	s.logger.WithFields(logrus.Fields{
		"source":   sourcePath,
		"iri":      o.IRI(),
		"classes":  len(classes),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("catalog imported")
	return nil
}

// Stats summarizes the catalog contents.
type Stats struct {
	IRI          string `db:"iri" json:"iri"`
	SourcePath   string `db:"source_path" json:"source_path"`
	ImportedAt   string `db:"imported_at" json:"imported_at"`
	Classes      int    `db:"classes" json:"classes"`
	Labels       int    `db:"labels" json:"labels"`
	Superclasses int    `db:"superclasses" json:"superclasses"`
	Roots        int    `db:"roots" json:"roots"`
	Unlabeled    int    `db:"unlabeled" json:"unlabeled"`
}

// Stats returns counts over the catalog. It fails with ErrEmpty when
// nothing was imported.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.GetContext(ctx, &st, `
		SELECT
			o.iri, o.source_path, o.imported_at,
			(SELECT count(*) FROM classes) AS classes,
			(SELECT count(*) FROM labels) AS labels,
			(SELECT count(*) FROM superclasses) AS superclasses,
			(SELECT count(*) FROM classes c
				WHERE NOT EXISTS (SELECT 1 FROM superclasses s WHERE s.class = c.name)) AS roots,
			(SELECT count(*) FROM classes c
				WHERE NOT EXISTS (SELECT 1 FROM labels l WHERE l.class = c.name)) AS unlabeled
		FROM ontology o WHERE o.id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return Stats{}, ErrEmpty
	}
	if err != nil {
		return Stats{}, fmt.Errorf("reading stats: %w", err)
	}
	return st, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
