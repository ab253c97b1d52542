// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pdiddy/ontoply/internal/owl"
)

// BaseIRI returns the namespace of the imported ontology, ending in "#".
// It is "#" alone when nothing was imported.
func (s *Store) BaseIRI() string { return s.iri + "#" }

// SearchLabel returns the classes with a label matching pattern, in
// declaration order. A label equal to pattern always wins and is looked up
// through the label index; wildcard patterns with no exact match scan
// every label.
func (s *Store) SearchLabel(pattern string) ([]owl.Class, error) {
	return s.Search(context.Background(), pattern, 0)
}

// Search is SearchLabel with a context and a limit. A limit of zero or
// less returns every match.
func (s *Store) Search(ctx context.Context, pattern string, limit int) ([]owl.Class, error) {
	if s.iri == "" {
		return nil, ErrEmpty
	}

	var names []string
	err := s.db.SelectContext(ctx, &names, `
		SELECT c.name FROM classes c
		WHERE EXISTS (SELECT 1 FROM labels l WHERE l.class = c.name AND l.label = ?)
		ORDER BY c.position`, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching labels: %w", err)
	}

	if len(names) == 0 && owl.IsPattern(pattern) {
		match, err := owl.LabelMatcher(pattern)
		if err != nil {
			return nil, err
		}
		names, err = s.scanLabels(ctx, match, limit)
		if err != nil {
			return nil, err
		}
	}

	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return s.loadClasses(ctx, names)
}

// scanLabels walks all labels in class order and returns the classes with
// a matching label, stopping once limit classes were found.
func (s *Store) scanLabels(ctx context.Context, match func(string) bool, limit int) ([]string, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT l.class, l.label FROM labels l
		JOIN classes c ON c.name = l.class
		ORDER BY c.position, l.position`)
	if err != nil {
		return nil, fmt.Errorf("scanning labels: %w", err)
	}
	defer rows.Close()

	var names []string
	last := ""
	for rows.Next() {
		var class, label string
		if err := rows.Scan(&class, &label); err != nil {
			return nil, fmt.Errorf("scanning label row: %w", err)
		}
		if class == last || !match(label) {
			continue
		}
		names = append(names, class)
		last = class
		if limit > 0 && len(names) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating labels: %w", err)
	}
	return names, nil
}

// PrimaryAncestors returns the chain reached by following first-declared
// superclasses from name, ordered from the class just below owl:Thing
// down to the primary parent of name.
func (s *Store) PrimaryAncestors(name string) ([]owl.Class, error) {
	ctx := context.Background()
	if err := s.requireClass(ctx, name); err != nil {
		return nil, err
	}

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT count(*) FROM classes`); err != nil {
		return nil, fmt.Errorf("counting classes: %w", err)
	}

	var chain []struct {
		Name  string `db:"name"`
		Depth int    `db:"depth"`
	}
	err := s.db.SelectContext(ctx, &chain, `
		WITH RECURSIVE chain(name, depth) AS (
			SELECT super, 1 FROM superclasses WHERE class = ? AND position = 0
			UNION ALL
			SELECT s.super, chain.depth + 1 FROM superclasses s
			JOIN chain ON s.class = chain.name
			WHERE s.position = 0 AND chain.depth <= ?
		)
		SELECT name, depth FROM chain ORDER BY depth DESC`, name, total)
	if err != nil {
		return nil, fmt.Errorf("reading ancestors of %s: %w", name, err)
	}
	if len(chain) > 0 && chain[0].Depth > total {
		return nil, fmt.Errorf("%w: through %s", owl.ErrCycle, name)
	}

	names := make([]string, len(chain))
	for i, c := range chain {
		names[i] = c.Name
	}
	return s.loadClasses(ctx, names)
}

// Subclasses returns the direct subclasses of name in declaration order,
// counting any declared superclass, not only the primary one.
func (s *Store) Subclasses(name string) ([]owl.Class, error) {
	ctx := context.Background()
	if err := s.requireClass(ctx, name); err != nil {
		return nil, err
	}

	var names []string
	err := s.db.SelectContext(ctx, &names, `
		SELECT c.name FROM classes c
		WHERE EXISTS (SELECT 1 FROM superclasses s WHERE s.class = c.name AND s.super = ?)
		ORDER BY c.position`, name)
	if err != nil {
		return nil, fmt.Errorf("reading subclasses of %s: %w", name, err)
	}
	return s.loadClasses(ctx, names)
}

// Class returns the named class.
func (s *Store) Class(ctx context.Context, name string) (owl.Class, bool, error) {
	classes, err := s.loadClasses(ctx, []string{name})
	if err != nil {
		return owl.Class{}, false, err
	}
	if len(classes) == 0 {
		return owl.Class{}, false, nil
	}
	return classes[0], true, nil
}

func (s *Store) requireClass(ctx context.Context, name string) error {
	var one int
	err := s.db.GetContext(ctx, &one, `SELECT 1 FROM classes WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", owl.ErrUnknownClass, name)
	}
	if err != nil {
		return fmt.Errorf("looking up %s: %w", name, err)
	}
	return nil
}

// loadClasses reads the named classes with their labels and superclasses.
// The result follows the order of names; unknown names are dropped.
func (s *Store) loadClasses(ctx context.Context, names []string) ([]owl.Class, error) {
	byName := make(map[string]*owl.Class, len(names))

	for start := 0; start < len(names); start += inChunk {
		chunk := names[start:min(start+inChunk, len(names))]

		var classes []struct {
			Name string `db:"name"`
			IRI  string `db:"iri"`
		}
		if err := s.selectIn(ctx, &classes,
			`SELECT name, iri FROM classes WHERE name IN (?)`, chunk); err != nil {
			return nil, fmt.Errorf("loading classes: %w", err)
		}
		for _, c := range classes {
			byName[c.Name] = &owl.Class{Name: c.Name, IRI: c.IRI}
		}

		var labels []struct {
			Class string `db:"class"`
			Label string `db:"label"`
			Lang  string `db:"lang"`
		}
		if err := s.selectIn(ctx, &labels,
			`SELECT class, label, lang FROM labels WHERE class IN (?) ORDER BY class, position`, chunk); err != nil {
			return nil, fmt.Errorf("loading labels: %w", err)
		}
		for _, l := range labels {
			c, ok := byName[l.Class]
			if !ok {
				continue
			}
			if l.Lang != "" && c.LabelLangs == nil {
				c.LabelLangs = make([]string, len(c.Labels))
			}
			c.Labels = append(c.Labels, l.Label)
			if c.LabelLangs != nil {
				c.LabelLangs = append(c.LabelLangs, l.Lang)
			}
		}

		var supers []struct {
			Class string `db:"class"`
			Super string `db:"super"`
		}
		if err := s.selectIn(ctx, &supers,
			`SELECT class, super FROM superclasses WHERE class IN (?) ORDER BY class, position`, chunk); err != nil {
			return nil, fmt.Errorf("loading superclasses: %w", err)
		}
		for _, sc := range supers {
			if c, ok := byName[sc.Class]; ok {
				c.Superclasses = append(c.Superclasses, sc.Super)
			}
		}
	}

	out := make([]owl.Class, 0, len(names))
	for _, name := range names {
		if c, ok := byName[name]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *Store) selectIn(ctx context.Context, dest any, query string, args []string) error {
	q, params, err := sqlx.In(query, args)
	if err != nil {
		return err
	}
	return s.db.SelectContext(ctx, dest, s.db.Rebind(q), params...)
}
