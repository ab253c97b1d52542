// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package subonto extracts labeled concepts from a source ontology into a
// new, independently rooted ontology. Each concept is copied together
// with its primary ancestor chain and its direct children; labels are
// preserved and class names are kept.
package subonto

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ontoply/internal/owl"
)

var (
	// ErrNotFound is returned when no source class carries the label.
	ErrNotFound = errors.New("concept not found")

	// ErrMissingLabel is returned when a class to be copied has no label.
	ErrMissingLabel = errors.New("class has no label")

	// ErrDuplicateDefinition is returned when a class already in the
	// destination would be redeclared under a different parent.
	ErrDuplicateDefinition = errors.New("class already defined under a different parent")
)

// Source is the read-only ontology concepts are extracted from.
// *owl.Ontology and *catalog.Store both implement it.
type Source interface {
	// BaseIRI returns the namespace of the source, ending in "#".
	BaseIRI() string

	// SearchLabel returns the classes whose labels match pattern, in a
	// stable order. The extractor uses the first one.
	SearchLabel(pattern string) ([]owl.Class, error)

	// PrimaryAncestors returns the chain from just below owl:Thing down to
	// the primary parent of name.
	PrimaryAncestors(name string) ([]owl.Class, error)

	// Subclasses returns the direct subclasses of name.
	Subclasses(name string) ([]owl.Class, error)
}

// Options selects what is copied along with a concept.
type Options struct {
	IncludeParents  bool `json:"include_parents" yaml:"include_parents"`
	IncludeChildren bool `json:"include_children" yaml:"include_children"`
}

// DefaultOptions copies both the ancestor chain and the direct children.
func DefaultOptions() Options {
	return Options{IncludeParents: true, IncludeChildren: true}
}

// Result describes what one AddConcept call did.
type Result struct {
	// Label is the label the concept was looked up by.
	Label string

	// Concept is the copy of the concept in the destination.
	Concept owl.Class

	// Ancestors are the copied ancestors, root first. Empty when parents
	// were excluded or the concept sits directly under owl:Thing.
	Ancestors []owl.Class

	// Children are the direct subclasses processed by the call.
	Children []owl.Class

	// Created lists the class names declared by the call, in order.
	Created []string

	// Reused lists class names that were already present with the same
	// parent and were left as they were.
	Reused []string
}

// Extractor copies concepts from a source into a destination ontology it
// owns exclusively. It is not safe for concurrent use.
type Extractor struct {
	source    Source
	namespace string
	dest      *owl.Ontology
	logger    logrus.FieldLogger
	progress  func(done, total int, label string)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithProgress registers a callback AddConcepts invokes after each label.
func WithProgress(fn func(done, total int, label string)) Option {
	return func(e *Extractor) { e.progress = fn }
}

// New creates an extractor with an empty destination ontology identified
// by namespace. The namespace is a placeholder that Save rewrites to the
// source namespace.
func New(source Source, namespace string, opts ...Option) (*Extractor, error) {
	if source == nil {
		return nil, errors.New("source ontology is required")
	}
	namespace = strings.TrimSuffix(strings.TrimSpace(namespace), "#")
	if namespace == "" {
		return nil, errors.New("destination namespace is required")
	}

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	e := &Extractor{
		source:    source,
		namespace: namespace,
		dest:      owl.New(namespace),
		logger:    quiet,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewPlaceholderNamespace returns a unique namespace for runs that do not
// name one.
func NewPlaceholderNamespace() string {
	return "http://ontoply.invalid/" + uuid.NewString() + "/onto.owl"
}

// Namespace returns the destination namespace placeholder.
func (e *Extractor) Namespace() string { return e.namespace }

// Destination returns the ontology being built. Callers must not modify it.
func (e *Extractor) Destination() *owl.Ontology { return e.dest }

// AddConcept copies the first source class labeled label into the
// destination. Ancestors are created root first so every class is
// declared after its parent; children are declared under the concept.
//
// A class already in the destination under the same parent is reused
// untouched, so shared ancestors are created once and repeating a call is
// a no-op. A class already present under a different parent fails with
// ErrDuplicateDefinition. Either the whole call applies or nothing does.
func (e *Extractor) AddConcept(label string, opts Options) (*Result, error) {
	matches, err := e.source.SearchLabel(label)
	if err != nil {
		return nil, fmt.Errorf("searching label %q: %w", label, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	concept := matches[0]
	if len(matches) > 1 {
		e.logger.WithFields(logrus.Fields{
			"label":   label,
			"matches": len(matches),
			"chosen":  concept.Name,
		}).Debug("label is ambiguous, using first match")
	}

	res := &Result{Label: label}
	tx := e.dest.Begin()
	defer tx.Rollback()

	parent := owl.Thing
	if opts.IncludeParents {
		chain, err := e.source.PrimaryAncestors(concept.Name)
		if err != nil {
			return nil, fmt.Errorf("reading ancestors of %s: %w", concept.Name, err)
		}
		for _, ancestor := range chain {
			c, err := e.copyClass(tx, res, ancestor, parent)
			if err != nil {
				return nil, err
			}
			res.Ancestors = append(res.Ancestors, c)
			parent = ancestor.Name
		}
	}

	res.Concept, err = e.copyClass(tx, res, concept, parent)
	if err != nil {
		return nil, err
	}

	if opts.IncludeChildren {
		children, err := e.source.Subclasses(concept.Name)
		if err != nil {
			return nil, fmt.Errorf("reading subclasses of %s: %w", concept.Name, err)
		}
		for _, child := range children {
			c, err := e.copyClass(tx, res, child, concept.Name)
			if err != nil {
				return nil, err
			}
			res.Children = append(res.Children, c)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("adding %q: %w", label, err)
	}

	e.logger.WithFields(logrus.Fields{
		"label":     label,
		"class":     concept.Name,
		"ancestors": len(res.Ancestors),
		"children":  len(res.Children),
		"created":   len(res.Created),
		"reused":    len(res.Reused),
	}).Info("concept added")
	return res, nil
}

// AddConcepts runs AddConcept for each label in order. It stops at the
// first failure and returns the results gathered so far; concepts added
// before the failure stay in the destination.
func (e *Extractor) AddConcepts(labels []string, opts Options) ([]*Result, error) {
	results := make([]*Result, 0, len(labels))
	for i, label := range labels {
		res, err := e.AddConcept(label, opts)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if e.progress != nil {
			e.progress(i+1, len(labels), label)
		}
	}
	return results, nil
}

// copyClass declares a copy of src under parent, keeping only its first
// label and that label's language tag, or reuses the copy already present.
func (e *Extractor) copyClass(tx *owl.Tx, res *Result, src owl.Class, parent string) (owl.Class, error) {
	label, ok := src.Label()
	if !ok {
		return owl.Class{}, fmt.Errorf("%w: %s", ErrMissingLabel, src.Name)
	}

	if existing, ok := tx.Lookup(src.Name); ok {
		if existing.Parent() != parent {
			return owl.Class{}, fmt.Errorf("%w: %s is under %s, not %s",
				ErrDuplicateDefinition, src.Name, existing.Parent(), parent)
		}
		res.Reused = append(res.Reused, src.Name)
		return existing, nil
	}

	c := owl.Class{Name: src.Name, Labels: []string{label}}
	if lang := src.LabelLang(0); lang != "" {
		c.LabelLangs = []string{lang}
	}
	if parent != owl.Thing {
		c.Superclasses = []string{parent}
	}
	if err := tx.Declare(c); err != nil {
		return owl.Class{}, fmt.Errorf("declaring %s: %w", src.Name, err)
	}
	res.Created = append(res.Created, src.Name)

	e.logger.WithFields(logrus.Fields{"class": src.Name, "parent": parent}).Debug("class declared")
	c, _ = tx.Lookup(src.Name)
	return c, nil
}
