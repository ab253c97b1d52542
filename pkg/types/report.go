// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ExtractionReport records one extract run. It is written next to the
// output ontology so a run can be reviewed or repeated later.
type ExtractionReport struct {
	// Source is the path of the source ontology.
	Source string `json:"source" yaml:"source"`

	// SourceNamespace is the source base IRI the output is published under.
	SourceNamespace string `json:"source_namespace" yaml:"source_namespace"`

	// Placeholder is the temporary destination namespace rewritten on save.
	Placeholder string `json:"placeholder_namespace" yaml:"placeholder_namespace"`

	// Output is the path of the saved ontology. Empty when the run failed
	// before saving.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Format is the output serialization.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	IncludeParents  bool `json:"include_parents" yaml:"include_parents"`
	IncludeChildren bool `json:"include_children" yaml:"include_children"`

	// Concepts holds one record per successfully added label, in order.
	Concepts []ConceptRecord `json:"concepts" yaml:"concepts"`

	// Classes is the number of classes in the destination ontology.
	Classes int `json:"classes" yaml:"classes"`

	// Error is the failure that stopped the run, if any.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// ConceptRecord describes what adding one label did to the destination.
type ConceptRecord struct {
	Label     string   `json:"label" yaml:"label"`
	Class     string   `json:"class" yaml:"class"`
	IRI       string   `json:"iri" yaml:"iri"`
	Ancestors []string `json:"ancestors,omitempty" yaml:"ancestors,omitempty"`
	Children  []string `json:"children,omitempty" yaml:"children,omitempty"`
	Created   []string `json:"created,omitempty" yaml:"created,omitempty"`
	Reused    []string `json:"reused,omitempty" yaml:"reused,omitempty"`
}
