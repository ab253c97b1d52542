// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by commands that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "ontoply/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ExtractionConfig holds settings for the extract command.
type ExtractionConfig struct {
	// Source is the path of the source ontology file.
	Source string `json:"source" yaml:"source"`

	// Namespace is the placeholder namespace of the destination ontology.
	// Empty means a fresh placeholder is generated per run.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`

	// Output is the path the extracted ontology is saved to.
	Output string `json:"output" yaml:"output"`

	// Format is the output serialization: rdfxml or ntriples.
	Format string `json:"format" yaml:"format"`

	// Concepts are the labels extracted when none are given on the command line.
	Concepts []string `json:"concepts,omitempty" yaml:"concepts,omitempty"`

	// IncludeParents copies each concept's primary ancestor chain (default true).
	IncludeParents bool `json:"include_parents" yaml:"include_parents"`

	// IncludeChildren copies each concept's direct subclasses (default true).
	IncludeChildren bool `json:"include_children" yaml:"include_children"`

	// ReportPath, when set, is where a YAML run report is written.
	ReportPath string `json:"report,omitempty" yaml:"report,omitempty"`
}

// CatalogConfig holds settings for the SQLite label catalog.
type CatalogConfig struct {
	// Path is the SQLite database file. Empty disables the catalog and the
	// source ontology is searched in memory.
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// FetchConfig holds settings for downloading source ontologies.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// OntologiesDir is the directory downloaded ontology files are stored in.
	OntologiesDir string `json:"ontologies_dir" yaml:"ontologies_dir"`
}

// Config groups all command configurations.
type Config struct {
	Extract ExtractionConfig `json:"extract" yaml:"extract"`
	Catalog CatalogConfig    `json:"catalog" yaml:"catalog"`
	Fetch   FetchConfig      `json:"fetch" yaml:"fetch"`
}
