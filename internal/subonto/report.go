// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package subonto

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ontoply/internal/owl"
	"github.com/pdiddy/ontoply/pkg/types"
)

// Report summarizes the results of a run. Source, output and format are
// left for the caller, which knows where the ontology came from and went.
func (e *Extractor) Report(results []*Result, opts Options, runErr error) types.ExtractionReport {
	r := types.ExtractionReport{
		SourceNamespace: e.PublishedNamespace(),
		Placeholder:     e.namespace,
		IncludeParents:  opts.IncludeParents,
		IncludeChildren: opts.IncludeChildren,
		Concepts:        make([]types.ConceptRecord, 0, len(results)),
		Classes:         e.dest.Len(),
		Timestamp:       time.Now().UTC(),
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	published := e.PublishedNamespace() + "#"
	for _, res := range results {
		r.Concepts = append(r.Concepts, types.ConceptRecord{
			Label:     res.Label,
			Class:     res.Concept.Name,
			IRI:       published + res.Concept.Name,
			Ancestors: classNames(res.Ancestors),
			Children:  classNames(res.Children),
			Created:   res.Created,
			Reused:    res.Reused,
		})
	}
	return r
}

// WriteReport saves a run report to a YAML file.
func WriteReport(path string, r types.ExtractionReport) error {
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReport loads a previously saved run report.
func ReadReport(path string) (*types.ExtractionReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r types.ExtractionReport
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &r, nil
}

func classNames(classes []owl.Class) []string {
	if len(classes) == 0 {
		return nil
	}
	out := make([]string, len(classes))
	for i, c := range classes {
		out[i] = c.Name
	}
	return out
}
