// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pdiddy/ontoply/internal/owl"
	"github.com/pdiddy/ontoply/internal/subonto"
	"github.com/pdiddy/ontoply/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [label...]",
	Short: "Extract labeled concepts into a new ontology",
	Long: `Extract looks up each label in the source ontology and copies the
concept, its primary ancestor chain, and its direct children into a new
ontology, which is saved to --output and published under the source
namespace.

Labels match exactly. A label containing "*" that matches nothing exactly
is tried as a wildcard pattern, where "*" matches any run of characters.
When several classes match, the first declared one is used. Labels can also be
listed under extract.concepts in the config file.

A concept already copied under the same parent is reused; one copied under
a different parent is an error. The run stops at the first failing label.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("source", "", "source ontology file (RDF/XML, or N-Triples with .nt)")
	extractCmd.Flags().String("catalog", "", "SQLite catalog to query instead of parsing the source every run")
	extractCmd.Flags().String("namespace", "", "placeholder namespace for the new ontology (default: generated)")
	extractCmd.Flags().StringP("output", "o", "", "output file (default output/sub-ontology.owl)")
	extractCmd.Flags().String("format", "", "output format: rdfxml or ntriples (default from the output extension)")
	extractCmd.Flags().Bool("no-parents", false, "do not copy ancestor chains")
	extractCmd.Flags().Bool("no-children", false, "do not copy direct children")
	extractCmd.Flags().String("report", "", "write a YAML run report to this file")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"source":    "extract.source",
		"catalog":   "catalog.path",
		"namespace": "extract.namespace",
		"output":    "extract.output",
		"format":    "extract.format",
		"report":    "extract.report",
	}); err != nil {
		return err
	}
	cfg := loadConfig()
	ec := cfg.Extract

	labels := args
	if len(labels) == 0 {
		labels = ec.Concepts
	}
	if len(labels) == 0 {
		return fmt.Errorf("provide one or more concept labels, or list them under extract.concepts")
	}

	noParents, _ := cmd.Flags().GetBool("no-parents")
	noChildren, _ := cmd.Flags().GetBool("no-children")
	opts := subonto.Options{
		IncludeParents:  ec.IncludeParents && !noParents,
		IncludeChildren: ec.IncludeChildren && !noChildren,
	}

	format := owl.FormatFromPath(ec.Output)
	if ec.Format != "" {
		f, err := owl.ParseFormat(ec.Format)
		if err != nil {
			return err
		}
		format = f
	}

	ctx := context.Background()
	src, closeSource, err := openSource(ctx, ec.Source, cfg.Catalog)
	if err != nil {
		return err
	}
	defer closeSource()

	namespace := ec.Namespace
	if namespace == "" {
		namespace = subonto.NewPlaceholderNamespace()
	}

	bar := progressbar.NewOptions(len(labels),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Extracting concepts"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	ex, err := subonto.New(src, namespace,
		subonto.WithLogger(logger),
		subonto.WithProgress(func(done, total int, label string) {
			bar.Describe(label)
			bar.Add(1)
		}),
	)
	if err != nil {
		return err
	}

	results, runErr := ex.AddConcepts(labels, opts)
	bar.Finish()
	if runErr == nil {
		runErr = ex.Save(ec.Output, format)
	}

	if ec.ReportPath != "" {
		report := ex.Report(results, opts, runErr)
		report.Source = sourceName(ec.Source, cfg.Catalog)
		if runErr == nil {
			report.Output = ec.Output
			report.Format = string(format)
		}
		if err := writeReport(ec.ReportPath, report); err != nil {
			logger.WithError(err).Warn("run report not written")
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(os.Stdout, "extracted %d concept(s), %d class(es) -> %s (%s)\n",
		len(results), ex.Destination().Len(), ec.Output, format)
	return nil
}

func sourceName(sourcePath string, cfg types.CatalogConfig) string {
	if sourcePath != "" {
		return sourcePath
	}
	return cfg.Path
}

func writeReport(path string, report types.ExtractionReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	return subonto.WriteReport(path, report)
}
