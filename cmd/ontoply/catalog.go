// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ontoply/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the SQLite label catalog",
	Long: `Catalog keeps a parsed copy of a source ontology in SQLite. Importing a
large ontology once lets extract and search skip parsing the OWL file on
every run. The catalog is re-imported automatically when the source file
changes.`,
}

// --- index subcommand ---

var catalogIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Import the source ontology into the catalog",
	Long: `Index parses the source ontology and replaces the catalog contents
with its classes, labels, and superclasses. Unchanged sources are skipped
unless --force is given.`,
	RunE: runCatalogIndex,
}

func runCatalogIndex(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"source":  "extract.source",
		"catalog": "catalog.path",
	}); err != nil {
		return err
	}
	cfg := loadConfig()
	if cfg.Extract.Source == "" {
		return errors.New("--source is required")
	}
	if cfg.Catalog.Path == "" {
		return errors.New("--catalog is required")
	}
	force, _ := cmd.Flags().GetBool("force")

	store, err := catalog.Open(cfg.Catalog, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	imported, err := indexSource(ctx, store, cfg.Extract.Source, force)
	if err != nil {
		return err
	}
	if !imported {
		fmt.Printf("skipped %s (unchanged)\n", cfg.Extract.Source)
		return nil
	}

	st, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("indexed %s: %d classes, %d labels\n", cfg.Extract.Source, st.Classes, st.Labels)
	return nil
}

// --- stats subcommand ---

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what the catalog holds",
	RunE:  runCatalogStats,
}

func runCatalogStats(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{"catalog": "catalog.path"}); err != nil {
		return err
	}
	cfg := loadConfig()
	if cfg.Catalog.Path == "" {
		return errors.New("--catalog is required")
	}

	store, err := catalog.Open(cfg.Catalog, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := store.Stats(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	fmt.Printf("ontology:      %s\n", st.IRI)
	fmt.Printf("source:        %s\n", st.SourcePath)
	fmt.Printf("imported at:   %s\n", st.ImportedAt)
	fmt.Printf("classes:       %d\n", st.Classes)
	fmt.Printf("labels:        %d\n", st.Labels)
	fmt.Printf("superclasses:  %d\n", st.Superclasses)
	fmt.Printf("roots:         %d\n", st.Roots)
	fmt.Printf("unlabeled:     %d\n", st.Unlabeled)
	return nil
}

func init() {
	catalogCmd.PersistentFlags().String("catalog", "", "SQLite catalog file")

	catalogIndexCmd.Flags().String("source", "", "source ontology file")
	catalogIndexCmd.Flags().Bool("force", false, "re-import even when the source is unchanged")

	catalogStatsCmd.Flags().Bool("json", false, "output stats as JSON")

	catalogCmd.AddCommand(catalogIndexCmd)
	catalogCmd.AddCommand(catalogStatsCmd)

	rootCmd.AddCommand(catalogCmd)
}
