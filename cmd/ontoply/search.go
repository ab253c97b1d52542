// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ontoply/internal/catalog"
	"github.com/pdiddy/ontoply/internal/owl"
)

var searchCmd = &cobra.Command{
	Use:   "search <pattern>",
	Short: "Find classes by label",
	Long: `Search lists the classes whose labels match a pattern, in declaration
order. The first row is the class extract would pick for the same label.
A label that matches exactly always wins. Otherwise "*" matches any run of
characters; ? [ { and every other character match themselves.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("source", "", "source ontology file")
	searchCmd.Flags().String("catalog", "", "SQLite catalog to query")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = catalog.max_results)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"source":  "extract.source",
		"catalog": "catalog.path",
	}); err != nil {
		return err
	}
	cfg := loadConfig()

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.Catalog.MaxResults
	}

	ctx := context.Background()
	src, closeSource, err := openSource(ctx, cfg.Extract.Source, cfg.Catalog)
	if err != nil {
		return err
	}
	defer closeSource()

	var results []owl.Class
	if store, ok := src.(*catalog.Store); ok {
		results, err = store.Search(ctx, args[0], limit)
	} else {
		results, err = src.SearchLabel(args[0])
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}
	}
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []owl.Class, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-16s  %-40s  %s\n", "Rank", "Class", "Label", "Parent")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))

	for i, c := range results {
		label := truncate(strings.Join(c.Labels, "; "), 40)
		fmt.Fprintf(os.Stdout, "%-4d  %-16s  %-40s  %s\n", i+1, c.Name, label, c.Parent())
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
