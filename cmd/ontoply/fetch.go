// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ontoply/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url...>",
	Short: "Download source ontologies",
	Long: `Fetch downloads ontology files into the ontologies directory. Files that
already exist are skipped. Rate limiting and gateway errors are retried
with backoff.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("ontologies-dir", "", "directory downloads are saved to (default ontologies)")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 5m)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"ontologies-dir": "fetch.ontologies_dir",
		"timeout":        "fetch.timeout",
	}); err != nil {
		return err
	}
	cfg := loadConfig().Fetch

	client := &http.Client{Timeout: cfg.Timeout}
	ctx := context.Background()

	var failed int
	for _, url := range args {
		if _, err := fetch.Ontology(ctx, client, url, cfg, os.Stdout, logger); err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s (%v)\n", url, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d ontology download(s) failed", failed)
	}
	return nil
}
