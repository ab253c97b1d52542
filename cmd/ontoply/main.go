// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ontoply CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ontoply/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose bool
	logger  = logrus.New()
)

// rootCmd is the base command for the ontoply CLI.
var rootCmd = &cobra.Command{
	Use:   "ontoply",
	Short: "Extract labeled sub-ontologies from large OWL ontologies",
	Long: `ontoply copies selected concepts out of a large OWL ontology into a new,
self-contained ontology. Each concept is found by its label and copied with
its primary ancestor chain and its direct children, keeping class names and
labels. The result is published under the source ontology's namespace.

Large sources can be imported once into a SQLite catalog so repeated runs
do not re-parse the OWL file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}
		if f := viper.ConfigFileUsed(); f != "" {
			logger.WithField("file", f).Debug("using config file")
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ontoply.yaml or ~/.config/ontoply/ontoply.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() {
	// Values from .env become environment variables and are picked up
	// below through the ONTOPLY_ prefix. Existing variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ontoply")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ontoply"))
		}
	}

	setDefaults()

	viper.SetEnvPrefix("ONTOPLY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

const (
	defaultTimeout   = 5 * time.Minute
	defaultUserAgent = "ontoply/0.1"
)

func setDefaults() {
	viper.SetDefault("extract.output", filepath.Join("output", "sub-ontology.owl"))
	viper.SetDefault("extract.include_parents", true)
	viper.SetDefault("extract.include_children", true)
	viper.SetDefault("catalog.max_results", 20)
	viper.SetDefault("fetch.ontologies_dir", "ontologies")
	viper.SetDefault("fetch.timeout", defaultTimeout)
	viper.SetDefault("fetch.user_agent", defaultUserAgent)
}

// loadConfig reads the typed configuration from viper after the running
// command has bound its flags.
func loadConfig() types.Config {
	return types.Config{
		Extract: types.ExtractionConfig{
			Source:          viper.GetString("extract.source"),
			Namespace:       viper.GetString("extract.namespace"),
			Output:          viper.GetString("extract.output"),
			Format:          viper.GetString("extract.format"),
			Concepts:        viper.GetStringSlice("extract.concepts"),
			IncludeParents:  viper.GetBool("extract.include_parents"),
			IncludeChildren: viper.GetBool("extract.include_children"),
			ReportPath:      viper.GetString("extract.report"),
		},
		Catalog: types.CatalogConfig{
			Path:       viper.GetString("catalog.path"),
			MaxResults: viper.GetInt("catalog.max_results"),
		},
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			OntologiesDir: viper.GetString("fetch.ontologies_dir"),
		},
	}
}

// bindFlags binds flags of the running command to config keys. Several
// commands share flag names, so binding happens when a command runs
// rather than in init.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q", flag)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
