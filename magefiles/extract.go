//go:build mage

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Extract builds the CLI and extracts a comma-separated list of labels
// from source into output/<name>.owl.
//
//	mage extract ontologies/ncit.owl "Marital Status,Bias"
func Extract(source, labels string) error {
	mg.Deps(Init, Build)

	var concepts []string
	for _, l := range strings.Split(labels, ",") {
		if l = strings.TrimSpace(l); l != "" {
			concepts = append(concepts, l)
		}
	}
	if len(concepts) == 0 {
		return fmt.Errorf("no labels given")
	}

	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	args := []string{
		"extract",
		"--source", source,
		"--output", filepath.Join("output", name+"-sub.owl"),
		"--report", filepath.Join("output", name+"-report.yaml"),
	}
	return sh.RunV(filepath.Join(binDir, binName), append(args, concepts...)...)
}

// Index imports a source ontology into the default catalog.
func Index(source string) error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "catalog", "index",
		"--source", source, "--catalog", catalogPath)
}

// Fetch downloads an ontology into ontologies/.
func Fetch(url string) error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "fetch", url)
}
