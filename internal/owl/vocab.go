// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package owl

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// Namespaces used by the codecs.
const (
	RDFNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNS = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNS  = "http://www.w3.org/2002/07/owl#"
	XSDNS  = "http://www.w3.org/2001/XMLSchema#"
	XMLNS  = "http://www.w3.org/XML/1998/namespace"
)

// Thing is the local name of the universal root class.
const Thing = "Thing"

// Frequently used IRIs.
const (
	ThingIRI      = OWLNS + Thing
	ClassIRI      = OWLNS + "Class"
	OntologyIRI   = OWLNS + "Ontology"
	TypeIRI       = RDFNS + "type"
	SubClassOfIRI = RDFSNS + "subClassOf"
	LabelIRI      = RDFSNS + "label"
	StringIRI     = XSDNS + "string"
)

// IsPattern reports whether a label search is a wildcard pattern rather
// than an exact label. Only "*" is a wildcard.
func IsPattern(s string) bool {
	return strings.Contains(s, "*")
}

// LabelMatcher compiles a label pattern. "*" matches any run of
// characters; every other character, including ? [ { and \, matches
// itself. Patterns without "*" match a label exactly.
func LabelMatcher(pattern string) (func(string) bool, error) {
	if !IsPattern(pattern) {
		return func(label string) bool { return label == pattern }, nil
	}
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = glob.QuoteMeta(p)
	}
	g, err := glob.Compile(strings.Join(parts, "*"))
	if err != nil {
		return nil, fmt.Errorf("compiling label pattern %q: %w", pattern, err)
	}
	return g.Match, nil
}

// LocalName returns the part of iri after the last "#", or after the last
// "/" when there is no fragment.
func LocalName(iri string) string {
	if i := strings.LastIndexByte(iri, '#'); i >= 0 {
		return iri[i+1:]
	}
	if i := strings.LastIndexByte(iri, '/'); i >= 0 {
		return iri[i+1:]
	}
	return iri
}

// Namespace returns iri with its local name removed, keeping the separator.
func Namespace(iri string) string {
	return strings.TrimSuffix(iri, LocalName(iri))
}

// resolveIRI resolves ref against base the way rdf:about and
// rdf:resource values are resolved against xml:base.
func resolveIRI(base, ref string) string {
	if ref == "" || base == "" {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil || r.IsAbs() {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
