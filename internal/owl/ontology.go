// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package owl holds an in-memory model of an OWL class hierarchy and the
// codecs that read and write it (RDF/XML and N-Triples).
//
// Only the parts of OWL the extractor needs are modeled: named classes,
// their labels and their declared superclasses. Every class without a
// declared superclass is a direct child of owl:Thing, which is implicit
// and never stored.
package owl

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
)

var (
	// ErrClassExists is returned when a class name is declared twice.
	ErrClassExists = errors.New("class already declared")

	// ErrUnknownClass is returned when a class or superclass is not in the ontology.
	ErrUnknownClass = errors.New("unknown class")

	// ErrCycle is returned when the subclass relation loops back on itself.
	ErrCycle = errors.New("subclass cycle")

	// ErrInvalidName is returned for an empty class name or the reserved root name.
	ErrInvalidName = errors.New("invalid class name")
)

// Class is a named OWL class.
type Class struct {
	// Name is the local name of the class (the IRI fragment).
	Name string `json:"name" yaml:"name"`

	// IRI is the full identifier of the class.
	IRI string `json:"iri" yaml:"iri"`

	// Labels holds the rdfs:label values in document order.
	Labels []string `json:"labels" yaml:"labels"`

	// LabelLangs holds the language tag of each label, "" for untagged
	// labels. It is nil when no label is tagged, otherwise it has one
	// entry per label.
	LabelLangs []string `json:"label_langs,omitempty" yaml:"label_langs,omitempty"`

	// Superclasses holds the names of the declared superclasses in
	// declaration order. The first entry is the primary superclass.
	// An empty list means the class is a direct child of owl:Thing.
	Superclasses []string `json:"superclasses,omitempty" yaml:"superclasses,omitempty"`
}

// Label returns the first label of the class.
func (c Class) Label() (string, bool) {
	if len(c.Labels) == 0 {
		return "", false
	}
	return c.Labels[0], true
}

// LabelLang returns the language tag of the i-th label, or "" when it is
// untagged.
func (c Class) LabelLang(i int) string {
	if i < 0 || i >= len(c.LabelLangs) {
		return ""
	}
	return c.LabelLangs[i]
}

// Parent returns the primary superclass name, or Thing for a root class.
func (c Class) Parent() string {
	if len(c.Superclasses) == 0 {
		return Thing
	}
	return c.Superclasses[0]
}

func (c Class) clone() Class {
	c.Labels = append([]string(nil), c.Labels...)
	c.LabelLangs = append([]string(nil), c.LabelLangs...)
	c.Superclasses = append([]string(nil), c.Superclasses...)
	return c
}

// Ontology is a class hierarchy under one namespace IRI.
type Ontology struct {
	iri     string
	classes map[string]*Class
	order   []string
	index   map[string]int

	// hierarchy has one vertex per class and an edge from every class to
	// each of its declared superclasses.
	hierarchy graph.Graph[string, string]
}

// New returns an empty ontology identified by iri. A trailing "#" is
// dropped; BaseIRI adds it back.
func New(iri string) *Ontology {
	return &Ontology{
		iri:       strings.TrimSuffix(iri, "#"),
		classes:   make(map[string]*Class),
		index:     make(map[string]int),
		hierarchy: graph.New(graph.StringHash, graph.Directed()),
	}
}

// IRI returns the ontology IRI without a fragment separator.
func (o *Ontology) IRI() string { return o.iri }

// BaseIRI returns the namespace classes are minted under, ending in "#".
func (o *Ontology) BaseIRI() string { return o.iri + "#" }

// Len returns the number of declared classes.
func (o *Ontology) Len() int { return len(o.order) }

// Class returns a copy of the named class.
func (o *Ontology) Class(name string) (Class, bool) {
	c, ok := o.classes[name]
	if !ok {
		return Class{}, false
	}
	return c.clone(), true
}

// Classes returns copies of all classes in declaration order.
func (o *Ontology) Classes() []Class {
	out := make([]Class, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.classes[name].clone())
	}
	return out
}

// DeclareClass adds c to the ontology. Every superclass must already be
// declared, so classes are always created top-down. An empty IRI is
// minted under BaseIRI.
func (o *Ontology) DeclareClass(c Class) error {
	if err := validName(c.Name); err != nil {
		return err
	}
	if _, ok := o.classes[c.Name]; ok {
		return fmt.Errorf("%w: %s", ErrClassExists, c.Name)
	}
	for _, super := range c.Superclasses {
		if _, ok := o.classes[super]; !ok {
			return fmt.Errorf("%w: superclass %s of %s", ErrUnknownClass, super, c.Name)
		}
	}

	if err := o.addVertex(c); err != nil {
		return err
	}
	for _, super := range c.Superclasses {
		if err := o.hierarchy.AddEdge(c.Name, super); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			o.remove(c.Name)
			return fmt.Errorf("linking %s to %s: %w", c.Name, super, err)
		}
	}
	return nil
}

// PrimaryAncestors returns the chain reached by following primary
// superclasses from name, ordered from the class just below owl:Thing down
// to the primary parent of name. Neither owl:Thing nor name is included.
func (o *Ontology) PrimaryAncestors(name string) ([]Class, error) {
	c, ok := o.classes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, name)
	}

	var chain []Class
	for cur := c; len(cur.Superclasses) > 0; {
		parent, ok := o.classes[cur.Superclasses[0]]
		if !ok {
			return nil, fmt.Errorf("%w: superclass %s of %s", ErrUnknownClass, cur.Superclasses[0], cur.Name)
		}
		if len(chain) >= len(o.order) {
			return nil, fmt.Errorf("%w: through %s", ErrCycle, name)
		}
		chain = append(chain, parent.clone())
		cur = parent
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Subclasses returns the direct subclasses of name in declaration order.
// A class listing name as any of its superclasses counts, not only as the
// primary one.
func (o *Ontology) Subclasses(name string) ([]Class, error) {
	if _, ok := o.classes[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, name)
	}

	predecessors, err := o.hierarchy.PredecessorMap()
	if err != nil {
		return nil, fmt.Errorf("reading hierarchy: %w", err)
	}

	names := make([]string, 0, len(predecessors[name]))
	for sub := range predecessors[name] {
		names = append(names, sub)
	}
	sort.Slice(names, func(i, j int) bool { return o.index[names[i]] < o.index[names[j]] })

	out := make([]Class, len(names))
	for i, sub := range names {
		out[i] = o.classes[sub].clone()
	}
	return out, nil
}

// SearchLabel returns the classes with a label matching pattern, in
// declaration order. A label equal to pattern always wins: wildcard
// matching is only tried when no label matches exactly. See LabelMatcher
// for the pattern syntax.
func (o *Ontology) SearchLabel(pattern string) ([]Class, error) {
	out := o.matchLabels(func(label string) bool { return label == pattern })
	if len(out) > 0 || !IsPattern(pattern) {
		return out, nil
	}

	match, err := LabelMatcher(pattern)
	if err != nil {
		return nil, err
	}
	return o.matchLabels(match), nil
}

func (o *Ontology) matchLabels(match func(string) bool) []Class {
	var out []Class
	for _, name := range o.order {
		c := o.classes[name]
		for _, label := range c.Labels {
			if match(label) {
				out = append(out, c.clone())
				break
			}
		}
	}
	return out
}

func (o *Ontology) addVertex(c Class) error {
	c = c.clone()
	if c.IRI == "" {
		c.IRI = o.BaseIRI() + c.Name
	}
	if err := o.hierarchy.AddVertex(c.Name); err != nil {
		return fmt.Errorf("adding %s: %w", c.Name, err)
	}
	o.classes[c.Name] = &c
	o.index[c.Name] = len(o.order)
	o.order = append(o.order, c.Name)
	return nil
}

// remove drops the most recently declared class. It is only used to undo
// declarations, which always happen at the end of the order.
func (o *Ontology) remove(name string) {
	c, ok := o.classes[name]
	if !ok {
		return
	}
	for _, super := range c.Superclasses {
		_ = o.hierarchy.RemoveEdge(name, super)
	}
	_ = o.hierarchy.RemoveVertex(name)

	delete(o.classes, name)
	delete(o.index, name)
	if n := len(o.order); n > 0 && o.order[n-1] == name {
		o.order = o.order[:n-1]
	}
}

// checkAcyclic reports ErrCycle when the hierarchy has no topological order.
func (o *Ontology) checkAcyclic() error {
	order, err := graph.TopologicalSort(o.hierarchy)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCycle, err)
	}
	if len(order) != len(o.order) {
		return ErrCycle
	}
	return nil
}

func validName(name string) error {
	if name == "" || name == Thing {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
