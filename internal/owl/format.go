// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package owl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format names a serialization.
type Format string

const (
	FormatRDFXML   Format = "rdfxml"
	FormatNTriples Format = "ntriples"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rdfxml", "rdf/xml", "rdf", "xml", "owl":
		return FormatRDFXML, nil
	case "ntriples", "n-triples", "nt":
		return FormatNTriples, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use rdfxml or ntriples", s)
	}
}

// FormatFromPath guesses the format from a file extension. Anything other
// than .nt is read as RDF/XML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".nt") {
		return FormatNTriples
	}
	return FormatRDFXML
}

// Load reads an ontology file, choosing the codec from its extension.
func Load(path string) (*Ontology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ontology: %w", err)
	}
	defer f.Close()

	o, err := Decode(bufio.NewReader(f), FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return o, nil
}

// Decode parses an ontology from r.
func Decode(r io.Reader, format Format) (*Ontology, error) {
	switch format {
	case FormatRDFXML:
		return decodeRDFXML(r)
	case FormatNTriples:
		return decodeNTriples(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Encode writes o to w.
func Encode(w io.Writer, o *Ontology, format Format) error {
	bw := bufio.NewWriter(w)
	switch format {
	case FormatRDFXML:
		encodeRDFXML(bw, o)
	case FormatNTriples:
		encodeNTriples(bw, o)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	// bufio.Writer keeps the first write error and reports it on Flush.
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing ontology: %w", err)
	}
	return nil
}

// builder accumulates classes while a document is parsed. Superclasses
// may be referenced before they are declared, so edges are only linked
// once the whole document has been read.
type builder struct {
	iri     string
	classes map[string]*Class
	order   []string
}

func newBuilder() *builder {
	return &builder{classes: make(map[string]*Class)}
}

// class returns the class for iri, creating it on first sight. It returns
// nil for owl:Thing and for IRIs without a local name.
func (b *builder) class(iri string) *Class {
	if iri == ThingIRI {
		return nil
	}
	name := LocalName(iri)
	if name == "" {
		return nil
	}
	if c, ok := b.classes[name]; ok {
		return c
	}
	c := &Class{Name: name, IRI: iri}
	b.classes[name] = c
	b.order = append(b.order, name)
	return c
}

func (b *builder) addLabel(classIRI, label, lang string) {
	c := b.class(classIRI)
	if c == nil {
		return
	}
	if lang != "" && c.LabelLangs == nil {
		c.LabelLangs = make([]string, len(c.Labels))
	}
	c.Labels = append(c.Labels, label)
	if c.LabelLangs != nil {
		c.LabelLangs = append(c.LabelLangs, lang)
	}
}

func (b *builder) addSuperclass(classIRI, superIRI string) {
	c := b.class(classIRI)
	if c == nil {
		return
	}
	super := b.class(superIRI)
	if super == nil || super.Name == c.Name {
		return
	}
	for _, existing := range c.Superclasses {
		if existing == super.Name {
			return
		}
	}
	c.Superclasses = append(c.Superclasses, super.Name)
}

func (b *builder) build() (*Ontology, error) {
	if b.iri == "" {
		for _, name := range b.order {
			b.iri = strings.TrimSuffix(Namespace(b.classes[name].IRI), "#")
			break
		}
	}
	if b.iri == "" {
		return nil, errors.New("document has no ontology IRI and no classes")
	}

	o := New(b.iri)
	for _, name := range b.order {
		c := *b.classes[name]
		supers := c.Superclasses
		c.Superclasses = nil
		if err := o.addVertex(c); err != nil {
			return nil, err
		}
		o.classes[name].Superclasses = supers
	}
	for _, name := range b.order {
		for _, super := range o.classes[name].Superclasses {
			if err := o.hierarchy.AddEdge(name, super); err != nil {
				return nil, fmt.Errorf("linking %s to %s: %w", name, super, err)
			}
		}
	}
	if err := o.checkAcyclic(); err != nil {
		return nil, err
	}
	return o, nil
}
