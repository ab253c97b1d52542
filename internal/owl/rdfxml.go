// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package owl

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// entityDecl matches the internal entity declarations Protégé writes in
// the DOCTYPE, such as <!ENTITY owl "http://www.w3.org/2002/07/owl#" >.
var entityDecl = regexp.MustCompile(`<!ENTITY\s+([\w.-]+)\s+["']([^"']*)["']\s*>`)

// RDF/XML element structures. Only class declarations are decoded; every
// other top-level element is skipped.
type rdfNode struct {
	About      string       `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# about,attr"`
	ID         string       `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# ID,attr"`
	Types      []rdfRef     `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# type"`
	SubClassOf []rdfRef     `xml:"http://www.w3.org/2000/01/rdf-schema# subClassOf"`
	Labels     []rdfLiteral `xml:"http://www.w3.org/2000/01/rdf-schema# label"`
}

// rdfRef is a property pointing at a resource, either through
// rdf:resource or through a nested class element.
type rdfRef struct {
	Resource string    `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# resource,attr"`
	Classes  []rdfNode `xml:"http://www.w3.org/2002/07/owl# Class"`
}

type rdfLiteral struct {
	Lang  string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	Value string `xml:",chardata"`
}

func decodeRDFXML(r io.Reader) (*Ontology, error) {
	dec := xml.NewDecoder(r)
	dec.Entity = make(map[string]string)
	b := newBuilder()

	var (
		base  string
		depth int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing RDF/XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				if t.Name.Space != RDFNS || t.Name.Local != "RDF" {
					return nil, fmt.Errorf("parsing RDF/XML: root element is %s, want rdf:RDF", t.Name.Local)
				}
				base = attrValue(t, XMLNS, "base")
				continue
			}

			// Every top-level element is consumed whole, so depth never
			// exceeds two.
			if err := b.readElement(dec, t, &base); err != nil {
				return nil, err
			}
			depth--
		case xml.EndElement:
			depth--
		case xml.Directive:
			for _, m := range entityDecl.FindAllStringSubmatch(string(t), -1) {
				dec.Entity[m[1]] = m[2]
			}
		}
	}

	if b.iri == "" {
		b.iri = strings.TrimSuffix(base, "#")
	}
	return b.build()
}

func (b *builder) readElement(dec *xml.Decoder, t xml.StartElement, base *string) error {
	switch {
	case t.Name.Space == OWLNS && t.Name.Local == "Ontology":
		about := resolveIRI(*base, attrValue(t, RDFNS, "about"))
		if about != "" && b.iri == "" {
			b.iri = strings.TrimSuffix(about, "#")
		}
		if *base == "" {
			*base = about
		}
		return dec.Skip()

	case t.Name.Space == OWLNS && t.Name.Local == "Class":
		var n rdfNode
		if err := dec.DecodeElement(&n, &t); err != nil {
			return fmt.Errorf("parsing owl:Class: %w", err)
		}
		b.addNode(*base, n)
		return nil

	case t.Name.Space == RDFNS && t.Name.Local == "Description":
		var n rdfNode
		if err := dec.DecodeElement(&n, &t); err != nil {
			return fmt.Errorf("parsing rdf:Description: %w", err)
		}
		for _, typ := range n.Types {
			if resolveIRI(*base, typ.Resource) == ClassIRI {
				b.addNode(*base, n)
				break
			}
		}
		return nil

	default:
		return dec.Skip()
	}
}

func (b *builder) addNode(base string, n rdfNode) {
	iri := nodeIRI(base, n)
	if iri == "" || b.class(iri) == nil {
		return
	}
	for _, l := range n.Labels {
		b.addLabel(iri, l.Value, l.Lang)
	}
	for _, ref := range n.SubClassOf {
		super := resolveIRI(base, ref.Resource)
		if super == "" && len(ref.Classes) > 0 {
			// Named nested class. Anonymous expressions resolve to "".
			super = nodeIRI(base, ref.Classes[0])
		}
		if super != "" {
			b.addSuperclass(iri, super)
		}
	}
}

func nodeIRI(base string, n rdfNode) string {
	switch {
	case n.About != "":
		return resolveIRI(base, n.About)
	case n.ID != "":
		return strings.TrimSuffix(base, "#") + "#" + n.ID
	default:
		return ""
	}
}

func attrValue(t xml.StartElement, space, local string) string {
	for _, a := range t.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func encodeRDFXML(w *bufio.Writer, o *Ontology) {
	iri := escapeXML(o.IRI())

	fmt.Fprintln(w, `<?xml version="1.0"?>`)
	fmt.Fprintf(w, "<rdf:RDF xmlns:rdf=%q\n", RDFNS)
	fmt.Fprintf(w, "         xmlns:xsd=%q\n", XSDNS)
	fmt.Fprintf(w, "         xmlns:rdfs=%q\n", RDFSNS)
	fmt.Fprintf(w, "         xmlns:owl=%q\n", OWLNS)
	fmt.Fprintf(w, "         xml:base=\"%s\"\n", iri)
	fmt.Fprintf(w, "         xmlns=\"%s#\">\n\n", iri)
	fmt.Fprintf(w, "<owl:Ontology rdf:about=\"%s\"/>\n\n", iri)

	for _, name := range o.order {
		c := o.classes[name]
		fmt.Fprintf(w, "<owl:Class rdf:about=\"%s\">\n", escapeXML(c.IRI))
		for _, super := range c.Superclasses {
			fmt.Fprintf(w, "  <rdfs:subClassOf rdf:resource=\"%s\"/>\n", escapeXML(o.classes[super].IRI))
		}
		for i, label := range c.Labels {
			if lang := c.LabelLang(i); lang != "" {
				fmt.Fprintf(w, "  <rdfs:label xml:lang=\"%s\">%s</rdfs:label>\n", escapeXML(lang), escapeXML(label))
				continue
			}
			fmt.Fprintf(w, "  <rdfs:label rdf:datatype=%q>%s</rdfs:label>\n", StringIRI, escapeXML(label))
		}
		fmt.Fprintln(w, "</owl:Class>")
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "</rdf:RDF>")
}

func escapeXML(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
