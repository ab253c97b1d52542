// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package owl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type termKind int

const (
	termIRI termKind = iota
	termBlank
	termLiteral
)

type term struct {
	kind     termKind
	value    string
	lang     string
	datatype string
}

type triple struct {
	s, p, o term
}

func decodeNTriples(r io.Reader) (*Ontology, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var triples []triple
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		t, err := parseTriple(line)
		if err != nil {
			return nil, fmt.Errorf("parsing N-Triples line %d: %w", lineNo, err)
		}
		triples = append(triples, t)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading N-Triples: %w", err)
	}

	// A subject is a class when it is typed owl:Class or has a named
	// superclass. Labels on anything else are ignored.
	isClass := make(map[string]bool)
	for _, t := range triples {
		if t.s.kind != termIRI || t.o.kind != termIRI {
			continue
		}
		if (t.p.value == TypeIRI && t.o.value == ClassIRI) || t.p.value == SubClassOfIRI {
			isClass[t.s.value] = true
		}
	}

	b := newBuilder()
	for _, t := range triples {
		if t.s.kind != termIRI {
			continue
		}
		switch {
		case t.p.value == TypeIRI && t.o.value == OntologyIRI:
			if b.iri == "" {
				b.iri = strings.TrimSuffix(t.s.value, "#")
			}
		case t.p.value == TypeIRI && t.o.value == ClassIRI:
			b.class(t.s.value)
		case t.p.value == SubClassOfIRI && t.o.kind == termIRI:
			b.addSuperclass(t.s.value, t.o.value)
		case t.p.value == LabelIRI && t.o.kind == termLiteral && isClass[t.s.value]:
			b.addLabel(t.s.value, t.o.value, t.o.lang)
		}
	}
	return b.build()
}

func parseTriple(line string) (triple, error) {
	var (
		t    triple
		rest = line
		err  error
	)
	for _, dst := range []*term{&t.s, &t.p, &t.o} {
		*dst, rest, err = parseTerm(strings.TrimLeft(rest, " \t"))
		if err != nil {
			return triple{}, err
		}
	}
	if strings.TrimSpace(rest) != "." {
		return triple{}, fmt.Errorf("expected '.' after object, got %q", rest)
	}
	if t.p.kind != termIRI {
		return triple{}, errors.New("predicate must be an IRI")
	}
	return t, nil
}

func parseTerm(s string) (term, string, error) {
	switch {
	case strings.HasPrefix(s, "<"):
		end := strings.IndexByte(s, '>')
		if end < 0 {
			return term{}, "", errors.New("unterminated IRI")
		}
		return term{kind: termIRI, value: s[1:end]}, s[end+1:], nil

	case strings.HasPrefix(s, "_:"):
		end := strings.IndexAny(s, " \t")
		if end < 0 {
			return term{}, "", errors.New("blank node at end of line")
		}
		return term{kind: termBlank, value: s[2:end]}, s[end:], nil

	case strings.HasPrefix(s, `"`):
		end := closingQuote(s)
		if end < 0 {
			return term{}, "", errors.New("unterminated literal")
		}
		raw := strings.ReplaceAll(s[1:end], `\'`, `'`)
		value, err := strconv.Unquote(`"` + raw + `"`)
		if err != nil {
			return term{}, "", fmt.Errorf("bad literal escape: %w", err)
		}
		t := term{kind: termLiteral, value: value}
		rest := s[end+1:]
		switch {
		case strings.HasPrefix(rest, "@"):
			n := strings.IndexAny(rest, " \t.")
			if n < 0 {
				n = len(rest)
			}
			t.lang, rest = rest[1:n], rest[n:]
		case strings.HasPrefix(rest, "^^<"):
			n := strings.IndexByte(rest, '>')
			if n < 0 {
				return term{}, "", errors.New("unterminated datatype IRI")
			}
			t.datatype, rest = rest[3:n], rest[n+1:]
		}
		return t, rest, nil

	default:
		return term{}, "", fmt.Errorf("unexpected term %q", s)
	}
}

// closingQuote returns the index of the quote ending the literal that
// starts at s[0], skipping escaped quotes.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func encodeNTriples(w *bufio.Writer, o *Ontology) {
	fmt.Fprintf(w, "<%s> <%s> <%s> .\n", o.IRI(), TypeIRI, OntologyIRI)
	for _, name := range o.order {
		c := o.classes[name]
		fmt.Fprintf(w, "<%s> <%s> <%s> .\n", c.IRI, TypeIRI, ClassIRI)
		for _, super := range c.Superclasses {
			fmt.Fprintf(w, "<%s> <%s> <%s> .\n", c.IRI, SubClassOfIRI, o.classes[super].IRI)
		}
		for i, label := range c.Labels {
			if lang := c.LabelLang(i); lang != "" {
				fmt.Fprintf(w, "<%s> <%s> \"%s\"@%s .\n", c.IRI, LabelIRI, escapeLiteral(label), lang)
				continue
			}
			fmt.Fprintf(w, "<%s> <%s> \"%s\"^^<%s> .\n", c.IRI, LabelIRI, escapeLiteral(label), StringIRI)
		}
	}
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

func escapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}
