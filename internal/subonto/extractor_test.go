// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package subonto

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ontoply/internal/owl"
)

const (
	sourceIRI   = "http://example.org/ncit.owl"
	placeholder = "http://ontoply.invalid/test/onto.owl"
)

// --- test helpers ---

func declare(t *testing.T, o *owl.Ontology, name, label string, supers ...string) {
	t.Helper()
	c := owl.Class{Name: name, Superclasses: supers}
	if label != "" {
		c.Labels = []string{label}
	}
	require.NoError(t, o.DeclareClass(c))
}

// sampleSource is a small slice of a thesaurus-style hierarchy.
func sampleSource(t *testing.T) *owl.Ontology {
	t.Helper()
	o := owl.New(sourceIRI + "#")
	declare(t, o, "C20189", "Property or Attribute")
	declare(t, o, "C25447", "Characteristic", "C20189")
	declare(t, o, "C25616", "Personal Attribute", "C20189")
	declare(t, o, "C25188", "Marital Status", "C25616", "C25447")
	declare(t, o, "C51773", "Married", "C25188")
	declare(t, o, "C51774", "Never Married", "C25188")
	declare(t, o, "C17047", "Bias", "C25447")
	declare(t, o, "C71521", "Selection Bias", "C17047")
	declare(t, o, "C20200", "Outcome")
	declare(t, o, "C64917", "Favorable Outcome", "C20200")
	declare(t, o, "C64918", "Unfavorable Outcome", "C20200")
	declare(t, o, "C99000", "")
	declare(t, o, "C99001", "Orphan Child", "C99000")
	return o
}

func newExtractor(t *testing.T, src Source, opts ...Option) *Extractor {
	t.Helper()
	e, err := New(src, placeholder, opts...)
	require.NoError(t, err)
	return e
}

func names(classes []owl.Class) []string {
	out := make([]string, len(classes))
	for i, c := range classes {
		out[i] = c.Name
	}
	return out
}

// parents maps every destination class to its parent name.
func parents(o *owl.Ontology) map[string]string {
	out := make(map[string]string)
	for _, c := range o.Classes() {
		out[c.Name] = c.Parent()
	}
	return out
}

// --- construction ---

func TestNewValidates(t *testing.T) {
	_, err := New(nil, placeholder)
	assert.Error(t, err)

	_, err = New(sampleSource(t), "  ")
	assert.Error(t, err)

	e, err := New(sampleSource(t), placeholder+"#")
	require.NoError(t, err)
	assert.Equal(t, placeholder, e.Namespace())
	assert.Equal(t, placeholder, e.Destination().IRI())
	assert.Equal(t, 0, e.Destination().Len())
	assert.Equal(t, sourceIRI, e.PublishedNamespace())
}

func TestNewPlaceholderNamespaceIsUnique(t *testing.T) {
	a := NewPlaceholderNamespace()
	b := NewPlaceholderNamespace()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^http://ontoply\.invalid/[0-9a-f-]{36}/onto\.owl$`, a)
}

// --- add_concept ---

func TestAddConceptTopLevel(t *testing.T) {
	e := newExtractor(t, sampleSource(t))

	res, err := e.AddConcept("Outcome", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "C20200", res.Concept.Name)
	assert.Empty(t, res.Ancestors)
	assert.Equal(t, []string{"C64917", "C64918"}, names(res.Children))
	assert.Equal(t, []string{"C20200", "C64917", "C64918"}, res.Created)
	assert.Empty(t, res.Reused)

	dest := e.Destination()
	assert.Equal(t, map[string]string{
		"C20200": owl.Thing,
		"C64917": "C20200",
		"C64918": "C20200",
	}, parents(dest))

	for name, label := range map[string]string{
		"C20200": "Outcome",
		"C64917": "Favorable Outcome",
		"C64918": "Unfavorable Outcome",
	} {
		c, ok := dest.Class(name)
		require.True(t, ok)
		assert.Equal(t, []string{label}, c.Labels)
		assert.Equal(t, placeholder+"#"+name, c.IRI)
	}
}

func TestAddConceptCopiesPrimaryChain(t *testing.T) {
	e := newExtractor(t, sampleSource(t))

	res, err := e.AddConcept("Married", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"C20189", "C25616", "C25188"}, names(res.Ancestors))
	assert.Empty(t, res.Children, "a leaf concept has no children")
	assert.Equal(t, map[string]string{
		"C20189": owl.Thing,
		"C25616": "C20189",
		"C25188": "C25616",
		"C51773": "C25188",
	}, parents(e.Destination()))
}

func TestAddConceptOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want map[string]string
	}{
		{
			name: "parents and children",
			opts: DefaultOptions(),
			want: map[string]string{
				"C20189": owl.Thing, "C25616": "C20189", "C25188": "C25616",
				"C51773": "C25188", "C51774": "C25188",
			},
		},
		{
			name: "children only",
			opts: Options{IncludeChildren: true},
			want: map[string]string{
				"C25188": owl.Thing, "C51773": "C25188", "C51774": "C25188",
			},
		},
		{
			name: "parents only",
			opts: Options{IncludeParents: true},
			want: map[string]string{
				"C20189": owl.Thing, "C25616": "C20189", "C25188": "C25616",
			},
		},
		{
			name: "concept only",
			opts: Options{},
			want: map[string]string{"C25188": owl.Thing},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newExtractor(t, sampleSource(t))
			_, err := e.AddConcept("Marital Status", tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, parents(e.Destination()))
		})
	}
}

func TestAddConceptKeepsFirstLabelOnly(t *testing.T) {
	src := sampleSource(t)
	require.NoError(t, src.DeclareClass(owl.Class{
		Name:   "C25000",
		Labels: []string{"Systematic Error", "Bias Variant"},
	}))
	e := newExtractor(t, src)

	res, err := e.AddConcept("Bias Variant", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Systematic Error"}, res.Concept.Labels)
}

func TestAddConceptKeepsFirstLabelLanguage(t *testing.T) {
	src := sampleSource(t)
	require.NoError(t, src.DeclareClass(owl.Class{
		Name:       "C25001",
		Labels:     []string{"Tumour Grade", "Tumor Grade"},
		LabelLangs: []string{"en-GB", "en-US"},
	}))
	e := newExtractor(t, src)

	res, err := e.AddConcept("Tumor Grade", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Tumour Grade"}, res.Concept.Labels)
	assert.Equal(t, []string{"en-GB"}, res.Concept.LabelLangs)

	path := filepath.Join(t.TempDir(), "sub.owl")
	require.NoError(t, e.Save(path, owl.FormatRDFXML))
	got, err := owl.Load(path)
	require.NoError(t, err)
	c, ok := got.Class("C25001")
	require.True(t, ok)
	assert.Equal(t, "en-GB", c.LabelLang(0))
}

func TestAddConceptFirstMatchWins(t *testing.T) {
	e := newExtractor(t, sampleSource(t))

	res, err := e.AddConcept("*Outcome", Options{})
	require.NoError(t, err)
	assert.Equal(t, "C20200", res.Concept.Name)
	assert.Equal(t, 1, e.Destination().Len())
}

func TestAddConceptLiteralLabels(t *testing.T) {
	src := owl.New(sourceIRI + "#")
	declare(t, src, "C1908", "Drug, Food, Chemical or Biomedical Material")
	declare(t, src, "C95766", "[18F]Fludeoxyglucose", "C1908")
	declare(t, src, "C1000", "Set {A}", "C1908")
	declare(t, src, "C1001", "Status [Deprecated]", "C1908")
	declare(t, src, "C1002", "Is Pregnant?", "C1908")
	declare(t, src, "C1003", "Grade 3*", "C1908")
	declare(t, src, "C1004", "Grade 3a", "C1908")

	tests := []struct {
		label string
		want  string
	}{
		{"[18F]Fludeoxyglucose", "C95766"},
		{"Set {A}", "C1000"},
		{"Status [Deprecated]", "C1001"},
		{"Is Pregnant?", "C1002"},
		{"Grade 3*", "C1003"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			e := newExtractor(t, src)

			res, err := e.AddConcept(tt.label, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Concept.Name)
			assert.Equal(t, []string{tt.label}, res.Concept.Labels)
			assert.Equal(t, []string{"C1908"}, names(res.Ancestors))
		})
	}
}

func TestAddConceptNotFound(t *testing.T) {
	e := newExtractor(t, sampleSource(t))

	_, err := e.AddConcept("Widowed", DefaultOptions())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, e.Destination().Len())
}

func TestAddConceptMissingLabel(t *testing.T) {
	e := newExtractor(t, sampleSource(t))

	_, err := e.AddConcept("Orphan Child", DefaultOptions())
	require.ErrorIs(t, err, ErrMissingLabel)
	assert.Contains(t, err.Error(), "C99000")
	assert.Equal(t, 0, e.Destination().Len(), "nothing from the failed call is kept")

	// Without the ancestor chain the unlabeled parent is never touched.
	res, err := e.AddConcept("Orphan Child", Options{})
	require.NoError(t, err)
	assert.Equal(t, "C99001", res.Concept.Name)
}

// --- redeclaration policy ---

func TestAddConceptRepeatIsNoOp(t *testing.T) {
	e := newExtractor(t, sampleSource(t))

	_, err := e.AddConcept("Marital Status", DefaultOptions())
	require.NoError(t, err)
	before := e.Destination().Classes()

	res, err := e.AddConcept("Marital Status", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Equal(t, []string{"C20189", "C25616", "C25188", "C51773", "C51774"}, res.Reused)
	assert.Equal(t, before, e.Destination().Classes())
}

func TestAddConceptDuplicateDefinition(t *testing.T) {
	e := newExtractor(t, sampleSource(t))

	// Marital Status lands directly under owl:Thing.
	_, err := e.AddConcept("Marital Status", Options{})
	require.NoError(t, err)
	before := e.Destination().Classes()

	// Married would need Marital Status under Personal Attribute.
	_, err = e.AddConcept("Married", DefaultOptions())
	require.ErrorIs(t, err, ErrDuplicateDefinition)
	assert.Equal(t, before, e.Destination().Classes(), "destination unchanged")
}

func TestAddConceptsSharedAncestorsCreatedOnce(t *testing.T) {
	e := newExtractor(t, sampleSource(t))

	results, err := e.AddConcepts([]string{"Marital Status", "Bias"}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, []string{"C20189", "C25616", "C25188", "C51773", "C51774"}, results[0].Created)
	assert.Equal(t, []string{"C25447", "C17047", "C71521"}, results[1].Created)
	assert.Equal(t, []string{"C20189"}, results[1].Reused)

	dest := e.Destination()
	assert.Equal(t, []string{
		"C20189", "C25616", "C25188", "C51773", "C51774",
		"C25447", "C17047", "C71521",
	}, names(dest.Classes()))
	assert.Equal(t, map[string]string{
		"C20189": owl.Thing,
		"C25616": "C20189",
		"C25188": "C25616",
		"C51773": "C25188",
		"C51774": "C25188",
		"C25447": "C20189",
		"C17047": "C25447",
		"C71521": "C17047",
	}, parents(dest))
}

func TestAddConceptsStopsAtFirstFailure(t *testing.T) {
	type tick struct {
		done, total int
		label       string
	}
	var ticks []tick
	e := newExtractor(t, sampleSource(t), WithProgress(func(done, total int, label string) {
		ticks = append(ticks, tick{done, total, label})
	}))

	results, err := e.AddConcepts([]string{"Outcome", "Widowed", "Bias"}, DefaultOptions())
	require.ErrorIs(t, err, ErrNotFound)
	require.Len(t, results, 1)
	assert.Equal(t, "C20200", results[0].Concept.Name)

	// Earlier concepts stay; later ones are never attempted.
	assert.Equal(t, 3, e.Destination().Len())
	_, ok := e.Destination().Class("C17047")
	assert.False(t, ok)

	assert.Equal(t, []tick{{1, 3, "Outcome"}}, ticks)
}

func TestAddConceptLogs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	e := newExtractor(t, sampleSource(t), WithLogger(logger))

	_, err := e.AddConcept("Outcome", DefaultOptions())
	require.NoError(t, err)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.InfoLevel, last.Level)
	assert.Equal(t, "concept added", last.Message)
	assert.Equal(t, "C20200", last.Data["class"])
	assert.Equal(t, 3, last.Data["created"])
}
