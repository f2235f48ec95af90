package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinvartab/internal/tree"
)

func visit(text string, attrs map[string]string, path ...string) tree.Visit {
	return tree.Visit{Path: path, Depth: len(path), Attrs: attrs, Text: text}
}

func applyRule(t *testing.T, name string, v tree.Visit, build GenomeBuild) (Record, bool) {
	t.Helper()
	r, ok := DefaultRules().Lookup(name)
	require.True(t, ok, "rule %q", name)
	var p PartialRecord
	if !r.Match(v) {
		return p.Finalize(), false
	}
	r.Apply(&p, v, build)
	return p.Finalize(), true
}

func TestRulesInIsolation(t *testing.T) {
	rcva := []string{"ClinVarSet", "ReferenceClinVarAssertion"}
	under := func(names ...string) []string { return append(append([]string(nil), rcva...), names...) }

	tests := []struct {
		rule  string
		visit tree.Visit
		get   func(Record) Field
		want  Field
		match bool
	}{
		{"set-id", visit("", map[string]string{"ID": "77"}, "ClinVarSet"),
			func(r Record) Field { return r.SetID }, Field{"77", true}, true},
		{"status", visit("current", nil, "ClinVarSet", "RecordStatus"),
			func(r Record) Field { return r.Status }, Field{"current", true}, true},
		{"status", visit("current", nil, under("RecordStatus")...),
			func(r Record) Field { return r.Status }, Field{}, false},
		{"replaces", visit("RCV000000002", nil, "ClinVarSet", "Replaces"),
			func(r Record) Field { return r.Replaces }, Field{"RCV000000002", true}, true},
		{"description", visit("a title", nil, "ClinVarSet", "Title"),
			func(r Record) Field { return r.Description }, Field{"a title", true}, true},
		{"last-updated", visit("", map[string]string{"DateLastUpdated": "2024-01-01"}, rcva...),
			func(r Record) Field { return r.LastUpdated }, Field{"2024-01-01", true}, true},
		{"last-updated", visit("", nil, rcva...),
			func(r Record) Field { return r.LastUpdated }, Field{}, true},
		{"accession", visit("", map[string]string{"Acc": "RCV1"}, under("ClinVarAccession")...),
			func(r Record) Field { return r.Accession }, Field{"RCV1", true}, true},
		{"accession", visit("", map[string]string{"Acc": "SCV1"}, "ClinVarSet", "ClinVarAssertion", "ClinVarAccession"),
			func(r Record) Field { return r.Accession }, Field{}, false},
		{"variation-accession", visit("", map[string]string{"Acc": "VCV1"}, under("MeasureSet")...),
			func(r Record) Field { return r.VariationAccession }, Field{"VCV1", true}, true},
		{"classification", visit("Pathogenic/Likely pathogenic", nil, under("Classifications", "GermlineClassification", "Description")...),
			func(r Record) Field { return r.Classification }, Field{"pathogenic/likely_pathogenic", true}, true},
		{"classification-legacy", visit("Benign", nil, under("ClinicalSignificance", "Description")...),
			func(r Record) Field { return r.Classification }, Field{"benign", true}, true},
		{"review-status", visit("reviewed by expert panel", nil, under("Classifications", "GermlineClassification", "ReviewStatus")...),
			func(r Record) Field { return r.ReviewStatus }, Field{"reviewed by expert panel", true}, true},
		{"last-evaluated", visit("Pathogenic", map[string]string{"DateLastEvaluated": "2020-05-05"}, under("Classifications", "GermlineClassification", "Description")...),
			func(r Record) Field { return r.LastEvaluated }, Field{"2020-05-05", true}, true},
		{"last-evaluated", visit("", map[string]string{"DateLastEvaluated": "2020-05-05"}, under("Classifications", "GermlineClassification")...),
			func(r Record) Field { return r.LastEvaluated }, Field{}, false},
		{"last-evaluated-legacy", visit("", map[string]string{"DateLastEvaluated": "2014-01-01"}, under("ClinicalSignificance")...),
			func(r Record) Field { return r.LastEvaluated }, Field{"2014-01-01", true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.rule+"/"+tt.visit.Name(), func(t *testing.T) {
			rec, matched := applyRule(t, tt.rule, tt.visit, Build38)
			assert.Equal(t, tt.match, matched)
			assert.Equal(t, tt.want, tt.get(rec))
		})
	}
}

func TestLocusRuleFiltersAssembly(t *testing.T) {
	path := []string{"ClinVarSet", "ReferenceClinVarAssertion", "MeasureSet", "Measure", "SequenceLocation"}
	attrs := map[string]string{
		"Assembly": "GRCh37", "Chr": "MT", "positionVCF": "8993",
		"referenceAlleleVCF": "T", "alternateAlleleVCF": "G",
	}

	rec, matched := applyRule(t, "locus", visit("", attrs, path...), Build38)
	assert.True(t, matched, "the block is visited")
	assert.Equal(t, Locus{}, rec.Locus, "but ignored for another assembly")

	rec, _ = applyRule(t, "locus", visit("", attrs, path...), Build37)
	assert.True(t, rec.Locus.Complete())
	assert.Equal(t, "MT", rec.Locus.Chrom.Value)
}

func TestAtPathRequiresExactDepth(t *testing.T) {
	m := AtPath("a", "b")
	assert.True(t, m(visit("", nil, "a", "b")))
	assert.False(t, m(visit("", nil, "a", "b", "c")))
	assert.False(t, m(visit("", nil, "x", "b")))
	assert.False(t, m(visit("", nil, "b")))
}

func TestAtDepthIgnoresParents(t *testing.T) {
	m := AtDepth(2, "Title")
	assert.True(t, m(visit("", nil, "ClinVarSet", "Title")))
	assert.True(t, m(visit("", nil, "Other", "Title")))
	assert.False(t, m(visit("", nil, "ClinVarSet", "X", "Title")))
}

func TestRuleNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range DefaultRules() {
		assert.False(t, seen[r.Name], "duplicate rule %q", r.Name)
		seen[r.Name] = true
		assert.NotNil(t, r.Match)
		assert.NotNil(t, r.Apply)
	}
}

func TestParseGenomeBuild(t *testing.T) {
	for in, want := range map[string]GenomeBuild{
		"37": Build37, "hg19": Build37, "GRCh37": Build37,
		"38": Build38, "HG38": Build38, " grch38 ": Build38,
	} {
		got, err := ParseGenomeBuild(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseGenomeBuild("hg18")
	assert.Error(t, err)
	assert.Equal(t, "GRCh38", Build38.String())
	assert.Equal(t, "unknown", GenomeBuild(0).String())
}

func TestLocusComplete(t *testing.T) {
	full := Locus{Chrom: Field{"1", true}, Pos: Field{"2", true}, Ref: Field{"A", true}, Alt: Field{"C", true}}
	assert.True(t, full.Complete())

	noAlt := full
	noAlt.Alt = Field{}
	assert.False(t, noAlt.Complete())

	emptyRef := full
	emptyRef.Ref = Field{"", true}
	assert.False(t, emptyRef.Complete())
}
