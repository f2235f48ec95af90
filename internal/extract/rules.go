package extract

import (
	"clinvartab/internal/tree"
)

// RecordElement is the record-boundary element of the ClinVar release.
const RecordElement = "ClinVarSet"

// Matcher decides whether a rule applies to a visit.
type Matcher func(v tree.Visit) bool

// Setter mutates the accumulator from a matching visit.
type Setter func(p *PartialRecord, v tree.Visit, build GenomeBuild)

// Rule pairs a matcher with the mutation it triggers.
type Rule struct {
	Name  string
	Match Matcher
	Apply Setter
}

// Rules is an ordered rule table. Every matching rule fires, in table order.
type Rules []Rule

// AtDepth matches elements named name at the given depth, whatever their
// parent. Use it for fields that occur once at a shallow, unambiguous level.
func AtDepth(depth int, name string) Matcher {
	return func(v tree.Visit) bool {
		return v.Depth == depth && v.Name() == name
	}
}

// AtPath matches the element at exactly this ancestor chain. Use it where
// the same element name occurs at several places in a record.
func AtPath(path ...string) Matcher {
	want := append([]string(nil), path...)
	return func(v tree.Visit) bool {
		if v.Depth != len(want) {
			return false
		}
		for i := len(want) - 1; i >= 0; i-- {
			if v.Path[i] != want[i] {
				return false
			}
		}
		return true
	}
}

// assertion builds paths under the ReferenceClinVarAssertion of a record.
func assertion(names ...string) []string {
	return append([]string{RecordElement, "ReferenceClinVarAssertion"}, names...)
}

// text stores the element's own text into the field selected by f.
func text(f func(*Record) *Field) Setter {
	return func(p *PartialRecord, v tree.Visit, _ GenomeBuild) {
		f(&p.Record).Put(v.Text)
	}
}

// attr stores attribute name into the field selected by f when present.
func attr(name string, f func(*Record) *Field) Setter {
	return func(p *PartialRecord, v tree.Visit, _ GenomeBuild) {
		if val, ok := v.Attrs[name]; ok {
			f(&p.Record).Put(val)
		}
	}
}

func classification(p *PartialRecord, v tree.Visit, _ GenomeBuild) {
	p.Classification.Put(NormalizeClassification(v.Text))
}

// locus replaces the whole locus tuple with a SequenceLocation on the run's
// assembly. Blocks for other assemblies are ignored.
func locus(p *PartialRecord, v tree.Visit, build GenomeBuild) {
	if v.Attrs["Assembly"] != build.Assembly() {
		return
	}
	var l Locus
	for attrName, f := range map[string]*Field{
		"Chr":                &l.Chrom,
		"positionVCF":        &l.Pos,
		"referenceAlleleVCF": &l.Ref,
		"alternateAlleleVCF": &l.Alt,
	} {
		if val, ok := v.Attrs[attrName]; ok {
			f.Put(val)
		}
	}
	p.Locus = l
}

// DefaultRules returns the extraction table for ClinVar full-release XML.
// Both the current Classifications layout and the legacy
// ClinicalSignificance layout are recognised.
func DefaultRules() Rules {
	return Rules{
		{Name: "set-id", Match: AtDepth(1, RecordElement), Apply: attr("ID", func(r *Record) *Field { return &r.SetID })},
		{Name: "status", Match: AtDepth(2, "RecordStatus"), Apply: text(func(r *Record) *Field { return &r.Status })},
		{Name: "replaces", Match: AtDepth(2, "Replaces"), Apply: text(func(r *Record) *Field { return &r.Replaces })},
		{Name: "description", Match: AtDepth(2, "Title"), Apply: text(func(r *Record) *Field { return &r.Description })},
		{Name: "last-updated", Match: AtDepth(2, "ReferenceClinVarAssertion"), Apply: attr("DateLastUpdated", func(r *Record) *Field { return &r.LastUpdated })},

		{Name: "accession", Match: AtPath(assertion("ClinVarAccession")...), Apply: attr("Acc", func(r *Record) *Field { return &r.Accession })},
		{Name: "variation-accession", Match: AtPath(assertion("MeasureSet")...), Apply: attr("Acc", func(r *Record) *Field { return &r.VariationAccession })},

		{Name: "classification", Match: AtPath(assertion("Classifications", "GermlineClassification", "Description")...), Apply: classification},
		{Name: "review-status", Match: AtPath(assertion("Classifications", "GermlineClassification", "ReviewStatus")...), Apply: text(func(r *Record) *Field { return &r.ReviewStatus })},
		{Name: "last-evaluated", Match: AtPath(assertion("Classifications", "GermlineClassification", "Description")...), Apply: attr("DateLastEvaluated", func(r *Record) *Field { return &r.LastEvaluated })},

		{Name: "classification-legacy", Match: AtPath(assertion("ClinicalSignificance", "Description")...), Apply: classification},
		{Name: "review-status-legacy", Match: AtPath(assertion("ClinicalSignificance", "ReviewStatus")...), Apply: text(func(r *Record) *Field { return &r.ReviewStatus })},
		{Name: "last-evaluated-legacy", Match: AtPath(assertion("ClinicalSignificance")...), Apply: attr("DateLastEvaluated", func(r *Record) *Field { return &r.LastEvaluated })},

		{Name: "locus", Match: AtPath(assertion("MeasureSet", "Measure", "SequenceLocation")...), Apply: locus},
	}
}

// Lookup returns the rule called name.
func (rs Rules) Lookup(name string) (Rule, bool) {
	for _, r := range rs {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}
