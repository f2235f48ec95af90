package extract

import (
	"strings"

	"clinvartab/internal/errors"
)

// GenomeBuild selects which assembly's locus survives into a record.
type GenomeBuild int

const (
	Build37 GenomeBuild = 37
	Build38 GenomeBuild = 38
)

// Assembly is the value of the SequenceLocation Assembly attribute for b.
func (b GenomeBuild) Assembly() string {
	switch b {
	case Build37:
		return "GRCh37"
	case Build38:
		return "GRCh38"
	default:
		return ""
	}
}

func (b GenomeBuild) String() string {
	if a := b.Assembly(); a != "" {
		return a
	}
	return "unknown"
}

// ParseGenomeBuild accepts 37/38, hg19/hg38 and GRCh37/GRCh38 in any case.
func ParseGenomeBuild(s string) (GenomeBuild, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "37", "hg19", "grch37", "b37":
		return Build37, nil
	case "38", "hg38", "grch38", "b38":
		return Build38, nil
	}
	return 0, errors.Newf("unknown genome build %q (want hg19 or hg38)", s)
}

// Field is an optional string value. The zero value is unset.
type Field struct {
	Value string
	Set   bool
}

// Put sets the field, overwriting any earlier value.
func (f *Field) Put(v string) {
	f.Value = v
	f.Set = true
}

// String returns the value, or "" when unset.
func (f Field) String() string { return f.Value }

// Locus is the VCF-style position of a variant on one assembly.
type Locus struct {
	Chrom Field
	Pos   Field
	Ref   Field
	Alt   Field
}

// Complete reports whether all four locus fields carry a non-empty value.
func (l Locus) Complete() bool {
	for _, f := range []Field{l.Chrom, l.Pos, l.Ref, l.Alt} {
		if !f.Set || f.Value == "" {
			return false
		}
	}
	return true
}

// Record is the finalized, immutable snapshot of one ClinVarSet. Sinks
// receive it by value.
type Record struct {
	SetID     Field // ClinVarSet@ID
	Status    Field // RecordStatus
	Replaces  Field // accession this record supersedes
	Accession Field // RCV accession

	// VariationAccession is the VCV accession of the measure set.
	VariationAccession Field

	// Classification is normalized: lower case, spaces as underscores.
	Classification Field
	ReviewStatus   Field
	LastEvaluated  Field

	Description Field // Title
	LastUpdated Field // ReferenceClinVarAssertion@DateLastUpdated

	// Locus on the run's genome build.
	Locus Locus
}

// PartialRecord accumulates fields while a record is walked. Every field
// starts unset; when a rule fires more than once, the last value wins.
type PartialRecord struct {
	Record
}

// Finalize returns an immutable snapshot of the accumulated fields.
func (p *PartialRecord) Finalize() Record { return p.Record }

// Reset clears every field.
func (p *PartialRecord) Reset() { p.Record = Record{} }

// NormalizeClassification lowercases s and replaces spaces with
// underscores: "Likely pathogenic" -> "likely_pathogenic".
func NormalizeClassification(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}
