package sink

import (
	"io"
	"strings"

	"clinvartab/internal/extract"
)

// TSVHeader is the header row of tabular output. replaces is last so that a
// row omitting it never shifts another column.
const TSVHeader = "status\taccession\tclassification\tchrom\tpos\tref\talt\tdescription\tlast_updated\tset_id\tvariation_accession\treview_status\tlast_evaluated\treplaces"

// TSV writes one row per record, whether or not its locus resolved.
type TSV struct {
	w     io.Writer
	opt   Options
	st    state
	cells []string
}

// NewTSV returns a tabular sink writing to w.
func NewTSV(w io.Writer, opt Options) *TSV {
	return &TSV{w: w, opt: opt, cells: make([]string, 0, 14)}
}

func (s *TSV) WriteHeader() error {
	if err := s.st.header(); err != nil {
		return err
	}
	_, err := io.WriteString(s.w, TSVHeader+"\n")
	return err
}

func (s *TSV) Write(rec extract.Record) (bool, error) {
	if err := s.st.row(); err != nil {
		return false, err
	}
	chrom := rec.Locus.Chrom.Value
	if s.opt.ChrPrefix && rec.Locus.Chrom.Set {
		chrom = ChromPrefixed(chrom)
	}
	c := append(s.cells[:0],
		rec.Status.Value,
		rec.Accession.Value,
		rec.Classification.Value,
		chrom,
		rec.Locus.Pos.Value,
		rec.Locus.Ref.Value,
		rec.Locus.Alt.Value,
		rec.Description.Value,
		rec.LastUpdated.Value,
		rec.SetID.Value,
		rec.VariationAccession.Value,
		rec.ReviewStatus.Value,
		rec.LastEvaluated.Value,
	)
	if rec.Replaces.Set {
		c = append(c, rec.Replaces.Value)
	}
	for i := range c {
		c[i] = cell(c[i])
	}
	s.cells = c
	if _, err := io.WriteString(s.w, strings.Join(c, "\t")+"\n"); err != nil {
		return false, err
	}
	s.st.emitted()
	return true, nil
}

func (s *TSV) Close() error { return s.st.close() }

func (s *TSV) Stats() Stats { return s.st.stats }

var cellReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func cell(v string) string {
	if strings.ContainsAny(v, "\t\r\n") {
		return cellReplacer.Replace(v)
	}
	return v
}

// ChromPrefixed returns the chr-prefixed form of a chromosome token
// ("7" -> "chr7", "MT" -> "chrMT"). Prefixed tokens are returned unchanged.
func ChromPrefixed(chrom string) string {
	if chrom == "" || strings.HasPrefix(strings.ToLower(chrom), "chr") {
		return chrom
	}
	return "chr" + chrom
}
