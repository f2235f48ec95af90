package sink

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"clinvartab/internal/errors"
	"clinvartab/internal/extract"
)

// VCFColumns is the mandatory column header line of VCF 4.2.
const VCFColumns = "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO"

type contig struct {
	name   string
	length int
}

var contigs = map[extract.GenomeBuild][]contig{
	extract.Build37: {
		{"chr1", 249250621}, {"chr2", 243199373}, {"chr3", 198022430}, {"chr4", 191154276},
		{"chr5", 180915260}, {"chr6", 171115067}, {"chr7", 159138663}, {"chr8", 146364022},
		{"chr9", 141213431}, {"chr10", 135534747}, {"chr11", 135006516}, {"chr12", 133851895},
		{"chr13", 115169878}, {"chr14", 107349540}, {"chr15", 102531392}, {"chr16", 90354753},
		{"chr17", 81195210}, {"chr18", 78077248}, {"chr19", 59128983}, {"chr20", 63025520},
		{"chr21", 48129895}, {"chr22", 51304566}, {"chrX", 155270560}, {"chrY", 59373566},
		{"chrM", 16569},
	},
	extract.Build38: {
		{"chr1", 248956422}, {"chr2", 242193529}, {"chr3", 198295559}, {"chr4", 190214555},
		{"chr5", 181538259}, {"chr6", 170805979}, {"chr7", 159345973}, {"chr8", 145138636},
		{"chr9", 138394717}, {"chr10", 133797422}, {"chr11", 135086622}, {"chr12", 133275309},
		{"chr13", 114364328}, {"chr14", 107043718}, {"chr15", 101991189}, {"chr16", 90338345},
		{"chr17", 83257441}, {"chr18", 80373285}, {"chr19", 58617616}, {"chr20", 64444167},
		{"chr21", 46709983}, {"chr22", 50818468}, {"chrX", 156040895}, {"chrY", 57227415},
		{"chrM", 16569},
	},
}

// DefaultVCFHeader returns the header written when no template is given.
func DefaultVCFHeader(build extract.GenomeBuild) string {
	var b strings.Builder
	b.WriteString("##fileformat=VCFv4.2\n")
	b.WriteString("##source=clinvar-xml-tab\n")
	fmt.Fprintf(&b, "##reference=%s\n", build.Assembly())
	for _, c := range contigs[build] {
		fmt.Fprintf(&b, "##contig=<ID=%s,length=%d,assembly=%s>\n", c.name, c.length, build.Assembly())
	}
	b.WriteString("##INFO=<ID=CLNACC,Number=1,Type=String,Description=\"ClinVar RCV accession\">\n")
	b.WriteString("##INFO=<ID=CLNSIG,Number=1,Type=String,Description=\"Normalized clinical classification\">\n")
	b.WriteString(VCFColumns + "\n")
	return b.String()
}

// templateHeader normalizes a user header: it must end in a newline and
// carry the #CHROM line, which is appended when missing.
func templateHeader(tmpl []byte) (string, error) {
	t := strings.ReplaceAll(string(tmpl), "\r\n", "\n")
	if strings.TrimSpace(t) == "" {
		return "", errors.Mark(errors.New("vcf header template is empty"), errors.ErrUsage)
	}
	if !strings.HasSuffix(t, "\n") {
		t += "\n"
	}
	for _, line := range strings.Split(t, "\n") {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			return "", errors.WithHint(
				errors.Mark(errors.Newf("vcf header template has a non-header line %q", line), errors.ErrUsage),
				"every template line must start with '#'")
		}
		if strings.HasPrefix(line, "#CHROM") {
			return t, nil
		}
	}
	return t + VCFColumns + "\n", nil
}

// VCF writes one variant line per record whose locus fully resolved.
// Records missing any locus field are dropped and counted.
type VCF struct {
	w      io.Writer
	header string
	st     state
	line   bytes.Buffer
}

// NewVCF returns a VCF sink writing to w.
func NewVCF(w io.Writer, opt Options) (*VCF, error) {
	if opt.Build.Assembly() == "" {
		return nil, errors.AssertionFailedf("vcf sink: unsupported genome build %d", int(opt.Build))
	}
	h := DefaultVCFHeader(opt.Build)
	if len(opt.Template) > 0 {
		var err error
		if h, err = templateHeader(opt.Template); err != nil {
			return nil, err
		}
	}
	return &VCF{w: w, header: h}, nil
}

func (s *VCF) WriteHeader() error {
	if err := s.st.header(); err != nil {
		return err
	}
	_, err := io.WriteString(s.w, s.header)
	return err
}

func (s *VCF) Write(rec extract.Record) (bool, error) {
	if err := s.st.row(); err != nil {
		return false, err
	}
	l := rec.Locus
	if !l.Complete() {
		s.st.dropped()
		return false, nil
	}
	b := &s.line
	b.Reset()
	b.WriteString(Contig(l.Chrom.Value))
	b.WriteByte('\t')
	b.WriteString(l.Pos.Value)
	b.WriteString("\t.\t")
	b.WriteString(l.Ref.Value)
	b.WriteByte('\t')
	b.WriteString(l.Alt.Value)
	b.WriteString("\t.\tPASS\tCLNACC=")
	b.WriteString(infoValue(rec.Accession))
	b.WriteString(";CLNSIG=")
	b.WriteString(infoValue(rec.Classification))
	b.WriteByte('\n')
	if _, err := s.w.Write(b.Bytes()); err != nil {
		return false, err
	}
	s.st.emitted()
	return true, nil
}

func (s *VCF) Close() error { return s.st.close() }

func (s *VCF) Stats() Stats { return s.st.stats }

// Contig maps a source chromosome token to its VCF contig name:
// "MT" -> "chrM", "7" -> "chr7"; chr-prefixed tokens are kept.
func Contig(chrom string) string {
	switch strings.ToUpper(chrom) {
	case "MT", "M", "CHRMT":
		return "chrM"
	}
	return ChromPrefixed(chrom)
}

// infoValue renders an INFO value, "." when unset or empty. Characters
// that would break INFO parsing are percent-encoded.
func infoValue(f extract.Field) string {
	if !f.Set || f.Value == "" {
		return "."
	}
	v := f.Value
	if !strings.ContainsAny(v, "%;=, \t\r\n") {
		return v
	}
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		switch c := v[i]; c {
		case '%', ';', '=', ',', ' ', '\t', '\r', '\n':
			fmt.Fprintf(&b, "%%%02X", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
