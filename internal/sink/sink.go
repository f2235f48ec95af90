// Package sink serializes finalized records into one output encoding.
//
// A sink is chosen once per run by Format through a registry of factories.
// Every sink follows the same lifecycle: WriteHeader exactly once, any
// number of Write calls, then Close.
package sink

import (
	"io"
	"sort"
	"strings"

	"clinvartab/internal/errors"
	"clinvartab/internal/extract"
)

// Format names an output encoding.
type Format string

const (
	FormatTSV Format = "tsv"
	FormatVCF Format = "vcf"
)

// Options are the run-wide settings every sink receives.
type Options struct {
	Build extract.GenomeBuild

	// ChrPrefix writes chr-prefixed chromosome names in tabular output.
	ChrPrefix bool

	// Template replaces the default VCF header when non-empty.
	Template []byte
}

// Stats counts what a sink did with the records it was given.
type Stats struct {
	Written int // rows emitted
	Dropped int // records with no row
}

// Sink consumes records one at a time.
type Sink interface {
	WriteHeader() error
	// Write serializes rec. It reports false when the record was dropped
	// without producing a row.
	Write(rec extract.Record) (bool, error)
	// Close ends the output. It does not close the underlying writer.
	Close() error
	Stats() Stats
}

// Factory builds a sink writing to w.
type Factory func(w io.Writer, opt Options) (Sink, error)

var factories = map[Format]Factory{}

// Register makes a factory available under format. Last registration wins.
func Register(format Format, fn Factory) { factories[format] = fn }

// New builds the sink registered for format.
func New(format Format, w io.Writer, opt Options) (Sink, error) {
	fn, ok := factories[format]
	if !ok {
		return nil, errors.WithHintf(
			errors.Mark(errors.Newf("unknown output format %q (no sink registered)", format), errors.ErrUsage),
			"supported formats: %s", strings.Join(Formats(), ", "))
	}
	return fn(w, opt)
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := factories[f]; !ok {
		return "", errors.WithHintf(
			errors.Mark(errors.Newf("unknown output format %q", s), errors.ErrUsage),
			"supported formats: %s", strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Formats lists registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(factories))
	for f := range factories {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(FormatTSV, func(w io.Writer, opt Options) (Sink, error) { return NewTSV(w, opt), nil })
	Register(FormatVCF, func(w io.Writer, opt Options) (Sink, error) {
		s, err := NewVCF(w, opt)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
