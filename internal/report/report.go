// Package report renders the end-of-run summary shown on stderr.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"

	"clinvartab/internal/extract"
	"clinvartab/internal/sink"
)

// Summary describes one finished conversion.
type Summary struct {
	Input   string
	Output  string
	Format  sink.Format
	Build   extract.GenomeBuild
	Records int
	Emitted int
	Dropped int
	Elapsed time.Duration
}

func name(path, std string) string {
	if path == "" || path == "-" {
		return std
	}
	return path
}

// Write prints s to w. Colors are used only when color is set, so piped
// stderr stays plain text.
func Write(w io.Writer, s Summary, color bool) error {
	paint := func(c func(...interface{}) string, v interface{}) string {
		if !color {
			return fmt.Sprint(v)
		}
		return c(v)
	}

	mark := paint(pterm.LightGreen, "✓")
	dropped := paint(pterm.Gray, fmt.Sprintf("%d dropped", s.Dropped))
	if s.Dropped > 0 {
		mark = paint(pterm.Yellow, "!")
		dropped = paint(pterm.Yellow, fmt.Sprintf("%d dropped", s.Dropped))
	}

	_, err := fmt.Fprintf(w, "%s converted %s records (%s emitted, %s) in %s\n",
		mark,
		paint(pterm.White, s.Records),
		paint(pterm.LightGreen, s.Emitted),
		dropped,
		s.Elapsed.Round(time.Millisecond))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "  %s %s\n  %s %s\n  %s %s, %s\n",
		paint(pterm.Gray, "input "), name(s.Input, "stdin"),
		paint(pterm.Gray, "output"), name(s.Output, "stdout"),
		paint(pterm.Gray, "format"), s.Format, s.Build)
	return err
}
