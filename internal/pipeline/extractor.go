package pipeline

import "clinvartab/internal/extract"

// Extractor is the minimal capability the pipeline needs.
// *extract.Dispatcher satisfies it, and so can fakes in tests.
type Extractor interface {
	ExtractBytes(buf []byte) (extract.Record, error)
}

var _ Extractor = (*extract.Dispatcher)(nil)
