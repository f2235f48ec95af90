package pipeline

import (
	"context"
	"io"
	"time"

	"clinvartab/internal/errors"
	"clinvartab/internal/extract"
	"clinvartab/internal/logger"
	"clinvartab/internal/segment"
	"clinvartab/internal/sink"
	"clinvartab/internal/tree"
)

// DefaultProgressEvery is how many records pass between progress log lines.
const DefaultProgressEvery = 100_000

// Config controls one conversion run.
type Config struct {
	Element       string // record-boundary element; extract.RecordElement when empty
	Limit         int    // stop after this many records; 0 processes all
	ProgressEvery int    // log progress every N records; 0 uses DefaultProgressEvery
}

func (c Config) element() string {
	if c.Element == "" {
		return extract.RecordElement
	}
	return c.Element
}

// Stats summarizes a run.
type Stats struct {
	Records int // record buffers extracted
	Emitted int // rows written by the sink
	Dropped int // records the sink declined
}

// Run converts every record of r: it writes the sink header, then segments,
// extracts and writes records until the input ends or cfg.Limit is reached,
// and closes the sink. The context is checked between records.
//
// The returned Stats are valid even when err is non-nil.
func Run(ctx context.Context, cfg Config, r io.Reader, ex Extractor, out sink.Sink) (Stats, error) {
	log := logger.ComponentLogger("pipeline")
	every := cfg.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}

	var st Stats
	if err := out.WriteHeader(); err != nil {
		return st, errors.Wrap(err, "write header")
	}

	start := time.Now()
	seg := segment.NewSegmenter(r, cfg.element())
	for cfg.Limit <= 0 || st.Records < cfg.Limit {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		raw, err := seg.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return st, err
		}
		rec, err := ex.ExtractBytes(raw.Data)
		if err != nil {
			return st, errors.Wrapf(err, "record %d at offset %d", raw.Index, raw.Offset)
		}
		st.Records++

		ok, err := out.Write(rec)
		if err != nil {
			return st, errors.Wrapf(err, "write record %d", raw.Index)
		}
		if ok {
			st.Emitted++
		} else {
			st.Dropped++
			log.Debugw("record dropped",
				logger.FieldRecord, raw.Index,
				logger.FieldSize, len(raw.Data),
				"accession", rec.Accession.Value)
		}

		if st.Records%every == 0 {
			log.Infow("progress",
				logger.FieldCount, st.Records,
				logger.FieldEmitted, st.Emitted,
				logger.FieldDropped, st.Dropped,
				logger.FieldOffset, raw.Offset)
		}
	}

	if err := out.Close(); err != nil {
		return st, err
	}
	log.Debugw("stream finished",
		logger.FieldCount, st.Records,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return st, nil
}

// Dump writes every visit of the first limit records of r (all records when
// limit is 0) in the tree.Dump line format, and returns how many records it
// dumped. Records are separated by an empty line.
func Dump(ctx context.Context, r io.Reader, element string, limit int, w io.Writer) (int, error) {
	if element == "" {
		element = extract.RecordElement
	}
	seg := segment.NewSegmenter(r, element)
	n := 0
	for limit <= 0 || n < limit {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		raw, err := seg.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
		root, err := tree.Parse(raw.Data)
		if err != nil {
			return n, errors.Wrapf(err, "record %d at offset %d", raw.Index, raw.Offset)
		}
		if n > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return n, err
			}
		}
		if err := tree.Walk(root, func(v tree.Visit) error { return tree.Dump(w, v) }); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
