package sink

import "clinvartab/internal/errors"

type phase int

const (
	awaitingHeader phase = iota
	headerWritten
	closed
)

func (p phase) String() string {
	switch p {
	case awaitingHeader:
		return "awaiting header"
	case headerWritten:
		return "header written"
	case closed:
		return "closed"
	}
	return "unknown"
}

// state enforces the header -> rows -> close order shared by all sinks.
// Violations are programming errors and come back as assertion failures.
type state struct {
	phase phase
	stats Stats
}

func (s *state) header() error {
	if s.phase != awaitingHeader {
		return errors.AssertionFailedf("sink: header written while %s", s.phase)
	}
	s.phase = headerWritten
	return nil
}

func (s *state) row() error {
	if s.phase != headerWritten {
		return errors.AssertionFailedf("sink: record written while %s", s.phase)
	}
	return nil
}

func (s *state) close() error {
	switch s.phase {
	case closed:
		return errors.AssertionFailedf("sink: closed twice")
	case awaitingHeader:
		return errors.AssertionFailedf("sink: closed before the header was written")
	}
	s.phase = closed
	return nil
}

func (s *state) emitted() { s.stats.Written++ }
func (s *state) dropped() { s.stats.Dropped++ }
