package stream

import (
	"io"
	"syscall"

	"github.com/mattn/go-isatty"

	"clinvartab/internal/errors"
)

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
// Downstream consumers like `head` close early; that is not a failure.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

type fder interface{ Fd() uintptr }

// IsTerminal reports whether v is a file attached to a terminal. Anything
// that is not an *os.File-like value is not a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(fder)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
