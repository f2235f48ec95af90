package stream

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"clinvartab/internal/errors"
)

// WriteBufferSize is the output buffer size.
const WriteBufferSize = 128 << 10

type output struct {
	*bufio.Writer
	gz   *gzip.Writer
	file *os.File
}

// Close flushes the buffer, ends the gzip stream if any, and closes the file
// if Create opened one. Stdout is left open.
func (o *output) Close() error {
	err := o.Flush()
	if o.gz != nil {
		if cerr := o.gz.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if o.file != nil {
		if cerr := o.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Create opens the destination of a run. An empty path or "-" writes to
// stdout. Paths ending in .gz are gzip-compressed.
func Create(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		if stdout == nil {
			return nil, errors.New("no standard output")
		}
		return &output{Writer: bufio.NewWriterSize(stdout, WriteBufferSize)}, nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "create output")
	}
	o := &output{file: fh}
	var w io.Writer = fh
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		o.gz = gzip.NewWriter(fh)
		w = o.gz
	}
	o.Writer = bufio.NewWriterSize(w, WriteBufferSize)
	return o, nil
}
