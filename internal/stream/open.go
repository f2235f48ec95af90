// Package stream opens the byte source and destination of a conversion:
// files or the standard streams, compressed or not.
package stream

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"

	"clinvartab/internal/errors"
)

// Compression identifies an input encoding.
type Compression int

const (
	None Compression = iota
	Gzip
	Bzip2
	XZ
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Bzip2:
		return "bzip2"
	case XZ:
		return "xz"
	}
	return "none"
}

// PeekBufferSize is the read buffer placed under decompressors.
const PeekBufferSize = 512 << 10

var magics = []struct {
	c     Compression
	magic []byte
	ext   string
}{
	{Gzip, []byte{0x1f, 0x8b, 0x08}, ".gz"},
	{Bzip2, []byte("BZh"), ".bz2"},
	{XZ, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, ".xz"},
}

// Detect picks the compression of a stream from its first bytes, falling
// back to the file name extension when the bytes are inconclusive.
func Detect(head []byte, name string) Compression {
	for _, m := range magics {
		if bytes.HasPrefix(head, m.magic) {
			return m.c
		}
	}
	lower := strings.ToLower(name)
	for _, m := range magics {
		if strings.HasSuffix(lower, m.ext) {
			return m.c
		}
	}
	return None
}

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns the decompressed content of path. An empty path or "-"
// reads stdin, which is never closed.
func Open(path string, stdin io.Reader) (io.ReadCloser, Compression, error) {
	if path == "" || path == "-" {
		if stdin == nil {
			return nil, None, errors.New("no standard input")
		}
		return NewReader(io.NopCloser(stdin), "")
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, None, errors.Wrapf(err, "open input")
	}
	rc, c, err := NewReader(fh, path)
	if err != nil {
		_ = fh.Close()
		return nil, None, err
	}
	return rc, c, nil
}

// NewReader wraps src with the decompressor its leading bytes (or name)
// call for. Closing the result closes src.
func NewReader(src io.ReadCloser, name string) (io.ReadCloser, Compression, error) {
	br := bufio.NewReaderSize(src, PeekBufferSize)
	head, err := br.Peek(6)
	if err != nil && err != io.EOF {
		return nil, None, errors.Wrap(err, "read input")
	}
	c := Detect(head, name)
	switch c {
	case Gzip:
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, errors.Mark(errors.Wrap(err, "open gzip stream"), errors.ErrMalformed)
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, src}}, c, nil
	case Bzip2:
		return &multiReadCloser{Reader: bzip2.NewReader(br), closers: []io.Closer{src}}, c, nil
	case XZ:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, c, errors.Mark(errors.Wrap(err, "open xz stream"), errors.ErrMalformed)
		}
		return &multiReadCloser{Reader: xr, closers: []io.Closer{src}}, c, nil
	}
	return &multiReadCloser{Reader: br, closers: []io.Closer{src}}, None, nil
}
