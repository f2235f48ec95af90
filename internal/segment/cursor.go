package segment

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"io"

	"clinvartab/internal/errors"
)

// recorder is the byte source of the decoder. It keeps every byte read since
// the last release so that a token range can be sliced out verbatim.
// Implementing io.ByteReader stops encoding/xml from adding its own buffer,
// which would read ahead of what the decoder has consumed.
type recorder struct {
	r    *bufio.Reader
	buf  []byte
	base int64 // absolute offset of buf[0]
}

func (r *recorder) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, err
	}
	r.buf = append(r.buf, b)
	return b, nil
}

func (r *recorder) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.buf = append(r.buf, p[:n]...)
	return n, err
}

// release drops recorded bytes before absolute offset pos.
func (r *recorder) release(pos int64) {
	n := pos - r.base
	if n <= 0 {
		return
	}
	if n > int64(len(r.buf)) {
		n = int64(len(r.buf))
	}
	r.buf = append(r.buf[:0], r.buf[n:]...)
	r.base += n
}

func (r *recorder) slice(from, to int64) ([]byte, error) {
	if from < r.base || to < from || to-r.base > int64(len(r.buf)) {
		return nil, errors.AssertionFailedf("segment: range [%d,%d) outside recorded window [%d,%d)",
			from, to, r.base, r.base+int64(len(r.buf)))
	}
	return bytes.Clone(r.buf[from-r.base : to-r.base]), nil
}

// Cursor is a live cursor over the low-level token stream of an XML
// document. Besides the tokens it exposes byte offsets, so callers can cut
// the exact source text of an element out of the stream.
type Cursor struct {
	dec   *xml.Decoder
	rec   *recorder
	start int64 // offset of the first byte of the last token
}

// ReadBufferSize is the size of the read buffer placed in front of the source.
const ReadBufferSize = 512 * 1024

// NewCursor returns a cursor reading from r.
func NewCursor(r io.Reader) *Cursor {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, ReadBufferSize)
	}
	rec := &recorder{r: br}
	dec := xml.NewDecoder(rec)
	dec.Strict = true
	return &Cursor{dec: dec, rec: rec}
}

// Token returns the next token. It returns io.EOF at the clean end of the
// document; syntax errors are marked ErrMalformed, or ErrTruncated when the
// stream ended inside an open element.
func (c *Cursor) Token() (xml.Token, error) {
	c.start = c.dec.InputOffset()
	tok, err := c.dec.Token()
	if err == nil {
		return tok, nil
	}
	if err == io.EOF {
		return nil, io.EOF
	}
	return nil, classify(err, c.dec.InputOffset())
}

// TokenStart is the offset of the first byte of the token last returned.
func (c *Cursor) TokenStart() int64 { return c.start }

// Offset is the offset just past the token last returned.
func (c *Cursor) Offset() int64 { return c.dec.InputOffset() }

// Bytes returns a copy of the source bytes in [from, to). The range must not
// reach before the last Release.
func (c *Cursor) Bytes(from, to int64) ([]byte, error) {
	return c.rec.slice(from, to)
}

// Release allows the cursor to forget source bytes before pos.
func (c *Cursor) Release(pos int64) { c.rec.release(pos) }

func classify(err error, offset int64) error {
	var se *xml.SyntaxError
	switch {
	case errors.As(err, &se) && se.Msg == "unexpected EOF",
		errors.Is(err, io.ErrUnexpectedEOF):
		return errors.Mark(errors.Wrapf(err, "offset %d", offset), errors.ErrTruncated)
	case errors.As(err, &se):
		return errors.Mark(errors.Wrapf(err, "offset %d", offset), errors.ErrMalformed)
	default:
		return errors.Wrapf(err, "read input at offset %d", offset)
	}
}
