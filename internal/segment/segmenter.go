package segment

import (
	"encoding/xml"
	"io"

	"clinvartab/internal/errors"
)

// Record is the source text of one record-boundary element.
type Record struct {
	Data   []byte // start tag through matching end tag, verbatim
	Index  int    // 1-based ordinal in the stream
	Offset int64  // offset of Data[0] in the (decompressed) stream
}

// Collect consumes tokens from cur up to and including the end tag that
// closes start, which must be the token cur returned last. Nested elements
// with the same local name are counted so only the outer end tag terminates.
// It returns the verbatim source bytes of the element.
func Collect(cur *Cursor, start xml.StartElement) ([]byte, error) {
	from := cur.TokenStart()
	name := start.Name.Local
	depth := 0
	for {
		tok, err := cur.Token()
		if err == io.EOF {
			return nil, errors.Wrapf(errors.ErrTruncated, "end of stream inside <%s>", name)
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == name {
				depth++
			}
		case xml.EndElement:
			if t.Name.Local != name {
				continue
			}
			if depth == 0 {
				return cur.Bytes(from, cur.Offset())
			}
			depth--
		}
	}
}

// Segmenter splits a document into record buffers. Only the record being
// collected is held in memory, whatever the size of the document.
type Segmenter struct {
	cur     *Cursor
	element string
	count   int
}

// NewSegmenter returns a Segmenter yielding every element named element
// (local name) found in r.
func NewSegmenter(r io.Reader, element string) *Segmenter {
	return &Segmenter{cur: NewCursor(r), element: element}
}

// Next returns the next record. It returns io.EOF once the document is
// exhausted; any other error is fatal for the stream.
func (s *Segmenter) Next() (Record, error) {
	for {
		s.cur.Release(s.cur.Offset())
		tok, err := s.cur.Token()
		if err != nil {
			if err == io.EOF {
				return Record{}, io.EOF
			}
			return Record{}, errors.Wrapf(err, "after record %d", s.count)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != s.element {
			continue
		}
		offset := s.cur.TokenStart()
		data, err := Collect(s.cur, se)
		if err != nil {
			return Record{}, errors.Wrapf(err, "record %d at offset %d", s.count+1, offset)
		}
		s.count++
		return Record{Data: data, Index: s.count, Offset: offset}, nil
	}
}

// Count reports the number of records returned so far.
func (s *Segmenter) Count() int { return s.count }
