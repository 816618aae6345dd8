package codec

import (
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// An Encoder serializes scalar values into a byte stream of a fixed
// target encoding. It is push-based: one scalar value per WriteRune call,
// a final Close to flush. Encoders never emit a byte-order mark of their
// own; if the output is to carry one, a U+FEFF scalar has to be written
// like any other.
type Encoder struct {
	enc     Encoding
	w       io.Writer
	tw      *transform.Writer // non-nil for UTF-16 targets
	scratch [utf8.UTFMax]byte
}

// NewEncoder creates an encoder targeting enc on w. Supported targets are
// the encodings ResolveOutput can produce: UTF-8 and the UTF-16 variants.
// UTF16 without fixed byte order encodes big-endian.
func NewEncoder(w io.Writer, enc Encoding) (*Encoder, error) {
	e := &Encoder{enc: enc, w: w}
	switch enc {
	case UTF8:
		// scalar values are buffered as UTF-8 already; write through
	case UTF16, UTF16BE:
		e.tw = transform.NewWriter(w, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder())
		e.w = e.tw
	case UTF16LE:
		e.tw = transform.NewWriter(w, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder())
		e.w = e.tw
	default:
		return nil, fmt.Errorf("cannot encode to encoding %s", enc)
	}
	return e, nil
}

// Encoding returns the target encoding.
func (e *Encoder) Encoding() Encoding {
	return e.enc
}

// WriteRune encodes a single scalar value.
func (e *Encoder) WriteRune(r rune) error {
	n := utf8.EncodeRune(e.scratch[:], r)
	_, err := e.w.Write(e.scratch[:n])
	return err
}

// Close flushes any partially transformed output. The underlying writer
// is not closed.
func (e *Encoder) Close() error {
	if e.tw != nil {
		return e.tw.Close()
	}
	return nil
}
