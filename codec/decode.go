package codec

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// EventKind discriminates the variants of a decode event.
type EventKind int8

// The decode event variants. There is no await variant at this level:
// decoding is strictly pull-based and every call to ReadEvent yields a
// scalar value, a malformed byte sequence or the end of the stream.
const (
	ScalarEvent EventKind = iota
	MalformedEvent
	EndEvent
)

// Position is a location in the input stream: a 1-based line and column
// (both counted in scalar values) and the absolute scalar-value count.
// It is attached to decode events for diagnostics and not otherwise
// persisted.
type Position struct {
	Line  int
	Col   int
	Count int64
}

func (pos Position) String() string {
	return fmt.Sprintf("%d.%d:(%d)", pos.Line, pos.Col, pos.Count)
}

// Event is one step of decoding. Rune is meaningful for ScalarEvent,
// Bytes holds the raw undecodable bytes for MalformedEvent, and Pos is
// the position where the event started.
type Event struct {
	Kind  EventKind
	Rune  rune
	Bytes []byte
	Pos   Position
}

// A Decoder pulls scalar values out of a byte stream. It resolves the
// encoding once, up front — consuming a leading byte-order mark where the
// encoding calls for it — and afterwards decodes one scalar value per
// call to ReadEvent. Undecodable byte sequences are reported as malformed
// events, never as errors: decoding always continues behind them.
type Decoder struct {
	in      *bufio.Reader
	enc     Encoding // resolved, concrete encoding
	bomSeen bool
	pos     Position // position of the next scalar value
	err     error    // sticky read error, io.EOF excluded
}

// NewDecoder wraps a byte stream. declared is the encoding the input
// claims to be in, or Auto for detection from the leading bytes.
// Detection and BOM handling read ahead on r immediately; the returned
// error is non-nil only for I/O failures on that read-ahead.
func NewDecoder(r io.Reader, declared Encoding) (*Decoder, error) {
	d := &Decoder{
		in:  bufio.NewReader(r),
		pos: Position{Line: 1, Col: 1},
	}
	if err := d.resolve(declared); err != nil {
		return nil, err
	}
	tracer().Infof("codec: input encoding resolved to %s (BOM=%v)", d.enc, d.bomSeen)
	return d, nil
}

// Encoding returns the resolved input encoding. It is never Auto and
// never UTF16: BOM-determined byte order has been fixed to UTF16BE or
// UTF16LE by the time NewDecoder returns.
func (d *Decoder) Encoding() Encoding {
	return d.enc
}

// BOMSeen reports whether a leading byte-order mark was consumed while
// resolving the encoding. The BOM does not appear in the decoded scalar
// stream; callers wanting to account for it must re-inject U+FEFF
// themselves.
func (d *Decoder) BOMSeen() bool {
	return d.bomSeen
}

// resolve fixes the concrete encoding, consuming a BOM where appropriate.
func (d *Decoder) resolve(declared Encoding) error {
	lead, err := d.in.Peek(3)
	if err != nil && err != io.EOF {
		return err
	}
	hasPrefix := func(p ...byte) bool {
		if len(lead) < len(p) {
			return false
		}
		for i, b := range p {
			if lead[i] != b {
				return false
			}
		}
		return true
	}
	switch declared {
	case UTF8:
		d.enc = UTF8
		if hasPrefix(0xEF, 0xBB, 0xBF) {
			d.in.Discard(3)
			d.bomSeen = true
		}
	case UTF16:
		switch {
		case hasPrefix(0xFE, 0xFF):
			d.enc = UTF16BE
			d.in.Discard(2)
			d.bomSeen = true
		case hasPrefix(0xFF, 0xFE):
			d.enc = UTF16LE
			d.in.Discard(2)
			d.bomSeen = true
		default:
			d.enc = UTF16BE // RFC 2781: no BOM means big-endian
		}
	case UTF16BE, UTF16LE, ASCII, Latin1:
		// fixed byte order or single-byte encoding; a leading U+FEFF, if
		// any, flows through as an ordinary scalar value
		d.enc = declared
	case Auto:
		switch {
		case hasPrefix(0xEF, 0xBB, 0xBF):
			d.enc = UTF8
			d.in.Discard(3)
			d.bomSeen = true
		case hasPrefix(0xFE, 0xFF):
			d.enc = UTF16BE
			d.in.Discard(2)
			d.bomSeen = true
		case hasPrefix(0xFF, 0xFE):
			d.enc = UTF16LE
			d.in.Discard(2)
			d.bomSeen = true
		case len(lead) >= 2 && lead[0] == 0x00 && lead[1] != 0x00:
			d.enc = UTF16BE // BOM-less UTF-16 with a leading ASCII scalar
		case len(lead) >= 2 && lead[0] != 0x00 && lead[1] == 0x00:
			d.enc = UTF16LE
		default:
			d.enc = UTF8
		}
	default:
		return fmt.Errorf("cannot decode from encoding %s", declared)
	}
	return nil
}

// ReadEvent decodes the next scalar value. It returns exactly one event
// per call, in byte-stream order. A non-nil error is an I/O failure of
// the underlying reader — malformed input is not an error but an event.
// After an EndEvent (or an error) all further calls repeat it.
func (d *Decoder) ReadEvent() (Event, error) {
	if d.err != nil {
		return Event{Kind: EndEvent, Pos: d.pos}, d.err
	}
	var ev Event
	switch d.enc {
	case UTF8:
		ev = d.readUTF8()
	case UTF16BE, UTF16LE:
		ev = d.readUTF16(d.enc == UTF16BE)
	case ASCII:
		ev = d.readBytewise(func(b byte) (rune, bool) {
			return rune(b), b < utf8.RuneSelf
		})
	case Latin1:
		ev = d.readBytewise(func(b byte) (rune, bool) {
			return charmap.ISO8859_1.DecodeByte(b), true
		})
	}
	if d.err != nil {
		return Event{Kind: EndEvent, Pos: d.pos}, d.err
	}
	ev.Pos = d.pos
	if ev.Kind == ScalarEvent {
		d.advance(ev.Rune)
	} else if ev.Kind == MalformedEvent {
		d.advance(0) // a replacement scalar will take this slot
	}
	return ev, nil
}

// advance moves the position past one decoded scalar value.
func (d *Decoder) advance(r rune) {
	d.pos.Count++
	if r == '\n' {
		d.pos.Line++
		d.pos.Col = 1
	} else {
		d.pos.Col++
	}
}

func (d *Decoder) readByte() (byte, bool) {
	b, err := d.in.ReadByte()
	if err == io.EOF {
		return 0, false
	} else if err != nil {
		d.err = err
		return 0, false
	}
	return b, true
}

func (d *Decoder) readBytewise(decode func(byte) (rune, bool)) Event {
	b, ok := d.readByte()
	if !ok {
		return Event{Kind: EndEvent}
	}
	if r, ok := decode(b); ok {
		return Event{Kind: ScalarEvent, Rune: r}
	}
	return Event{Kind: MalformedEvent, Bytes: []byte{b}}
}

// readUTF8 decodes one UTF-8 sequence. On malformed input it consumes and
// reports the maximal invalid prefix: the leading byte plus any valid
// continuation bytes that followed it.
func (d *Decoder) readUTF8() Event {
	b0, ok := d.readByte()
	if !ok {
		return Event{Kind: EndEvent}
	}
	if b0 < utf8.RuneSelf {
		return Event{Kind: ScalarEvent, Rune: rune(b0)}
	}
	var need int
	switch {
	case b0 >= 0xC2 && b0 <= 0xDF:
		need = 1
	case b0 >= 0xE0 && b0 <= 0xEF:
		need = 2
	case b0 >= 0xF0 && b0 <= 0xF4:
		need = 3
	default: // stray continuation byte or invalid leading byte
		return Event{Kind: MalformedEvent, Bytes: []byte{b0}}
	}
	seq := []byte{b0}
	for i := 0; i < need; i++ {
		nxt, err := d.in.Peek(1)
		if err != nil && err != io.EOF {
			d.err = err
			return Event{}
		}
		if len(nxt) == 0 || nxt[0] < 0x80 || nxt[0] > 0xBF {
			break // sequence truncated; leave the next byte in the stream
		}
		d.in.Discard(1)
		seq = append(seq, nxt[0])
	}
	if len(seq) == need+1 {
		if r, size := utf8.DecodeRune(seq); size == len(seq) && r != utf8.RuneError {
			return Event{Kind: ScalarEvent, Rune: r}
		}
		// well-shaped but illegal: overlong form or encoded surrogate
	}
	return Event{Kind: MalformedEvent, Bytes: seq}
}

// readUTF16 decodes one UTF-16 code unit, or a surrogate pair.
func (d *Decoder) readUTF16(bigEndian bool) Event {
	unit := func(b0, b1 byte) uint16 {
		if bigEndian {
			return uint16(b0)<<8 | uint16(b1)
		}
		return uint16(b1)<<8 | uint16(b0)
	}
	b0, ok := d.readByte()
	if !ok {
		return Event{Kind: EndEvent}
	}
	b1, ok := d.readByte()
	if !ok {
		if d.err != nil {
			return Event{}
		}
		return Event{Kind: MalformedEvent, Bytes: []byte{b0}} // odd trailing byte
	}
	u := unit(b0, b1)
	switch {
	case u < 0xD800 || u > 0xDFFF:
		return Event{Kind: ScalarEvent, Rune: rune(u)}
	case u >= 0xDC00:
		return Event{Kind: MalformedEvent, Bytes: []byte{b0, b1}} // unpaired low surrogate
	}
	// high surrogate; a low surrogate must follow
	nxt, err := d.in.Peek(2)
	if err != nil && err != io.EOF {
		d.err = err
		return Event{}
	}
	if len(nxt) < 2 {
		return Event{Kind: MalformedEvent, Bytes: []byte{b0, b1}}
	}
	u2 := unit(nxt[0], nxt[1])
	if u2 < 0xDC00 || u2 > 0xDFFF {
		// leave the second unit in the stream; it may be valid on its own
		return Event{Kind: MalformedEvent, Bytes: []byte{b0, b1}}
	}
	d.in.Discard(2)
	return Event{Kind: ScalarEvent, Rune: utf16.DecodeRune(rune(u), rune(u2))}
}
