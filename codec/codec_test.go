package codec

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

// collect drains a decoder into slices of scalars and malformed chunks.
func collect(t *testing.T, d *Decoder) (scalars []rune, malformed [][]byte) {
	t.Helper()
	for {
		ev, err := d.ReadEvent()
		require.NoError(t, err)
		switch ev.Kind {
		case ScalarEvent:
			scalars = append(scalars, ev.Rune)
		case MalformedEvent:
			malformed = append(malformed, ev.Bytes)
		case EndEvent:
			return
		}
	}
}

func TestParseEncodingNames(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	for name, want := range map[string]Encoding{
		"":         Auto,
		"utf-8":    UTF8,
		"UTF8":     UTF8,
		"utf-16":   UTF16,
		"UTF-16LE": UTF16LE,
		"utf_16be": UTF16BE,
		"us-ascii": ASCII,
		"latin1":   Latin1,
	} {
		enc, err := Parse(name)
		require.NoError(t, err, "name %q", name)
		require.Equal(t, want, enc, "name %q", name)
	}
	_, err := Parse("klingon")
	require.Error(t, err)
}

func TestResolveOutput(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	require.Equal(t, UTF8, ResolveOutput(ASCII))
	require.Equal(t, UTF8, ResolveOutput(Latin1))
	require.Equal(t, UTF8, ResolveOutput(UTF8))
	require.Equal(t, UTF16LE, ResolveOutput(UTF16LE))
	require.Equal(t, UTF16BE, ResolveOutput(UTF16BE))
}

func TestDecodeUTF8(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	d, err := NewDecoder(strings.NewReader("Héllo"), UTF8)
	require.NoError(t, err)
	require.False(t, d.BOMSeen())
	scalars, malformed := collect(t, d)
	require.Equal(t, []rune("Héllo"), scalars)
	require.Empty(t, malformed)
}

func TestDecodeUTF8BOM(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Hi")...)
	d, err := NewDecoder(bytes.NewReader(in), Auto)
	require.NoError(t, err)
	require.True(t, d.BOMSeen())
	require.Equal(t, UTF8, d.Encoding())
	scalars, _ := collect(t, d)
	require.Equal(t, []rune("Hi"), scalars)
}

func TestDecodeUTF8Malformed(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	d, err := NewDecoder(bytes.NewReader([]byte{'H', 0xFF, 'i'}), UTF8)
	require.NoError(t, err)
	scalars, malformed := collect(t, d)
	require.Equal(t, []rune{'H', 'i'}, scalars)
	require.Equal(t, [][]byte{{0xFF}}, malformed)
}

func TestDecodeUTF8Truncated(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	// E2 82 is a truncated EURO SIGN; the single diagnostic covers the
	// maximal invalid prefix
	d, err := NewDecoder(bytes.NewReader([]byte{0xE2, 0x82}), UTF8)
	require.NoError(t, err)
	scalars, malformed := collect(t, d)
	require.Empty(t, scalars)
	require.Equal(t, [][]byte{{0xE2, 0x82}}, malformed)
}

func TestDecodeUTF8EncodedSurrogate(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	d, err := NewDecoder(bytes.NewReader([]byte{0xED, 0xA0, 0x80}), UTF8)
	require.NoError(t, err)
	scalars, malformed := collect(t, d)
	require.Empty(t, scalars)
	require.Equal(t, [][]byte{{0xED, 0xA0, 0x80}}, malformed)
}

func TestDecodeUTF16DetectedByBOM(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	d, err := NewDecoder(bytes.NewReader([]byte{0xFE, 0xFF, 0x00, 'a', 0x00, 'b'}), Auto)
	require.NoError(t, err)
	require.True(t, d.BOMSeen())
	require.Equal(t, UTF16BE, d.Encoding())
	scalars, _ := collect(t, d)
	require.Equal(t, []rune("ab"), scalars)
}

func TestDecodeUTF16SurrogatePair(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	// U+1F600 in big-endian UTF-16
	d, err := NewDecoder(bytes.NewReader([]byte{0xD8, 0x3D, 0xDE, 0x00}), UTF16BE)
	require.NoError(t, err)
	scalars, malformed := collect(t, d)
	require.Equal(t, []rune{0x1F600}, scalars)
	require.Empty(t, malformed)
}

func TestDecodeUTF16UnpairedSurrogate(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	// high surrogate followed by a BMP scalar: the surrogate is malformed,
	// the scalar survives
	d, err := NewDecoder(bytes.NewReader([]byte{0xD8, 0x3D, 0x00, 'a'}), UTF16BE)
	require.NoError(t, err)
	scalars, malformed := collect(t, d)
	require.Equal(t, []rune{'a'}, scalars)
	require.Equal(t, [][]byte{{0xD8, 0x3D}}, malformed)
}

func TestDecodeUTF16OddLength(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	d, err := NewDecoder(bytes.NewReader([]byte{0x00, 'a', 0x00}), UTF16BE)
	require.NoError(t, err)
	scalars, malformed := collect(t, d)
	require.Equal(t, []rune{'a'}, scalars)
	require.Equal(t, [][]byte{{0x00}}, malformed)
}

func TestDecodeUTF16DefaultsToBigEndian(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	d, err := NewDecoder(bytes.NewReader([]byte{0x00, 'x'}), UTF16)
	require.NoError(t, err)
	require.False(t, d.BOMSeen())
	require.Equal(t, UTF16BE, d.Encoding())
}

func TestDecodeFixedEndiannessKeepsBOMScalar(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	// declared UTF-16LE: FF FE is U+FEFF as data, not a consumed BOM
	d, err := NewDecoder(bytes.NewReader([]byte{0xFF, 0xFE, 'a', 0x00}), UTF16LE)
	require.NoError(t, err)
	require.False(t, d.BOMSeen())
	scalars, _ := collect(t, d)
	require.Equal(t, []rune{'\uFEFF', 'a'}, scalars)
}

func TestDecodeASCII(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	d, err := NewDecoder(bytes.NewReader([]byte{'o', 'k', 0x80}), ASCII)
	require.NoError(t, err)
	scalars, malformed := collect(t, d)
	require.Equal(t, []rune("ok"), scalars)
	require.Equal(t, [][]byte{{0x80}}, malformed)
}

func TestDecodeLatin1(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	d, err := NewDecoder(bytes.NewReader([]byte{0xE9, 0xFC}), Latin1)
	require.NoError(t, err)
	scalars, malformed := collect(t, d)
	require.Equal(t, []rune("éü"), scalars)
	require.Empty(t, malformed)
}

func TestDecodeAutoNullByteHeuristic(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	d, err := NewDecoder(bytes.NewReader([]byte{0x00, 'H', 0x00, 'i'}), Auto)
	require.NoError(t, err)
	require.Equal(t, UTF16BE, d.Encoding())
	d, err = NewDecoder(bytes.NewReader([]byte{'H', 0x00, 'i', 0x00}), Auto)
	require.NoError(t, err)
	require.Equal(t, UTF16LE, d.Encoding())
}

func TestDecodePositions(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	d, err := NewDecoder(bytes.NewReader([]byte{'a', '\n', 'b', 0x80}), ASCII)
	require.NoError(t, err)
	var events []Event
	for {
		ev, err := d.ReadEvent()
		require.NoError(t, err)
		if ev.Kind == EndEvent {
			break
		}
		events = append(events, ev)
	}
	require.Len(t, events, 4)
	require.Equal(t, Position{Line: 1, Col: 1, Count: 0}, events[0].Pos)
	require.Equal(t, Position{Line: 1, Col: 2, Count: 1}, events[1].Pos)
	require.Equal(t, Position{Line: 2, Col: 1, Count: 2}, events[2].Pos)
	require.Equal(t, MalformedEvent, events[3].Kind)
	require.Equal(t, Position{Line: 2, Col: 2, Count: 3}, events[3].Pos)
}

func TestDecodeEmptyInput(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	d, err := NewDecoder(strings.NewReader(""), Auto)
	require.NoError(t, err)
	ev, err := d.ReadEvent()
	require.NoError(t, err)
	require.Equal(t, EndEvent, ev.Kind)
}

func TestEncodeUTF8(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	var buf bytes.Buffer
	e, err := NewEncoder(&buf, UTF8)
	require.NoError(t, err)
	for _, r := range "é←" {
		require.NoError(t, e.WriteRune(r))
	}
	require.NoError(t, e.Close())
	require.Equal(t, "é←", buf.String())
}

func TestEncodeUTF16LE(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	var buf bytes.Buffer
	e, err := NewEncoder(&buf, UTF16LE)
	require.NoError(t, err)
	require.NoError(t, e.WriteRune('a'))
	require.NoError(t, e.WriteRune(0x1F600))
	require.NoError(t, e.Close())
	require.Equal(t, []byte{'a', 0x00, 0x3D, 0xD8, 0x00, 0xDE}, buf.Bytes())
}

func TestEncodeRoundTrip(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	const text = "Grüße, 世界"
	var buf bytes.Buffer
	e, err := NewEncoder(&buf, UTF16BE)
	require.NoError(t, err)
	for _, r := range text {
		require.NoError(t, e.WriteRune(r))
	}
	require.NoError(t, e.Close())
	d, err := NewDecoder(&buf, UTF16BE)
	require.NoError(t, err)
	scalars, malformed := collect(t, d)
	require.Empty(t, malformed)
	require.Equal(t, []rune(text), scalars)
}

func TestDecoderPropagatesReadErrors(t *testing.T) {
	defer gotestingadapter.QuickConfig(t)()
	d, err := NewDecoder(io.MultiReader(strings.NewReader("abc"), failingReader{}), UTF8)
	require.NoError(t, err)
	var got error
	for i := 0; i < 10; i++ {
		_, err := d.ReadEvent()
		if err != nil {
			got = err
			break
		}
	}
	require.ErrorIs(t, got, errBroken)
}

var errBroken = io.ErrUnexpectedEOF

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errBroken
}
