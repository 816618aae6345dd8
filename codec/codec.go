/*
Package codec adapts byte streams to the scalar-value world of the
segmentation pipeline.

The decode direction is pull-based: a Decoder reads from an io.Reader and
hands out one decode event per call — a scalar value, a malformed byte
sequence, or end of stream — together with the stream position where the
event started. The encode direction is push-based: an Encoder accepts one
scalar value at a time and writes the encoded bytes through.

Supported encodings are UTF-8, UTF-16 (both byte orders, with or without
declared endianness), US-ASCII and Latin-1. If no encoding is declared,
the decoder guesses from the leading bytes of the stream.

______________________________________________________________________

License

This project is provided under the terms of the UNLICENSE or
the 3-Clause BSD license denoted by the following SPDX identifier:

SPDX-License-Identifier: 'Unlicense' OR 'BSD-3-Clause'

You may use the project under the terms of either license.

Licenses are reproduced in the license file in the root folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package codec

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to 'segtrip.codec'.
func tracer() tracing.Trace {
	return tracing.Select("segtrip.codec")
}

// Encoding identifies one of the character encodings the pipeline
// understands. The zero value requests auto-detection.
type Encoding int

// The supported encodings. UTF16 stands for UTF-16 with endianness taken
// from a BOM, defaulting to big-endian (RFC 2781); UTF16BE and UTF16LE fix
// the byte order and treat a leading U+FEFF as an ordinary scalar value.
const (
	Auto Encoding = iota
	UTF8
	UTF16
	UTF16BE
	UTF16LE
	ASCII
	Latin1
)

func (e Encoding) String() string {
	switch e {
	case Auto:
		return "auto"
	case UTF8:
		return "UTF-8"
	case UTF16:
		return "UTF-16"
	case UTF16BE:
		return "UTF-16BE"
	case UTF16LE:
		return "UTF-16LE"
	case ASCII:
		return "US-ASCII"
	case Latin1:
		return "ISO-8859-1"
	}
	return fmt.Sprintf("encoding(%d)", int(e))
}

// Parse interprets an encoding name as given on a command line. An empty
// name requests auto-detection.
func Parse(name string) (Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "auto":
		return Auto, nil
	case "utf-8", "utf8":
		return UTF8, nil
	case "utf-16", "utf16":
		return UTF16, nil
	case "utf-16be", "utf16be":
		return UTF16BE, nil
	case "utf-16le", "utf16le":
		return UTF16LE, nil
	case "us-ascii", "ascii":
		return ASCII, nil
	case "iso-8859-1", "latin1", "latin-1":
		return Latin1, nil
	}
	return Auto, fmt.Errorf("unknown character encoding %q", name)
}

// ResolveOutput maps an input encoding to the encoding used for
// re-encoded output. ASCII and Latin-1 are promoted to UTF-8; every other
// encoding is kept. The argument must be a concrete encoding, i.e. the
// result of detection, never Auto.
func ResolveOutput(in Encoding) Encoding {
	switch in {
	case ASCII, Latin1:
		return UTF8
	case Auto:
		panic("codec: output encoding requested for unresolved input encoding")
	}
	return in
}
