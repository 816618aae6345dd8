/*
Package format renders the output event stream of a segmentation engine.

Two interchangeable strategies consume the same events. A ScalarList
prints every scalar value in code-point notation, space-separated within
a segment, with the configured delimiter text between segments — a
human-readable rendering. A Reencoder writes the scalar values back out
as bytes in a target encoding, with the delimiter's scalar values
substituted for every boundary.

______________________________________________________________________

License

This project is provided under the terms of the UNLICENSE or
the 3-Clause BSD license denoted by the following SPDX identifier:

SPDX-License-Identifier: 'Unlicense' OR 'BSD-3-Clause'

You may use the project under the terms of either license.

Licenses are reproduced in the license file in the root folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package format

import (
	"fmt"
	"io"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/segtrip"
	"github.com/npillmayer/segtrip/codec"
)

// tracer traces to 'segtrip.format'.
func tracer() tracing.Trace {
	return tracing.Select("segtrip.format")
}

// A Formatter consumes the output events of a segmentation engine:
// scalar values, boundaries, and a final end event. Await events are a
// drain-protocol detail between driver and engine and must not reach a
// formatter.
type Formatter interface {
	Put(segtrip.Event) error
}

// --- Scalar listing ---------------------------------------------------

// ScalarList renders scalar values textually, one "U+XXXX" notation per
// value. Values within a segment are separated by a single space;
// boundaries print the delimiter text verbatim.
type ScalarList struct {
	w       io.Writer
	delim   string
	needSep bool
}

// NewScalarList creates a listing formatter writing to w, printing delim
// at segment boundaries.
func NewScalarList(w io.Writer, delim string) *ScalarList {
	return &ScalarList{w: w, delim: delim}
}

// Put consumes one engine output event.
// (Interface Formatter)
func (f *ScalarList) Put(ev segtrip.Event) error {
	switch ev.Kind {
	case segtrip.Scalar:
		if f.needSep {
			if _, err := io.WriteString(f.w, " "); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(f.w, "U+%04X", ev.Rune); err != nil {
			return err
		}
		f.needSep = true
	case segtrip.Boundary:
		if _, err := io.WriteString(f.w, f.delim); err != nil {
			return err
		}
		f.needSep = false
	case segtrip.End:
		// nothing to flush
	default:
		panic(fmt.Sprintf("formatter received %s event", ev))
	}
	return nil
}

// --- Re-encoding ------------------------------------------------------

// Reencoder forwards scalar values to an encoder and substitutes the
// pre-decoded delimiter scalar values for every boundary.
type Reencoder struct {
	enc   *codec.Encoder
	delim []rune
}

// NewReencoder creates a re-encoding formatter on top of enc. delim is
// the delimiter as UTF-8 text; it is decoded to scalar values once, here,
// and replayed through the encoder at every boundary.
func NewReencoder(enc *codec.Encoder, delim string) *Reencoder {
	tracer().Debugf("formatting as %s byte stream", enc.Encoding())
	return &Reencoder{enc: enc, delim: []rune(delim)}
}

// Put consumes one engine output event.
// (Interface Formatter)
func (f *Reencoder) Put(ev segtrip.Event) error {
	switch ev.Kind {
	case segtrip.Scalar:
		return f.enc.WriteRune(ev.Rune)
	case segtrip.Boundary:
		for _, r := range f.delim {
			if err := f.enc.WriteRune(r); err != nil {
				return err
			}
		}
	case segtrip.End:
		return f.enc.Close()
	default:
		panic(fmt.Sprintf("formatter received %s event", ev))
	}
	return nil
}
