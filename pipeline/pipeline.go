/*
Package pipeline drives the decode → segment → re-encode stream.

The driver pulls decode events from a codec.Decoder, feeds the scalar
values to a segmentation engine, and drains the engine to quiescence
after every input before pulling the next one — preserving order under
the engine's back-pressure. Every engine output is forwarded to a
format.Formatter. The pipeline is single-threaded and single-pass, with
memory bounded by one pending event at a time.

Malformed byte sequences never abort a run: they are reported through a
Reporter and substituted with U+FFFD. Only failures of the input source
itself surface as errors.

______________________________________________________________________

License

This project is provided under the terms of the UNLICENSE or
the 3-Clause BSD license denoted by the following SPDX identifier:

SPDX-License-Identifier: 'Unlicense' OR 'BSD-3-Clause'

You may use the project under the terms of either license.

Licenses are reproduced in the license file in the root folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package pipeline

import (
	"fmt"
	"io"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/segtrip"
	"github.com/npillmayer/segtrip/codec"
	"github.com/npillmayer/segtrip/format"
)

// tracer traces to 'segtrip.pipeline'.
func tracer() tracing.Trace {
	return tracing.Select("segtrip.pipeline")
}

// A Reporter emits diagnostics for undecodable byte sequences. Reporting
// is a recovery path: after every report the driver substitutes U+FFFD
// and continues.
type Reporter struct {
	Program string    // program name to tag diagnostics with
	Source  string    // input identifier, e.g. a file name or "-"
	W       io.Writer // error channel, typically os.Stderr
}

// Malformed writes one human-readable diagnostic line for a byte
// sequence the codec could not decode at the given position.
func (rep *Reporter) Malformed(pos codec.Position, raw []byte) {
	tracer().Infof("malformed bytes (% x) in %s at %s", raw, rep.Source, pos)
	if rep.W == nil {
		return
	}
	fmt.Fprintf(rep.W, "%s: %s:%s: malformed bytes (% x)\n", rep.Program, rep.Source, pos, raw)
}

// A Driver owns one run of the pipeline: one decoder, one engine, one
// formatter, used strictly sequentially. Drivers are not reusable.
type Driver struct {
	dec *codec.Decoder
	eng segtrip.Engine
	out format.Formatter
	rep *Reporter
}

// NewDriver assembles a pipeline run. rep may be nil, silencing
// malformed-input diagnostics (substitution still happens).
func NewDriver(dec *codec.Decoder, eng segtrip.Engine, out format.Formatter, rep *Reporter) *Driver {
	return &Driver{dec: dec, eng: eng, out: out, rep: rep}
}

// Run pumps the whole input through the pipeline. It returns a non-nil
// error only for I/O failures on the input source or the output sink;
// malformed input is reported and substituted, never returned.
//
// If the decoder consumed a byte-order mark, a U+FEFF scalar value is
// re-injected in front of the first decoded value, so that segmentation
// and output both account for it.
func (d *Driver) Run() error {
	if d.dec.BOMSeen() {
		tracer().Debugf("driver: re-injecting consumed BOM")
		if done, err := d.feed(segtrip.ScalarEvent(segtrip.BOMRune)); err != nil || done {
			return err
		}
	}
	for {
		ev, err := d.dec.ReadEvent()
		if err != nil {
			return err
		}
		// ReadEvent yields a scalar value, a malformed sequence or end of
		// stream — by the codec's pull contract nothing else can surface
		// here.
		var in segtrip.Event
		switch ev.Kind {
		case codec.ScalarEvent:
			in = segtrip.ScalarEvent(ev.Rune)
		case codec.MalformedEvent:
			if d.rep != nil {
				d.rep.Malformed(ev.Pos, ev.Bytes)
			}
			in = segtrip.ScalarEvent(segtrip.ReplacementRune)
		case codec.EndEvent:
			in = segtrip.EndEvent()
		}
		done, err := d.feed(in)
		if err != nil {
			return err
		}
		if done {
			if ev.Kind != codec.EndEvent {
				// cannot happen: EndOfText is always the engine's last input
				panic("segtrip driver: engine ended mid-stream")
			}
			return nil
		}
	}
}

// feed pushes one input event into the engine and drains the engine's
// output to quiescence, forwarding every scalar value and boundary to
// the formatter. It reports done == true once the engine has emitted its
// final End event.
func (d *Driver) feed(in segtrip.Event) (done bool, err error) {
	ev := d.eng.Add(in)
	for {
		switch ev.Kind {
		case segtrip.Await:
			if in.Kind == segtrip.End {
				// a correct engine answers EndOfText with End, eventually
				panic("segtrip driver: engine stalled after end of text")
			}
			return false, nil
		case segtrip.Scalar, segtrip.Boundary:
			if err := d.out.Put(ev); err != nil {
				return false, err
			}
		case segtrip.End:
			return true, d.out.Put(ev)
		}
		ev = d.eng.Add(segtrip.AwaitEvent())
	}
}
