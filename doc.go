/*
Package segtrip streams text through Unicode segmentation.

Content

segtrip is a small pipeline: it decodes a byte stream into Unicode scalar
values, pushes them through an incremental boundary classifier (a
segmentation engine for grapheme clusters, words, sentences or line-break
opportunities), and re-serializes the scalar values with explicit boundary
markers, either re-encoded or as a textual code-point listing.

The root package holds the protocol shared by all parts of the pipeline:
the event variants travelling between decoder, engine and formatter, the
segmentation mode, and the Engine contract. The pieces live in
sub-packages:

  ▪︎ codec      decoding bytes to scalar values and encoding them back
  ▪︎ engine     an Engine built on top of uax.UnicodeBreaker implementations
  ▪︎ sentence   a UAX#29 sentence breaker, complementing package uax
  ▪︎ format     output strategies consuming the engine's event stream
  ▪︎ pipeline   the driver connecting all of the above

Engine Protocol

An Engine is an incremental state machine, fed one event at a time. After
feeding a scalar value (or the end-of-stream event), clients must drain the
engine to quiescence: repeatedly feed Await and collect the returned events
until the engine itself answers Await, meaning it cannot produce further
output without new input. EndOfText is fed exactly once, last, and is
answered — possibly after a number of drain steps — by a final End output
event.

  eng, _ := engine.New(segtrip.Words)
  for _, r := range input {
      ev := eng.Add(segtrip.ScalarEvent(r))
      for ev.Kind != segtrip.Await {
          consume(ev)
          ev = eng.Add(segtrip.AwaitEvent())
      }
  }
  ev := eng.Add(segtrip.EndEvent())
  for ev.Kind != segtrip.End {
      consume(ev)
      ev = eng.Add(segtrip.AwaitEvent())
  }

Engines preserve the order of scalar values and only ever insert Boundary
events between them.

______________________________________________________________________

License

This project is provided under the terms of the UNLICENSE or
the 3-Clause BSD license denoted by the following SPDX identifier:

SPDX-License-Identifier: 'Unlicense' OR 'BSD-3-Clause'

You may use the project under the terms of either license.

Licenses are reproduced in the license file in the root folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package segtrip
