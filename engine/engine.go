/*
Package engine provides segmentation engines for the streaming pipeline.

An engine implements the segtrip.Engine push/drain contract on top of
uax.UnicodeBreaker implementations: the grapheme and word breakers of
module uax, the uax14 line-wrap breaker, and this module's own sentence
breaker. Scalar values are pushed in one at a time; the engine replays
them — in order, interleaved with boundary events — as soon as the
breaker rules have settled on the break penalties behind the longest
still-active rule match.

______________________________________________________________________

License

This project is provided under the terms of the UNLICENSE or
the 3-Clause BSD license denoted by the following SPDX identifier:

SPDX-License-Identifier: 'Unlicense' OR 'BSD-3-Clause'

You may use the project under the terms of either license.

Licenses are reproduced in the license file in the root folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package engine

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/segtrip"
	"github.com/npillmayer/segtrip/sentence"
	"github.com/npillmayer/uax"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax14"
	"github.com/npillmayer/uax/uax29"
)

// tracer traces to 'segtrip.engine'.
func tracer() tracing.Trace {
	return tracing.Select("segtrip.engine")
}

// An atom is one scalar value waiting in the queue, together with the
// aggregated penalty for breaking right after it.
type atom struct {
	r       rune
	penalty int
}

func (a atom) String() string {
	return fmt.Sprintf("[%#U p=%d]", a.r, a.penalty)
}

// breakerEngine adapts uax.UnicodeBreakers to the event protocol. It
// keeps scalar values queued
// only as long as an active rule match may still change their penalties;
// everything in front of that frontier is final and gets moved to the
// pending output events. Memory use is bounded by the longest rule match,
// not by the input length.
type breakerEngine struct {
	mode         segtrip.Mode
	breakers     []uax.UnicodeBreaker
	queue        *arraylist.List // of atom
	pending      []segtrip.Event // drained output events, front first
	longestMatch int             // longest active rule match over all breakers
	breakOnZero  bool            // is a zero penalty a valid breakpoint?
	eotSeen      bool            // end-of-text has been fed
	done         bool            // final End event has been handed out
}

// New creates a segmentation engine for the given mode. The mode is fixed
// for the lifetime of the engine; engines are not reusable across runs.
func New(mode segtrip.Mode) (segtrip.Engine, error) {
	e := &breakerEngine{
		mode:  mode,
		queue: arraylist.New(),
	}
	switch mode {
	case segtrip.Graphemes:
		grapheme.SetupGraphemeClasses()
		e.breakers = []uax.UnicodeBreaker{grapheme.NewBreaker(1)}
		e.breakOnZero = true // grapheme rules only ever suppress breaks
	case segtrip.Words:
		uax29.SetupUAX29Classes()
		e.breakers = []uax.UnicodeBreaker{uax29.NewWordBreaker(1)}
	case segtrip.Sentences:
		e.breakers = []uax.UnicodeBreaker{sentence.NewBreaker(1)}
	case segtrip.Lines:
		uax14.SetupClasses()
		e.breakers = []uax.UnicodeBreaker{uax14.NewLineWrap()}
	default:
		return nil, fmt.Errorf("no breaker available for segmentation mode %s", mode)
	}
	return e, nil
}

// Mode returns the segmentation mode the engine was created with.
func (e *breakerEngine) Mode() segtrip.Mode {
	return e.mode
}

// Add consumes one input event and returns one output event.
// (Interface segtrip.Engine)
func (e *breakerEngine) Add(ev segtrip.Event) segtrip.Event {
	if e.done {
		return segtrip.EndEvent()
	}
	switch ev.Kind {
	case segtrip.Scalar:
		if e.eotSeen {
			panic("segtrip engine: scalar value fed after end of text")
		}
		e.push(ev.Rune)
		e.harvest()
	case segtrip.End:
		if e.eotSeen {
			panic("segtrip engine: end of text fed twice")
		}
		e.eotSeen = true
		e.push(eotRune)
		e.flush()
	case segtrip.Await:
		// drain step, no new input
	default:
		panic(fmt.Sprintf("segtrip engine: %s is not an input event", ev))
	}
	return e.nextPending()
}

// The pseudo code-point marking end of text, understood by all breakers.
const eotRune rune = 0

// push appends the rune to the queue and lets every breaker process it.
func (e *breakerEngine) push(r rune) {
	e.queue.Add(atom{r: r})
	e.longestMatch = 0
	for _, breaker := range e.breakers {
		cpClass := breaker.CodePointClassFor(r)
		breaker.StartRulesFor(r, cpClass)
		breaker.ProceedWithRune(r, cpClass)
		if breaker.LongestActiveMatch() > e.longestMatch {
			e.longestMatch = breaker.LongestActiveMatch()
		}
		e.insertPenalties(breaker.Penalties())
	}
	tracer().Debugf("engine: pushed %#U, active match = %d", r, e.longestMatch)
}

// insertPenalties aggregates a breaker's penalties into the queued atoms.
// Index 0 of penalties belongs to the most recently pushed rune.
func (e *breakerEngine) insertPenalties(penalties []int) {
	l := e.queue.Size()
	if len(penalties) > l {
		penalties = penalties[:l] // drop excessive penalties
	}
	for i, p := range penalties {
		v, _ := e.queue.Get(l - 1 - i)
		a := v.(atom)
		a.penalty = bounded(a.penalty + p)
		e.queue.Set(l-1-i, a)
	}
}

// harvest moves atoms whose penalties can no longer change — everything
// in front of the longest active rule match — to the pending output
// events.
func (e *breakerEngine) harvest() {
	frontier := e.queue.Size() - 1 - e.longestMatch
	for ; frontier > 0; frontier-- {
		e.emitFront()
	}
}

// flush empties the whole queue after end of text. All penalties are
// final now. The end-of-text sentinel itself is dropped, and so is a
// break opportunity in front of it: boundaries separate segments and do
// not trail the output.
func (e *breakerEngine) flush() {
	for e.queue.Size() > 1 {
		e.emitFront()
	}
	e.queue.Clear()
	e.pending = append(e.pending, segtrip.EndEvent())
}

// emitFront pops the front atom into the pending events, followed by a
// boundary event if its penalty flags a break and a scalar value is still
// going to follow.
func (e *breakerEngine) emitFront() {
	v, _ := e.queue.Get(0)
	e.queue.Remove(0)
	a := v.(atom)
	e.pending = append(e.pending, segtrip.ScalarEvent(a.r))
	if e.queue.Size() > 1 || (!e.eotSeen && e.queue.Size() > 0) {
		if isPossibleBreak(a.penalty, e.breakOnZero) {
			e.pending = append(e.pending, segtrip.BoundaryEvent())
		}
	}
}

// nextPending hands out the foremost pending event, or Await if the
// engine cannot produce output without new input.
func (e *breakerEngine) nextPending() segtrip.Event {
	if len(e.pending) == 0 {
		return segtrip.AwaitEvent()
	}
	ev := e.pending[0]
	e.pending = e.pending[1:]
	if ev.Kind == segtrip.End {
		e.done = true
	}
	return ev
}

// Penalties >= uax.InfinitePenalty are considered too bad for being a
// break opportunity.
func isPossibleBreak(p int, breakOnZero bool) bool {
	if p >= uax.InfinitePenalty {
		return false
	}
	if !breakOnZero && p == 0 {
		return false
	}
	return true
}

func bounded(p int) int {
	if p > uax.InfinitePenalty {
		p = uax.InfinitePenalty
	} else if p < uax.InfiniteMerits {
		p = uax.InfiniteMerits
	}
	return p
}
