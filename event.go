package segtrip

import (
	"fmt"
	"strings"
)

// EventKind discriminates the variants of Event.
type EventKind int8

// Event variants. Await doubles as the input variant "no new scalar value
// available, please continue" and as the output variant "no further output
// available without new input". Scalar carries a Unicode scalar value,
// Boundary marks a segment break, End terminates a stream.
const (
	Await EventKind = iota
	Scalar
	Boundary
	End
)

// Event is the unit travelling between the decoder, the segmentation
// engine and the output formatter. It is a tagged variant: Rune is only
// meaningful for Kind == Scalar. Events are small and passed by value.
type Event struct {
	Kind EventKind
	Rune rune
}

// ScalarEvent wraps a Unicode scalar value into an event.
func ScalarEvent(r rune) Event {
	return Event{Kind: Scalar, Rune: r}
}

// AwaitEvent creates an event signalling "no new input / no more output".
func AwaitEvent() Event {
	return Event{Kind: Await}
}

// BoundaryEvent creates a segment-boundary event.
func BoundaryEvent() Event {
	return Event{Kind: Boundary}
}

// EndEvent creates the end-of-stream event. It is fed to an engine exactly
// once, as the last input.
func EndEvent() Event {
	return Event{Kind: End}
}

func (ev Event) String() string {
	switch ev.Kind {
	case Scalar:
		return fmt.Sprintf("%#U", ev.Rune)
	case Boundary:
		return "boundary"
	case End:
		return "end"
	}
	return "await"
}

// ReplacementRune is substituted for every byte sequence the decoder
// cannot make sense of.
const ReplacementRune rune = '�'

// BOMRune is the byte-order mark as a scalar value (zero-width no-break
// space). A decoder may consume a leading BOM; the driver re-injects it as
// a scalar so that segmentation and output account for it.
const BOMRune rune = '\uFEFF'

// An Engine is an incremental segmentation state machine, fixed to one
// segmentation mode for its whole lifetime. Add consumes exactly one input
// event (Scalar, Await or End — never Boundary) and returns exactly one
// output event. Clients must drain the engine to quiescence after every
// Scalar or End input: keep feeding Await until the engine answers Await
// (or, after End has been fed, until it answers End).
//
// Engines guarantee input-order-preserving output: the scalar values
// returned are exactly the scalar values fed, in order, with Boundary
// events inserted between segments.
type Engine interface {
	Mode() Mode
	Add(Event) Event
}

// Mode selects what kind of segments an engine identifies.
type Mode int

// The four segmentation modes.
const (
	Graphemes Mode = iota // grapheme clusters, UAX#29
	Words                 // word boundaries, UAX#29
	Sentences             // sentence boundaries, UAX#29
	Lines                 // line-break opportunities, UAX#14
)

func (m Mode) String() string {
	switch m {
	case Graphemes:
		return "grapheme"
	case Words:
		return "word"
	case Sentences:
		return "sentence"
	case Lines:
		return "line"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode interprets a mode name as given on a command line.
// Recognized are "grapheme", "word", "sentence" and "line", as well as
// their plural forms.
func ParseMode(name string) (Mode, error) {
	switch strings.TrimSuffix(strings.ToLower(name), "s") {
	case "grapheme":
		return Graphemes, nil
	case "word":
		return Words, nil
	case "sentence":
		return Sentences, nil
	case "line":
		return Lines, nil
	}
	return Words, fmt.Errorf("unknown segmentation mode %q", name)
}
