/*
Package sentence implements UAX#29 sentence breaking.

Content

UAX#29 is the Unicode Annex for breaking text into graphemes, words
and sentences. This package is about sentence breaking. It provides a
breaker to be used with uax segmenters, complementing the grapheme and
word breakers of module uax, which does not ship one for sentences.

The breaker covers the sentence-boundary rules SB3–SB11 over a compact
code-point classification derived from the Unicode range tables of the
standard library. Rule SB8 (do not break before a trailing lower-case
continuation) is approximated with a single code point of lookahead
instead of unbounded lookahead.

Typical Usage

Clients instantiate a SentenceBreaker object and use it as the
breaking engine for a segmenter.

  onSentences := sentence.NewBreaker(1)
  segmenter := segment.NewSegmenter(onSentences)
  segmenter.Init(...)
  for segmenter.Next() ...

______________________________________________________________________

License

This project is provided under the terms of the UNLICENSE or
the 3-Clause BSD license denoted by the following SPDX identifier:

SPDX-License-Identifier: 'Unlicense' OR 'BSD-3-Clause'

You may use the project under the terms of either license.

Licenses are reproduced in the license file in the root folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package sentence

import (
	"unicode"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/uax"
)

// tracer traces to 'segtrip.sentence'.
func tracer() tracing.Trace {
	return tracing.Select("segtrip.sentence")
}

// Class is the sentence-boundary code-point class of a rune.
type Class int

// Sentence-boundary classes, a condensed version of the SB property
// values of UAX#29.
const (
	Other Class = iota
	CRClass
	LFClass
	SepClass
	ExtendClass
	SpClass
	LowerClass
	UpperClass
	OLetterClass
	NumericClass
	ATermClass
	STermClass
	CloseClass
	SContinueClass
)

const eot Class = -1 // pseudo class for end of text

func (c Class) String() string {
	names := map[Class]string{
		eot: "eot", Other: "Other", CRClass: "CR", LFClass: "LF",
		SepClass: "Sep", ExtendClass: "Extend", SpClass: "Sp",
		LowerClass: "Lower", UpperClass: "Upper", OLetterClass: "OLetter",
		NumericClass: "Numeric", ATermClass: "ATerm", STermClass: "STerm",
		CloseClass: "Close", SContinueClass: "SContinue",
	}
	return names[c]
}

// ClassForRune gets the sentence-boundary class for a Unicode code-point.
func ClassForRune(r rune) Class {
	if r == rune(0) {
		return eot
	}
	switch r {
	case '\r':
		return CRClass
	case '\n':
		return LFClass
	case '\u0085', '\u2028', '\u2029':
		return SepClass
	case '.', '․', '﹒', '．':
		return ATermClass
	case ',', '-', ':', '՝', '،', '؍', '߸', '᠂',
		'᠈', '、', '︐', '︑', '︓', '︱',
		'﹐', '﹑', '﹕', '，', '－', '：', '､':
		return SContinueClass
	case '\t', '\u00a0':
		return SpClass
	case '"', '\'':
		return CloseClass
	}
	switch {
	case unicode.Is(unicode.Sentence_Terminal, r):
		return STermClass
	case unicode.In(r, unicode.Ps, unicode.Pe, unicode.Pi, unicode.Pf):
		return CloseClass
	case unicode.Is(unicode.Zs, r):
		return SpClass
	case unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf):
		return ExtendClass
	case unicode.Is(unicode.Ll, r):
		return LowerClass
	case unicode.In(r, unicode.Lu, unicode.Lt):
		return UpperClass
	case unicode.In(r, unicode.Lo, unicode.Lm):
		return OLetterClass
	case unicode.Is(unicode.Nd, r):
		return NumericClass
	}
	return Other
}

// === Sentence Breaker ==========================================

// SentenceBreaker is a Breaker type used by a uax segmenter to break text
// up according to UAX#29 / Sentences.
// It implements the uax.UnicodeBreaker interface.
type SentenceBreaker struct {
	rules         map[Class][]uax.NfaStateFn // we manage a set of NFAs
	publisher     uax.RunePublisher          // we use the rune publishing mechanism
	longestMatch  int                        // longest active match for any rule of this breaker
	penalties     []int                      // returned to the segmenter: penalties to insert
	weight        int                        // will multiply penalties by this factor
	previousClass Class                      // class of previously read rune
}

// NewBreaker creates a new UAX#29 sentence breaker.
//
// Usage:
//
//   onSentences := sentence.NewBreaker(1)
//   segmenter := segment.NewSegmenter(onSentences)
//   segmenter.Init(...)
//   for segmenter.Next() ...
//
// weight is a multiplying factor for penalties. It must be 0…w…5 and will
// be capped for values outside this range.
//
func NewBreaker(weight int) *SentenceBreaker {
	sb := &SentenceBreaker{weight: capw(weight)}
	sb.publisher = uax.NewRunePublisher()
	sb.rules = map[Class][]uax.NfaStateFn{
		CRClass:    {rule_ParaSep},
		LFClass:    {rule_ParaSep},
		SepClass:   {rule_ParaSep},
		ATermClass: {rule_SATerm},
		STermClass: {rule_SATerm},
	}
	return sb
}

// CodePointClassFor returns the sentence-boundary class for a rune (= code-point).
// (Interface uax.UnicodeBreaker)
func (sb *SentenceBreaker) CodePointClassFor(r rune) int {
	return int(ClassForRune(r))
}

// StartRulesFor starts all recognizers where the starting symbol is rune r.
// r is of code-point-class cpClass.
// (Interface uax.UnicodeBreaker)
func (sb *SentenceBreaker) StartRulesFor(r rune, cpClass int) {
	c := Class(cpClass)
	if rules := sb.rules[c]; len(rules) > 0 {
		tracer().P("class", c).Debugf("starting %d rule(s) for class %s", len(rules), c)
		for _, rule := range rules {
			rec := uax.NewPooledRecognizer(cpClass, rule)
			rec.UserData = sb
			sb.publisher.SubscribeMe(rec)
		}
	}
}

// ProceedWithRune is a signal:
// A new code-point has been read and this breaker receives a message to
// consume it.
// (Interface uax.UnicodeBreaker)
func (sb *SentenceBreaker) ProceedWithRune(r rune, cpClass int) {
	c := Class(cpClass)
	sb.longestMatch, sb.penalties = sb.publisher.PublishRuneEvent(r, int(c))
	tracer().P("class", c).Debugf("proceeding with rune %#U: |match|=%d, p=%v", r, sb.longestMatch, sb.penalties)
	sb.ensureBreakAtEot(c)
	if c != ExtendClass { // SB5: extenders are transparent
		sb.previousClass = c
	}
}

// ensureBreakAtEot flags a break opportunity in front of the end of
// text, so that text without a final sentence terminator still yields
// its last sentence.
func (sb *SentenceBreaker) ensureBreakAtEot(c Class) {
	if c != eot {
		return
	}
	if len(sb.penalties) < 2 {
		p := make([]int, 2)
		copy(p, sb.penalties)
		sb.penalties = p
	}
	if sb.penalties[1] == 0 {
		sb.penalties[1] = sb.w(PenaltyForBreak)
	}
}

// LongestActiveMatch collects
// from all active recognizers information about current match length
// and returns the longest one for all still active recognizers.
// (Interface uax.UnicodeBreaker)
func (sb *SentenceBreaker) LongestActiveMatch() int {
	return sb.longestMatch
}

// Penalties gets all active penalties for all active recognizers combined.
// Index 0 belongs to the most recently read rune, i.e., represents
// the penalty for breaking after it.
// (Interface uax.UnicodeBreaker)
func (sb *SentenceBreaker) Penalties() []int {
	return sb.penalties
}

// Penalties (inter-sentence optional break, suppress break and mandatory break).
var (
	PenaltyForBreak        = 50
	PenaltyToSuppressBreak = 10000
	PenaltyForMustBreak    = -10000
)

// --- Rules ------------------------------------------------------------

// SB3/SB4: break after paragraph separators; CR+LF stays glued.
func rule_ParaSep(rec *uax.Recognizer, r rune, cpClass int) uax.NfaStateFn {
	c := Class(cpClass)
	if c == LFClass || c == SepClass {
		return uax.DoAccept(rec, PenaltyForMustBreak)
	} else if c == CRClass {
		rec.MatchLen++
		return rule_CRLF
	}
	return uax.DoAbort(rec)
}

func rule_CRLF(rec *uax.Recognizer, r rune, cpClass int) uax.NfaStateFn {
	c := Class(cpClass)
	if c == LFClass {
		return uax.DoAccept(rec, PenaltyForMustBreak, 3*PenaltyToSuppressBreak) // accept CR+LF
	}
	return uax.DoAccept(rec, 0, PenaltyForMustBreak) // accept lone CR
}

// SB6–SB11: a sentence terminator (ATerm or STerm), followed by closers
// and spaces, usually ends a sentence — unless the continuation shows the
// sentence is not over (digits after an abbreviation dot, lower case
// text, explicit continuation punctuation, or yet another terminator).
//
// The Expect field of the recognizer is mis-used to remember which
// terminator class started the rule, plus a flag bit for "the terminator
// was preceded by a letter" (needed for SB7, where previousClass will
// have moved on by the time the rule needs it).
const afterLetterFlag = 1 << 8

func startClass(rec *uax.Recognizer) Class {
	return Class(rec.Expect &^ afterLetterFlag)
}

func rule_SATerm(rec *uax.Recognizer, r rune, cpClass int) uax.NfaStateFn {
	rec.MatchLen++
	rec.Expect = cpClass
	sb := rec.UserData.(*SentenceBreaker)
	if sb.previousClass == UpperClass || sb.previousClass == LowerClass {
		rec.Expect |= afterLetterFlag
	}
	return cont_SATerm
}

// ... Close* ...
func cont_SATerm(rec *uax.Recognizer, r rune, cpClass int) uax.NfaStateFn {
	c := Class(cpClass)
	sb := rec.UserData.(*SentenceBreaker)
	switch c {
	case ExtendClass:
		rec.MatchLen++
		return cont_SATerm
	case CloseClass:
		rec.MatchLen++
		return cont_SATerm
	case SpClass:
		rec.MatchLen++
		return cont_Sp
	case CRClass, LFClass, SepClass:
		return uax.DoAccept(rec) // SB9/SB10: ParaSep closes the sentence; rule_ParaSep breaks after it
	case NumericClass:
		if startClass(rec) == ATermClass && rec.MatchLen == 1 {
			return uax.DoAccept(rec, 0, sb.w(PenaltyToSuppressBreak)) // SB6
		}
	case UpperClass:
		if startClass(rec) == ATermClass && rec.MatchLen == 1 &&
			rec.Expect&afterLetterFlag != 0 {
			return uax.DoAccept(rec, 0, sb.w(PenaltyToSuppressBreak)) // SB7
		}
	case ATermClass, STermClass, SContinueClass:
		return uax.DoAccept(rec, 0, sb.w(PenaltyToSuppressBreak)) // SB8a
	case LowerClass:
		if startClass(rec) == ATermClass {
			return uax.DoAccept(rec, 0, sb.w(PenaltyToSuppressBreak)) // SB8
		}
	}
	return acceptSentenceBreak(rec, sb)
}

// ... Sp* ...
func cont_Sp(rec *uax.Recognizer, r rune, cpClass int) uax.NfaStateFn {
	c := Class(cpClass)
	sb := rec.UserData.(*SentenceBreaker)
	switch c {
	case SpClass, ExtendClass:
		rec.MatchLen++
		return cont_Sp
	case CRClass, LFClass, SepClass:
		return uax.DoAccept(rec) // SB10: ParaSep closes the sentence; rule_ParaSep breaks after it
	case ATermClass, STermClass, SContinueClass:
		return uax.DoAccept(rec, 0, sb.w(PenaltyToSuppressBreak)) // SB8a
	case LowerClass:
		if startClass(rec) == ATermClass {
			return uax.DoAccept(rec, 0, sb.w(PenaltyToSuppressBreak)) // SB8
		}
	}
	return acceptSentenceBreak(rec, sb)
}

// The terminator sequence is over and nothing suppressed the break: the
// sentence ends after the previous rune, i.e. in front of the current one.
// Index 0 of the penalty list is the current rune, index 1 the one before.
func acceptSentenceBreak(rec *uax.Recognizer, sb *SentenceBreaker) uax.NfaStateFn {
	return uax.DoAccept(rec, 0, sb.w(PenaltyForBreak))
}

// --- Helpers ----------------------------------------------------------

// w applies the breaker's weight factor to a penalty.
func (sb *SentenceBreaker) w(p int) int {
	return p * sb.weight
}

func capw(w int) int {
	if w < 0 {
		return 0
	} else if w > 5 {
		return 5
	}
	return w
}
