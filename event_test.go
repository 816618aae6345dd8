package segtrip

import "testing"

func TestParseMode(t *testing.T) {
	cases := []struct {
		name string
		mode Mode
	}{
		{"grapheme", Graphemes},
		{"graphemes", Graphemes},
		{"Word", Words},
		{"sentences", Sentences},
		{"line", Lines},
	}
	for _, c := range cases {
		m, err := ParseMode(c.name)
		if err != nil {
			t.Errorf("ParseMode(%q) failed: %v", c.name, err)
		} else if m != c.mode {
			t.Errorf("ParseMode(%q) = %s, expected %s", c.name, m, c.mode)
		}
	}
	if _, err := ParseMode("paragraph"); err == nil {
		t.Errorf("expected ParseMode to reject unknown mode name")
	}
}

func TestEventStrings(t *testing.T) {
	if s := ScalarEvent('A').String(); s != "U+0041 'A'" {
		t.Errorf("unexpected scalar event rendering %q", s)
	}
	if s := AwaitEvent().String(); s != "await" {
		t.Errorf("unexpected await event rendering %q", s)
	}
	if s := BoundaryEvent().String(); s != "boundary" {
		t.Errorf("unexpected boundary event rendering %q", s)
	}
	if s := EndEvent().String(); s != "end" {
		t.Errorf("unexpected end event rendering %q", s)
	}
}
