// Package charclass is the small DSL engine that tests one decoded input
// position against either a named byte set (\d, \w, \s, ...) or a compiled
// bracket ClassDesc (values, ranges, and embedded named sets), honoring
// negation. It has no notion of the node graph; it only understands bytes,
// code points, and the arena payload layout.
package charclass

import (
	"bytes"

	"github.com/zorgnax/rx/arena"
	"github.com/zorgnax/rx/graph"
)

// IsWordByte reports whether b is an ASCII word character: [A-Za-z0-9_].
func IsWordByte(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '_'
}

// IsSpaceByte reports whether b is one of the four whitespace bytes the
// engine recognizes for \s: space, tab, newline, carriage return.
func IsSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// IsDigitByte reports whether b is an ASCII digit.
func IsDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}

// TestSet reports whether byte b satisfies the named set kind. SetAny
// always matches (a '.' node still has to separately refuse to match past
// end-of-input; that's the caller's job since TestSet has no position
// context).
func TestSet(kind graph.CharSetKind, b byte) bool {
	switch kind {
	case graph.SetAny:
		return true
	case graph.SetNotNL:
		return b != '\n'
	case graph.SetDigit:
		return IsDigitByte(b)
	case graph.SetNotDigit:
		return !IsDigitByte(b)
	case graph.SetWord:
		return IsWordByte(b)
	case graph.SetNotWord:
		return !IsWordByte(b)
	case graph.SetSpace:
		return IsSpaceByte(b)
	case graph.SetNotSpace:
		return !IsSpaceByte(b)
	default:
		return false
	}
}

// lexCompare orders two UTF-8-encoded code points the way the engine's
// range test does: shorter byte width is always smaller, and equal widths
// compare lexicographically.
func lexCompare(a, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return bytes.Compare(a, b)
}

// Test reports whether the UTF-8-encoded code point test (width len(test))
// is accepted by the compiled class cd, honoring negation. c is the raw
// byte at the match position, used only to evaluate embedded named sets
// (which test a single byte, not the full decoded code point — see
// spec.md's CharClass/CharSet distinction).
func Test(a *arena.Arena, cd *arena.ClassDesc, test []byte, c byte) bool {
	matched := testUnnegated(a, cd, test, c)
	if cd.Negated {
		return !matched
	}
	return matched
}

func testUnnegated(a *arena.Arena, cd *arena.ClassDesc, test []byte, c byte) bool {
	values := a.Slice(cd.ValuesOff, cd.ValuesLen)
	for i := 0; i < len(values); {
		w := utf8Width(values, i)
		if len(test) == w && bytes.Equal(test, values[i:i+w]) {
			return true
		}
		i += w
	}

	ranges := a.Slice(cd.RangesOff, cd.RangesLen)
	for i := 0; i < len(ranges); {
		w1 := utf8Width(ranges, i)
		lo := ranges[i : i+w1]
		i += w1
		w2 := utf8Width(ranges, i)
		hi := ranges[i : i+w2]
		i += w2
		if lexCompare(test, lo) >= 0 && lexCompare(test, hi) <= 0 {
			return true
		}
	}

	sets := a.Slice(cd.SetsOff, cd.SetsLen)
	for _, s := range sets {
		if TestSet(graph.CharSetKind(s), c) {
			return true
		}
	}

	return false
}

// utf8Width returns the byte width of the code point starting at data[pos],
// assuming data was built entirely from values this package's own encoder
// produced (so the leading-byte pattern is always well-formed).
func utf8Width(data []byte, pos int) int {
	c := data[pos]
	switch {
	case c&0x80 == 0x00:
		return 1
	case c&0xe0 == 0xc0:
		return 2
	case c&0xf0 == 0xe0:
		return 3
	default:
		return 4
	}
}
