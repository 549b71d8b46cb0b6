package compile

import (
	"bytes"

	"github.com/zorgnax/rx/arena"
	"github.com/zorgnax/rx/graph"
	"github.com/zorgnax/rx/internal/utf8codec"
)

// classAccum receives the output of one pass over a bracket expression's
// body. With save false it only tallies byte counts, used to presize the
// buffers the second pass writes into; this mirrors the original two-pass
// (measure, then emit) parse rather than growing slices on the fly, since
// the range-ordering validation below only runs during the measure pass.
type classAccum struct {
	save bool

	valueCount int
	rangeCount int
	setCount   int

	values []byte
	ranges []byte
	sets   []byte
}

func (a *classAccum) putValue(b []byte) {
	if a.save {
		a.values = append(a.values, b...)
	} else {
		a.valueCount += len(b)
	}
}

func (a *classAccum) putRange(lo, hi []byte) {
	if a.save {
		a.ranges = append(a.ranges, lo...)
		a.ranges = append(a.ranges, hi...)
	} else {
		a.rangeCount += len(lo) + len(hi)
	}
}

func (a *classAccum) putSet(kind graph.CharSetKind) {
	if a.save {
		a.sets = append(a.sets, byte(kind))
	} else {
		a.setCount++
	}
}

// namedSetKind maps a bracket-expression escape letter to its CharSetKind,
// or ok=false if c is not one of \d \D \w \W \s \S \N.
func namedSetKind(c byte) (graph.CharSetKind, bool) {
	switch c {
	case 'N':
		return graph.SetNotNL, true
	case 'd':
		return graph.SetDigit, true
	case 'D':
		return graph.SetNotDigit, true
	case 'w':
		return graph.SetWord, true
	case 'W':
		return graph.SetNotWord, true
	case 's':
		return graph.SetSpace, true
	case 'S':
		return graph.SetNotSpace, true
	default:
		return 0, false
	}
}

func simpleEscapeByte(c byte) (byte, bool) {
	switch c {
	case 'e':
		return '\x1b', true
	case 'r':
		return '\r', true
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	default:
		return 0, false
	}
}

// parseClassBody walks one bracket expression's body (the text after '['
// and any leading '^', up to but not including the closing ']'), feeding
// every value/range/named-set it finds into acc. It is called twice per
// bracket expression: once with acc.save false to size the output buffers,
// once with acc.save true to fill them. Returns the position of the
// closing ']'.
func (comp *compiler) parseClassBody(pos int, acc *classAccum) (int, error) {
	pattern := comp.pattern
	var char1 []byte
	seenDash := false
	var seenSpecial byte

	for pos < len(pattern) {
		c1 := pattern[pos]
		if c1 == ']' {
			break
		}

		var char2 []byte
		if c1 == '-' && !seenDash {
			seenDash = true
			pos++
			continue
		} else if c1 == '\\' {
			if pos+1 >= len(pattern) {
				return pos, &SyntaxError{Pos: pos, Err: ErrTrailingBackslash}
			}
			c2 := pattern[pos+1]
			if kind, ok := namedSetKind(c2); ok {
				if seenDash {
					return pos, &SyntaxError{Pos: pos, Err: ErrDashAfterNamedSet}
				}
				acc.putSet(kind)
				seenSpecial = c2
				pos += 2
				continue
			} else if b, ok := simpleEscapeByte(c2); ok {
				char2 = []byte{b}
				pos += 2
			} else if c2 == 'x' {
				if pos+3 >= len(pattern) {
					return pos, &SyntaxError{Pos: pos, Err: ErrBadEscape}
				}
				v, ok := utf8codec.HexToInt(pattern[pos+2:], 2)
				if !ok {
					return pos, &SyntaxError{Pos: pos, Err: ErrBadEscape}
				}
				char2 = []byte{byte(v)}
				pos += 4
			} else if c2 == 'u' || c2 == 'U' {
				count := 4
				if c2 == 'U' {
					count = 8
				}
				if pos+1+count >= len(pattern) {
					return pos, &SyntaxError{Pos: pos, Err: ErrBadEscape}
				}
				v, ok := utf8codec.HexToInt(pattern[pos+2:], count)
				if !ok {
					return pos, &SyntaxError{Pos: pos, Err: ErrBadEscape}
				}
				var buf [4]byte
				enc, n := utf8codec.Encode(buf[:0], rune(v))
				if n == 0 {
					return pos, &SyntaxError{Pos: pos, Err: ErrBadEscape}
				}
				char2 = append([]byte{}, enc[:n]...)
				pos += 2 + count
			} else {
				pos++
				w := utf8codec.DecodeWidth(pattern, pos)
				char2 = append([]byte{}, pattern[pos:pos+w]...)
				pos += w
			}
		} else {
			w := utf8codec.DecodeWidth(pattern, pos)
			char2 = append([]byte{}, pattern[pos:pos+w]...)
			pos += w
		}

		if len(char1) > 0 && seenDash {
			if acc.save {
				acc.putRange(char1, char2)
			} else {
				if seenSpecial != 0 {
					return pos, &SyntaxError{Pos: pos, Err: ErrDashAfterNamedSet}
				}
				if len(char1) > len(char2) || (len(char1) == len(char2) && bytes.Compare(char1, char2) >= 0) {
					return pos, &SyntaxError{Pos: pos, Err: ErrBadRange}
				}
				acc.putRange(char1, char2)
			}
			seenDash = false
			char1 = nil
		} else if seenDash {
			return pos, &SyntaxError{Pos: pos, Err: ErrUnexpectedDash}
		} else {
			if len(char1) > 0 {
				acc.putValue(char1)
			}
			char1 = char2
		}
		seenSpecial = 0
	}

	if len(char1) > 0 {
		acc.putValue(char1)
	}
	if seenDash {
		acc.putValue([]byte{'-'})
	}

	if pos >= len(pattern) || pattern[pos] != ']' {
		return pos, &SyntaxError{Pos: pos, Err: ErrBracketUnclosed}
	}
	return pos, nil
}

// parseClassInit compiles one bracket expression starting at pos (the
// index of '[') and returns the arena index of the resulting ClassDesc and
// the position of the closing ']'.
func (comp *compiler) parseClassInit(pos int) (uint32, int, error) {
	start := pos
	pattern := comp.pattern
	if pos+1 >= len(pattern) {
		return 0, pos, &SyntaxError{Pos: pos, Err: ErrBracketNeedsChar}
	}
	pos++
	negated := false
	if pattern[pos] == '^' {
		negated = true
		if pos+1 >= len(pattern) {
			return 0, pos, &SyntaxError{Pos: pos, Err: ErrBracketNeedsChar}
		}
		pos++
	}

	measure := &classAccum{save: false}
	if _, err := comp.parseClassBody(pos, measure); err != nil {
		return 0, pos, err
	}

	save := &classAccum{
		save:   true,
		values: make([]byte, 0, measure.valueCount),
		ranges: make([]byte, 0, measure.rangeCount),
		sets:   make([]byte, 0, measure.setCount),
	}
	finalPos, err := comp.parseClassBody(pos, save)
	if err != nil {
		return 0, pos, err
	}

	valuesOff, valuesLen := comp.arena.AppendPayload(save.values)
	rangesOff, rangesLen := comp.arena.AppendPayload(save.ranges)
	setsOff, setsLen := comp.arena.AppendPayload(save.sets)
	textOff, textLen := comp.arena.AppendPayload(pattern[start : finalPos+1])

	idx := comp.arena.AddClass(arena.ClassDesc{
		Negated:   negated,
		ValuesOff: valuesOff, ValuesLen: valuesLen,
		RangesOff: rangesOff, RangesLen: rangesLen,
		SetsOff: setsOff, SetsLen: setsLen,
		TextOff: textOff, TextLen: textLen,
	})
	return idx, finalPos, nil
}
