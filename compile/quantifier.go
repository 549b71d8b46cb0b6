package compile

// parseQuantifier parses a brace quantifier starting at pos (the index of
// '{'): {m}, {m,}, or {m,n}, with an optional trailing '?' for lazy
// matching. Returns min, max (-1 for unbounded), greedy, and the position
// of the last character consumed (the '}' or the '?' after it).
func parseQuantifier(pattern []byte, pos int) (min, max int, greedy bool, newPos int, err error) {
	pos++ // skip '{'
	min = 0
	minSeen := false
	for ; pos < len(pattern); pos++ {
		c := pattern[pos]
		switch {
		case c >= '0' && c <= '9':
			min = min*10 + int(c-'0')
			minSeen = true
		case c == ',':
			if !minSeen {
				return 0, 0, false, pos, &SyntaxError{Pos: pos, Err: ErrQuantifierNeedsNum}
			}
			pos++
			return parseQuantifierMax(pattern, pos, min)
		case c == '}':
			if !minSeen {
				return 0, 0, false, pos, &SyntaxError{Pos: pos, Err: ErrQuantifierNeedsNum}
			}
			return finishQuantifier(pattern, pos, min, min)
		default:
			return 0, 0, false, pos, &SyntaxError{Pos: pos, Err: ErrQuantifierBadChar}
		}
	}
	return 0, 0, false, pos, &SyntaxError{Pos: pos, Err: ErrUnclosedQuantifier}
}

func parseQuantifierMax(pattern []byte, pos, min int) (int, int, bool, int, error) {
	max := 0
	maxSeen := false
	for ; pos < len(pattern); pos++ {
		c := pattern[pos]
		switch {
		case c >= '0' && c <= '9':
			max = max*10 + int(c-'0')
			maxSeen = true
		case c == '}':
			if !maxSeen {
				max = -1
			}
			return finishQuantifier(pattern, pos, min, max)
		default:
			return 0, 0, false, pos, &SyntaxError{Pos: pos, Err: ErrQuantifierBadChar}
		}
	}
	return 0, 0, false, pos, &SyntaxError{Pos: pos, Err: ErrUnclosedQuantifier}
}

// finishQuantifier is positioned at the closing '}'; it only needs to peek
// one byte ahead for a lazy '?' marker.
func finishQuantifier(pattern []byte, pos, min, max int) (int, int, bool, int, error) {
	greedy := true
	if pos+1 < len(pattern) && pattern[pos+1] == '?' {
		pos++
		greedy = false
	}
	return min, max, greedy, pos, nil
}
