// Package exec implements the backtracking executor: an explicit loop over
// an append-only trail of (node, position, visit) entries. There is no
// host-language recursion; every alternative the matcher might still need
// to retry lives as an entry in the trail, and failure handling is a
// tail-to-head scan over it rather than a return up a call stack.
package exec

import (
	"github.com/zorgnax/rx/charclass"
	"github.com/zorgnax/rx/compile"
	"github.com/zorgnax/rx/graph"
	"github.com/zorgnax/rx/internal/utf8codec"
)

// TrailEntry is one choice point recorded during a match attempt: a Branch
// offers its Next2 as the retry, a Quantifier/SubgraphEnd pair offers
// another iteration or an early exit depending on Visit.
type TrailEntry struct {
	Node  graph.NodeID
	Pos   int
	Visit int
}

// Capture is one capturing group's extent within the haystack, as a
// half-open byte range [Start, End).
type Capture struct {
	Start, End int
}

// Matcher holds the reusable, per-goroutine working memory for match
// attempts against one compiled Rx. The same Matcher can be used for many
// calls to Match; each call resets the trail and capture slots but keeps
// their underlying arrays, avoiding an allocation per attempt.
type Matcher struct {
	trail []TrailEntry

	capDefined []bool
	capStart   []int
	capEnd     []int

	success bool
}

// NewMatcher returns an empty Matcher ready for repeated use.
func NewMatcher() *Matcher {
	return &Matcher{
		trail: make([]TrailEntry, 0, 16),
	}
}

func (m *Matcher) pushTrail(e TrailEntry) int {
	m.trail = append(m.trail, e)
	return len(m.trail) - 1
}

// Capture returns capture slot k (0 is the whole match) from the most
// recent successful Match call.
func (m *Matcher) Capture(k int) (Capture, bool) {
	if !m.success || k < 0 || k >= len(m.capDefined) || !m.capDefined[k] {
		return Capture{}, false
	}
	return Capture{Start: m.capStart[k], End: m.capEnd[k]}, true
}

// NumCaptures returns one more than the pattern's capture group count (slot
// 0 is always the whole match), valid after a successful Match.
func (m *Matcher) NumCaptures() int {
	return len(m.capDefined)
}

func isWordByte(b byte) bool {
	return charclass.IsWordByte(b)
}

// CandidatePicker narrows where a failed attempt resumes searching. Given a
// haystack and a position, it reports the next position at or after it
// where a match could possibly start, or found=false once no such position
// remains. An implementation must never skip a position that could start a
// match; it may only skip positions it has proven cannot.
type CandidatePicker interface {
	NextCandidate(haystack []byte, at int) (start int, found bool)
}

// Match runs rx's compiled graph against haystack, searching for a match
// starting at or after startPos. On success it fills m's capture slots and
// returns true; on failure m is marked unsuccessful and Capture reports no
// slot as defined.
func Match(rx *compile.Rx, m *Matcher, haystack []byte, startPos int) bool {
	return MatchFrom(rx, m, haystack, startPos, nil)
}

// MatchFrom is Match with an optional CandidatePicker. When picker is
// non-nil, every advance of the search position - the initial attempt and
// every slide forward after a failed one - is routed through
// picker.NextCandidate instead of probing the very next byte, so a caller
// holding a literal-prefix prefilter can skip positions no match could
// start at. A nil picker reproduces Match's plain byte-at-a-time slide.
func MatchFrom(rx *compile.Rx, m *Matcher, haystack []byte, startPos int, picker CandidatePicker) bool {
	m.success = false
	m.trail = m.trail[:0]

	pool := rx.Pool
	ar := rx.Arena
	strSize := len(haystack)

	startPosAttempt := startPos
	if picker != nil {
		cand, found := picker.NextCandidate(haystack, startPosAttempt)
		if !found {
			return false
		}
		startPosAttempt = cand
	}
	node := rx.Start
	pos := startPosAttempt

	var retryIgnorecase bool
	var retryBuf [4]byte

	for {
		retryIgnorecase = false

	retry:
		var c byte
		if pos < strSize {
			c = haystack[pos]
		}
		if retryIgnorecase {
			switch {
			case c >= 'a' && c <= 'z':
				c -= 'a' - 'A'
			case c >= 'A' && c <= 'Z':
				c += 'a' - 'A'
			default:
				goto tryAlternative
			}
		}

		{
			n := pool.Get(node)
			switch n.Tag {
			case graph.TagMatchEnd:
				finalizeCaptures(m, rx, startPosAttempt, pos)
				m.success = true
				return true

			case graph.TagChar:
				if pos >= strSize {
					goto tryAlternative
				}
				if c == n.Value {
					node = n.Next
					pos++
					continue
				}

			case graph.TagBranch, graph.TagCaptureStart, graph.TagCaptureEnd:
				m.pushTrail(TrailEntry{Node: node, Pos: pos})
				node = n.Next
				continue

			case graph.TagGroupStart, graph.TagGroupEnd:
				node = n.Next
				continue

			case graph.TagQuantifier:
				idx := m.pushTrail(TrailEntry{Node: node, Pos: pos})
				q := ar.Quant(n.QuantIdx)
				if q.Greedy || q.Min != 0 {
					node = q.InnerStart
					m.trail[idx].Visit = 1
				} else {
					node = n.Next
				}
				continue

			case graph.TagSubgraphEnd:
				pairIdx := -1
				for i := len(m.trail) - 1; i >= 0; i-- {
					if m.trail[i].Node == n.Next2 {
						pairIdx = i
						break
					}
				}
				if pairIdx < 0 {
					goto tryAlternative
				}
				p := &m.trail[pairIdx]
				quantNode := pool.Get(p.Node)
				q := ar.Quant(quantNode.QuantIdx)
				if q.Greedy {
					switch {
					case p.Visit == q.Max:
						node = quantNode.Next
					case p.Visit < q.Min:
						node = q.InnerStart
						p.Visit++
					default:
						m.pushTrail(TrailEntry{Node: p.Node, Pos: pos, Visit: p.Visit + 1})
						node = q.InnerStart
					}
				} else {
					if p.Visit < q.Min {
						node = q.InnerStart
						p.Visit++
					} else {
						m.pushTrail(TrailEntry{Node: p.Node, Pos: pos, Visit: p.Visit})
						node = quantNode.Next
					}
				}
				continue

			case graph.TagAssertion:
				if assertionHolds(n.AssertKind, haystack, pos, startPosAttempt, c) {
					node = n.Next
					continue
				}

			case graph.TagCharClass:
				if pos >= strSize {
					goto tryAlternative
				}
				width := utf8codec.DecodeWidth(haystack, pos)
				test := haystack[pos : pos+width]
				if retryIgnorecase {
					copy(retryBuf[:width], test)
					retryBuf[0] = c
					test = retryBuf[:width]
				}
				cd := ar.Class(n.ClassIdx)
				if charclass.Test(ar, cd, test, c) {
					node = n.Next
					pos += width
					continue
				}

			case graph.TagCharSet:
				if pos >= strSize {
					goto tryAlternative
				}
				if charclass.TestSet(n.SetKind, c) {
					node = n.Next
					pos++
					continue
				}

			case graph.TagEmpty:
				node = n.Next
				continue
			}
		}

	tryAlternative:
		if rx.IgnoreCase {
			if retryIgnorecase {
				retryIgnorecase = false
			} else {
				retryIgnorecase = true
				goto retry
			}
		}

		if retried := tryFailureScan(rx, m, &node, &pos); retried {
			goto retry
		}

		startNode := pool.Get(rx.Start)
		if startNode.Tag == graph.TagAssertion && (startNode.AssertKind == graph.AssertSOS || startNode.AssertKind == graph.AssertSOP) {
			return false
		}

		next := startPosAttempt + 1
		if picker != nil {
			cand, found := picker.NextCandidate(haystack, next)
			if !found {
				return false
			}
			next = cand
		} else if next > strSize {
			return false
		}

		m.trail = m.trail[:0]
		startPosAttempt = next
		pos = startPosAttempt
		node = rx.Start
	}
}

// tryFailureScan walks the trail tail-to-head looking for an entry that
// still has an alternative to offer. A Branch always does (its Next2).
// A greedy Quantifier offers its Next exit only once Visit has gone past
// Min (falling back below Min would violate the lower bound); a
// non-greedy Quantifier offers one more body iteration as long as Visit
// hasn't reached Max. Branch and greedy Quantifier entries truncate the
// trail to the retry point; non-greedy Quantifier entries do not, since the
// already-recorded iterations remain valid history for outer constructs.
func tryFailureScan(rx *compile.Rx, m *Matcher, node *graph.NodeID, pos *int) bool {
	pool := rx.Pool
	ar := rx.Arena
	for i := len(m.trail) - 1; i >= 0; i-- {
		p := &m.trail[i]
		n := pool.Get(p.Node)
		switch n.Tag {
		case graph.TagBranch:
			*node = n.Next2
			*pos = p.Pos
			m.trail = m.trail[:i]
			return true
		case graph.TagQuantifier:
			q := ar.Quant(n.QuantIdx)
			if q.Greedy {
				if p.Visit > q.Min {
					*node = n.Next
					*pos = p.Pos
					m.trail = m.trail[:i]
					return true
				}
			} else {
				if p.Visit != q.Max {
					p.Visit++
					*node = q.InnerStart
					*pos = p.Pos
					return true
				}
			}
		}
	}
	return false
}

func assertionHolds(kind graph.AssertKind, haystack []byte, pos, startPosAttempt int, c byte) bool {
	switch kind {
	case graph.AssertSOS:
		return pos == 0
	case graph.AssertSOL:
		return pos == 0 || haystack[pos-1] == '\n'
	case graph.AssertEOS:
		return pos == len(haystack)
	case graph.AssertEOL:
		return pos == len(haystack) || c == '\n' || c == '\r'
	case graph.AssertSOP:
		return pos == startPosAttempt
	case graph.AssertSOW:
		before := wordByteBefore(haystack, pos)
		after := isWordByte(c)
		return !before && after
	case graph.AssertEOW:
		before := wordByteBefore(haystack, pos)
		after := isWordByte(c)
		return before && !after
	default:
		return false
	}
}

func wordByteBefore(haystack []byte, pos int) bool {
	if pos == 0 {
		return false
	}
	return isWordByte(haystack[pos-1])
}

// finalizeCaptures sets slot 0 to the whole match and then replays the
// trail start-to-end applying CaptureStart/CaptureEnd writes. Later
// iterations overwrite earlier ones deliberately: for a repeated capture
// group like ((an)+), the final iteration's span is what survives.
func finalizeCaptures(m *Matcher, rx *compile.Rx, startPosAttempt, pos int) {
	capCount := rx.CapCount + 1
	if cap(m.capDefined) < capCount {
		m.capDefined = make([]bool, capCount)
		m.capStart = make([]int, capCount)
		m.capEnd = make([]int, capCount)
	} else {
		m.capDefined = m.capDefined[:capCount]
		m.capStart = m.capStart[:capCount]
		m.capEnd = m.capEnd[:capCount]
		for i := range m.capDefined {
			m.capDefined[i] = false
			m.capStart[i] = 0
			m.capEnd[i] = 0
		}
	}

	m.capDefined[0] = true
	m.capStart[0] = startPosAttempt
	m.capEnd[0] = pos

	pool := rx.Pool
	for i := 0; i < len(m.trail); i++ {
		p := &m.trail[i]
		n := pool.Get(p.Node)
		switch n.Tag {
		case graph.TagCaptureStart:
			j := n.CaptureIndex
			m.capDefined[j] = true
			m.capStart[j] = p.Pos
		case graph.TagCaptureEnd:
			j := n.CaptureIndex
			m.capEnd[j] = p.Pos
		}
	}
}
