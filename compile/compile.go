package compile

import (
	"github.com/zorgnax/rx/arena"
	"github.com/zorgnax/rx/graph"
	"github.com/zorgnax/rx/internal/utf8codec"
)

// Rx is a compiled pattern: a node graph plus the arena its Char­Class and
// Quantifier nodes reference. It holds no state from any particular match
// attempt, so one Rx is safe to reuse across many matchers.
type Rx struct {
	Pattern    string
	Pool       *graph.Pool
	Arena      *arena.Arena
	Start      graph.NodeID
	CapCount   int
	IgnoreCase bool
}

// capFrame snapshots the enclosing group/alternation state across a
// parenthesized subexpression, restored when its ')' is reached.
type capFrame struct {
	capStart graph.NodeID
	orEnd    graph.NodeID
}

// compiler holds the cursor-based parser's mutable state: pos walks the
// pattern once left to right, node is the open "tail" edge the next
// construct splices onto, atomStart is the most recently completed atom
// (what a trailing */+/?/{m,n} applies to), and orEnd threads together the
// loose ends of alternatives within the current group so ')' or end of
// pattern can join them back into one tail.
type compiler struct {
	pattern []byte
	pool    *graph.Pool
	arena   *arena.Arena

	start     graph.NodeID
	node      graph.NodeID
	atomStart graph.NodeID
	orEnd     graph.NodeID
	capStack  []capFrame
	capCount  uint32

	ignoreCase bool
}

// Compile parses pattern and returns its compiled graph, or a *SyntaxError
// describing the first problem found.
func Compile(pattern string) (*Rx, error) {
	raw := []byte(pattern)

	capDepthHint := 0
	for _, b := range raw {
		if b == '(' {
			capDepthHint++
		}
	}

	comp := &compiler{
		pattern:   raw,
		pool:      graph.NewPool(2 * (len(raw) + 1)),
		arena:     arena.New(len(raw)),
		atomStart: graph.InvalidNode,
		orEnd:     graph.InvalidNode,
		capStack:  make([]capFrame, 0, capDepthHint),
	}
	start := comp.pool.New()
	comp.start = start
	comp.node = start

	for pos := 0; pos < len(raw); pos++ {
		c := raw[pos]
		var newPos int
		var err error
		switch c {
		case '(':
			newPos, err = comp.openParen(pos)
		case ')':
			newPos, err = comp.closeParen(pos)
		case '|':
			newPos, err = comp.alternation(pos)
		case '*':
			newPos, err = comp.star(pos)
		case '+':
			newPos, err = comp.plus(pos)
		case '?':
			newPos, err = comp.quest(pos)
		case '{':
			newPos, err = comp.repeat(pos)
		case '\\':
			newPos, err = comp.escape(pos)
		case '^':
			newPos, err = comp.caret(pos)
		case '$':
			newPos, err = comp.dollar(pos)
		case '[':
			newPos, err = comp.bracket(pos)
		case '.':
			newPos, err = comp.dot(pos)
		default:
			newPos, err = comp.literal(pos)
		}
		if err != nil {
			if se, ok := err.(*SyntaxError); ok && se.Pattern == "" {
				se.Pattern = pattern
			}
			return nil, err
		}
		pos = newPos
	}

	if len(comp.capStack) > 0 {
		return nil, &SyntaxError{Pattern: pattern, Pos: len(raw), Err: ErrUnclosedGroup}
	}
	if comp.orEnd != graph.InvalidNode {
		comp.pool.Get(comp.node).Next = comp.orEnd
		comp.node = comp.orEnd
	}
	comp.pool.Get(comp.node).Tag = graph.TagMatchEnd

	return &Rx{
		Pattern:    pattern,
		Pool:       comp.pool,
		Arena:      comp.arena,
		Start:      start,
		CapCount:   int(comp.capCount),
		IgnoreCase: comp.ignoreCase,
	}, nil
}

func (comp *compiler) openParen(pos int) (int, error) {
	nonCapturing := pos+2 < len(comp.pattern) && comp.pattern[pos+1] == '?' && comp.pattern[pos+2] == ':'
	if nonCapturing {
		pos += 2
	}

	node2 := comp.pool.New()
	n := comp.pool.Get(comp.node)
	if nonCapturing {
		n.Tag = graph.TagGroupStart
	} else {
		comp.capCount++
		n.Tag = graph.TagCaptureStart
		n.CaptureIndex = comp.capCount
	}
	n.Next = node2

	comp.capStack = append(comp.capStack, capFrame{capStart: comp.node, orEnd: comp.orEnd})
	comp.orEnd = graph.InvalidNode
	comp.atomStart = graph.InvalidNode
	comp.node = node2
	return pos, nil
}

func (comp *compiler) closeParen(pos int) (int, error) {
	if len(comp.capStack) == 0 {
		return pos, &SyntaxError{Pos: pos, Err: ErrUnexpectedCloseParen}
	}
	if comp.orEnd != graph.InvalidNode {
		comp.pool.Get(comp.node).Next = comp.orEnd
		comp.node = comp.orEnd
	}

	frame := comp.capStack[len(comp.capStack)-1]
	comp.capStack = comp.capStack[:len(comp.capStack)-1]
	comp.orEnd = frame.orEnd
	comp.atomStart = frame.capStart

	node2 := comp.pool.New()
	atomStartNode := comp.pool.Get(comp.atomStart)
	isCapture := atomStartNode.Tag == graph.TagCaptureStart
	captureIndex := atomStartNode.CaptureIndex

	n := comp.pool.Get(comp.node)
	if isCapture {
		n.Tag = graph.TagCaptureEnd
	} else {
		n.Tag = graph.TagGroupEnd
	}
	n.CaptureIndex = captureIndex
	n.Next = node2
	comp.node = node2
	return pos, nil
}

func (comp *compiler) alternation(pos int) (int, error) {
	node2 := comp.pool.New()
	node3 := comp.pool.New()

	var orStart graph.NodeID
	if len(comp.capStack) > 0 {
		frame := comp.capStack[len(comp.capStack)-1]
		orStart = comp.pool.Get(frame.capStart).Next
	} else {
		orStart = comp.start
	}

	orStartNode := comp.pool.Get(orStart)
	*comp.pool.Get(node2) = *orStartNode
	orStartNode.Tag = graph.TagBranch
	orStartNode.Next = node2
	orStartNode.Next2 = node3

	if comp.orEnd != graph.InvalidNode {
		comp.pool.Get(comp.node).Next = comp.orEnd
	} else {
		comp.orEnd = comp.node
	}
	comp.node = node3
	return pos, nil
}

func (comp *compiler) star(pos int) (int, error) {
	if comp.atomStart == graph.InvalidNode {
		return pos, &SyntaxError{Pos: pos, Err: ErrDanglingQuantifier}
	}
	node2 := comp.pool.New()
	node3 := comp.pool.New()

	atomStartNode := comp.pool.Get(comp.atomStart)
	*comp.pool.Get(node2) = *atomStartNode
	atomStartNode.Tag = graph.TagBranch

	curNode := comp.pool.Get(comp.node)
	curNode.Tag = graph.TagBranch

	nonGreedy := pos+1 < len(comp.pattern) && comp.pattern[pos+1] == '?'
	if nonGreedy {
		pos++
		atomStartNode.Next, atomStartNode.Next2 = node3, node2
		curNode.Next, curNode.Next2 = node3, node2
	} else {
		atomStartNode.Next, atomStartNode.Next2 = node2, node3
		curNode.Next, curNode.Next2 = node2, node3
	}
	comp.node = node3
	return pos, nil
}

func (comp *compiler) plus(pos int) (int, error) {
	if comp.atomStart == graph.InvalidNode {
		return pos, &SyntaxError{Pos: pos, Err: ErrDanglingQuantifier}
	}
	node2 := comp.pool.New()
	curNode := comp.pool.Get(comp.node)
	curNode.Tag = graph.TagBranch

	nonGreedy := pos+1 < len(comp.pattern) && comp.pattern[pos+1] == '?'
	if nonGreedy {
		pos++
		curNode.Next, curNode.Next2 = node2, comp.atomStart
	} else {
		curNode.Next, curNode.Next2 = comp.atomStart, node2
	}
	comp.node = node2
	return pos, nil
}

func (comp *compiler) quest(pos int) (int, error) {
	if comp.atomStart == graph.InvalidNode {
		return pos, &SyntaxError{Pos: pos, Err: ErrDanglingQuantifier}
	}
	node2 := comp.pool.New()
	atomStartNode := comp.pool.Get(comp.atomStart)
	*comp.pool.Get(node2) = *atomStartNode
	atomStartNode.Tag = graph.TagBranch

	nonGreedy := pos+1 < len(comp.pattern) && comp.pattern[pos+1] == '?'
	if nonGreedy {
		pos++
		atomStartNode.Next, atomStartNode.Next2 = comp.node, node2
	} else {
		atomStartNode.Next, atomStartNode.Next2 = node2, comp.node
	}
	return pos, nil
}

func (comp *compiler) repeat(pos int) (int, error) {
	if comp.atomStart == graph.InvalidNode {
		return pos, &SyntaxError{Pos: pos, Err: ErrDanglingQuantifier}
	}
	min, max, greedy, newPos, err := parseQuantifier(comp.pattern, pos)
	if err != nil {
		return pos, err
	}

	node2 := comp.pool.New()
	node3 := comp.pool.New()

	atomStartNode := comp.pool.Get(comp.atomStart)
	*comp.pool.Get(node2) = *atomStartNode
	atomStartNode.Tag = graph.TagQuantifier
	atomStartNode.Next = node3

	quantIdx := comp.arena.AddQuant(arena.QuantDesc{Min: min, Max: max, Greedy: greedy, InnerStart: node2})
	comp.pool.Get(comp.atomStart).QuantIdx = quantIdx

	curNode := comp.pool.Get(comp.node)
	curNode.Tag = graph.TagSubgraphEnd
	curNode.Next2 = comp.atomStart

	comp.node = node3
	return newPos, nil
}

func (comp *compiler) escape(pos int) (int, error) {
	pattern := comp.pattern
	if pos+1 == len(pattern) {
		return pos, &SyntaxError{Pos: pos, Err: ErrTrailingBackslash}
	}
	pos++
	c2 := pattern[pos]

	switch c2 {
	case 'G':
		return comp.emitAssertion(graph.AssertSOP, pos)
	case '<':
		return comp.emitAssertion(graph.AssertSOW, pos)
	case '>':
		return comp.emitAssertion(graph.AssertEOW, pos)
	case 'c':
		comp.ignoreCase = true
		return pos, nil
	}

	if b, ok := simpleEscapeByte(c2); ok {
		return comp.emitChar(b, pos)
	}
	if kind, ok := namedSetKind(c2); ok {
		return comp.emitCharSet(kind, pos)
	}

	switch c2 {
	case 'x':
		if pos+2 >= len(pattern) {
			return pos, &SyntaxError{Pos: pos, Err: ErrBadEscape}
		}
		v, ok := utf8codec.HexToInt(pattern[pos+1:], 2)
		if !ok {
			return pos, &SyntaxError{Pos: pos, Err: ErrBadEscape}
		}
		return comp.emitChar(byte(v), pos+2)
	case 'u', 'U':
		count := 4
		if c2 == 'U' {
			count = 8
		}
		if pos+count >= len(pattern) {
			return pos, &SyntaxError{Pos: pos, Err: ErrBadEscape}
		}
		v, ok := utf8codec.HexToInt(pattern[pos+1:], count)
		if !ok {
			return pos, &SyntaxError{Pos: pos, Err: ErrBadEscape}
		}
		var buf [4]byte
		enc, n := utf8codec.Encode(buf[:0], rune(v))
		if n == 0 {
			return pos, &SyntaxError{Pos: pos, Err: ErrBadEscape}
		}
		newPos := pos + count
		comp.atomStart = comp.node
		for i := 0; i < n; i++ {
			node2 := comp.pool.New()
			nd := comp.pool.Get(comp.node)
			nd.Tag = graph.TagChar
			nd.Value = enc[i]
			nd.Next = node2
			comp.node = node2
		}
		return newPos, nil
	default:
		// Unrecognized escape matches itself: \\ \* \+ \? and so on.
		return comp.emitChar(c2, pos)
	}
}

func (comp *compiler) emitAssertion(kind graph.AssertKind, pos int) (int, error) {
	node2 := comp.pool.New()
	n := comp.pool.Get(comp.node)
	n.Tag = graph.TagAssertion
	n.AssertKind = kind
	n.Next = node2
	comp.node = node2
	return pos, nil
}

func (comp *compiler) emitChar(value byte, pos int) (int, error) {
	node2 := comp.pool.New()
	n := comp.pool.Get(comp.node)
	n.Tag = graph.TagChar
	n.Value = value
	n.Next = node2
	comp.atomStart = comp.node
	comp.node = node2
	return pos, nil
}

func (comp *compiler) emitCharSet(kind graph.CharSetKind, pos int) (int, error) {
	node2 := comp.pool.New()
	n := comp.pool.Get(comp.node)
	n.Tag = graph.TagCharSet
	n.SetKind = kind
	n.Next = node2
	comp.atomStart = comp.node
	comp.node = node2
	return pos, nil
}

func (comp *compiler) caret(pos int) (int, error) {
	kind := graph.AssertSOS
	if pos+1 < len(comp.pattern) && comp.pattern[pos+1] == '^' {
		pos++
		kind = graph.AssertSOL
	}
	return comp.emitAssertion(kind, pos)
}

func (comp *compiler) dollar(pos int) (int, error) {
	kind := graph.AssertEOS
	if pos+1 < len(comp.pattern) && comp.pattern[pos+1] == '$' {
		pos++
		kind = graph.AssertEOL
	}
	return comp.emitAssertion(kind, pos)
}

func (comp *compiler) bracket(pos int) (int, error) {
	classIdx, newPos, err := comp.parseClassInit(pos)
	if err != nil {
		return pos, err
	}
	node2 := comp.pool.New()
	n := comp.pool.Get(comp.node)
	n.Tag = graph.TagCharClass
	n.ClassIdx = classIdx
	n.Next = node2
	comp.atomStart = comp.node
	comp.node = node2
	return newPos, nil
}

func (comp *compiler) dot(pos int) (int, error) {
	return comp.emitCharSet(graph.SetAny, pos)
}

func (comp *compiler) literal(pos int) (int, error) {
	return comp.emitChar(comp.pattern[pos], pos)
}
