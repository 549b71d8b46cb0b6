// Package graph defines the compiled NFA node representation: a flat,
// append-only pool of fixed-size nodes addressed by index. Nodes never hold
// pointers to each other, only NodeID indices into the owning Pool, so the
// intentional Quantifier<->SubgraphEnd cycle falls out naturally and the
// whole graph can be discarded as one allocation.
package graph

import (
	"fmt"

	"github.com/zorgnax/rx/internal/conv"
)

// NodeID is a stable index into a Pool's node array. It is only stable
// within one compilation: Pool never reorders or removes nodes once added.
type NodeID uint32

// InvalidNode marks an edge that has not been patched yet or deliberately
// points nowhere.
const InvalidNode NodeID = 0xFFFFFFFF

// Tag discriminates the variant a Node represents. Node carries every
// variant's fields inline (tagged sum, not a pointer-or-interface union) so
// the pool stays one contiguous, cache-friendly slice.
type Tag uint8

const (
	// TagEmpty is a pass-through node that consumes nothing.
	TagEmpty Tag = iota
	// TagChar matches one exact literal byte.
	TagChar
	// TagCharSet matches one raw byte against a named byte set (Any, \d, \w, ...).
	TagCharSet
	// TagCharClass matches one decoded UTF-8 code point against a compiled bracket class.
	TagCharClass
	// TagAssertion is a zero-width condition on the current position.
	TagAssertion
	// TagBranch is a nondeterministic choice between Next and Next2.
	TagBranch
	// TagCaptureStart records the entry position of capture group CaptureIndex.
	TagCaptureStart
	// TagCaptureEnd records the exit position of capture group CaptureIndex.
	TagCaptureEnd
	// TagGroupStart is a non-capturing group boundary; behaves like TagEmpty at runtime.
	TagGroupStart
	// TagGroupEnd is the matching close of TagGroupStart.
	TagGroupEnd
	// TagQuantifier is the entry to a bounded or unbounded repetition.
	TagQuantifier
	// TagSubgraphEnd is the end of one quantifier iteration; Next2 points back at its Quantifier.
	TagSubgraphEnd
	// TagMatchEnd is the accept state.
	TagMatchEnd
)

func (t Tag) String() string {
	switch t {
	case TagEmpty:
		return "Empty"
	case TagChar:
		return "Char"
	case TagCharSet:
		return "CharSet"
	case TagCharClass:
		return "CharClass"
	case TagAssertion:
		return "Assertion"
	case TagBranch:
		return "Branch"
	case TagCaptureStart:
		return "CaptureStart"
	case TagCaptureEnd:
		return "CaptureEnd"
	case TagGroupStart:
		return "GroupStart"
	case TagGroupEnd:
		return "GroupEnd"
	case TagQuantifier:
		return "Quantifier"
	case TagSubgraphEnd:
		return "SubgraphEnd"
	case TagMatchEnd:
		return "MatchEnd"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// CharSetKind names one of the seven built-in byte sets plus "any".
type CharSetKind uint8

const (
	SetAny CharSetKind = iota
	SetNotNL
	SetDigit
	SetNotDigit
	SetWord
	SetNotWord
	SetSpace
	SetNotSpace
)

func (k CharSetKind) String() string {
	switch k {
	case SetAny:
		return "."
	case SetNotNL:
		return "\\N"
	case SetDigit:
		return "\\d"
	case SetNotDigit:
		return "\\D"
	case SetWord:
		return "\\w"
	case SetNotWord:
		return "\\W"
	case SetSpace:
		return "\\s"
	case SetNotSpace:
		return "\\S"
	default:
		return fmt.Sprintf("CharSet(%d)", uint8(k))
	}
}

// AssertKind names one of the seven zero-width assertions.
type AssertKind uint8

const (
	AssertSOS AssertKind = iota // start of string
	AssertSOL                   // start of line
	AssertEOS                   // end of string
	AssertEOL                   // end of line
	AssertSOP                   // start of attempt/position
	AssertSOW                   // start of word
	AssertEOW                   // end of word
)

func (k AssertKind) String() string {
	switch k {
	case AssertSOS:
		return "^"
	case AssertSOL:
		return "^^"
	case AssertEOS:
		return "$"
	case AssertEOL:
		return "$$"
	case AssertSOP:
		return "\\G"
	case AssertSOW:
		return "\\<"
	case AssertEOW:
		return "\\>"
	default:
		return fmt.Sprintf("Assertion(%d)", uint8(k))
	}
}

// Node is a single compiled NFA vertex. Every field is present regardless of
// Tag; only the fields documented for that Tag are meaningful. This mirrors
// how the teacher's nfa.State keeps lo/hi/next/left/right/transitions all
// inline rather than behind an interface.
type Node struct {
	Tag  Tag
	Next NodeID // primary successor: all tags except TagMatchEnd and TagSubgraphEnd use this

	// Next2 is the secondary successor.
	//   TagBranch:      the "else" branch, tried on backtrack.
	//   TagSubgraphEnd: the paired Quantifier node (fixed back-edge).
	// Unused by every other tag (Pool.New initializes it to InvalidNode).
	Next2 NodeID

	Value byte // TagChar: the literal byte to match

	SetKind CharSetKind // TagCharSet

	ClassIdx uint32 // TagCharClass: index into Arena.Classes

	AssertKind AssertKind // TagAssertion

	CaptureIndex uint32 // TagCaptureStart / TagCaptureEnd: 1..N

	QuantIdx uint32 // TagQuantifier: index into Arena.Quants
}

// Pool is a preallocated, append-only array of Nodes. Indices handed out by
// New are stable for the lifetime of one compilation.
type Pool struct {
	Nodes []Node
}

// NewPool allocates a Pool with room for capacity nodes before it needs to
// grow. Compile preflights this to 2*(len(pattern)+1), the same "each
// character adds at most 2 nodes" estimate the original library uses.
func NewPool(capacity int) *Pool {
	return &Pool{Nodes: make([]Node, 0, capacity)}
}

// New appends a fresh TagEmpty node and returns its NodeID.
func (p *Pool) New() NodeID {
	id := NodeID(conv.IntToUint32(len(p.Nodes)))
	p.Nodes = append(p.Nodes, Node{Tag: TagEmpty, Next: InvalidNode, Next2: InvalidNode})
	return id
}

// Get returns a pointer to the node at id for in-place mutation during
// compilation. The returned pointer is only valid until the next New call
// that grows the underlying slice; callers within the compiler never hold
// it across a New.
func (p *Pool) Get(id NodeID) *Node {
	return &p.Nodes[id]
}

// Len returns the number of nodes currently in the pool.
func (p *Pool) Len() int {
	return len(p.Nodes)
}
