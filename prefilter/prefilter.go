// Package prefilter extracts the required literal prefixes of a compiled
// pattern and uses an Aho-Corasick automaton to narrow where an unanchored
// search needs to probe. It never changes whether a given start position
// accepts or rejects: exec.Match still runs the full backtracking walk at
// every candidate position this package offers. This is a literal-prefix
// accelerator, not a DFA front end or optimizer.
package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/zorgnax/rx/compile"
	"github.com/zorgnax/rx/graph"
)

// ExtractorConfig bounds how much work literal extraction will do before
// giving up on a pattern. Patterns with many alternations or very long
// required prefixes are not worth the automaton-construction cost.
type ExtractorConfig struct {
	// MaxLiterals caps how many distinct alternative prefixes extraction
	// will collect before bailing out.
	MaxLiterals int

	// MaxLiteralLen caps how many bytes of any one literal extraction
	// will follow before stopping that branch early.
	MaxLiteralLen int

	// MaxWork caps the total number of graph nodes extraction will visit,
	// guarding against pathological branch fan-out.
	MaxWork int
}

// DefaultConfig returns the limits used when none are given explicitly.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   32,
		MaxLiteralLen: 32,
		MaxWork:       4096,
	}
}

// Prefilter wraps an Aho-Corasick automaton built from a pattern's required
// literal prefixes.
type Prefilter struct {
	automaton *ahocorasick.Automaton
}

type walkItem struct {
	node   graph.NodeID
	prefix []byte
}

// extractPrefixes walks rx's graph from its start node collecting every
// literal byte run that must appear at the start of a match. A Branch
// forks the walk into both alternatives; any other non-literal node (a
// class, a quantifier, an assertion, the match end) closes out the
// current literal. If any path reaches such a node with zero bytes
// collected, the pattern can match starting with any byte at all, so no
// literal set would safely narrow the search, and extraction fails.
func extractPrefixes(rx *compile.Rx, cfg ExtractorConfig) ([][]byte, bool) {
	pool := rx.Pool
	work := []walkItem{{node: rx.Start}}
	var literals [][]byte
	visited := 0

	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]

		visited++
		if visited > cfg.MaxWork {
			return nil, false
		}

		n := pool.Get(item.node)
		switch n.Tag {
		case graph.TagChar:
			if len(item.prefix) >= cfg.MaxLiteralLen {
				literals = append(literals, item.prefix)
				break
			}
			next := append(append([]byte{}, item.prefix...), n.Value)
			work = append(work, walkItem{node: n.Next, prefix: next})
		case graph.TagEmpty, graph.TagGroupStart, graph.TagGroupEnd,
			graph.TagCaptureStart, graph.TagCaptureEnd:
			work = append(work, walkItem{node: n.Next, prefix: item.prefix})
		case graph.TagBranch:
			work = append(work, walkItem{node: n.Next, prefix: item.prefix})
			work = append(work, walkItem{node: n.Next2, prefix: item.prefix})
		default:
			if len(item.prefix) == 0 {
				return nil, false
			}
			literals = append(literals, item.prefix)
		}

		if len(literals) > cfg.MaxLiterals {
			return nil, false
		}
	}

	if len(literals) == 0 {
		return nil, false
	}
	return literals, true
}

// Build extracts rx's required literal prefixes and compiles them into an
// Aho-Corasick automaton. ok is false when no useful literal set could be
// extracted (the caller should fall back to scanning every start position
// itself). ok is also false for a pattern that sets \c, whose literals can
// match in either case while the automaton compares bytes exactly.
func Build(rx *compile.Rx, cfg ExtractorConfig) (*Prefilter, bool) {
	if rx.IgnoreCase {
		return nil, false
	}
	literals, ok := extractPrefixes(rx, cfg)
	if !ok {
		return nil, false
	}

	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern(lit)
	}
	automaton, err := builder.Build()
	if err != nil {
		return nil, false
	}
	return &Prefilter{automaton: automaton}, true
}

// NextCandidate returns the earliest position at or after `at` where one of
// the pattern's required literal prefixes occurs, for the caller to use as
// the next unanchored search attempt. found is false once no further
// literal occurrence exists in haystack.
func (p *Prefilter) NextCandidate(haystack []byte, at int) (start int, found bool) {
	if at >= len(haystack) {
		return 0, false
	}
	m := p.automaton.Find(haystack, at)
	if m == nil {
		return 0, false
	}
	return m.Start, true
}

// IsMatch reports whether any required literal prefix occurs anywhere in
// haystack, a cheap pre-check before attempting a full search at all.
func (p *Prefilter) IsMatch(haystack []byte) bool {
	return p.automaton.IsMatch(haystack)
}
