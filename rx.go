// Package rx is a regular expression engine built as a graph compiler plus
// an explicit-trail backtracking executor: no host recursion, UTF-8-aware
// character classes, and a small custom assertion syntax (\G \< \> ^^ $$)
// layered on top of the usual anchors.
//
// Basic usage:
//
//	re, err := rx.Compile(`\d+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	match := re.Find([]byte("hello 123 world"))
//	fmt.Println(string(match)) // "123"
//
// Case-insensitive matching is a pattern-wide flag set with \c anywhere in
// the pattern, not a compile option:
//
//	re := rx.MustCompile(`[a]+\c`)
//	re.MatchString("AAaa") // true
package rx

import (
	"github.com/zorgnax/rx/compile"
	"github.com/zorgnax/rx/exec"
	"github.com/zorgnax/rx/prefilter"
)

// Regex is a compiled pattern. A Regex holds no per-match state, so it is
// safe to use concurrently from multiple goroutines; each Find-family call
// takes its own Matcher internally.
type Regex struct {
	rx      *compile.Rx
	pattern string

	// pf accelerates unanchored search by jumping to candidate start
	// offsets instead of probing every byte position. Nil when the
	// pattern has no required literal prefix to extract (most notably
	// any pattern anchored at ^ or \G, where every offset is already a
	// single candidate) and when the pattern sets \c.
	pf *prefilter.Prefilter
}

// Compile parses pattern and returns the compiled Regex, or an error
// describing the first syntax problem found.
func Compile(pattern string) (*Regex, error) {
	compiled, err := compile.Compile(pattern)
	if err != nil {
		return nil, err
	}
	re := &Regex{rx: compiled, pattern: pattern}
	if pf, ok := prefilter.Build(compiled, prefilter.DefaultConfig()); ok {
		re.pf = pf
	}
	return re, nil
}

// MustCompile is like Compile but panics if pattern fails to compile. It is
// intended for regexes known to be valid at init time.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("rx: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// String returns the source pattern re was compiled from.
func (re *Regex) String() string {
	return re.pattern
}

// NumSubexp returns the number of parenthesized (capturing) subexpressions
// in the pattern.
func (re *Regex) NumSubexp() int {
	return re.rx.CapCount
}

func (re *Regex) findFrom(b []byte, start int) (exec.Capture, *exec.Matcher, bool) {
	m := exec.NewMatcher()
	var picker exec.CandidatePicker
	if re.pf != nil {
		picker = re.pf
	}
	if start > len(b) || !exec.MatchFrom(re.rx, m, b, start, picker) {
		return exec.Capture{}, nil, false
	}
	whole, _ := m.Capture(0)
	return whole, m, true
}

// Match reports whether b contains any match of the pattern.
func (re *Regex) Match(b []byte) bool {
	_, _, ok := re.findFrom(b, 0)
	return ok
}

// MatchString reports whether s contains any match of the pattern.
func (re *Regex) MatchString(s string) bool {
	return re.Match([]byte(s))
}

// Find returns the leftmost match of the pattern in b, or nil if there is
// no match.
func (re *Regex) Find(b []byte) []byte {
	whole, _, ok := re.findFrom(b, 0)
	if !ok {
		return nil
	}
	return b[whole.Start:whole.End]
}

// FindString returns the leftmost match of the pattern in s, or "" if
// there is no match.
func (re *Regex) FindString(s string) string {
	m := re.Find([]byte(s))
	if m == nil {
		return ""
	}
	return string(m)
}

// FindIndex returns a two-element slice holding the byte offsets of the
// leftmost match in b: b[loc[0]:loc[1]]. Returns nil if there is no match.
func (re *Regex) FindIndex(b []byte) []int {
	whole, _, ok := re.findFrom(b, 0)
	if !ok {
		return nil
	}
	return []int{whole.Start, whole.End}
}

// FindStringIndex is FindIndex applied to s.
func (re *Regex) FindStringIndex(s string) []int {
	return re.FindIndex([]byte(s))
}

// nextStart advances past a match for the purposes of a global search: a
// zero-width match must still make progress, or FindAll would spin forever
// at the same position.
func nextStart(whole exec.Capture) int {
	if whole.End == whole.Start {
		return whole.End + 1
	}
	return whole.End
}

// FindAll returns all non-overlapping matches of the pattern in b. If n
// >= 0, at most n matches are returned; n < 0 means unlimited.
func (re *Regex) FindAll(b []byte, n int) [][]byte {
	if n == 0 {
		return nil
	}
	var matches [][]byte
	pos := 0
	for pos <= len(b) {
		whole, _, ok := re.findFrom(b, pos)
		if !ok {
			break
		}
		matches = append(matches, b[whole.Start:whole.End])
		pos = nextStart(whole)
		if n > 0 && len(matches) == n {
			break
		}
	}
	return matches
}

// FindAllString is FindAll applied to s.
func (re *Regex) FindAllString(s string, n int) []string {
	raw := re.FindAll([]byte(s), n)
	if raw == nil {
		return nil
	}
	out := make([]string, len(raw))
	for i, m := range raw {
		out[i] = string(m)
	}
	return out
}

// FindSubmatch returns a slice of byte slices holding the text of the
// leftmost match and its capturing groups. Slot 0 is the whole match.
// An unmatched group's slot is nil. Returns nil if there is no match.
func (re *Regex) FindSubmatch(b []byte) [][]byte {
	_, m, ok := re.findFrom(b, 0)
	if !ok {
		return nil
	}
	out := make([][]byte, m.NumCaptures())
	for i := range out {
		c, defined := m.Capture(i)
		if defined {
			out[i] = b[c.Start:c.End]
		}
	}
	return out
}

// FindStringSubmatch is FindSubmatch applied to s.
func (re *Regex) FindStringSubmatch(s string) []string {
	raw := re.FindSubmatch([]byte(s))
	if raw == nil {
		return nil
	}
	out := make([]string, len(raw))
	for i, m := range raw {
		if m != nil {
			out[i] = string(m)
		}
	}
	return out
}

// FindSubmatchIndex returns byte offset pairs for the leftmost match and
// its capturing groups: result[2*i], result[2*i+1] are the start and end
// of slot i, or -1, -1 if that slot did not participate in the match.
// Returns nil if there is no match.
func (re *Regex) FindSubmatchIndex(b []byte) []int {
	_, m, ok := re.findFrom(b, 0)
	if !ok {
		return nil
	}
	out := make([]int, 2*m.NumCaptures())
	for i := 0; i < m.NumCaptures(); i++ {
		c, defined := m.Capture(i)
		if defined {
			out[2*i], out[2*i+1] = c.Start, c.End
		} else {
			out[2*i], out[2*i+1] = -1, -1
		}
	}
	return out
}

// FindStringSubmatchIndex is FindSubmatchIndex applied to s.
func (re *Regex) FindStringSubmatchIndex(s string) []int {
	return re.FindSubmatchIndex([]byte(s))
}
