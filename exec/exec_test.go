package exec

import (
	"testing"

	"github.com/zorgnax/rx/compile"
)

func mustCompile(t *testing.T, pattern string) *compile.Rx {
	t.Helper()
	rx, err := compile.Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", pattern, err)
	}
	return rx
}

func TestMatchLiteral(t *testing.T) {
	rx := mustCompile(t, "hello")
	m := NewMatcher()
	if !Match(rx, m, []byte("say hello there"), 0) {
		t.Fatalf("expected match")
	}
	cap, ok := m.Capture(0)
	if !ok {
		t.Fatalf("expected whole-match capture")
	}
	if cap.Start != 4 || cap.End != 9 {
		t.Errorf("Capture(0) = %+v, want {4 9}", cap)
	}
}

func TestMatchNoMatch(t *testing.T) {
	rx := mustCompile(t, "xyz")
	m := NewMatcher()
	if Match(rx, m, []byte("abc"), 0) {
		t.Fatalf("expected no match")
	}
}

func TestMatchIPAddress(t *testing.T) {
	rx := mustCompile(t, `\d+\.\d+\.\d+\.\d+`)
	m := NewMatcher()
	if !Match(rx, m, []byte("server at 192.168.1.1 today"), 0) {
		t.Fatalf("expected match")
	}
	cap, _ := m.Capture(0)
	got := "server at 192.168.1.1 today"[cap.Start:cap.End]
	if got != "192.168.1.1" {
		t.Errorf("got %q, want 192.168.1.1", got)
	}
}

func TestMatchGreedyStar(t *testing.T) {
	rx := mustCompile(t, "a(a|b)*a")
	m := NewMatcher()
	haystack := []byte("aababaa")
	if !Match(rx, m, haystack, 0) {
		t.Fatalf("expected match")
	}
	cap, _ := m.Capture(0)
	if string(haystack[cap.Start:cap.End]) != "aababaa" {
		t.Errorf("greedy match = %q, want entire string consumed", haystack[cap.Start:cap.End])
	}
}

func TestMatchNonGreedyStar(t *testing.T) {
	rx := mustCompile(t, "a(a|b)*?a")
	m := NewMatcher()
	haystack := []byte("aababaa")
	if !Match(rx, m, haystack, 0) {
		t.Fatalf("expected match")
	}
	cap, _ := m.Capture(0)
	if string(haystack[cap.Start:cap.End]) != "aa" {
		t.Errorf("non-greedy match = %q, want aa", haystack[cap.Start:cap.End])
	}
}

func TestMatchLazyBrace(t *testing.T) {
	rx := mustCompile(t, "ra{2,4}?")
	m := NewMatcher()
	haystack := []byte("raaaa")
	if !Match(rx, m, haystack, 0) {
		t.Fatalf("expected match")
	}
	cap, _ := m.Capture(0)
	if string(haystack[cap.Start:cap.End]) != "raa" {
		t.Errorf("lazy brace match = %q, want raa", haystack[cap.Start:cap.End])
	}
}

func TestMatchGreekRange(t *testing.T) {
	// alpha..omega written as literal UTF-8 code points inside the brackets.
	rx := mustCompile(t, `[α-ω]+`)
	m := NewMatcher()
	haystack := []byte("τὸ μῆνιν")
	if !Match(rx, m, haystack, 0) {
		t.Fatalf("expected match against Greek text")
	}
}

func TestMatchStartOfLineAnchor(t *testing.T) {
	rx := mustCompile(t, "^^def")
	m := NewMatcher()
	haystack := []byte("abc\ndef")
	if !Match(rx, m, haystack, 0) {
		t.Fatalf("expected match at start of second line")
	}
	cap, _ := m.Capture(0)
	if cap.Start != 4 {
		t.Errorf("match start = %d, want 4", cap.Start)
	}
}

func TestMatchWordBoundary(t *testing.T) {
	rx := mustCompile(t, `\<def\>`)
	m := NewMatcher()
	if !Match(rx, m, []byte("abc def ghi"), 0) {
		t.Fatalf("expected word-bounded match")
	}
	if Match(rx, NewMatcher(), []byte("abcdefghi"), 0) {
		t.Fatalf("expected no match when def is not its own word")
	}
}

func TestMatchNestedCaptures(t *testing.T) {
	rx := mustCompile(t, "b((an)+)(an)")
	m := NewMatcher()
	haystack := []byte("banananan")
	if !Match(rx, m, haystack, 0) {
		t.Fatalf("expected match")
	}
	whole, _ := m.Capture(0)
	if string(haystack[whole.Start:whole.End]) != "banananan" {
		t.Errorf("whole match = %q", haystack[whole.Start:whole.End])
	}
	g1, ok := m.Capture(1)
	if !ok {
		t.Fatalf("expected capture group 1 to be defined")
	}
	g3, ok := m.Capture(3)
	if !ok {
		t.Fatalf("expected capture group 3 to be defined")
	}
	if g1.Start < whole.Start || g3.End > whole.End {
		t.Errorf("nested captures escaped the whole match: g1=%+v g3=%+v whole=%+v", g1, g3, whole)
	}
}

func TestMatchGlobalIgnorecase(t *testing.T) {
	rx := mustCompile(t, `[a]+\c`)
	m := NewMatcher()
	if !Match(rx, m, []byte("AAaa"), 0) {
		t.Fatalf("expected ignorecase match")
	}
}

func TestMatchIterateGlobal(t *testing.T) {
	rx := mustCompile(t, `\w+`)
	haystack := []byte("one two three")
	var words []string
	pos := 0
	for pos <= len(haystack) {
		m := NewMatcher()
		if !Match(rx, m, haystack, pos) {
			break
		}
		cap, _ := m.Capture(0)
		words = append(words, string(haystack[cap.Start:cap.End]))
		if cap.End == cap.Start {
			pos = cap.End + 1
		} else {
			pos = cap.End
		}
	}
	if len(words) != 3 || words[0] != "one" || words[1] != "two" || words[2] != "three" {
		t.Errorf("words = %v, want [one two three]", words)
	}
}

// fixedPicker always reports a single fixed candidate position, then
// nothing after it, so tests can observe exactly which positions MatchFrom
// actually probed.
type fixedPicker struct {
	at      int
	offered bool
}

func (p *fixedPicker) NextCandidate(haystack []byte, at int) (int, bool) {
	if p.offered || at > p.at {
		return 0, false
	}
	p.offered = true
	return p.at, true
}

func TestMatchFromUsesCandidatePicker(t *testing.T) {
	rx := mustCompile(t, "hello")
	m := NewMatcher()
	picker := &fixedPicker{at: 4}
	if !MatchFrom(rx, m, []byte("say hello there"), 0, picker) {
		t.Fatalf("expected match via picker-supplied candidate")
	}
	cap, _ := m.Capture(0)
	if cap.Start != 4 || cap.End != 9 {
		t.Errorf("Capture(0) = %+v, want {4 9}", cap)
	}
}

func TestMatchFromStopsWhenPickerExhausted(t *testing.T) {
	rx := mustCompile(t, "zzz")
	m := NewMatcher()
	picker := &fixedPicker{at: 2}
	if MatchFrom(rx, m, []byte("no such thing here"), 0, picker) {
		t.Fatalf("expected no match: picker never offers a candidate that matches")
	}
}
