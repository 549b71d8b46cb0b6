package rx

import (
	"reflect"
	"testing"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{"simple literal", "hello", false},
		{"digit", `\d`, false},
		{"word", `\w+`, false},
		{"alternation", "foo|bar", false},
		{"repetition", "a+", false},
		{"brace quantifier", "a{2,4}", false},
		{"bracket class", "[a-z]+", false},
		{"unclosed group", "(", true},
		{"unmatched close paren", ")", true},
		{"dangling star", "*", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := Compile(tt.pattern)
			if (err != nil) != tt.wantErr {
				t.Errorf("Compile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && re == nil {
				t.Error("Compile() returned nil")
			}
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustCompile() did not panic on invalid pattern")
		}
	}()
	MustCompile("(")
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    bool
	}{
		{"simple match", "hello", "hello world", true},
		{"no match", "hello", "goodbye world", false},
		{"digit match", `\d`, "age 42", true},
		{"digit no match", `\d`, "no digits here", false},
		{"ip address", `\d+\.\d+\.\d+\.\d+`, "10.0.0.1", true},
		{"word boundary", `\<cat\>`, "a cat sat", true},
		{"word boundary miss", `\<cat\>`, "concatenate", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			if got := re.MatchString(tt.input); got != tt.want {
				t.Errorf("MatchString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFindString(t *testing.T) {
	re := MustCompile(`\d+`)
	if got := re.FindString("age: 42"); got != "42" {
		t.Errorf("FindString = %q, want 42", got)
	}
	if got := re.FindString("no digits"); got != "" {
		t.Errorf("FindString = %q, want empty", got)
	}
}

func TestFindStringIndex(t *testing.T) {
	re := MustCompile(`\d+`)
	loc := re.FindStringIndex("age: 42")
	if loc == nil || loc[0] != 5 || loc[1] != 7 {
		t.Errorf("FindStringIndex = %v, want [5 7]", loc)
	}
}

func TestFindAllString(t *testing.T) {
	re := MustCompile(`\w+`)
	got := re.FindAllString("one two three", -1)
	want := []string{"one", "two", "three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindAllString = %v, want %v", got, want)
	}
}

func TestFindAllStringLimit(t *testing.T) {
	re := MustCompile(`\w+`)
	got := re.FindAllString("one two three", 2)
	want := []string{"one", "two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindAllString(n=2) = %v, want %v", got, want)
	}
}

func TestFindStringSubmatch(t *testing.T) {
	re := MustCompile(`(\d+)-(\d+)`)
	got := re.FindStringSubmatch("range 10-20 here")
	want := []string{"10-20", "10", "20"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindStringSubmatch = %v, want %v", got, want)
	}
}

func TestFindStringSubmatchIndex(t *testing.T) {
	re := MustCompile(`(\d+)-(\d+)`)
	got := re.FindStringSubmatchIndex("range 10-20 here")
	if len(got) != 6 {
		t.Fatalf("len(FindStringSubmatchIndex) = %d, want 6", len(got))
	}
	if "range 10-20 here"[got[0]:got[1]] != "10-20" {
		t.Errorf("whole match slot = %q, want 10-20", "range 10-20 here"[got[0]:got[1]])
	}
}

func TestNestedCapturesNotAllCaptured(t *testing.T) {
	re := MustCompile(`b((an)+)(an)`)
	got := re.FindStringSubmatch("banananan")
	if got[0] != "banananan" {
		t.Errorf("whole match = %q", got[0])
	}
	// group 2 is inside a repeated group: only its last iteration survives.
	if got[2] == "" {
		t.Errorf("expected group 2 to be defined from its last iteration")
	}
}

func TestNumSubexp(t *testing.T) {
	re := MustCompile(`(a)(b(c))`)
	if got := re.NumSubexp(); got != 3 {
		t.Errorf("NumSubexp() = %d, want 3", got)
	}
}

func TestString(t *testing.T) {
	re := MustCompile(`\d+`)
	if got := re.String(); got != `\d+` {
		t.Errorf("String() = %q, want %q", got, `\d+`)
	}
}

func TestGlobalIgnorecase(t *testing.T) {
	re := MustCompile(`[a]+\c`)
	if !re.MatchString("AAaa") {
		t.Errorf("expected ignorecase match")
	}
}

func TestCompileIdempotence(t *testing.T) {
	p := `(\w+)@(\w+)\.(\w+)`
	re1 := MustCompile(p)
	re2 := MustCompile(p)
	input := "contact me@example.com today"
	if re1.FindString(input) != re2.FindString(input) {
		t.Errorf("two compilations of the same pattern disagreed")
	}
}

func TestFindUsesPrefilterForLiteralPrefix(t *testing.T) {
	re := MustCompile("needle")
	if re.pf == nil {
		t.Fatalf("expected a prefilter to be built for a literal pattern")
	}
	haystack := "hay hay hay needle hay"
	loc := re.FindStringIndex(haystack)
	want := []int{12, 18}
	if loc == nil || loc[0] != want[0] || loc[1] != want[1] {
		t.Errorf("FindStringIndex = %v, want %v", loc, want)
	}
}

func TestNoPrefilterWithoutLiteralPrefix(t *testing.T) {
	re := MustCompile(`\d+`)
	if re.pf != nil {
		t.Errorf("expected no prefilter for a pattern with no literal prefix")
	}
	if !re.MatchString("abc 42") {
		t.Errorf("expected match without a prefilter")
	}
}

func TestLiteralRoundTripSelfMatch(t *testing.T) {
	literals := []string{"hello", "a.b.c", "x+y", "100%"}
	for _, lit := range literals {
		re := MustCompile(regexpQuoteForTest(lit))
		if !re.MatchString(lit) {
			t.Errorf("escaped literal %q did not self-match", lit)
		}
	}
}

// regexpQuoteForTest escapes metacharacters this engine treats specially so
// a literal string can be compiled back into a pattern that matches only
// itself.
func regexpQuoteForTest(s string) string {
	special := `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		for _, sp := range []byte(special) {
			if c == sp {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, c)
	}
	return string(out)
}
