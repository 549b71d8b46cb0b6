// Package dump renders a compiled Rx as a small graph description
// language, one edge or node-kind label per line. Unlike the tool this is ported from, it
// never touches a file or shells out to a renderer: Dump returns a string
// and leaves what to do with it to the caller.
package dump

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zorgnax/rx/compile"
	"github.com/zorgnax/rx/graph"
)

func charLabel(b byte) string {
	switch b {
	case '\x1b':
		return `\e`
	case '\r':
		return `\r`
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	default:
		return string(rune(b))
	}
}

func quantLabel(min, max int, greedy bool) string {
	var braces string
	switch {
	case min == max:
		braces = fmt.Sprintf("{%d}", min)
	case max == -1:
		braces = fmt.Sprintf("{%d,}", min)
	default:
		braces = fmt.Sprintf("{%d,%d}", min, max)
	}
	if !greedy {
		braces += "?"
	}
	return braces
}

// Dump renders rx's compiled node graph as "id -> id [label]" lines, one
// per edge, in node-index order. Branch, assertion, class, quantifier and
// match nodes also get an "id [kind]" line of their own.
func Dump(rx *compile.Rx) string {
	var b strings.Builder
	pool := rx.Pool
	ar := rx.Arena

	for i := 0; i < pool.Len(); i++ {
		id := graph.NodeID(i)
		n := pool.Get(id)
		i1 := strconv.Itoa(int(id))
		i2 := strconv.Itoa(int(n.Next))

		switch n.Tag {
		case graph.TagChar:
			fmt.Fprintf(&b, "%s -> %s [%s]\n", i1, i2, charLabel(n.Value))
		case graph.TagCaptureStart:
			fmt.Fprintf(&b, "%s -> %s [(%d]\n", i1, i2, n.CaptureIndex)
		case graph.TagCaptureEnd:
			fmt.Fprintf(&b, "%s -> %s [)%d]\n", i1, i2, n.CaptureIndex)
		case graph.TagGroupStart:
			fmt.Fprintf(&b, "%s -> %s [(?]\n", i1, i2)
		case graph.TagGroupEnd:
			fmt.Fprintf(&b, "%s -> %s [)?]\n", i1, i2)
		case graph.TagBranch:
			i3 := strconv.Itoa(int(n.Next2))
			fmt.Fprintf(&b, "%s [branch]\n", i1)
			fmt.Fprintf(&b, "%s -> %s\n", i1, i2)
			fmt.Fprintf(&b, "%s -> %s [alt]\n", i1, i3)
		case graph.TagAssertion:
			fmt.Fprintf(&b, "%s [assert]\n", i1)
			fmt.Fprintf(&b, "%s -> %s [%s]\n", i1, i2, n.AssertKind.String())
		case graph.TagCharClass:
			cd := ar.Class(n.ClassIdx)
			text := ar.Slice(cd.TextOff, cd.TextLen)
			fmt.Fprintf(&b, "%s [class]\n", i1)
			fmt.Fprintf(&b, "%s -> %s [%s]\n", i1, i2, text)
		case graph.TagCharSet:
			fmt.Fprintf(&b, "%s [class]\n", i1)
			fmt.Fprintf(&b, "%s -> %s [%s]\n", i1, i2, n.SetKind.String())
		case graph.TagQuantifier:
			q := ar.Quant(n.QuantIdx)
			i3 := strconv.Itoa(int(q.InnerStart))
			fmt.Fprintf(&b, "%s [quant]\n", i1)
			if q.Greedy {
				fmt.Fprintf(&b, "%s -> %s [alt]\n", i1, i2)
				fmt.Fprintf(&b, "%s -> %s [%s]\n", i1, i3, quantLabel(q.Min, q.Max, q.Greedy))
			} else {
				fmt.Fprintf(&b, "%s -> %s\n", i1, i2)
				fmt.Fprintf(&b, "%s -> %s [alt,%s]\n", i1, i3, quantLabel(q.Min, q.Max, q.Greedy))
			}
		case graph.TagMatchEnd:
			fmt.Fprintf(&b, "%s [match]\n", i1)
		default:
			if n.Next != graph.InvalidNode {
				fmt.Fprintf(&b, "%s -> %s\n", i1, i2)
			}
		}
	}
	return b.String()
}
