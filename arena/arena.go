// Package arena implements the auxiliary-data store a compiled pattern
// owns alongside its node pool: quantifier descriptors, character-class
// descriptors, and the concatenated byte payloads (individual values,
// range pairs, named-set kinds, and original bracket text) that a
// ClassDesc references by offset.
//
// The original C implementation keeps one untyped byte buffer and
// reinterprets slices of it as C structs via pointer casts. Go has no safe
// equivalent of that cast, and reaching for unsafe.Pointer here would buy
// nothing: the point of the arena is "one contiguous, append-only
// allocation owned by the pattern, freed as a unit," which a handful of
// growable typed slices already gives us without unsafe code. Quants and
// Classes are typed slices; Payload is the single contiguous byte buffer
// the ClassDesc offsets index into.
package arena

import (
	"github.com/zorgnax/rx/graph"
	"github.com/zorgnax/rx/internal/conv"
)

// QuantDesc describes one brace quantifier ({m}, {m,} or {m,n}); star,
// plus and quest compile to Branch nodes and have no QuantDesc.
type QuantDesc struct {
	Min        int           // >= 0
	Max        int           // -1 means unbounded, else >= Min (unvalidated if the source wrote max < min, see Compiler)
	Greedy     bool
	InnerStart graph.NodeID // entry edge into the quantifier body subgraph
}

// ClassDesc describes one compiled bracket expression [...].
type ClassDesc struct {
	Negated bool

	// ValuesOff/ValuesLen index a run of concatenated UTF-8 code point
	// sequences in Payload: individual literal values in the class.
	ValuesOff, ValuesLen int

	// RangesOff/RangesLen index a run of alternating low,high UTF-8 code
	// point sequences in Payload.
	RangesOff, RangesLen int

	// SetsOff/SetsLen index a run of one byte per named set
	// (graph.CharSetKind values) in Payload.
	SetsOff, SetsLen int

	// TextOff/TextLen index the original bracket text (including the
	// brackets) in Payload, kept only for diagnostics.
	TextOff, TextLen int
}

// Arena holds every auxiliary structure a single compiled Rx needs beyond
// its node pool.
type Arena struct {
	Quants  []QuantDesc
	Classes []ClassDesc
	Payload []byte
}

// New returns an empty Arena sized for a pattern of the given length. The
// payload guess (patternLen) is just a starting capacity; Payload grows by
// ordinary append doubling past that.
func New(patternLen int) *Arena {
	return &Arena{
		Payload: make([]byte, 0, patternLen),
	}
}

// AddQuant appends a QuantDesc and returns its index.
func (a *Arena) AddQuant(q QuantDesc) uint32 {
	idx := conv.IntToUint32(len(a.Quants))
	a.Quants = append(a.Quants, q)
	return idx
}

// Quant returns a pointer to the QuantDesc at idx for in-place mutation
// (InnerStart is patched in after the body subgraph is compiled).
func (a *Arena) Quant(idx uint32) *QuantDesc {
	return &a.Quants[idx]
}

// AddClass appends a ClassDesc and returns its index.
func (a *Arena) AddClass(c ClassDesc) uint32 {
	idx := conv.IntToUint32(len(a.Classes))
	a.Classes = append(a.Classes, c)
	return idx
}

// Class returns a pointer to the ClassDesc at idx.
func (a *Arena) Class(idx uint32) *ClassDesc {
	return &a.Classes[idx]
}

// AppendPayload appends b to Payload and returns (offset, length) the
// caller should store to find it again.
func (a *Arena) AppendPayload(b []byte) (offset, length int) {
	offset = len(a.Payload)
	a.Payload = append(a.Payload, b...)
	return offset, len(b)
}

// AppendByte appends a single byte to Payload and returns its offset.
func (a *Arena) AppendByte(b byte) int {
	offset := len(a.Payload)
	a.Payload = append(a.Payload, b)
	return offset
}

// Slice returns the payload bytes [off, off+length).
func (a *Arena) Slice(off, length int) []byte {
	return a.Payload[off : off+length]
}
