// Package classify infers the role of each native function parameter from
// its type and name alone, and reconstructs the (pointer, length) pairs that
// C APIs leave implicit.
package classify

import (
	"fmt"

	"github.com/ardanlabs/ffi-wrapgen/interop"
)

// Kind is the role of a parameter in a native call.
type Kind int

const (
	KindDefault Kind = iota
	KindFixedBuffer
	KindBuffer
	KindSize
)

func (k Kind) String() string {
	switch k {
	case KindFixedBuffer:
		return "FixedBuffer"
	case KindBuffer:
		return "Buffer"
	case KindSize:
		return "Size"
	default:
		return "Default"
	}
}

// NoParam marks an absent back-reference.
const NoParam = -1

// Classification wraps one parameter of a function. Classifications of a
// function live in a single slice and refer to each other by index.
type Classification struct {
	Param     interop.Parameter
	Index     int
	Kind      Kind
	ReadOnly  bool
	ArraySize int

	// SizeParam is the index of the Size classification measuring this
	// Buffer, or NoParam.
	SizeParam int

	// SizedBuffers are the indices of the Buffers measured by this Size,
	// in declaration order.
	SizedBuffers []int
}

// Name returns the C name of the classified parameter.
func (c Classification) Name() string {
	return c.Param.Name
}

// Consumed reports whether c is a Size bound to at least one buffer. Consumed
// sizes are derived from buffer lengths and disappear from wrappers.
func (c Classification) Consumed() bool {
	return c.Kind == KindSize && len(c.SizedBuffers) > 0
}

// IsBuffer reports whether c is a fixed or length-tagged buffer.
func (c Classification) IsBuffer() bool {
	return c.Kind == KindFixedBuffer || c.Kind == KindBuffer
}

func (c Classification) String() string {
	switch c.Kind {
	case KindFixedBuffer:
		return fmt.Sprintf("%s:%s[%d]", c.Param.Name, c.Kind, c.ArraySize)
	default:
		return fmt.Sprintf("%s:%s", c.Param.Name, c.Kind)
	}
}

// Classify returns the classification of p at position index. It never
// modifies p.
func Classify(p interop.Parameter, index int) Classification {
	c := Classification{
		Param:     p,
		Index:     index,
		Kind:      KindDefault,
		SizeParam: NoParam,
	}

	switch {
	case p.Type.Kind == interop.KindFixedArray:
		c.Kind = KindFixedBuffer
		c.ReadOnly = p.Type.ElemConst
		c.ArraySize = p.Type.ArraySize

	case p.Type.Kind == interop.KindBuffer:
		c.Kind = KindBuffer
		c.ReadOnly = p.Type.ElemConst

	case IsSizeName(p.Name):
		c.Kind = KindSize
	}

	return c
}

// ClassifyAll classifies every parameter of fn in declaration order.
func ClassifyAll(fn *interop.Function) []Classification {
	cs := make([]Classification, len(fn.Params))
	for i, p := range fn.Params {
		cs[i] = Classify(p, i)
	}
	return cs
}

// HasBuffers reports whether any classification is a buffer, which makes
// the function eligible for a wrapper.
func HasBuffers(cs []Classification) bool {
	for _, c := range cs {
		if c.IsBuffer() {
			return true
		}
	}
	return false
}
