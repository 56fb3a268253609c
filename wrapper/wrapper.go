// Package wrapper synthesizes the bounds-checked slice form of a native
// function from its parameter classifications.
package wrapper

import (
	"fmt"

	"github.com/emirpasic/gods/sets/hashset"

	"github.com/ardanlabs/ffi-wrapgen/classify"
	"github.com/ardanlabs/ffi-wrapgen/errors"
	"github.com/ardanlabs/ffi-wrapgen/interop"
)

// ViewKind is how a wrapper parameter is presented to callers.
type ViewKind int

const (
	// ViewNone passes the raw type through unchanged.
	ViewNone ViewKind = iota
	// ViewFixed is a slice that must have exactly ArraySize elements.
	ViewFixed
	// ViewSlice is a slice of any length.
	ViewSlice
)

// Param is one parameter of a wrapper.
type Param struct {
	Name string
	// Index is the position of the parameter in the raw function.
	Index     int
	View      ViewKind
	ReadOnly  bool
	ArraySize int
	// Elem is the slice element type of a view.
	Elem string
	// Type is the raw type, used as is when View is ViewNone.
	Type interop.Type
}

// GoType returns the Go spelling of the parameter type.
func (p Param) GoType() string {
	if p.View == ViewNone {
		return p.Type.Go
	}
	return "[]" + p.Elem
}

// CheckKind is the kind of runtime length assertion.
type CheckKind int

const (
	// CheckFixedLength asserts len(Param) == Size.
	CheckFixedLength CheckKind = iota
	// CheckSameLength asserts len(Param) == len(Other).
	CheckSameLength
)

// Check is a runtime length assertion emitted at the top of a wrapper.
type Check struct {
	Kind  CheckKind
	Param string
	Size  int
	Other string
}

// ArgKind is how the forwarding call rebuilds one raw argument.
type ArgKind int

const (
	// ArgPassThrough forwards the wrapper parameter unchanged.
	ArgPassThrough ArgKind = iota
	// ArgPinned passes the address of a pinned slice.
	ArgPinned
	// ArgFixedView passes the slice reinterpreted as a pointer to an array.
	ArgFixedView
	// ArgLength passes the length of Source converted to Type.
	ArgLength
)

// Arg is one argument of the forwarding call, in raw parameter order.
type Arg struct {
	Kind  ArgKind
	Param string
	// Source is the buffer whose length a consumed size is derived from.
	Source    string
	Type      interop.Type
	Pass      interop.PassMode
	ArraySize int
	Elem      string
}

// Body describes the generated wrapper body: checks first, then pins, then
// the forwarding call.
type Body struct {
	Checks []Check
	// Pins are the buffer parameters pinned for the duration of the call.
	Pins    []string
	Args    []Arg
	Returns bool
}

// Function is the wrapper of a raw native function.
type Function struct {
	// Name is the C name of the wrapped function.
	Name   string
	Target *interop.Function
	Params []Param
	Body   Body
	// Classifications are the paired classifications of Target's parameters.
	Classifications []classify.Classification
}

// Synthesize builds the wrapper of fn from its paired classifications. It
// returns nil when fn has no buffer parameters. fn is not modified.
func Synthesize(fn *interop.Function, cs []classify.Classification) (*Function, error) {
	if len(cs) != len(fn.Params) {
		return nil, errors.Invariant(errors.PhaseSynthesize, fn.Name,
			fmt.Sprintf("%d classifications for %d parameters", len(cs), len(fn.Params)))
	}

	if !classify.HasBuffers(cs) {
		return nil, nil
	}

	w := Function{
		Name:            fn.Name,
		Target:          fn,
		Classifications: cs,
		Params:          params(cs),
	}

	if want := len(fn.Params) - classify.ConsumedCount(cs); len(w.Params) != want {
		return nil, errors.Invariant(errors.PhaseSynthesize, fn.Name,
			fmt.Sprintf("wrapper has %d parameters, want %d", len(w.Params), want))
	}

	w.Body = Body{
		Checks:  checks(cs),
		Pins:    pins(cs),
		Args:    args(cs),
		Returns: !fn.Return.IsVoid(),
	}

	return &w, nil
}

func params(cs []classify.Classification) []Param {
	var ps []Param

	for _, c := range cs {
		p := Param{
			Name:     c.Name(),
			Index:    c.Index,
			ReadOnly: c.ReadOnly,
			Type:     c.Param.Type,
		}

		switch c.Kind {
		case classify.KindSize:
			if c.Consumed() {
				continue
			}
		case classify.KindFixedBuffer:
			p.View = ViewFixed
			p.ArraySize = c.ArraySize
			p.Elem = c.Param.Type.Elem
		case classify.KindBuffer:
			p.View = ViewSlice
			p.Elem = "byte"
		}

		ps = append(ps, p)
	}

	return ps
}

// checks returns the fixed length assertions followed by the equal length
// assertions between buffers sharing a size. Each sized buffer is compared
// with the first other buffer of its size; a pair is skipped when both
// buffers were already compared.
func checks(cs []classify.Classification) []Check {
	var out []Check

	for _, c := range cs {
		if c.Kind == classify.KindFixedBuffer {
			out = append(out, Check{
				Kind:  CheckFixedLength,
				Param: c.Name(),
				Size:  c.ArraySize,
			})
		}
	}

	seen := hashset.New()
	for _, size := range cs {
		if size.Kind != classify.KindSize || len(size.SizedBuffers) < 2 {
			continue
		}

		for _, j := range size.SizedBuffers {
			left := cs[j].Name()
			right := ""
			for _, k := range size.SizedBuffers {
				if cs[k].Name() != left {
					right = cs[k].Name()
					break
				}
			}
			if right == "" {
				continue
			}

			if seen.Contains(left) && seen.Contains(right) {
				continue
			}
			seen.Add(left, right)

			out = append(out, Check{
				Kind:  CheckSameLength,
				Param: left,
				Other: right,
			})
		}
	}

	return out
}

func pins(cs []classify.Classification) []string {
	var out []string
	for _, c := range cs {
		if c.Kind == classify.KindBuffer {
			out = append(out, c.Name())
		}
	}
	return out
}

func args(cs []classify.Classification) []Arg {
	out := make([]Arg, 0, len(cs))

	for _, c := range cs {
		a := Arg{
			Kind:  ArgPassThrough,
			Param: c.Name(),
			Type:  c.Param.Type,
			Pass:  c.Param.Pass,
		}

		switch {
		case c.Kind == classify.KindBuffer:
			a.Kind = ArgPinned
		case c.Kind == classify.KindFixedBuffer:
			a.Kind = ArgFixedView
			a.ArraySize = c.ArraySize
			a.Elem = c.Param.Type.Elem
		case c.Consumed():
			a.Kind = ArgLength
			a.Source = cs[c.SizedBuffers[0]].Name()
		}

		out = append(out, a)
	}

	return out
}
