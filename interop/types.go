// Package interop resolves parsed C declarations into the Go types used by
// the generated bindings.
//
// Every C type goes through an ordered list of Resolvers. The first resolver
// that accepts a type decides its Go and FFI spelling; the list can be
// extended so that, for example, fixed size arrays map to pointer-to-array
// views instead of decaying to raw pointers.
package interop

import (
	"github.com/ardanlabs/ffi-wrapgen/parser"
)

// TypeKind is the shape of a resolved type.
type TypeKind int

const (
	KindVoid TypeKind = iota
	KindScalar
	KindString
	// KindBuffer is a pointer to unsized primitive memory, carried as uintptr.
	KindBuffer
	// KindFixedArray is a pointer to a statically sized array, carried as *[N]T.
	KindFixedArray
	KindStruct
	KindStructPointer
	KindHandle
	// KindEmbeddedArray is an array stored inline in a struct.
	KindEmbeddedArray
)

var kindNames = [...]string{
	KindVoid:          "void",
	KindScalar:        "scalar",
	KindString:        "string",
	KindBuffer:        "buffer",
	KindFixedArray:    "fixed-array",
	KindStruct:        "struct",
	KindStructPointer: "struct-pointer",
	KindHandle:        "handle",
	KindEmbeddedArray: "embedded-array",
}

func (k TypeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// PassMode records how an argument travels to the native function.
type PassMode int

const (
	PassValue PassMode = iota
	PassIn
	PassOut
	PassInOut
)

func (m PassMode) String() string {
	switch m {
	case PassIn:
		return "in"
	case PassOut:
		return "out"
	case PassInOut:
		return "inout"
	default:
		return "value"
	}
}

// Type is a C type resolved for one context.
type Type struct {
	Kind TypeKind
	// Go is the Go spelling used in generated signatures.
	Go string
	// FFI is the libffi type descriptor expression.
	FFI string
	// Elem is the Go element type of buffers and arrays.
	Elem string
	// ElemConst is true when the pointee or array element is const-qualified.
	ElemConst bool
	ArraySize int
	C         parser.CType
}

// IsVoid reports whether t is the void return type.
func (t Type) IsVoid() bool {
	return t.Kind == KindVoid
}

type Parameter struct {
	Name string
	Type Type
	Pass PassMode
}

// Function is a native function signature with resolved parameter types.
// It is never modified after conversion.
type Function struct {
	Name     string
	Return   Type
	Params   []Parameter
	Variadic bool
}

// Param returns the parameter declared with name.
func (f *Function) Param(name string) (Parameter, bool) {
	for _, p := range f.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}
