package interop

import (
	"fmt"

	"github.com/ardanlabs/ffi-wrapgen/parser"
)

// ContextKind is where a type appears.
type ContextKind int

const (
	ContextParameter ContextKind = iota
	ContextField
	ContextReturn
)

// Context is passed to every resolver.
type Context struct {
	Kind   ContextKind
	Header *parser.Header
}

// Resolver optionally substitutes the interop type for a C type. It returns
// false to let the next resolver in the list decide.
type Resolver interface {
	Resolve(ct parser.CType, ctx Context) (Type, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ct parser.CType, ctx Context) (Type, bool)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ct parser.CType, ctx Context) (Type, bool) {
	return f(ct, ctx)
}

// DefaultResolvers returns the resolver list in priority order.
func DefaultResolvers() []Resolver {
	return []Resolver{
		ResolverFunc(resolveFixedArray),
		ResolverFunc(resolveEmbeddedArray),
		ResolverFunc(resolveString),
		ResolverFunc(resolveStructPointer),
		ResolverFunc(resolveBuffer),
		ResolverFunc(resolveHandle),
		ResolverFunc(resolveStruct),
		ResolverFunc(resolveEnum),
		ResolverFunc(resolvePrimitive),
	}
}

// resolveFixedArray maps a statically sized array of primitives in parameter
// position to a pointer to a Go array. Arrays embedded in structs are left to
// resolveEmbeddedArray.
func resolveFixedArray(ct parser.CType, ctx Context) (Type, bool) {
	if !ct.IsArray || ct.IsPointer || ctx.Kind != ContextParameter || ct.ArraySize <= 0 {
		return Type{}, false
	}

	elem, _, ok := primitive(ct)
	if !ok || elem == "" {
		return Type{}, false
	}
	if elem == "uint8" {
		elem = "byte"
	}

	return Type{
		Kind:      KindFixedArray,
		Go:        fmt.Sprintf("*[%d]%s", ct.ArraySize, elem),
		FFI:       "&ffi.TypePointer",
		Elem:      elem,
		ElemConst: ct.IsConst,
		ArraySize: ct.ArraySize,
		C:         ct,
	}, true
}

func resolveEmbeddedArray(ct parser.CType, ctx Context) (Type, bool) {
	if !ct.IsArray || ctx.Kind != ContextField {
		return Type{}, false
	}

	elemCT := ct
	elemCT.IsArray = false
	elemCT.ArraySize = 0

	var elem, elemFFI string
	if ct.IsPointer {
		elem, elemFFI = "uintptr", "&ffi.TypePointer"
	} else if goType, ffiType, ok := primitive(elemCT); ok && goType != "" {
		elem, elemFFI = goType, ffiType
	} else if s, ok := ctx.Header.FindStruct(ct.Name); ok && !s.IsOpaque {
		elem, elemFFI = GoName(ct.Name), "&FFIType"+GoName(ct.Name)
	} else {
		return Type{}, false
	}

	return Type{
		Kind:      KindEmbeddedArray,
		Go:        fmt.Sprintf("[%d]%s", ct.ArraySize, elem),
		FFI:       elemFFI,
		Elem:      elem,
		ElemConst: ct.IsConst,
		ArraySize: ct.ArraySize,
		C:         ct,
	}, true
}

// resolveString maps const char * parameters and char * returns to Go
// strings. A mutable char * parameter is an output buffer, not a string.
func resolveString(ct parser.CType, ctx Context) (Type, bool) {
	if !ct.IsPointer || ct.IsArray || ct.Name != "char" {
		return Type{}, false
	}

	switch {
	case ctx.Kind == ContextReturn:
	case ctx.Kind == ContextParameter && ct.IsConst:
	default:
		return Type{}, false
	}

	return Type{
		Kind:      KindString,
		Go:        "string",
		FFI:       "&ffi.TypePointer",
		Elem:      "byte",
		ElemConst: ct.IsConst,
		C:         ct,
	}, true
}

func resolveStructPointer(ct parser.CType, ctx Context) (Type, bool) {
	if !ct.IsPointer {
		return Type{}, false
	}

	s, ok := ctx.Header.FindStruct(ct.Name)
	if !ok || s.IsOpaque {
		return Type{}, false
	}

	return Type{
		Kind:      KindStructPointer,
		Go:        "*" + GoName(ct.Name),
		FFI:       "&ffi.TypePointer",
		Elem:      GoName(ct.Name),
		ElemConst: ct.IsConst,
		C:         ct,
	}, true
}

// resolveBuffer maps a parameter pointing to primitive memory (including
// void * and unsized arrays) to the pointer-sized integer the raw binding
// takes.
func resolveBuffer(ct parser.CType, ctx Context) (Type, bool) {
	if ctx.Kind != ContextParameter {
		return Type{}, false
	}
	if !ct.IsPointer && !(ct.IsArray && ct.ArraySize == 0) {
		return Type{}, false
	}
	if ct.IsPointer && (ct.IsArray || ct.Indirection > 1) {
		return Type{}, false
	}

	elemCT := ct
	elemCT.IsPointer = false
	elemCT.IsArray = false

	elem, _, ok := primitive(elemCT)
	if !ok {
		return Type{}, false
	}
	if elem == "" || elem == "uint8" {
		elem = "byte"
	}

	return Type{
		Kind:      KindBuffer,
		Go:        "uintptr",
		FFI:       "&ffi.TypePointer",
		Elem:      elem,
		ElemConst: ct.IsConst,
		C:         ct,
	}, true
}

func resolveHandle(ct parser.CType, ctx Context) (Type, bool) {
	if ct.IsPointer || ct.IsArray {
		return Type{
			Kind:      KindHandle,
			Go:        "uintptr",
			FFI:       "&ffi.TypePointer",
			ElemConst: ct.IsConst,
			C:         ct,
		}, true
	}

	if s, ok := ctx.Header.FindStruct(ct.Name); ok && s.IsOpaque {
		return Type{
			Kind: KindHandle,
			Go:   GoName(ct.Name),
			FFI:  "&ffi.TypePointer",
			C:    ct,
		}, true
	}

	return Type{}, false
}

func resolveStruct(ct parser.CType, ctx Context) (Type, bool) {
	s, ok := ctx.Header.FindStruct(ct.Name)
	if !ok || s.IsOpaque {
		return Type{}, false
	}

	return Type{
		Kind: KindStruct,
		Go:   GoName(ct.Name),
		FFI:  "&FFIType" + GoName(ct.Name),
		C:    ct,
	}, true
}

func resolveEnum(ct parser.CType, ctx Context) (Type, bool) {
	if _, ok := ctx.Header.FindEnum(ct.Name); !ok {
		return Type{}, false
	}

	return Type{
		Kind: KindScalar,
		Go:   GoName(ct.Name),
		FFI:  "&ffi.TypeSint32",
		C:    ct,
	}, true
}

func resolvePrimitive(ct parser.CType, ctx Context) (Type, bool) {
	goType, ffiType, ok := primitive(ct)
	if !ok {
		return Type{}, false
	}

	kind := KindScalar
	if goType == "" {
		kind = KindVoid
	}

	return Type{
		Kind: kind,
		Go:   goType,
		FFI:  ffiType,
		C:    ct,
	}, true
}

// primitive returns the Go and FFI spellings of a C primitive, ignoring any
// pointer or array decoration. void yields an empty Go type.
func primitive(ct parser.CType) (string, string, bool) {
	switch ct.Name {
	case "void":
		return "", "&ffi.TypeVoid", true
	case "bool", "_Bool":
		return "bool", "&ffi.TypeUint8", true
	case "char":
		if ct.IsUnsigned {
			return "uint8", "&ffi.TypeUint8", true
		}
		return "int8", "&ffi.TypeSint8", true
	case "short":
		if ct.IsUnsigned {
			return "uint16", "&ffi.TypeUint16", true
		}
		return "int16", "&ffi.TypeSint16", true
	case "int":
		if ct.IsUnsigned {
			return "uint32", "&ffi.TypeUint32", true
		}
		return "int32", "&ffi.TypeSint32", true
	case "long", "long long":
		if ct.IsUnsigned {
			return "uint64", "&ffi.TypeUint64", true
		}
		return "int64", "&ffi.TypeSint64", true
	case "int8_t":
		return "int8", "&ffi.TypeSint8", true
	case "uint8_t":
		return "uint8", "&ffi.TypeUint8", true
	case "int16_t":
		return "int16", "&ffi.TypeSint16", true
	case "uint16_t":
		return "uint16", "&ffi.TypeUint16", true
	case "int32_t":
		return "int32", "&ffi.TypeSint32", true
	case "uint32_t":
		return "uint32", "&ffi.TypeUint32", true
	case "int64_t":
		return "int64", "&ffi.TypeSint64", true
	case "uint64_t":
		return "uint64", "&ffi.TypeUint64", true
	case "size_t":
		return "uint64", "&ffi.TypeUint64", true
	case "float":
		return "float32", "&ffi.TypeFloat", true
	case "double":
		return "float64", "&ffi.TypeDouble", true
	default:
		return "", "", false
	}
}
