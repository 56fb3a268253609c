package interop

import (
	"strconv"

	"github.com/ardanlabs/ffi-wrapgen/parser"
)

// maxTypeDefDepth bounds typedef chains so that a self-referencing typedef
// cannot loop forever.
const maxTypeDefDepth = 8

// Converter resolves the declarations of a parsed header.
type Converter struct {
	header    *parser.Header
	resolvers []Resolver
}

// NewConverter returns a converter for header. When no resolvers are given
// the DefaultResolvers list is used.
func NewConverter(header *parser.Header, resolvers ...Resolver) *Converter {
	if len(resolvers) == 0 {
		resolvers = DefaultResolvers()
	}

	return &Converter{
		header:    header,
		resolvers: resolvers,
	}
}

// Header returns the header the converter resolves against.
func (c *Converter) Header() *parser.Header {
	return c.header
}

// Resolve runs ct through the resolver list for the given context.
func (c *Converter) Resolve(ct parser.CType, kind ContextKind) Type {
	ct = c.canonical(ct)
	ctx := Context{Kind: kind, Header: c.header}

	for _, r := range c.resolvers {
		if t, ok := r.Resolve(ct, ctx); ok {
			return t
		}
	}

	return Type{
		Kind: KindScalar,
		Go:   GoName(ct.Name),
		FFI:  "&ffi.TypePointer",
		C:    ct,
	}
}

// Functions returns the header functions in declaration order.
func (c *Converter) Functions() []Function {
	funcs := make([]Function, 0, len(c.header.Functions))

	for _, fn := range c.header.Functions {
		f := Function{
			Name:     fn.Name,
			Return:   c.Resolve(fn.ReturnType, ContextReturn),
			Variadic: fn.IsVariadic,
		}

		for i, p := range fn.Params {
			name := p.Name
			if name == "" {
				name = unnamedParam(i)
			}

			t := c.Resolve(p.Type, ContextParameter)
			f.Params = append(f.Params, Parameter{
				Name: name,
				Type: t,
				Pass: passMode(t),
			})
		}

		funcs = append(funcs, f)
	}

	return funcs
}

// Field resolves a struct field type.
func (c *Converter) Field(f parser.StructField) Type {
	return c.Resolve(f.Type, ContextField)
}

// canonical follows typedef aliases of primitive types, keeping the
// pointer, array and const decoration of the outer declaration.
func (c *Converter) canonical(ct parser.CType) parser.CType {
	for i := 0; i < maxTypeDefDepth; i++ {
		if _, ok := c.header.FindStruct(ct.Name); ok {
			return ct
		}
		if _, ok := c.header.FindEnum(ct.Name); ok {
			return ct
		}

		td, ok := c.header.FindTypeDef(ct.Name)
		if !ok || td.Name == td.SourceType.Name {
			return ct
		}

		src := td.SourceType
		if _, _, prim := primitive(src); !prim {
			if _, alias := c.header.FindTypeDef(src.Name); !alias {
				return ct
			}
		}

		ct.Name = src.Name
		ct.IsUnsigned = ct.IsUnsigned || src.IsUnsigned
		ct.IsConst = ct.IsConst || (src.IsConst && !src.IsPointer)
		if src.IsPointer {
			if ct.IsPointer {
				ct.Indirection += src.Indirection
			} else {
				ct.IsPointer = true
				ct.Indirection = src.Indirection
			}
		}
	}

	return ct
}

func passMode(t Type) PassMode {
	switch t.Kind {
	case KindFixedArray, KindStructPointer:
		if t.ElemConst {
			return PassIn
		}
		return PassInOut
	default:
		return PassValue
	}
}

func unnamedParam(i int) string {
	return "arg" + strconv.Itoa(i)
}
