package generator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ardanlabs/ffi-wrapgen/interop"
)

func (g *Generator) generateTypes() (string, error) {
	var buf bytes.Buffer
	header := g.conv.Header()

	fmt.Fprintf(&buf, "package %s\n\n", g.opts.Package)
	fmt.Fprintf(&buf, "import \"github.com/jupiterrider/ffi\"\n\n")

	for _, s := range header.Structs {
		name := interop.GoName(s.Name)

		if s.IsOpaque {
			fmt.Fprintf(&buf, "type %s uintptr\n\n", name)
			continue
		}

		types := make([]interop.Type, len(s.Fields))
		for i, f := range s.Fields {
			types[i] = g.conv.Field(f)
		}

		fmt.Fprintf(&buf, "type %s struct {\n", name)
		for i, f := range s.Fields {
			fmt.Fprintf(&buf, "\t%s %s\n", interop.GoName(f.Name), types[i].Go)
		}
		fmt.Fprintf(&buf, "}\n\n")

		fmt.Fprintf(&buf, "var FFIType%s = ffi.NewType(\n", name)
		for _, t := range types {
			fmt.Fprintf(&buf, "\t%s,\n", fieldFFI(t))
		}
		fmt.Fprintf(&buf, ")\n\n")
	}

	for _, e := range header.Enums {
		name := interop.GoName(e.Name)

		fmt.Fprintf(&buf, "type %s int32\n\n", name)
		fmt.Fprintf(&buf, "const (\n")
		for i, v := range e.Values {
			if v.Value != "" {
				fmt.Fprintf(&buf, "\t%s %s = %s\n", interop.GoName(v.Name), name, v.Value)
			} else if i == 0 {
				fmt.Fprintf(&buf, "\t%s %s = iota\n", interop.GoName(v.Name), name)
			} else {
				fmt.Fprintf(&buf, "\t%s\n", interop.GoName(v.Name))
			}
		}
		fmt.Fprintf(&buf, ")\n\n")
	}

	return buf.String(), nil
}

// fieldFFI returns the layout of one field. Embedded arrays repeat their
// element type.
func fieldFFI(t interop.Type) string {
	if t.Kind != interop.KindEmbeddedArray {
		return t.FFI
	}

	elems := make([]string, t.ArraySize)
	for i := range elems {
		elems[i] = t.FFI
	}
	return strings.Join(elems, ", ")
}
