package generator

import (
	"bytes"
	"fmt"
	"go/types"
	"strings"

	"github.com/ardanlabs/ffi-wrapgen/interop"
	"github.com/ardanlabs/ffi-wrapgen/transform"
	"github.com/ardanlabs/ffi-wrapgen/wrapper"
)

func (g *Generator) generateFunctions() (string, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "package %s\n\n", g.opts.Package)
	fmt.Fprintf(&buf, "import (\n")
	fmt.Fprintf(&buf, "\t\"fmt\"\n")
	fmt.Fprintf(&buf, "\t\"runtime\"\n")
	fmt.Fprintf(&buf, "\t\"unsafe\"\n\n")
	fmt.Fprintf(&buf, "\t\"github.com/jupiterrider/ffi\"\n")
	fmt.Fprintf(&buf, "\t\"golang.org/x/sys/unix\"\n")
	fmt.Fprintf(&buf, ")\n\n")

	var raw []*interop.Function
	for _, d := range g.decls {
		if !d.IsWrapper() {
			raw = append(raw, d.Function)
		}
	}

	fmt.Fprintf(&buf, "var (\n")
	for _, fn := range raw {
		fmt.Fprintf(&buf, "\t%s ffi.Fun\n", funcVar(fn.Name))
	}
	fmt.Fprintf(&buf, ")\n\n")

	fmt.Fprintf(&buf, "func loadFuncs() error {\n")
	fmt.Fprintf(&buf, "\tvar err error\n\n")

	for _, fn := range raw {
		args := []string{fmt.Sprintf("%q", fn.Name), fn.Return.FFI}
		for _, p := range fn.Params {
			args = append(args, p.Type.FFI)
		}

		fmt.Fprintf(&buf, "\tif %s, err = prep(%s); err != nil {\n", funcVar(fn.Name), strings.Join(args, ", "))
		fmt.Fprintf(&buf, "\t\treturn fmt.Errorf(\"%s: %%w\", err)\n", fn.Name)
		fmt.Fprintf(&buf, "\t}\n\n")
	}

	fmt.Fprintf(&buf, "\treturn nil\n")
	fmt.Fprintf(&buf, "}\n\n")

	for _, d := range g.decls {
		name := g.goName(d)
		for _, line := range g.comment(name, d) {
			if line == "" {
				fmt.Fprintf(&buf, "//\n")
			} else if strings.HasPrefix(line, "\t") {
				fmt.Fprintf(&buf, "//%s\n", line)
			} else {
				fmt.Fprintf(&buf, "// %s\n", line)
			}
		}

		if d.IsWrapper() {
			fmt.Fprintf(&buf, "%s\n", g.generateWrapper(name, d))
		} else {
			fmt.Fprintf(&buf, "%s\n", g.generateRaw(name, d.Function))
		}
	}

	return buf.String(), nil
}

func funcVar(cName string) string {
	return interop.LowerCamel(cName) + "Func"
}

// reserved are the identifiers generated function bodies declare or refer to
// besides their parameters.
var reserved = map[string]bool{
	"pinner":               true,
	"result":               true,
	"resultPtr":            true,
	"ffi":                  true,
	"unix":                 true,
	"unsafe":               true,
	"runtime":              true,
	"fmt":                  true,
	"lib":                  true,
	"prep":                 true,
	"pinBuffer":            true,
	"expectSize":           true,
	"expectSameBufferSize": true,
}

// paramName returns the Go name of a C parameter. Names that would shadow a
// predeclared identifier or an identifier used by generated bodies get a
// trailing underscore.
func paramName(cName string) string {
	name := interop.LowerCamel(cName)
	if reserved[name] || types.Universe.Lookup(name) != nil {
		name += "_"
	}
	return name
}

// stringPtrNames returns the local holding the C copy of each string
// parameter of fn, keyed by parameter name, avoiding the parameter names.
func stringPtrNames(fn *interop.Function) map[string]string {
	taken := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		taken[paramName(p.Name)] = true
	}

	ptrs := make(map[string]string)
	for _, p := range fn.Params {
		if p.Type.Kind != interop.KindString {
			continue
		}
		local := paramName(p.Name) + "Ptr"
		for taken[local] || reserved[local] {
			local += "_"
		}
		taken[local] = true
		ptrs[p.Name] = local
	}
	return ptrs
}

func signature(name string, params []string, ret interop.Type) string {
	if ret.IsVoid() {
		return fmt.Sprintf("func %s(%s) {\n", name, strings.Join(params, ", "))
	}
	return fmt.Sprintf("func %s(%s) %s {\n", name, strings.Join(params, ", "), ret.Go)
}

// generateRaw emits the pointer based binding calling the native function
// through libffi.
func (g *Generator) generateRaw(name string, fn *interop.Function) string {
	var buf bytes.Buffer

	var params []string
	for _, p := range fn.Params {
		params = append(params, fmt.Sprintf("%s %s", paramName(p.Name), p.Type.Go))
	}
	buf.WriteString(signature(name, params, fn.Return))

	ptrs := stringPtrNames(fn)
	for _, p := range fn.Params {
		if local, ok := ptrs[p.Name]; ok {
			fmt.Fprintf(&buf, "\t%s, _ := unix.BytePtrFromString(%s)\n", local, paramName(p.Name))
		}
	}

	hasReturn := !fn.Return.IsVoid()
	if hasReturn {
		switch {
		case needsFFIArg(fn.Return):
			fmt.Fprintf(&buf, "\tvar result ffi.Arg\n")
		case fn.Return.Kind == interop.KindString:
			fmt.Fprintf(&buf, "\tvar resultPtr *byte\n")
		default:
			fmt.Fprintf(&buf, "\tvar result %s\n", fn.Return.Go)
		}
	}

	var callArgs []string
	switch {
	case !hasReturn:
		callArgs = append(callArgs, "nil")
	case fn.Return.Kind == interop.KindString:
		callArgs = append(callArgs, "unsafe.Pointer(&resultPtr)")
	default:
		callArgs = append(callArgs, "unsafe.Pointer(&result)")
	}

	for _, p := range fn.Params {
		if local, ok := ptrs[p.Name]; ok {
			callArgs = append(callArgs, fmt.Sprintf("unsafe.Pointer(&%s)", local))
		} else {
			callArgs = append(callArgs, fmt.Sprintf("unsafe.Pointer(&%s)", paramName(p.Name)))
		}
	}

	fmt.Fprintf(&buf, "\t%s.Call(%s)\n", funcVar(fn.Name), strings.Join(callArgs, ", "))

	if hasReturn {
		switch {
		case needsFFIArg(fn.Return) && fn.Return.Go == "bool":
			fmt.Fprintf(&buf, "\treturn result.Bool()\n")
		case needsFFIArg(fn.Return):
			fmt.Fprintf(&buf, "\treturn %s(result)\n", fn.Return.Go)
		case fn.Return.Kind == interop.KindString:
			fmt.Fprintf(&buf, "\tif resultPtr == nil {\n")
			fmt.Fprintf(&buf, "\t\treturn \"\"\n")
			fmt.Fprintf(&buf, "\t}\n")
			fmt.Fprintf(&buf, "\treturn unix.BytePtrToString(resultPtr)\n")
		default:
			fmt.Fprintf(&buf, "\treturn result\n")
		}
	}

	fmt.Fprintf(&buf, "}\n")

	return buf.String()
}

// generateWrapper emits the slice form of a raw function: length checks,
// pinning of the buffers, then the call to the raw binding.
func (g *Generator) generateWrapper(name string, d transform.Declaration) string {
	var buf bytes.Buffer
	w := d.Wrapper

	var params []string
	for _, p := range w.Params {
		params = append(params, fmt.Sprintf("%s %s", paramName(p.Name), p.GoType()))
	}
	buf.WriteString(signature(name, params, w.Target.Return))

	for _, c := range w.Body.Checks {
		switch c.Kind {
		case wrapper.CheckFixedLength:
			fmt.Fprintf(&buf, "\texpectSize(%s, %d, %q)\n", paramName(c.Param), c.Size, paramName(c.Param))
		case wrapper.CheckSameLength:
			fmt.Fprintf(&buf, "\texpectSameBufferSize(%s, %s, %q, %q)\n",
				paramName(c.Param), paramName(c.Other), paramName(c.Param), paramName(c.Other))
		}
	}
	if len(w.Body.Checks) > 0 {
		fmt.Fprintf(&buf, "\n")
	}

	if len(w.Body.Pins) > 0 {
		fmt.Fprintf(&buf, "\tvar pinner runtime.Pinner\n")
		fmt.Fprintf(&buf, "\tdefer pinner.Unpin()\n\n")
	}

	var args []string
	for _, a := range w.Body.Args {
		pn := paramName(a.Param)
		switch a.Kind {
		case wrapper.ArgPinned:
			args = append(args, fmt.Sprintf("pinBuffer(&pinner, %s)", pn))
		case wrapper.ArgFixedView:
			args = append(args, fmt.Sprintf("(*[%d]%s)(%s)", a.ArraySize, a.Elem, pn))
		case wrapper.ArgLength:
			args = append(args, fmt.Sprintf("%s(len(%s))", a.Type.Go, paramName(a.Source)))
		default:
			args = append(args, pn)
		}
	}

	call := fmt.Sprintf("%s(%s)", interop.GoName(w.Target.Name), strings.Join(args, ", "))
	if w.Body.Returns {
		fmt.Fprintf(&buf, "\treturn %s\n", call)
	} else {
		fmt.Fprintf(&buf, "\t%s\n", call)
	}

	fmt.Fprintf(&buf, "}\n")

	return buf.String()
}

// needsFFIArg reports whether a return value is narrower than a register
// and must be read back through ffi.Arg.
func needsFFIArg(t interop.Type) bool {
	if t.Kind != interop.KindScalar {
		return false
	}

	switch t.FFI {
	case "&ffi.TypeSint8", "&ffi.TypeUint8",
		"&ffi.TypeSint16", "&ffi.TypeUint16",
		"&ffi.TypeSint32", "&ffi.TypeUint32":
		return true
	}
	return false
}
