// Package generator emits the Go source of the bindings: the library loader,
// the struct and enum types, the raw functions with their slice wrappers,
// and the runtime helpers the wrappers call.
package generator

import (
	"fmt"
	"sort"

	"golang.org/x/tools/imports"

	"github.com/ardanlabs/ffi-wrapgen/errors"
	"github.com/ardanlabs/ffi-wrapgen/interop"
	"github.com/ardanlabs/ffi-wrapgen/transform"
)

// DefaultWrapperSuffix is appended to the Go name of a raw function to name
// its wrapper.
const DefaultWrapperSuffix = "Bytes"

type Options struct {
	Package string
	Library string
	// WrapperSuffix names wrappers; empty selects DefaultWrapperSuffix.
	WrapperSuffix string
}

type Generator struct {
	opts  Options
	conv  *interop.Converter
	decls []transform.Declaration
}

func New(opts Options, conv *interop.Converter, decls []transform.Declaration) *Generator {
	if opts.WrapperSuffix == "" {
		opts.WrapperSuffix = DefaultWrapperSuffix
	}

	return &Generator{
		opts:  opts,
		conv:  conv,
		decls: decls,
	}
}

// Generate returns the formatted content of every output file keyed by file
// name.
func (g *Generator) Generate() (map[string]string, error) {
	files := make(map[string]string)

	loaderCode, err := g.generateLoader()
	if err != nil {
		return nil, fmt.Errorf("generating loader: %w", err)
	}
	files["loader.go"] = loaderCode

	typesCode, err := g.generateTypes()
	if err != nil {
		return nil, fmt.Errorf("generating types: %w", err)
	}
	files["types.go"] = typesCode

	funcsCode, err := g.generateFunctions()
	if err != nil {
		return nil, fmt.Errorf("generating functions: %w", err)
	}
	files["functions.go"] = funcsCode

	if g.hasWrappers() {
		helpersCode, err := g.generateHelpers()
		if err != nil {
			return nil, fmt.Errorf("generating helpers: %w", err)
		}
		files["helpers.go"] = helpersCode
	}

	for _, name := range sortedNames(files) {
		src, err := format(name, files[name])
		if err != nil {
			return nil, err
		}
		files[name] = src
	}

	return files, nil
}

func (g *Generator) hasWrappers() bool {
	for _, d := range g.decls {
		if d.IsWrapper() {
			return true
		}
	}
	return false
}

// goName returns the Go name of a declaration.
func (g *Generator) goName(d transform.Declaration) string {
	name := interop.GoName(d.Function.Name)
	if d.IsWrapper() {
		name += g.opts.WrapperSuffix
	}
	return name
}

// format gofmts src and drops the imports it does not use.
func format(name, src string) (string, error) {
	out, err := imports.Process(name, []byte(src), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return "", errors.New(errors.PhaseEmit, errors.KindInvariant).
			Detail("formatting %s", name).
			Cause(err).
			Build()
	}
	return string(out), nil
}

func sortedNames(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
