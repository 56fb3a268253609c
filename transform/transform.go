// Package transform joins header functions and their documentation into the
// ordered list of declarations the generator emits: every raw function,
// each followed by its slice wrapper when it has one.
package transform

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/ardanlabs/ffi-wrapgen/classify"
	"github.com/ardanlabs/ffi-wrapgen/doc"
	"github.com/ardanlabs/ffi-wrapgen/errors"
	"github.com/ardanlabs/ffi-wrapgen/interop"
	"github.com/ardanlabs/ffi-wrapgen/manpage"
	"github.com/ardanlabs/ffi-wrapgen/wrapper"
)

// DefaultMissingParam documents parameters the manual does not describe.
const DefaultMissingParam = "See Monocypher manual for more details."

// Options tunes Run.
type Options struct {
	// MissingParam is the description of undocumented parameters.
	MissingParam string
	// Skip lists C function names left out of the output.
	Skip []string
}

// Declaration is one function to emit.
type Declaration struct {
	// Function is the raw native function. Wrapper declarations keep the
	// function they forward to here.
	Function        *interop.Function
	Wrapper         *wrapper.Function
	Classifications []classify.Classification
	Comment         *doc.FullComment
}

// IsWrapper reports whether d is the slice form of Function.
func (d Declaration) IsWrapper() bool {
	return d.Wrapper != nil
}

type summary struct {
	Functions    int
	Wrappers     int
	Documented   int
	Undocumented int
	Skipped      int
}

// Run classifies, pairs and wraps every function in funcs and attaches the
// documentation found in docs. A wrapper immediately follows the raw
// declaration it forwards to. funcs is not modified.
func Run(funcs []interop.Function, docs map[string]*doc.FunctionDoc, opts Options) ([]Declaration, error) {
	skip := make(map[string]bool, len(opts.Skip))
	for _, name := range opts.Skip {
		skip[name] = true
	}

	attach := doc.AttachOptions{MissingParam: opts.MissingParam}
	decls := make([]Declaration, 0, len(funcs))

	var sum summary
	for i := range funcs {
		fn := &funcs[i]

		if skip[fn.Name] {
			Logger().Debug("skipping function", zap.String("function", fn.Name))
			sum.Skipped++
			continue
		}

		cs := classify.ClassifyAll(fn)
		if err := classify.Pair(cs); err != nil {
			return nil, errors.WithFunction(err, errors.PhasePair, fn.Name)
		}

		fd := docs[fn.Name]
		if fd == nil {
			Logger().Warn("no documentation", zap.String("function", fn.Name))
			sum.Undocumented++
		} else {
			sum.Documented++
		}

		decls = append(decls, Declaration{
			Function:        fn,
			Classifications: cs,
			Comment:         doc.Attach(fn.Name, rawParams(cs), fd, attach),
		})
		sum.Functions++

		w, err := wrapper.Synthesize(fn, cs)
		if err != nil {
			return nil, err
		}
		if w == nil {
			continue
		}

		Logger().Debug("wrapped function",
			zap.String("function", fn.Name),
			zap.Int("params", len(w.Params)),
			zap.Int("checks", len(w.Body.Checks)),
		)

		decls = append(decls, Declaration{
			Function:        fn,
			Wrapper:         w,
			Classifications: cs,
			Comment:         doc.Attach(fn.Name, wrapperParams(w), fd, attach),
		})
		sum.Wrappers++
	}

	Logger().Info("transformed functions",
		zap.Int("functions", sum.Functions),
		zap.Int("wrappers", sum.Wrappers),
		zap.Int("documented", sum.Documented),
		zap.Int("undocumented", sum.Undocumented),
		zap.Int("skipped", sum.Skipped),
	)

	return decls, nil
}

func rawParams(cs []classify.Classification) []doc.Param {
	ps := make([]doc.Param, len(cs))
	for i, c := range cs {
		ps[i] = doc.Param{Name: c.Name()}
		if c.Kind == classify.KindFixedBuffer {
			ps[i].FixedSize = c.ArraySize
		}
	}
	return ps
}

func wrapperParams(w *wrapper.Function) []doc.Param {
	ps := make([]doc.Param, len(w.Params))
	for i, p := range w.Params {
		ps[i] = doc.Param{Name: p.Name}
		if p.View == wrapper.ViewFixed {
			ps[i].FixedSize = p.ArraySize
		}
	}
	return ps
}

// LoadDocs extracts the documentation of every rendered page, keyed by
// function name. Pages that cannot be parsed or have no DESCRIPTION
// section are skipped.
func LoadDocs(pages []manpage.Page, ex *doc.Extractor) map[string]*doc.FunctionDoc {
	docs := make(map[string]*doc.FunctionDoc, len(pages))

	for _, page := range pages {
		root, err := doc.FromHTML(bytes.NewReader(page.HTML))
		if err != nil {
			Logger().Warn("unreadable page", zap.String("path", page.Path), zap.Error(err))
			continue
		}

		fd := ex.Extract(root)
		if fd == nil {
			Logger().Debug("page has no description", zap.String("function", page.Function))
			continue
		}

		docs[page.Function] = fd
	}

	return docs
}
