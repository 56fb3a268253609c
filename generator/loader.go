package generator

import (
	"bytes"
	"text/template"
)

var loaderTmpl = template.Must(template.New("loader").Parse(`package {{.Package}}

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/jupiterrider/ffi"
)

var lib ffi.Lib

func Load(path string) error {
	var err error
	lib, err = ffi.Load(getLibraryPath(path))
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}

	if err := loadFuncs(); err != nil {
		return err
	}

	return nil
}

func prep(name string, ret *ffi.Type, args ...*ffi.Type) (ffi.Fun, error) {
	return lib.Prep(name, ret, args...)
}

func getLibraryPath(basePath string) string {
	var filename string
	switch runtime.GOOS {
	case "linux", "freebsd":
		filename = "lib{{.LibName}}.so"
	case "darwin":
		filename = "lib{{.LibName}}.dylib"
	case "windows":
		filename = "{{.LibName}}.dll"
	default:
		filename = "lib{{.LibName}}.so"
	}
	return filepath.Join(basePath, filename)
}
`))

var helpersTmpl = template.Must(template.New("helpers").Parse(`package {{.Package}}

import (
	"fmt"
	"runtime"
	"unsafe"
)

// expectSize panics unless b holds exactly size elements.
func expectSize[T any](b []T, size int, name string) {
	if len(b) != size {
		panic(fmt.Sprintf("{{.Package}}: %s must be %d elements long, got %d", name, size, len(b)))
	}
}

// expectSameBufferSize panics unless a and b have the same length.
func expectSameBufferSize(a, b []byte, aName, bName string) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("{{.Package}}: %s and %s must have the same length, got %d and %d", aName, bName, len(a), len(b)))
	}
}

// pinBuffer pins the backing array of b until p is unpinned and returns its
// address. An empty slice yields 0.
func pinBuffer(p *runtime.Pinner, b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	p.Pin(&b[0])
	return uintptr(unsafe.Pointer(&b[0]))
}
`))

func (g *Generator) generateLoader() (string, error) {
	return g.execute(loaderTmpl)
}

func (g *Generator) generateHelpers() (string, error) {
	return g.execute(helpersTmpl)
}

func (g *Generator) execute(t *template.Template) (string, error) {
	var buf bytes.Buffer
	err := t.Execute(&buf, map[string]string{
		"Package": g.opts.Package,
		"LibName": g.opts.Library,
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
