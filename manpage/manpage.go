// Package manpage renders manual page sources to HTML with mandoc, caching
// the output on disk.
package manpage

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ardanlabs/ffi-wrapgen/errors"
)

// DeprecatedMarker excludes every page whose path contains it.
const DeprecatedMarker = "deprecated"

// Page is one rendered manual page.
type Page struct {
	// Function is the page file name without its extension.
	Function string
	Path     string
	HTML     []byte
}

// RunFunc runs an external command in dir and returns its standard output.
type RunFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// Renderer turns a tree of manual page sources into HTML pages.
type Renderer struct {
	Command string
	Args    []string
	// CacheDir holds <function>.html files. Pages found there are not
	// rendered again. Empty disables caching.
	CacheDir string
	// Extension selects the page sources, e.g. ".3monocypher". Empty
	// selects every file.
	Extension string
	Workers   int
	Run       RunFunc
}

// NewRenderer returns a renderer invoking "mandoc -Thtml".
func NewRenderer(cacheDir string) *Renderer {
	return &Renderer{
		Command:  "mandoc",
		Args:     []string{"-Thtml"},
		CacheDir: cacheDir,
		Workers:  runtime.GOMAXPROCS(0),
	}
}

// FunctionName returns the function a page documents.
func FunctionName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Discover returns the page sources under root in lexical order.
func (r *Renderer) Discover(root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if r.Extension != "" && !strings.HasSuffix(path, r.Extension) {
			return nil
		}
		if strings.Contains(path, DeprecatedMarker) {
			Logger().Debug("skipping deprecated page", zap.String("path", path))
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRender, errors.KindIO, err, "walking "+root)
	}

	return paths, nil
}

// Render renders every page under root. A missing root is an error. Pages
// are returned sorted by function name.
func (r *Renderer) Render(ctx context.Context, root string) ([]Page, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, errors.New(errors.PhaseRender, errors.KindNotFound).
			Detail("documentation root %s", root).
			Cause(err).
			Build()
	}

	paths, err := r.Discover(root)
	if err != nil {
		return nil, err
	}

	pages := make([]Page, len(paths))

	var g errgroup.Group
	g.SetLimit(max(r.Workers, 1))

	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			page, err := r.renderPage(ctx, path)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.PhaseRender, errors.KindCommand, err, "rendering canceled")
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Function < pages[j].Function
	})

	Logger().Info("rendered manual pages", zap.Int("pages", len(pages)), zap.String("root", root))
	return pages, nil
}

func (r *Renderer) renderPage(ctx context.Context, path string) (Page, error) {
	page := Page{
		Function: FunctionName(path),
		Path:     path,
	}

	var cached string
	if r.CacheDir != "" {
		cached = filepath.Join(r.CacheDir, page.Function+".html")
		if data, err := os.ReadFile(cached); err == nil {
			Logger().Debug("using cached page", zap.String("function", page.Function))
			page.HTML = data
			return page, nil
		}
	}

	run := r.Run
	if run == nil {
		run = execRun
	}

	// Pages include their siblings by relative path.
	args := append(append([]string(nil), r.Args...), filepath.Base(path))
	out, err := run(ctx, filepath.Dir(path), r.Command, args...)
	if err != nil {
		return Page{}, errors.New(errors.PhaseRender, errors.KindCommand).
			Function(page.Function).
			Detail("%s %s", r.Command, path).
			Cause(err).
			Build()
	}
	page.HTML = out

	if cached != "" {
		if err := os.MkdirAll(r.CacheDir, 0o755); err != nil {
			return Page{}, errors.Wrap(errors.PhaseRender, errors.KindIO, err, "creating cache directory")
		}
		if err := os.WriteFile(cached, out, 0o644); err != nil {
			return Page{}, errors.Wrap(errors.PhaseRender, errors.KindIO, err, "writing "+cached)
		}
	}

	Logger().Debug("rendered page", zap.String("function", page.Function), zap.Int("bytes", len(out)))
	return page, nil
}

func execRun(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}
