package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ardanlabs/ffi-wrapgen/config"
	"github.com/ardanlabs/ffi-wrapgen/doc"
	"github.com/ardanlabs/ffi-wrapgen/errors"
	"github.com/ardanlabs/ffi-wrapgen/generator"
	"github.com/ardanlabs/ffi-wrapgen/interop"
	"github.com/ardanlabs/ffi-wrapgen/manpage"
	"github.com/ardanlabs/ffi-wrapgen/parser"
	"github.com/ardanlabs/ffi-wrapgen/transform"
)

func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the bindings",
		Long:  "Parse the headers, render the manual pages and write the raw and slice bindings.",
		Args:  cobra.NoArgs,
		RunE:  generateHandler,
	}

	cmd.Flags().StringP("output", "o", "", "Output directory for generated Go files")
	cmd.Flags().String("package", "", "Go package name")
	cmd.Flags().String("lib", "", "Library name (e.g., 'monocypher' for libmonocypher.so)")
	cmd.Flags().String("docs", "", "Directory holding the manual page sources")
	cmd.Flags().String("cache", "", "Directory caching the rendered manual pages")

	return cmd
}

func generateHandler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	for flag, dst := range map[string]*string{
		"output":  &cfg.Output,
		"package": &cfg.Package,
		"lib":     &cfg.Library,
		"docs":    &cfg.Docs.Root,
		"cache":   &cfg.Docs.Cache,
	} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			*dst = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := setupLogging(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	conv, err := loadHeaders(cfg.Headers)
	if err != nil {
		return err
	}

	docs, err := loadDocs(cmd, cfg)
	if err != nil {
		return err
	}

	missing := cfg.Docs.MissingParam
	if missing == "" && cfg.Docs.Root != "" {
		missing = transform.DefaultMissingParam
	}

	decls, err := transform.Run(conv.Functions(), docs, transform.Options{
		MissingParam: missing,
		Skip:         cfg.Skip,
	})
	if err != nil {
		return err
	}

	gen := generator.New(generator.Options{
		Package:       cfg.Package,
		Library:       cfg.Library,
		WrapperSuffix: cfg.WrapperSuffix,
	}, conv, decls)

	files, err := gen.Generate()
	if err != nil {
		return fmt.Errorf("error generating code: %w", err)
	}

	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return errors.Wrap(errors.PhaseEmit, errors.KindIO, err, "creating output directory")
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(cfg.Output, name)
		if err := os.WriteFile(path, []byte(files[name]), 0o644); err != nil {
			return errors.Wrap(errors.PhaseEmit, errors.KindIO, err, "writing "+name)
		}
		logger.Debug("wrote file", zap.String("path", path))
		fmt.Fprintf(cmd.OutOrStdout(), "Generated: %s\n", path)
	}

	return nil
}

// loadHeaders parses every header into one converter.
func loadHeaders(paths []string) (*interop.Converter, error) {
	header := &parser.Header{}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.New(errors.PhaseParse, errors.KindIO).
				Detail("reading header %s", path).
				Cause(err).
				Build()
		}

		h, err := parser.Parse(string(data))
		if err != nil {
			return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "parsing "+path)
		}
		header.Merge(h)
	}

	return interop.NewConverter(header), nil
}

// loadDocs renders and extracts the manual pages, or returns nil when no
// documentation root is configured.
func loadDocs(cmd *cobra.Command, cfg *config.Config) (map[string]*doc.FunctionDoc, error) {
	if cfg.Docs.Root == "" {
		return nil, nil
	}

	r := manpage.NewRenderer(cfg.Docs.Cache)
	r.Command = cfg.Docs.Command
	r.Args = cfg.Docs.Args
	r.Extension = cfg.Docs.Extension
	if cfg.Docs.Workers > 0 {
		r.Workers = cfg.Docs.Workers
	}

	pages, err := r.Render(cmd.Context(), cfg.Docs.Root)
	if err != nil {
		return nil, err
	}

	return transform.LoadDocs(pages, doc.NewExtractor(cfg.FunctionPrefix)), nil
}
