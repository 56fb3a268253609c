// Package config loads the wrapgen.toml file describing a binding and
// applies WRAPGEN_* environment overrides.
package config

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ardanlabs/ffi-wrapgen/errors"
)

// FileName is the configuration file looked up when none is given.
const FileName = "wrapgen.toml"

// Docs configures the manual page pipeline. An empty Root disables it.
type Docs struct {
	Root         string   `toml:"root"`
	Extension    string   `toml:"extension"`
	Cache        string   `toml:"cache"`
	Command      string   `toml:"command"`
	Args         []string `toml:"args"`
	Workers      int      `toml:"workers"`
	MissingParam string   `toml:"missing_param"`
}

// Config represents the TOML configuration structure
type Config struct {
	Package        string   `toml:"package"`
	Library        string   `toml:"library"`
	Headers        []string `toml:"headers"`
	Output         string   `toml:"output"`
	FunctionPrefix string   `toml:"function_prefix"`
	WrapperSuffix  string   `toml:"wrapper_suffix"`
	Skip           []string `toml:"skip"`
	Debug          bool     `toml:"debug"`
	Docs           Docs     `toml:"docs"`
}

// Default returns the configuration used for keys a file leaves out.
func Default() *Config {
	return &Config{
		Package:       "bindings",
		Output:        ".",
		WrapperSuffix: "Bytes",
		Docs: Docs{
			Command: "mandoc",
			Args:    []string{"-Thtml"},
		},
	}
}

// Load decodes the file at path over the defaults. Relative paths in the
// file are resolved against its directory and unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.PhaseConfig, errors.KindNotFound).
				Detail("config file %s", path).
				Cause(err).
				Build()
		}
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parsing "+path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("unknown keys in %s: %s", path, strings.Join(keys, ", ")).
			Build()
	}

	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

func (c *Config) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}

	for i, h := range c.Headers {
		c.Headers[i] = abs(h)
	}
	c.Output = abs(c.Output)
	c.Docs.Root = abs(c.Docs.Root)
	c.Docs.Cache = abs(c.Docs.Cache)
}

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

// ApplyEnv overrides c with the WRAPGEN_* environment variables that are
// set.
func (c *Config) ApplyEnv() {
	if v := clean("WRAPGEN_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := clean("WRAPGEN_DOCS_ROOT"); v != "" {
		c.Docs.Root = v
	}
	if v := clean("WRAPGEN_CACHE_DIR"); v != "" {
		c.Docs.Cache = v
	}
	if debug := clean("WRAPGEN_DEBUG"); debug != "" {
		d, err := strconv.ParseBool(debug)
		if err == nil {
			c.Debug = d
		} else {
			c.Debug = true
		}
	}
}

// Validate fills derived defaults and reports the first invalid setting.
func (c *Config) Validate() error {
	if len(c.Headers) == 0 {
		return invalid("at least one header is required")
	}

	if c.Library == "" {
		base := filepath.Base(c.Headers[0])
		c.Library = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if !token.IsIdentifier(c.Package) {
		return invalid(fmt.Sprintf("package %q is not a valid Go identifier", c.Package))
	}
	if c.WrapperSuffix == "" {
		return invalid("wrapper_suffix must not be empty")
	}
	if c.Docs.Workers < 0 {
		return invalid("docs.workers must not be negative")
	}
	if c.Docs.Root != "" && c.Docs.Command == "" {
		return invalid("docs.command is required when docs.root is set")
	}

	return nil
}

func invalid(detail string) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).Detail("%s", detail).Build()
}
