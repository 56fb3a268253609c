// Package cmd implements the ffi-wrapgen command line.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ardanlabs/ffi-wrapgen/config"
	"github.com/ardanlabs/ffi-wrapgen/manpage"
	"github.com/ardanlabs/ffi-wrapgen/transform"
)

func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ffi-wrapgen",
		Short: "Generate slice based Go bindings for a C library",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the configuration file (default ./"+config.FileName+" when present)")
	rootCmd.PersistentFlags().StringSlice("header", nil, "C header file to read (repeatable)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(
		NewGenerateCmd(),
		NewInspectCmd(),
	)

	return rootCmd
}

// loadConfig reads the configuration selected by the flags of cmd and
// applies the flag and environment overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if _, err := os.Stat(config.FileName); err == nil {
			path = config.FileName
		}
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if headers, _ := cmd.Flags().GetStringSlice("header"); len(headers) > 0 {
		cfg.Headers = headers
	}

	cfg.ApplyEnv()

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Debug = true
	}

	return cfg, nil
}

// setupLogging installs a development logger in the packages that log.
func setupLogging(debug bool) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.DisableStacktrace = true
	if !debug {
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}

	manpage.SetLogger(logger)
	transform.SetLogger(logger)

	return logger, nil
}
