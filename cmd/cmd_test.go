package cmd

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture copies the monocypher test tree into a temporary directory so
// generated files and cache writes never touch the repository.
func fixture(t *testing.T) string {
	t.Helper()

	src := filepath.Join("..", "testdata", "monocypher")
	dst := t.TempDir()

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	require.NoError(t, err)

	return dst
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cli := NewCLI()
	cli.SetOut(&out)
	cli.SetErr(&out)
	cli.SetArgs(args)

	err := cli.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	dir := fixture(t)

	out, err := run(t, "generate", "--config", filepath.Join(dir, "wrapgen.toml"))
	require.NoError(t, err)

	outDir := filepath.Join(dir, "out")
	for _, name := range []string{"functions.go", "helpers.go", "loader.go", "types.go"} {
		assert.Contains(t, out, "Generated: "+filepath.Join(outDir, name))
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	data, err := os.ReadFile(filepath.Join(outDir, "functions.go"))
	require.NoError(t, err)
	src := string(data)

	assert.Contains(t, src, "package monocypher")
	assert.Contains(t, src, "func CryptoLock(")
	assert.Contains(t, src, "func CryptoLockBytes(")
	assert.Contains(t, src, "A 32-byte session key")
	assert.Contains(t, src, "See Monocypher manual for more details.")
}

func TestGenerateFlagOverrides(t *testing.T) {
	dir := fixture(t)
	outDir := filepath.Join(dir, "bindings")

	_, err := run(t, "generate",
		"--config", filepath.Join(dir, "wrapgen.toml"),
		"--output", outDir,
		"--package", "mc",
	)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "loader.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package mc\n")
}

func TestGenerateWithoutDocs(t *testing.T) {
	dir := fixture(t)
	outDir := filepath.Join(dir, "plain")

	_, err := run(t, "generate",
		"--header", filepath.Join(dir, "monocypher.h"),
		"--output", outDir,
		"--package", "monocypher",
	)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "functions.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "// CryptoWipe")
	assert.NotContains(t, string(data), "See Monocypher manual")
}

func TestGenerateMissingHeaders(t *testing.T) {
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err := run(t, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}

func TestGenerateUnknownConfig(t *testing.T) {
	_, err := run(t, "generate", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestInspect(t *testing.T) {
	dir := fixture(t)

	out, err := run(t, "inspect",
		"--header", filepath.Join(dir, "monocypher.h"),
		"--function", "crypto_lock",
	)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[0], "PAIRED WITH")

	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "crypto_lock"), line)
	}
	assert.Contains(t, out, "FixedBuffer")
	assert.Contains(t, out, "cipher_text, plain_text")
}
