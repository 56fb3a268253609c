package generator

import (
	"go/ast"
	"go/importer"
	goparser "go/parser"
	"go/token"
	"go/types"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardanlabs/ffi-wrapgen/interop"
	"github.com/ardanlabs/ffi-wrapgen/parser"
	"github.com/ardanlabs/ffi-wrapgen/transform"
)

func generateMonocypher(t *testing.T) map[string]string {
	t.Helper()

	data, err := os.ReadFile("../testdata/monocypher/monocypher.h")
	require.NoError(t, err)

	header, err := parser.Parse(string(data))
	require.NoError(t, err)

	conv := interop.NewConverter(header)
	decls, err := transform.Run(conv.Functions(), nil, transform.Options{})
	require.NoError(t, err)

	files, err := New(Options{Package: "monocypher", Library: "monocypher"}, conv, decls).Generate()
	require.NoError(t, err)

	return files
}

func TestGenerateParses(t *testing.T) {
	files := generateMonocypher(t)

	for _, name := range []string{"loader.go", "types.go", "functions.go", "helpers.go"} {
		src, ok := files[name]
		require.True(t, ok, "missing %s", name)

		f, err := goparser.ParseFile(token.NewFileSet(), name, src, goparser.ParseComments)
		require.NoError(t, err, "%s:\n%s", name, src)
		assert.Equal(t, "monocypher", f.Name.Name)
	}
}

func TestGenerateRawFunctions(t *testing.T) {
	src := generateMonocypher(t)["functions.go"]

	for _, want := range []string{
		`func CryptoLock(mac *[16]byte, cipherText uintptr, key *[32]byte, nonce *[24]byte, plainText uintptr, textSize uint64) {`,
		`cryptoLockFunc.Call(nil, unsafe.Pointer(&mac), unsafe.Pointer(&cipherText), unsafe.Pointer(&key), unsafe.Pointer(&nonce), unsafe.Pointer(&plainText), unsafe.Pointer(&textSize))`,
		`if cryptoLockFunc, err = prep("crypto_lock", &ffi.TypeVoid, &ffi.TypePointer, &ffi.TypePointer, &ffi.TypePointer, &ffi.TypePointer, &ffi.TypePointer, &ffi.TypeUint64); err != nil {`,
		`func CryptoVerify16(a *[16]byte, b *[16]byte) int32 {`,
		`return int32(result)`,
		`func CryptoBlake2bInit(ctx *CryptoBlake2bCtx) {`,
		`func CryptoChacha20Ctr(cipherText uintptr, plainText uintptr, textSize uint64, key *[32]byte, nonce *[8]byte, ctr uint64) uint64 {`,
	} {
		assert.Contains(t, src, want)
	}

	assert.NotContains(t, src, "func CryptoBlake2bInitBytes")
	assert.NotContains(t, src, "golang.org/x/sys/unix")
}

func TestGenerateWrappers(t *testing.T) {
	src := generateMonocypher(t)["functions.go"]

	for _, want := range []string{
		`func CryptoLockBytes(mac []byte, cipherText []byte, key []byte, nonce []byte, plainText []byte) {`,
		`expectSize(mac, 16, "mac")`,
		`expectSameBufferSize(cipherText, plainText, "cipherText", "plainText")`,
		`CryptoLock((*[16]byte)(mac), pinBuffer(&pinner, cipherText), (*[32]byte)(key), (*[24]byte)(nonce), pinBuffer(&pinner, plainText), uint64(len(cipherText)))`,
		`func CryptoUnlockBytes(plainText []byte, key []byte, nonce []byte, mac []byte, cipherText []byte) int32 {`,
		`return CryptoUnlock(pinBuffer(&pinner, plainText), (*[32]byte)(key), (*[24]byte)(nonce), (*[16]byte)(mac), pinBuffer(&pinner, cipherText), uint64(len(plainText)))`,
		`func CryptoWipeBytes(secret []byte) {`,
		`CryptoWipe(pinBuffer(&pinner, secret), uint64(len(secret)))`,
		`func CryptoArgon2iBytes(hash []byte, workArea []byte, nbBlocks uint32, nbIterations uint32, password []byte, salt []byte) {`,
		`func CryptoBlake2bUpdateBytes(ctx *CryptoBlake2bCtx, message []byte) {`,
		`CryptoBlake2bUpdate(ctx, pinBuffer(&pinner, message), uint64(len(message)))`,
		`func CryptoVerify16Bytes(a []byte, b []byte) int32 {`,
	} {
		assert.Contains(t, src, want)
	}

	verify := funcSource(t, src, "CryptoVerify16Bytes")
	assert.NotContains(t, verify, "pinner")
}

func TestGenerateOrder(t *testing.T) {
	src := generateMonocypher(t)["functions.go"]

	f, err := goparser.ParseFile(token.NewFileSet(), "functions.go", src, 0)
	require.NoError(t, err)

	var names []string
	for _, decl := range f.Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok {
			names = append(names, fd.Name.Name)
		}
	}

	require.Greater(t, len(names), 4)
	assert.Equal(t, []string{"loadFuncs", "CryptoVerify16", "CryptoVerify16Bytes", "CryptoVerify32"}, names[:4])
}

func TestGenerateTypes(t *testing.T) {
	src := generateMonocypher(t)["types.go"]

	assert.Contains(t, src, "type CryptoBlake2bCtx struct {")
	assert.Contains(t, src, "[8]uint64")
	assert.Contains(t, src, "var FFITypeCryptoBlake2bCtx = ffi.NewType(")
	assert.Contains(t, src, strings.TrimSuffix(strings.Repeat("&ffi.TypeUint64, ", 8), ", ")+",")
	assert.Contains(t, src, "type CryptoSignVtable struct {")
}

func TestGenerateWithoutWrappers(t *testing.T) {
	header, err := parser.Parse("int crypto_version(void);\n")
	require.NoError(t, err)

	conv := interop.NewConverter(header)
	decls, err := transform.Run(conv.Functions(), nil, transform.Options{})
	require.NoError(t, err)

	files, err := New(Options{Package: "mini", Library: "mini"}, conv, decls).Generate()
	require.NoError(t, err)

	_, ok := files["helpers.go"]
	assert.False(t, ok)
	assert.Contains(t, files["functions.go"], "// CryptoVersion calls crypto_version.\nfunc CryptoVersion() int32 {")
}

func TestWrapperSuffix(t *testing.T) {
	conv, decls := lockDecls(t)

	files, err := New(Options{Package: "monocypher", Library: "monocypher", WrapperSuffix: "Slice"}, conv, decls).Generate()
	require.NoError(t, err)
	assert.Contains(t, files["functions.go"], "func CryptoLockSlice(")
}

func funcSource(t *testing.T, src, name string) string {
	t.Helper()

	start := strings.Index(src, "func "+name+"(")
	require.GreaterOrEqual(t, start, 0, "function %s not found", name)

	end := strings.Index(src[start:], "\n}\n")
	require.GreaterOrEqual(t, end, 0)

	return src[start : start+end]
}

// stubImporter resolves the binding runtime packages to empty packages so the
// generated code can be type-checked without them.
type stubImporter struct {
	std types.Importer
}

func (s stubImporter) Import(path string) (*types.Package, error) {
	switch path {
	case "github.com/jupiterrider/ffi":
		pkg := types.NewPackage(path, "ffi")
		pkg.MarkComplete()
		return pkg, nil
	case "golang.org/x/sys/unix":
		pkg := types.NewPackage(path, "unix")
		pkg.MarkComplete()
		return pkg, nil
	}
	return s.std.Import(path)
}

func TestGenerateShadowedNames(t *testing.T) {
	header, err := parser.Parse(`
void lib_copy(uint8_t *out, size_t len, const uint8_t *data, size_t data_size);
int lib_fill(uint8_t *pinner, size_t pinner_size, size_t cap);
int lib_find(const char *result, const char *key, int key_ptr);
`)
	require.NoError(t, err)

	conv := interop.NewConverter(header)
	decls, err := transform.Run(conv.Functions(), nil, transform.Options{})
	require.NoError(t, err)

	files, err := New(Options{Package: "shadow", Library: "shadow"}, conv, decls).Generate()
	require.NoError(t, err)

	src := files["functions.go"]
	assert.Contains(t, src, "func LibCopyBytes(out []byte, len_ uint64, data []byte) {")
	assert.Contains(t, src, "uint64(len(data))")
	assert.Contains(t, src, "func LibFillBytes(pinner_ []byte, cap_ uint64) int32 {")
	assert.Contains(t, src, "func LibFind(result_ string, key string, keyPtr int32) int32 {")
	assert.Contains(t, src, "keyPtr_, _ := unix.BytePtrFromString(key)")

	fset := token.NewFileSet()
	var parsed []*ast.File
	for _, name := range sortedNames(files) {
		f, err := goparser.ParseFile(fset, name, files[name], 0)
		require.NoError(t, err, "%s:\n%s", name, files[name])
		parsed = append(parsed, f)
	}

	var errs []string
	conf := types.Config{
		Importer: stubImporter{std: importer.Default()},
		Error: func(err error) {
			msg := err.Error()
			if strings.Contains(msg, "ffi.") || strings.Contains(msg, "unix.") {
				return
			}
			errs = append(errs, msg)
		},
	}
	conf.Check("shadow", fset, parsed, nil)

	assert.Empty(t, errs, src)
}
