package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seeManual = "See Monocypher manual for more details."

func lockDoc() *FunctionDoc {
	return &FunctionDoc{
		Summary: Group(SeeAlso("crypto_lock"), Text("() encrypts and authenticates a plaintext.")),
		Params: []ParamDoc{
			{Name: "key", Description: Group(Text("A 32-byte session key."))},
			{Name: "nonce", Description: Group(Text("A number, used only once."))},
			{Name: "cipher_text", Description: Group(Text("The encrypted message."))},
			{Name: "unrelated", Description: Group(Text("Belongs to a sibling function."))},
		},
	}
}

func TestAttachFallbackSummary(t *testing.T) {
	fc := Attach("crypto_wipe", []Param{{Name: "secret"}, {Name: "size"}}, nil, AttachOptions{})

	require.Equal(t, Text("crypto_wipe"), fc.Summary)
	require.Empty(t, fc.Params)
}

func TestAttachDropsUnknownParams(t *testing.T) {
	params := []Param{{Name: "key", FixedSize: 32}, {Name: "cipher_text"}}
	fc := Attach("crypto_lock", params, lockDoc(), AttachOptions{})

	require.Len(t, fc.Params, 2)
	_, ok := fc.Param("unrelated")
	assert.False(t, ok)
	_, ok = fc.Param("nonce")
	assert.False(t, ok)
}

func TestAttachMissingParams(t *testing.T) {
	params := []Param{{Name: "key"}, {Name: "mac"}}
	fc := Attach("crypto_lock", params, lockDoc(), AttachOptions{MissingParam: seeManual})

	mac, ok := fc.Param("mac")
	require.True(t, ok)
	require.Equal(t, seeManual, mac.PlainText())

	fc = Attach("crypto_lock", params, lockDoc(), AttachOptions{})
	_, ok = fc.Param("mac")
	require.False(t, ok)
}

func TestAttachFixedSize(t *testing.T) {
	params := []Param{
		{Name: "key", FixedSize: 32},
		{Name: "nonce", FixedSize: 24},
		{Name: "mac", FixedSize: 16},
	}
	fc := Attach("crypto_lock", params, lockDoc(), AttachOptions{MissingParam: seeManual})

	key, _ := fc.Param("key")
	assert.Equal(t, "A 32-byte session key.", key.PlainText())

	nonce, _ := fc.Param("nonce")
	assert.Equal(t, "A 24-byte buffer. A number, used only once.", nonce.PlainText())

	mac, _ := fc.Param("mac")
	assert.Equal(t, "A 16-byte buffer. "+seeManual, mac.PlainText())
}

func TestAttachFixedSizeNoText(t *testing.T) {
	fd := &FunctionDoc{
		Summary: Group(Text("Hashes.")),
		Params: []ParamDoc{
			{Name: "hash", Description: Group(ParamRef("ctx"))},
		},
	}
	fc := Attach("crypto_blake2b", []Param{{Name: "hash", FixedSize: 64}}, fd, AttachOptions{})

	hash, _ := fc.Param("hash")
	require.Len(t, hash.Children, 2)
	assert.Equal(t, Text("A 64-byte buffer."), hash.Children[0])
	assert.Equal(t, ParamRef("ctx"), hash.Children[1])

	fc = Attach("crypto_blake2b", []Param{{Name: "hash", FixedSize: 64}}, nil, AttachOptions{})
	hash, ok := fc.Param("hash")
	require.True(t, ok)
	assert.Equal(t, "A 64-byte buffer.", hash.PlainText())
}

func TestAttachLeavesSourceUntouched(t *testing.T) {
	fd := lockDoc()
	Attach("crypto_lock", []Param{{Name: "nonce", FixedSize: 24}}, fd, AttachOptions{MissingParam: seeManual})

	nonce, _ := fd.Param("nonce")
	require.Equal(t, "A number, used only once.", nonce.PlainText())
	require.Len(t, fd.Params, 4)
}

func TestEnsureByteLength(t *testing.T) {
	tests := []struct {
		text string
		n    int
		want string
	}{
		{"", 16, "A 16-byte buffer."},
		{"   ", 16, "A 16-byte buffer."},
		{"The key.", 32, "A 32-byte buffer. The key."},
		{"A 32-byte key.", 32, "A 32-byte key."},
		{"A 64-byte hash.", 32, "A 64-byte hash."},
	}

	for _, tt := range tests {
		got := EnsureByteLength(tt.text, tt.n)
		assert.Equal(t, tt.want, got, "text %q", tt.text)
		assert.Equal(t, got, EnsureByteLength(got, tt.n), "not idempotent for %q", tt.text)
	}
}
