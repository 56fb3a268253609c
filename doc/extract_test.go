package doc

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const lockPage = `<!DOCTYPE html>
<html>
<body>
<h1 class="Sh" title="Sh" id="NAME"><a class="selflink" href="#NAME">NAME</a></h1>
<b class="Nm">crypto_lock</b> &#8212; authenticated encryption
<h1 class="Sh" title="Sh" id="DESCRIPTION"><a class="selflink" href="#DESCRIPTION">DESCRIPTION</a></h1>
<code class="Fn">crypto_lock</code>() encrypts and authenticates a plaintext. It can be decrypted by <a class="Xr" href="crypto_unlock.3monocypher.html">crypto_unlock(3monocypher)</a>.
<div class="Pp"></div>
The arguments are:
<dl class="Bl-tag">
  <dt><var class="Fa">key</var></dt>
  <dd>A 32-byte session key, shared between sender and recipient.</dd>
  <dt><var class="Fa">nonce</var></dt>
  <dd>A 24-byte number, used only once.</dd>
  <dt><var class="Fa">mac</var></dt>
  <dd>A 16-byte message authentication code. See <var class="Fa">key</var>.</dd>
  <dt><var class="Fa">plain_text</var></dt>
  <dd>The secret message to encrypt.</dd>
</dl>
<h1 class="Sh" title="Sh" id="RETURN_VALUES"><a class="selflink" href="#RETURN_VALUES">RETURN VALUES</a></h1>
These functions return nothing.
</body>
</html>`

const wipePage = `<html><body>
<section class="Sh">
<h2 class="Sh" id="DESCRIPTION"><a class="permalink" href="#DESCRIPTION">DESCRIPTION</a></h2>
<p class="Pp"><code class="Fn">crypto_wipe</code>() securely erases sensitive data in memory.</p>
<p class="Pp">The arguments are:</p>
<dl class="Bl-tag">
  <dt id="secret"><var class="Fa">secret</var></dt>
  <dd>The buffer to erase.</dd>
  <dt><var class="Fa">size</var></dt>
  <dd>The number of bytes to erase from the buffer.</dd>
</dl>
</section>
</body></html>`

func parse(t *testing.T, page string) *Node {
	t.Helper()

	root, err := FromHTML(strings.NewReader(page))
	require.NoError(t, err)
	return root
}

func TestExtractSummary(t *testing.T) {
	fd := NewExtractor("crypto_").Extract(parse(t, lockPage))
	require.NotNil(t, fd)

	want := Group(
		SeeAlso("crypto_lock"),
		Text("() encrypts and authenticates a plaintext. It can be decrypted by"),
		SeeAlso("crypto_unlock"),
		Text("."),
		LineBreak(),
	)
	if diff := cmp.Diff(want, fd.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractParams(t *testing.T) {
	fd := NewExtractor("crypto_").Extract(parse(t, lockPage))
	require.NotNil(t, fd)

	var names []string
	for _, p := range fd.Params {
		names = append(names, p.Name)
	}
	require.Equal(t, []string{"key", "nonce", "mac", "plain_text"}, names)

	mac, ok := fd.Param("mac")
	require.True(t, ok)

	want := Group(
		Text("A 16-byte message authentication code. See"),
		ParamRef("key"),
		Text("."),
	)
	if diff := cmp.Diff(want, mac); diff != "" {
		t.Errorf("mac mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractParagraphs(t *testing.T) {
	fd := NewExtractor("crypto_").Extract(parse(t, wipePage))
	require.NotNil(t, fd)

	require.Equal(t, "crypto_wipe () securely erases sensitive data in memory.", fd.Summary.PlainText())
	require.Equal(t, CommentLineBreak, fd.Summary.Children[0].Children[0].Kind)

	require.Len(t, fd.Params, 2)
	require.Equal(t, "secret", fd.Params[0].Name)
	require.Equal(t, "The buffer to erase.", fd.Params[0].Description.PlainText())
	require.Equal(t, "size", fd.Params[1].Name)
}

func TestExtractNoDescription(t *testing.T) {
	page := `<html><body><h1 class="Sh" id="NAME">NAME</h1>nothing here</body></html>`

	require.Nil(t, NewExtractor("crypto_").Extract(parse(t, page)))
}

func TestExtractMarkerFirst(t *testing.T) {
	page := `<html><body>
<h1 class="Sh" id="DESCRIPTION">DESCRIPTION</h1>
The arguments are:
<dl class="Bl-tag">
  <dt><var class="Fa">ctx</var></dt>
  <dd>The context.</dd>
</dl>
</body></html>`

	fd := NewExtractor("crypto_").Extract(parse(t, page))
	require.NotNil(t, fd)
	require.Empty(t, fd.Summary.Children)
	require.Len(t, fd.Params, 1)
	require.Equal(t, "ctx", fd.Params[0].Name)
}

func TestExtractStopsAtHeading(t *testing.T) {
	page := `<html><body>
<h1 class="Sh" id="DESCRIPTION">DESCRIPTION</h1>
Erases memory.
<h1 class="Sh" id="EXAMPLES">EXAMPLES</h1>
The arguments are:
<dl class="Bl-tag">
  <dt><var class="Fa">secret</var></dt>
  <dd>Not a real parameter list.</dd>
</dl>
</body></html>`

	fd := NewExtractor("crypto_").Extract(parse(t, page))
	require.NotNil(t, fd)
	require.Equal(t, "Erases memory.", fd.Summary.PlainText())
	require.Empty(t, fd.Params)
}

func TestExtractSharedDefinition(t *testing.T) {
	page := `<html><body>
<h1 class="Sh" id="DESCRIPTION">DESCRIPTION</h1>
Compares buffers. The arguments are:
<dl class="Bl-tag">
  <dt><var class="Fa">a</var></dt>
  <dt><var class="Fa">b</var></dt>
  <dd>The buffers to compare.</dd>
</dl>
</body></html>`

	fd := NewExtractor("crypto_").Extract(parse(t, page))
	require.NotNil(t, fd)
	require.Equal(t, "Compares buffers.", fd.Summary.PlainText())
	require.Len(t, fd.Params, 2)

	a, _ := fd.Param("a")
	b, _ := fd.Param("b")
	require.Equal(t, "The buffers to compare.", a.PlainText())
	require.Equal(t, a.PlainText(), b.PlainText())
	require.NotSame(t, a, b)
}

func TestExtractStructuralDescriptions(t *testing.T) {
	page := `<html><body>
<h1 class="Sh" id="DESCRIPTION">DESCRIPTION</h1>
Configures hashing. See <a class="Xr" href="intro.3monocypher.html">intro(3monocypher)</a>.
The arguments are:
<dl class="Bl-tag">
  <dt><var class="Fa">config</var></dt>
  <dd>One of:<ul class="Bl-bullet"><li>fast</li><li>slow</li></ul>
<pre>config.nb_blocks = 100000;</pre></dd>
</dl>
</body></html>`

	fd := NewExtractor("crypto_").Extract(parse(t, page))
	require.NotNil(t, fd)
	require.Equal(t, "Configures hashing. See intro(3monocypher) .", fd.Summary.PlainText())

	config, ok := fd.Param("config")
	require.True(t, ok)

	want := Group(
		Text("One of:"),
		Element("ul",
			Element("li", Text("fast")),
			Element("li", Text("slow")),
		),
		Code("config.nb_blocks = 100000;"),
	)
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}
