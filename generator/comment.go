package generator

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/ffi-wrapgen/doc"
	"github.com/ardanlabs/ffi-wrapgen/interop"
	"github.com/ardanlabs/ffi-wrapgen/transform"
	"github.com/ardanlabs/ffi-wrapgen/wrapper"
)

// commentWidth is the text width of a doc comment line after "// ".
const commentWidth = 77

type blockKind int

const (
	blockParagraph blockKind = iota
	blockCode
	blockItem
)

type block struct {
	kind blockKind
	text string
}

// comment returns the doc comment lines of a declaration, without the
// comment markers. Empty strings are blank comment lines and lines starting
// with a tab are preformatted.
func (g *Generator) comment(name string, d transform.Declaration) []string {
	if d.Comment == nil {
		return nil
	}

	var summary []block
	if s := d.Comment.Summary; s != nil && s.Kind == doc.CommentText && s.Text == d.Function.Name {
		summary = []block{{kind: blockParagraph, text: name + " calls " + d.Function.Name + "."}}
	} else {
		summary = renderComment(d.Comment.Summary)
		leadWithName(summary, d.Function.Name, name)
	}

	if d.IsWrapper() {
		if text := panicSentence(d.Wrapper.Body.Checks); text != "" {
			summary = append(summary, block{kind: blockParagraph, text: text})
		}
	}

	if len(d.Comment.Params) > 0 {
		summary = append(summary, block{kind: blockParagraph, text: "Parameters:"})
		for _, p := range d.Comment.Params {
			var parts []string
			for _, b := range renderComment(p.Description) {
				parts = append(parts, strings.Join(strings.Fields(b.text), " "))
			}

			text := paramName(p.Name) + ":"
			if desc := strings.Join(parts, " "); desc != "" {
				text += " " + desc
			}
			summary = append(summary, block{kind: blockItem, text: text})
		}
	}

	return layout(summary)
}

// renderComment flattens a comment tree into paragraphs, code blocks and
// list items.
func renderComment(c *doc.Comment) []block {
	var r commentRenderer
	r.walk(c)
	r.flush(blockParagraph)
	return r.blocks
}

type commentRenderer struct {
	blocks []block
	words  []string
}

func (r *commentRenderer) walk(c *doc.Comment) {
	if c == nil {
		return
	}

	switch c.Kind {
	case doc.CommentText:
		for _, w := range strings.Fields(c.Text) {
			r.word(w)
		}

	case doc.CommentSeeAlso:
		r.word("[" + interop.GoName(c.Name) + "]")

	case doc.CommentParamRef:
		r.word(paramName(c.Name))

	case doc.CommentLineBreak:
		r.flush(blockParagraph)

	case doc.CommentCode:
		r.flush(blockParagraph)
		r.blocks = append(r.blocks, block{kind: blockCode, text: c.Text})

	case doc.CommentElement:
		switch c.Tag {
		case "dt":
			r.flush(blockParagraph)
			r.walkChildren(c)
			if n := len(r.words); n > 0 {
				r.words[n-1] += ":"
			}
		case "dd":
			r.walkChildren(c)
			r.flush(blockItem)
		case "li":
			r.flush(blockParagraph)
			r.walkChildren(c)
			r.flush(blockItem)
		default:
			r.flush(blockParagraph)
			r.walkChildren(c)
			r.flush(blockParagraph)
		}

	default:
		r.walkChildren(c)
	}
}

func (r *commentRenderer) walkChildren(c *doc.Comment) {
	for _, child := range c.Children {
		r.walk(child)
	}
}

// word appends w to the current paragraph. Punctuation sticks to the word
// before it and the "()" following a function link is dropped.
func (r *commentRenderer) word(w string) {
	n := len(r.words)

	if n > 0 && strings.HasSuffix(r.words[n-1], "]") && strings.HasPrefix(w, "()") {
		w = w[2:]
	}
	if w == "" {
		return
	}

	if n > 0 && strings.ContainsRune(".,;:!?)", rune(w[0])) {
		r.words[n-1] += w
		return
	}
	r.words = append(r.words, w)
}

func (r *commentRenderer) flush(kind blockKind) {
	if len(r.words) == 0 {
		return
	}
	r.blocks = append(r.blocks, block{kind: kind, text: strings.Join(r.words, " ")})
	r.words = nil
}

// leadWithName makes the first paragraph start with the declared Go name
// when it starts with the C function or a link to it.
func leadWithName(blocks []block, cName, goName string) {
	if len(blocks) == 0 || blocks[0].kind != blockParagraph {
		return
	}

	first, rest, _ := strings.Cut(blocks[0].text, " ")
	link := "[" + interop.GoName(cName) + "]"

	for _, prefix := range []string{link, cName} {
		if tail, ok := strings.CutPrefix(first, prefix); ok && !startsIdent(tail) {
			blocks[0].text = strings.TrimSpace(goName + tail + " " + rest)
			return
		}
	}
}

func startsIdent(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// panicSentence describes the length checks of a wrapper.
func panicSentence(checks []wrapper.Check) string {
	var conds []string
	for _, c := range checks {
		switch c.Kind {
		case wrapper.CheckFixedLength:
			conds = append(conds, fmt.Sprintf("len(%s) != %d", paramName(c.Param), c.Size))
		case wrapper.CheckSameLength:
			conds = append(conds, fmt.Sprintf("len(%s) != len(%s)", paramName(c.Param), paramName(c.Other)))
		}
	}

	switch len(conds) {
	case 0:
		return ""
	case 1:
		return "It panics if " + conds[0] + "."
	default:
		return "It panics if " + strings.Join(conds[:len(conds)-1], ", ") + " or " + conds[len(conds)-1] + "."
	}
}

// layout wraps blocks into comment lines. Blocks are separated by blank
// lines, except that list items directly follow the block before them.
func layout(blocks []block) []string {
	var lines []string

	for i, b := range blocks {
		if i > 0 && (b.kind != blockItem || blocks[i-1].kind == blockCode) {
			lines = append(lines, "")
		}

		switch b.kind {
		case blockParagraph:
			lines = append(lines, wrap(b.text, commentWidth)...)
		case blockItem:
			for j, l := range wrap(b.text, commentWidth-4) {
				if j == 0 {
					lines = append(lines, "  - "+l)
				} else {
					lines = append(lines, "    "+l)
				}
			}
		case blockCode:
			for _, l := range codeLines(b.text) {
				if l == "" {
					lines = append(lines, "")
				} else {
					lines = append(lines, "\t"+l)
				}
			}
		}
	}

	return lines
}

func wrap(text string, width int) []string {
	var lines []string
	var line strings.Builder

	for _, w := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(w) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(w)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	return lines
}

// codeLines splits preformatted text into lines with the common leading
// whitespace and surrounding blank lines removed.
func codeLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\t", "    "), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	indent := -1
	for _, l := range lines {
		if l == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " "))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	for i, l := range lines {
		if len(l) >= indent && indent > 0 {
			lines[i] = l[indent:]
		}
	}

	return lines
}
