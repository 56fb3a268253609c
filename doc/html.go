package doc

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// FromHTML parses mandoc HTML output into a documentation tree. Elements are
// tagged from their mandoc classes; unknown elements become NodeElement and
// comments, doctype and script content are dropped.
func FromHTML(r io.Reader) (*Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	doc := NewNode(NodeElement, "#document")
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := convert(c); n != nil {
			doc.Append(n)
		}
	}
	return doc, nil
}

func convert(h *html.Node) *Node {
	switch h.Type {
	case html.TextNode:
		return NewText(h.Data)
	case html.ElementNode, html.DocumentNode:
	default:
		return nil
	}

	tag := strings.ToLower(h.Data)
	if tag == "script" || tag == "style" {
		return nil
	}

	n := &Node{Tag: tag}
	for _, a := range h.Attr {
		n.SetAttr(a.Key, a.Val)
	}
	n.Kind = elementKind(tag, n.Attr("class"))

	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(c); child != nil {
			n.Append(child)
		}
	}
	return n
}

// elementKind maps a mandoc -Thtml element to a node kind.
func elementKind(tag, class string) NodeKind {
	classes := strings.Fields(class)
	has := func(name string) bool {
		for _, c := range classes {
			if c == name {
				return true
			}
		}
		return false
	}

	switch tag {
	case "a":
		if has("Xr") {
			return NodeCrossRef
		}
	case "code":
		if has("Fn") {
			return NodeCrossRef
		}
	case "div":
		if has("Pp") {
			return NodeParagraphBreak
		}
	case "p":
		if has("Pp") {
			return NodeParagraph
		}
	case "var":
		if has("Fa") {
			return NodeParamName
		}
	case "pre":
		return NodePreformatted
	case "h1":
		return NodeHeading
	case "h2":
		if has("Sh") {
			return NodeHeading
		}
	case "dl":
		return NodeDefList
	case "dt":
		return NodeTerm
	case "dd":
		return NodeDefinition
	case "ul", "ol":
		return NodeList
	case "li":
		return NodeListItem
	}
	return NodeElement
}
