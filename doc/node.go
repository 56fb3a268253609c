// Package doc turns rendered manual pages into structured per-function
// comments and attaches them to generated declarations.
package doc

import "strings"

// NodeKind tags a documentation tree node.
type NodeKind int

const (
	NodeText NodeKind = iota
	NodeElement
	NodeHeading
	NodeCrossRef
	NodeParagraphBreak
	NodeParagraph
	NodeParamName
	NodePreformatted
	NodeDefList
	NodeTerm
	NodeDefinition
	NodeList
	NodeListItem
)

var nodeKindNames = [...]string{
	NodeText:           "text",
	NodeElement:        "element",
	NodeHeading:        "heading",
	NodeCrossRef:       "xref",
	NodeParagraphBreak: "break",
	NodeParagraph:      "paragraph",
	NodeParamName:      "param",
	NodePreformatted:   "pre",
	NodeDefList:        "dl",
	NodeTerm:           "dt",
	NodeDefinition:     "dd",
	NodeList:           "list",
	NodeListItem:       "li",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "unknown"
}

// Node is a generic documentation tree node. Text is only set on NodeText.
type Node struct {
	Kind     NodeKind
	Tag      string
	Attrs    map[string]string
	Text     string
	Children []*Node

	parent *Node
}

// NewText returns a text node.
func NewText(text string) *Node {
	return &Node{Kind: NodeText, Text: text}
}

// NewNode returns a node of kind with the given children attached.
func NewNode(kind NodeKind, tag string, children ...*Node) *Node {
	n := &Node{Kind: kind, Tag: tag}
	for _, c := range children {
		n.Append(c)
	}
	return n
}

// Append adds child as the last child of n.
func (n *Node) Append(child *Node) {
	child.parent = n
	n.Children = append(n.Children, child)
}

// Attr returns the value of the attribute key, or "".
func (n *Node) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// SetAttr sets an attribute and returns n.
func (n *Node) SetAttr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// Parent returns the parent of n, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// NextSibling returns the node after n under the same parent.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	siblings := n.parent.Children
	for i, s := range siblings {
		if s == n && i+1 < len(siblings) {
			return siblings[i+1]
		}
	}
	return nil
}

// PrevSibling returns the node before n under the same parent.
func (n *Node) PrevSibling() *Node {
	if n.parent == nil {
		return nil
	}
	siblings := n.parent.Children
	for i, s := range siblings {
		if s == n && i > 0 {
			return siblings[i-1]
		}
	}
	return nil
}

// InnerText returns the concatenated text of n and its descendants.
func (n *Node) InnerText() string {
	if n.Kind == NodeText {
		return n.Text
	}

	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.InnerText())
	}
	return b.String()
}

// IsBlank reports whether n is a text node holding only whitespace.
func (n *Node) IsBlank() bool {
	return n.Kind == NodeText && strings.TrimSpace(n.Text) == ""
}

// FindByID returns the first node in depth-first order whose id attribute
// equals id.
func (n *Node) FindByID(id string) *Node {
	if n.Attr("id") == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}
