package doc

import "strings"

// CommentKind tags a comment tree node.
type CommentKind int

const (
	CommentText CommentKind = iota
	// CommentSeeAlso is an inline reference to another function (Name).
	CommentSeeAlso
	// CommentParamRef is an inline reference to a parameter (Name).
	CommentParamRef
	CommentLineBreak
	// CommentCode is a verbatim code block (Text).
	CommentCode
	// CommentGroup concatenates its children inline.
	CommentGroup
	// CommentElement keeps a structural element (Tag: dl, dt, dd, ul, ol, li).
	CommentElement
)

// Comment is a node of the structured comment model.
type Comment struct {
	Kind     CommentKind
	Text     string
	Name     string
	Tag      string
	Children []*Comment
}

func Text(s string) *Comment { return &Comment{Kind: CommentText, Text: s} }
func SeeAlso(name string) *Comment { return &Comment{Kind: CommentSeeAlso, Name: name} }
func ParamRef(name string) *Comment { return &Comment{Kind: CommentParamRef, Name: name} }
func LineBreak() *Comment { return &Comment{Kind: CommentLineBreak} }
func Code(s string) *Comment { return &Comment{Kind: CommentCode, Text: s} }
func Group(cs ...*Comment) *Comment { return &Comment{Kind: CommentGroup, Children: cs} }
func Element(tag string, cs ...*Comment) *Comment {
	return &Comment{Kind: CommentElement, Tag: tag, Children: cs}
}

// Clone returns a deep copy of c.
func (c *Comment) Clone() *Comment {
	if c == nil {
		return nil
	}
	out := *c
	out.Children = nil
	for _, child := range c.Children {
		out.Children = append(out.Children, child.Clone())
	}
	return &out
}

// FirstText returns the first text node of c in depth-first order.
func (c *Comment) FirstText() *Comment {
	if c == nil {
		return nil
	}
	if c.Kind == CommentText {
		return c
	}
	for _, child := range c.Children {
		if t := child.FirstText(); t != nil {
			return t
		}
	}
	return nil
}

// PlainText flattens c to a single line of text. References are spelled
// with their C names.
func (c *Comment) PlainText() string {
	var parts []string
	c.collect(&parts)
	return strings.Join(parts, " ")
}

func (c *Comment) collect(parts *[]string) {
	if c == nil {
		return
	}
	switch c.Kind {
	case CommentText, CommentCode:
		if s := strings.Join(strings.Fields(c.Text), " "); s != "" {
			*parts = append(*parts, s)
		}
	case CommentSeeAlso, CommentParamRef:
		*parts = append(*parts, c.Name)
	}
	for _, child := range c.Children {
		child.collect(parts)
	}
}

// ParamDoc is the description of one parameter.
type ParamDoc struct {
	Name        string
	Description *Comment
}

// FunctionDoc is the documentation extracted for one function.
type FunctionDoc struct {
	Summary *Comment
	Params  []ParamDoc
}

// Param returns the description of the parameter name.
func (fd *FunctionDoc) Param(name string) (*Comment, bool) {
	for _, p := range fd.Params {
		if p.Name == name {
			return p.Description, true
		}
	}
	return nil, false
}

// FullComment is the comment attached to one generated declaration.
type FullComment struct {
	Summary *Comment
	Params  []ParamDoc
}

// Param returns the description of the parameter name.
func (fc *FullComment) Param(name string) (*Comment, bool) {
	for _, p := range fc.Params {
		if p.Name == name {
			return p.Description, true
		}
	}
	return nil, false
}
