package doc

import (
	"regexp"
	"strings"
)

const (
	// DescriptionID is the anchor mandoc puts on the DESCRIPTION heading.
	DescriptionID = "DESCRIPTION"
	// DefaultMarker opens the parameter list in the description.
	DefaultMarker = "The arguments"
)

var leadingWordRe = regexp.MustCompile(`^\w+`)

// Extractor builds FunctionDocs from documentation trees.
type Extractor struct {
	// FunctionPrefix identifies cross references to library functions,
	// e.g. "crypto_".
	FunctionPrefix string
	// Marker ends the summary and announces the parameter list.
	Marker string
}

// NewExtractor returns an extractor for a library whose functions start
// with prefix.
func NewExtractor(prefix string) *Extractor {
	return &Extractor{
		FunctionPrefix: prefix,
		Marker:         DefaultMarker,
	}
}

type visitMode struct {
	structural bool
	halt       bool
}

var (
	summaryMode = visitMode{halt: true}
	paramMode   = visitMode{structural: true}
)

// Extract returns the documentation found in the DESCRIPTION section of
// root, or nil when root has no such section. Unknown node shapes are
// walked generically; Extract never fails.
func (e *Extractor) Extract(root *Node) *FunctionDoc {
	desc := root.FindByID(DescriptionID)
	if desc == nil {
		return nil
	}
	if desc.Kind != NodeHeading && desc.Parent() != nil && desc.Parent().Kind == NodeHeading {
		desc = desc.Parent()
	}

	summary := Group()
	next := desc.NextSibling()
	for next != nil {
		if next.Kind == NodeHeading {
			break
		}

		c, stop := e.visit(next, summaryMode)
		if c != nil {
			summary.Children = append(summary.Children, c)
		}
		if stop {
			break
		}

		next = next.NextSibling()
	}

	fd := FunctionDoc{
		Summary: summary,
	}

	if args := e.findArguments(next); args != nil {
		fd.Params = e.params(args)
	}

	return &fd
}

// findArguments returns the first definition list at or after n, before
// the next heading, whose preceding sibling mentions the marker.
func (e *Extractor) findArguments(n *Node) *Node {
	for ; n != nil; n = n.NextSibling() {
		if n.Kind == NodeHeading {
			return nil
		}
		if n.Kind != NodeDefList {
			continue
		}

		prev := n.PrevSibling()
		for prev != nil && prev.IsBlank() {
			prev = prev.PrevSibling()
		}
		if prev != nil && e.Marker != "" && strings.Contains(prev.InnerText(), e.Marker) {
			return n
		}
	}
	return nil
}

// params walks the term/definition pairs of a definition list. Consecutive
// terms share the definition that follows them.
func (e *Extractor) params(dl *Node) []ParamDoc {
	var out []ParamDoc
	var pending []string

	for _, n := range dl.Children {
		switch n.Kind {
		case NodeTerm:
			pending = append(pending, termNames(n)...)

		case NodeDefinition:
			if len(pending) == 0 {
				continue
			}

			desc := Group()
			for _, child := range n.Children {
				if c, _ := e.visit(child, paramMode); c != nil {
					desc.Children = append(desc.Children, c)
				}
			}
			for _, name := range pending {
				out = append(out, ParamDoc{
					Name:        name,
					Description: desc.Clone(),
				})
			}
			pending = nil
		}
	}

	return out
}

func termNames(dt *Node) []string {
	var names []string

	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Kind == NodeParamName {
			if name := strings.TrimSpace(n.InnerText()); name != "" {
				names = append(names, name)
			}
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(dt)

	return names
}

// visit converts one node. stop is true once the marker has been reached in
// halting mode.
func (e *Extractor) visit(n *Node, mode visitMode) (*Comment, bool) {
	switch n.Kind {
	case NodeText:
		return e.visitText(n.Text, mode)

	case NodeCrossRef:
		text := strings.TrimSpace(n.InnerText())
		if e.FunctionPrefix != "" && strings.HasPrefix(text, e.FunctionPrefix) {
			return SeeAlso(leadingWordRe.FindString(text)), false
		}
		return e.visitChildren(n, mode)

	case NodeParagraphBreak:
		return LineBreak(), false

	case NodeParagraph:
		c, stop := e.visitChildren(n, mode)
		if c == nil {
			return LineBreak(), stop
		}
		return Group(append([]*Comment{LineBreak()}, c.Children...)...), stop

	case NodeParamName:
		name := strings.TrimSpace(n.InnerText())
		if name == "" {
			return nil, false
		}
		return ParamRef(name), false

	case NodePreformatted:
		return Code(n.InnerText()), false

	case NodeElement, NodeHeading, NodeDefList, NodeTerm, NodeDefinition, NodeList, NodeListItem:
		return e.visitChildren(n, mode)
	}

	return e.visitChildren(n, mode)
}

func (e *Extractor) visitText(text string, mode visitMode) (*Comment, bool) {
	stop := false
	if mode.halt && e.Marker != "" {
		if i := strings.Index(text, e.Marker); i >= 0 {
			text = text[:i]
			stop = true
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, stop
	}
	return Text(text), stop
}

func (e *Extractor) visitChildren(n *Node, mode visitMode) (*Comment, bool) {
	if len(n.Children) == 0 {
		if text := strings.TrimSpace(n.InnerText()); text != "" {
			return Text(text), false
		}
		return nil, false
	}

	group := Group()
	if mode.structural && isStructural(n.Kind) {
		group = Element(n.Tag)
	}

	for _, child := range n.Children {
		c, stop := e.visit(child, mode)
		if c != nil {
			group.Children = append(group.Children, c)
		}
		if stop {
			return nonEmpty(group), true
		}
	}

	return nonEmpty(group), false
}

func isStructural(k NodeKind) bool {
	switch k {
	case NodeDefList, NodeTerm, NodeDefinition, NodeList, NodeListItem:
		return true
	}
	return false
}

func nonEmpty(c *Comment) *Comment {
	if len(c.Children) == 0 {
		return nil
	}
	return c
}
