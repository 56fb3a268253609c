package doc

import (
	"fmt"
	"regexp"
	"strings"
)

var byteLengthRe = regexp.MustCompile(`A \d+-byte`)

// Param is a parameter of the declaration a comment is attached to.
type Param struct {
	Name string
	// FixedSize is the array size of a fixed buffer parameter, 0 otherwise.
	FixedSize int
}

// AttachOptions tunes Attach.
type AttachOptions struct {
	// MissingParam is the description given to parameters the
	// documentation does not mention. Empty leaves them undocumented.
	MissingParam string
}

// Attach builds the comment of a declaration with the given parameters from
// fd, which may be nil. fd is not modified: the summary and every kept
// description are copies.
func Attach(function string, params []Param, fd *FunctionDoc, opts AttachOptions) *FullComment {
	fc := FullComment{}

	if fd == nil || fd.Summary == nil {
		fc.Summary = Text(function)
	} else {
		fc.Summary = fd.Summary.Clone()
	}

	present := make(map[string]bool, len(params))
	for _, p := range params {
		present[p.Name] = true
	}

	if fd != nil {
		for _, p := range fd.Params {
			if !present[p.Name] {
				continue
			}
			fc.Params = append(fc.Params, ParamDoc{
				Name:        p.Name,
				Description: p.Description.Clone(),
			})
		}
	}

	for _, p := range params {
		if _, ok := fc.Param(p.Name); ok {
			continue
		}
		if opts.MissingParam == "" && p.FixedSize == 0 {
			continue
		}

		desc := Group()
		if opts.MissingParam != "" {
			desc.Children = append(desc.Children, Text(opts.MissingParam))
		}
		fc.Params = append(fc.Params, ParamDoc{Name: p.Name, Description: desc})
	}

	for _, p := range params {
		if p.FixedSize == 0 {
			continue
		}
		for i := range fc.Params {
			if fc.Params[i].Name == p.Name {
				ensureByteLength(&fc.Params[i], p.FixedSize)
			}
		}
	}

	return &fc
}

// EnsureByteLength prefixes text with "A n-byte buffer." unless it already
// states a byte length. Applying it twice yields the same text.
func EnsureByteLength(text string, n int) string {
	if byteLengthRe.MatchString(text) {
		return text
	}

	phrase := fmt.Sprintf("A %d-byte buffer.", n)
	if strings.TrimSpace(text) == "" {
		return phrase
	}
	return phrase + " " + text
}

func ensureByteLength(pd *ParamDoc, n int) {
	if pd.Description == nil {
		pd.Description = Group()
	}
	if byteLengthRe.MatchString(pd.Description.PlainText()) {
		return
	}

	desc := pd.Description
	if desc.Kind != CommentGroup && desc.Kind != CommentElement {
		desc = Group(desc)
		pd.Description = desc
	}

	t := desc.FirstText()
	if t == nil {
		t = Text("")
		desc.Children = append([]*Comment{t}, desc.Children...)
	}
	t.Text = EnsureByteLength(t.Text, n)
}
