// Package wordml models the WordprocessingML document body as a small closed
// set of node variants: paragraphs, the text fragments inside them, and
// opaque markup that is carried through byte-for-byte. Only the
// paragraph/fragment subset is interpreted; run properties, tables, section
// breaks, and anything else the package has never heard of survive
// serialization untouched.
package wordml

import (
	"fmt"
	"strings"
)

// Node is one top-level piece of a parsed part: a *Paragraph or a Raw chunk.
type Node interface {
	node()
}

// Child is one piece of a paragraph: a *Fragment or a Raw chunk.
type Child interface {
	child()
}

// Raw is markup the model does not interpret. It is reproduced verbatim on
// serialization.
type Raw struct {
	Markup string
}

func (Raw) node()  {}
func (Raw) child() {}

// Fragment is one <w:t> element, the atomic independently-formatted unit of
// paragraph text. The enclosing run markup (run properties included) lives in
// the surrounding Raw chunks and acts as the fragment's formatting handle; it
// is never parsed and never merged with a neighbor's.
type Fragment struct {
	// Text is the decoded character content.
	Text string

	// Preserve reports whether the element declared xml:space="preserve",
	// which makes leading/trailing whitespace in Text significant. It is
	// recorded exactly as declared, never inferred from the content.
	Preserve bool

	// Attrs holds any further attributes verbatim, including a leading space.
	Attrs string
}

func (*Fragment) child() {}

// Paragraph is one <w:p> block: an ordered sequence of text fragments
// interleaved with opaque markup. Redaction never crosses a paragraph
// boundary.
type Paragraph struct {
	// OpenTag is the literal <w:p ...> tag, attributes and all.
	OpenTag string

	// SelfClosed marks a <w:p/> with no content.
	SelfClosed bool

	Children []Child
}

func (*Paragraph) node() {}

// Fragments returns the paragraph's text fragments in document order.
func (p *Paragraph) Fragments() []*Fragment {
	var frags []*Fragment
	for _, c := range p.Children {
		if f, ok := c.(*Fragment); ok {
			frags = append(frags, f)
		}
	}
	return frags
}

// Text returns the paragraph's flattened text: every fragment's content
// concatenated in order.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, c := range p.Children {
		if f, ok := c.(*Fragment); ok {
			b.WriteString(f.Text)
		}
	}
	return b.String()
}

// ReplaceFragment splices parts in place of f, keeping them adjacent inside
// the run that held f so the formatting handle applies to every part. It
// reports whether f was found.
func (p *Paragraph) ReplaceFragment(f *Fragment, parts []*Fragment) bool {
	for i, c := range p.Children {
		if c != Child(f) {
			continue
		}
		repl := make([]Child, 0, len(parts)+len(p.Children)-1)
		repl = append(repl, p.Children[:i]...)
		for _, part := range parts {
			repl = append(repl, part)
		}
		repl = append(repl, p.Children[i+1:]...)
		p.Children = repl
		return true
	}
	return false
}

// Document is a parsed body part. It is immutable except through fragment
// edits applied by the redaction engine.
type Document struct {
	Nodes []Node
}

// Paragraphs returns the document's paragraphs in order.
func (d *Document) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, n := range d.Nodes {
		if p, ok := n.(*Paragraph); ok {
			paras = append(paras, p)
		}
	}
	return paras
}

// StructureError reports markup that does not fit the paragraph/fragment
// model, or an internal offset-mapping inconsistency. Indexes are zero-based;
// -1 means the index is not known.
type StructureError struct {
	Paragraph int
	Fragment  int
	Reason    string
}

func (e *StructureError) Error() string {
	switch {
	case e.Paragraph >= 0 && e.Fragment >= 0:
		return fmt.Sprintf("document structure error at paragraph %d, fragment %d: %s", e.Paragraph, e.Fragment, e.Reason)
	case e.Paragraph >= 0:
		return fmt.Sprintf("document structure error at paragraph %d: %s", e.Paragraph, e.Reason)
	}
	return "document structure error: " + e.Reason
}
