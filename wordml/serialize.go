package wordml

import "strings"

// Serialize renders the document back to markup. Raw chunks are emitted
// verbatim; fragments are rebuilt with their preserve flag intact, so text
// content round-trips byte-identically even when readability whitespace
// around the markup differs.
func (d *Document) Serialize() []byte {
	var b strings.Builder
	for _, n := range d.Nodes {
		switch n := n.(type) {
		case Raw:
			b.WriteString(n.Markup)
		case *Paragraph:
			n.writeTo(&b)
		}
	}
	return []byte(b.String())
}

func (p *Paragraph) writeTo(b *strings.Builder) {
	b.WriteString(p.OpenTag)
	if p.SelfClosed {
		return
	}
	for _, c := range p.Children {
		switch c := c.(type) {
		case Raw:
			b.WriteString(c.Markup)
		case *Fragment:
			c.writeTo(b)
		}
	}
	b.WriteString("</" + paraName + ">")
}

func (f *Fragment) writeTo(b *strings.Builder) {
	b.WriteString("<" + textName)
	b.WriteString(f.Attrs)
	if f.Preserve {
		b.WriteString(` xml:space="preserve"`)
	}
	if f.Text == "" {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	b.WriteString(EscapeText(f.Text))
	b.WriteString("</" + textName + ">")
}

// EscapeText encodes the characters that cannot appear literally in text
// content.
func EscapeText(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
