package wordml

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	paraName = "w:p"
	textName = "w:t"
)

// Parse builds a Document from raw document.xml markup. Paragraphs never nest
// in WordprocessingML, so each <w:p> runs to the next </w:p>; the same holds
// for <w:t> within a paragraph. Everything outside those two elements is kept
// as opaque Raw chunks.
func Parse(src []byte) (*Document, error) {
	s := string(src)
	doc := &Document{}
	pos := 0
	paraIdx := 0
	for {
		i := findElement(s, pos, paraName)
		if i < 0 {
			if pos < len(s) {
				doc.Nodes = append(doc.Nodes, Raw{Markup: s[pos:]})
			}
			break
		}
		if i > pos {
			doc.Nodes = append(doc.Nodes, Raw{Markup: s[pos:i]})
		}

		tagEnd := strings.IndexByte(s[i:], '>')
		if tagEnd < 0 {
			return nil, &StructureError{Paragraph: paraIdx, Fragment: -1, Reason: "unterminated <w:p> tag"}
		}
		tagEnd += i
		open := s[i : tagEnd+1]

		if s[tagEnd-1] == '/' {
			doc.Nodes = append(doc.Nodes, &Paragraph{OpenTag: open, SelfClosed: true})
			pos = tagEnd + 1
			paraIdx++
			continue
		}

		closeIdx := strings.Index(s[tagEnd+1:], "</"+paraName+">")
		if closeIdx < 0 {
			return nil, &StructureError{Paragraph: paraIdx, Fragment: -1, Reason: "missing </w:p>"}
		}
		closeIdx += tagEnd + 1

		para, err := parseParagraph(s[tagEnd+1:closeIdx], open, paraIdx)
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, para)
		pos = closeIdx + len("</"+paraName+">")
		paraIdx++
	}
	return doc, nil
}

// parseParagraph splits paragraph content into text fragments and opaque
// chunks. inner is everything between the paragraph's open and close tags.
func parseParagraph(inner, open string, paraIdx int) (*Paragraph, error) {
	p := &Paragraph{OpenTag: open}
	pos := 0
	fragIdx := 0
	for {
		i := findElement(inner, pos, textName)
		if i < 0 {
			if pos < len(inner) {
				p.Children = append(p.Children, Raw{Markup: inner[pos:]})
			}
			return p, nil
		}
		if i > pos {
			p.Children = append(p.Children, Raw{Markup: inner[pos:i]})
		}

		tagEnd := strings.IndexByte(inner[i:], '>')
		if tagEnd < 0 {
			return nil, &StructureError{Paragraph: paraIdx, Fragment: fragIdx, Reason: "unterminated <w:t> tag"}
		}
		tagEnd += i
		selfClosed := inner[tagEnd-1] == '/'
		attrEnd := tagEnd
		if selfClosed {
			attrEnd--
		}

		attrs, preserve, err := splitSpaceAttr(inner[i+len("<"+textName) : attrEnd])
		if err != nil {
			return nil, &StructureError{Paragraph: paraIdx, Fragment: fragIdx, Reason: err.Error()}
		}
		frag := &Fragment{Preserve: preserve, Attrs: attrs}

		if selfClosed {
			p.Children = append(p.Children, frag)
			pos = tagEnd + 1
		} else {
			end := strings.Index(inner[tagEnd+1:], "</"+textName+">")
			if end < 0 {
				return nil, &StructureError{Paragraph: paraIdx, Fragment: fragIdx, Reason: "missing </w:t>"}
			}
			end += tagEnd + 1
			frag.Text = unescapeText(inner[tagEnd+1 : end])
			p.Children = append(p.Children, frag)
			pos = end + len("</"+textName+">")
		}
		fragIdx++
	}
}

// findElement returns the index of the next opening tag for name at or after
// from, or -1. A match requires a delimiter after the name so that w:p does
// not match w:pPr and w:t does not match w:tbl.
func findElement(s string, from int, name string) int {
	marker := "<" + name
	for {
		i := strings.Index(s[from:], marker)
		if i < 0 {
			return -1
		}
		i += from
		rest := i + len(marker)
		if rest >= len(s) {
			return -1
		}
		switch s[rest] {
		case ' ', '\t', '\r', '\n', '>', '/':
			return i
		}
		from = rest
	}
}

// splitSpaceAttr separates the xml:space attribute from the rest of a <w:t>
// tag's attribute text. The remainder is kept verbatim so unknown attributes
// round-trip.
func splitSpaceAttr(raw string) (attrs string, preserve bool, err error) {
	idx := strings.Index(raw, "xml:space")
	if idx < 0 {
		return raw, false, nil
	}
	rest := raw[idx+len("xml:space"):]
	j := skipSpace(rest, 0)
	if j >= len(rest) || rest[j] != '=' {
		return "", false, fmt.Errorf("malformed xml:space attribute")
	}
	j = skipSpace(rest, j+1)
	if j >= len(rest) || (rest[j] != '"' && rest[j] != '\'') {
		return "", false, fmt.Errorf("malformed xml:space attribute")
	}
	quote := rest[j]
	j++
	k := strings.IndexByte(rest[j:], quote)
	if k < 0 {
		return "", false, fmt.Errorf("malformed xml:space attribute")
	}
	switch rest[j : j+k] {
	case "preserve":
		preserve = true
	case "default":
		preserve = false
	default:
		return "", false, fmt.Errorf("unrecognized xml:space value %q", rest[j:j+k])
	}

	// Cut the attribute out together with the whitespace before it.
	start := idx
	for start > 0 && isSpaceByte(raw[start-1]) {
		start--
	}
	return raw[:start] + rest[j+k+1:], preserve, nil
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpaceByte(s[i]) {
		i++
	}
	return i
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// unescapeText decodes the XML entities that can appear in text content.
func unescapeText(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}
		semi := strings.IndexByte(s[i:], ';')
		if semi < 0 {
			b.WriteByte(s[i])
			i++
			continue
		}
		ent := s[i+1 : i+semi]
		switch {
		case ent == "amp":
			b.WriteByte('&')
		case ent == "lt":
			b.WriteByte('<')
		case ent == "gt":
			b.WriteByte('>')
		case ent == "quot":
			b.WriteByte('"')
		case ent == "apos":
			b.WriteByte('\'')
		case strings.HasPrefix(ent, "#x"), strings.HasPrefix(ent, "#X"):
			n, err := strconv.ParseInt(ent[2:], 16, 32)
			if err != nil {
				b.WriteByte(s[i])
				i++
				continue
			}
			b.WriteRune(rune(n))
		case strings.HasPrefix(ent, "#"):
			n, err := strconv.ParseInt(ent[1:], 10, 32)
			if err != nil {
				b.WriteByte(s[i])
				i++
				continue
			}
			b.WriteRune(rune(n))
		default:
			b.WriteByte(s[i])
			i++
			continue
		}
		i += semi + 1
	}
	return b.String()
}
