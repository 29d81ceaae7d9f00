package wordml

import "strings"

const indentUnit = "  "

// Pretty reformats markup for human editing. Line breaks and indentation are
// inserted only between directly adjacent tags; text nodes are never touched,
// and an empty element is not pulled apart, so no character of any text
// content changes.
func Pretty(src []byte) []byte {
	s := string(src)
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)

	depth := 0
	pos := 0
	first := true
	textSince := false
	prevKind := tagDecl
	prevName := ""

	for pos < len(s) {
		lt := strings.IndexByte(s[pos:], '<')
		if lt < 0 {
			b.WriteString(s[pos:])
			break
		}
		lt += pos
		if lt > pos {
			b.WriteString(s[pos:lt])
			textSince = true
		}
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			b.WriteString(s[lt:])
			break
		}
		gt += lt
		tag := s[lt : gt+1]
		kind, name := classifyTag(tag)

		if kind == tagClose && depth > 0 {
			depth--
		}
		emptyElement := prevKind == tagOpen && kind == tagClose && name == prevName
		if !first && !textSince && !emptyElement {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(indentUnit, depth))
		}
		b.WriteString(tag)
		if kind == tagOpen {
			depth++
		}

		first = false
		textSince = false
		prevKind = kind
		prevName = name
		pos = gt + 1
	}
	return []byte(b.String())
}

// Compact removes whitespace-only gaps between tags, except where the
// enclosing element sits in xml:space="preserve" scope — the one class of
// inter-tag whitespace the markup declares significant. It is the inverse of
// Pretty for documents Pretty produced.
func Compact(src []byte) []byte {
	s := string(src)
	var b strings.Builder
	b.Grow(len(s))

	// xml:space is inherited, so track a scope stack rather than a flag.
	preserve := []bool{false}
	pos := 0

	for pos < len(s) {
		lt := strings.IndexByte(s[pos:], '<')
		if lt < 0 {
			b.WriteString(s[pos:])
			break
		}
		lt += pos
		if lt > pos {
			text := s[pos:lt]
			if strings.TrimSpace(text) != "" || preserve[len(preserve)-1] {
				b.WriteString(text)
			}
		}
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			b.WriteString(s[lt:])
			break
		}
		gt += lt
		tag := s[lt : gt+1]
		b.WriteString(tag)

		switch kind, _ := classifyTag(tag); kind {
		case tagClose:
			if len(preserve) > 1 {
				preserve = preserve[:len(preserve)-1]
			}
		case tagOpen:
			scope := preserve[len(preserve)-1]
			if strings.Contains(tag, `xml:space="preserve"`) || strings.Contains(tag, `xml:space='preserve'`) {
				scope = true
			} else if strings.Contains(tag, `xml:space="default"`) || strings.Contains(tag, `xml:space='default'`) {
				scope = false
			}
			preserve = append(preserve, scope)
		}
		pos = gt + 1
	}
	return []byte(b.String())
}

type tagKind int

const (
	tagOpen tagKind = iota
	tagClose
	tagSelf
	tagDecl
)

func classifyTag(tag string) (tagKind, string) {
	if len(tag) < 3 {
		return tagDecl, ""
	}
	switch {
	case tag[1] == '?' || tag[1] == '!':
		return tagDecl, ""
	case tag[1] == '/':
		return tagClose, tagName(tag[2:])
	case strings.HasSuffix(tag, "/>"):
		return tagSelf, tagName(tag[1:])
	default:
		return tagOpen, tagName(tag[1:])
	}
}

func tagName(s string) string {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n', '>', '/':
			return s[:i]
		}
	}
	return s
}
