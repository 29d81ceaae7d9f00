package redact

import (
	"strings"

	"github.com/docxtools/docxred/wordml"
)

// span locates one flattened-text byte: the fragment that produced it and the
// byte offset inside that fragment.
type span struct {
	frag  int
	local int
}

// flatten concatenates fragment text in document order and records, for every
// byte, which fragment and in-fragment offset it came from. The index is a
// pure function of the paragraph: it is rebuilt from scratch each pass and
// never patched after fragment edits.
func flatten(frags []*wordml.Fragment) (string, []span) {
	size := 0
	for _, f := range frags {
		size += len(f.Text)
	}
	var b strings.Builder
	b.Grow(size)
	index := make([]span, 0, size)
	for i, f := range frags {
		for j := 0; j < len(f.Text); j++ {
			index = append(index, span{frag: i, local: j})
		}
		b.WriteString(f.Text)
	}
	return b.String(), index
}
