package wordml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPretty_NeverTouchesText(t *testing.T) {
	src := `<w:body><w:p><w:r><w:t xml:space="preserve">  padded  </w:t></w:r>` +
		`<w:r><w:t>plain</w:t></w:r></w:p></w:body>`
	pretty := string(Pretty([]byte(src)))

	assert.Contains(t, pretty, ">  padded  <")
	assert.Contains(t, pretty, ">plain<")
	assert.Contains(t, pretty, "\n")

	// Re-parsing the pretty form yields the same fragment text.
	doc, err := Parse([]byte(pretty))
	require.NoError(t, err)
	assert.Equal(t, "  padded  plain", doc.Paragraphs()[0].Text())
}

func TestPretty_EmptyElementStaysIntact(t *testing.T) {
	pretty := string(Pretty([]byte(`<w:p><w:t></w:t><w:t/></w:p>`)))
	assert.Contains(t, pretty, "<w:t></w:t>")
}

func TestPretty_Indents(t *testing.T) {
	pretty := string(Pretty([]byte(`<a><b><c/></b></a>`)))
	lines := strings.Split(pretty, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "<a>", lines[0])
	assert.Equal(t, "  <b>", lines[1])
	assert.Equal(t, "    <c/>", lines[2])
	assert.Equal(t, "  </b>", lines[3])
	assert.Equal(t, "</a>", lines[4])
}

func TestCompact_InvertsPretty(t *testing.T) {
	src := `<w:body><w:p><w:pPr><w:jc w:val="left"/></w:pPr>` +
		`<w:r><w:t>text</w:t></w:r></w:p></w:body>`
	compacted := string(Compact(Pretty([]byte(src))))
	assert.Equal(t, src, compacted)
}

func TestCompact_KeepsPreservedWhitespace(t *testing.T) {
	// Whitespace-only content of a preserve-scoped element is significant and
	// must survive compaction.
	src := "<w:p><w:r><w:t xml:space=\"preserve\">   </w:t></w:r></w:p>"
	compacted := string(Compact([]byte(src)))
	assert.Contains(t, compacted, ">   <")

	insignificant := "<w:p>\n  <w:r>\n    <w:t>x</w:t>\n  </w:r>\n</w:p>"
	assert.Equal(t, "<w:p><w:r><w:t>x</w:t></w:r></w:p>", string(Compact([]byte(insignificant))))
}
