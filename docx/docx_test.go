package docx

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:body><w:p><w:r><w:t>hello</w:t></w:r></w:p></w:body></w:document>`

// writeTestDocx assembles a minimal package on disk and returns its path.
func writeTestDocx(t *testing.T, parts map[string][]byte) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range parts {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "test.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func testParts() map[string][]byte {
	return map[string][]byte{
		"[Content_Types].xml": []byte(`<?xml version="1.0"?><Types/>`),
		"_rels/.rels":         []byte(`<?xml version="1.0"?><Relationships/>`),
		DocumentPart:          []byte(testBody),
		"word/media/img.bin":  {0x00, 0x01, 0xff, 0xfe},
	}
}

func TestExtract(t *testing.T) {
	path := writeTestDocx(t, testParts())

	pkg, err := Extract(path)
	require.NoError(t, err)
	assert.Len(t, pkg.Names(), 4)

	body, ok := pkg.Part(DocumentPart)
	require.True(t, ok)
	assert.Equal(t, testBody, string(body))

	bin, ok := pkg.Part("word/media/img.bin")
	require.True(t, ok)
	assert.Equal(t, []byte{0x00, 0x01, 0xff, 0xfe}, bin)
}

func TestExtract_InputNotFound(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "nope.docx"))
	var notFound *InputNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestExtract_NotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))

	_, err := Extract(path)
	var malformed *MalformedContainerError
	require.ErrorAs(t, err, &malformed)
}

func TestExtract_MissingRequiredParts(t *testing.T) {
	parts := testParts()
	delete(parts, DocumentPart)
	delete(parts, "_rels/.rels")
	path := writeTestDocx(t, parts)

	_, err := Extract(path)
	var malformed *MalformedContainerError
	require.ErrorAs(t, err, &malformed)
	// Both missing parts are reported at once.
	assert.Contains(t, err.Error(), DocumentPart)
	assert.Contains(t, err.Error(), "_rels/.rels")
}

func TestRebuild_RoundTrip(t *testing.T) {
	path := writeTestDocx(t, testParts())
	pkg, err := Extract(path)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, pkg.Rebuild(out))

	rebuilt, err := Extract(out)
	require.NoError(t, err)
	require.Equal(t, pkg.Names(), rebuilt.Names())
	for _, name := range pkg.Names() {
		want, _ := pkg.Part(name)
		got, ok := rebuilt.Part(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, "part %s must round-trip byte-for-byte", name)
	}
}

func TestRebuild_DoesNotClobberOnFailure(t *testing.T) {
	pkg := New()
	pkg.SetPart(DocumentPart, []byte(testBody))
	// Mandatory parts missing: rebuild must refuse and leave the existing
	// output untouched.
	out := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0644))

	err := pkg.Rebuild(out)
	var malformed *MalformedContainerError
	require.ErrorAs(t, err, &malformed)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestExtractToDir_And_FromDir(t *testing.T) {
	path := writeTestDocx(t, testParts())
	dir := filepath.Join(t.TempDir(), "unpacked")
	require.NoError(t, ExtractToDir(path, dir))

	// Parts are mirrored as files; XML parts are pretty-printed but binary
	// parts stay untouched.
	bin, err := os.ReadFile(filepath.Join(dir, "word", "media", "img.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0xff, 0xfe}, bin)

	body, err := os.ReadFile(filepath.Join(dir, "word", "document.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "\n", "document part is pretty-printed")
	assert.Contains(t, string(body), ">hello<", "text content is untouched")

	pkg, err := FromDir(dir)
	require.NoError(t, err)
	assert.Len(t, pkg.Names(), 4)

	got, ok := pkg.Part(DocumentPart)
	require.True(t, ok)
	assert.Equal(t, testBody, string(got), "pretty-printing is undone on the way back in")

	out := filepath.Join(t.TempDir(), "rebuilt.docx")
	require.NoError(t, pkg.Rebuild(out))
	_, err = Extract(out)
	assert.NoError(t, err)
}

func TestFromDir_Missing(t *testing.T) {
	_, err := FromDir(filepath.Join(t.TempDir(), "absent"))
	var notFound *InputNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestFromDir_IncompleteHierarchy(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray.xml"), []byte("<x/>"), 0644))

	_, err := FromDir(dir)
	var malformed *MalformedContainerError
	require.ErrorAs(t, err, &malformed)
}
