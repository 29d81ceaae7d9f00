package command

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docxtools/docxred/docx"
	"github.com/docxtools/docxred/wordml"
)

const testBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:body><w:p><w:r><w:t>the secret is out</w:t></w:r></w:p></w:body></w:document>`

func writeTestDocx(t *testing.T, dir string) string {
	t.Helper()
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(`<?xml version="1.0"?><Types/>`)},
		{"_rels/.rels", []byte(`<?xml version="1.0"?><Relationships/>`)},
		{docx.DocumentPart, []byte(testBody)},
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, p := range parts {
		f, err := w.Create(p.name)
		require.NoError(t, err)
		_, err = f.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	path := filepath.Join(dir, "notes.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestSplitTargets(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		expect  []string
		wantErr bool
	}{
		{
			name:   "bare words",
			input:  "secret confidential",
			expect: []string{"secret", "confidential"},
		},
		{
			name:   "quoted phrase",
			input:  `"John Doe" secret`,
			expect: []string{"John Doe", "secret"},
		},
		{
			name:   "single quotes",
			input:  `'John Doe'`,
			expect: []string{"John Doe"},
		},
		{
			name:    "unquoted pipe",
			input:   "secret | confidential",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := splitTargets(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestReturnCode(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		expect int
	}{
		{
			name:   "input not found",
			err:    &docx.InputNotFoundError{Path: "x.docx"},
			expect: InputNotFound,
		},
		{
			name:   "malformed container",
			err:    &docx.MalformedContainerError{Path: "x.docx", Err: errors.New("not a zip")},
			expect: MalformedContainer,
		},
		{
			name:   "malformed body",
			err:    &wordml.StructureError{Paragraph: 3, Fragment: -1, Reason: "unterminated paragraph"},
			expect: MalformedBody,
		},
		{
			name:   "io failure",
			err:    &docx.IOError{Op: "write", Path: "out.docx", Err: errors.New("disk full")},
			expect: IOFailure,
		},
		{
			name:   "anything else",
			err:    errors.New("unexpected"),
			expect: RunError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, returnCode(tc.err))
		})
	}
}

func TestRedactCommand_Run(t *testing.T) {
	dir := t.TempDir()
	input := writeTestDocx(t, dir)
	out := filepath.Join(dir, "out.docx")

	ui := cli.NewMockUi()
	rc := NewRedactCommand(ui).Run([]string{"-dest", out, input, "secret"})
	require.Equal(t, Success, rc, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "Masked 1 occurrence(s)")

	pkg, err := docx.Extract(out)
	require.NoError(t, err)
	body, _ := pkg.Part(docx.DocumentPart)
	assert.Contains(t, string(body), "the ****** is out")
}

func TestRedactCommand_TargetsFlag(t *testing.T) {
	dir := t.TempDir()
	input := writeTestDocx(t, dir)
	out := filepath.Join(dir, "out.docx")

	ui := cli.NewMockUi()
	rc := NewRedactCommand(ui).Run([]string{"-dest", out, "-targets", `"is out"`, input})
	require.Equal(t, Success, rc, ui.ErrorWriter.String())

	pkg, err := docx.Extract(out)
	require.NoError(t, err)
	body, _ := pkg.Part(docx.DocumentPart)
	assert.Contains(t, string(body), "the secret ******")
}

func TestRedactCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := writeTestDocx(t, dir)
	out := filepath.Join(dir, "out.docx")

	cfgPath := filepath.Join(dir, "docxred.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
case_sensitive = false

target "secret" {
  match = "SECRET"
}
`), 0644))

	ui := cli.NewMockUi()
	rc := NewRedactCommand(ui).Run([]string{"-dest", out, "-config", cfgPath, input})
	require.Equal(t, Success, rc, ui.ErrorWriter.String())

	pkg, err := docx.Extract(out)
	require.NoError(t, err)
	body, _ := pkg.Part(docx.DocumentPart)
	assert.Contains(t, string(body), "the ****** is out", "config case_sensitive=false folds the match")
}

func TestRedactCommand_TrackChanges(t *testing.T) {
	dir := t.TempDir()
	input := writeTestDocx(t, dir)
	out := filepath.Join(dir, "out.docx")

	ui := cli.NewMockUi()
	rc := NewRedactCommand(ui).Run([]string{"-track-changes", "-author", "auditor", "-dest", out, input, "secret"})
	require.Equal(t, Success, rc, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "Masked 1 occurrence(s)")

	pkg, err := docx.Extract(out)
	require.NoError(t, err)
	body, _ := pkg.Part(docx.DocumentPart)
	assert.Contains(t, string(body), "<w:delText>secret</w:delText>")
	assert.Contains(t, string(body), `w:author="auditor"`)
	assert.Contains(t, string(body), "<w:t>******</w:t>")
}

func TestRedactCommand_Debug(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "document.xml")
	require.NoError(t, os.WriteFile(path, []byte(testBody), 0644))

	ui := cli.NewMockUi()
	// Debug mode needs no targets and must not write anything.
	rc := NewRedactCommand(ui).Run([]string{"-debug", "-xml", path})
	require.Equal(t, Success, rc, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "fragments (1):")
	assert.Contains(t, ui.OutputWriter.String(), `"the secret is out"`)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testBody, string(body), "input is untouched")
}

func TestRedactCommand_FlagErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{
			name: "no arguments",
			args: []string{},
		},
		{
			name: "no targets",
			args: []string{"notes.docx"},
		},
		{
			name: "unknown flag",
			args: []string{"-bogus", "notes.docx", "secret"},
		},
		{
			name: "bad targets quoting",
			args: []string{"-targets", "a | b", "notes.docx"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ui := cli.NewMockUi()
			rc := NewRedactCommand(ui).Run(tc.args)
			assert.Equal(t, FlagParseError, rc)
		})
	}
}

func TestRedactCommand_MissingInput(t *testing.T) {
	ui := cli.NewMockUi()
	rc := NewRedactCommand(ui).Run([]string{filepath.Join(t.TempDir(), "nope.docx"), "secret"})
	assert.Equal(t, InputNotFound, rc)
}
