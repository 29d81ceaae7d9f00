// Package job implements the operations behind the docxred commands:
// unpacking a document into a directory tree, packing a tree back into a
// document, and redacting target strings from a document body. Commands do
// flag handling and exit codes; jobs do the work and return typed errors.
package job

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/docxtools/docxred/docx"
	"github.com/docxtools/docxred/redact"
	"github.com/docxtools/docxred/util"
	"github.com/docxtools/docxred/wordml"
)

// Extract unpacks a .docx container into a directory tree, pretty-printing
// the XML parts so they can be read and diffed.
type Extract struct {
	// Input is the path of the .docx file to unpack.
	Input string

	// Dest is the directory to unpack into. When empty, the input's
	// extension is replaced with an "_openxml" suffix.
	Dest string
}

// Destination resolves the output directory for the job.
func (j Extract) Destination() string {
	if j.Dest != "" {
		return j.Dest
	}
	return stem(j.Input) + "_openxml"
}

// Run executes the extraction.
func (j Extract) Run(l hclog.Logger) error {
	dest := j.Destination()
	l.Info("Extracting document", "input", j.Input, "dest", dest)
	if err := docx.ExtractToDir(j.Input, dest); err != nil {
		return err
	}
	l.Debug("Extraction complete", "dest", dest)
	return nil
}

// Rebuild packs a directory tree produced by Extract back into a .docx
// container. Pretty-printed XML parts are compacted on the way in, so an
// extract/rebuild cycle reproduces the original markup.
type Rebuild struct {
	// Input is the directory to pack.
	Input string

	// Dest is the output .docx path. When empty, the input directory name
	// plus a ".docx" extension is used, with any "_openxml" suffix dropped.
	Dest string
}

// Destination resolves the output path for the job.
func (j Rebuild) Destination() string {
	if j.Dest != "" {
		return j.Dest
	}
	base := strings.TrimSuffix(filepath.Clean(j.Input), string(filepath.Separator))
	base = strings.TrimSuffix(base, "_openxml")
	return base + ".docx"
}

// Run executes the rebuild.
func (j Rebuild) Run(l hclog.Logger) error {
	dest := j.Destination()
	l.Info("Rebuilding document", "input", j.Input, "dest", dest)

	pkg, err := docx.FromDir(j.Input)
	if err != nil {
		return err
	}
	if err := pkg.Rebuild(dest); err != nil {
		return err
	}
	l.Debug("Rebuild complete", "parts", len(pkg.Names()), "dest", dest)
	return nil
}

// Redact masks every occurrence of the given targets in a document's body
// text, including occurrences split across formatting boundaries.
type Redact struct {
	// Input is the path of the .docx file, or of a bare document.xml when
	// XMLOnly is set.
	Input string

	// Dest is the output path. When empty, a "_redacted" (or, in tracked
	// mode, "_track_changes") suffix is added before the input's extension;
	// in XMLOnly mode the input is rewritten in place instead.
	Dest string

	// Targets are the literal strings to mask, in priority order.
	Targets []string

	// CaseSensitive selects exact matching. The default is case-insensitive.
	CaseSensitive bool

	// XMLOnly treats Input as a bare WordprocessingML document rather than
	// a full container.
	XMLOnly bool

	// TrackChanges records each mask as a reviewable Word tracked change
	// (deletion of the original text plus insertion of the mask) instead of
	// replacing the text in place.
	TrackChanges bool

	// Author is the name recorded on tracked changes. Empty means
	// DefaultAuthor.
	Author string
}

// DefaultAuthor is recorded on tracked changes when no author is given.
const DefaultAuthor = "docxred"

// Destination resolves the output path for the job.
func (j Redact) Destination() string {
	if j.Dest != "" {
		return j.Dest
	}
	if j.XMLOnly {
		return j.Input
	}
	if j.TrackChanges {
		return stem(j.Input) + "_track_changes" + filepath.Ext(j.Input)
	}
	return stem(j.Input) + "_redacted" + filepath.Ext(j.Input)
}

// Run executes the redaction and reports how many occurrences were masked.
func (j Redact) Run(l hclog.Logger) (redact.Result, error) {
	if len(j.Targets) == 0 {
		return redact.Result{}, fmt.Errorf("no redaction targets given")
	}
	if j.XMLOnly {
		return j.runXML(l)
	}
	return j.runPackage(l)
}

// runPackage redacts word/document.xml inside a full container and writes a
// new container, leaving every other part byte-identical.
func (j Redact) runPackage(l hclog.Logger) (redact.Result, error) {
	dest := j.Destination()
	l.Info("Redacting document", "input", j.Input, "dest", dest, "targets", len(j.Targets))

	pkg, err := docx.Extract(j.Input)
	if err != nil {
		return redact.Result{}, err
	}
	body, _ := pkg.Part(docx.DocumentPart)

	doc, err := wordml.Parse(body)
	if err != nil {
		return redact.Result{}, err
	}
	res, err := j.redactDocument(doc)
	if err != nil {
		return redact.Result{}, err
	}
	l.Debug("Body redacted", "matches", res.Matches)

	pkg.SetPart(docx.DocumentPart, doc.Serialize())
	if err := pkg.Rebuild(dest); err != nil {
		return redact.Result{}, err
	}
	l.Info("Redaction complete", "matches", res.Matches, "dest", dest)
	return res, nil
}

// runXML redacts a bare document.xml file.
func (j Redact) runXML(l hclog.Logger) (redact.Result, error) {
	dest := j.Destination()
	l.Info("Redacting document body", "input", j.Input, "dest", dest, "targets", len(j.Targets))

	body, err := os.ReadFile(j.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return redact.Result{}, &docx.InputNotFoundError{Path: j.Input}
		}
		return redact.Result{}, &docx.IOError{Op: "read", Path: j.Input, Err: err}
	}

	doc, err := wordml.Parse(body)
	if err != nil {
		return redact.Result{}, err
	}
	res, err := j.redactDocument(doc)
	if err != nil {
		return redact.Result{}, err
	}

	if err := util.WriteFileAtomic(dest, doc.Serialize(), 0644); err != nil {
		return redact.Result{}, &docx.IOError{Op: "write", Path: dest, Err: err}
	}
	l.Info("Redaction complete", "matches", res.Matches, "dest", dest)
	return res, nil
}

// Inspect reports how a document's body text is split across fragments,
// which is the structure redaction sees through. Useful when a target
// unexpectedly fails to match.
type Inspect struct {
	// Input is the path of the .docx file, or of a bare document.xml when
	// XMLOnly is set.
	Input string

	// XMLOnly treats Input as a bare WordprocessingML document.
	XMLOnly bool
}

// Run parses the body and renders its paragraph/fragment structure.
func (j Inspect) Run(l hclog.Logger) (string, error) {
	var body []byte
	if j.XMLOnly {
		var err error
		body, err = os.ReadFile(j.Input)
		if err != nil {
			if os.IsNotExist(err) {
				return "", &docx.InputNotFoundError{Path: j.Input}
			}
			return "", &docx.IOError{Op: "read", Path: j.Input, Err: err}
		}
	} else {
		pkg, err := docx.Extract(j.Input)
		if err != nil {
			return "", err
		}
		body, _ = pkg.Part(docx.DocumentPart)
	}

	doc, err := wordml.Parse(body)
	if err != nil {
		return "", err
	}
	l.Debug("Parsed body for inspection", "input", j.Input)
	return describeStructure(doc), nil
}

func describeStructure(doc *wordml.Document) string {
	paras := doc.Paragraphs()
	var b strings.Builder
	fmt.Fprintf(&b, "%d paragraph(s)\n", len(paras))
	for i, p := range paras {
		frags := p.Fragments()
		fmt.Fprintf(&b, "--- paragraph %d ---\n", i+1)
		fmt.Fprintf(&b, "text: %q\n", p.Text())
		fmt.Fprintf(&b, "fragments (%d):\n", len(frags))
		for n, f := range frags {
			fmt.Fprintf(&b, "  %d: %q", n+1, f.Text)
			if f.Preserve {
				b.WriteString(" [preserve]")
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// redactDocument dispatches to the configured redaction mode.
func (j Redact) redactDocument(doc *wordml.Document) (redact.Result, error) {
	if !j.TrackChanges {
		return redact.Redact(doc, j.Targets, j.CaseSensitive)
	}
	author := j.Author
	if author == "" {
		author = DefaultAuthor
	}
	rev := redact.Revision{Author: author, Date: time.Now()}
	return redact.RedactTracked(doc, j.Targets, j.CaseSensitive, rev)
}

// stem strips the extension from a file path.
func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
