// Package docx adapts the .docx package container: a zip archive of named
// parts. The adapter moves whole packages between archive, directory, and
// in-memory forms; every part it does not rewrite passes through
// byte-for-byte.
package docx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// DocumentPart is the body part redaction operates on.
const DocumentPart = "word/document.xml"

// RequiredParts are the members a well-formed package must carry.
var RequiredParts = []string{"[Content_Types].xml", "_rels/.rels", DocumentPart}

// Package is an ordered mapping of part name to raw bytes. Order follows the
// source archive (or directory walk) so a rebuilt package keeps its member
// layout.
type Package struct {
	names []string
	parts map[string][]byte
}

func New() *Package {
	return &Package{parts: make(map[string][]byte)}
}

// Names returns the part names in package order.
func (p *Package) Names() []string {
	return append([]string(nil), p.names...)
}

// Part returns one part's raw bytes.
func (p *Package) Part(name string) ([]byte, bool) {
	data, ok := p.parts[name]
	return data, ok
}

// SetPart stores a part, keeping the existing position for known names and
// appending unknown ones.
func (p *Package) SetPart(name string, data []byte) {
	if _, ok := p.parts[name]; !ok {
		p.names = append(p.names, name)
	}
	p.parts[name] = data
}

// Extract opens the package at path and reads every part into memory.
func Extract(path string) (*Package, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &InputNotFoundError{Path: path}
		}
		return nil, &MalformedContainerError{Path: path, Err: err}
	}
	defer r.Close()

	pkg := New()
	for _, f := range r.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &IOError{Op: "open part", Path: f.Name, Err: err}
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &IOError{Op: "read part", Path: f.Name, Err: err}
		}
		pkg.SetPart(f.Name, data)
	}

	if err := pkg.Validate(); err != nil {
		if merr, ok := err.(*MalformedContainerError); ok {
			merr.Path = path
		}
		return nil, err
	}
	return pkg, nil
}

// Validate checks the structural skeleton. Every missing mandatory part is
// reported, not just the first.
func (p *Package) Validate() error {
	var missing *multierror.Error
	for _, name := range RequiredParts {
		if _, ok := p.parts[name]; !ok {
			missing = multierror.Append(missing, fmt.Errorf("missing required part %s", name))
		}
	}
	if err := missing.ErrorOrNil(); err != nil {
		return &MalformedContainerError{Err: err}
	}
	return nil
}

// Rebuild writes the package to path. The archive is assembled in a
// temporary file next to the destination and renamed into place, so a failed
// rebuild never replaces an existing output with a partial one.
func (p *Package) Rebuild(path string) error {
	if err := p.Validate(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".docxred-*")
	if err != nil {
		return &IOError{Op: "create temporary output for", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	zw := zip.NewWriter(tmp)
	werr := func() error {
		for _, name := range p.names {
			w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
			if err != nil {
				return err
			}
			if _, err := w.Write(p.parts[name]); err != nil {
				return err
			}
		}
		return zw.Close()
	}()
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write package", Path: path, Err: werr}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "replace output", Path: path, Err: err}
	}
	return nil
}
