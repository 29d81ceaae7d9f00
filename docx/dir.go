package docx

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/docxtools/docxred/util"
	"github.com/docxtools/docxred/wordml"
)

// ExtractToDir unpacks the package at path into dir, mirroring part names as
// a directory hierarchy with one file per part. XML parts are pretty-printed
// for editing; pretty-printing never alters text content (see wordml.Pretty).
func ExtractToDir(path, dir string) error {
	pkg, err := Extract(path)
	if err != nil {
		return err
	}
	return pkg.WriteDir(dir)
}

// WriteDir writes every part under dir.
func (p *Package) WriteDir(dir string) error {
	for _, name := range p.names {
		data := p.parts[name]
		if isXMLPart(name) {
			data = wordml.Pretty(data)
		}
		dest := filepath.Join(dir, filepath.FromSlash(name))
		if err := util.EnsureDirectory(filepath.Dir(dest)); err != nil {
			return &IOError{Op: "create directory for", Path: dest, Err: err}
		}
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return &IOError{Op: "write part", Path: dest, Err: err}
		}
	}
	return nil
}

// FromDir walks a previously extracted hierarchy back into a package. The
// readability whitespace that WriteDir adds to XML parts is removed again, so
// an extract/rebuild cycle reproduces the original parts; whitespace under an
// xml:space="preserve" scope is kept (see wordml.Compact). Unreadable files
// are accumulated so the caller sees every problem at once.
func FromDir(dir string) (*Package, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &InputNotFoundError{Path: dir}
		}
		return nil, &IOError{Op: "stat", Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &InputNotFoundError{Path: dir}
	}

	pkg := New()
	var errs *multierror.Error
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			errs = multierror.Append(errs, err)
			return nil
		}
		name := filepath.ToSlash(rel)
		if isXMLPart(name) {
			data = wordml.Compact(data)
		}
		pkg.SetPart(name, data)
		return nil
	})
	if walkErr != nil {
		return nil, &IOError{Op: "walk parts under", Path: dir, Err: walkErr}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, &IOError{Op: "read parts under", Path: dir, Err: err}
	}

	if err := pkg.Validate(); err != nil {
		if merr, ok := err.(*MalformedContainerError); ok {
			merr.Path = dir
		}
		return nil, err
	}
	return pkg, nil
}

func isXMLPart(name string) bool {
	return strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".rels")
}
