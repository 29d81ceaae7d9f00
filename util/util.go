// Package util carries small filesystem helpers shared by the container
// adapter and the operation runners.
package util

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
)

// EnsureDirectory creates path (and any parents) when it does not exist yet.
func EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFileAtomic writes data to a temporary file beside path and renames it
// into place, so a failed write never leaves a partial file where the
// destination used to be.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(tmpName, perm)
	}
	if werr != nil {
		os.Remove(tmpName)
		return werr
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// ExpandPath resolves a leading ~ against the current user's home directory
// and cleans the result.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(expanded), nil
}
