package docx

import "fmt"

// InputNotFoundError reports a missing input file or directory.
type InputNotFoundError struct {
	Path string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("input not found: %s", e.Path)
}

// MalformedContainerError reports a package that cannot be read as an archive
// or is missing mandatory parts. Err carries the details, accumulated so
// every missing part is reported at once.
type MalformedContainerError struct {
	Path string
	Err  error
}

func (e *MalformedContainerError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("malformed package %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("malformed package: %v", e.Err)
}

func (e *MalformedContainerError) Unwrap() error { return e.Err }

// IOError reports a failed filesystem operation: unreadable parts, an output
// that cannot be written, or temporary storage that cannot be created.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
