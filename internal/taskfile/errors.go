package taskfile

import "fmt"

// UnsupportedFormatError indicates a file whose extension is not .json, .yaml or .yml.
type UnsupportedFormatError struct {
	Path string
}

func (e UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported task file format: %s (want .json, .yaml or .yml)", e.Path)
}

// InvalidRecordError points at the first record that failed validation.
type InvalidRecordError struct {
	Index int
	Field string
	Value string
}

func (e InvalidRecordError) Error() string {
	return fmt.Sprintf("task %d: invalid %s %q", e.Index+1, e.Field, e.Value)
}
