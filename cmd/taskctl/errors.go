package main

import "fmt"

// InvalidFlagError reports a flag value outside its allowed set.
type InvalidFlagError struct {
	Flag  string
	Value string
}

func (e InvalidFlagError) Error() string {
	return fmt.Sprintf("invalid --%s %q", e.Flag, e.Value)
}

// UnknownOutputError reports an unsupported --output value.
type UnknownOutputError struct {
	Value string
}

func (e UnknownOutputError) Error() string {
	return fmt.Sprintf("unknown output format %q (want text, json or yaml)", e.Value)
}
