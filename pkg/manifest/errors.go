// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package manifest

import "fmt"

// MalformedLineError is returned when a manifest line doesn't have both a path and a label.
type MalformedLineError struct {
	// Line number, starting from 1.
	Line int

	// Content of the offending line.
	Content string

	// NumTokens found in the line.
	NumTokens int
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed manifest line %d: want \"<path> <label>\", got %d token(s) in %q",
		e.Line, e.NumTokens, e.Content)
}

// InputNotFoundError is returned when the manifest to read doesn't exist.
type InputNotFoundError struct {
	Path string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("input manifest %q not found", e.Path)
}

// OutputWriteError is returned when the output manifest can't be created or written.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("failed to write output manifest %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *OutputWriteError) Unwrap() error { return e.Err }
