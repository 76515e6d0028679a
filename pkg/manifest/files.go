// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ReadFile opens and parses the manifest name in fs.
//
// It returns an *InputNotFoundError if the file doesn't exist.
func ReadFile(fs billy.Filesystem, name string) ([]Record, error) {
	f, err := fs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &InputNotFoundError{Path: name}
		}
		return nil, errors.Wrapf(err, "failed to open manifest %q", name)
	}
	defer func() { _ = f.Close() }()
	records, err := Parse(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "while parsing %q", name)
	}
	return records, nil
}

// WriteFile writes records to name in fs, replacing any previous contents.
//
// The records are first written to a temporary file in the same directory, which is then renamed to name,
// so a failed write never leaves a truncated manifest behind. Failures are returned as *OutputWriteError.
func WriteFile(fs billy.Filesystem, name string, records []Record) error {
	if dir := path.Dir(name); dir != "." && dir != "/" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return &OutputWriteError{Path: name, Err: err}
		}
	}
	tmpName := name + ".tmp-" + uuid.NewString()
	f, err := fs.Create(tmpName)
	if err != nil {
		return &OutputWriteError{Path: name, Err: err}
	}
	err = Write(f, records)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = fs.Rename(tmpName, name)
	}
	if err != nil {
		if rmErr := fs.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			klog.Warningf("Failed to remove temporary file %q: %v", tmpName, rmErr)
		}
		return &OutputWriteError{Path: name, Err: err}
	}
	return nil
}
