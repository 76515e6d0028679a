// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package fsutil

import "strings"

// PathParts is a slash-separated path split into directory, stem and extension.
//
// Splitting never fails: missing pieces are left empty, and WithStemSuffix("") rebuilds
// the original path byte for byte.
type PathParts struct {
	// Dir is everything before the final "/". It may be empty even if HasDir is set (e.g. "/cat.jpg").
	Dir string

	// HasDir is true if the path contains a "/".
	HasDir bool

	// Stem is the final segment without the extension.
	Stem string

	// Ext is the final segment from its last "." on, dot included. Empty if there is no ".".
	Ext string
}

// SplitPath splits p into its PathParts.
//
//   - "images/cat.jpg" -> {Dir: "images", Stem: "cat", Ext: ".jpg"}
//   - "cat" -> {Stem: "cat"}
//   - "images/" -> {Dir: "images"}, empty stem and extension.
//   - "a/.hidden" -> {Dir: "a", Ext: ".hidden"}
func SplitPath(p string) PathParts {
	var parts PathParts
	name := p
	if idx := strings.LastIndexByte(p, '/'); idx >= 0 {
		parts.Dir = p[:idx]
		parts.HasDir = true
		name = p[idx+1:]
	}
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		parts.Stem, parts.Ext = name[:idx], name[idx:]
	} else {
		parts.Stem = name
	}
	return parts
}

// Name returns the final segment: stem plus extension.
func (p PathParts) Name() string {
	return p.Stem + p.Ext
}

// WithStemSuffix returns the path with suffix inserted between the stem and the extension.
func (p PathParts) WithStemSuffix(suffix string) string {
	var sb strings.Builder
	sb.Grow(len(p.Dir) + 1 + len(p.Stem) + len(suffix) + len(p.Ext))
	if p.HasDir {
		sb.WriteString(p.Dir)
		sb.WriteByte('/')
	}
	sb.WriteString(p.Stem)
	sb.WriteString(suffix)
	sb.WriteString(p.Ext)
	return sb.String()
}

// String rebuilds the original path.
func (p PathParts) String() string {
	return p.WithStemSuffix("")
}
