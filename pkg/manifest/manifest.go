// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package manifest reads and writes dataset manifests: plain text files listing one
// `<path> <label>` record per line, as used to describe the folds of an image classification dataset.
package manifest

import (
	"bufio"
	"io"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// MaxLineSize is the longest line accepted by Parse.
const MaxLineSize = 1024 * 1024

// Record is one entry of a manifest: the path to an image and its class label.
type Record struct {
	Path, Label string
}

// String renders the record as a manifest line, without the trailing newline.
func (r Record) String() string {
	return r.Path + " " + r.Label
}

// ParseLine splits line on runs of whitespace and takes the first token as path and the second
// as label. Extra tokens are ignored.
//
// lineNum is only used for error reporting: a line with fewer than two tokens returns a *MalformedLineError.
func ParseLine(line string, lineNum int) (Record, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return Record{}, &MalformedLineError{Line: lineNum, Content: line, NumTokens: len(tokens)}
	}
	return Record{Path: tokens[0], Label: tokens[1]}, nil
}

// Parse reads all records from r, one per line.
//
// Empty (or whitespace only) lines are skipped. Any other line that doesn't hold at least
// a path and a label aborts the parsing with a *MalformedLineError, reporting its 1-based line number.
func Parse(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			klog.V(1).Infof("skipping empty line %d", lineNum)
			continue
		}
		record, err := ParseLine(line, lineNum)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed reading manifest after line %d", lineNum)
	}
	return records, nil
}

// Write records to w, one newline-terminated line per record.
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, record := range records {
		if _, err := bw.WriteString(record.Path); err != nil {
			return err
		}
		if err := bw.WriteByte(' '); err != nil {
			return err
		}
		if _, err := bw.WriteString(record.Label); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SortRecords sorts records in place, lexicographically by their rendered line.
// Records that render the same keep their relative order.
func SortRecords(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return strings.Compare(a.String(), b.String())
	})
}
