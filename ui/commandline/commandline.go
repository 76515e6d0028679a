// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package commandline contains convenience UI tools for the command line: progress bar and report tables.
package commandline

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/augmanifest/pkg/manifest"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)

	tableBorderColor = "#705090"
)

func newPlainTable() *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColor))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if row == lgtable.HeaderRow {
				return headerRowStyle
			}
			if row%2 == 0 {
				s = oddRowStyle
			} else {
				s = evenRowStyle
			}
			if col == 0 {
				s = s.Align(lipgloss.Right)
			} else {
				s = s.Align(lipgloss.Left)
			}
			return
		})
}

// Summary of one run, printed with the -summary flag.
type Summary struct {
	InputPath, OutputPath       string
	Step, NumAngles, NumFlips   int
	InputRecords, OutputRecords int
	OutputBytes                 int64
	Sorted                      bool
	Elapsed                     time.Duration

	// Categories are the unique first path segments of the input records.
	Categories []string

	// Labels holds the number of input records per label.
	Labels []manifest.Count
}

// NewSummary fills the parts of a Summary that are derived from the input records.
func NewSummary(inputPath string, records []manifest.Record) (*Summary, error) {
	labels, err := manifest.LabelCounts(records)
	if err != nil {
		return nil, err
	}
	return &Summary{
		InputPath:    inputPath,
		InputRecords: len(records),
		Categories:   manifest.Categories(records),
		Labels:       labels,
	}, nil
}

// Render the summary as tables.
func (s *Summary) Render() string {
	var parts []string
	parts = append(parts, titleStyle.Render("Summary"))
	table := newPlainTable()
	table.Row("input", s.InputPath)
	table.Row("output", s.OutputPath)
	table.Row("rotation step", humanize.Comma(int64(s.Step))+"°")
	table.Row("variants per image", humanize.Comma(int64(s.NumAngles))+" angles x "+humanize.Comma(int64(s.NumFlips))+" flips")
	table.Row("# input records", humanize.Comma(int64(s.InputRecords)))
	table.Row("# output records", humanize.Comma(int64(s.OutputRecords)))
	table.Row("output size", humanize.Bytes(uint64(s.OutputBytes)))
	if s.Sorted {
		table.Row("order", "sorted")
	} else {
		table.Row("order", "input")
	}
	table.Row("categories", strings.Join(s.Categories, ", "))
	table.Row("elapsed", FormatDuration(s.Elapsed))
	parts = append(parts, table.Render())

	if len(s.Labels) > 0 {
		parts = append(parts, titleStyle.Render("Labels"))
		labelsTable := newPlainTable().Headers("Label", "# Images", "# Augmented")
		perRecord := 0
		if s.InputRecords > 0 {
			perRecord = s.OutputRecords / s.InputRecords
		}
		for _, label := range s.Labels {
			labelsTable.Row(label.Value, humanize.Comma(int64(label.Count)), humanize.Comma(int64(label.Count*perRecord)))
		}
		parts = append(parts, labelsTable.Render())
	}
	return strings.Join(parts, "\n")
}
