// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package commandline

import (
	"io"
	"time"

	"github.com/muesli/termenv"
	"github.com/schollz/progressbar/v3"
)

// ProgressbarStyle to use. Defaults to the ASCII version.
// Consider "progressbar.ThemeUnicode" for a prettier version.
// But it requires some of the graphical symbols to be supported.
var ProgressbarStyle = progressbar.ThemeASCII

// maxUpdateFrequency is the minimum time between redraws of the progress bar.
const maxUpdateFrequency = 250 * time.Millisecond

// ProgressBar displays the number of manifest records expanded so far.
//
// Updates are accumulated and only drawn every maxUpdateFrequency, so it can be called once per record.
// It is not safe for concurrent use: callers serialize calls to Add.
type ProgressBar struct {
	bar        *progressbar.ProgressBar
	termenv    *termenv.Output
	pending    int
	nextUpdate time.Time
}

// NewProgressBar creates a progress bar writing to w, for numRecords records.
func NewProgressBar(w io.Writer, numRecords int) *ProgressBar {
	pBar := &ProgressBar{
		termenv: termenv.NewOutput(w),
	}
	pBar.bar = progressbar.NewOptions(numRecords,
		progressbar.OptionSetDescription("Expanding"),
		progressbar.OptionSetWriter(w),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("records"),
		progressbar.OptionSetTheme(ProgressbarStyle),
	)
	pBar.termenv.HideCursor()
	return pBar
}

// Add n records to the progress. It only redraws if enough time has passed since the last update.
func (pBar *ProgressBar) Add(n int) {
	pBar.pending += n
	now := time.Now()
	if now.Before(pBar.nextUpdate) {
		return
	}
	_ = pBar.bar.Add(pBar.pending)
	pBar.pending = 0
	pBar.nextUpdate = now.Add(maxUpdateFrequency)
}

// Close flushes pending updates and restores the cursor.
func (pBar *ProgressBar) Close() {
	if pBar.pending > 0 {
		_ = pBar.bar.Add(pBar.pending)
		pBar.pending = 0
	}
	_ = pBar.bar.Close()
	pBar.termenv.ShowCursor()
	_, _ = pBar.termenv.WriteString("\n")
}
