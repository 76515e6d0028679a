// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"flag"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func TestParseLine(t *testing.T) {
	record, err := ParseLine("images/cat.jpg 0", 1)
	require.NoError(t, err)
	assert.Equal(t, Record{Path: "images/cat.jpg", Label: "0"}, record)

	// Runs of whitespace and extra tokens.
	record, err = ParseLine("  images/dog.png\t\t 1   extra tokens  ", 2)
	require.NoError(t, err)
	assert.Equal(t, Record{Path: "images/dog.png", Label: "1"}, record)

	_, err = ParseLine("images/cat.jpg", 7)
	var malformed *MalformedLineError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 7, malformed.Line)
	assert.Equal(t, 1, malformed.NumTokens)
	assert.Contains(t, err.Error(), "line 7")
}

func TestParse(t *testing.T) {
	input := "images/cat.jpg 0\n\nimages/dog.jpg 1 ignored\n   \nimages/bird.jpg\t2"
	records, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{"images/cat.jpg", "0"},
		{"images/dog.jpg", "1"},
		{"images/bird.jpg", "2"},
	}, records)

	// Windows line endings.
	records, err = Parse(strings.NewReader("a.jpg 0\r\nb.jpg 1\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []Record{{"a.jpg", "0"}, {"b.jpg", "1"}}, records)

	// Empty input.
	records, err = Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseLogsSkippedLines(t *testing.T) {
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	require.NoError(t, klogFlags.Set("v", "1"))
	var logs bytes.Buffer
	klog.LogToStderr(false)
	klog.SetOutput(&logs)
	defer func() {
		klog.LogToStderr(true)
		klog.SetOutput(os.Stderr)
		_ = klogFlags.Set("v", "0")
	}()

	records, err := Parse(strings.NewReader("a.jpg 0\n\n  \nb.jpg 1\n"))
	require.NoError(t, err)
	assert.Len(t, records, 2)
	klog.Flush()
	assert.Contains(t, logs.String(), "skipping empty line 2")
	assert.Contains(t, logs.String(), "skipping empty line 3")
	assert.NotContains(t, logs.String(), "skipping empty line 4")
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse(strings.NewReader("a.jpg 0\n\nimages/cat.jpg\nc.jpg 2\n"))
	var malformed *MalformedLineError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 3, malformed.Line)
	assert.Equal(t, "images/cat.jpg", malformed.Content)
}

func TestWriteRoundTrip(t *testing.T) {
	records := []Record{
		{"images/cat_rot_000_flip_v.jpg", "0"},
		{"images/cat_rot_000_flip_n.jpg", "0"},
		{"dog.png", "dog"},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records))
	assert.Equal(t, "images/cat_rot_000_flip_v.jpg 0\nimages/cat_rot_000_flip_n.jpg 0\ndog.png dog\n", buf.String())

	got, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteError(t *testing.T) {
	err := Write(failingWriter{}, []Record{{"a.jpg", "0"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSortRecords(t *testing.T) {
	records := []Record{
		{"b/x.jpg", "1"},
		{"a/y.jpg", "0"},
		{"a/x.jpg", "2"},
		{"a/x.jpg", "1"},
	}
	SortRecords(records)
	assert.Equal(t, []Record{
		{"a/x.jpg", "1"},
		{"a/x.jpg", "2"},
		{"a/y.jpg", "0"},
		{"b/x.jpg", "1"},
	}, records)
}
