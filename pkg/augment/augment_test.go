// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package augment

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/gomlx/augmanifest/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExpander(t *testing.T, step, parallelism int) *Expander {
	config := &Config{}
	*config = *DefaultConfig
	config.Step = step
	config.Parallelism = parallelism
	e, err := New(config)
	require.NoError(t, err)
	return e
}

func TestExpandCat(t *testing.T) {
	e := newExpander(t, 90, 0)
	got := e.Expand(manifest.Record{Path: "images/cat.jpg", Label: "0"})
	want := []string{
		"images/cat_rot_000_flip_v.jpg 0",
		"images/cat_rot_000_flip_n.jpg 0",
		"images/cat_rot_090_flip_v.jpg 0",
		"images/cat_rot_090_flip_n.jpg 0",
		"images/cat_rot_180_flip_v.jpg 0",
		"images/cat_rot_180_flip_n.jpg 0",
		"images/cat_rot_270_flip_v.jpg 0",
		"images/cat_rot_270_flip_n.jpg 0",
	}
	require.Len(t, got, len(want))
	for ii, record := range got {
		assert.Equal(t, want[ii], record.String())
	}
}

func TestExpandOddPaths(t *testing.T) {
	e := newExpander(t, 180, 0)
	testCases := []struct {
		path string
		want []string
	}{
		{"cat.jpg", []string{"cat_rot_000_flip_v.jpg", "cat_rot_000_flip_n.jpg", "cat_rot_180_flip_v.jpg", "cat_rot_180_flip_n.jpg"}},
		{"images/cat", []string{"images/cat_rot_000_flip_v", "images/cat_rot_000_flip_n", "images/cat_rot_180_flip_v", "images/cat_rot_180_flip_n"}},
		{"/data/a.b/cat.tar.gz", []string{"/data/a.b/cat.tar_rot_000_flip_v.gz", "/data/a.b/cat.tar_rot_000_flip_n.gz", "/data/a.b/cat.tar_rot_180_flip_v.gz", "/data/a.b/cat.tar_rot_180_flip_n.gz"}},
		{"images/", []string{"images/_rot_000_flip_v", "images/_rot_000_flip_n", "images/_rot_180_flip_v", "images/_rot_180_flip_n"}},
	}
	for _, tc := range testCases {
		got := e.Expand(manifest.Record{Path: tc.path, Label: "x"})
		require.Len(t, got, len(tc.want), "path %q", tc.path)
		for ii, record := range got {
			assert.Equal(t, tc.want[ii], record.Path, "path %q", tc.path)
			assert.Equal(t, "x", record.Label)
		}
	}
}

func TestNumAngles(t *testing.T) {
	for step := 1; step <= 400; step++ {
		angles, err := Angles(step)
		require.NoError(t, err)
		wantCount := (360-1)/step + 1
		require.Len(t, angles, wantCount, "step=%d", step)
		assert.Equal(t, wantCount, NumAngles(step))
		assert.Equal(t, 0, angles[0])
		assert.Less(t, angles[len(angles)-1], 360)

		e := newExpander(t, step, 0)
		got := e.Expand(manifest.Record{Path: "a/b.png", Label: "1"})
		assert.Len(t, got, 2*wantCount, "step=%d", step)
	}

	// Steps that don't divide 360 skip the final partial step.
	angles, err := Angles(100)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 100, 200, 300}, angles)
	assert.Equal(t, 0, NumAngles(0))
}

func TestPadAngle(t *testing.T) {
	assert.Equal(t, "007", PadAngle(7))
	assert.Equal(t, "045", PadAngle(45))
	assert.Equal(t, "120", PadAngle(120))
	assert.Equal(t, "000", PadAngle(uint8(0)))
	for angle := range 360 {
		padded := PadAngle(angle)
		require.Len(t, padded, AngleDigits)
		value, err := strconv.Atoi(padded)
		require.NoError(t, err)
		require.Equal(t, angle, value)
	}
}

func TestInvalidStep(t *testing.T) {
	for _, step := range []int{0, -1, -90} {
		config := &Config{}
		*config = *DefaultConfig
		config.Step = step
		e, err := New(config)
		require.Nil(t, e)
		var stepErr *InvalidStepError
		require.ErrorAs(t, err, &stepErr)
		assert.Equal(t, step, stepErr.Step)

		_, err = Angles(step)
		require.ErrorAs(t, err, &stepErr)
	}

	_, err := New(&Config{Step: 10})
	require.Error(t, err, "a config without flips is invalid")
}

func TestConfigIsCopied(t *testing.T) {
	config := &Config{Step: 180, Flips: []Flip{FlipNone}}
	e, err := New(config)
	require.NoError(t, err)
	config.Flips[0] = FlipVertical
	config.Step = 1
	assert.Equal(t, []Flip{FlipNone}, e.Config().Flips)
	assert.Equal(t, 180, e.Config().Step)
	assert.Equal(t, 2, e.PerRecord())
}

func TestExpandAll(t *testing.T) {
	records := make([]manifest.Record, 257)
	for ii := range records {
		records[ii] = manifest.Record{Path: fmt.Sprintf("class%d/img%04d.jpg", ii%3, ii), Label: strconv.Itoa(ii % 3)}
	}

	sequential := newExpander(t, 45, 0)
	want := sequential.ExpandAll(records, nil)
	require.Len(t, want, len(records)*8*2)
	for ii, record := range records {
		first := want[ii*16]
		prefix := strings.TrimSuffix(record.Path, ".jpg")
		assert.Equal(t, prefix+"_rot_000_flip_v.jpg", first.Path)
		assert.Equal(t, record.Label, first.Label)
	}

	for _, parallelism := range []int{1, 4, -1} {
		e := newExpander(t, 45, parallelism)
		var progress int
		got := e.ExpandAll(records, func(n int) { progress += n })
		assert.Equal(t, want, got, "parallelism=%d must keep the input order", parallelism)
		assert.Equal(t, len(records), progress)
	}
}

func TestIdempotent(t *testing.T) {
	records := []manifest.Record{{Path: "images/cat.jpg", Label: "0"}, {Path: "images/dog.jpg", Label: "1"}}
	e := newExpander(t, 30, 2)
	assert.Equal(t, e.ExpandAll(records, nil), e.ExpandAll(records, nil))
	assert.Empty(t, e.ExpandAll(nil, nil))
}
