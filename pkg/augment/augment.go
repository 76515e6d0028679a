// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package augment expands a dataset manifest with the file names of rotated and flipped versions of each image.
//
// No image is read or written: for each manifest record it generates one record per (angle, flip) combination,
// named after the original file:
//
//	<dir>/<stem>_rot_<angle><flip><ext> <label>
//
// Where angle is zero-padded to 3 digits. E.g., "images/cat.jpg 0" with a step of 90 degrees expands to
// "images/cat_rot_000_flip_v.jpg 0", "images/cat_rot_000_flip_n.jpg 0", "images/cat_rot_090_flip_v.jpg 0", ...
package augment

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/gomlx/augmanifest/internal/workerspool"
	"github.com/gomlx/augmanifest/pkg/manifest"
	"github.com/gomlx/augmanifest/pkg/support/fsutil"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

const (
	// RotationMarker precedes the rotation angle in the generated file names.
	RotationMarker = "_rot_"

	// FullTurn in degrees: angles are generated in [0, FullTurn).
	FullTurn = 360

	// AngleDigits is the fixed width of the angle in the generated file names.
	AngleDigits = 3
)

// Flip is the marker appended after the angle in the generated file names.
type Flip string

const (
	// FlipVertical marks the vertically flipped image.
	FlipVertical Flip = "_flip_v"

	// FlipNone marks the image not flipped.
	FlipNone Flip = "_flip_n"
)

// Config of the augmentation.
type Config struct {
	// Step in degrees between generated rotation angles. Must be > 0.
	// If it doesn't divide 360, the last partial step is not generated.
	Step int

	// Flips generated for each angle, in order.
	Flips []Flip

	// Parallelism used by Expander.ExpandAll: 0 expands sequentially, -1 uses unlimited goroutines.
	Parallelism int
}

// DefaultConfig holds the default augmentation configuration. Make a copy before changing it.
var DefaultConfig = &Config{
	Step:        90,
	Flips:       []Flip{FlipVertical, FlipNone},
	Parallelism: runtime.NumCPU(),
}

// InvalidStepError is returned when the rotation step is not a positive number of degrees.
type InvalidStepError struct {
	Step int
}

func (e *InvalidStepError) Error() string {
	return fmt.Sprintf("invalid rotation step %d: it must be a positive number of degrees", e.Step)
}

// Validate returns an error if the configuration can't be used.
func (c *Config) Validate() error {
	if c.Step <= 0 {
		return &InvalidStepError{Step: c.Step}
	}
	if len(c.Flips) == 0 {
		return errors.New("augment.Config needs at least one flip variant")
	}
	return nil
}

// NumAngles returns how many angles are generated for the given step, or 0 if step is not positive.
func NumAngles(step int) int {
	if step <= 0 {
		return 0
	}
	return (FullTurn-1)/step + 1
}

// Angles returns the rotation angles 0, step, 2*step, ... smaller than FullTurn.
func Angles(step int) ([]int, error) {
	if step <= 0 {
		return nil, &InvalidStepError{Step: step}
	}
	angles := make([]int, 0, NumAngles(step))
	for angle := 0; angle < FullTurn; angle += step {
		angles = append(angles, angle)
	}
	return angles, nil
}

// PadAngle formats angle with at least AngleDigits digits, padding with leading zeros.
func PadAngle[T constraints.Integer](angle T) string {
	return fmt.Sprintf("%0*d", AngleDigits, angle)
}

// Expander generates the augmented records. It holds no mutable state and is safe for concurrent use.
type Expander struct {
	config Config
	angles []string
	pool   *workerspool.Pool
}

// New creates an Expander for the given configuration.
// It returns an *InvalidStepError if config.Step is not positive.
func New(config *Config) (*Expander, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	e := &Expander{config: *config}
	e.config.Flips = append([]Flip(nil), config.Flips...)
	angles, _ := Angles(config.Step)
	e.angles = make([]string, len(angles))
	for ii, angle := range angles {
		e.angles[ii] = PadAngle(angle)
	}
	e.pool = workerspool.New(config.Parallelism)
	return e, nil
}

// Config returns a copy of the configuration used by the Expander.
func (e *Expander) Config() Config {
	c := e.config
	c.Flips = append([]Flip(nil), e.config.Flips...)
	return c
}

// PerRecord returns the number of records generated for each input record.
func (e *Expander) PerRecord() int {
	return len(e.angles) * len(e.config.Flips)
}

// Expand returns the augmented records of one record, ordered by ascending angle, and then in the order of
// the configured flips.
func (e *Expander) Expand(record manifest.Record) []manifest.Record {
	parts := fsutil.SplitPath(record.Path)
	output := make([]manifest.Record, 0, e.PerRecord())
	for _, angle := range e.angles {
		for _, flip := range e.config.Flips {
			output = append(output, manifest.Record{
				Path:  parts.WithStemSuffix(RotationMarker + angle + string(flip)),
				Label: record.Label,
			})
		}
	}
	return output
}

// ExpandAll expands every record and concatenates the results in the order of the input records.
//
// Records are expanded in parallel according to Config.Parallelism. If onProgress is not nil, it is called
// (never concurrently) with the number of input records expanded since the previous call.
func (e *Expander) ExpandAll(records []manifest.Record, onProgress func(n int)) []manifest.Record {
	expanded := make([][]manifest.Record, len(records))
	var muProgress sync.Mutex
	e.pool.ForEach(len(records), func(ii int) {
		expanded[ii] = e.Expand(records[ii])
		if onProgress != nil {
			muProgress.Lock()
			onProgress(1)
			muProgress.Unlock()
		}
	})
	output := make([]manifest.Record, 0, len(records)*e.PerRecord())
	for _, recordOutput := range expanded {
		output = append(output, recordOutput...)
	}
	return output
}
