// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// augmanifest generates the augmented file list of a dataset fold: for each `<path> <label>` line of the
// fold file list, it lists the file names of the image rotated by every multiple of the rotation step, both
// vertically flipped and not flipped.
//
// Usage:
//
//	augmanifest [flags] <fold_file_list> <rotation_step>
//
// The output is written to "augmented_<fold_file_list base name>" in the current directory, unless -output is given.
//
// Exit codes: 0 on success, 1 for invalid arguments and 2 for any error while generating the list.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/gomlx/augmanifest/pkg/augment"
	"github.com/gomlx/augmanifest/pkg/manifest"
	"github.com/gomlx/augmanifest/pkg/support/fsutil"
	"github.com/gomlx/augmanifest/ui/commandline"
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	exitSuccess         = 0
	exitCommandLine     = 1
	exitUnhandledErrors = 2

	// OutputPrefix is prepended to the input file name to build the default output path.
	OutputPrefix = "augmented_"
)

// options collected from the command line.
type options struct {
	fileList    string
	step        int
	output      string
	sort        bool
	verbose     bool
	summary     bool
	progress    bool
	parallelism int
}

func main() {
	code := run(os.Args[1:], os.Stdout, os.Stderr)
	klog.Flush()
	os.Exit(code)
}

// run the program with the given arguments (without the program name) and returns the exit code.
//
// Panics with an error value are reported as runtime errors, including those raised by the expansion
// workers, which the worker pool re-panics in this goroutine.
func run(args []string, stdout, stderr io.Writer) int {
	opts, code, done := parseArgs(args, stderr)
	if done {
		return code
	}
	var err error
	if exception := exceptions.TryCatch[error](func() { err = generate(opts, stdout) }); exception != nil {
		err = errors.WithMessage(exception, "unexpected failure")
	}
	if err != nil {
		if klog.V(2).Enabled() {
			klog.Errorf("%+v", err)
		} else {
			klog.Errorf("%v", err)
		}
		return exitUnhandledErrors
	}
	return exitSuccess
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("augmanifest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.fileList, "filelist", "", "Required: fold file list, with one \"<path> <label>\" per line. "+
		"It can also be given as the first positional argument.")
	fs.IntVar(&opts.step, "rot_step", 0, "Required: rotation step amount in degrees. "+
		"It can also be given as the second positional argument.")
	fs.StringVar(&opts.output, "output", "", fmt.Sprintf(
		"Output file list. If empty, it writes to %q followed by the input file name, in the current directory.",
		OutputPrefix))
	fs.BoolVar(&opts.sort, "sort", false, "Sort the output lines lexicographically, instead of keeping the input order.")
	fs.BoolVar(&opts.verbose, "verbose", false, "Verbose output: same as -v=1.")
	fs.BoolVar(&opts.summary, "summary", false, "Print a summary table of the generated file list.")
	fs.BoolVar(&opts.progress, "progress", false, "Display a progress bar while expanding the file list.")
	fs.IntVar(&opts.parallelism, "parallelism", augment.DefaultConfig.Parallelism,
		"Number of goroutines expanding records. 0 expands sequentially, -1 is unlimited.")
	klog.InitFlags(fs)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Generate Augmented File List\n\n"+
			"Usage: 'augmanifest [OPTIONS] <fold_file_list> <rotation_step>'\n\nOptions:\n")
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs returns the parsed options, or done=true and the exit code if the program should exit.
func parseArgs(args []string, stderr io.Writer) (opts *options, code int, done bool) {
	opts = &options{}
	fs := newFlagSet(opts, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exitSuccess, true
		}
		return nil, exitCommandLine, true
	}
	commandLineError := func(format string, args ...any) (*options, int, bool) {
		_, _ = fmt.Fprintf(stderr, "ERROR: "+format+"\n", args...)
		_, _ = fmt.Fprintln(stderr, "Try 'augmanifest -help' for more information.")
		return nil, exitCommandLine, true
	}

	// Positional arguments fill in whatever wasn't given as a flag, in order.
	positional := fs.Args()
	stepSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "rot_step" {
			stepSet = true
		}
	})
	if opts.fileList == "" && len(positional) > 0 {
		opts.fileList, positional = positional[0], positional[1:]
	}
	if !stepSet && len(positional) > 0 {
		step, err := strconv.Atoi(positional[0])
		if err != nil {
			return commandLineError("rotation step %q is not an integer number of degrees", positional[0])
		}
		opts.step, stepSet, positional = step, true, positional[1:]
	}
	if len(positional) > 0 {
		return commandLineError("too many arguments: %q", positional)
	}
	if opts.fileList == "" {
		return commandLineError("the option '--filelist' is required but missing")
	}
	if !stepSet {
		return commandLineError("the option '--rot_step' is required but missing")
	}
	if opts.verbose && !klog.V(1).Enabled() {
		must.M(fs.Set("v", "1"))
	}
	return opts, exitSuccess, false
}

// generate reads the fold file list, expands it and writes the augmented file list.
func generate(opts *options, stdout io.Writer) error {
	start := time.Now()
	config := &augment.Config{}
	*config = *augment.DefaultConfig
	config.Step = opts.step
	config.Parallelism = opts.parallelism
	expander, err := augment.New(config)
	if err != nil {
		return err
	}

	inputPath, err := fsutil.ReplaceTildeInDir(opts.fileList)
	if err != nil {
		return err
	}
	inputPath, err = filepath.Abs(inputPath)
	if err != nil {
		return errors.Wrapf(err, "invalid file list path %q", opts.fileList)
	}
	inputFS := osfs.New(filepath.Dir(inputPath))
	inputName := filepath.Base(inputPath)

	klog.V(1).Infof("File List Path: %s", inputPath)
	klog.V(1).Infof("Rotation Step (degrees): %d", config.Step)
	if klog.V(1).Enabled() {
		parts := fsutil.SplitPath(filepath.ToSlash(inputPath))
		klog.Infof("Directory Path: %s", parts.Dir)
		klog.Infof("Filename without extension: %s", parts.Stem)
		klog.Infof("File Extension: %s", parts.Ext)
		if info, err := inputFS.Stat(inputName); err == nil {
			klog.Infof("File Size (bytes): %d", info.Size())
		}
	}

	records, err := manifest.ReadFile(inputFS, inputName)
	if err != nil {
		var notFound *manifest.InputNotFoundError
		if errors.As(err, &notFound) {
			notFound.Path = opts.fileList
		}
		return err
	}
	if klog.V(1).Enabled() {
		klog.Info("File contents:")
		for _, record := range records {
			klog.Infof("\t%s", record)
		}
	}
	klog.V(1).Infof("Lines loaded: %d", len(records))

	var onProgress func(n int)
	if opts.progress && len(records) > 0 {
		pBar := commandline.NewProgressBar(stdout, len(records))
		defer pBar.Close()
		onProgress = pBar.Add
	}
	output := expander.ExpandAll(records, onProgress)
	if opts.sort {
		manifest.SortRecords(output)
	}
	if klog.V(1).Enabled() {
		for _, record := range output {
			klog.Infof("%s", record)
		}
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = OutputPrefix + inputName
	}
	outputPath, err = fsutil.ReplaceTildeInDir(outputPath)
	if err != nil {
		return err
	}
	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return &manifest.OutputWriteError{Path: outputPath, Err: err}
	}
	outputFS := osfs.New(filepath.Dir(absOutput))
	outputName := filepath.Base(absOutput)
	if err = manifest.WriteFile(outputFS, outputName, output); err != nil {
		return err
	}
	klog.V(1).Infof("Wrote %d lines to %s", len(output), absOutput)

	if opts.summary {
		summary, err := commandline.NewSummary(opts.fileList, records)
		if err != nil {
			return err
		}
		summary.OutputPath = outputPath
		summary.Step = config.Step
		summary.NumAngles = augment.NumAngles(config.Step)
		summary.NumFlips = len(config.Flips)
		summary.OutputRecords = len(output)
		summary.Sorted = opts.sort
		if info, err := outputFS.Stat(outputName); err == nil {
			summary.OutputBytes = info.Size()
		}
		summary.Elapsed = time.Since(start)
		_, _ = fmt.Fprintln(stdout, summary.Render())
	}
	return nil
}
