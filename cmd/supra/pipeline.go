package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"supra/internal/cache"
	"supra/internal/diag"
	"supra/internal/diagfmt"
	"supra/internal/observ"
	"supra/internal/session"
	"supra/internal/ui"
)

var errBuildFailed = errors.New("build failed")

// buildRun is the outcome of runBuild.
type buildRun struct {
	result *session.Result
	opts   globalOptions
	timer  *observ.Timer
	bag    *diag.Bag
}

// runBuild resolves inputs, compiles them and renders the diagnostics. JSON
// diagnostics go to jsonOut, other formats to stderr. The caller still
// decides what a failed build means for its exit status.
func runBuild(cmd *cobra.Command, paths []string, jsonOut io.Writer) (*buildRun, error) {
	inputs, err := resolveInputs(paths)
	if err != nil {
		return nil, err
	}
	opts, err := readGlobalOptions(cmd, inputs.manifest)
	if err != nil {
		return nil, err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return nil, err
	}
	defer stopProfiling()

	var timer *observ.Timer
	if opts.timings {
		timer = observ.NewTimer()
	}
	sopts := session.Options{
		MaxDiagnostics: opts.maxDiagnostics,
		Jobs:           opts.jobs,
		Timer:          timer,
	}
	if opts.cache {
		disk, err := cache.Open("supra")
		if err != nil {
			if !opts.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache disabled: %v\n", err)
			}
		} else {
			sopts.Cache = disk
		}
	}

	ctx := cmd.Context()
	var res *session.Result
	if shouldUseTUI(opts.progress) && !opts.quiet {
		err = ui.RunWithProgress(cmd.ErrOrStderr(), "building", inputs.files, func(sink func(session.Event)) error {
			sopts.OnEvent = sink
			var buildErr error
			res, buildErr = session.Build(ctx, inputs.files, sopts)
			return buildErr
		})
	} else {
		res, err = session.Build(ctx, inputs.files, sopts)
	}
	if err != nil {
		return nil, err
	}
	res.FileSet.SetBaseDir(inputs.baseDir)

	run := &buildRun{result: res, opts: opts, timer: timer, bag: res.Bag()}
	if opts.timings && opts.format == formatJSON {
		appendTimingDiagnostic(run.bag, timer.Report())
	}
	if err := renderDiagnostics(cmd, run, jsonOut); err != nil {
		return nil, err
	}
	if opts.timings && opts.format != formatJSON {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	return run, nil
}

func renderDiagnostics(cmd *cobra.Command, run *buildRun, jsonOut io.Writer) error {
	res, opts := run.result, run.opts
	switch opts.format {
	case formatJSON:
		return diagfmt.JSON(jsonOut, run.bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			IncludeNotes:     true,
		})
	case formatShort:
		return diagfmt.Short(cmd.ErrOrStderr(), run.bag, res.FileSet, true)
	default:
		if run.bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), run.bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     opts.color,
			Context:   1,
			PathMode:  opts.pathMode,
			Width:     terminalWidth(),
			ShowNotes: true,
		})
		return nil
	}
}

// terminalWidth is the width of stderr, or 0 when it is not a terminal.
func terminalWidth() int {
	if !isTerminal(os.Stderr) {
		return 0
	}
	w, _, err := termSize(os.Stderr)
	if err != nil {
		return 0
	}
	return w
}

func summarize(out io.Writer, res *session.Result) {
	errs := 0
	for _, u := range res.Units {
		if u.Bag.HasErrors() {
			errs++
		}
	}
	if errs == 0 {
		fmt.Fprintf(out, "built %d units\n", len(res.Units))
		return
	}
	fmt.Fprintf(out, "%d of %d units failed\n", errs, len(res.Units))
}
