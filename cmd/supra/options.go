package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"supra/internal/diagfmt"
	"supra/internal/project"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatShort  outputFormat = "short"
	formatJSON   outputFormat = "json"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

// globalOptions is the decoded set of persistent flags, with supra.toml
// values applied where the flag was left at its default.
type globalOptions struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	jobs           int
	cache          bool
	progress       uiMode
	format         outputFormat
	pathMode       diagfmt.PathMode
}

func readGlobalOptions(cmd *cobra.Command, manifest *project.Manifest) (globalOptions, error) {
	flags := cmd.Root().PersistentFlags()
	var (
		opts globalOptions
		err  error
	)
	colorValue, err := flags.GetString("color")
	if err != nil {
		return opts, err
	}
	if opts.color, err = readColorMode(colorValue); err != nil {
		return opts, err
	}
	color.NoColor = !opts.color

	if opts.quiet, err = flags.GetBool("quiet"); err != nil {
		return opts, err
	}
	if opts.timings, err = flags.GetBool("timings"); err != nil {
		return opts, err
	}
	if opts.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return opts, err
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, err
	}
	if opts.jobs < 0 {
		return opts, fmt.Errorf("--jobs must not be negative")
	}
	if opts.cache, err = flags.GetBool("cache"); err != nil {
		return opts, err
	}
	progressValue, err := flags.GetString("progress")
	if err != nil {
		return opts, err
	}
	if opts.progress, err = readUIMode(progressValue); err != nil {
		return opts, err
	}
	formatValue, err := flags.GetString("format")
	if err != nil {
		return opts, err
	}
	switch f := outputFormat(strings.ToLower(formatValue)); f {
	case formatPretty, formatShort, formatJSON:
		opts.format = f
	default:
		return opts, fmt.Errorf("unsupported format %q (must be pretty, short or json)", formatValue)
	}
	pathValue, err := flags.GetString("path-mode")
	if err != nil {
		return opts, err
	}
	if opts.pathMode, err = diagfmt.ParsePathMode(pathValue); err != nil {
		return opts, err
	}

	if manifest != nil {
		build := manifest.Config.Build
		if !flags.Changed("jobs") && build.Jobs > 0 {
			opts.jobs = build.Jobs
		}
		if !flags.Changed("max-diagnostics") && build.MaxDiagnostics > 0 {
			opts.maxDiagnostics = build.MaxDiagnostics
		}
		if !flags.Changed("cache") && build.Cache != nil {
			opts.cache = *build.Cache
		}
	}
	return opts, nil
}

func readColorMode(value string) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return os.Getenv("NO_COLOR") == "" && isTerminal(os.Stderr), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --progress value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stderr)
	}
}
