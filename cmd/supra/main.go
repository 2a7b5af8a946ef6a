// Package main implements the supra CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"supra/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "supra",
	Short:         "Compile units with overridable definitions",
	Long:          `supra compiles units whose definitions can be marked overridable, redefined and chained through super.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(exportsCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per unit")
	pf.Int("jobs", 0, "units compiled in parallel (0 = number of CPUs)")
	pf.Bool("cache", true, "reuse behaviour metadata of units compiled earlier")
	pf.String("progress", "auto", "show live build progress (auto|on|off)")
	pf.String("format", "pretty", "diagnostic format (pretty|short|json)")
	pf.String("path-mode", "auto", "diagnostic paths (auto|absolute|relative|basename)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file")
	pf.String("runtime-trace", "", "write a Go execution trace to this file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func termSize(f *os.File) (width, height int, err error) {
	return term.GetSize(int(f.Fd()))
}
