package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"supra/internal/eval"
)

var (
	evalPaths    []string
	evalMaxDepth int
)

func init() {
	evalCmd.Flags().StringSliceVarP(&evalPaths, "path", "p", nil, "unit files or directories to compile (default: supra.toml sources)")
	evalCmd.Flags().IntVar(&evalMaxDepth, "max-depth", eval.DefaultMaxDepth, "maximum call depth")
}

var evalCmd = &cobra.Command{
	Use:   "eval [flags] Unit.fun [args...]",
	Short: "Compile units and call a public function",
	Example: `  supra eval Greeter.hello 1
  supra eval -p units Math.add 2 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: evalExecution,
}

func evalExecution(cmd *cobra.Command, args []string) error {
	unitName, fun, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	values, err := parseIntArgs(args[1:])
	if err != nil {
		return err
	}

	run, err := runBuild(cmd, evalPaths, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if run.result.HasErrors() {
		return errBuildFailed
	}

	m := eval.New(run.result, eval.Options{MaxDepth: evalMaxDepth})
	v, err := m.Call(cmd.Context(), unitName, fun, values)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

// parseTarget splits "Unit.fun" at its last dot.
func parseTarget(s string) (unitName, fun string, err error) {
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("invalid call target %q (expected Unit.fun)", s)
	}
	return s[:i], s[i+1:], nil
}

func parseIntArgs(args []string) ([]int64, error) {
	out := make([]int64, len(args))
	for i, a := range args {
		v, err := strconv.ParseInt(strings.ReplaceAll(a, "_", ""), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not an integer", i+1, a)
		}
		out[i] = v
	}
	return out, nil
}
