package main

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [files|dirs...]",
	Short: "Compile units and report diagnostics",
	Long:  "Compile the given unit files and directories, or the sources listed in supra.toml.",
	RunE:  buildExecution,
}

func buildExecution(cmd *cobra.Command, args []string) error {
	run, err := runBuild(cmd, args, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if !run.opts.quiet && run.opts.format != formatJSON {
		summarize(cmd.ErrOrStderr(), run.result)
	}
	if run.result.HasErrors() {
		return errBuildFailed
	}
	return nil
}
