package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"supra/internal/prof"
)

// setupProfiling starts the runtime profiles requested on the command line.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, err
	}
	if cfg.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, err
	}
	if cfg.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, err
	}
	if !cfg.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(cfg)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
