package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"supra/internal/unit"
)

var exportsUnit string

func init() {
	exportsCmd.Flags().StringVar(&exportsUnit, "unit", "", "only list the unit with this name")
}

var exportsCmd = &cobra.Command{
	Use:   "exports [flags] [files|dirs...]",
	Short: "List the public definitions of compiled units",
	Long:  "Compile units and print, per unit, its behaviours and public definitions with their overridable flag.",
	RunE:  exportsExecution,
}

type exportJSON struct {
	Name        string `json:"name"`
	Arity       int    `json:"arity"`
	Kind        string `json:"kind"`
	Overridable bool   `json:"overridable"`
}

type unitExportsJSON struct {
	Unit       string       `json:"unit"`
	Behaviours []string     `json:"behaviours,omitempty"`
	Exports    []exportJSON `json:"exports"`
}

func exportsExecution(cmd *cobra.Command, args []string) error {
	run, err := runBuild(cmd, args, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	mods := run.result.Modules()
	if exportsUnit != "" {
		mod, ok := run.result.Unit(exportsUnit)
		if !ok {
			return fmt.Errorf("unit %q was not compiled", exportsUnit)
		}
		mods = []*unit.Module{mod}
	}

	listing := make([]unitExportsJSON, 0, len(mods))
	for _, mod := range mods {
		listing = append(listing, describeExports(mod))
	}
	if run.opts.format == formatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(listing); err != nil {
			return err
		}
	} else {
		renderExports(cmd.OutOrStdout(), listing)
	}
	if run.result.HasErrors() {
		return errBuildFailed
	}
	return nil
}

func describeExports(mod *unit.Module) unitExportsJSON {
	out := unitExportsJSON{Unit: mod.Name, Behaviours: mod.Behaviours()}
	exports := mod.Exports()
	out.Exports = make([]exportJSON, 0, len(exports))
	for _, e := range exports {
		out.Exports = append(out.Exports, exportJSON{
			Name:        e.Name,
			Arity:       e.Arity,
			Kind:        e.Kind.String(),
			Overridable: mod.IsOverridableName(e.Name, e.Arity),
		})
	}
	return out
}

func renderExports(out io.Writer, listing []unitExportsJSON) {
	unitColor := color.New(color.Bold)
	markColor := color.New(color.FgYellow)
	for i, u := range listing {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, unitColor.Sprint(u.Unit))
		if len(u.Behaviours) > 0 {
			fmt.Fprintf(out, "  behaviours: %s\n", strings.Join(u.Behaviours, ", "))
		}
		for _, e := range u.Exports {
			line := fmt.Sprintf("  %-9s %s/%d", e.Kind, e.Name, e.Arity)
			if e.Overridable {
				line += "  " + markColor.Sprint("overridable")
			}
			fmt.Fprintln(out, line)
		}
	}
}
