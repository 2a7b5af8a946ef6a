package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"supra/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat string
	versionFull   bool
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "output", "pretty", "output format (pretty|json)")
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "include commit and build date")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show supra build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(versionFormat) {
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), versionFull)
		case "pretty":
			colorValue, err := cmd.Root().PersistentFlags().GetString("color")
			if err != nil {
				return err
			}
			enabled, err := readColorMode(colorValue)
			if err != nil {
				return err
			}
			renderVersionPretty(cmd.OutOrStdout(), enabled, versionFull)
			return nil
		default:
			return fmt.Errorf("unsupported output %q (must be pretty or json)", versionFormat)
		}
	},
}

func renderVersionPretty(out io.Writer, colored, full bool) {
	if full {
		fmt.Fprintln(out, version.Describe(colored))
		return
	}
	fmt.Fprintf(out, "supra %s\n", version.Colored(colored))
}

func renderVersionJSON(out io.Writer, full bool) error {
	payload := versionPayload{Tool: "supra", Version: version.Version}
	if full {
		payload.GitCommit = valueOrUnknown(version.GitCommit)
		payload.BuildDate = valueOrUnknown(version.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
