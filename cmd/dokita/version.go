package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dokita/internal/version"
)

var (
	versionFormat   string
	versionShowHash bool
	versionShowDate bool
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show dokita build fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(versionFormat) {
		case "pretty":
			fmt.Fprintf(cmd.OutOrStdout(), "dokita %s\n", version.Pretty())
			if versionShowHash && version.GitCommit != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.GitCommit)
			}
			if versionShowDate && version.BuildDate != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.BuildDate)
			}
			return nil
		case "json":
			payload := versionPayload{
				Tool:    "dokita",
				Version: version.Version,
			}
			if versionShowHash {
				payload.GitCommit = version.GitCommit
			}
			if versionShowDate {
				payload.BuildDate = version.BuildDate
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		default:
			return fmt.Errorf("invalid --format value %q (expected pretty|json)", versionFormat)
		}
	},
}
