package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/terassyi/krn08/internal/ui"
)

// VersionInfo contains version information for the binary.
type VersionInfo struct {
	Version   string `json:"version"`
	UIVersion string `json:"uiVersion"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printVersion(cmd.OutOrStdout(), versionFormat)
	},
}

func init() {
	versionCmd.Flags().StringVarP(&versionFormat, "output", "o", "text", "Output format (text, json)")
}

func currentVersion() VersionInfo {
	return VersionInfo{
		Version:   version,
		UIVersion: ui.Version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func printVersion(w io.Writer, format string) error {
	info := currentVersion()

	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	default:
		fmt.Fprintf(w, "krn08 version %s\n", info.Version)
		fmt.Fprintf(w, "  dashboard: %s\n", info.UIVersion)
		fmt.Fprintf(w, "  commit:    %s\n", info.Commit)
		fmt.Fprintf(w, "  built:     %s\n", info.BuildDate)
		fmt.Fprintf(w, "  go:        %s\n", info.GoVersion)
		fmt.Fprintf(w, "  platform:  %s\n", info.Platform)
		return nil
	}
}
