package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/terassyi/krn08/internal/catalog"
	"github.com/terassyi/krn08/internal/script"
	"github.com/terassyi/krn08/internal/ui"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <package ids...>",
	Short: "Write a PowerShell installer script",
	Long: `Write a PowerShell script that installs the given packages with winget.

Examples:
  krn08 export Google.Chrome Git.Git
  krn08 export Valve.Steam Discord.Discord -o gaming.ps1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return err
		}
		return runExport(cmd.OutOrStdout(), cat, args, exportOutput)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", script.DefaultFileName, "Script file to write")
}

// runExport checks every id against the catalog before writing the script.
func runExport(w io.Writer, cat *catalog.Catalog, ids []string, path string) error {
	for _, id := range ids {
		if _, err := cat.Package(id); err != nil {
			return err
		}
	}

	if err := script.Write(path, ids); err != nil {
		return err
	}

	style := ui.NewStyle()
	fmt.Fprintf(w, "%s Exported %d package(s) to %s\n", style.SuccessMark, len(ids), style.Path.Sprint(path))
	return nil
}
