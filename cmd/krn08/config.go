package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as CUE",
	Long: `Print the effective configuration as CUE.

The output merges config.cue from --config with the defaults and the --delay
flag, and can be saved back as config.cue.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := loadEnvironment(globalOpts)
		if err != nil {
			return err
		}
		return showConfig(cmd.OutOrStdout(), env)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func showConfig(w io.Writer, env *environment) error {
	b, err := env.config.ToCue()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(b))
	return err
}
