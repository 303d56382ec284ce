package main

import (
	"github.com/spf13/cobra"

	"github.com/terassyi/krn08/internal/printer"
)

var (
	catalogOutput string
	catalogExpert bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [packages|tweaks|recommended]",
	Short: "List the packages, tweaks and recommendations",
	Long: `List the built-in catalog.

Listings:
  packages (pkg, apps)         winget packages by category
  tweaks (tweak)               system tweaks; risky ones need --expert
  recommended (rec)            dashboard recommendations

Examples:
  krn08 catalog
  krn08 catalog tweaks --expert
  krn08 catalog rec -o yaml`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{printer.ListingPackages, printer.ListingTweaks, printer.ListingRecommended},
	RunE: func(cmd *cobra.Command, args []string) error {
		listing := printer.ListingPackages
		if len(args) == 1 {
			resolved, err := printer.ResolveListing(args[0])
			if err != nil {
				return err
			}
			listing = resolved
		}

		env, err := loadEnvironment(globalOpts)
		if err != nil {
			return err
		}
		expert := catalogExpert || env.config.ExpertMode
		return printer.Run(cmd.OutOrStdout(), env.catalog, listing, catalogOutput, expert)
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogOutput, "output", "o", printer.FormatTable, "Output format (table, json, yaml)")
	catalogCmd.Flags().BoolVar(&catalogExpert, "expert", false, "Include risky tweaks")
}
