package main

import (
	"metabohunter/internal/settings"

	"github.com/spf13/cobra"
)

var paramsOutput string

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "List request parameters, their allowed values and the configured defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := checkFormat(paramsOutput); err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return writeParameters(cmd.OutOrStdout(), paramsOutput, parameterView{
			Fields:  settings.Fields(),
			Current: cfg.Defaults,
		})
	},
}

func init() {
	paramsCmd.Flags().StringVarP(&paramsOutput, "output", "o", formatTable, "output format: table, json or yaml")
}
