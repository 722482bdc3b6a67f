package main

import (
	"github.com/aretw0/modulink/internal/cli"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the structure of the signup chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		format, _ := cmd.Flags().GetString("format")

		return cli.Inspect(cmd.Context(), cli.InspectOptions{
			ConfigPath: configPath,
			Format:     format,
			Out:        cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringP("format", "f", "json", "Output format (json, yaml, mermaid)")
}
