package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/modulink"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of modulink",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "modulink version %s\n", strings.TrimSpace(modulink.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
