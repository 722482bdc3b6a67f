package main

import (
	"context"

	"github.com/aretw0/modulink/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [email...]",
	Short: "Run the signup chain",
	Long: `Runs the signup chain once per email and prints every terminal context as a JSON line.
With --stdin, reads one JSON object per line instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		logLevel, _ := cmd.Flags().GetString("log-level")
		emails, _ := cmd.Flags().GetStringSlice("email")
		stdin, _ := cmd.Flags().GetBool("stdin")
		immutable, _ := cmd.Flags().GetBool("immutable")
		metrics, _ := cmd.Flags().GetBool("metrics")
		failFast, _ := cmd.Flags().GetBool("fail-fast")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.Execute(ctx, cli.RunOptions{
			ConfigPath: configPath,
			LogLevel:   logLevel,
			Emails:     append(emails, args...),
			Stdin:      stdin,
			Immutable:  immutable,
			Metrics:    metrics,
			FailFast:   failFast,
			In:         cmd.InOrStdin(),
			Out:        cmd.OutOrStdout(),
			LogOut:     cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceP("email", "e", nil, "Email address to sign up (repeatable)")
	runCmd.Flags().Bool("stdin", false, "Read NDJSON contexts from stdin")
	runCmd.Flags().Bool("immutable", false, "Run on immutable contexts")
	runCmd.Flags().Bool("metrics", false, "Collect Prometheus metrics and print a summary to stderr")
	runCmd.Flags().Bool("fail-fast", false, "Stop at the first run that ends with an exception")
}
