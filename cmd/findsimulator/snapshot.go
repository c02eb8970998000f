package main

import (
	"github.com/aretw0/findsimulator/internal/cli"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <file>",
	Short: "Save the simulator inventory to a JSON or YAML file",
	Long: `Records the current devices and pairs so lookups can be replayed later, or on
another machine, with --inventory <file>.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Snapshot(ctx, runOptions(cmd), args[0], cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
