package main

import (
	"github.com/aretw0/findsimulator/internal/cli"
	"github.com/spf13/cobra"
)

var pairsCmd = &cobra.Command{
	Use:   "pairs [name_contains]",
	Short: "Find an iPhone paired with an available Apple Watch",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd)
		opts.Pairs = true
		if len(args) > 0 {
			opts.NameContains = args[0]
		}
		opts.ListAll, _ = cmd.Flags().GetBool("list-all")
		opts.IDOnly, _ = cmd.Flags().GetBool("id-only")
		opts.Format, _ = cmd.Flags().GetString("format")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Execute(ctx, opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(pairsCmd)

	pairsCmd.Flags().BoolP("list-all", "l", false, "List all available paired phones")
	pairsCmd.Flags().Bool("id-only", false, "Print bare UDIDs")
	pairsCmd.Flags().String("format", "text", "Output format: text, json or markdown")
}
