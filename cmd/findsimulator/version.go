package main

import (
	"fmt"

	"github.com/aretw0/findsimulator"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of findsimulator",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "findsimulator version %s\n", findsimulator.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
