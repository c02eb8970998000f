package main

import (
	"fmt"
	"os"

	"github.com/aretw0/findsimulator"
	"github.com/aretw0/findsimulator/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "findsimulator [name_contains]",
	Short: "Find simulator UDIDs for xcodebuild destinations",
	Long: `findsimulator asks simctl for the installed simulators and prints one that matches
the requested platform, OS version and name, as an xcodebuild destination.

Versions accept a number, 'latest' (the newest runtime with an available device)
or 'all'. With --pairs it looks for an iPhone paired with an available Apple Watch.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintln(cmd.OutOrStdout(), findsimulator.Version)
			return nil
		}

		opts := runOptions(cmd)
		if len(args) > 0 {
			opts.NameContains = args[0]
		}
		opts.Pairs, _ = cmd.Flags().GetBool("pairs")
		opts.ListAll, _ = cmd.Flags().GetBool("list-all")
		opts.IDOnly, _ = cmd.Flags().GetBool("id-only")
		opts.Format, _ = cmd.Flags().GetString("format")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Execute(ctx, opts, cmd.OutOrStdout())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := cli.ExitCode(err)
		if code != 0 {
			cli.PrintError(os.Stderr, err)
		}
		os.Exit(code)
	}
}

// runOptions collects the flags shared by every command. Flags left at their
// defaults do not override the config file.
func runOptions(cmd *cobra.Command) cli.RunOptions {
	changed := func(name string) string {
		if !cmd.Flags().Changed(name) {
			return ""
		}
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	var opts cli.RunOptions
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.Inventory = changed("inventory")
	opts.LogLevel = changed("log-level")
	opts.Color = changed("color")
	opts.Strict, _ = cmd.Flags().GetBool("strict")
	opts.LenientRegex, _ = cmd.Flags().GetBool("lenient-regex")

	if cmd.Flags().Lookup("os-type") != nil {
		opts.Platform = changed("os-type")
		opts.Major = changed("major-os-version")
		opts.Minor = changed("sub-os-version")
		opts.Regex = changed("regex")
	}
	return opts
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default ./findsimulator.yaml when present)")
	pf.String("inventory", "", "Read the inventory from a snapshot file instead of simctl")
	pf.String("log-level", "warn", "Log level: debug, info, warn or error")
	pf.String("color", "auto", "Color output: auto, always or never")
	pf.Bool("strict", false, "Reject 'latest' minor version without a concrete major version")
	pf.Bool("lenient-regex", false, "Ignore a --regex that does not compile instead of failing")

	f := rootCmd.Flags()
	f.StringP("os-type", "o", "ios", "The os type: 'ios', 'watchos' or 'tvos'")
	f.StringP("major-os-version", "m", "latest", "The major OS version: a number, 'latest' or 'all'")
	f.StringP("sub-os-version", "s", "latest", "The minor OS version: a number, 'latest' or 'all'")
	f.StringP("regex", "r", "", "Regular expression the device name must match")
	f.BoolP("list-all", "l", false, "List all available and matching simulators")
	f.BoolP("pairs", "p", false, "Find an iPhone in available iPhone/Watch pairs")
	f.Bool("id-only", false, "Print bare UDIDs")
	f.String("format", "text", "Output format: text, json or markdown")
	f.BoolP("version", "v", false, "Print version of this tool")
}
