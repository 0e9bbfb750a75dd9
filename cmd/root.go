package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "netdef",
	Short: "netdef validates declarative network interface definitions",
	Long: `netdef reads netplan style network definitions from configuration
directories or explicit files, merges them, resolves references between
interfaces and validates the result.`,
	SilenceUsage: true,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
