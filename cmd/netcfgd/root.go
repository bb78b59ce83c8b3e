package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "netcfgd",
	Short: "Configuration subsystem for the network-accelerator framework",
	Long: `netcfgd tokenizes and parses the accelerator's runtime policy file,
dispatches each directive to the module that registered a matching schema,
and drives every registered module through setup/parse/start/stop/cleanup.

Quick start:
  netcfgd validate   # Parse and dispatch without starting modules
  netcfgd serve      # Run start_all, serve metrics, wait for a stop signal
  netcfgd inspect     # Launch a read-only TUI over coordinator state`,
}

// Execute runs the root command, exiting the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "netcfgd.conf", "configuration file path")
}
