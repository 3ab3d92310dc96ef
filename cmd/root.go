package cmd

import (
	"fmt"
	"os"

	"soundfolio/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "soundfolio",
	Short: "Soundfolio is a personal media hosting service.",
	Run: func(cmd *cobra.Command, args []string) {
		// server.Start handles its own config and logging setup.
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
