package cmd

import (
	"github.com/grovetools/core/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for agchat.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"agchat",
		"Agent chat event normalizing and rendering",
	)

	rootCmd.PersistentFlags().String("config-file", "", "Read agchat settings from this YAML file instead of grove.yml")

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newTailCmd())
	rootCmd.AddCommand(newNormalizeCmd())
	rootCmd.AddCommand(newInvokeCmd())
	rootCmd.AddCommand(newAudioCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}
