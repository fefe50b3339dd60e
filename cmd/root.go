// Package cmd implements the canvas CLI: an interactive chat loop that
// collaborates on a single versioned document per thread.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "canvas",
	Short: "Canvas - a conversational document editor in your terminal",
	Long: `Canvas pairs a chat conversation with a single living document.
Ask for an essay or a program and it appears as a versioned artifact;
keep talking and the document is rewritten, translated, or polished
in place while the conversation continues around it.

Running canvas without arguments starts the interactive chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
