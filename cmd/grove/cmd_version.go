package main

import (
	"fmt"

	"github.com/dhamidi/grove/groovy/parser"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the grove version and the default grammar version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("grove %s (grammar %s)\n", version, parser.DefaultGrammarVersion)
		},
	}
}
