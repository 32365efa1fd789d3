package main

import (
	"github.com/spf13/cobra"

	"github.com/alampiss/buck/java/classpath"
	"github.com/alampiss/buck/java/codebase"
)

func newLSPCmd() *cobra.Command {
	var cp string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Serve document symbols and resolution diagnostics over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version, classpath.Split(cp))
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&cp, "cp", "", "classpath for resolving dependencies")

	return cmd
}
