package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alampiss/buck/java/parser"
)

func newParseCmd() *cobra.Command {
	var asJSON bool
	var includePositions bool
	var grammar bool

	cmd := &cobra.Command{
		Use:   "parse <file.java>",
		Short: "Parse a .java file and dump its declaration tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if grammar {
				if _, err := parser.VerifyGrammar(); err != nil {
					return fmt.Errorf("grammar: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), parser.Grammar)
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("parse needs exactly one file")
			}
			filename := args[0]
			if ext := filepath.Ext(filename); ext != ".java" {
				return fmt.Errorf("unsupported file extension: %s (expected .java)", ext)
			}
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}
			node := parser.Parse(data, parser.WithFile(filename))

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(node); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case includePositions:
				fmt.Fprint(out, node.StringWithPositions())
			default:
				fmt.Fprint(out, node.String())
			}

			if errs := node.Errors(); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(cmd.ErrOrStderr(), syntaxError(e))
				}
				return fmt.Errorf("%s: %d syntax errors", filename, len(errs))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "dump the tree as JSON")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include source spans in the tree dump")
	cmd.Flags().BoolVar(&grammar, "grammar", false, "print the grammar of the declaration skeleton")

	return cmd
}

func syntaxError(n *parser.Node) string {
	msg := "syntax error"
	if n.Error != nil {
		msg = n.Error.Message
	}
	return fmt.Sprintf("%s: %s", n.Span.Start, msg)
}
