package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alampiss/buck/format"
	"github.com/alampiss/buck/java/classpath"
	"github.com/alampiss/buck/project"
)

func newExtractCmd(a *app) *cobra.Command {
	var cp string

	cmd := &cobra.Command{
		Use:   "extract [-cp classpath] <src>...",
		Short: "Print the ABI of Java sources and the resolution diagnostics",
		Long: `Print the ABI of the given .java files and directories.

All sources are entered into one pass and resolved against the classpath.
Declarations that cannot be resolved are printed with <error> in place of
the type; the reasons go to stderr.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := (&project.Target{Srcs: args}).JavaFiles()
			if err != nil {
				return err
			}
			path, err := classpath.Open(classpath.Split(cp)...)
			if err != nil {
				return err
			}
			defer path.Close()

			result, err := analyze(files, path)
			if err != nil {
				return err
			}
			if err := result.encode(a.project.Format, cmd.OutOrStdout()); err != nil {
				return err
			}
			result.report(cmd.ErrOrStderr(), "")
			if a.project.Strict && result.problems() > 0 {
				return fmt.Errorf("%d problems", result.problems())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cp, "cp", "", "classpath for resolving dependencies")
	cmd.Flags().StringP("format", "f", "line", "output format ("+strings.Join(format.Names(), ", ")+")")
	cmd.Flags().Bool("strict", false, "exit non-zero when any declaration fails to resolve")

	return cmd
}
