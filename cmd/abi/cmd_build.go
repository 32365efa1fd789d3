package main

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alampiss/buck/format"
	"github.com/alampiss/buck/java/classpath"
	"github.com/alampiss/buck/project"
)

func newBuildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [target...]",
		Short: "Write the ABI of the configured targets",
		Long: `Write the ABI of each target in abi.yaml to <out_dir>/<target>.<format>.

Targets run concurrently, at most --jobs at a time. Without arguments
every target is built.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj := a.project
			if proj.ConfigFile == "" {
				return fmt.Errorf("no abi.yaml found")
			}
			targets, err := proj.Select(args...)
			if err != nil {
				return err
			}
			if !slices.Contains(format.Names(), proj.Format) {
				return fmt.Errorf("unknown format %q (want one of %v)", proj.Format, format.Names())
			}
			if err := proj.EnsureOutDir(); err != nil {
				return err
			}

			results := make([]*analysis, len(targets))
			g := new(errgroup.Group)
			g.SetLimit(proj.Jobs)
			for i, t := range targets {
				g.Go(func() error {
					result, err := buildTarget(t, proj.Format)
					if err != nil {
						return fmt.Errorf("target %s: %w", t.Name, err)
					}
					results[i] = result
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			problems := 0
			for i, t := range targets {
				results[i].report(cmd.ErrOrStderr(), t.Name+": ")
				problems += results[i].problems()
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.Name, t.OutputPath(proj.Format))
			}
			if proj.Strict && problems > 0 {
				return fmt.Errorf("%d problems", problems)
			}
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "line", "output format ("+strings.Join(format.Names(), ", ")+")")
	cmd.Flags().StringP("out-dir", "o", "", "output directory")
	cmd.Flags().IntP("jobs", "j", 0, "number of targets built at once")
	cmd.Flags().Bool("strict", false, "exit non-zero when any declaration fails to resolve")

	return cmd
}

func buildTarget(t *project.Target, formatName string) (result *analysis, err error) {
	files, err := t.JavaFiles()
	if err != nil {
		return nil, err
	}
	path, err := classpath.Open(t.Classpath...)
	if err != nil {
		return nil, err
	}
	defer path.Close()

	result, err = analyze(files, path)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(t.OutputPath(formatName))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := result.encode(formatName, w); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return result, nil
}
