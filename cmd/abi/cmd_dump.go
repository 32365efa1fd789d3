package main

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alampiss/buck/format"
	"github.com/alampiss/buck/java"
)

func newDumpCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file.class|file.jar>...",
		Short: "Dump the dependency models read from class files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.New(a.project.Format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			for _, filename := range args {
				switch ext := strings.ToLower(filepath.Ext(filename)); ext {
				case ".class":
					model, err := java.ClassModelFromFile(filename)
					if err != nil {
						return fmt.Errorf("parse class file: %w", err)
					}
					if err := enc.EncodeModel(model); err != nil {
						return fmt.Errorf("encode %s: %w", model.Name, err)
					}
				case ".jar", ".zip":
					if err := dumpJar(enc, filename); err != nil {
						return err
					}
				default:
					return fmt.Errorf("unsupported file extension: %s (expected .class or .jar)", ext)
				}
			}
			return closeEncoder(enc)
		},
	}

	cmd.Flags().StringP("format", "f", "line", "output format ("+strings.Join(format.Names(), ", ")+")")

	return cmd
}

// dumpJar encodes every class of a jar in entry name order.
func dumpJar(enc format.Encoder, path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open jar: %w", err)
	}
	defer r.Close()

	files := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		if strings.HasSuffix(f.Name, ".class") && !strings.HasSuffix(f.Name, "module-info.class") {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	for _, f := range files {
		model, err := readModel(f)
		if err != nil {
			return fmt.Errorf("%s!%s: %w", path, f.Name, err)
		}
		if err := enc.EncodeModel(model); err != nil {
			return fmt.Errorf("encode %s: %w", model.Name, err)
		}
	}
	return nil
}

func readModel(f *zip.File) (*java.ClassModel, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return java.ClassModelFromReader(rc)
}

func closeEncoder(enc format.Encoder) error {
	if c, ok := enc.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
