package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alampiss/buck/format"
	"github.com/alampiss/buck/java/abi"
	"github.com/alampiss/buck/java/classpath"
	"github.com/alampiss/buck/java/parser"
)

// analysis is one completed pass over a set of source files.
type analysis struct {
	pass         *abi.Pass
	syntaxErrors []string
}

func (a *analysis) problems() int {
	return len(a.syntaxErrors) + len(a.pass.Diagnostics())
}

// analyze parses and enters every file into one pass, then completes it
// so that all diagnostics are collected.
func analyze(files []string, cp classpath.Lookup) (*analysis, error) {
	pass := abi.NewPass(cp)
	result := &analysis{pass: pass}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		cu := parser.Parse(data, parser.WithFile(file))
		for _, e := range cu.Errors() {
			result.syntaxErrors = append(result.syntaxErrors, syntaxError(e))
		}
		if _, err := pass.Enter(file, cu); err != nil {
			return nil, err
		}
	}
	pass.Finish()
	pass.Complete()
	return result, nil
}

func (a *analysis) encode(formatName string, w io.Writer) error {
	enc, err := format.New(formatName, w)
	if err != nil {
		return err
	}
	if err := format.EncodePass(enc, a.pass); err != nil {
		return err
	}
	return closeEncoder(enc)
}

func (a *analysis) report(w io.Writer, prefix string) {
	for _, e := range a.syntaxErrors {
		fmt.Fprintf(w, "%s%s\n", prefix, e)
	}
	for _, d := range a.pass.Diagnostics() {
		fmt.Fprintf(w, "%s%s\n", prefix, d)
	}
}
