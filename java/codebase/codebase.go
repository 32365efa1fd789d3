// Package codebase keeps the Java sources of a workspace in memory and
// analyzes documents on demand: every analysis enters the whole workspace
// into a fresh pass and completes the declarations of one file.
package codebase

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/abi"
	"github.com/alampiss/buck/java/classpath"
	"github.com/alampiss/buck/java/parser"
)

var log = commonlog.GetLogger("abi.lsp")

type Codebase struct {
	mu        sync.RWMutex
	rootDir   string
	classpath classpath.Lookup
	files     map[string]*FileInfo
}

type FileInfo struct {
	Path    string
	Content []byte
	AST     *parser.Node
}

// Analysis is the outcome of analyzing one file against the workspace.
type Analysis struct {
	Path        string
	Types       []*abi.TypeElement
	Diagnostics []abi.Diagnostic
	ParseErrors []*parser.Node
}

func New(rootDir string, cp classpath.Lookup) *Codebase {
	if cp == nil {
		cp = classpath.Platform()
	}
	return &Codebase{
		rootDir:   rootDir,
		classpath: cp,
		files:     make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// ScanAll reads every .java file below the root, skipping hidden
// directories.
func (c *Codebase) ScanAll() error {
	return filepath.WalkDir(c.rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != c.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".java" {
			if err := c.ScanFile(path); err != nil {
				log.Warningf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	return nil
}

func (c *Codebase) UpdateFile(path string, content []byte) {
	ast := parser.Parse(content, parser.WithFile(path))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = &FileInfo{Path: path, Content: content, AST: ast}
	log.Debugf("updated %s", path)
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns the known paths in lexical order.
func (c *Codebase) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Analyze runs a pass over the workspace and completes the declarations
// of path. Diagnostics are those whose offending reference is in path.
func (c *Codebase) Analyze(path string) (*Analysis, error) {
	c.mu.RLock()
	target := c.files[path]
	if target == nil {
		c.mu.RUnlock()
		return nil, fmt.Errorf("analyze %s: file not loaded", path)
	}
	units := make([]*FileInfo, 0, len(c.files))
	for _, f := range c.files {
		units = append(units, f)
	}
	c.mu.RUnlock()
	sort.Slice(units, func(i, j int) bool { return units[i].Path < units[j].Path })

	pass := abi.NewPass(c.classpath)
	result := &Analysis{Path: path, ParseErrors: target.AST.Errors()}
	for _, f := range units {
		types, err := pass.Enter(f.Path, f.AST)
		if err != nil {
			return nil, fmt.Errorf("enter %s: %w", f.Path, err)
		}
		if f.Path == path {
			result.Types = types
		}
	}
	pass.Finish()
	pass.CompleteFile(path)

	for _, d := range pass.Diagnostics() {
		if d.ReferencePosition.File == path {
			result.Diagnostics = append(result.Diagnostics, d)
		}
	}
	log.Debugf("analyzed %s: %d diagnostics, %d parse errors", path, len(result.Diagnostics), len(result.ParseErrors))
	return result, nil
}

// Symbol is one entry of a document outline.
type Symbol struct {
	Name      string
	Detail    string
	Kind      java.SymbolKind
	Span      parser.Span
	Selection parser.Position
	Children  []Symbol
}

// Symbols returns the outline of the analyzed file.
func (a *Analysis) Symbols() []Symbol {
	out := make([]Symbol, 0, len(a.Types))
	for _, t := range a.Types {
		out = append(out, symbolOf(t))
	}
	return out
}

func symbolOf(e abi.Element) Symbol {
	s := Symbol{
		Name:      e.SimpleName(),
		Kind:      e.Kind(),
		Selection: e.Position(),
	}
	if n := e.Node(); n != nil {
		s.Span = n.Span
	}
	switch e := e.(type) {
	case *abi.TypeElement:
		s.Detail = e.QualifiedName()
		for _, tp := range e.TypeParameters().All() {
			s.Children = append(s.Children, symbolOf(tp))
		}
	case *abi.ExecutableElement:
		s.Detail = signature(e)
	case *abi.VariableElement:
		if t, err := e.Type(); err == nil {
			s.Detail = t.String()
		}
	}
	for _, child := range e.EnclosedElements().All() {
		s.Children = append(s.Children, symbolOf(child))
	}
	return s
}

func signature(x *abi.ExecutableElement) string {
	var params []string
	for _, p := range x.Parameters().All() {
		if t, err := p.Type(); err == nil {
			params = append(params, t.String())
		} else {
			params = append(params, "?")
		}
	}
	sig := "(" + strings.Join(params, ", ") + ")"
	if x.IsConstructor() {
		return sig
	}
	if t, err := x.ReturnType(); err == nil {
		return sig + " " + t.String()
	}
	return sig
}
