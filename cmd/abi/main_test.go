package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alampiss/buck/classfile"
	"github.com/alampiss/buck/classfile/classfiletest"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

// run executes the command line in dir and returns stdout and stderr.
func run(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(dir)
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func depJar() []byte {
	return classfiletest.Jar([]classfiletest.Class{
		{Name: "com/example/Dep", Access: classfile.AccPublic},
		{Name: "com/example/Api", Access: classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract},
	}, nil)
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src/p/A.java"), []byte("package p; public class A extends B { Missing m; }"))
	writeFile(t, filepath.Join(dir, "src/p/B.java"), []byte("package p; public class B {}"))

	stdout, stderr, err := run(t, dir, "extract", "src")
	require.NoError(t, err)
	assert.Contains(t, stdout, "class\tp.A\tpublic\nsuper\tp.A\tp.B\n")
	assert.Contains(t, stdout, "field\tp.A.m\t<error>\t-\t-\n")
	assert.Contains(t, stdout, "class\tp.B\tpublic\n")
	assert.Contains(t, stderr, "unresolved symbol: Missing in p.A.m")

	_, _, err = run(t, dir, "extract", "--strict", "src")
	assert.EqualError(t, err, "1 problems")
}

func TestExtractWithClasspath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lib/dep.jar"), depJar())
	writeFile(t, filepath.Join(dir, "C.java"), []byte("import com.example.*; class C extends Dep implements Api {}"))

	stdout, stderr, err := run(t, dir, "extract", "--cp", "lib/dep.jar", "-f", "json", "C.java")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var decl map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &decl))
	assert.Equal(t, "C", decl["name"])
	assert.Equal(t, "com.example.Dep", decl["superclass"])
	assert.Equal(t, []any{"com.example.Api"}, decl["interfaces"])
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lib/dep.jar"), depJar())
	writeFile(t, filepath.Join(dir, "core/src/c/Core.java"), []byte("package c; public class Core extends com.example.Dep {}"))
	writeFile(t, filepath.Join(dir, "app/src/a/App.java"), []byte("package a; public class App { Unknown u; }"))
	writeFile(t, filepath.Join(dir, "abi.yaml"), []byte(`
format: yaml
out_dir: out
targets:
  - name: core
    srcs: [core/src]
    classpath: [lib/dep.jar]
  - name: app
    srcs: [app/src]
`))

	stdout, stderr, err := run(t, dir, "build", "-j", "2")
	require.NoError(t, err)
	assert.Equal(t,
		"app\t"+filepath.Join(dir, "out", "app.yaml")+"\n"+
			"core\t"+filepath.Join(dir, "out", "core.yaml")+"\n", stdout)
	assert.Contains(t, stderr, "app: ")
	assert.Contains(t, stderr, "unresolved symbol: Unknown")

	core, err := os.ReadFile(filepath.Join(dir, "out", "core.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(core), "superclass: com.example.Dep\n")

	_, _, err = run(t, dir, "build", "--strict", "core")
	require.NoError(t, err)
	_, _, err = run(t, dir, "build", "--strict", "app")
	assert.Error(t, err)
	_, _, err = run(t, dir, "build", "nope")
	assert.EqualError(t, err, `unknown target "nope"`)
}

func TestBuildWithoutConfig(t *testing.T) {
	_, _, err := run(t, t.TempDir(), "build")
	assert.EqualError(t, err, "no abi.yaml found")
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dep.jar"), depJar())

	stdout, _, err := run(t, dir, "dump", "dep.jar")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, []string{
		"interface\tcom.example.Api\tpublic",
		"class\tcom.example.Dep\tpublic",
		"super\tcom.example.Dep\tjava.lang.Object",
	}, lines)

	_, _, err = run(t, dir, "dump", "notes.txt")
	assert.ErrorContains(t, err, "unsupported file extension")
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Ok.java"), []byte("class Ok {}"))
	writeFile(t, filepath.Join(dir, "Bad.java"), []byte("class Bad { void m( }"))

	stdout, _, err := run(t, dir, "parse", "Ok.java")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ClassDecl")

	stdout, _, err = run(t, dir, "parse", "--json", "Ok.java")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"kind": "CompilationUnit"`)

	stdout, _, err = run(t, dir, "parse", "--grammar")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "CompilationUnit = "))

	_, stderr, err := run(t, dir, "parse", "Bad.java")
	assert.ErrorContains(t, err, "syntax errors")
	assert.Contains(t, stderr, "Bad.java:1:")
}
