package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func parseString(t *testing.T, src string) *Node {
	t.Helper()
	cu := Parse([]byte(src), WithFile("Test.java"))
	if cu == nil {
		t.Fatal("Parse returned nil")
	}
	return cu
}

func mustNoErrors(t *testing.T, cu *Node) {
	t.Helper()
	if errs := cu.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %s at %s\n%s", errs[0].Error.Message, errs[0].Span.Start, cu)
	}
}

func body(t *testing.T, decl *Node) *Node {
	t.Helper()
	b := decl.FirstChildOfKind(KindBody)
	if b == nil {
		t.Fatalf("%s has no body", decl.Kind)
	}
	return b
}

func TestParsePackageAndImports(t *testing.T) {
	cu := parseString(t, `
package com.example.app;

import java.util.List;
import java.util.*;
import static java.util.Map.Entry;
import static java.util.Collections.*;

class A {}
`)
	mustNoErrors(t, cu)

	pkg := cu.FirstChildOfKind(KindPackageDecl)
	if got := pkg.FirstChildOfKind(KindQualifiedName).Text(); got != "com.example.app" {
		t.Errorf("package = %q, want com.example.app", got)
	}

	imports := cu.ChildrenOfKind(KindImportDecl)
	if len(imports) != 4 {
		t.Fatalf("got %d imports, want 4", len(imports))
	}
	tests := []struct {
		name     string
		static   bool
		wildcard bool
	}{
		{"java.util.List", false, false},
		{"java.util", false, true},
		{"java.util.Map.Entry", true, false},
		{"java.util.Collections", true, true},
	}
	for i, tt := range tests {
		imp := imports[i]
		if got := imp.FirstChildOfKind(KindQualifiedName).Text(); got != tt.name {
			t.Errorf("import %d name = %q, want %q", i, got, tt.name)
		}
		ids := imp.ChildrenOfKind(KindIdentifier)
		static := len(ids) > 0 && ids[0].TokenLiteral() == "static"
		wildcard := len(ids) > 0 && ids[len(ids)-1].TokenLiteral() == "*"
		if static != tt.static || wildcard != tt.wildcard {
			t.Errorf("import %d static=%v wildcard=%v, want %v %v", i, static, wildcard, tt.static, tt.wildcard)
		}
	}
}

func TestParseAnnotatedPackage(t *testing.T) {
	cu := parseString(t, `@Deprecated package p;`)
	mustNoErrors(t, cu)
	pkg := cu.FirstChildOfKind(KindPackageDecl)
	if pkg == nil || pkg.FirstChildOfKind(KindAnnotation) == nil {
		t.Fatalf("expected annotated package:\n%s", cu)
	}
}

func TestParseClassClauses(t *testing.T) {
	cu := parseString(t, `
public abstract sealed class Shape<T extends Comparable<T> & Cloneable, U>
    extends Base<T> implements Runnable, java.io.Serializable permits Circle, Square {
}`)
	mustNoErrors(t, cu)

	cls := cu.FirstChildOfKind(KindClassDecl)
	if cls.Name() != "Shape" {
		t.Errorf("Name() = %q, want Shape", cls.Name())
	}
	var mods []string
	for _, m := range cls.FirstChildOfKind(KindModifiers).Children {
		mods = append(mods, m.TokenLiteral())
	}
	if got := strings.Join(mods, " "); got != "public abstract sealed" {
		t.Errorf("modifiers = %q", got)
	}

	params := cls.FirstChildOfKind(KindTypeParameters).ChildrenOfKind(KindTypeParameter)
	if len(params) != 2 {
		t.Fatalf("got %d type parameters, want 2", len(params))
	}
	bounds := params[0].FirstChildOfKind(KindExtendsClause).Children
	if len(bounds) != 2 || bounds[0].Text() != "Comparable<T>" || bounds[1].Text() != "Cloneable" {
		t.Errorf("bounds of T = %v", bounds)
	}

	if got := cls.FirstChildOfKind(KindExtendsClause).Children[0].Text(); got != "Base<T>" {
		t.Errorf("extends = %q", got)
	}
	impls := cls.FirstChildOfKind(KindImplementsClause).Children
	if len(impls) != 2 || impls[1].Text() != "java.io.Serializable" {
		t.Errorf("implements = %v", impls)
	}
	if n := len(cls.FirstChildOfKind(KindPermitsClause).Children); n != 2 {
		t.Errorf("permits has %d types, want 2", n)
	}
}

func TestParseMethodsAndConstructors(t *testing.T) {
	cu := parseString(t, `
class Foo {
    public Foo(int a, String... rest) throws java.io.IOException { this.a = a; }
    <T> T pick(T first, T second) { return first; }
    abstract int[] values()[];
    void inner() throws A, B {
        class Local { void hidden() {} }
        Runnable r = () -> { };
    }
    native long handle();
}`)
	mustNoErrors(t, cu)

	members := body(t, cu.FirstChildOfKind(KindClassDecl)).Children
	var kinds []string
	for _, m := range members {
		kinds = append(kinds, m.Kind.String()+":"+m.Name())
	}
	want := "ConstructorDecl:Foo MethodDecl:pick MethodDecl:values MethodDecl:inner MethodDecl:handle"
	if got := strings.Join(kinds, " "); got != want {
		t.Fatalf("members = %q, want %q", got, want)
	}

	ctor := members[0]
	ps := ctor.FirstChildOfKind(KindParameters).ChildrenOfKind(KindParameter)
	if len(ps) != 2 {
		t.Fatalf("constructor has %d parameters, want 2", len(ps))
	}
	if ps[1].FirstChildOfKind(KindEllipsis) == nil || ps[1].Name() != "rest" {
		t.Errorf("second parameter should be varargs named rest:\n%s", ps[1])
	}
	if got := ctor.FirstChildOfKind(KindThrowsList).Children[0].Text(); got != "java.io.IOException" {
		t.Errorf("throws = %q", got)
	}
	if ctor.FirstChildOfKind(KindSkipped) == nil {
		t.Error("constructor body should be skipped")
	}

	pick := members[1]
	if pick.FirstChildOfKind(KindTypeParameters) == nil {
		t.Error("pick should have type parameters")
	}
	if got := pick.FirstChildOfKind(KindType).Text(); got != "T" {
		t.Errorf("pick return type = %q", got)
	}

	values := members[2]
	if values.FirstChildOfKind(KindArrayType) == nil || values.FirstChildOfKind(KindDims).DimCount() != 1 {
		t.Errorf("values should return int[] with one extra dimension:\n%s", values)
	}

	inner := members[3]
	if n := len(inner.FirstChildOfKind(KindThrowsList).Children); n != 2 {
		t.Errorf("inner throws %d types, want 2", n)
	}
	inner.Walk(func(n *Node) bool {
		if n.Kind == KindClassDecl {
			t.Errorf("local class leaked out of a skipped body")
		}
		return true
	})
}

func TestParseFields(t *testing.T) {
	cu := parseString(t, `
class Consts {
    public static final int MAX = 10, MIN = -3;
    static final String NAME = "x";
    static final long SUM = 1 + 2;
    java.util.Map<String, Integer> table = new java.util.HashMap<String, Integer>(), other;
    int grid[][];
    static final boolean ON = true;
}`)
	mustNoErrors(t, cu)

	fields := body(t, cu.FirstChildOfKind(KindClassDecl)).ChildrenOfKind(KindFieldDecl)
	if len(fields) != 6 {
		t.Fatalf("got %d fields, want 6", len(fields))
	}

	decls := fields[0].ChildrenOfKind(KindVariableDeclarator)
	if len(decls) != 2 {
		t.Fatalf("MAX/MIN: got %d declarators", len(decls))
	}
	if got := decls[1].FirstChildOfKind(KindLiteral).TokenLiteral(); got != "-3" {
		t.Errorf("MIN literal = %q, want -3", got)
	}
	if got := fields[1].FirstChildOfKind(KindVariableDeclarator).FirstChildOfKind(KindLiteral).TokenLiteral(); got != `"x"` {
		t.Errorf("NAME literal = %q", got)
	}
	sum := fields[2].FirstChildOfKind(KindVariableDeclarator)
	if sum.FirstChildOfKind(KindLiteral) != nil || sum.FirstChildOfKind(KindSkipped) == nil {
		t.Errorf("SUM initializer should be skipped:\n%s", sum)
	}
	if n := len(fields[3].ChildrenOfKind(KindVariableDeclarator)); n != 2 {
		t.Errorf("table/other: got %d declarators, want 2", n)
	}
	if got := fields[4].FirstChildOfKind(KindVariableDeclarator).FirstChildOfKind(KindDims).DimCount(); got != 2 {
		t.Errorf("grid dims = %d, want 2", got)
	}
	if got := fields[5].FirstChildOfKind(KindVariableDeclarator).FirstChildOfKind(KindLiteral).TokenLiteral(); got != "true" {
		t.Errorf("ON literal = %q", got)
	}
}

func TestParseEnumRecordAnnotation(t *testing.T) {
	cu := parseString(t, `
enum Color implements Named {
    RED("r"), GREEN { void g() {} }, @Deprecated BLUE;
    private final String code = null;
    Color() {}
}
record Point<N extends Number>(N x, N y) implements Comparable<Point<N>> {
    Point { java.util.Objects.requireNonNull(x); }
    static Point<Integer> origin() { return null; }
}
@interface Marker {
    String value() default "";
    int[] ids() default {1, 2};
}
interface Api extends A, B {
    default void m() {}
    static <T> T id(T t) { return t; }
}
`)
	mustNoErrors(t, cu)

	decls := cu.Children
	if len(decls) != 4 {
		t.Fatalf("got %d type declarations, want 4:\n%s", len(decls), cu)
	}

	enum := decls[0]
	constants := body(t, enum).ChildrenOfKind(KindEnumConstant)
	var names []string
	for _, c := range constants {
		names = append(names, c.Name())
	}
	if got := strings.Join(names, ","); got != "RED,GREEN,BLUE" {
		t.Errorf("constants = %q", got)
	}
	if len(body(t, enum).ChildrenOfKind(KindFieldDecl)) != 1 || len(body(t, enum).ChildrenOfKind(KindConstructorDecl)) != 1 {
		t.Errorf("enum members not parsed:\n%s", enum)
	}

	record := decls[1]
	if record.Kind != KindRecordDecl {
		t.Fatalf("second decl is %s", record.Kind)
	}
	if n := len(record.FirstChildOfKind(KindParameters).ChildrenOfKind(KindParameter)); n != 2 {
		t.Errorf("record has %d components, want 2", n)
	}
	if len(body(t, record).ChildrenOfKind(KindConstructorDecl)) != 1 {
		t.Errorf("compact constructor missing:\n%s", record)
	}

	ann := decls[2]
	methods := body(t, ann).ChildrenOfKind(KindMethodDecl)
	if len(methods) != 2 || methods[0].FirstChildOfKind(KindDefaultValue) == nil || methods[1].FirstChildOfKind(KindDefaultValue) == nil {
		t.Errorf("annotation members should carry defaults:\n%s", ann)
	}

	api := decls[3]
	if n := len(api.FirstChildOfKind(KindExtendsClause).Children); n != 2 {
		t.Errorf("interface extends %d types, want 2", n)
	}
	m := body(t, api).ChildrenOfKind(KindMethodDecl)[0]
	if got := m.FirstChildOfKind(KindModifiers).Children[0].TokenLiteral(); got != "default" {
		t.Errorf("first interface method modifier = %q, want default", got)
	}
}

func TestParseNestedTypesAndInitializers(t *testing.T) {
	cu := parseString(t, `
class Outer {
    static { init(); }
    { instance(); }
    static class Nested<T> { T value; }
    interface Callback { void call(); }
    enum Mode { ON, OFF }
    ;
}`)
	mustNoErrors(t, cu)
	b := body(t, cu.FirstChildOfKind(KindClassDecl))
	if n := len(b.ChildrenOfKind(KindSkipped)); n != 2 {
		t.Errorf("got %d skipped initializers, want 2", n)
	}
	if b.FirstChildOfKind(KindClassDecl).Name() != "Nested" ||
		b.FirstChildOfKind(KindInterfaceDecl).Name() != "Callback" ||
		b.FirstChildOfKind(KindEnumDecl).Name() != "Mode" {
		t.Errorf("nested types not parsed:\n%s", b)
	}
}

func TestParseReceiverParameter(t *testing.T) {
	cu := parseString(t, `class R { void m(R this, int x) {} class In { In(R R.this) {} } }`)
	mustNoErrors(t, cu)
	m := body(t, cu.FirstChildOfKind(KindClassDecl)).FirstChildOfKind(KindMethodDecl)
	params := m.FirstChildOfKind(KindParameters)
	if params.FirstChildOfKind(KindReceiverParameter) == nil {
		t.Errorf("receiver parameter missing:\n%s", params)
	}
	if n := len(params.ChildrenOfKind(KindParameter)); n != 1 {
		t.Errorf("got %d ordinary parameters, want 1", n)
	}
}

func TestParseModuleInfo(t *testing.T) {
	cu := parseString(t, `open module com.example { requires java.base; exports com.example.api; }`)
	mustNoErrors(t, cu)
	mod := cu.FirstChildOfKind(KindModuleDecl)
	if mod == nil || mod.FirstChildOfKind(KindQualifiedName).Text() != "com.example" {
		t.Fatalf("module not parsed:\n%s", cu)
	}
}

func TestParseRecovery(t *testing.T) {
	cu := parseString(t, `
class Broken {
    int ok;
    void bad( { }
    String fine() { return ""; }
    ??? nonsense;
    int last;
}
class After {}
`)
	if len(cu.Errors()) == 0 {
		t.Fatal("expected parse errors")
	}
	classes := cu.ChildrenOfKind(KindClassDecl)
	if len(classes) != 2 || classes[1].Name() != "After" {
		t.Fatalf("parser did not resynchronise:\n%s", cu)
	}
	var names []string
	for _, m := range body(t, classes[0]).Children {
		switch m.Kind {
		case KindMethodDecl:
			names = append(names, m.Name())
		case KindFieldDecl:
			names = append(names, m.FirstChildOfKind(KindVariableDeclarator).Name())
		}
	}
	got := strings.Join(names, ",")
	if !strings.Contains(got, "ok") || !strings.Contains(got, "fine") || !strings.Contains(got, "last") {
		t.Errorf("members after recovery = %q", got)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestParseCompilationUnitReader(t *testing.T) {
	p := ParseCompilationUnit(bytes.NewReader([]byte("class A {}")), WithFile("A.java"))
	cu := p.Finish()
	if cu == nil || p.Err() != nil {
		t.Fatalf("Finish() = %v, Err() = %v", cu, p.Err())
	}
	if cu.FirstChildOfKind(KindClassDecl).Span.Start.File != "A.java" {
		t.Error("file name not propagated to positions")
	}

	p = ParseCompilationUnit(failingReader{})
	if p.Finish() != nil || p.Err() == nil {
		t.Error("expected read error to surface through Err")
	}
}

func TestParseEmpty(t *testing.T) {
	cu := parseString(t, "")
	if cu.Kind != KindCompilationUnit || len(cu.Children) != 0 {
		t.Errorf("empty input should give an empty compilation unit:\n%s", cu)
	}
}
