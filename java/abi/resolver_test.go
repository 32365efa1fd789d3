package abi

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alampiss/buck/classfile"
	"github.com/alampiss/buck/classfile/classfiletest"
	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/classpath"
)

func fieldType(t *testing.T, owner Element, name string) (Type, error) {
	t.Helper()
	return member[*VariableElement](t, owner, name).Type()
}

func requireFieldType(t *testing.T, owner Element, name, want string) Type {
	t.Helper()
	typ, err := fieldType(t, owner, name)
	require.NoError(t, err, "field %s", name)
	assert.Equal(t, want, typ.String(), "field %s", name)
	return typ
}

func requireFailure(t *testing.T, err error, kind FailureKind) *ResolutionError {
	t.Helper()
	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, kind, rerr.Kind, "%v", err)
	return rerr
}

func TestMethodSignatureEndToEnd(t *testing.T) {
	p := platformPass(t, `
package com.example;

public class Holder<T> {
    public <U> T foo(U u) throws Failure { return null; }
}
`, `
package com.example;

class Failure extends Exception {}
`)
	holder := typeNamed(t, p, "com.example.Holder")
	foo := member[*ExecutableElement](t, holder, "foo")

	ret, err := foo.ReturnType()
	require.NoError(t, err)
	tv, ok := ret.(*TypeVariable)
	require.True(t, ok, "return type %T", ret)
	assert.Same(t, holder.TypeParameters().At(0), tv.Element)

	params := foo.Parameters()
	require.Equal(t, 1, params.Len())
	u := params.At(0)
	assert.Equal(t, "u", u.SimpleName())
	assert.Equal(t, java.SymbolParameter, u.Kind())
	assert.Same(t, foo, u.EnclosingExecutable())
	assert.Equal(t, 0, u.Index())
	ut, err := u.Type()
	require.NoError(t, err)
	utv, ok := ut.(*TypeVariable)
	require.True(t, ok, "parameter type %T", ut)
	assert.Same(t, foo, utv.Element.GenericElement())

	thrown, err := foo.ThrownTypes()
	require.NoError(t, err)
	require.Len(t, thrown, 1)
	failure, ok := thrown[0].(*DeclaredType)
	require.True(t, ok)
	assert.Same(t, typeNamed(t, p, "com.example.Failure"), failure.Symbol)

	super, err := failure.Symbol.(*TypeElement).Superclass()
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Exception", super.String())

	p.Complete()
	assert.Empty(t, p.Diagnostics())
}

func TestOrderIsPreserved(t *testing.T) {
	p := platformPass(t, `
package p;
class A implements Runnable, Comparable<A>, Cloneable {
    void m(int a, String b, long[] c, Object d, char e[]) throws E3, E1, E2 {}
}
class E1 extends Exception {}
class E2 extends Exception {}
class E3 extends Exception {}
`)
	a := typeNamed(t, p, "p.A")
	m := member[*ExecutableElement](t, a, "m")

	var got []string
	for _, param := range m.Parameters().All() {
		typ, err := param.Type()
		require.NoError(t, err)
		got = append(got, param.SimpleName()+" "+typ.String())
	}
	assert.Equal(t, []string{"a int", "b java.lang.String", "c long[]", "d java.lang.Object", "e char[]"}, got)

	thrown, err := m.ThrownTypes()
	require.NoError(t, err)
	assert.Equal(t, []string{"p.E3", "p.E1", "p.E2"}, typeStrings(thrown))

	ifaces, err := a.Interfaces()
	require.NoError(t, err)
	assert.Equal(t, []string{"java.lang.Runnable", "java.lang.Comparable<p.A>", "java.lang.Cloneable"}, typeStrings(ifaces))

	ifaces[0] = nil
	again, _ := a.Interfaces()
	assert.NotNil(t, again[0], "callers get their own copy")
}

func typeStrings(types []Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}

func TestShadowing(t *testing.T) {
	p := platformPass(t, `
package p;

import q.Helper;

class String {}

class Outer<T> {
    static class Integer {}

    T plain;
    Integer member;
    String topLevel;
    Helper imported;
    Local samePackage;
    Number javaLang;

    <T> T generic(T t) { return t; }

    class Inner {
        T fromOuter;
        Integer enclosingMember;
    }
}
`, `
package p;
class Local {}
class Helper {}
class Number {}
`, `
package q;
public class Helper {}
`)
	outer := typeNamed(t, p, "p.Outer")

	plain, err := fieldType(t, outer, "plain")
	require.NoError(t, err)
	assert.Same(t, outer, plain.(*TypeVariable).Element.GenericElement())

	requireFieldType(t, outer, "member", "p.Outer.Integer")
	requireFieldType(t, outer, "topLevel", "p.String")
	requireFieldType(t, outer, "imported", "q.Helper")
	requireFieldType(t, outer, "samePackage", "p.Local")
	// On-demand java.lang is consulted before the unit's own package.
	requireFieldType(t, outer, "javaLang", "java.lang.Number")

	generic := member[*ExecutableElement](t, outer, "generic")
	ret, err := generic.ReturnType()
	require.NoError(t, err)
	assert.Same(t, generic, ret.(*TypeVariable).Element.GenericElement(), "method type parameter shadows the class one")

	inner := member[*TypeElement](t, outer, "Inner")
	fromOuter, err := fieldType(t, inner, "fromOuter")
	require.NoError(t, err)
	assert.Same(t, outer, fromOuter.(*TypeVariable).Element.GenericElement())
	requireFieldType(t, inner, "enclosingMember", "p.Outer.Integer")
}

func TestPackageIsSearchedAfterJavaLang(t *testing.T) {
	p := platformPass(t, `
package p;
class Number {}
class Widget {}
class Local {
    Number number;
}
`, `
package p;
class User {
    Number number;
    p.Number qualified;
    Widget widget;
}
`)
	user := typeNamed(t, p, "p.User")
	requireFieldType(t, user, "number", "java.lang.Number")
	requireFieldType(t, user, "qualified", "p.Number")
	requireFieldType(t, user, "widget", "p.Widget")

	requireFieldType(t, typeNamed(t, p, "p.Local"), "number", "p.Number")
}

func TestImports(t *testing.T) {
	p := platformPass(t, `
package app;

import lib.*;
import static lib.Tree.Leaf;
import static lib.Registry.*;
import lib.Tree.Branch;

class Uses {
    Tree tree;
    Leaf leaf;
    Branch branch;
    Entry entry;
    Widget widget;
}
`, `
package lib;
public class Tree {
    public static class Leaf {}
    public static class Branch {}
}
`, `
package lib;
public class Registry {
    public static class Entry {}
}
`, `
package lib;
public class Widget {}
`)
	uses := typeNamed(t, p, "app.Uses")
	requireFieldType(t, uses, "tree", "lib.Tree")
	requireFieldType(t, uses, "leaf", "lib.Tree.Leaf")
	requireFieldType(t, uses, "branch", "lib.Tree.Branch")
	requireFieldType(t, uses, "entry", "lib.Registry.Entry")
	requireFieldType(t, uses, "widget", "lib.Widget")
}

func TestQualifiedResolution(t *testing.T) {
	p := platformPass(t, `
package com.example;

public class Outer {
    public static class Inner {
        public static class Deep {}
    }
}
`, `
package other;

import com.example.Outer;

class User {
    com.example.Outer.Inner full;
    com.example.Outer.Inner.Deep deep;
    Outer.Inner viaImport;
    Sub.Inner inherited;
    Own.Inner declaredFirst;
}

class Sub extends com.example.Outer {}

class Own extends com.example.Outer {
    static class Inner {}
}
`)
	user := typeNamed(t, p, "other.User")

	full := requireFieldType(t, user, "full", "com.example.Outer.Inner")
	assert.Equal(t, "com.example.Outer$Inner", full.(*DeclaredType).Symbol.BinaryName())
	requireFieldType(t, user, "deep", "com.example.Outer.Inner.Deep")
	requireFieldType(t, user, "viaImport", "com.example.Outer.Inner")
	requireFieldType(t, user, "inherited", "com.example.Outer.Inner")
	requireFieldType(t, user, "declaredFirst", "other.Own.Inner")
}

func TestQualifiedResolutionAcrossUnresolvedSupertypes(t *testing.T) {
	p := platformPass(t, `
package com.example;

public class Outer extends other.Base {
    public static class Inner {}
}
`, `
package other;

public class Base extends Missing {}
`, `
package app;

class User {
    com.example.Outer.Inner field;
}

class Sub extends com.example.Outer.Inner {}
`)
	requireFieldType(t, typeNamed(t, p, "app.User"), "field", "com.example.Outer.Inner")

	super, err := typeNamed(t, p, "app.Sub").Superclass()
	require.NoError(t, err)
	assert.Equal(t, "com.example.Outer.Inner", super.String())

	p.Complete()
	diags := p.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "other.Base", diags[0].Declaration)
	assert.Equal(t, "Missing", diags[0].Reference)
	assert.Equal(t, FailureUnresolvedSymbol, diags[0].Kind)
}

func TestGenericArguments(t *testing.T) {
	p := platformPass(t, `
package p;
class Box<T extends Comparable<? super T>> {
    Box<? extends Number>[] boxes;
    Outer<String>.Inner<Integer> nested;
    Box<?> any;
}
class Outer<A> {
    class Inner<B> {}
}
`)
	box := typeNamed(t, p, "p.Box")
	requireFieldType(t, box, "boxes", "p.Box<? extends java.lang.Number>[]")
	requireFieldType(t, box, "nested", "p.Outer<java.lang.String>.Inner<java.lang.Integer>")
	requireFieldType(t, box, "any", "p.Box<?>")

	bounds, err := box.TypeParameters().At(0).Bounds()
	require.NoError(t, err)
	assert.Equal(t, []string{"java.lang.Comparable<? super T>"}, typeStrings(bounds))
}

func TestCyclicSupertypes(t *testing.T) {
	t.Run("supertype through own member", func(t *testing.T) {
		p := platformPass(t, `
package p;
class A extends A.Inner {
    class Inner {}
}
`)
		a := typeNamed(t, p, "p.A")
		_, err := a.Superclass()
		rerr := requireFailure(t, err, FailureCyclicReference)
		assert.Equal(t, "A.Inner", rerr.Reference)
		assert.ErrorIs(t, err, ErrCyclicReference)

		inner := member[*TypeElement](t, a, "Inner")
		super, err := inner.Superclass()
		require.NoError(t, err)
		assert.Equal(t, "java.lang.Object", super.String())

		p.Complete()
		diags := p.Diagnostics()
		require.Len(t, diags, 1)
		assert.Equal(t, FailureCyclicReference, diags[0].Kind)
		assert.Equal(t, "p.A", diags[0].Declaration)
	})

	t.Run("mutual", func(t *testing.T) {
		const src = `
package p;
class A extends B {}
class B extends A {}
class C extends A {}
`
		for _, first := range []string{"p.A", "p.B", "p.C"} {
			t.Run("from "+first, func(t *testing.T) {
				p := platformPass(t, src)
				typeNamed(t, p, first).Superclass()

				_, err := typeNamed(t, p, "p.A").Superclass()
				assert.Equal(t, "B", requireFailure(t, err, FailureCyclicReference).Reference)
				_, err = typeNamed(t, p, "p.B").Superclass()
				assert.Equal(t, "A", requireFailure(t, err, FailureCyclicReference).Reference)

				super, err := typeNamed(t, p, "p.C").Superclass()
				require.NoError(t, err)
				assert.Equal(t, "p.A", super.String())

				p.Complete()
				var declarations []string
				for _, d := range p.Diagnostics() {
					assert.Equal(t, FailureCyclicReference, d.Kind)
					declarations = append(declarations, d.Declaration)
				}
				assert.ElementsMatch(t, []string{"p.A", "p.B"}, declarations)
			})
		}
	})

	t.Run("through three types", func(t *testing.T) {
		p := platformPass(t, `
package p;
interface I extends K {}
interface J extends I {}
interface K extends J {}
`)
		_, err := typeNamed(t, p, "p.J").Interfaces()
		requireFailure(t, err, FailureCyclicReference)
		for _, name := range []string{"p.I", "p.K"} {
			_, err := typeNamed(t, p, name).Interfaces()
			requireFailure(t, err, FailureCyclicReference)
		}
	})

	t.Run("interfaces", func(t *testing.T) {
		p := platformPass(t, `
package p;
interface I extends I.J {
    interface J {}
}
`)
		_, err := typeNamed(t, p, "p.I").Interfaces()
		requireFailure(t, err, FailureCyclicReference)
	})

	t.Run("self reference in arguments is fine", func(t *testing.T) {
		p := platformPass(t, `
package p;
class A implements Comparable<A> {}
class Outer {
    class Inner extends Outer {}
}
`)
		p.Complete()
		assert.Empty(t, p.Diagnostics())
	})
}

func TestPartialFailureIsIsolated(t *testing.T) {
	p := platformPass(t, `
package p;
class A {
    String good(int x) { return null; }
    void bad(Missing m) {}
    long other;
}
`)
	p.Complete()
	diags := p.Diagnostics()
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, "p.A.bad(Missing).m", d.Declaration)
	assert.Equal(t, "Missing", d.Reference)
	assert.Equal(t, FailureUnresolvedSymbol, d.Kind)
	assert.Equal(t, 5, d.ReferencePosition.Line)
	assert.Contains(t, d.String(), "unresolved symbol: Missing")

	a := typeNamed(t, p, "p.A")
	good := member[*ExecutableElement](t, a, "good")
	ret, err := good.ReturnType()
	require.NoError(t, err)
	assert.Equal(t, "java.lang.String", ret.String())
	requireFieldType(t, a, "other", "long")

	bad := member[*ExecutableElement](t, a, "bad")
	ret, err = bad.ReturnType()
	require.NoError(t, err)
	assert.Equal(t, Void, ret)
	_, err = bad.Parameters().At(0).Type()
	assert.ErrorIs(t, err, ErrUnresolvedSymbol)
	assert.Len(t, p.Diagnostics(), 1, "cached failures are not recorded again")
}

func TestKindMismatch(t *testing.T) {
	p := platformPass(t, `
package p;
class A<T> {
    static class B { static int x; }
    int count;

    T.X qualifiedVariable;
    T<String> variableWithArguments;
    count field;
    A.B.x memberField;
}
`)
	a := typeNamed(t, p, "p.A")
	for _, name := range []string{"qualifiedVariable", "variableWithArguments", "field", "memberField"} {
		t.Run(name, func(t *testing.T) {
			_, err := fieldType(t, a, name)
			requireFailure(t, err, FailureKindMismatch)
			assert.ErrorIs(t, err, ErrKindMismatch)
		})
	}
}

// mapLookup serves hand-built class models.
type mapLookup map[string]*java.ClassModel

func (m mapLookup) Find(name string) (*java.ClassModel, bool) {
	c, ok := m[name]
	return c, ok
}

func TestInconsistentDependency(t *testing.T) {
	cp := classpath.Chain{mapLookup{
		"dep.Outer": {
			Name: "dep.Outer", SimpleName: "Outer", Package: "dep", Kind: java.ClassKindClass,
			InnerClasses: []java.InnerClassModel{{InnerClass: "dep.Outer$Gone", OuterClass: "dep.Outer", InnerName: "Gone"}},
		},
		"dep.Moved": {Name: "dep.Elsewhere", SimpleName: "Elsewhere", Package: "dep", Kind: java.ClassKindClass},
	}, classpath.Platform()}
	p := newPass(t, cp, nil, `
package p;
class A {
    dep.Outer.Gone missingMember;
    dep.Moved wrongName;
    dep.Outer fine;
}
`)
	a := typeNamed(t, p, "p.A")
	_, err := fieldType(t, a, "missingMember")
	rerr := requireFailure(t, err, FailureKindMismatch)
	assert.Contains(t, rerr.Detail, "dep.Outer$Gone")
	_, err = fieldType(t, a, "wrongName")
	requireFailure(t, err, FailureKindMismatch)
	requireFieldType(t, a, "fine", "dep.Outer")
}

func TestClasspathResolution(t *testing.T) {
	dir := t.TempDir()
	jar := filepath.Join(dir, "lib.jar")
	require.NoError(t, os.WriteFile(jar, classfiletest.Jar([]classfiletest.Class{
		{
			Name:   "lib/Base",
			Access: classfile.AccPublic,
			Inner: []classfile.InnerClass{{
				Inner: "lib/Base$Node", Outer: "lib/Base", Name: "Node",
				Access: classfile.AccPublic | classfile.AccStatic,
			}},
		},
		{Name: "lib/Base$Node", Access: classfile.AccPublic},
		{Name: "lib/Service", Access: classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract},
	}, nil), 0o644))

	cp, err := classpath.Open(jar)
	require.NoError(t, err)
	defer cp.Close()

	p := newPass(t, cp, nil, `
package app;
import lib.Service;
class Impl extends lib.Base implements Service {
    Node node;
    lib.Base.Node qualified;
}
`)
	impl := typeNamed(t, p, "app.Impl")
	node := requireFieldType(t, impl, "node", "lib.Base.Node")
	dep, ok := node.(*DeclaredType).Symbol.(*DependencyType)
	require.True(t, ok)
	assert.Equal(t, "lib.Base$Node", dep.BinaryName())
	assert.Equal(t, "lib.Base$Node", dep.Model().Name)
	requireFieldType(t, impl, "qualified", "lib.Base.Node")

	ifaces, err := impl.Interfaces()
	require.NoError(t, err)
	require.Len(t, ifaces, 1)
	assert.Equal(t, java.SymbolInterface, ifaces[0].(*DeclaredType).Symbol.Kind())
}

func TestNotModeledIsNotAResolutionFailure(t *testing.T) {
	p := platformPass(t, `
package p;
@interface Marker { int value() default 1; }
class A {
    void m(Missing x) {}
    static final int LIMIT = 10;
    static int counter = 1;
}
`)
	a := typeNamed(t, p, "p.A")
	m := member[*ExecutableElement](t, a, "m")

	for _, err := range []error{
		func() error { _, err := m.AsType(); return err }(),
		func() error { _, err := m.ReceiverType(); return err }(),
		func() error { _, err := m.DefaultValue(); return err }(),
		func() error { _, err := member[*VariableElement](t, a, "counter").ConstantValue(); return err }(),
	} {
		assert.ErrorIs(t, err, ErrNotModeled)
		var rerr *ResolutionError
		assert.False(t, errors.As(err, &rerr))
	}

	_, err := m.Parameters().At(0).Type()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotModeled)

	value, err := member[*VariableElement](t, a, "LIMIT").ConstantValue()
	require.NoError(t, err)
	assert.Equal(t, int32(10), value)

	marker := member[*ExecutableElement](t, typeNamed(t, p, "p.Marker"), "value")
	assert.True(t, marker.HasDefaultValue())
	_, err = marker.DefaultValue()
	assert.ErrorIs(t, err, ErrNotModeled)
}
