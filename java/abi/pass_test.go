package abi

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/classpath"
	"github.com/alampiss/buck/java/parser"
)

// newPass enters each source as its own compilation unit and finishes the
// pass. Sources are named Unit0.java, Unit1.java and so on.
func newPass(t *testing.T, cp classpath.Lookup, opts []Option, sources ...string) *Pass {
	t.Helper()
	p := NewPass(cp, opts...)
	for i, src := range sources {
		file := fmt.Sprintf("Unit%d.java", i)
		cu := parser.Parse([]byte(src), parser.WithFile(file))
		_, err := p.Enter(file, cu)
		require.NoError(t, err)
	}
	p.Finish()
	return p
}

func platformPass(t *testing.T, sources ...string) *Pass {
	t.Helper()
	return newPass(t, classpath.Platform(), nil, sources...)
}

func typeNamed(t *testing.T, p *Pass, name string) *TypeElement {
	t.Helper()
	te, ok := p.TypeElement(name)
	require.True(t, ok, "no type %s", name)
	return te
}

func member[T Element](t *testing.T, owner Element, name string) T {
	t.Helper()
	for _, e := range owner.EnclosedElements().All() {
		if m, ok := e.(T); ok && e.SimpleName() == name {
			return m
		}
	}
	var zero T
	t.Fatalf("%s has no member %s of type %T", Describe(owner), name, zero)
	return zero
}

func requireViolation(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected a protocol violation")
		_, ok := r.(*ProtocolViolation)
		require.True(t, ok, "panic value %v is not a *ProtocolViolation", r)
	}()
	fn()
}

func TestEnterBuildsElementTree(t *testing.T) {
	p := platformPass(t, `
package com.example;

public class Shape<T extends Number> {
    private int sides;
    public static final String NAME = "shape", OTHER = "x";
    public Shape(int sides) {}
    public T area() { return null; }
    interface Visitor {}
}
`)
	shape := typeNamed(t, p, "com.example.Shape")
	assert.Equal(t, java.SymbolClass, shape.Kind())
	assert.Equal(t, "com.example.Shape", shape.BinaryName())
	assert.Equal(t, "com.example", shape.Package().QualifiedName())
	assert.Equal(t, "Unit0.java", shape.File())

	var names []string
	for _, e := range shape.EnclosedElements().All() {
		names = append(names, string(e.Kind())+" "+e.SimpleName())
	}
	assert.Equal(t, []string{
		"field sides",
		"field NAME",
		"field OTHER",
		"constructor Shape",
		"method area",
		"interface Visitor",
	}, names)

	visitor := member[*TypeElement](t, shape, "Visitor")
	assert.Equal(t, "com.example.Shape.Visitor", visitor.QualifiedName())
	assert.Equal(t, "com.example.Shape$Visitor", visitor.BinaryName())
	assert.True(t, visitor.IsNested())
	assert.True(t, visitor.Modifiers().Has(java.ModStatic|java.ModAbstract))
	assert.Same(t, shape, visitor.EnclosingElement())

	require.Equal(t, 1, shape.TypeParameters().Len())
	tp := shape.TypeParameters().At(0)
	assert.Equal(t, "T", tp.SimpleName())
	assert.Same(t, shape, tp.GenericElement())

	assert.Equal(t, 1, p.TopLevelTypes().Len())
	assert.Same(t, shape, p.TopLevelTypes().At(0))
	pkg, ok := shape.EnclosingElement().(*PackageElement)
	require.True(t, ok)
	assert.Equal(t, 1, pkg.EnclosedElements().Len())

	e, ok := p.ElementFor(shape.Node())
	require.True(t, ok)
	assert.Same(t, shape, e)
	assert.Equal(t, 4, shape.Position().Line)
}

func TestEnterRejectsNonUnits(t *testing.T) {
	p := NewPass(classpath.Empty)
	_, err := p.Enter("x.java", nil)
	assert.Error(t, err)
	_, err = p.Enter("x.java", &parser.Node{Kind: parser.KindClassDecl})
	assert.Error(t, err)
}

func TestProtocolViolations(t *testing.T) {
	src := "package p; class A { int f; void m() {} }"

	t.Run("resolution before finish", func(t *testing.T) {
		p := NewPass(classpath.Platform())
		cu := parser.Parse([]byte(src))
		_, err := p.Enter("A.java", cu)
		require.NoError(t, err)
		a, _ := p.TypeElement("p.A")
		requireViolation(t, func() { _, _ = a.Superclass() })
	})

	t.Run("enter after finish", func(t *testing.T) {
		p := platformPass(t, src)
		requireViolation(t, func() { _, _ = p.Enter("B.java", parser.Parse([]byte("class B {}"))) })
	})

	t.Run("unit entered twice", func(t *testing.T) {
		p := NewPass(classpath.Platform())
		cu := parser.Parse([]byte(src))
		_, err := p.Enter("A.java", cu)
		require.NoError(t, err)
		requireViolation(t, func() { _, _ = p.Enter("A.java", cu) })
	})

	t.Run("finish twice", func(t *testing.T) {
		p := platformPass(t, src)
		requireViolation(t, p.Finish)
	})

	t.Run("enclosed element added after freeze", func(t *testing.T) {
		p := platformPass(t, src)
		a := typeNamed(t, p, "p.A")
		f := member[*VariableElement](t, a, "f")
		requireViolation(t, func() { a.addEnclosed(a, f) })
	})

	t.Run("package read before its last unit", func(t *testing.T) {
		p := NewPass(classpath.Platform())
		_, err := p.Enter("A.java", parser.Parse([]byte(src)))
		require.NoError(t, err)
		a, _ := p.TypeElement("p.A")
		assert.Equal(t, 1, a.Package().EnclosedElements().Len())
		requireViolation(t, func() { _, _ = p.Enter("B.java", parser.Parse([]byte("package p; class B {}"))) })
	})
}

// countingResolver counts how often each reference is resolved for each
// referencing element.
type countingResolver struct {
	Resolver
	mu    sync.Mutex
	calls map[resolveKey]int
}

type resolveKey struct {
	referencing Element
	ref         *parser.Node
}

func (c *countingResolver) ResolveType(ctx context.Context, referencing Element, ref *parser.Node) (Type, error) {
	c.mu.Lock()
	c.calls[resolveKey{referencing, ref}]++
	c.mu.Unlock()
	return c.Resolver.ResolveType(ctx, referencing, ref)
}

func (c *countingResolver) ResolveTypes(ctx context.Context, referencing Element, refs []*parser.Node) ([]Type, error) {
	c.mu.Lock()
	for _, ref := range refs {
		c.calls[resolveKey{referencing, ref}]++
	}
	c.mu.Unlock()
	return c.Resolver.ResolveTypes(ctx, referencing, refs)
}

func TestAccessorsAreIdempotent(t *testing.T) {
	counter := &countingResolver{calls: make(map[resolveKey]int)}
	wrap := func(r Resolver) Resolver {
		counter.Resolver = r
		return counter
	}
	p := newPass(t, classpath.Platform(), []Option{WithResolver(wrap)}, `
package p;
class Node<T> extends Base implements Comparable<Node<T>> {
    T value;
    Node<T> next(Missing m) throws IllegalStateException { return null; }
    <U extends Number> U convert(T t) { return null; }
}
class Base {}
`)
	node := typeNamed(t, p, "p.Node")
	next := member[*ExecutableElement](t, node, "next")

	first, err := next.ReturnType()
	require.NoError(t, err)
	for range 3 {
		again, err := next.ReturnType()
		require.NoError(t, err)
		assert.Same(t, first, again)
	}
	_, err = next.Parameters().At(0).Type()
	require.Error(t, err)

	p.Complete()
	p.Complete()
	_, _ = next.Parameters().At(0).Type()

	require.NotEmpty(t, counter.calls)
	for key, n := range counter.calls {
		assert.Equal(t, 1, n, "%s resolved %s %d times", Describe(key.referencing), key.ref.Text(), n)
	}
	assert.Len(t, p.Diagnostics(), 1)
}

func TestConcurrentFirstAccess(t *testing.T) {
	p := platformPass(t, `
package p;
class A<T> {
    java.lang.Comparable<A<T>> compare(T left, String right) throws IllegalArgumentException { return null; }
}
`)
	m := member[*ExecutableElement](t, typeNamed(t, p, "p.A"), "compare")

	const readers = 16
	results := make([]Type, readers)
	var wg sync.WaitGroup
	for i := range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rt, err := m.ReturnType()
			assert.NoError(t, err)
			results[i] = rt
			_, _ = m.ThrownTypes()
			_, _ = m.Parameters().At(1).Type()
		}()
	}
	wg.Wait()
	for _, rt := range results[1:] {
		assert.Same(t, results[0], rt)
	}
	assert.Equal(t, "java.lang.Comparable<p.A<T>>", results[0].String())
}

func TestCompleteFile(t *testing.T) {
	p := platformPass(t,
		"package a; class A { Missing one; }",
		"package b; class B { Gone two; }")

	p.CompleteFile("Unit1.java")
	diags := p.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "Gone", diags[0].Reference)
	assert.Equal(t, "Unit1.java", diags[0].ReferencePosition.File)

	p.CompleteFile("Unit1.java")
	assert.Len(t, p.Diagnostics(), 1)

	p.Complete()
	assert.Len(t, p.Diagnostics(), 2)
}
