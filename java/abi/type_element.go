package abi

import (
	"context"
	"errors"
	"slices"

	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/abi/memo"
	"github.com/alampiss/buck/java/parser"
)

// TypeElement is a class, interface, enum, record or annotation type
// declared in the sources of the pass.
type TypeElement struct {
	treeElement
	qualified   string
	binary      string
	typeParams  builder[*TypeParameterElement]
	components  []*VariableElement
	memberTypes map[string]*TypeElement
}

// QualifiedName is the canonical name, p.Outer.Inner.
func (t *TypeElement) QualifiedName() string { return t.qualified }

// BinaryName is the class-file name, p.Outer$Inner.
func (t *TypeElement) BinaryName() string { return t.binary }

func (t *TypeElement) Package() *PackageElement { return t.unit.pkg }

// File is the path of the compilation unit declaring t.
func (t *TypeElement) File() string { return t.unit.file }

func (t *TypeElement) IsNested() bool {
	_, ok := t.enclosing.(*TypeElement)
	return ok
}

func (t *TypeElement) TypeParameters() List[*TypeParameterElement] {
	return t.typeParams.view()
}

// RecordComponents is empty unless t is a record.
func (t *TypeElement) RecordComponents() List[*VariableElement] {
	return List[*VariableElement]{items: t.components}
}

// AsType is the generic type t declares, its type parameters as
// arguments.
func (t *TypeElement) AsType() *DeclaredType {
	d := &DeclaredType{Symbol: t}
	for _, tp := range t.typeParams.items {
		d.Args = append(d.Args, tp.AsType())
	}
	return d
}

// Superclass is NoneType for interfaces and java.lang.Object itself.
func (t *TypeElement) Superclass() (Type, error) {
	return t.superclass(context.Background())
}

func (t *TypeElement) Interfaces() ([]Type, error) {
	types, err := t.interfaces(context.Background())
	return slices.Clone(types), err
}

// Permits lists the permitted subclasses named in a permits clause.
func (t *TypeElement) Permits() ([]Type, error) {
	types, err := t.permits(context.Background())
	return slices.Clone(types), err
}

func (t *TypeElement) superclass(ctx context.Context) (Type, error) {
	return lazy(ctx, t, slotSuperclass, func(ctx context.Context) (Type, error) {
		switch t.Kind() {
		case java.SymbolInterface, java.SymbolAnnotation:
			return NoneType, nil
		case java.SymbolEnum:
			enum, err := t.pass.implicitType(ctx, "java.lang.Enum", t)
			if err != nil {
				return nil, err
			}
			enum.Args = []Type{t.AsType()}
			return enum, nil
		case java.SymbolRecord:
			return t.pass.implicitType(ctx, "java.lang.Record", t)
		}
		if ref := typeChild(t.node.FirstChildOfKind(parser.KindExtendsClause)); ref != nil {
			return t.pass.resolver.ResolveType(ctx, t, ref)
		}
		if t.qualified == "java.lang.Object" {
			return NoneType, nil
		}
		return t.pass.implicitType(ctx, "java.lang.Object", t)
	})
}

func (t *TypeElement) interfaces(ctx context.Context) ([]Type, error) {
	return lazy(ctx, t, slotInterfaces, func(ctx context.Context) ([]Type, error) {
		clause := parser.KindImplementsClause
		switch t.Kind() {
		case java.SymbolAnnotation:
			annotation, err := t.pass.implicitType(ctx, "java.lang.annotation.Annotation", t)
			if err != nil {
				return nil, err
			}
			return []Type{annotation}, nil
		case java.SymbolInterface:
			clause = parser.KindExtendsClause
		}
		refs := typeChildren(t.node.FirstChildOfKind(clause))
		if len(refs) == 0 {
			return nil, nil
		}
		return t.pass.resolver.ResolveTypes(ctx, t, refs)
	})
}

func (t *TypeElement) permits(ctx context.Context) ([]Type, error) {
	return lazy(ctx, t, slotPermits, func(ctx context.Context) ([]Type, error) {
		refs := typeChildren(t.node.FirstChildOfKind(parser.KindPermitsClause))
		if len(refs) == 0 {
			return nil, nil
		}
		return t.pass.resolver.ResolveTypes(ctx, t, refs)
	})
}

func (t *TypeElement) memberType(_ context.Context, name string) (TypeSymbol, error) {
	if m, ok := t.memberTypes[name]; ok {
		return m, nil
	}
	return nil, nil
}

// directSupertypes returns what resolved of t's supertypes. Only a cycle
// through the caller is reported; failures already recorded elsewhere are
// skipped.
func (t *TypeElement) directSupertypes(ctx context.Context) ([]TypeSymbol, error) {
	var out []TypeSymbol
	super, err := t.superclass(ctx)
	if errors.Is(err, memo.ErrCycle) {
		return nil, err
	}
	if d, ok := super.(*DeclaredType); ok && err == nil {
		out = append(out, d.Symbol)
	}
	ifaces, err := t.interfaces(ctx)
	if errors.Is(err, memo.ErrCycle) {
		return nil, err
	}
	if memo.OnCycle(ctx) {
		return nil, memo.ErrCycle
	}
	for _, i := range ifaces {
		if d, ok := i.(*DeclaredType); ok {
			out = append(out, d.Symbol)
		}
	}
	return out, nil
}

func (t *TypeElement) hasField(name string) bool {
	for _, e := range t.enclosed.items {
		if v, ok := e.(*VariableElement); ok && v.SimpleName() == name {
			return true
		}
	}
	return false
}

// typeChild returns the first type reference directly below n.
func typeChild(n *parser.Node) *parser.Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == parser.KindType || c.Kind == parser.KindArrayType {
			return c
		}
	}
	return nil
}

func typeChildren(n *parser.Node) []*parser.Node {
	if n == nil {
		return nil
	}
	var refs []*parser.Node
	for _, c := range n.Children {
		if c.Kind == parser.KindType || c.Kind == parser.KindArrayType {
			refs = append(refs, c)
		}
	}
	return refs
}
