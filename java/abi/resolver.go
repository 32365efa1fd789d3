package abi

import (
	"context"
	"errors"
	"strings"

	"github.com/alampiss/buck/java/abi/memo"
	"github.com/alampiss/buck/java/parser"
)

// Resolver turns type references into types on behalf of the lazy
// accessors. It reports failures as errors and records nothing itself.
type Resolver interface {
	// ResolveType resolves ref as seen from the declaration referencing.
	ResolveType(ctx context.Context, referencing Element, ref *parser.Node) (Type, error)
	// ResolveTypes resolves refs in order. The first failure is returned
	// and the types resolved before it are discarded.
	ResolveTypes(ctx context.Context, referencing Element, refs []*parser.Node) ([]Type, error)
}

type treeResolver struct {
	pass *Pass
}

func (r *treeResolver) ResolveTypes(ctx context.Context, referencing Element, refs []*parser.Node) ([]Type, error) {
	types := make([]Type, 0, len(refs))
	for _, ref := range refs {
		t, err := r.ResolveType(ctx, referencing, ref)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func (r *treeResolver) ResolveType(ctx context.Context, referencing Element, ref *parser.Node) (Type, error) {
	if ref == nil {
		return nil, &ResolutionError{
			Kind:      FailureUnresolvedSymbol,
			Reference: "<missing type>",
			Position:  referencing.Position(),
		}
	}
	return r.resolve(ctx, newScope(referencing), ref)
}

func (r *treeResolver) resolve(ctx context.Context, s scope, ref *parser.Node) (Type, error) {
	switch ref.Kind {
	case parser.KindArrayType:
		component := typeChild(ref)
		if component == nil {
			return nil, failure(FailureUnresolvedSymbol, ref, "malformed array type")
		}
		t, err := r.resolve(ctx, s, component)
		if err != nil {
			return nil, err
		}
		return &ArrayType{Component: t}, nil
	case parser.KindWildcard:
		w := &WildcardType{}
		if bound := typeChild(ref.FirstChildOfKind(parser.KindExtendsClause)); bound != nil {
			t, err := r.resolve(ctx, s, bound)
			if err != nil {
				return nil, err
			}
			w.Extends = t
		}
		if bound := typeChild(ref.FirstChildOfKind(parser.KindSuperClause)); bound != nil {
			t, err := r.resolve(ctx, s, bound)
			if err != nil {
				return nil, err
			}
			w.Super = t
		}
		return w, nil
	case parser.KindType:
		return r.resolveNamed(ctx, s, ref)
	}
	return nil, failure(FailureUnresolvedSymbol, ref, "not a type")
}

// resolveNamed resolves a primitive, a type variable or a possibly
// qualified class type with type arguments on any segment.
func (r *treeResolver) resolveNamed(ctx context.Context, s scope, ref *parser.Node) (Type, error) {
	segs := ref.ChildrenOfKind(parser.KindIdentifier)
	if len(segs) == 0 {
		return nil, failure(FailureUnresolvedSymbol, ref, "empty type")
	}
	first := segs[0].TokenLiteral()
	if len(segs) == 1 && (first == "void" || parser.IsPrimitive(first)) {
		if segs[0].FirstChildOfKind(parser.KindTypeArguments) != nil {
			return nil, failure(FailureKindMismatch, ref, first+" takes no type arguments")
		}
		if first == "void" {
			return Void, nil
		}
		return &PrimitiveType{Name: first}, nil
	}

	b, err := r.lookupSimple(ctx, s, first)
	if err != nil {
		return nil, r.wrap(err, ref)
	}
	if b.tvar != nil {
		if len(segs) > 1 || segs[0].FirstChildOfKind(parser.KindTypeArguments) != nil {
			return nil, failure(FailureKindMismatch, ref, first+" is a type variable")
		}
		return b.tvar.AsType(), nil
	}

	sym, start := b.sym, 0
	if sym == nil {
		names := make([]string, len(segs))
		for i, seg := range segs {
			names[i] = seg.TokenLiteral()
		}
		for i := 1; i < len(segs) && sym == nil; i++ {
			found, err := r.pass.findTopLevel(strings.Join(names[:i+1], "."))
			if err != nil {
				return nil, r.wrap(err, ref)
			}
			if found != nil {
				sym, start = found, i
			}
		}
		if sym == nil {
			if r.fieldInScope(s, first) {
				return nil, failure(FailureKindMismatch, ref, first+" is a field")
			}
			return nil, failure(FailureUnresolvedSymbol, ref, "")
		}
	}
	if err := r.requireSupertypes(ctx, s, sym); err != nil {
		return nil, r.wrap(err, ref)
	}
	t, err := r.declared(ctx, s, sym, segs[start], nil)
	if err != nil {
		return nil, err
	}

	for _, seg := range segs[start+1:] {
		name := seg.TokenLiteral()
		member, err := r.findMember(ctx, sym, name, nil)
		if err != nil {
			return nil, r.wrap(err, ref)
		}
		if member == nil {
			if sym.hasField(name) {
				return nil, failure(FailureKindMismatch, ref, sym.QualifiedName()+"."+name+" is a field")
			}
			return nil, failure(FailureUnresolvedSymbol, ref, "no member type "+name+" in "+sym.QualifiedName())
		}
		if err := r.requireSupertypes(ctx, s, member); err != nil {
			return nil, r.wrap(err, ref)
		}
		sym = member
		if t, err = r.declared(ctx, s, member, seg, t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (r *treeResolver) declared(ctx context.Context, s scope, sym TypeSymbol, seg *parser.Node, outer *DeclaredType) (*DeclaredType, error) {
	d := &DeclaredType{Symbol: sym, Outer: outer}
	args := seg.FirstChildOfKind(parser.KindTypeArguments)
	if args == nil {
		return d, nil
	}
	as := s.arguments()
	for _, arg := range args.Children {
		if arg.IsError() {
			continue
		}
		t, err := r.resolve(ctx, as, arg)
		if err != nil {
			return nil, err
		}
		d.Args = append(d.Args, t)
	}
	return d, nil
}

// requireSupertypes resolves the supertypes of a source type named in a
// supertype clause before the clause may use it. It fails when that
// re-enters a computation in progress, or when the slot being computed
// turned out to lie on a cycle through sym. A failure sym recorded for
// itself is not ours to report.
func (r *treeResolver) requireSupertypes(ctx context.Context, s scope, sym TypeSymbol) error {
	te, ok := sym.(*TypeElement)
	if !ok || !s.header {
		return nil
	}
	if _, err := te.superclass(ctx); errors.Is(err, memo.ErrCycle) {
		return err
	}
	if _, err := te.interfaces(ctx); errors.Is(err, memo.ErrCycle) {
		return err
	}
	if memo.OnCycle(ctx) {
		return memo.ErrCycle
	}
	return nil
}

// findMember looks for a member type of owner, declared ones first and
// then those inherited from its supertypes.
func (r *treeResolver) findMember(ctx context.Context, owner TypeSymbol, name string, seen map[TypeSymbol]bool) (TypeSymbol, error) {
	if seen[owner] {
		return nil, nil
	}
	if seen == nil {
		seen = make(map[TypeSymbol]bool)
	}
	seen[owner] = true

	if m, err := owner.memberType(ctx, name); m != nil || err != nil {
		return m, err
	}
	supers, err := owner.directSupertypes(ctx)
	if err != nil {
		return nil, err
	}
	for _, super := range supers {
		if m, err := r.findMember(ctx, super, name, seen); m != nil || err != nil {
			return m, err
		}
	}
	return nil, nil
}

// resolveQualified resolves a dotted name with no scope: the longest
// leading package prefix that names a top-level type, then member types.
func (r *treeResolver) resolveQualified(ctx context.Context, name string) (TypeSymbol, error) {
	names := strings.Split(name, ".")
	for i := range names {
		sym, err := r.pass.findTopLevel(strings.Join(names[:i+1], "."))
		if err != nil {
			return nil, err
		}
		if sym == nil {
			continue
		}
		for _, n := range names[i+1:] {
			if sym, err = r.findMember(ctx, sym, n, nil); sym == nil || err != nil {
				return nil, err
			}
		}
		return sym, nil
	}
	return nil, nil
}

func (r *treeResolver) wrap(err error, ref *parser.Node) error {
	var rerr *ResolutionError
	var inconsistent *inconsistentError
	switch {
	case errors.As(err, &rerr):
		return rerr
	case errors.Is(err, memo.ErrCycle):
		return failure(FailureCyclicReference, ref, "")
	case errors.As(err, &inconsistent):
		return failure(FailureKindMismatch, ref, inconsistent.detail)
	}
	return failure(FailureUnresolvedSymbol, ref, err.Error())
}

// findTopLevel finds a top-level type by canonical name, in the sources
// first and then on the classpath.
func (p *Pass) findTopLevel(name string) (TypeSymbol, error) {
	if te, ok := p.byName[name]; ok && !te.IsNested() {
		return te, nil
	}
	d, err := p.dependency(name, name)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return d, nil
}

// implicitType is a supertype the language supplies, such as
// java.lang.Object for a class without an extends clause.
func (p *Pass) implicitType(_ context.Context, name string, te *TypeElement) (*DeclaredType, error) {
	sym, err := p.findTopLevel(name)
	if err == nil && sym != nil {
		return &DeclaredType{Symbol: sym}, nil
	}
	rerr := &ResolutionError{
		Kind:      FailureUnresolvedSymbol,
		Reference: name,
		Position:  te.Position(),
	}
	if err != nil {
		rerr.Kind, rerr.Detail = FailureKindMismatch, err.Error()
	}
	return nil, rerr
}
