package abi

import (
	"context"
)

// scope is where a reference is resolved from. When the reference sits in
// a type's header (its supertype clauses or type parameter bounds), self
// is that type: its member types are not in scope, and header marks that
// named types must have their own supertypes resolved first. Type
// arguments keep self but drop header.
type scope struct {
	from   Element
	unit   *unit
	self   *TypeElement
	header bool
}

func newScope(referencing Element) scope {
	s := scope{from: referencing, unit: referencing.base().unit}
	switch e := referencing.(type) {
	case *TypeElement:
		s.self, s.header = e, true
	case *TypeParameterElement:
		if te, ok := e.enclosing.(*TypeElement); ok {
			s.self, s.header = te, true
		}
	}
	return s
}

func (s scope) arguments() scope {
	s.header = false
	return s
}

// binding is what a simple type name denotes: a type variable or a type.
type binding struct {
	tvar *TypeParameterElement
	sym  TypeSymbol
}

// lookupSimple searches, first match wins: type parameters and member
// types of the enclosing declarations from the innermost outward, the
// unit's top-level types, single-type imports, on-demand imports, the
// implicit java.lang import and finally the unit's own package. Putting
// the package after on-demand imports departs from the language rules.
func (r *treeResolver) lookupSimple(ctx context.Context, s scope, name string) (binding, error) {
	for e := s.from; e != nil; e = e.EnclosingElement() {
		for _, tp := range typeParametersOf(e) {
			if tp.SimpleName() == name {
				return binding{tvar: tp}, nil
			}
		}
		te, ok := e.(*TypeElement)
		if !ok || te == s.self {
			continue
		}
		m, err := r.findMember(ctx, te, name, nil)
		if err != nil || m != nil {
			return binding{sym: m}, err
		}
	}

	if te, ok := s.unit.types[name]; ok {
		return binding{sym: te}, nil
	}
	sym, err := r.lookupImported(ctx, s.unit, name)
	if err != nil || sym != nil {
		return binding{sym: sym}, err
	}
	sym, err = r.pass.findTopLevel(qualify(s.unit.pkg.QualifiedName(), name))
	return binding{sym: sym}, err
}

func typeParametersOf(e Element) []*TypeParameterElement {
	switch e := e.(type) {
	case *TypeElement:
		return e.typeParams.items
	case *ExecutableElement:
		return e.typeParams.items
	}
	return nil
}

// fieldInScope reports whether name is a field of an enclosing type, which
// makes an unresolvable type name a kind mismatch rather than unknown.
func (r *treeResolver) fieldInScope(s scope, name string) bool {
	for e := s.from; e != nil; e = e.EnclosingElement() {
		if te, ok := e.(*TypeElement); ok && te.hasField(name) {
			return true
		}
	}
	return false
}
