package abi

import (
	"context"
	"slices"

	"github.com/alampiss/buck/java/parser"
)

type TypeParameterElement struct {
	treeElement
}

// GenericElement is the type or executable declaring the parameter.
func (t *TypeParameterElement) GenericElement() Element { return t.enclosing }

func (t *TypeParameterElement) AsType() *TypeVariable {
	return &TypeVariable{Element: t}
}

// Bounds are the declared bounds in order; an unbounded parameter has
// none.
func (t *TypeParameterElement) Bounds() ([]Type, error) {
	types, err := t.bounds(context.Background())
	return slices.Clone(types), err
}

func (t *TypeParameterElement) bounds(ctx context.Context) ([]Type, error) {
	return lazy(ctx, t, slotBounds, func(ctx context.Context) ([]Type, error) {
		refs := typeChildren(t.node.FirstChildOfKind(parser.KindExtendsClause))
		if len(refs) == 0 {
			return nil, nil
		}
		return t.pass.resolver.ResolveTypes(ctx, t, refs)
	})
}
