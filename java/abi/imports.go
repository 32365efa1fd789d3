package abi

import (
	"context"
)

// lookupImported resolves name through the imports of u: single-type and
// single static member imports, then type-import-on-demand, then static
// on-demand, then java.lang. Imports that do not resolve are passed over.
func (r *treeResolver) lookupImported(ctx context.Context, u *unit, name string) (TypeSymbol, error) {
	for _, imp := range u.imports {
		if imp.OnDemand || imp.SimpleName() != name {
			continue
		}
		var sym TypeSymbol
		var err error
		if imp.Static {
			sym, err = r.memberOf(ctx, imp.Container(), name)
		} else {
			sym, err = r.resolveQualified(ctx, imp.Name)
		}
		if err != nil || sym != nil {
			return sym, err
		}
	}

	for _, imp := range u.imports {
		if !imp.OnDemand || imp.Static {
			continue
		}
		sym, err := r.pass.findTopLevel(imp.Name + "." + name)
		if err != nil || sym != nil {
			return sym, err
		}
		if sym, err = r.memberOf(ctx, imp.Name, name); err != nil || sym != nil {
			return sym, err
		}
	}

	for _, imp := range u.imports {
		if !imp.OnDemand || !imp.Static {
			continue
		}
		if sym, err := r.memberOf(ctx, imp.Name, name); err != nil || sym != nil {
			return sym, err
		}
	}

	return r.pass.findTopLevel("java.lang." + name)
}

// memberOf finds member type name of the type called container.
func (r *treeResolver) memberOf(ctx context.Context, container, name string) (TypeSymbol, error) {
	owner, err := r.resolveQualified(ctx, container)
	if err != nil || owner == nil {
		return nil, err
	}
	return r.findMember(ctx, owner, name, nil)
}
