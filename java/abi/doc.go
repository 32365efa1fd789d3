// Package abi derives the externally visible shape of Java declarations
// straight from their syntax trees.
//
// A Pass is driven in two phases. During the walk, Enter is called once
// per compilation unit; it creates one element per declaration node and
// links each element to its enclosing element. Finish closes the walk.
// After that, the lazily resolved accessors (return types, parameter
// types, thrown types, supertypes, bounds) may be read from any goroutine.
// Each accessor resolves its type references on first use and caches the
// result, success or failure, for the rest of the pass.
//
// Resolution failures never abort a pass. They are returned to the caller
// of the accessor and recorded once as a Diagnostic, so a single bad
// declaration does not hide the ABI of its neighbours.
//
// Simple type names are looked up in on-demand imports and the implicit
// java.lang import before the compilation unit's own package. A type
// p.Number declared in another unit of package p is therefore shadowed by
// java.lang.Number wherever that name reaches the import step, and the
// reference silently resolves to the imported type instead of failing.
// Types declared in the same unit, or named with a single-type import or
// a qualified name, are not affected.
package abi
