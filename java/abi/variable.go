package abi

import (
	"context"

	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/abi/memo"
	"github.com/alampiss/buck/java/parser"
)

// VariableElement is a field, enum constant, parameter or record
// component.
type VariableElement struct {
	treeElement
	typeNode *parser.Node
	dims     int
	varargs  bool
	literal  *parser.Node
	slot     memo.Slot

	executable *ExecutableElement
	index      int
	enumOf     *TypeElement
}

// EnclosingExecutable is set for parameters only.
func (v *VariableElement) EnclosingExecutable() *ExecutableElement { return v.executable }

// Index is the parameter's position, or -1 for other variables.
func (v *VariableElement) Index() int { return v.index }

// Type includes C-style dimensions written after the name, and for a
// variable-arity parameter the implicit array.
func (v *VariableElement) Type() (Type, error) {
	return v.resolvedType(context.Background())
}

func (v *VariableElement) resolvedType(ctx context.Context) (Type, error) {
	return lazy(ctx, v, v.slot, func(ctx context.Context) (Type, error) {
		if v.enumOf != nil {
			return v.enumOf.AsType(), nil
		}
		t, err := v.pass.resolver.ResolveType(ctx, v, v.typeNode)
		if err != nil {
			return nil, err
		}
		t = arrayOf(t, v.dims)
		if v.varargs {
			t = arrayOf(t, 1)
		}
		return t, nil
	})
}

// ConstantValue returns the value of a final field initialized with a
// single literal of the field's own primitive or String type. Anything
// else is not modeled.
func (v *VariableElement) ConstantValue() (any, error) {
	if v.Kind() != java.SymbolField || v.literal == nil || !v.Modifiers().Has(java.ModFinal) || v.dims > 0 {
		return nil, notModeled(v, "constant value")
	}
	val, ok := literalValue(v.typeNode.Text(), v.literal.Token)
	if !ok {
		return nil, notModeled(v, "constant value")
	}
	return val, nil
}
