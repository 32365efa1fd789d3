package abi

import (
	"context"
	"slices"

	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/parser"
)

// ExecutableElement is a method, constructor or annotation type element.
type ExecutableElement struct {
	treeElement
	typeParams builder[*TypeParameterElement]
	params     builder[*VariableElement]
}

func (x *ExecutableElement) IsConstructor() bool { return x.Kind() == java.SymbolConstructor }

func (x *ExecutableElement) IsVarArgs() bool { return x.sym.IsVarargs }

func (x *ExecutableElement) IsDefault() bool { return x.sym.IsDefault }

func (x *ExecutableElement) TypeParameters() List[*TypeParameterElement] {
	return x.typeParams.view()
}

func (x *ExecutableElement) Parameters() List[*VariableElement] {
	return x.params.view()
}

func (x *ExecutableElement) addParameter(v *VariableElement) {
	x.params.add(x, v)
}

// ReturnType is NoneType for constructors.
func (x *ExecutableElement) ReturnType() (Type, error) {
	return x.returnType(context.Background())
}

// ThrownTypes are in declaration order.
func (x *ExecutableElement) ThrownTypes() ([]Type, error) {
	types, err := x.thrownTypes(context.Background())
	return slices.Clone(types), err
}

func (x *ExecutableElement) AsType() (Type, error) {
	return nil, notModeled(x, "executable type")
}

func (x *ExecutableElement) ReceiverType() (Type, error) {
	return nil, notModeled(x, "receiver type")
}

func (x *ExecutableElement) DefaultValue() (any, error) {
	return nil, notModeled(x, "annotation default value")
}

// HasDefaultValue reports whether an annotation element declares a
// default. The value itself is not modeled.
func (x *ExecutableElement) HasDefaultValue() bool {
	return x.node.FirstChildOfKind(parser.KindDefaultValue) != nil
}

func (x *ExecutableElement) returnType(ctx context.Context) (Type, error) {
	return lazy(ctx, x, slotReturnType, func(ctx context.Context) (Type, error) {
		if x.IsConstructor() {
			return NoneType, nil
		}
		t, err := x.pass.resolver.ResolveType(ctx, x, typeChild(x.node))
		if err != nil {
			return nil, err
		}
		return arrayOf(t, x.node.FirstChildOfKind(parser.KindDims).DimCount()), nil
	})
}

func (x *ExecutableElement) thrownTypes(ctx context.Context) ([]Type, error) {
	return lazy(ctx, x, slotThrownTypes, func(ctx context.Context) ([]Type, error) {
		refs := typeChildren(x.node.FirstChildOfKind(parser.KindThrowsList))
		if len(refs) == 0 {
			return nil, nil
		}
		return x.pass.resolver.ResolveTypes(ctx, x, refs)
	})
}
