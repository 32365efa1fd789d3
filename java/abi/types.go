package abi

import (
	"strings"
)

type TypeKind int

const (
	TypeKindPrimitive TypeKind = iota + 1
	TypeKindVoid
	TypeKindNone
	TypeKindDeclared
	TypeKindArray
	TypeKindTypeVariable
	TypeKindWildcard
)

var typeKindNames = map[TypeKind]string{
	TypeKindPrimitive:    "primitive",
	TypeKindVoid:         "void",
	TypeKindNone:         "none",
	TypeKindDeclared:     "declared",
	TypeKindArray:        "array",
	TypeKindTypeVariable: "type variable",
	TypeKindWildcard:     "wildcard",
}

func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Type is a resolved type. String renders it with canonical names, the way
// it would be written in a stub.
type Type interface {
	Kind() TypeKind
	String() string
}

type PrimitiveType struct {
	Name string
}

func (t *PrimitiveType) Kind() TypeKind { return TypeKindPrimitive }
func (t *PrimitiveType) String() string { return t.Name }

// NoType stands where there is no type: void returns, the superclass of an
// interface, the return type of a constructor.
type NoType struct {
	kind TypeKind
}

var (
	Void     Type = &NoType{kind: TypeKindVoid}
	NoneType Type = &NoType{kind: TypeKindNone}
)

func (t *NoType) Kind() TypeKind { return t.kind }

func (t *NoType) String() string {
	if t.kind == TypeKindVoid {
		return "void"
	}
	return "none"
}

// DeclaredType is a class or interface type. Outer is set when the
// reference spelled out its enclosing type, as in Outer<String>.Inner.
type DeclaredType struct {
	Symbol TypeSymbol
	Args   []Type
	Outer  *DeclaredType
}

func (t *DeclaredType) Kind() TypeKind { return TypeKindDeclared }

func (t *DeclaredType) String() string {
	var sb strings.Builder
	if t.Outer != nil && len(t.Outer.Args) > 0 {
		sb.WriteString(t.Outer.String())
		sb.WriteByte('.')
		sb.WriteString(t.Symbol.SimpleName())
	} else {
		sb.WriteString(t.Symbol.QualifiedName())
	}
	writeArgs(&sb, t.Args)
	return sb.String()
}

func writeArgs(sb *strings.Builder, args []Type) {
	if len(args) == 0 {
		return
	}
	sb.WriteByte('<')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte('>')
}

type ArrayType struct {
	Component Type
}

func (t *ArrayType) Kind() TypeKind { return TypeKindArray }
func (t *ArrayType) String() string { return t.Component.String() + "[]" }

func arrayOf(t Type, dims int) Type {
	for range dims {
		t = &ArrayType{Component: t}
	}
	return t
}

type TypeVariable struct {
	Element *TypeParameterElement
}

func (t *TypeVariable) Kind() TypeKind { return TypeKindTypeVariable }
func (t *TypeVariable) String() string { return t.Element.SimpleName() }

// WildcardType is a type argument such as ? extends Number. At most one
// bound is set.
type WildcardType struct {
	Extends Type
	Super   Type
}

func (t *WildcardType) Kind() TypeKind { return TypeKindWildcard }

func (t *WildcardType) String() string {
	switch {
	case t.Extends != nil:
		return "? extends " + t.Extends.String()
	case t.Super != nil:
		return "? super " + t.Super.String()
	}
	return "?"
}
