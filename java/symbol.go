package java

import (
	"fmt"
	"strings"

	"github.com/alampiss/buck/java/parser"
)

type SymbolKind string

const (
	SymbolPackage         SymbolKind = "package"
	SymbolClass           SymbolKind = "class"
	SymbolInterface       SymbolKind = "interface"
	SymbolEnum            SymbolKind = "enum"
	SymbolRecord          SymbolKind = "record"
	SymbolAnnotation      SymbolKind = "annotation"
	SymbolMethod          SymbolKind = "method"
	SymbolConstructor     SymbolKind = "constructor"
	SymbolField           SymbolKind = "field"
	SymbolEnumConstant    SymbolKind = "enum constant"
	SymbolParameter       SymbolKind = "parameter"
	SymbolRecordComponent SymbolKind = "record component"
	SymbolTypeParameter   SymbolKind = "type parameter"
)

// IsType reports whether k declares a class, interface, enum, record or
// annotation type.
func (k SymbolKind) IsType() bool {
	switch k {
	case SymbolClass, SymbolInterface, SymbolEnum, SymbolRecord, SymbolAnnotation:
		return true
	}
	return false
}

func (k SymbolKind) IsExecutable() bool {
	return k == SymbolMethod || k == SymbolConstructor
}

func (k SymbolKind) IsVariable() bool {
	switch k {
	case SymbolField, SymbolEnumConstant, SymbolParameter, SymbolRecordComponent:
		return true
	}
	return false
}

type Modifiers uint16

const (
	ModPublic Modifiers = 1 << iota
	ModProtected
	ModPrivate
	ModAbstract
	ModStatic
	ModFinal
	ModSealed
	ModNonSealed
	ModStrictfp
	ModNative
	ModSynchronized
	ModTransient
	ModVolatile
	ModDefault
)

// Source order as javac prints modifiers.
var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{ModPublic, "public"},
	{ModProtected, "protected"},
	{ModPrivate, "private"},
	{ModAbstract, "abstract"},
	{ModDefault, "default"},
	{ModStatic, "static"},
	{ModSealed, "sealed"},
	{ModNonSealed, "non-sealed"},
	{ModFinal, "final"},
	{ModTransient, "transient"},
	{ModVolatile, "volatile"},
	{ModSynchronized, "synchronized"},
	{ModNative, "native"},
	{ModStrictfp, "strictfp"},
}

func (m Modifiers) Has(mod Modifiers) bool { return m&mod == mod }

// Names lists the set modifiers in canonical order.
func (m Modifiers) Names() []string {
	var names []string
	for _, mn := range modifierNames {
		if m.Has(mn.mod) {
			names = append(names, mn.name)
		}
	}
	return names
}

func (m Modifiers) String() string {
	return strings.Join(m.Names(), " ")
}

func (m Modifiers) Visibility() Visibility {
	switch {
	case m.Has(ModPublic):
		return VisibilityPublic
	case m.Has(ModProtected):
		return VisibilityProtected
	case m.Has(ModPrivate):
		return VisibilityPrivate
	}
	return VisibilityPackage
}

func modifierByName(name string) (Modifiers, bool) {
	for _, mn := range modifierNames {
		if mn.name == name {
			return mn.mod, true
		}
	}
	return 0, false
}

// Symbol is what entering a declaration knows about it before any type is
// resolved: its name, kind and effective modifiers. Implicit modifiers
// (interface members are public, record and enum types are final, and so
// on) are already applied.
type Symbol struct {
	Name      string
	Kind      SymbolKind
	Modifiers Modifiers
	IsVarargs bool
	IsDefault bool
}

func (s Symbol) String() string {
	return string(s.Kind) + " " + s.Name
}

func PackageSymbol(name string) Symbol {
	return Symbol{Name: name, Kind: SymbolPackage}
}

var declarationKinds = map[parser.NodeKind]SymbolKind{
	parser.KindClassDecl:       SymbolClass,
	parser.KindInterfaceDecl:   SymbolInterface,
	parser.KindEnumDecl:        SymbolEnum,
	parser.KindRecordDecl:      SymbolRecord,
	parser.KindAnnotationDecl:  SymbolAnnotation,
	parser.KindMethodDecl:      SymbolMethod,
	parser.KindConstructorDecl: SymbolConstructor,
	parser.KindEnumConstant:    SymbolEnumConstant,
	parser.KindTypeParameter:   SymbolTypeParameter,
}

// EnterDeclaration builds the symbol for a declaration node. Field
// declarations are entered per VariableDeclarator, and parameters of a
// record header become record components. enclosing is the symbol of the
// declaration node's parent declaration, or nil at top level.
func EnterDeclaration(node *parser.Node, enclosing *Symbol) (Symbol, error) {
	if node == nil {
		return Symbol{}, fmt.Errorf("enter: nil node")
	}

	var sym Symbol
	mods := node.FirstChildOfKind(parser.KindModifiers)
	switch node.Kind {
	case parser.KindVariableDeclarator:
		sym.Kind = SymbolField
		sym.Name = node.Name()
		// Modifiers live on the FieldDecl; callers pass the declarator.
		mods = nil
	case parser.KindParameter:
		sym.Kind = SymbolParameter
		if enclosing != nil && enclosing.Kind == SymbolRecord {
			sym.Kind = SymbolRecordComponent
		}
		sym.Name = node.Name()
		sym.IsVarargs = node.FirstChildOfKind(parser.KindEllipsis) != nil
	default:
		kind, ok := declarationKinds[node.Kind]
		if !ok {
			return Symbol{}, fmt.Errorf("enter: %s is not a declaration", node.Kind)
		}
		sym.Kind = kind
		sym.Name = node.Name()
	}
	if sym.Name == "" {
		return Symbol{}, fmt.Errorf("enter: %s at %s has no name", node.Kind, node.Span.Start)
	}

	sym.Modifiers = modifiersFromNode(mods)
	if sym.Kind == SymbolMethod {
		sym.IsDefault = sym.Modifiers.Has(ModDefault)
		if params := node.FirstChildOfKind(parser.KindParameters); params != nil {
			if ps := params.ChildrenOfKind(parser.KindParameter); len(ps) > 0 {
				sym.IsVarargs = ps[len(ps)-1].FirstChildOfKind(parser.KindEllipsis) != nil
			}
		}
	}
	if sym.Kind == SymbolConstructor {
		if params := node.FirstChildOfKind(parser.KindParameters); params != nil {
			if ps := params.ChildrenOfKind(parser.KindParameter); len(ps) > 0 {
				sym.IsVarargs = ps[len(ps)-1].FirstChildOfKind(parser.KindEllipsis) != nil
			}
		}
	}
	applyImplicitModifiers(&sym, node, enclosing)
	return sym, nil
}

// EnterField builds the symbol of one declarator of a field declaration.
func EnterField(decl, declarator *parser.Node, enclosing *Symbol) (Symbol, error) {
	sym, err := EnterDeclaration(declarator, enclosing)
	if err != nil {
		return sym, err
	}
	sym.Modifiers = modifiersFromNode(decl.FirstChildOfKind(parser.KindModifiers))
	applyImplicitModifiers(&sym, decl, enclosing)
	return sym, nil
}

func modifiersFromNode(mods *parser.Node) Modifiers {
	var m Modifiers
	for _, child := range mods.ChildrenOfKind(parser.KindIdentifier) {
		if mod, ok := modifierByName(child.TokenLiteral()); ok {
			m |= mod
		}
	}
	return m
}

func applyImplicitModifiers(sym *Symbol, node *parser.Node, enclosing *Symbol) {
	inInterface := enclosing != nil && (enclosing.Kind == SymbolInterface || enclosing.Kind == SymbolAnnotation)
	nested := enclosing != nil && enclosing.Kind.IsType()

	switch {
	case sym.Kind.IsType():
		if inInterface {
			sym.Modifiers |= ModStatic
			if !sym.Modifiers.Has(ModPrivate) {
				sym.Modifiers |= ModPublic
			}
		}
		switch sym.Kind {
		case SymbolInterface, SymbolAnnotation:
			sym.Modifiers |= ModAbstract
			if nested {
				sym.Modifiers |= ModStatic
			}
		case SymbolRecord:
			sym.Modifiers |= ModFinal
			if nested {
				sym.Modifiers |= ModStatic
			}
		case SymbolEnum:
			if nested {
				sym.Modifiers |= ModStatic
			}
			if !enumHasConstantBodies(node) {
				sym.Modifiers |= ModFinal
			}
		}
	case sym.Kind == SymbolEnumConstant:
		sym.Modifiers |= ModPublic | ModStatic | ModFinal
	case sym.Kind == SymbolRecordComponent:
		sym.Modifiers |= ModPrivate | ModFinal
	case sym.Kind == SymbolField && inInterface:
		sym.Modifiers |= ModPublic | ModStatic | ModFinal
	case sym.Kind == SymbolMethod && inInterface:
		if !sym.Modifiers.Has(ModPrivate) {
			sym.Modifiers |= ModPublic
		}
		if !sym.Modifiers.Has(ModDefault) && !sym.Modifiers.Has(ModStatic) && !sym.Modifiers.Has(ModPrivate) {
			sym.Modifiers |= ModAbstract
		}
	case sym.Kind == SymbolConstructor && enclosing != nil && enclosing.Kind == SymbolEnum:
		sym.Modifiers |= ModPrivate
	}
}

func enumHasConstantBodies(node *parser.Node) bool {
	if node.Kind != parser.KindEnumDecl {
		return false
	}
	for _, c := range node.FirstChildOfKind(parser.KindBody).ChildrenOfKind(parser.KindEnumConstant) {
		if c.FirstChildOfKind(parser.KindBody) != nil {
			return true
		}
	}
	return false
}
