package abi

import (
	"context"
	"strings"

	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/parser"
)

// Element is a declaration of the program being compiled. The accessors
// here never resolve anything; each variant adds its own lazily resolved
// accessors.
type Element interface {
	SimpleName() string
	Kind() java.SymbolKind
	Modifiers() java.Modifiers
	EnclosingElement() Element
	EnclosedElements() List[Element]
	Node() *parser.Node
	Position() parser.Position

	base() *treeElement
}

// treeElement holds what every variant shares: the entered symbol, the
// declaration node and the enclosing chain.
type treeElement struct {
	sym       java.Symbol
	node      *parser.Node
	enclosing Element
	enclosed  builder[Element]
	pass      *Pass
	unit      *unit
}

func (e *treeElement) SimpleName() string { return e.sym.Name }
func (e *treeElement) Kind() java.SymbolKind { return e.sym.Kind }
func (e *treeElement) Modifiers() java.Modifiers { return e.sym.Modifiers }
func (e *treeElement) EnclosingElement() Element { return e.enclosing }
func (e *treeElement) EnclosedElements() List[Element] { return e.enclosed.view() }
func (e *treeElement) Node() *parser.Node { return e.node }
func (e *treeElement) base() *treeElement { return e }

// Position is where the declaration's name appears.
func (e *treeElement) Position() parser.Position {
	if e.node == nil {
		return parser.Position{}
	}
	if id := e.node.FirstChildOfKind(parser.KindIdentifier); id != nil {
		return id.Span.Start
	}
	return e.node.Span.Start
}

func (e *treeElement) addEnclosed(self, child Element) {
	e.enclosed.add(self, child)
}

// TypeSymbol is the class or interface a DeclaredType refers to. It is
// either a *TypeElement from the sources of the pass or a *DependencyType
// read from the classpath.
type TypeSymbol interface {
	SimpleName() string
	Kind() java.SymbolKind
	// QualifiedName is the canonical name, java.util.Map.Entry.
	QualifiedName() string
	// BinaryName is the name the class file goes by, java.util.Map$Entry.
	BinaryName() string

	memberType(ctx context.Context, name string) (TypeSymbol, error)
	directSupertypes(ctx context.Context) ([]TypeSymbol, error)
	hasField(name string) bool
}

// Describe names an element for diagnostics and error messages.
func Describe(e Element) string {
	switch e := e.(type) {
	case nil:
		return "<nil>"
	case *PackageElement:
		if e.SimpleName() == "" {
			return "<unnamed package>"
		}
		return e.SimpleName()
	case *TypeElement:
		return e.QualifiedName()
	case *ExecutableElement:
		var params []string
		for _, p := range e.params.items {
			params = append(params, p.typeNode.Text())
		}
		return Describe(e.enclosing) + "." + e.SimpleName() + "(" + strings.Join(params, ", ") + ")"
	}
	return Describe(e.EnclosingElement()) + "." + e.SimpleName()
}
