package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota

	// Compilation unit level
	KindCompilationUnit
	KindPackageDecl
	KindImportDecl
	KindModuleDecl

	// Type declarations
	KindClassDecl
	KindInterfaceDecl
	KindEnumDecl
	KindRecordDecl
	KindAnnotationDecl
	KindBody

	// Members
	KindEnumConstant
	KindFieldDecl
	KindVariableDeclarator
	KindMethodDecl
	KindConstructorDecl
	KindDefaultValue

	// Types and modifiers
	KindModifiers
	KindAnnotation
	KindTypeParameters
	KindTypeParameter
	KindTypeArguments
	KindType
	KindArrayType
	KindWildcard
	KindDims

	// Clauses
	KindExtendsClause
	KindSuperClause
	KindImplementsClause
	KindPermitsClause
	KindThrowsList

	// Parameters
	KindParameters
	KindParameter
	KindReceiverParameter
	KindEllipsis

	// Leaves
	KindIdentifier
	KindQualifiedName
	KindLiteral
	KindSkipped
)

var nodeKindNames = [...]string{
	KindError:              "Error",
	KindCompilationUnit:    "CompilationUnit",
	KindPackageDecl:        "PackageDecl",
	KindImportDecl:         "ImportDecl",
	KindModuleDecl:         "ModuleDecl",
	KindClassDecl:          "ClassDecl",
	KindInterfaceDecl:      "InterfaceDecl",
	KindEnumDecl:           "EnumDecl",
	KindRecordDecl:         "RecordDecl",
	KindAnnotationDecl:     "AnnotationDecl",
	KindBody:               "Body",
	KindEnumConstant:       "EnumConstant",
	KindFieldDecl:          "FieldDecl",
	KindVariableDeclarator: "VariableDeclarator",
	KindMethodDecl:         "MethodDecl",
	KindConstructorDecl:    "ConstructorDecl",
	KindDefaultValue:       "DefaultValue",
	KindModifiers:          "Modifiers",
	KindAnnotation:         "Annotation",
	KindTypeParameters:     "TypeParameters",
	KindTypeParameter:      "TypeParameter",
	KindTypeArguments:      "TypeArguments",
	KindType:               "Type",
	KindArrayType:          "ArrayType",
	KindWildcard:           "Wildcard",
	KindDims:               "Dims",
	KindExtendsClause:      "ExtendsClause",
	KindSuperClause:        "SuperClause",
	KindImplementsClause:   "ImplementsClause",
	KindPermitsClause:      "PermitsClause",
	KindThrowsList:         "ThrowsList",
	KindParameters:         "Parameters",
	KindParameter:          "Parameter",
	KindReceiverParameter:  "ReceiverParameter",
	KindEllipsis:           "Ellipsis",
	KindIdentifier:         "Identifier",
	KindQualifiedName:      "QualifiedName",
	KindLiteral:            "Literal",
	KindSkipped:            "Skipped",
}

func (k NodeKind) String() string {
	if k >= 0 && int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// IsTypeDecl reports whether k declares a class, interface, enum, record or
// annotation type.
func (k NodeKind) IsTypeDecl() bool {
	switch k {
	case KindClassDecl, KindInterfaceDecl, KindEnumDecl, KindRecordDecl, KindAnnotationDecl:
		return true
	}
	return false
}

type Error struct {
	Message string
	Got     *Token
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	if n == nil {
		return nil
	}
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n != nil && n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Name returns the literal of the first Identifier child, which every
// declaration node carries as its simple name.
func (n *Node) Name() string {
	return n.FirstChildOfKind(KindIdentifier).TokenLiteral()
}

// Errors returns every Error node below n in document order.
func (n *Node) Errors() []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.IsError() {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Text renders a type, qualified name or identifier node the way it is
// spelled in source, without annotations.
func (n *Node) Text() string {
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindIdentifier:
		sb.WriteString(n.TokenLiteral())
		if args := n.FirstChildOfKind(KindTypeArguments); args != nil {
			args.writeText(sb)
		}
	case KindType, KindQualifiedName:
		first := true
		for _, c := range n.Children {
			if c.Kind != KindIdentifier {
				continue
			}
			if !first {
				sb.WriteByte('.')
			}
			first = false
			c.writeText(sb)
		}
	case KindArrayType:
		for _, c := range n.Children {
			c.writeText(sb)
		}
		sb.WriteString("[]")
	case KindTypeArguments:
		sb.WriteByte('<')
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteString(", ")
			}
			c.writeText(sb)
		}
		sb.WriteByte('>')
	case KindWildcard:
		sb.WriteByte('?')
		if b := n.FirstChildOfKind(KindExtendsClause); b != nil {
			sb.WriteString(" extends ")
			b.FirstChildOfKind(KindType).writeText(sb)
			b.FirstChildOfKind(KindArrayType).writeText(sb)
		}
		if b := n.FirstChildOfKind(KindSuperClause); b != nil {
			sb.WriteString(" super ")
			b.FirstChildOfKind(KindType).writeText(sb)
			b.FirstChildOfKind(KindArrayType).writeText(sb)
		}
	default:
		sb.WriteString(n.TokenLiteral())
	}
}

func (n *Node) String() string {
	var sb strings.Builder
	n.dump(&sb, 0, false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.dump(&sb, 0, true)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, indent int, positions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if positions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteByte('\n')
	for _, child := range n.Children {
		child.dump(sb, indent+1, positions)
	}
}
