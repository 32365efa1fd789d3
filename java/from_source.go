package java

import (
	"strings"

	"github.com/alampiss/buck/java/parser"
)

// PackageFromCompilationUnit returns the declared package, or "" for the
// unnamed package.
func PackageFromCompilationUnit(cu *parser.Node) string {
	pkgDecl := cu.FirstChildOfKind(parser.KindPackageDecl)
	return QualifiedNameToString(pkgDecl.FirstChildOfKind(parser.KindQualifiedName))
}

func QualifiedNameToString(qn *parser.Node) string {
	var parts []string
	for _, child := range qn.ChildrenOfKind(parser.KindIdentifier) {
		if lit := child.TokenLiteral(); lit != "" {
			parts = append(parts, lit)
		}
	}
	return strings.Join(parts, ".")
}

// Import is one import declaration. Name never includes the trailing
// ".*" of an on-demand import; for a static import it names the member.
type Import struct {
	Name     string
	Static   bool
	OnDemand bool
	Node     *parser.Node
}

// SimpleName is the name a single-type or single-static import makes
// visible.
func (imp Import) SimpleName() string {
	if i := strings.LastIndexByte(imp.Name, '.'); i >= 0 {
		return imp.Name[i+1:]
	}
	return imp.Name
}

// Container is the package or type an on-demand import draws from, or
// the type a static import draws its member from.
func (imp Import) Container() string {
	if imp.OnDemand {
		return imp.Name
	}
	if i := strings.LastIndexByte(imp.Name, '.'); i >= 0 {
		return imp.Name[:i]
	}
	return ""
}

func ImportsFromCompilationUnit(cu *parser.Node) []Import {
	var imports []Import
	for _, decl := range cu.ChildrenOfKind(parser.KindImportDecl) {
		imp := Import{Node: decl}
		for _, c := range decl.Children {
			switch c.Kind {
			case parser.KindIdentifier:
				switch c.TokenLiteral() {
				case "static":
					imp.Static = true
				case "*":
					imp.OnDemand = true
				}
			case parser.KindQualifiedName:
				imp.Name = QualifiedNameToString(c)
			}
		}
		if imp.Name != "" {
			imports = append(imports, imp)
		}
	}
	return imports
}

// TypeDeclarations returns the top-level type declarations of cu in
// source order.
func TypeDeclarations(cu *parser.Node) []*parser.Node {
	var decls []*parser.Node
	for _, c := range cu.Children {
		if c.Kind.IsTypeDecl() {
			decls = append(decls, c)
		}
	}
	return decls
}
