package abi

import "github.com/alampiss/buck/java"

// PackageElement is a package seen by the pass. There is one per package
// name; its enclosed elements are the top-level types of every entered
// unit that declares it.
type PackageElement struct {
	treeElement
}

func (p *PackageElement) QualifiedName() string { return p.sym.Name }

func (p *PackageElement) IsUnnamed() bool { return p.sym.Name == "" }

func (p *Pass) packageElement(name string) *PackageElement {
	if pkg, ok := p.packages[name]; ok {
		return pkg
	}
	pkg := &PackageElement{}
	pkg.sym = java.PackageSymbol(name)
	pkg.pass = p
	p.packages[name] = pkg
	p.pkgOrder = append(p.pkgOrder, pkg)
	return pkg
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
