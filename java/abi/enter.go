package abi

import (
	"fmt"

	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/parser"
)

// Enter walks one compilation unit, creating an element for each
// declaration it contains. Parents are entered before their children and
// siblings in declaration order. Declarations without a name, left
// behind by syntax errors, are skipped.
func (p *Pass) Enter(file string, cu *parser.Node) ([]*TypeElement, error) {
	if p.finished {
		violate("%s entered after the pass finished", file)
	}
	if cu == nil || cu.Kind != parser.KindCompilationUnit {
		return nil, fmt.Errorf("enter %s: not a compilation unit", file)
	}
	for _, u := range p.units {
		if u.cu == cu {
			violate("compilation unit %s entered twice", file)
		}
	}

	u := &unit{
		file:    file,
		cu:      cu,
		pkg:     p.packageElement(java.PackageFromCompilationUnit(cu)),
		imports: java.ImportsFromCompilationUnit(cu),
		types:   make(map[string]*TypeElement),
	}
	p.units = append(p.units, u)

	var types []*TypeElement
	for _, decl := range java.TypeDeclarations(cu) {
		if te := p.enterType(u, decl, u.pkg); te != nil {
			types = append(types, te)
		}
	}
	log.Debugf("entered %s: %d top-level types", file, len(types))
	return types, nil
}

func (p *Pass) enterType(u *unit, node *parser.Node, enclosing Element) *TypeElement {
	outer, nested := enclosing.(*TypeElement)
	var encSym *java.Symbol
	if nested {
		encSym = &outer.sym
	}
	sym, err := java.EnterDeclaration(node, encSym)
	if err != nil {
		log.Debugf("%s: %v", u.file, err)
		return nil
	}

	te := &TypeElement{memberTypes: make(map[string]*TypeElement)}
	te.sym, te.node, te.enclosing, te.pass, te.unit = sym, node, enclosing, p, u
	if nested {
		te.qualified = outer.qualified + "." + sym.Name
		te.binary = outer.binary + "$" + sym.Name
		if _, dup := outer.memberTypes[sym.Name]; !dup {
			outer.memberTypes[sym.Name] = te
		}
	} else {
		te.qualified = qualify(u.pkg.QualifiedName(), sym.Name)
		te.binary = te.qualified
		p.topLevel = append(p.topLevel, te)
		if _, dup := u.types[sym.Name]; !dup {
			u.types[sym.Name] = te
		}
	}
	if prev, dup := p.byName[te.qualified]; dup {
		log.Warningf("%s: duplicate type %s, keeping the one in %s", u.file, te.qualified, prev.unit.file)
	} else {
		p.byName[te.qualified] = te
	}
	p.register(te)
	enclosing.base().addEnclosed(enclosing, te)

	p.enterTypeParameters(u, te, node, &te.typeParams)

	if sym.Kind == java.SymbolRecord {
		for _, param := range node.FirstChildOfKind(parser.KindParameters).ChildrenOfKind(parser.KindParameter) {
			if v := p.enterParameter(u, te, param); v != nil {
				te.components = append(te.components, v)
				te.addEnclosed(te, v)
			}
		}
	}

	for _, member := range node.FirstChildOfKind(parser.KindBody).Children {
		switch {
		case member.Kind == parser.KindEnumConstant:
			p.enterEnumConstant(u, te, member)
		case member.Kind == parser.KindFieldDecl:
			for _, declarator := range member.ChildrenOfKind(parser.KindVariableDeclarator) {
				p.enterField(u, te, member, declarator)
			}
		case member.Kind == parser.KindMethodDecl, member.Kind == parser.KindConstructorDecl:
			p.enterExecutable(u, te, member)
		case member.Kind.IsTypeDecl():
			p.enterType(u, member, te)
		}
	}
	te.enclosed.freeze()
	return te
}

func (p *Pass) enterTypeParameters(u *unit, owner Element, node *parser.Node, into *builder[*TypeParameterElement]) {
	for _, param := range node.FirstChildOfKind(parser.KindTypeParameters).ChildrenOfKind(parser.KindTypeParameter) {
		sym, err := java.EnterDeclaration(param, nil)
		if err != nil {
			log.Debugf("%s: %v", u.file, err)
			continue
		}
		tp := &TypeParameterElement{}
		tp.sym, tp.node, tp.enclosing, tp.pass, tp.unit = sym, param, owner, p, u
		p.register(tp)
		tp.enclosed.freeze()
		into.add(owner, tp)
	}
	into.freeze()
}

func (p *Pass) enterExecutable(u *unit, owner *TypeElement, node *parser.Node) {
	sym, err := java.EnterDeclaration(node, &owner.sym)
	if err != nil {
		log.Debugf("%s: %v", u.file, err)
		return
	}
	x := &ExecutableElement{}
	x.sym, x.node, x.enclosing, x.pass, x.unit = sym, node, owner, p, u
	p.register(x)
	owner.addEnclosed(owner, x)

	p.enterTypeParameters(u, x, node, &x.typeParams)

	params := node.FirstChildOfKind(parser.KindParameters)
	switch {
	case params != nil:
		for _, param := range params.ChildrenOfKind(parser.KindParameter) {
			if v := p.enterParameter(u, x, param); v != nil {
				v.executable = x
				v.index = x.params.len()
				x.addParameter(v)
			}
		}
	case sym.Kind == java.SymbolConstructor && owner.Kind() == java.SymbolRecord:
		p.enterCompactParameters(u, owner, x)
	}
	x.params.freeze()
	x.enclosed.freeze()
}

// enterCompactParameters gives a compact canonical constructor the record
// components as parameters. They share the component's node, so they are
// not registered for ElementFor and resolve through their own slot.
func (p *Pass) enterCompactParameters(u *unit, owner *TypeElement, x *ExecutableElement) {
	for i, comp := range owner.components {
		v := &VariableElement{
			typeNode:   comp.typeNode,
			dims:       comp.dims,
			varargs:    comp.varargs,
			slot:       slotCompactType,
			executable: x,
			index:      i,
		}
		v.sym = java.Symbol{Name: comp.sym.Name, Kind: java.SymbolParameter, IsVarargs: comp.varargs}
		v.node, v.enclosing, v.pass, v.unit = comp.node, x, p, u
		v.enclosed.freeze()
		p.order = append(p.order, v)
		x.addParameter(v)
	}
	if n := len(owner.components); n > 0 && owner.components[n-1].varargs {
		x.sym.IsVarargs = true
	}
}

func (p *Pass) enterParameter(u *unit, owner Element, param *parser.Node) *VariableElement {
	sym, err := java.EnterDeclaration(param, &owner.base().sym)
	if err != nil {
		log.Debugf("%s: %v", u.file, err)
		return nil
	}
	v := &VariableElement{
		typeNode: typeChild(param),
		dims:     param.FirstChildOfKind(parser.KindDims).DimCount(),
		varargs:  sym.IsVarargs,
		slot:     slotType,
		index:    -1,
	}
	v.sym, v.node, v.enclosing, v.pass, v.unit = sym, param, owner, p, u
	p.register(v)
	v.enclosed.freeze()
	return v
}

func (p *Pass) enterField(u *unit, owner *TypeElement, decl, declarator *parser.Node) {
	sym, err := java.EnterField(decl, declarator, &owner.sym)
	if err != nil {
		log.Debugf("%s: %v", u.file, err)
		return
	}
	v := &VariableElement{
		typeNode: typeChild(decl),
		dims:     declarator.FirstChildOfKind(parser.KindDims).DimCount(),
		literal:  declarator.FirstChildOfKind(parser.KindLiteral),
		slot:     slotType,
		index:    -1,
	}
	v.sym, v.node, v.enclosing, v.pass, v.unit = sym, declarator, owner, p, u
	p.register(v)
	v.enclosed.freeze()
	owner.addEnclosed(owner, v)
}

func (p *Pass) enterEnumConstant(u *unit, owner *TypeElement, node *parser.Node) {
	sym, err := java.EnterDeclaration(node, &owner.sym)
	if err != nil {
		log.Debugf("%s: %v", u.file, err)
		return
	}
	v := &VariableElement{enumOf: owner, slot: slotType, index: -1}
	v.sym, v.node, v.enclosing, v.pass, v.unit = sym, node, owner, p, u
	p.register(v)
	v.enclosed.freeze()
	owner.addEnclosed(owner, v)
}
