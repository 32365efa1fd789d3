package abi

import (
	"context"
	"fmt"
	"strings"

	"github.com/alampiss/buck/java"
)

// DependencyType is a class found on the classpath.
type DependencyType struct {
	model     *java.ClassModel
	qualified string
	pass      *Pass
}

func (d *DependencyType) Model() *java.ClassModel { return d.model }

func (d *DependencyType) SimpleName() string { return d.model.SimpleName }

func (d *DependencyType) QualifiedName() string { return d.qualified }

func (d *DependencyType) BinaryName() string { return d.model.Name }

func (d *DependencyType) Kind() java.SymbolKind {
	switch d.model.Kind {
	case java.ClassKindInterface:
		return java.SymbolInterface
	case java.ClassKindEnum:
		return java.SymbolEnum
	case java.ClassKindRecord:
		return java.SymbolRecord
	case java.ClassKindAnnotation:
		return java.SymbolAnnotation
	}
	return java.SymbolClass
}

func (d *DependencyType) memberType(_ context.Context, name string) (TypeSymbol, error) {
	ic, ok := d.model.MemberClass(name)
	if !ok {
		return nil, nil
	}
	m, err := d.pass.dependency(ic.InnerClass, d.qualified+"."+name)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, &inconsistentError{
			name:   ic.InnerClass,
			detail: fmt.Sprintf("%s lists member %s but it is not on the classpath", d.model.Name, ic.InnerClass),
		}
	}
	return m, nil
}

// directSupertypes skips supertypes missing from the classpath; they only
// matter when a lookup needs them, and then the lookup fails on its own.
func (d *DependencyType) directSupertypes(context.Context) ([]TypeSymbol, error) {
	var out []TypeSymbol
	names := d.model.Interfaces
	if d.model.SuperClass != "" {
		names = append([]string{d.model.SuperClass}, names...)
	}
	for _, name := range names {
		s, err := d.pass.dependency(name, strings.ReplaceAll(name, "$", "."))
		if err != nil || s == nil {
			log.Debugf("%s: supertype %s unavailable", d.model.Name, name)
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *DependencyType) hasField(name string) bool {
	_, ok := d.model.Field(name)
	return ok
}

// inconsistentError reports a class file that does not agree with how it
// was reached.
type inconsistentError struct {
	name   string
	detail string
}

func (e *inconsistentError) Error() string { return e.detail }

// dependency returns the classpath class with the given binary name, or
// nil when the classpath does not have it.
func (p *Pass) dependency(binaryName, qualified string) (*DependencyType, error) {
	p.mu.Lock()
	d, ok := p.deps[binaryName]
	p.mu.Unlock()
	if ok {
		return d, nil
	}

	m, found := p.classpath.Find(binaryName)
	if !found {
		return nil, nil
	}
	if m.Name != binaryName {
		return nil, &inconsistentError{
			name:   binaryName,
			detail: fmt.Sprintf("class file for %s declares %s", binaryName, m.Name),
		}
	}
	log.Debugf("classpath: %s", binaryName)

	p.mu.Lock()
	defer p.mu.Unlock()
	if d, ok := p.deps[binaryName]; ok {
		return d, nil
	}
	d = &DependencyType{model: m, qualified: qualified, pass: p}
	p.deps[binaryName] = d
	return d, nil
}
