package format

import (
	"strings"

	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/abi"
)

type typeDecl struct {
	Kind           string       `json:"kind" yaml:"kind"`
	Name           string       `json:"name" yaml:"name"`
	BinaryName     string       `json:"binaryName" yaml:"binaryName"`
	Modifiers      []string     `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	TypeParameters []typeParam  `json:"typeParameters,omitempty" yaml:"typeParameters,omitempty"`
	Superclass     string       `json:"superclass,omitempty" yaml:"superclass,omitempty"`
	Interfaces     []string     `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Permits        []string     `json:"permits,omitempty" yaml:"permits,omitempty"`
	Fields         []fieldDecl  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods        []methodDecl `json:"methods,omitempty" yaml:"methods,omitempty"`
	Types          []typeDecl   `json:"types,omitempty" yaml:"types,omitempty"`
}

type typeParam struct {
	Name   string   `json:"name" yaml:"name"`
	Bounds []string `json:"bounds,omitempty" yaml:"bounds,omitempty"`
}

type fieldDecl struct {
	Kind      string   `json:"kind" yaml:"kind"`
	Name      string   `json:"name" yaml:"name"`
	Type      string   `json:"type" yaml:"type"`
	Modifiers []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Constant  any      `json:"constant,omitempty" yaml:"constant,omitempty"`
}

type methodDecl struct {
	Kind           string      `json:"kind" yaml:"kind"`
	Name           string      `json:"name" yaml:"name"`
	TypeParameters []typeParam `json:"typeParameters,omitempty" yaml:"typeParameters,omitempty"`
	ReturnType     string      `json:"returnType,omitempty" yaml:"returnType,omitempty"`
	Parameters     []paramDecl `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Thrown         []string    `json:"thrown,omitempty" yaml:"thrown,omitempty"`
	Modifiers      []string    `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Varargs        bool        `json:"varargs,omitempty" yaml:"varargs,omitempty"`
}

type paramDecl struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

func typeString(t abi.Type, err error) string {
	if err != nil || t == nil {
		return Unresolved
	}
	return t.String()
}

func typeStrings(types []abi.Type, err error) []string {
	if err != nil {
		return []string{Unresolved}
	}
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}

func typeParams(params abi.List[*abi.TypeParameterElement]) []typeParam {
	var out []typeParam
	for _, tp := range params.All() {
		out = append(out, typeParam{Name: tp.SimpleName(), Bounds: typeStrings(tp.Bounds())})
	}
	return out
}

// fromElement builds the declaration tree of a source type. Failures show
// up as Unresolved; the pass keeps the diagnostics.
func fromElement(t *abi.TypeElement) typeDecl {
	d := typeDecl{
		Kind:           string(t.Kind()),
		Name:           t.QualifiedName(),
		BinaryName:     t.BinaryName(),
		Modifiers:      t.Modifiers().Names(),
		TypeParameters: typeParams(t.TypeParameters()),
		Interfaces:     typeStrings(t.Interfaces()),
		Permits:        typeStrings(t.Permits()),
	}
	if super, err := t.Superclass(); err != nil || super.Kind() != abi.TypeKindNone {
		d.Superclass = typeString(super, err)
	}

	for _, e := range t.EnclosedElements().All() {
		switch e := e.(type) {
		case *abi.VariableElement:
			f := fieldDecl{
				Kind:      string(e.Kind()),
				Name:      e.SimpleName(),
				Type:      typeString(e.Type()),
				Modifiers: e.Modifiers().Names(),
			}
			if v, err := e.ConstantValue(); err == nil {
				f.Constant = v
			}
			d.Fields = append(d.Fields, f)
		case *abi.ExecutableElement:
			m := methodDecl{
				Kind:           string(e.Kind()),
				Name:           e.SimpleName(),
				TypeParameters: typeParams(e.TypeParameters()),
				Thrown:         typeStrings(e.ThrownTypes()),
				Modifiers:      e.Modifiers().Names(),
				Varargs:        e.IsVarArgs(),
			}
			if !e.IsConstructor() {
				m.ReturnType = typeString(e.ReturnType())
			}
			for _, p := range e.Parameters().All() {
				m.Parameters = append(m.Parameters, paramDecl{Name: p.SimpleName(), Type: typeString(p.Type())})
			}
			d.Methods = append(d.Methods, m)
		case *abi.TypeElement:
			d.Types = append(d.Types, fromElement(e))
		}
	}
	return d
}

func modelModifiers(v java.Visibility, flags ...string) []string {
	var mods []string
	if v != java.VisibilityPackage && v != "" {
		mods = append(mods, string(v))
	}
	for i := 0; i+1 < len(flags); i += 2 {
		if flags[i+1] != "" {
			mods = append(mods, flags[i])
		}
	}
	return mods
}

func flag(b bool) string {
	if b {
		return "y"
	}
	return ""
}

// fromModel builds the declaration tree of a dependency class.
func fromModel(m *java.ClassModel) typeDecl {
	d := typeDecl{
		Kind:       string(m.Kind),
		Name:       strings.ReplaceAll(m.Name, "$", "."),
		BinaryName: m.Name,
		Modifiers: modelModifiers(m.Visibility,
			"abstract", flag(m.IsAbstract && m.Kind == java.ClassKindClass),
			"static", flag(m.IsStatic),
			"sealed", flag(m.IsSealed),
			"final", flag(m.IsFinal),
			"synthetic", flag(m.IsSynthetic),
			"deprecated", flag(m.IsDeprecated)),
		Interfaces: m.Interfaces,
		Permits:    m.PermittedSubclasses,
	}
	if m.Kind != java.ClassKindInterface && m.Kind != java.ClassKindAnnotation {
		d.Superclass = m.SuperClass
	}
	for _, f := range m.Fields {
		kind := string(java.SymbolField)
		if f.IsEnum {
			kind = string(java.SymbolEnumConstant)
		}
		d.Fields = append(d.Fields, fieldDecl{
			Kind: kind,
			Name: f.Name,
			Type: f.Type.String(),
			Modifiers: modelModifiers(f.Visibility,
				"static", flag(f.IsStatic),
				"final", flag(f.IsFinal),
				"deprecated", flag(f.IsDeprecated)),
			Constant: f.ConstantValue,
		})
	}
	for _, mm := range m.Methods {
		md := methodDecl{
			Kind:   string(java.SymbolMethod),
			Name:   mm.Name,
			Thrown: mm.Exceptions,
			Modifiers: modelModifiers(mm.Visibility,
				"abstract", flag(mm.IsAbstract),
				"default", flag(mm.IsDefault),
				"static", flag(mm.IsStatic),
				"final", flag(mm.IsFinal),
				"deprecated", flag(mm.IsDeprecated)),
			Varargs: mm.IsVarargs,
		}
		if mm.IsConstructor() {
			md.Kind = string(java.SymbolConstructor)
		} else {
			md.ReturnType = mm.ReturnType.String()
		}
		for _, p := range mm.Parameters {
			md.Parameters = append(md.Parameters, paramDecl{Name: p.Name, Type: p.Type.String()})
		}
		d.Methods = append(d.Methods, md)
	}
	return d
}
