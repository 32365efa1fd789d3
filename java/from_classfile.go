package java

import (
	"fmt"
	"io"
	"os"

	"github.com/alampiss/buck/classfile"
)

func ClassModelFromFile(path string) (*ClassModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ClassModelFromReader(f)
}

func ClassModelFromReader(r io.Reader) (*ClassModel, error) {
	cf, err := classfile.Parse(r)
	if err != nil {
		return nil, err
	}
	return ClassModelFromClassFile(cf)
}

// ClassModelFromClassFile extracts the interface of a class. Synthetic
// and bridge members and static initializers are left out.
func ClassModelFromClassFile(cf *classfile.ClassFile) (*ClassModel, error) {
	name := classfile.InternalToSourceName(cf.ClassName())
	if name == "" {
		return nil, fmt.Errorf("class file has no this_class name")
	}
	pkg, simpleName := SplitBinaryName(name)

	model := &ClassModel{
		Name:         name,
		SimpleName:   simpleName,
		Package:      pkg,
		MajorVersion: cf.MajorVersion,
		Visibility:   visibilityFromAccessFlags(cf.Access),
		Kind:         classKindFromClassFile(cf),
		IsFinal:      cf.Access.IsFinal(),
		IsAbstract:   cf.Access.IsAbstract(),
		IsSynthetic:  cf.Access.IsSynthetic(),
		IsDeprecated: cf.Deprecated(),
	}
	if super := cf.SuperClassName(); super != "" {
		model.SuperClass = classfile.InternalToSourceName(super)
	}
	for _, iface := range cf.InterfaceNames() {
		model.Interfaces = append(model.Interfaces, classfile.InternalToSourceName(iface))
	}

	var err error
	if model.Signature, err = cf.Signature(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	permitted, err := cf.PermittedSubclasses()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	for _, p := range permitted {
		model.PermittedSubclasses = append(model.PermittedSubclasses, classfile.InternalToSourceName(p))
	}
	model.IsSealed = len(permitted) > 0

	inner, err := cf.InnerClasses()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	for _, ic := range inner {
		im := InnerClassModel{
			InnerClass: classfile.InternalToSourceName(ic.Inner),
			OuterClass: classfile.InternalToSourceName(ic.Outer),
			InnerName:  ic.Name,
			Visibility: visibilityFromAccessFlags(ic.Access),
			IsStatic:   ic.Access.IsStatic(),
			IsFinal:    ic.Access.IsFinal(),
			IsAbstract: ic.Access.IsAbstract(),
		}
		model.InnerClasses = append(model.InnerClasses, im)
		// The entry describing this class itself carries its source-level
		// flags and simple name.
		if im.InnerClass == name {
			model.EnclosingClass = im.OuterClass
			model.Visibility = im.Visibility
			model.IsStatic = im.IsStatic
			if im.InnerName != "" {
				model.SimpleName = im.InnerName
			}
		}
	}

	for i := range cf.Fields {
		f := &cf.Fields[i]
		if f.Access.IsSynthetic() {
			continue
		}
		fm, err := fieldModelFromMember(f, cf.Pool)
		if err != nil {
			return nil, fmt.Errorf("%s: field %s: %w", name, f.Name(cf.Pool), err)
		}
		model.Fields = append(model.Fields, fm)
	}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.Access.IsSynthetic() || m.Access.IsBridge() || m.Name(cf.Pool) == "<clinit>" {
			continue
		}
		mm, err := methodModelFromMember(m, cf.Pool, model.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s: method %s: %w", name, m.Name(cf.Pool), err)
		}
		model.Methods = append(model.Methods, mm)
	}

	return model, nil
}

func visibilityFromAccessFlags(flags classfile.AccessFlags) Visibility {
	switch {
	case flags.IsPublic():
		return VisibilityPublic
	case flags.IsProtected():
		return VisibilityProtected
	case flags.IsPrivate():
		return VisibilityPrivate
	}
	return VisibilityPackage
}

func classKindFromClassFile(cf *classfile.ClassFile) ClassKind {
	switch {
	case cf.Access.IsModule():
		return ClassKindModule
	case cf.Access.IsAnnotation():
		return ClassKindAnnotation
	case cf.Access.IsEnum():
		return ClassKindEnum
	case cf.IsInterface():
		return ClassKindInterface
	case cf.SuperClassName() == "java/lang/Record":
		return ClassKindRecord
	}
	return ClassKindClass
}

func fieldModelFromMember(f *classfile.Member, cp classfile.ConstantPool) (FieldModel, error) {
	ft, err := classfile.ParseFieldDescriptor(f.Descriptor(cp))
	if err != nil {
		return FieldModel{}, err
	}
	sig, err := f.Signature(cp)
	if err != nil {
		return FieldModel{}, err
	}
	value, _, err := f.ConstantValue(cp)
	if err != nil {
		return FieldModel{}, err
	}
	return FieldModel{
		Name:          f.Name(cp),
		Type:          typeModelFromFieldType(&ft),
		Visibility:    visibilityFromAccessFlags(f.Access),
		IsStatic:      f.Access.IsStatic(),
		IsFinal:       f.Access.IsFinal(),
		IsSynthetic:   f.Access.IsSynthetic(),
		IsEnum:        f.Access.IsEnum(),
		IsDeprecated:  f.Deprecated(cp),
		Signature:     sig,
		ConstantValue: value,
	}, nil
}

func methodModelFromMember(m *classfile.Member, cp classfile.ConstantPool, owner ClassKind) (MethodModel, error) {
	desc, err := classfile.ParseMethodDescriptor(m.Descriptor(cp))
	if err != nil {
		return MethodModel{}, err
	}
	sig, err := m.Signature(cp)
	if err != nil {
		return MethodModel{}, err
	}
	exceptions, err := m.Exceptions(cp)
	if err != nil {
		return MethodModel{}, err
	}
	names, err := m.Parameters(cp)
	if err != nil {
		return MethodModel{}, err
	}

	model := MethodModel{
		Name:         m.Name(cp),
		ReturnType:   typeModelFromFieldType(desc.Return),
		Visibility:   visibilityFromAccessFlags(m.Access),
		IsStatic:     m.Access.IsStatic(),
		IsFinal:      m.Access.IsFinal(),
		IsAbstract:   m.Access.IsAbstract(),
		IsVarargs:    m.Access.IsVarargs(),
		IsDeprecated: m.Deprecated(cp),
		Signature:    sig,
	}
	model.IsDefault = owner == ClassKindInterface && !model.IsAbstract && !model.IsStatic &&
		model.Visibility != VisibilityPrivate
	for _, e := range exceptions {
		model.Exceptions = append(model.Exceptions, classfile.InternalToSourceName(e))
	}
	for i := range desc.Parameters {
		model.Parameters = append(model.Parameters, ParameterModel{
			Name: parameterName(names, i),
			Type: typeModelFromFieldType(&desc.Parameters[i]),
		})
	}
	return model, nil
}

func typeModelFromFieldType(ft *classfile.FieldType) TypeModel {
	if ft == nil {
		return TypeModel{Name: "void"}
	}
	name := ft.Base
	if name == "" {
		name = classfile.InternalToSourceName(ft.Class)
	}
	return TypeModel{Name: name, ArrayDepth: ft.Dims}
}

// parameterName uses MethodParameters when present and falls back to the
// argN names javac itself synthesizes.
func parameterName(names []classfile.MethodParameter, i int) string {
	if i < len(names) && names[i].Name != "" {
		return names[i].Name
	}
	return fmt.Sprintf("arg%d", i)
}
