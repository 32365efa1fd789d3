// Package classfile reads the parts of a JVM class file that describe a
// type's interface: its names, access flags, members with their
// descriptors, and the few attributes that refine them.
package classfile

type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	Pool         ConstantPool
	Access       AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []Member
	Methods      []Member
	Attributes   Attributes
}

// ClassName returns the internal name of the class, e.g. java/util/Map$Entry.
func (cf *ClassFile) ClassName() string {
	return cf.Pool.ClassName(cf.ThisClass)
}

// SuperClassName is "" for java/lang/Object and module-info.
func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.Pool.ClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.Pool.ClassName(idx)
	}
	return names
}

func (cf *ClassFile) IsInterface() bool {
	return cf.Access.IsInterface() && !cf.Access.IsAnnotation()
}

func (cf *ClassFile) Signature() (string, error) {
	info, ok := cf.Attributes.Find(cf.Pool, "Signature")
	if !ok {
		return "", nil
	}
	return decodeSignature(cf.Pool, info)
}

func (cf *ClassFile) InnerClasses() ([]InnerClass, error) {
	info, ok := cf.Attributes.Find(cf.Pool, "InnerClasses")
	if !ok {
		return nil, nil
	}
	return decodeInnerClasses(cf.Pool, info)
}

func (cf *ClassFile) PermittedSubclasses() ([]string, error) {
	info, ok := cf.Attributes.Find(cf.Pool, "PermittedSubclasses")
	if !ok {
		return nil, nil
	}
	return decodePermittedSubclasses(cf.Pool, info)
}

func (cf *ClassFile) Deprecated() bool {
	return cf.Attributes.Has(cf.Pool, "Deprecated")
}

// Field returns the field called name, or nil.
func (cf *ClassFile) Field(name string) *Member {
	for i := range cf.Fields {
		if cf.Fields[i].Name(cf.Pool) == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

// Method returns the first method called name whose descriptor matches;
// an empty descriptor matches any overload.
func (cf *ClassFile) Method(name, descriptor string) *Member {
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.Name(cf.Pool) == name && (descriptor == "" || m.Descriptor(cf.Pool) == descriptor) {
			return m
		}
	}
	return nil
}
