package java

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindRecord     ClassKind = "record"
	ClassKindModule     ClassKind = "module"
)

// ClassModel describes a compiled dependency class. Names are binary
// names in source spelling: java.util.Map$Entry.
type ClassModel struct {
	Name                string
	SimpleName          string
	Package             string
	SuperClass          string
	Interfaces          []string
	Visibility          Visibility
	Kind                ClassKind
	IsFinal             bool
	IsAbstract          bool
	IsStatic            bool
	IsSynthetic         bool
	IsSealed            bool
	IsDeprecated        bool
	MajorVersion        uint16
	Signature           string
	PermittedSubclasses []string
	EnclosingClass      string
	InnerClasses        []InnerClassModel
	Fields              []FieldModel
	Methods             []MethodModel
}

// MemberClass returns the InnerClasses entry declaring simpleName as a
// member of m.
func (m *ClassModel) MemberClass(simpleName string) (InnerClassModel, bool) {
	for _, ic := range m.InnerClasses {
		if ic.OuterClass == m.Name && ic.InnerName == simpleName {
			return ic, true
		}
	}
	return InnerClassModel{}, false
}

// Field returns the field called name, if m declares one.
func (m *ClassModel) Field(name string) (FieldModel, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldModel{}, false
}

type FieldModel struct {
	Name          string
	Type          TypeModel
	Visibility    Visibility
	IsStatic      bool
	IsFinal       bool
	IsSynthetic   bool
	IsEnum        bool
	IsDeprecated  bool
	Signature     string
	ConstantValue any
}

type MethodModel struct {
	Name         string
	ReturnType   TypeModel
	Parameters   []ParameterModel
	Exceptions   []string
	Visibility   Visibility
	IsStatic     bool
	IsFinal      bool
	IsAbstract   bool
	IsVarargs    bool
	IsDefault    bool
	IsDeprecated bool
	Signature    string
}

// IsConstructor reports whether m is an instance initializer method.
func (m MethodModel) IsConstructor() bool {
	return m.Name == "<init>"
}

type ParameterModel struct {
	Name string
	Type TypeModel
}

type InnerClassModel struct {
	InnerClass string
	OuterClass string
	InnerName  string
	Visibility Visibility
	IsStatic   bool
	IsFinal    bool
	IsAbstract bool
}
