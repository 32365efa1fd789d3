package java

import "strings"

// TypeModel is an erased type as recorded in a descriptor.
type TypeModel struct {
	Name       string
	ArrayDepth int
}

func (t TypeModel) String() string {
	return t.Name + strings.Repeat("[]", t.ArrayDepth)
}

func (t TypeModel) IsPrimitive() bool {
	return t.ArrayDepth == 0 && IsPrimitiveName(t.Name)
}

func (t TypeModel) IsArray() bool {
	return t.ArrayDepth > 0
}

func (t TypeModel) IsVoid() bool {
	return t.Name == "void" && t.ArrayDepth == 0
}

func IsPrimitiveName(name string) bool {
	switch name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double":
		return true
	}
	return false
}

// SplitBinaryName splits java.util.Map$Entry into its package and the
// simple name of the innermost class.
func SplitBinaryName(name string) (pkg, simpleName string) {
	simpleName = name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		pkg, simpleName = name[:i], name[i+1:]
	}
	if i := strings.LastIndexByte(simpleName, '$'); i >= 0 {
		simpleName = simpleName[i+1:]
	}
	return pkg, simpleName
}
