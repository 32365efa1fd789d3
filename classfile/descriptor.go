package classfile

import (
	"fmt"
	"strings"
)

// FieldType is a decoded field descriptor. Exactly one of Base and Class
// is set; Class holds an internal name.
type FieldType struct {
	Base  string
	Class string
	Dims  int
}

// String renders the type in source form, e.g. java.lang.String[].
func (ft FieldType) String() string {
	name := ft.Base
	if name == "" {
		name = InternalToSourceName(ft.Class)
	}
	return name + strings.Repeat("[]", ft.Dims)
}

func (ft FieldType) IsPrimitive() bool { return ft.Base != "" && ft.Dims == 0 }

// MethodDescriptor is a decoded method descriptor; Return is nil for void.
type MethodDescriptor struct {
	Parameters []FieldType
	Return     *FieldType
}

func (md MethodDescriptor) String() string {
	params := make([]string, len(md.Parameters))
	for i, p := range md.Parameters {
		params[i] = p.String()
	}
	ret := "void"
	if md.Return != nil {
		ret = md.Return.String()
	}
	return "(" + strings.Join(params, ", ") + ") " + ret
}

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

func ParseFieldDescriptor(desc string) (FieldType, error) {
	ft, n, err := parseFieldType(desc)
	if err == nil && n != len(desc) {
		err = fmt.Errorf("field descriptor %q: trailing characters", desc)
	}
	return ft, err
}

func ParseMethodDescriptor(desc string) (MethodDescriptor, error) {
	var md MethodDescriptor
	if !strings.HasPrefix(desc, "(") {
		return md, fmt.Errorf("method descriptor %q: missing (", desc)
	}
	rest := desc[1:]
	for !strings.HasPrefix(rest, ")") {
		ft, n, err := parseFieldType(rest)
		if err != nil {
			return md, fmt.Errorf("method descriptor %q: %w", desc, err)
		}
		md.Parameters = append(md.Parameters, ft)
		rest = rest[n:]
	}
	rest = rest[1:]
	if rest == "V" {
		return md, nil
	}
	ft, n, err := parseFieldType(rest)
	if err != nil || n != len(rest) {
		return md, fmt.Errorf("method descriptor %q: bad return type", desc)
	}
	md.Return = &ft
	return md, nil
}

func parseFieldType(desc string) (FieldType, int, error) {
	var ft FieldType
	i := 0
	for i < len(desc) && desc[i] == '[' {
		ft.Dims++
		i++
	}
	if i >= len(desc) {
		return ft, 0, fmt.Errorf("unexpected end of descriptor")
	}
	if base, ok := baseTypes[desc[i]]; ok {
		ft.Base = base
		return ft, i + 1, nil
	}
	if desc[i] != 'L' {
		return ft, 0, fmt.Errorf("unexpected %q in descriptor", desc[i])
	}
	end := strings.IndexByte(desc[i:], ';')
	if end < 0 {
		return ft, 0, fmt.Errorf("unterminated class name in descriptor")
	}
	ft.Class = desc[i+1 : i+end]
	return ft, i + end + 1, nil
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
