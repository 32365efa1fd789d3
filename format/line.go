package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/abi"
)

// LineEncoder writes one tab separated record per declaration:
//
//	class	com.example.Foo	public,final
//	super	com.example.Foo	java.lang.Object
//	field	com.example.Foo.count	int	private,static	0
//	method	com.example.Foo.get	-	T	int index	-	public
//
// Empty columns are written as "-".
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(t *abi.TypeElement) error {
	return e.write(fromElement(t))
}

func (e *LineEncoder) EncodeModel(m *java.ClassModel) error {
	return e.write(fromModel(m))
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	if buf, ok := e.w.(*bytes.Buffer); ok {
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("line encoder: writer is not a buffer")
}

func (e *LineEncoder) write(d typeDecl) error {
	if _, err := fmt.Fprintf(e.w, "%s\t%s\t%s\n", d.Kind, d.Name, column(d.Modifiers, ",")); err != nil {
		return err
	}
	for _, tp := range d.TypeParameters {
		if _, err := fmt.Fprintf(e.w, "typeparam\t%s\t%s\t%s\n", d.Name, tp.Name, column(tp.Bounds, " & ")); err != nil {
			return err
		}
	}
	if d.Superclass != "" {
		if _, err := fmt.Fprintf(e.w, "super\t%s\t%s\n", d.Name, d.Superclass); err != nil {
			return err
		}
	}
	if len(d.Interfaces) > 0 {
		if _, err := fmt.Fprintf(e.w, "implements\t%s\t%s\n", d.Name, strings.Join(d.Interfaces, ",")); err != nil {
			return err
		}
	}
	if len(d.Permits) > 0 {
		if _, err := fmt.Fprintf(e.w, "permits\t%s\t%s\n", d.Name, strings.Join(d.Permits, ",")); err != nil {
			return err
		}
	}
	for _, f := range d.Fields {
		constant := "-"
		if f.Constant != nil {
			constant = constantText(f.Constant)
		}
		if _, err := fmt.Fprintf(e.w, "%s\t%s.%s\t%s\t%s\t%s\n",
			strings.ReplaceAll(f.Kind, " ", "-"), d.Name, f.Name, f.Type, column(f.Modifiers, ","), constant); err != nil {
			return err
		}
	}
	for _, m := range d.Methods {
		if _, err := fmt.Fprintf(e.w, "%s\t%s.%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Kind, d.Name, m.Name,
			typeParamsText(m.TypeParameters),
			dash(m.ReturnType),
			parametersText(m),
			column(m.Thrown, ","),
			column(m.Modifiers, ",")); err != nil {
			return err
		}
	}
	for _, nested := range d.Types {
		if err := e.write(nested); err != nil {
			return err
		}
	}
	return nil
}

func column(values []string, sep string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, sep)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func typeParamsText(params []typeParam) string {
	if len(params) == 0 {
		return "-"
	}
	parts := make([]string, len(params))
	for i, tp := range params {
		parts[i] = tp.Name
		if len(tp.Bounds) > 0 {
			parts[i] += " extends " + strings.Join(tp.Bounds, " & ")
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func parametersText(m methodDecl) string {
	if len(m.Parameters) == 0 {
		return "-"
	}
	parts := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		typ := p.Type
		if m.Varargs && i == len(m.Parameters)-1 && strings.HasSuffix(typ, "[]") {
			typ = strings.TrimSuffix(typ, "[]") + "..."
		}
		if p.Name == "" {
			parts[i] = typ
		} else {
			parts[i] = typ + " " + p.Name
		}
	}
	return strings.Join(parts, ",")
}

func constantText(v any) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case uint16:
		return fmt.Sprintf("%q", rune(v))
	default:
		return fmt.Sprint(v)
	}
}
