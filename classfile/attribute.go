package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Attribute is an undecoded attribute. Only the attributes that shape a
// type's interface have decoders; everything else (Code, StackMapTable,
// annotations, ...) stays as raw bytes.
type Attribute struct {
	NameIndex uint16
	Info      []byte
}

type Attributes []Attribute

// Find returns the payload of the first attribute called name.
func (as Attributes) Find(cp ConstantPool, name string) ([]byte, bool) {
	for _, a := range as {
		if cp.Utf8(a.NameIndex) == name {
			return a.Info, true
		}
	}
	return nil, false
}

func (as Attributes) Has(cp ConstantPool, name string) bool {
	_, ok := as.Find(cp, name)
	return ok
}

var errTruncated = errors.New("truncated attribute")

// cursor reads big-endian values from an attribute payload with a sticky
// error, mirroring reader.
type cursor struct {
	b   []byte
	err error
}

func (c *cursor) u2() uint16 {
	if c.err != nil || len(c.b) < 2 {
		c.err = errTruncated
		return 0
	}
	v := binary.BigEndian.Uint16(c.b)
	c.b = c.b[2:]
	return v
}

func (c *cursor) classes(cp ConstantPool) []string {
	names := make([]string, c.u2())
	for i := range names {
		names[i] = cp.ClassName(c.u2())
	}
	return names
}

// InnerClass is one InnerClasses entry with its pool references resolved.
// Outer is empty for local and anonymous classes, Name for anonymous ones.
type InnerClass struct {
	Inner  string
	Outer  string
	Name   string
	Access AccessFlags
}

func decodeInnerClasses(cp ConstantPool, info []byte) ([]InnerClass, error) {
	c := &cursor{b: info}
	entries := make([]InnerClass, c.u2())
	for i := range entries {
		entries[i] = InnerClass{
			Inner:  cp.ClassName(c.u2()),
			Outer:  cp.ClassName(c.u2()),
			Name:   cp.Utf8(c.u2()),
			Access: AccessFlags(c.u2()),
		}
	}
	if c.err != nil {
		return nil, fmt.Errorf("InnerClasses: %w", c.err)
	}
	return entries, nil
}

func decodeExceptions(cp ConstantPool, info []byte) ([]string, error) {
	c := &cursor{b: info}
	names := c.classes(cp)
	if c.err != nil {
		return nil, fmt.Errorf("Exceptions: %w", c.err)
	}
	return names, nil
}

func decodePermittedSubclasses(cp ConstantPool, info []byte) ([]string, error) {
	c := &cursor{b: info}
	names := c.classes(cp)
	if c.err != nil {
		return nil, fmt.Errorf("PermittedSubclasses: %w", c.err)
	}
	return names, nil
}

func decodeSignature(cp ConstantPool, info []byte) (string, error) {
	c := &cursor{b: info}
	sig := cp.Utf8(c.u2())
	if c.err != nil {
		return "", fmt.Errorf("Signature: %w", c.err)
	}
	return sig, nil
}

type MethodParameter struct {
	Name   string
	Access AccessFlags
}

func decodeMethodParameters(cp ConstantPool, info []byte) ([]MethodParameter, error) {
	if len(info) == 0 {
		return nil, fmt.Errorf("MethodParameters: %w", errTruncated)
	}
	count := int(info[0])
	c := &cursor{b: info[1:]}
	params := make([]MethodParameter, count)
	for i := range params {
		params[i] = MethodParameter{Name: cp.Utf8(c.u2()), Access: AccessFlags(c.u2())}
	}
	if c.err != nil {
		return nil, fmt.Errorf("MethodParameters: %w", c.err)
	}
	return params, nil
}

func decodeConstantValue(cp ConstantPool, info []byte) (any, error) {
	c := &cursor{b: info}
	index := c.u2()
	if c.err != nil {
		return nil, fmt.Errorf("ConstantValue: %w", c.err)
	}
	v, ok := cp.Value(index)
	if !ok {
		return nil, fmt.Errorf("ConstantValue: entry %d is not loadable", index)
	}
	return v, nil
}
