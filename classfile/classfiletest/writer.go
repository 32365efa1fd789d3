// Package classfiletest assembles small class files and jars in memory so
// tests can exercise the class file reader and classpath lookups without
// binary fixtures.
package classfiletest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"unicode/utf16"

	"github.com/alampiss/buck/classfile"
)

// Class describes a class file to write. Names are internal names. An
// empty Super defaults to java/lang/Object unless Name is java/lang/Object.
type Class struct {
	Name       string
	Super      string
	Interfaces []string
	Access     classfile.AccessFlags
	Signature  string
	Fields     []Member
	Methods    []Member
	Inner      []classfile.InnerClass
	Permitted  []string
	Deprecated bool
}

// Member describes a field or method. Constant is written as a
// ConstantValue attribute and must be int32, int64, float32, float64 or
// string.
type Member struct {
	Name       string
	Descriptor string
	Access     classfile.AccessFlags
	Signature  string
	Exceptions []string
	Parameters []string
	Constant   any
}

type pool struct {
	entries bytes.Buffer
	next    uint16
	index   map[string]uint16
}

func newPool() *pool {
	return &pool{next: 1, index: map[string]uint16{}}
}

func (p *pool) add(key string, wide bool, write func(*bytes.Buffer)) uint16 {
	if i, ok := p.index[key]; ok {
		return i
	}
	i := p.next
	write(&p.entries)
	p.index[key] = i
	p.next++
	if wide {
		p.next++
	}
	return i
}

func (p *pool) utf8(s string) uint16 {
	return p.add("u:"+s, false, func(b *bytes.Buffer) {
		enc := encodeModifiedUtf8(s)
		b.WriteByte(byte(classfile.ConstantUtf8))
		writeU2(b, uint16(len(enc)))
		b.Write(enc)
	})
}

func (p *pool) class(name string) uint16 {
	ref := p.utf8(name)
	return p.add("c:"+name, false, func(b *bytes.Buffer) {
		b.WriteByte(byte(classfile.ConstantClass))
		writeU2(b, ref)
	})
}

func (p *pool) constant(v any) uint16 {
	switch v := v.(type) {
	case int32:
		return p.add(fmt.Sprintf("i:%d", v), false, func(b *bytes.Buffer) {
			b.WriteByte(byte(classfile.ConstantInteger))
			writeU4(b, uint32(v))
		})
	case int64:
		return p.add(fmt.Sprintf("j:%d", v), true, func(b *bytes.Buffer) {
			b.WriteByte(byte(classfile.ConstantLong))
			writeU4(b, uint32(uint64(v)>>32))
			writeU4(b, uint32(v))
		})
	case float32:
		return p.add(fmt.Sprintf("f:%v", v), false, func(b *bytes.Buffer) {
			b.WriteByte(byte(classfile.ConstantFloat))
			writeU4(b, math.Float32bits(v))
		})
	case float64:
		return p.add(fmt.Sprintf("d:%v", v), true, func(b *bytes.Buffer) {
			bits := math.Float64bits(v)
			b.WriteByte(byte(classfile.ConstantDouble))
			writeU4(b, uint32(bits>>32))
			writeU4(b, uint32(bits))
		})
	case string:
		ref := p.utf8(v)
		return p.add("s:"+v, false, func(b *bytes.Buffer) {
			b.WriteByte(byte(classfile.ConstantString))
			writeU2(b, ref)
		})
	}
	panic(fmt.Sprintf("classfiletest: unsupported constant %T", v))
}

type attr struct {
	name uint16
	info []byte
}

func writeAttrs(b *bytes.Buffer, attrs []attr) {
	writeU2(b, uint16(len(attrs)))
	for _, a := range attrs {
		writeU2(b, a.name)
		writeU4(b, uint32(len(a.info)))
		b.Write(a.info)
	}
}

func u2s(vals ...uint16) []byte {
	var b bytes.Buffer
	for _, v := range vals {
		writeU2(&b, v)
	}
	return b.Bytes()
}

func (p *pool) classList(names []string) []byte {
	vals := []uint16{uint16(len(names))}
	for _, n := range names {
		vals = append(vals, p.class(n))
	}
	return u2s(vals...)
}

func (m Member) attrs(p *pool) []attr {
	var out []attr
	if m.Signature != "" {
		out = append(out, attr{p.utf8("Signature"), u2s(p.utf8(m.Signature))})
	}
	if len(m.Exceptions) > 0 {
		out = append(out, attr{p.utf8("Exceptions"), p.classList(m.Exceptions)})
	}
	if len(m.Parameters) > 0 {
		info := []byte{byte(len(m.Parameters))}
		for _, name := range m.Parameters {
			info = append(info, u2s(p.utf8(name), 0)...)
		}
		out = append(out, attr{p.utf8("MethodParameters"), info})
	}
	if m.Constant != nil {
		out = append(out, attr{p.utf8("ConstantValue"), u2s(p.constant(m.Constant))})
	}
	return out
}

// Bytes encodes c as a version 61 (Java 17) class file.
func (c Class) Bytes() []byte {
	p := newPool()
	var body bytes.Buffer

	writeU2(&body, uint16(c.Access))
	writeU2(&body, p.class(c.Name))
	super := c.Super
	if super == "" && c.Name != "java/lang/Object" {
		super = "java/lang/Object"
	}
	if super == "" {
		writeU2(&body, 0)
	} else {
		writeU2(&body, p.class(super))
	}
	body.Write(p.classList(c.Interfaces))

	for _, members := range [][]Member{c.Fields, c.Methods} {
		writeU2(&body, uint16(len(members)))
		for _, m := range members {
			writeU2(&body, uint16(m.Access))
			writeU2(&body, p.utf8(m.Name))
			writeU2(&body, p.utf8(m.Descriptor))
			writeAttrs(&body, m.attrs(p))
		}
	}

	var attrs []attr
	if c.Signature != "" {
		attrs = append(attrs, attr{p.utf8("Signature"), u2s(p.utf8(c.Signature))})
	}
	if len(c.Inner) > 0 {
		vals := []uint16{uint16(len(c.Inner))}
		for _, ic := range c.Inner {
			var outer, name uint16
			if ic.Outer != "" {
				outer = p.class(ic.Outer)
			}
			if ic.Name != "" {
				name = p.utf8(ic.Name)
			}
			vals = append(vals, p.class(ic.Inner), outer, name, uint16(ic.Access))
		}
		attrs = append(attrs, attr{p.utf8("InnerClasses"), u2s(vals...)})
	}
	if len(c.Permitted) > 0 {
		attrs = append(attrs, attr{p.utf8("PermittedSubclasses"), p.classList(c.Permitted)})
	}
	if c.Deprecated {
		attrs = append(attrs, attr{p.utf8("Deprecated"), nil})
	}
	writeAttrs(&body, attrs)

	var out bytes.Buffer
	writeU4(&out, classfile.Magic)
	writeU2(&out, 0)
	writeU2(&out, 61)
	writeU2(&out, p.next)
	out.Write(p.entries.Bytes())
	out.Write(body.Bytes())
	return out.Bytes()
}

// Jar zips the given classes under their internal names plus ".class",
// together with any extra raw entries.
func Jar(classes []Class, extra map[string][]byte) []byte {
	files := map[string][]byte{}
	for _, c := range classes {
		files[c.Name+".class"] = c.Bytes()
	}
	for name, data := range extra {
		files[name] = data
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		w.Write(files[name])
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func writeU2(b *bytes.Buffer, v uint16) {
	b.Write(binary.BigEndian.AppendUint16(nil, v))
}

func writeU4(b *bytes.Buffer, v uint32) {
	b.Write(binary.BigEndian.AppendUint32(nil, v))
}

func encodeModifiedUtf8(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		switch {
		case u != 0 && u < 0x80:
			out = append(out, byte(u))
		case u < 0x800:
			out = append(out, 0xC0|byte(u>>6), 0x80|byte(u&0x3F))
		default:
			out = append(out, 0xE0|byte(u>>12), 0x80|byte(u>>6&0x3F), 0x80|byte(u&0x3F))
		}
	}
	return out
}
