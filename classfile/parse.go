package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf16"
)

var ErrBadMagic = errors.New("not a class file")

// reader wraps an io.Reader with a sticky error: after the first failure
// every read returns zero and the error is reported once at the end.
type reader struct {
	r   io.Reader
	err error
}

func (r *reader) fill(buf []byte) {
	if r.err != nil {
		clear(buf)
		return
	}
	_, r.err = io.ReadFull(r.r, buf)
}

func (r *reader) u1() uint8 {
	var buf [1]byte
	r.fill(buf[:])
	return buf[0]
}

func (r *reader) u2() uint16 {
	var buf [2]byte
	r.fill(buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) u4() uint32 {
	var buf [4]byte
	r.fill(buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	r.fill(buf)
	return buf
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class file: %w", err)
	}
	defer f.Close()
	cf, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cf, nil
}

func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	if magic := r.u4(); r.err != nil {
		return nil, fmt.Errorf("read magic: %w", r.err)
	} else if magic != Magic {
		return nil, fmt.Errorf("%w: magic 0x%08X", ErrBadMagic, magic)
	}

	cf := &ClassFile{MinorVersion: r.u2(), MajorVersion: r.u2()}

	pool, err := readConstantPool(r)
	if err != nil {
		return nil, err
	}
	cf.Pool = pool

	cf.Access = AccessFlags(r.u2())
	cf.ThisClass = r.u2()
	cf.SuperClass = r.u2()
	cf.Interfaces = make([]uint16, r.u2())
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.u2()
	}
	if r.err != nil {
		return nil, fmt.Errorf("read class header: %w", r.err)
	}

	if cf.Fields, err = readMembers(r, "field"); err != nil {
		return nil, err
	}
	if cf.Methods, err = readMembers(r, "method"); err != nil {
		return nil, err
	}
	cf.Attributes = readAttributes(r)
	if r.err != nil {
		return nil, fmt.Errorf("read class attributes: %w", r.err)
	}
	return cf, nil
}

func readConstantPool(r *reader) (ConstantPool, error) {
	count := r.u2()
	if r.err != nil {
		return nil, fmt.Errorf("read constant pool count: %w", r.err)
	}
	pool := make(ConstantPool, max(int(count), 1))
	for i := 1; i < int(count); i++ {
		c := Constant{Tag: ConstantTag(r.u1())}
		switch c.Tag {
		case ConstantUtf8:
			c.Text = decodeModifiedUtf8(r.bytes(int(r.u2())))
		case ConstantInteger:
			c.Int = int64(int32(r.u4()))
		case ConstantFloat:
			c.Float = float64(math.Float32frombits(r.u4()))
		case ConstantLong:
			c.Int = int64(uint64(r.u4())<<32 | uint64(r.u4()))
		case ConstantDouble:
			c.Float = math.Float64frombits(uint64(r.u4())<<32 | uint64(r.u4()))
		case ConstantClass, ConstantString, ConstantMethodType, ConstantModule, ConstantPackage:
			c.Ref1 = r.u2()
		case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref,
			ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
			c.Ref1, c.Ref2 = r.u2(), r.u2()
		case ConstantMethodHandle:
			c.Ref1 = uint16(r.u1())
			c.Ref2 = r.u2()
		default:
			if r.err == nil {
				return nil, fmt.Errorf("constant pool entry %d: unknown tag %d", i, c.Tag)
			}
		}
		if r.err != nil {
			return nil, fmt.Errorf("constant pool entry %d: %w", i, r.err)
		}
		pool[i] = c
		if c.Tag.wide() {
			i++
		}
	}
	return pool, nil
}

func readMembers(r *reader, what string) ([]Member, error) {
	members := make([]Member, r.u2())
	for i := range members {
		members[i] = Member{
			Access:          AccessFlags(r.u2()),
			NameIndex:       r.u2(),
			DescriptorIndex: r.u2(),
			Attributes:      readAttributes(r),
		}
		if r.err != nil {
			return nil, fmt.Errorf("read %s %d: %w", what, i, r.err)
		}
	}
	return members, nil
}

func readAttributes(r *reader) []Attribute {
	attrs := make([]Attribute, r.u2())
	for i := range attrs {
		attrs[i].NameIndex = r.u2()
		attrs[i].Info = r.bytes(int(r.u4()))
	}
	return attrs
}

// decodeModifiedUtf8 decodes the JVM's modified UTF-8: NUL is two bytes
// and supplementary characters are surrogate pairs encoded separately.
func decodeModifiedUtf8(b []byte) string {
	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			units = append(units, uint16(c))
			i++
		}
	}
	return string(utf16.Decode(units))
}
