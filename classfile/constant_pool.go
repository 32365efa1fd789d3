package classfile

// Constant is one constant pool slot. Which fields are meaningful depends
// on Tag: Text for Utf8, Int for Integer and Long, Float for Float and
// Double, and Ref1/Ref2 for every entry that points at other slots
// (Class and String use only Ref1).
type Constant struct {
	Tag   ConstantTag
	Text  string
	Int   int64
	Float float64
	Ref1  uint16
	Ref2  uint16
}

// ConstantPool is indexed the way the class file indexes it: slot 0 and
// the slot after every Long or Double are zero Constants.
type ConstantPool []Constant

func (cp ConstantPool) entry(index uint16, tag ConstantTag) (Constant, bool) {
	if index == 0 || int(index) >= len(cp) || cp[index].Tag != tag {
		return Constant{}, false
	}
	return cp[index], true
}

func (cp ConstantPool) Utf8(index uint16) string {
	c, _ := cp.entry(index, ConstantUtf8)
	return c.Text
}

// ClassName returns the internal name (java/lang/Object) a Class entry
// points at, or "" when index is not a Class entry.
func (cp ConstantPool) ClassName(index uint16) string {
	c, ok := cp.entry(index, ConstantClass)
	if !ok {
		return ""
	}
	return cp.Utf8(c.Ref1)
}

// Value returns the Go value of a loadable constant: int32, int64,
// float32, float64 or string.
func (cp ConstantPool) Value(index uint16) (any, bool) {
	if index == 0 || int(index) >= len(cp) {
		return nil, false
	}
	c := cp[index]
	switch c.Tag {
	case ConstantInteger:
		return int32(c.Int), true
	case ConstantLong:
		return c.Int, true
	case ConstantFloat:
		return float32(c.Float), true
	case ConstantDouble:
		return c.Float, true
	case ConstantString:
		return cp.Utf8(c.Ref1), true
	}
	return nil, false
}
