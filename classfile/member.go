package classfile

// Member is a field_info or method_info structure; the two share a layout.
type Member struct {
	Access          AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      Attributes
}

func (m *Member) Name(cp ConstantPool) string       { return cp.Utf8(m.NameIndex) }
func (m *Member) Descriptor(cp ConstantPool) string { return cp.Utf8(m.DescriptorIndex) }

// Signature returns the generic signature, or "" when the member has none.
func (m *Member) Signature(cp ConstantPool) (string, error) {
	info, ok := m.Attributes.Find(cp, "Signature")
	if !ok {
		return "", nil
	}
	return decodeSignature(cp, info)
}

// Exceptions returns the internal names of a method's declared throws.
func (m *Member) Exceptions(cp ConstantPool) ([]string, error) {
	info, ok := m.Attributes.Find(cp, "Exceptions")
	if !ok {
		return nil, nil
	}
	return decodeExceptions(cp, info)
}

// Parameters returns the MethodParameters attribute, which javac emits
// only with -parameters.
func (m *Member) Parameters(cp ConstantPool) ([]MethodParameter, error) {
	info, ok := m.Attributes.Find(cp, "MethodParameters")
	if !ok {
		return nil, nil
	}
	return decodeMethodParameters(cp, info)
}

// ConstantValue returns a field's compile-time constant, if it has one.
func (m *Member) ConstantValue(cp ConstantPool) (any, bool, error) {
	info, ok := m.Attributes.Find(cp, "ConstantValue")
	if !ok {
		return nil, false, nil
	}
	v, err := decodeConstantValue(cp, info)
	return v, err == nil, err
}

func (m *Member) Deprecated(cp ConstantPool) bool {
	return m.Attributes.Has(cp, "Deprecated")
}
