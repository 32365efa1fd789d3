// Package format renders the ABI of declarations: the source types of a
// pass, or class models read from the classpath. Every encoder works on
// the same declaration tree, so the formats only differ in layout.
package format

import (
	"encoding"
	"fmt"
	"io"
	"sort"

	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/abi"
)

// Unresolved is written in place of a type that failed to resolve.
const Unresolved = "<error>"

type Encoder interface {
	encoding.TextMarshaler
	Encode(t *abi.TypeElement) error
	EncodeModel(m *java.ClassModel) error
}

var encoders = map[string]func(io.Writer) Encoder{
	"line": func(w io.Writer) Encoder { return NewLineEncoder(w) },
	"json": func(w io.Writer) Encoder { return NewJSONEncoder(w) },
	"yaml": func(w io.Writer) Encoder { return NewYAMLEncoder(w) },
}

// New returns the encoder registered under name.
func New(name string, w io.Writer) (Encoder, error) {
	mk, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Names())
	}
	return mk(w), nil
}

func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EncodePass writes the top-level types of p in the order they were
// entered.
func EncodePass(enc Encoder, p *abi.Pass) error {
	for _, t := range p.TopLevelTypes().All() {
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode %s: %w", t.QualifiedName(), err)
		}
	}
	return nil
}
