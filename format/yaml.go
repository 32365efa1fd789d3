package format

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/abi"
)

// YAMLEncoder writes a YAML document per top-level type, separated by
// "---".
type YAMLEncoder struct {
	enc     *yaml.Encoder
	classes []typeDecl
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &YAMLEncoder{enc: enc}
}

func (e *YAMLEncoder) Encode(t *abi.TypeElement) error {
	return e.write(fromElement(t))
}

func (e *YAMLEncoder) EncodeModel(m *java.ClassModel) error {
	return e.write(fromModel(m))
}

func (e *YAMLEncoder) write(d typeDecl) error {
	e.classes = append(e.classes, d)
	return e.enc.Encode(d)
}

// Close flushes the underlying yaml encoder.
func (e *YAMLEncoder) Close() error {
	return e.enc.Close()
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	for _, d := range e.classes {
		if err := enc.Encode(d); err != nil {
			return nil, err
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
