package format

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/alampiss/buck/java"
	"github.com/alampiss/buck/java/abi"
)

// JSONEncoder writes one indented JSON object per top-level type.
type JSONEncoder struct {
	w       io.Writer
	classes []typeDecl
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(t *abi.TypeElement) error {
	return e.write(fromElement(t))
}

func (e *JSONEncoder) EncodeModel(m *java.ClassModel) error {
	return e.write(fromModel(m))
}

func (e *JSONEncoder) write(d typeDecl) error {
	e.classes = append(e.classes, d)
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = e.w.Write(data)
	return err
}

// MarshalText returns every declaration encoded so far as one JSON array.
func (e *JSONEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	classes := e.classes
	if classes == nil {
		classes = []typeDecl{}
	}
	if err := enc.Encode(classes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
