package abi

import (
	"fmt"

	"github.com/alampiss/buck/java/parser"
)

// Diagnostic is a resolution failure collected by a lazy accessor.
// Position is where the failing declaration is; ReferencePosition is where
// the offending type reference is spelled.
type Diagnostic struct {
	Position          parser.Position
	Declaration       string
	Reference         string
	ReferencePosition parser.Position
	Kind              FailureKind
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s in %s", d.ReferencePosition, d.Kind, d.Reference, d.Declaration)
}
