package abi

import (
	"errors"
	"fmt"

	"github.com/alampiss/buck/java/parser"
)

// ErrNotModeled marks operations an element deliberately does not
// implement because they do not contribute to a declaration's ABI.
var ErrNotModeled = errors.New("not modeled")

type NotModeledError struct {
	Element   string
	Operation string
}

func (e *NotModeledError) Error() string {
	return fmt.Sprintf("%s: %s is not modeled", e.Element, e.Operation)
}

func (e *NotModeledError) Is(target error) bool {
	return target == ErrNotModeled
}

func notModeled(e Element, op string) error {
	return &NotModeledError{Element: Describe(e), Operation: op}
}

type FailureKind int

const (
	FailureUnresolvedSymbol FailureKind = iota + 1
	FailureCyclicReference
	FailureKindMismatch
)

var (
	ErrUnresolvedSymbol = errors.New("unresolved symbol")
	ErrCyclicReference  = errors.New("cyclic reference")
	ErrKindMismatch     = errors.New("kind mismatch")
)

func (k FailureKind) sentinel() error {
	switch k {
	case FailureUnresolvedSymbol:
		return ErrUnresolvedSymbol
	case FailureCyclicReference:
		return ErrCyclicReference
	case FailureKindMismatch:
		return ErrKindMismatch
	}
	return nil
}

func (k FailureKind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return "unknown failure"
}

// ResolutionError reports a type reference that could not be turned into
// a type. Reference is the reference as spelled in source.
type ResolutionError struct {
	Kind      FailureKind
	Reference string
	Position  parser.Position
	Detail    string
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Position, e.Kind, e.Reference)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *ResolutionError) Unwrap() error {
	return e.Kind.sentinel()
}

func failure(kind FailureKind, ref *parser.Node, detail string) *ResolutionError {
	return &ResolutionError{
		Kind:      kind,
		Reference: ref.Text(),
		Position:  ref.Span.Start,
		Detail:    detail,
	}
}

// ProtocolViolation is the panic value raised when a driver misuses a
// pass: entering after Finish, resolving before it, entering a node
// twice, or adding to a frozen element.
type ProtocolViolation struct {
	Message string
}

func (v *ProtocolViolation) Error() string {
	return "abi: protocol violation: " + v.Message
}

func violate(format string, args ...any) {
	panic(&ProtocolViolation{Message: fmt.Sprintf(format, args...)})
}
