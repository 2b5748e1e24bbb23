package axtree

import (
	"errors"
	"fmt"
)

var (
	// ErrStructural matches decode errors caused by an invalid top-level
	// shape or a missing required field.
	ErrStructural = errors.New("axtree: structural error")
	// ErrPayloadShape matches decode errors caused by a recognized property
	// type whose payload has the wrong shape.
	ErrPayloadShape = errors.New("axtree: payload shape error")
)

// ErrorKind classifies a DecodeError.
type ErrorKind int

const (
	KindStructural ErrorKind = iota + 1
	KindPayloadShape
)

func (k ErrorKind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindPayloadShape:
		return "payload shape"
	default:
		return "unknown"
	}
}

// DecodeError is returned by the decoder. NodeID is empty when the failure
// is not attributable to a node.
type DecodeError struct {
	Kind   ErrorKind
	NodeID string
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := "axtree: " + e.Kind.String()
	if e.NodeID != "" {
		msg += fmt.Sprintf(" in node %q", e.NodeID)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" at %s", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrStructural and ErrPayloadShape.
func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrStructural:
		return e.Kind == KindStructural
	case ErrPayloadShape:
		return e.Kind == KindPayloadShape
	}
	return false
}

func structuralf(nodeID, field, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: KindStructural, NodeID: nodeID, Field: field, Err: fmt.Errorf(format, args...)}
}

func payloadf(nodeID, field, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: KindPayloadShape, NodeID: nodeID, Field: field, Err: fmt.Errorf(format, args...)}
}
