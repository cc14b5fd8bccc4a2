package format

import (
	"errors"
	"fmt"
)

// Kind is a stable category for validation failures.
type Kind string

const (
	// KindArgument marks malformed scalar input: bad hex, wrong byte length,
	// out-of-range number, bad timestamp.
	KindArgument Kind = "argument"
	// KindType marks input of the wrong shape, e.g. a non-array where an array is required.
	KindType Kind = "type"
)

// ErrNotArray is the cause attached to ArrayOf failures on non-array input.
var ErrNotArray = errors.New("not an array")

// ValidationError is the single error type returned by coercers and record formatters.
//
// Field is empty for bare scalar coercions and holds a path such as
// "logs[1].topics[0]" when the failure happened inside a record.
type ValidationError struct {
	Kind    Kind
	Field   string
	Value   any
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Field == "" {
		return fmt.Sprintf("%s (value=%s)", e.Message, describe(e.Value))
	}
	return fmt.Sprintf("%s (field=%s, value=%s)", e.Message, e.Field, describe(e.Value))
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// IsKind reports whether err is (or wraps) a *ValidationError of the given kind.
func IsKind(err error, kind Kind) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	return ve.Kind == kind
}

func argumentError(msg string, value any) error {
	return &ValidationError{Kind: KindArgument, Value: value, Message: msg}
}

func wrapArgumentError(msg string, value any, cause error) error {
	return &ValidationError{Kind: KindArgument, Value: value, Message: msg, Cause: cause}
}

func typeError(msg string, value any, cause error) error {
	return &ValidationError{Kind: KindType, Value: value, Message: msg, Cause: cause}
}

// annotate attaches a field segment to err. Nested segments are joined into a path;
// the innermost value is kept because it is the one that actually failed.
func annotate(err error, segment string, value any) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Kind: KindArgument, Field: segment, Value: value, Message: err.Error(), Cause: err}
	}
	out := *ve
	switch {
	case out.Field == "":
		out.Field = segment
		if out.Value == nil {
			out.Value = value
		}
	case out.Field[0] == '[':
		out.Field = segment + out.Field
	default:
		out.Field = segment + "." + out.Field
	}
	return &out
}

func describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
