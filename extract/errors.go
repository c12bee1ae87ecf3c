package extract

import (
	"errors"
	"fmt"
)

// Kind classifies an extraction failure.
type Kind int

const (
	// KindUnexpectedFormat means the raw text did not follow the fence convention.
	KindUnexpectedFormat Kind = iota + 1

	// KindDecode means the fenced payload is not syntactically valid JSON.
	KindDecode

	// KindValidation means the payload is valid JSON but does not match the schema.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindUnexpectedFormat:
		return "UnexpectedFormat"
	case KindDecode:
		return "DecodeError"
	case KindValidation:
		return "ValidationError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against an *Error of the corresponding kind.
var (
	ErrUnexpectedFormat = errors.New("output not in expected wrapped format")
	ErrDecode           = errors.New("payload is not valid JSON")
	ErrValidation       = errors.New("payload does not match schema")
)

func (k Kind) sentinel() error {
	switch k {
	case KindUnexpectedFormat:
		return ErrUnexpectedFormat
	case KindDecode:
		return ErrDecode
	case KindValidation:
		return ErrValidation
	default:
		return nil
	}
}

// Error is a classified extraction failure. It always carries the complete raw
// model output so an operator can see what the model actually said.
type Error struct {
	Kind Kind

	// Raw is the unmodified model output.
	Raw string

	// Err is the underlying cause: the parser error for KindDecode, a
	// *schema.ValidationError for KindValidation.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract: %s: %v", e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil && s != e.Err {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Message returns the underlying error message without the kind prefix.
func (e *Error) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}
