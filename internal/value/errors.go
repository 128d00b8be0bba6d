package value

import (
	"errors"
	"fmt"
)

// CastError reports a Value that does not hold the variant an operation
// needs, e.g. a String fed to And.
type CastError struct {
	Want string // expected variant or family ("Number", "Bool", ...)
	Got  Kind
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast %s to %s", e.Got, e.Want)
}

// ParseError reports malformed literal text.
type ParseError struct {
	Kind Kind
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse %q as %s: %v", e.Text, e.Kind, e.Err)
	}
	return fmt.Sprintf("cannot parse %q as %s", e.Text, e.Kind)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsCastError returns true if err wraps a CastError.
func IsCastError(err error) bool {
	var ce *CastError
	return errors.As(err, &ce)
}

// IsParseError returns true if err wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// AsNumber casts v to a Number.
func AsNumber(v Value) (Number, error) {
	if n, ok := v.(Number); ok {
		return n, nil
	}
	return nil, &CastError{Want: "Number", Got: Of(v).Kind()}
}

// AsInteger casts v to an Integer. Doubles are rejected even when integral.
func AsInteger(v Value) (Integer, error) {
	if i, ok := v.(Integer); ok {
		return i, nil
	}
	return 0, &CastError{Want: IntegerKind.String(), Got: Of(v).Kind()}
}

// AsBool casts v to a Bool.
func AsBool(v Value) (Bool, error) {
	if b, ok := v.(Bool); ok {
		return b, nil
	}
	return false, &CastError{Want: BoolKind.String(), Got: Of(v).Kind()}
}

// AsString casts v to a String.
func AsString(v Value) (String, error) {
	if s, ok := v.(String); ok {
		return s, nil
	}
	return "", &CastError{Want: StringKind.String(), Got: Of(v).Kind()}
}

// AsList casts v to a List.
func AsList(v Value) (List, error) {
	if l, ok := v.(List); ok {
		return l, nil
	}
	return List{}, &CastError{Want: ListKind.String(), Got: Of(v).Kind()}
}
