package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// FromString parses text into a Value of the given kind. It is the inverse
// of Value.String for every variant:
//
//	Null     "null"
//	Integer  decimal, 32-bit range
//	Double   any strconv.ParseFloat form, including "+Inf" and "NaN"
//	Bool     any strconv.ParseBool form
//	String   the text itself
//	List     bracketed elements, strings quoted: [1, 2.5, "a", [true]]
func FromString(kind Kind, text string) (Value, error) {
	switch kind {
	case NullKind:
		if strings.TrimSpace(text) != "null" {
			return nil, &ParseError{Kind: kind, Text: text}
		}
		return Null{}, nil

	case IntegerKind:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
		if err != nil {
			return nil, &ParseError{Kind: kind, Text: text, Err: unwrapNumError(err)}
		}
		return Integer(n), nil

	case DoubleKind:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, &ParseError{Kind: kind, Text: text, Err: unwrapNumError(err)}
		}
		return Double(f), nil

	case BoolKind:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return nil, &ParseError{Kind: kind, Text: text, Err: unwrapNumError(err)}
		}
		return Bool(b), nil

	case StringKind:
		return String(text), nil

	case ListKind:
		l, err := parseList(text)
		if err != nil {
			return nil, &ParseError{Kind: kind, Text: text, Err: err}
		}
		return l, nil

	default:
		return nil, &ParseError{Kind: kind, Text: text, Err: fmt.Errorf("unknown kind %d", int(kind))}
	}
}

// ParseNumber parses text as an Integer, falling back to a Double when the
// Integer parse fails.
func ParseNumber(text string) (Number, error) {
	if v, err := FromString(IntegerKind, text); err == nil {
		return v.(Integer), nil
	}
	v, err := FromString(DoubleKind, text)
	if err != nil {
		return nil, err
	}
	return v.(Double), nil
}

func unwrapNumError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}

// elementText renders a list element. Unlike Value.String it quotes strings
// and keeps a fractional part on integral doubles so the element parses
// back to the same variant.
func elementText(v Value) string {
	switch val := v.(type) {
	case String:
		return quoteString(string(val))
	case Double:
		s := val.String()
		f := float64(val)
		if !math.IsInf(f, 0) && !math.IsNaN(f) && !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	default:
		return Of(v).String()
	}
}

func quoteString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// parseList decodes list text. Numbers are kept as json.Number so integer
// and fractional forms map to Integer and Double respectively.
func parseList(text string) (List, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return List{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return List{}, fmt.Errorf("unexpected data after list")
	}

	arr, ok := raw.([]any)
	if !ok {
		return List{}, fmt.Errorf("not a list")
	}
	v, err := convertElement(arr)
	if err != nil {
		return List{}, err
	}
	return v.(List), nil
}

func convertElement(raw any) (Value, error) {
	switch val := raw.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			f, err := val.Float64()
			if err != nil {
				return nil, err
			}
			return Double(f), nil
		}
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("integer out of range: %s", s)
		}
		return Integer(n), nil
	case []any:
		items := make([]Value, len(val))
		for i, elem := range val {
			v, err := convertElement(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = v
		}
		return List{items: items}, nil
	default:
		return nil, fmt.Errorf("unsupported element type: %T", raw)
	}
}
