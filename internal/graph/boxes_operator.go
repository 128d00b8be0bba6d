package graph

import (
	"errors"
	"fmt"

	"github.com/roach88/vls/internal/value"
)

func (ip *Interp) evalValue(b *Box) value.Value {
	if b.kind == KindRandom {
		return value.Double(ip.rng.Float64())
	}
	return value.Of(b.literal)
}

// evalOperator pulls every operand in port order, then applies the pure
// function for b's kind.
func (ip *Interp) evalOperator(b *Box, arg value.Value) (value.Value, error) {
	var args []value.Value
	for i, n := range b.nodes {
		if !n.IsClient() {
			continue
		}
		v, err := ip.pull(b, i, arg)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	v, err := applyOperator(b.kind, args)
	if err != nil {
		var oe *operandError
		if errors.As(err, &oe) {
			return nil, ip.fail(b, oe.code, oe.port, oe.err)
		}
		return nil, err
	}
	return v, nil
}

// operandError locates a failure at an operand port.
type operandError struct {
	port int
	code EvalErrorCode
	err  error
}

func (e *operandError) Error() string { return e.err.Error() }

func castAt(port int, err error) error {
	return &operandError{port: port, code: ErrCodeCast, err: err}
}

func numberAt(args []value.Value, i int) (value.Number, error) {
	n, err := value.AsNumber(args[i])
	if err != nil {
		return nil, castAt(i, err)
	}
	return n, nil
}

func numbers(args []value.Value) (value.Number, value.Number, error) {
	a, err := numberAt(args, 0)
	if err != nil {
		return nil, nil, err
	}
	b, err := numberAt(args, 1)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func bools(args []value.Value) (value.Bool, value.Bool, error) {
	a, err := value.AsBool(args[0])
	if err != nil {
		return false, false, castAt(0, err)
	}
	b, err := value.AsBool(args[1])
	if err != nil {
		return false, false, castAt(1, err)
	}
	return a, b, nil
}

func strs(args []value.Value) (value.String, value.String, error) {
	a, err := value.AsString(args[0])
	if err != nil {
		return "", "", castAt(0, err)
	}
	b, err := value.AsString(args[1])
	if err != nil {
		return "", "", castAt(1, err)
	}
	return a, b, nil
}

func listAt(args []value.Value, i int) (value.List, error) {
	l, err := value.AsList(args[i])
	if err != nil {
		return value.List{}, castAt(i, err)
	}
	return l, nil
}

func applyOperator(k Kind, args []value.Value) (value.Value, error) {
	switch k {
	case KindAdd, KindSubtract, KindMultiply, KindDivide, KindRemainder, KindLessThan, KindLessOrEqual:
		a, b, err := numbers(args)
		if err != nil {
			return nil, err
		}
		return arithmetic(k, a, b), nil

	case KindNegate:
		a, err := numberAt(args, 0)
		if err != nil {
			return nil, err
		}
		return value.Negate(a), nil

	case KindLength:
		return value.Integer(args[0].Len()), nil

	case KindToNumber:
		s, err := value.AsString(args[0])
		if err != nil {
			return nil, castAt(0, err)
		}
		n, err := value.ParseNumber(string(s))
		if err != nil {
			return nil, &operandError{port: 0, code: ErrCodeParse, err: err}
		}
		return n, nil

	case KindToString:
		return value.String(args[0].String()), nil

	case KindConcat:
		a, b, err := strs(args)
		if err != nil {
			return nil, err
		}
		return a + b, nil

	case KindSubstring:
		return substring(args)

	case KindListAdd:
		l, err := listAt(args, 0)
		if err != nil {
			return nil, err
		}
		return l.Add(args[1]), nil

	case KindListConcat:
		a, err := listAt(args, 0)
		if err != nil {
			return nil, err
		}
		b, err := listAt(args, 1)
		if err != nil {
			return nil, err
		}
		return a.Concat(b), nil

	case KindListIndex:
		l, err := listAt(args, 0)
		if err != nil {
			return nil, err
		}
		i, err := value.AsInteger(args[1])
		if err != nil {
			return nil, castAt(1, err)
		}
		return l.Index(int(i)), nil

	case KindListCdr:
		l, err := listAt(args, 0)
		if err != nil {
			return nil, err
		}
		return l.Cdr(), nil

	case KindAnd:
		a, b, err := bools(args)
		if err != nil {
			return nil, err
		}
		return a && b, nil

	case KindOr:
		a, b, err := bools(args)
		if err != nil {
			return nil, err
		}
		return a || b, nil

	case KindNot:
		a, err := value.AsBool(args[0])
		if err != nil {
			return nil, castAt(0, err)
		}
		return !a, nil

	case KindEqual:
		return value.Bool(args[0].IsEqualTo(args[1])), nil

	case KindTypesEqual:
		return value.Bool(value.TypesEqual(args[0], args[1])), nil
	}
	return nil, fmt.Errorf("%s is not an operator", k)
}

func arithmetic(k Kind, a, b value.Number) value.Value {
	switch k {
	case KindAdd:
		return value.Add(a, b)
	case KindSubtract:
		return value.Subtract(a, b)
	case KindMultiply:
		return value.Multiply(a, b)
	case KindDivide:
		return value.Divide(a, b)
	case KindRemainder:
		return value.Remainder(a, b)
	case KindLessThan:
		return value.Bool(value.LessThan(a, b))
	default: // KindLessOrEqual
		return value.Bool(value.LessThan(a, b) || a.IsEqualTo(b))
	}
}

// substring slices by rune, clamping start and length to the string.
func substring(args []value.Value) (value.Value, error) {
	s, err := value.AsString(args[0])
	if err != nil {
		return nil, castAt(0, err)
	}
	start, err := value.AsInteger(args[1])
	if err != nil {
		return nil, castAt(1, err)
	}
	length, err := value.AsInteger(args[2])
	if err != nil {
		return nil, castAt(2, err)
	}

	runes := []rune(string(s))
	from := min(max(int(start), 0), len(runes))
	to := from + min(max(int(length), 0), len(runes)-from)
	return value.String(runes[from:to]), nil
}
