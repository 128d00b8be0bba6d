package value

import "math"

// Number is implemented by Integer and Double.
type Number interface {
	Value
	number()
}

func (Integer) number() {}
func (Double) number()  {}

// Float returns n as a float64.
func Float(n Number) float64 {
	switch v := n.(type) {
	case Integer:
		return float64(v)
	case Double:
		return float64(v)
	}
	return math.NaN()
}

// Add returns a + b. Integer + Integer wraps on overflow.
func Add(a, b Number) Number {
	if x, ok := a.(Integer); ok {
		if y, ok := b.(Integer); ok {
			return x + y
		}
	}
	return Double(Float(a) + Float(b))
}

// Subtract returns a - b, i.e. Add(a, Negate(b)).
func Subtract(a, b Number) Number {
	return Add(a, Negate(b))
}

// Multiply returns a * b.
func Multiply(a, b Number) Number {
	if x, ok := a.(Integer); ok {
		if y, ok := b.(Integer); ok {
			return x * y
		}
	}
	return Double(Float(a) * Float(b))
}

// Divide returns a / b. Two Integers divide to an Integer only when the
// division is exact and the denominator is non-zero; otherwise the result
// is a Double, which covers division by zero with IEEE semantics.
func Divide(a, b Number) Number {
	if x, ok := a.(Integer); ok {
		if y, ok := b.(Integer); ok && y != 0 && x%y == 0 {
			// MinInt32 / -1 overflows; wrap like the other operations.
			return Integer(int64(x) / int64(y))
		}
	}
	return Double(Float(a) / Float(b))
}

// Remainder returns a mod b with the sign of a. Integer operands with a
// non-zero divisor stay Integer; everything else follows math.Mod, so a
// zero divisor yields NaN.
func Remainder(a, b Number) Number {
	if x, ok := a.(Integer); ok {
		if y, ok := b.(Integer); ok && y != 0 {
			return Integer(int64(x) % int64(y))
		}
	}
	return Double(math.Mod(Float(a), Float(b)))
}

// Negate returns -a.
func Negate(a Number) Number {
	switch v := a.(type) {
	case Integer:
		return -v
	case Double:
		return -v
	}
	return Double(math.NaN())
}

// LessThan compares numerically regardless of variant.
func LessThan(a, b Number) bool {
	if x, ok := a.(Integer); ok {
		if y, ok := b.(Integer); ok {
			return x < y
		}
	}
	return Float(a) < Float(b)
}
