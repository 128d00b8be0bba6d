// Package value provides the runtime value model for vls scripts.
//
// Values are immutable. A Value is exactly one of Null, Integer, Double,
// Bool, String or List; the interface is sealed so no other package can add
// variants. Lists are persistent: every list operation returns a new List and
// never mutates its receiver.
//
// Numeric operations promote across variants:
//   - Integer op Integer stays Integer, except an inexact Divide
//   - any operation mixing Integer and Double yields Double
//   - division by zero yields IEEE infinity or NaN, never an error
//
// This package imports nothing internal. Every other internal package builds
// on it.
package value
