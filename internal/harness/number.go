package harness

import "fmt"

// Number is the set of element types the suites are instantiated with.
// The set is closed (no ~) so type switches on the zero value are exhaustive.
type Number interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// Epsilon returns the machine epsilon of T, or 0 for integer types.
func Epsilon[T Number]() float64 {
	var zero T
	switch any(zero).(type) {
	case float32:
		return 1.1920928955078125e-07
	case float64:
		return 2.220446049250313e-16
	}
	return 0
}

// IsFloat reports whether T is a floating point type.
func IsFloat[T Number]() bool {
	return Epsilon[T]() != 0
}

// TypeName returns the Go name of T, used as the prefix of group labels.
func TypeName[T Number]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
