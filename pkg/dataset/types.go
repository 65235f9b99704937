// Package dataset provides the in-memory particle table model: an explicit
// schema of typed fields and an ordered slice of rows aligned with it.
//
// Values are held in widened Go types regardless of their stored width:
//
//	KindInt   -> int64   (vector: []int64)
//	KindUint  -> uint64  (vector: []uint64)
//	KindFloat -> float64 (vector: []float64)
//	KindBytes -> string
//
// The stored width lives in the field's Type and is applied when a table is
// written back out.
package dataset

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/csutil/pkg/errors"
)

// Kind is the value class of a field.
type Kind uint8

// Kind values.
const (
	KindInvalid Kind = iota
	KindInt
	KindUint
	KindFloat
	KindBytes
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	default:
		return "invalid"
	}
}

// Type describes how a field is stored. Size is the element byte width
// (string capacity for KindBytes). A non-empty Shape makes the field a
// fixed-size vector of Elems() elements.
type Type struct {
	Kind  Kind
	Size  int
	Shape []int
}

// Common types.
var (
	Int32   = Type{Kind: KindInt, Size: 4}
	Int64   = Type{Kind: KindInt, Size: 8}
	Uint32  = Type{Kind: KindUint, Size: 4}
	Uint64  = Type{Kind: KindUint, Size: 8}
	Float32 = Type{Kind: KindFloat, Size: 4}
	Float64 = Type{Kind: KindFloat, Size: 8}
)

// Bytes returns a fixed-capacity byte string type.
func Bytes(size int) Type {
	return Type{Kind: KindBytes, Size: size}
}

// Vector returns a vector type of the given element type and shape.
func Vector(elem Type, shape ...int) Type {
	elem.Shape = slices.Clone(shape)
	return elem
}

// IsVector reports whether the type has a sub-array shape.
func (t Type) IsVector() bool {
	return len(t.Shape) > 0
}

// Elems returns the number of elements of one value (1 for scalars).
func (t Type) Elems() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Width returns the number of bytes one value occupies on disk.
func (t Type) Width() int {
	return t.Size * t.Elems()
}

// Equal reports whether two types are identical.
func (t Type) Equal(o Type) bool {
	return t.Kind == o.Kind && t.Size == o.Size && slices.Equal(t.Shape, o.Shape)
}

// Validate checks that the type can be stored.
func (t Type) Validate() error {
	switch t.Kind {
	case KindInt, KindUint:
		if t.Size != 1 && t.Size != 2 && t.Size != 4 && t.Size != 8 {
			return errors.NewValidationError("size", t.Size, fmt.Sprintf("unsupported %s width", t.Kind))
		}
	case KindFloat:
		if t.Size != 4 && t.Size != 8 {
			return errors.NewValidationError("size", t.Size, "unsupported float width")
		}
	case KindBytes:
		if t.Size < 1 {
			return errors.NewValidationError("size", t.Size, "byte strings need a positive capacity")
		}
		if t.IsVector() {
			return errors.NewValidationError("shape", t.Shape, "byte string vectors are not supported")
		}
	default:
		return errors.NewValidationError("kind", t.Kind, "invalid kind")
	}
	for _, d := range t.Shape {
		if d < 1 {
			return errors.NewValidationError("shape", t.Shape, "dimensions must be positive")
		}
	}
	return nil
}

// String renders the type the way a NumPy descr spells it, e.g. "<f4",
// "|S64" or "<f4(3,)".
func (t Type) String() string {
	var b strings.Builder
	switch t.Kind {
	case KindInt:
		b.WriteString(byteOrderMark(t.Size) + "i" + strconv.Itoa(t.Size))
	case KindUint:
		b.WriteString(byteOrderMark(t.Size) + "u" + strconv.Itoa(t.Size))
	case KindFloat:
		b.WriteString("<f" + strconv.Itoa(t.Size))
	case KindBytes:
		b.WriteString("|S" + strconv.Itoa(t.Size))
	default:
		return "invalid"
	}
	if t.IsVector() {
		b.WriteString(ShapeString(t.Shape))
	}
	return b.String()
}

// ShapeString renders a shape as a Python tuple.
func ShapeString(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func byteOrderMark(size int) string {
	if size == 1 {
		return "|"
	}
	return "<"
}

// Zero returns the zero value of the type.
func (t Type) Zero() any {
	if t.IsVector() {
		switch t.Kind {
		case KindInt:
			return make([]int64, t.Elems())
		case KindUint:
			return make([]uint64, t.Elems())
		case KindFloat:
			return make([]float64, t.Elems())
		}
	}
	switch t.Kind {
	case KindInt:
		return int64(0)
	case KindUint:
		return uint64(0)
	case KindFloat:
		return float64(0)
	case KindBytes:
		return ""
	}
	return nil
}

// Check verifies that v is a well-formed value of the type.
func (t Type) Check(v any) error {
	if t.IsVector() {
		n := -1
		switch x := v.(type) {
		case []int64:
			if t.Kind == KindInt {
				n = len(x)
			}
		case []uint64:
			if t.Kind == KindUint {
				n = len(x)
			}
		case []float64:
			if t.Kind == KindFloat {
				n = len(x)
			}
		}
		if n < 0 {
			return fmt.Errorf("value of type %T does not fit %s", v, t)
		}
		if n != t.Elems() {
			return fmt.Errorf("vector has %d elements, %s needs %d", n, t, t.Elems())
		}
		return nil
	}

	switch x := v.(type) {
	case int64:
		if t.Kind == KindInt {
			return nil
		}
	case uint64:
		if t.Kind == KindUint {
			return nil
		}
	case float64:
		if t.Kind == KindFloat {
			return nil
		}
	case string:
		if t.Kind == KindBytes {
			if len(x) > t.Size {
				return fmt.Errorf("string of %d bytes exceeds %s", len(x), t)
			}
			return nil
		}
	}
	return fmt.Errorf("value of type %T does not fit %s", v, t)
}

// Convert returns v converted to the type. Integers and floats convert
// between each other; vectors must have the same number of elements.
// Narrowing that would lose an integer's value is an error.
func (t Type) Convert(v any) (any, error) {
	if t.IsVector() {
		src, err := floats(v)
		if err != nil {
			return nil, err
		}
		if len(src) != t.Elems() {
			return nil, fmt.Errorf("vector has %d elements, %s needs %d", len(src), t, t.Elems())
		}
		switch t.Kind {
		case KindInt:
			out := make([]int64, len(src))
			for i, f := range src {
				out[i] = int64(f)
			}
			if x, ok := v.([]int64); ok {
				copy(out, x)
			}
			return out, nil
		case KindUint:
			out := make([]uint64, len(src))
			for i, f := range src {
				out[i] = uint64(f)
			}
			if x, ok := v.([]uint64); ok {
				copy(out, x)
			}
			return out, nil
		case KindFloat:
			return src, nil
		}
		return nil, fmt.Errorf("cannot convert %T to %s", v, t)
	}

	switch t.Kind {
	case KindInt:
		switch x := v.(type) {
		case int64:
			return x, nil
		case uint64:
			if x > math.MaxInt64 {
				return nil, fmt.Errorf("%d overflows %s", x, t)
			}
			return int64(x), nil
		case float64:
			return int64(x), nil
		}
	case KindUint:
		switch x := v.(type) {
		case int64:
			if x < 0 {
				return nil, fmt.Errorf("%d is negative, cannot store as %s", x, t)
			}
			return uint64(x), nil
		case uint64:
			return x, nil
		case float64:
			return uint64(x), nil
		}
	case KindFloat:
		switch x := v.(type) {
		case int64:
			return float64(x), nil
		case uint64:
			return float64(x), nil
		case float64:
			return x, nil
		}
	case KindBytes:
		if s, ok := v.(string); ok {
			if len(s) > t.Size {
				return nil, fmt.Errorf("string of %d bytes exceeds %s", len(s), t)
			}
			return s, nil
		}
	}
	return nil, fmt.Errorf("cannot convert %T to %s", v, t)
}

// floats widens a numeric vector to float64, copying it.
func floats(v any) ([]float64, error) {
	switch x := v.(type) {
	case []float64:
		return slices.Clone(x), nil
	case []int64:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out, nil
	case []uint64:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%T is not a numeric vector", v)
}

// Clone returns a deep copy of a value. Scalars are returned as is.
func Clone(v any) any {
	switch x := v.(type) {
	case []int64:
		return slices.Clone(x)
	case []uint64:
		return slices.Clone(x)
	case []float64:
		return slices.Clone(x)
	}
	return v
}

// AsInt64 returns an integer value as int64.
func AsInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

// AsFloat64 returns a numeric scalar as float64.
func AsFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// ValuesEqual reports whether two values are identical, comparing vectors
// element-wise.
func ValuesEqual(a, b any) bool {
	switch x := a.(type) {
	case []int64:
		y, ok := b.([]int64)
		return ok && slices.Equal(x, y)
	case []uint64:
		y, ok := b.([]uint64)
		return ok && slices.Equal(x, y)
	case []float64:
		y, ok := b.([]float64)
		return ok && slices.Equal(x, y)
	}
	return a == b
}
