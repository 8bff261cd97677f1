package shapes

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// Literal is a constant tensor value: its type plus the flat, row-major list of elements.
//
// Elements are stored widened by kind: []bool for Bool, []int64 for signed integers,
// []uint64 for unsigned integers and []float64 for floating point types. Narrow floats
// (f16, bf16, f32) hold values exactly representable in their own type.
type Literal struct {
	Type ValueType
	flat any
}

// LiteralElement is the set of Go types used to hold Literal elements.
type LiteralElement interface {
	bool | int64 | uint64 | float64
}

// NewLiteral creates a Literal of the given type, with the flat elements given.
// The Go element type must match the kind of vt.ElementType, and len(flat) must match vt.Size().
func NewLiteral[T LiteralElement](vt ValueType, flat []T) (Literal, error) {
	if len(flat) != vt.Size() {
		return Literal{}, errors.Errorf("literal of type %s needs %d elements, got %d", vt, vt.Size(), len(flat))
	}
	var ok bool
	switch any(flat).(type) {
	case []bool:
		ok = vt.ElementType == Bool
	case []int64:
		ok = vt.ElementType.IsSigned()
	case []uint64:
		ok = vt.ElementType.IsUnsigned()
	case []float64:
		ok = vt.ElementType.IsFloat()
	}
	if !ok {
		return Literal{}, errors.Errorf("literal of type %s cannot hold elements of Go type %T", vt, flat)
	}
	return Literal{Type: vt, flat: flat}, nil
}

// Flat returns the underlying flat slice of elements: one of []bool, []int64, []uint64 or []float64.
// It must not be modified.
func (l Literal) Flat() any { return l.flat }

// Equal returns whether both literals have the same type and elements.
// Floating point elements are compared by bit pattern, so a NaN literal equals itself.
func (l Literal) Equal(other Literal) bool {
	if !l.Type.Equal(other.Type) {
		return false
	}
	switch flat := l.flat.(type) {
	case []bool:
		return slices.Equal(flat, other.flat.([]bool))
	case []int64:
		return slices.Equal(flat, other.flat.([]int64))
	case []uint64:
		return slices.Equal(flat, other.flat.([]uint64))
	case []float64:
		return slices.EqualFunc(flat, other.flat.([]float64), func(a, b float64) bool {
			return math.Float64bits(a) == math.Float64bits(b)
		})
	}
	return false
}

// ToIR returns the IR rendering of the literal, e.g. "dense<[1, 2]> : tensor<2xi32>".
func (l Literal) ToIR() string {
	var sb strings.Builder
	_ = l.WriteIR(&sb)
	return sb.String()
}

// String implements fmt.Stringer. It is the same as ToIR.
func (l Literal) String() string { return l.ToIR() }

// WriteIR writes the dense rendering of the literal followed by its type.
func (l Literal) WriteIR(w io.Writer) error {
	if err := l.writeDense(w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, " : "); err != nil {
		return err
	}
	return l.Type.WriteIR(w)
}

func (l Literal) writeDense(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("dense<")
	if l.Type.IsScalar() {
		if l.Type.Size() > 0 {
			sb.WriteString(l.element(0))
		}
	} else {
		l.writeAxis(&sb, 0, 0)
	}
	sb.WriteString(">")
	_, err := io.WriteString(w, sb.String())
	return err
}

// writeAxis writes the nested list for the given axis, starting at flat position offset.
// It returns the flat position after the written elements.
func (l Literal) writeAxis(sb *strings.Builder, axis, offset int) int {
	sb.WriteByte('[')
	dim := l.Type.Shape.Dim(axis)
	for i := 0; i < dim; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		if axis == l.Type.Rank()-1 {
			sb.WriteString(l.element(offset))
			offset++
		} else {
			offset = l.writeAxis(sb, axis+1, offset)
		}
	}
	sb.WriteByte(']')
	return offset
}

// element renders the element at flat position i.
func (l Literal) element(i int) string {
	switch flat := l.flat.(type) {
	case []bool:
		if flat[i] {
			return "true"
		}
		return "false"
	case []int64:
		return strconv.FormatInt(flat[i], 10)
	case []uint64:
		return strconv.FormatUint(flat[i], 10)
	case []float64:
		return formatFloat(l.Type.ElementType, flat[i])
	}
	return "?"
}

// formatFloat renders finite values in exponent form with the shortest digits that round-trip
// in the element type, and NaN or infinities as the hexadecimal bit pattern of the element type.
func formatFloat(elem ElementType, v float64) string {
	if elem == Float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Sprintf("0x%016X", math.Float64bits(v))
		}
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	f := float32(v)
	if math32.IsNaN(f) || math32.IsInf(f, 0) {
		switch elem {
		case Float16:
			return fmt.Sprintf("0x%04X", float16.Fromfloat32(f).Bits())
		case BFloat16:
			return fmt.Sprintf("0x%04X", math32.Float32bits(f)>>16)
		default:
			return fmt.Sprintf("0x%08X", math32.Float32bits(f))
		}
	}
	return strconv.FormatFloat(float64(f), 'e', -1, 32)
}
