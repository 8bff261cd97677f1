// Package shapes defines the typed value model of the IR: element types, shapes,
// value types and literal constants.
package shapes

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Shape is the ordered list of dimensions of a tensor. An empty Shape is a scalar.
//
// A Shape is immutable: the dimensions are copied in and out.
type Shape struct {
	dims []int
}

// MakeShape creates a Shape with the given dimensions. It returns an error if any dimension is
// negative, or if the number of elements doesn't fit an int.
func MakeShape(dimensions ...int) (Shape, error) {
	size := 1
	for axis, dim := range dimensions {
		if dim < 0 {
			return Shape{}, errors.Errorf("shapes.MakeShape(%v): axis %d has negative dimension %d", dimensions, axis, dim)
		}
		if dim != 0 && size > math.MaxInt/dim {
			return Shape{}, errors.Errorf("shapes.MakeShape(%v): number of elements overflows", dimensions)
		}
		size *= dim
	}
	if len(dimensions) == 0 {
		return Shape{}, nil
	}
	return Shape{dims: slices.Clone(dimensions)}, nil
}

// Rank is the number of axes. Scalars have rank 0.
func (s Shape) Rank() int { return len(s.dims) }

// IsScalar returns whether the shape has rank 0.
func (s Shape) IsScalar() bool { return len(s.dims) == 0 }

// Dim returns the dimension of the given axis.
func (s Shape) Dim(axis int) int { return s.dims[axis] }

// Dimensions returns a copy of the dimensions.
func (s Shape) Dimensions() []int { return slices.Clone(s.dims) }

// Size returns the number of elements. A scalar has size 1.
func (s Shape) Size() int {
	size := 1
	for _, dim := range s.dims {
		size *= dim
	}
	return size
}

// Equal returns whether both shapes have the same dimensions.
func (s Shape) Equal(other Shape) bool { return slices.Equal(s.dims, other.dims) }

// String returns the dimensions in brackets, e.g. "[2,3]" or "[]".
func (s Shape) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, dim := range s.dims {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(dim))
	}
	sb.WriteByte(']')
	return sb.String()
}

// ValueType is the type of an IR value: an element type and a shape.
// It is comparable with Equal, not with ==.
type ValueType struct {
	ElementType ElementType
	Shape       Shape
}

// Make creates a ValueType. It panics if the dimensions are invalid, see MakeOrError.
func Make(elem ElementType, dimensions ...int) ValueType {
	vt, err := MakeOrError(elem, dimensions...)
	if err != nil {
		exceptions.Panicf("shapes.Make(%s, %v): %v", elem, dimensions, err)
	}
	return vt
}

// MakeOrError is the same as Make, but it returns an error instead of panicking.
func MakeOrError(elem ElementType, dimensions ...int) (ValueType, error) {
	if !elem.IsValid() {
		return ValueType{}, errors.Wrapf(ErrUnsupportedElementType, "element type %d", int(elem))
	}
	shape, err := MakeShape(dimensions...)
	if err != nil {
		return ValueType{}, err
	}
	return ValueType{ElementType: elem, Shape: shape}, nil
}

// Rank is a shortcut to vt.Shape.Rank().
func (vt ValueType) Rank() int { return vt.Shape.Rank() }

// Size is a shortcut to vt.Shape.Size().
func (vt ValueType) Size() int { return vt.Shape.Size() }

// IsScalar is a shortcut to vt.Shape.IsScalar().
func (vt ValueType) IsScalar() bool { return vt.Shape.IsScalar() }

// Equal returns whether vt and other have the same element type and dimensions.
func (vt ValueType) Equal(other ValueType) bool {
	return vt.ElementType == other.ElementType && vt.Shape.Equal(other.Shape)
}

// WithElementType returns a ValueType with the same shape and the given element type.
func (vt ValueType) WithElementType(elem ElementType) ValueType {
	return ValueType{ElementType: elem, Shape: vt.Shape}
}

// String implements fmt.Stringer with the canonical form, e.g. "f32[4]" or "f32[]" for a scalar.
func (vt ValueType) String() string {
	return vt.ElementType.String() + vt.Shape.String()
}

// ToIR returns the IR type annotation, e.g. "tensor<4xf32>" or "tensor<f32>".
func (vt ValueType) ToIR() string {
	var sb strings.Builder
	_ = vt.WriteIR(&sb)
	return sb.String()
}

// WriteIR writes the IR type annotation to the given writer.
func (vt ValueType) WriteIR(writer io.Writer) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}
	w("tensor<")
	for _, dim := range vt.Shape.dims {
		w("%dx", dim)
	}
	w("%s>", vt.ElementType)
	return err
}
