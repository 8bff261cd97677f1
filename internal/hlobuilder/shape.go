package hlobuilder

import (
	"fmt"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/protos/xla_data"
	"github.com/pkg/errors"
)

// Shape is a minimalistic shape representation of an HLO array: the DType (e.g.: Float32, Int64)
// and the dimensions on each axis. If len(Dimensions) is 0, it represents a scalar.
type Shape struct {
	DType      dtypes.DType
	Dimensions []int
}

// MakeShape filled with the values given.
//
// The dimensions must be >= 0.
func MakeShape(dtype dtypes.DType, dimensions ...int) Shape {
	s, err := MakeShapeOrError(dtype, dimensions...)
	if err != nil {
		exceptions.Panicf("%v", err)
	}
	return s
}

// MakeShapeOrError is the same as MakeShape, but it returns an error instead if a dimension is < 0.
func MakeShapeOrError(dtype dtypes.DType, dimensions ...int) (Shape, error) {
	s := Shape{Dimensions: slices.Clone(dimensions), DType: dtype}
	for _, dim := range dimensions {
		if dim < 0 {
			return Shape{}, errors.Errorf("hlobuilder.MakeShape(%+v): cannot create a shape with an axis with dimension < 0", s)
		}
	}
	return s, nil
}

// IsScalar returns whether the Shape is a scalar, i.e. its len(Shape.Dimensions) == 0.
func (s Shape) IsScalar() bool { return s.Rank() == 0 }

// Rank of a shape is the number of axes. A shortcut to len(Shape.Dimensions).
func (s Shape) Rank() int { return len(s.Dimensions) }

// Size returns the total size of the shape. E.g.: a Shape of dimensions [3, 5] has size 15. A scalar has size 1.
func (s Shape) Size() int {
	size := 1
	for _, dim := range s.Dimensions {
		size *= dim
	}
	return size
}

// Equal compares dtype and dimensions.
func (s Shape) Equal(other Shape) bool {
	return s.DType == other.DType && slices.Equal(s.Dimensions, other.Dimensions)
}

// WithDType returns a copy of the shape with the given dtype.
func (s Shape) WithDType(dtype dtypes.DType) Shape {
	return Shape{DType: dtype, Dimensions: slices.Clone(s.Dimensions)}
}

// String implements fmt.Stringer and pretty-print the shape.
func (s Shape) String() string {
	if s.Rank() == 0 {
		return fmt.Sprintf("(%s)[]", s.DType)
	}
	return fmt.Sprintf("(%s)%v", s.DType, s.Dimensions)
}

// Proto converts the shape to an XLA ShapeProto, with the default (major-to-minor) layout.
func (s Shape) Proto() *xla_data.ShapeProto {
	sp := &xla_data.ShapeProto{
		ElementType: s.DType.PrimitiveType(),
		Dimensions:  make([]int64, s.Rank()),
	}
	minorToMajor := make([]int64, s.Rank())
	for axis, dim := range s.Dimensions {
		sp.Dimensions[axis] = int64(dim)
		minorToMajor[s.Rank()-1-axis] = int64(axis)
	}
	sp.Layout = &xla_data.LayoutProto{MinorToMajor: minorToMajor}
	return sp
}
