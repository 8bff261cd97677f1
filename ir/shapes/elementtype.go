package shapes

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// ErrUnsupportedElementType is returned when a foreign dtype has no ElementType mapping.
var ErrUnsupportedElementType = errors.New("unsupported element type")

// ElementType is the closed set of scalar types a tensor value can hold in the IR.
type ElementType int

const (
	InvalidElementType ElementType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float16
	BFloat16
	Float32
	Float64
)

var elementTypeNames = [...]string{
	InvalidElementType: "invalid",
	Bool:               "i1",
	Int8:               "i8",
	Int16:              "i16",
	Int32:              "i32",
	Int64:              "i64",
	Uint8:              "ui8",
	Uint16:             "ui16",
	Uint32:             "ui32",
	Uint64:             "ui64",
	Float16:            "f16",
	BFloat16:           "bf16",
	Float32:            "f32",
	Float64:            "f64",
}

// String returns the IR name of the element type, e.g. "f32" or "i1".
func (e ElementType) String() string {
	if e < 0 || int(e) >= len(elementTypeNames) {
		return "invalid"
	}
	return elementTypeNames[e]
}

// IsValid returns whether e is one of the supported element types.
func (e ElementType) IsValid() bool {
	return e > InvalidElementType && int(e) < len(elementTypeNames)
}

// IsFloat returns whether e is a floating point type.
func (e ElementType) IsFloat() bool {
	return e == Float16 || e == BFloat16 || e == Float32 || e == Float64
}

// IsSigned returns whether e is a signed integer type.
func (e ElementType) IsSigned() bool {
	return e >= Int8 && e <= Int64
}

// IsUnsigned returns whether e is an unsigned integer type.
func (e ElementType) IsUnsigned() bool {
	return e >= Uint8 && e <= Uint64
}

// FromDType converts the XLA dtype to the corresponding ElementType.
//
// Complex, tuple, token and the narrow (fp8, 4-bit) dtypes have no IR mapping and
// return an error wrapping ErrUnsupportedElementType.
func FromDType(dtype dtypes.DType) (ElementType, error) {
	switch dtype {
	case dtypes.Bool:
		return Bool, nil
	case dtypes.S8:
		return Int8, nil
	case dtypes.S16:
		return Int16, nil
	case dtypes.S32:
		return Int32, nil
	case dtypes.S64:
		return Int64, nil
	case dtypes.U8:
		return Uint8, nil
	case dtypes.U16:
		return Uint16, nil
	case dtypes.U32:
		return Uint32, nil
	case dtypes.U64:
		return Uint64, nil
	case dtypes.Float16:
		return Float16, nil
	case dtypes.BFloat16:
		return BFloat16, nil
	case dtypes.F32:
		return Float32, nil
	case dtypes.F64:
		return Float64, nil
	}
	return InvalidElementType, errors.Wrapf(ErrUnsupportedElementType, "dtype %s", dtype)
}
