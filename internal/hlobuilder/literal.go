package hlobuilder

import (
	"encoding/binary"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/protos/xla_data"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// ScalarConstant adds a constant with the given scalar value.
func ScalarConstant[T dtypes.Supported](b *Builder, value T) *Op {
	return ArrayConstant(b, []T{value})
}

// ArrayConstant adds a constant initialized from the array flat data (a slice) and the dimensions of the array.
//
// If dimensions is omitted and len(flat) == 1 it creates a scalar.
func ArrayConstant[T dtypes.Supported](b *Builder, flat []T, dimensions ...int) *Op {
	if len(dimensions) == 0 && len(flat) != 1 {
		dimensions = []int{len(flat)}
	}
	shape, err := MakeShapeOrError(dtypes.FromGenericsType[T](), dimensions...)
	if err != nil {
		return b.fail(err)
	}
	if shape.Size() != len(flat) {
		return b.fail(errors.Errorf("ArrayConstant got a slice of length %d, but the shape %s given has %d elements",
			len(flat), shape, shape.Size()))
	}
	literal, err := literalProto(shape, flat)
	if err != nil {
		return b.fail(err)
	}
	op, instr := b.add("constant", shape)
	instr.Literal = literal
	return op
}

// ConstantF32Scalar adds a float32 scalar constant.
func (b *Builder) ConstantF32Scalar(value float32) *Op {
	return ScalarConstant(b, value)
}

// literalProto converts flat Go values to the LiteralProto of the given shape.
func literalProto(shape Shape, flat any) (*xla_data.LiteralProto, error) {
	l := &xla_data.LiteralProto{Shape: shape.Proto()}
	switch values := flat.(type) {
	case []bool:
		l.Preds = values
	case []int8:
		l.S8S = make([]byte, len(values))
		for i, v := range values {
			l.S8S[i] = byte(v)
		}
	case []int16:
		l.S16S = make([]byte, 2*len(values))
		for i, v := range values {
			binary.LittleEndian.PutUint16(l.S16S[2*i:], uint16(v))
		}
	case []int32:
		l.S32S = values
	case []int64:
		l.S64S = values
	case []int:
		l.S64S = make([]int64, len(values))
		for i, v := range values {
			l.S64S[i] = int64(v)
		}
	case []uint8:
		l.U8S = values
	case []uint16:
		l.U16S = make([]byte, 2*len(values))
		for i, v := range values {
			binary.LittleEndian.PutUint16(l.U16S[2*i:], v)
		}
	case []uint32:
		l.U32S = values
	case []uint64:
		l.U64S = values
	case []float16.Float16:
		l.F16S = make([]byte, 2*len(values))
		for i, v := range values {
			binary.LittleEndian.PutUint16(l.F16S[2*i:], v.Bits())
		}
	case []float32:
		l.F32S = values
	case []float64:
		l.F64S = values
	default:
		return nil, errors.Errorf("hlobuilder: constants of Go type %T not supported", flat)
	}
	return l, nil
}
