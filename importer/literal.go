package importer

import (
	"encoding/binary"

	"github.com/chewxy/math32"
	"github.com/gomlx/gopjrt/protos/xla_data"
	"github.com/gomlx/hlobridge/hlograph"
	"github.com/gomlx/hlobridge/ir/shapes"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// decodeLiteral converts an XLA LiteralProto holding a value of type vt.
func decodeLiteral(lp *xla_data.LiteralProto, vt shapes.ValueType) (shapes.Literal, error) {
	if lp == nil {
		return shapes.Literal{}, errors.Wrap(hlograph.ErrMalformedGraph, "missing literal")
	}
	if lp.GetShape() != nil {
		literalType, err := hlograph.ValueTypeFromShape(lp.GetShape())
		if err != nil {
			return shapes.Literal{}, errors.WithMessage(err, "literal shape")
		}
		if !literalType.Equal(vt) {
			return shapes.Literal{}, errors.Wrapf(hlograph.ErrMalformedGraph, "literal of type %s for a result of type %s",
				literalType, vt)
		}
	}

	var (
		literal shapes.Literal
		err     error
	)
	switch vt.ElementType {
	case shapes.Bool:
		literal, err = shapes.NewLiteral(vt, lp.GetPreds())
	case shapes.Int8:
		flat := make([]int64, len(lp.GetS8S()))
		for i, v := range lp.GetS8S() {
			flat[i] = int64(int8(v))
		}
		literal, err = shapes.NewLiteral(vt, flat)
	case shapes.Int16:
		literal, err = shapes.NewLiteral(vt, mapUint16s(lp.GetS16S(), func(v uint16) int64 { return int64(int16(v)) }))
	case shapes.Int32:
		literal, err = shapes.NewLiteral(vt, widen[int64](lp.GetS32S()))
	case shapes.Int64:
		literal, err = shapes.NewLiteral(vt, lp.GetS64S())
	case shapes.Uint8:
		literal, err = shapes.NewLiteral(vt, widen[uint64](lp.GetU8S()))
	case shapes.Uint16:
		literal, err = shapes.NewLiteral(vt, mapUint16s(lp.GetU16S(), func(v uint16) uint64 { return uint64(v) }))
	case shapes.Uint32:
		literal, err = shapes.NewLiteral(vt, widen[uint64](lp.GetU32S()))
	case shapes.Uint64:
		literal, err = shapes.NewLiteral(vt, lp.GetU64S())
	case shapes.Float16:
		literal, err = shapes.NewLiteral(vt, mapUint16s(lp.GetF16S(), func(v uint16) float64 {
			return float64(float16.Frombits(v).Float32())
		}))
	case shapes.BFloat16:
		literal, err = shapes.NewLiteral(vt, mapUint16s(lp.GetBf16S(), func(v uint16) float64 {
			return float64(math32.Float32frombits(uint32(v) << 16))
		}))
	case shapes.Float32:
		literal, err = shapes.NewLiteral(vt, widen[float64](lp.GetF32S()))
	case shapes.Float64:
		literal, err = shapes.NewLiteral(vt, lp.GetF64S())
	default:
		return shapes.Literal{}, errors.Wrapf(shapes.ErrUnsupportedElementType, "literal of type %s", vt)
	}
	if err != nil {
		return shapes.Literal{}, errors.Wrapf(hlograph.ErrMalformedGraph, "invalid literal: %v", err)
	}
	return literal, nil
}

// widen converts a slice of numbers to a slice of a wider type.
func widen[To int64 | uint64 | float64, From int32 | uint8 | uint32 | float32](values []From) []To {
	out := make([]To, len(values))
	for i, v := range values {
		out[i] = To(v)
	}
	return out
}

// mapUint16s reads little-endian 16-bit values from data and converts each with fn.
// A trailing odd byte is ignored.
func mapUint16s[T int64 | uint64 | float64](data []byte, fn func(uint16) T) []T {
	out := make([]T, len(data)/2)
	for i := range out {
		out[i] = fn(binary.LittleEndian.Uint16(data[2*i:]))
	}
	return out
}
