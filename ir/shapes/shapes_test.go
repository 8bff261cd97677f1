package shapes

import (
	"math"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestValueType_Strings(t *testing.T) {
	vt := Make(Float32, 4)
	require.Equal(t, "f32[4]", vt.String())
	require.Equal(t, "tensor<4xf32>", vt.ToIR())

	// Scalar.
	vt = Make(Float32)
	require.Equal(t, "f32[]", vt.String())
	require.Equal(t, "tensor<f32>", vt.ToIR())

	vt = Make(Bool, 2, 3)
	require.Equal(t, "i1[2,3]", vt.String())
	require.Equal(t, "tensor<2x3xi1>", vt.ToIR())

	vt = Make(Uint16, 0)
	require.Equal(t, "ui16[0]", vt.String())
	require.Equal(t, "tensor<0xui16>", vt.ToIR())
}

func TestValueType_Equal(t *testing.T) {
	assert.True(t, Make(Float32, 4).Equal(Make(Float32, 4)))
	assert.False(t, Make(Float32, 4).Equal(Make(Float64, 4)))
	assert.False(t, Make(Float32, 4).Equal(Make(Float32, 4, 1)))
	assert.False(t, Make(Float32).Equal(Make(Float32, 1)))
	assert.True(t, Make(Int8).Equal(Make(Int8)))
}

func TestMakeOrError(t *testing.T) {
	_, err := MakeOrError(Float32, 2, -1)
	require.Error(t, err)

	_, err = MakeOrError(InvalidElementType, 2)
	require.ErrorIs(t, err, ErrUnsupportedElementType)

	require.Panics(t, func() { Make(Float32, -3) })

	// Number of elements must fit an int.
	_, err = MakeOrError(Float32, math.MaxInt/2, 3)
	require.Error(t, err)
	_, err = MakeOrError(Float32, math.MaxInt, math.MaxInt)
	require.Error(t, err)
	vt, err := MakeOrError(Float32, 0, math.MaxInt, math.MaxInt)
	require.NoError(t, err)
	require.Equal(t, 0, vt.Size())
	vt, err = MakeOrError(Uint8, math.MaxInt)
	require.NoError(t, err)
	require.Equal(t, math.MaxInt, vt.Size())
}

func TestShape_Immutable(t *testing.T) {
	dims := []int{2, 3}
	vt := Make(Float32, dims...)
	dims[0] = 7
	require.Equal(t, 2, vt.Shape.Dim(0))

	got := vt.Shape.Dimensions()
	got[1] = 11
	require.Equal(t, 3, vt.Shape.Dim(1))
	require.Equal(t, 6, vt.Size())
}

func TestFromDType(t *testing.T) {
	for dtype, want := range map[dtypes.DType]ElementType{
		dtypes.Bool:     Bool,
		dtypes.S8:       Int8,
		dtypes.S32:      Int32,
		dtypes.S64:      Int64,
		dtypes.U8:       Uint8,
		dtypes.U64:      Uint64,
		dtypes.Float16:  Float16,
		dtypes.BFloat16: BFloat16,
		dtypes.F32:      Float32,
		dtypes.F64:      Float64,
	} {
		got, err := FromDType(dtype)
		require.NoErrorf(t, err, "dtype %s", dtype)
		require.Equalf(t, want, got, "dtype %s", dtype)
	}

	_, err := FromDType(dtypes.Complex64)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnsupportedElementType))
	require.Contains(t, err.Error(), dtypes.Complex64.String())

	_, err = FromDType(dtypes.InvalidDType)
	require.ErrorIs(t, err, ErrUnsupportedElementType)
}

var allElementTypes = []ElementType{
	Bool, Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64, Float16, BFloat16, Float32, Float64,
}

// TestValueType_StringsDistinct checks that canonical strings never collide for distinct types,
// and are stable across calls.
func TestValueType_StringsDistinct(t *testing.T) {
	genType := rapid.Custom(func(t *rapid.T) ValueType {
		elem := rapid.SampledFrom(allElementTypes).Draw(t, "elem")
		dims := rapid.SliceOfN(rapid.IntRange(0, 12), 0, 4).Draw(t, "dims")
		return Make(elem, dims...)
	})
	rapid.Check(t, func(t *rapid.T) {
		a := genType.Draw(t, "a")
		b := genType.Draw(t, "b")
		if a.String() != a.String() || a.ToIR() != a.ToIR() {
			t.Fatalf("unstable string for %s", a)
		}
		if a.Equal(b) != (a.String() == b.String()) {
			t.Fatalf("Equal(%s, %s)=%v disagrees with canonical strings", a, b, a.Equal(b))
		}
		if a.Equal(b) != (a.ToIR() == b.ToIR()) {
			t.Fatalf("Equal(%s, %s)=%v disagrees with IR strings %q, %q", a, b, a.Equal(b), a.ToIR(), b.ToIR())
		}
	})
}

func TestLiteral(t *testing.T) {
	l, err := NewLiteral(Make(Float32), []float64{1})
	require.NoError(t, err)
	require.Equal(t, "dense<1e+00> : tensor<f32>", l.ToIR())

	l, err = NewLiteral(Make(Int32, 2, 2), []int64{1, 2, 3, -4})
	require.NoError(t, err)
	require.Equal(t, "dense<[[1, 2], [3, -4]]> : tensor<2x2xi32>", l.ToIR())

	l, err = NewLiteral(Make(Bool, 3), []bool{true, false, true})
	require.NoError(t, err)
	require.Equal(t, "dense<[true, false, true]> : tensor<3xi1>", l.ToIR())

	l, err = NewLiteral(Make(Uint8, 2, 0), []uint64{})
	require.NoError(t, err)
	require.Equal(t, "dense<[[], []]> : tensor<2x0xui8>", l.ToIR())

	l, err = NewLiteral(Make(Float32, 2), []float64{math.NaN(), math.Inf(-1)})
	require.NoError(t, err)
	require.Equal(t, "dense<[0x7FC00000, 0xFF800000]> : tensor<2xf32>", l.ToIR())

	l, err = NewLiteral(Make(Float64), []float64{math.Inf(1)})
	require.NoError(t, err)
	require.Equal(t, "dense<0x7FF0000000000000> : tensor<f64>", l.ToIR())

	l, err = NewLiteral(Make(Float16), []float64{math.Inf(1)})
	require.NoError(t, err)
	require.Equal(t, "dense<0x7C00> : tensor<f16>", l.ToIR())

	l, err = NewLiteral(Make(BFloat16), []float64{math.Inf(-1)})
	require.NoError(t, err)
	require.Equal(t, "dense<0xFF80> : tensor<bf16>", l.ToIR())

	require.True(t, l.Equal(l))
}

func TestLiteral_Errors(t *testing.T) {
	_, err := NewLiteral(Make(Float32, 2), []float64{1})
	require.Error(t, err)

	_, err = NewLiteral(Make(Int32), []float64{1})
	require.Error(t, err)

	_, err = NewLiteral(Make(Uint32), []int64{1})
	require.Error(t, err)

	_, err = NewLiteral(Make(Bool), []int64{1})
	require.Error(t, err)
}

func TestLiteral_Precision(t *testing.T) {
	one := must.M1(NewLiteral(Make(Float32), []float64{1}))
	next := must.M1(NewLiteral(Make(Float32), []float64{float64(float32(1.0000001))}))
	require.Equal(t, "dense<1.0000001e+00> : tensor<f32>", next.ToIR())
	require.NotEqual(t, one.ToIR(), next.ToIR())
	require.False(t, one.Equal(next))

	l := must.M1(NewLiteral(Make(Float32, 2), []float64{float64(float32(0.1)), -2.5}))
	require.Equal(t, "dense<[1e-01, -2.5e+00]> : tensor<2xf32>", l.ToIR())

	a := must.M1(NewLiteral(Make(Float64), []float64{1}))
	b := must.M1(NewLiteral(Make(Float64), []float64{1.0000000001}))
	require.Equal(t, "dense<1.0000000001e+00> : tensor<f64>", b.ToIR())
	require.False(t, a.Equal(b))

	l = must.M1(NewLiteral(Make(Float16, 2), []float64{0.5, 1024}))
	require.Equal(t, "dense<[5e-01, 1.024e+03]> : tensor<2xf16>", l.ToIR())

	// NaN equals itself, and the flat payload is kept as given.
	nan := must.M1(NewLiteral(Make(Float64, 2), []float64{math.NaN(), 3}))
	require.True(t, nan.Equal(nan))
	require.Equal(t, []float64{3}, nan.Flat().([]float64)[1:])
	ints := must.M1(NewLiteral(Make(Int64, 2), []int64{1, 2}))
	require.False(t, ints.Equal(must.M1(NewLiteral(Make(Int64, 2), []int64{1, 3}))))
	require.True(t, ints.Equal(must.M1(NewLiteral(Make(Int64, 2), []int64{1, 2}))))
	require.Equal(t, []int64{1, 2}, ints.Flat())
}
