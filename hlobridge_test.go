package hlobridge

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/protos/hlo"
	"github.com/gomlx/hlobridge/importer"
	"github.com/gomlx/hlobridge/internal/hlobuilder"
	"github.com/gomlx/hlobridge/ir"
	"github.com/gomlx/hlobridge/ir/optypes"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

// buildAddOne builds f(x) = x + 1.0, for x of type f32 with the given dimensions.
func buildAddOne(t *testing.T, name string, dims ...int) *hlobuilder.Computation {
	b := hlobuilder.New(name)
	x := b.ParameterWithShape(hlobuilder.MakeShape(dtypes.F32, dims...))
	comp, err := b.Build(b.Add(x, b.ConstantF32Scalar(1.0)))
	require.NoError(t, err)
	return comp
}

// TestLoadScalarAdd imports x + 1.0 with x a scalar: two producers and one add consuming both.
func TestLoadScalarAdd(t *testing.T) {
	m, err := Load(must.M1(buildAddOne(t, "scalar_add").SerializedHLO()))
	require.NoError(t, err)
	require.Len(t, m.Functions(), 1)
	fn := m.Functions()[0]
	require.Equal(t, "main", fn.Name())
	ops := fn.Ops()
	require.Len(t, ops, 3)
	param, constant, add := m.Op(ops[0]), m.Op(ops[1]), m.Op(ops[2])
	require.Equal(t, optypes.Parameter, param.Type)
	require.Equal(t, optypes.Constant, constant.Type)
	require.Equal(t, optypes.Add, add.Type)
	require.Equal(t, []ir.ValueID{param.Result, constant.Result}, add.Operands)

	asm := Print(m)
	fmt.Printf("%s", asm)
	require.Regexp(t, regexp.MustCompile(`xla_hlo\.add`), asm)
	require.Contains(t, asm, "%2 = xla_hlo.add %0, %1 : tensor<f32>")
}

// TestLoadReferenceComputation imports x + 1.0 with x f32[4], as produced by the XLA client, which
// broadcasts the constant implicitly.
func TestLoadReferenceComputation(t *testing.T) {
	comp := buildAddOne(t, "reference", 4)
	m, err := Load(must.M1(comp.SerializedHLO()))
	require.NoError(t, err)
	asm := Print(m)
	require.Regexp(t, `xla_hlo\.add`, asm)
	g := goldie.New(t)
	g.Assert(t, "reference", []byte(asm))

	// Text format and an already parsed proto give the same assembly.
	fromText, err := Import().WithHLOText([]byte(comp.TextHLO())).Done()
	require.NoError(t, err)
	require.Equal(t, asm, Print(fromText))
	fromProto, err := Import().WithProto(comp.Proto()).Done()
	require.NoError(t, err)
	require.Equal(t, asm, Print(fromProto))

	// Printing is deterministic.
	require.Equal(t, asm, Print(m))
}

func TestImportConfig(t *testing.T) {
	comp := buildAddOne(t, "config", 2)
	registry := must.M1(importer.DefaultRegistry().With(
		importer.Handler{Opcode: "add", Op: optypes.Maximum, Arity: 2}))
	m, err := Import().
		WithHLO(must.M1(comp.SerializedHLO())).
		WithRegistry(registry).
		WithFunctionName("add_one").
		Done()
	require.NoError(t, err)
	asm := Print(m)
	require.Contains(t, asm, "func @add_one(tensor<2xf32>) -> tensor<2xf32> {")
	require.Contains(t, asm, "xla_hlo.max %0, %2")
	require.NotContains(t, asm, "xla_hlo.add")

	// Single use.
	ic := Import().WithHLO(must.M1(comp.SerializedHLO()))
	_, err = ic.Done()
	require.NoError(t, err)
	_, err = ic.Done()
	require.Error(t, err)

	// Program is required, and only once.
	_, err = Import().Done()
	require.Error(t, err)
	require.Panics(t, func() { Import().WithHLO([]byte{}).WithProto(comp.Proto()) })
	require.Panics(t, func() { Import().WithProto(nil) })
}

func TestErrors(t *testing.T) {
	_, err := Load(nil)
	require.ErrorIs(t, err, ErrMalformedGraph)

	b := hlobuilder.New("unknown")
	x := b.ParameterWithShape(hlobuilder.MakeShape(dtypes.F32))
	comp := must.M1(b.Build(b.Unary("erf", x)))
	_, err = Load(must.M1(comp.SerializedHLO()))
	require.ErrorIs(t, err, ErrUnknownOpcode)
	require.True(t, errors.Is(err, importer.ErrUnknownOpcode))

	b = hlobuilder.New("arity")
	x = b.ParameterWithShape(hlobuilder.MakeShape(dtypes.F32))
	comp = must.M1(b.Build(b.Instruction("negate", x.Shape, nil, x, x)))
	_, err = Load(must.M1(comp.SerializedHLO()))
	require.ErrorIs(t, err, ErrArityMismatch)

	b = hlobuilder.New("complex")
	x = b.ParameterWithShape(hlobuilder.MakeShape(dtypes.Complex64, 2))
	comp = must.M1(b.Build(b.Neg(x)))
	_, err = Load(must.M1(comp.SerializedHLO()))
	require.ErrorIs(t, err, ErrUnsupportedElementType)

	// A constant whose number of elements overflows is rejected, instead of yielding a Module that can't be printed.
	comp = buildAddOne(t, "huge", 4)
	constant := comp.Proto().GetComputations()[0].GetInstructions()[1]
	constant.Shape.Dimensions = []int64{1 << 32, 1 << 32}
	constant.Literal.F32S = nil
	_, err = Load(must.M1(proto.Marshal(comp.Proto())))
	require.ErrorIs(t, err, ErrMalformedGraph)

	comp = buildAddOne(t, "forward", 4)
	add := comp.Proto().GetComputations()[0].GetInstructions()[3]
	add.OperandIds[0] = add.GetId() + 1
	_, err = Import().WithProto(comp.Proto()).Done()
	require.ErrorIs(t, err, ErrMalformedGraph)
}

func TestLoadAll(t *testing.T) {
	var blobs [][]byte
	for i := range 16 {
		dims := make([]int, i%3)
		for axis := range dims {
			dims[axis] = i + axis + 1
		}
		blobs = append(blobs, must.M1(buildAddOne(t, fmt.Sprintf("program_%d", i), dims...).SerializedHLO()))
	}
	modules, err := LoadAll(context.Background(), blobs)
	require.NoError(t, err)
	require.Len(t, modules, len(blobs))
	for i, blob := range blobs {
		want := Print(must.M1(Load(blob)))
		require.Equal(t, want, Print(modules[i]))
	}

	// First error wins, and no modules are returned.
	badProgram := &hlo.HloModuleProto{Name: "bad"}
	blobs = append(blobs, must.M1(proto.Marshal(badProgram)))
	modules, err = LoadAll(context.Background(), blobs)
	require.ErrorIs(t, err, ErrMalformedGraph)
	require.ErrorContains(t, err, "#16")
	require.Nil(t, modules)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LoadAll(ctx, blobs[:1])
	require.ErrorIs(t, err, context.Canceled)
}
