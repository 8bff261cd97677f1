package hlograph

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/protos/hlo"
	"github.com/gomlx/gopjrt/protos/xla_data"
	"github.com/gomlx/hlobridge/internal/hlobuilder"
	"github.com/gomlx/hlobridge/ir/shapes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

// referenceComputation is x + 1.0, for x f32[4].
func referenceComputation(t *testing.T) *hlobuilder.Computation {
	b := hlobuilder.New("reference")
	x := b.ParameterWithShape(hlobuilder.MakeShape(dtypes.F32, 4))
	comp, err := b.Build(b.Add(x, b.ConstantF32Scalar(1.0)))
	require.NoError(t, err)
	return comp
}

func TestParse(t *testing.T) {
	comp := referenceComputation(t)
	g, err := Parse(must.M1(comp.SerializedHLO()))
	require.NoError(t, err)
	require.Equal(t, "reference", g.Name)
	require.Equal(t, "reference", g.Computation)
	require.Equal(t, []shapes.ValueType{shapes.Make(shapes.Float32, 4)}, g.Params)
	require.Equal(t, []string{"arg0"}, g.ParamNames)
	require.Len(t, g.Records, 4)
	require.Equal(t, 3, g.Root)

	var opcodes []string
	for i, rec := range g.Records {
		require.Equal(t, i, rec.Index)
		opcodes = append(opcodes, rec.Opcode)
	}
	require.Equal(t, []string{"parameter", "constant", "broadcast", "add"}, opcodes)
	require.Equal(t, []int{0, 2}, g.Records[3].Operands)
	require.Equal(t, []int{1}, g.Records[2].Operands)
	require.True(t, g.Records[1].Type.Equal(shapes.Make(shapes.Float32)))
	require.Equal(t, "add.4", g.Records[3].Name)

	// The text format gives the same graph.
	gText, err := ParseText([]byte(comp.TextHLO()))
	require.NoError(t, err)
	require.Equal(t, g.Name, gText.Name)
	require.Equal(t, g.Params, gText.Params)
	require.Equal(t, g.Root, gText.Root)
	require.Len(t, gText.Records, len(g.Records))
	for i := range g.Records {
		require.Equal(t, g.Records[i].Opcode, gText.Records[i].Opcode)
		require.Equal(t, g.Records[i].Operands, gText.Records[i].Operands)
		require.True(t, g.Records[i].Type.Equal(gText.Records[i].Type))
	}

	_, err = Parse([]byte{0xFF, 0xFF, 0xFF})
	require.ErrorIs(t, err, ErrMalformedGraph)
	_, err = ParseText([]byte("not a { proto"))
	require.ErrorIs(t, err, ErrMalformedGraph)
}

func TestFromProto_Malformed(t *testing.T) {
	entryOf := func(module *hlo.HloModuleProto) *hlo.HloComputationProto {
		return module.GetComputations()[0]
	}

	t.Run("ForwardReference", func(t *testing.T) {
		module := referenceComputation(t).Proto()
		instructions := entryOf(module).GetInstructions()
		instructions[2].OperandIds = []int64{instructions[3].GetId()}
		_, err := FromProto(module)
		require.ErrorIs(t, err, ErrMalformedGraph)
		require.ErrorContains(t, err, "broadcast.3")
	})

	t.Run("SelfReference", func(t *testing.T) {
		module := referenceComputation(t).Proto()
		add := entryOf(module).GetInstructions()[3]
		add.OperandIds[1] = add.GetId()
		_, err := FromProto(module)
		require.ErrorIs(t, err, ErrMalformedGraph)
	})

	t.Run("DuplicateID", func(t *testing.T) {
		module := referenceComputation(t).Proto()
		instructions := entryOf(module).GetInstructions()
		instructions[1].Id = instructions[0].GetId()
		_, err := FromProto(module)
		require.ErrorIs(t, err, ErrMalformedGraph)
		require.ErrorContains(t, err, "reuses id")
	})

	t.Run("MissingEntry", func(t *testing.T) {
		module := referenceComputation(t).Proto()
		module.EntryComputationId = 7
		_, err := FromProto(module)
		require.ErrorIs(t, err, ErrMalformedGraph)

		module.EntryComputationId = 0
		module.EntryComputationName = "other"
		_, err = FromProto(module)
		require.ErrorIs(t, err, ErrMalformedGraph)

		_, err = FromProto(&hlo.HloModuleProto{Name: "empty"})
		require.ErrorIs(t, err, ErrMalformedGraph)
		_, err = FromProto(nil)
		require.ErrorIs(t, err, ErrMalformedGraph)
	})

	t.Run("BadRoot", func(t *testing.T) {
		module := referenceComputation(t).Proto()
		entryOf(module).RootId = 100
		_, err := FromProto(module)
		require.ErrorIs(t, err, ErrMalformedGraph)
	})

	t.Run("OverflowingShape", func(t *testing.T) {
		module := referenceComputation(t).Proto()
		constant := entryOf(module).GetInstructions()[1]
		constant.Shape = &xla_data.ShapeProto{
			ElementType: xla_data.PrimitiveType_F32,
			Dimensions:  []int64{1 << 32, 1 << 32},
		}
		constant.Literal = &xla_data.LiteralProto{Shape: constant.Shape}
		_, err := FromProto(module)
		require.ErrorIs(t, err, ErrMalformedGraph)
		require.ErrorContains(t, err, "overflows")
	})

	t.Run("Unsupported", func(t *testing.T) {
		module := referenceComputation(t).Proto()
		entryOf(module).GetInstructions()[1].Shape = &xla_data.ShapeProto{
			TupleShapes: []*xla_data.ShapeProto{hlobuilder.MakeShape(dtypes.F32).Proto()},
		}
		_, err := FromProto(module)
		require.ErrorIs(t, err, shapes.ErrUnsupportedElementType)

		module = referenceComputation(t).Proto()
		entryOf(module).GetInstructions()[0].Shape = hlobuilder.MakeShape(dtypes.Complex64, 4).Proto()
		_, err = FromProto(module)
		require.ErrorIs(t, err, shapes.ErrUnsupportedElementType)
		require.ErrorContains(t, err, "arg0")
	})
}

func TestFromProto_EntrySelection(t *testing.T) {
	module := referenceComputation(t).Proto()
	other := &hlo.HloComputationProto{Name: "other", Id: 2}
	module.Computations = append(module.Computations, other)

	// By id.
	g := must.M1(FromProto(module))
	require.Equal(t, "reference", g.Computation)

	// By name.
	module.EntryComputationId = 0
	module.EntryComputationName = "other"
	g = must.M1(FromProto(module))
	require.Equal(t, "other", g.Computation)
	require.Empty(t, g.Records)
	require.Equal(t, -1, g.Root)

	// Last computation by default.
	module.EntryComputationName = ""
	module.Computations[0], module.Computations[1] = module.Computations[1], module.Computations[0]
	g = must.M1(FromProto(module))
	require.Equal(t, "reference", g.Computation)
}

func TestFromProto_Root(t *testing.T) {
	module := referenceComputation(t).Proto()
	entry := module.GetComputations()[0]
	entry.RootId = entry.GetInstructions()[1].GetId()
	g := must.M1(FromProto(module))
	require.Equal(t, 1, g.Root)

	entry.RootId = 0
	g = must.M1(FromProto(module))
	require.Equal(t, 3, g.Root)
}

func TestFromProto_InferParameters(t *testing.T) {
	b := hlobuilder.New("infer")
	x := b.ParameterWithShape(hlobuilder.MakeShape(dtypes.F32, 3))
	y := b.ParameterWithShape(hlobuilder.MakeShape(dtypes.S32, 3))
	module := must.M1(b.Build(b.Add(b.Convert(y, dtypes.F32), x))).Proto()
	module.GetComputations()[0].ProgramShape = nil
	module.HostProgramShape = nil
	g := must.M1(FromProto(module))
	require.Equal(t, []shapes.ValueType{shapes.Make(shapes.Float32, 3), shapes.Make(shapes.Int32, 3)}, g.Params)
	require.Nil(t, g.ParamNames)

	// Parameter numbers must be dense.
	module.GetComputations()[0].GetInstructions()[1].ParameterNumber = 5
	_, err := FromProto(module)
	require.ErrorIs(t, err, ErrMalformedGraph)
	module.GetComputations()[0].GetInstructions()[1].ParameterNumber = 0
	_, err = FromProto(module)
	require.ErrorIs(t, err, ErrMalformedGraph)
}

func TestValidate(t *testing.T) {
	vt := shapes.Make(shapes.Float32)
	g := &Graph{
		Name: "handmade",
		Records: []OpRecord{
			{Index: 0, Name: "p", Opcode: "parameter", Type: vt},
			{Index: 1, Name: "n", Opcode: "negate", Operands: []int{0}, Type: vt},
		},
		Root: 1,
	}
	require.NoError(t, g.Validate())

	g.Records[1].Operands[0] = 1
	require.ErrorIs(t, g.Validate(), ErrMalformedGraph)
	g.Records[1].Operands[0] = -1
	require.ErrorIs(t, g.Validate(), ErrMalformedGraph)
	g.Records[1].Operands[0] = 0

	g.Root = 2
	require.ErrorIs(t, g.Validate(), ErrMalformedGraph)
	g.Root = 1

	g.Records[1].Index = 3
	require.ErrorIs(t, g.Validate(), ErrMalformedGraph)

	require.NoError(t, (&Graph{Root: -1}).Validate())
	require.ErrorIs(t, (&Graph{Root: 0}).Validate(), ErrMalformedGraph)
}
