package importer

import (
	"slices"

	"github.com/gomlx/hlobridge/hlograph"
	"github.com/gomlx/hlobridge/ir"
	"github.com/gomlx/hlobridge/ir/shapes"
	"github.com/pkg/errors"
)

// malformedf returns an error wrapping hlograph.ErrMalformedGraph, with the record's context.
func (ctx *DecodeContext) malformedf(format string, args ...any) error {
	err := errors.Wrapf(hlograph.ErrMalformedGraph, format, args...)
	return errors.WithMessagef(err, "instruction %q (#%d, opcode %q)",
		ctx.Record.Name, ctx.Record.Index, ctx.Record.Opcode)
}

func parameterAttributes(ctx *DecodeContext) ([]ir.Attribute, error) {
	number := ctx.Record.Instruction.GetParameterNumber()
	if number < 0 || number >= int64(len(ctx.Params)) {
		return nil, ctx.malformedf("parameter number %d out of range, %d parameters declared", number, len(ctx.Params))
	}
	return []ir.Attribute{{Name: "index", Value: number}}, nil
}

func verifyParameter(ctx *DecodeContext) error {
	number := ctx.Record.Instruction.GetParameterNumber()
	if declared := ctx.Params[number]; !declared.Equal(ctx.Record.Type) {
		return ctx.malformedf("parameter %d has type %s, but it is declared as %s", number, ctx.Record.Type, declared)
	}
	return nil
}

func constantAttributes(ctx *DecodeContext) ([]ir.Attribute, error) {
	literal, err := decodeLiteral(ctx.Record.Instruction.GetLiteral(), ctx.Record.Type)
	if err != nil {
		return nil, errors.WithMessagef(err, "instruction %q (#%d, opcode %q)",
			ctx.Record.Name, ctx.Record.Index, ctx.Record.Opcode)
	}
	return []ir.Attribute{{Name: "value", Value: literal}}, nil
}

// singleDimension returns the only value of the instruction's dimensions, checked against rank.
func (ctx *DecodeContext) singleDimension(rank int) (int64, error) {
	dims := ctx.Record.Instruction.GetDimensions()
	if len(dims) != 1 {
		return 0, ctx.malformedf("expected exactly one dimension, got %v", dims)
	}
	if dims[0] < 0 || dims[0] >= int64(rank) {
		return 0, ctx.malformedf("dimension %d out of range for rank %d", dims[0], rank)
	}
	return dims[0], nil
}

func iotaAttributes(ctx *DecodeContext) ([]ir.Attribute, error) {
	axis, err := ctx.singleDimension(ctx.Record.Type.Rank())
	if err != nil {
		return nil, err
	}
	return []ir.Attribute{{Name: "iota_dimension", Value: axis}}, nil
}

func concatenateAttributes(ctx *DecodeContext) ([]ir.Attribute, error) {
	axis, err := ctx.singleDimension(ctx.Record.Type.Rank())
	if err != nil {
		return nil, err
	}
	return []ir.Attribute{{Name: "dimension", Value: axis}}, nil
}

// dimensionsAttribute returns a decoder of the instruction's dimensions into an attribute with the given name.
func dimensionsAttribute(name string) func(ctx *DecodeContext) ([]ir.Attribute, error) {
	return func(ctx *DecodeContext) ([]ir.Attribute, error) {
		dims := append([]int64{}, ctx.Record.Instruction.GetDimensions()...)
		return []ir.Attribute{{Name: name, Value: dims}}, nil
	}
}

func sliceAttributes(ctx *DecodeContext) ([]ir.Attribute, error) {
	operand := ctx.Operands[0]
	sliceDims := ctx.Record.Instruction.GetSliceDimensions()
	if len(sliceDims) != operand.Rank() {
		return nil, ctx.malformedf("slice of operand %s needs %d slice dimensions, got %d",
			operand, operand.Rank(), len(sliceDims))
	}
	starts := make([]int64, len(sliceDims))
	limits := make([]int64, len(sliceDims))
	strides := make([]int64, len(sliceDims))
	for axis, sd := range sliceDims {
		starts[axis], limits[axis], strides[axis] = sd.GetStart(), sd.GetLimit(), sd.GetStride()
		if strides[axis] <= 0 || starts[axis] < 0 || limits[axis] < starts[axis] || limits[axis] > int64(operand.Shape.Dim(axis)) {
			return nil, ctx.malformedf("invalid slice [%d:%d:%d] of axis %d of operand %s",
				starts[axis], limits[axis], strides[axis], axis, operand)
		}
		if want := (limits[axis] - starts[axis] + strides[axis] - 1) / strides[axis]; axis >= ctx.Record.Type.Rank() ||
			int64(ctx.Record.Type.Shape.Dim(axis)) != want {
			return nil, ctx.malformedf("slice [%d:%d:%d] of axis %d yields %d elements, result type is %s",
				starts[axis], limits[axis], strides[axis], axis, want, ctx.Record.Type)
		}
	}
	return []ir.Attribute{
		{Name: "start_indices", Value: starts},
		{Name: "limit_indices", Value: limits},
		{Name: "strides", Value: strides},
	}, nil
}

func dotAttributes(ctx *DecodeContext) ([]ir.Attribute, error) {
	dn := ctx.Record.Instruction.GetDotDimensionNumbers()
	lhsContracting := append([]int64{}, dn.GetLhsContractingDimensions()...)
	rhsContracting := append([]int64{}, dn.GetRhsContractingDimensions()...)
	if dn == nil {
		// Plain matrix/vector product: contract the last axis of lhs with the first of rhs.
		if ctx.Operands[0].IsScalar() || ctx.Operands[1].IsScalar() {
			return nil, ctx.malformedf("dot of %s and %s without dot_dimension_numbers needs operands of rank >= 1",
				ctx.Operands[0], ctx.Operands[1])
		}
		lhsContracting = []int64{int64(ctx.Operands[0].Rank() - 1)}
		rhsContracting = []int64{0}
	}
	return []ir.Attribute{
		{Name: "lhs_batching_dimensions", Value: append([]int64{}, dn.GetLhsBatchDimensions()...)},
		{Name: "rhs_batching_dimensions", Value: append([]int64{}, dn.GetRhsBatchDimensions()...)},
		{Name: "lhs_contracting_dimensions", Value: lhsContracting},
		{Name: "rhs_contracting_dimensions", Value: rhsContracting},
	}, nil
}

var comparisonDirections = []string{"EQ", "NE", "GE", "GT", "LE", "LT"}

func compareAttributes(ctx *DecodeContext) ([]ir.Attribute, error) {
	direction := ctx.Record.Instruction.GetComparisonDirection()
	if !slices.Contains(comparisonDirections, direction) {
		return nil, ctx.malformedf("invalid comparison direction %q", direction)
	}
	return []ir.Attribute{{Name: "comparison_direction", Value: direction}}, nil
}

func verifySameType(ctx *DecodeContext) error {
	for i, operand := range ctx.Operands {
		if !operand.Equal(ctx.Record.Type) {
			return ctx.malformedf("operand #%d has type %s, expected %s", i, operand, ctx.Record.Type)
		}
	}
	return nil
}

func verifySameShape(ctx *DecodeContext) error {
	for i, operand := range ctx.Operands {
		if !operand.Shape.Equal(ctx.Record.Type.Shape) {
			return ctx.malformedf("operand #%d has shape %s, expected %s", i, operand.Shape, ctx.Record.Type.Shape)
		}
	}
	return nil
}

func verifySameElementType(ctx *DecodeContext) error {
	for i, operand := range ctx.Operands {
		if operand.ElementType != ctx.Record.Type.ElementType {
			return ctx.malformedf("operand #%d has type %s, expected element type %s",
				i, operand, ctx.Record.Type.ElementType)
		}
	}
	return nil
}

func verifyBroadcast(ctx *DecodeContext) error {
	if err := verifySameElementType(ctx); err != nil {
		return err
	}
	operand, result := ctx.Operands[0], ctx.Record.Type
	axes := ctx.Record.Instruction.GetDimensions()
	if len(axes) != operand.Rank() {
		return ctx.malformedf("broadcast of %s needs %d broadcast dimensions, got %v", operand, operand.Rank(), axes)
	}
	for i, axis := range axes {
		if axis < 0 || axis >= int64(result.Rank()) || operand.Shape.Dim(i) != result.Shape.Dim(int(axis)) {
			return ctx.malformedf("cannot broadcast %s to %s with broadcast dimensions %v", operand, result, axes)
		}
	}
	return nil
}

func verifyReshape(ctx *DecodeContext) error {
	if err := verifySameElementType(ctx); err != nil {
		return err
	}
	if ctx.Operands[0].Size() != ctx.Record.Type.Size() {
		return ctx.malformedf("cannot reshape %s to %s", ctx.Operands[0], ctx.Record.Type)
	}
	return nil
}

func verifyTranspose(ctx *DecodeContext) error {
	if err := verifySameElementType(ctx); err != nil {
		return err
	}
	operand, result := ctx.Operands[0], ctx.Record.Type
	permutation := ctx.Record.Instruction.GetDimensions()
	if len(permutation) != operand.Rank() || result.Rank() != operand.Rank() {
		return ctx.malformedf("invalid permutation %v to transpose %s to %s", permutation, operand, result)
	}
	seen := make([]bool, operand.Rank())
	for i, axis := range permutation {
		if axis < 0 || axis >= int64(len(seen)) || seen[axis] || result.Shape.Dim(i) != operand.Shape.Dim(int(axis)) {
			return ctx.malformedf("invalid permutation %v to transpose %s to %s", permutation, operand, result)
		}
		seen[axis] = true
	}
	return nil
}

func verifyCompare(ctx *DecodeContext) error {
	lhs, rhs := ctx.Operands[0], ctx.Operands[1]
	if !lhs.Equal(rhs) {
		return ctx.malformedf("cannot compare operands of types %s and %s", lhs, rhs)
	}
	if want := lhs.WithElementType(shapes.Bool); !ctx.Record.Type.Equal(want) {
		return ctx.malformedf("comparison of %s yields %s, got %s", lhs, want, ctx.Record.Type)
	}
	return nil
}

func verifySelect(ctx *DecodeContext) error {
	pred, onTrue, onFalse := ctx.Operands[0], ctx.Operands[1], ctx.Operands[2]
	if pred.ElementType != shapes.Bool || !(pred.IsScalar() || pred.Shape.Equal(ctx.Record.Type.Shape)) {
		return ctx.malformedf("invalid select predicate type %s for result %s", pred, ctx.Record.Type)
	}
	if !onTrue.Equal(ctx.Record.Type) || !onFalse.Equal(ctx.Record.Type) {
		return ctx.malformedf("select between %s and %s cannot yield %s", onTrue, onFalse, ctx.Record.Type)
	}
	return nil
}

func verifyClamp(ctx *DecodeContext) error {
	if !ctx.Operands[1].Equal(ctx.Record.Type) {
		return ctx.malformedf("clamp operand has type %s, expected %s", ctx.Operands[1], ctx.Record.Type)
	}
	for _, bound := range []shapes.ValueType{ctx.Operands[0], ctx.Operands[2]} {
		if bound.ElementType != ctx.Record.Type.ElementType || !(bound.IsScalar() || bound.Shape.Equal(ctx.Record.Type.Shape)) {
			return ctx.malformedf("clamp bound of type %s incompatible with %s", bound, ctx.Record.Type)
		}
	}
	return nil
}

func verifyIsFinite(ctx *DecodeContext) error {
	operand := ctx.Operands[0]
	if !operand.ElementType.IsFloat() {
		return ctx.malformedf("is-finite requires a floating point operand, got %s", operand)
	}
	if want := operand.WithElementType(shapes.Bool); !ctx.Record.Type.Equal(want) {
		return ctx.malformedf("is-finite of %s yields %s, got %s", operand, want, ctx.Record.Type)
	}
	return nil
}
