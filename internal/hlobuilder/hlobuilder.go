// Package hlobuilder builds XLA HLO modules (HloModuleProto) in pure Go.
//
// It mimics the XLA client ComputationBuilder closely enough to produce the graphs the
// importer consumes in tests and in the hlo_to_asm demo: instruction ids start at 1, names
// are "<opcode>.<id>", and binary operations between an array and a scalar insert an
// implicit "broadcast" of the scalar.
//
// Errors are sticky: the first error is kept, later operations become no-ops, and it is
// returned by Builder.Build.
package hlobuilder

import (
	"fmt"
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/protos/hlo"
	"github.com/gomlx/gopjrt/protos/xla_data"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
)

// Builder accumulates the instructions of one computation.
type Builder struct {
	name         string
	instructions []*hlo.HloInstructionProto
	parameters   []Shape
	paramNames   []string
	nextID       int64
	err          error
}

// Op is the output of an instruction added to a Builder.
type Op struct {
	builder *Builder
	id      int64

	// Shape of the instruction's output.
	Shape Shape
}

// ID of the instruction that produced the Op.
func (op *Op) ID() int64 { return op.id }

// New creates a Builder for a computation with the given name.
func New(name string) *Builder {
	return &Builder{name: name, nextID: 1}
}

// Err returns the first error encountered while building, if any.
func (b *Builder) Err() error { return b.err }

// fail records the error (if it's the first) and returns a placeholder Op.
func (b *Builder) fail(err error) *Op {
	if b.err == nil {
		b.err = err
	}
	return &Op{builder: b, id: -1}
}

// add appends an instruction and returns its Op and proto, for the caller to set attributes.
func (b *Builder) add(opcode string, shape Shape, operands ...*Op) (*Op, *hlo.HloInstructionProto) {
	id := b.nextID
	b.nextID++
	instr := &hlo.HloInstructionProto{
		Name:   fmt.Sprintf("%s.%d", opcode, id),
		Opcode: opcode,
		Shape:  shape.Proto(),
		Id:     id,
	}
	for _, operand := range operands {
		instr.OperandIds = append(instr.OperandIds, operand.id)
	}
	b.instructions = append(b.instructions, instr)
	return &Op{builder: b, id: id, Shape: shape}, instr
}

func (b *Builder) checkOperands(opcode string, operands ...*Op) bool {
	if b.err != nil {
		return false
	}
	for i, operand := range operands {
		if operand == nil || operand.builder != b {
			b.fail(errors.Errorf("%s: operand #%d is nil or from another builder", opcode, i))
			return false
		}
	}
	return true
}

// Parameter adds the next parameter of the computation, with the given name and shape.
func (b *Builder) Parameter(name string, shape Shape) *Op {
	if b.err != nil {
		return b.fail(nil)
	}
	op, instr := b.add("parameter", shape)
	instr.ParameterNumber = int64(len(b.parameters))
	if name != "" {
		instr.Name = name
	}
	b.parameters = append(b.parameters, shape)
	b.paramNames = append(b.paramNames, name)
	return op
}

// ParameterWithShape adds the next parameter with a generated name.
func (b *Builder) ParameterWithShape(shape Shape) *Op {
	return b.Parameter(fmt.Sprintf("arg%d", len(b.parameters)), shape)
}

// Instruction adds an arbitrary instruction, with no shape checking.
// The configure function, if not nil, is called to set attributes on the instruction proto.
func (b *Builder) Instruction(opcode string, shape Shape, configure func(instr *hlo.HloInstructionProto), operands ...*Op) *Op {
	if !b.checkOperands(opcode, operands...) {
		return b.fail(nil)
	}
	op, instr := b.add(opcode, shape, operands...)
	if configure != nil {
		configure(instr)
	}
	return op
}

// Unary adds an elementwise unary instruction, whose output has the operand's shape.
func (b *Builder) Unary(opcode string, x *Op) *Op {
	if !b.checkOperands(opcode, x) {
		return b.fail(nil)
	}
	op, _ := b.add(opcode, x.Shape, x)
	return op
}

// Binary adds an elementwise binary instruction. If one operand is a scalar and the other isn't,
// the scalar is broadcast first, as the XLA client does.
func (b *Builder) Binary(opcode string, lhs, rhs *Op) *Op {
	lhs, rhs, ok := b.implicitBroadcast(opcode, lhs, rhs)
	if !ok {
		return b.fail(nil)
	}
	op, _ := b.add(opcode, lhs.Shape, lhs, rhs)
	return op
}

func (b *Builder) implicitBroadcast(opcode string, lhs, rhs *Op) (*Op, *Op, bool) {
	if !b.checkOperands(opcode, lhs, rhs) {
		return nil, nil, false
	}
	if lhs.Shape.DType != rhs.Shape.DType {
		b.fail(errors.Errorf("%s: operands have different dtypes %s and %s", opcode, lhs.Shape, rhs.Shape))
		return nil, nil, false
	}
	switch {
	case slices.Equal(lhs.Shape.Dimensions, rhs.Shape.Dimensions):
	case lhs.Shape.IsScalar():
		lhs = b.BroadcastInDim(lhs, rhs.Shape.Dimensions, nil)
	case rhs.Shape.IsScalar():
		rhs = b.BroadcastInDim(rhs, lhs.Shape.Dimensions, nil)
	default:
		b.fail(errors.Errorf("%s: incompatible operand shapes %s and %s", opcode, lhs.Shape, rhs.Shape))
		return nil, nil, false
	}
	return lhs, rhs, b.err == nil
}

// Add adds x + y.
func (b *Builder) Add(x, y *Op) *Op { return b.Binary("add", x, y) }

// Mul adds x * y.
func (b *Builder) Mul(x, y *Op) *Op { return b.Binary("multiply", x, y) }

// Neg adds -x.
func (b *Builder) Neg(x *Op) *Op { return b.Unary("negate", x) }

// Compare adds an elementwise comparison, direction is one of "EQ", "NE", "GE", "GT", "LE", "LT".
func (b *Builder) Compare(x, y *Op, direction string) *Op {
	x, y, ok := b.implicitBroadcast("compare", x, y)
	if !ok {
		return b.fail(nil)
	}
	op, instr := b.add("compare", x.Shape.WithDType(dtypes.Bool), x, y)
	instr.ComparisonDirection = direction
	return op
}

// Select adds pred ? onTrue : onFalse, elementwise.
func (b *Builder) Select(pred, onTrue, onFalse *Op) *Op {
	if !b.checkOperands("select", pred, onTrue, onFalse) {
		return b.fail(nil)
	}
	op, _ := b.add("select", onTrue.Shape, pred, onTrue, onFalse)
	return op
}

// BroadcastInDim broadcasts x to the given dimensions, mapping the axes of x to the
// given broadcast axes of the output.
func (b *Builder) BroadcastInDim(x *Op, dimensions []int, broadcastAxes []int) *Op {
	if !b.checkOperands("broadcast", x) {
		return b.fail(nil)
	}
	if len(broadcastAxes) != x.Shape.Rank() {
		return b.fail(errors.Errorf("broadcast: operand %s needs %d broadcast axes, got %v",
			x.Shape, x.Shape.Rank(), broadcastAxes))
	}
	op, instr := b.add("broadcast", MakeShape(x.Shape.DType, dimensions...), x)
	instr.Dimensions = toInt64s(broadcastAxes)
	return op
}

// Reshape x to the given dimensions.
func (b *Builder) Reshape(x *Op, dimensions ...int) *Op {
	if !b.checkOperands("reshape", x) {
		return b.fail(nil)
	}
	shape := MakeShape(x.Shape.DType, dimensions...)
	if shape.Size() != x.Shape.Size() {
		return b.fail(errors.Errorf("reshape: cannot reshape %s to %s", x.Shape, shape))
	}
	op, _ := b.add("reshape", shape, x)
	return op
}

// Transpose x with the given permutation of axes.
func (b *Builder) Transpose(x *Op, permutation ...int) *Op {
	if !b.checkOperands("transpose", x) {
		return b.fail(nil)
	}
	if len(permutation) != x.Shape.Rank() {
		return b.fail(errors.Errorf("transpose: operand %s needs a permutation of %d axes, got %v",
			x.Shape, x.Shape.Rank(), permutation))
	}
	dims := make([]int, len(permutation))
	for i, axis := range permutation {
		dims[i] = x.Shape.Dimensions[axis]
	}
	op, instr := b.add("transpose", MakeShape(x.Shape.DType, dims...), x)
	instr.Dimensions = toInt64s(permutation)
	return op
}

// Convert x to the given dtype.
func (b *Builder) Convert(x *Op, dtype dtypes.DType) *Op {
	if !b.checkOperands("convert", x) {
		return b.fail(nil)
	}
	op, _ := b.add("convert", x.Shape.WithDType(dtype), x)
	return op
}

// Iota adds a constant of the given shape, counting along the given axis.
func (b *Builder) Iota(shape Shape, axis int) *Op {
	if b.err != nil {
		return b.fail(nil)
	}
	op, instr := b.add("iota", shape)
	instr.Dimensions = []int64{int64(axis)}
	return op
}

// Computation is the result of Builder.Build.
type Computation struct {
	module *hlo.HloModuleProto
}

// Build the HLO module with root as the computation result. A nil root builds a computation
// without a result.
func (b *Builder) Build(root *Op) (*Computation, error) {
	if b.err != nil {
		return nil, b.err
	}
	if root != nil && root.builder != b {
		return nil, errors.New("hlobuilder: root Op is from another builder")
	}
	const computationID = 1
	programShape := &xla_data.ProgramShapeProto{}
	for i, param := range b.parameters {
		programShape.Parameters = append(programShape.Parameters, param.Proto())
		programShape.ParameterNames = append(programShape.ParameterNames, b.paramNames[i])
	}
	comp := &hlo.HloComputationProto{
		Name:         b.name,
		Instructions: b.instructions,
		Id:           computationID,
	}
	if root != nil {
		programShape.Result = root.Shape.Proto()
		comp.RootId = root.id
	}
	comp.ProgramShape = programShape
	module := &hlo.HloModuleProto{
		Name:                 b.name,
		EntryComputationName: b.name,
		EntryComputationId:   computationID,
		Computations:         []*hlo.HloComputationProto{comp},
		HostProgramShape:     proto.Clone(programShape).(*xla_data.ProgramShapeProto),
		Id:                   computationID,
	}
	return &Computation{module: module}, nil
}

// Proto returns the HloModuleProto. It is owned by the Computation, and should not be modified,
// except by tests creating malformed modules on purpose.
func (c *Computation) Proto() *hlo.HloModuleProto { return c.module }

// SerializedHLO returns the binary serialized HloModuleProto.
func (c *Computation) SerializedHLO() ([]byte, error) {
	return proto.Marshal(c.module)
}

// TextHLO returns the HloModuleProto in protobuf text format.
func (c *Computation) TextHLO() string {
	return prototext.Format(c.module)
}

func toInt64s(values []int) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}
