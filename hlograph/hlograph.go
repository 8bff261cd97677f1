// Package hlograph deserializes an XLA HLO module (HloModuleProto) into a Graph: the ordered
// list of operation records of its entry computation.
//
// Parsing is pure: it validates the structure of the graph (def-before-use of operands,
// declared parameters, types) but it doesn't create any IR. Attributes are kept in their
// foreign form (the HloInstructionProto) and are decoded by the importer.
package hlograph

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/protos/hlo"
	"github.com/gomlx/gopjrt/protos/xla_data"
	"github.com/gomlx/hlobridge/ir/shapes"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"k8s.io/klog/v2"
)

// ErrMalformedGraph is returned when the serialized graph violates a structural invariant,
// e.g. an operand referencing a result not yet produced.
var ErrMalformedGraph = errors.New("malformed graph")

// OpRecord is one instruction of the entry computation.
type OpRecord struct {
	// Index of the record in Graph.Records.
	Index int

	// Name of the HLO instruction, e.g. "add.4".
	Name string

	// Opcode is the HLO opcode, e.g. "add" or "get-tuple-element".
	Opcode string

	// Operands are indices of earlier records in Graph.Records.
	Operands []int

	// Type of the instruction's result.
	Type shapes.ValueType

	// Instruction holds the foreign attributes (literal, dimensions, comparison direction, ...).
	// It must not be modified.
	Instruction *hlo.HloInstructionProto
}

// Graph is the deserialized entry computation of an HLO module.
type Graph struct {
	// Name of the HLO module.
	Name string

	// Computation is the name of the entry computation.
	Computation string

	// Params are the declared parameter types, in parameter number order.
	Params []shapes.ValueType

	// ParamNames are the declared parameter names, if available.
	ParamNames []string

	// Records in def-before-use order.
	Records []OpRecord

	// Root is the index of the record producing the computation's result, or -1 if there are no records.
	Root int
}

// Parse a binary serialized HloModuleProto.
func Parse(serialized []byte) (*Graph, error) {
	module := &hlo.HloModuleProto{}
	if err := proto.Unmarshal(serialized, module); err != nil {
		return nil, errors.Wrapf(ErrMalformedGraph, "failed to unmarshal HloModuleProto: %v", err)
	}
	return FromProto(module)
}

// ParseText parses an HloModuleProto in protobuf text format.
func ParseText(text []byte) (*Graph, error) {
	module := &hlo.HloModuleProto{}
	if err := prototext.Unmarshal(text, module); err != nil {
		return nil, errors.Wrapf(ErrMalformedGraph, "failed to unmarshal text HloModuleProto: %v", err)
	}
	return FromProto(module)
}

// FromProto converts the entry computation of the given module to a Graph.
func FromProto(module *hlo.HloModuleProto) (*Graph, error) {
	if module == nil {
		return nil, errors.Wrap(ErrMalformedGraph, "nil HloModuleProto")
	}
	comp, err := entryComputation(module)
	if err != nil {
		return nil, err
	}
	g := &Graph{
		Name:        module.GetName(),
		Computation: comp.GetName(),
		Root:        -1,
	}
	if g.Name == "" {
		g.Name = comp.GetName()
	}

	idToIndex := make(map[int64]int, len(comp.GetInstructions()))
	for i, instr := range comp.GetInstructions() {
		id := instr.GetId()
		if prev, found := idToIndex[id]; found {
			return nil, errors.Wrapf(ErrMalformedGraph, "instruction %q (#%d) reuses id %d of instruction %q",
				instr.GetName(), i, id, g.Records[prev].Name)
		}
		vt, err := ValueTypeFromShape(instr.GetShape())
		if err != nil {
			return nil, errors.WithMessagef(err, "instruction %q (#%d, opcode %q)", instr.GetName(), i, instr.GetOpcode())
		}
		operands := make([]int, len(instr.GetOperandIds()))
		for j, operandID := range instr.GetOperandIds() {
			idx, found := idToIndex[operandID]
			if !found {
				return nil, errors.Wrapf(ErrMalformedGraph,
					"instruction %q (#%d, opcode %q) operand #%d references id %d, which is not defined before it",
					instr.GetName(), i, instr.GetOpcode(), j, operandID)
			}
			operands[j] = idx
		}
		g.Records = append(g.Records, OpRecord{
			Index:       i,
			Name:        instr.GetName(),
			Opcode:      instr.GetOpcode(),
			Operands:    operands,
			Type:        vt,
			Instruction: instr,
		})
		idToIndex[id] = i
	}

	if len(g.Records) > 0 {
		if idx, found := idToIndex[comp.GetRootId()]; found {
			g.Root = idx
		} else if comp.GetRootId() != 0 {
			return nil, errors.Wrapf(ErrMalformedGraph, "computation %q root id %d is not one of its instructions",
				comp.GetName(), comp.GetRootId())
		} else {
			g.Root = len(g.Records) - 1
		}
	}

	if err := g.setParams(module, comp); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if klog.V(2).Enabled() {
		klog.Infof("hlograph: module %q, computation %q: %d parameters, %d instructions",
			g.Name, g.Computation, len(g.Params), len(g.Records))
	}
	return g, nil
}

// entryComputation selects the entry computation by id, by name, or defaults to the last one.
func entryComputation(module *hlo.HloModuleProto) (*hlo.HloComputationProto, error) {
	comps := module.GetComputations()
	if len(comps) == 0 {
		return nil, errors.Wrapf(ErrMalformedGraph, "module %q has no computations", module.GetName())
	}
	if id := module.GetEntryComputationId(); id != 0 {
		for _, comp := range comps {
			if comp.GetId() == id {
				return comp, nil
			}
		}
		return nil, errors.Wrapf(ErrMalformedGraph, "module %q entry computation id %d not found", module.GetName(), id)
	}
	if name := module.GetEntryComputationName(); name != "" {
		for _, comp := range comps {
			if comp.GetName() == name {
				return comp, nil
			}
		}
		return nil, errors.Wrapf(ErrMalformedGraph, "module %q entry computation %q not found", module.GetName(), name)
	}
	return comps[len(comps)-1], nil
}

// setParams sets the declared parameters from the computation's program shape, the module's host
// program shape or, if neither is given, from the parameter instructions.
func (g *Graph) setParams(module *hlo.HloModuleProto, comp *hlo.HloComputationProto) error {
	programShape := comp.GetProgramShape()
	if programShape == nil {
		programShape = module.GetHostProgramShape()
	}
	if programShape != nil {
		g.Params = make([]shapes.ValueType, len(programShape.GetParameters()))
		for i, shape := range programShape.GetParameters() {
			vt, err := ValueTypeFromShape(shape)
			if err != nil {
				return errors.WithMessagef(err, "computation %q parameter #%d", comp.GetName(), i)
			}
			g.Params[i] = vt
		}
		if names := programShape.GetParameterNames(); len(names) == len(g.Params) {
			g.ParamNames = names
		}
		return nil
	}

	// Infer from parameter instructions: their numbers must be dense.
	byNumber := make(map[int64]shapes.ValueType)
	for _, rec := range g.Records {
		if rec.Opcode != "parameter" {
			continue
		}
		number := rec.Instruction.GetParameterNumber()
		if _, found := byNumber[number]; found {
			return errors.Wrapf(ErrMalformedGraph, "computation %q declares parameter number %d more than once",
				comp.GetName(), number)
		}
		byNumber[number] = rec.Type
	}
	g.Params = make([]shapes.ValueType, len(byNumber))
	for number, vt := range byNumber {
		if number < 0 || number >= int64(len(byNumber)) {
			return errors.Wrapf(ErrMalformedGraph, "computation %q parameter numbers are not dense: %d parameters but got number %d",
				comp.GetName(), len(byNumber), number)
		}
		g.Params[number] = vt
	}
	return nil
}

// Validate checks that operands are only defined before use, and that Root is consistent.
// It is called by FromProto, and is exported for graphs built by hand.
func (g *Graph) Validate() error {
	for i, rec := range g.Records {
		if rec.Index != i {
			return errors.Wrapf(ErrMalformedGraph, "record %q at position %d has index %d", rec.Name, i, rec.Index)
		}
		for j, operand := range rec.Operands {
			if operand < 0 || operand >= i {
				return errors.Wrapf(ErrMalformedGraph,
					"record %q (#%d, opcode %q) operand #%d references record %d, which is not defined before it",
					rec.Name, i, rec.Opcode, j, operand)
			}
		}
	}
	if len(g.Records) == 0 {
		if g.Root != -1 {
			return errors.Wrapf(ErrMalformedGraph, "graph %q has no records but root is %d", g.Name, g.Root)
		}
	} else if g.Root < 0 || g.Root >= len(g.Records) {
		return errors.Wrapf(ErrMalformedGraph, "graph %q root %d out of range [0, %d)", g.Name, g.Root, len(g.Records))
	}
	return nil
}

// ValueTypeFromShape converts an XLA ShapeProto to a ValueType.
// Tuple shapes and dtypes without an ElementType mapping return an error wrapping
// shapes.ErrUnsupportedElementType.
func ValueTypeFromShape(shape *xla_data.ShapeProto) (shapes.ValueType, error) {
	if shape == nil {
		return shapes.ValueType{}, errors.Wrap(ErrMalformedGraph, "missing shape")
	}
	if len(shape.GetTupleShapes()) > 0 {
		return shapes.ValueType{}, errors.Wrapf(shapes.ErrUnsupportedElementType, "tuple shape with %d elements",
			len(shape.GetTupleShapes()))
	}
	elem, err := shapes.FromDType(dtypes.FromPrimitiveType(shape.GetElementType()))
	if err != nil {
		return shapes.ValueType{}, errors.WithMessagef(err, "primitive type %s", shape.GetElementType())
	}
	dims := make([]int, len(shape.GetDimensions()))
	for i, dim := range shape.GetDimensions() {
		dims[i] = int(dim)
	}
	vt, err := shapes.MakeOrError(elem, dims...)
	if err != nil {
		return shapes.ValueType{}, errors.Wrapf(ErrMalformedGraph, "invalid shape: %v", err)
	}
	return vt, nil
}
