// Package ir holds the in-memory intermediate representation produced by the importer:
// a Module owning Functions, each with one Block of Operations in SSA form.
//
// The Module is an arena: values and operations are stored in dense slices and referred
// to by index (ValueID, OpID). A Module is populated with a Builder, and once built it
// is immutable and safe to share among concurrent readers (e.g. printers).
package ir

import (
	"slices"

	"github.com/gomlx/hlobridge/ir/optypes"
	"github.com/gomlx/hlobridge/ir/shapes"
)

// ValueID identifies a value in its Module. It is a dense index into the Module's value arena.
type ValueID int

// NoValue marks the absence of a value, e.g. the result of a function with an empty body.
const NoValue ValueID = -1

// OpID identifies an operation in its Module. It is a dense index into the Module's operation arena.
type OpID int

// Attribute is a named, typed attribute of an Operation.
//
// Supported value types are int64, []int64, string, bool and shapes.Literal.
type Attribute struct {
	Name  string
	Value any
}

// Operation is one SSA operation: an OpType applied to operands, with attributes, producing one result.
type Operation struct {
	Type       optypes.OpType
	Operands   []ValueID
	Attributes []Attribute
	Result     ValueID
}

// Attribute returns the value of the attribute with the given name, if present.
func (op Operation) Attribute(name string) (any, bool) {
	for _, attr := range op.Attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return nil, false
}

func (op Operation) clone() Operation {
	op.Operands = slices.Clone(op.Operands)
	op.Attributes = slices.Clone(op.Attributes)
	return op
}

// Function is a named function with typed parameters and a single block body.
type Function struct {
	name   string
	params []shapes.ValueType
	body   []OpID
	result ValueID
}

// Name of the function, without the "@" prefix.
func (fn *Function) Name() string { return fn.name }

// Params returns the types of the function parameters, in declaration order.
func (fn *Function) Params() []shapes.ValueType { return slices.Clone(fn.params) }

// Ops returns the operations of the function body (its only block), in program order.
func (fn *Function) Ops() []OpID { return slices.Clone(fn.body) }

// NumOps returns the number of operations in the function body.
func (fn *Function) NumOps() int { return len(fn.body) }

// Result returns the value returned by the function, or NoValue if it returns nothing.
func (fn *Function) Result() ValueID { return fn.result }

type valueInfo struct {
	vtype    shapes.ValueType
	producer OpID
	fn       *Function
}

// Module owns all functions, operations and values reachable from it.
type Module struct {
	name      string
	functions []*Function
	byName    map[string]*Function
	values    []valueInfo
	ops       []Operation
}

// Name of the module.
func (m *Module) Name() string { return m.name }

// Functions returns the functions in creation order.
func (m *Module) Functions() []*Function { return slices.Clone(m.functions) }

// Function returns the function with the given name.
func (m *Module) Function(name string) (*Function, bool) {
	fn, found := m.byName[name]
	return fn, found
}

// NumValues returns the number of values in the module.
func (m *Module) NumValues() int { return len(m.values) }

// NumOps returns the number of operations in the module.
func (m *Module) NumOps() int { return len(m.ops) }

// Op returns a copy of the operation with the given id.
func (m *Module) Op(id OpID) Operation { return m.ops[id].clone() }

// ValueType returns the type of the given value.
func (m *Module) ValueType(v ValueID) shapes.ValueType { return m.values[v].vtype }

// Producer returns the operation that produced the given value.
func (m *Module) Producer(v ValueID) OpID { return m.values[v].producer }

// ResultType returns the type returned by fn, and false if it returns nothing.
func (m *Module) ResultType(fn *Function) (shapes.ValueType, bool) {
	if fn.result == NoValue {
		return shapes.ValueType{}, false
	}
	return m.values[fn.result].vtype, true
}
