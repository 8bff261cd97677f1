package ir

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/hlobridge/ir/optypes"
	"github.com/gomlx/hlobridge/ir/shapes"
	"github.com/pkg/errors"
)

// ErrDanglingOperand is returned when an operation references a value that was not
// produced earlier in the same function.
var ErrDanglingOperand = errors.New("dangling operand")

// Builder is used to construct a Module. See NewBuilder.
//
// The Module is populated append-only: create functions with NewFunction and append
// operations to them, then call Build to get the immutable Module. A Builder is owned by
// a single goroutine, and cannot be used after Build.
type Builder struct {
	module *Module
}

// NewBuilder creates a Builder for a new empty Module with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		module: &Module{
			name:   name,
			byName: make(map[string]*Function),
		},
	}
}

func (b *Builder) checkUsable() {
	if b.module == nil {
		exceptions.Panicf("ir.Builder used after Build")
	}
}

// NewFunction adds a new function to the module and returns a FunctionBuilder to populate its body.
// Function names must be unique within the module.
func (b *Builder) NewFunction(name string, params []shapes.ValueType) (*FunctionBuilder, error) {
	b.checkUsable()
	if name == "" {
		return nil, errors.New("function name cannot be empty")
	}
	if _, found := b.module.byName[name]; found {
		return nil, errors.Errorf("module %q already has a function named %q", b.module.name, name)
	}
	fn := &Function{
		name:   name,
		params: append([]shapes.ValueType(nil), params...),
		result: NoValue,
	}
	b.module.functions = append(b.module.functions, fn)
	b.module.byName[name] = fn
	return &FunctionBuilder{builder: b, fn: fn}, nil
}

// Build returns the populated Module. The Builder cannot be used afterwards.
func (b *Builder) Build() (*Module, error) {
	if b.module == nil {
		return nil, errors.New("ir.Builder.Build called more than once")
	}
	m := b.module
	b.module = nil
	return m, nil
}

// FunctionBuilder appends operations to one function's body.
type FunctionBuilder struct {
	builder *Builder
	fn      *Function
}

// Function being built.
func (fb *FunctionBuilder) Function() *Function { return fb.fn }

// Append adds an operation at the end of the function body and returns its result value.
//
// Operands must be values already produced in this same function, otherwise an error
// wrapping ErrDanglingOperand is returned.
func (fb *FunctionBuilder) Append(opType optypes.OpType, operands []ValueID, attrs []Attribute, result shapes.ValueType) (ValueID, error) {
	fb.builder.checkUsable()
	m := fb.builder.module
	if !opType.IsValid() {
		return NoValue, errors.Errorf("cannot append invalid op type %s to function %q", opType, fb.fn.name)
	}
	if !result.ElementType.IsValid() {
		return NoValue, errors.Errorf("cannot append %s with invalid result type to function %q", opType, fb.fn.name)
	}
	for i, operand := range operands {
		if operand < 0 || int(operand) >= len(m.values) || m.values[operand].fn != fb.fn {
			return NoValue, errors.Wrapf(ErrDanglingOperand, "operand #%d (value %d) of %s in function %q",
				i, operand, opType, fb.fn.name)
		}
	}
	opID := OpID(len(m.ops))
	valueID := ValueID(len(m.values))
	m.values = append(m.values, valueInfo{vtype: result, producer: opID, fn: fb.fn})
	m.ops = append(m.ops, Operation{
		Type:       opType,
		Operands:   append([]ValueID(nil), operands...),
		Attributes: append([]Attribute(nil), attrs...),
		Result:     valueID,
	})
	fb.fn.body = append(fb.fn.body, opID)
	return valueID, nil
}

// ValueType returns the type of a value already created in the module being built.
func (fb *FunctionBuilder) ValueType(v ValueID) shapes.ValueType {
	fb.builder.checkUsable()
	return fb.builder.module.values[v].vtype
}

// SetResult sets the value returned by the function. Use NoValue for a function returning nothing.
func (fb *FunctionBuilder) SetResult(v ValueID) error {
	fb.builder.checkUsable()
	m := fb.builder.module
	if v != NoValue && (v < 0 || int(v) >= len(m.values) || m.values[v].fn != fb.fn) {
		return errors.Wrapf(ErrDanglingOperand, "result value %d of function %q", v, fb.fn.name)
	}
	fb.fn.result = v
	return nil
}
