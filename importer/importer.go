// Package importer translates a deserialized HLO graph (hlograph.Graph) into an IR Module.
//
// Each HLO opcode is translated by a Handler, looked up in a Registry: it gives the IR
// operation, the expected number of operands, and how to decode the instruction's
// attributes. The DefaultRegistry covers the HLO elementwise, shape and constant operations,
// and can be extended with Registry.With.
//
// Import is transactional: it either returns a complete Module, or an error and no Module.
package importer

import (
	"github.com/gomlx/hlobridge/hlograph"
	"github.com/gomlx/hlobridge/ir"
	"github.com/gomlx/hlobridge/ir/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DefaultFunctionName is the name of the function created for the entry computation.
const DefaultFunctionName = "main"

// Importer translates hlograph.Graph objects into IR Modules. Create it with New.
//
// An Importer is immutable once configured and can be used concurrently.
type Importer struct {
	registry     *Registry
	functionName string
}

// New creates an Importer using the DefaultRegistry.
func New() *Importer {
	return &Importer{
		registry:     DefaultRegistry(),
		functionName: DefaultFunctionName,
	}
}

// WithRegistry configures the Registry used to translate opcodes.
// It returns itself, so calls can be cascaded.
func (imp *Importer) WithRegistry(registry *Registry) *Importer {
	imp.registry = registry
	return imp
}

// WithFunctionName configures the name of the function created. Default is "main".
// It returns itself, so calls can be cascaded.
func (imp *Importer) WithFunctionName(name string) *Importer {
	imp.functionName = name
	return imp
}

// Import translates g into a new Module with one function.
//
// Errors wrap one of ErrUnknownOpcode, ErrArityMismatch, ir.ErrDanglingOperand,
// hlograph.ErrMalformedGraph or shapes.ErrUnsupportedElementType.
func (imp *Importer) Import(g *hlograph.Graph) (*ir.Module, error) {
	if g == nil {
		return nil, errors.Wrap(hlograph.ErrMalformedGraph, "nil graph")
	}
	if imp.registry == nil {
		return nil, errors.New("importer has no registry configured")
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	b := ir.NewBuilder(g.Name)
	fb, err := b.NewFunction(imp.functionName, g.Params)
	if err != nil {
		return nil, err
	}

	values := make([]ir.ValueID, len(g.Records))
	for i := range g.Records {
		rec := &g.Records[i]
		values[i], err = imp.importRecord(fb, g, rec, values[:i])
		if err != nil {
			// b is dropped: the partially built module is never returned.
			return nil, errors.WithMessagef(err, "importing graph %q", g.Name)
		}
	}

	result := ir.NoValue
	if len(g.Records) > 0 {
		result = values[g.Root]
	}
	if err = fb.SetResult(result); err != nil {
		return nil, err
	}
	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	if klog.V(1).Enabled() {
		klog.Infof("importer: graph %q imported as function %q: %d parameters, %d operations",
			g.Name, imp.functionName, len(g.Params), len(g.Records))
	}
	return m, nil
}

// importRecord appends the operation for rec. Its operands must be indices into defined.
func (imp *Importer) importRecord(fb *ir.FunctionBuilder, g *hlograph.Graph, rec *hlograph.OpRecord, defined []ir.ValueID) (ir.ValueID, error) {
	withContext := func(err error) error {
		return errors.WithMessagef(err, "instruction %q (#%d, opcode %q)", rec.Name, rec.Index, rec.Opcode)
	}
	h, err := imp.registry.Lookup(rec.Opcode)
	if err != nil {
		return ir.NoValue, withContext(err)
	}
	if err = h.checkArity(len(rec.Operands)); err != nil {
		return ir.NoValue, withContext(err)
	}

	operands := make([]ir.ValueID, len(rec.Operands))
	ctx := &DecodeContext{
		Record:   rec,
		Params:   g.Params,
		Operands: make([]shapes.ValueType, len(rec.Operands)),
	}
	for j, idx := range rec.Operands {
		if idx < 0 || idx >= len(defined) {
			return ir.NoValue, withContext(errors.Wrapf(ir.ErrDanglingOperand,
				"operand #%d refers to instruction #%d, only %d defined before it", j, idx, len(defined)))
		}
		operands[j] = defined[idx]
		ctx.Operands[j] = fb.ValueType(operands[j])
	}

	var attrs []ir.Attribute
	if h.Attributes != nil {
		if attrs, err = h.Attributes(ctx); err != nil {
			return ir.NoValue, err
		}
	}
	if h.Verify != nil {
		if err = h.Verify(ctx); err != nil {
			return ir.NoValue, err
		}
	}
	v, err := fb.Append(h.Op, operands, attrs, rec.Type)
	if err != nil {
		return ir.NoValue, withContext(err)
	}
	if klog.V(2).Enabled() {
		klog.Infof("importer: %s (%s) -> %s : %s", rec.Name, rec.Opcode, h.Op.ToIR(), rec.Type)
	}
	return v, nil
}
