package importer

import (
	"slices"
	"sort"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/hlobridge/hlograph"
	"github.com/gomlx/hlobridge/ir"
	"github.com/gomlx/hlobridge/ir/optypes"
	"github.com/gomlx/hlobridge/ir/shapes"
	"github.com/pkg/errors"
)

var (
	// ErrUnknownOpcode is returned when the registry has no handler for an HLO opcode.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrArityMismatch is returned when an instruction's operand count differs from its handler's arity.
	ErrArityMismatch = errors.New("arity mismatch")
)

// Variadic is the Handler.Arity of opcodes taking one or more operands.
const Variadic = -1

// DecodeContext is given to the attribute decoder and verifier of a Handler.
type DecodeContext struct {
	// Record being imported.
	Record *hlograph.OpRecord

	// Params are the declared parameter types of the function being built.
	Params []shapes.ValueType

	// Operands are the types of the record's operands.
	Operands []shapes.ValueType
}

// Handler maps one HLO opcode to an IR operation.
type Handler struct {
	// Opcode is the HLO opcode, e.g. "add" or "exponential-minus-one".
	Opcode string

	// Op is the IR operation created.
	Op optypes.OpType

	// Arity is the number of operands expected, or Variadic.
	Arity int

	// Attributes decodes the IR attributes from the HLO instruction. Nil if the operation has no attributes.
	Attributes func(ctx *DecodeContext) ([]ir.Attribute, error)

	// Verify checks the operand and result types. Nil if no check is needed.
	// Failures should wrap hlograph.ErrMalformedGraph.
	Verify func(ctx *DecodeContext) error
}

// Registry maps HLO opcodes to Handlers. It is immutable once created, and safe for
// concurrent use.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates a Registry with the given handlers. Opcodes must be unique.
func NewRegistry(handlers ...Handler) (*Registry, error) {
	r := &Registry{handlers: make(map[string]Handler, len(handlers))}
	for _, h := range handlers {
		if err := checkHandler(h); err != nil {
			return nil, err
		}
		if _, found := r.handlers[h.Opcode]; found {
			return nil, errors.Errorf("opcode %q registered more than once", h.Opcode)
		}
		r.handlers[h.Opcode] = h
	}
	return r, nil
}

func checkHandler(h Handler) error {
	if h.Opcode == "" {
		return errors.Errorf("handler for %s has an empty opcode", h.Op)
	}
	if !h.Op.IsValid() {
		return errors.Errorf("handler for opcode %q has invalid op type %s", h.Opcode, h.Op)
	}
	if h.Arity < 0 && h.Arity != Variadic {
		return errors.Errorf("handler for opcode %q has invalid arity %d", h.Opcode, h.Arity)
	}
	return nil
}

// With returns a new Registry with the handlers of r plus the given ones.
// Handlers given replace existing ones with the same opcode. r is not changed.
func (r *Registry) With(handlers ...Handler) (*Registry, error) {
	extended := &Registry{handlers: make(map[string]Handler, len(r.handlers)+len(handlers))}
	for opcode, h := range r.handlers {
		extended.handlers[opcode] = h
	}
	seen := make(map[string]bool, len(handlers))
	for _, h := range handlers {
		if err := checkHandler(h); err != nil {
			return nil, err
		}
		if seen[h.Opcode] {
			return nil, errors.Errorf("opcode %q given more than once", h.Opcode)
		}
		seen[h.Opcode] = true
		extended.handlers[h.Opcode] = h
	}
	return extended, nil
}

// Lookup returns the handler for the HLO opcode, or an error wrapping ErrUnknownOpcode.
func (r *Registry) Lookup(opcode string) (Handler, error) {
	h, found := r.handlers[opcode]
	if !found {
		return Handler{}, errors.Wrapf(ErrUnknownOpcode, "opcode %q", opcode)
	}
	return h, nil
}

// Opcodes returns the registered HLO opcodes, sorted.
func (r *Registry) Opcodes() []string {
	opcodes := make([]string, 0, len(r.handlers))
	for opcode := range r.handlers {
		opcodes = append(opcodes, opcode)
	}
	sort.Strings(opcodes)
	return opcodes
}

// checkArity returns an error wrapping ErrArityMismatch if numOperands is not accepted by h.
func (h Handler) checkArity(numOperands int) error {
	if h.Arity == Variadic {
		if numOperands == 0 {
			return errors.Wrapf(ErrArityMismatch, "opcode %q takes one or more operands, got none", h.Opcode)
		}
		return nil
	}
	if numOperands != h.Arity {
		return errors.Wrapf(ErrArityMismatch, "opcode %q takes %d operands, got %d", h.Opcode, h.Arity, numOperands)
	}
	return nil
}

var defaultRegistry *Registry

func init() {
	var err error
	defaultRegistry, err = NewRegistry(defaultHandlers()...)
	if err != nil {
		exceptions.Panicf("importer: invalid default handlers: %v", err)
	}
}

// DefaultRegistry returns the registry with all the opcodes supported by default.
// Use Registry.With to extend it.
func DefaultRegistry() *Registry { return defaultRegistry }

func defaultHandlers() []Handler {
	handlers := []Handler{
		{Opcode: "parameter", Op: optypes.Parameter, Arity: 0, Attributes: parameterAttributes, Verify: verifyParameter},
		{Opcode: "constant", Op: optypes.Constant, Arity: 0, Attributes: constantAttributes},
		{Opcode: "iota", Op: optypes.Iota, Arity: 0, Attributes: iotaAttributes},
		{Opcode: "broadcast", Op: optypes.BroadcastInDim, Arity: 1, Attributes: dimensionsAttribute("broadcast_dimensions"), Verify: verifyBroadcast},
		{Opcode: "reshape", Op: optypes.Reshape, Arity: 1, Verify: verifyReshape},
		{Opcode: "transpose", Op: optypes.Transpose, Arity: 1, Attributes: dimensionsAttribute("permutation"), Verify: verifyTranspose},
		{Opcode: "convert", Op: optypes.Convert, Arity: 1, Verify: verifySameShape},
		{Opcode: "reverse", Op: optypes.Reverse, Arity: 1, Attributes: dimensionsAttribute("dimensions"), Verify: verifySameType},
		{Opcode: "slice", Op: optypes.Slice, Arity: 1, Attributes: sliceAttributes, Verify: verifySameElementType},
		{Opcode: "concatenate", Op: optypes.Concatenate, Arity: Variadic, Attributes: concatenateAttributes, Verify: verifySameElementType},
		{Opcode: "dot", Op: optypes.Dot, Arity: 2, Attributes: dotAttributes, Verify: verifySameElementType},
		{Opcode: "compare", Op: optypes.Compare, Arity: 2, Attributes: compareAttributes, Verify: verifyCompare},
		{Opcode: "select", Op: optypes.Select, Arity: 3, Verify: verifySelect},
		{Opcode: "clamp", Op: optypes.Clamp, Arity: 3, Verify: verifyClamp},
		{Opcode: "is-finite", Op: optypes.IsFinite, Arity: 1, Verify: verifyIsFinite},
	}
	for opcode, op := range elementwiseBinary {
		handlers = append(handlers, Handler{Opcode: opcode, Op: op, Arity: 2, Verify: verifySameType})
	}
	for opcode, op := range elementwiseUnary {
		handlers = append(handlers, Handler{Opcode: opcode, Op: op, Arity: 1, Verify: verifySameType})
	}
	slices.SortFunc(handlers, func(a, b Handler) int { return int(a.Op) - int(b.Op) })
	return handlers
}

var elementwiseBinary = map[string]optypes.OpType{
	"add":                    optypes.Add,
	"subtract":               optypes.Subtract,
	"multiply":               optypes.Multiply,
	"divide":                 optypes.Divide,
	"remainder":              optypes.Remainder,
	"maximum":                optypes.Maximum,
	"minimum":                optypes.Minimum,
	"power":                  optypes.Power,
	"atan2":                  optypes.Atan2,
	"and":                    optypes.And,
	"or":                     optypes.Or,
	"xor":                    optypes.Xor,
	"shift-left":             optypes.ShiftLeft,
	"shift-right-arithmetic": optypes.ShiftRightArithmetic,
	"shift-right-logical":    optypes.ShiftRightLogical,
}

var elementwiseUnary = map[string]optypes.OpType{
	"negate":                optypes.Negate,
	"abs":                   optypes.Abs,
	"exponential":           optypes.Exp,
	"exponential-minus-one": optypes.Expm1,
	"log":                   optypes.Log,
	"log-plus-one":          optypes.Log1p,
	"tanh":                  optypes.Tanh,
	"logistic":              optypes.Logistic,
	"sqrt":                  optypes.Sqrt,
	"rsqrt":                 optypes.Rsqrt,
	"cbrt":                  optypes.Cbrt,
	"sine":                  optypes.Sin,
	"cosine":                optypes.Cos,
	"floor":                 optypes.Floor,
	"ceil":                  optypes.Ceil,
	"round-nearest-afz":     optypes.RoundNearestAfz,
	"sign":                  optypes.Sign,
	"not":                   optypes.Not,
	"popcnt":                optypes.PopulationCount,
	"count-leading-zeros":   optypes.Clz,
	"copy":                  optypes.Copy,
}
