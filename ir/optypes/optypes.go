// Package optypes defines OpType, the closed set of operations of the IR.
package optypes

import "github.com/gomlx/exceptions"

// OpType is an enum of all operations the IR can represent.
type OpType int

//go:generate go tool enumer -type OpType optypes.go

const (
	Invalid OpType = iota
	Parameter
	Constant
	Iota

	// Elementwise binary operations.
	Add
	Subtract
	Multiply
	Divide
	Remainder
	Maximum
	Minimum
	Power
	Atan2
	And
	Or
	Xor
	ShiftLeft
	ShiftRightArithmetic
	ShiftRightLogical

	// Elementwise unary operations.
	Negate
	Abs
	Exp
	Expm1
	Log
	Log1p
	Tanh
	Logistic
	Sqrt
	Rsqrt
	Cbrt
	Sin
	Cos
	Floor
	Ceil
	RoundNearestAfz
	Sign
	Not
	IsFinite
	PopulationCount
	Clz
	Copy
	Convert

	// Structural operations.
	BroadcastInDim
	Reshape
	Transpose
	Slice
	Concatenate
	Reverse
	Dot
	Compare
	Select
	Clamp

	// Last should always be kept the last, it is used as a counter/marker.
	Last
)

// Namespace of the IR operation names.
const Namespace = "xla_hlo"

var irNames = map[OpType]string{
	Parameter:            "parameter",
	Constant:             "constant",
	Iota:                 "iota",
	Add:                  "add",
	Subtract:             "sub",
	Multiply:             "mul",
	Divide:               "div",
	Remainder:            "rem",
	Maximum:              "max",
	Minimum:              "min",
	Power:                "pow",
	Atan2:                "atan2",
	And:                  "and",
	Or:                   "or",
	Xor:                  "xor",
	ShiftLeft:            "shift_left",
	ShiftRightArithmetic: "shift_right_arithmetic",
	ShiftRightLogical:    "shift_right_logical",
	Negate:               "neg",
	Abs:                  "abs",
	Exp:                  "exp",
	Expm1:                "exponential_minus_one",
	Log:                  "log",
	Log1p:                "log_plus_one",
	Tanh:                 "tanh",
	Logistic:             "logistic",
	Sqrt:                 "sqrt",
	Rsqrt:                "rsqrt",
	Cbrt:                 "cbrt",
	Sin:                  "sin",
	Cos:                  "cos",
	Floor:                "floor",
	Ceil:                 "ceil",
	RoundNearestAfz:      "round_nearest_afz",
	Sign:                 "sign",
	Not:                  "not",
	IsFinite:             "is_finite",
	PopulationCount:      "popcnt",
	Clz:                  "count_leading_zeros",
	Copy:                 "copy",
	Convert:              "convert",
	BroadcastInDim:       "broadcast_in_dim",
	Reshape:              "reshape",
	Transpose:            "transpose",
	Slice:                "slice",
	Concatenate:          "concatenate",
	Reverse:              "reverse",
	Dot:                  "dot",
	Compare:              "compare",
	Select:               "select",
	Clamp:                "clamp",
}

// IsValid returns whether op is a concrete operation (not Invalid nor Last).
func (op OpType) IsValid() bool {
	return op > Invalid && op < Last
}

// ToIR returns the dotted IR name of the operation, e.g. "xla_hlo.add".
//
// It panics for Invalid, Last or out-of-range values.
func (op OpType) ToIR() string {
	name, found := irNames[op]
	if !found {
		exceptions.Panicf("optypes.OpType %s has no IR name", op)
	}
	return Namespace + "." + name
}
