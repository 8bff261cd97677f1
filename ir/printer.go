package ir

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/hlobridge/ir/shapes"
)

// String renders the module as textual assembly. See Module.Write.
func (m *Module) String() string {
	var sb strings.Builder
	_ = m.Write(&sb)
	return sb.String()
}

// Write renders the module as textual assembly:
//
//	module @name {
//	  func @main(tensor<4xf32>) -> tensor<4xf32> {
//	    %0 = xla_hlo.parameter {index = 0 : i64} : tensor<4xf32>
//	    %1 = xla_hlo.add %0, %0 : tensor<4xf32>
//	    return %1 : tensor<4xf32>
//	  }
//	}
//
// Values are numbered per function, in program order starting from 0, independent of their
// ValueID. The output is deterministic, and Write only reads the Module, so it can be called
// concurrently.
//
// It only returns errors from the writer.
func (m *Module) Write(writer io.Writer) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			// No op if an error was encountered earlier
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}

	w("module @%s {\n", m.name)
	printed := make([]int, len(m.values))
	for i := range printed {
		printed[i] = -1
	}
	for _, fn := range m.functions {
		if err != nil {
			break
		}
		err = m.writeFunction(writer, fn, printed)
	}
	w("}\n")
	return err
}

// writeFunction writes one function. printed maps ValueID to the printed number, and it
// is reset for the function's values before returning.
func (m *Module) writeFunction(writer io.Writer, fn *Function, printed []int) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}
	ref := func(v ValueID) string {
		if printed[v] < 0 {
			exceptions.Panicf("printing function %q: value %d used before being defined", fn.name, v)
		}
		return fmt.Sprintf("%%%d", printed[v])
	}
	defer func() {
		for _, opID := range fn.body {
			printed[m.ops[opID].Result] = -1
		}
	}()

	w("  func @%s(", fn.name)
	for i, param := range fn.params {
		if i > 0 {
			w(", ")
		}
		w("%s", param.ToIR())
	}
	w(") -> ")
	if resultType, ok := m.ResultType(fn); ok {
		w("%s", resultType.ToIR())
	} else {
		w("()")
	}
	w(" {\n")

	counter := 0
	for _, opID := range fn.body {
		op := &m.ops[opID]
		printed[op.Result] = counter
		counter++
		w("    %s = %s", ref(op.Result), op.Type.ToIR())
		for i, operand := range op.Operands {
			if i > 0 {
				w(",")
			}
			w(" %s", ref(operand))
		}
		if len(op.Attributes) > 0 {
			w(" {")
			for i, attr := range op.Attributes {
				if i > 0 {
					w(", ")
				}
				w("%s = %s", attr.Name, attributeToIR(attr.Value))
			}
			w("}")
		}
		w(" : %s\n", m.values[op.Result].vtype.ToIR())
	}

	if fn.result == NoValue {
		w("    return\n")
	} else {
		w("    return %s : %s\n", ref(fn.result), m.values[fn.result].vtype.ToIR())
	}
	w("  }\n")
	return err
}

// attributeToIR renders an attribute value.
func attributeToIR(value any) string {
	switch v := value.(type) {
	case int64:
		return fmt.Sprintf("%d : i64", v)
	case []int64:
		var sb strings.Builder
		sb.WriteString("dense<[")
		for i, x := range v {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%d", x)
		}
		fmt.Fprintf(&sb, "]> : %s", shapes.Make(shapes.Int64, len(v)).ToIR())
		return sb.String()
	case string:
		return fmt.Sprintf("%q", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case shapes.Literal:
		return v.ToIR()
	default:
		exceptions.Panicf("unsupported attribute value type %T", value)
	}
	return ""
}
