package hlobridge

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/protos/hlo"
	"github.com/gomlx/hlobridge/hlograph"
	"github.com/gomlx/hlobridge/importer"
	"github.com/gomlx/hlobridge/ir"
	"github.com/pkg/errors"
)

// ImportConfig is created with Import, and is a "builder pattern" to configure an import call.
//
// At a minimum one has to set the program to import (use ImportConfig.WithHLO, ImportConfig.WithHLOText
// or ImportConfig.WithProto). Optionally, the opcode registry and function name can be set.
//
// Once finished call ImportConfig.Done to trigger the import and get back an ir.Module or an error.
type ImportConfig struct {
	// used is set once Done is called: an ImportConfig can only be used once.
	used bool

	// program is the serialized HloModuleProto, in binary or text format.
	program []byte
	isText  bool

	// module is set by WithProto, instead of program.
	module *hlo.HloModuleProto

	importer *importer.Importer
}

// Import returns an ImportConfig to configure the import of an HLO program.
func Import() *ImportConfig {
	return &ImportConfig{importer: importer.New()}
}

func (ic *ImportConfig) checkProgramNotSet() {
	if ic.program != nil || ic.module != nil {
		exceptions.Panicf("hlobridge.Import() was given the program more than once using WithHLO, WithHLOText or WithProto")
	}
}

// WithHLO configures the program to the binary serialized HLO (HloModule proto).
//
// Only one of WithHLO, WithHLOText or WithProto can be set, and it panics if more than one is called.
//
// It returns itself (ImportConfig) to allow cascading configuration calls.
func (ic *ImportConfig) WithHLO(serialized []byte) *ImportConfig {
	ic.checkProgramNotSet()
	if serialized == nil {
		serialized = []byte{}
	}
	ic.program = serialized
	return ic
}

// WithHLOText configures the program to the HLO (HloModule proto) in protobuf text format.
//
// Only one of WithHLO, WithHLOText or WithProto can be set, and it panics if more than one is called.
//
// It returns itself (ImportConfig) to allow cascading configuration calls.
func (ic *ImportConfig) WithHLOText(text []byte) *ImportConfig {
	ic.WithHLO(text)
	ic.isText = true
	return ic
}

// WithProto configures the program to an already deserialized HloModuleProto. It is not modified.
//
// Only one of WithHLO, WithHLOText or WithProto can be set, and it panics if more than one is called.
//
// It returns itself (ImportConfig) to allow cascading configuration calls.
func (ic *ImportConfig) WithProto(module *hlo.HloModuleProto) *ImportConfig {
	ic.checkProgramNotSet()
	if module == nil {
		exceptions.Panicf("hlobridge.Import().WithProto() given a nil HloModuleProto")
	}
	ic.module = module
	return ic
}

// WithRegistry configures the registry used to translate HLO opcodes. The default is
// importer.DefaultRegistry().
//
// It returns itself (ImportConfig) to allow cascading configuration calls.
func (ic *ImportConfig) WithRegistry(registry *importer.Registry) *ImportConfig {
	ic.importer.WithRegistry(registry)
	return ic
}

// WithFunctionName configures the name of the IR function created for the entry computation.
// The default is "main".
//
// It returns itself (ImportConfig) to allow cascading configuration calls.
func (ic *ImportConfig) WithFunctionName(name string) *ImportConfig {
	ic.importer.WithFunctionName(name)
	return ic
}

// Done triggers the import of the program. It returns either the complete Module, or an error.
func (ic *ImportConfig) Done() (*ir.Module, error) {
	if ic.used {
		return nil, errors.New("ImportConfig used more than once, which is not supported -- call hlobridge.Import() again")
	}
	ic.used = true

	var (
		g   *hlograph.Graph
		err error
	)
	switch {
	case ic.module != nil:
		g, err = hlograph.FromProto(ic.module)
	case ic.program != nil && ic.isText:
		g, err = hlograph.ParseText(ic.program)
	case ic.program != nil:
		g, err = hlograph.Parse(ic.program)
	default:
		return nil, errors.New("no program given to hlobridge.Import(), use Import().WithHLO(), WithHLOText() " +
			"or WithProto() to specify a program, before calling Done()")
	}
	if err != nil {
		return nil, err
	}
	return ic.importer.Import(g)
}
