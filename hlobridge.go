// Package hlobridge imports XLA HLO programs (serialized HloModuleProto) into an in-memory
// SSA intermediate representation (package ir), and prints it as textual assembly.
//
// The simplest use is:
//
//	module, err := hlobridge.Load(serializedHLO)
//	if err != nil { ... }
//	fmt.Println(hlobridge.Print(module))
//
// Use Import for more options (text format protos, custom opcode registries, function name),
// and LoadAll to import many programs in parallel.
//
// The translation goes through three stages, each in its own package:
//
//   - hlograph: deserializes the HloModuleProto into a graph of operation records.
//   - importer: maps each HLO opcode to an IR operation, using a Registry of handlers.
//   - ir: holds the resulting Module, and renders it as text.
//
// Errors can be checked with errors.Is against the sentinel errors defined here.
package hlobridge

import (
	"context"

	"github.com/gomlx/hlobridge/hlograph"
	"github.com/gomlx/hlobridge/importer"
	"github.com/gomlx/hlobridge/ir"
	"github.com/gomlx/hlobridge/ir/shapes"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var (
	// ErrMalformedGraph is returned when the HLO program violates a structural invariant,
	// e.g. an operand referencing a value not yet defined, or inconsistent shapes.
	ErrMalformedGraph = hlograph.ErrMalformedGraph

	// ErrUnsupportedElementType is returned for dtypes (or tuple shapes) with no IR equivalent.
	ErrUnsupportedElementType = shapes.ErrUnsupportedElementType

	// ErrUnknownOpcode is returned for HLO opcodes without a registered handler.
	ErrUnknownOpcode = importer.ErrUnknownOpcode

	// ErrArityMismatch is returned when an instruction has the wrong number of operands.
	ErrArityMismatch = importer.ErrArityMismatch

	// ErrDanglingOperand is returned when an operation uses a value not defined in its function.
	ErrDanglingOperand = ir.ErrDanglingOperand
)

// Load imports a binary serialized HloModuleProto, using the default registry.
func Load(serialized []byte) (*ir.Module, error) {
	return Import().WithHLO(serialized).Done()
}

// Print renders the module as textual assembly. See ir.Module.Write for the format.
func Print(module *ir.Module) string {
	return module.String()
}

// LoadAll imports the binary serialized HloModuleProto blobs in parallel, and returns the modules
// in the same order.
//
// It returns the first error encountered, and the remaining imports are skipped. The only
// state shared among the imports is the read-only default registry.
func LoadAll(ctx context.Context, blobs [][]byte) ([]*ir.Module, error) {
	modules := make([]*ir.Module, len(blobs))
	g, ctx := errgroup.WithContext(ctx)
	for i, blob := range blobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := Load(blob)
			if err != nil {
				return errors.WithMessagef(err, "loading HLO program #%d", i)
			}
			modules[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if klog.V(1).Enabled() {
		klog.Infof("hlobridge: loaded %d HLO programs", len(modules))
	}
	return modules, nil
}
