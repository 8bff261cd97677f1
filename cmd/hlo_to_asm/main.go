// hlo_to_asm imports HLO programs (HloModuleProto) and prints them as textual assembly.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/hlobridge"
	"github.com/gomlx/hlobridge/internal/hlobuilder"
	"github.com/gomlx/hlobridge/ir"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var (
	flagHloModuleFile = flag.String("hlo", "", "File with the serialized HloModuleProto. More files can be given as arguments.")
	flagText          = flag.Bool("text", false, "Input files are HloModuleProto in protobuf text format, instead of binary.")
	flagFunctionName  = flag.String("func", "main", "Name of the function created for the entry computation.")
	flagDemo          = flag.Bool("demo", false, "Print the assembly of the demo program f(x) = x + 1.0, for x f32[4].")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `hlo_to_asm will load HLO programs (HloModuleProto) and print them as textual assembly.

$ hlo_to_asm -hlo=<serialized_hlo_file_name> [<more_files>...]
$ hlo_to_asm -demo

One can generate HLO using the XLA client (e.g. Jax or the gopjrt xlabuilder package), serializing
the HloModuleProto.

Usage:
`)
		flag.PrintDefaults()
	}
	klog.InitFlags(flag.CommandLine)
	flag.Parse()

	if *flagDemo {
		printDemo()
		return
	}

	var files []string
	if *flagHloModuleFile != "" {
		files = append(files, *flagHloModuleFile)
	}
	files = append(files, flag.Args()...)
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "The HLO program as serialized proto must be given with the -hlo flag!")
		fmt.Fprintln(os.Stderr)
		flag.Usage()
		os.Exit(1)
	}

	modules, err := loadFiles(files)
	if err != nil {
		klog.Fatalf("%+v", err)
	}
	for i, m := range modules {
		klog.V(1).Infof("%s: %d operations", files[i], m.NumOps())
		fmt.Print(hlobridge.Print(m))
	}
}

// loadFiles imports the files in parallel, according to the flags. Modules are returned in the
// order of the files.
func loadFiles(files []string) ([]*ir.Module, error) {
	modules := make([]*ir.Module, len(files))
	var g errgroup.Group
	for i, file := range files {
		g.Go(func() (err error) {
			modules[i], err = loadFile(file)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return modules, nil
}

// loadFile imports one file, according to the flags.
func loadFile(file string) (*ir.Module, error) {
	contents, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", file)
	}
	ic := hlobridge.Import().WithFunctionName(*flagFunctionName)
	if *flagText {
		ic = ic.WithHLOText(contents)
	} else {
		ic = ic.WithHLO(contents)
	}
	m, err := ic.Done()
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to import %q", file)
	}
	return m, nil
}

// printDemo builds f(x) = x + 1.0 with the HLO builder, and prints the imported assembly.
func printDemo() {
	b := hlobuilder.New("demo")
	x := b.ParameterWithShape(hlobuilder.MakeShape(dtypes.F32, 4))
	comp := must.M1(b.Build(b.Add(x, b.ConstantF32Scalar(1.0))))
	m := must.M1(hlobridge.Import().
		WithProto(comp.Proto()).
		WithFunctionName(*flagFunctionName).
		Done())
	fmt.Print(hlobridge.Print(m))
}
