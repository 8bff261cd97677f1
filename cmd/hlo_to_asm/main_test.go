package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/hlobridge"
	"github.com/gomlx/hlobridge/internal/hlobuilder"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

// writeProgram writes f(x) = x + 1.0, x f32[size], to dir, in binary or text format.
func writeProgram(t *testing.T, dir string, size int, text bool) string {
	b := hlobuilder.New("add_one")
	x := b.ParameterWithShape(hlobuilder.MakeShape(dtypes.F32, size))
	comp := must.M1(b.Build(b.Add(x, b.ConstantF32Scalar(1.0))))
	contents := []byte(comp.TextHLO())
	if !text {
		contents = must.M1(comp.SerializedHLO())
	}
	path := filepath.Join(dir, fmt.Sprintf("program_%d", size))
	require.NoError(t, os.WriteFile(path, contents, 0o644))
	return path
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for size := 1; size <= 5; size++ {
		files = append(files, writeProgram(t, dir, size, false))
	}

	*flagFunctionName = "entry"
	defer func() { *flagFunctionName = "main" }()
	modules, err := loadFiles(files)
	require.NoError(t, err)
	require.Len(t, modules, len(files))
	for i, m := range modules {
		fn, found := m.Function("entry")
		require.True(t, found)
		require.Equal(t, i+1, fn.Params()[0].Shape.Dim(0))
		require.Contains(t, hlobridge.Print(m), "xla_hlo.add")
	}

	// Text format.
	*flagText = true
	defer func() { *flagText = false }()
	modules, err = loadFiles([]string{writeProgram(t, t.TempDir(), 3, true)})
	require.NoError(t, err)
	require.Contains(t, hlobridge.Print(modules[0]), "func @entry(tensor<3xf32>)")

	// Missing and invalid files.
	_, err = loadFiles([]string{filepath.Join(dir, "missing")})
	require.Error(t, err)
	*flagText = false
	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte{0xFF, 0xFF}, 0o644))
	_, err = loadFiles(append(files, bad))
	require.ErrorIs(t, err, hlobridge.ErrMalformedGraph)
	require.ErrorContains(t, err, "bad")
}
