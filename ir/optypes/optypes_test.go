package optypes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToIR(t *testing.T) {
	require.Equal(t, "xla_hlo.add", Add.ToIR())
	require.Equal(t, "xla_hlo.broadcast_in_dim", BroadcastInDim.ToIR())
	require.Panics(t, func() { _ = Invalid.ToIR() })
	require.Panics(t, func() { _ = Last.ToIR() })

	seen := make(map[string]OpType)
	for op := Invalid + 1; op < Last; op++ {
		require.True(t, op.IsValid())
		name := op.ToIR()
		require.Truef(t, strings.HasPrefix(name, Namespace+"."), "op %s has IR name %q", op, name)
		require.NotContainsf(t, name, " ", "op %s has IR name %q", op, name)
		prev, found := seen[name]
		require.Falsef(t, found, "ops %s and %s share the IR name %q", prev, op, name)
		seen[name] = op
	}
	require.Len(t, irNames, int(Last)-1)
}

func TestOpTypeString(t *testing.T) {
	op, err := OpTypeString("BroadcastInDim")
	require.NoError(t, err)
	require.Equal(t, BroadcastInDim, op)
	require.Equal(t, "Add", Add.String())
	_, err = OpTypeString("Nope")
	require.Error(t, err)
}
