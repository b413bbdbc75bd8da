package simcir_test

import (
	"strings"
	"testing"

	"github.com/db47h/simcir"
	"github.com/db47h/simcir/basicset"
	"github.com/db47h/simcir/library"
	"github.com/stretchr/testify/require"
)

func newRegistry(t testing.TB) *simcir.Registry {
	t.Helper()
	reg := simcir.NewRegistry()
	require.NoError(t, basicset.Register(reg))
	require.NoError(t, library.Register(reg))
	return reg
}

func parseYAML(t testing.TB, src string) *simcir.Description {
	t.Helper()
	desc, err := simcir.ParseYAML(strings.NewReader(src))
	require.NoError(t, err)
	return desc
}

// build builds a live circuit from a YAML description.
func build(t testing.TB, reg *simcir.Registry, src string, opts ...simcir.Option) *simcir.Circuit {
	t.Helper()
	c, err := simcir.NewCircuit(reg, parseYAML(t, src), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Do(c.Dispose) })
	return c
}

func node(t testing.TB, c *simcir.Circuit, endpoint string) *simcir.Node {
	t.Helper()
	n, err := c.Node(endpoint)
	require.NoError(t, err)
	return n
}

// counterSpec returns a two input device counting its recomputations.
func counterSpec(count *int) *simcir.DeviceSpec {
	return &simcir.DeviceSpec{
		Type: "COUNT",
		Mount: func(d *simcir.Device) error {
			d.AddInput("a", "")
			d.AddInput("b", "")
			d.OnInputChange(func() { *count++ })
			return nil
		},
	}
}
