// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simtest

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/db47h/simcir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TruthTable checks the outputs of the device built from def against result
// for every combination of its inputs. result[o][i] is the expected value of
// output o when the inputs are set to the bits of i, input 0 being the most
// significant bit.
//
func TruthTable(t *testing.T, reg *simcir.Registry, def simcir.DeviceDef, result [][]bool) {
	t.Helper()
	h := New(t, reg, def)
	n := h.NumInputs()
	require.Len(t, result, h.NumOutputs(), "%s: output count", def.Type)

	inputs := make([]bool, n)
	for i := 0; i < 1<<uint(n); i++ {
		for bit := range inputs {
			inputs[n-bit-1] = i&(1<<uint(bit)) != 0
		}
		for j, v := range inputs {
			h.Set(j, simcir.Bool(v))
		}
		h.Settle()
		for o := range result {
			assert.Equal(t, result[o][i], h.Out(o).IsHot(), "%s %v: output %d", def.Type, inputs, o)
		}
	}
}

// Compare builds devices from def1 and def2 and compares their outputs given
// the same random input sequence of the given length. Both devices must have
// the same input/output interface.
//
func Compare(t *testing.T, reg *simcir.Registry, def1, def2 simcir.DeviceDef, steps int) {
	t.Helper()

	rng := rand.New(rand.NewSource(int64(steps)))
	seq := make([]uint64, steps)
	for i := range seq {
		seq[i] = rng.Uint64()
	}
	CompareSeq(t, reg, def1, def2, seq)
}

// CompareSeq builds devices from def1 and def2, applies each input vector of
// seq to both in turn and compares their outputs after each step. Sequential
// devices must be given sequences where clock and data inputs do not change
// in the same step.
//
func CompareSeq(t *testing.T, reg *simcir.Registry, def1, def2 simcir.DeviceDef, seq []uint64) {
	t.Helper()

	h1 := New(t, reg, def1)
	h2 := New(t, reg, def2)
	require.Equal(t, h1.NumInputs(), h2.NumInputs(), "input count")
	require.Equal(t, h1.NumOutputs(), h2.NumOutputs(), "output count")

	for i, bits := range seq {
		o1, o2 := h1.Apply(bits), h2.Apply(bits)
		if o1 != o2 {
			t.Fatalf("step %d, inputs %s: %s => %s, %s => %s", i, bitString(bits, h1.NumInputs()),
				def1.Type, bitString(o1, h1.NumOutputs()), def2.Type, bitString(o2, h2.NumOutputs()))
		}
	}
}

func bitString(bits uint64, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[n-i-1] = '0' + byte(bits>>uint(i)&1)
	}
	return strconv.Quote(string(b))
}
