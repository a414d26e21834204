// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package counter

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecimal(t *testing.T) {
	c := NewDecimal()
	var got []uint64
	for range 10 {
		got = append(got, c.Next())
	}
	assert.Equal(t, []uint64{1, 2, 3, 5, 8, 13, 21, 34, 55, 89}, got)
}

func TestHex(t *testing.T) {
	c := NewHex()
	assert.Equal(t, uint64(1), c.Next())
	assert.Equal(t, uint64(2), c.Next())
	assert.Equal(t, uint64(3), c.Next())
}

func TestMatchesUnboundedSequence(t *testing.T) {
	for _, mod := range []uint64{DecimalMod, HexMod} {
		c := New(mod)
		a, b := big.NewInt(1), big.NewInt(2)
		m := new(big.Int).SetUint64(mod)
		for i := range 500 {
			want := new(big.Int).Mod(a, m).Uint64()
			assert.Equal(t, want, c.Next(), "mod %d term %d", mod, i)
			a, b = b, new(big.Int).Add(a, b)
		}
	}
}

func TestNew_ZeroMod(t *testing.T) {
	assert.Panics(t, func() { New(0) })
}
