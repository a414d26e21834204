// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package counter produces Fibonacci numbers starting at 1, 2, reduced by a
// fixed modulus.
package counter

const (
	DecimalMod uint64 = 1000
	HexMod     uint64 = 0xFFFF
)

// Counter is not safe for concurrent use.
type Counter struct {
	a, b uint64
	mod  uint64
}

// New returns a counter reducing by mod. A mod of zero panics.
func New(mod uint64) *Counter {
	if mod == 0 {
		panic("counter: zero modulus")
	}
	return &Counter{a: 1, b: 2, mod: mod}
}

// NewDecimal counts modulo 1000.
func NewDecimal() *Counter { return New(DecimalMod) }

// NewHex counts modulo 0xFFFF.
func NewHex() *Counter { return New(HexMod) }

// Next returns the current term mod m and advances.
func (c *Counter) Next() uint64 {
	out := c.a % c.mod
	// State is kept reduced mod m. Terms mod m are unaffected.
	c.a, c.b = c.b, (c.a+c.b)%c.mod
	return out
}
