// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package enums has helpers for sets of named constants.
package enums

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

var ErrEmpty = errors.New("enums: no values")

// Choice returns one value picked uniformly by r.
func Choice[T any](r *rand.Rand, vals []T) (T, error) {
	var zero T
	if len(vals) == 0 {
		return zero, ErrEmpty
	}
	return vals[r.IntN(len(vals))], nil
}

// Sample returns between 1 and len(vals) distinct values in random order.
func Sample[T any](r *rand.Rand, vals []T) ([]T, error) {
	if len(vals) == 0 {
		return nil, ErrEmpty
	}
	k := 1 + r.IntN(len(vals))
	out := make([]T, 0, k)
	for _, i := range r.Perm(len(vals))[:k] {
		out = append(out, vals[i])
	}
	return out, nil
}

// Names lowercases the String form of each value.
func Names[T fmt.Stringer](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strings.ToLower(v.String())
	}
	return out
}

// Values parses each name, stopping at the first failure.
func Values[T any](names []string, parse func(string) (T, error)) ([]T, error) {
	out := make([]T, 0, len(names))
	for _, n := range names {
		v, err := parse(n)
		if err != nil {
			return nil, fmt.Errorf("enums: %q: %w", n, err)
		}
		out = append(out, v)
	}
	return out, nil
}
