// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package iterx

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
)

var (
	// ErrEmpty is returned by First and Last for an empty slice.
	ErrEmpty = errors.New("empty sequence")
	// ErrBatchSize is returned when a batch or window size is less than one.
	ErrBatchSize = errors.New("size must be at least one")
	// ErrIncompleteBatch is yielded by BatchedStrict with a short final batch.
	ErrIncompleteBatch = errors.New("incomplete batch")
)

// Compact yields the non-zero values of seq.
func Compact[T comparable](seq iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		var zero T
		for v := range seq {
			if v == zero {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// First returns s[0], or ErrEmpty.
func First[S ~[]E, E any](s S) (E, error) {
	if len(s) == 0 {
		var zero E
		return zero, ErrEmpty
	}
	return s[0], nil
}

// FirstOr returns s[0], or def when s is empty.
func FirstOr[S ~[]E, E any](s S, def E) E {
	if v, err := First(s); err == nil {
		return v
	}
	return def
}

// Last returns s[len(s)-1], or ErrEmpty.
func Last[S ~[]E, E any](s S) (E, error) {
	if len(s) == 0 {
		var zero E
		return zero, ErrEmpty
	}
	return s[len(s)-1], nil
}

// LastOr returns s[len(s)-1], or def when s is empty.
func LastOr[S ~[]E, E any](s S, def E) E {
	if v, err := Last(s); err == nil {
		return v
	}
	return def
}

// Batched groups seq into slices of n. Only the final batch may be shorter.
//
//	Batched(0..8, 2) -> [0 1] [2 3] [4 5] [6 7] [8]
func Batched[T any](seq iter.Seq[T], n int) (iter.Seq[[]T], error) {
	if n < 1 {
		return nil, fmt.Errorf("batched: %w", ErrBatchSize)
	}
	return func(yield func([]T) bool) {
		for batch := range batches(seq, n) {
			if !yield(batch) {
				return
			}
		}
	}, nil
}

// BatchedStrict is Batched, except that a short final batch is yielded
// together with ErrIncompleteBatch.
func BatchedStrict[T any](seq iter.Seq[T], n int) (iter.Seq2[[]T, error], error) {
	if n < 1 {
		return nil, fmt.Errorf("batched: %w", ErrBatchSize)
	}
	return batches(seq, n), nil
}

func batches[T any](seq iter.Seq[T], n int) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		batch := make([]T, 0, n)
		for v := range seq {
			batch = append(batch, v)
			if len(batch) == n {
				if !yield(batch, nil) {
					return
				}
				batch = make([]T, 0, n)
			}
		}
		if len(batch) > 0 {
			yield(batch, fmt.Errorf("batched: got %d of %d: %w", len(batch), n, ErrIncompleteBatch))
		}
	}
}

// Windowed yields every run of n consecutive values, sliding by one. Nothing
// is yielded when seq holds fewer than n values. Each window is a new slice.
//
//	Windowed("ABCDEFG", 4) -> ABCD BCDE CDEF DEFG
func Windowed[T any](seq iter.Seq[T], n int) (iter.Seq[[]T], error) {
	if n < 1 {
		return nil, fmt.Errorf("windowed: %w", ErrBatchSize)
	}
	return func(yield func([]T) bool) {
		window := make([]T, 0, n)
		for v := range seq {
			if len(window) == n {
				copy(window, window[1:])
				window = window[:n-1]
			}
			window = append(window, v)
			if len(window) < n {
				continue
			}
			out := make([]T, n)
			copy(out, window)
			if !yield(out) {
				return
			}
		}
	}, nil
}

// Flatten walks v depth first and yields every leaf. Slices, arrays and
// iter.Seq[any] values are descended into; strings, byte slices, maps and
// everything else are leaves.
//
//	Flatten([]any{[]int{1, 2}, "ab", [][]int{{3}}}) -> 1 2 "ab" 3
func Flatten(v any) iter.Seq[any] {
	return func(yield func(any) bool) {
		stack := []*node{{rv: reflect.ValueOf([]any{v})}}
		defer func() {
			for _, n := range stack {
				n.stop()
			}
		}()

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			item, ok := top.next()
			if !ok {
				stack = stack[:len(stack)-1]
				continue
			}
			if child := children(item); child != nil {
				stack = append(stack, child)
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

// node is one level of the Flatten stack: a reflected slice or array, or a
// pulled iter.Seq.
type node struct {
	rv   reflect.Value
	idx  int
	pull func() (any, bool)
	done func()
}

func (n *node) next() (any, bool) {
	if n.pull != nil {
		v, ok := n.pull()
		if !ok {
			n.stop()
		}
		return v, ok
	}
	if n.idx >= n.rv.Len() {
		return nil, false
	}
	n.idx++
	return n.rv.Index(n.idx - 1).Interface(), true
}

func (n *node) stop() {
	if n.done != nil {
		n.done()
		n.done = nil
	}
}

func children(v any) *node {
	switch t := v.(type) {
	case nil, string:
		return nil
	case iter.Seq[any]:
		next, stop := iter.Pull(t)
		return &node{pull: next, done: stop}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		return &node{rv: rv}
	default:
		return nil
	}
}
