// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package iterx

import (
	"errors"
	"iter"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompact(t *testing.T) {
	got := slices.Collect(Compact(slices.Values([]int{0, 1, 0, 2, 3, 0})))
	assert.Equal(t, []int{1, 2, 3}, got)

	words := slices.Collect(Compact(slices.Values([]string{"", "a", "", "b"})))
	assert.Equal(t, []string{"a", "b"}, words)
}

func TestFirstLast(t *testing.T) {
	tests := []struct {
		name      string
		in        []int
		wantFirst int
		wantLast  int
		wantErr   bool
	}{
		{name: "several", in: []int{4, 5, 6}, wantFirst: 4, wantLast: 6},
		{name: "single", in: []int{9}, wantFirst: 9, wantLast: 9},
		{name: "empty", in: []int{}, wantErr: true},
		{name: "nil", in: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := First(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEmpty)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantFirst, first)
			}

			last, err := Last(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEmpty)
				assert.Equal(t, -1, FirstOr(tt.in, -1))
				assert.Equal(t, -1, LastOr(tt.in, -1))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestFirstLastSorted(t *testing.T) {
	// Mirrors min/max on a sorted list.
	in := []int{7, -3, 12, 0, 5}
	slices.Sort(in)
	assert.Equal(t, slices.Min(in), FirstOr(in, 1))
	assert.Equal(t, slices.Max(in), LastOr(in, 1))
}

func TestBatched(t *testing.T) {
	data := slices.Values([]int{0, 1, 2, 3, 4, 5, 6, 7, 8})

	tests := []struct {
		name string
		n    int
		want [][]int
	}{
		{name: "pairs", n: 2, want: [][]int{{0, 1}, {2, 3}, {4, 5}, {6, 7}, {8}}},
		{name: "exact", n: 3, want: [][]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}}},
		{name: "larger than input", n: 20, want: [][]int{{0, 1, 2, 3, 4, 5, 6, 7, 8}}},
		{name: "ones", n: 1, want: [][]int{{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := Batched(data, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slices.Collect(seq))
		})
	}
}

func TestBatched_Empty(t *testing.T) {
	seq, err := Batched(slices.Values([]int{}), 3)
	require.NoError(t, err)
	assert.Empty(t, slices.Collect(seq))
}

func TestBatched_BadSize(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := Batched(slices.Values([]int{1}), n)
		assert.ErrorIs(t, err, ErrBatchSize)

		_, err = BatchedStrict(slices.Values([]int{1}), n)
		assert.ErrorIs(t, err, ErrBatchSize)
	}
}

func TestBatchedStrict(t *testing.T) {
	seq, err := BatchedStrict(slices.Values([]int{1, 2, 3, 4, 5}), 2)
	require.NoError(t, err)

	var (
		got     [][]int
		lastErr error
	)
	for batch, err := range seq {
		got = append(got, batch)
		lastErr = err
	}
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, got)
	assert.ErrorIs(t, lastErr, ErrIncompleteBatch)

	seq, err = BatchedStrict(slices.Values([]int{1, 2, 3, 4}), 2)
	require.NoError(t, err)
	for _, err := range seq {
		assert.NoError(t, err)
	}
}

func TestBatched_EarlyBreak(t *testing.T) {
	seq, err := Batched(slices.Values([]int{1, 2, 3, 4, 5, 6}), 2)
	require.NoError(t, err)
	var got [][]int
	for b := range seq {
		got = append(got, b)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, [][]int{{1, 2}, {3, 4}}, got)
}

func TestWindowed(t *testing.T) {
	letters := slices.Values(strings.Split("ABCDEFG", ""))

	seq, err := Windowed(letters, 4)
	require.NoError(t, err)

	var got []string
	for w := range seq {
		got = append(got, strings.Join(w, ""))
	}
	assert.Equal(t, []string{"ABCD", "BCDE", "CDEF", "DEFG"}, got)
}

func TestWindowed_Edges(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		n    int
		want [][]int
	}{
		{name: "shorter than window", in: []int{1, 2}, n: 3, want: nil},
		{name: "equal to window", in: []int{1, 2, 3}, n: 3, want: [][]int{{1, 2, 3}}},
		{name: "size one", in: []int{1, 2, 3}, n: 1, want: [][]int{{1}, {2}, {3}}},
		{name: "empty", in: nil, n: 2, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := Windowed(slices.Values(tt.in), tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slices.Collect(seq))
		})
	}

	_, err := Windowed(slices.Values([]int{1}), 0)
	assert.ErrorIs(t, err, ErrBatchSize)
}

func TestWindowed_WindowsAreIndependent(t *testing.T) {
	seq, err := Windowed(slices.Values([]int{1, 2, 3, 4}), 2)
	require.NoError(t, err)
	windows := slices.Collect(seq)
	windows[0][0] = 99
	assert.Equal(t, [][]int{{99, 2}, {2, 3}, {3, 4}}, windows)
}

func TestFlatten(t *testing.T) {
	terrible := []any{
		[]int{0, 1, 2},
		[]int{},
		nil,
		"string that shouldn't be flattened",
		[]int{3, 4, 5},
		[3]int{6, 7, 8},
		[]any{[]any{[]int{9, 10, 11}, []int{}, []int{12, 13, 14}}},
		[]any{[]any{[]any{[]any{[]string{"another string that shouldn't be flattened."}}}}},
		[]byte("bytes"),
	}

	got := slices.Collect(Flatten(terrible))

	var ints []int
	var strs []string
	for _, v := range got {
		switch v := v.(type) {
		case int:
			ints = append(ints, v)
		case string:
			strs = append(strs, v)
		}
	}

	want := make([]int, 15)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, ints, "ints keep depth-first order")
	assert.Len(t, strs, 2)
	assert.Contains(t, got, []byte("bytes"))
	assert.Contains(t, got, nil)
}

func TestFlatten_Leaves(t *testing.T) {
	assert.Equal(t, []any{42}, slices.Collect(Flatten(42)))
	assert.Equal(t, []any{"abc"}, slices.Collect(Flatten("abc")))

	m := map[string]int{"a": 1}
	assert.Equal(t, []any{m}, slices.Collect(Flatten(m)))
}

func TestFlatten_Seq(t *testing.T) {
	inner := slices.Values([]any{1, []int{2, 3}})
	got := slices.Collect(Flatten([]any{0, inner, 4}))
	assert.Equal(t, []any{0, 1, 2, 3, 4}, got)
}

func TestFlatten_EarlyBreakStopsPull(t *testing.T) {
	stopped := false
	var inner iter.Seq[any] = func(yield func(any) bool) {
		defer func() { stopped = true }()
		for i := 0; i < 10; i++ {
			if !yield(i) {
				return
			}
		}
	}

	for v := range Flatten([]any{inner}) {
		if v == 2 {
			break
		}
	}
	assert.True(t, stopped)
}

func TestErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrEmpty, ErrBatchSize))
	assert.False(t, errors.Is(ErrIncompleteBatch, ErrBatchSize))
}
