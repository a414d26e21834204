// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package invariant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(true, "unused"))

	err := Check(false)
	assert.ErrorIs(t, err, ErrViolation)
	assert.Equal(t, "invariant violated", err.Error())

	err = Check(1 > 2, "count", 3, "exceeds", 2)
	assert.EqualError(t, err, "invariant violated: count 3 exceeds 2")

	var v *Violation
	assert.True(t, errors.As(err, &v))
	assert.Equal(t, "count 3 exceeds 2", v.Msg)
}

func TestHolds(t *testing.T) {
	nonEmpty := func(s []int) bool { return len(s) > 0 }

	assert.NoError(t, Holds([]int{1}, nonEmpty))
	assert.ErrorIs(t, Holds([]int{}, nonEmpty, "need data"), ErrViolation)
	assert.ErrorIs(t, Holds(1, nil), ErrViolation)
}

func TestAssert(t *testing.T) {
	assert.NotPanics(t, func() { Assert(true) })

	defer func() {
		r := recover()
		err, ok := r.(error)
		assert.True(t, ok)
		assert.ErrorIs(t, err, ErrViolation)
		assert.EqualError(t, err, "invariant violated: boom")
	}()
	Assert(false, "boom")
}
