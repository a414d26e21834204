// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package invariant checks conditions that must hold if the calling code is
// correct. A failure means a bug, not bad input.
package invariant

import (
	"errors"
	"fmt"
	"strings"
)

// ErrViolation matches every *Violation.
var ErrViolation = errors.New("invariant violated")

// Violation reports a failed check. Msg may be empty.
type Violation struct {
	Msg string
}

func (v *Violation) Error() string {
	if v.Msg == "" {
		return ErrViolation.Error()
	}
	return ErrViolation.Error() + ": " + v.Msg
}

func (v *Violation) Is(target error) bool {
	return target == ErrViolation
}

// Check returns a *Violation when cond is false. Extra arguments are joined
// with spaces into the message.
func Check(cond bool, msg ...any) error {
	if cond {
		return nil
	}
	return &Violation{Msg: join(msg)}
}

// Holds applies test to v and returns a *Violation when it reports false. A
// nil test is itself a violation.
func Holds[T any](v T, test func(T) bool, msg ...any) error {
	if test == nil {
		return &Violation{Msg: "nil test"}
	}
	return Check(test(v), msg...)
}

// Assert panics with a *Violation when cond is false.
func Assert(cond bool, msg ...any) {
	if err := Check(cond, msg...); err != nil {
		panic(err)
	}
}

func join(msg []any) string {
	if len(msg) == 0 {
		return ""
	}
	parts := make([]string, len(msg))
	for i, m := range msg {
		parts[i] = fmt.Sprint(m)
	}
	return strings.Join(parts, " ")
}
