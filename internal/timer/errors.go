// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"errors"
	"fmt"
)

// ErrInvalidState is matched by every *InvalidStateError via errors.Is.
var ErrInvalidState = errors.New("invalid timer state")

// InvalidStateError reports misuse of the Timer state machine, such as
// stopping a timer that was never started.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("timer: %s called on %s timer", e.Op, e.State)
}

// Is reports whether target is ErrInvalidState.
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}
