// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"strconv"
	"time"
)

// Clock is the time source a Timer reads from.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now, including its monotonic component.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// UTCNow returns the current wall time in UTC.
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UTCSeconds returns the current Unix time in whole seconds.
func UTCSeconds() int64 {
	return time.Now().Unix()
}

// UTCString is UTCSeconds formatted as a decimal string.
func UTCString() string {
	return strconv.FormatInt(UTCSeconds(), 10)
}
