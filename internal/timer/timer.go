// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"errors"
	"iter"
	"time"

	"github.com/apex/log"
)

// Mode selects how a Timer reacts to state machine misuse.
type Mode int

const (
	// Strict returns an *InvalidStateError on misuse. It is the zero value.
	Strict Mode = iota
	// Permissive ignores misuse and logs it at debug level.
	Permissive
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Permissive:
		return "permissive"
	default:
		return "unknown"
	}
}

// State is the lifecycle position of a Timer.
type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Lap is the interval between two consecutive time stamps.
type Lap struct {
	Start time.Time
	End   time.Time
}

// Duration is End - Start.
func (l Lap) Duration() time.Duration {
	return l.End.Sub(l.Start)
}

// Timer records a start stamp, any number of lap stamps and a stop stamp.
//
// The zero value is an idle, strict Timer reading the system clock. A Timer
// is not safe for concurrent use.
type Timer struct {
	mode   Mode
	clock  Clock
	state  State
	start  time.Time
	stop   time.Time
	stamps []time.Time
}

// Option configures a Timer built by New.
type Option func(*options)

type options struct {
	mode     Mode
	clock    Clock
	startNow bool
}

// WithMode sets the misuse policy. The default is Strict.
func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithClock replaces the system clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// StartNow starts the Timer as part of construction.
func StartNow() Option {
	return func(o *options) { o.startNow = true }
}

// New returns a Timer configured by opts.
func New(opts ...Option) *Timer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	t := &Timer{mode: o.mode, clock: o.clock}
	if o.startNow {
		t.begin()
	}
	return t
}

// Mode returns the misuse policy of t.
func (t *Timer) Mode() Mode {
	return t.mode
}

// State returns the current lifecycle state.
func (t *Timer) State() State {
	return t.state
}

// Start begins a run. Starting a stopped Timer discards the previous run and
// begins a new one; starting a running Timer is misuse.
func (t *Timer) Start() error {
	switch t.state {
	case Idle, Stopped:
		t.begin()
		return nil
	default:
		return t.misuse("Start")
	}
}

// Stop ends the current run. Only a running Timer can be stopped.
func (t *Timer) Stop() error {
	if t.state != Running {
		return t.misuse("Stop")
	}
	t.stop = t.stamp()
	t.stamps = append(t.stamps, t.stop)
	t.state = Stopped
	return nil
}

// Lap records an intermediate stamp. Only a running Timer accepts laps.
func (t *Timer) Lap() error {
	if t.state != Running {
		return t.misuse("Lap")
	}
	t.stamps = append(t.stamps, t.stamp())
	return nil
}

// Reset returns t to Idle, dropping every recorded stamp.
func (t *Timer) Reset() {
	t.state = Idle
	t.start = time.Time{}
	t.stop = time.Time{}
	t.stamps = nil
}

// Duration returns the elapsed time of the current run: up to the stop stamp
// if stopped, up to now if running. An idle Timer has no duration in either
// mode.
func (t *Timer) Duration() (time.Duration, error) {
	switch t.state {
	case Running:
		return t.stamp().Sub(t.start), nil
	case Stopped:
		return t.stop.Sub(t.start), nil
	default:
		return 0, &InvalidStateError{Op: "Duration", State: t.state}
	}
}

// StartTime returns the start stamp and whether one is set.
func (t *Timer) StartTime() (time.Time, bool) {
	return t.start, t.state != Idle
}

// StopTime returns the stop stamp and whether one is set.
func (t *Timer) StopTime() (time.Time, bool) {
	return t.stop, t.state == Stopped
}

// TimeStamps returns a copy of every stamp in the current run.
func (t *Timer) TimeStamps() []time.Time {
	if len(t.stamps) == 0 {
		return nil
	}
	out := make([]time.Time, len(t.stamps))
	copy(out, t.stamps)
	return out
}

// Laps yields the intervals closed by a Lap call, oldest first. The final
// segment closed by Stop is not a lap, so a plain Start/Stop run has none.
// The sequence reads the Timer each time it is ranged over.
func (t *Timer) Laps() iter.Seq[Lap] {
	return func(yield func(Lap) bool) {
		stamps, n := t.stamps, t.lapCount()
		for i := 0; i < n; i++ {
			if !yield(Lap{Start: stamps[i], End: stamps[i+1]}) {
				return
			}
		}
	}
}

// LapDurations yields the Duration of each lap from Laps.
func (t *Timer) LapDurations() iter.Seq[time.Duration] {
	return func(yield func(time.Duration) bool) {
		for lap := range t.Laps() {
			if !yield(lap.Duration()) {
				return
			}
		}
	}
}

// LapCount is the number of laps Laps yields.
func (t *Timer) LapCount() int {
	return t.lapCount()
}

// AverageLap returns the mean lap duration, or false when there are no laps.
func (t *Timer) AverageLap() (time.Duration, bool) {
	n := t.lapCount()
	if n == 0 {
		return 0, false
	}
	var total time.Duration
	for d := range t.LapDurations() {
		total += d
	}
	return total / time.Duration(n), true
}

// Measure starts t, runs fn and stops t. Stop runs even when fn fails or
// panics. If Start fails, fn is not called.
func (t *Timer) Measure(fn func() error) (err error) {
	if err := t.Start(); err != nil {
		return err
	}
	defer func() {
		if stopErr := t.Stop(); stopErr != nil {
			err = errors.Join(err, stopErr)
		}
	}()
	return fn()
}

func (t *Timer) begin() {
	// Live Laps iterators may still hold the previous run's slice.
	now := t.now()
	t.start = now
	t.stop = time.Time{}
	t.stamps = []time.Time{now}
	t.state = Running
}

func (t *Timer) lapCount() int {
	n := len(t.stamps) - 1
	if t.state == Stopped {
		n--
	}
	if n < 0 {
		return 0
	}
	return n
}

// stamp reads the clock, never returning a time earlier than the last stamp.
func (t *Timer) stamp() time.Time {
	now := t.now()
	if n := len(t.stamps); n > 0 && now.Before(t.stamps[n-1]) {
		return t.stamps[n-1]
	}
	return now
}

func (t *Timer) now() time.Time {
	if t.clock == nil {
		return SystemClock.Now()
	}
	return t.clock.Now()
}

func (t *Timer) misuse(op string) error {
	err := &InvalidStateError{Op: op, State: t.state}
	if t.mode == Strict {
		return err
	}
	log.WithError(err).Debug("timer misuse ignored")
	return nil
}
