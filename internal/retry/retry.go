// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package retry re-runs failing operations with an exponential delay plus
// random jitter.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/apex/log"
	"github.com/cenkalti/backoff/v5"
)

const (
	DefaultMaxTries  = 3
	DefaultBaseDelay = 2 * time.Second
	DefaultJitter    = time.Second
)

// Config controls Do and Value.
type Config struct {
	// MaxTries counts every call of the operation, including the first.
	// Zero means DefaultMaxTries.
	MaxTries uint
	// BaseDelay, in seconds, is raised to the retry number. The wait before
	// retry k is BaseDelay^k seconds.
	BaseDelay time.Duration
	// Jitter adds a uniform random wait in [0, Jitter) to every delay.
	Jitter time.Duration
	// Retryable reports whether an error is worth another try. Nil retries
	// everything.
	Retryable func(error) bool
	// MaxElapsed caps the total time spent. Zero means no cap.
	MaxElapsed time.Duration
}

// DefaultConfig is three tries, 2s base and up to 1s of jitter.
func DefaultConfig() Config {
	return Config{
		MaxTries:  DefaultMaxTries,
		BaseDelay: DefaultBaseDelay,
		Jitter:    DefaultJitter,
	}
}

// Do runs fn until it succeeds or cfg gives up. The last error is returned
// unwrapped.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	_, err := Value(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Value is Do for operations that produce a result.
func Value[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	tries := cfg.MaxTries
	if tries == 0 {
		tries = DefaultMaxTries
	}

	attempt := 0
	op := func() (T, error) {
		attempt++
		v, err := fn()
		if err != nil && cfg.Retryable != nil && !cfg.Retryable(err) {
			log.WithError(err).Debugf("retry: attempt %d not retryable", attempt)
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	v, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(NewBackOff(cfg)),
		backoff.WithMaxTries(tries),
		backoff.WithMaxElapsedTime(cfg.MaxElapsed),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.WithError(err).Warnf("retry: attempt %d of %d failed, waiting %s", attempt, tries, next)
		}),
	)

	// A permanent error on the last try comes back still wrapped.
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	return v, err
}

// ExponentialBackOff yields BaseDelay^k seconds plus jitter for k = 1, 2, ...
// It implements backoff.BackOff.
type ExponentialBackOff struct {
	base   float64
	jitter time.Duration
	rand   func() float64
	n      int
}

// NewBackOff builds the delay policy described by cfg.
func NewBackOff(cfg Config) *ExponentialBackOff {
	return &ExponentialBackOff{
		base:   cfg.BaseDelay.Seconds(),
		jitter: cfg.Jitter,
		rand:   rand.Float64,
	}
}

// NextBackOff returns the wait before the next retry.
func (b *ExponentialBackOff) NextBackOff() time.Duration {
	b.n++
	secs := math.Pow(b.base, float64(b.n))
	if math.IsInf(secs, 0) || secs > math.MaxInt64/float64(time.Second) {
		return backoff.Stop
	}
	d := time.Duration(secs * float64(time.Second))
	if b.jitter > 0 {
		d += time.Duration(b.rand() * float64(b.jitter))
	}
	return d
}

// Reset restarts the exponent.
func (b *ExponentialBackOff) Reset() {
	b.n = 0
}
