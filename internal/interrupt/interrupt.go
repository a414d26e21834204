// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package interrupt holds incoming signals while a critical section runs and
// acts on them once it ends.
package interrupt

import (
	"errors"
	"os"
	"os/signal"
	"sync"

	"github.com/apex/log"
)

var (
	ErrActive    = errors.New("interrupt: guard already entered")
	ErrNotActive = errors.New("interrupt: guard not entered")
)

// Guard captures signals between Enter and Exit. Only the first signal is
// kept. Exit hands it to OnSignal.
type Guard struct {
	// OnSignal runs on Exit when a signal arrived. The default re-delivers
	// the signal to this process with normal handling restored.
	OnSignal func(os.Signal)

	sigs []os.Signal

	mu       sync.Mutex
	ch       chan os.Signal
	done     chan struct{}
	notified chan struct{}
	received os.Signal
}

// New returns a Guard for sigs, or for os.Interrupt if none are given.
func New(sigs ...os.Signal) *Guard {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt}
	}
	return &Guard{sigs: sigs, OnSignal: Redeliver}
}

// Enter starts capturing. Any signal held from a previous section is cleared.
func (g *Guard) Enter() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ch != nil {
		return ErrActive
	}

	g.received = nil
	g.ch = make(chan os.Signal, 1)
	g.done = make(chan struct{})
	g.notified = make(chan struct{})
	signal.Notify(g.ch, g.sigs...)

	go g.collect(g.ch, g.done, g.notified)
	return nil
}

func (g *Guard) collect(ch <-chan os.Signal, done, notified chan<- struct{}) {
	defer close(done)
	for sig := range ch {
		g.mu.Lock()
		if g.received == nil {
			g.received = sig
			close(notified)
			log.Debugf("interrupt: holding %v", sig)
		}
		g.mu.Unlock()
	}
}

// Exit stops capturing and, if a signal was held, passes it to OnSignal.
func (g *Guard) Exit() error {
	g.mu.Lock()
	ch, done := g.ch, g.done
	g.ch, g.done = nil, nil
	g.mu.Unlock()
	if ch == nil {
		return ErrNotActive
	}

	signal.Stop(ch)
	close(ch)
	<-done

	if sig := g.Received(); sig != nil && g.OnSignal != nil {
		g.OnSignal(sig)
	}
	return nil
}

// Received returns the held signal, or nil.
func (g *Guard) Received() os.Signal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.received
}

// Done returns a channel that is closed when the current section receives
// its first signal. It stays closed after Exit until the next Enter. Before
// the first Enter it returns nil, which blocks forever.
func (g *Guard) Done() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.notified
}

// Defer runs fn inside a Guard for sigs and acts on any held signal after fn
// returns or panics.
func Defer(fn func() error, sigs ...os.Signal) error {
	g := New(sigs...)
	if err := g.Enter(); err != nil {
		return err
	}
	defer g.Exit()
	return fn()
}

// Redeliver sends sig to the current process.
func Redeliver(sig os.Signal) {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		log.WithError(err).Warn("interrupt: cannot find own process")
		return
	}
	if err := p.Signal(sig); err != nil {
		log.WithError(err).Warnf("interrupt: redeliver %v", sig)
	}
}
