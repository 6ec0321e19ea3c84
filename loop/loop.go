// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package loop

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/strfive/caster"
	"github.com/strfive/caster/render"
)

// Target is what the loop drives each frame. *render.Renderer implements
// it.
type Target interface {
	Update()
	Render() error
	Reconfigure() error
}

var _ Target = (*render.Renderer)(nil)

// Option configures a Loop.
type Option func(*Loop)

// WithExitKeys makes a press of any of keys stop the loop.
func WithExitKeys(keys ...gpucontext.Key) Option {
	return func(l *Loop) {
		l.exitKeys = append(l.exitKeys, keys...)
	}
}

// Loop dispatches events to a Target. It is not safe for concurrent use;
// all callbacks run on the goroutine calling Run.
type Loop struct {
	target   Target
	exitKeys []gpucontext.Key

	frames  uint64
	skipped uint64
	closed  bool
}

// New creates a loop driving target.
func New(target Target, opts ...Option) *Loop {
	l := &Loop{target: target}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OnClose marks the loop finished.
func (l *Loop) OnClose() {
	l.closed = true
}

// OnInput reports whether ev should stop the loop.
func (l *Loop) OnInput(ev InputEvent) bool {
	return ev.Pressed && slices.Contains(l.exitKeys, ev.Key)
}

// OnRedraw updates and renders one frame.
//
// A recoverable surface error skips the frame without error; an outdated
// or lost surface is reconfigured first. Other errors are returned and
// should end the loop.
func (l *Loop) OnRedraw() error {
	l.target.Update()
	err := l.target.Render()
	if err == nil {
		l.frames++
		return nil
	}
	if !render.IsRecoverable(err) {
		return fmt.Errorf("loop: render frame %d: %w", l.frames+l.skipped+1, err)
	}

	l.skipped++
	if !render.NeedsReconfigure(err) {
		caster.Logger().Debug("loop: frame skipped", "error", err, "skipped", l.skipped)
		return nil
	}
	caster.Logger().Debug("loop: frame skipped, reconfiguring", "error", err, "skipped", l.skipped)
	if err := l.target.Reconfigure(); err != nil {
		return fmt.Errorf("loop: reconfigure: %w", err)
	}
	return nil
}

// Run dispatches events until a close event, an exit key, the events
// channel closing, ctx ending or a fatal render error. It returns nil on a
// normal stop and ctx.Err() on cancellation.
func (l *Loop) Run(ctx context.Context, events <-chan Event) error {
	log := caster.Logger()
	log.Info("loop: started")
	defer func() {
		log.Info("loop: stopped", "frames", l.frames, "skipped", l.skipped)
	}()

	for !l.closed {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case CloseEvent:
				l.OnClose()
			case InputEvent:
				if l.OnInput(ev) {
					log.Info("loop: exit key pressed", "key", ev.Key)
					l.OnClose()
				}
			case RedrawEvent:
				if err := l.OnRedraw(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Frames returns the number of frames rendered.
func (l *Loop) Frames() uint64 { return l.frames }

// Skipped returns the number of frames skipped for surface recovery.
func (l *Loop) Skipped() uint64 { return l.skipped }

// Closed reports whether the loop received a close request.
func (l *Loop) Closed() bool { return l.closed }

// Ticker emits a RedrawEvent every interval until ctx ends, then closes
// the channel. A slow consumer drops ticks rather than queueing them.
func Ticker(ctx context.Context, interval time.Duration) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				select {
				case out <- RedrawEvent{At: now}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
