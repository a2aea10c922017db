// Copyright 2025 go-histeq Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package equalize performs per-channel histogram equalization of a region
// of a pixel.Buffer, in place.
//
// Each channel runs its own pipeline (accumulate histogram, derive the
// cumulative table, remap the region) and the three pipelines run
// concurrently on a shared worker pool. Channels live in separate planes and
// row bands never overlap, so no locking is involved.
//
// Usage:
//
//	eq := equalize.New(equalize.WithWorkers(8))
//	defer eq.Close()
//
//	if err := eq.Equalize(buf, buf.Bounds()); err != nil {
//	    return err
//	}
package equalize

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-histeq/histogram"
	"github.com/ajroetker/go-histeq/pixel"
	"github.com/ajroetker/go-histeq/workerpool"
)

// ErrNilBuffer is returned when no buffer is given.
var ErrNilBuffer = errors.New("equalize: nil buffer")

// Stage is a step of a channel pipeline.
type Stage int

const (
	Accumulating Stage = iota
	Mapping
	Equalizing
	Done
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case Accumulating:
		return "accumulating"
	case Mapping:
		return "mapping"
	case Equalizing:
		return "equalizing"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Equalizer runs histogram equalization with a fixed resolution on a
// persistent worker pool. It is safe for concurrent use as long as
// concurrent calls touch disjoint regions or disjoint buffers.
type Equalizer struct {
	pool       *workerpool.Pool
	ownsPool   bool
	workers    int
	resolution int
	log        zerolog.Logger
	onStage    func(pixel.Channel, Stage)
}

// Option configures an Equalizer.
type Option func(*Equalizer)

// WithWorkers sets the size of the worker pool the Equalizer creates.
// n <= 0 uses GOMAXPROCS. Ignored when WithPool is given.
func WithWorkers(n int) Option {
	return func(e *Equalizer) {
		e.workers = n
	}
}

// WithPool runs all passes on pool instead of a pool owned by the
// Equalizer. The caller keeps ownership and must close it. A nil pool runs
// every pass sequentially.
func WithPool(pool *workerpool.Pool) Option {
	return func(e *Equalizer) {
		e.pool = pool
		e.ownsPool = false
	}
}

// WithResolution sets the number of histogram buckets.
func WithResolution(resolution int) Option {
	return func(e *Equalizer) {
		e.resolution = resolution
	}
}

// WithLogger sets the logger used for stage timings (debug level).
func WithLogger(log zerolog.Logger) Option {
	return func(e *Equalizer) {
		e.log = log
	}
}

// WithStageHook registers fn to be called when a channel pipeline enters a
// stage. fn is called from the pipeline goroutines concurrently.
func WithStageHook(fn func(pixel.Channel, Stage)) Option {
	return func(e *Equalizer) {
		e.onStage = fn
	}
}

// New creates an Equalizer. Without WithPool it owns a new worker pool that
// Close releases.
func New(opts ...Option) *Equalizer {
	e := &Equalizer{
		resolution: histogram.DefaultResolution,
		log:        zerolog.Nop(),
		ownsPool:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.ownsPool {
		e.pool = workerpool.New(e.workers)
	}
	return e
}

// Close releases the worker pool if the Equalizer owns it. Later calls to
// Equalize still work, sequentially.
func (e *Equalizer) Close() {
	if e.ownsPool {
		e.pool.Close()
	}
}

// Resolution returns the number of histogram buckets.
func (e *Equalizer) Resolution() int {
	return e.resolution
}

// Workers returns the number of row bands a pass is split into at most.
func (e *Equalizer) Workers() int {
	return e.pool.NumWorkers()
}

// Equalize equalizes every channel of buf inside r in place. Pixels outside
// r are not modified.
//
// The region is checked before any work is scheduled: an out-of-bounds
// region returns an error wrapping pixel.ErrRegionOutOfBounds and leaves buf
// untouched.
func (e *Equalizer) Equalize(buf *pixel.Buffer, r pixel.Region) error {
	windows, err := e.windows(buf, r, pixel.Channels[:]...)
	if err != nil {
		return err
	}

	start := time.Now()
	var g errgroup.Group
	for i, ch := range pixel.Channels {
		g.Go(func() error {
			e.run(ch, windows[i])
			return nil
		})
	}
	err = g.Wait()

	e.log.Debug().
		Stringer("region", r).
		Int("workers", e.Workers()).
		Int("resolution", e.resolution).
		Dur("elapsed", time.Since(start)).
		Msg("equalized")
	return err
}

// EqualizeChannel equalizes a single channel of buf inside r in place.
func (e *Equalizer) EqualizeChannel(buf *pixel.Buffer, ch pixel.Channel, r pixel.Region) error {
	windows, err := e.windows(buf, r, ch)
	if err != nil {
		return err
	}
	e.run(ch, windows[0])
	return nil
}

// windows validates the inputs and returns one window per channel.
func (e *Equalizer) windows(buf *pixel.Buffer, r pixel.Region, chs ...pixel.Channel) ([]pixel.Window, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}
	if err := histogram.ValidateResolution(e.resolution); err != nil {
		return nil, err
	}
	windows := make([]pixel.Window, len(chs))
	for i, ch := range chs {
		w, err := buf.Window(ch, r)
		if err != nil {
			return nil, fmt.Errorf("equalize %v: %w", ch, err)
		}
		windows[i] = w
	}
	return windows, nil
}

// run is one channel pipeline: accumulate, cumulative table, remap.
func (e *Equalizer) run(ch pixel.Channel, w pixel.Window) {
	log := e.log.With().Stringer("channel", ch).Logger()
	stage := func(s Stage, since time.Time) time.Time {
		if e.onStage != nil {
			e.onStage(ch, s)
		}
		now := time.Now()
		if s != Accumulating {
			log.Debug().Stringer("stage", s-1).Dur("elapsed", now.Sub(since)).Msg("stage finished")
		}
		return now
	}

	t := stage(Accumulating, time.Time{})
	hist := histogram.AccumulateWindow(e.pool, w, e.resolution)

	t = stage(Mapping, t)
	table := histogram.Cumulative(hist)

	t = stage(Equalizing, t)
	RemapWindow(e.pool, w, table)

	stage(Done, t)
}

var defaultEqualizer = sync.OnceValue(func() *Equalizer {
	return New()
})

// Equalize equalizes every channel of buf inside r in place using a shared
// Equalizer with GOMAXPROCS workers and the default resolution.
func Equalize(buf *pixel.Buffer, r pixel.Region) error {
	return defaultEqualizer().Equalize(buf, r)
}
