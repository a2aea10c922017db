// Copyright 2025 The go-histeq Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool for
// row-band parallel image passes. A Pool is created once and reused across
// many histogram and remap passes, so each pass only pays for handing bands
// to already running workers and waiting on a barrier.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	bands := pool.Split(height)
//	partial := make([][]uint64, len(bands))
//	pool.Run(bands, func(b workerpool.Band) {
//	    partial[b.Index] = scanRows(b.Start, b.End)
//	})
//	// every band has finished here
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Band is a contiguous, half-open range of indices [Start, End) assigned to
// one worker. Index is the band's position in the partition, which callers
// use to address per-band private state.
type Band struct {
	Index int
	Start int
	End   int
}

// Len returns the number of indices covered by the band.
func (b Band) Len() int {
	return b.End - b.Start
}

// Bands partitions [0, n) into at most parts contiguous, non-empty bands of
// ceil(n/parts) indices each (the last band may be shorter). The bands are
// returned in ascending order and cover every index exactly once.
// It returns nil when n <= 0. parts < 1 is treated as 1.
func Bands(n, parts int) []Band {
	if n <= 0 {
		return nil
	}
	parts = max(1, min(parts, n))

	chunkSize := (n + parts - 1) / parts
	bands := make([]Band, 0, parts)
	for start := 0; start < n; start += chunkSize {
		bands = append(bands, Band{
			Index: len(bands),
			Start: start,
			End:   min(start+chunkSize, n),
		})
	}
	return bands
}

// Pool is a persistent worker pool that can be reused across many parallel
// passes. Workers are spawned once at creation and reused.
//
// A nil *Pool is valid and runs everything sequentially on the caller's
// goroutine.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

// workItem represents a single band of a parallel pass.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	// GOMAXPROCS is never below 1, but keep the single-worker floor explicit.
	numWorkers = max(1, numWorkers)

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

// worker is the main loop for each persistent worker goroutine.
func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
// A nil or closed pool reports a single worker, matching how it executes.
func (p *Pool) NumWorkers() int {
	if p == nil || p.closed.Load() {
		return 1
	}
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe. Close must not race with an
// in-flight Run on the same pool.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// Split partitions [0, n) into one band per available worker, never more
// bands than indices.
func (p *Pool) Split(n int) []Band {
	return Bands(n, p.NumWorkers())
}

// Run executes fn once for every band and blocks until all of them have
// returned. Bands are handed to distinct workers; fn must only touch state
// owned by the band it receives.
//
// With a nil or closed pool, or a single band, fn runs sequentially on the
// calling goroutine.
func (p *Pool) Run(bands []Band, fn func(b Band)) {
	if len(bands) == 0 {
		return
	}

	if len(bands) == 1 || p == nil || p.closed.Load() {
		for _, b := range bands {
			fn(b)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(bands))
	for _, b := range bands {
		p.workC <- workItem{
			fn: func() {
				fn(b)
			},
			barrier: &wg,
		}
	}
	wg.Wait()
}

// ParallelFor executes fn for each index in [0, n) using the worker pool.
// Each worker processes a contiguous range of indices.
// Blocks until all work completes.
//
// fn receives (start, end) indices where work should process [start, end).
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	p.Run(p.Split(n), func(b Band) {
		fn(b.Start, b.End)
	})
}
