// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package workerspool runs independent tasks in goroutines, with a soft limit on how many run at the same time.
package workerspool

import (
	"runtime"
	"sync"
)

// Pool of workers.
//
// A maxParallelism of 0 disables parallelism: tasks run inline, in the caller's goroutine.
// A negative maxParallelism means unlimited parallelism.
type Pool struct {
	maxParallelism int
	mu             sync.Mutex
	cond           sync.Cond // Should be signaled whenever numRunning is decreased.
	numRunning     int
}

// New returns a new Pool of workers with the given parallelism.
func New(maxParallelism int) *Pool {
	w := &Pool{maxParallelism: maxParallelism}
	w.cond = sync.Cond{L: &w.mu}
	return w
}

// NewDefault returns a new Pool with runtime.NumCPU() workers.
func NewDefault() *Pool {
	return New(runtime.NumCPU())
}

// IsEnabled returns whether parallelism is enabled (maxParallelism is != 0)
func (w *Pool) IsEnabled() bool {
	return w.maxParallelism != 0
}

// IsUnlimited returns whether parallelism is unlimited (maxParallelism < 0)
func (w *Pool) IsUnlimited() bool {
	return w.maxParallelism < 0
}

// MaxParallelism returns the limit of tasks running at the same time.
func (w *Pool) MaxParallelism() int {
	return w.maxParallelism
}

// lockedIsFull returns whether all available workers are in use.
//
// It must be called with Pool.mu acquired.
func (w *Pool) lockedIsFull() bool {
	if w.maxParallelism < 0 {
		return false
	}
	return w.numRunning >= w.maxParallelism
}

// WaitToStart waits until there is a worker available and starts task in a new goroutine.
// It returns as soon as the task is started: it's up to the caller to synchronize the end of it.
//
// If parallelism is disabled it runs the task inline and returns when it is finished.
func (w *Pool) WaitToStart(task func()) {
	if w.IsUnlimited() {
		go task()
		return
	} else if !w.IsEnabled() {
		task()
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for w.lockedIsFull() {
		w.cond.Wait()
	}
	w.numRunning++
	go func() {
		defer w.taskDone()
		task()
	}()
}

func (w *Pool) taskDone() {
	w.mu.Lock()
	w.numRunning--
	w.cond.Signal()
	w.mu.Unlock()
}

// ForEach calls fn(i) for every i in [0, n), using the workers of the pool, and returns once all calls finished.
//
// Calls may happen in any order and concurrently, so fn must only touch state owned by index i,
// or protect shared state itself.
//
// If any call panics, ForEach still waits for all started calls and then re-panics with the first
// panic value in the caller's goroutine, where it can be recovered.
func (w *Pool) ForEach(n int, fn func(i int)) {
	if !w.IsEnabled() || n <= 1 {
		for i := range n {
			fn(i)
		}
		return
	}
	var (
		wg         sync.WaitGroup
		panicMu    sync.Mutex
		panicked   bool
		firstPanic any
	)
	wg.Add(n)
	for i := range n {
		w.WaitToStart(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					panicMu.Lock()
					if !panicked {
						panicked, firstPanic = true, r
					}
					panicMu.Unlock()
				}
			}()
			fn(i)
		})
	}
	wg.Wait()
	if panicked {
		panic(firstPanic)
	}
}
