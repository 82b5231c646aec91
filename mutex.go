// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package csp

import (
	"sync"
	"sync/atomic"
)

// mutexUnlocked is the state of a free mutex; any value n >= 0 means
// locked with n counted waiters. The count is anonymous: a waiter
// that acquires the lock through the retry race never increments it,
// and the ghost node it leaves behind is skipped lazily by Unlock.
const mutexUnlocked int32 = -1

// A Mutex is a non-reentrant mutual-exclusion lock whose Lock parks
// the calling goroutine instead of spinning. Waiters are resumed
// roughly in FIFO order; fairness is best effort. A Mutex must be
// created with NewMutex and must not be copied.
type Mutex struct {
	state atomic.Int32

	qmu     sync.Mutex
	waiters waitQueue[struct{}]
}

// NewMutex returns an unlocked mutex.
func NewMutex() *Mutex {
	m := &Mutex{}
	m.state.Store(mutexUnlocked)
	m.waiters.init()
	return m
}

// Lock acquires the mutex, parking the calling goroutine until it is
// available. Locking a mutex the caller already holds deadlocks.
func (m *Mutex) Lock() {
	if m.state.CompareAndSwap(mutexUnlocked, 0) {
		return
	}

	// Register before retrying. Should the mutex become free between
	// the failed fast path and the retry below, the loop still takes
	// it and only the queued node goes stale, instead of this
	// goroutine parking with nobody left to resume it.
	w := newWaiter[struct{}](kindMutex)
	m.qmu.Lock()
	m.waiters.pushBack(w)
	m.qmu.Unlock()

	for {
		s := m.state.Load()
		if s == mutexUnlocked {
			if m.state.CompareAndSwap(mutexUnlocked, 0) {
				w.ghost.Store(true)
				return
			}
		} else if m.state.CompareAndSwap(s, s+1) {
			break
		}
	}
	_, _ = w.done.park()
}

// Unlock releases the mutex, handing it directly to the oldest parked
// waiter if any. Unlocking a mutex that is not locked panics.
func (m *Mutex) Unlock() {
	for {
		s := m.state.Load()
		switch {
		case s == mutexUnlocked:
			panic("csp: unlock of unlocked mutex")
		case s == 0:
			if m.state.CompareAndSwap(0, mutexUnlocked) {
				return
			}
		default:
			if m.state.CompareAndSwap(s, s-1) {
				m.resumeNext()
				return
			}
		}
	}
}

// resumeNext pops waiters until it finds one that did not already
// slip past the queue, and resumes it as the new lock owner.
func (m *Mutex) resumeNext() {
	m.qmu.Lock()
	for {
		w := m.waiters.popFront()
		if w == nil {
			m.qmu.Unlock()
			panic("csp: mutex records waiters but none is queued")
		}
		if w.ghost.Load() {
			continue
		}
		m.qmu.Unlock()
		w.done.resume(received[struct{}]{}, nil)
		return
	}
}
