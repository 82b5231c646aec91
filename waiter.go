// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package csp

import "sync/atomic"

// waiterKind discriminates the closed set of suspended operations a
// wait queue can hold. Dispatch is by switch, not by interface.
type waiterKind uint8

const (
	kindSend      waiterKind = iota // Send parked on a full buffer
	kindReceive                     // Receive parked on an empty buffer
	kindReceiveOK                   // ReceiveOK parked on an empty buffer
	kindNext                        // Iterator.Next parked on an empty buffer
	kindSelect                      // registered select case, either direction
	kindMutex                       // Mutex.Lock parked on a held lock
)

// received is the outcome a receive-side waiter is resumed with. ok is
// false only for the comma-ok kinds on a closed, drained channel.
type received[T any] struct {
	value T
	ok    bool
}

// A waiter is one suspended operation queued on a channel or mutex.
// Links and the linked flag are guarded by the owner's lock; the node
// is resumed at most once, strictly after it was unlinked and the lock
// was released.
type waiter[T any] struct {
	kind       waiterKind
	prev, next *waiter[T]
	linked     bool

	// value carries the pending element of a send waiter or a
	// select send case.
	value T

	done parker[received[T]]

	// ghost marks a mutex waiter that acquired the lock through the
	// retry race and left its node behind; Unlock skips it.
	ghost atomic.Bool

	// sel and deliver are set for select cases only. deliver posts
	// the winning outcome to the selector; it never runs under a
	// channel lock.
	sel     *selectState
	deliver func(v T, err error)
}

func newWaiter[T any](kind waiterKind) *waiter[T] {
	return &waiter[T]{kind: kind, done: newParker[received[T]]()}
}

// deliverValue hands an element straight to a receive-side waiter,
// bypassing the buffer.
func (w *waiter[T]) deliverValue(v T) {
	if w.kind == kindSelect {
		w.deliver(v, nil)
		return
	}
	w.done.resume(received[T]{value: v, ok: true}, nil)
}

// accept resumes a send-side waiter whose pending value was taken.
func (w *waiter[T]) accept() {
	if w.kind == kindSelect {
		w.deliver(w.value, nil)
		return
	}
	w.done.resume(received[T]{}, nil)
}

// drop resumes a waiter that was still queued when the channel closed.
func (w *waiter[T]) drop() {
	switch w.kind {
	case kindSelect:
		var zero T
		w.deliver(zero, ErrChannelClosed)
	case kindReceiveOK, kindNext:
		w.done.resume(received[T]{}, nil)
	default:
		w.done.resume(received[T]{}, ErrChannelClosed)
	}
}
