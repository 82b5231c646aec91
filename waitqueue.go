// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package csp

// waitQueue is an intrusive circular doubly-linked list of waiters
// with a sentinel root node: pushBack, popFront and unlink are all
// O(1). All operations require the owning channel's or mutex's lock.
type waitQueue[T any] struct {
	root waiter[T]
}

func (q *waitQueue[T]) init() {
	q.root.next = &q.root
	q.root.prev = &q.root
}

func (q *waitQueue[T]) empty() bool {
	return q.root.next == &q.root
}

// pushBack appends w before the sentinel.
func (q *waitQueue[T]) pushBack(w *waiter[T]) {
	at := q.root.prev
	w.prev = at
	w.next = &q.root
	at.next = w
	q.root.prev = w
	w.linked = true
}

// popFront detaches and returns the oldest waiter, or nil.
func (q *waitQueue[T]) popFront() *waiter[T] {
	w := q.root.next
	if w == &q.root {
		return nil
	}
	q.unlink(w)
	return w
}

// unlink detaches an arbitrary queued waiter. Calling it on a node
// that is not linked is a bug in this package, not a runtime race.
func (q *waitQueue[T]) unlink(w *waiter[T]) {
	if !w.linked {
		panic("csp: unlink of waiter not in queue")
	}
	w.prev.next = w.next
	w.next.prev = w.prev
	w.prev = nil
	w.next = nil
	w.linked = false
}
