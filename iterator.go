// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package csp

// An Iterator drains a channel element by element:
//
//	for it := ch.Iterator(); it.Next(); {
//		use(it.Value())
//	}
//
// Next parks until an element arrives and caches it for Value, so a
// probe and the subsequent take never suspend twice. Next returns
// false once the channel is closed and drained.
type Iterator[T any] struct {
	c  *Channel[T]
	v  T
	ok bool
}

// Iterator returns a fresh iterator over the channel. Multiple
// iterators compete for elements like any other receivers.
func (c *Channel[T]) Iterator() *Iterator[T] {
	return &Iterator[T]{c: c}
}

// Next fetches the next element, parking the calling goroutine while
// the channel is empty and open.
func (it *Iterator[T]) Next() bool {
	r, _ := it.c.receiveWait(kindNext)
	it.v = r.value
	it.ok = r.ok
	return it.ok
}

// Value returns the element fetched by the last successful Next.
func (it *Iterator[T]) Value() T {
	return it.v
}
