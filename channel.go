// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package csp

import "sync"

// SendChannel is the sending half of a Channel.
type SendChannel[T any] interface {
	Send(v T) error
	Close() bool
}

// ReceiveChannel is the receiving half of a Channel.
type ReceiveChannel[T any] interface {
	Receive() (T, error)
	ReceiveOK() (T, bool)
	Iterator() *Iterator[T]
}

// A Channel is a bounded FIFO queue connecting senders and receivers.
// Operations that cannot complete immediately park the calling
// goroutine until a counterpart operation or Close resumes it. A
// Channel must not be copied after first use.
type Channel[T any] struct {
	mu sync.Mutex

	// circular buffer, always len(buf) == capacity
	buf          []T
	sendx, recvx int
	count        int

	closed bool
	waitq  waitQueue[T]
}

var (
	_ SendChannel[int]    = (*Channel[int])(nil)
	_ ReceiveChannel[int] = (*Channel[int])(nil)
)

// NewChannel returns an open channel holding up to capacity buffered
// elements. It panics if capacity is less than one; there is no
// zero-capacity rendezvous mode, a capacity-1 channel behaves as a
// one-slot rendezvous buffer.
func NewChannel[T any](capacity int) *Channel[T] {
	if capacity < 1 {
		panic("csp: channel capacity must be at least one")
	}
	c := &Channel[T]{buf: make([]T, capacity)}
	c.waitq.init()
	return c
}

// Cap returns the channel's fixed capacity.
func (c *Channel[T]) Cap() int { return len(c.buf) }

// Len returns the number of buffered elements.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// IsClosed reports whether Close has been called.
func (c *Channel[T]) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Send delivers v to the channel, parking the calling goroutine while
// the buffer is full. If a receiver is already parked, v is handed to
// it directly and Send returns without suspending. Send reports
// ErrChannelClosed if the channel was closed before the call.
func (c *Channel[T]) Send(v T) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	if c.count == 0 {
		if r := c.dequeueWaiter(); r != nil {
			c.mu.Unlock()
			r.deliverValue(v)
			return nil
		}
	}
	if c.count < len(c.buf) {
		c.bufPush(v)
		c.mu.Unlock()
		return nil
	}
	w := newWaiter[T](kindSend)
	w.value = v
	c.waitq.pushBack(w)
	c.mu.Unlock()
	_, err := w.done.park()
	return err
}

// Receive takes the oldest element from the channel, parking the
// calling goroutine while the buffer is empty. A buffered element is
// still delivered after Close; once the channel is both closed and
// drained, Receive reports ErrChannelClosed.
func (c *Channel[T]) Receive() (T, error) {
	r, err := c.receiveWait(kindReceive)
	return r.value, err
}

// ReceiveOK behaves like Receive, except that exhaustion of a closed
// channel yields the zero value and false instead of an error.
func (c *Channel[T]) ReceiveOK() (T, bool) {
	r, _ := c.receiveWait(kindReceiveOK)
	return r.value, r.ok
}

func (c *Channel[T]) receiveWait(kind waiterKind) (received[T], error) {
	c.mu.Lock()
	if c.count > 0 {
		v := c.bufPop()
		// migrate the oldest parked sender into the freed slot
		sw := c.dequeueWaiter()
		if sw != nil {
			c.bufPush(sw.value)
		}
		c.mu.Unlock()
		if sw != nil {
			sw.accept()
		}
		return received[T]{value: v, ok: true}, nil
	}
	if c.closed {
		c.mu.Unlock()
		if kind == kindReceive {
			return received[T]{}, ErrChannelClosed
		}
		return received[T]{}, nil
	}
	w := newWaiter[T](kind)
	c.waitq.pushBack(w)
	c.mu.Unlock()
	return w.done.park()
}

// Close marks the channel closed and resumes every queued waiter with
// its closed outcome. Close is idempotent; it reports whether this
// call was the one that closed the channel.
func (c *Channel[T]) Close() bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.closed = true
	var drained []*waiter[T]
	for {
		w := c.dequeueWaiter()
		if w == nil {
			break
		}
		drained = append(drained, w)
	}
	betweenStates := c.count > 0 && c.count < len(c.buf)
	c.mu.Unlock()
	if betweenStates && len(drained) > 0 {
		// free buffer slots mean nothing should have parked
		panic("csp: waiters queued on a channel that is neither full nor empty")
	}
	for _, w := range drained {
		w.drop()
	}
	return true
}

// dequeueWaiter pops the oldest live waiter, discarding select cases
// whose selector was already won elsewhere.
func (c *Channel[T]) dequeueWaiter() *waiter[T] {
	for {
		w := c.waitq.popFront()
		if w == nil {
			return nil
		}
		if w.kind == kindSelect && !w.sel.tryWin() {
			continue
		}
		return w
	}
}

// selectReceive attempts the Receive fast path for a select case,
// registering w on the wait queue when the channel is empty and open.
func (c *Channel[T]) selectReceive(w *waiter[T]) (T, selectAttempt) {
	var zero T
	c.mu.Lock()
	if w.sel.isResolved() {
		c.mu.Unlock()
		return zero, selectLost
	}
	if c.count > 0 {
		if !w.sel.tryWin() {
			c.mu.Unlock()
			return zero, selectLost
		}
		v := c.bufPop()
		sw := c.dequeueWaiter()
		if sw != nil {
			c.bufPush(sw.value)
		}
		c.mu.Unlock()
		if sw != nil {
			sw.accept()
		}
		return v, selectReady
	}
	if c.closed {
		if !w.sel.tryWin() {
			c.mu.Unlock()
			return zero, selectLost
		}
		c.mu.Unlock()
		return zero, selectClosed
	}
	c.waitq.pushBack(w)
	c.mu.Unlock()
	return zero, selectRegistered
}

// selectSend attempts the Send fast path for a select case carrying
// w.value, registering w on the wait queue when the buffer is full.
func (c *Channel[T]) selectSend(w *waiter[T]) selectAttempt {
	c.mu.Lock()
	if w.sel.isResolved() {
		c.mu.Unlock()
		return selectLost
	}
	if c.closed {
		if !w.sel.tryWin() {
			c.mu.Unlock()
			return selectLost
		}
		c.mu.Unlock()
		return selectClosed
	}
	if c.count < len(c.buf) {
		if !w.sel.tryWin() {
			c.mu.Unlock()
			return selectLost
		}
		if c.count == 0 {
			if r := c.dequeueWaiter(); r != nil {
				c.mu.Unlock()
				r.deliverValue(w.value)
				return selectReady
			}
		}
		c.bufPush(w.value)
		c.mu.Unlock()
		return selectReady
	}
	c.waitq.pushBack(w)
	c.mu.Unlock()
	return selectRegistered
}

// unlinkCase detaches a registered select case unless a channel
// operation dequeued it first.
func (c *Channel[T]) unlinkCase(w *waiter[T]) {
	c.mu.Lock()
	if w.linked {
		c.waitq.unlink(w)
	}
	c.mu.Unlock()
}

func (c *Channel[T]) bufPush(v T) {
	c.buf[c.sendx] = v
	c.sendx++
	if c.sendx == len(c.buf) {
		c.sendx = 0
	}
	c.count++
}

func (c *Channel[T]) bufPop() T {
	var zero T
	v := c.buf[c.recvx]
	c.buf[c.recvx] = zero
	c.recvx++
	if c.recvx == len(c.buf) {
		c.recvx = 0
	}
	c.count--
	return v
}
