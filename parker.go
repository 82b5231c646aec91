// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package csp

// A parker is a one-shot resumption handle: a suspended operation
// parks on it and is resumed exactly once with a value or an error.
//
// The buffered channel makes resume non-blocking and allows resuming
// before the owner parks, which the mutex slow path depends on.
type parker[T any] struct {
	ch chan parked[T]
}

type parked[T any] struct {
	value T
	err   error
}

func newParker[T any]() parker[T] {
	return parker[T]{ch: make(chan parked[T], 1)}
}

// resume completes the parked operation. It must be called at most
// once per parker and never while an internal lock is held.
func (p parker[T]) resume(v T, err error) {
	p.ch <- parked[T]{value: v, err: err}
}

// park suspends the calling goroutine until resume is called.
func (p parker[T]) park() (T, error) {
	r := <-p.ch
	return r.value, r.err
}
