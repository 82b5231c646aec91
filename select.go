// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package csp

import "sync/atomic"

// selectAttempt is the outcome of offering a select case to a channel.
type selectAttempt uint8

const (
	selectReady      selectAttempt = iota // case completed immediately
	selectClosed                          // case hit a closed channel
	selectRegistered                      // case queued as a waiter
	selectLost                            // another case won the selector
)

// selectState is the one-shot resolution flag shared by all cases of
// one Select call. Whichever party wins the compare-and-swap commits
// the selector; everybody else backs off.
type selectState struct {
	resolved atomic.Bool
}

func (s *selectState) tryWin() bool     { return s.resolved.CompareAndSwap(false, true) }
func (s *selectState) isResolved() bool { return s.resolved.Load() }

type selectCase[R any] struct {
	attempt    func() (func() (R, error), selectAttempt)
	unlink     func()
	registered bool
}

// A Selector collects the candidate cases of one Select call. Cases
// are registered through [OnReceive], [OnSend] and
// [Selector.OnDefault]; registration order is evaluation order and the
// tie-break among simultaneously ready cases.
type Selector[R any] struct {
	state     selectState
	park      parker[func() (R, error)]
	cases     []*selectCase[R]
	defaultFn func() (R, error)
}

// OnDefault registers the fallback branch: it runs immediately iff no
// other case can complete at evaluation time, so a Select with a
// default never suspends. At most one default may be registered.
func (s *Selector[R]) OnDefault(fn func() (R, error)) {
	if s.defaultFn != nil {
		panic("csp: select with two default cases")
	}
	s.defaultFn = fn
}

// OnReceive registers receiving from ch as a select case; fn runs with
// the received element on the selecting goroutine if the case wins.
// The case reports ErrChannelClosed when it commits against a closed,
// drained channel.
func OnReceive[T, R any](s *Selector[R], ch *Channel[T], fn func(v T) (R, error)) {
	w := &waiter[T]{kind: kindSelect, sel: &s.state}
	w.deliver = func(v T, err error) {
		s.park.resume(func() (R, error) {
			if err != nil {
				var zero R
				return zero, err
			}
			return fn(v)
		}, nil)
	}
	s.cases = append(s.cases, &selectCase[R]{
		attempt: func() (func() (R, error), selectAttempt) {
			v, st := ch.selectReceive(w)
			switch st {
			case selectReady:
				return func() (R, error) { return fn(v) }, st
			case selectClosed:
				return func() (R, error) {
					var zero R
					return zero, ErrChannelClosed
				}, st
			}
			return nil, st
		},
		unlink: func() { ch.unlinkCase(w) },
	})
}

// OnSend registers sending v to ch as a select case; fn runs on the
// selecting goroutine once v was accepted, if the case wins. The case
// reports ErrChannelClosed when it commits against a closed channel.
func OnSend[T, R any](s *Selector[R], ch *Channel[T], v T, fn func() (R, error)) {
	w := &waiter[T]{kind: kindSelect, sel: &s.state, value: v}
	w.deliver = func(_ T, err error) {
		s.park.resume(func() (R, error) {
			if err != nil {
				var zero R
				return zero, err
			}
			return fn()
		}, nil)
	}
	s.cases = append(s.cases, &selectCase[R]{
		attempt: func() (func() (R, error), selectAttempt) {
			st := ch.selectSend(w)
			switch st {
			case selectReady:
				return fn, st
			case selectClosed:
				return func() (R, error) {
					var zero R
					return zero, ErrChannelClosed
				}, st
			}
			return nil, st
		},
		unlink: func() { ch.unlinkCase(w) },
	})
}

// Select races the cases registered by build and commits to exactly
// one. Each case is first offered to its channel in registration
// order; the first case that can complete immediately wins. With no
// immediate winner the default branch runs if present, otherwise the
// calling goroutine parks until a counterpart operation on one of the
// involved channels resolves the selector. The winning case's function
// always runs on the calling goroutine with no internal lock held.
//
// Select with zero cases and no default reports ErrSelectEmpty.
func Select[R any](build func(s *Selector[R])) (R, error) {
	s := &Selector[R]{park: newParker[func() (R, error)]()}
	build(s)
	if len(s.cases) == 0 && s.defaultFn == nil {
		var zero R
		return zero, ErrSelectEmpty
	}

	var win func() (R, error)
	for _, cs := range s.cases {
		th, st := cs.attempt()
		if st == selectRegistered {
			cs.registered = true
			continue
		}
		if st != selectLost {
			win = th
		}
		break
	}
	if win == nil && s.defaultFn != nil && s.state.tryWin() {
		win = s.defaultFn
	}
	if win == nil {
		// a counterpart operation resolves the selector and posts
		// the winning case's deferred body
		win, _ = s.park.park()
	}
	for _, cs := range s.cases {
		if cs.registered {
			cs.unlink()
		}
	}
	return win()
}

// WhileSelect runs Select repeatedly until the winning case returns
// false or an error. The case list is rebuilt by build on every
// round.
func WhileSelect(build func(s *Selector[bool])) error {
	for {
		again, err := Select(build)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}
