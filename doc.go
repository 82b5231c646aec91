// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Package csp provides suspension-based concurrency primitives in the
// style of communicating sequential processes: bounded buffered
// channels, a multi-way select over pending channel operations and a
// cooperative mutual-exclusion lock.
//
// Unlike Go's built-in channels, a [Channel] exposes closing as part of
// its error surface: Send on a closed channel and Receive on a closed,
// drained channel report [ErrChannelClosed] instead of panicking or
// blocking, and [Select] commits atomically to exactly one of several
// candidate operations in registration order.
//
// Every operation that cannot complete immediately suspends the calling
// goroutine by parking it on a one-shot resumption handle; the
// counterpart operation resumes it exactly once. No user code ever runs
// while an internal lock is held.
package csp
