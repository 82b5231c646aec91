// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package csp

import "errors"

var (
	// ErrChannelClosed is reported by Send when the channel was
	// closed before the call, by Receive when the channel is closed
	// and its buffer is drained, and to every waiter still queued at
	// the moment Close is called.
	ErrChannelClosed = errors.New("csp: channel is closed")

	// ErrSelectEmpty is reported by Select when no case and no
	// default branch was registered.
	ErrSelectEmpty = errors.New("csp: select with no cases")
)
