// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package pool

import "context"

var defaultPool Pool

func init() {
	defaultPool = NewPool("default", 1000, NewConfig())
}

// Go schedules f on the global default pool.
func Go(f func()) {
	CtxGo(context.Background(), f)
}

// CtxGo schedules f on the global default pool with ctx attached.
func CtxGo(ctx context.Context, f func()) {
	defaultPool.CtxGo(ctx, f)
}

// SetCap is not recommended to be called; it changes the global pool's
// cap, which affects every caller sharing it.
func SetCap(cap int32) {
	defaultPool.SetCap(cap)
}

// SetPanicHandler sets the panic handler for the global pool.
func SetPanicHandler(f func(context.Context, any)) {
	defaultPool.SetPanicHandler(f)
}

// WorkerCount returns the number of the global pool's running workers.
func WorkerCount() int32 {
	return defaultPool.WorkerCount()
}
