// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

// Package pool provides a capped goroutine worker pool for launching
// the suspendable units of work that drive csp channels. Tasks are
// queued on a freelist-backed linked list and executed by workers that
// scale up to the pool's cap and retire once the queue drains.
package pool

import (
	"context"
	"sync"
	"sync/atomic"
)

// Pool schedules units of work onto a bounded set of worker
// goroutines.
type Pool interface {
	// Name returns the name given at construction, also used as the
	// metrics label.
	Name() string

	// Go schedules f to run on a worker goroutine.
	Go(f func())

	// CtxGo schedules f and hands ctx to the panic handler should f
	// panic.
	CtxGo(ctx context.Context, f func())

	// SetPanicHandler replaces the logging default invoked when a
	// task panics.
	SetPanicHandler(f func(context.Context, any))

	// WorkerCount returns the number of running workers.
	WorkerCount() int32

	// SetCap changes the worker cap.
	SetCap(cap int32)
}

var taskPool sync.Pool

func init() {
	taskPool.New = newTask
}

type task struct {
	ctx context.Context
	f   func()

	next *task
}

func (t *task) zero() {
	t.ctx = nil
	t.f = nil
	t.next = nil
}

func (t *task) recycle() {
	t.zero()
	taskPool.Put(t)
}

func newTask() any {
	return &task{}
}

type pool struct {
	name        string
	cap         int32
	taskHead    *task
	taskTail    *task
	taskLock    sync.Mutex
	taskCount   int32
	workerCount int32
	config      *Config

	panicHandler func(context.Context, any)
}

// NewPool returns a pool running at most cap workers at once.
func NewPool(name string, cap int32, config *Config) Pool {
	return &pool{
		name:   name,
		cap:    cap,
		config: config,
	}
}

func (p *pool) Name() string {
	return p.name
}

func (p *pool) Go(f func()) {
	p.CtxGo(context.Background(), f)
}

func (p *pool) CtxGo(ctx context.Context, f func()) {
	t := taskPool.Get().(*task)
	t.ctx = ctx
	t.f = f
	p.taskLock.Lock()
	if p.taskHead == nil {
		p.taskHead = t
		p.taskTail = t
	} else {
		p.taskTail.next = t
		p.taskTail = t
	}
	p.taskLock.Unlock()
	atomic.AddInt32(&p.taskCount, 1)

	if (atomic.LoadInt32(&p.taskCount) >= p.config.ScaleThreshold && p.WorkerCount() < atomic.LoadInt32(&p.cap)) || p.WorkerCount() == 0 {
		p.incrWorkerCount()
		w := workerPool.Get().(*worker)
		w.pool = p
		w.run()
	}
}

func (p *pool) SetPanicHandler(f func(context.Context, any)) {
	p.panicHandler = f
}

func (p *pool) WorkerCount() int32 {
	return atomic.LoadInt32(&p.workerCount)
}

func (p *pool) SetCap(cap int32) {
	atomic.StoreInt32(&p.cap, cap)
}

func (p *pool) incrWorkerCount() {
	workerGauge.WithLabelValues(p.name).Set(float64(atomic.AddInt32(&p.workerCount, 1)))
}

func (p *pool) decWorkerCount() {
	workerGauge.WithLabelValues(p.name).Set(float64(atomic.AddInt32(&p.workerCount, -1)))
}
