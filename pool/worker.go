// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package pool

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var workerPool sync.Pool

func init() {
	workerPool.New = newWorker
}

type worker struct {
	pool *pool
}

func newWorker() any {
	return &worker{}
}

func (w *worker) run() {
	go func() {
		for {
			var t *task
			w.pool.taskLock.Lock()
			if w.pool.taskHead != nil {
				t = w.pool.taskHead
				w.pool.taskHead = w.pool.taskHead.next
				if w.pool.taskHead == nil {
					w.pool.taskTail = nil
				}
				atomic.AddInt32(&w.pool.taskCount, -1)
			}
			if t == nil {
				// queue drained, retire this worker
				w.pool.decWorkerCount()
				w.pool.taskLock.Unlock()
				w.recycle()
				return
			}
			w.pool.taskLock.Unlock()

			func() {
				defer func() {
					if r := recover(); r != nil {
						w.pool.onTaskPanic(t.ctx, r)
					}
				}()
				t.f()
			}()
			t.recycle()
		}
	}()
}

func (w *worker) recycle() {
	w.pool = nil
	workerPool.Put(w)
}

func (p *pool) onTaskPanic(ctx context.Context, r any) {
	panicTotal.WithLabelValues(p.name).Inc()
	if h := p.panicHandler; h != nil {
		h(ctx, r)
		return
	}
	logrus.WithField("pool", p.name).Errorf("task panicked: %v", r)
}
