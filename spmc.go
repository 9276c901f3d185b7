// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "sync/atomic"

// SPMC is an unbounded FIFO queue for exactly one producer goroutine and
// any number of concurrent consumer goroutines. The consumer side uses a
// counted reference on head (extRef) instead of hazard pointers, since
// only head is ever contended — tail is producer-private.
type SPMC[T any] struct {
	head extRef[T]
	tail atomic.Pointer[refNode[T]] // written only by the single producer
}

// NewSPMC returns an empty SPMC queue.
func NewSPMC[T any]() *SPMC[T] {
	sentinel := newRefNode[T](sideHead)
	q := &SPMC[T]{}
	q.head.store(extCount[T]{count: 1, node: sentinel})
	q.tail.Store(sentinel)
	return q
}

// Push installs v at the back of the queue. Must only be called from the
// single producer goroutine.
func (q *SPMC[T]) Push(v T) error {
	if err := beforeInstall(v); err != nil {
		return err
	}
	boxed := new(T)
	*boxed = v
	sentinel := newRefNode[T](sideHead)

	tail := q.tail.Load()
	tail.data.Store(boxed)
	tail.next.store(extCount[T]{count: 1, node: sentinel})
	q.tail.Store(sentinel)
	return nil
}

// TryPop removes and returns the value at the front of the queue, or
// ErrWouldBlock if the queue is empty. Safe for any number of concurrent
// callers.
func (q *SPMC[T]) TryPop() (T, error) {
	return popViaCountedRef(&q.head, func() *refNode[T] { return q.tail.Load() })
}

// Empty reports whether the queue currently has no elements. This is a
// best-effort hint, not a counted-reference bump.
func (q *SPMC[T]) Empty() bool {
	return q.tail.Load() == q.head.load().node
}
