// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "sync/atomic"

type spscNode[T any] struct {
	next atomic.Pointer[spscNode[T]]
	data T
}

// SPSC is an unbounded FIFO queue for exactly one producer goroutine and
// exactly one consumer goroutine. Violating that access pattern — e.g. two
// goroutines calling Push concurrently — is undefined behavior.
//
// Because there is never more than one reader of a detached node, SPSC
// needs no hazard pointers: Go's garbage collector reclaims nodes the
// instant the consumer drops its last reference to them.
type SPSC[T any] struct {
	head atomic.Pointer[spscNode[T]] // consumer-owned cursor
	tail atomic.Pointer[spscNode[T]] // producer-owned cursor
}

// NewSPSC returns an empty SPSC queue.
func NewSPSC[T any]() *SPSC[T] {
	dummy := &spscNode[T]{}
	q := &SPSC[T]{}
	q.head.Store(dummy)
	q.tail.Store(dummy)
	return q
}

// Push installs v at the back of the queue. Must only be called from the
// single producer goroutine.
func (q *SPSC[T]) Push(v T) error {
	if err := beforeInstall(v); err != nil {
		return err
	}
	dummy := &spscNode[T]{}
	tail := q.tail.Load()
	tail.data = v
	tail.next.Store(dummy) // release: publishes data together with next
	q.tail.Store(dummy)
	return nil
}

// TryPop removes and returns the value at the front of the queue, or
// ErrWouldBlock if the queue is empty. Must only be called from the single
// consumer goroutine.
func (q *SPSC[T]) TryPop() (T, error) {
	head := q.head.Load()
	if head == q.tail.Load() {
		var zero T
		return zero, ErrWouldBlock
	}

	v := head.data
	if err := afterExtract(&v); err != nil {
		return v, err
	}

	next := head.next.Load()
	var zero T
	head.data = zero
	q.head.Store(next)
	return v, nil
}

// Empty reports whether the queue currently has no elements.
func (q *SPSC[T]) Empty() bool {
	return q.head.Load() == q.tail.Load()
}
