// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "code.hybscloud.com/spin"

// MPSC is an unbounded FIFO queue for any number of concurrent producer
// goroutines and exactly one consumer goroutine. Unlike SPMC, both ends are
// contended: producers race each other for the tail, so MPSC applies the
// same counted-reference protocol to tail that SPMC applies only to head.
type MPSC[T any] struct {
	head extRef[T]
	tail extRef[T]
}

// NewMPSC returns an empty MPSC queue.
func NewMPSC[T any]() *MPSC[T] {
	sentinel := newRefNode[T](sideHead | sideTail)
	pair := extCount[T]{count: 1, node: sentinel}
	q := &MPSC[T]{}
	q.head.store(pair)
	q.tail.store(pair)
	return q
}

// Push installs v at the back of the queue. Safe for any number of
// concurrent callers.
func (q *MPSC[T]) Push(v T) error {
	if err := beforeInstall(v); err != nil {
		return err
	}
	boxed := new(T)
	*boxed = v
	sentinel := newRefNode[T](sideHead | sideTail)

	sw := spin.Wait{}
	observed := increaseExternal(&q.tail)
	node := observed.node
	for !node.data.CompareAndSwap(nil, boxed) {
		tailRefRelease(node)
		sw.Once()
		observed = increaseExternal(&q.tail)
		node = observed.node
	}

	// node stays the current tail until this goroutine's own CAS below
	// succeeds — it's the unique winner of the data CAS above, and only
	// the winner ever advances tail past its node. Other producers still
	// racing increaseExternal against the same pair only change
	// observed.count, never observed.node, so this retries in place
	// instead of restarting from a fresh increaseExternal.
	node.next.store(extCount[T]{count: 1, node: sentinel})
	next := extCount[T]{count: 1, node: sentinel}
	for !q.tail.compareAndSwap(observed, next) {
		observed = q.tail.load()
		sw.Once()
	}
	tailFreeExternal(node, observed.count)
	return nil
}

// TryPop removes and returns the value at the front of the queue, or
// ErrWouldBlock if the queue is empty. Must only be called from the single
// consumer goroutine.
func (q *MPSC[T]) TryPop() (T, error) {
	return popViaCountedRef(&q.head, func() *refNode[T] { return q.tail.load().node })
}

// Empty reports whether the queue currently has no elements. This is a
// best-effort hint, not a counted-reference bump.
func (q *MPSC[T]) Empty() bool {
	return q.tail.load().node == q.head.load().node
}
