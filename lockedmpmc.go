// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "sync"

type fineNode[T any] struct {
	data T
	next *fineNode[T]
}

// FineQueue is an unbounded FIFO queue for any number of concurrent
// producer and consumer goroutines, using separate head and tail mutexes
// plus a condition variable instead of lock-free CAS loops. It is the
// fallback baseline the lock-free queues in this package are measured
// against.
//
// Lock ordering is always head before tail: a goroutine holding headMu may
// acquire tailMu, but never the reverse.
type FineQueue[T any] struct {
	headMu sync.Mutex
	tailMu sync.Mutex
	cond   *sync.Cond
	head   *fineNode[T]
	tail   *fineNode[T]
}

// NewFineQueue returns an empty FineQueue.
func NewFineQueue[T any]() *FineQueue[T] {
	dummy := &fineNode[T]{}
	q := &FineQueue[T]{head: dummy, tail: dummy}
	q.cond = sync.NewCond(&q.headMu)
	return q
}

func (q *FineQueue[T]) lockedTail() *fineNode[T] {
	q.tailMu.Lock()
	defer q.tailMu.Unlock()
	return q.tail
}

// Push installs v at the back of the queue and wakes one goroutine
// blocked in WaitAndPop, if any.
func (q *FineQueue[T]) Push(v T) error {
	if err := beforeInstall(v); err != nil {
		return err
	}
	dummy := &fineNode[T]{}
	q.tailMu.Lock()
	q.tail.data = v
	q.tail.next = dummy
	q.tail = dummy
	q.tailMu.Unlock()

	logWaitNotify("FineQueue", "notify")
	q.cond.Signal()
	return nil
}

// TryPop removes and returns the value at the front of the queue, or
// ErrWouldBlock if the queue is empty.
func (q *FineQueue[T]) TryPop() (T, error) {
	q.headMu.Lock()
	if q.head == q.lockedTail() {
		q.headMu.Unlock()
		var zero T
		return zero, ErrWouldBlock
	}
	v := q.head.data
	if err := afterExtract(&v); err != nil {
		q.headMu.Unlock()
		return v, err
	}
	q.head = q.head.next
	q.headMu.Unlock()
	return v, nil
}

// WaitAndPop blocks until the queue is non-empty, then removes and returns
// the front value.
func (q *FineQueue[T]) WaitAndPop() (T, error) {
	q.headMu.Lock()
	for q.head == q.lockedTail() {
		logWaitNotify("FineQueue", "wait")
		q.cond.Wait()
	}
	v := q.head.data
	if err := afterExtract(&v); err != nil {
		q.headMu.Unlock()
		return v, err
	}
	q.head = q.head.next
	q.headMu.Unlock()
	return v, nil
}

// Empty reports whether the queue currently has no elements.
func (q *FineQueue[T]) Empty() bool {
	q.headMu.Lock()
	defer q.headMu.Unlock()
	return q.head == q.lockedTail()
}
