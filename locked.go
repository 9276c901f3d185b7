// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "sync"

// LockedQueue is an unbounded FIFO queue guarded by a single mutex and
// condition variable — the coarse baseline beneath FineQueue's split
// head/tail locking. Elements sit behind a pointer handle, mirroring
// lock-std-queue.hpp's shared_ptr slots, so a pop can copy the handle under
// the lock and run the caller's Transfer hook after releasing it.
type LockedQueue[T any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	popMu sync.Mutex // serializes the peek/Transfer/commit pipeline below
	data  []*T
}

// NewLockedQueue returns an empty LockedQueue.
func NewLockedQueue[T any]() *LockedQueue[T] {
	q := &LockedQueue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push installs v at the back of the queue and wakes one goroutine blocked
// in WaitAndPop, if any.
func (q *LockedQueue[T]) Push(v T) error {
	if err := beforeInstall(v); err != nil {
		return err
	}
	boxed := new(T)
	*boxed = v
	q.mu.Lock()
	q.data = append(q.data, boxed)
	q.mu.Unlock()

	logWaitNotify("LockedQueue", "notify")
	q.cond.Signal()
	return nil
}

// TryPop removes and returns the value at the front of the queue, or
// ErrWouldBlock if the queue is empty. The handle is copied out while mu is
// held, then mu is released before the Transfer hook runs — popMu keeps two
// concurrent poppers from ever racing on the same front handle, so the
// element is only actually removed once Transfer has approved it.
func (q *LockedQueue[T]) TryPop() (T, error) {
	q.popMu.Lock()
	defer q.popMu.Unlock()

	q.mu.Lock()
	if len(q.data) == 0 {
		q.mu.Unlock()
		var zero T
		return zero, ErrWouldBlock
	}
	boxed := q.data[0]
	q.mu.Unlock()

	v := *boxed
	if err := afterExtract(&v); err != nil {
		return v, err
	}

	q.mu.Lock()
	q.data = q.data[1:]
	q.mu.Unlock()
	return v, nil
}

// WaitAndPop blocks until the queue is non-empty, then removes and returns
// the front value, running Transfer outside the lock as TryPop does.
func (q *LockedQueue[T]) WaitAndPop() (T, error) {
	q.popMu.Lock()
	defer q.popMu.Unlock()

	q.mu.Lock()
	for len(q.data) == 0 {
		logWaitNotify("LockedQueue", "wait")
		q.cond.Wait()
	}
	boxed := q.data[0]
	q.mu.Unlock()

	v := *boxed
	if err := afterExtract(&v); err != nil {
		return v, err
	}

	q.mu.Lock()
	q.data = q.data[1:]
	q.mu.Unlock()
	return v, nil
}

// Empty reports whether the queue currently has no elements.
func (q *LockedQueue[T]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.data) == 0
}

// LockedStack is an unbounded LIFO container guarded by a single mutex —
// the coarse baseline beneath the lock-free Stack. Elements are boxed for
// the same reason as LockedQueue: a pop copies the top handle under the
// lock and defers Transfer to after the lock is released.
type LockedStack[T any] struct {
	mu    sync.Mutex
	popMu sync.Mutex
	data  []*T
}

// NewLockedStack returns an empty LockedStack.
func NewLockedStack[T any]() *LockedStack[T] {
	return &LockedStack[T]{}
}

// Push installs v at the top of the stack.
func (s *LockedStack[T]) Push(v T) error {
	if err := beforeInstall(v); err != nil {
		return err
	}
	boxed := new(T)
	*boxed = v
	s.mu.Lock()
	s.data = append(s.data, boxed)
	s.mu.Unlock()
	return nil
}

// TryPop removes and returns the value at the top of the stack, or
// ErrWouldBlock if the stack is empty. As with LockedQueue, the handle is
// copied out under the lock and Transfer runs after it's released.
func (s *LockedStack[T]) TryPop() (T, error) {
	s.popMu.Lock()
	defer s.popMu.Unlock()

	s.mu.Lock()
	if len(s.data) == 0 {
		s.mu.Unlock()
		var zero T
		return zero, ErrWouldBlock
	}
	boxed := s.data[len(s.data)-1]
	s.mu.Unlock()

	v := *boxed
	if err := afterExtract(&v); err != nil {
		return v, err
	}

	s.mu.Lock()
	s.data = s.data[:len(s.data)-1]
	s.mu.Unlock()
	return v, nil
}

// Empty reports whether the stack currently has no elements.
func (s *LockedStack[T]) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data) == 0
}
