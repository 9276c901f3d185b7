// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"sync/atomic"

	"code.hybscloud.com/spin"
)

type stackNode[T any] struct {
	next atomic.Pointer[stackNode[T]]
	data T
}

// Stack is an unbounded, lock-free LIFO container reclaiming popped nodes
// through its own hazard-pointer registry. Any number of goroutines may
// call Push and TryPop concurrently.
type Stack[T any] struct {
	head atomic.Pointer[stackNode[T]]
	hz   *hazardRegistry[stackNode[T]]
}

// NewStack returns an empty Stack. Every Stack owns its own hazard
// registry; registries are never shared across instances.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{hz: newHazardRegistry[stackNode[T]]()}
}

// Push installs v at the top of the stack.
func (s *Stack[T]) Push(v T) error {
	if err := beforeInstall(v); err != nil {
		return err
	}
	n := &stackNode[T]{data: v}
	sw := spin.Wait{}
	for {
		head := s.head.Load()
		n.next.Store(head)
		if s.head.CompareAndSwap(head, n) {
			return nil
		}
		sw.Once()
	}
}

// TryPop removes and returns the value at the top of the stack, or
// ErrWouldBlock if the stack is empty.
func (s *Stack[T]) TryPop() (T, error) {
	slot := s.hz.acquire()
	defer s.hz.release(slot)

	sw := spin.Wait{}
	for {
		old := s.head.Load()
		for old != nil {
			s.hz.publish(slot, old)
			// head may have moved between the load above and the publish;
			// re-read and re-publish until the published pointer is
			// confirmed still current.
			cur := s.head.Load()
			if cur == old {
				break
			}
			old = cur
		}
		if old == nil {
			var zero T
			return zero, ErrWouldBlock
		}

		v := old.data
		if err := afterExtract(&v); err != nil {
			return v, err
		}

		next := old.next.Load()
		if s.head.CompareAndSwap(old, next) {
			s.hz.retire(old, destroyStackNode[T])
			return v, nil
		}
		sw.Once()
	}
}

func destroyStackNode[T any](n *stackNode[T]) {
	n.next.Store(nil)
	var zero T
	n.data = zero
}

// Empty reports whether the stack currently has no elements. This is a
// best-effort hint: a concurrent Push or TryPop may invalidate the answer
// immediately after it is returned.
func (s *Stack[T]) Empty() bool {
	return s.head.Load() == nil
}

// Close releases the stack's hazard registry, reclaiming any nodes whose
// retirement was deferred. It panics with InvariantViolation if a
// goroutine is still inside TryPop on this stack.
func (s *Stack[T]) Close() {
	s.hz.close()
}
