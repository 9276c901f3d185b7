// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

type ringSlot[T any] struct {
	generation atomix.Uint64
	data       T
	_          pad
}

// MPMC is a bounded, lock-free FIFO ring for any number of concurrent
// producer and consumer goroutines. Capacity rounds up to the next power
// of 2 (minimum 2). Each slot carries its own generation counter instead
// of the fetch-and-add/SCQ scheme: a producer may only write a slot whose
// generation equals the head index it is claiming, and a consumer may only
// read a slot whose generation equals the tail index plus one it is
// claiming.
//
// Fullness and emptiness are decided by comparing the unbounded head/tail
// counters directly (head-tail against capacity) rather than by masked
// equality of the two counters: the latter, while what the ungeneralized
// bounded-ring algorithm this is grounded on does, reserves one physical
// slot to disambiguate full from empty and only admits capacity-1 live
// elements. This rendering needs exactly capacity live elements.
type MPMC[T any] struct {
	_        pad
	head     atomix.Uint64
	_        pad
	tail     atomix.Uint64
	_        pad
	buffer   []ringSlot[T]
	capacity uint64
	mask     uint64
}

// NewMPMC returns an empty bounded ring with room for at least capacity
// elements. Panics if capacity < 2.
func NewMPMC[T any](capacity int) *MPMC[T] {
	if capacity < 2 {
		panic(InvariantViolation("lfq: MPMC capacity must be >= 2"))
	}
	n := uint64(roundToPow2(capacity))
	q := &MPMC[T]{
		buffer:   make([]ringSlot[T], n),
		capacity: n,
		mask:     n - 1,
	}
	for i := uint64(0); i < n; i++ {
		q.buffer[i].generation.StoreRelaxed(i)
	}
	return q
}

// Push installs v at the back of the ring, or returns ErrQueueFull if the
// ring is full.
func (q *MPMC[T]) Push(v T) error {
	if err := beforeInstall(v); err != nil {
		return err
	}
	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		if head-q.tail.LoadAcquire() >= q.capacity {
			return ErrQueueFull
		}
		newHead := head + 1
		slot := &q.buffer[head&q.mask]
		if slot.generation.LoadAcquire() != head {
			sw.Once()
			continue
		}
		if q.head.CompareAndSwapAcqRel(head, newHead) {
			slot.data = v
			slot.generation.StoreRelease(newHead)
			return nil
		}
		sw.Once()
	}
}

// TryPop removes and returns the value at the front of the ring, or
// ErrWouldBlock if the ring is empty.
func (q *MPMC[T]) TryPop() (T, error) {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		if tail == q.head.LoadAcquire() {
			var zero T
			return zero, ErrWouldBlock
		}
		newTail := tail + 1
		slot := &q.buffer[tail&q.mask]
		if slot.generation.LoadAcquire() != newTail {
			sw.Once()
			continue
		}

		v := slot.data
		if err := afterExtract(&v); err != nil {
			return v, err
		}

		if q.tail.CompareAndSwapAcqRel(tail, newTail) {
			var zero T
			slot.data = zero
			slot.generation.StoreRelease(tail + q.capacity)
			return v, nil
		}
		sw.Once()
	}
}

// Empty reports whether the ring currently has no elements.
func (q *MPMC[T]) Empty() bool {
	return q.head.LoadAcquire() == q.tail.LoadAcquire()
}

// Cap returns the ring's actual capacity, rounded up to the next power of
// 2 from the value passed to NewMPMC.
func (q *MPMC[T]) Cap() int {
	return int(q.capacity)
}
