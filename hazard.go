// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// defaultRetireThreshold is the retire-list high-water mark that triggers
// an opportunistic scan. It is a tuning knob, not a correctness parameter:
// reclamation is still correct, just deferred longer, at any threshold.
const defaultRetireThreshold = 20000

// hazardSlot publishes the address a goroutine is about to dereference.
// Slots are never removed once appended to the registry's list; they are
// recycled via the active flag instead.
type hazardSlot[N any] struct {
	next   *hazardSlot[N]
	ptr    atomic.Pointer[N]
	active atomix.Uint64 // 0 = free, 1 = held by a goroutine
}

type retireRecord[N any] struct {
	ptr     *N
	destroy func(*N)
	next    *retireRecord[N]
}

// hazardRegistry is a per-container registry of published pointers that
// makes deferred reclamation of detached nodes safe under concurrent
// traversal. A registry belongs to exactly one container instance; it is
// never a process-wide singleton.
type hazardRegistry[N any] struct {
	slots      atomic.Pointer[hazardSlot[N]]
	retireHead atomic.Pointer[retireRecord[N]]
	retireSize atomix.Int64
	scanning   atomix.Uint64
	threshold  int64
}

func newHazardRegistry[N any]() *hazardRegistry[N] {
	return &hazardRegistry[N]{threshold: defaultRetireThreshold}
}

// acquire returns a slot owned exclusively by the caller until release is
// called. A goroutine must hold at most one slot per registry at a time.
func (r *hazardRegistry[N]) acquire() *hazardSlot[N] {
	for s := r.slots.Load(); s != nil; s = s.next {
		if s.active.CompareAndSwapAcqRel(0, 1) {
			return s
		}
	}
	s := &hazardSlot[N]{}
	s.active.StoreRelaxed(1)
	for {
		head := r.slots.Load()
		s.next = head
		if r.slots.CompareAndSwap(head, s) {
			return s
		}
	}
}

// release clears the slot's publication and frees it for reuse.
func (r *hazardRegistry[N]) release(s *hazardSlot[N]) {
	s.ptr.Store(nil)
	s.active.StoreRelease(0)
}

// publish records that the caller is about to dereference p.
func (r *hazardRegistry[N]) publish(s *hazardSlot[N], p *N) {
	s.ptr.Store(p)
}

// isHazardous reports whether any active slot currently publishes p.
func (r *hazardRegistry[N]) isHazardous(p *N) bool {
	if p == nil {
		return false
	}
	for s := r.slots.Load(); s != nil; s = s.next {
		if s.ptr.Load() == p {
			return true
		}
	}
	return false
}

// retire defers destruction of p until no slot publishes it. Crossing the
// registry's threshold triggers an opportunistic scan.
func (r *hazardRegistry[N]) retire(p *N, destroy func(*N)) {
	rec := &retireRecord[N]{ptr: p, destroy: destroy}
	for {
		head := r.retireHead.Load()
		rec.next = head
		if r.retireHead.CompareAndSwap(head, rec) {
			break
		}
	}
	if size := r.retireSize.AddAcqRel(1); size >= r.threshold {
		logRetireThreshold(size)
		r.scan()
	}
}

// scan takes one pass over the retire list, reclaiming every record whose
// pointer is no longer hazardous and requeuing the rest. At most one scan
// runs at a time per registry; concurrent callers that lose the race skip
// the scan and continue — the next retire (or an explicit close) will try
// again.
func (r *hazardRegistry[N]) scan() {
	if !r.scanning.CompareAndSwapAcqRel(0, 1) {
		return
	}
	defer r.scanning.StoreRelease(0)

	list := r.retireHead.Swap(nil)
	r.retireSize.StoreRelaxed(0)

	examined, reclaimed := 0, 0
	var requeue *retireRecord[N]
	for list != nil {
		next := list.next
		examined++
		if r.isHazardous(list.ptr) {
			list.next = requeue
			requeue = list
		} else {
			list.destroy(list.ptr)
			reclaimed++
		}
		list = next
	}

	requeued := 0
	for requeue != nil {
		next := requeue.next
		for {
			head := r.retireHead.Load()
			requeue.next = head
			if r.retireHead.CompareAndSwap(head, requeue) {
				break
			}
		}
		r.retireSize.AddAcqRel(1)
		requeued++
		requeue = next
	}
	logHazardScan(examined, reclaimed, requeued)
}

// close verifies every slot is inactive, then runs a final scan. It panics
// with InvariantViolation if a slot is still active — a caller is still
// attached to the container this registry belongs to.
func (r *hazardRegistry[N]) close() {
	for s := r.slots.Load(); s != nil; s = s.next {
		if s.active.LoadAcquire() == 1 {
			panic(InvariantViolation("lfq: hazard registry closed with an active slot"))
		}
	}
	r.scan()
}
