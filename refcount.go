// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// extCount is the (external_count, node*) pair that must always be read
// and CAS'd as one unit — the ABA-defeating primitive shared by the SPMC
// and MPSC linked queues.
type extCount[T any] struct {
	count uint32
	node  *refNode[T]
}

// extRef wraps atomic.Value so a (count, node) pair is never torn: every
// load, store, and CAS operates on the whole pair at once. Go has no
// native double-width CAS, so this is the counted-pointer-via-atomic.Value
// idiom rather than a hand-rolled 96-bit compare-and-swap.
type extRef[T any] atomic.Value

func (r *extRef[T]) load() extCount[T] {
	v := (*atomic.Value)(r).Load()
	if v == nil {
		return extCount[T]{}
	}
	return v.(extCount[T])
}

func (r *extRef[T]) store(v extCount[T]) {
	(*atomic.Value)(r).Store(v)
}

func (r *extRef[T]) compareAndSwap(old, new extCount[T]) bool {
	return (*atomic.Value)(r).CompareAndSwap(old, new)
}

// pcounter is the internal counter a refNode carries for one
// detachable side. It is folded into by every observer on that side —
// either a loser giving up (-1) or the winner that structurally detaches
// the node (bumpedCount-2) — and reports when that side's transient
// readers have all reconciled to zero.
type pcounter struct {
	word atomix.Int64
}

// addInternal folds delta into the counter and reports whether the word
// reached exactly zero.
func (c *pcounter) addInternal(delta int64) bool {
	return c.word.AddAcqRel(delta) == 0
}

// Sides of a refNode that can structurally detach it. SPMC only ever
// detaches from the head; MPSC detaches from both, since producers race
// for tail the same way consumers race for head.
const (
	sideHead uint64 = 1 << iota
	sideTail
)

// refNode is the reference-counted node shared by the unbounded SPMC and
// MPSC linked queues. data is boxed so producers can install it with a
// single CompareAndSwap (MPSC) or a plain Store (SPMC). required names the
// sides that must each independently reconcile their counter to zero
// before the node is destroyed; complete accumulates which sides already
// have.
type refNode[T any] struct {
	next        extRef[T]
	headCounter pcounter
	tailCounter pcounter
	required    uint64
	complete    atomix.Uint64
	data        atomic.Pointer[T]
}

// newRefNode allocates a node that can only be destroyed once every side
// in required has reconciled its counter to zero.
func newRefNode[T any](required uint64) *refNode[T] {
	return &refNode[T]{required: required}
}

func destroyRefNode[T any](n *refNode[T]) {
	n.data.Store(nil)
	n.next.store(extCount[T]{})
}

// markSideDone records that side has reconciled to zero and destroys the
// node once every required side has. Each side's counter can only cross
// to zero once, so this runs at most once per side per node.
func (n *refNode[T]) markSideDone(side uint64) {
	for {
		old := n.complete.LoadAcquire()
		next := old | side
		if n.complete.CompareAndSwapAcqRel(old, next) {
			if next&n.required == n.required {
				destroyRefNode(n)
			}
			return
		}
	}
}

// increaseExternal bumps the external reference count of the pair
// currently stored in r and returns the post-bump snapshot. A successful
// bump must eventually be reconciled with exactly one of refRelease/
// tailRefRelease (CAS lost) or freeExternal/tailFreeExternal (CAS won).
func increaseExternal[T any](r *extRef[T]) extCount[T] {
	for {
		old := r.load()
		next := old
		next.count++
		if r.compareAndSwap(old, next) {
			return next
		}
	}
}

// refRelease accounts for a head-side observer that bumped external_count
// but did not end up detaching the node.
func refRelease[T any](n *refNode[T]) {
	if n.headCounter.addInternal(-1) {
		n.markSideDone(sideHead)
	}
}

// freeExternal accounts for a head-side observer that bumped
// external_count and then won the CAS that structurally detaches the
// node. bumpedCount is the post-bump count increaseExternal returned; the
// -2 fold reconciles the winner's own bump together with the implicit
// reference the node held simply by being linked.
func freeExternal[T any](n *refNode[T], bumpedCount uint32) {
	if n.headCounter.addInternal(int64(bumpedCount) - 2) {
		n.markSideDone(sideHead)
	}
}

// tailRefRelease is refRelease's tail-side counterpart, used only by MPSC
// producers that lose the race to install a node's payload.
func tailRefRelease[T any](n *refNode[T]) {
	if n.tailCounter.addInternal(-1) {
		n.markSideDone(sideTail)
	}
}

// tailFreeExternal is freeExternal's tail-side counterpart, used only by
// the MPSC producer that wins the race to install a node's payload and
// advances tail past it.
func tailFreeExternal[T any](n *refNode[T], bumpedCount uint32) {
	if n.tailCounter.addInternal(int64(bumpedCount) - 2) {
		n.markSideDone(sideTail)
	}
}

// popViaCountedRef implements the head-side pop protocol shared by SPMC
// and MPSC. MPSC additionally runs the tail-side counterpart of this same
// protocol from its own Push, via tailRefRelease/tailFreeExternal — see
// mpsc.go. It peeks the candidate node's payload and runs its Transfer
// check before ever attempting the CAS that would detach it, so a
// PayloadError leaves the queue untouched.
func popViaCountedRef[T any](head *extRef[T], tailNode func() *refNode[T]) (T, error) {
	sw := spin.Wait{}
	for {
		observed := increaseExternal(head)
		node := observed.node
		if node == tailNode() {
			refRelease(node)
			var zero T
			return zero, ErrWouldBlock
		}

		boxed := node.data.Load()
		var v T
		if boxed != nil {
			v = *boxed
		}
		if err := afterExtract(&v); err != nil {
			refRelease(node)
			return v, err
		}

		next := node.next.load()
		if head.compareAndSwap(observed, next) {
			node.data.Store(nil)
			freeExternal(node, observed.count)
			return v, nil
		}
		refRelease(node)
		sw.Once()
	}
}
