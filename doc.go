// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lfq provides concurrent FIFO queue and LIFO stack containers,
// plus the hazard-pointer reclamation mechanism some of them rely on.
//
// Eight container types are offered, covering every producer/consumer
// cardinality plus a lock-free/locked choice:
//
//   - Stack: lock-free LIFO, any producer/consumer count, hazard pointers
//   - SPSC: lock-free FIFO, one producer, one consumer, unbounded
//   - SPMC: lock-free FIFO, one producer, many consumers, unbounded
//   - MPSC: lock-free FIFO, many producers, one consumer, unbounded
//   - MPMC: lock-free FIFO, many producers, many consumers, bounded ring
//   - FineQueue: locked FIFO, any cardinality, split head/tail mutexes
//   - LockedQueue: locked FIFO, any cardinality, single mutex
//   - LockedStack: locked LIFO, any cardinality, single mutex
//
// # Quick Start
//
//	q := lfq.NewSPSC[Event]()
//	q := lfq.NewMPMC[*Request](4096) // the only bounded container
//	s := lfq.NewStack[Task]()
//
// # Basic Usage
//
// Every container shares the same [Queue] interface for push and
// non-blocking pop:
//
//	q := lfq.NewMPSC[int]()
//
//	err := q.Push(42)
//	if lfq.IsWouldBlock(err) {
//	    // only MPMC can report this from Push — its ring is full
//	}
//
//	v, err := q.TryPop()
//	if lfq.IsWouldBlock(err) {
//	    // container is empty — try again later
//	}
//
// The locked containers ([FineQueue], [LockedQueue]) additionally satisfy
// [WaitPopper], blocking until an element is available instead of
// returning ErrWouldBlock:
//
//	v, err := q.WaitAndPop()
//
// # Choosing a container
//
// Pick by producer/consumer cardinality first, then by whether a bounded
// capacity is acceptable:
//
//	One producer,  one consumer   -> SPSC
//	One producer,  many consumers -> SPMC
//	Many producers, one consumer  -> MPSC
//	Many producers, many consumers, bounded ring is fine -> MPMC
//	Many producers, many consumers, need unbounded        -> FineQueue
//	LIFO, lock-free                                        -> Stack
//	LIFO, locked baseline                                  -> LockedStack
//
// [FineQueue] and [LockedQueue] accept any cardinality; they exist as the
// locked baseline the lock-free queues are measured against, and as a
// fallback when an access pattern doesn't fit one of the specialized
// lock-free shapes.
//
// # Common Patterns
//
// Pipeline stage (SPSC):
//
//	q := lfq.NewSPSC[Data]()
//
//	go func() { // producer
//	    sw := spin.Wait{}
//	    for data := range input {
//	        for q.Push(data) != nil {
//	            sw.Once()
//	        }
//	    }
//	}()
//
//	go func() { // consumer
//	    sw := spin.Wait{}
//	    for {
//	        data, err := q.TryPop()
//	        if err != nil {
//	            sw.Once()
//	            continue
//	        }
//	        process(data)
//	    }
//	}()
//
// Event aggregation (MPSC): many sensor goroutines push, one aggregator
// goroutine pops.
//
// Work distribution (SPMC): one dispatcher pushes, many worker goroutines
// pop.
//
// Worker pool (MPMC): any goroutine submits a job with Push; a fixed pool
// of workers pops with TryPop. Push returns [ErrQueueFull] instead of
// blocking when the ring is saturated — size the ring for the expected
// burst, or fall back to [FineQueue] if an unbounded queue is required.
//
// Producer/consumer shutdown coordination (Stack, LockedStack,
// LockedQueue): a LIFO or locked container with no implicit cardinality
// limit, useful as a free list or a task stack shared by an arbitrary
// number of goroutines.
//
// # Reference counting and reclamation
//
// [Stack] defends against use-after-free on its popped nodes with a
// hazard-pointer registry private to each Stack instance: a goroutine
// publishes the node it's about to dereference before dereferencing it,
// and a retired node is only destroyed once no published pointer still
// names it. Call [Stack.Close] once every goroutine has stopped calling
// TryPop on it, to reclaim any nodes whose destruction was deferred; Close
// panics with [InvariantViolation] if a goroutine is still attached.
//
// [SPMC] and [MPSC] use a counted reference instead: every observer bumps
// an external counter before dereferencing the node it observed, and folds
// that bump back into the node's internal counter once it either commits
// to detaching the node or gives up and retries. A node is only destroyed
// once both sides that can structurally detach it — head for every linked
// queue, and additionally tail for MPSC — have reconciled their counters
// to zero.
//
// [SPSC] needs neither mechanism: with exactly one consumer, there is
// never a second reader racing to dereference a node the consumer has
// already detached.
//
// # Payloads that can fail to install or extract
//
// Plain values move by assignment and can never fail. A payload type that
// needs to veto installation or extraction — for instance because copying
// it acquires a resource that can be exhausted — implements [Transferable]:
//
//	type handle struct{ fd *os.File }
//
//	func (h handle) Transfer() error {
//	    if h.fd == nil {
//	        return errClosed
//	    }
//	    return nil
//	}
//
// A Transfer failure surfaces as a [PayloadError] (check with
// [IsPayloadOperationFailed]) and leaves the container untouched: a failed
// push never links its value, and a failed pop never detaches the element
// it peeked.
//
// # Error handling
//
// [ErrWouldBlock] is sourced from [code.hybscloud.com/iox] for ecosystem
// consistency and returned whenever TryPop finds nothing. Push on an
// unbounded container retries internally and never returns it.
// [ErrQueueFull] is MPMC's own sentinel for "the ring has no free slot" —
// distinct from ErrWouldBlock so callers can tell a full ring from an
// empty container, though both satisfy [IsWouldBlock]:
//
//	sw := spin.Wait{}
//	for {
//	    err := q.Push(item)
//	    if err == nil {
//	        break
//	    }
//	    if !lfq.IsWouldBlock(err) {
//	        return err // a PayloadError, or something from Transfer
//	    }
//	    sw.Once()
//	}
//
// [IsWouldBlock], [IsSemantic], and [IsNonFailure] delegate to iox exactly
// as described above, plus recognizing ErrQueueFull.
//
// # Thread safety
//
// Access pattern constraints are part of each container's contract, not
// enforced at runtime:
//
//   - SPSC: exactly one producer goroutine, exactly one consumer goroutine
//   - SPMC: exactly one producer goroutine, any number of consumers
//   - MPSC: any number of producers, exactly one consumer goroutine
//   - MPMC, Stack, FineQueue, LockedQueue, LockedStack: any cardinality
//
// Violating SPSC/SPMC/MPSC's constraints causes data corruption, not a
// panic.
//
// # Capacity
//
// Only [MPMC] is bounded. Capacity rounds up to the next power of 2:
//
//	q := lfq.NewMPMC[int](3)    // actual capacity: 4
//	q := lfq.NewMPMC[int](1000) // actual capacity: 1024
//
// Minimum capacity is 2; NewMPMC panics below that. Every other container
// grows without bound until memory is exhausted.
//
// Length is intentionally not provided anywhere: an accurate count in a
// concurrently-accessed lock-free container requires expensive cross-core
// synchronization that defeats the point of using one. Track counts in
// application logic when needed.
//
// # Race detection
//
// Go's race detector tracks synchronization through explicit primitives
// (mutexes, channels) but cannot observe happens-before relationships
// established purely through acquire-release atomics on separate
// variables. The lock-free containers in this package are correct under
// the Go memory model, but some of their concurrent tests are still
// excluded under -race via [RaceEnabled] — see race.go — because the
// detector's false positives there would mask real ones elsewhere.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomics with explicit memory ordering,
// [code.hybscloud.com/spin] for CPU-pause backoff, and [k8s.io/klog/v2]
// for verbosity-gated diagnostic logging of rare-path events (hazard
// scans, retire-threshold crossings, locked-queue wait/notify). None of
// the lock-free push/pop hot paths log.
package lfq
