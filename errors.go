// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For TryPop: the container is empty. No Push returns it: unbounded
// containers retry until the push succeeds, and the bounded ring reports a
// full ring with [ErrQueueFull].
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry the operation later (with backoff or yield) rather than propagating
// the error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Push(item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if lfq.IsWouldBlock(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    return err // unexpected error
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// ErrQueueFull is returned by a bounded ring's Push when every slot is
// occupied. It is a distinct sentinel from ErrWouldBlock so callers can
// tell "ring full" apart from "container empty", though both satisfy
// IsWouldBlock.
var ErrQueueFull = errors.New("lfq: queue full")

// PayloadError wraps the error a Transferable payload's Transfer method
// returned during push or pop. Op is "push" or "pop". The container
// guarantees its own state is unchanged when this error is returned: a
// failed push never links its value, and a failed pop never detaches the
// element it peeked.
type PayloadError struct {
	Op  string
	Err error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("lfq: payload %s failed: %v", e.Op, e.Err)
}

func (e *PayloadError) Unwrap() error { return e.Err }

// IsPayloadOperationFailed reports whether err originated from a
// Transferable payload's Transfer method.
func IsPayloadOperationFailed(err error) bool {
	var pe *PayloadError
	return errors.As(err, &pe)
}

// InvariantViolation is a fatal, unrecoverable programmer error — a hazard
// registry torn down with an active slot, or a container drained while a
// producer or consumer is still attached. It is raised as a panic, never
// returned as an error.
type InvariantViolation string

func (e InvariantViolation) Error() string { return string(e) }

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support, and also
// recognizes [ErrQueueFull].
func IsWouldBlock(err error) bool {
	return errors.Is(err, ErrQueueFull) || iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return errors.Is(err, ErrQueueFull) || iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return errors.Is(err, ErrQueueFull) || iox.IsNonFailure(err)
}
