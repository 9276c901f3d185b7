// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

// Transferable lets a payload type veto installation into, or extraction
// from, a container. Transfer runs on a value immediately before it is
// linked into container storage (push) or on a peeked candidate value
// immediately before it is detached from container storage (pop); an error
// aborts the operation before any state changes.
//
// Types that don't implement Transferable move by plain assignment and can
// never fail this way.
type Transferable interface {
	Transfer() error
}

// beforeInstall runs the push-side Transfer check. A failure here leaves v
// owned entirely by the caller: no container field has been touched.
func beforeInstall[T any](v T) error {
	if t, ok := any(v).(Transferable); ok {
		if err := t.Transfer(); err != nil {
			return &PayloadError{Op: "push", Err: err}
		}
	}
	return nil
}

// afterExtract runs the pop-side Transfer check on a peeked candidate
// value, before the caller commits to detaching it. A failure here means
// the candidate is still exactly where it was: still linked, still
// reachable by the next TryPop.
func afterExtract[T any](v *T) error {
	if t, ok := any(*v).(Transferable); ok {
		if err := t.Transfer(); err != nil {
			return &PayloadError{Op: "pop", Err: err}
		}
	}
	return nil
}
