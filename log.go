// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "k8s.io/klog/v2"

// logHazardScan reports a completed hazard-registry scan pass. Only called
// from hazardRegistry.scan, which is single-flight and rare relative to
// push/pop traffic — never on a container's hot path.
func logHazardScan(examined, reclaimed, requeued int) {
	klog.V(4).Infof("lfq: hazard scan examined=%d reclaimed=%d requeued=%d", examined, reclaimed, requeued)
}

// logRetireThreshold reports that a registry's retire list crossed its
// high-water mark and triggered an opportunistic scan.
func logRetireThreshold(size int64) {
	klog.V(4).Infof("lfq: retire list crossed threshold size=%d", size)
}

// logWaitNotify reports a wait/notify event on a locked queue. Only
// FineQueue and LockedQueue call this; never LockedStack or the lock-free
// containers.
func logWaitNotify(container, event string) {
	klog.V(5).Infof("lfq: %s %s", container, event)
}
