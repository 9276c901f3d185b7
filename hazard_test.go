// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHazardAcquireReleaseReusesSlots(t *testing.T) {
	r := newHazardRegistry[int]()

	s1 := r.acquire()
	r.release(s1)

	s2 := r.acquire()
	assert.Same(t, s1, s2, "release should make the slot available for reuse")
	r.release(s2)
}

func TestHazardAcquireGrowsListWhenAllSlotsHeld(t *testing.T) {
	r := newHazardRegistry[int]()

	s1 := r.acquire()
	s2 := r.acquire()
	assert.NotSame(t, s1, s2)

	r.release(s1)
	r.release(s2)
}

func TestHazardPublishMakesPointerHazardous(t *testing.T) {
	r := newHazardRegistry[int]()
	v := 42

	s := r.acquire()
	assert.False(t, r.isHazardous(&v))

	r.publish(s, &v)
	assert.True(t, r.isHazardous(&v))

	r.release(s)
	assert.False(t, r.isHazardous(&v), "release must clear publication")
}

func TestHazardRetireReclaimsWhenNotHazardous(t *testing.T) {
	r := newHazardRegistry[int]()
	v := new(int)
	*v = 7

	destroyed := 0
	r.retire(v, func(p *int) { destroyed++ })
	r.scan()

	assert.Equal(t, 1, destroyed)
}

func TestHazardRetireRequeuesWhileHazardous(t *testing.T) {
	r := newHazardRegistry[int]()
	v := new(int)

	s := r.acquire()
	r.publish(s, v)

	destroyed := 0
	r.retire(v, func(p *int) { destroyed++ })
	r.scan()
	assert.Equal(t, 0, destroyed, "a published pointer must survive a scan")

	r.release(s)
	r.scan()
	assert.Equal(t, 1, destroyed, "releasing the slot should let the next scan reclaim it")
}

func TestHazardScanThresholdTriggersOpportunistically(t *testing.T) {
	r := newHazardRegistry[int]()
	r.threshold = 4

	destroyed := 0
	for i := 0; i < 5; i++ {
		v := new(int)
		*v = i
		r.retire(v, func(p *int) { destroyed++ })
	}
	assert.Equal(t, 4, destroyed, "crossing the threshold should have already reclaimed the first batch")

	r.scan()
	assert.Equal(t, 5, destroyed, "an explicit scan reclaims what was retired after the threshold fired")
}

func TestHazardCloseReclaimsRemainder(t *testing.T) {
	r := newHazardRegistry[int]()
	v := new(int)

	destroyed := 0
	r.retire(v, func(p *int) { destroyed++ })
	r.close()
	assert.Equal(t, 1, destroyed)
}

func TestHazardClosePanicsWithActiveSlot(t *testing.T) {
	r := newHazardRegistry[int]()
	r.acquire()

	assert.Panics(t, func() { r.close() })
}

func TestHazardConcurrentAcquireReleaseIsSafe(t *testing.T) {
	if RaceEnabled {
		t.Skip("slot CAS loops trigger false positives under -race")
	}
	r := newHazardRegistry[int]()
	const goroutines = 8
	const iterations = 5000

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := 0
			for i := 0; i < iterations; i++ {
				s := r.acquire()
				r.publish(s, &v)
				require.True(t, r.isHazardous(&v))
				r.release(s)
			}
		}()
	}
	wg.Wait()
}
