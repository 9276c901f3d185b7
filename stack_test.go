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

// S6: push 1, 2, 3; pop yields 3, 2, 1.
func TestStackLIFOOrder(t *testing.T) {
	s := NewStack[int]()
	require.True(t, s.Empty())

	require.NoError(t, s.Push(1))
	require.NoError(t, s.Push(2))
	require.NoError(t, s.Push(3))

	for _, want := range []int{3, 2, 1} {
		got, err := s.TryPop()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	require.True(t, s.Empty())
	_, err := s.TryPop()
	assert.True(t, IsWouldBlock(err))

	s.Close()
}

func TestStackEmptyAtBirth(t *testing.T) {
	s := NewStack[string]()
	assert.True(t, s.Empty())
	s.Close()
}

// Conservation: N pushes across producers, M pops across consumers, every
// value appears exactly once.
func TestStackConservationConcurrent(t *testing.T) {
	if RaceEnabled {
		t.Skip("lock-free CAS loops trigger false positives under -race")
	}
	const perProducer = 2000
	const producers = 4
	const consumers = 4
	const total = perProducer * producers

	s := NewStack[int]()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				require.NoError(t, s.Push(base+i))
			}
		}(p * perProducer)
	}
	wg.Wait()

	results := make(chan int, total)
	var cwg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for {
				v, err := s.TryPop()
				if err != nil {
					if s.Empty() {
						return
					}
					continue
				}
				results <- v
			}
		}()
	}
	cwg.Wait()
	close(results)

	seen := make(map[int]bool, total)
	count := 0
	for v := range results {
		assert.False(t, seen[v], "value %d delivered more than once", v)
		seen[v] = true
		count++
	}
	assert.Equal(t, total, count)
	s.Close()
}
