// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockedQueueFIFOOrder(t *testing.T) {
	q := NewLockedQueue[int]()
	require.True(t, q.Empty())

	require.NoError(t, q.Push(1))
	require.NoError(t, q.Push(2))
	require.NoError(t, q.Push(3))

	for _, want := range []int{1, 2, 3} {
		got, err := q.TryPop()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	require.True(t, q.Empty())
	_, err := q.TryPop()
	assert.True(t, IsWouldBlock(err))
}

func TestLockedQueueWaitAndPopBlocksUntilPush(t *testing.T) {
	q := NewLockedQueue[int]()
	done := make(chan int, 1)

	go func() {
		v, err := q.WaitAndPop()
		require.NoError(t, err)
		done <- v
	}()

	select {
	case <-done:
		t.Fatal("WaitAndPop returned before any Push")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, q.Push(42))

	select {
	case v := <-done:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("WaitAndPop never woke up after Push")
	}
}

func TestLockedQueueConservationConcurrent(t *testing.T) {
	const producers = 4
	const perProducer = 1000
	const total = producers * perProducer

	q := NewLockedQueue[int]()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				require.NoError(t, q.Push(base+i))
			}
		}(p * perProducer)
	}
	wg.Wait()

	seen := make(map[int]bool, total)
	for len(seen) < total {
		v, err := q.WaitAndPop()
		require.NoError(t, err)
		assert.False(t, seen[v], "value %d delivered more than once", v)
		seen[v] = true
	}
	assert.True(t, q.Empty())
}

func TestLockedStackLIFOOrder(t *testing.T) {
	s := NewLockedStack[int]()
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
}

func TestFineQueueFIFOOrder(t *testing.T) {
	q := NewFineQueue[int]()
	require.True(t, q.Empty())

	require.NoError(t, q.Push(1))
	require.NoError(t, q.Push(2))
	require.NoError(t, q.Push(3))

	for _, want := range []int{1, 2, 3} {
		got, err := q.TryPop()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	require.True(t, q.Empty())
	_, err := q.TryPop()
	assert.True(t, IsWouldBlock(err))
}

func TestFineQueueWaitAndPopBlocksUntilPush(t *testing.T) {
	q := NewFineQueue[string]()
	done := make(chan string, 1)

	go func() {
		v, err := q.WaitAndPop()
		require.NoError(t, err)
		done <- v
	}()

	select {
	case <-done:
		t.Fatal("WaitAndPop returned before any Push")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, q.Push("ready"))

	select {
	case v := <-done:
		assert.Equal(t, "ready", v)
	case <-time.After(time.Second):
		t.Fatal("WaitAndPop never woke up after Push")
	}
}

func TestFineQueueConservationConcurrent(t *testing.T) {
	const producers = 8
	const perProducer = 2000
	const total = producers * perProducer

	q := NewFineQueue[int]()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				require.NoError(t, q.Push(base+i))
			}
		}(p * perProducer)
	}
	wg.Wait()

	seen := make(map[int]bool, total)
	for len(seen) < total {
		v, err := q.WaitAndPop()
		require.NoError(t, err)
		assert.False(t, seen[v], "value %d delivered more than once", v)
		seen[v] = true
	}
	assert.True(t, q.Empty())
}
