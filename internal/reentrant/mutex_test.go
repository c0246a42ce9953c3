package reentrant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestMutex_Reentry(t *testing.T) {
	var m Mutex
	m.Lock()
	m.Lock()
	assert.True(t, m.HeldByCurrent())

	m.Unlock()
	assert.True(t, m.HeldByCurrent(), "outer hold remains")

	m.Unlock()
	assert.False(t, m.HeldByCurrent())
}

func TestMutex_ExcludesOtherGoroutines(t *testing.T) {
	var m Mutex
	m.Lock()

	acquired := make(chan bool)
	go func() { acquired <- m.TryLock() }()
	assert.False(t, <-acquired)

	m.Unlock()

	go func() {
		ok := m.TryLock()
		if ok {
			m.Unlock()
		}
		acquired <- ok
	}()
	assert.True(t, <-acquired)
}

func TestMutex_UnlockByNonOwnerPanics(t *testing.T) {
	var m Mutex
	assert.Panics(t, m.Unlock)

	m.Lock()
	defer m.Unlock()

	done := make(chan any)
	go func() {
		defer func() { done <- recover() }()
		m.Unlock()
	}()
	assert.NotNil(t, <-done)
}

func TestMutex_SerializesCounter(t *testing.T) {
	var m Mutex
	counter := 0

	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			for range 1000 {
				m.Lock()
				m.Lock()
				counter++
				m.Unlock()
				m.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 8000, counter)
}
