package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionalRWMutexDisabled(t *testing.T) {
	var mutex OptionalRWMutex

	// Reentrant locking only works when the mutex is disabled
	mutex.Lock()
	mutex.Lock()
	mutex.RLock()
	mutex.Unlock()
	mutex.Unlock()
	mutex.RUnlock()

	require.True(t, mutex.Mutex.TryLock())
	mutex.Mutex.Unlock()
}

func TestOptionalRWMutexEnabled(t *testing.T) {
	mutex := OptionalRWMutex{UseMutex: true}

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				mutex.Lock()
				counter++
				mutex.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 8000, counter)

	mutex.RLock()
	require.False(t, mutex.Mutex.TryLock())
	mutex.RUnlock()
}
