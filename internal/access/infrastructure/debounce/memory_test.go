package debounce

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryShouldProcess(t *testing.T) {
	m := NewMemory(3 * time.Second)
	defer m.Close()

	ctx := context.Background()
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	ok, err := m.ShouldProcess(ctx, "card-1", start)
	require.NoError(t, err)
	assert.True(t, ok, "first scan starts the window")

	ok, err = m.ShouldProcess(ctx, "card-1", start.Add(2999*time.Millisecond))
	require.NoError(t, err)
	assert.False(t, ok, "scan inside the window is suppressed")

	ok, err = m.ShouldProcess(ctx, "card-1", start.Add(3001*time.Millisecond))
	require.NoError(t, err)
	assert.True(t, ok, "scan after the window is processed")
}

func TestMemoryWindowRestartsOnProcess(t *testing.T) {
	m := NewMemory(3 * time.Second)
	defer m.Close()

	ctx := context.Background()
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	ok, _ := m.ShouldProcess(ctx, "card-1", start)
	require.True(t, ok)

	second := start.Add(4 * time.Second)
	ok, _ = m.ShouldProcess(ctx, "card-1", second)
	require.True(t, ok)

	// window is measured from the second processed scan, not the first
	ok, _ = m.ShouldProcess(ctx, "card-1", second.Add(2*time.Second))
	assert.False(t, ok)
}

func TestMemoryKeysAreIndependent(t *testing.T) {
	m := NewMemory(3 * time.Second)
	defer m.Close()

	ctx := context.Background()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	ok, _ := m.ShouldProcess(ctx, "card-1", at)
	require.True(t, ok)

	ok, _ = m.ShouldProcess(ctx, "card-2", at)
	assert.True(t, ok, "a different credential is not suppressed")
}

func TestMemoryConcurrentScans(t *testing.T) {
	m := NewMemory(3 * time.Second)
	defer m.Close()

	ctx := context.Background()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	var mu sync.Mutex
	processed := 0

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ok, err := m.ShouldProcess(ctx, fmt.Sprintf("card-%d", n%8), at)
			require.NoError(t, err)
			if ok {
				mu.Lock()
				processed++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, processed, "exactly one scan per credential passes")
}
