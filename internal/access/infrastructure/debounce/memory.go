// Package debounce suppresses repeat credential scans. A hardware QR scanner
// emits the same code many times per second while it is in front of the
// reader; only the first scan in a window may produce a decision.
package debounce

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 32

// sweepFactor sets how often expired entries are evicted, as a multiple of
// the debounce window.
const sweepFactor = 10

type shard struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// Memory is an in-process debouncer. Keys are sharded to keep lock
// contention down when many gates scan at once, and a background sweeper
// evicts stale entries so the map does not grow with every credential
// ever scanned.
type Memory struct {
	window time.Duration
	shards [shardCount]*shard

	stopOnce sync.Once
	stop     chan struct{}
}

// NewMemory creates a memory debouncer with the given window and starts
// its sweeper. Call Close when done.
func NewMemory(window time.Duration) *Memory {
	m := &Memory{
		window: window,
		stop:   make(chan struct{}),
	}
	for i := range m.shards {
		m.shards[i] = &shard{seen: make(map[string]time.Time)}
	}

	go m.sweep()

	return m
}

// ShouldProcess reports whether a scan for the key should be handled and
// marks the window start when it is.
func (m *Memory) ShouldProcess(_ context.Context, key string, at time.Time) (bool, error) {
	s := m.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.seen[key]; ok && at.Sub(last) < m.window {
		return false, nil
	}

	s.seen[key] = at
	return true, nil
}

// Close stops the sweeper.
func (m *Memory) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Memory) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return m.shards[h.Sum32()%shardCount]
}

func (m *Memory) sweep() {
	ticker := time.NewTicker(m.window * sweepFactor)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			for _, s := range m.shards {
				s.mu.Lock()
				for key, last := range s.seen {
					if now.Sub(last) >= m.window {
						delete(s.seen, key)
					}
				}
				s.mu.Unlock()
			}
		}
	}
}
