//go:build !nogpu

package hal

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestCacheGetOrCreate(t *testing.T) {
	c := newCache[int, string]()
	var created int
	create := func() (string, error) {
		created++
		return "v", nil
	}
	for range 3 {
		if v, err := c.getOrCreate(1, create); v != "v" || err != nil {
			t.Fatalf("getOrCreate() = %q, %v, want v, nil", v, err)
		}
	}
	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}
	if got := c.stats(); got != (CacheStats{Hits: 2, Misses: 1, Entries: 1}) {
		t.Errorf("stats() = %+v, want 2 hits, 1 miss, 1 entry", got)
	}
}

func TestCacheCreateFailure(t *testing.T) {
	c := newCache[int, string]()
	errBoom := errors.New("boom")
	if _, err := c.getOrCreate(1, func() (string, error) { return "", errBoom }); !errors.Is(err, errBoom) {
		t.Errorf("getOrCreate() err = %v, want %v", err, errBoom)
	}
	if got := c.stats(); got.Entries != 0 || got.Misses != 0 {
		t.Errorf("stats() = %+v, want nothing stored", got)
	}
}

func TestCacheEvict(t *testing.T) {
	c := newCache[int, int]()
	for i := range 6 {
		_, _ = c.getOrCreate(i, func() (int, error) { return i * 10, nil })
	}
	removed := c.evict(func(k int) bool { return k%2 == 0 })
	if len(removed) != 3 {
		t.Errorf("evict() removed %d values, want 3", len(removed))
	}
	if got := c.stats().Entries; got != 3 {
		t.Errorf("Entries = %d, want 3", got)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := newCache[int, int]()
	const goroutines = 50
	const iterations = 100

	var created atomic.Int32
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range iterations {
				v, err := c.getOrCreate(7, func() (int, error) {
					created.Add(1)
					return 42, nil
				})
				if v != 42 || err != nil {
					t.Errorf("getOrCreate() = %d, %v", v, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("created = %d, want 1", created.Load())
	}
	s := c.stats()
	if s.Hits+s.Misses != goroutines*iterations {
		t.Errorf("hits+misses = %d, want %d", s.Hits+s.Misses, goroutines*iterations)
	}
}
