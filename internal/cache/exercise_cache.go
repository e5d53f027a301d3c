// Package cache provides the exercise-library cache used to avoid
// re-transmitting the full catalog on every conversational turn.
package cache

import (
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"alcyxob/fitness-coach/internal/domain"
)

// DefaultTTL is how long a cached library stays fresh.
const DefaultTTL = 10 * time.Minute

// ExerciseCache memoizes a user's exercise library between conversational
// turns.
//
// The cache is a transport optimization, never the source of truth: it is
// explicitly staleness-tolerant. A stale or missing entry costs one
// larger-than-necessary prompt and is recovered on the next turn; it is never
// a correctness violation. Lookups must not fail a request; callers fall back
// to the full library on any miss.
//
// The in-memory implementation is process-local. Multi-instance deployments
// need an implementation backed by a shared store; callers are written
// against this interface so that swap needs no caller changes.
type ExerciseCache interface {
	// Get returns the cached library and its fingerprint, or ok=false when
	// absent or expired.
	Get(userID string) (exercises []domain.LibraryExercise, hash string, ok bool)
	// Put stores the library and returns its fingerprint.
	Put(userID string, exercises []domain.LibraryExercise) string
	// Resolve compares clientHash against the cached fingerprint. On a match
	// with an unexpired entry it reports fromCache=true, meaning the caller
	// may skip resending the full payload. Otherwise it recomputes, stores,
	// and returns the fresh fingerprint.
	Resolve(userID string, exercises []domain.LibraryExercise, clientHash string) (hash string, fromCache bool)
	// Invalidate drops the user's entry. Every library write must call this
	// before the next conversational turn.
	Invalidate(userID string)
}

// Fingerprint computes a cheap content fingerprint for a library: a function
// of the sorted exercise names and the count. Not cryptographic; a collision
// only yields a slightly stale prompt.
func Fingerprint(exercises []domain.LibraryExercise) string {
	names := make([]string, len(exercises))
	for i, ex := range exercises {
		names[i] = ex.Name
	}
	sort.Strings(names)

	h := fnv.New64a()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%d-%x", len(exercises), h.Sum64())
}

type entry struct {
	exercises []domain.LibraryExercise
	hash      string
	expiresAt time.Time
}

// MemoryCache is the in-process ExerciseCache implementation.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a process-local cache. A ttl of 0 uses DefaultTTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached library if present and unexpired.
func (c *MemoryCache) Get(userID string) ([]domain.LibraryExercise, string, bool) {
	c.mu.RLock()
	e, ok := c.entries[userID]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expiresAt) {
		return nil, "", false
	}
	return e.exercises, e.hash, true
}

// Put stores the library with a fresh fingerprint and TTL.
func (c *MemoryCache) Put(userID string, exercises []domain.LibraryExercise) string {
	hash := Fingerprint(exercises)
	c.mu.Lock()
	c.entries[userID] = entry{
		exercises: exercises,
		hash:      hash,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
	return hash
}

// Resolve implements the hash-match shortcut described on the interface.
func (c *MemoryCache) Resolve(userID string, exercises []domain.LibraryExercise, clientHash string) (string, bool) {
	if clientHash != "" {
		c.mu.RLock()
		e, ok := c.entries[userID]
		c.mu.RUnlock()
		if ok && e.hash == clientHash && c.now().Before(e.expiresAt) {
			return e.hash, true
		}
	}
	return c.Put(userID, exercises), false
}

// Invalidate drops the user's entry.
func (c *MemoryCache) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}
