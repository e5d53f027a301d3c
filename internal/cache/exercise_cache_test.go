package cache

import (
	"testing"
	"time"

	"alcyxob/fitness-coach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func library(names ...string) []domain.LibraryExercise {
	out := make([]domain.LibraryExercise, len(names))
	for i, n := range names {
		out[i] = domain.LibraryExercise{Name: n}
	}
	return out
}

func TestFingerprintIsOrderIndependent(t *testing.T) {
	a := Fingerprint(library("Squat", "Bench Press", "Deadlift"))
	b := Fingerprint(library("Deadlift", "Squat", "Bench Press"))
	assert.Equal(t, a, b)
}

func TestFingerprintChangesWithContent(t *testing.T) {
	base := Fingerprint(library("Squat", "Bench Press"))

	added := Fingerprint(library("Squat", "Bench Press", "Deadlift"))
	assert.NotEqual(t, base, added)

	renamed := Fingerprint(library("Squat", "Incline Bench Press"))
	assert.NotEqual(t, base, renamed)
}

func TestFingerprintIncludesCount(t *testing.T) {
	// Same concatenated content, different exercise counts.
	a := Fingerprint(library("Squat"))
	b := Fingerprint(library("Squat", "Squat"))
	assert.NotEqual(t, a, b)
}

func TestMemoryCachePutGet(t *testing.T) {
	c := NewMemoryCache(DefaultTTL)
	exercises := library("Squat", "Push-up")

	hash := c.Put("user-1", exercises)
	require.NotEmpty(t, hash)

	got, gotHash, ok := c.Get("user-1")
	require.True(t, ok)
	assert.Equal(t, hash, gotHash)
	assert.Len(t, got, 2)

	_, _, ok = c.Get("user-2")
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(10 * time.Minute)
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Put("user-1", library("Squat"))

	current = current.Add(9 * time.Minute)
	_, _, ok := c.Get("user-1")
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, _, ok = c.Get("user-1")
	assert.False(t, ok, "entry past its TTL must miss")
}

func TestResolveHashMatchSkipsResend(t *testing.T) {
	c := NewMemoryCache(DefaultTTL)
	exercises := library("Squat", "Plank")

	hash := c.Put("user-1", exercises)

	gotHash, fromCache := c.Resolve("user-1", exercises, hash)
	assert.True(t, fromCache)
	assert.Equal(t, hash, gotHash)
}

func TestResolveMismatchRecomputes(t *testing.T) {
	c := NewMemoryCache(DefaultTTL)
	old := library("Squat")
	c.Put("user-1", old)

	updated := library("Squat", "Deadlift")
	gotHash, fromCache := c.Resolve("user-1", updated, "stale-hash")
	assert.False(t, fromCache)
	assert.Equal(t, Fingerprint(updated), gotHash)

	// The cache now holds the updated library.
	got, _, ok := c.Get("user-1")
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestResolveEmptyClientHashNeverHits(t *testing.T) {
	c := NewMemoryCache(DefaultTTL)
	exercises := library("Squat")
	c.Put("user-1", exercises)

	_, fromCache := c.Resolve("user-1", exercises, "")
	assert.False(t, fromCache)
}

func TestResolveExpiredEntryRecomputes(t *testing.T) {
	c := NewMemoryCache(10 * time.Minute)
	current := time.Now()
	c.now = func() time.Time { return current }

	exercises := library("Squat")
	hash := c.Put("user-1", exercises)

	current = current.Add(11 * time.Minute)
	_, fromCache := c.Resolve("user-1", exercises, hash)
	assert.False(t, fromCache, "a matching hash on an expired entry must not count as a hit")
}

func TestInvalidate(t *testing.T) {
	c := NewMemoryCache(DefaultTTL)
	exercises := library("Squat")
	hash := c.Put("user-1", exercises)

	c.Invalidate("user-1")

	_, _, ok := c.Get("user-1")
	assert.False(t, ok)

	_, fromCache := c.Resolve("user-1", exercises, hash)
	assert.False(t, fromCache)
}
