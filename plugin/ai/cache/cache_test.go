package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		module   string
		page     string
		expected string
	}{
		{
			name:     "full coordinates",
			message:  "Show My Dashboard",
			module:   "analytics",
			page:     "/analytics",
			expected: "show my dashboard:analytics:/analytics",
		},
		{
			name:     "missing module and page",
			message:  "  hello  ",
			expected: "hello:unknown:unknown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Key(tt.message, tt.module, tt.page))
		})
	}
}

func TestCache_SetGet(t *testing.T) {
	c := New[string](Config{})
	defer c.Destroy()

	c.Set("a", "value")
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "value", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_Defaults(t *testing.T) {
	c := New[int](Config{})
	defer c.Destroy()

	stats := c.GetStats()
	assert.Equal(t, DefaultMaxSize, stats.MaxSize)
	assert.Equal(t, DefaultTTL, stats.TTL)
}

func TestCache_ExpiryOnRead(t *testing.T) {
	c := New[string](Config{TTL: time.Minute})
	defer c.Destroy()

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set("a", "value")

	// Still live one second before expiry.
	c.now = func() time.Time { return base.Add(59 * time.Second) }
	_, ok := c.Get("a")
	assert.True(t, ok)

	// Expired entries are removed on read.
	c.now = func() time.Time { return base.Add(61 * time.Second) }
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestCache_SetWithTTLOverride(t *testing.T) {
	c := New[string](Config{TTL: time.Hour})
	defer c.Destroy()

	base := time.Now()
	c.now = func() time.Time { return base }
	c.SetWithTTL("short", "v", time.Second)

	c.now = func() time.Time { return base.Add(2 * time.Second) }
	assert.False(t, c.Has("short"))
}

func TestCache_EvictsOldestWhenFull(t *testing.T) {
	c := New[int](Config{MaxSize: 10})
	defer c.Destroy()

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}
	require.Equal(t, 10, c.Size())

	// The next insert evicts the oldest tenth: exactly key-0.
	c.Set("key-10", 10)
	assert.Equal(t, 10, c.Size())
	assert.False(t, c.Has("key-0"))
	assert.True(t, c.Has("key-1"))
	assert.True(t, c.Has("key-10"))
}

func TestCache_ReadDoesNotBumpRecency(t *testing.T) {
	c := New[int](Config{MaxSize: 10})
	defer c.Destroy()

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}
	// Reading the oldest key does not protect it from eviction.
	_, ok := c.Get("key-0")
	require.True(t, ok)

	c.Set("key-10", 10)
	assert.False(t, c.Has("key-0"))
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	c := New[int](Config{MaxSize: 10})
	defer c.Destroy()

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}
	// Rewriting an existing key is not an insert.
	c.Set("key-5", 55)
	assert.Equal(t, 10, c.Size())
	assert.True(t, c.Has("key-0"))

	got, ok := c.Get("key-5")
	require.True(t, ok)
	assert.Equal(t, 55, got)
}

func TestCache_Cleanup(t *testing.T) {
	c := New[string](Config{TTL: time.Minute})
	defer c.Destroy()

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set("a", "v")
	c.SetWithTTL("b", "v", time.Hour)

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	removed := c.Cleanup()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Size())
	assert.True(t, c.Has("b"))
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := New[string](Config{})
	defer c.Destroy()

	c.Set("a", "v")
	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))

	c.Set("b", "v")
	c.Set("c", "v")
	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCache_DestroyIdempotent(t *testing.T) {
	c := New[string](Config{CleanupInterval: time.Millisecond})
	c.Set("a", "v")

	c.Destroy()
	assert.Equal(t, 0, c.Size())

	// Second destroy is a no-op.
	c.Destroy()

	// The instance still accepts writes after destroy, without a sweeper.
	c.Set("b", "v")
	assert.True(t, c.Has("b"))
}
