package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Flag bool   `json:"flag"`
	Name string `json:"name"`
}

func TestMemory_SetGetExpire(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	defer m.Close()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "settings", sample{Flag: true, Name: "x"}, 30*time.Second))

	var got sample
	ok, err := m.Get(ctx, "settings", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sample{Flag: true, Name: "x"}, got)

	now = now.Add(31 * time.Second)
	ok, err = m.Get(ctx, "settings", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	m.evictExpired()
	assert.Empty(t, m.entries)
}

func TestMemory_DeleteAndPrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	defer m.Close()

	_ = m.Set(ctx, "settings:global", 1, time.Minute)
	_ = m.Set(ctx, "settings:other", 2, time.Minute)
	_ = m.Set(ctx, "users:1", 3, time.Minute)

	require.NoError(t, m.Delete(ctx, "users:1"))
	m.InvalidateByPrefix("settings:")

	var v int
	ok, _ := m.Get(ctx, "settings:global", &v)
	assert.False(t, ok)
	ok, _ = m.Get(ctx, "users:1", &v)
	assert.False(t, ok)
}

func TestMemory_CloseIdempotent(t *testing.T) {
	m := NewMemory(time.Hour)
	m.Close()
	m.Close()
}
