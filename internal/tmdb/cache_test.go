package tmdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	c := newCache[int64, *Movie](time.Hour)

	_, ok := c.get(949)
	assert.False(t, ok, "empty cache should miss")

	c.set(949, &Movie{ID: 949, Title: "Heat"})
	c.set(8195, &Movie{ID: 8195, Title: "Ronin"})

	got, ok := c.get(949)
	require.True(t, ok)
	assert.Equal(t, "Heat", got.Title)

	got, ok = c.get(8195)
	require.True(t, ok)
	assert.Equal(t, "Ronin", got.Title)

	_, ok = c.get(1)
	assert.False(t, ok, "different ID should miss")
}

func TestCache_StringKeys(t *testing.T) {
	c := newCache[string, []SearchResult](time.Hour)

	c.set("heat", []SearchResult{{ID: 949, Title: "Heat"}})

	got, ok := c.get("heat")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, int64(949), got[0].ID)
}

func TestCache_Expiry(t *testing.T) {
	c := newCache[int64, *Movie](10 * time.Millisecond)

	c.set(949, &Movie{ID: 949, Title: "Heat"})
	_, ok := c.get(949)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = c.get(949)
	assert.False(t, ok, "should miss after TTL")
}
