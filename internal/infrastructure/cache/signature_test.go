package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provimatch/backend/internal/domain"
)

func TestSignatureCache(t *testing.T) {
	t.Run("get after add", func(t *testing.T) {
		c, err := NewSignatureCache(8)
		require.NoError(t, err)

		sig := &domain.MatchSignature{ProductKind: "shrimp"}
		c.Add("Shrimp 16/20 FROZEN", sig)

		got, ok := c.Get("Shrimp 16/20 FROZEN")
		require.True(t, ok)
		assert.Same(t, sig, got)

		_, ok = c.Get("never stored")
		assert.False(t, ok)
	})

	t.Run("evicts least recently used when full", func(t *testing.T) {
		c, err := NewSignatureCache(2)
		require.NoError(t, err)

		c.Add("a", &domain.MatchSignature{ProductKind: "a"})
		c.Add("b", &domain.MatchSignature{ProductKind: "b"})
		c.Get("a") // refresh a, b becomes the eviction victim
		c.Add("c", &domain.MatchSignature{ProductKind: "c"})

		_, ok := c.Get("b")
		assert.False(t, ok)
		_, ok = c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("purge empties the cache", func(t *testing.T) {
		c, err := NewSignatureCache(16)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			key := fmt.Sprintf("item-%d", i)
			c.Add(key, &domain.MatchSignature{ProductKind: key})
		}
		require.Equal(t, 5, c.Len())

		c.Purge()
		assert.Equal(t, 0, c.Len())
		_, ok := c.Get("item-0")
		assert.False(t, ok)
	})

	t.Run("non-positive size falls back to default", func(t *testing.T) {
		c, err := NewSignatureCache(0)
		require.NoError(t, err)
		c.Add("x", &domain.MatchSignature{})
		assert.Equal(t, 1, c.Len())
	})
}
