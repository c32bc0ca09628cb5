package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/provimatch/backend/internal/domain"
)

const defaultSignatureCacheSize = 4096

// SignatureCache is a bounded LRU over parsed match signatures, keyed by
// raw product name. Parsing a name runs several regex passes and dictionary
// scans; catalog names repeat across requests, so the hit rate is high.
type SignatureCache struct {
	lru *lru.Cache[string, *domain.MatchSignature]
}

// NewSignatureCache creates a signature cache bounded to size entries.
// Non-positive sizes fall back to the default.
func NewSignatureCache(size int) (*SignatureCache, error) {
	if size <= 0 {
		size = defaultSignatureCacheSize
	}
	l, err := lru.New[string, *domain.MatchSignature](size)
	if err != nil {
		return nil, err
	}
	return &SignatureCache{lru: l}, nil
}

// Get returns the cached signature for the key, if present. Callers must
// treat the result as read-only; it is shared across goroutines.
func (c *SignatureCache) Get(key string) (*domain.MatchSignature, bool) {
	return c.lru.Get(key)
}

// Add stores a signature under the key, evicting the least recently used
// entry when full.
func (c *SignatureCache) Add(key string, sig *domain.MatchSignature) {
	c.lru.Add(key, sig)
}

// Len returns the current number of cached signatures.
func (c *SignatureCache) Len() int {
	return c.lru.Len()
}

// Purge drops every cached signature. Called after a lexicon reload, since
// cached signatures embed dictionary-derived fields.
func (c *SignatureCache) Purge() {
	c.lru.Purge()
}
