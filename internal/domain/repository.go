package domain

import "context"

// CatalogRepository defines the interface the delivery layer uses to hold
// supplier listings. The matching core itself never touches persistence;
// it receives candidates as plain slices.
type CatalogRepository interface {
	// Upsert stores the item and returns it as stored, with an id
	// assigned when the input had none.
	Upsert(ctx context.Context, item CatalogItem) (CatalogItem, error)
	Get(ctx context.Context, id string) (*CatalogItem, error)
	// ListActive returns a snapshot of items with Active=true.
	ListActive(ctx context.Context) ([]CatalogItem, error)
	List(ctx context.Context) ([]CatalogItem, error)
}

// LexiconProvider hands out the current lexicon and supports an explicit
// atomic reload. Current must always return a complete, immutable instance;
// readers in flight keep whatever instance they already hold.
type LexiconProvider interface {
	Current() *Lexicon
	Reload() error
}

// SignatureCache caches built match signatures keyed by raw text.
type SignatureCache interface {
	Get(key string) (*MatchSignature, bool)
	Add(key string, sig *MatchSignature)
}
