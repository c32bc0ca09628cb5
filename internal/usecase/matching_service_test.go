package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/provimatch/backend/internal/domain"
)

// staticLexicons satisfies domain.LexiconProvider with a fixed lexicon.
type staticLexicons struct {
	lex *domain.Lexicon
}

func (s *staticLexicons) Current() *domain.Lexicon { return s.lex }
func (s *staticLexicons) Reload() error            { return nil }

// mapSignatureCache is a trivial unbounded cache for tests.
type mapSignatureCache struct {
	mutex   sync.Mutex
	entries map[string]*domain.MatchSignature
	hits    int
}

func newMapSignatureCache() *mapSignatureCache {
	return &mapSignatureCache{entries: map[string]*domain.MatchSignature{}}
}

func (c *mapSignatureCache) Get(key string) (*domain.MatchSignature, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	sig, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return sig, ok
}

func (c *mapSignatureCache) Add(key string, sig *domain.MatchSignature) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[key] = sig
}

func (c *mapSignatureCache) hitCount() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.hits
}

func newTestService(cache domain.SignatureCache) *MatchingService {
	return NewMatchingService(&staticLexicons{lex: testLexicon()}, cache, nil, MatchServiceConfig{
		Workers: 2,
	})
}

func testCatalog() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: "1", NameRaw: "Shrimp 16/20 glazed frozen", Price: 18.50, Active: true},
		{ID: "2", NameRaw: "Shrimp 16/20 frozen", Price: 21.00, Active: true},
		{ID: "3", NameRaw: "Shrimp 21/25 frozen", Price: 12.00, Active: true},
		{ID: "4", NameRaw: "Chicken breast fillet 1kg", Price: 7.30, Active: true},
		{ID: "5", NameRaw: "Shrimp 16/20 frozen", Price: 19.75, Active: true},
	}
}

func TestFindMatches(t *testing.T) {
	s := newTestService(nil)

	t.Run("ranks by score descending then price ascending", func(t *testing.T) {
		matches, err := s.FindMatches(context.Background(), &domain.MatchRequest{Name: "Shrimp 16/20 frozen"}, testCatalog())
		if err != nil {
			t.Fatalf("FindMatches() error = %v", err)
		}
		if len(matches) == 0 {
			t.Fatal("no matches returned")
		}

		for i := 1; i < len(matches); i++ {
			prev, cur := matches[i-1], matches[i]
			if cur.Score > prev.Score {
				t.Errorf("results not sorted by score: %v before %v", prev.Score, cur.Score)
			}
			if cur.Score == prev.Score && cur.Candidate.Price < prev.Candidate.Price {
				t.Errorf("price tiebreak violated: %v before %v", prev.Candidate.Price, cur.Candidate.Price)
			}
		}

		// The matching-caliber items tie on score, so the cheapest one wins.
		if matches[0].Candidate.ID != "1" {
			t.Errorf("top match = %s, want 1 (cheapest of the tied scores)", matches[0].Candidate.ID)
		}
	})

	t.Run("filters wrong caliber and wrong category", func(t *testing.T) {
		matches, err := s.FindMatches(context.Background(), &domain.MatchRequest{Name: "Shrimp 16/20 frozen"}, testCatalog())
		if err != nil {
			t.Fatalf("FindMatches() error = %v", err)
		}
		for _, m := range matches {
			if m.Candidate.ID == "3" {
				t.Error("caliber-mismatched item 3 should be filtered")
			}
			if m.Candidate.ID == "4" {
				t.Error("chicken item 4 should be rejected by the gate")
			}
		}
	})

	t.Run("truncates to TopN", func(t *testing.T) {
		matches, err := s.FindMatches(context.Background(), &domain.MatchRequest{Name: "Shrimp 16/20 frozen", TopN: 1}, testCatalog())
		if err != nil {
			t.Fatalf("FindMatches() error = %v", err)
		}
		if len(matches) != 1 {
			t.Errorf("len(matches) = %d, want 1", len(matches))
		}
	})

	t.Run("empty name is invalid", func(t *testing.T) {
		_, err := s.FindMatches(context.Background(), &domain.MatchRequest{}, testCatalog())
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.FindMatches(ctx, &domain.MatchRequest{Name: "Shrimp 16/20"}, testCatalog())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})

	t.Run("no candidates yields empty result", func(t *testing.T) {
		matches, err := s.FindMatches(context.Background(), &domain.MatchRequest{Name: "Shrimp 16/20"}, nil)
		if err != nil {
			t.Fatalf("FindMatches() error = %v", err)
		}
		if len(matches) != 0 {
			t.Errorf("len(matches) = %d, want 0", len(matches))
		}
	})
}

func TestFindMatchesUsesSignatureCache(t *testing.T) {
	cache := newMapSignatureCache()
	s := newTestService(cache)

	req := &domain.MatchRequest{Name: "Shrimp 16/20 frozen"}
	if _, err := s.FindMatches(context.Background(), req, testCatalog()); err != nil {
		t.Fatalf("first FindMatches() error = %v", err)
	}
	if _, err := s.FindMatches(context.Background(), req, testCatalog()); err != nil {
		t.Fatalf("second FindMatches() error = %v", err)
	}

	if cache.hitCount() == 0 {
		t.Error("second pass produced no cache hits")
	}
}

func TestFindBestMatch(t *testing.T) {
	s := newTestService(nil)

	t.Run("returns the top result", func(t *testing.T) {
		best, err := s.FindBestMatch(context.Background(), &domain.MatchRequest{Name: "Shrimp 16/20 frozen"}, testCatalog())
		if err != nil {
			t.Fatalf("FindBestMatch() error = %v", err)
		}
		if best.Candidate.ID != "1" {
			t.Errorf("best = %s, want 1", best.Candidate.ID)
		}
	})

	t.Run("no survivors yields ErrNoMatch", func(t *testing.T) {
		_, err := s.FindBestMatch(context.Background(), &domain.MatchRequest{Name: "Lobster tails"}, testCatalog())
		if !errors.Is(err, domain.ErrNoMatch) {
			t.Errorf("error = %v, want ErrNoMatch", err)
		}
	})
}

func TestExplain(t *testing.T) {
	s := newTestService(nil)

	t.Run("accepted pair carries gate and score", func(t *testing.T) {
		item := domain.CatalogItem{ID: "2", NameRaw: "Shrimp 16/20 frozen", Price: 21, Active: true}
		ex, err := s.Explain(context.Background(), &domain.MatchRequest{Name: "Shrimp 16/20 frozen"}, item)
		if err != nil {
			t.Fatalf("Explain() error = %v", err)
		}
		if ex.Gate.Rejected() {
			t.Fatalf("gate rejected: %v", ex.Gate.ReasonCodes)
		}
		if ex.Score == nil {
			t.Fatal("Score = nil, want populated")
		}
		if !ex.Accepted {
			t.Errorf("Accepted = false, score %v", ex.Score.Score)
		}
	})

	t.Run("rejected pair explains why", func(t *testing.T) {
		item := domain.CatalogItem{ID: "4", NameRaw: "Chicken breast fillet 1kg", Price: 7.30, Active: true}
		ex, err := s.Explain(context.Background(), &domain.MatchRequest{Name: "Shrimp 16/20 frozen"}, item)
		if err != nil {
			t.Fatalf("Explain() error = %v", err)
		}
		if !ex.Gate.Rejected() {
			t.Fatal("gate accepted a chicken candidate for a shrimp reference")
		}
		if len(ex.Gate.ReasonCodes) == 0 {
			t.Error("rejection carries no reason codes")
		}
		if ex.Accepted {
			t.Error("Accepted = true, want false")
		}
	})
}
