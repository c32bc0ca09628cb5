package lexicon

import (
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/provimatch/backend/internal/domain"
)

// Store holds the live lexicon behind an atomic pointer. Readers always see
// a complete lexicon; Reload swaps the pointer only after a successful
// load, so a broken data file leaves the previous lexicon serving.
type Store struct {
	dir     string // when empty, the embedded data is used
	logger  *zap.SugaredLogger
	current atomic.Pointer[domain.Lexicon]
	hooks   []func()
}

// NewStore loads the lexicon once and returns a ready store. dir points at
// an external lexicon directory; pass "" to use the embedded defaults.
func NewStore(dir string, logger *zap.SugaredLogger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Store{dir: dir, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the live lexicon. Never nil after a successful NewStore.
func (s *Store) Current() *domain.Lexicon {
	return s.current.Load()
}

// OnReload registers a hook run after every successful reload. Used to
// invalidate caches that embed lexicon-derived data. Not safe to call
// concurrently with Reload; register hooks during startup.
func (s *Store) OnReload(hook func()) {
	s.hooks = append(s.hooks, hook)
}

// Reload re-reads the lexicon data and atomically replaces the live
// lexicon. On failure the previous lexicon stays in place.
func (s *Store) Reload() error {
	fsys := EmbeddedFS()
	if s.dir != "" {
		fsys = os.DirFS(s.dir)
	}

	lex, err := Load(fsys)
	if err != nil {
		s.logger.Errorw("lexicon reload failed", "dir", s.dir, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrLexiconLoad, err)
	}

	s.current.Store(lex)
	for _, hook := range s.hooks {
		hook()
	}
	s.logger.Infow("lexicon loaded",
		"brands", len(lex.Brands.ByID),
		"aliases", len(lex.Brands.Aliases),
		"negativeBlocks", len(lex.NegativeBlocks),
		"abbreviations", len(lex.Abbreviations),
	)
	return nil
}
