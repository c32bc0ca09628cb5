package usecase

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/provimatch/backend/internal/domain"
)

const defaultTopN = 20

// MatchServiceConfig holds configuration for the matching service
type MatchServiceConfig struct {
	MinScore           float64
	FatTolerancePct    int
	PackTolerance      float64
	DefaultTopN        int
	Workers            int
	EnableDebugLogging bool
}

// MatchingService ranks catalog candidates against a reference query. The
// whole pipeline is pure over immutable signatures, so candidates are
// scored in parallel without any locking.
type MatchingService struct {
	builder  *SignatureBuilder
	gate     *CompatibilityGate
	scorer   *ScoringEngine
	lexicons domain.LexiconProvider
	sigCache domain.SignatureCache

	logger      *zap.SugaredLogger
	defaultTopN int
	workers     int
	debug       bool
}

// NewMatchingService creates a new matching service with the given
// dependencies. The signature cache may be nil.
func NewMatchingService(
	lexicons domain.LexiconProvider,
	sigCache domain.SignatureCache,
	logger *zap.SugaredLogger,
	config MatchServiceConfig,
) *MatchingService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	topN := config.DefaultTopN
	if topN <= 0 {
		topN = defaultTopN
	}
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &MatchingService{
		builder: NewSignatureBuilder(),
		gate:    NewCompatibilityGate(config.FatTolerancePct),
		scorer: NewScoringEngine(ScoringConfig{
			MinScore:        config.MinScore,
			FatTolerancePct: config.FatTolerancePct,
			PackTolerance:   config.PackTolerance,
		}),
		lexicons:    lexicons,
		sigCache:    sigCache,
		logger:      logger,
		defaultTopN: topN,
		workers:     workers,
		debug:       config.EnableDebugLogging,
	}
}

// FindMatches scores every candidate against the reference query and
// returns the surviving ones sorted by score descending, then price
// ascending, truncated to TopN. Inactive candidates are the caller's
// concern; they are not re-checked here.
func (s *MatchingService) FindMatches(
	ctx context.Context,
	req *domain.MatchRequest,
	candidates []domain.CatalogItem,
) ([]domain.ScoredCandidate, error) {
	if req == nil || req.Name == "" {
		return nil, domain.ErrInvalidRequest
	}

	lex := s.lexicons.Current()
	ref := s.builder.BuildFromRequest(req, lex)
	formulaID := s.scorer.DetermineFormula(ref, req.StrictBrand)

	if s.debug {
		s.logger.Debugw("matching reference built",
			"name", req.Name,
			"topClass", ref.TopClass,
			"productKind", ref.ProductKind,
			"caliber", ref.Caliber,
			"formula", formulaID,
			"candidates", len(candidates),
		)
	}

	results := make([]*domain.ScoredCandidate, len(candidates))
	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := s.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = s.scoreOne(ref, formulaID, req, candidates[idx], lex)
			}
		}()
	}

dispatch:
	for i := 0; i < len(candidates); i++ {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, r := range results {
		if r != nil {
			matched = append(matched, *r)
		}
	}

	// Score descending, price ascending on ties
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Score != matched[j].Score {
			return matched[i].Score > matched[j].Score
		}
		return matched[i].Candidate.Price < matched[j].Candidate.Price
	})

	topN := req.TopN
	if topN <= 0 {
		topN = s.defaultTopN
	}
	if len(matched) > topN {
		matched = matched[:topN]
	}

	if s.debug {
		s.logger.Debugw("matching done", "name", req.Name, "results", len(matched))
	}

	return matched, nil
}

// FindBestMatch returns the single top-ranked candidate.
func (s *MatchingService) FindBestMatch(
	ctx context.Context,
	req *domain.MatchRequest,
	candidates []domain.CatalogItem,
) (*domain.ScoredCandidate, error) {
	matches, err := s.FindMatches(ctx, req, candidates)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, domain.ErrNoMatch
	}
	return &matches[0], nil
}

// Explanation is the full gate + scoring picture for one pair, including
// rejections; this is the "why no match" surface.
type Explanation struct {
	Reference *domain.MatchSignature `json:"reference"`
	Candidate *domain.MatchSignature `json:"candidate"`
	Gate      GateDecision           `json:"gate"`
	Score     *ScoreResult           `json:"score,omitempty"`
	Accepted  bool                   `json:"accepted"`
}

// Explain evaluates one (reference, candidate) pair without filtering, so
// callers can see exactly which rule rejected or penalized it.
func (s *MatchingService) Explain(ctx context.Context, req *domain.MatchRequest, item domain.CatalogItem) (*Explanation, error) {
	if req == nil || req.Name == "" {
		return nil, domain.ErrInvalidRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lex := s.lexicons.Current()
	ref := s.builder.BuildFromRequest(req, lex)
	cand := s.candidateSignature(item, lex)

	explanation := &Explanation{
		Reference: ref,
		Candidate: cand,
		Gate:      s.gate.Evaluate(ref, cand, lex, req.IncludeAnalogs),
	}

	if !explanation.Gate.Rejected() {
		formulaID := s.scorer.DetermineFormula(ref, req.StrictBrand)
		score := s.scorer.CalculateScore(ref, cand, formulaID, req.StrictPack, req.StrictBrand, lex)
		explanation.Score = &score
		explanation.Accepted = !score.Rejected && score.Score >= s.scorer.MinScore()
	}

	return explanation, nil
}

// scoreOne runs gate then scoring for a single candidate. Returns nil when
// the candidate is rejected or falls below the minimum score.
func (s *MatchingService) scoreOne(
	ref *domain.MatchSignature,
	formulaID string,
	req *domain.MatchRequest,
	item domain.CatalogItem,
	lex *domain.Lexicon,
) *domain.ScoredCandidate {
	cand := s.candidateSignature(item, lex)

	decision := s.gate.Evaluate(ref, cand, lex, req.IncludeAnalogs)
	if decision.Rejected() {
		if s.debug {
			s.logger.Debugw("candidate rejected by gate", "item", item.ID, "reasons", decision.ReasonCodes)
		}
		return nil
	}

	score := s.scorer.CalculateScore(ref, cand, formulaID, req.StrictPack, req.StrictBrand, lex)
	if score.Rejected {
		if s.debug {
			s.logger.Debugw("candidate rejected by reconciler", "item", item.ID, "reasons", score.ReasonCodes)
		}
		return nil
	}
	if score.Score < s.scorer.MinScore() {
		if s.debug {
			s.logger.Debugw("candidate below threshold", "item", item.ID, "score", score.Score)
		}
		return nil
	}

	reasons := append([]string(nil), decision.ReasonCodes...)
	reasons = append(reasons, score.ReasonCodes...)

	return &domain.ScoredCandidate{
		Candidate:   item,
		Score:       score.Score,
		Tier:        decision.Tier,
		Penalties:   score.Penalties,
		FormulaID:   score.FormulaID,
		Badges:      decision.Badges,
		ReasonCodes: reasons,
		PacksNeeded: score.PacksNeeded,
	}
}

// candidateSignature builds (or fetches) the signature for a catalog item.
// Cached signatures are keyed by raw name; explicit item fields are applied
// on top, so the cache only ever holds the text-derived part.
func (s *MatchingService) candidateSignature(item domain.CatalogItem, lex *domain.Lexicon) *domain.MatchSignature {
	if s.sigCache == nil {
		return s.builder.BuildFromItem(item, lex)
	}
	if cached, ok := s.sigCache.Get(item.NameRaw); ok {
		sig := *cached
		return applyItemOverrides(&sig, item, lex)
	}
	base := s.builder.Build(item.NameRaw, lex)
	s.sigCache.Add(item.NameRaw, base)
	sig := *base
	return applyItemOverrides(&sig, item, lex)
}

func applyItemOverrides(sig *domain.MatchSignature, item domain.CatalogItem, lex *domain.Lexicon) *domain.MatchSignature {
	if item.BrandID != "" {
		sig.BrandID = item.BrandID
		if lex != nil && lex.Brands != nil {
			if info, ok := lex.Brands.ByID[item.BrandID]; ok {
				sig.BrandStrict = info.DefaultStrict
			}
		}
	}
	if item.UnitNorm != "" {
		sig.UnitNorm = item.UnitNorm
	}
	if item.SuperClass != "" {
		sig.TopClass = item.SuperClass
	}
	if item.PackWeightKg != nil && *item.PackWeightKg > 0 {
		g := *item.PackWeightKg * 1000
		sig.Pack = domain.PackInfo{UnitType: domain.UnitWeight, BaseQty: &g, Confidence: 1.0}
	} else if item.PackVolumeL != nil && *item.PackVolumeL > 0 {
		ml := *item.PackVolumeL * 1000
		sig.Pack = domain.PackInfo{UnitType: domain.UnitVolume, BaseQty: &ml, Confidence: 1.0}
	}
	return sig
}
