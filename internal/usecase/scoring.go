package usecase

import (
	"github.com/agnivade/levenshtein"

	"github.com/provimatch/backend/internal/domain"
)

// Score component keys shared by every formula.
const (
	compName    = "name"
	compBrand   = "brand"
	compUnit    = "unit"
	compPack    = "pack"
	compCaliber = "caliber"
	compFat     = "fat"
	compType    = "type"
)

// Flat penalty constants. Strict-mode mismatches are near-disqualifying on
// purpose: with a 0-100 scale and a 70 cutoff a 100-point penalty cannot be
// recovered from.
const (
	penaltyStrictBrandMismatch = 100
	penaltySuperClassConflict  = 100
	penaltyStrictPackMismatch  = 100
	penaltyPackOutOfTolerance  = 60
	penaltyPackMissing         = 30

	// Fuzzy token hits earn a reduced credit in name recall
	fuzzyNameCredit  = 0.8
	fuzzyMinTokenLen = 5

	defaultMinScore = 70.0
)

// scoreFormula is one weighted linear combination of component scores,
// scaled to 0-100. Weights sum to 1 per formula.
type scoreFormula struct {
	ID                     string
	Name                   string
	Weights                map[string]float64
	CaliberMismatchPenalty int
	FatMismatchPenalty     int
}

// scoreFormulas is the fixed formula set. Selection order lives in
// DetermineFormula; this table is keyed for lookup.
var scoreFormulas = map[string]scoreFormula{
	"A": {
		ID: "A", Name: "caliber-graded",
		Weights: map[string]float64{
			compName: 0.30, compCaliber: 0.30, compType: 0.15,
			compUnit: 0.10, compPack: 0.10, compBrand: 0.05,
		},
		CaliberMismatchPenalty: 80,
		FatMismatchPenalty:     20,
	},
	"B": {
		ID: "B", Name: "meat-cut",
		Weights: map[string]float64{
			compName: 0.35, compType: 0.20, compFat: 0.10,
			compUnit: 0.10, compPack: 0.15, compBrand: 0.10,
		},
		CaliberMismatchPenalty: 40,
		FatMismatchPenalty:     30,
	},
	"C": {
		ID: "C", Name: "dairy-fat",
		Weights: map[string]float64{
			compName: 0.30, compFat: 0.25, compType: 0.15,
			compUnit: 0.10, compPack: 0.15, compBrand: 0.05,
		},
		FatMismatchPenalty: 40,
	},
	"D": {
		ID: "D", Name: "seafood-general",
		Weights: map[string]float64{
			compName: 0.40, compType: 0.20, compUnit: 0.10,
			compPack: 0.20, compBrand: 0.10,
		},
		CaliberMismatchPenalty: 40,
		FatMismatchPenalty:     20,
	},
	"E": {
		ID: "E", Name: "beverage-volume",
		Weights: map[string]float64{
			compName: 0.35, compType: 0.15, compUnit: 0.15,
			compPack: 0.25, compBrand: 0.10,
		},
		FatMismatchPenalty: 10,
	},
	"F": {
		ID: "F", Name: "produce",
		Weights: map[string]float64{
			compName: 0.45, compType: 0.25, compUnit: 0.10,
			compPack: 0.10, compBrand: 0.10,
		},
		FatMismatchPenalty: 10,
	},
	"G": {
		ID: "G", Name: "branded-grocery",
		Weights: map[string]float64{
			compName: 0.30, compBrand: 0.25, compType: 0.15,
			compUnit: 0.10, compPack: 0.20,
		},
		FatMismatchPenalty: 20,
	},
	"H": {
		ID: "H", Name: "generic",
		Weights: map[string]float64{
			compName: 0.45, compType: 0.15, compUnit: 0.15,
			compPack: 0.15, compBrand: 0.10,
		},
		CaliberMismatchPenalty: 40,
		FatMismatchPenalty:     20,
	},
}

// ScoreResult is the scoring outcome for one admitted pair.
type ScoreResult struct {
	Score       float64            `json:"score"`
	Penalties   int                `json:"penalties"`
	FormulaID   string             `json:"formulaId"`
	PacksNeeded int                `json:"packsNeeded"`
	Rejected    bool               `json:"rejected"`
	ReasonCodes []string           `json:"reasonCodes,omitempty"`
	Components  map[string]float64 `json:"components,omitempty"`
}

// ScoringConfig holds the tunables of the scoring engine.
type ScoringConfig struct {
	MinScore        float64
	FatTolerancePct int
	PackTolerance   float64 // relative, e.g. 0.10
}

// ScoringEngine computes the 0-100 similarity score for pairs admitted by
// the compatibility gate.
type ScoringEngine struct {
	reconciler      *PackReconciler
	minScore        float64
	fatTolerancePct int
	packTolerance   float64
}

// NewScoringEngine creates a scoring engine, falling back to defaults for
// zero config values.
func NewScoringEngine(config ScoringConfig) *ScoringEngine {
	minScore := config.MinScore
	if minScore <= 0 {
		minScore = defaultMinScore
	}
	fatTol := config.FatTolerancePct
	if fatTol <= 0 {
		fatTol = defaultFatTolerancePct
	}
	packTol := config.PackTolerance
	if packTol <= 0 {
		packTol = defaultPackTolerance
	}
	return &ScoringEngine{
		reconciler:      NewPackReconciler(),
		minScore:        minScore,
		fatTolerancePct: fatTol,
		packTolerance:   packTol,
	}
}

// MinScore is the discard threshold applied by the caller.
func (e *ScoringEngine) MinScore() float64 { return e.minScore }

// DetermineFormula inspects the reference signature and picks the formula.
// Checked in order: caliber beats everything (the ratio is the dominant
// attribute in graded trade), then fat-bearing dairy, then the class map.
func (e *ScoringEngine) DetermineFormula(ref *domain.MatchSignature, strictBrand bool) string {
	switch {
	case ref.Caliber != "":
		return "A"
	case ref.TopClass == "dairy" && ref.FatPct != nil:
		return "C"
	case ref.TopClass == "meat":
		return "B"
	case ref.TopClass == "seafood":
		return "D"
	case ref.TopClass == "beverage":
		return "E"
	case ref.TopClass == "produce":
		return "F"
	case strictBrand || (ref.BrandID != "" && ref.TopClass == "grocery"):
		return "G"
	default:
		return "H"
	}
}

// CalculateScore computes the weighted score and additive penalties for one
// pair under the given formula and strict-mode flags.
func (e *ScoringEngine) CalculateScore(
	ref, cand *domain.MatchSignature,
	formulaID string,
	strictPack, strictBrand bool,
	lex *domain.Lexicon,
) ScoreResult {
	formula, ok := scoreFormulas[formulaID]
	if !ok {
		formula = scoreFormulas["H"]
	}

	result := ScoreResult{
		FormulaID:  formula.ID,
		Components: make(map[string]float64, len(formula.Weights)),
	}

	// Pack reconciliation runs first: a unit-type mismatch is terminal for
	// the pair, never degraded or converted.
	recon := e.reconciler.CalculatePacksNeeded(ref.Pack, cand.Pack)
	if recon.Rejected {
		result.Rejected = true
		result.ReasonCodes = append(result.ReasonCodes, recon.Reason)
		return result
	}
	result.PacksNeeded = recon.PacksNeeded

	penalties := e.reconciler.PacksNeededPenalty(recon.PacksNeeded)

	scores := map[string]float64{
		compName: nameTokenRecall(ref.Tokens, cand.Tokens),
		compType: typeScore(ref, cand),
		compUnit: unitScore(ref.UnitNorm, cand.UnitNorm),
	}

	// Non-strict matching wants the cheapest equivalent regardless of brand,
	// so brand is pinned neutral; in strict mode any mismatch is
	// near-disqualifying.
	var dict *domain.BrandDictionary
	if lex != nil {
		dict = lex.Brands
	}
	if strictBrand && ref.BrandID != "" {
		if BrandEquivalent(ref.BrandID, cand.BrandID, dict) {
			scores[compBrand] = 1.0
		} else {
			scores[compBrand] = 0.0
			penalties += penaltyStrictBrandMismatch
			result.ReasonCodes = append(result.ReasonCodes, "strict_brand_mismatch")
		}
	} else {
		scores[compBrand] = 0.5
	}

	// Pack tolerance check (scoring-side, distinct from reconciliation)
	packMatched, refHasPack, candHasPack := PackMatches(ref, cand, e.packTolerance)
	switch {
	case packMatched:
		scores[compPack] = 1.0
	case !candHasPack:
		scores[compPack] = 0.3
		if strictPack {
			penalties += penaltyStrictPackMismatch
			result.ReasonCodes = append(result.ReasonCodes, "strict_pack_missing")
		} else {
			penalties += penaltyPackMissing
		}
	case refHasPack:
		scores[compPack] = 0.0
		if strictPack {
			penalties += penaltyStrictPackMismatch
			result.ReasonCodes = append(result.ReasonCodes, "strict_pack_mismatch")
		} else {
			penalties += penaltyPackOutOfTolerance
		}
	}

	// Caliber
	switch {
	case ref.Caliber == "":
		scores[compCaliber] = 1.0
	case cand.Caliber == ref.Caliber:
		scores[compCaliber] = 1.0
	case cand.Caliber == "":
		scores[compCaliber] = 0.5
	default:
		scores[compCaliber] = 0.0
		penalties += formula.CaliberMismatchPenalty
		result.ReasonCodes = append(result.ReasonCodes, "caliber_mismatch")
	}

	// Fat
	switch {
	case ref.FatPct == nil:
		scores[compFat] = 1.0
	case cand.FatPct != nil && abs(*ref.FatPct-*cand.FatPct) <= e.fatTolerancePct:
		scores[compFat] = 1.0
	default:
		scores[compFat] = 0.0
		penalties += formula.FatMismatchPenalty
		result.ReasonCodes = append(result.ReasonCodes, "fat_mismatch")
	}

	// Super-class conflict between two known, non-"other" classes
	if ref.TopClass != "" && cand.TopClass != "" &&
		ref.TopClass != "other" && cand.TopClass != "other" &&
		ref.TopClass != cand.TopClass {
		penalties += penaltySuperClassConflict
		result.ReasonCodes = append(result.ReasonCodes, "super_class_conflict")
	}

	weighted := 0.0
	for comp, weight := range formula.Weights {
		weighted += weight * scores[comp]
		result.Components[comp] = scores[comp]
	}

	score := weighted*100 - float64(penalties)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	result.Score = score
	result.Penalties = penalties
	return result
}

// nameTokenRecall is the fraction of reference tokens found in the
// candidate, with fuzzy hits (edit distance 1 on longer tokens) earning a
// reduced credit.
func nameTokenRecall(refTokens, candTokens []string) float64 {
	if len(refTokens) == 0 {
		return 0
	}
	candSet := make(map[string]bool, len(candTokens))
	for _, t := range candTokens {
		candSet[t] = true
	}

	credit := 0.0
	for _, rt := range refTokens {
		if candSet[rt] {
			credit += 1.0
			continue
		}
		if len(rt) < fuzzyMinTokenLen {
			continue
		}
		for _, ct := range candTokens {
			if len(ct) < fuzzyMinTokenLen {
				continue
			}
			if levenshtein.ComputeDistance(rt, ct) <= 1 {
				credit += fuzzyNameCredit
				break
			}
		}
	}
	return credit / float64(len(refTokens))
}

func typeScore(ref, cand *domain.MatchSignature) float64 {
	switch {
	case ref.ProductKind != "" && ref.ProductKind == cand.ProductKind:
		return 1.0
	case ref.ProductKind == "" || cand.ProductKind == "":
		return 0.5
	default:
		return 0.0
	}
}

func unitScore(ref, cand string) float64 {
	switch {
	case ref != "" && ref == cand:
		return 1.0
	case ref == "" || cand == "":
		return 0.5
	default:
		return 0.0
	}
}
