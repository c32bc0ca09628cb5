package usecase

import (
	"fmt"

	"github.com/provimatch/backend/internal/domain"
)

const defaultFatTolerancePct = 2

// GateDecision is the terminal state of the compatibility check for one
// (reference, candidate) pair. A rejection always carries reason codes so
// the caller can explain "why no match"; it is never a bare boolean.
type GateDecision struct {
	Tier        domain.Tier `json:"tier"`
	ReasonCodes []string    `json:"reasonCodes,omitempty"`
	Badges      []string    `json:"badges,omitempty"`
}

// Rejected reports whether the pair was rejected outright.
func (d GateDecision) Rejected() bool { return d.Tier == domain.TierRejected }

// CompatibilityGate decides whether a candidate may be scored at all and
// which tier it starts in. Rule precedence is fixed: negative blocks are
// absolute and evaluated first, then hard blocks HB1-HB5, then fat
// tolerance, then tier assignment.
type CompatibilityGate struct {
	fatTolerancePct int
}

// NewCompatibilityGate creates a gate with the given absolute fat tolerance
// in percentage points. Zero and negative values fall back to the default.
func NewCompatibilityGate(fatTolerancePct int) *CompatibilityGate {
	if fatTolerancePct <= 0 {
		fatTolerancePct = defaultFatTolerancePct
	}
	return &CompatibilityGate{fatTolerancePct: fatTolerancePct}
}

// Evaluate runs the full gate for one pair.
func (g *CompatibilityGate) Evaluate(ref, cand *domain.MatchSignature, lex *domain.Lexicon, includeAnalogs bool) GateDecision {
	// 1. Negative blocks: absolute, bidirectional, no analog escape.
	if codes := g.negativeBlockHits(ref, cand, lex); len(codes) > 0 {
		return GateDecision{Tier: domain.TierRejected, ReasonCodes: codes}
	}

	var reasons []string
	var badges []string

	// 2. HB1-HB3: blocking only when both sides carry a value; an unknown
	// side is never a mismatch.
	hb123OK := true
	if ref.TopClass != "" && cand.TopClass != "" && ref.TopClass != cand.TopClass {
		hb123OK = false
		reasons = append(reasons, "HB1_top_class_mismatch")
	}
	if ref.ProductKind != "" && cand.ProductKind != "" && ref.ProductKind != cand.ProductKind {
		hb123OK = false
		reasons = append(reasons, "HB2_product_kind_mismatch")
	}
	if ref.MainIngredient != "" && cand.MainIngredient != "" &&
		!synonymEquivalent(lex, ref.MainIngredient, cand.MainIngredient) {
		hb123OK = false
		reasons = append(reasons, "HB3_main_ingredient_mismatch")
	}

	// 3. HB4/HB5: hard only when the reference specifies the attribute.
	// A candidate contradicting the reference's processing is out; a
	// candidate merely silent about it is demoted, not rejected. State is
	// less discriminating: mismatch demotes, absence is only a warning.
	hb4Hard := false
	hb4Soft := false
	if ref.Processing != "" {
		switch cand.Processing {
		case ref.Processing:
		case "":
			hb4Soft = true
			badges = append(badges, "HB4_processing_unknown")
		default:
			hb4Hard = true
			reasons = append(reasons, "HB4_processing_mismatch")
		}
	}

	hb5Soft := false
	if ref.State != "" {
		switch cand.State {
		case ref.State:
		case "":
			badges = append(badges, "HB5_state_unknown")
		default:
			hb5Soft = true
			badges = append(badges, "HB5_state_mismatch")
		}
	}

	// 4. Fat tolerance: a reference that states a fat percentage requires
	// the candidate to have one, and within tolerance.
	fatOK := true
	if ref.FatPct != nil {
		switch {
		case cand.FatPct == nil:
			fatOK = false
			reasons = append(reasons, "FAT_missing_on_candidate")
		case abs(*ref.FatPct-*cand.FatPct) > g.fatTolerancePct:
			fatOK = false
			reasons = append(reasons, fmt.Sprintf("FAT_out_of_tolerance_%d_vs_%d", *ref.FatPct, *cand.FatPct))
		}
	}

	// 5. Tier assignment.
	if hb123OK && !hb4Hard && fatOK {
		if cand.CutSuperset(ref) && !hb4Soft && !hb5Soft {
			return GateDecision{Tier: domain.TierA, Badges: badges}
		}
		if !cand.CutSuperset(ref) {
			badges = append(badges, "cut_attrs_differ")
		}
		return GateDecision{Tier: domain.TierB, Badges: badges}
	}

	// Analog bucket: only on request, and only when the top class matches
	// and the main ingredient is synonym-equivalent.
	if includeAnalogs &&
		ref.TopClass != "" && ref.TopClass == cand.TopClass &&
		ref.MainIngredient != "" && cand.MainIngredient != "" &&
		synonymEquivalent(lex, ref.MainIngredient, cand.MainIngredient) {
		badges = append(badges, "analog")
		return GateDecision{Tier: domain.TierC, ReasonCodes: reasons, Badges: badges}
	}

	return GateDecision{Tier: domain.TierRejected, ReasonCodes: reasons, Badges: badges}
}

// negativeBlockHits checks every rule in both directions: the rule is
// defined once and applies symmetrically by invariant.
func (g *CompatibilityGate) negativeBlockHits(ref, cand *domain.MatchSignature, lex *domain.Lexicon) []string {
	if lex == nil {
		return nil
	}
	var codes []string
	for _, rule := range lex.NegativeBlocks {
		if hit, v := negativeBlockApplies(rule, ref, cand); hit {
			codes = append(codes, fmt.Sprintf("NB_%s_excludes_%s", rule.ConditionValue, v))
		}
		if hit, v := negativeBlockApplies(rule, cand, ref); hit {
			codes = append(codes, fmt.Sprintf("NB_%s_excludes_%s_reverse", rule.ConditionValue, v))
		}
	}
	return codes
}

func negativeBlockApplies(rule domain.NegativeBlockRule, condSide, rejectSide *domain.MatchSignature) (bool, string) {
	if !containsValue(signatureFieldValues(condSide, rule.ConditionField), rule.ConditionValue) {
		return false, ""
	}
	values := signatureFieldValues(rejectSide, rule.RejectField)
	for _, rejected := range rule.RejectValues {
		if containsValue(values, rejected) {
			return true, rejected
		}
	}
	return false, ""
}

// signatureFieldValues exposes the signature fields a negative block rule
// may reference. Single-valued fields come back as one-element slices.
func signatureFieldValues(sig *domain.MatchSignature, field string) []string {
	switch field {
	case "top_class":
		return nonEmpty(sig.TopClass)
	case "product_kind":
		return nonEmpty(sig.ProductKind)
	case "main_ingredient":
		return nonEmpty(sig.MainIngredient)
	case "processing":
		return nonEmpty(sig.Processing)
	case "state":
		return nonEmpty(sig.State)
	case "cut_attrs":
		return sig.CutAttrs
	}
	return nil
}

func nonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}

func containsValue(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func synonymEquivalent(lex *domain.Lexicon, a, b string) bool {
	if a == b {
		return true
	}
	if lex == nil {
		return false
	}
	return lex.SynonymEquivalent(a, b)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
