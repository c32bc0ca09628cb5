package usecase

import (
	"strings"
	"testing"

	"github.com/provimatch/backend/internal/domain"
)

func testLexicon() *domain.Lexicon {
	return domain.NewLexicon(
		testBrandDictionary(),
		[][]string{
			{"shrimp", "prawn"},
			{"squid", "calamari"},
		},
		[]domain.NegativeBlockRule{
			{ConditionField: "product_kind", ConditionValue: "sausage", RejectField: "cut_attrs", RejectValues: []string{"fillet"}},
			{ConditionField: "product_kind", ConditionValue: "caviar", RejectField: "product_kind", RejectValues: []string{"salmon", "trout"}},
		},
		map[string]string{"smkd": "smoked", "frz": "frozen", "bnls": "boneless"},
	)
}

func intPtr(v int) *int { return &v }

func TestGateEvaluate(t *testing.T) {
	lex := testLexicon()
	g := NewCompatibilityGate(2)

	t.Run("identical signatures land in tier A", func(t *testing.T) {
		ref := &domain.MatchSignature{TopClass: "seafood", ProductKind: "salmon", MainIngredient: "salmon", Processing: "smoked", State: "frozen"}
		cand := &domain.MatchSignature{TopClass: "seafood", ProductKind: "salmon", MainIngredient: "salmon", Processing: "smoked", State: "frozen"}

		d := g.Evaluate(ref, cand, lex, false)
		if d.Tier != domain.TierA {
			t.Errorf("Tier = %s, want A (reasons %v)", d.Tier, d.ReasonCodes)
		}
	})

	t.Run("product kind mismatch rejects", func(t *testing.T) {
		ref := &domain.MatchSignature{TopClass: "seafood", ProductKind: "salmon", MainIngredient: "salmon"}
		cand := &domain.MatchSignature{TopClass: "seafood", ProductKind: "cod", MainIngredient: "cod"}

		d := g.Evaluate(ref, cand, lex, false)
		if d.Tier != domain.TierRejected {
			t.Fatalf("Tier = %s, want REJECTED", d.Tier)
		}
		if !hasReason(d.ReasonCodes, "HB2_product_kind_mismatch") {
			t.Errorf("reasons %v missing HB2_product_kind_mismatch", d.ReasonCodes)
		}
	})

	t.Run("synonym-equivalent ingredient is not a mismatch", func(t *testing.T) {
		ref := &domain.MatchSignature{TopClass: "seafood", ProductKind: "shrimp", MainIngredient: "shrimp"}
		cand := &domain.MatchSignature{TopClass: "seafood", ProductKind: "shrimp", MainIngredient: "prawn"}

		d := g.Evaluate(ref, cand, lex, false)
		if d.Rejected() {
			t.Errorf("rejected with reasons %v, want accepted", d.ReasonCodes)
		}
	})

	t.Run("unknown side of HB1-HB3 is never a mismatch", func(t *testing.T) {
		ref := &domain.MatchSignature{TopClass: "seafood", ProductKind: "salmon", MainIngredient: "salmon"}
		cand := &domain.MatchSignature{ProductKind: "salmon"}

		d := g.Evaluate(ref, cand, lex, false)
		if d.Rejected() {
			t.Errorf("rejected with reasons %v, want accepted", d.ReasonCodes)
		}
	})

	t.Run("processing contradiction rejects", func(t *testing.T) {
		ref := &domain.MatchSignature{TopClass: "seafood", ProductKind: "salmon", Processing: "smoked"}
		cand := &domain.MatchSignature{TopClass: "seafood", ProductKind: "salmon", Processing: "grilled"}

		d := g.Evaluate(ref, cand, lex, false)
		if d.Tier != domain.TierRejected {
			t.Fatalf("Tier = %s, want REJECTED", d.Tier)
		}
		if !hasReason(d.ReasonCodes, "HB4_processing_mismatch") {
			t.Errorf("reasons %v missing HB4_processing_mismatch", d.ReasonCodes)
		}
	})

	t.Run("missing processing demotes to tier B", func(t *testing.T) {
		ref := &domain.MatchSignature{TopClass: "seafood", ProductKind: "salmon", Processing: "smoked"}
		cand := &domain.MatchSignature{TopClass: "seafood", ProductKind: "salmon"}

		d := g.Evaluate(ref, cand, lex, false)
		if d.Tier != domain.TierB {
			t.Errorf("Tier = %s, want B", d.Tier)
		}
		if !hasReason(d.Badges, "HB4_processing_unknown") {
			t.Errorf("badges %v missing HB4_processing_unknown", d.Badges)
		}
	})

	t.Run("state mismatch demotes but does not reject", func(t *testing.T) {
		ref := &domain.MatchSignature{TopClass: "seafood", ProductKind: "salmon", State: "frozen"}
		cand := &domain.MatchSignature{TopClass: "seafood", ProductKind: "salmon", State: "chilled"}

		d := g.Evaluate(ref, cand, lex, false)
		if d.Tier != domain.TierB {
			t.Errorf("Tier = %s, want B", d.Tier)
		}
	})

	t.Run("fat outside tolerance rejects", func(t *testing.T) {
		ref := &domain.MatchSignature{TopClass: "dairy", ProductKind: "cream", FatPct: intPtr(33)}
		cand := &domain.MatchSignature{TopClass: "dairy", ProductKind: "cream", FatPct: intPtr(20)}

		d := g.Evaluate(ref, cand, lex, false)
		if d.Tier != domain.TierRejected {
			t.Errorf("Tier = %s, want REJECTED (reasons %v)", d.Tier, d.ReasonCodes)
		}
	})

	t.Run("fat within tolerance passes", func(t *testing.T) {
		ref := &domain.MatchSignature{TopClass: "dairy", ProductKind: "cream", FatPct: intPtr(33)}
		cand := &domain.MatchSignature{TopClass: "dairy", ProductKind: "cream", FatPct: intPtr(35)}

		d := g.Evaluate(ref, cand, lex, false)
		if d.Rejected() {
			t.Errorf("rejected with reasons %v, want accepted", d.ReasonCodes)
		}
	})

	t.Run("missing cut attrs demote to tier B", func(t *testing.T) {
		ref := &domain.MatchSignature{TopClass: "seafood", ProductKind: "cod", CutAttrs: []string{"fillet", "skinless"}}
		cand := &domain.MatchSignature{TopClass: "seafood", ProductKind: "cod", CutAttrs: []string{"fillet"}}

		d := g.Evaluate(ref, cand, lex, false)
		if d.Tier != domain.TierB {
			t.Errorf("Tier = %s, want B", d.Tier)
		}
		if !hasReason(d.Badges, "cut_attrs_differ") {
			t.Errorf("badges %v missing cut_attrs_differ", d.Badges)
		}
	})

	t.Run("extra cut attrs on candidate stay tier A", func(t *testing.T) {
		ref := &domain.MatchSignature{TopClass: "seafood", ProductKind: "cod", CutAttrs: []string{"fillet"}}
		cand := &domain.MatchSignature{TopClass: "seafood", ProductKind: "cod", CutAttrs: []string{"fillet", "boneless"}}

		d := g.Evaluate(ref, cand, lex, false)
		if d.Tier != domain.TierA {
			t.Errorf("Tier = %s, want A", d.Tier)
		}
	})

	t.Run("analog tier only on request", func(t *testing.T) {
		ref := &domain.MatchSignature{TopClass: "seafood", ProductKind: "squid", MainIngredient: "squid", Processing: "breaded"}
		cand := &domain.MatchSignature{TopClass: "seafood", ProductKind: "squid", MainIngredient: "calamari", Processing: "grilled"}

		if d := g.Evaluate(ref, cand, lex, false); d.Tier != domain.TierRejected {
			t.Errorf("without analogs: Tier = %s, want REJECTED", d.Tier)
		}
		d := g.Evaluate(ref, cand, lex, true)
		if d.Tier != domain.TierC {
			t.Errorf("with analogs: Tier = %s, want C", d.Tier)
		}
		if !hasReason(d.Badges, "analog") {
			t.Errorf("badges %v missing analog", d.Badges)
		}
	})
}

func TestGateNegativeBlocks(t *testing.T) {
	lex := testLexicon()
	g := NewCompatibilityGate(2)

	t.Run("forward direction", func(t *testing.T) {
		ref := &domain.MatchSignature{TopClass: "meat", ProductKind: "sausage"}
		cand := &domain.MatchSignature{TopClass: "meat", ProductKind: "sausage", CutAttrs: []string{"fillet"}}

		d := g.Evaluate(ref, cand, lex, false)
		if d.Tier != domain.TierRejected {
			t.Fatalf("Tier = %s, want REJECTED", d.Tier)
		}
		if !hasReasonPrefix(d.ReasonCodes, "NB_") {
			t.Errorf("reasons %v missing NB_ code", d.ReasonCodes)
		}
	})

	t.Run("reverse direction", func(t *testing.T) {
		// Same rule, sides swapped: bidirectionality is an invariant.
		ref := &domain.MatchSignature{TopClass: "seafood", ProductKind: "salmon"}
		cand := &domain.MatchSignature{TopClass: "seafood", ProductKind: "caviar"}

		d := g.Evaluate(ref, cand, lex, false)
		if d.Tier != domain.TierRejected {
			t.Fatalf("Tier = %s, want REJECTED (reasons %v)", d.Tier, d.ReasonCodes)
		}
		if !hasReasonPrefix(d.ReasonCodes, "NB_") {
			t.Errorf("reasons %v missing NB_ code", d.ReasonCodes)
		}
	})

	t.Run("analog flag does not bypass a negative block", func(t *testing.T) {
		ref := &domain.MatchSignature{TopClass: "seafood", ProductKind: "caviar"}
		cand := &domain.MatchSignature{TopClass: "seafood", ProductKind: "salmon"}

		if d := g.Evaluate(ref, cand, lex, true); d.Tier != domain.TierRejected {
			t.Errorf("Tier = %s, want REJECTED even with analogs enabled", d.Tier)
		}
	})
}

func hasReason(codes []string, want string) bool {
	for _, c := range codes {
		if c == want {
			return true
		}
	}
	return false
}

func hasReasonPrefix(codes []string, prefix string) bool {
	for _, c := range codes {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
