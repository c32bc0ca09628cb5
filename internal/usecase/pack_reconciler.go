package usecase

import (
	"fmt"
	"math"

	"github.com/provimatch/backend/internal/domain"
)

// Reconciliation reason codes. UNIT_MISMATCH codes are terminal for the
// pair: the engine never estimates a cross-unit-type conversion (no density
// guessing from volume to weight).
const (
	ReasonPacksOK             = "OK"
	ReasonBothUnitsUnknown    = "BOTH_UNITS_UNKNOWN"
	ReasonRequiredUnitUnknown = "REQUIRED_UNIT_UNKNOWN"
	ReasonOfferedUnitUnknown  = "OFFERED_UNIT_UNKNOWN"
	ReasonBaseQtyUnknown      = "BASE_QTY_UNKNOWN"
)

// defaultPackTolerance is the relative pack-size tolerance used by the
// scoring engine's pack match check.
const defaultPackTolerance = 0.10

// PackReconciliation is the outcome of reconciling a required pack against
// an offered pack. Rejected=true means the pair is terminally incompatible
// (unit types differ); PacksNeeded/CostMultiplier are then meaningless.
type PackReconciliation struct {
	PacksNeeded    int     `json:"packsNeeded"`
	CostMultiplier float64 `json:"costMultiplier"`
	Reason         string  `json:"reason"`
	Rejected       bool    `json:"rejected"`
}

// PackReconciler converts heterogeneous size expressions to a common base
// quantity and determines how many offered packs satisfy a required one.
type PackReconciler struct{}

// NewPackReconciler creates a new pack reconciler
func NewPackReconciler() *PackReconciler {
	return &PackReconciler{}
}

// CalculatePacksNeeded applies the reconciliation rules in order:
// unknown unit types assume a single pack; differing unit types are a hard
// rejection; otherwise packs = ceil(required / offered) in base units.
func (r *PackReconciler) CalculatePacksNeeded(required, offered domain.PackInfo) PackReconciliation {
	switch {
	case required.UnitType == domain.UnitUnknown && offered.UnitType == domain.UnitUnknown:
		return PackReconciliation{PacksNeeded: 1, CostMultiplier: 1, Reason: ReasonBothUnitsUnknown}
	case required.UnitType == domain.UnitUnknown:
		return PackReconciliation{PacksNeeded: 1, CostMultiplier: 1, Reason: ReasonRequiredUnitUnknown}
	case offered.UnitType == domain.UnitUnknown:
		return PackReconciliation{PacksNeeded: 1, CostMultiplier: 1, Reason: ReasonOfferedUnitUnknown}
	case required.UnitType != offered.UnitType:
		return PackReconciliation{
			Reason:   fmt.Sprintf("UNIT_MISMATCH_%s_VS_%s", required.UnitType, offered.UnitType),
			Rejected: true,
		}
	}

	if !required.HasQty() || !offered.HasQty() {
		return PackReconciliation{PacksNeeded: 1, CostMultiplier: 1, Reason: ReasonBaseQtyUnknown}
	}

	packs := int(math.Ceil(*required.BaseQty / *offered.BaseQty))
	if packs < 1 {
		packs = 1
	}
	return PackReconciliation{
		PacksNeeded:    packs,
		CostMultiplier: float64(packs),
		Reason:         ReasonPacksOK,
	}
}

// PacksNeededPenalty maps a packs-needed count onto the fixed step penalty
// scale: needing many small packages to satisfy one order is a worse match
// even when nominally compatible.
func (r *PackReconciler) PacksNeededPenalty(packsNeeded int) int {
	switch {
	case packsNeeded <= 1:
		return 0
	case packsNeeded <= 3:
		return 5
	case packsNeeded <= 10:
		return 15
	case packsNeeded <= 25:
		return 30
	case packsNeeded <= 50:
		return 45
	default:
		return 60
	}
}

// PackMatches checks the scoring-side pack tolerance: the candidate pack
// must be within the relative tolerance of whichever of weight or volume
// the reference specifies. A reference without a pack requirement admits
// every candidate trivially.
func PackMatches(ref, cand *domain.MatchSignature, tolerance float64) (matched, refHasPack, candHasPack bool) {
	if tolerance <= 0 {
		tolerance = defaultPackTolerance
	}
	if !ref.Pack.HasQty() {
		return true, false, cand.Pack.HasQty()
	}
	if !cand.Pack.HasQty() {
		return false, true, false
	}
	if ref.Pack.UnitType != cand.Pack.UnitType {
		return false, true, true
	}
	refQty := *ref.Pack.BaseQty
	candQty := *cand.Pack.BaseQty
	rel := math.Abs(candQty-refQty) / refQty
	return rel <= tolerance+1e-9, true, true
}

// DerivePackInfo determines the base unit type and quantity for extracted
// features. Weight converts to grams, volume to milliliters, piece counts
// stay counts. An explicit unit with no measurable quantity keeps the type
// with low confidence rather than inventing a quantity.
func DerivePackInfo(f *domain.ProductFeatures) domain.PackInfo {
	confidence := func(base float64) float64 {
		if f.VariableWeight {
			return base * 0.8
		}
		return base
	}

	switch {
	case f.UnitNorm == "l" && f.PackVolumeL != nil:
		ml := *f.PackVolumeL * 1000
		return domain.PackInfo{UnitType: domain.UnitVolume, BaseQty: &ml, Confidence: confidence(1.0)}
	case f.PackWeightKg != nil:
		g := *f.PackWeightKg * 1000
		return domain.PackInfo{UnitType: domain.UnitWeight, BaseQty: &g, Confidence: confidence(1.0)}
	case f.PackVolumeL != nil:
		ml := *f.PackVolumeL * 1000
		return domain.PackInfo{UnitType: domain.UnitVolume, BaseQty: &ml, Confidence: confidence(1.0)}
	case f.PackCount != nil:
		n := float64(*f.PackCount)
		return domain.PackInfo{UnitType: domain.UnitPiece, BaseQty: &n, Confidence: 1.0}
	}

	switch f.UnitNorm {
	case "kg":
		return domain.PackInfo{UnitType: domain.UnitWeight, Confidence: 0.3}
	case "l":
		return domain.PackInfo{UnitType: domain.UnitVolume, Confidence: 0.3}
	case "pcs", "box":
		return domain.PackInfo{UnitType: domain.UnitPiece, Confidence: 0.3}
	}

	return domain.PackInfo{UnitType: domain.UnitUnknown}
}
