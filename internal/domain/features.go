package domain

// UnitType is the base unit family a pack quantity is expressed in.
// Cross-type conversion is never attempted: a WEIGHT reference can
// never be satisfied by a VOLUME offer.
type UnitType string

const (
	UnitWeight  UnitType = "WEIGHT" // base quantity in grams
	UnitVolume  UnitType = "VOLUME" // base quantity in milliliters
	UnitPiece   UnitType = "PIECE"  // base quantity in pieces
	UnitUnknown UnitType = "UNKNOWN"
)

// Tier is the match quality bucket a candidate lands in.
type Tier string

const (
	TierA        Tier = "A" // identical
	TierB        Tier = "B" // close
	TierC        Tier = "C" // analog
	TierRejected Tier = "REJECTED"
)

// ProductFeatures holds the structured attributes extracted from one item's
// text. Built once per raw text and never mutated; re-derive on text change.
type ProductFeatures struct {
	RawText        string   `json:"rawText"`
	NormalizedText string   `json:"normalizedText"`
	Tokens         []string `json:"tokens"`

	Caliber        string   `json:"caliber,omitempty"` // "a/b" ratio, e.g. "16/20"
	FatPct         *int     `json:"fatPct,omitempty"`  // 0..100
	PackWeightKg   *float64 `json:"packWeightKg,omitempty"`
	PackVolumeL    *float64 `json:"packVolumeL,omitempty"`
	PieceWeightKg  *float64 `json:"pieceWeightKg,omitempty"` // smaller secondary weight, when distinguishable
	PackCount      *int     `json:"packCount,omitempty"`     // units per package
	VariableWeight bool     `json:"variableWeight,omitempty"`

	UnitNorm    string `json:"unitNorm,omitempty"` // kg | l | pcs | box
	BrandID     string `json:"brandId,omitempty"`
	BrandStrict bool   `json:"brandStrict,omitempty"` // brand's default strict flag

	SuperClass  string `json:"superClass,omitempty"`
	ProductType string `json:"productType,omitempty"`
}

// MatchSignature is the full comparison key for one item: the classification
// hierarchy plus the numeric, brand and pack fields carried over from
// ProductFeatures. Immutable after construction.
type MatchSignature struct {
	TopClass       string   `json:"topClass,omitempty"`
	ProductKind    string   `json:"productKind,omitempty"`
	MainIngredient string   `json:"mainIngredient,omitempty"`
	Processing     string   `json:"processing,omitempty"`
	State          string   `json:"state,omitempty"`
	CutAttrs       []string `json:"cutAttrs,omitempty"`

	Caliber     string   `json:"caliber,omitempty"`
	FatPct      *int     `json:"fatPct,omitempty"`
	BrandID     string   `json:"brandId,omitempty"`
	BrandStrict bool     `json:"brandStrict,omitempty"`
	UnitNorm    string   `json:"unitNorm,omitempty"`
	Pack        PackInfo `json:"pack"`

	Tokens []string `json:"tokens,omitempty"`
}

// HasCutAttr reports whether the signature carries the given cut attribute.
func (s *MatchSignature) HasCutAttr(attr string) bool {
	for _, a := range s.CutAttrs {
		if a == attr {
			return true
		}
	}
	return false
}

// CutSuperset reports whether s carries every cut attribute of other.
func (s *MatchSignature) CutSuperset(other *MatchSignature) bool {
	for _, a := range other.CutAttrs {
		if !s.HasCutAttr(a) {
			return false
		}
	}
	return true
}

// PackInfo is the reconciled pack quantity of an item in base units.
type PackInfo struct {
	UnitType   UnitType `json:"unitType"`
	BaseQty    *float64 `json:"baseQty,omitempty"` // grams, milliliters or pieces
	Confidence float64  `json:"confidence"`        // 0..1
}

// HasQty reports whether a usable positive base quantity is present.
func (p PackInfo) HasQty() bool {
	return p.UnitType != UnitUnknown && p.BaseQty != nil && *p.BaseQty > 0
}
