package domain

// CatalogItem is one supplier listing as supplied by the persistence layer.
// Items with Active=false must be filtered out by the caller before matching.
type CatalogItem struct {
	ID           string   `json:"id"`
	NameRaw      string   `json:"nameRaw"`
	Price        float64  `json:"price"`
	UnitNorm     string   `json:"unitNorm,omitempty"`
	PackWeightKg *float64 `json:"packWeightKg,omitempty"`
	PackVolumeL  *float64 `json:"packVolumeL,omitempty"`
	BrandID      string   `json:"brandId,omitempty"`
	SuperClass   string   `json:"superClass,omitempty"`
	Active       bool     `json:"active"`
}

// MatchRequest is a reference query: free-text name plus optional
// constraints and strict-mode flags.
type MatchRequest struct {
	Name           string `json:"name" binding:"required"`
	Unit           string `json:"unit,omitempty"`
	BrandID        string `json:"brandId,omitempty"`
	StrictBrand    bool   `json:"strictBrand,omitempty"`
	StrictPack     bool   `json:"strictPack,omitempty"`
	IncludeAnalogs bool   `json:"includeAnalogs,omitempty"`
	TopN           int    `json:"topN,omitempty"`
}

// ScoredCandidate is one ranked result of a match call. Ephemeral;
// never persisted by the engine.
type ScoredCandidate struct {
	Candidate   CatalogItem `json:"candidate"`
	Score       float64     `json:"score"`
	Tier        Tier        `json:"tier"`
	Penalties   int         `json:"penalties"`
	FormulaID   string      `json:"formulaId,omitempty"`
	Badges      []string    `json:"badges,omitempty"`
	ReasonCodes []string    `json:"reasonCodes,omitempty"`
	PacksNeeded int         `json:"packsNeeded,omitempty"`
}
