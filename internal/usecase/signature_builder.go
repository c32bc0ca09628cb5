package usecase

import (
	"strings"

	"github.com/provimatch/backend/internal/domain"
)

// Keyword tables for the signature attributes. Detection runs over the
// abbreviation-expanded token stream, so "smkd" still lands on "smoked".
var (
	processingTerms = map[string]string{
		"smoked": "smoked", "cooked": "cooked", "boiled": "cooked",
		"grilled": "grilled", "roasted": "roasted", "fried": "fried",
		"breaded": "breaded", "battered": "breaded",
		"marinated": "marinated", "cured": "cured", "salted": "salted",
		"dried": "dried", "glazed": "glazed",
	}

	stateTerms = map[string]string{
		"frozen": "frozen", "chilled": "chilled", "fresh": "fresh",
		"canned": "canned", "tinned": "canned",
	}

	cutAttrTerms = map[string]string{
		"fillet": "fillet", "fillets": "fillet", "filet": "fillet",
		"boneless": "boneless", "skinless": "skinless",
		"skin-on": "skin-on", "bone-in": "bone-in",
		"whole": "whole", "sliced": "sliced", "diced": "diced",
		"minced": "minced", "portion": "portion", "portions": "portion",
		"portioned": "portion", "steak": "steak", "steaks": "steak",
		"peeled": "peeled", "deveined": "deveined", "headless": "headless",
	}
)

// SignatureBuilder composes the normalizer, feature extractor, brand
// resolver and classifier into one MatchSignature per item. Signatures are
// immutable once built; a text change means building a fresh one.
type SignatureBuilder struct {
	normalizer *Normalizer
	extractor  *FeatureExtractor
	brands     *BrandResolver
	classifier *Classifier
}

// NewSignatureBuilder creates a new signature builder
func NewSignatureBuilder() *SignatureBuilder {
	normalizer := NewNormalizer()
	return &SignatureBuilder{
		normalizer: normalizer,
		extractor:  NewFeatureExtractor(),
		brands:     NewBrandResolver(normalizer),
		classifier: NewClassifier(),
	}
}

// BuildFeatures extracts the flat ProductFeatures for one raw text.
func (b *SignatureBuilder) BuildFeatures(rawText string, lex *domain.Lexicon) domain.ProductFeatures {
	normalized, tokens := b.normalizer.NormalizeAndTokenize(rawText)

	features := domain.ProductFeatures{
		RawText:        rawText,
		NormalizedText: normalized,
		Tokens:         tokens,
	}

	features.Caliber = b.extractor.ExtractCaliber(rawText)
	if pct, ok := b.extractor.ExtractFatPct(rawText); ok {
		features.FatPct = &pct
	}
	if w, ok := b.extractor.ExtractPackWeight(rawText); ok {
		features.PackWeightKg = &w.PackKg
		features.VariableWeight = w.VariableWeight
		if w.PieceKg > 0 {
			pieceKg := w.PieceKg
			features.PieceWeightKg = &pieceKg
		}
	}
	if v, ok := b.extractor.ExtractPackVolume(rawText); ok {
		features.PackVolumeL = &v.PackL
	}
	if n, ok := b.extractor.ExtractPackaging(rawText); ok {
		features.PackCount = &n
	}
	features.UnitNorm = b.extractor.ExtractUnitNorm(rawText)

	if lex != nil && lex.Brands != nil {
		features.BrandID, features.BrandStrict = b.brands.DetectBrand(rawText, lex.Brands)
	}

	expanded := b.expandAbbreviations(tokens, lex)
	if label, ok := b.classifier.Classify(expanded); ok {
		features.SuperClass = label.SuperClass
		features.ProductType = label.Kind
	}

	return features
}

// Build produces the full match signature for one raw text.
func (b *SignatureBuilder) Build(rawText string, lex *domain.Lexicon) *domain.MatchSignature {
	features := b.BuildFeatures(rawText, lex)
	expanded := b.expandAbbreviations(features.Tokens, lex)

	sig := &domain.MatchSignature{
		Caliber:     features.Caliber,
		FatPct:      features.FatPct,
		BrandID:     features.BrandID,
		BrandStrict: features.BrandStrict,
		UnitNorm:    features.UnitNorm,
		Tokens:      features.Tokens,
	}

	if label, ok := b.classifier.Classify(expanded); ok {
		sig.TopClass = label.SuperClass
		sig.ProductKind = label.Kind
		sig.MainIngredient = label.Ingredient
	}

	seenCuts := map[string]bool{}
	for _, tok := range expanded {
		if p, ok := processingTerms[tok]; ok && sig.Processing == "" {
			sig.Processing = p
		}
		if s, ok := stateTerms[tok]; ok && sig.State == "" {
			sig.State = s
		}
		if c, ok := cutAttrTerms[tok]; ok && !seenCuts[c] {
			seenCuts[c] = true
			sig.CutAttrs = append(sig.CutAttrs, c)
		}
	}

	sig.Pack = DerivePackInfo(&features)
	return sig
}

// BuildFromItem builds a candidate signature, letting the catalog item's
// explicit fields override whatever was extracted from its name.
func (b *SignatureBuilder) BuildFromItem(item domain.CatalogItem, lex *domain.Lexicon) *domain.MatchSignature {
	return applyItemOverrides(b.Build(item.NameRaw, lex), item, lex)
}

// BuildFromRequest builds the reference signature for a match request,
// honoring its explicit unit and brand.
func (b *SignatureBuilder) BuildFromRequest(req *domain.MatchRequest, lex *domain.Lexicon) *domain.MatchSignature {
	sig := b.Build(req.Name, lex)
	if req.Unit != "" {
		sig.UnitNorm = strings.ToLower(req.Unit)
	}
	if req.BrandID != "" {
		sig.BrandID = req.BrandID
		if lex != nil && lex.Brands != nil {
			if info, ok := lex.Brands.ByID[req.BrandID]; ok {
				sig.BrandStrict = info.DefaultStrict
			}
		}
	}
	return sig
}

// expandAbbreviations rewrites known short forms to their full form so the
// keyword passes see the expanded vocabulary. Expansions may be multi-word.
func (b *SignatureBuilder) expandAbbreviations(tokens []string, lex *domain.Lexicon) []string {
	if lex == nil || len(lex.Abbreviations) == 0 {
		return tokens
	}
	expanded := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if full, ok := lex.Abbreviations[tok]; ok {
			expanded = append(expanded, strings.Fields(full)...)
			continue
		}
		expanded = append(expanded, tok)
	}
	return expanded
}
