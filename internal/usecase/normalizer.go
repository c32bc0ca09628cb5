package usecase

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Package-level compiled regex patterns for performance
var (
	// Everything outside the allow-list (letters, digits, space, /, %, +, -)
	// becomes a space. Slash and percent survive so caliber ratios ("16/20")
	// and fat percentages ("82%") stay intact through normalization.
	disallowedCharsRegex = regexp.MustCompile(`[^a-z0-9 /%+\-]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// normalizerStopWords is the fixed packaging/measurement filler list removed
// token-by-token after character normalization.
var normalizerStopWords = map[string]bool{
	// Packaging filler
	"pack": true, "packs": true, "packed": true, "packing": true,
	"box": true, "boxes": true, "bag": true, "bags": true,
	"carton": true, "cartons": true, "tray": true, "trays": true,
	"ctn": true, "pkt": true, "vac": true, "vacuum": true,
	// Measurement filler
	"net": true, "gross": true, "wt": true, "weight": true,
	"approx": true, "approximately": true, "ca": true, "abt": true,
	"per": true, "each": true, "unit": true, "units": true,
	// Trade-listing filler
	"grade": true, "quality": true, "assorted": true, "misc": true,
}

// Normalizer lowercases, folds diacritics to ASCII, scrubs characters
// outside the allow-list and strips filler stop-words. Idempotent:
// Normalize(Normalize(x)) == Normalize(x) for any input.
type Normalizer struct{}

// NewNormalizer creates a new text normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize produces the canonical lowercase form of a raw product text.
// Empty input yields empty output; there is no failure mode.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	lowered := strings.ToLower(text)

	// Fold language-specific letter variants to plain ASCII
	folded := unidecode.Unidecode(lowered)
	folded = strings.ToLower(folded)

	// Replace everything outside the allow-list with spaces, then collapse
	cleaned := disallowedCharsRegex.ReplaceAllString(folded, " ")
	cleaned = multipleSpacesRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	// Drop stop-words token-by-token
	words := strings.Fields(cleaned)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if normalizerStopWords[word] {
			continue
		}
		kept = append(kept, word)
	}

	return strings.Join(kept, " ")
}

// Tokenize splits an already-normalized text into its ordered tokens.
func (n *Normalizer) Tokenize(normalizedText string) []string {
	if normalizedText == "" {
		return nil
	}
	return strings.Fields(normalizedText)
}

// NormalizeAndTokenize is a convenience combining both steps.
func (n *Normalizer) NormalizeAndTokenize(text string) (string, []string) {
	normalized := n.Normalize(text)
	return normalized, n.Tokenize(normalized)
}
