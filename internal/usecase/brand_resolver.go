package usecase

import (
	"strings"
	"unicode"

	"github.com/xrash/smetrics"

	"github.com/provimatch/backend/internal/domain"
)

const (
	// Aliases shorter than this require exact whole-token membership;
	// substring matching a 2-3 letter alias inside a longer word produces
	// spurious brand hits.
	shortAliasLen = 4

	// Jaro-Winkler floor for the low-confidence guess path
	brandGuessSimilarity = 0.93
	brandGuessConfidence = 0.5
)

// BrandResolver maps free text to a canonical brand id using the loaded
// brand dictionary. Dictionary detection is exact: the resolver never
// guesses a brand from capitalization alone, because false positives
// corrupt strict-brand filtering downstream. The heuristic path lives
// behind GuessBrand and a confidence score so strict-mode callers can
// ignore it entirely.
type BrandResolver struct {
	normalizer *Normalizer
}

// NewBrandResolver creates a new brand resolver
func NewBrandResolver(normalizer *Normalizer) *BrandResolver {
	return &BrandResolver{normalizer: normalizer}
}

// DetectBrand finds the canonical brand id for the text, or "" when no
// dictionary alias matches. The alias table is scanned longest alias first,
// so when both "AB" and "ABC" match, "ABC" wins. The returned bool is the
// brand's default strict flag.
func (r *BrandResolver) DetectBrand(text string, dict *domain.BrandDictionary) (string, bool) {
	if dict == nil || text == "" {
		return "", false
	}

	normalized := r.normalizer.Normalize(text)
	if normalized == "" {
		return "", false
	}

	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		tokens[tok] = true
	}

	for _, alias := range dict.Aliases {
		if alias.Alias == "" {
			continue
		}
		if len(alias.Alias) < shortAliasLen {
			if !tokens[alias.Alias] {
				continue
			}
		} else if !tokens[alias.Alias] && !containsWholeWord(normalized, alias.Alias) {
			continue
		}
		resolved := r.ResolveFamily(alias.Alias, alias.BrandID, dict)
		info := dict.ByID[resolved]
		return resolved, info.DefaultStrict
	}

	return "", false
}

// ResolveFamily maps a detected sub-brand to its parent brand id. The
// explicit parent table wins; otherwise known lineage suffixes are stripped
// from the matched alias and the remainder (when at least 3 characters) is
// looked up again. Returns the input brand id when no parent is found.
func (r *BrandResolver) ResolveFamily(matchedAlias, brandID string, dict *domain.BrandDictionary) string {
	if parent, ok := dict.ParentOf[brandID]; ok {
		if _, known := dict.ByID[parent]; known {
			return parent
		}
	}

	for _, suffix := range dict.Lineage {
		if !strings.HasSuffix(matchedAlias, suffix) {
			continue
		}
		remainder := strings.TrimSpace(strings.TrimSuffix(matchedAlias, suffix))
		if len(remainder) < 3 {
			continue
		}
		for _, alias := range dict.Aliases {
			if alias.Alias == remainder && alias.BrandID != brandID {
				return alias.BrandID
			}
		}
	}

	return brandID
}

// GuessBrand is the deliberately separate heuristic fallback: it looks for a
// capitalized word in the raw text that is close (Jaro-Winkler) to a known
// brand display name. Its confidence never exceeds 0.5, so strict callers
// can discard the guess wholesale. Returns ("", 0) when nothing plausible
// is found.
func (r *BrandResolver) GuessBrand(rawText string, dict *domain.BrandDictionary) (string, float64) {
	if dict == nil || rawText == "" {
		return "", 0
	}

	for _, word := range strings.Fields(rawText) {
		runes := []rune(word)
		if len(runes) < 3 || !unicode.IsUpper(runes[0]) {
			continue
		}
		candidate := strings.ToLower(strings.Trim(word, ",.;:()"))
		if len(candidate) < 3 {
			continue
		}
		for _, alias := range dict.Aliases {
			if len(alias.Alias) < shortAliasLen {
				continue
			}
			if smetrics.JaroWinkler(candidate, alias.Alias, 0.7, 4) >= brandGuessSimilarity {
				return alias.BrandID, brandGuessConfidence
			}
		}
	}

	return "", 0
}

// BrandEquivalent reports whether two brand ids refer to the same brand or
// the same brand family.
func BrandEquivalent(a, b string, dict *domain.BrandDictionary) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if dict == nil {
		return false
	}
	fa := brandFamily(a, dict)
	fb := brandFamily(b, dict)
	return fa != "" && fa == fb
}

func brandFamily(id string, dict *domain.BrandDictionary) string {
	if parent, ok := dict.ParentOf[id]; ok {
		id = parent
	}
	if info, ok := dict.ByID[id]; ok && info.FamilyID != "" {
		return info.FamilyID
	}
	return id
}

// containsWholeWord reports whether needle occurs in haystack bounded by
// non-alphanumeric characters on both sides. Handles aliases spanning
// hyphenated tokens, which plain token membership misses.
func containsWholeWord(haystack, needle string) bool {
	for from := 0; ; {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(needle)
		beforeOK := start == 0 || !isWordChar(rune(haystack[start-1]))
		afterOK := end == len(haystack) || !isWordChar(rune(haystack[end]))
		if beforeOK && afterOK {
			return true
		}
		from = start + 1
		if from >= len(haystack) {
			return false
		}
	}
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
