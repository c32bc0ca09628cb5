package domain

import "sort"

// BrandInfo is the canonical record for one brand id.
type BrandInfo struct {
	ID            string   `json:"id"`
	DisplayNames  []string `json:"displayNames"`
	Category      string   `json:"category,omitempty"`
	DefaultStrict bool     `json:"defaultStrict,omitempty"`
	FamilyID      string   `json:"familyId,omitempty"`
}

// BrandAlias maps one normalized alias string to a brand id.
type BrandAlias struct {
	Alias   string
	BrandID string
}

// BrandDictionary is the process-wide brand lookup structure, read-only
// after load. Aliases are kept sorted by alias length descending so the
// longest matching alias always wins.
type BrandDictionary struct {
	Aliases  []BrandAlias
	ByID     map[string]BrandInfo
	Families map[string][]string // family id -> member brand ids
	ParentOf map[string]string   // sub-brand id -> parent brand id
	Lineage  []string            // suffixes stripped during family resolution
}

// NewBrandDictionary builds the lookup structure from brand records and an
// alias table. Aliases are sorted longest-first (ties broken
// lexicographically for determinism) and the family reverse index is derived
// from the records.
func NewBrandDictionary(brands []BrandInfo, aliases map[string]string, parentOf map[string]string, lineage []string) *BrandDictionary {
	dict := &BrandDictionary{
		ByID:     make(map[string]BrandInfo, len(brands)),
		Families: make(map[string][]string),
		ParentOf: parentOf,
		Lineage:  lineage,
	}
	if dict.ParentOf == nil {
		dict.ParentOf = map[string]string{}
	}
	for _, b := range brands {
		dict.ByID[b.ID] = b
		if b.FamilyID != "" {
			dict.Families[b.FamilyID] = append(dict.Families[b.FamilyID], b.ID)
		}
	}
	dict.Aliases = make([]BrandAlias, 0, len(aliases))
	for alias, id := range aliases {
		dict.Aliases = append(dict.Aliases, BrandAlias{Alias: alias, BrandID: id})
	}
	sort.Slice(dict.Aliases, func(i, j int) bool {
		a, b := dict.Aliases[i], dict.Aliases[j]
		if len(a.Alias) != len(b.Alias) {
			return len(a.Alias) > len(b.Alias)
		}
		return a.Alias < b.Alias
	})
	return dict
}

// NegativeBlockRule is a bidirectional category exclusion: if the reference
// matches the condition and the candidate carries a rejected value the pair
// is rejected, and the same holds with reference and candidate swapped.
// The bidirectionality is an invariant, not an implementation accident.
type NegativeBlockRule struct {
	ConditionField string   `yaml:"condition_field" json:"conditionField"`
	ConditionValue string   `yaml:"condition_value" json:"conditionValue"`
	RejectField    string   `yaml:"reject_field" json:"rejectField"`
	RejectValues   []string `yaml:"reject_values" json:"rejectValues"`
}

// Lexicon bundles every dictionary the engine consults: built once,
// read-only afterwards, replaced whole on reload.
type Lexicon struct {
	Brands         *BrandDictionary
	NegativeBlocks []NegativeBlockRule
	Abbreviations  map[string]string // short form -> expansion

	// synonymGroup maps each ingredient term to its group key.
	synonymGroup map[string]string
}

// NewLexicon assembles a lexicon from its parts. Synonym groups are lists
// of mutually equivalent ingredient terms.
func NewLexicon(brands *BrandDictionary, synonyms [][]string, blocks []NegativeBlockRule, abbrevs map[string]string) *Lexicon {
	groups := make(map[string]string)
	for _, group := range synonyms {
		if len(group) == 0 {
			continue
		}
		key := group[0]
		for _, term := range group {
			groups[term] = key
		}
	}
	if abbrevs == nil {
		abbrevs = map[string]string{}
	}
	return &Lexicon{
		Brands:         brands,
		NegativeBlocks: blocks,
		Abbreviations:  abbrevs,
		synonymGroup:   groups,
	}
}

// SynonymEquivalent reports whether two ingredient terms are equal or
// belong to the same synonym group.
func (l *Lexicon) SynonymEquivalent(a, b string) bool {
	if a == b {
		return true
	}
	ga, oka := l.synonymGroup[a]
	gb, okb := l.synonymGroup[b]
	return oka && okb && ga == gb
}
