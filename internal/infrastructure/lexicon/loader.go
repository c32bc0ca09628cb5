package lexicon

import (
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/provimatch/backend/internal/domain"
)

//go:embed data/*.yaml
var embedded embed.FS

const (
	brandsFileName        = "brands.yaml"
	synonymsFileName      = "synonyms.yaml"
	blocksFileName        = "negative_blocks.yaml"
	abbreviationsFileName = "abbreviations.yaml"
)

type brandsFile struct {
	LineageSuffixes []string          `yaml:"lineage_suffixes"`
	Brands          []brandRecord     `yaml:"brands"`
	Aliases         map[string]string `yaml:"aliases"`
	ParentOf        map[string]string `yaml:"parent_of"`
}

type brandRecord struct {
	ID            string   `yaml:"id"`
	DisplayNames  []string `yaml:"display_names"`
	Category      string   `yaml:"category"`
	DefaultStrict bool     `yaml:"default_strict"`
	FamilyID      string   `yaml:"family_id"`
}

type synonymsFile struct {
	Groups [][]string `yaml:"groups"`
}

type blocksFile struct {
	Rules []domain.NegativeBlockRule `yaml:"rules"`
}

type abbreviationsFile struct {
	Abbreviations map[string]string `yaml:"abbreviations"`
}

// Load reads all four lexicon files from the filesystem root and assembles
// a domain lexicon. Referential integrity is validated up front so a broken
// data file can never produce a half-usable lexicon.
func Load(fsys fs.FS) (*domain.Lexicon, error) {
	var brands brandsFile
	if err := readYAML(fsys, brandsFileName, &brands); err != nil {
		return nil, err
	}
	var synonyms synonymsFile
	if err := readYAML(fsys, synonymsFileName, &synonyms); err != nil {
		return nil, err
	}
	var blocks blocksFile
	if err := readYAML(fsys, blocksFileName, &blocks); err != nil {
		return nil, err
	}
	var abbrevs abbreviationsFile
	if err := readYAML(fsys, abbreviationsFileName, &abbrevs); err != nil {
		return nil, err
	}

	if err := validateBrands(&brands); err != nil {
		return nil, err
	}

	records := make([]domain.BrandInfo, 0, len(brands.Brands))
	for _, b := range brands.Brands {
		records = append(records, domain.BrandInfo{
			ID:            b.ID,
			DisplayNames:  b.DisplayNames,
			Category:      b.Category,
			DefaultStrict: b.DefaultStrict,
			FamilyID:      b.FamilyID,
		})
	}

	dict := domain.NewBrandDictionary(records, brands.Aliases, brands.ParentOf, brands.LineageSuffixes)
	return domain.NewLexicon(dict, synonyms.Groups, blocks.Rules, abbrevs.Abbreviations), nil
}

// EmbeddedFS returns the compiled-in default lexicon data.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		// embed path is a compile-time constant, this cannot fail
		panic(err)
	}
	return sub
}

func readYAML(fsys fs.FS, name string, out interface{}) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

func validateBrands(f *brandsFile) error {
	ids := make(map[string]bool, len(f.Brands))
	for _, b := range f.Brands {
		if b.ID == "" {
			return fmt.Errorf("%s: brand with empty id", brandsFileName)
		}
		if ids[b.ID] {
			return fmt.Errorf("%s: duplicate brand id %q", brandsFileName, b.ID)
		}
		ids[b.ID] = true
	}
	for alias, id := range f.Aliases {
		if alias == "" {
			return fmt.Errorf("%s: empty alias for brand %q", brandsFileName, id)
		}
		if !ids[id] {
			return fmt.Errorf("%s: alias %q references unknown brand %q", brandsFileName, alias, id)
		}
	}
	for child, parent := range f.ParentOf {
		if !ids[child] || !ids[parent] {
			return fmt.Errorf("%s: parent_of %q -> %q references unknown brand", brandsFileName, child, parent)
		}
	}
	return nil
}
