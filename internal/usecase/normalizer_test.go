package usecase

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases and trims",
			input: "  Atlantic SALMON  ",
			want:  "atlantic salmon",
		},
		{
			name:  "folds diacritics to ascii",
			input: "Crème fraîche Président",
			want:  "creme fraiche president",
		},
		{
			name:  "scrubs punctuation outside the allow-list",
			input: "Shrimp, peeled & deveined (frozen)",
			want:  "shrimp peeled deveined frozen",
		},
		{
			name:  "keeps slash percent plus and hyphen",
			input: "Shrimp 16/20 p+d skin-on butter 82%",
			want:  "shrimp 16/20 p+d skin-on butter 82%",
		},
		{
			name:  "drops packaging and measurement stop-words",
			input: "Chicken breast net wt approx 1kg per box",
			want:  "chicken breast 1kg",
		},
		{
			name:  "collapses repeated whitespace",
			input: "cod   fillet\t frozen",
			want:  "cod fillet frozen",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer()

	inputs := []string{
		"Crème fraîche Président 30%",
		"Shrimp 16/20 IQF (glazed) 5x1kg",
		"  TOMATOES, canned — net wt 400g  ",
		"beef tenderloin grade A+",
	}

	for _, input := range inputs {
		once := n.Normalize(input)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestTokenize(t *testing.T) {
	n := NewNormalizer()

	t.Run("splits normalized text into ordered tokens", func(t *testing.T) {
		got := n.Tokenize("cod fillet frozen")
		want := []string{"cod", "fillet", "frozen"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Tokenize() = %v, want %v", got, want)
		}
	})

	t.Run("empty text yields nil", func(t *testing.T) {
		if got := n.Tokenize(""); got != nil {
			t.Errorf("Tokenize(\"\") = %v, want nil", got)
		}
	})
}
