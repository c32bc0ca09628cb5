package usecase

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestExtractCaliber(t *testing.T) {
	e := NewFeatureExtractor()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain ratio", "Shrimp 16/20 frozen", "16/20"},
		{"ratio with spaces", "Shrimp 16 / 20", "16/20"},
		{"large grading", "Olives 90/120 brine", "90/120"},
		{"first match wins", "Shrimp 16/20 or 21/25", "16/20"},
		{"no ratio", "Chicken breast 1kg", ""},
		{"four digit numbers are not calibers", "Lot 1234/5678", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.ExtractCaliber(tt.input); got != tt.want {
				t.Errorf("ExtractCaliber(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractFatPct(t *testing.T) {
	e := NewFeatureExtractor()

	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{"butter fat", "Butter 82% unsalted", 82, true},
		{"single digit", "Milk 3% 1l", 3, true},
		{"no percent", "Butter unsalted 250g", 0, false},
		{"decimal fat is not matched", "Milk 3.2% 1l", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.ExtractFatPct(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractFatPct(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractPackWeight(t *testing.T) {
	e := NewFeatureExtractor()

	t.Run("single mention in grams converts to kg", func(t *testing.T) {
		info, ok := e.ExtractPackWeight("Chicken breast 500g")
		if !ok || !almostEqual(info.PackKg, 0.5) {
			t.Errorf("got (%+v, %v), want PackKg=0.5", info, ok)
		}
	})

	t.Run("maximum mention wins as pack weight", func(t *testing.T) {
		info, ok := e.ExtractPackWeight("Salmon portions 200g box 5kg")
		if !ok || !almostEqual(info.PackKg, 5) {
			t.Errorf("got (%+v, %v), want PackKg=5", info, ok)
		}
		if !almostEqual(info.PieceKg, 0.2) {
			t.Errorf("PieceKg = %v, want 0.2", info.PieceKg)
		}
	})

	t.Run("multipack contributes total and per-piece", func(t *testing.T) {
		info, ok := e.ExtractPackWeight("Yogurt 6x400g")
		if !ok || !almostEqual(info.PackKg, 2.4) {
			t.Errorf("got (%+v, %v), want PackKg=2.4", info, ok)
		}
		if !almostEqual(info.PieceKg, 0.4) {
			t.Errorf("PieceKg = %v, want 0.4", info.PieceKg)
		}
	})

	t.Run("range is averaged and flags variable weight", func(t *testing.T) {
		info, ok := e.ExtractPackWeight("Seabass whole 300-400g")
		if !ok || !almostEqual(info.PackKg, 0.35) {
			t.Errorf("got (%+v, %v), want PackKg=0.35", info, ok)
		}
		if !info.VariableWeight {
			t.Error("VariableWeight = false, want true")
		}
	})

	t.Run("comma decimal separator", func(t *testing.T) {
		info, ok := e.ExtractPackWeight("Ham 2,5 kg")
		if !ok || !almostEqual(info.PackKg, 2.5) {
			t.Errorf("got (%+v, %v), want PackKg=2.5", info, ok)
		}
	})

	t.Run("no weight present", func(t *testing.T) {
		if _, ok := e.ExtractPackWeight("Fresh basil bunch"); ok {
			t.Error("ok = true, want false")
		}
	})
}

func TestExtractPackVolume(t *testing.T) {
	e := NewFeatureExtractor()

	t.Run("ml converts to liters", func(t *testing.T) {
		info, ok := e.ExtractPackVolume("Olive oil 750ml")
		if !ok || !almostEqual(info.PackL, 0.75) {
			t.Errorf("got (%+v, %v), want PackL=0.75", info, ok)
		}
	})

	t.Run("multipack total wins", func(t *testing.T) {
		info, ok := e.ExtractPackVolume("Juice 6x1l")
		if !ok || !almostEqual(info.PackL, 6) {
			t.Errorf("got (%+v, %v), want PackL=6", info, ok)
		}
	})

	t.Run("no volume present", func(t *testing.T) {
		if _, ok := e.ExtractPackVolume("Canned tomatoes 400g"); ok {
			t.Error("ok = true, want false")
		}
	})
}

func TestExtractPackaging(t *testing.T) {
	e := NewFeatureExtractor()

	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{"pcs", "Burger patties 10 pcs", 10, true},
		{"count", "Eggs 24 ct", 24, true},
		{"pack of", "Croissants pack of 6", 6, true},
		{"multipack count", "Water 12x500ml", 12, true},
		{"none", "Flour 1kg", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.ExtractPackaging(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractPackaging(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractUnitNorm(t *testing.T) {
	e := NewFeatureExtractor()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"weight beats volume", "Soup 400g can 330ml", "kg"},
		{"volume", "Cola 330ml", "l"},
		{"pieces", "Eggs 30 pcs", "pcs"},
		{"box mention only", "Lettuce box", "box"},
		{"nothing", "Fresh dill", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.ExtractUnitNorm(tt.input); got != tt.want {
				t.Errorf("ExtractUnitNorm(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
