package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Compiled extraction patterns. All extractors run against the raw text so
// that measurement tokens removed by the normalizer stay visible here.
var (
	// Caliber ratio like "16/20" or "90/120" (units per unit weight)
	caliberRegex = regexp.MustCompile(`\b(\d{1,3})\s*/\s*(\d{1,3})\b`)

	// 1-2 digit number immediately followed by %
	fatPctRegex = regexp.MustCompile(`(^|[^\d.,])(\d{1,2})%`)

	// Weight mentions: "1.5kg", "500 g", "2,5 kg"
	weightRegex = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|kgs|g|gr|gram|grams)\b`)
	// Weight ranges: "300-400g", "1-1.2 kg"
	weightRangeRegex = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*-\s*(\d+(?:[.,]\d+)?)\s*(kg|kgs|g|gr|gram|grams)\b`)

	// Volume mentions: "0.75l", "500ml", "1 lt"
	volumeRegex = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(ml|l|lt|ltr|liter|litre|liters|litres)\b`)
	// Volume ranges: "700-900ml"
	volumeRangeRegex = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*-\s*(\d+(?:[.,]\d+)?)\s*(ml|l|lt|ltr|liter|litre|liters|litres)\b`)

	// Pieces per package: "10 pcs", "24 ct", "pack of 6", "6x400g"
	piecesRegex     = regexp.MustCompile(`(?i)\b(\d{1,4})\s*(?:pcs|pc|pieces|piece|ct|count)\b`)
	packOfRegex     = regexp.MustCompile(`(?i)\bpack\s*of\s*(\d{1,4})\b`)
	multiPackRegex  = regexp.MustCompile(`(?i)\b(\d{1,3})\s*[x×]\s*(\d+(?:[.,]\d+)?)\s*(kg|g|gr|ml|l|lt)\b`)
	boxMentionRegex = regexp.MustCompile(`(?i)\b(box|boxes|carton|cartons|case|cases)\b`)
)

// WeightInfo is the result of pack weight extraction.
type WeightInfo struct {
	PackKg         float64
	PieceKg        float64 // 0 when no distinguishable second, smaller number
	VariableWeight bool
}

// VolumeInfo is the result of pack volume extraction.
type VolumeInfo struct {
	PackL          float64
	VariableVolume bool
}

// FeatureExtractor pulls structured attributes out of raw product text.
// Every extractor is total: malformed or empty input yields a "not found"
// zero value, never an error.
type FeatureExtractor struct{}

// NewFeatureExtractor creates a new feature extractor
func NewFeatureExtractor() *FeatureExtractor {
	return &FeatureExtractor{}
}

// ExtractCaliber finds an "a/b" size-grading ratio anywhere in the text.
// First match wins. Returns "" when no ratio is present.
func (e *FeatureExtractor) ExtractCaliber(text string) string {
	m := caliberRegex.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%s/%s", m[1], m[2])
}

// ExtractFatPct finds a 1-2 digit number immediately followed by '%'.
// Returns (0, false) when no fat percentage is present.
func (e *FeatureExtractor) ExtractFatPct(text string) (int, bool) {
	m := fatPctRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	pct, err := strconv.Atoi(m[2])
	if err != nil || pct < 0 || pct > 100 {
		return 0, false
	}
	return pct, true
}

// ExtractPackWeight finds all weight mentions, converts each to kilograms
// and returns the maximum as the pack weight. When several numbers are
// present the packaging weight is assumed to dominate the per-piece weight;
// the smallest distinguishable second number is retained as piece weight.
// A textual range ("300-400g") is averaged and flags the item
// variable-weight.
func (e *FeatureExtractor) ExtractPackWeight(text string) (WeightInfo, bool) {
	working := text
	var mentions []float64
	variable := false

	// Ranges first, removed from the working copy so their endpoints don't
	// also count as standalone mentions.
	for _, m := range weightRangeRegex.FindAllStringSubmatch(working, -1) {
		lo := parseDecimal(m[1])
		hi := parseDecimal(m[2])
		if lo <= 0 || hi <= 0 {
			continue
		}
		mentions = append(mentions, toKilograms((lo+hi)/2, m[3]))
		variable = true
	}
	working = weightRangeRegex.ReplaceAllString(working, " ")

	// Multipacks like "6x400g" contribute the total as a pack mention and
	// the per-piece size as a piece mention.
	for _, m := range multiPackRegex.FindAllStringSubmatch(working, -1) {
		count := parseDecimal(m[1])
		per := parseDecimal(m[2])
		unit := strings.ToLower(m[3])
		if count <= 0 || per <= 0 || !isWeightUnit(unit) {
			continue
		}
		perKg := toKilograms(per, unit)
		mentions = append(mentions, perKg*count, perKg)
	}
	working = multiPackRegex.ReplaceAllString(working, " ")

	for _, m := range weightRegex.FindAllStringSubmatch(working, -1) {
		v := parseDecimal(m[1])
		if v <= 0 {
			continue
		}
		mentions = append(mentions, toKilograms(v, m[2]))
	}

	if len(mentions) == 0 {
		return WeightInfo{}, false
	}

	info := WeightInfo{VariableWeight: variable}
	for _, v := range mentions {
		if v > info.PackKg {
			info.PackKg = v
		}
	}
	// Piece weight is the smallest mention strictly below the pack weight
	for _, v := range mentions {
		if v < info.PackKg && (info.PieceKg == 0 || v < info.PieceKg) {
			info.PieceKg = v
		}
	}
	return info, true
}

// ExtractPackVolume mirrors ExtractPackWeight for liquid volumes,
// normalizing to liters. Maximum mention wins.
func (e *FeatureExtractor) ExtractPackVolume(text string) (VolumeInfo, bool) {
	working := text
	var mentions []float64
	variable := false

	for _, m := range volumeRangeRegex.FindAllStringSubmatch(working, -1) {
		lo := parseDecimal(m[1])
		hi := parseDecimal(m[2])
		if lo <= 0 || hi <= 0 {
			continue
		}
		mentions = append(mentions, toLiters((lo+hi)/2, m[3]))
		variable = true
	}
	working = volumeRangeRegex.ReplaceAllString(working, " ")

	for _, m := range multiPackRegex.FindAllStringSubmatch(working, -1) {
		count := parseDecimal(m[1])
		per := parseDecimal(m[2])
		unit := strings.ToLower(m[3])
		if count <= 0 || per <= 0 || isWeightUnit(unit) {
			continue
		}
		perL := toLiters(per, unit)
		mentions = append(mentions, perL*count, perL)
	}
	working = multiPackRegex.ReplaceAllString(working, " ")

	for _, m := range volumeRegex.FindAllStringSubmatch(working, -1) {
		v := parseDecimal(m[1])
		if v <= 0 {
			continue
		}
		mentions = append(mentions, toLiters(v, m[2]))
	}

	if len(mentions) == 0 {
		return VolumeInfo{}, false
	}

	info := VolumeInfo{VariableVolume: variable}
	for _, v := range mentions {
		if v > info.PackL {
			info.PackL = v
		}
	}
	return info, true
}

// ExtractPackaging finds an "N pcs"-style pattern and returns the count of
// units per package.
func (e *FeatureExtractor) ExtractPackaging(text string) (int, bool) {
	if m := piecesRegex.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, true
		}
	}
	if m := packOfRegex.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, true
		}
	}
	if m := multiPackRegex.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 1 {
			return n, true
		}
	}
	return 0, false
}

// ExtractUnitNorm derives the normalized unit (kg | l | pcs | box) from the
// measurements present in the text. Weight beats volume beats pieces; an
// explicit box/carton mention with no measurement at all yields "box".
func (e *FeatureExtractor) ExtractUnitNorm(text string) string {
	if _, ok := e.ExtractPackWeight(text); ok {
		return "kg"
	}
	if _, ok := e.ExtractPackVolume(text); ok {
		return "l"
	}
	if _, ok := e.ExtractPackaging(text); ok {
		return "pcs"
	}
	if boxMentionRegex.MatchString(text) {
		return "box"
	}
	return ""
}

func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

func isWeightUnit(unit string) bool {
	switch strings.ToLower(unit) {
	case "kg", "kgs", "g", "gr", "gram", "grams":
		return true
	}
	return false
}

func toKilograms(v float64, unit string) float64 {
	switch strings.ToLower(unit) {
	case "g", "gr", "gram", "grams":
		return v / 1000
	default: // kg, kgs
		return v
	}
}

func toLiters(v float64, unit string) float64 {
	switch strings.ToLower(unit) {
	case "ml":
		return v / 1000
	default: // l, lt, ltr, liter, litre, liters, litres
		return v
	}
}
