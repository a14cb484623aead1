package score

import (
	"math"
	"sort"
)

// Band is the categorical interpretation attached to a numeric score.
type Band string

const (
	BandNone     Band = "none"
	BandLow      Band = "low"
	BandModerate Band = "moderate"
	BandHigh     Band = "high"
	BandVeryHigh Band = "very-high"

	// BandUndefined is the sentinel for division-by-zero cases in the
	// secondary schemes. The dissonance scheme never produces it.
	BandUndefined Band = "undefined"

	// equity-ratio bands
	BandUnderRewarded Band = "under-rewarded"
	BandEquitable     Band = "equitable"
	BandOverRewarded  Band = "over-rewarded"

	// inequity-index bands
	BandBalanced Band = "balanced"
	BandSkewed   Band = "skewed"
	BandSevere   Band = "severe"

	// global-measure bands
	BandDissonant Band = "dissonant"
	BandNeutral   Band = "neutral"
	BandConsonant Band = "consonant"
)

// Result pairs a numeric score with its interpretation band.
type Result struct {
	Value float64
	Band  Band
}

// Func maps the supporting (consonant) and opposing (dissonant) element
// counts to a score. Implementations must be pure and total.
type Func func(supporting, opposing int) Result

// DefaultScheme is the scheme applied when a record carries no tag.
const DefaultScheme = "dissonance"

// schemes maps scheme tags to their scoring functions. The map is never
// mutated after init; lookups are read-only.
var schemes = map[string]Func{
	"dissonance":     Dissonance,
	"equity-ratio":   EquityRatio,
	"inequity-index": InequityIndex,
	"global-measure": GlobalMeasure,
}

// ForScheme returns the scoring function for a scheme tag.
func ForScheme(name string) (Func, bool) {
	fn, ok := schemes[name]
	return fn, ok
}

// Schemes returns all known scheme tags in sorted order.
func Schemes() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dissonance computes D* = D / (D + C) where D is the opposing count and
// C the supporting count. Zero elements score 0 with BandNone.
//
// Band thresholds:
//
//	0            none
//	(0, 0.3)     low
//	[0.3, 0.6)   moderate
//	[0.6, 0.9)   high
//	[0.9, 1]     very-high
func Dissonance(supporting, opposing int) Result {
	total := supporting + opposing
	if total == 0 {
		return Result{Value: 0, Band: BandNone}
	}
	v := float64(opposing) / float64(total)
	return Result{Value: v, Band: dissonanceBand(v)}
}

func dissonanceBand(v float64) Band {
	switch {
	case v == 0:
		return BandNone
	case v < 0.3:
		return BandLow
	case v < 0.6:
		return BandModerate
	case v < 0.9:
		return BandHigh
	default:
		return BandVeryHigh
	}
}

// EquityRatio computes the outcome/input ratio with outcomes taken from the
// supporting count and inputs from the opposing count. A zero input count
// yields BandUndefined.
func EquityRatio(supporting, opposing int) Result {
	if opposing == 0 {
		return Result{Value: 0, Band: BandUndefined}
	}
	v := float64(supporting) / float64(opposing)
	switch {
	case v < 0.8:
		return Result{Value: v, Band: BandUnderRewarded}
	case v <= 1.2:
		return Result{Value: v, Band: BandEquitable}
	default:
		return Result{Value: v, Band: BandOverRewarded}
	}
}

// InequityIndex computes |r - 1| where r is the supporting/opposing ratio.
// A zero opposing count yields BandUndefined.
func InequityIndex(supporting, opposing int) Result {
	if opposing == 0 {
		return Result{Value: 0, Band: BandUndefined}
	}
	v := math.Abs(float64(supporting)/float64(opposing) - 1)
	switch {
	case v < 0.2:
		return Result{Value: v, Band: BandBalanced}
	case v < 1:
		return Result{Value: v, Band: BandSkewed}
	default:
		return Result{Value: v, Band: BandSevere}
	}
}

// GlobalMeasure computes the categorical global measure C - D clamped to
// the -3..+3 scale, banded by sign.
func GlobalMeasure(supporting, opposing int) Result {
	v := float64(supporting - opposing)
	if v > 3 {
		v = 3
	}
	if v < -3 {
		v = -3
	}
	switch {
	case v < 0:
		return Result{Value: v, Band: BandDissonant}
	case v > 0:
		return Result{Value: v, Band: BandConsonant}
	default:
		return Result{Value: 0, Band: BandNeutral}
	}
}
