package classifier

import (
	"fmt"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// Scorer returns a similarity between 0 and 100 for two normalized strings.
type Scorer func(a, b string) float64

// Scorer names accepted in configuration.
const (
	ScorerIndel       = "indel"
	ScorerLevenshtein = "levenshtein"
	ScorerJaroWinkler = "jaro_winkler"
)

// IndelRatio is the normalized insert/delete distance ratio:
// 100 * (1 - d / (len(a)+len(b))), where a substitution costs two edits.
func IndelRatio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	d := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return 100 * (1 - float64(d)/float64(total))
}

// LevenshteinRatio is 100 * (1 - d / max(len(a), len(b))).
func LevenshteinRatio(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(d)/float64(longest))
}

// JaroWinklerRatio scales the Jaro-Winkler similarity to 0..100.
func JaroWinklerRatio(a, b string) float64 {
	return 100 * smetrics.JaroWinkler(a, b, 0.7, 4)
}

// ScorerByName resolves a configured scorer. An empty name selects IndelRatio.
func ScorerByName(name string) (Scorer, error) {
	switch name {
	case "", ScorerIndel:
		return IndelRatio, nil
	case ScorerLevenshtein:
		return LevenshteinRatio, nil
	case ScorerJaroWinkler:
		return JaroWinklerRatio, nil
	default:
		return nil, fmt.Errorf("unknown scorer %q", name)
	}
}
