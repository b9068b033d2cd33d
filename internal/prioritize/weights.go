package prioritize

import "strings"

// DefaultWeight applies to categories missing from the weight table.
const DefaultWeight = 0.7

// Weights maps a lowercased category name to its ranking weight.
type Weights map[string]float64

// DefaultWeights returns the built-in category weights.
func DefaultWeights() Weights {
	return Weights{
		"utilities":            1.5,
		"government":           1.5,
		"utilities/government": 1.5,
		"telco":                1.0,
		"internet":             1.0,
		"telco/internet":       1.0,
		"e-wallets":            0.8,
		"e-wallet":             0.8,
		"streaming":            0.5,
		"other":                DefaultWeight,
	}
}

// With returns a copy of w with overrides applied. Override keys are matched
// case-insensitively.
func (w Weights) With(overrides map[string]float64) Weights {
	out := make(Weights, len(w)+len(overrides))
	for k, v := range w {
		out[k] = v
	}
	for k, v := range overrides {
		out[normalize(k)] = v
	}
	return out
}

// For returns the weight of category, falling back to DefaultWeight.
func (w Weights) For(category string) float64 {
	if v, ok := w[normalize(category)]; ok {
		return v
	}
	return DefaultWeight
}

func normalize(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
