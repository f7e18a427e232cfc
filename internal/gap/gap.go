// Package gap computes per-dimension differences between two country
// profiles and classifies how significant each difference is.
package gap

import (
	"fmt"

	"github.com/kalambet/culturelens/internal/culture"
)

// Significance is the tier a gap magnitude falls into.
type Significance string

const (
	Low    Significance = "low"
	Medium Significance = "medium"
	High   Significance = "high"
)

// Gap is the difference between two profiles on one dimension.
type Gap struct {
	Dimension    culture.Dimension `json:"dimension"`
	ValueA       int               `json:"value_a"`
	ValueB       int               `json:"value_b"`
	Magnitude    int               `json:"magnitude"`
	Significance Significance      `json:"significance"`
}

// Classify maps a magnitude to its significance tier using the per-dimension
// cutoffs in culture.Thresholds.
func Classify(dim culture.Dimension, magnitude int) Significance {
	t := culture.Thresholds[dim]
	switch {
	case magnitude >= t.High:
		return High
	case magnitude >= t.Medium:
		return Medium
	default:
		return Low
	}
}

// Analyze returns one gap per dimension present in both profiles, in the
// order PDI, IDV, UAI, MAS. Masculinity is skipped when either profile
// lacks it; any other missing dimension is an error.
func Analyze(a, b culture.CountryProfile) ([]Gap, error) {
	gaps := make([]Gap, 0, len(culture.AllDimensions))
	for _, dim := range culture.AllDimensions {
		va, okA := a.Dimensions.Value(dim)
		vb, okB := b.Dimensions.Value(dim)
		if !okA || !okB {
			if dim.Required() {
				missing := a.Code
				if okA {
					missing = b.Code
				}
				return nil, fmt.Errorf("%w: %s has no %s score", culture.ErrIncompleteProfile, missing, dim.Abbrev())
			}
			continue
		}
		mag := abs(va - vb)
		gaps = append(gaps, Gap{
			Dimension:    dim,
			ValueA:       va,
			ValueB:       vb,
			Magnitude:    mag,
			Significance: Classify(dim, mag),
		})
	}
	return gaps, nil
}

// Find returns the gap for dim, if present.
func Find(gaps []Gap, dim culture.Dimension) (Gap, bool) {
	for _, g := range gaps {
		if g.Dimension == dim {
			return g, true
		}
	}
	return Gap{}, false
}

// Filter returns the gaps with the given significance, preserving order.
func Filter(gaps []Gap, s Significance) []Gap {
	var out []Gap
	for _, g := range gaps {
		if g.Significance == s {
			out = append(out, g)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
