// Package mutual synthesizes the symmetric "mutual understanding" summary
// for a pair of countries: key differences, common ground and one bridging
// strategy sentence.
package mutual

import (
	"fmt"
	"strings"

	"github.com/kalambet/culturelens/internal/culture"
	"github.com/kalambet/culturelens/internal/gap"
)

const (
	NoMajorDifferences = "No major cultural differences were found between these two countries."
	SharedGoals        = "Both sides share a professional respect for expertise and common business goals."
	highGapCaveat      = "Because several core values differ significantly, align expectations early and explicitly."
)

// Block is the mutual-understanding summary.
type Block struct {
	Title            string   `json:"title"`
	KeyDifferences   []string `json:"key_differences"`
	CommonGround     []string `json:"common_ground"`
	BridgingStrategy string   `json:"bridging_strategy"`
}

type poles struct {
	high string
	low  string
}

var dimensionPoles = map[culture.Dimension]poles{
	culture.PowerDistance:        {high: "hierarchy-oriented", low: "equality-seeking"},
	culture.Individualism:        {high: "individual-oriented", low: "group-oriented"},
	culture.UncertaintyAvoidance: {high: "structure-seeking", low: "ambiguity-tolerant"},
	culture.Masculinity:          {high: "achievement-driven", low: "consensus-driven"},
}

var commonGround = map[culture.Dimension]string{
	culture.PowerDistance:        "Similar expectations about hierarchy and how authority is exercised.",
	culture.Individualism:        "A similar balance between individual initiative and group loyalty.",
	culture.UncertaintyAvoidance: "Similar comfort with rules, planning and uncertainty.",
	culture.Masculinity:          "Similar attitudes toward competition, success and quality of life.",
}

var bridging = map[culture.Context]string{
	culture.MeetingIdea:          "When %[1]s and %[2]s share ideas in meetings, agree up front on how proposals are raised and how decisions are made.",
	culture.DisagreeWithSuperior: "For %[1]s and %[2]s, bridging means agreeing on acceptable channels for raising disagreement with superiors.",
	culture.Reporting:            "%[1]s and %[2]s should agree on a shared reporting format, level of detail and chain of escalation.",
	culture.RewardRecognition:    "%[1]s and %[2]s should design recognition that respects both how success is celebrated and who gets credit.",
	culture.TeamCollaboration:    "Mixed teams from %[1]s and %[2]s work best with explicitly agreed roles, decision rights and working rhythms.",
	culture.Negotiation:          "Negotiators from %[1]s and %[2]s should align on pace, decision authority and how commitments are documented.",
	culture.Feedback:             "%[1]s and %[2]s should agree on how directly, how often and in what setting feedback is given.",
	culture.ConflictResolution:   "%[1]s and %[2]s should agree in advance on how conflicts are surfaced, who mediates and how resolutions are recorded.",
}

// adaptation explains how the lower-scoring side adapts on one high gap.
// %[1]s is the side that should adapt, %[2]s the other side.
var adaptation = map[culture.Dimension]string{
	culture.PowerDistance:        "The largest gap is in power distance: %[1]s should pay extra attention to hierarchy and formal protocol when working with %[2]s.",
	culture.Individualism:        "The largest gap is in individualism: %[1]s should be explicit about individual ownership and accountability when working with %[2]s.",
	culture.UncertaintyAvoidance: "The largest gap is in uncertainty avoidance: %[1]s should provide more structure, detail and advance planning when working with %[2]s.",
	culture.Masculinity:          "The largest gap is in masculinity: %[1]s should be more assertive about goals and results when working with %[2]s.",
}

// Synthesizer builds mutual-understanding blocks.
type Synthesizer struct{}

// New returns a Synthesizer.
func New() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize derives the block for a and b from their gaps.
func (s *Synthesizer) Synthesize(a, b culture.CountryProfile, gaps []gap.Gap, c culture.Context) (Block, error) {
	template, ok := bridging[c]
	if !ok {
		return Block{}, fmt.Errorf("%w: %q", culture.ErrInvalidContext, c)
	}

	nameA, nameB := a.DisplayName(), b.DisplayName()
	high := gap.Filter(gaps, gap.High)

	return Block{
		Title:            fmt.Sprintf("Mutual understanding: %s and %s", nameA, nameB),
		KeyDifferences:   keyDifferences(nameA, nameB, high),
		CommonGround:     commonGroundFor(a, b, gaps),
		BridgingStrategy: bridgingStrategy(template, nameA, nameB, high),
	}, nil
}

func keyDifferences(nameA, nameB string, high []gap.Gap) []string {
	if len(high) == 0 {
		return []string{NoMajorDifferences}
	}
	out := make([]string, 0, len(high))
	for _, g := range high {
		p := dimensionPoles[g.Dimension]
		hiName, hiVal, loName, loVal := nameA, g.ValueA, nameB, g.ValueB
		if g.ValueB > g.ValueA {
			hiName, hiVal, loName, loVal = nameB, g.ValueB, nameA, g.ValueA
		}
		out = append(out, fmt.Sprintf("%s: %s (%d) is %s, while %s (%d) is %s.",
			g.Dimension.Name(), hiName, hiVal, p.high, loName, loVal, p.low))
	}
	return out
}

func commonGroundFor(a, b culture.CountryProfile, gaps []gap.Gap) []string {
	var out []string
	for _, g := range gap.Filter(gaps, gap.Low) {
		out = append(out, commonGround[g.Dimension])
	}
	if a.CultureType == b.CultureType && a.CultureType.Valid() {
		out = append(out, fmt.Sprintf("Both belong to the %s culture cluster and share a similar model of how organizations work.", a.CultureType.Label()))
	}
	if len(out) == 0 {
		return []string{SharedGoals}
	}
	return out
}

func bridgingStrategy(template, nameA, nameB string, high []gap.Gap) string {
	switch {
	case len(high) == 0:
		return Similar(nameA, nameB)
	case len(high) >= 2:
		return fmt.Sprintf(template, nameA, nameB) + " " + highGapCaveat
	}
	g := high[0]
	adapter, other := nameA, nameB
	if g.ValueA > g.ValueB {
		adapter, other = nameB, nameA
	}
	return strings.Join([]string{
		fmt.Sprintf(template, nameA, nameB),
		fmt.Sprintf(adaptation[g.Dimension], adapter, other),
	}, " ")
}

// Similar is the bridging strategy used when no gap is highly significant.
func Similar(nameA, nameB string) string {
	return fmt.Sprintf("%s and %s have broadly similar cultures; build on this common foundation while staying attentive to individual differences.", nameA, nameB)
}
