// Package rules turns dimension gaps between a source and a target country
// into ordered advice bullets for one business context.
package rules

import (
	"fmt"
	"strings"

	"github.com/kalambet/culturelens/internal/culture"
	"github.com/kalambet/culturelens/internal/gap"
)

// FallbackBullets is returned when no rule fires for a direction.
var FallbackBullets = []string{
	"Your cultures are similar enough in this situation for natural communication.",
	"Rely on mutual respect and clear communication to build a productive working relationship.",
}

// Rule is one row of a context table. Higher fires when the source scores
// more than Threshold above the target, Lower when it scores more than
// Threshold below. Bullets may reference {source} and {target}.
type Rule struct {
	Dimension culture.Dimension
	Threshold int
	// Gated rows are skipped when the gap significance is low.
	Gated  bool
	Higher []string
	Lower  []string
}

// Engine evaluates context rule tables.
type Engine struct {
	tables map[culture.Context][]Rule
}

// New returns an Engine loaded with the built-in tables.
func New() *Engine {
	return &Engine{tables: defaultTables()}
}

// Rules returns the table for c in evaluation order.
func (e *Engine) Rules(c culture.Context) ([]Rule, error) {
	t, ok := e.tables[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", culture.ErrInvalidContext, c)
	}
	return t, nil
}

// AdviceForDirection returns the bullets for source working with target.
// Rows are walked in table order and their bullets concatenated without
// reordering or deduplication. The result is never empty.
func (e *Engine) AdviceForDirection(source, target culture.CountryProfile, gaps []gap.Gap, c culture.Context) ([]string, error) {
	table, err := e.Rules(c)
	if err != nil {
		return nil, err
	}

	r := strings.NewReplacer("{source}", source.DisplayName(), "{target}", target.DisplayName())

	var bullets []string
	for _, rule := range table {
		for _, b := range rule.evaluate(source, target, gaps) {
			bullets = append(bullets, r.Replace(b))
		}
	}
	if len(bullets) == 0 {
		return append([]string(nil), FallbackBullets...), nil
	}
	return bullets, nil
}

func (rule Rule) evaluate(source, target culture.CountryProfile, gaps []gap.Gap) []string {
	s, okS := source.Dimensions.Value(rule.Dimension)
	t, okT := target.Dimensions.Value(rule.Dimension)
	if !okS || !okT {
		return nil
	}
	if rule.Gated {
		g, ok := gap.Find(gaps, rule.Dimension)
		if !ok || g.Significance == gap.Low {
			return nil
		}
	}
	switch diff := s - t; {
	case diff > rule.Threshold:
		return rule.Higher
	case diff < -rule.Threshold:
		return rule.Lower
	}
	return nil
}

func row(dim culture.Dimension, higher, lower []string) Rule {
	return Rule{
		Dimension: dim,
		Threshold: culture.Thresholds[dim].Branch,
		Higher:    higher,
		Lower:     lower,
	}
}

func gatedRow(dim culture.Dimension, higher, lower []string) Rule {
	r := row(dim, higher, lower)
	r.Gated = true
	return r
}
