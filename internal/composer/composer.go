package composer

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/culturelens/internal/culture"
	"github.com/kalambet/culturelens/internal/gap"
	"github.com/kalambet/culturelens/internal/mutual"
	"github.com/kalambet/culturelens/internal/rules"
)

// MaxSelection is the largest number of countries that can be compared at once.
const MaxSelection = 3

var (
	// ErrEmptySelection is returned when Compare receives no profiles.
	ErrEmptySelection = errors.New("no countries selected")
	// ErrTooManyCountries is returned when more than MaxSelection profiles are compared.
	ErrTooManyCountries = fmt.Errorf("at most %d countries can be compared", MaxSelection)
)

// AdviceBlock is the advice for one direction.
type AdviceBlock struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

// Result is the bilateral advice for a pair of countries in one context.
type Result struct {
	ProfileA culture.CountryProfile `json:"profile_a"`
	ProfileB culture.CountryProfile `json:"profile_b"`
	Context  culture.Context        `json:"context"`
	Gaps     []gap.Gap              `json:"gaps"`
	FromAtoB AdviceBlock            `json:"from_a_to_b"`
	FromBtoA AdviceBlock            `json:"from_b_to_a"`
	Mutual   mutual.Block           `json:"mutual"`
}

// PairGaps is the gap analysis for one unordered pair of a selection.
type PairGaps struct {
	CodeA string    `json:"code_a"`
	CodeB string    `json:"code_b"`
	Gaps  []gap.Gap `json:"gaps"`
}

// Comparison is the outcome of comparing a selection of up to three countries.
// Advice is only set when exactly two countries were selected.
type Comparison struct {
	Profiles []culture.CountryProfile `json:"profiles"`
	Pairs    []PairGaps               `json:"pairs"`
	Advice   *Result                  `json:"advice,omitempty"`
}

// Composer assembles bilateral advice from the gap analyzer, the rule
// engine and the mutual-understanding synthesizer.
type Composer struct {
	engine *rules.Engine
	synth  *mutual.Synthesizer
}

// New creates a Composer with the built-in rule tables.
func New() *Composer {
	return &Composer{
		engine: rules.New(),
		synth:  mutual.New(),
	}
}

// Compose builds the bilateral result for a and b. Gaps are computed once
// and shared by both directions. Either the full result is returned or an
// error; never a partial result.
func (c *Composer) Compose(a, b culture.CountryProfile, ctx culture.Context) (Result, error) {
	if !ctx.Valid() {
		return Result{}, fmt.Errorf("%w: %q", culture.ErrInvalidContext, ctx)
	}
	if err := a.Validate(); err != nil {
		return Result{}, err
	}
	if err := b.Validate(); err != nil {
		return Result{}, err
	}

	gaps, err := gap.Analyze(a, b)
	if err != nil {
		return Result{}, err
	}

	ab, err := c.engine.AdviceForDirection(a, b, gaps, ctx)
	if err != nil {
		return Result{}, err
	}
	ba, err := c.engine.AdviceForDirection(b, a, gaps, ctx)
	if err != nil {
		return Result{}, err
	}
	mu, err := c.synth.Synthesize(a, b, gaps, ctx)
	if err != nil {
		return Result{}, err
	}

	return Result{
		ProfileA: a,
		ProfileB: b,
		Context:  ctx,
		Gaps:     gaps,
		FromAtoB: AdviceBlock{Title: adviceTitle(a, b, ctx), Bullets: ab},
		FromBtoA: AdviceBlock{Title: adviceTitle(b, a, ctx), Bullets: ba},
		Mutual:   mu,
	}, nil
}

// Compare analyzes every unordered pair of the selection concurrently and,
// when exactly two profiles are given and situation is set, composes their
// bilateral advice. situation is ignored for other selection sizes.
func (c *Composer) Compare(ctx context.Context, profiles []culture.CountryProfile, situation culture.Context) (Comparison, error) {
	switch {
	case len(profiles) == 0:
		return Comparison{}, ErrEmptySelection
	case len(profiles) > MaxSelection:
		return Comparison{}, fmt.Errorf("%w: got %d", ErrTooManyCountries, len(profiles))
	}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return Comparison{}, err
		}
	}

	type pair struct{ i, j int }
	var pairs []pair
	for i := 0; i < len(profiles); i++ {
		for j := i + 1; j < len(profiles); j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	out := Comparison{
		Profiles: profiles,
		Pairs:    make([]PairGaps, len(pairs)),
	}

	g, gCtx := errgroup.WithContext(ctx)
	for n, p := range pairs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			gaps, err := gap.Analyze(profiles[p.i], profiles[p.j])
			if err != nil {
				return fmt.Errorf("comparing %s and %s: %w", profiles[p.i].Code, profiles[p.j].Code, err)
			}
			out.Pairs[n] = PairGaps{CodeA: profiles[p.i].Code, CodeB: profiles[p.j].Code, Gaps: gaps}
			return nil
		})
	}
	if len(profiles) == 2 && situation != "" {
		g.Go(func() error {
			res, err := c.Compose(profiles[0], profiles[1], situation)
			if err != nil {
				return err
			}
			out.Advice = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Comparison{}, err
	}
	return out, nil
}

func adviceTitle(source, target culture.CountryProfile, ctx culture.Context) string {
	return fmt.Sprintf("%s working with %s: %s", source.DisplayName(), target.DisplayName(), ctx.Label())
}
