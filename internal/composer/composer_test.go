package composer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kalambet/culturelens/internal/culture"
	"github.com/kalambet/culturelens/internal/gap"
	"github.com/kalambet/culturelens/internal/mutual"
	"github.com/kalambet/culturelens/internal/rules"
)

func makeProfile(code, name string, ct culture.CultureType, pdi, idv, uai int, mas *int) culture.CountryProfile {
	return culture.CountryProfile{
		Code: code,
		Name: name,
		Dimensions: culture.Dimensions{
			PowerDistance:        culture.Score(pdi),
			Individualism:        culture.Score(idv),
			UncertaintyAvoidance: culture.Score(uai),
			Masculinity:          mas,
		},
		CultureType: ct,
	}
}

var (
	unitedStates = makeProfile("US", "United States", culture.Contest, 40, 91, 46, culture.Score(62))
	southKorea   = makeProfile("KR", "South Korea", culture.Pyramid, 60, 18, 85, culture.Score(39))
	germany      = makeProfile("DE", "Germany", culture.Machine, 35, 67, 65, culture.Score(66))
)

func TestCompose_ExampleNegotiation(t *testing.T) {
	res, err := New().Compose(unitedStates, southKorea, culture.Negotiation)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	wantSig := map[culture.Dimension]gap.Significance{
		culture.PowerDistance:        gap.Medium,
		culture.Individualism:        gap.High,
		culture.UncertaintyAvoidance: gap.High,
		culture.Masculinity:          gap.Medium,
	}
	for _, g := range res.Gaps {
		if g.Significance != wantSig[g.Dimension] {
			t.Errorf("%s significance = %s, want %s", g.Dimension, g.Significance, wantSig[g.Dimension])
		}
	}

	table, err := rules.New().Rules(culture.Negotiation)
	if err != nil {
		t.Fatal(err)
	}
	individualist := strings.ReplaceAll(table[1].Higher[0], "{target}", "South Korea")
	lowerUAI := strings.ReplaceAll(table[2].Lower[0], "{target}", "South Korea")
	if !contains(res.FromAtoB.Bullets, individualist) {
		t.Errorf("A->B missing individualist bullet %q", individualist)
	}
	if !contains(res.FromAtoB.Bullets, lowerUAI) {
		t.Errorf("A->B missing lower-UAI bullet %q", lowerUAI)
	}

	if len(res.Mutual.KeyDifferences) != 2 {
		t.Errorf("KeyDifferences = %v, want 2 entries", res.Mutual.KeyDifferences)
	}
	if !strings.HasPrefix(res.Mutual.KeyDifferences[0], "Individualism") || !strings.HasPrefix(res.Mutual.KeyDifferences[1], "Uncertainty Avoidance") {
		t.Errorf("KeyDifferences order = %v", res.Mutual.KeyDifferences)
	}
	if !strings.Contains(res.Mutual.BridgingStrategy, "align expectations early") {
		t.Errorf("BridgingStrategy missing caveat: %q", res.Mutual.BridgingStrategy)
	}

	if res.FromAtoB.Title != "United States working with South Korea: Negotiation" {
		t.Errorf("FromAtoB.Title = %q", res.FromAtoB.Title)
	}
	if res.FromBtoA.Title != "South Korea working with United States: Negotiation" {
		t.Errorf("FromBtoA.Title = %q", res.FromBtoA.Title)
	}
}

func TestCompose_IdenticalProfilesFallback(t *testing.T) {
	a := makeProfile("AA", "Alpha", culture.Family, 50, 50, 50, culture.Score(50))
	b := makeProfile("BB", "Beta", culture.Family, 50, 50, 50, culture.Score(50))

	res, err := New().Compose(a, b, culture.MeetingIdea)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if diff := cmp.Diff(rules.FallbackBullets, res.FromAtoB.Bullets); diff != "" {
		t.Errorf("A->B (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(rules.FallbackBullets, res.FromBtoA.Bullets); diff != "" {
		t.Errorf("B->A (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{mutual.NoMajorDifferences}, res.Mutual.KeyDifferences); diff != "" {
		t.Errorf("KeyDifferences (-want +got):\n%s", diff)
	}
	if res.Mutual.BridgingStrategy != mutual.Similar("Alpha", "Beta") {
		t.Errorf("BridgingStrategy = %q", res.Mutual.BridgingStrategy)
	}
}

func TestCompose_InvalidContext(t *testing.T) {
	res, err := New().Compose(unitedStates, southKorea, culture.Context("karaoke"))
	if !errors.Is(err, culture.ErrInvalidContext) {
		t.Fatalf("err = %v, want ErrInvalidContext", err)
	}
	if !cmp.Equal(res, Result{}) {
		t.Errorf("expected zero result, got %+v", res)
	}
}

func TestCompose_IncompleteProfile(t *testing.T) {
	broken := unitedStates
	broken.Dimensions = unitedStates.Dimensions.Clone()
	broken.Dimensions.PowerDistance = nil

	_, err := New().Compose(broken, southKorea, culture.Feedback)
	if !errors.Is(err, culture.ErrIncompleteProfile) {
		t.Fatalf("err = %v, want ErrIncompleteProfile", err)
	}
}

func TestCompose_BulletsNeverEmpty(t *testing.T) {
	profiles := []culture.CountryProfile{unitedStates, southKorea, germany}
	c := New()
	for _, a := range profiles {
		for _, b := range profiles {
			for _, ctx := range culture.Contexts {
				res, err := c.Compose(a, b, ctx)
				if err != nil {
					t.Fatalf("Compose(%s, %s, %s): %v", a.Code, b.Code, ctx, err)
				}
				if len(res.FromAtoB.Bullets) == 0 || len(res.FromBtoA.Bullets) == 0 {
					t.Errorf("empty bullets for %s/%s/%s", a.Code, b.Code, ctx)
				}
			}
		}
	}
}

func TestCompare_ThreeCountries(t *testing.T) {
	cmpRes, err := New().Compare(context.Background(), []culture.CountryProfile{unitedStates, southKorea, germany}, culture.Negotiation)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmpRes.Advice != nil {
		t.Error("advice should only be composed for exactly two countries")
	}
	var got [][2]string
	for _, p := range cmpRes.Pairs {
		got = append(got, [2]string{p.CodeA, p.CodeB})
		if len(p.Gaps) != 4 {
			t.Errorf("%s/%s: %d gaps, want 4", p.CodeA, p.CodeB, len(p.Gaps))
		}
	}
	want := [][2]string{{"US", "KR"}, {"US", "DE"}, {"KR", "DE"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pairs (-want +got):\n%s", diff)
	}
}

func TestCompare_TwoCountriesIncludesAdvice(t *testing.T) {
	cmpRes, err := New().Compare(context.Background(), []culture.CountryProfile{unitedStates, germany}, culture.Feedback)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmpRes.Advice == nil {
		t.Fatal("expected advice for two countries")
	}
	if cmpRes.Advice.Context != culture.Feedback {
		t.Errorf("Context = %s", cmpRes.Advice.Context)
	}
}

func TestCompare_TwoCountriesWithoutContext(t *testing.T) {
	cmpRes, err := New().Compare(context.Background(), []culture.CountryProfile{unitedStates, germany}, "")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmpRes.Advice != nil {
		t.Error("no advice expected without a context")
	}
}

func TestCompare_SelectionBounds(t *testing.T) {
	c := New()
	if _, err := c.Compare(context.Background(), nil, culture.Feedback); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("err = %v, want ErrEmptySelection", err)
	}
	four := []culture.CountryProfile{unitedStates, southKorea, germany, unitedStates}
	if _, err := c.Compare(context.Background(), four, culture.Feedback); !errors.Is(err, ErrTooManyCountries) {
		t.Errorf("err = %v, want ErrTooManyCountries", err)
	}
}

func TestCompare_InvalidContextWithTwo(t *testing.T) {
	_, err := New().Compare(context.Background(), []culture.CountryProfile{unitedStates, germany}, culture.Context("golf"))
	if !errors.Is(err, culture.ErrInvalidContext) {
		t.Fatalf("err = %v, want ErrInvalidContext", err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
