// Package countries holds the built-in reference dataset of country
// profiles and parses profile documents supplied by users.
package countries

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kalambet/culturelens/internal/culture"
)

//go:embed countries.yaml
var builtinYAML []byte

// Builtin returns the reference profiles sorted by code.
func Builtin() ([]culture.CountryProfile, error) {
	profiles, err := Parse(builtinYAML)
	if err != nil {
		return nil, fmt.Errorf("parse built-in countries: %w", err)
	}
	return profiles, nil
}

// Parse decodes a YAML (or JSON) list of profiles, normalizes codes to
// upper case, validates every entry and rejects duplicate codes. The result
// is sorted by code.
func Parse(data []byte) ([]culture.CountryProfile, error) {
	var profiles []culture.CountryProfile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	seen := make(map[string]bool, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		p.Code = NormalizeCode(p.Code)
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if seen[p.Code] {
			return nil, fmt.Errorf("entry %d: duplicate code %q", i, p.Code)
		}
		seen[p.Code] = true
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Code < profiles[j].Code })
	return profiles, nil
}

// NormalizeCode trims and upper-cases a country code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
