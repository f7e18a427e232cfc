package culture

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIncompleteProfile is returned when a required dimension is missing.
	ErrIncompleteProfile = errors.New("incomplete profile")
	// ErrScoreOutOfRange is returned when a dimension score is outside [0,100].
	ErrScoreOutOfRange = errors.New("dimension score out of range")
	// ErrUnknownCultureType is returned for a culture type outside the six clusters.
	ErrUnknownCultureType = errors.New("unknown culture type")
)

// Dimension identifies one of the tracked Hofstede dimensions.
type Dimension string

const (
	PowerDistance        Dimension = "pdi"
	Individualism        Dimension = "idv"
	UncertaintyAvoidance Dimension = "uai"
	Masculinity          Dimension = "mas"
)

// AllDimensions lists the tracked dimensions in evaluation order.
var AllDimensions = []Dimension{PowerDistance, Individualism, UncertaintyAvoidance, Masculinity}

// Name returns the human-readable dimension name.
func (d Dimension) Name() string {
	switch d {
	case PowerDistance:
		return "Power Distance"
	case Individualism:
		return "Individualism"
	case UncertaintyAvoidance:
		return "Uncertainty Avoidance"
	case Masculinity:
		return "Masculinity"
	}
	return string(d)
}

// Abbrev returns the conventional three-letter abbreviation.
func (d Dimension) Abbrev() string {
	return strings.ToUpper(string(d))
}

// Required reports whether every valid profile must carry this dimension.
func (d Dimension) Required() bool {
	return d != Masculinity
}

// CultureType is the organizational-culture cluster a country belongs to.
type CultureType string

const (
	Contest     CultureType = "contest"
	Network     CultureType = "network"
	Family      CultureType = "family"
	Pyramid     CultureType = "pyramid"
	SolarSystem CultureType = "solar_system"
	Machine     CultureType = "machine"
)

// CultureTypes lists the six known clusters.
var CultureTypes = []CultureType{Contest, Network, Family, Pyramid, SolarSystem, Machine}

// Valid reports whether t is one of the six known clusters.
func (t CultureType) Valid() bool {
	for _, known := range CultureTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns the display label of the cluster.
func (t CultureType) Label() string {
	switch t {
	case Contest:
		return "Contest"
	case Network:
		return "Network"
	case Family:
		return "Family"
	case Pyramid:
		return "Pyramid"
	case SolarSystem:
		return "Solar System"
	case Machine:
		return "Machine"
	}
	return string(t)
}

// Dimensions holds the four dimension scores. A nil score means the
// dimension is absent from the profile.
type Dimensions struct {
	PowerDistance        *int `json:"pdi,omitempty" yaml:"pdi"`
	Individualism        *int `json:"idv,omitempty" yaml:"idv"`
	UncertaintyAvoidance *int `json:"uai,omitempty" yaml:"uai"`
	Masculinity          *int `json:"mas,omitempty" yaml:"mas"`
}

// Score returns a pointer to v, for building Dimensions literals.
func Score(v int) *int {
	return &v
}

// Value returns the score for d and whether it is present.
func (d Dimensions) Value(dim Dimension) (int, bool) {
	var p *int
	switch dim {
	case PowerDistance:
		p = d.PowerDistance
	case Individualism:
		p = d.Individualism
	case UncertaintyAvoidance:
		p = d.UncertaintyAvoidance
	case Masculinity:
		p = d.Masculinity
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Clone returns a copy that shares no score pointers with d.
func (d Dimensions) Clone() Dimensions {
	cp := func(p *int) *int {
		if p == nil {
			return nil
		}
		return Score(*p)
	}
	return Dimensions{
		PowerDistance:        cp(d.PowerDistance),
		Individualism:        cp(d.Individualism),
		UncertaintyAvoidance: cp(d.UncertaintyAvoidance),
		Masculinity:          cp(d.Masculinity),
	}
}

// CountryProfile is the identity and cultural signature of one country.
type CountryProfile struct {
	Code        string      `json:"code" yaml:"code"`
	Name        string      `json:"name" yaml:"name"`
	LocalName   string      `json:"local_name,omitempty" yaml:"local_name"`
	Dimensions  Dimensions  `json:"dimensions" yaml:"dimensions"`
	CultureType CultureType `json:"culture_type" yaml:"culture_type"`
}

// DisplayName returns Name, falling back to Code.
func (p CountryProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Code
}

// Validate reports a missing required dimension, a score outside [0,100]
// or an unknown culture type.
func (p CountryProfile) Validate() error {
	if strings.TrimSpace(p.Code) == "" {
		return fmt.Errorf("%w: missing code", ErrIncompleteProfile)
	}
	for _, dim := range AllDimensions {
		v, ok := p.Dimensions.Value(dim)
		if !ok {
			if dim.Required() {
				return fmt.Errorf("%w: %s has no %s score", ErrIncompleteProfile, p.Code, dim.Abbrev())
			}
			continue
		}
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: %s %s = %d", ErrScoreOutOfRange, p.Code, dim.Abbrev(), v)
		}
	}
	if !p.CultureType.Valid() {
		return fmt.Errorf("%w: %s has %q", ErrUnknownCultureType, p.Code, p.CultureType)
	}
	return nil
}
