// Package catalog resolves country codes to profiles, merging the built-in
// dataset with user-defined profiles kept in storage.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kalambet/culturelens/internal/countries"
	"github.com/kalambet/culturelens/internal/culture"
	"github.com/kalambet/culturelens/internal/storage"
)

var (
	// ErrUnknownCountry is returned when no profile exists for a code.
	ErrUnknownCountry = errors.New("unknown country")
	// ErrBuiltinCountry is returned when deleting a built-in profile.
	ErrBuiltinCountry = errors.New("built-in country cannot be deleted")
)

// CountryStore defines the storage operations the Manager needs.
// Implemented by storage.Store.
type CountryStore interface {
	UpsertCountry(p culture.CountryProfile) error
	ListCountries() ([]culture.CountryProfile, error)
	DeleteCountry(code string) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// DefaultTTL is how long the merged catalog is served from memory.
const DefaultTTL = 60 * time.Second

// Manager provides cached lookup over built-in and custom profiles. Custom
// profiles override built-ins with the same code.
type Manager struct {
	store   CountryStore
	builtin map[string]culture.CountryProfile
	clock   Clock
	ttl     time.Duration

	mu       sync.RWMutex
	cached   []culture.CountryProfile
	index    map[string]int
	custom   map[string]bool
	cachedAt time.Time
}

// NewManager creates a Manager. A non-positive ttl selects DefaultTTL.
func NewManager(store CountryStore, builtin []culture.CountryProfile, ttl time.Duration) *Manager {
	return NewManagerWithClock(store, builtin, realClock{}, ttl)
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(store CountryStore, builtin []culture.CountryProfile, clock Clock, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	b := make(map[string]culture.CountryProfile, len(builtin))
	for _, p := range builtin {
		b[p.Code] = p
	}
	return &Manager{
		store:   store,
		builtin: b,
		clock:   clock,
		ttl:     ttl,
	}
}

// Get returns the profile for code (case-insensitive).
func (m *Manager) Get(code string) (culture.CountryProfile, error) {
	code = countries.NormalizeCode(code)

	m.mu.RLock()
	if m.fresh() {
		p, ok := m.lookup(code)
		m.mu.RUnlock()
		return p, lookupErr(code, ok)
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.reload(); err != nil {
		return culture.CountryProfile{}, err
	}
	p, ok := m.lookup(code)
	return p, lookupErr(code, ok)
}

// Resolve looks up each code in order, failing on the first unknown one.
func (m *Manager) Resolve(codes ...string) ([]culture.CountryProfile, error) {
	out := make([]culture.CountryProfile, 0, len(codes))
	for _, code := range codes {
		p, err := m.Get(code)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// List returns every known profile sorted by code.
func (m *Manager) List() ([]culture.CountryProfile, error) {
	m.mu.RLock()
	if m.fresh() {
		out := cloneProfiles(m.cached)
		m.mu.RUnlock()
		return out, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.reload(); err != nil {
		return nil, err
	}
	return cloneProfiles(m.cached), nil
}

// IsCustom reports whether code resolves to a user-defined profile.
func (m *Manager) IsCustom(code string) (bool, error) {
	if _, err := m.List(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.custom[countries.NormalizeCode(code)], nil
}

// Put validates and persists a custom profile, then invalidates the cache.
func (m *Manager) Put(p culture.CountryProfile) (culture.CountryProfile, error) {
	p.Code = countries.NormalizeCode(p.Code)
	if err := p.Validate(); err != nil {
		return culture.CountryProfile{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.UpsertCountry(p); err != nil {
		return culture.CountryProfile{}, fmt.Errorf("storing country %s: %w", p.Code, err)
	}
	m.cached = nil
	return p, nil
}

// Delete removes a custom profile. Deleting a custom override of a built-in
// code restores the built-in profile.
func (m *Manager) Delete(code string) error {
	code = countries.NormalizeCode(code)

	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.store.DeleteCountry(code)
	switch {
	case err == nil:
		m.cached = nil
		return nil
	case errors.Is(err, storage.ErrNotFound):
		if _, ok := m.builtin[code]; ok {
			return fmt.Errorf("%w: %s", ErrBuiltinCountry, code)
		}
		return fmt.Errorf("%w: %s", ErrUnknownCountry, code)
	default:
		return fmt.Errorf("deleting country %s: %w", code, err)
	}
}

// Invalidate drops the cached catalog.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.cached = nil
	m.mu.Unlock()
}

// fresh must be called with m.mu held.
func (m *Manager) fresh() bool {
	return m.cached != nil && m.clock.Now().Before(m.cachedAt.Add(m.ttl))
}

// reload must be called with m.mu held for writing.
func (m *Manager) reload() error {
	if m.fresh() {
		return nil
	}
	custom, err := m.store.ListCountries()
	if err != nil {
		return fmt.Errorf("loading custom countries: %w", err)
	}

	merged := make(map[string]culture.CountryProfile, len(m.builtin)+len(custom))
	for code, p := range m.builtin {
		merged[code] = p
	}
	isCustom := make(map[string]bool, len(custom))
	for _, p := range custom {
		merged[p.Code] = p
		isCustom[p.Code] = true
	}

	list := make([]culture.CountryProfile, 0, len(merged))
	for _, p := range merged {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })

	index := make(map[string]int, len(list))
	for i, p := range list {
		index[p.Code] = i
	}

	m.cached = list
	m.index = index
	m.custom = isCustom
	m.cachedAt = m.clock.Now()
	return nil
}

func (m *Manager) lookup(code string) (culture.CountryProfile, bool) {
	i, ok := m.index[code]
	if !ok {
		return culture.CountryProfile{}, false
	}
	return cloneProfile(m.cached[i]), true
}

func lookupErr(code string, ok bool) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownCountry, code)
}

func cloneProfile(p culture.CountryProfile) culture.CountryProfile {
	p.Dimensions = p.Dimensions.Clone()
	return p
}

func cloneProfiles(in []culture.CountryProfile) []culture.CountryProfile {
	out := make([]culture.CountryProfile, len(in))
	for i, p := range in {
		out[i] = cloneProfile(p)
	}
	return out
}
