package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/kalambet/culturelens/internal/culture"
)

const countryColumns = `code, name, local_name, culture_type, pdi, idv, uai, mas`

// UpsertCountry inserts or replaces a user-defined country profile. The
// profile is expected to be validated already.
func (s *Store) UpsertCountry(p culture.CountryProfile) error {
	pdi, _ := p.Dimensions.Value(culture.PowerDistance)
	idv, _ := p.Dimensions.Value(culture.Individualism)
	uai, _ := p.Dimensions.Value(culture.UncertaintyAvoidance)
	var mas sql.NullInt64
	if v, ok := p.Dimensions.Value(culture.Masculinity); ok {
		mas = sql.NullInt64{Int64: int64(v), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO custom_countries (`+countryColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name, local_name = excluded.local_name, culture_type = excluded.culture_type,
			pdi = excluded.pdi, idv = excluded.idv, uai = excluded.uai, mas = excluded.mas,
			updated_at = excluded.updated_at`,
		p.Code, p.Name, p.LocalName, string(p.CultureType), pdi, idv, uai, mas, timestamp(time.Now()),
	)
	return err
}

func scanCountry(row rowScanner) (culture.CountryProfile, error) {
	var p culture.CountryProfile
	var cultureType string
	var pdi, idv, uai int
	var mas sql.NullInt64
	if err := row.Scan(&p.Code, &p.Name, &p.LocalName, &cultureType, &pdi, &idv, &uai, &mas); err != nil {
		return culture.CountryProfile{}, err
	}
	p.CultureType = culture.CultureType(cultureType)
	p.Dimensions = culture.Dimensions{
		PowerDistance:        culture.Score(pdi),
		Individualism:        culture.Score(idv),
		UncertaintyAvoidance: culture.Score(uai),
	}
	if mas.Valid {
		p.Dimensions.Masculinity = culture.Score(int(mas.Int64))
	}
	return p, nil
}

func (s *Store) GetCountry(code string) (culture.CountryProfile, error) {
	p, err := scanCountry(s.db.QueryRow(`SELECT `+countryColumns+` FROM custom_countries WHERE code = ?`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return culture.CountryProfile{}, ErrNotFound
	}
	return p, err
}

// ListCountries returns every user-defined profile ordered by code.
func (s *Store) ListCountries() ([]culture.CountryProfile, error) {
	rows, err := s.db.Query(`SELECT ` + countryColumns + ` FROM custom_countries ORDER BY code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []culture.CountryProfile
	for rows.Next() {
		p, err := scanCountry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) DeleteCountry(code string) error {
	return s.deleteByKey(`DELETE FROM custom_countries WHERE code = ?`, code)
}
