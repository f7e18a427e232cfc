package storage

import (
	"database/sql"
	"errors"
	"time"
)

const comparisonColumns = `id, created_at, code_a, code_b, context, result_json`

func (s *Store) SaveComparison(c Comparison) error {
	_, err := s.db.Exec(`INSERT INTO comparisons (`+comparisonColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, timestamp(c.CreatedAt), c.CodeA, c.CodeB, c.Context, c.ResultJSON,
	)
	return err
}

func scanComparison(row rowScanner) (Comparison, error) {
	var c Comparison
	var createdAt string
	if err := row.Scan(&c.ID, &createdAt, &c.CodeA, &c.CodeB, &c.Context, &c.ResultJSON); err != nil {
		return Comparison{}, err
	}
	t, err := parseTimestamp("created_at", createdAt)
	if err != nil {
		return Comparison{}, err
	}
	c.CreatedAt = t
	return c, nil
}

func (s *Store) GetComparison(id string) (Comparison, error) {
	c, err := scanComparison(s.db.QueryRow(`SELECT `+comparisonColumns+` FROM comparisons WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Comparison{}, ErrNotFound
	}
	return c, err
}

// ListComparisons returns recorded comparisons, newest first.
func (s *Store) ListComparisons(limit, offset int) ([]Comparison, error) {
	rows, err := s.db.Query(`SELECT `+comparisonColumns+` FROM comparisons
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comparison
	for rows.Next() {
		c, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) DeleteComparison(id string) error {
	return s.deleteByKey(`DELETE FROM comparisons WHERE id = ?`, id)
}

// --- Preferences ---

func (s *Store) SetPreference(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, timestamp(time.Now()),
	)
	return err
}

func (s *Store) GetPreference(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func (s *Store) GetAllPreferences() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM preferences`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		prefs[k] = v
	}
	return prefs, rows.Err()
}
