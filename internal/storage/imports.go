package storage

import (
	"database/sql"
	"errors"
	"time"
)

// SaveImport records a submitted document. An empty Status is stored as
// ImportPending.
func (s *Store) SaveImport(imp Import) error {
	now := timestamp(time.Now())
	if imp.Status == "" {
		imp.Status = ImportPending
	}
	_, err := s.db.Exec(`
		INSERT INTO imports (id, status, document, imported, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		imp.ID, imp.Status, imp.Document, imp.Imported, imp.Error, now, now,
	)
	return err
}

func (s *Store) GetImport(id string) (Import, error) {
	var imp Import
	var createdAt, updatedAt string
	err := s.db.QueryRow(`
		SELECT id, status, document, imported, error, created_at, updated_at
		FROM imports WHERE id = ?`, id,
	).Scan(&imp.ID, &imp.Status, &imp.Document, &imp.Imported, &imp.Error, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Import{}, ErrNotFound
	}
	if err != nil {
		return Import{}, err
	}
	if imp.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return Import{}, err
	}
	if imp.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return Import{}, err
	}
	return imp, nil
}

// UpdateImportResult records the final status of an import.
func (s *Store) UpdateImportResult(id, status string, imported int, errMsg string) error {
	res, err := s.db.Exec(`UPDATE imports SET status = ?, imported = ?, error = ?, updated_at = ? WHERE id = ?`,
		status, imported, errMsg, timestamp(time.Now()), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
