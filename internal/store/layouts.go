package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	pferrors "github.com/allthrive/pageforge/internal/errors"
	"github.com/allthrive/pageforge/internal/layout"
)

// Layout is a stored layout document with its lookup columns.
type Layout struct {
	ID             string
	Owner          string
	Repo           string
	SourceURL      string
	Version        string
	Mode           string // full or minimal
	ComponentCount int
	Document       *layout.Document
	CreatedAt      int64 // unix ms
}

// LayoutFilter narrows ListLayouts results.
type LayoutFilter struct {
	Owner string
	Repo  string
	Limit int
}

// SaveLayout inserts a layout record. Layouts are immutable once saved;
// regeneration inserts a new row.
func (s *Store) SaveLayout(l *Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.CreatedAt == 0 {
		l.CreatedAt = time.Now().UnixMilli()
	}
	doc, err := json.Marshal(l.Document)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	query := `
	INSERT INTO layouts (id, owner, repo, source_url, version, mode, component_count, document, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.Exec(query,
		l.ID, l.Owner, l.Repo, l.SourceURL, l.Version, l.Mode,
		l.ComponentCount, string(doc), l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}
	return nil
}

// GetLayout retrieves a layout by ID.
func (s *Store) GetLayout(id string) (*Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
	SELECT id, owner, repo, source_url, version, mode, component_count, document, created_at
	FROM layouts WHERE id = ?`, id)
	return scanLayout(row)
}

// LatestLayout returns the most recent layout for owner/repo, or
// ErrNotFound when none exists.
func (s *Store) LatestLayout(owner, repo string) (*Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
	SELECT id, owner, repo, source_url, version, mode, component_count, document, created_at
	FROM layouts WHERE owner = ? AND repo = ?
	ORDER BY created_at DESC LIMIT 1`, owner, repo)
	return scanLayout(row)
}

// ListLayouts returns layouts newest-first, optionally filtered.
func (s *Store) ListLayouts(filter LayoutFilter) ([]*Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
	SELECT id, owner, repo, source_url, version, mode, component_count, document, created_at
	FROM layouts`
	args := []any{}
	switch {
	case filter.Owner != "" && filter.Repo != "":
		query += " WHERE owner = ? AND repo = ?"
		args = append(args, filter.Owner, filter.Repo)
	case filter.Owner != "":
		query += " WHERE owner = ?"
		args = append(args, filter.Owner)
	case filter.Repo != "":
		query += " WHERE repo = ?"
		args = append(args, filter.Repo)
	}
	query += " ORDER BY created_at DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	defer rows.Close()

	var layouts []*Layout
	for rows.Next() {
		l, err := scanLayout(rows)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, l)
	}
	return layouts, rows.Err()
}

// DeleteLayout removes a layout by ID. Returns ErrNotFound if no row
// was deleted.
func (s *Store) DeleteLayout(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM layouts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete layout: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return pferrors.ErrNotFound
	}
	return nil
}

// TrimRetention keeps the newest keep rows and deletes the rest.
// Returns the number of rows dropped.
func (s *Store) TrimRetention(keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep <= 0 {
		return 0, nil
	}
	res, err := s.db.Exec(`
	DELETE FROM layouts WHERE id NOT IN (
		SELECT id FROM layouts ORDER BY created_at DESC LIMIT ?
	)`, keep)
	if err != nil {
		return 0, fmt.Errorf("retention trim: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLayout(row rowScanner) (*Layout, error) {
	l := &Layout{}
	var doc string
	err := row.Scan(&l.ID, &l.Owner, &l.Repo, &l.SourceURL, &l.Version,
		&l.Mode, &l.ComponentCount, &doc, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, pferrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan layout: %w", err)
	}
	l.Document = &layout.Document{}
	if err := json.Unmarshal([]byte(doc), l.Document); err != nil {
		return nil, fmt.Errorf("decoding stored document: %w", err)
	}
	return l, nil
}
