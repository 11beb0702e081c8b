// This file defines the LogbookEntry entity and its repository. A logbook
// entry records one catch in a user's personal fishing log and is owned
// directly by its creator.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// LogbookEntry mirrors the 'logbook_entries' table.
type LogbookEntry struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	FishSpecies string  `json:"fishSpecies"`
	PhotoURL    string  `json:"photoUrl,omitempty"`
	Comment     string  `json:"comment,omitempty"`
	Length      float64 `json:"length,omitempty"` // centimetres
	Weight      float64 `json:"weight,omitempty"` // kilograms
	Location    string  `json:"location,omitempty"`
	FishingDate string  `json:"fishingDate"`
	Released    bool    `json:"released"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// LogbookSearch filters a user's log by date floor and species substring.
type LogbookSearch struct {
	UserID      string
	StartDate   string
	FishSpecies string
}

type LogbookRepo struct{ db *sql.DB }

func NewLogbookRepo(db *sql.DB) *LogbookRepo { return &LogbookRepo{db: db} }

const logbookColumns = `id, user_id, fish_species, photo_url, comment, length, weight,
	location, DATE_FORMAT(fishing_date, '%Y-%m-%d'), released,
	DATE_FORMAT(created_at, '%Y-%m-%dT%TZ'), DATE_FORMAT(updated_at, '%Y-%m-%dT%TZ')`

func scanEntry(scan func(dest ...any) error) (*LogbookEntry, error) {
	var e LogbookEntry
	err := scan(&e.ID, &e.UserID, &e.FishSpecies, &e.PhotoURL, &e.Comment,
		&e.Length, &e.Weight, &e.Location, &e.FishingDate, &e.Released,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an entry and refreshes the struct with DB timestamps.
func (r *LogbookRepo) Create(ctx context.Context, e *LogbookEntry) error {
	e.ID = uuid.NewString()
	const q = `INSERT INTO logbook_entries
		(id, user_id, fish_species, photo_url, comment, length, weight, location,
		 fishing_date, released)
		VALUES (?,?,?,?,?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.UserID, e.FishSpecies, e.PhotoURL, e.Comment, e.Length, e.Weight,
		e.Location, e.FishingDate, e.Released)
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	*e = *created
	return nil
}

// GetByID fetches an entry and returns ErrEntryNotFound when missing.
func (r *LogbookRepo) GetByID(ctx context.Context, id string) (*LogbookEntry, error) {
	const q = "SELECT " + logbookColumns + " FROM logbook_entries WHERE id = ? LIMIT 1"
	e, err := scanEntry(r.db.QueryRowContext(ctx, q, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	return e, err
}

// List returns the entries of one user, optionally filtered by a minimum
// fishing date and a species substring.
func (r *LogbookRepo) List(ctx context.Context, f LogbookSearch) ([]*LogbookEntry, error) {
	where := []string{"user_id = ?"}
	args := []any{f.UserID}
	if f.StartDate != "" {
		where = append(where, "fishing_date >= ?")
		args = append(args, f.StartDate)
	}
	if f.FishSpecies != "" {
		where = append(where, "LOWER(fish_species) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.FishSpecies)+"%")
	}
	q := "SELECT " + logbookColumns + " FROM logbook_entries WHERE " +
		strings.Join(where, " AND ") + " ORDER BY fishing_date DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*LogbookEntry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update persists every mutable column of the entry.
func (r *LogbookRepo) Update(ctx context.Context, e *LogbookEntry) error {
	const q = `UPDATE logbook_entries SET
		fish_species = ?, photo_url = ?, comment = ?, length = ?, weight = ?,
		location = ?, fishing_date = ?, released = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		e.FishSpecies, e.PhotoURL, e.Comment, e.Length, e.Weight, e.Location,
		e.FishingDate, e.Released, e.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, e.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an entry.
func (r *LogbookRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM logbook_entries WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEntryNotFound
	}
	return nil
}
