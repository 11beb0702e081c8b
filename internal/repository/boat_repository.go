// This file defines the Boat entity and its repository. A boat belongs to a
// single owner (the user who created it) and may be offered for several
// fishing trips. Latitude and longitude are optional as a pair: a boat
// without coordinates still appears in plain listings but is excluded from
// geographically filtered results.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Boat mirrors the 'boats' table.
type Boat struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"ownerId"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	YearBuilt   int      `json:"yearBuilt,omitempty"`
	PhotoURL    string   `json:"photoUrl,omitempty"`
	LicenseType string   `json:"licenseType,omitempty"`
	BoatType    string   `json:"boatType"`
	Equipment   []string `json:"equipment,omitempty"`
	Deposit     float64  `json:"deposit,omitempty"`
	MaxCapacity int      `json:"maxCapacity"`
	BedCount    int      `json:"bedCount,omitempty"`
	HomePort    string   `json:"homePort"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	EngineType  string   `json:"engineType,omitempty"`
	EnginePower int      `json:"enginePower,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// BoatSearch carries the attribute filters of the boats listing. The
// geographic bounding box is applied separately, after the SQL query.
type BoatSearch struct {
	BoatType    string
	HomePort    string
	MinCapacity int
}

type BoatRepo struct{ db *sql.DB }

func NewBoatRepo(db *sql.DB) *BoatRepo { return &BoatRepo{db: db} }

const boatColumns = `id, owner_id, name, description, brand, year_built, photo_url,
	license_type, boat_type, equipment, deposit, max_capacity, bed_count, home_port,
	latitude, longitude, engine_type, engine_power,
	DATE_FORMAT(created_at, '%Y-%m-%dT%TZ'), DATE_FORMAT(updated_at, '%Y-%m-%dT%TZ')`

// scanBoat reads one row from either a *sql.Row or *sql.Rows via the shared
// scan function signature.
func scanBoat(scan func(dest ...any) error) (*Boat, error) {
	var b Boat
	var equipment string
	var lat, lng sql.NullFloat64
	err := scan(&b.ID, &b.OwnerID, &b.Name, &b.Description, &b.Brand, &b.YearBuilt,
		&b.PhotoURL, &b.LicenseType, &b.BoatType, &equipment, &b.Deposit,
		&b.MaxCapacity, &b.BedCount, &b.HomePort, &lat, &lng, &b.EngineType,
		&b.EnginePower, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Equipment = splitList(equipment)
	if lat.Valid {
		b.Latitude = &lat.Float64
	}
	if lng.Valid {
		b.Longitude = &lng.Float64
	}
	return &b, nil
}

// Create inserts a boat for its owner and refreshes the struct from the
// database so callers receive the generated timestamps.
func (r *BoatRepo) Create(ctx context.Context, b *Boat) error {
	b.ID = uuid.NewString()
	const q = `INSERT INTO boats
		(id, owner_id, name, description, brand, year_built, photo_url, license_type,
		 boat_type, equipment, deposit, max_capacity, bed_count, home_port,
		 latitude, longitude, engine_type, engine_power)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, q,
		b.ID, b.OwnerID, b.Name, b.Description, b.Brand, b.YearBuilt, b.PhotoURL,
		b.LicenseType, b.BoatType, joinList(b.Equipment), b.Deposit, b.MaxCapacity,
		b.BedCount, b.HomePort, nullableFloat(b.Latitude), nullableFloat(b.Longitude),
		b.EngineType, b.EnginePower)
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

// GetByID fetches a boat regardless of owner and returns ErrBoatNotFound
// when the id does not resolve.
func (r *BoatRepo) GetByID(ctx context.Context, id string) (*Boat, error) {
	const q = "SELECT " + boatColumns + " FROM boats WHERE id = ? LIMIT 1"
	b, err := scanBoat(r.db.QueryRowContext(ctx, q, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBoatNotFound
	}
	return b, err
}

// GetByIDAndOwner fetches a boat only if it belongs to the given owner;
// it backs the trip-creation rule that discriminates "no such boat of
// yours" from "someone else's boat".
func (r *BoatRepo) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*Boat, error) {
	const q = "SELECT " + boatColumns + " FROM boats WHERE id = ? AND owner_id = ? LIMIT 1"
	b, err := scanBoat(r.db.QueryRowContext(ctx, q, id, ownerID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBoatNotFound
	}
	return b, err
}

// ListByOwner returns every boat of one user ordered by creation time.
func (r *BoatRepo) ListByOwner(ctx context.Context, ownerID string) ([]*Boat, error) {
	const q = "SELECT " + boatColumns + " FROM boats WHERE owner_id = ? ORDER BY created_at"
	return r.queryBoats(ctx, q, ownerID)
}

// CountByOwner reports how many boats a user owns.
func (r *BoatRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM boats WHERE owner_id = ?", ownerID).Scan(&n)
	return n, err
}

// Search lists boats matching the attribute filters. Conditions compose with
// AND; empty filters are skipped so an unfiltered call returns the whole
// collection.
func (r *BoatRepo) Search(ctx context.Context, f BoatSearch) ([]*Boat, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.BoatType != "" {
		where = append(where, "boat_type = ?")
		args = append(args, f.BoatType)
	}
	if f.HomePort != "" {
		where = append(where, "LOWER(home_port) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.HomePort)+"%")
	}
	if f.MinCapacity > 0 {
		where = append(where, "max_capacity >= ?")
		args = append(args, f.MinCapacity)
	}
	q := "SELECT " + boatColumns + " FROM boats WHERE " + strings.Join(where, " AND ") + " ORDER BY created_at"
	return r.queryBoats(ctx, q, args...)
}

func (r *BoatRepo) queryBoats(ctx context.Context, q string, args ...any) ([]*Boat, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Boat
	for rows.Next() {
		b, err := scanBoat(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update persists every mutable column of the boat. Ownership is enforced
// by the rules engine before this is called.
func (r *BoatRepo) Update(ctx context.Context, b *Boat) error {
	const q = `UPDATE boats SET
		name = ?, description = ?, brand = ?, year_built = ?, photo_url = ?,
		license_type = ?, boat_type = ?, equipment = ?, deposit = ?,
		max_capacity = ?, bed_count = ?, home_port = ?, latitude = ?,
		longitude = ?, engine_type = ?, engine_power = ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		b.Name, b.Description, b.Brand, b.YearBuilt, b.PhotoURL, b.LicenseType,
		b.BoatType, joinList(b.Equipment), b.Deposit, b.MaxCapacity, b.BedCount,
		b.HomePort, nullableFloat(b.Latitude), nullableFloat(b.Longitude),
		b.EngineType, b.EnginePower, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, b.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a boat; dependent trips and their bookings cascade at the
// database level.
func (r *BoatRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM boats WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBoatNotFound
	}
	return nil
}

// nullableFloat converts an optional float into a driver-friendly value so
// absent coordinates persist as NULL rather than 0.
func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
