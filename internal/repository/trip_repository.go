// This file defines the Trip entity and its repository. A trip is offered on
// a boat and is owned, transitively, by the boat's owner; the organizer id is
// recorded for convenience but mutation rights always resolve through the
// boat. Recurring trips carry parallel date/time arrays stored as
// comma-separated columns.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Trip mirrors the 'trips' table.
type Trip struct {
	ID             string   `json:"id"`
	OrganizerID    string   `json:"organizerId"`
	BoatID         string   `json:"boatId"`
	Title          string   `json:"title"`
	PracticalInfo  string   `json:"practicalInfo,omitempty"`
	TripType       string   `json:"tripType"`
	PricingType    string   `json:"pricingType"`
	StartDates     []string `json:"startDates,omitempty"`
	EndDates       []string `json:"endDates,omitempty"`
	StartTimes     []string `json:"startTimes,omitempty"`
	EndTimes       []string `json:"endTimes,omitempty"`
	PassengerCount int      `json:"passengerCount"`
	Price          float64  `json:"price"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

// OffersDate reports whether the trip is offered on the given day. Bookings
// may only select one of the trip's published start dates.
func (t *Trip) OffersDate(date string) bool {
	for _, d := range t.StartDates {
		if d == date {
			return true
		}
	}
	return false
}

// TripSearch carries the optional filters of the trips listing.
type TripSearch struct {
	TripType string
	MinPrice *float64
	MaxPrice *float64
}

type TripRepo struct{ db *sql.DB }

func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{db: db} }

const tripColumns = `id, organizer_id, boat_id, title, practical_info, trip_type,
	pricing_type, start_dates, end_dates, start_times, end_times, passenger_count,
	price, DATE_FORMAT(created_at, '%Y-%m-%dT%TZ'), DATE_FORMAT(updated_at, '%Y-%m-%dT%TZ')`

func scanTrip(scan func(dest ...any) error) (*Trip, error) {
	var t Trip
	var startDates, endDates, startTimes, endTimes string
	err := scan(&t.ID, &t.OrganizerID, &t.BoatID, &t.Title, &t.PracticalInfo,
		&t.TripType, &t.PricingType, &startDates, &endDates, &startTimes,
		&endTimes, &t.PassengerCount, &t.Price, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.StartDates = splitList(startDates)
	t.EndDates = splitList(endDates)
	t.StartTimes = splitList(startTimes)
	t.EndTimes = splitList(endTimes)
	return &t, nil
}

// Create inserts a trip and refreshes the struct with the DB timestamps.
func (r *TripRepo) Create(ctx context.Context, t *Trip) error {
	t.ID = uuid.NewString()
	const q = `INSERT INTO trips
		(id, organizer_id, boat_id, title, practical_info, trip_type, pricing_type,
		 start_dates, end_dates, start_times, end_times, passenger_count, price)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, q,
		t.ID, t.OrganizerID, t.BoatID, t.Title, t.PracticalInfo, t.TripType,
		t.PricingType, joinList(t.StartDates), joinList(t.EndDates),
		joinList(t.StartTimes), joinList(t.EndTimes), t.PassengerCount, t.Price)
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

// GetByID fetches a trip and returns ErrTripNotFound when missing.
func (r *TripRepo) GetByID(ctx context.Context, id string) (*Trip, error) {
	const q = "SELECT " + tripColumns + " FROM trips WHERE id = ? LIMIT 1"
	t, err := scanTrip(r.db.QueryRowContext(ctx, q, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	return t, err
}

// ListByOrganizer returns every trip organized by one user.
func (r *TripRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]*Trip, error) {
	const q = "SELECT " + tripColumns + " FROM trips WHERE organizer_id = ? ORDER BY created_at"
	return r.queryTrips(ctx, q, organizerID)
}

// Search lists trips filtered by type and price range, AND-composed.
func (r *TripRepo) Search(ctx context.Context, f TripSearch) ([]*Trip, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.TripType != "" {
		where = append(where, "trip_type = ?")
		args = append(args, f.TripType)
	}
	if f.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *f.MaxPrice)
	}
	q := "SELECT " + tripColumns + " FROM trips WHERE " + strings.Join(where, " AND ") + " ORDER BY created_at"
	return r.queryTrips(ctx, q, args...)
}

func (r *TripRepo) queryTrips(ctx context.Context, q string, args ...any) ([]*Trip, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Trip
	for rows.Next() {
		t, err := scanTrip(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update persists every mutable column of the trip.
func (r *TripRepo) Update(ctx context.Context, t *Trip) error {
	const q = `UPDATE trips SET
		boat_id = ?, title = ?, practical_info = ?, trip_type = ?, pricing_type = ?,
		start_dates = ?, end_dates = ?, start_times = ?, end_times = ?,
		passenger_count = ?, price = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		t.BoatID, t.Title, t.PracticalInfo, t.TripType, t.PricingType,
		joinList(t.StartDates), joinList(t.EndDates), joinList(t.StartTimes),
		joinList(t.EndTimes), t.PassengerCount, t.Price, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a trip; its bookings cascade at the database level.
func (r *TripRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTripNotFound
	}
	return nil
}
