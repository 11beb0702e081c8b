// This file defines the Booking entity and its repository. A booking is owned
// by the passenger who placed it, references a trip, and carries a derived
// total price computed from the trip price and the seat count.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Booking mirrors the 'bookings' table.
type Booking struct {
	ID           string  `json:"id"`
	TripID       string  `json:"tripId"`
	UserID       string  `json:"userId"`
	SelectedDate string  `json:"selectedDate"`
	Seats        int     `json:"seats"`
	TotalPrice   float64 `json:"totalPrice"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// BookingSearch filters the bookings listing by trip and/or passenger.
type BookingSearch struct {
	TripID string
	UserID string
}

type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, trip_id, user_id, DATE_FORMAT(selected_date, '%Y-%m-%d'),
	seats, total_price, DATE_FORMAT(created_at, '%Y-%m-%dT%TZ'),
	DATE_FORMAT(updated_at, '%Y-%m-%dT%TZ')`

func scanBooking(scan func(dest ...any) error) (*Booking, error) {
	var b Booking
	err := scan(&b.ID, &b.TripID, &b.UserID, &b.SelectedDate, &b.Seats,
		&b.TotalPrice, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a booking and refreshes the struct with DB timestamps.
func (r *BookingRepo) Create(ctx context.Context, b *Booking) error {
	b.ID = uuid.NewString()
	const q = `INSERT INTO bookings (id, trip_id, user_id, selected_date, seats, total_price)
		VALUES (?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, q,
		b.ID, b.TripID, b.UserID, b.SelectedDate, b.Seats, b.TotalPrice)
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

// GetByID fetches a booking and returns ErrBookingNotFound when missing.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*Booking, error) {
	const q = "SELECT " + bookingColumns + " FROM bookings WHERE id = ? LIMIT 1"
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// List returns bookings matching the optional trip/user filters.
func (r *BookingRepo) List(ctx context.Context, f BookingSearch) ([]*Booking, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.TripID != "" {
		where = append(where, "trip_id = ?")
		args = append(args, f.TripID)
	}
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	q := "SELECT " + bookingColumns + " FROM bookings WHERE " + strings.Join(where, " AND ") + " ORDER BY created_at"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update persists the mutable columns of a booking (date, seats and the
// recomputed total).
func (r *BookingRepo) Update(ctx context.Context, b *Booking) error {
	const q = `UPDATE bookings SET selected_date = ?, seats = ?, total_price = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, b.SelectedDate, b.Seats, b.TotalPrice, b.ID)
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

// Delete cancels a booking.
func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
