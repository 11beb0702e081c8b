// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a trip booking is successfully
// recorded. It carries enough detail for downstream consumers to log or
// notify without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID    string  `json:"booking_id"`
	TripID       string  `json:"trip_id"`
	TripTitle    string  `json:"trip_title"`
	BoatID       string  `json:"boat_id"`
	UserID       string  `json:"user_id"`
	SelectedDate string  `json:"selected_date"`
	Seats        int     `json:"seats"`
	TotalPrice   float64 `json:"total_price"`
	ConfirmedAt  string  `json:"confirmed_at"`
}
