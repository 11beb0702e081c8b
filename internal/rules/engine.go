package rules

import (
	"context"
	"errors"
	"strings"

	"github.com/fisherfans/fisherfans-api/internal/repository"
)

// The engine reads state through narrow store interfaces rather than the
// concrete repositories: only the lookups the rules actually need. The SQL
// repos satisfy them as-is.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)
}

type BoatStore interface {
	GetByID(ctx context.Context, id string) (*repository.Boat, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

type TripStore interface {
	GetByID(ctx context.Context, id string) (*repository.Trip, error)
}

type BookingStore interface {
	GetByID(ctx context.Context, id string) (*repository.Booking, error)
}

type LogbookStore interface {
	GetByID(ctx context.Context, id string) (*repository.LogbookEntry, error)
}

// Engine evaluates business preconditions against the current state of the
// stores. Handlers call it before touching persistence; a returned
// *Violation maps directly onto an HTTP denial, any other error is a
// repository failure.
type Engine struct {
	Users    UserStore
	Boats    BoatStore
	Trips    TripStore
	Bookings BookingStore
	Logbook  LogbookStore
}

func NewEngine(users UserStore, boats BoatStore, trips TripStore,
	bookings BookingStore, logbook LogbookStore) *Engine {
	if users == nil || boats == nil || trips == nil || bookings == nil || logbook == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{Users: users, Boats: boats, Trips: trips, Bookings: bookings, Logbook: logbook}
}

// CanCreateBoat enforces the boating-permit precondition: creating a boat
// requires the actor to hold a non-empty boat license number.
func (e *Engine) CanCreateBoat(ctx context.Context, actorID string) error {
	u, err := e.Users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(u.BoatLicenseNumber) == "" {
		return forbidden(CodePermitRequired, "a boat license is required to create a boat")
	}
	return nil
}

// CanCreateTrip enforces the boat-ownership precondition for trip creation.
// Owning no boat at all, or referencing an id that matches none of the
// actor's boats because it does not exist, both yield USER_HAS_NO_BOAT;
// referencing another user's existing boat is a plain ownership denial.
// All three are 403s: the endpoint never confirms whether a foreign boat
// id exists.
func (e *Engine) CanCreateTrip(ctx context.Context, actorID, boatID string) error {
	n, err := e.Boats.CountByOwner(ctx, actorID)
	if err != nil {
		return err
	}
	if n == 0 {
		return forbidden(CodeUserHasNoBoat, "user must own a boat to create trips")
	}
	b, err := e.Boats.GetByID(ctx, boatID)
	if errors.Is(err, repository.ErrBoatNotFound) {
		return forbidden(CodeUserHasNoBoat, "user owns no boat with this id")
	}
	if err != nil {
		return err
	}
	if b.OwnerID != actorID {
		return forbidden("", "trips can only be created with your own boats")
	}
	return nil
}

// CanCreateBooking checks the referential rules of a new booking: the trip
// must exist (404 when it does not) and the selected date must be one of the
// trip's offered start dates. The trip is returned so the caller can derive
// the total price without a second lookup.
func (e *Engine) CanCreateBooking(ctx context.Context, tripID, selectedDate string) (*repository.Trip, error) {
	t, err := e.Trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if len(t.StartDates) > 0 && !t.OffersDate(selectedDate) {
		return nil, invalid("selectedDate is not one of the trip's offered dates")
	}
	return t, nil
}
