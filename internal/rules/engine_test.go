package rules

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/fisherfans/fisherfans-api/internal/repository"
)

// In-memory stores keyed by id; CountByOwner scans like the SQL repo would.
type fakeUsers map[string]*repository.User

func (f fakeUsers) GetByID(_ context.Context, id string) (*repository.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

type fakeBoats map[string]*repository.Boat

func (f fakeBoats) GetByID(_ context.Context, id string) (*repository.Boat, error) {
	if b, ok := f[id]; ok {
		return b, nil
	}
	return nil, repository.ErrBoatNotFound
}

func (f fakeBoats) CountByOwner(_ context.Context, ownerID string) (int, error) {
	n := 0
	for _, b := range f {
		if b.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

type fakeTrips map[string]*repository.Trip

func (f fakeTrips) GetByID(_ context.Context, id string) (*repository.Trip, error) {
	if t, ok := f[id]; ok {
		return t, nil
	}
	return nil, repository.ErrTripNotFound
}

type fakeBookings map[string]*repository.Booking

func (f fakeBookings) GetByID(_ context.Context, id string) (*repository.Booking, error) {
	if b, ok := f[id]; ok {
		return b, nil
	}
	return nil, repository.ErrBookingNotFound
}

type fakeLogbook map[string]*repository.LogbookEntry

func (f fakeLogbook) GetByID(_ context.Context, id string) (*repository.LogbookEntry, error) {
	if e, ok := f[id]; ok {
		return e, nil
	}
	return nil, repository.ErrEntryNotFound
}

func testEngine(users fakeUsers, boats fakeBoats, trips fakeTrips,
	bookings fakeBookings, logbook fakeLogbook) *Engine {
	if users == nil {
		users = fakeUsers{}
	}
	if boats == nil {
		boats = fakeBoats{}
	}
	if trips == nil {
		trips = fakeTrips{}
	}
	if bookings == nil {
		bookings = fakeBookings{}
	}
	if logbook == nil {
		logbook = fakeLogbook{}
	}
	return NewEngine(users, boats, trips, bookings, logbook)
}

func wantForbidden(t *testing.T, err error, code string) {
	t.Helper()
	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected a rule violation, got %v", err)
	}
	if v.Status != http.StatusForbidden {
		t.Fatalf("expected 403 violation, got %d", v.Status)
	}
	if v.BusinessCode != code {
		t.Fatalf("expected business code %q, got %q", code, v.BusinessCode)
	}
}

func TestCanCreateBoatWithoutLicense(t *testing.T) {
	e := testEngine(fakeUsers{"u1": {ID: "u1"}}, nil, nil, nil, nil)
	err := e.CanCreateBoat(context.Background(), "u1")
	wantForbidden(t, err, CodePermitRequired)
}

func TestCanCreateBoatWithLicense(t *testing.T) {
	e := testEngine(fakeUsers{"u1": {ID: "u1", BoatLicenseNumber: "12345678"}}, nil, nil, nil, nil)
	if err := e.CanCreateBoat(context.Background(), "u1"); err != nil {
		t.Fatalf("licensed user denied: %v", err)
	}
}

func TestCanCreateBoatUnknownActor(t *testing.T) {
	e := testEngine(nil, nil, nil, nil, nil)
	if err := e.CanCreateBoat(context.Background(), "ghost"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCanCreateTripOwningNoBoat(t *testing.T) {
	e := testEngine(nil, fakeBoats{"b1": {ID: "b1", OwnerID: "other"}}, nil, nil, nil)
	err := e.CanCreateTrip(context.Background(), "u1", "b1")
	wantForbidden(t, err, CodeUserHasNoBoat)
}

func TestCanCreateTripUnknownBoatID(t *testing.T) {
	// Actor owns a boat, but references an id that resolves to nothing:
	// still USER_HAS_NO_BOAT, never a 404 that would confirm the id.
	e := testEngine(nil, fakeBoats{"b1": {ID: "b1", OwnerID: "u1"}}, nil, nil, nil)
	err := e.CanCreateTrip(context.Background(), "u1", "no-such-boat")
	wantForbidden(t, err, CodeUserHasNoBoat)
}

func TestCanCreateTripForeignBoat(t *testing.T) {
	boats := fakeBoats{
		"mine":   {ID: "mine", OwnerID: "u1"},
		"theirs": {ID: "theirs", OwnerID: "u2"},
	}
	e := testEngine(nil, boats, nil, nil, nil)
	err := e.CanCreateTrip(context.Background(), "u1", "theirs")
	wantForbidden(t, err, "")
}

func TestCanCreateTripOwnBoat(t *testing.T) {
	e := testEngine(nil, fakeBoats{"b1": {ID: "b1", OwnerID: "u1"}}, nil, nil, nil)
	if err := e.CanCreateTrip(context.Background(), "u1", "b1"); err != nil {
		t.Fatalf("owner denied: %v", err)
	}
}

func TestCanMutateUnknownResourceIsNotFound(t *testing.T) {
	// Existence is decided before ownership: an unknown ref must surface the
	// entity's not-found sentinel, never a Violation.
	e := testEngine(nil, nil, nil, nil, nil)
	cases := []struct {
		ref  ResourceRef
		want error
	}{
		{ResourceRef{Kind: KindUser, ID: "x"}, repository.ErrUserNotFound},
		{ResourceRef{Kind: KindBoat, ID: "x"}, repository.ErrBoatNotFound},
		{ResourceRef{Kind: KindTrip, ID: "x"}, repository.ErrTripNotFound},
		{ResourceRef{Kind: KindBooking, ID: "x"}, repository.ErrBookingNotFound},
		{ResourceRef{Kind: KindLogbook, ID: "x"}, repository.ErrEntryNotFound},
	}
	for _, c := range cases {
		err := e.CanMutate(context.Background(), "u1", c.ref)
		if !errors.Is(err, c.want) {
			t.Errorf("%s: expected %v, got %v", c.ref.Kind, c.want, err)
		}
		var v *Violation
		if errors.As(err, &v) {
			t.Errorf("%s: not-found must not be a violation", c.ref.Kind)
		}
	}
}

func TestCanMutateForeignResource(t *testing.T) {
	e := testEngine(nil, fakeBoats{"b1": {ID: "b1", OwnerID: "u2"}}, nil, nil, nil)
	err := e.CanMutate(context.Background(), "u1", ResourceRef{Kind: KindBoat, ID: "b1"})
	wantForbidden(t, err, "")
}

func TestCanMutateOwnResource(t *testing.T) {
	e := testEngine(nil, fakeBoats{"b1": {ID: "b1", OwnerID: "u1"}}, nil, nil, nil)
	if err := e.CanMutate(context.Background(), "u1", ResourceRef{Kind: KindBoat, ID: "b1"}); err != nil {
		t.Fatalf("owner denied: %v", err)
	}
}

func TestTripOwnershipResolvesThroughBoat(t *testing.T) {
	boats := fakeBoats{"b1": {ID: "b1", OwnerID: "owner"}}
	trips := fakeTrips{"t1": {ID: "t1", BoatID: "b1", OrganizerID: "organizer"}}
	e := testEngine(nil, boats, trips, nil, nil)

	ref := ResourceRef{Kind: KindTrip, ID: "t1"}
	if err := e.CanMutate(context.Background(), "owner", ref); err != nil {
		t.Fatalf("boat owner denied trip mutation: %v", err)
	}
	// The recorded organizer does not own the boat; ownership is transitive,
	// not nominal.
	wantForbidden(t, e.CanMutate(context.Background(), "organizer", ref), "")
}

func TestCanMutateTripWithMissingBoat(t *testing.T) {
	trips := fakeTrips{"t1": {ID: "t1", BoatID: "gone", OrganizerID: "u1"}}
	e := testEngine(nil, nil, trips, nil, nil)
	err := e.CanMutate(context.Background(), "u1", ResourceRef{Kind: KindTrip, ID: "t1"})
	if !errors.Is(err, repository.ErrBoatNotFound) {
		t.Fatalf("expected ErrBoatNotFound, got %v", err)
	}
}

func TestCanCreateBookingUnknownTrip(t *testing.T) {
	e := testEngine(nil, nil, nil, nil, nil)
	_, err := e.CanCreateBooking(context.Background(), "no-such-trip", "2026-09-01")
	if !errors.Is(err, repository.ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}

func TestCanCreateBookingDateNotOffered(t *testing.T) {
	trips := fakeTrips{"t1": {ID: "t1", StartDates: []string{"2026-09-01"}}}
	e := testEngine(nil, nil, trips, nil, nil)
	_, err := e.CanCreateBooking(context.Background(), "t1", "2026-09-02")
	var v *Violation
	if !errors.As(err, &v) || v.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 violation, got %v", err)
	}
}

func TestCanCreateBookingOfferedDate(t *testing.T) {
	trips := fakeTrips{"t1": {ID: "t1", StartDates: []string{"2026-09-01"}, Price: 80}}
	e := testEngine(nil, nil, trips, nil, nil)
	trip, err := e.CanCreateBooking(context.Background(), "t1", "2026-09-01")
	if err != nil {
		t.Fatalf("offered date rejected: %v", err)
	}
	if trip == nil || trip.Price != 80 {
		t.Fatalf("trip not returned for price derivation: %+v", trip)
	}
}

func TestCanCreateBookingNoPublishedDates(t *testing.T) {
	trips := fakeTrips{"t1": {ID: "t1"}}
	e := testEngine(nil, nil, trips, nil, nil)
	if _, err := e.CanCreateBooking(context.Background(), "t1", "2026-09-01"); err != nil {
		t.Fatalf("trip without published dates must accept any date: %v", err)
	}
}
