package rules

import (
	"context"

	"github.com/fisherfans/fisherfans-api/internal/repository"
)

// ResourceKind tags the resource variant a permission check refers to.
type ResourceKind string

const (
	KindUser    ResourceKind = "user"
	KindBoat    ResourceKind = "boat"
	KindTrip    ResourceKind = "trip"
	KindBooking ResourceKind = "booking"
	KindLogbook ResourceKind = "logbook entry"
)

// ResourceRef names one resource for an ownership check.
type ResourceRef struct {
	Kind ResourceKind
	ID   string
}

// OwnerOf resolves the controlling user of a resource. Every resource has
// exactly one owner: a boat belongs to its creator, a trip to the owner of
// its boat (one hop), a booking to the passenger, a logbook entry to its
// author, and a user controls itself. A reference that does not resolve
// returns the entity's not-found sentinel, which is why callers observe
// NotFound before Forbidden: existence is decided here, ownership only
// afterwards in CanMutate.
func (e *Engine) OwnerOf(ctx context.Context, ref ResourceRef) (string, error) {
	switch ref.Kind {
	case KindUser:
		u, err := e.Users.GetByID(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return u.ID, nil
	case KindBoat:
		b, err := e.Boats.GetByID(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return b.OwnerID, nil
	case KindTrip:
		t, err := e.Trips.GetByID(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		b, err := e.Boats.GetByID(ctx, t.BoatID)
		if err != nil {
			return "", err
		}
		return b.OwnerID, nil
	case KindBooking:
		b, err := e.Bookings.GetByID(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return b.UserID, nil
	case KindLogbook:
		entry, err := e.Logbook.GetByID(ctx, ref.ID)
		if err != nil {
			return "", err
		}
		return entry.UserID, nil
	}
	return "", repository.ErrForbidden
}

// Owns reports whether the actor controls the resource. A reference that
// does not exist is never owned; the not-found error is surfaced so callers
// can distinguish it from a plain mismatch.
func (e *Engine) Owns(ctx context.Context, actorID string, ref ResourceRef) (bool, error) {
	owner, err := e.OwnerOf(ctx, ref)
	if err != nil {
		return false, err
	}
	return owner == actorID, nil
}

// CanMutate is the owner-only-mutation rule shared by every update/delete:
// the resource must exist (not-found propagates as such) and must belong to
// the actor.
func (e *Engine) CanMutate(ctx context.Context, actorID string, ref ResourceRef) error {
	owner, err := e.OwnerOf(ctx, ref)
	if err != nil {
		return err
	}
	if owner != actorID {
		return forbidden("", "you can only modify your own "+string(ref.Kind))
	}
	return nil
}
