package geo

import (
	"github.com/fisherfans/fisherfans-api/internal/repository"
)

// FilterBoats returns the boats that fall inside the box. A nil box means no
// geographic filtering and the input is returned untouched. Boats without
// coordinates are excluded from filtered results only: they cannot be placed
// inside or outside any box, but remain visible in plain listings.
func FilterBoats(boats []*repository.Boat, b *Bounds) []*repository.Boat {
	if b == nil {
		return boats
	}
	out := make([]*repository.Boat, 0, len(boats))
	for _, boat := range boats {
		if boat.Latitude == nil || boat.Longitude == nil {
			continue
		}
		if b.Contains(*boat.Latitude, *boat.Longitude) {
			out = append(out, boat)
		}
	}
	return out
}
