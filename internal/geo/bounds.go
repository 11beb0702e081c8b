// Package geo implements the geographic bounding-box filter applied to boat
// listings. The attribute filters of a search run in SQL; the box predicate
// is evaluated here, over the already-filtered rows, so the behavior is a
// pure function that can be exercised without a database.
package geo

import (
	"errors"
	"strconv"
)

// Bounds is a rectangular region in latitude/longitude defined by min/max
// pairs on each axis.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// ErrInvalidBounds is returned for a box whose minimum exceeds its maximum
// on either axis. Handlers translate it into a 400 response.
var ErrInvalidBounds = errors.New("invalid bounding box: min exceeds max")

// ParseBounds builds a Bounds from the four raw query parameters. The box is
// applied only when all four are supplied: a partial set is deliberately
// treated as "no geographic filter" rather than an error, so clients probing
// with incomplete coordinates get an unfiltered listing back. An unparsable
// number or an inverted box is rejected.
func ParseBounds(minLat, maxLat, minLng, maxLng string) (*Bounds, error) {
	if minLat == "" || maxLat == "" || minLng == "" || maxLng == "" {
		return nil, nil
	}
	vals := [4]float64{}
	for i, raw := range [4]string{minLat, maxLat, minLng, maxLng} {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("invalid bounding box: coordinates must be numbers")
		}
		vals[i] = f
	}
	b := &Bounds{MinLat: vals[0], MaxLat: vals[1], MinLng: vals[2], MaxLng: vals[3]}
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		return nil, ErrInvalidBounds
	}
	return b, nil
}

// Contains reports whether the point lies inside the box, borders included.
func (b *Bounds) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}
