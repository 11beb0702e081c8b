package geo

import (
	"errors"
	"testing"

	"github.com/fisherfans/fisherfans-api/internal/repository"
)

func TestParseBoundsAllEmpty(t *testing.T) {
	b, err := ParseBounds("", "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != nil {
		t.Fatalf("expected nil bounds, got %+v", b)
	}
}

func TestParseBoundsPartialIsNoFilter(t *testing.T) {
	// Only some of the four params supplied: treated as no filter.
	cases := [][4]string{
		{"43.5", "", "", ""},
		{"43.5", "43.8", "", ""},
		{"43.5", "43.8", "7.0", ""},
		{"", "43.8", "7.0", "7.5"},
	}
	for _, c := range cases {
		b, err := ParseBounds(c[0], c[1], c[2], c[3])
		if err != nil {
			t.Fatalf("ParseBounds(%v): unexpected error %v", c, err)
		}
		if b != nil {
			t.Fatalf("ParseBounds(%v): expected nil bounds, got %+v", c, b)
		}
	}
}

func TestParseBoundsComplete(t *testing.T) {
	b, err := ParseBounds("43.5", "43.8", "7.0", "7.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b == nil {
		t.Fatal("expected bounds, got nil")
	}
	if b.MinLat != 43.5 || b.MaxLat != 43.8 || b.MinLng != 7.0 || b.MaxLng != 7.5 {
		t.Fatalf("wrong bounds: %+v", b)
	}
}

func TestParseBoundsInverted(t *testing.T) {
	if _, err := ParseBounds("43.8", "43.5", "7.0", "7.5"); !errors.Is(err, ErrInvalidBounds) {
		t.Fatalf("expected ErrInvalidBounds for inverted latitude, got %v", err)
	}
	if _, err := ParseBounds("43.5", "43.8", "7.5", "7.0"); !errors.Is(err, ErrInvalidBounds) {
		t.Fatalf("expected ErrInvalidBounds for inverted longitude, got %v", err)
	}
}

func TestParseBoundsNotANumber(t *testing.T) {
	if _, err := ParseBounds("abc", "43.8", "7.0", "7.5"); err == nil {
		t.Fatal("expected error for non-numeric coordinate")
	}
}

func TestContainsBordersIncluded(t *testing.T) {
	b := &Bounds{MinLat: 43.5, MaxLat: 43.8, MinLng: 7.0, MaxLng: 7.5}
	if !b.Contains(43.5, 7.0) {
		t.Error("min corner should be inside")
	}
	if !b.Contains(43.8, 7.5) {
		t.Error("max corner should be inside")
	}
	if b.Contains(43.49, 7.2) {
		t.Error("point below min latitude should be outside")
	}
	if b.Contains(43.6, 7.51) {
		t.Error("point beyond max longitude should be outside")
	}
}

func f(v float64) *float64 { return &v }

func boatAt(name string, lat, lng *float64) *repository.Boat {
	return &repository.Boat{Name: name, Latitude: lat, Longitude: lng}
}

func TestFilterBoats(t *testing.T) {
	nice := boatAt("nice", f(43.7102), f(7.2620))
	marseille := boatAt("marseille", f(43.2965), f(5.3698))
	monaco := boatAt("monaco", f(43.7384), f(7.4246))
	noCoords := boatAt("dry-dock", nil, nil)
	boats := []*repository.Boat{nice, marseille, monaco, noCoords}

	box := &Bounds{MinLat: 43.5, MaxLat: 43.8, MinLng: 7.0, MaxLng: 7.5}
	got := FilterBoats(boats, box)

	if len(got) != 2 {
		t.Fatalf("expected 2 boats, got %d", len(got))
	}
	if got[0].Name != "nice" || got[1].Name != "monaco" {
		t.Fatalf("wrong boats kept: %s, %s", got[0].Name, got[1].Name)
	}
}

func TestFilterBoatsNilBoxReturnsInput(t *testing.T) {
	boats := []*repository.Boat{boatAt("a", nil, nil), boatAt("b", f(1), f(2))}
	got := FilterBoats(boats, nil)
	if len(got) != 2 {
		t.Fatalf("nil box must not filter, got %d boats", len(got))
	}
}

func TestFilterBoatsExcludesMissingCoordinates(t *testing.T) {
	boats := []*repository.Boat{boatAt("half", f(43.6), nil)}
	box := &Bounds{MinLat: 0, MaxLat: 90, MinLng: -180, MaxLng: 180}
	if got := FilterBoats(boats, box); len(got) != 0 {
		t.Fatalf("boat with partial coordinates must be excluded, got %d", len(got))
	}
}

func TestFilterBoatsIdempotent(t *testing.T) {
	boats := []*repository.Boat{boatAt("nice", f(43.7102), f(7.2620))}
	box := &Bounds{MinLat: 43.5, MaxLat: 43.8, MinLng: 7.0, MaxLng: 7.5}
	once := FilterBoats(boats, box)
	twice := FilterBoats(once, box)
	if len(once) != len(twice) {
		t.Fatalf("filtering twice changed the result: %d vs %d", len(once), len(twice))
	}
}
