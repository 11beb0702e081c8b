package rules

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fisherfans/fisherfans-api/internal/repository"
)

// Enumerated field values. The API rejects anything outside these sets.
var (
	userStatuses  = enumSet("individual", "professional")
	activityTypes = enumSet("rental", "fishing_guide")
	boatTypes     = enumSet("open", "cabin", "catamaran", "sailboat", "jet_ski", "canoe")
	licenseTypes  = enumSet("coastal", "river")
	engineTypes   = enumSet("diesel", "gasoline", "none")
	equipmentTags = enumSet("sounder", "livewell", "ladder", "gps", "rod_holder", "vhf_radio")
	tripTypes     = enumSet("daily", "recurring")
	pricingTypes  = enumSet("total", "per_person")
)

var (
	emailRx     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	licenseRx   = regexp.MustCompile(`^\d{8}$`)
	insuranceRx = regexp.MustCompile(`^[A-Z0-9]{12}$`)
	postalRx    = regexp.MustCompile(`^\d{5}$`)
	timeRx      = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

func enumSet(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidatePassword enforces the minimum password length applied at
// registration and on password changes.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return invalid("password must be at least 8 characters")
	}
	return nil
}

// ValidateUser checks the field-level invariants of a user record: required
// identity fields, email syntax, enumerated status/activity values, and the
// fixed formats of the license, insurance and postal numbers when present.
func ValidateUser(u *repository.User) error {
	if strings.TrimSpace(u.LastName) == "" || strings.TrimSpace(u.FirstName) == "" {
		return invalid("lastName and firstName are required")
	}
	if !emailRx.MatchString(u.Email) {
		return invalid("email is not valid")
	}
	if strings.TrimSpace(u.City) == "" {
		return invalid("city is required")
	}
	if !userStatuses[u.Status] {
		return invalid("status must be individual or professional")
	}
	if u.BoatLicenseNumber != "" && !licenseRx.MatchString(u.BoatLicenseNumber) {
		return invalid("boatLicenseNumber must be 8 digits")
	}
	if u.InsuranceNumber != "" && !insuranceRx.MatchString(u.InsuranceNumber) {
		return invalid("insuranceNumber must be 12 alphanumeric characters")
	}
	if u.ActivityType != "" && !activityTypes[u.ActivityType] {
		return invalid("activityType must be rental or fishing_guide")
	}
	if u.PostalCode != "" && !postalRx.MatchString(u.PostalCode) {
		return invalid("postalCode must be 5 digits")
	}
	if u.BirthDate != "" && !validDate(u.BirthDate) {
		return invalid("birthDate must be formatted YYYY-MM-DD")
	}
	return nil
}

// ValidateBoat checks the field-level invariants of a boat: required name,
// type and home port, a strictly positive capacity, enumerated type fields,
// known equipment tags, a non-negative deposit, and coordinates supplied as
// a pair or not at all.
func ValidateBoat(b *repository.Boat) error {
	if strings.TrimSpace(b.Name) == "" {
		return invalid("name is required")
	}
	if !boatTypes[b.BoatType] {
		return invalid("boatType must be one of open, cabin, catamaran, sailboat, jet_ski, canoe")
	}
	if b.MaxCapacity <= 0 {
		return invalid("maxCapacity must be greater than 0")
	}
	if strings.TrimSpace(b.HomePort) == "" {
		return invalid("homePort is required")
	}
	for _, tag := range b.Equipment {
		if !equipmentTags[tag] {
			return invalid(fmt.Sprintf("unknown equipment tag %q", tag))
		}
	}
	if b.Deposit < 0 {
		return invalid("deposit must not be negative")
	}
	if b.LicenseType != "" && !licenseTypes[b.LicenseType] {
		return invalid("licenseType must be coastal or river")
	}
	if b.EngineType != "" && !engineTypes[b.EngineType] {
		return invalid("engineType must be diesel, gasoline or none")
	}
	if (b.Latitude == nil) != (b.Longitude == nil) {
		return invalid("latitude and longitude must be provided together")
	}
	return nil
}

// ValidateTrip checks the field-level invariants of a trip: required title,
// enumerated type/pricing values, at least one passenger, a non-negative
// price, well-formed dates and times, and parallel arrays of equal length.
func ValidateTrip(t *repository.Trip) error {
	if strings.TrimSpace(t.Title) == "" {
		return invalid("title is required")
	}
	if !tripTypes[t.TripType] {
		return invalid("tripType must be daily or recurring")
	}
	if !pricingTypes[t.PricingType] {
		return invalid("pricingType must be total or per_person")
	}
	if t.PassengerCount < 1 {
		return invalid("passengerCount must be at least 1")
	}
	if t.Price < 0 {
		return invalid("price must not be negative")
	}
	for _, d := range append(append([]string{}, t.StartDates...), t.EndDates...) {
		if !validDate(d) {
			return invalid("trip dates must be formatted YYYY-MM-DD")
		}
	}
	for _, hm := range append(append([]string{}, t.StartTimes...), t.EndTimes...) {
		if !timeRx.MatchString(hm) {
			return invalid("trip times must be formatted HH:MM")
		}
	}
	if len(t.EndDates) > 0 && len(t.EndDates) != len(t.StartDates) {
		return invalid("startDates and endDates must have the same length")
	}
	if len(t.EndTimes) > 0 && len(t.EndTimes) != len(t.StartTimes) {
		return invalid("startTimes and endTimes must have the same length")
	}
	return nil
}

// ValidateBooking checks the field-level invariants of a booking; whether
// the selected date is actually offered by the trip is a referential rule
// checked by CanCreateBooking.
func ValidateBooking(b *repository.Booking) error {
	if strings.TrimSpace(b.TripID) == "" {
		return invalid("tripId is required")
	}
	if b.Seats < 1 {
		return invalid("seats must be at least 1")
	}
	if !validDate(b.SelectedDate) {
		return invalid("selectedDate must be formatted YYYY-MM-DD")
	}
	return nil
}

// ValidateEntry checks the field-level invariants of a logbook entry.
func ValidateEntry(e *repository.LogbookEntry) error {
	if strings.TrimSpace(e.FishSpecies) == "" {
		return invalid("fishSpecies is required")
	}
	if !validDate(e.FishingDate) {
		return invalid("fishingDate must be formatted YYYY-MM-DD")
	}
	if e.Length < 0 || e.Weight < 0 {
		return invalid("length and weight must not be negative")
	}
	return nil
}
