package rules

import (
	"errors"
	"net/http"
	"testing"

	"github.com/fisherfans/fisherfans-api/internal/repository"
)

func validUser() *repository.User {
	return &repository.User{
		LastName:  "Martin",
		FirstName: "Sophie",
		Email:     "sophie.martin@example.com",
		City:      "Nice",
		Status:    "individual",
	}
}

func wantInvalid(t *testing.T, err error) {
	t.Helper()
	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected a rule violation, got %v", err)
	}
	if v.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 violation, got %d", v.Status)
	}
}

func TestValidateUserOK(t *testing.T) {
	if err := ValidateUser(validUser()); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}
}

func TestValidateUserRejections(t *testing.T) {
	cases := map[string]func(u *repository.User){
		"missing last name": func(u *repository.User) { u.LastName = " " },
		"bad email":         func(u *repository.User) { u.Email = "not-an-email" },
		"missing city":      func(u *repository.User) { u.City = "" },
		"unknown status":    func(u *repository.User) { u.Status = "admin" },
		"short license":     func(u *repository.User) { u.BoatLicenseNumber = "1234" },
		"bad insurance":     func(u *repository.User) { u.InsuranceNumber = "abc" },
		"bad activity":      func(u *repository.User) { u.ActivityType = "sailing" },
		"bad postal code":   func(u *repository.User) { u.PostalCode = "060" },
		"bad birth date":    func(u *repository.User) { u.BirthDate = "31-12-1990" },
	}
	for name, mutate := range cases {
		u := validUser()
		mutate(u)
		err := ValidateUser(u)
		if err == nil {
			t.Errorf("%s: expected rejection", name)
			continue
		}
		wantInvalid(t, err)
	}
}

func TestValidateUserOptionalFieldsAccepted(t *testing.T) {
	u := validUser()
	u.BoatLicenseNumber = "12345678"
	u.InsuranceNumber = "ABC123456789"
	u.PostalCode = "06000"
	u.BirthDate = "1990-12-31"
	u.ActivityType = "rental"
	if err := ValidateUser(u); err != nil {
		t.Fatalf("well-formed optional fields rejected: %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Error("short password accepted")
	}
	if err := ValidatePassword("longenough"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}
}

func validBoat() *repository.Boat {
	return &repository.Boat{
		Name:        "Blue Marlin",
		BoatType:    "open",
		MaxCapacity: 6,
		HomePort:    "Nice",
	}
}

func TestValidateBoatOK(t *testing.T) {
	if err := ValidateBoat(validBoat()); err != nil {
		t.Fatalf("valid boat rejected: %v", err)
	}
}

func TestValidateBoatRejections(t *testing.T) {
	lat := 43.7
	cases := map[string]func(b *repository.Boat){
		"missing name":      func(b *repository.Boat) { b.Name = "" },
		"unknown type":      func(b *repository.Boat) { b.BoatType = "submarine" },
		"zero capacity":     func(b *repository.Boat) { b.MaxCapacity = 0 },
		"missing home port": func(b *repository.Boat) { b.HomePort = "" },
		"unknown equipment": func(b *repository.Boat) { b.Equipment = []string{"cannon"} },
		"negative deposit":  func(b *repository.Boat) { b.Deposit = -1 },
		"bad license type":  func(b *repository.Boat) { b.LicenseType = "ocean" },
		"bad engine type":   func(b *repository.Boat) { b.EngineType = "steam" },
		"lone latitude":     func(b *repository.Boat) { b.Latitude = &lat },
	}
	for name, mutate := range cases {
		b := validBoat()
		mutate(b)
		err := ValidateBoat(b)
		if err == nil {
			t.Errorf("%s: expected rejection", name)
			continue
		}
		wantInvalid(t, err)
	}
}

func validTrip() *repository.Trip {
	return &repository.Trip{
		BoatID:         "some-boat",
		Title:          "Tuna hunt",
		TripType:       "daily",
		PricingType:    "per_person",
		StartDates:     []string{"2026-09-01", "2026-09-08"},
		StartTimes:     []string{"08:00", "08:00"},
		PassengerCount: 4,
		Price:          120,
	}
}

func TestValidateTripOK(t *testing.T) {
	if err := ValidateTrip(validTrip()); err != nil {
		t.Fatalf("valid trip rejected: %v", err)
	}
}

func TestValidateTripRejections(t *testing.T) {
	cases := map[string]func(tr *repository.Trip){
		"missing title":     func(tr *repository.Trip) { tr.Title = "" },
		"unknown trip type": func(tr *repository.Trip) { tr.TripType = "weekly" },
		"unknown pricing":   func(tr *repository.Trip) { tr.PricingType = "auction" },
		"zero passengers":   func(tr *repository.Trip) { tr.PassengerCount = 0 },
		"negative price":    func(tr *repository.Trip) { tr.Price = -5 },
		"bad date":          func(tr *repository.Trip) { tr.StartDates = []string{"01/09/2026"} },
		"bad time":          func(tr *repository.Trip) { tr.StartTimes = []string{"8am"} },
		"ragged end dates":  func(tr *repository.Trip) { tr.EndDates = []string{"2026-09-02"} },
	}
	for name, mutate := range cases {
		tr := validTrip()
		mutate(tr)
		err := ValidateTrip(tr)
		if err == nil {
			t.Errorf("%s: expected rejection", name)
			continue
		}
		wantInvalid(t, err)
	}
}

func TestValidateBooking(t *testing.T) {
	b := &repository.Booking{TripID: "t1", SelectedDate: "2026-09-01", Seats: 2}
	if err := ValidateBooking(b); err != nil {
		t.Fatalf("valid booking rejected: %v", err)
	}
	b.Seats = 0
	wantInvalid(t, ValidateBooking(b))
	b.Seats = 2
	b.SelectedDate = "tomorrow"
	wantInvalid(t, ValidateBooking(b))
	b.SelectedDate = "2026-09-01"
	b.TripID = ""
	wantInvalid(t, ValidateBooking(b))
}

func TestValidateEntry(t *testing.T) {
	e := &repository.LogbookEntry{FishSpecies: "sea bass", FishingDate: "2026-08-15"}
	if err := ValidateEntry(e); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}
	e.FishSpecies = " "
	wantInvalid(t, ValidateEntry(e))
	e.FishSpecies = "sea bass"
	e.Weight = -1
	wantInvalid(t, ValidateEntry(e))
}

func TestTripOffersDate(t *testing.T) {
	tr := validTrip()
	if !tr.OffersDate("2026-09-08") {
		t.Error("published date not recognized")
	}
	if tr.OffersDate("2026-09-02") {
		t.Error("unpublished date accepted")
	}
}
