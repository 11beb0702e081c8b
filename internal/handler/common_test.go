package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fisherfans/fisherfans-api/internal/repository"
	"github.com/fisherfans/fisherfans-api/internal/rules"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if herr := respondError(c, err); herr != nil {
		t.Fatalf("respondError returned %v", herr)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return rec, body
}

func TestRespondErrorNotFoundSentinels(t *testing.T) {
	for _, sentinel := range []error{
		repository.ErrUserNotFound,
		repository.ErrBoatNotFound,
		repository.ErrTripNotFound,
		repository.ErrBookingNotFound,
		repository.ErrEntryNotFound,
	} {
		rec, body := respond(t, sentinel)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%v: expected 404, got %d", sentinel, rec.Code)
		}
		if body["error"] == "" {
			t.Errorf("%v: missing error message", sentinel)
		}
	}
}

func TestRespondErrorEmailConflict(t *testing.T) {
	rec, _ := respond(t, repository.ErrEmailExists)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestRespondErrorInvalidRefresh(t *testing.T) {
	rec, _ := respond(t, repository.ErrInvalidRefresh)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRespondErrorViolationWithBusinessCode(t *testing.T) {
	v := &rules.Violation{
		Status:       http.StatusForbidden,
		BusinessCode: rules.CodePermitRequired,
		Message:      "a boat license is required to create a boat",
	}
	rec, body := respond(t, v)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if body["businessCode"] != rules.CodePermitRequired {
		t.Fatalf("businessCode missing from body: %v", body)
	}
	if body["error"] != v.Message {
		t.Fatalf("wrong error message: %v", body["error"])
	}
}

func TestRespondErrorViolationWithoutBusinessCode(t *testing.T) {
	v := &rules.Violation{Status: http.StatusForbidden, Message: "forbidden"}
	rec, body := respond(t, v)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if _, present := body["businessCode"]; present {
		t.Fatal("businessCode must be omitted when empty")
	}
}

func TestRespondErrorUnknownIsInternal(t *testing.T) {
	rec, _ := respond(t, errors.New("driver: bad connection"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestTotalPriceFor(t *testing.T) {
	// The total is always price times seats, whatever the pricing label says.
	perPerson := &repository.Trip{PricingType: "per_person", Price: 50}
	if got := totalPriceFor(perPerson, 3); got != 150 {
		t.Errorf("per_person: expected 150, got %v", got)
	}
	flat := &repository.Trip{PricingType: "total", Price: 200}
	if got := totalPriceFor(flat, 3); got != 600 {
		t.Errorf("total: expected 600, got %v", got)
	}
	if got := totalPriceFor(flat, 1); got != 200 {
		t.Errorf("single seat: expected 200, got %v", got)
	}
}
