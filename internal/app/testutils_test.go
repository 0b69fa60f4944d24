package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Cihanyuksel/ticketing-api/api"
	"github.com/Cihanyuksel/ticketing-api/internal/mailer"
	"github.com/Cihanyuksel/ticketing-api/internal/mocks"
	"github.com/Cihanyuksel/ticketing-api/internal/pricing"
	appvalidator "github.com/Cihanyuksel/ticketing-api/internal/validator"
)

type testMocks struct {
	bookingRepo *mocks.MockBookingRepo
	ticketRepo  *mocks.MockTicketRepo
	sessionRepo *mocks.MockSessionRepo
	venueRepo   *mocks.MockVenueRepo
	locker      *mocks.MockLocker
	occupancy   *mocks.MockOccupancy
	mailer      *mailer.MockMailer
}

func newTestApplication(opts ...func(*Application)) (*Application, *testMocks) {
	m := &testMocks{
		bookingRepo: new(mocks.MockBookingRepo),
		ticketRepo:  new(mocks.MockTicketRepo),
		sessionRepo: new(mocks.MockSessionRepo),
		venueRepo:   new(mocks.MockVenueRepo),
		locker:      new(mocks.MockLocker),
		occupancy:   new(mocks.MockOccupancy),
		mailer:      mailer.NewMockMailer(),
	}

	app := &Application{
		config:      Config{Env: "test", LockTTL: 10 * time.Minute},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		validator:   appvalidator.NewValidator(),
		mailer:      m.mailer,
		bookingRepo: m.bookingRepo,
		ticketRepo:  m.ticketRepo,
		sessionRepo: m.sessionRepo,
		venueRepo:   m.venueRepo,
		locker:      m.locker,
		occupancy:   m.occupancy,
		pricing:     pricing.NewCalculator(m.sessionRepo, m.occupancy, pricing.NewRegistry()),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app, m
}

func executeRequest(t *testing.T, app *Application, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()

	app.Routes().ServeHTTP(w, r)

	return w
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	t.Helper()

	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	switch wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if wantErrMessage != "" && errorResp.Message != wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
