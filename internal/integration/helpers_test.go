package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
	"expiresAt": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

type sessionFixture struct {
	VenueID   uuid.UUID
	SectionID uuid.UUID
	RowID     uuid.UUID
	SeatIDs   []uuid.UUID
	EventID   uuid.UUID
	SessionID uuid.UUID
	PriceID   uuid.UUID
}

// seedSession creates a venue with one section, one row and seatCount seats,
// then schedules a session on it with a single 100 TRY price line.
func seedSession(t testing.TB, testApp *TestApp, seatCount int, strategy string) *sessionFixture {
	t.Helper()

	ctx := context.Background()
	db := testApp.DB
	fixture := &sessionFixture{}

	err := db.QueryRow(ctx,
		`INSERT INTO venues (name, city, district, address, total_capacity)
		 VALUES ('Test Arena', 'Istanbul', 'Kadikoy', 'Bagdat Cd. 1', $1)
		 RETURNING id`, seatCount).Scan(&fixture.VenueID)
	require.NoError(t, err)

	err = db.QueryRow(ctx,
		`INSERT INTO sections (venue_id, name) VALUES ($1, 'A') RETURNING id`,
		fixture.VenueID).Scan(&fixture.SectionID)
	require.NoError(t, err)

	err = db.QueryRow(ctx,
		`INSERT INTO rows (section_id, name) VALUES ($1, '1') RETURNING id`,
		fixture.SectionID).Scan(&fixture.RowID)
	require.NoError(t, err)

	for i := 1; i <= seatCount; i++ {
		var seatID uuid.UUID
		err = db.QueryRow(ctx,
			`INSERT INTO seats (row_id, number) VALUES ($1, $2) RETURNING id`,
			fixture.RowID, i).Scan(&seatID)
		require.NoError(t, err)
		fixture.SeatIDs = append(fixture.SeatIDs, seatID)
	}

	err = db.QueryRow(ctx,
		`INSERT INTO events (name) VALUES ('Test Concert') RETURNING id`).Scan(&fixture.EventID)
	require.NoError(t, err)

	err = db.QueryRow(ctx,
		`INSERT INTO event_sessions (event_id, venue_id, start_time, end_time, pricing_strategy)
		 VALUES ($1, $2, NOW() + INTERVAL '72 hours', NOW() + INTERVAL '75 hours', $3)
		 RETURNING id`,
		fixture.EventID, fixture.VenueID, strategy).Scan(&fixture.SessionID)
	require.NoError(t, err)

	err = db.QueryRow(ctx,
		`INSERT INTO ticket_prices (session_id, name, amount, currency)
		 VALUES ($1, 'Standard', 100, 'TRY') RETURNING id`,
		fixture.SessionID).Scan(&fixture.PriceID)
	require.NoError(t, err)

	return fixture
}

func seedRule(
	t testing.TB,
	testApp *TestApp,
	sessionID uuid.UUID,
	name, ruleType string,
	value float64,
	priority int,
	conditions string) uuid.UUID {

	t.Helper()

	var id uuid.UUID
	err := testApp.DB.QueryRow(context.Background(),
		`INSERT INTO pricing_rules (session_id, name, type, value, conditions, priority)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		sessionID, name, ruleType, value, conditions, priority).Scan(&id)
	require.NoError(t, err)

	return id
}

func bookingStatus(t testing.TB, testApp *TestApp, bookingID uuid.UUID) string {
	t.Helper()

	var status string
	err := testApp.DB.QueryRow(context.Background(),
		`SELECT status FROM bookings WHERE id = $1`, bookingID).Scan(&status)
	require.NoError(t, err)

	return status
}

func ticketCount(t testing.TB, testApp *TestApp, sessionID, seatID uuid.UUID) int {
	t.Helper()

	var count int
	err := testApp.DB.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM tickets
		 WHERE session_id = $1 AND seat_id = $2 AND status <> 'CANCELLED'`,
		sessionID, seatID).Scan(&count)
	require.NoError(t, err)

	return count
}

func lockExists(t testing.TB, testApp *TestApp, sessionID, seatID uuid.UUID) bool {
	t.Helper()

	key := fmt.Sprintf("lock:session:%s:seat:%s", sessionID, seatID)
	n, err := testApp.Redis.Exists(context.Background(), key).Result()
	require.NoError(t, err)

	return n == 1
}
