package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Cihanyuksel/ticketing-api/api"
	"github.com/Cihanyuksel/ticketing-api/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const venueCacheTTL = time.Hour

func venueCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("venue:%s:details", id)
}

func (app *Application) CreateVenueHandler(w http.ResponseWriter, r *http.Request) {
	var input api.CreateVenueRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	venue := &domain.Venue{
		Name:     input.Name,
		City:     input.City,
		District: input.District,
		Address:  input.Address,
	}

	err = app.venueRepo.Create(r.Context(), venue)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.VenueResponse{Venue: toApiVenue(venue)}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/venues/%s", venue.ID))

	err = app.writeJSON(w, http.StatusCreated, resp, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetVenueHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	id, err := app.readUUIDParam(r, "venueID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if venue, ok := app.cachedVenue(r, id); ok {
		resp := api.VenueResponse{Venue: toApiVenue(venue)}
		err = app.writeJSON(w, http.StatusOK, resp, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	venue, err := app.venueRepo.GetByIdWithLayout(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	app.cacheVenue(r, venue)
	logger.Info("venue cached", "venue_id", venue.ID)

	resp := api.VenueResponse{Venue: toApiVenue(venue)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// cachedVenue reads the venue from Redis; any failure falls through to the
// database.
func (app *Application) cachedVenue(r *http.Request, id uuid.UUID) (*domain.Venue, bool) {
	payload, err := app.redis.Get(r.Context(), venueCacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			app.contextGetLogger(r).Warn("failed to read venue cache", "venue_id", id, "error", err)
		}
		return nil, false
	}

	var venue domain.Venue
	err = json.Unmarshal(payload, &venue)
	if err != nil {
		app.contextGetLogger(r).Warn("corrupt venue cache entry", "venue_id", id, "error", err)
		return nil, false
	}

	return &venue, true
}

func (app *Application) cacheVenue(r *http.Request, venue *domain.Venue) {
	payload, err := json.Marshal(venue)
	if err != nil {
		app.contextGetLogger(r).Warn("failed to marshal venue for cache", "venue_id", venue.ID, "error", err)
		return
	}

	err = app.redis.Set(r.Context(), venueCacheKey(venue.ID), payload, venueCacheTTL).Err()
	if err != nil {
		app.contextGetLogger(r).Warn("failed to write venue cache", "venue_id", venue.ID, "error", err)
	}
}

func (app *Application) CreateSeatsHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := app.readUUIDParam(r, "venueID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sectionID, err := app.readUUIDParam(r, "sectionID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	rowID, err := app.readUUIDParam(r, "rowID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateSeatsRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	seats, err := app.venueRepo.CreateSeatsBulk(r.Context(), venueID, sectionID, rowID, input.Count)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	// The cached layout no longer matches; drop it rather than rebuild it.
	err = app.redis.Del(r.Context(), venueCacheKey(venueID)).Err()
	if err != nil {
		app.contextGetLogger(r).Warn("failed to invalidate venue cache", "venue_id", venueID, "error", err)
	}

	resp := api.SeatsResponse{Seats: toApiSeats(seats)}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiVenue(venue *domain.Venue) api.Venue {
	sections := make([]api.Section, len(venue.Sections))
	for i, section := range venue.Sections {
		rows := make([]api.Row, len(section.Rows))
		for j, row := range section.Rows {
			rows[j] = api.Row{
				Id:    row.ID,
				Name:  row.Name,
				Seats: toApiSeats(row.Seats),
			}
		}

		sections[i] = api.Section{
			Id:   section.ID,
			Name: section.Name,
			Rows: rows,
		}
	}

	return api.Venue{
		Id:            venue.ID,
		Name:          venue.Name,
		City:          venue.City,
		District:      venue.District,
		Address:       venue.Address,
		TotalCapacity: venue.TotalCapacity,
		Sections:      sections,
	}
}

func toApiSeats(seats []domain.Seat) []api.Seat {
	apiSeats := make([]api.Seat, len(seats))
	for i, seat := range seats {
		apiSeats[i] = api.Seat{
			Id:     seat.ID,
			Number: seat.Number,
		}
	}

	return apiSeats
}
