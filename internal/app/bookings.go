package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Cihanyuksel/ticketing-api/api"
	"github.com/Cihanyuksel/ticketing-api/internal/domain"
	"github.com/Cihanyuksel/ticketing-api/internal/lock"
	"github.com/Cihanyuksel/ticketing-api/internal/pricing"
	"github.com/google/uuid"
)

func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.CreateBookingRequest

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

	lockKey := lock.SeatKey(input.SessionId, input.SeatId)

	token, ok, err := app.locker.Acquire(r.Context(), lockKey, app.config.LockTTL)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !ok {
		app.badRequestResponse(w, r, domain.ErrSeatBusy)
		return
	}

	booking, err := app.reserveSeat(r.Context(), input, token)
	if err != nil {
		// The hold belongs to this request; give the seat back before reporting.
		app.releaseSeatLock(r.Context(), lockKey, token)
		app.domainErrorResponse(w, r, err)
		return
	}

	logger.Info("booking created",
		"booking_id", booking.ID,
		"session_id", booking.SessionID,
		"seat_id", input.SeatId,
	)

	resp := api.BookingResponse{Booking: toApiBooking(booking)}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// reserveSeat runs the post-acquire checks and persists the PENDING booking.
// The caller owns the seat lock and releases it when an error comes back.
func (app *Application) reserveSeat(
	ctx context.Context,
	input api.CreateBookingRequest,
	lockToken string) (*domain.Booking, error) {

	_, err := app.ticketRepo.FindSold(ctx, input.SessionId, input.SeatId)
	if err == nil {
		return nil, domain.ErrSeatAlreadySold
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, err
	}

	_, err = app.bookingRepo.FindActive(ctx, input.SessionId, input.SeatId)
	if err == nil {
		return nil, domain.ErrActiveBookingExists
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, err
	}

	app.settleLapsedHolds(ctx, input.SessionId, input.SeatId)

	breakdown, err := app.pricing.FinalPrice(ctx, input.SessionId, input.PriceId, pricing.UserContext{
		UserID:         input.UserId,
		UserAge:        input.UserAge,
		TicketQuantity: 1,
	})
	if err != nil {
		return nil, err
	}

	seatID := input.SeatId
	booking := &domain.Booking{
		UserID:      input.UserId,
		SessionID:   input.SessionId,
		SeatID:      &seatID,
		Status:      domain.BookingPending,
		TotalAmount: breakdown.FinalPrice,
		ExpiresAt:   time.Now().Add(app.config.LockTTL),
		LockToken:   lockToken,
	}

	err = app.bookingRepo.Create(ctx, booking)
	if err != nil {
		return nil, err
	}

	// The counter only feeds occupancy-based pricing, so a failed bump must
	// not undo a persisted booking.
	err = app.occupancy.Increment(ctx, booking.SessionID)
	if err != nil {
		app.logger.Warn("failed to increment booked count",
			"session_id", booking.SessionID, "error", err)
	}

	return booking, nil
}

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.bookingRepo.GetById(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.BookingResponse{Booking: toApiBooking(booking)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	id, err := app.readUUIDParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.bookingRepo.GetById(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	// Only a pending hold can be cancelled; the seat lock of anything else
	// is not this request's to touch.
	if booking.Status != domain.BookingPending {
		app.badRequestResponse(w, r, domain.ErrBookingNotPending)
		return
	}

	booking.Status = domain.BookingCancelled

	err = app.bookingRepo.Update(r.Context(), booking)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if booking.SeatID != nil {
		err = app.releaseSeatLock(r.Context(), lock.SeatKey(booking.SessionID, *booking.SeatID), booking.LockToken)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	err = app.occupancy.Decrement(r.Context(), booking.SessionID)
	if err != nil {
		app.logger.Warn("failed to decrement booked count",
			"session_id", booking.SessionID, "error", err)
	}

	logger.Info("booking cancelled", "booking_id", booking.ID)

	w.WriteHeader(http.StatusNoContent)
}

// settleLapsedHolds retires expired PENDING holds on the seat and settles the
// occupancy counter for each, since a hold that lapsed without an explicit
// cancel never gave its increment back. Failures are logged and swallowed;
// counter hygiene must not block a fresh booking.
func (app *Application) settleLapsedHolds(ctx context.Context, sessionID, seatID uuid.UUID) {
	retired, err := app.bookingRepo.RetireExpired(ctx, sessionID, seatID)
	if err != nil {
		app.logger.Warn("failed to retire expired bookings",
			"session_id", sessionID, "seat_id", seatID, "error", err)
		return
	}

	for i := int64(0); i < retired; i++ {
		err = app.occupancy.Decrement(ctx, sessionID)
		if err != nil {
			app.logger.Warn("failed to decrement booked count",
				"session_id", sessionID, "error", err)
			return
		}
	}
}

// releaseSeatLock releases the hold and logs a failure before returning it;
// the lock's TTL bounds how long a failed release can wedge the seat.
func (app *Application) releaseSeatLock(ctx context.Context, key, token string) error {
	err := app.locker.Release(ctx, key, token)
	if err != nil {
		app.logger.Error("failed to release seat lock", "lock_key", key, "error", err)
		return err
	}

	return nil
}

func toApiBooking(booking *domain.Booking) api.Booking {
	return api.Booking{
		Id:          booking.ID,
		SessionId:   booking.SessionID,
		SeatId:      booking.SeatID,
		UserId:      booking.UserID,
		Status:      string(booking.Status),
		TotalAmount: booking.TotalAmount,
		ExpiresAt:   booking.ExpiresAt,
		CreatedAt:   booking.CreatedAt,
	}
}
