package app

import (
	"net/http"

	"github.com/Cihanyuksel/ticketing-api/api"
	"github.com/Cihanyuksel/ticketing-api/internal/domain"
	"github.com/Cihanyuksel/ticketing-api/internal/lock"
	"github.com/go-chi/chi/v5"
)

func (app *Application) IssueTicketHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	bookingID, err := app.readUUIDParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.IssueTicketRequest

	if r.ContentLength != 0 {
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
	}

	ticket, booking, err := app.ticketRepo.Issue(r.Context(), bookingID)
	if err != nil {
		// The booking's seat hold stays in place so the buyer can retry.
		app.domainErrorResponse(w, r, err)
		return
	}

	// The sale is committed; a failed release only wedges the seat key until
	// its TTL runs out, so it must not fail the request.
	if booking.SeatID != nil {
		app.releaseSeatLock(r.Context(), lock.SeatKey(booking.SessionID, *booking.SeatID), booking.LockToken)
	}

	logger.Info("ticket issued",
		"ticket_id", ticket.ID,
		"booking_id", booking.ID,
		"reference_code", ticket.ReferenceCode,
	)

	if input.NotifyEmail != nil {
		app.sendTicketConfirmation(*input.NotifyEmail, ticket)
	}

	resp := api.TicketResponse{Ticket: toApiTicket(ticket)}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) sendTicketConfirmation(recipient string, ticket *domain.Ticket) {
	data := map[string]any{
		"ReferenceCode": ticket.ReferenceCode,
		"Price":         ticket.Price,
		"Currency":      ticket.Currency,
		"PurchasedAt":   ticket.PurchasedAt,
	}

	app.background(func() {
		err := app.mailer.Send(recipient, "ticket_confirmation.tmpl", data)
		if err != nil {
			app.logger.Error("failed to send ticket confirmation email",
				"ticket_id", ticket.ID, "error", err)
		}
	})
}

func (app *Application) GetTicketHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r, "ticketID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ticket, err := app.ticketRepo.GetById(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.TicketResponse{Ticket: toApiTicket(ticket)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTicketByReferenceHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	ticket, err := app.ticketRepo.GetByReferenceCode(r.Context(), code)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.TicketResponse{Ticket: toApiTicket(ticket)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiTicket(ticket *domain.Ticket) api.Ticket {
	return api.Ticket{
		Id:            ticket.ID,
		BookingId:     ticket.BookingID,
		SessionId:     ticket.SessionID,
		SeatId:        ticket.SeatID,
		UserId:        ticket.UserID,
		Price:         ticket.Price,
		Currency:      ticket.Currency,
		Status:        string(ticket.Status),
		ReferenceCode: ticket.ReferenceCode,
		PurchasedAt:   ticket.PurchasedAt,
	}
}
