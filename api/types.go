// Package api holds the request and response types of the HTTP surface.
package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type CreateBookingRequest struct {
	SessionId uuid.UUID `json:"sessionId" validate:"required"`
	SeatId    uuid.UUID `json:"seatId" validate:"required"`
	UserId    uuid.UUID `json:"userId" validate:"required"`
	PriceId   uuid.UUID `json:"priceId" validate:"required"`
	UserAge   *int      `json:"userAge,omitempty" validate:"omitempty,min=0,max=120"`
}

type Booking struct {
	Id          uuid.UUID       `json:"id"`
	SessionId   uuid.UUID       `json:"sessionId"`
	SeatId      *uuid.UUID      `json:"seatId,omitempty"`
	UserId      uuid.UUID       `json:"userId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type BookingResponse struct {
	Booking Booking `json:"booking"`
}

type IssueTicketRequest struct {
	NotifyEmail *string `json:"notifyEmail,omitempty" validate:"omitempty,email"`
}

type Ticket struct {
	Id            uuid.UUID       `json:"id"`
	BookingId     uuid.UUID       `json:"bookingId"`
	SessionId     uuid.UUID       `json:"sessionId"`
	SeatId        uuid.UUID       `json:"seatId"`
	UserId        uuid.UUID       `json:"userId"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	ReferenceCode string          `json:"referenceCode"`
	PurchasedAt   time.Time       `json:"purchasedAt"`
}

type TicketResponse struct {
	Ticket Ticket `json:"ticket"`
}

type PriceQuoteRequest struct {
	PriceId        uuid.UUID  `json:"priceId" validate:"required"`
	UserId         *uuid.UUID `json:"userId,omitempty"`
	UserAge        *int       `json:"userAge,omitempty" validate:"omitempty,min=0,max=120"`
	TicketQuantity int        `json:"ticketQuantity" validate:"required,min=1"`
	PurchaseDate   *time.Time `json:"purchaseDate,omitempty"`
}

type AppliedRule struct {
	RuleId   uuid.UUID       `json:"ruleId"`
	Name     string          `json:"name"`
	Discount decimal.Decimal `json:"discount"`
}

type PriceQuoteResponse struct {
	BasePrice       decimal.Decimal `json:"basePrice"`
	StrategyPrice   decimal.Decimal `json:"strategyPrice"`
	FinalPrice      decimal.Decimal `json:"finalPrice"`
	Currency        string          `json:"currency"`
	AppliedStrategy string          `json:"appliedStrategy"`
	AppliedRules    []AppliedRule   `json:"appliedRules"`
	TotalDiscount   decimal.Decimal `json:"totalDiscount"`
}

type SessionPrice struct {
	PriceId         uuid.UUID       `json:"priceId"`
	Name            string          `json:"name"`
	SectionId       *uuid.UUID      `json:"sectionId,omitempty"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	CalculatedPrice decimal.Decimal `json:"calculatedPrice"`
	Currency        string          `json:"currency"`
}

type SessionPricesResponse struct {
	SessionId uuid.UUID      `json:"sessionId"`
	Strategy  string         `json:"strategy"`
	Prices    []SessionPrice `json:"prices"`
}

type CreateVenueRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	City     string `json:"city" validate:"required,max=100"`
	District string `json:"district" validate:"required,max=100"`
	Address  string `json:"address" validate:"required,max=500"`
}

type Seat struct {
	Id     uuid.UUID `json:"id"`
	Number int       `json:"number"`
}

type Row struct {
	Id    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Seats []Seat    `json:"seats,omitempty"`
}

type Section struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Rows []Row     `json:"rows,omitempty"`
}

type Venue struct {
	Id            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	City          string    `json:"city"`
	District      string    `json:"district"`
	Address       string    `json:"address"`
	TotalCapacity int       `json:"totalCapacity"`
	Sections      []Section `json:"sections,omitempty"`
}

type VenueResponse struct {
	Venue Venue `json:"venue"`
}

type CreateSeatsRequest struct {
	Count int `json:"count" validate:"required,min=1,max=1000"`
}

type SeatsResponse struct {
	Seats []Seat `json:"seats"`
}
