package domain

import "errors"

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrSeatBusy            = errors.New("seat is currently being processed by another request")
	ErrSeatAlreadySold     = errors.New("seat has already been sold")
	ErrActiveBookingExists = errors.New("an active booking already exists for this seat")
	ErrBookingNotPending   = errors.New("only pending bookings can be cancelled")
	ErrBookingTicketed     = errors.New("booking has already been ticketed")
	ErrBookingNotIssuable  = errors.New("booking has expired or been cancelled")
	ErrReferenceCodeTaken  = errors.New("ticket reference code already in use")
	ErrUnknownStrategy     = errors.New("pricing strategy not registered")
	ErrEditConflict        = errors.New("edit conflict")
)
