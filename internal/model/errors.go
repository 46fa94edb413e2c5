package model

import "errors"

// Классы ошибок. Каждая конкретная ошибка ниже разворачивается в один из них.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation error")
)

// Error описывает доменную ошибку с классом, доступным через errors.Is.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Unwrap возвращает класс ошибки.
func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

var (
	ErrCustomerNotFound = newError(ErrNotFound, "customer not found")
	ErrFlightNotFound   = newError(ErrNotFound, "flight not found")
	ErrSeatNotFound     = newError(ErrNotFound, "seat not found")
	ErrBookingNotFound  = newError(ErrNotFound, "booking not found")
	ErrProgramNotFound  = newError(ErrNotFound, "loyalty program not found")
)

var (
	ErrDuplicateFlightNumber   = newError(ErrConflict, "flight number already exists")
	ErrDuplicateSeat           = newError(ErrConflict, "duplicate seat number")
	ErrSeatOccupied            = newError(ErrConflict, "seat is already occupied")
	ErrDuplicateBooking        = newError(ErrConflict, "customer already has an active booking for this flight")
	ErrEmailTaken              = newError(ErrConflict, "email is already registered")
	ErrAlreadyEnrolled         = newError(ErrConflict, "customer is already enrolled in the loyalty program")
	ErrBookingAlreadyCancelled = newError(ErrConflict, "booking is already cancelled")
	ErrAlreadyPaid             = newError(ErrConflict, "booking is already paid")
	ErrFlightInUse             = newError(ErrConflict, "flight has booked seats or active bookings and cannot be renamed")
)

var (
	ErrInvalidTimeRange   = newError(ErrValidation, "departure time must be before arrival time")
	ErrInvalidOccupied    = newError(ErrValidation, "seat occupied flag must be a boolean")
	ErrInvalidSeatClass   = newError(ErrValidation, "unknown seat class")
	ErrInvalidFlight      = newError(ErrValidation, "flight is missing required fields")
	ErrInvalidCardNumber  = newError(ErrValidation, "card number must be exactly 12 digits")
	ErrInvalidCvv         = newError(ErrValidation, "cvv must be exactly 3 digits")
	ErrAmountMismatch     = newError(ErrValidation, "payment amount must equal the flight price")
	ErrNotBooked          = newError(ErrValidation, "customer has no active booking for this flight")
	ErrNotEnrolled        = newError(ErrValidation, "customer is not enrolled in the loyalty program")
	ErrInsufficientPoints = newError(ErrValidation, "insufficient loyalty points")
	ErrInvalidRewardType  = newError(ErrValidation, "invalid reward type")
	ErrInvalidPoints      = newError(ErrValidation, "points must be positive")
	ErrInvalidSortKey     = newError(ErrValidation, "sortBy must be one of date, flight, status")
	ErrInvalidCredentials = newError(ErrValidation, "invalid credentials")
	ErrInvalidCustomer    = newError(ErrValidation, "name, email and password are required")
	ErrNoBaggage          = newError(ErrValidation, "at least one baggage item is required")
	ErrInvalidProgram     = newError(ErrValidation, "loyalty program name is required")
)
