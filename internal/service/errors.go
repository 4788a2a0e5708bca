package service

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("admin role required")

	ErrNotFound             = errors.New("event not found")
	ErrInvalidEvent         = errors.New("invalid event")
	ErrHasDependentBookings = errors.New("cannot delete event with existing bookings")
	ErrAlreadyBooked        = errors.New("you have already booked this event")
)
