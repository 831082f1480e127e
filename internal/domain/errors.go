package domain

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrSeatAlreadyBooked = errors.New("seat(s) are already booked")
	ErrSeatAlreadyLocked = errors.New("seat(s) are held by another customer")
	ErrHoldExpired       = errors.New("your seat selection has expired, please select your seats again")
	ErrTicketAlreadyUsed = errors.New("ticket has already been used")
	ErrInvalidSignature  = errors.New("payment notification signature verification failed")
	ErrPaymentGateway    = errors.New("payment gateway request failed")
)
