package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodDirect PaymentMethod = "direct"
	PaymentMethodMomo   PaymentMethod = "momo"
)

// Booking is created exactly once per order id. It exclusively owns its
// BookingSeats rows, which are the durable proof of seat assignment.
type Booking struct {
	ID            int
	UserID        int
	ScreeningID   int
	OrderID       string
	BookingTime   time.Time
	TotalPrice    decimal.Decimal
	PaymentMethod PaymentMethod
	IsUsed        bool
	QRCodeUUID    string
	Seats         []BookingSeat
}

type BookingSeat struct {
	BookingID  int
	SeatID     int
	SeatNumber string
}

// CommitParams describes one booking commit. OrderID is the idempotency key:
// committing twice with the same OrderID yields the booking created first.
// LockID, when set, names the hold the caller owns; live holds under any
// other lock id make the commit fail with ErrSeatAlreadyLocked.
type CommitParams struct {
	UserID        int
	ScreeningID   int
	RoomID        int
	SeatNumbers   []string
	LockID        string
	OrderID       string
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
}

type BookingSummary struct {
	BookingID     int
	MovieTitle    string
	RoomName      string
	ScreeningTime time.Time
	SeatNumbers   []string
	TotalPrice    decimal.Decimal
	PaymentMethod PaymentMethod
	BookingTime   time.Time
}

// TicketCheck is the outcome of scanning a ticket QR code. Valid and
// AlreadyUsed are mutually exclusive; both false means the code is unknown.
type TicketCheck struct {
	Valid       bool
	AlreadyUsed bool
	Booking     *BookingSummary
}

type BookingRepository interface {
	// Commit atomically creates the booking, its seat assignments and the
	// available -> unavailable seat transitions, consuming any hold rows on
	// the target seats. It is idempotent on params.OrderID.
	Commit(ctx context.Context, params CommitParams) (*Booking, error)
	GetByOrderId(ctx context.Context, orderID string) (*Booking, error)
	GetByIdAndUserId(ctx context.Context, bookingID, userID int) (*Booking, error)
	GetSummariesByUserId(ctx context.Context, userID int, pagination Pagination) ([]BookingSummary, *Metadata, error)
	// RedeemTicket marks the booking behind qrCodeUUID as used. The first
	// successful call flips IsUsed; the transition is one-way.
	RedeemTicket(ctx context.Context, qrCodeUUID string) (*TicketCheck, error)
}
