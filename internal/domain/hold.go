package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultHoldTTL = 600 * time.Second

// SeatHold is a time-bounded reservation of a batch of seats pending
// payment. All seats of one lock attempt share a single LockID; a hold past
// ExpiresAt is void and must not block later lock attempts.
type SeatHold struct {
	LockID      string
	UserID      int
	ScreeningID int
	RoomID      int
	Seats       []HeldSeat
	TotalPrice  decimal.Decimal
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// HeldSeat carries the price snapshot taken at lock time.
type HeldSeat struct {
	SeatID      int
	SeatNumber  string
	TicketPrice decimal.Decimal
}

type LockParams struct {
	UserID      int
	ScreeningID int
	RoomID      int
	SeatNumbers []string
	TTL         time.Duration
}

// HoldRepository grants and releases seat holds. Lock must be all-or-nothing
// and serialized against concurrent lock and commit attempts on overlapping
// seats: at most one of two overlapping attempts may succeed.
type HoldRepository interface {
	Lock(ctx context.Context, params LockParams) (*SeatHold, error)
	ReleaseByLockId(ctx context.Context, lockID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
