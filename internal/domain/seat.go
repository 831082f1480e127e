package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type SeatStatus string

const (
	SeatStatusAvailable   SeatStatus = "available"
	SeatStatusUnavailable SeatStatus = "unavailable"
)

// Seat is the unit of mutual exclusion. The durable status column only ever
// moves available -> unavailable as part of a booking commit; the transient
// "locked" state lives in seat_holds rows and is merged in by callers.
type Seat struct {
	ID          int
	RoomID      int
	ScreeningID int
	SeatNumber  string
	Status      SeatStatus
	TicketPrice decimal.Decimal
	Held        bool
}

// ScreeningSeats is the seat map of one screening in one room.
type ScreeningSeats struct {
	ScreeningID int
	RoomID      int
	RoomName    string
	MovieTitle  string
	Seats       []Seat
}

func (s ScreeningSeats) TotalPrice() decimal.Decimal {
	total := decimal.Zero

	for _, seat := range s.Seats {
		total = total.Add(seat.TicketPrice)
	}

	return total
}

type SeatRepository interface {
	GetByScreening(ctx context.Context, screeningID, roomID int) (*ScreeningSeats, error)
}
