package domain

import (
	"context"
	"time"
)

// Screening is immutable once scheduled; there is no reschedule path.
type Screening struct {
	ID         int
	MovieTitle string
	RoomID     int
	RoomName   string
	StartsAt   time.Time
}

type ScreeningRepository interface {
	GetById(ctx context.Context, screeningID int) (*Screening, error)
	GetByIdAndRoom(ctx context.Context, screeningID, roomID int) (*Screening, error)
}
