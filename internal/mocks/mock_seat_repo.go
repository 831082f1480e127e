package mocks

import (
	"context"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatRepo struct {
	mock.Mock
	domain.SeatRepository
}

func (m *MockSeatRepo) GetByScreening(ctx context.Context, screeningID, roomID int) (*domain.ScreeningSeats, error) {
	args := m.Called(ctx, screeningID, roomID)

	seats, _ := args.Get(0).(*domain.ScreeningSeats)
	return seats, args.Error(1)
}
