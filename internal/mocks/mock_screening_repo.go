package mocks

import (
	"context"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockScreeningRepo struct {
	mock.Mock
	domain.ScreeningRepository
}

func (m *MockScreeningRepo) GetById(ctx context.Context, screeningID int) (*domain.Screening, error) {
	args := m.Called(ctx, screeningID)

	screening, _ := args.Get(0).(*domain.Screening)
	return screening, args.Error(1)
}

func (m *MockScreeningRepo) GetByIdAndRoom(ctx context.Context, screeningID, roomID int) (*domain.Screening, error) {
	args := m.Called(ctx, screeningID, roomID)

	screening, _ := args.Get(0).(*domain.Screening)
	return screening, args.Error(1)
}
