package mocks

import (
	"context"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockHoldRepo struct {
	mock.Mock
	domain.HoldRepository
}

func (m *MockHoldRepo) Lock(ctx context.Context, params domain.LockParams) (*domain.SeatHold, error) {
	args := m.Called(ctx, params)

	hold, _ := args.Get(0).(*domain.SeatHold)
	return hold, args.Error(1)
}

func (m *MockHoldRepo) ReleaseByLockId(ctx context.Context, lockID string) error {
	args := m.Called(ctx, lockID)
	return args.Error(0)
}

func (m *MockHoldRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
