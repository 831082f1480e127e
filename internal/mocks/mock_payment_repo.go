package mocks

import (
	"context"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPaymentRepo struct {
	mock.Mock
	domain.PaymentRepository
}

func (m *MockPaymentRepo) Create(ctx context.Context, attempt *domain.PaymentAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockPaymentRepo) GetByOrderId(ctx context.Context, orderID string) (*domain.PaymentAttempt, error) {
	args := m.Called(ctx, orderID)

	attempt, _ := args.Get(0).(*domain.PaymentAttempt)
	return attempt, args.Error(1)
}

func (m *MockPaymentRepo) UpdateStatus(
	ctx context.Context,
	orderID string,
	status domain.PaymentStatus,
	transID,
	errMsg string) error {

	args := m.Called(ctx, orderID, status, transID, errMsg)
	return args.Error(0)
}
