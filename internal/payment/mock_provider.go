package payment

import (
	"context"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
	domain.PaymentProvider
}

func (m *MockProvider) CreatePayment(ctx context.Context, req domain.CreatePaymentRequest) (*domain.CreatePaymentResponse, error) {
	args := m.Called(ctx, req)

	resp, _ := args.Get(0).(*domain.CreatePaymentResponse)
	return resp, args.Error(1)
}

func (m *MockProvider) VerifyNotification(n domain.PaymentNotification) error {
	args := m.Called(n)
	return args.Error(0)
}
