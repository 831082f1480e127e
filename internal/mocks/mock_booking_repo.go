package mocks

import (
	"context"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepo struct {
	mock.Mock
	domain.BookingRepository
}

func (m *MockBookingRepo) Commit(ctx context.Context, params domain.CommitParams) (*domain.Booking, error) {
	args := m.Called(ctx, params)

	booking, _ := args.Get(0).(*domain.Booking)
	return booking, args.Error(1)
}

func (m *MockBookingRepo) GetByOrderId(ctx context.Context, orderID string) (*domain.Booking, error) {
	args := m.Called(ctx, orderID)

	booking, _ := args.Get(0).(*domain.Booking)
	return booking, args.Error(1)
}

func (m *MockBookingRepo) GetByIdAndUserId(ctx context.Context, bookingID, userID int) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, userID)

	booking, _ := args.Get(0).(*domain.Booking)
	return booking, args.Error(1)
}

func (m *MockBookingRepo) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	args := m.Called(ctx, userID, pagination)

	summaries, _ := args.Get(0).([]domain.BookingSummary)
	metadata, _ := args.Get(1).(*domain.Metadata)
	return summaries, metadata, args.Error(2)
}

func (m *MockBookingRepo) RedeemTicket(ctx context.Context, qrCodeUUID string) (*domain.TicketCheck, error) {
	args := m.Called(ctx, qrCodeUUID)

	check, _ := args.Get(0).(*domain.TicketCheck)
	return check, args.Error(1)
}
