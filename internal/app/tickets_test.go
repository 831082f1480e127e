package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/dnguyen/cinema-booking/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TicketsTestSuite struct {
	suite.Suite
	app         *Application
	bookingRepo *mocks.MockBookingRepo
}

func (s *TicketsTestSuite) SetupTest() {
	s.bookingRepo = new(mocks.MockBookingRepo)

	s.app = newTestApplication(func(a *Application) {
		a.bookingRepo = s.bookingRepo
	})
}

func TestTicketsSuite(t *testing.T) {
	suite.Run(t, new(TicketsTestSuite))
}

func (s *TicketsTestSuite) TestCheckTicket() {
	qrCode := "0d4aa9f2-33e3-4a52-9f2b-0a8f0e2f9c11"

	summary := &domain.BookingSummary{
		BookingID:   7,
		MovieTitle:  "Dune",
		RoomName:    "Room 2",
		SeatNumbers: []string{"A1", "A2"},
		TotalPrice:  decimal.NewFromInt(180000),
	}

	tests := []struct {
		name           string
		qrCode         string
		setupMocks     func()
		wantStatus     int
		wantResult     string
		wantErrMessage string
	}{
		{
			name:   "should report invalid for unknown code",
			qrCode: "not-a-ticket",
			setupMocks: func() {
				s.bookingRepo.On("RedeemTicket", mock.Anything, "not-a-ticket").
					Return(nil, domain.ErrRecordNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantResult: ticketStatusInvalid,
		},
		{
			name:   "should fail when repository returns an unexpected error",
			qrCode: qrCode,
			setupMocks: func() {
				s.bookingRepo.On("RedeemTicket", mock.Anything, qrCode).
					Return(nil, fmt.Errorf("database error"))
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
		{
			name:   "should redeem a fresh ticket",
			qrCode: qrCode,
			setupMocks: func() {
				s.bookingRepo.On("RedeemTicket", mock.Anything, qrCode).
					Return(&domain.TicketCheck{Valid: true, Booking: summary}, nil)
			},
			wantStatus: http.StatusOK,
			wantResult: ticketStatusValid,
		},
		{
			name:   "should report already used on a second scan",
			qrCode: qrCode,
			setupMocks: func() {
				s.bookingRepo.On("RedeemTicket", mock.Anything, qrCode).
					Return(&domain.TicketCheck{AlreadyUsed: true, Booking: summary}, nil)
			},
			wantStatus: http.StatusOK,
			wantResult: ticketStatusAlreadyUsed,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.bookingRepo.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodGet, "/tickets/"+tt.qrCode, nil)
			r = withUser(r, 1)
			r = withURLParams(r, map[string]string{"qrCode": tt.qrCode})

			s.app.CheckTicket(w, r)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantResult != "" {
				var resp TicketCheckResponse
				s.NoError(json.NewDecoder(w.Body).Decode(&resp))

				s.Equal(tt.wantResult, resp.Status)

				if tt.wantResult != ticketStatusInvalid {
					s.NotNil(resp.Booking)
					s.Equal("Dune", resp.Booking.MovieTitle)
				}
				return
			}

			checkErrorResponse(s.T(), w, tt.wantStatus, tt.wantErrMessage)
		})
	}
}
