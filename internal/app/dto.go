package app

import (
	"time"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type SeatResponse struct {
	Id          int             `json:"id"`
	SeatNumber  string          `json:"seatNumber"`
	Status      string          `json:"status"`
	TicketPrice decimal.Decimal `json:"ticketPrice"`
}

type SeatMapResponse struct {
	ScreeningId int            `json:"screeningId"`
	RoomId      int            `json:"roomId"`
	RoomName    string         `json:"roomName"`
	MovieTitle  string         `json:"movieTitle"`
	Seats       []SeatResponse `json:"seats"`
}

type CheckAndLockRequest struct {
	ScreeningId int      `json:"screeningId" validate:"required,gt=0"`
	RoomId      int      `json:"roomId" validate:"required,gt=0"`
	SeatNumbers []string `json:"seatNumbers" validate:"required,min=1,max=10,dive,seat_number"`
}

type HeldSeatResponse struct {
	SeatNumber  string          `json:"seatNumber"`
	TicketPrice decimal.Decimal `json:"ticketPrice"`
}

type CheckAndLockResponse struct {
	LockId     string             `json:"lockId"`
	ExpiresAt  time.Time          `json:"expiresAt"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
	Seats      []HeldSeatResponse `json:"seats"`
}

type CreateBookingRequest struct {
	ScreeningId int      `json:"screeningId" validate:"required,gt=0"`
	RoomId      int      `json:"roomId" validate:"required,gt=0"`
	SeatNumbers []string `json:"seatNumbers" validate:"required,min=1,max=10,dive,seat_number"`
	LockId      string   `json:"lockId" validate:"omitempty,max=64"`
}

type BookingResponse struct {
	BookingId     int             `json:"bookingId"`
	OrderId       string          `json:"orderId"`
	BookingTime   time.Time       `json:"bookingTime"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	PaymentMethod string          `json:"paymentMethod"`
	QrCode        string          `json:"qrCode"`
	SeatNumbers   []string        `json:"seatNumbers"`
}

type BookingSummaryResponse struct {
	BookingId     int             `json:"bookingId"`
	MovieTitle    string          `json:"movieTitle"`
	RoomName      string          `json:"roomName"`
	ScreeningTime time.Time       `json:"screeningTime"`
	SeatNumbers   []string        `json:"seatNumbers"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	PaymentMethod string          `json:"paymentMethod"`
	BookingTime   time.Time       `json:"bookingTime"`
}

type MetadataResponse struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type BookingHistoryResponse struct {
	Bookings []BookingSummaryResponse `json:"bookings"`
	Metadata MetadataResponse         `json:"metadata"`
}

type InitiatePaymentRequest struct {
	ScreeningId int      `json:"screeningId" validate:"required,gt=0"`
	RoomId      int      `json:"roomId" validate:"required,gt=0"`
	SeatNumbers []string `json:"seatNumbers" validate:"required,min=1,max=10,dive,seat_number"`
	LockId      string   `json:"lockId" validate:"required,max=64"`
}

type InitiatePaymentResponse struct {
	OrderId string `json:"orderId"`
	PayUrl  string `json:"payUrl"`
}

type PaymentResultResponse struct {
	OrderId   string `json:"orderId"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	BookingId int    `json:"bookingId,omitempty"`
}

type TicketCheckResponse struct {
	Status  string                  `json:"status"`
	Booking *BookingSummaryResponse `json:"booking,omitempty"`
}

func toBookingSummaryResponse(summary domain.BookingSummary) BookingSummaryResponse {
	return BookingSummaryResponse{
		BookingId:     summary.BookingID,
		MovieTitle:    summary.MovieTitle,
		RoomName:      summary.RoomName,
		ScreeningTime: summary.ScreeningTime,
		SeatNumbers:   summary.SeatNumbers,
		TotalPrice:    summary.TotalPrice,
		PaymentMethod: string(summary.PaymentMethod),
		BookingTime:   summary.BookingTime,
	}
}

func toBookingResponse(booking *domain.Booking) BookingResponse {
	seatNumbers := make([]string, 0, len(booking.Seats))
	for _, seat := range booking.Seats {
		seatNumbers = append(seatNumbers, seat.SeatNumber)
	}

	return BookingResponse{
		BookingId:     booking.ID,
		OrderId:       booking.OrderID,
		BookingTime:   booking.BookingTime,
		TotalPrice:    booking.TotalPrice,
		PaymentMethod: string(booking.PaymentMethod),
		QrCode:        booking.QRCodeUUID,
		SeatNumbers:   seatNumbers,
	}
}
