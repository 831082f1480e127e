package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

const qrCodeSize = 256

// newOrderID builds the idempotency key for one booking attempt. Retrying a
// failed request generates a fresh order id; replaying the same order id
// (gateway retries, double notifications) always lands on the same booking.
func newOrderID(userID int) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]

	return fmt.Sprintf("MOVIE_%d_%d_%s", userID, time.Now().Unix(), suffix)
}

// CreateDirectBooking commits a booking without going through the payment
// gateway, paying at the counter. A lock id is optional: without one the
// seats must be free of any live hold at commit time.
func (app *Application) CreateDirectBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			app.failedValidationResponse(w, r, validationErrors)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	userID := app.contextGetUserId(r)

	booking, err := app.bookingRepo.Commit(r.Context(), domain.CommitParams{
		UserID:        userID,
		ScreeningID:   req.ScreeningId,
		RoomID:        req.RoomId,
		SeatNumbers:   req.SeatNumbers,
		LockID:        req.LockId,
		OrderID:       newOrderID(userID),
		Amount:        decimal.Zero,
		PaymentMethod: domain.PaymentMethodDirect,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrSeatAlreadyBooked), errors.Is(err, domain.ErrSeatAlreadyLocked):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	logger := app.contextGetLogger(r)
	logger.Info("created booking",
		"booking_id", booking.ID,
		"order_id", booking.OrderID,
		"payment_method", booking.PaymentMethod,
	)

	app.sendBookingConfirmation(userID, booking)

	err = app.writeJSON(w, http.StatusCreated, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID := app.contextGetUserId(r)
	page, pageSize := app.readPagination(r)

	summaries, metadata, err := app.bookingRepo.GetSummariesByUserId(r.Context(), userID, domain.Pagination{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	bookings := make([]BookingSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		bookings = append(bookings, toBookingSummaryResponse(summary))
	}

	resp := BookingHistoryResponse{
		Bookings: bookings,
		Metadata: MetadataResponse{
			CurrentPage:  metadata.CurrentPage,
			FirstPage:    metadata.FirstPage,
			LastPage:     metadata.LastPage,
			PageSize:     metadata.PageSize,
			TotalRecords: metadata.TotalRecords,
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookingById(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	userID := app.contextGetUserId(r)

	booking, err := app.bookingRepo.GetByIdAndUserId(r.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetBookingQRCode renders the booking's entry code as a PNG. The encoded
// payload is the opaque qr code uuid, not the booking id, so tickets cannot
// be forged by guessing sequential ids.
func (app *Application) GetBookingQRCode(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	userID := app.contextGetUserId(r)

	booking, err := app.bookingRepo.GetByIdAndUserId(r.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	png, err := qrcode.Encode(booking.QRCodeUUID, qrcode.Medium, qrCodeSize)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// sendBookingConfirmation emails the customer their ticket details off the
// request path. Failures are logged and never surfaced to the caller; the
// booking is already durable at this point.
func (app *Application) sendBookingConfirmation(userID int, booking *domain.Booking) {
	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := app.userRepo.GetById(ctx, userID)
		if err != nil {
			app.logger.Error("failed to load user for booking confirmation", "error", err, "user_id", userID)
			return
		}

		screening, err := app.screeningRepo.GetById(ctx, booking.ScreeningID)
		if err != nil {
			app.logger.Error("failed to load screening for booking confirmation", "error", err, "screening_id", booking.ScreeningID)
			return
		}

		seatNumbers := make([]string, 0, len(booking.Seats))
		for _, seat := range booking.Seats {
			seatNumbers = append(seatNumbers, seat.SeatNumber)
		}

		data := map[string]any{
			"name":       user.Name,
			"movieTitle": screening.MovieTitle,
			"roomName":   screening.RoomName,
			"seats":      strings.Join(seatNumbers, ", "),
			"totalPrice": booking.TotalPrice.String(),
			"orderId":    booking.OrderID,
			"qrCode":     booking.QRCodeUUID,
		}

		err = app.mailer.Send(user.Email, "booking_confirmation.tmpl", data)
		if err != nil {
			app.logger.Error("failed to send booking confirmation", "error", err, "order_id", booking.OrderID)
			return
		}

		app.logger.Info("sent booking confirmation", "order_id", booking.OrderID)
	})
}
