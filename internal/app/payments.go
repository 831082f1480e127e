package app

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	paymentResultSucceeded = "succeeded"
	paymentResultFailed    = "failed"
)

// extraData is the opaque payload round-tripped through the gateway. Only
// the lock id rides along; everything else is read back from the persisted
// payment attempt.
type extraData struct {
	LockID string `json:"lockId"`
}

func encodeExtraData(lockID string) string {
	data, _ := json.Marshal(extraData{LockID: lockID})

	return base64.StdEncoding.EncodeToString(data)
}

// InitiatePayment creates a payment attempt for seats held under the given
// lock and asks the gateway for a redirect URL. The amount is recomputed
// from the seat prices server-side; the client never names a price.
func (app *Application) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req InitiatePaymentRequest

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

	screening, err := app.screeningRepo.GetByIdAndRoom(r.Context(), req.ScreeningId, req.RoomId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	amount, err := app.priceSeats(r.Context(), req.ScreeningId, req.RoomId, req.SeatNumbers)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	userID := app.contextGetUserId(r)
	orderID := newOrderID(userID)

	attempt := &domain.PaymentAttempt{
		OrderID:     orderID,
		UserID:      userID,
		ScreeningID: req.ScreeningId,
		RoomID:      req.RoomId,
		SeatNumbers: req.SeatNumbers,
		LockID:      req.LockId,
		Amount:      amount,
		Status:      domain.PaymentStatusInitiated,
	}

	err = app.paymentRepo.Create(r.Context(), attempt)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	gatewayResp, err := app.paymentProvider.CreatePayment(r.Context(), domain.CreatePaymentRequest{
		OrderID:   orderID,
		Amount:    amount.IntPart(),
		OrderInfo: fmt.Sprintf("Tickets for %s", screening.MovieTitle),
		ExtraData: encodeExtraData(req.LockId),
	})
	if err != nil {
		updateErr := app.paymentRepo.UpdateStatus(r.Context(), orderID, domain.PaymentStatusFailed, "", err.Error())
		if updateErr != nil {
			app.logError(r, updateErr)
		}

		switch {
		case errors.Is(err, domain.ErrPaymentGateway):
			app.upstreamErrorResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	logger := app.contextGetLogger(r)
	logger.Info("initiated payment", "order_id", orderID, "amount", amount.String())

	resp := InitiatePaymentResponse{
		OrderId: orderID,
		PayUrl:  gatewayResp.PayURL,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// priceSeats sums the ticket prices of the named seats. Unknown seat numbers
// surface as ErrRecordNotFound so a stale client cannot pay for nothing.
func (app *Application) priceSeats(ctx context.Context, screeningID, roomID int, seatNumbers []string) (decimal.Decimal, error) {
	screeningSeats, err := app.seatRepo.GetByScreening(ctx, screeningID, roomID)
	if err != nil {
		return decimal.Zero, err
	}

	prices := make(map[string]decimal.Decimal, len(screeningSeats.Seats))
	for _, seat := range screeningSeats.Seats {
		prices[seat.SeatNumber] = seat.TicketPrice
	}

	total := decimal.Zero

	for _, seatNumber := range seatNumbers {
		price, ok := prices[seatNumber]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: seat %s", domain.ErrRecordNotFound, seatNumber)
		}

		total = total.Add(price)
	}

	return total, nil
}

// HandlePaymentReturn is the redirect channel: the customer lands back here
// with the gateway's result in the query string. The same signature scheme
// as the notification channel protects it, and the same idempotent commit
// runs behind it, so it does not matter which channel arrives first.
func (app *Application) HandlePaymentReturn(w http.ResponseWriter, r *http.Request) {
	notification, err := notificationFromQuery(r.URL.Query())
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.processPaymentResult(w, r, notification, true)
}

// HandlePaymentNotification is the server-to-server channel (IPN). It must
// answer quickly and idempotently; the gateway retries on anything else.
func (app *Application) HandlePaymentNotification(w http.ResponseWriter, r *http.Request) {
	var notification domain.PaymentNotification

	err := app.readJSON(w, r, &notification)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.processPaymentResult(w, r, notification, false)
}

// processPaymentResult is the single fan-in point for both payment channels.
// Signature first, then the persisted attempt, then the idempotent commit.
func (app *Application) processPaymentResult(
	w http.ResponseWriter,
	r *http.Request,
	notification domain.PaymentNotification,
	includeBookingId bool) {

	err := app.paymentProvider.VerifyNotification(notification)
	if err != nil {
		app.invalidSignatureResponse(w, r, err)
		return
	}

	attempt, err := app.paymentRepo.GetByOrderId(r.Context(), notification.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, fmt.Errorf("unknown order %s", notification.OrderID))
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	logger := app.contextGetLogger(r)

	if notification.ResultCode != 0 {
		app.markPaymentFailed(r.Context(), attempt, notification)

		logger.Info("payment failed",
			"order_id", attempt.OrderID,
			"result_code", notification.ResultCode,
			"message", notification.Message,
		)

		resp := PaymentResultResponse{
			OrderId: attempt.OrderID,
			Status:  paymentResultFailed,
			Message: notification.Message,
		}

		err = app.writeJSON(w, http.StatusOK, resp, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	booking, err := app.commitPaidBooking(r.Context(), attempt, notification.TransID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatAlreadyBooked), errors.Is(err, domain.ErrSeatAlreadyLocked):
			app.editConflictResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	logger.Info("payment succeeded",
		"order_id", attempt.OrderID,
		"booking_id", booking.ID,
		"trans_id", notification.TransID,
	)

	resp := PaymentResultResponse{
		OrderId: attempt.OrderID,
		Status:  paymentResultSucceeded,
	}
	if includeBookingId {
		resp.BookingId = booking.ID
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// commitPaidBooking turns a verified successful payment into a booking. The
// commit is keyed on the order id, so the second channel to arrive gets the
// booking the first one created.
func (app *Application) commitPaidBooking(
	ctx context.Context,
	attempt *domain.PaymentAttempt,
	transID string) (*domain.Booking, error) {

	alreadyCommitted := attempt.Status == domain.PaymentStatusSucceeded

	booking, err := app.bookingRepo.Commit(ctx, domain.CommitParams{
		UserID:        attempt.UserID,
		ScreeningID:   attempt.ScreeningID,
		RoomID:        attempt.RoomID,
		SeatNumbers:   attempt.SeatNumbers,
		LockID:        attempt.LockID,
		OrderID:       attempt.OrderID,
		Amount:        attempt.Amount,
		PaymentMethod: domain.PaymentMethodMomo,
	})
	if err != nil {
		return nil, err
	}

	err = app.paymentRepo.UpdateStatus(ctx, attempt.OrderID, domain.PaymentStatusSucceeded, transID, "")
	if err != nil {
		app.logger.Error("failed to record payment success", "error", err, "order_id", attempt.OrderID)
	}

	if !alreadyCommitted {
		app.sendBookingConfirmation(attempt.UserID, booking)
	}

	return booking, nil
}

// markPaymentFailed records the failure and releases the hold so the seats
// go back on sale without waiting for the TTL.
func (app *Application) markPaymentFailed(
	ctx context.Context,
	attempt *domain.PaymentAttempt,
	notification domain.PaymentNotification) {

	err := app.paymentRepo.UpdateStatus(ctx, attempt.OrderID, domain.PaymentStatusFailed, notification.TransID, notification.Message)
	if err != nil {
		app.logger.Error("failed to record payment failure", "error", err, "order_id", attempt.OrderID)
	}

	if attempt.LockID != "" {
		err = app.holdRepo.ReleaseByLockId(ctx, attempt.LockID)
		if err != nil {
			app.logger.Error("failed to release hold after payment failure", "error", err, "lock_id", attempt.LockID)
		}
	}
}

func notificationFromQuery(values url.Values) (domain.PaymentNotification, error) {
	amount, err := strconv.ParseInt(defaultString(values.Get("amount"), "0"), 10, 64)
	if err != nil {
		return domain.PaymentNotification{}, fmt.Errorf("invalid amount parameter")
	}

	resultCode, err := strconv.Atoi(defaultString(values.Get("resultCode"), "0"))
	if err != nil {
		return domain.PaymentNotification{}, fmt.Errorf("invalid resultCode parameter")
	}

	responseTime, err := strconv.ParseInt(defaultString(values.Get("responseTime"), "0"), 10, 64)
	if err != nil {
		return domain.PaymentNotification{}, fmt.Errorf("invalid responseTime parameter")
	}

	return domain.PaymentNotification{
		PartnerCode:  values.Get("partnerCode"),
		AccessKey:    values.Get("accessKey"),
		RequestID:    values.Get("requestId"),
		OrderID:      values.Get("orderId"),
		OrderInfo:    values.Get("orderInfo"),
		OrderType:    values.Get("orderType"),
		TransID:      values.Get("transId"),
		Amount:       amount,
		ResultCode:   resultCode,
		Message:      values.Get("message"),
		PayType:      values.Get("payType"),
		ResponseTime: responseTime,
		ExtraData:    values.Get("extraData"),
		Signature:    values.Get("signature"),
	}, nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return s
}
