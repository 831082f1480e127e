package app

import (
	"errors"
	"net/http"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/go-playground/validator/v10"
)

// CheckAndLockSeats places a time-bounded hold on the requested seats. The
// hold is all-or-nothing: one unavailable or foreign-held seat fails the
// whole batch and leaves nothing locked.
func (app *Application) CheckAndLockSeats(w http.ResponseWriter, r *http.Request) {
	var req CheckAndLockRequest

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

	hold, err := app.holdRepo.Lock(r.Context(), domain.LockParams{
		UserID:      userID,
		ScreeningID: req.ScreeningId,
		RoomID:      req.RoomId,
		SeatNumbers: req.SeatNumbers,
		TTL:         app.config.HoldTTL,
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
	logger.Info("locked seats",
		"lock_id", hold.LockID,
		"screening_id", hold.ScreeningID,
		"seat_count", len(hold.Seats),
	)

	seats := make([]HeldSeatResponse, 0, len(hold.Seats))
	for _, seat := range hold.Seats {
		seats = append(seats, HeldSeatResponse{
			SeatNumber:  seat.SeatNumber,
			TicketPrice: seat.TicketPrice,
		})
	}

	resp := CheckAndLockResponse{
		LockId:     hold.LockID,
		ExpiresAt:  hold.ExpiresAt,
		TotalPrice: hold.TotalPrice,
		Seats:      seats,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
