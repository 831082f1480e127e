package app

import (
	"errors"
	"net/http"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/go-chi/chi/v5"
)

const (
	ticketStatusValid       = "valid"
	ticketStatusAlreadyUsed = "already_used"
	ticketStatusInvalid     = "invalid"
)

// CheckTicket redeems the QR code scanned at the entrance. The first scan
// marks the ticket used; every later scan reports already_used.
func (app *Application) CheckTicket(w http.ResponseWriter, r *http.Request) {
	qrCode := chi.URLParam(r, "qrCode")

	check, err := app.bookingRepo.RedeemTicket(r.Context(), qrCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			resp := TicketCheckResponse{Status: ticketStatusInvalid}

			err = app.writeJSON(w, http.StatusNotFound, resp, nil)
			if err != nil {
				app.serverErrorResponse(w, r, err)
			}
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := TicketCheckResponse{Status: ticketStatusValid}

	if check.AlreadyUsed {
		resp.Status = ticketStatusAlreadyUsed
	}

	if check.Booking != nil {
		summary := toBookingSummaryResponse(*check.Booking)
		resp.Booking = &summary
	}

	app.contextGetLogger(r).Info("checked ticket", "status", resp.Status)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
