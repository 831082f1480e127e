package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("cinema-booking-api", otelchi.WithChiRoutes(r)))
	r.Use(app.attachLogger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(app.ensureGuestUserSession)

	r.Get("/healthcheck", app.GetHealth)

	r.Get("/screenings/{screeningId}/rooms/{roomId}/seats", app.GetSeatMap)

	r.With(app.requireAuthentication).Route("/bookings", func(r chi.Router) {
		r.Post("/locks", app.CheckAndLockSeats)
		r.Post("/", app.CreateDirectBooking)
	})

	r.With(app.requireAuthentication).Route("/users/me/bookings", func(r chi.Router) {
		r.Get("/", app.GetUserBookings)
		r.Get("/{bookingId}", app.GetUserBookingById)
		r.Get("/{bookingId}/qr", app.GetBookingQRCode)
	})

	r.With(app.requireAuthentication).Post("/payments", app.InitiatePayment)

	// Gateway-facing endpoints carry their own signature, not a session.
	r.Get("/payments/return", app.HandlePaymentReturn)
	r.Post("/payments/notify", app.HandlePaymentNotification)

	r.With(app.requireAuthentication).Get("/tickets/{qrCode}", app.CheckTicket)

	return r
}
