package app

import (
	"errors"
	"net/http"

	"github.com/dnguyen/cinema-booking/internal/domain"
)

// seatStatusLocked is the merged view of an available seat covered by a live
// hold. It never appears in the seats table itself.
const seatStatusLocked = "locked"

func (app *Application) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	screeningID, err := app.readIDParam(r, "screeningId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	roomID, err := app.readIDParam(r, "roomId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	screeningSeats, err := app.seatRepo.GetByScreening(r.Context(), screeningID, roomID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := toSeatMapResponse(screeningSeats)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeatMapResponse(screeningSeats *domain.ScreeningSeats) SeatMapResponse {
	seats := make([]SeatResponse, 0, len(screeningSeats.Seats))

	for _, seat := range screeningSeats.Seats {
		status := string(seat.Status)
		if seat.Status == domain.SeatStatusAvailable && seat.Held {
			status = seatStatusLocked
		}

		seats = append(seats, SeatResponse{
			Id:          seat.ID,
			SeatNumber:  seat.SeatNumber,
			Status:      status,
			TicketPrice: seat.TicketPrice,
		})
	}

	return SeatMapResponse{
		ScreeningId: screeningSeats.ScreeningID,
		RoomId:      screeningSeats.RoomID,
		RoomName:    screeningSeats.RoomName,
		MovieTitle:  screeningSeats.MovieTitle,
		Seats:       seats,
	}
}
