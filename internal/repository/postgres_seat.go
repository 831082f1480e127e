package repository

import (
	"context"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

// GetByScreening returns the seat map of a screening. Seats with a live hold
// are reported as held so the client can grey them out; expired holds are
// ignored without waiting for the sweeper.
func (p *PostgresSeatRepository) GetByScreening(
	ctx context.Context,
	screeningID,
	roomID int) (*domain.ScreeningSeats, error) {

	query := `
		SELECT
			sc.movie_title,
			r.name,
			se.id,
			se.seat_number,
			se.status,
			se.ticket_price,
			EXISTS (
				SELECT 1 FROM seat_holds h
				WHERE h.screening_id = se.screening_id
					AND h.seat_id = se.id
					AND h.expires_at > now()
			) AS held
		FROM seats se
		JOIN screenings sc ON se.screening_id = sc.id
		JOIN rooms r ON se.room_id = r.id
		WHERE se.screening_id = $1 AND se.room_id = $2
		ORDER BY se.seat_number
	`

	rows, err := p.db.Query(ctx, query, screeningID, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	screeningSeats := domain.ScreeningSeats{
		ScreeningID: screeningID,
		RoomID:      roomID,
	}

	for rows.Next() {
		seat := domain.Seat{
			RoomID:      roomID,
			ScreeningID: screeningID,
		}

		err = rows.Scan(
			&screeningSeats.MovieTitle,
			&screeningSeats.RoomName,
			&seat.ID,
			&seat.SeatNumber,
			&seat.Status,
			&seat.TicketPrice,
			&seat.Held,
		)
		if err != nil {
			return nil, err
		}

		screeningSeats.Seats = append(screeningSeats.Seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(screeningSeats.Seats) == 0 {
		return nil, domain.ErrRecordNotFound
	}

	return &screeningSeats, nil
}
