package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// lockedSeat is one row returned by lockSeatRows while its record lock is
// held by the surrounding transaction.
type lockedSeat struct {
	ID          int
	SeatNumber  string
	Status      domain.SeatStatus
	TicketPrice decimal.Decimal
}

// lockSeatRows acquires row-level locks on the requested seats, always
// scoped by both room and screening. Callers get either all requested seats
// or an error naming the missing ones; nothing is locked partially because
// the transaction is rolled back on error.
func lockSeatRows(
	ctx context.Context,
	tx pgx.Tx,
	screeningID,
	roomID int,
	seatNumbers []string) ([]lockedSeat, error) {

	query := `
		SELECT id, seat_number, status, ticket_price
		FROM seats
		WHERE screening_id = $1 AND room_id = $2 AND seat_number = ANY($3)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, screeningID, roomID, seatNumbers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]lockedSeat, 0, len(seatNumbers))

	for rows.Next() {
		var seat lockedSeat

		err = rows.Scan(&seat.ID, &seat.SeatNumber, &seat.Status, &seat.TicketPrice)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(seats) != len(seatNumbers) {
		found := make(map[string]bool, len(seats))
		for _, seat := range seats {
			found[seat.SeatNumber] = true
		}

		var missing []string
		for _, number := range seatNumbers {
			if !found[number] {
				missing = append(missing, number)
			}
		}

		return nil, fmt.Errorf("%w: seat(s) %s", domain.ErrRecordNotFound, strings.Join(missing, ", "))
	}

	return seats, nil
}

func seatIDs(seats []lockedSeat) []int {
	ids := make([]int, len(seats))
	for i, seat := range seats {
		ids[i] = seat.ID
	}

	return ids
}

// purgeExpiredHolds removes dead hold rows on the given seats so they no
// longer block new locks or commits. Must run after lockSeatRows within the
// same transaction.
func purgeExpiredHolds(ctx context.Context, tx pgx.Tx, screeningID int, ids []int) error {
	query := `
		DELETE FROM seat_holds
		WHERE screening_id = $1 AND seat_id = ANY($2) AND expires_at <= now()
	`

	_, err := tx.Exec(ctx, query, screeningID, ids)
	return err
}
