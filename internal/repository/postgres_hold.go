package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresHoldRepository struct {
	db *pgxpool.Pool
}

func NewPostgresHoldRepository(db *pgxpool.Pool) *PostgresHoldRepository {
	return &PostgresHoldRepository{
		db: db,
	}
}

// Lock grants an all-or-nothing hold on a batch of seats. Concurrent lock
// and commit attempts on overlapping seats serialize on the seat row locks,
// so at most one of two overlapping attempts can succeed. The returned hold
// carries the price snapshot taken while the locks were held.
func (p *PostgresHoldRepository) Lock(ctx context.Context, params domain.LockParams) (*domain.SeatHold, error) {
	ttl := params.TTL
	if ttl <= 0 {
		ttl = domain.DefaultHoldTTL
	}

	hold := domain.SeatHold{
		LockID:      uuid.New().String(),
		UserID:      params.UserID,
		ScreeningID: params.ScreeningID,
		RoomID:      params.RoomID,
	}

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var screeningID int

		err := tx.QueryRow(
			ctx,
			`SELECT id FROM screenings WHERE id = $1 AND room_id = $2`,
			params.ScreeningID,
			params.RoomID,
		).Scan(&screeningID)

		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		seats, err := lockSeatRows(ctx, tx, params.ScreeningID, params.RoomID, params.SeatNumbers)
		if err != nil {
			return err
		}

		for _, seat := range seats {
			if seat.Status != domain.SeatStatusAvailable {
				return domain.ErrSeatAlreadyBooked
			}
		}

		ids := seatIDs(seats)

		err = purgeExpiredHolds(ctx, tx, params.ScreeningID, ids)
		if err != nil {
			return err
		}

		var liveHolds int

		err = tx.QueryRow(
			ctx,
			`SELECT COUNT(*) FROM seat_holds WHERE screening_id = $1 AND seat_id = ANY($2)`,
			params.ScreeningID,
			ids,
		).Scan(&liveHolds)

		if err != nil {
			return err
		}

		if liveHolds > 0 {
			return domain.ErrSeatAlreadyLocked
		}

		now := time.Now()
		hold.CreatedAt = now
		hold.ExpiresAt = now.Add(ttl)
		hold.TotalPrice = decimal.Zero

		rows := make([][]any, 0, len(seats))

		for _, seat := range seats {
			hold.Seats = append(hold.Seats, domain.HeldSeat{
				SeatID:      seat.ID,
				SeatNumber:  seat.SeatNumber,
				TicketPrice: seat.TicketPrice,
			})
			hold.TotalPrice = hold.TotalPrice.Add(seat.TicketPrice)

			rows = append(rows, []any{
				hold.LockID,
				params.ScreeningID,
				params.RoomID,
				seat.ID,
				hold.ExpiresAt,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"seat_holds"},
			[]string{"lock_id", "screening_id", "room_id", "seat_id", "expires_at"},
			pgx.CopyFromRows(rows),
		)

		return err
	})

	if err != nil {
		return nil, err
	}

	return &hold, nil
}

func (p *PostgresHoldRepository) ReleaseByLockId(ctx context.Context, lockID string) error {
	_, err := p.db.Exec(ctx, `DELETE FROM seat_holds WHERE lock_id = $1`, lockID)
	return err
}

// DeleteExpired sweeps dead holds across all screenings so abandoned
// selections never keep seats logically locked.
func (p *PostgresHoldRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := p.db.Exec(ctx, `DELETE FROM seat_holds WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
