package repository

import (
	"context"
	"errors"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Commit turns a confirmed payment (or a direct confirmation) into a durable
// booking. The whole transition is one transaction: seat checks, the
// available -> unavailable flips, the booking row, its seat assignments and
// the consumption of hold rows either all happen or none do.
//
// Idempotency: params.OrderID is unique on bookings. A repeat commit returns
// the booking created first; when both payment channels race past the
// initial lookup, the loser hits the unique constraint and the existing
// booking is fetched instead.
func (p *PostgresBookingRepository) Commit(ctx context.Context, params domain.CommitParams) (*domain.Booking, error) {
	var booking *domain.Booking

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		existing, err := getByOrderIdTx(ctx, tx, params.OrderID)
		if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
			return err
		}

		if existing != nil {
			booking = existing
			return nil
		}

		booking, err = createBookingTx(ctx, tx, params)
		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return p.GetByOrderId(ctx, params.OrderID)
		}

		return nil, err
	}

	return booking, nil
}

func createBookingTx(ctx context.Context, tx pgx.Tx, params domain.CommitParams) (*domain.Booking, error) {
	seats, err := lockSeatRows(ctx, tx, params.ScreeningID, params.RoomID, params.SeatNumbers)
	if err != nil {
		return nil, err
	}

	for _, seat := range seats {
		if seat.Status != domain.SeatStatusAvailable {
			return nil, domain.ErrSeatAlreadyBooked
		}
	}

	ids := seatIDs(seats)

	err = purgeExpiredHolds(ctx, tx, params.ScreeningID, ids)
	if err != nil {
		return nil, err
	}

	// A live hold under a different lock id belongs to another customer and
	// is never stolen, even by a confirmed payment.
	var foreignHolds int

	err = tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM seat_holds
		 WHERE screening_id = $1 AND seat_id = ANY($2) AND lock_id <> $3`,
		params.ScreeningID,
		ids,
		params.LockID,
	).Scan(&foreignHolds)

	if err != nil {
		return nil, err
	}

	if foreignHolds > 0 {
		return nil, domain.ErrSeatAlreadyLocked
	}

	// Seat pricing is authoritative; the caller-provided amount is only a
	// fallback for seats without a price.
	totalPrice := decimal.Zero
	priced := true

	for _, seat := range seats {
		if seat.TicketPrice.IsZero() {
			priced = false
			break
		}

		totalPrice = totalPrice.Add(seat.TicketPrice)
	}

	if !priced {
		totalPrice = params.Amount
	}

	booking := domain.Booking{
		UserID:        params.UserID,
		ScreeningID:   params.ScreeningID,
		OrderID:       params.OrderID,
		TotalPrice:    totalPrice,
		PaymentMethod: params.PaymentMethod,
		QRCodeUUID:    uuid.New().String(),
	}

	query := `
		INSERT INTO bookings (user_id, screening_id, order_id, total_price, payment_method, qr_code_uuid)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, booking_time
	`

	err = tx.QueryRow(
		ctx,
		query,
		booking.UserID,
		booking.ScreeningID,
		booking.OrderID,
		booking.TotalPrice,
		booking.PaymentMethod,
		booking.QRCodeUUID,
	).Scan(&booking.ID, &booking.BookingTime)

	if err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(seats))
	for _, seat := range seats {
		booking.Seats = append(booking.Seats, domain.BookingSeat{
			BookingID:  booking.ID,
			SeatID:     seat.ID,
			SeatNumber: seat.SeatNumber,
		})

		rows = append(rows, []any{booking.ID, seat.ID})
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"booking_seats"},
		[]string{"booking_id", "seat_id"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `UPDATE seats SET status = 'unavailable' WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(
		ctx,
		`DELETE FROM seat_holds WHERE screening_id = $1 AND seat_id = ANY($2)`,
		params.ScreeningID,
		ids,
	)
	if err != nil {
		return nil, err
	}

	// Direct bookings have no payment attempt row; rows affected is not
	// checked on purpose.
	_, err = tx.Exec(
		ctx,
		`UPDATE payment_attempts SET status = 'succeeded', updated_at = now()
		 WHERE order_id = $1 AND status <> 'succeeded'`,
		params.OrderID,
	)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) GetByOrderId(ctx context.Context, orderID string) (*domain.Booking, error) {
	var booking *domain.Booking

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var err error
		booking, err = getByOrderIdTx(ctx, tx, orderID)
		return err
	})

	if err != nil {
		return nil, err
	}

	return booking, nil
}

func getByOrderIdTx(ctx context.Context, tx pgx.Tx, orderID string) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, screening_id, order_id, booking_time, total_price,
			payment_method, is_used, qr_code_uuid
		FROM bookings
		WHERE order_id = $1
	`

	var booking domain.Booking

	err := tx.QueryRow(ctx, query, orderID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ScreeningID,
		&booking.OrderID,
		&booking.BookingTime,
		&booking.TotalPrice,
		&booking.PaymentMethod,
		&booking.IsUsed,
		&booking.QRCodeUUID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	seats, err := bookingSeatsTx(ctx, tx, booking.ID)
	if err != nil {
		return nil, err
	}

	booking.Seats = seats

	return &booking, nil
}

func bookingSeatsTx(ctx context.Context, tx pgx.Tx, bookingID int) ([]domain.BookingSeat, error) {
	query := `
		SELECT bs.booking_id, bs.seat_id, s.seat_number
		FROM booking_seats bs
		JOIN seats s ON bs.seat_id = s.id
		WHERE bs.booking_id = $1
		ORDER BY s.seat_number
	`

	rows, err := tx.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.BookingSeat, 0)

	for rows.Next() {
		var seat domain.BookingSeat

		err = rows.Scan(&seat.BookingID, &seat.SeatID, &seat.SeatNumber)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	return seats, rows.Err()
}

func (p *PostgresBookingRepository) GetByIdAndUserId(ctx context.Context, bookingID, userID int) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, screening_id, order_id, booking_time, total_price,
			payment_method, is_used, qr_code_uuid
		FROM bookings
		WHERE id = $1 AND user_id = $2
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, bookingID, userID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ScreeningID,
		&booking.OrderID,
		&booking.BookingTime,
		&booking.TotalPrice,
		&booking.PaymentMethod,
		&booking.IsUsed,
		&booking.QRCodeUUID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			sc.movie_title,
			r.name,
			sc.starts_at,
			ARRAY(
				SELECT s.seat_number FROM booking_seats bs
				JOIN seats s ON bs.seat_id = s.id
				WHERE bs.booking_id = b.id
				ORDER BY s.seat_number
			),
			b.total_price,
			b.payment_method,
			b.booking_time
		FROM bookings b
		JOIN screenings sc ON b.screening_id = sc.id
		JOIN rooms r ON sc.room_id = r.id
		WHERE b.user_id = $1
		ORDER BY b.booking_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var summary domain.BookingSummary

		err = rows.Scan(
			&totalRecords,
			&summary.BookingID,
			&summary.MovieTitle,
			&summary.RoomName,
			&summary.ScreeningTime,
			&summary.SeatNumbers,
			&summary.TotalPrice,
			&summary.PaymentMethod,
			&summary.BookingTime,
		)
		if err != nil {
			return nil, nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return summaries, metadata, nil
}

// RedeemTicket validates a scanned QR code and performs the one-way
// is_used transition on first use. Unknown codes change nothing.
func (p *PostgresBookingRepository) RedeemTicket(ctx context.Context, qrCodeUUID string) (*domain.TicketCheck, error) {
	if _, err := uuid.Parse(qrCodeUUID); err != nil {
		return nil, domain.ErrRecordNotFound
	}

	var check domain.TicketCheck

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT b.id, b.is_used, sc.movie_title, r.name, sc.starts_at,
				b.total_price, b.payment_method, b.booking_time
			FROM bookings b
			JOIN screenings sc ON b.screening_id = sc.id
			JOIN rooms r ON sc.room_id = r.id
			WHERE b.qr_code_uuid = $1
			FOR UPDATE OF b
		`

		var bookingID int
		var isUsed bool
		summary := domain.BookingSummary{}

		err := tx.QueryRow(ctx, query, qrCodeUUID).Scan(
			&bookingID,
			&isUsed,
			&summary.MovieTitle,
			&summary.RoomName,
			&summary.ScreeningTime,
			&summary.TotalPrice,
			&summary.PaymentMethod,
			&summary.BookingTime,
		)

		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		summary.BookingID = bookingID

		seats, err := bookingSeatsTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		for _, seat := range seats {
			summary.SeatNumbers = append(summary.SeatNumbers, seat.SeatNumber)
		}

		check.Booking = &summary

		if isUsed {
			check.AlreadyUsed = true
			return nil
		}

		_, err = tx.Exec(ctx, `UPDATE bookings SET is_used = TRUE WHERE id = $1`, bookingID)
		if err != nil {
			return err
		}

		check.Valid = true
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &check, nil
}
