package repository

import (
	"context"
	"errors"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db: db,
	}
}

func (p *PostgresPaymentRepository) Create(ctx context.Context, attempt *domain.PaymentAttempt) error {
	query := `
		INSERT INTO payment_attempts (
			order_id,
			user_id,
			screening_id,
			room_id,
			seat_numbers,
			lock_id,
			amount,
			status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	return p.db.QueryRow(
		ctx,
		query,
		attempt.OrderID,
		attempt.UserID,
		attempt.ScreeningID,
		attempt.RoomID,
		attempt.SeatNumbers,
		attempt.LockID,
		attempt.Amount,
		attempt.Status,
	).Scan(&attempt.CreatedAt)
}

func (p *PostgresPaymentRepository) GetByOrderId(ctx context.Context, orderID string) (*domain.PaymentAttempt, error) {
	query := `
		SELECT order_id, user_id, screening_id, room_id, seat_numbers, lock_id,
			amount, status, trans_id, error_message, created_at, updated_at
		FROM payment_attempts
		WHERE order_id = $1
	`

	var attempt domain.PaymentAttempt

	err := p.db.QueryRow(ctx, query, orderID).Scan(
		&attempt.OrderID,
		&attempt.UserID,
		&attempt.ScreeningID,
		&attempt.RoomID,
		&attempt.SeatNumbers,
		&attempt.LockID,
		&attempt.Amount,
		&attempt.Status,
		&attempt.TransID,
		&attempt.ErrorMsg,
		&attempt.CreatedAt,
		&attempt.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &attempt, nil
}

// UpdateStatus never downgrades a succeeded attempt; a late failure
// notification for an already committed order is ignored.
func (p *PostgresPaymentRepository) UpdateStatus(
	ctx context.Context,
	orderID string,
	status domain.PaymentStatus,
	transID,
	errMsg string) error {

	query := `
		UPDATE payment_attempts
		SET status = $1, trans_id = $2, error_message = $3, updated_at = now()
		WHERE order_id = $4 AND status <> 'succeeded'
	`

	_, err := p.db.Exec(ctx, query, status, transID, errMsg, orderID)
	return err
}
