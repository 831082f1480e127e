package repository

import (
	"context"
	"errors"

	"github.com/dnguyen/cinema-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresScreeningRepository struct {
	db *pgxpool.Pool
}

func NewPostgresScreeningRepository(db *pgxpool.Pool) *PostgresScreeningRepository {
	return &PostgresScreeningRepository{
		db: db,
	}
}

func (p *PostgresScreeningRepository) GetByIdAndRoom(
	ctx context.Context,
	screeningID,
	roomID int) (*domain.Screening, error) {

	query := `
		SELECT sc.id, sc.movie_title, sc.room_id, r.name, sc.starts_at
		FROM screenings sc
		JOIN rooms r ON sc.room_id = r.id
		WHERE sc.id = $1 AND sc.room_id = $2
	`

	var screening domain.Screening

	err := p.db.QueryRow(ctx, query, screeningID, roomID).Scan(
		&screening.ID,
		&screening.MovieTitle,
		&screening.RoomID,
		&screening.RoomName,
		&screening.StartsAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &screening, nil
}

func (p *PostgresScreeningRepository) GetById(ctx context.Context, screeningID int) (*domain.Screening, error) {
	query := `
		SELECT sc.id, sc.movie_title, sc.room_id, r.name, sc.starts_at
		FROM screenings sc
		JOIN rooms r ON sc.room_id = r.id
		WHERE sc.id = $1
	`

	var screening domain.Screening

	err := p.db.QueryRow(ctx, query, screeningID).Scan(
		&screening.ID,
		&screening.MovieTitle,
		&screening.RoomID,
		&screening.RoomName,
		&screening.StartsAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &screening, nil
}
