package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tablebid/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	// Upsert crea el usuario o actualiza su updated_at, y devuelve la fila resultante.
	Upsert(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Upsert(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `
		INSERT INTO users (id, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id, phone_number, created_at, updated_at
	`
	var u domain.User
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.PhoneNumber,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&u.ID, &u.PhoneNumber, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `
		SELECT id, phone_number, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var u domain.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.PhoneNumber,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	return u, err
}
