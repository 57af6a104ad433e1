package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tablebid/internal/domain"
)

type SessionRepository interface {
	// Replace guarda la sesion y elimina cualquier otra sesion del mismo usuario.
	Replace(ctx context.Context, session domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
}

type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

func (r *PgSessionRepository) Replace(ctx context.Context, session domain.Session) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, session.UserID); err != nil {
			return err
		}
		const insert = `
			INSERT INTO sessions (id, user_id, token_hash, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		_, err := tx.Exec(ctx, insert,
			session.ID,
			session.UserID,
			session.TokenHash,
			session.ExpiresAt,
			session.CreatedAt,
		)
		return err
	})
}

func (r *PgSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error) {
	const query = `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM sessions
		WHERE token_hash = $1
	`
	var session domain.Session
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, ErrNotFound
	}
	return session, err
}

func (r *PgSessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
