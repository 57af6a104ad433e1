package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tablebid/internal/domain"
)

type BidRepository interface {
	Create(ctx context.Context, bid domain.Bid) error
	GetByID(ctx context.Context, id string) (domain.Bid, error)
	ListByTable(ctx context.Context, tableID string) ([]domain.Bid, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Bid, error)
	// FindOldest devuelve la puja mas antigua que coincide con mesa, usuario y estado.
	FindOldest(ctx context.Context, tableID, userID string, status domain.BidStatus) (domain.Bid, error)
	UpdateStatus(ctx context.Context, id string, status domain.BidStatus) error
	// DeleteIfStatus borra la puja solo si sigue en el estado indicado.
	DeleteIfStatus(ctx context.Context, id string, status domain.BidStatus) (bool, error)
}

type PgBidRepository struct {
	pool *pgxpool.Pool
}

func NewPgBidRepository(pool *pgxpool.Pool) *PgBidRepository {
	return &PgBidRepository{pool: pool}
}

const bidColumns = `
	id, table_id, user_id, status, bid_amount, joiner_name, phone_number,
	user_social_links, referred_by, photo_uri, created_at
`

func scanBid(row rowScanner) (domain.Bid, error) {
	var b domain.Bid
	err := row.Scan(
		&b.ID,
		&b.TableID,
		&b.UserID,
		&b.Status,
		&b.BidAmount,
		&b.JoinerName,
		&b.PhoneNumber,
		&b.UserSocialLinks,
		&b.ReferredBy,
		&b.PhotoURI,
		&b.CreatedAt,
	)
	return b, err
}

func (r *PgBidRepository) Create(ctx context.Context, bid domain.Bid) error {
	const query = `
		INSERT INTO bids (` + bidColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		bid.ID,
		bid.TableID,
		bid.UserID,
		string(bid.Status),
		bid.BidAmount,
		bid.JoinerName,
		bid.PhoneNumber,
		bid.UserSocialLinks,
		bid.ReferredBy,
		bid.PhotoURI,
		bid.CreatedAt,
	)
	return err
}

func (r *PgBidRepository) GetByID(ctx context.Context, id string) (domain.Bid, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Bid{}, ErrNotFound
	}
	query := `SELECT ` + bidColumns + ` FROM bids WHERE id = $1`
	b, err := scanBid(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Bid{}, ErrNotFound
	}
	return b, err
}

func (r *PgBidRepository) ListByTable(ctx context.Context, tableID string) ([]domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE table_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, tableID)
}

func (r *PgBidRepository) ListByUser(ctx context.Context, userID string) ([]domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE user_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, userID)
}

func (r *PgBidRepository) FindOldest(ctx context.Context, tableID, userID string, status domain.BidStatus) (domain.Bid, error) {
	query := `
		SELECT ` + bidColumns + ` FROM bids
		WHERE table_id = $1 AND user_id = $2 AND status = $3
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`
	b, err := scanBid(r.pool.QueryRow(ctx, query, tableID, userID, string(status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Bid{}, ErrNotFound
	}
	return b, err
}

func (r *PgBidRepository) UpdateStatus(ctx context.Context, id string, status domain.BidStatus) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `UPDATE bids SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgBidRepository) DeleteIfStatus(ctx context.Context, id string, status domain.BidStatus) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM bids WHERE id = $1 AND status = $2`, id, string(status))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgBidRepository) list(ctx context.Context, query string, args ...any) ([]domain.Bid, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := []domain.Bid{}
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bids, nil
}
