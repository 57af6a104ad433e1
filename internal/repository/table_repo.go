package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tablebid/internal/domain"
)

type TableRepository interface {
	Create(ctx context.Context, table domain.Table) error
	GetByID(ctx context.Context, id string) (domain.Table, error)
	ListByHost(ctx context.Context, hostID string) ([]domain.Table, error)
	ListAll(ctx context.Context) ([]domain.Table, error)
	Delete(ctx context.Context, id string) error
}

type PgTableRepository struct {
	pool *pgxpool.Pool
}

func NewPgTableRepository(pool *pgxpool.Pool) *PgTableRepository {
	return &PgTableRepository{pool: pool}
}

const tableColumns = `
	id, host_id, table_name, host_name, club_name, reservation_date, available_spots,
	min_joining_fee, host_phone_number, host_social_links, host_bio, table_details,
	reservation_confirmation_uri, created_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTable(row rowScanner) (domain.Table, error) {
	var t domain.Table
	err := row.Scan(
		&t.ID,
		&t.HostID,
		&t.TableName,
		&t.HostName,
		&t.ClubName,
		&t.ReservationDate,
		&t.AvailableSpots,
		&t.MinJoiningFee,
		&t.HostPhoneNumber,
		&t.HostSocialLinks,
		&t.HostBio,
		&t.TableDetails,
		&t.ReservationConfirmationURI,
		&t.CreatedAt,
	)
	return t, err
}

func (r *PgTableRepository) Create(ctx context.Context, table domain.Table) error {
	const query = `
		INSERT INTO venue_tables (` + tableColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.pool.Exec(ctx, query,
		table.ID,
		table.HostID,
		table.TableName,
		table.HostName,
		table.ClubName,
		table.ReservationDate,
		table.AvailableSpots,
		table.MinJoiningFee,
		table.HostPhoneNumber,
		table.HostSocialLinks,
		table.HostBio,
		table.TableDetails,
		table.ReservationConfirmationURI,
		table.CreatedAt,
	)
	return err
}

func (r *PgTableRepository) GetByID(ctx context.Context, id string) (domain.Table, error) {
	// Un id que no es uuid no puede existir; evita el error de cast en Postgres.
	if _, err := uuid.Parse(id); err != nil {
		return domain.Table{}, ErrNotFound
	}
	query := `SELECT ` + tableColumns + ` FROM venue_tables WHERE id = $1`
	t, err := scanTable(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Table{}, ErrNotFound
	}
	return t, err
}

func (r *PgTableRepository) ListByHost(ctx context.Context, hostID string) ([]domain.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM venue_tables WHERE host_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, hostID)
}

func (r *PgTableRepository) ListAll(ctx context.Context) ([]domain.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM venue_tables ORDER BY created_at ASC`
	return r.list(ctx, query)
}

func (r *PgTableRepository) list(ctx context.Context, query string, args ...any) ([]domain.Table, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []domain.Table{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *PgTableRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM venue_tables WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
