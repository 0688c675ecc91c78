package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ablemap/ablemap/internal/domain"
)

const userColumns = `id, nickname, auth_provider, auth_provider_id, created_at, updated_at`

type userRow struct {
	ID             int64     `db:"id"`
	Nickname       string    `db:"nickname"`
	AuthProvider   string    `db:"auth_provider"`
	AuthProviderID string    `db:"auth_provider_id"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:             r.ID,
		Nickname:       r.Nickname,
		AuthProvider:   r.AuthProvider,
		AuthProviderID: r.AuthProviderID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (u *Users) getOne(ctx context.Context, op, q string, args ...any) (*domain.User, error) {
	rows, err := u.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[userRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	return row.toDomain(), nil
}

func (u *Users) GetByAuth(ctx context.Context, provider, providerID string) (*domain.User, error) {
	return u.getOne(ctx, "users.get_by_auth",
		`SELECT `+userColumns+` FROM users WHERE auth_provider = $1 AND auth_provider_id = $2`,
		provider, providerID)
}

func (u *Users) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return u.getOne(ctx, "users.get_by_id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// Upsert relies on xmax = 0 being true only for freshly inserted rows.
func (u *Users) Upsert(ctx context.Context, provider, providerID, nickname string) (*domain.User, bool, error) {
	var (
		row     userRow
		created bool
	)
	err := u.pool.QueryRow(ctx, `
		INSERT INTO users (auth_provider, auth_provider_id, nickname)
		VALUES ($1, $2, $3)
		ON CONFLICT (auth_provider, auth_provider_id) DO UPDATE
			SET updated_at = now(),
			    nickname   = COALESCE(NULLIF(EXCLUDED.nickname, ''), users.nickname)
		RETURNING `+userColumns+`, (xmax = 0)`,
		provider, providerID, nickname,
	).Scan(&row.ID, &row.Nickname, &row.AuthProvider, &row.AuthProviderID, &row.CreatedAt, &row.UpdatedAt, &created)
	if err != nil {
		return nil, false, domain.NewStorageError("users.upsert", err)
	}
	return row.toDomain(), created, nil
}
