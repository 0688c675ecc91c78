// Package postgres implements the domain stores on PostgreSQL through pgx.
//
// Bookmark membership lives in a BIGINT[] column. Every mutation is a single
// row-atomic statement (array_append / array_remove) so concurrent requests
// on the same place cannot lose updates.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ablemap/ablemap/internal/domain"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping checks the pool can reach the database.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

var (
	_ domain.BookmarkStore      = (*Store)(nil)
	_ domain.UserStore          = (*Users)(nil)
	_ domain.FeedbackStore      = (*Feedback)(nil)
	_ domain.AccessibilityStore = (*Reports)(nil)
)

// Users, Feedback and Reports share the pool with Store but are separate
// types so each satisfies exactly one domain interface.
type (
	Users    struct{ pool *pgxpool.Pool }
	Feedback struct{ pool *pgxpool.Pool }
	Reports  struct{ pool *pgxpool.Pool }
)

func (s *Store) Users() *Users       { return &Users{pool: s.pool} }
func (s *Store) Feedback() *Feedback { return &Feedback{pool: s.pool} }
func (s *Store) Reports() *Reports   { return &Reports{pool: s.pool} }
