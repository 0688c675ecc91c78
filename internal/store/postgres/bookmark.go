package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ablemap/ablemap/internal/domain"
)

const bookmarkColumns = `id, place_id, place_name, user_ids, created_at, updated_at`

type bookmarkRow struct {
	ID        int64     `db:"id"`
	PlaceID   string    `db:"place_id"`
	PlaceName string    `db:"place_name"`
	UserIDs   []int64   `db:"user_ids"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r bookmarkRow) toDomain() *domain.Bookmark {
	return &domain.Bookmark{
		ID:        r.ID,
		PlaceID:   r.PlaceID,
		PlaceName: r.PlaceName,
		UserIDs:   r.UserIDs,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// AddMember inserts the record or appends userID in one statement. The
// conflict branch only fires when userID is not yet a member; no row back
// means it already was.
func (s *Store) AddMember(ctx context.Context, placeID, placeName string, userID int64) (*domain.Bookmark, error) {
	const q = `
		INSERT INTO bookmarks (place_id, place_name, user_ids)
		VALUES ($1, $2, ARRAY[$3::bigint])
		ON CONFLICT (place_id) DO UPDATE
			SET user_ids   = array_append(bookmarks.user_ids, $3::bigint),
			    updated_at = clock_timestamp()
			WHERE NOT ($3::bigint = ANY (bookmarks.user_ids))
		RETURNING ` + bookmarkColumns

	rows, err := s.pool.Query(ctx, q, placeID, placeName, userID)
	if err != nil {
		return nil, domain.NewStorageError("bookmarks.add", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[bookmarkRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDuplicateBookmark
	}
	if err != nil {
		return nil, domain.NewStorageError("bookmarks.add", err)
	}
	return row.toDomain(), nil
}

func (s *Store) RemoveMember(ctx context.Context, placeID string, userID int64) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE bookmarks
			SET user_ids = array_remove(user_ids, $2::bigint), updated_at = clock_timestamp()
			WHERE place_id = $1 AND $2::bigint = ANY (user_ids)`, placeID, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		_, err = tx.Exec(ctx, `DELETE FROM bookmarks WHERE place_id = $1 AND cardinality(user_ids) = 0`, placeID)
		return err
	})
	return domain.NewStorageError("bookmarks.remove", err)
}

func (s *Store) ListForUser(ctx context.Context, userID int64) ([]*domain.Bookmark, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+bookmarkColumns+`
		FROM bookmarks
		WHERE $1::bigint = ANY (user_ids)
		ORDER BY updated_at, id`, userID)
	if err != nil {
		return nil, domain.NewStorageError("bookmarks.list", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[bookmarkRow])
	if err != nil {
		return nil, domain.NewStorageError("bookmarks.list", err)
	}

	out := make([]*domain.Bookmark, 0, len(list))
	for _, r := range list {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *Store) IsMember(ctx context.Context, placeID string, userID int64) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookmarks WHERE place_id = $1 AND $2::bigint = ANY (user_ids)
		)`, placeID, userID).Scan(&ok)
	if err != nil {
		return false, domain.NewStorageError("bookmarks.is_member", err)
	}
	return ok, nil
}

func (s *Store) DeleteOrphans(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM bookmarks WHERE cardinality(user_ids) = 0`)
	if err != nil {
		return 0, domain.NewStorageError("bookmarks.delete_orphans", err)
	}
	return int(tag.RowsAffected()), nil
}
