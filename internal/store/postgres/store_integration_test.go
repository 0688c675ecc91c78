//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ablemap/ablemap/internal/domain"
)

func skipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	skipIfNoDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "ablemap",
				"POSTGRES_PASSWORD": "ablemap",
				"POSTGRES_DB":       "ablemap",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	url := fmt.Sprintf("postgres://ablemap:ablemap@%s:%s/ablemap?sslmode=disable", host, port.Port())
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := NewStore(pool)
	require.NoError(t, s.Bootstrap(ctx))
	// Twice, to prove the DDL is idempotent.
	require.NoError(t, s.Bootstrap(ctx))
	return s
}

func TestPostgresBookmarkLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b, err := s.AddMember(ctx, "P1", "Cafe", 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, b.UserIDs)
	assert.Equal(t, "Cafe", b.PlaceName)

	_, err = s.AddMember(ctx, "P1", "Cafe", 7)
	assert.True(t, errors.Is(err, domain.ErrDuplicateBookmark))

	b2, err := s.AddMember(ctx, "P1", "Other name", 9)
	require.NoError(t, err)
	assert.Equal(t, b.ID, b2.ID)
	assert.Equal(t, "Cafe", b2.PlaceName)
	assert.Equal(t, []int64{7, 9}, b2.UserIDs)
	assert.True(t, b2.UpdatedAt.After(b.UpdatedAt))

	ok, err := s.IsMember(ctx, "P1", 9)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.RemoveMember(ctx, "P1", 7))
	require.NoError(t, s.RemoveMember(ctx, "P1", 7)) // idempotent
	list, err := s.ListForUser(ctx, 9)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []int64{9}, list[0].UserIDs)

	require.NoError(t, s.RemoveMember(ctx, "P1", 9))
	list, err = s.ListForUser(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, list)

	var rows int
	require.NoError(t, s.pool.QueryRow(ctx, `SELECT count(*) FROM bookmarks`).Scan(&rows))
	assert.Zero(t, rows, "last member leaving must delete the row")
}

func TestPostgresListOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddMember(ctx, "A", "Alpha", 1)
	require.NoError(t, err)
	_, err = s.AddMember(ctx, "B", "Beta", 1)
	require.NoError(t, err)
	_, err = s.AddMember(ctx, "A", "Alpha", 2)
	require.NoError(t, err)

	list, err := s.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].PlaceID)
	assert.Equal(t, "A", list[1].PlaceID)
}

func TestPostgresConcurrentAddMember(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const users = 20
	var wg sync.WaitGroup
	for i := int64(1); i <= users; i++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			_, err := s.AddMember(ctx, "P1", "Cafe", uid)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var members int
	require.NoError(t, s.pool.QueryRow(ctx,
		`SELECT cardinality(user_ids) FROM bookmarks WHERE place_id = 'P1'`).Scan(&members))
	assert.Equal(t, users, members)
}

func TestPostgresDeleteOrphans(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.pool.Exec(ctx, `INSERT INTO bookmarks (place_id, place_name, user_ids) VALUES ('ghost', 'x', '{}')`)
	require.NoError(t, err)
	_, err = s.AddMember(ctx, "P1", "Cafe", 1)
	require.NoError(t, err)

	n, err := s.DeleteOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPostgresUsersFeedbackReports(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, created, err := s.Users().Upsert(ctx, "kakao", "123", "neo")
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := s.Users().Upsert(ctx, "kakao", "123", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "neo", again.Nickname)

	_, err = s.Users().GetByAuth(ctx, "kakao", "404")
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))

	fb, err := s.Feedback().Create(ctx, &domain.Feedback{SatisfactionLevel: domain.Satisfied})
	require.NoError(t, err)
	assert.NotZero(t, fb.ID)

	err = s.Reports().UpsertMany(ctx, []*domain.AccessibilityReport{{
		PlaceID: "P1", Summary: "step-free", Score: 90,
		Facilities: domain.Facilities{Elevator: domain.Facility{Available: true, Features: []string{"braille"}}},
	}})
	require.NoError(t, err)

	rep, err := s.Reports().Get(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 90, rep.Score)
	assert.True(t, rep.Facilities.Elevator.Available)
	assert.Equal(t, []string{"braille"}, rep.Facilities.Elevator.Features)

	_, err = s.Reports().Get(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrReportNotFound))

	n, err := s.Reports().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
