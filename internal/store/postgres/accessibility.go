package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ablemap/ablemap/internal/domain"
)

type facilityDoc struct {
	Available bool     `json:"available"`
	Features  []string `json:"features,omitempty"`
}

type facilitiesDoc struct {
	Entrance facilityDoc `json:"entrance"`
	Restroom facilityDoc `json:"restroom"`
	Parking  facilityDoc `json:"parking"`
	Elevator facilityDoc `json:"elevator"`
}

func toFacilitiesDoc(f domain.Facilities) facilitiesDoc {
	conv := func(f domain.Facility) facilityDoc { return facilityDoc{Available: f.Available, Features: f.Features} }
	return facilitiesDoc{
		Entrance: conv(f.Entrance),
		Restroom: conv(f.Restroom),
		Parking:  conv(f.Parking),
		Elevator: conv(f.Elevator),
	}
}

func (d facilitiesDoc) toDomain() domain.Facilities {
	conv := func(f facilityDoc) domain.Facility { return domain.Facility{Available: f.Available, Features: f.Features} }
	return domain.Facilities{
		Entrance: conv(d.Entrance),
		Restroom: conv(d.Restroom),
		Parking:  conv(d.Parking),
		Elevator: conv(d.Elevator),
	}
}

type reportRow struct {
	PlaceID              string        `db:"place_id"`
	PlaceName            string        `db:"place_name"`
	Summary              string        `db:"summary"`
	Score                int           `db:"accessibility_score"`
	Recommendations      []string      `db:"recommendations"`
	HighlightedObstacles []string      `db:"highlighted_obstacles"`
	HasStairs            bool          `db:"has_stairs"`
	StairsCount          int           `db:"stairs_count"`
	HasRamp              bool          `db:"has_ramp"`
	EntranceAccessible   bool          `db:"entrance_accessible"`
	Facilities           facilitiesDoc `db:"facilities"`
	CreatedAt            time.Time     `db:"created_at"`
	UpdatedAt            time.Time     `db:"updated_at"`
}

const upsertReport = `
	INSERT INTO accessibility_reports (
		place_id, place_name, summary, accessibility_score, recommendations,
		highlighted_obstacles, has_stairs, stairs_count, has_ramp,
		entrance_accessible, facilities
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (place_id) DO UPDATE SET
		place_name            = EXCLUDED.place_name,
		summary               = EXCLUDED.summary,
		accessibility_score   = EXCLUDED.accessibility_score,
		recommendations       = EXCLUDED.recommendations,
		highlighted_obstacles = EXCLUDED.highlighted_obstacles,
		has_stairs            = EXCLUDED.has_stairs,
		stairs_count          = EXCLUDED.stairs_count,
		has_ramp              = EXCLUDED.has_ramp,
		entrance_accessible   = EXCLUDED.entrance_accessible,
		facilities            = EXCLUDED.facilities,
		updated_at            = now()`

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// UpsertMany writes all reports in one transaction through a pgx batch.
func (r *Reports) UpsertMany(ctx context.Context, reports []*domain.AccessibilityReport) error {
	if len(reports) == 0 {
		return nil
	}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, rep := range reports {
			batch.Queue(upsertReport,
				rep.PlaceID, rep.PlaceName, rep.Summary, rep.Score,
				emptyIfNil(rep.Recommendations), emptyIfNil(rep.HighlightedObstacles),
				rep.HasStairs, rep.StairsCount, rep.HasRamp, rep.EntranceAccessible,
				toFacilitiesDoc(rep.Facilities),
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	return domain.NewStorageError("reports.upsert", err)
}

func (r *Reports) Get(ctx context.Context, placeID string) (*domain.AccessibilityReport, error) {
	rows, err := r.pool.Query(ctx, `SELECT * FROM accessibility_reports WHERE place_id = $1`, placeID)
	if err != nil {
		return nil, domain.NewStorageError("reports.get", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[reportRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrReportNotFound
	}
	if err != nil {
		return nil, domain.NewStorageError("reports.get", err)
	}

	return &domain.AccessibilityReport{
		PlaceID:              row.PlaceID,
		PlaceName:            row.PlaceName,
		Summary:              row.Summary,
		Score:                row.Score,
		Recommendations:      row.Recommendations,
		HighlightedObstacles: row.HighlightedObstacles,
		HasStairs:            row.HasStairs,
		StairsCount:          row.StairsCount,
		HasRamp:              row.HasRamp,
		EntranceAccessible:   row.EntranceAccessible,
		Facilities:           row.Facilities.toDomain(),
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

func (r *Reports) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM accessibility_reports`).Scan(&n); err != nil {
		return 0, domain.NewStorageError("reports.count", err)
	}
	return n, nil
}
