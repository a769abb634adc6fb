package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles run-audit persistence
// ⭐ SSOT: 실행 감사 기록 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new audit repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveRun persists one combine run's audit record. 실행 기록은 불변:
// 같은 run_id는 다시 쓰지 않는다.
func (r *Repository) SaveRun(ctx context.Context, snapshot *RunSnapshot) error {
	reportsJSON, err := json.Marshal(snapshot.Reports)
	if err != nil {
		return fmt.Errorf("failed to marshal reports: %w", err)
	}

	query := `
		INSERT INTO audit.combine_runs (
			run_id, panel_id, config_hash, started_at, duration_ms, row_count, reports, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id) DO NOTHING
	`

	_, err = r.pool.Exec(ctx, query,
		snapshot.RunID, snapshot.PanelID, snapshot.ConfigHash, snapshot.StartedAt,
		snapshot.Duration.Milliseconds(), snapshot.RowCount, reportsJSON, snapshot.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// GetRun retrieves one run by id
func (r *Repository) GetRun(ctx context.Context, runID string) (*RunSnapshot, error) {
	query := `
		SELECT run_id, panel_id, config_hash, started_at, duration_ms, row_count, reports, created_at
		FROM audit.combine_runs
		WHERE run_id = $1
	`

	return r.scanRun(r.pool.QueryRow(ctx, query, runID))
}

// GetLatestRun retrieves the most recent run, or nil when none exist
func (r *Repository) GetLatestRun(ctx context.Context) (*RunSnapshot, error) {
	query := `
		SELECT run_id, panel_id, config_hash, started_at, duration_ms, row_count, reports, created_at
		FROM audit.combine_runs
		ORDER BY created_at DESC
		LIMIT 1
	`

	return r.scanRun(r.pool.QueryRow(ctx, query))
}

// ListRuns retrieves recent runs, newest first
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]RunSnapshot, error) {
	query := `
		SELECT run_id, panel_id, config_hash, started_at, duration_ms, row_count, reports, created_at
		FROM audit.combine_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	snapshots := make([]RunSnapshot, 0)

	for rows.Next() {
		var snapshot RunSnapshot
		var reportsJSON []byte
		var durationMS int64

		err := rows.Scan(
			&snapshot.RunID, &snapshot.PanelID, &snapshot.ConfigHash, &snapshot.StartedAt,
			&durationMS, &snapshot.RowCount, &reportsJSON, &snapshot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		snapshot.Duration = time.Duration(durationMS) * time.Millisecond
		if err := json.Unmarshal(reportsJSON, &snapshot.Reports); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reports: %w", err)
		}

		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return snapshots, nil
}

// DeleteRunsBefore prunes run records created before cutoff, returning the
// number removed
func (r *Repository) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM audit.combine_runs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}

	return tag.RowsAffected(), nil
}

// scanRun reads one run row, mapping no-rows to nil
func (r *Repository) scanRun(row pgx.Row) (*RunSnapshot, error) {
	var snapshot RunSnapshot
	var reportsJSON []byte
	var durationMS int64

	err := row.Scan(
		&snapshot.RunID, &snapshot.PanelID, &snapshot.ConfigHash, &snapshot.StartedAt,
		&durationMS, &snapshot.RowCount, &reportsJSON, &snapshot.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil // No run recorded yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	snapshot.Duration = time.Duration(durationMS) * time.Millisecond
	if err := json.Unmarshal(reportsJSON, &snapshot.Reports); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reports: %w", err)
	}

	return &snapshot, nil
}
