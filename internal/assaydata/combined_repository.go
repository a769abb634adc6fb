package assaydata

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/chembridge/internal/contracts"
)

// CombinedRepository implements contracts.CombinedRepository
// ⭐ SSOT: 결합 출력 테이블 저장소는 여기서만
type CombinedRepository struct {
	pool *pgxpool.Pool
}

// NewCombinedRepository creates a new combined-table repository
func NewCombinedRepository(pool *pgxpool.Pool) *CombinedRepository {
	return &CombinedRepository{pool: pool}
}

// ReplaceAll atomically swaps the combined table for a new run's rows.
// DELETE + INSERT가 한 트랜잭션: 실패한 실행은 이전 결과를 건드리지 않는다.
func (r *CombinedRepository) ReplaceAll(ctx context.Context, records []contracts.CombinedRecord) error {
	query := `
		INSERT INTO assay.combined_activities (
			position, compound_id, fingerprint, activity_target, is_active_target,
			target_name, reference_vs_target_rank_correlation,
			activity_rescaled_to_reference, rescale_status, rescale_slope, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM assay.combined_activities`); err != nil {
		return fmt.Errorf("clear combined table: %w", err)
	}

	for i, rec := range records {
		_, err := tx.Exec(ctx, query,
			i, rec.CompoundID, rec.Fingerprint, rec.ActivityTarget, rec.IsActiveTarget,
			rec.TargetName, rec.RankCorrelation,
			rec.ActivityRescaled, string(rec.RescaleStatus), rec.RescaleSlope,
		)
		if err != nil {
			return fmt.Errorf("insert combined row %s/%s: %w", rec.TargetName, rec.CompoundID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByTarget retrieves one target's combined rows in combine order
func (r *CombinedRepository) GetByTarget(ctx context.Context, target string) ([]contracts.CombinedRecord, error) {
	query := `
		SELECT compound_id, fingerprint, activity_target, is_active_target,
			target_name, reference_vs_target_rank_correlation,
			activity_rescaled_to_reference, rescale_status, rescale_slope
		FROM assay.combined_activities
		WHERE target_name = $1
		ORDER BY position ASC
	`

	rows, err := r.pool.Query(ctx, query, target)
	if err != nil {
		return nil, fmt.Errorf("query combined rows for %s: %w", target, err)
	}
	defer rows.Close()

	var records []contracts.CombinedRecord
	for rows.Next() {
		var rec contracts.CombinedRecord
		var status string
		if err := rows.Scan(
			&rec.CompoundID, &rec.Fingerprint, &rec.ActivityTarget, &rec.IsActiveTarget,
			&rec.TargetName, &rec.RankCorrelation,
			&rec.ActivityRescaled, &status, &rec.RescaleSlope,
		); err != nil {
			return nil, fmt.Errorf("scan combined row for %s: %w", target, err)
		}
		rec.RescaleStatus = contracts.RescaleStatus(status)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of combined rows from the last run
func (r *CombinedRepository) Count(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM assay.combined_activities`

	err := r.pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count combined rows: %w", err)
	}

	return count, nil
}
