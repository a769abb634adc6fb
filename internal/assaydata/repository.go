package assaydata

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/chembridge/internal/contracts"
)

// Repository implements contracts.AssayRepository
// ⭐ SSOT: 타깃별 어세이 테이블 저장소는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new assay repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetTable retrieves every record measured against one target.
// 행 순서는 적재 순서(id)로 고정된다: 실행마다 같은 순서가 나와야 한다.
func (r *Repository) GetTable(ctx context.Context, target string) (*contracts.AssayTable, error) {
	query := `
		SELECT compound_id, activity_value, is_active, fingerprint
		FROM assay.activities
		WHERE target_name = $1
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query, target)
	if err != nil {
		return nil, fmt.Errorf("query assay table %s: %w", target, err)
	}
	defer rows.Close()

	table := &contracts.AssayTable{Target: target}
	for rows.Next() {
		var rec contracts.AssayRecord
		if err := rows.Scan(&rec.CompoundID, &rec.Activity, &rec.IsActive, &rec.Fingerprint); err != nil {
			return nil, fmt.Errorf("scan assay record for %s: %w", target, err)
		}
		table.Records = append(table.Records, rec)
	}
	return table, rows.Err()
}

// ListTargets returns every target with at least one stored record
func (r *Repository) ListTargets(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT target_name
		FROM assay.activities
		ORDER BY target_name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("scan target name: %w", err)
		}
		targets = append(targets, target)
	}
	return targets, rows.Err()
}

// CountByTarget returns the number of stored records for one target
func (r *Repository) CountByTarget(ctx context.Context, target string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM assay.activities WHERE target_name = $1`

	err := r.pool.QueryRow(ctx, query, target).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count records for %s: %w", target, err)
	}

	return count, nil
}

// SaveBatch upserts assay records for one target (bulk upsert)
func (r *Repository) SaveBatch(ctx context.Context, target string, records []contracts.AssayRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO assay.activities (
			target_name, compound_id, activity_value, is_active, fingerprint, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (target_name, compound_id) DO UPDATE SET
			activity_value = EXCLUDED.activity_value,
			is_active = EXCLUDED.is_active,
			fingerprint = EXCLUDED.fingerprint,
			updated_at = NOW()
	`

	// Batch insert using transactions
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, rec := range records {
		_, err := tx.Exec(ctx, query,
			target, rec.CompoundID, rec.Activity, rec.IsActive, rec.Fingerprint,
		)
		if err != nil {
			return fmt.Errorf("insert record %s/%s: %w", target, rec.CompoundID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
