package quality

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/chembridge/internal/contracts"
)

// Validator inspects the assay store before a combine run
type Validator struct {
	db     *pgxpool.Pool
	config Config
}

// Config holds preflight thresholds
type Config struct {
	// 전체 행 중 activity ≤ 0 비율이 이 값을 넘으면 실행 차단
	MaxNonPositiveRate float64 `yaml:"max_non_positive_rate"` // 0.05
}

// DefaultConfig returns the standard preflight thresholds
func DefaultConfig() Config {
	return Config{MaxNonPositiveRate: 0.05}
}

// NewValidator creates a new Validator instance
func NewValidator(db *pgxpool.Pool, config Config) *Validator {
	return &Validator{
		db:     db,
		config: config,
	}
}

// 저장소 스키마가 반드시 갖춰야 하는 컬럼
var requiredStoreColumns = []string{
	"target_name", "compound_id", "activity_value", "is_active", "fingerprint",
}

// Check validates the assay store for the configured targets
// ⭐ SSOT: 결합 전 스키마/커버리지 검증
func (v *Validator) Check(ctx context.Context, targets []string) (*contracts.StoreSnapshot, error) {
	snapshot := &contracts.StoreSnapshot{
		CheckedAt: time.Now(),
		Coverage:  make(map[string]contracts.TargetCoverage),
	}

	// 1. 스키마 검증 (누락 컬럼은 치명적: 여기서 실행이 끊긴다)
	if err := v.checkSchema(ctx); err != nil {
		return nil, err
	}

	// 2. 타깃별 커버리지 체크
	for _, target := range targets {
		cov, err := v.checkTarget(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("check target %s: %w", target, err)
		}
		snapshot.Coverage[target] = cov
		snapshot.TotalRows += cov.Rows

		if cov.Rows == 0 {
			snapshot.Missing = append(snapshot.Missing, target)
		}
	}

	// 3. 합격 여부 판정
	snapshot.Passed = evaluate(snapshot, v.config)

	return snapshot, nil
}

// checkSchema verifies the store carries every required column
func (v *Validator) checkSchema(ctx context.Context) error {
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = 'assay' AND table_name = 'activities'
	`

	rows, err := v.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("query store schema: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan column name: %w", err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read store schema: %w", err)
	}

	if missing := missingColumns(present); len(missing) > 0 {
		return &contracts.SchemaError{Target: "assay.activities", Missing: missing}
	}

	return nil
}

// checkTarget gathers one target's row counts
func (v *Validator) checkTarget(ctx context.Context, target string) (contracts.TargetCoverage, error) {
	var cov contracts.TargetCoverage

	rowQuery := `SELECT COUNT(*) FROM assay.activities WHERE target_name = $1`
	if err := v.db.QueryRow(ctx, rowQuery, target).Scan(&cov.Rows); err != nil {
		return cov, fmt.Errorf("count rows: %w", err)
	}

	// log10 적합에 들어갈 수 없는 행 (경고 대상)
	nonPosQuery := `
		SELECT COUNT(*)
		FROM assay.activities
		WHERE target_name = $1 AND activity_value <= 0
	`
	if err := v.db.QueryRow(ctx, nonPosQuery, target).Scan(&cov.NonPositive); err != nil {
		return cov, fmt.Errorf("count non-positive rows: %w", err)
	}

	lengths, err := v.fingerprintLengths(ctx, target)
	if err != nil {
		return cov, fmt.Errorf("fingerprint lengths: %w", err)
	}
	cov.FingerprintDrift = driftCount(lengths)

	return cov, nil
}

// fingerprintLengths counts stored rows per fingerprint length
func (v *Validator) fingerprintLengths(ctx context.Context, target string) (map[int]int, error) {
	query := `
		SELECT COALESCE(cardinality(fingerprint), 0) AS len, COUNT(*)
		FROM assay.activities
		WHERE target_name = $1
		GROUP BY len
	`

	rows, err := v.db.Query(ctx, query, target)
	if err != nil {
		return nil, fmt.Errorf("query fingerprint lengths: %w", err)
	}
	defer rows.Close()

	lengths := make(map[int]int)
	for rows.Next() {
		var length, count int
		if err := rows.Scan(&length, &count); err != nil {
			return nil, fmt.Errorf("scan fingerprint length: %w", err)
		}
		lengths[length] = count
	}
	return lengths, rows.Err()
}

// missingColumns returns required columns absent from the store schema
func missingColumns(present map[string]bool) []string {
	var missing []string
	for _, col := range requiredStoreColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// driftCount returns the number of rows whose fingerprint length differs
// from the modal length. 동수일 때는 짧은 길이를 모달로 본다 (결정적 판정).
func driftCount(lengths map[int]int) int {
	if len(lengths) == 0 {
		return 0
	}

	modalLen := -1
	modalCount := -1
	total := 0
	for length, count := range lengths {
		total += count
		if count > modalCount || (count == modalCount && length < modalLen) {
			modalLen = length
			modalCount = count
		}
	}

	return total - modalCount
}

// evaluate decides whether the store is fit for a combine run
func evaluate(snapshot *contracts.StoreSnapshot, cfg Config) bool {
	if len(snapshot.Missing) > 0 {
		return false
	}
	return snapshot.NonPositiveRate() <= cfg.MaxNonPositiveRate
}
