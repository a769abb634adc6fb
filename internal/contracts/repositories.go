package contracts

import (
	"context"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// AssayRepository manages per-target assay tables in the processed-data store
type AssayRepository interface {
	GetTable(ctx context.Context, target string) (*AssayTable, error)
	ListTargets(ctx context.Context) ([]string, error)
	CountByTarget(ctx context.Context, target string) (int, error)
	SaveBatch(ctx context.Context, target string, records []AssayRecord) error
}

// CombinedRepository manages the combined long-format output table
type CombinedRepository interface {
	// ReplaceAll atomically swaps the combined table for a new run's rows.
	// Two runs over identical inputs leave identical table contents.
	ReplaceAll(ctx context.Context, records []CombinedRecord) error
	GetByTarget(ctx context.Context, target string) ([]CombinedRecord, error)
	Count(ctx context.Context) (int, error)
}
