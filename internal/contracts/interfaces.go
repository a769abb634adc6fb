package contracts

import (
	"context"
	"time"
)

// Preflight validates the assay store before a combine run
// ⭐ SSOT: 실행 전 스키마/커버리지 검증 인터페이스
type Preflight interface {
	Check(ctx context.Context, targets []string) (*StoreSnapshot, error)
}

// StoreSnapshot represents assay-store readiness ahead of a combine run
type StoreSnapshot struct {
	CheckedAt time.Time                 `json:"checked_at"`
	TotalRows int                       `json:"total_rows"`
	Coverage  map[string]TargetCoverage `json:"coverage"` // 타깃별 상태
	Missing   []string                  `json:"missing"`  // configured targets with zero rows
	Passed    bool                      `json:"passed"`
}

// TargetCoverage summarizes one target's stored rows
type TargetCoverage struct {
	Rows             int `json:"rows"`
	NonPositive      int `json:"non_positive"`      // activity ≤ 0, excluded from the log-space fit
	FingerprintDrift int `json:"fingerprint_drift"` // fingerprints off the modal length
}

// IsValid checks if the snapshot allows a combine run to proceed
func (s *StoreSnapshot) IsValid() bool {
	return s.Passed && len(s.Missing) == 0
}

// NonPositiveRate returns the share of stored rows that cannot enter the
// log-space correlation
func (s *StoreSnapshot) NonPositiveRate() float64 {
	if s.TotalRows == 0 {
		return 0.0
	}

	total := 0
	for _, cov := range s.Coverage {
		total += cov.NonPositive
	}

	return float64(total) / float64(s.TotalRows)
}
