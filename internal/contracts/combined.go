package contracts

import "time"

// CombinedRecord is one row of the combined long-format output table.
// ⭐ SSOT: 결합 출력 스키마는 여기서만 정의
type CombinedRecord struct {
	CompoundID     string    `json:"compound_id"`
	Fingerprint    []float64 `json:"fingerprint"`
	ActivityTarget float64   `json:"activity_target"`   // raw activity against TargetName
	IsActiveTarget bool      `json:"is_active_target"`
	TargetName     string    `json:"target_name"`

	// nil means the correlation was undefined for this target
	RankCorrelation *float64 `json:"reference_vs_target_rank_correlation"`

	// raw/slope when rescaled, equal to ActivityTarget when unscaled
	ActivityRescaled float64 `json:"activity_rescaled_to_reference"`

	// Explicit state tags so an unscaled row is never mistaken for a rescaled one
	RescaleStatus RescaleStatus `json:"rescale_status"`
	RescaleSlope  *float64      `json:"rescale_slope"` // nil when unscaled
}

// Rescaled reports whether this row's activity sits on the reference scale
func (r *CombinedRecord) Rescaled() bool {
	return r.RescaleStatus == RescaleApplied || r.RescaleStatus == RescaleReference
}

// TargetReport captures everything decided while processing one target.
// Soft failure states (empty overlap, undefined correlation, skipped
// regression) are recorded here, never raised as errors.
type TargetReport struct {
	Target      string          `json:"target"`
	IsReference bool            `json:"is_reference"`
	Rows        int             `json:"rows"`         // rows contributed to the combined table
	OverlapSize int             `json:"overlap_size"` // shared compounds after the join
	FilteredOut int             `json:"filtered_out"` // overlap rows dropped by the outlier filter
	Correlation Correlation     `json:"correlation"`
	Rescale     RescaleDecision `json:"rescale"`
	ProcessedAt time.Time       `json:"processed_at"`
}

// EmptyOverlap reports whether the join against the reference found no
// shared compounds. Distinct from an undefined correlation.
func (r *TargetReport) EmptyOverlap() bool {
	return !r.IsReference && r.OverlapSize == 0
}
