package contracts

// CorrelationStatus tags whether a rank correlation could be computed
type CorrelationStatus string

const (
	CorrelationDefined   CorrelationStatus = "defined"
	CorrelationUndefined CorrelationStatus = "undefined"
)

// Correlation is a tagged Spearman coefficient.
// ⭐ SSOT: 미정의 상관은 여기서만 표현, 0이나 1로 절대 강제하지 않음
type Correlation struct {
	Status CorrelationStatus `json:"status"`
	Rho    float64           `json:"rho"` // meaningful only when Status == defined
}

// DefinedCorrelation wraps a computed coefficient
func DefinedCorrelation(rho float64) Correlation {
	return Correlation{Status: CorrelationDefined, Rho: rho}
}

// UndefinedCorrelation marks insufficient variance or sample size
func UndefinedCorrelation() Correlation {
	return Correlation{Status: CorrelationUndefined}
}

// Defined reports whether a coefficient exists
func (c Correlation) Defined() bool {
	return c.Status == CorrelationDefined
}

// Meets reports whether the coefficient exists and reaches the cutoff.
// Undefined correlations never meet any cutoff.
func (c Correlation) Meets(cutoff float64) bool {
	return c.Status == CorrelationDefined && c.Rho >= cutoff
}

// RescaleStatus tags what happened to a target's activity scale
type RescaleStatus string

const (
	RescaleApplied   RescaleStatus = "rescaled"  // divided by a fitted slope
	RescaleSkipped   RescaleStatus = "unscaled"  // passed through raw
	RescaleReference RescaleStatus = "reference" // the reference target itself, slope 1
)

// SkipReason explains why an off-target passed through unscaled
type SkipReason string

const (
	SkipLowCorrelation       SkipReason = "low_correlation"
	SkipUndefinedCorrelation SkipReason = "undefined_correlation"
	SkipEmptyOverlap         SkipReason = "empty_overlap"
	SkipDegenerateFit        SkipReason = "degenerate_fit"
)

// RescaleDecision records whether a target's activities were divided by a
// fitted slope, and why not when they were not.
type RescaleDecision struct {
	Status RescaleStatus `json:"status"`
	Slope  float64       `json:"slope"`            // meaningful only when Applied()
	Reason SkipReason    `json:"reason,omitempty"` // set only when Status == unscaled
}

// AppliedRescale wraps a fitted slope
func AppliedRescale(slope float64) RescaleDecision {
	return RescaleDecision{Status: RescaleApplied, Slope: slope}
}

// SkippedRescale marks a pass-through with its reason
func SkippedRescale(reason SkipReason) RescaleDecision {
	return RescaleDecision{Status: RescaleSkipped, Reason: reason}
}

// ReferenceRescale is the identity decision for the reference target
func ReferenceRescale() RescaleDecision {
	return RescaleDecision{Status: RescaleReference, Slope: 1.0}
}

// Applied reports whether activities were placed on the reference scale
// (including the reference itself, whose slope is identically 1)
func (d RescaleDecision) Applied() bool {
	return d.Status == RescaleApplied || d.Status == RescaleReference
}
