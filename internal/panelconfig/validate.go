package panelconfig

import (
	"fmt"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.PanelID == "" {
		return ValidationError{"meta.panel_id", "required"}
	}

	// === Panel ===
	if cfg.Panel.Reference == "" {
		return ValidationError{"panel.reference", "required"}
	}
	if len(cfg.Panel.OffTargets) == 0 {
		return ValidationError{"panel.off_targets", "must list at least one off-target"}
	}

	seen := map[string]bool{cfg.Panel.Reference: true}
	for i, target := range cfg.Panel.OffTargets {
		if target == "" {
			return ValidationError{
				Field:   fmt.Sprintf("panel.off_targets[%d]", i),
				Message: "must not be empty",
			}
		}
		if target == cfg.Panel.Reference {
			return ValidationError{
				Field:   fmt.Sprintf("panel.off_targets[%d]", i),
				Message: "reference must not appear among off-targets",
			}
		}
		if seen[target] {
			return ValidationError{
				Field:   fmt.Sprintf("panel.off_targets[%d]", i),
				Message: fmt.Sprintf("duplicate target %q", target),
			}
		}
		seen[target] = true
	}

	// === Outliers ===
	for target, cutoff := range cfg.Outliers.RefActivityMax {
		if cutoff <= 0 {
			return ValidationError{
				Field:   fmt.Sprintf("outliers.ref_activity_max[%s]", target),
				Message: "cutoff must be > 0",
			}
		}
	}

	// === Rescaling ===
	if cfg.Rescaling.MinCorrelation < 0 || cfg.Rescaling.MinCorrelation > 1 {
		return ValidationError{"rescaling.min_correlation", "must be in range [0, 1]"}
	}

	// === Run ===
	if cfg.Run.Workers < 0 {
		return ValidationError{"run.workers", "must be >= 0 (0 = default)"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 패널에 없는 타깃의 컷오프: 오타일 가능성이 높음
	offTargets := make(map[string]bool, len(cfg.Panel.OffTargets))
	for _, target := range cfg.Panel.OffTargets {
		offTargets[target] = true
	}
	for target := range cfg.Outliers.RefActivityMax {
		if !offTargets[target] {
			warnings = append(warnings, Warning{
				Code:    "UNKNOWN_OUTLIER_TARGET",
				Message: fmt.Sprintf("outlier cutoff for %q which is not in panel.off_targets", target),
			})
		}
	}

	// 느슨한 상관 컷오프: 약하게 상관된 타깃까지 재척도하면 스케일 왜곡
	if cfg.Rescaling.MinCorrelation < 0.5 {
		warnings = append(warnings, Warning{
			Code:    "PERMISSIVE_CUTOFF",
			Message: fmt.Sprintf("min_correlation %.2f < 0.50: weakly correlated targets will be rescaled", cfg.Rescaling.MinCorrelation),
		})
	}

	// 타깃 수보다 많은 워커는 의미 없음
	if cfg.Run.Workers > len(cfg.Panel.OffTargets)+1 {
		warnings = append(warnings, Warning{
			Code:    "EXCESS_WORKERS",
			Message: fmt.Sprintf("workers=%d exceeds target count %d", cfg.Run.Workers, len(cfg.Panel.OffTargets)+1),
		})
	}

	return warnings
}
