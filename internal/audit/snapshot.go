package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/wonny/chembridge/internal/combine"
	"github.com/wonny/chembridge/internal/contracts"
)

// RunSnapshot records one combine run for reproducibility review.
// 설정 해시 + 타깃별 리포트가 같으면 같은 결합 결과를 재현할 수 있어야 한다.
// ⭐ SSOT: 실행 감사 기록 스키마는 여기서만
type RunSnapshot struct {
	RunID      string                   `json:"run_id"`
	PanelID    string                   `json:"panel_id"`
	ConfigHash string                   `json:"config_hash"`
	StartedAt  time.Time                `json:"started_at"`
	Duration   time.Duration            `json:"duration"`
	RowCount   int                      `json:"row_count"`
	Reports    []contracts.TargetReport `json:"reports"`
	CreatedAt  time.Time                `json:"created_at"`
}

// NewRunSnapshot builds the audit record for a finished combine run
func NewRunSnapshot(panelID, configHash string, result *combine.Result) *RunSnapshot {
	return &RunSnapshot{
		RunID:      uuid.New().String(),
		PanelID:    panelID,
		ConfigHash: configHash,
		StartedAt:  result.StartedAt,
		Duration:   result.Duration,
		RowCount:   result.RowCount,
		Reports:    result.Reports,
		CreatedAt:  time.Now(),
	}
}

// RescaledTargets counts how many targets were placed on the reference scale
// (기준 타깃 자신 포함)
func (s *RunSnapshot) RescaledTargets() int {
	count := 0
	for _, report := range s.Reports {
		if report.Rescale.Applied() {
			count++
		}
	}
	return count
}

// Warnings collects the soft failure states recorded during the run
func (s *RunSnapshot) Warnings() []string {
	var warnings []string
	for _, report := range s.Reports {
		if report.EmptyOverlap() {
			warnings = append(warnings, report.Target+": empty overlap with reference")
			continue
		}
		if !report.IsReference && !report.Correlation.Defined() {
			warnings = append(warnings, report.Target+": rank correlation undefined")
		}
	}
	return warnings
}
