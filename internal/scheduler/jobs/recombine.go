package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/chembridge/internal/audit"
	"github.com/wonny/chembridge/internal/combine"
	"github.com/wonny/chembridge/internal/contracts"
	"github.com/wonny/chembridge/internal/panelconfig"
	"github.com/wonny/chembridge/pkg/logger"
)

// RecombineJob rebuilds the combined table nightly
// ⭐ SSOT: 정기 재결합 스케줄은 이 Job에서만
type RecombineJob struct {
	cfg        *panelconfig.Config
	configHash string
	preflight  contracts.Preflight
	engine     *combine.Engine
	auditRepo  *audit.Repository
	logger     *logger.Logger
}

// NewRecombineJob creates a new recombine job
func NewRecombineJob(
	cfg *panelconfig.Config,
	configHash string,
	preflight contracts.Preflight,
	engine *combine.Engine,
	auditRepo *audit.Repository,
	log *logger.Logger,
) *RecombineJob {
	return &RecombineJob{
		cfg:        cfg,
		configHash: configHash,
		preflight:  preflight,
		engine:     engine,
		auditRepo:  auditRepo,
		logger:     log,
	}
}

// Name returns the job name
func (j *RecombineJob) Name() string {
	return "panel_recombine"
}

// Schedule returns the cron schedule (every day at 2 AM, after assay imports)
func (j *RecombineJob) Schedule() string {
	return "0 0 2 * * *" // 2 AM daily (with seconds)
}

// Run executes one preflight-gated combine run
func (j *RecombineJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled panel recombine")

	// 1. Validate the assay store
	j.logger.Info("Running store preflight")
	store, err := j.preflight.Check(ctx, j.cfg.CombineOrder())
	if err != nil {
		return fmt.Errorf("store preflight failed: %w", err)
	}

	if !store.IsValid() {
		// 결합은 모든 타깃 테이블을 요구한다: 미비한 저장소로는 돌리지 않는다
		return fmt.Errorf("store not ready: missing=%v non_positive_rate=%.4f",
			store.Missing, store.NonPositiveRate())
	}

	if rate := store.NonPositiveRate(); rate > 0 {
		j.logger.WithField("non_positive_rate", rate).
			Warn("Store carries non-positive activities, they weaken the log-space correlations")
	}

	// 2. Run the combine pipeline
	result, err := j.engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("combine run: %w", err)
	}

	// 3. Record the run for audit
	snapshot := audit.NewRunSnapshot(j.cfg.Meta.PanelID, j.configHash, result)
	if err := j.auditRepo.SaveRun(ctx, snapshot); err != nil {
		return fmt.Errorf("save audit record: %w", err)
	}

	for _, warning := range snapshot.Warnings() {
		j.logger.WithField("run_id", snapshot.RunID).Warn(warning)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":           snapshot.RunID,
		"rows":             result.RowCount,
		"rescaled_targets": snapshot.RescaledTargets(),
		"duration_ms":      result.Duration.Milliseconds(),
	}).Info("Panel recombine completed")

	return nil
}
