package combine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/chembridge/internal/contracts"
	"github.com/wonny/chembridge/internal/correlate"
	"github.com/wonny/chembridge/internal/overlap"
	"github.com/wonny/chembridge/internal/panelconfig"
	"github.com/wonny/chembridge/pkg/logger"
)

// Engine runs the full assay-table combination
// ⭐ SSOT: 결합 파이프라인 오케스트레이션은 여기서만
type Engine struct {
	cfg          *panelconfig.Config
	assayRepo    contracts.AssayRepository
	combinedRepo contracts.CombinedRepository
	logger       *logger.Logger
}

// NewEngine creates a new combination engine
func NewEngine(
	cfg *panelconfig.Config,
	assayRepo contracts.AssayRepository,
	combinedRepo contracts.CombinedRepository,
	log *logger.Logger,
) *Engine {
	return &Engine{
		cfg:          cfg,
		assayRepo:    assayRepo,
		combinedRepo: combinedRepo,
		logger:       log.WithField("module", "combine"),
	}
}

// Result summarizes one combine run
type Result struct {
	StartedAt time.Time                `json:"started_at"`
	Duration  time.Duration            `json:"duration"`
	RowCount  int                      `json:"row_count"`
	Reports   []contracts.TargetReport `json:"reports"` // 결합 순서와 동일
}

// targetResult carries one worker's output back to the orchestrator
type targetResult struct {
	target  string
	records []contracts.CombinedRecord
	report  contracts.TargetReport
	err     error
}

// Run executes the pipeline once: load, join, filter, correlate, rescale,
// combine, persist. Deterministic: two runs over identical inputs leave
// identical combined tables.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	order := e.cfg.CombineOrder()
	e.logger.WithFields(map[string]interface{}{
		"panel":     e.cfg.Meta.PanelID,
		"reference": e.cfg.Panel.Reference,
		"targets":   len(order),
		"workers":   e.cfg.WorkerCount(),
	}).Info("Starting combine run")

	// 1. Load the reference table (everything joins against it)
	refTable, err := e.assayRepo.GetTable(ctx, e.cfg.Panel.Reference)
	if err != nil {
		return nil, fmt.Errorf("load reference table %q: %w", e.cfg.Panel.Reference, err)
	}
	if refTable.Len() == 0 {
		e.logger.WithField("reference", e.cfg.Panel.Reference).Warn("Reference table has no rows")
	}

	// 2. Process off-targets on a worker pool. 실행 순서는 비결정적이지만
	//    결합 순서는 아래 4단계에서 설정 목록으로 복원된다.
	offTargets := e.cfg.Panel.OffTargets
	targetCh := make(chan string, len(offTargets))
	resultCh := make(chan targetResult, len(offTargets))

	var wg sync.WaitGroup
	for i := 0; i < e.cfg.WorkerCount(); i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			e.targetWorker(ctx, workerID, refTable, targetCh, resultCh)
		}(i)
	}

	for _, target := range offTargets {
		targetCh <- target
	}
	close(targetCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// 3. Collect results; any per-target load failure aborts the run
	byTarget := make(map[string]targetResult, len(offTargets))
	for res := range resultCh {
		if res.err != nil {
			return nil, fmt.Errorf("process target %q: %w", res.target, res.err)
		}
		byTarget[res.target] = res
	}

	// 4. Concatenate in the configured order: reference first, then
	//    off-targets as listed. 절대 map 순회 순서를 쓰지 않는다.
	refResult := e.processReference(refTable)

	records := make([]contracts.CombinedRecord, 0, e.totalRows(refTable, byTarget))
	reports := make([]contracts.TargetReport, 0, len(order))

	records = append(records, refResult.records...)
	reports = append(reports, refResult.report)

	for _, target := range offTargets {
		res := byTarget[target]
		records = append(records, res.records...)
		reports = append(reports, res.report)
	}

	// 5. Persist the combined table (transactional replace, idempotent)
	if err := e.combinedRepo.ReplaceAll(ctx, records); err != nil {
		return nil, fmt.Errorf("persist combined table: %w", err)
	}

	result := &Result{
		StartedAt: start,
		Duration:  time.Since(start),
		RowCount:  len(records),
		Reports:   reports,
	}

	e.logger.WithFields(map[string]interface{}{
		"rows":        result.RowCount,
		"targets":     len(reports),
		"duration_ms": result.Duration.Milliseconds(),
	}).Info("Combine run completed")

	return result, nil
}

// targetWorker processes off-targets from the channel
func (e *Engine) targetWorker(ctx context.Context, workerID int, refTable *contracts.AssayTable, targetCh <-chan string, resultCh chan<- targetResult) {
	for target := range targetCh {
		select {
		case <-ctx.Done():
			resultCh <- targetResult{target: target, err: ctx.Err()}
			return
		default:
		}

		res := e.processOffTarget(ctx, refTable, target)
		if res.err == nil {
			e.logger.WithFields(map[string]interface{}{
				"worker":      workerID,
				"target":      target,
				"rows":        res.report.Rows,
				"overlap":     res.report.OverlapSize,
				"correlation": correlationField(res.report.Correlation),
				"rescale":     string(res.report.Rescale.Status),
			}).Debug("Processed off-target")
		}
		resultCh <- res
	}
}

// processOffTarget runs the per-target stages: join, outlier filter,
// log-space rank correlation, conditional rescale.
func (e *Engine) processOffTarget(ctx context.Context, refTable *contracts.AssayTable, target string) targetResult {
	table, err := e.assayRepo.GetTable(ctx, target)
	if err != nil {
		return targetResult{target: target, err: err}
	}

	// Inner join on compound_id
	shared := overlap.Find(refTable, table)

	// EmptyOverlap은 "상관 = 0"이 아니라 별도로 보고해야 하는 상태
	if shared.Empty() {
		e.logger.WithFields(map[string]interface{}{
			"target":    target,
			"reference": refTable.Target,
		}).Warn("Empty overlap: no shared compounds with reference")
	}

	// Manual outlier cutoff (fit 입력에서만 제거, 결합 행은 유지)
	cleaned := shared
	filteredOut := 0
	if cutoff, ok := e.cfg.OutlierCutoff(target); ok {
		cleaned, filteredOut = overlap.Clean(shared, cutoff)
	}

	// Rank correlation in log space on the cleaned overlap
	corr := correlate.SpearmanLog(cleaned.RefActivities(), cleaned.OffActivities())

	// Conditional rescale decision on the raw cleaned overlap
	decision := correlate.Decide(cleaned, corr, e.cfg.Rescaling.MinCorrelation)

	report := contracts.TargetReport{
		Target:      target,
		IsReference: false,
		Rows:        table.Len(),
		OverlapSize: shared.Size(),
		FilteredOut: filteredOut,
		Correlation: corr,
		Rescale:     decision,
		ProcessedAt: time.Now(),
	}

	return targetResult{
		target:  target,
		records: buildRecords(table, corr, decision),
		report:  report,
	}
}

// processReference emits the reference target's own rows: correlation 1,
// slope 1, identically.
func (e *Engine) processReference(refTable *contracts.AssayTable) targetResult {
	corr := contracts.DefinedCorrelation(1.0)
	decision := contracts.ReferenceRescale()

	report := contracts.TargetReport{
		Target:      refTable.Target,
		IsReference: true,
		Rows:        refTable.Len(),
		OverlapSize: refTable.Len(), // 자기 자신과의 overlap = 전체 행
		Correlation: corr,
		Rescale:     decision,
		ProcessedAt: time.Now(),
	}

	return targetResult{
		target:  refTable.Target,
		records: buildRecords(refTable, corr, decision),
		report:  report,
	}
}

// buildRecords materializes one target's combined rows. The rescale is
// applied to the target's WHOLE table, not just the overlap.
func buildRecords(table *contracts.AssayTable, corr contracts.Correlation, decision contracts.RescaleDecision) []contracts.CombinedRecord {
	var rhoPtr *float64
	if corr.Defined() {
		rho := corr.Rho
		rhoPtr = &rho
	}

	var slopePtr *float64
	if decision.Applied() {
		slope := decision.Slope
		slopePtr = &slope
	}

	records := make([]contracts.CombinedRecord, 0, table.Len())
	for _, rec := range table.Records {
		records = append(records, contracts.CombinedRecord{
			CompoundID:       rec.CompoundID,
			Fingerprint:      rec.Fingerprint,
			ActivityTarget:   rec.Activity,
			IsActiveTarget:   rec.IsActive,
			TargetName:       table.Target,
			RankCorrelation:  rhoPtr,
			ActivityRescaled: correlate.Apply(rec.Activity, decision),
			RescaleStatus:    decision.Status,
			RescaleSlope:     slopePtr,
		})
	}

	return records
}

// totalRows pre-computes the combined capacity
func (e *Engine) totalRows(refTable *contracts.AssayTable, byTarget map[string]targetResult) int {
	total := refTable.Len()
	for _, res := range byTarget {
		total += len(res.records)
	}
	return total
}

// correlationField renders a tagged correlation for structured logs
func correlationField(c contracts.Correlation) interface{} {
	if !c.Defined() {
		return "undefined"
	}
	return c.Rho
}
