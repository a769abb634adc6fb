package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/chembridge/internal/assaydata"
	"github.com/wonny/chembridge/internal/assaydata/quality"
	"github.com/wonny/chembridge/internal/audit"
	"github.com/wonny/chembridge/internal/combine"
	"github.com/wonny/chembridge/internal/contracts"
	"github.com/wonny/chembridge/internal/panelconfig"
	"github.com/wonny/chembridge/pkg/config"
	"github.com/wonny/chembridge/pkg/database"
	"github.com/wonny/chembridge/pkg/logger"
)

// combineCmd represents the combine command
var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "패널 결합 실행",
	Long: `설정된 패널의 모든 어세이 테이블을 결합합니다.

이 명령어는:
- 패널 설정 로드 및 검증
- 어세이 저장소 preflight 검사
- 타깃별 순위 상관 + 조건부 재척도
- 결합 테이블 원자적 교체
- 실행 감사 기록 저장

Example:
  go run ./cmd/chembridge combine
  go run ./cmd/chembridge combine --panel config/panel/serotonin_panel_v1.yaml
  go run ./cmd/chembridge combine --skip-preflight`,
	RunE: runCombine,
}

var combineSkipPreflight bool

func init() {
	rootCmd.AddCommand(combineCmd)

	combineCmd.Flags().BoolVar(&combineSkipPreflight, "skip-preflight", false, "Skip the store preflight check")
}

func runCombine(cmd *cobra.Command, args []string) error {
	fmt.Println("=== ChemBridge Panel Combine ===")
	fmt.Println()

	ctx := cmd.Context()

	// 1. Initialize dependencies
	cfg, log, db, err := initCombineDeps()
	if err != nil {
		return err
	}
	defer db.Close()

	// 2. Load the panel config
	panelPath := cfg.PanelConfigPath
	if panelFile != "" {
		panelPath = panelFile
	}

	panel, panelYAML, err := panelconfig.Load(panelPath)
	if err != nil {
		PrintError(fmt.Sprintf("Panel config invalid: %v", err))
		return err
	}

	snapshot, err := panelconfig.NewPanelSnapshot(panel, panelYAML)
	if err != nil {
		return fmt.Errorf("hash panel config: %w", err)
	}

	fmt.Println("📋 Panel")
	PrintKeyValue("Panel ID", panel.Meta.PanelID, 12)
	PrintKeyValue("Reference", panel.Panel.Reference, 12)
	PrintKeyValue("Off-targets", fmt.Sprintf("%v", panel.Panel.OffTargets), 12)
	PrintKeyValue("Min corr", fmt.Sprintf("%.2f", panel.Rescaling.MinCorrelation), 12)
	PrintKeyValue("Config hash", snapshot.ConfigHash[:12], 12)

	for _, warning := range panelconfig.Warn(panel) {
		PrintWarning(fmt.Sprintf("[%s] %s", warning.Code, warning.Message))
	}

	// 3. Preflight the assay store
	if combineSkipPreflight {
		PrintWarning("Preflight skipped (--skip-preflight)")
	} else {
		fmt.Println("\n🔍 Store preflight")
		validator := quality.NewValidator(db.Pool, quality.DefaultConfig())
		store, err := validator.Check(ctx, panel.CombineOrder())
		if err != nil {
			PrintError(fmt.Sprintf("Preflight failed: %v", err))
			return err
		}

		printStoreCoverage(panel.CombineOrder(), store)

		if !store.IsValid() {
			PrintError(fmt.Sprintf("Store not ready: missing=%v non_positive_rate=%.4f",
				store.Missing, store.NonPositiveRate()))
			return fmt.Errorf("store preflight rejected the run")
		}
	}

	// 4. Run the combine pipeline
	fmt.Println("\n⚙️  Combining")
	engine := combine.NewEngine(
		panel,
		assaydata.NewRepository(db.Pool),
		assaydata.NewCombinedRepository(db.Pool),
		log,
	)

	result, err := engine.Run(ctx)
	if err != nil {
		PrintError(fmt.Sprintf("Combine run failed: %v", err))
		return err
	}

	// 5. Record the run
	runRecord := audit.NewRunSnapshot(panel.Meta.PanelID, snapshot.ConfigHash, result)
	auditRepo := audit.NewRepository(db.Pool)
	if err := auditRepo.SaveRun(ctx, runRecord); err != nil {
		PrintError(fmt.Sprintf("Audit record failed: %v", err))
		return err
	}

	// 6. Report
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Println("                  COMBINE RESULT")
	PrintDoubleSeparator()

	printTargetReports(result.Reports)

	fmt.Println()
	for _, warning := range runRecord.Warnings() {
		PrintWarning(warning)
	}

	PrintSuccess(fmt.Sprintf("Combined %d rows across %d targets in %.2fs",
		result.RowCount, len(result.Reports), result.Duration.Seconds()))
	PrintKeyValue("Run ID", runRecord.RunID, 8)

	return nil
}

// printStoreCoverage renders the preflight snapshot per target
func printStoreCoverage(targets []string, store *contracts.StoreSnapshot) {
	columns := []string{"TARGET", "ROWS", "NON-POS", "FP DRIFT"}
	widths := []int{10, 8, 8, 8}

	PrintTableHeader(columns, widths)
	for _, target := range targets {
		cov := store.Coverage[target]
		PrintTableRow([]string{
			target,
			fmt.Sprintf("%d", cov.Rows),
			fmt.Sprintf("%d", cov.NonPositive),
			fmt.Sprintf("%d", cov.FingerprintDrift),
		}, widths)
	}
}

// printTargetReports renders the per-target decisions
func printTargetReports(reports []contracts.TargetReport) {
	columns := []string{"TARGET", "ROWS", "OVERLAP", "FILTERED", "CORR", "STATUS", "SLOPE"}
	widths := []int{10, 7, 8, 9, 10, 10, 8}

	PrintTableHeader(columns, widths)
	for _, report := range reports {
		corr := "undefined"
		if report.Correlation.Defined() {
			corr = fmt.Sprintf("%.4f", report.Correlation.Rho)
		}

		slope := "-"
		if report.Rescale.Applied() {
			slope = fmt.Sprintf("%.4f", report.Rescale.Slope)
		}

		status := string(report.Rescale.Status)
		if report.Rescale.Reason != "" {
			status = fmt.Sprintf("%s (%s)", report.Rescale.Status, report.Rescale.Reason)
		}

		PrintTableRow([]string{
			report.Target,
			fmt.Sprintf("%d", report.Rows),
			fmt.Sprintf("%d", report.OverlapSize),
			fmt.Sprintf("%d", report.FilteredOut),
			corr,
			status,
			slope,
		}, widths)
	}
}

func initCombineDeps() (*config.Config, *logger.Logger, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	return cfg, log, db, nil
}
