package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/chembridge/internal/audit"
	"github.com/wonny/chembridge/pkg/config"
	"github.com/wonny/chembridge/pkg/database"
	"github.com/wonny/chembridge/pkg/logger"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "결합 실행 감사 기록",
	Long: `결합 실행의 감사 기록을 조회합니다.

명령어:
  list  최근 실행 목록
  show  실행 상세 (run_id 생략 시 가장 최근 실행)`,
}

var (
	// list 플래그
	auditLimit int

	// show 플래그
	auditOutput string
)

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "최근 실행 목록",
	Long: `최근 결합 실행을 최신순으로 나열합니다.

Example:
  go run ./cmd/chembridge audit list
  go run ./cmd/chembridge audit list --limit 50`,
	RunE: runAuditList,
}

var auditShowCmd = &cobra.Command{
	Use:   "show [run_id]",
	Short: "실행 상세",
	Long: `한 실행의 타깃별 결정 내역을 표시합니다.

run_id를 생략하면 가장 최근 실행을 표시합니다.

Example:
  go run ./cmd/chembridge audit show
  go run ./cmd/chembridge audit show 3f2a9c1e-...
  go run ./cmd/chembridge audit show --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuditShow,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditShowCmd)

	// list 플래그
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 20, "표시할 실행 수")

	// show 플래그
	auditShowCmd.Flags().StringVar(&auditOutput, "output", "text", "출력 형식 (text, json)")
}

func runAuditList(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Combine Run History ===")
	fmt.Println()

	ctx := cmd.Context()

	cfg, log, db, err := initAuditDeps()
	if err != nil {
		return err
	}
	defer db.Close()
	_ = cfg
	_ = log

	auditRepo := audit.NewRepository(db.Pool)
	runs, err := auditRepo.ListRuns(ctx, auditLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		PrintInfo("No combine runs recorded yet")
		return nil
	}

	columns := []string{"RUN ID", "PANEL", "STARTED", "ROWS", "RESCALED", "DURATION"}
	widths := []int{38, 20, 20, 7, 9, 10}

	PrintTableHeader(columns, widths)
	for _, run := range runs {
		PrintTableRow([]string{
			run.RunID,
			run.PanelID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", run.RowCount),
			fmt.Sprintf("%d/%d", run.RescaledTargets(), len(run.Reports)),
			fmt.Sprintf("%.2fs", run.Duration.Seconds()),
		}, widths)
	}

	fmt.Printf("\n%d runs\n", len(runs))
	return nil
}

func runAuditShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, log, db, err := initAuditDeps()
	if err != nil {
		return err
	}
	defer db.Close()
	_ = cfg
	_ = log

	auditRepo := audit.NewRepository(db.Pool)

	var run *audit.RunSnapshot
	if len(args) == 1 {
		run, err = auditRepo.GetRun(ctx, args[0])
	} else {
		run, err = auditRepo.GetLatestRun(ctx)
	}
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	if run == nil {
		PrintInfo("No matching run found")
		return nil
	}

	if auditOutput == "json" {
		jsonData, _ := json.MarshalIndent(run, "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}

	fmt.Println("=== Combine Run ===")
	fmt.Println()
	PrintKeyValue("Run ID", run.RunID, 12)
	PrintKeyValue("Panel", run.PanelID, 12)
	PrintKeyValue("Config hash", run.ConfigHash[:12], 12)
	PrintKeyValue("Started", run.StartedAt.Format("2006-01-02 15:04:05"), 12)
	PrintKeyValue("Duration", fmt.Sprintf("%.2fs", run.Duration.Seconds()), 12)
	PrintKeyValue("Rows", fmt.Sprintf("%d", run.RowCount), 12)
	PrintKeyValue("Rescaled", fmt.Sprintf("%d/%d targets", run.RescaledTargets(), len(run.Reports)), 12)

	fmt.Println()
	printTargetReports(run.Reports)

	warnings := run.Warnings()
	if len(warnings) > 0 {
		fmt.Println()
		for _, warning := range warnings {
			PrintWarning(warning)
		}
	}

	return nil
}

func initAuditDeps() (*config.Config, *logger.Logger, *database.DB, error) {
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
