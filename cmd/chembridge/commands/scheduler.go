package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/chembridge/internal/assaydata"
	"github.com/wonny/chembridge/internal/assaydata/quality"
	"github.com/wonny/chembridge/internal/audit"
	"github.com/wonny/chembridge/internal/combine"
	"github.com/wonny/chembridge/internal/panelconfig"
	"github.com/wonny/chembridge/internal/scheduler"
	"github.com/wonny/chembridge/internal/scheduler/jobs"
	"github.com/wonny/chembridge/pkg/config"
	"github.com/wonny/chembridge/pkg/database"
	"github.com/wonny/chembridge/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

이 명령어는:
- 스케줄러 데몬 시작
- 등록된 작업 조회
- 작업 실행 이력 조회

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행
  status  - 작업 실행 상태 조회

Example:
  go run ./cmd/chembridge scheduler start
  go run ./cmd/chembridge scheduler list
  go run ./cmd/chembridge scheduler run panel_recombine`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- panel_recombine: 매일 새벽 2시 (패널 재결합)
- audit_cleanup: 매일 새벽 3시 (오래된 감사 기록 정리)

실패한 실행은 이전 결합 테이블을 그대로 두며,
다음 스케줄 실행이 자연스러운 재시도가 됩니다.

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "작업 실행 상태 조회",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== ChemBridge Scheduler ===")
	fmt.Println()

	// Initialize dependencies
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	// Start scheduler
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	jobs := sched.GetAllJobs()

	fmt.Println("Registered jobs:")
	for _, jobName := range jobs {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Println("Job started (running in background)")
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	stats := sched.GetJobStats()

	fmt.Println("Job Statistics:")
	fmt.Println()

	for jobName, stat := range stats {
		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)

		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}

		if stat.LastSuccess != nil {
			fmt.Printf("   Last Success: %s\n", stat.LastSuccess.Format("2006-01-02 15:04:05"))
		}

		if stat.LastFailure != nil {
			fmt.Printf("   Last Failure: %s\n", stat.LastFailure.Format("2006-01-02 15:04:05"))
		}

		fmt.Println()
	}

	return nil
}

func initScheduler() (*scheduler.Scheduler, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Load the panel config
	panelPath := cfg.PanelConfigPath
	if panelFile != "" {
		panelPath = panelFile
	}

	panel, panelYAML, err := panelconfig.Load(panelPath)
	if err != nil {
		return nil, fmt.Errorf("load panel config: %w", err)
	}

	snapshot, err := panelconfig.NewPanelSnapshot(panel, panelYAML)
	if err != nil {
		return nil, fmt.Errorf("hash panel config: %w", err)
	}

	// 5. Create repositories
	assayRepo := assaydata.NewRepository(db.Pool)
	combinedRepo := assaydata.NewCombinedRepository(db.Pool)
	auditRepo := audit.NewRepository(db.Pool)

	// 6. Create preflight validator
	validator := quality.NewValidator(db.Pool, quality.DefaultConfig())

	// 7. Create combine engine
	engine := combine.NewEngine(panel, assayRepo, combinedRepo, log)

	// 8. Create scheduler
	sched := scheduler.New(log)

	// 9. Register jobs
	sched.AddJob(jobs.NewRecombineJob(panel, snapshot.ConfigHash, validator, engine, auditRepo, log))
	sched.AddJob(jobs.NewAuditCleanupJob(auditRepo, 90*24*time.Hour, log))

	return sched, nil
}
