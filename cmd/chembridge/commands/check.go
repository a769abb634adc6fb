package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/chembridge/internal/assaydata/quality"
	"github.com/wonny/chembridge/internal/panelconfig"
	"github.com/wonny/chembridge/pkg/config"
	"github.com/wonny/chembridge/pkg/database"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "패널 설정 / 저장소 상태 확인",
	Long: `결합 실행 전에 패널 설정과 어세이 저장소 상태를 점검합니다.

확인 항목:
- 패널 설정 파일 검증 (필수/권장 제약)
- 데이터베이스 연결 및 풀 상태
- 타깃별 어세이 테이블 커버리지
- 비양수 활성도 비율, fingerprint 길이 드리프트

Example:
  go run ./cmd/chembridge check
  go run ./cmd/chembridge check --panel config/panel/serotonin_panel_v1.yaml`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	fmt.Println("=== ChemBridge Readiness Check ===")
	fmt.Println()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	fmt.Printf("✅ Config loaded (ENV: %s)\n\n", cfg.Env)

	// 2. Panel configuration
	fmt.Println("📋 패널 설정")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	panelPath := cfg.PanelConfigPath
	if panelFile != "" {
		panelPath = panelFile
	}

	panel, panelYAML, err := panelconfig.Load(panelPath)
	if err != nil {
		fmt.Printf("  ❌ %s: %v\n", panelPath, err)
		return fmt.Errorf("panel config invalid: %w", err)
	}

	snapshot, err := panelconfig.NewPanelSnapshot(panel, panelYAML)
	if err != nil {
		return fmt.Errorf("hash panel config: %w", err)
	}

	fmt.Printf("  파일: %s\n", panelPath)
	fmt.Printf("  패널: %s\n", panel.Meta.PanelID)
	fmt.Printf("  기준 타깃: %s\n", panel.Panel.Reference)
	fmt.Printf("  오프 타깃: %v\n", panel.Panel.OffTargets)
	fmt.Printf("  상관 컷오프: %.2f\n", panel.Rescaling.MinCorrelation)
	fmt.Printf("  설정 해시: %s\n", snapshot.ConfigHash[:12])

	warnings := panelconfig.Warn(panel)
	if len(warnings) == 0 {
		fmt.Println("  ✅ 권장 제약 모두 충족")
	}
	for _, warning := range warnings {
		fmt.Printf("  ⚠️  [%s] %s\n", warning.Code, warning.Message)
	}
	fmt.Println()

	// 3. Database health
	fmt.Println("🗄️  데이터베이스")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := database.New(cfg)
	if err != nil {
		fmt.Printf("  ❌ 연결 실패: %v\n", err)
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		fmt.Printf("  ❌ Health check 실패: %v\n", err)
		return err
	}

	fmt.Printf("  ✅ Healthy (응답 %v)\n", status.ResponseTime)
	fmt.Printf("  풀: %d/%d 연결 (idle %d)\n",
		status.Stats.TotalConns, status.Stats.MaxConns, status.Stats.IdleConns)
	fmt.Println()

	// 4. Assay store coverage
	fmt.Println("🧪 어세이 저장소")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	validator := quality.NewValidator(db.Pool, quality.DefaultConfig())
	store, err := validator.Check(ctx, panel.CombineOrder())
	if err != nil {
		fmt.Printf("  ❌ Preflight 실패: %v\n", err)
		return err
	}

	for _, target := range panel.CombineOrder() {
		cov := store.Coverage[target]
		marker := "✅"
		if cov.Rows == 0 {
			marker = "❌"
		}

		line := fmt.Sprintf("  %s %-8s %6d행", marker, target, cov.Rows)
		if cov.NonPositive > 0 {
			line += fmt.Sprintf("  (비양수 %d)", cov.NonPositive)
		}
		if cov.FingerprintDrift > 0 {
			line += fmt.Sprintf("  (fingerprint 드리프트 %d)", cov.FingerprintDrift)
		}
		fmt.Println(line)
	}

	fmt.Printf("\n  전체: %d행, 비양수 비율 %.4f\n", store.TotalRows, store.NonPositiveRate())

	fmt.Println()
	if store.IsValid() {
		PrintSuccess("Store is ready: combine can run")
	} else {
		PrintError(fmt.Sprintf("Store not ready: missing=%v", store.Missing))
		return fmt.Errorf("store preflight rejected")
	}

	return nil
}
