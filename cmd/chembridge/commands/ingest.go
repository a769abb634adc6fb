package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/chembridge/internal/assaydata"
	"github.com/wonny/chembridge/pkg/config"
	"github.com/wonny/chembridge/pkg/database"
	"github.com/wonny/chembridge/pkg/logger"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [target] [csv-file]",
	Short: "어세이 CSV 적재",
	Long: `CSV 파일을 읽어 타깃의 어세이 테이블로 적재합니다.

필수 컬럼: compound_id, activity_value, is_active, fingerprint
(fingerprint는 세미콜론 구분 실수 배열, 추가 컬럼은 무시)

같은 (target, compound_id)가 이미 있으면 값을 덮어씁니다.

Example:
  go run ./cmd/chembridge ingest HTR2A data/htr2a.csv
  go run ./cmd/chembridge ingest DRD2 data/drd2_assay.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	target := args[0]
	csvPath := args[1]

	fmt.Println("=== ChemBridge Assay Ingest ===")
	fmt.Println()

	ctx := cmd.Context()

	cfg, log, db, err := initIngestDeps()
	if err != nil {
		return err
	}
	defer db.Close()
	_ = cfg

	// 1. Parse the CSV
	table, err := assaydata.ReadTableFile(csvPath, target)
	if err != nil {
		PrintError(fmt.Sprintf("CSV parse failed: %v", err))
		return err
	}

	if table.Len() == 0 {
		PrintWarning("CSV contained a header but no data rows")
	}

	activeCount := 0
	for _, rec := range table.Records {
		if rec.IsActive {
			activeCount++
		}
	}

	fmt.Println("📋 Parsed table")
	PrintKeyValue("Target", table.Target, 10)
	PrintKeyValue("Rows", fmt.Sprintf("%d", table.Len()), 10)
	PrintKeyValue("Active", fmt.Sprintf("%d", activeCount), 10)

	// 2. Upsert into the assay store
	repo := assaydata.NewRepository(db.Pool)
	if err := repo.SaveBatch(ctx, table.Target, table.Records); err != nil {
		PrintError(fmt.Sprintf("Save failed: %v", err))
		return err
	}

	total, err := repo.CountByTarget(ctx, target)
	if err != nil {
		return fmt.Errorf("count stored rows: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"target": target,
		"rows":   table.Len(),
		"stored": total,
	}).Info("Assay table ingested")

	fmt.Println()
	PrintSuccess(fmt.Sprintf("Ingested %d rows into %s (stored total: %d)", table.Len(), target, total))

	return nil
}

func initIngestDeps() (*config.Config, *logger.Logger, *database.DB, error) {
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
