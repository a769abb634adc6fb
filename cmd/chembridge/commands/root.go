package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	panelFile string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chembridge",
	Short: "ChemBridge - 어세이 패널 결합 파이프라인",
	Long: `ChemBridge Unified CLI

타깃별 화합물 활성 테이블을 순위 상관 + 조건부 재척도로
하나의 long-format 테이블로 결합하는 배치 파이프라인.

Usage:
  go run ./cmd/chembridge [command]

Examples:
  go run ./cmd/chembridge combine
  go run ./cmd/chembridge ingest HTR2A data/htr2a.csv
  go run ./cmd/chembridge check
  go run ./cmd/chembridge scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&panelFile, "panel", "", "panel config file (default from PANEL_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
