package main

import (
	"os"

	"github.com/wonny/chembridge/cmd/chembridge/commands"
)

// main is the entry point for the chembridge CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/chembridge [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
