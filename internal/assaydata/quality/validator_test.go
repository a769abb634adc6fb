package quality

import (
	"testing"

	"github.com/wonny/chembridge/internal/contracts"
)

func TestMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		present []string
		want    int
	}{
		{
			name:    "complete schema",
			present: []string{"id", "target_name", "compound_id", "activity_value", "is_active", "fingerprint", "created_at"},
			want:    0,
		},
		{
			name:    "missing fingerprint and is_active",
			present: []string{"target_name", "compound_id", "activity_value"},
			want:    2,
		},
		{
			name:    "empty table",
			present: nil,
			want:    5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			present := make(map[string]bool, len(tt.present))
			for _, col := range tt.present {
				present[col] = true
			}

			got := missingColumns(present)
			if len(got) != tt.want {
				t.Errorf("missingColumns() = %v, want %d missing", got, tt.want)
			}
		})
	}
}

func TestDriftCount(t *testing.T) {
	tests := []struct {
		name    string
		lengths map[int]int
		want    int
	}{
		{name: "uniform", lengths: map[int]int{2048: 500}, want: 0},
		{name: "single drifted row", lengths: map[int]int{2048: 499, 1024: 1}, want: 1},
		{name: "two off lengths", lengths: map[int]int{2048: 490, 1024: 7, 0: 3}, want: 10},
		{name: "tie keeps shorter modal", lengths: map[int]int{1024: 5, 2048: 5}, want: 5},
		{name: "no rows", lengths: map[int]int{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := driftCount(tt.lengths); got != tt.want {
				t.Errorf("driftCount(%v) = %d, want %d", tt.lengths, got, tt.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	cfg := Config{MaxNonPositiveRate: 0.05}

	tests := []struct {
		name     string
		snapshot *contracts.StoreSnapshot
		want     bool
	}{
		{
			name: "clean store",
			snapshot: &contracts.StoreSnapshot{
				TotalRows: 1000,
				Coverage: map[string]contracts.TargetCoverage{
					"HTR2A": {Rows: 600, NonPositive: 2},
					"HTR2B": {Rows: 400, NonPositive: 1},
				},
			},
			want: true,
		},
		{
			name: "missing target blocks the run",
			snapshot: &contracts.StoreSnapshot{
				TotalRows: 600,
				Coverage: map[string]contracts.TargetCoverage{
					"HTR2A": {Rows: 600},
					"DRD2":  {Rows: 0},
				},
				Missing: []string{"DRD2"},
			},
			want: false,
		},
		{
			name: "too many non-positive activities",
			snapshot: &contracts.StoreSnapshot{
				TotalRows: 100,
				Coverage: map[string]contracts.TargetCoverage{
					"HTR2A": {Rows: 100, NonPositive: 10},
				},
			},
			want: false,
		},
		{
			name: "rate exactly at threshold passes",
			snapshot: &contracts.StoreSnapshot{
				TotalRows: 100,
				Coverage: map[string]contracts.TargetCoverage{
					"HTR2A": {Rows: 100, NonPositive: 5},
				},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evaluate(tt.snapshot, cfg); got != tt.want {
				t.Errorf("evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}
