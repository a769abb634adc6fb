package contracts

import (
	"testing"
)

func TestTargetReport_EmptyOverlap(t *testing.T) {
	tests := []struct {
		name   string
		report TargetReport
		want   bool
	}{
		{
			name: "off-target with no shared compounds",
			report: TargetReport{
				Target:      "DRD3",
				IsReference: false,
				OverlapSize: 0,
			},
			want: true,
		},
		{
			name: "off-target with overlap",
			report: TargetReport{
				Target:      "HTR2B",
				IsReference: false,
				OverlapSize: 42,
			},
			want: false,
		},
		{
			name: "reference never reports empty overlap",
			report: TargetReport{
				Target:      "HTR2A",
				IsReference: true,
				OverlapSize: 0,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.EmptyOverlap(); got != tt.want {
				t.Errorf("EmptyOverlap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCombinedRecord_Rescaled(t *testing.T) {
	slope := 2.0
	rho := 0.9

	rescaled := CombinedRecord{
		CompoundID:       "CHEMBL25",
		TargetName:       "HTR2B",
		ActivityTarget:   0.2,
		ActivityRescaled: 0.1,
		RankCorrelation:  &rho,
		RescaleStatus:    RescaleApplied,
		RescaleSlope:     &slope,
	}
	if !rescaled.Rescaled() {
		t.Error("Expected applied record to report rescaled")
	}

	unscaled := CombinedRecord{
		CompoundID:       "CHEMBL26",
		TargetName:       "DRD3",
		ActivityTarget:   0.4,
		ActivityRescaled: 0.4,
		RescaleStatus:    RescaleSkipped,
	}
	if unscaled.Rescaled() {
		t.Error("Expected skipped record to report unscaled")
	}

	reference := CombinedRecord{
		CompoundID:    "CHEMBL27",
		TargetName:    "HTR2A",
		RescaleStatus: RescaleReference,
	}
	if !reference.Rescaled() {
		t.Error("Expected reference record to report rescaled (identity)")
	}
}

func TestStoreSnapshot_NonPositiveRate(t *testing.T) {
	snapshot := StoreSnapshot{
		TotalRows: 200,
		Coverage: map[string]TargetCoverage{
			"HTR2A": {Rows: 120, NonPositive: 3},
			"HTR2B": {Rows: 80, NonPositive: 1},
		},
		Passed: true,
	}

	expected := 4.0 / 200.0
	if rate := snapshot.NonPositiveRate(); rate != expected {
		t.Errorf("NonPositiveRate() = %v, want %v", rate, expected)
	}
}

func TestStoreSnapshot_IsValid(t *testing.T) {
	valid := StoreSnapshot{TotalRows: 10, Passed: true}
	if !valid.IsValid() {
		t.Error("Expected snapshot with no missing targets to be valid")
	}

	missing := StoreSnapshot{TotalRows: 10, Passed: true, Missing: []string{"DRD2"}}
	if missing.IsValid() {
		t.Error("Expected snapshot with missing targets to be invalid")
	}

	failed := StoreSnapshot{TotalRows: 0, Passed: false}
	if failed.IsValid() {
		t.Error("Expected failed snapshot to be invalid")
	}
}
