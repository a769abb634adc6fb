package correlate

import (
	"math"
	"testing"

	"github.com/wonny/chembridge/internal/contracts"
)

const epsilon = 1e-12

func TestRanks(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{
			name:   "already sorted",
			values: []float64{10, 20, 30},
			want:   []float64{1, 2, 3},
		},
		{
			name:   "unsorted",
			values: []float64{30, 10, 20},
			want:   []float64{3, 1, 2},
		},
		{
			name:   "ties share average rank",
			values: []float64{10, 20, 20, 30},
			want:   []float64{1, 2.5, 2.5, 4},
		},
		{
			name:   "all equal",
			values: []float64{5, 5, 5},
			want:   []float64{2, 2, 2},
		},
		{
			name:   "triple tie in the middle",
			values: []float64{1, 7, 7, 7, 9},
			want:   []float64{1, 3, 3, 3, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ranks(tt.values)
			if len(got) != len(tt.want) {
				t.Fatalf("Ranks() length = %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if math.Abs(got[i]-tt.want[i]) > epsilon {
					t.Errorf("Ranks()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSpearman(t *testing.T) {
	tests := []struct {
		name    string
		x       []float64
		y       []float64
		defined bool
		rho     float64
	}{
		{
			name:    "perfect monotone increase",
			x:       []float64{0.1, 0.3, 0.9},
			y:       []float64{0.2, 0.6, 2.2},
			defined: true,
			rho:     1.0,
		},
		{
			name:    "perfect monotone decrease",
			x:       []float64{1, 2, 3, 4},
			y:       []float64{40, 30, 20, 10},
			defined: true,
			rho:     -1.0,
		},
		{
			name:    "nonlinear but monotone is still 1",
			x:       []float64{1, 2, 3, 4, 5},
			y:       []float64{1, 4, 9, 16, 25},
			defined: true,
			rho:     1.0,
		},
		{
			name:    "fewer than two points",
			x:       []float64{1},
			y:       []float64{2},
			defined: false,
		},
		{
			name:    "constant reference column",
			x:       []float64{2, 2, 2},
			y:       []float64{1, 2, 3},
			defined: false,
		},
		{
			name:    "constant off-target column",
			x:       []float64{1, 2, 3},
			y:       []float64{7, 7, 7},
			defined: false,
		},
		{
			name:    "NaN input",
			x:       []float64{1, math.NaN(), 3},
			y:       []float64{1, 2, 3},
			defined: false,
		},
		{
			name:    "length mismatch",
			x:       []float64{1, 2, 3},
			y:       []float64{1, 2},
			defined: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Spearman(tt.x, tt.y)

			if got.Defined() != tt.defined {
				t.Fatalf("Spearman() defined = %v, want %v", got.Defined(), tt.defined)
			}
			if tt.defined && math.Abs(got.Rho-tt.rho) > epsilon {
				t.Errorf("Spearman() rho = %v, want %v", got.Rho, tt.rho)
			}
		})
	}
}

// 순위 상관은 강단조 변환에 불변: 로그 전후의 계수가 같아야 한다
func TestSpearman_LogInvariance(t *testing.T) {
	x := []float64{1.5, 3.2, 9.7, 54.3, 120.0}
	y := []float64{2.1, 11.0, 5.5, 80.2, 66.6}

	raw := Spearman(x, y)
	logged := SpearmanLog(x, y)

	if !raw.Defined() || !logged.Defined() {
		t.Fatal("expected both correlations to be defined")
	}

	// 로그는 순위를 보존하므로 두 계수는 비트 단위로 동일
	if raw.Rho != logged.Rho {
		t.Errorf("rank correlation not invariant under log: raw=%v logged=%v", raw.Rho, logged.Rho)
	}
}

func TestSpearmanLog_NonPositiveActivity(t *testing.T) {
	// 비양수 활성도는 로그 공간에서 비유한 → undefined 전파
	x := []float64{0.0, 0.3, 0.9}
	y := []float64{0.2, 0.6, 2.2}

	if got := SpearmanLog(x, y); got.Defined() {
		t.Errorf("expected undefined correlation for non-positive activity, got rho=%v", got.Rho)
	}

	x2 := []float64{0.1, 0.3, 0.9}
	y2 := []float64{0.2, -0.6, 2.2}

	if got := SpearmanLog(x2, y2); got.Defined() {
		t.Errorf("expected undefined correlation for negative activity, got rho=%v", got.Rho)
	}
}

func TestSpearman_TaggedNeverCoerced(t *testing.T) {
	// undefined는 0도 1도 아닌 명시적 상태여야 한다
	got := Spearman([]float64{1, 1}, []float64{2, 3})

	if got.Status != contracts.CorrelationUndefined {
		t.Fatalf("expected undefined status, got %v", got.Status)
	}
	if got.Meets(0.0) {
		t.Error("undefined correlation must not meet any cutoff")
	}
}
