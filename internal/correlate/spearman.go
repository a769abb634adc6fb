package correlate

import (
	"math"
	"sort"

	"github.com/wonny/chembridge/internal/contracts"
)

// =============================================================================
// Spearman Rank Correlation
// =============================================================================

// Spearman 두 열의 순위 상관 계수 계산
// x, y: 같은 길이의 활성도 열
// 반환값: 태그된 상관 — 표본 < 2, 비유한 입력, 상수 열이면 undefined
// (0이나 1로 강제하지 않음)
func Spearman(x, y []float64) contracts.Correlation {
	if len(x) != len(y) || len(x) < 2 {
		return contracts.UndefinedCorrelation()
	}

	for i := range x {
		if !isFinite(x[i]) || !isFinite(y[i]) {
			return contracts.UndefinedCorrelation()
		}
	}

	// Spearman = Pearson on ranks
	rx := Ranks(x)
	ry := Ranks(y)

	rho, ok := pearson(rx, ry)
	if !ok {
		return contracts.UndefinedCorrelation()
	}
	return contracts.DefinedCorrelation(rho)
}

// SpearmanLog 로그 공간 활성도의 순위 상관 계산
// 순위 상관은 강단조 변환에 불변이므로 수학적으로는 Spearman(x, y)와
// 동일하지만, 비양수 활성도가 섞이면 로그가 비유한이 되어 undefined로
// 전파된다. 원본 분석과 동일한 동작.
func SpearmanLog(x, y []float64) contracts.Correlation {
	return Spearman(logColumn(x), logColumn(y))
}

// Ranks 1-기반 평균 순위 계산 (동순위는 평균 순위 공유)
// 예: {10, 20, 20, 30} → {1, 2.5, 2.5, 4}
func Ranks(values []float64) []float64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	ranks := make([]float64, n)
	i := 0
	for i < n {
		// 같은 값 구간 [i, j] 탐색
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}

		// 구간의 평균 순위 (1-기반)
		avg := float64(i+j+2) / 2.0
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}

	return ranks
}

// =============================================================================
// 내부 유틸리티
// =============================================================================

// pearson 피어슨 상관 계수. 어느 한 열의 분산이 0이면 ok=false
func pearson(x, y []float64) (float64, bool) {
	n := float64(len(x))

	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0, false
	}

	return cov / math.Sqrt(varX*varY), true
}

func logColumn(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Log10(v) // v <= 0 → NaN/-Inf, Spearman이 undefined 처리
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
