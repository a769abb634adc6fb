package correlate

import (
	"github.com/wonny/chembridge/internal/contracts"
)

// =============================================================================
// Conditional Rescaling (slope-only OLS)
// =============================================================================

// FitSlope 최소제곱 기울기 적합: off = a + b·ref
// 반환값: b만 사용한다. 절편 a는 적합되지만 버려진다 — 절편 보정은
// 재척도 활성도를 음수로 밀어낼 수 있고, 음의 활성도는 물리적으로
// 무의미하다. 잘 상관된 타깃의 경험적 절편은 0 근처였음 (데이터셋이
// 바뀌면 이 근사는 재검증 대상).
// ref 열의 분산이 0이면 ok=false
func FitSlope(ref, off []float64) (float64, bool) {
	if len(ref) != len(off) || len(ref) < 2 {
		return 0, false
	}

	n := float64(len(ref))

	var sumX, sumY float64
	for i := range ref {
		if !isFinite(ref[i]) || !isFinite(off[i]) {
			return 0, false
		}
		sumX += ref[i]
		sumY += off[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var cov, varX float64
	for i := range ref {
		dx := ref[i] - meanX
		cov += dx * (off[i] - meanY)
		varX += dx * dx
	}

	if varX == 0 {
		return 0, false
	}

	return cov / varX, true
}

// Decide 오프타깃 하나에 대한 조건부 재척도 결정
// overlap: 아웃라이어 필터를 통과한 overlap (원시 활성도, 로그 아님)
// corr: 로그 공간 순위 상관
// minCorrelation: 결정 컷오프 (설정값, 기본 0.70)
//
// 규칙: 상관이 정의되어 있고 컷오프 이상이면 기울기를 적합해 재척도.
// 그 외에는 사유 태그와 함께 무척도 통과 — 에러가 아니라 결정이다.
func Decide(overlap *contracts.Overlap, corr contracts.Correlation, minCorrelation float64) contracts.RescaleDecision {
	if overlap.Empty() {
		return contracts.SkippedRescale(contracts.SkipEmptyOverlap)
	}

	if !corr.Defined() {
		return contracts.SkippedRescale(contracts.SkipUndefinedCorrelation)
	}

	if !corr.Meets(minCorrelation) {
		return contracts.SkippedRescale(contracts.SkipLowCorrelation)
	}

	// 기울기는 원시(비로그) 활성도로 적합한다
	slope, ok := FitSlope(overlap.RefActivities(), overlap.OffActivities())
	if !ok || slope <= 0 {
		// 분산 0 또는 음의 기울기: 나누면 스케일이 뒤집히므로 통과
		return contracts.SkippedRescale(contracts.SkipDegenerateFit)
	}

	return contracts.AppliedRescale(slope)
}

// Apply 재척도 적용: 원시 활성도를 기울기로 나눈다
// 결정이 Applied가 아니면 원시 값을 그대로 반환
func Apply(activity float64, decision contracts.RescaleDecision) float64 {
	if !decision.Applied() {
		return activity
	}
	return activity / decision.Slope
}
