package overlap

import (
	"github.com/wonny/chembridge/internal/contracts"
)

// Clean 수동 큐레이션된 아웃라이어 컷오프 적용
// 기준(reference) 활성도가 cutoff 미만인 행만 남긴다. 높은 활성도
// 값은 약한/noisy 측정이라 상관과 기울기 적합을 왜곡하기 때문.
// 제거는 적합 입력에만 영향을 주고, 결합되는 행에는 영향 없음.
// 반환값: 정리된 overlap, 제거된 행 수
func Clean(o *contracts.Overlap, cutoff float64) (*contracts.Overlap, int) {
	cleaned := &contracts.Overlap{Target: o.Target}

	dropped := 0
	for _, pair := range o.Pairs {
		if pair.RefActivity >= cutoff {
			dropped++
			continue
		}
		cleaned.Pairs = append(cleaned.Pairs, pair)
	}

	return cleaned, dropped
}
