package overlap

import (
	"github.com/wonny/chembridge/internal/contracts"
)

// Find 오프타깃 테이블을 기준 테이블과 compound_id로 inner join
// 순서는 오프타깃 테이블의 행 순서를 따른다 (map 순회 순서 아님)
//
// 공유 화합물이 없으면 빈 overlap을 반환한다. 빈 결과는 호출자가
// 감지해 경고해야 하며, "상관 = 0"으로 취급해서는 안 된다.
func Find(ref, off *contracts.AssayTable) *contracts.Overlap {
	refIndex := ref.IndexByCompound()

	result := &contracts.Overlap{Target: off.Target}
	for _, offRec := range off.Records {
		refRec, shared := refIndex[offRec.CompoundID]
		if !shared {
			continue
		}

		result.Pairs = append(result.Pairs, contracts.OverlapPair{
			CompoundID:  offRec.CompoundID,
			RefActivity: refRec.Activity,
			OffActivity: offRec.Activity,
		})
	}

	return result
}
