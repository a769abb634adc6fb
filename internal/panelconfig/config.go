package panelconfig

import "time"

// Config는 어세이 패널 결합 전략의 전체 설정
// ⭐ SSOT: 타깃 순서, 아웃라이어 컷오프, 상관 컷오프는 여기서만 공급
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Panel     Panel     `yaml:"panel" json:"panel"`
	Outliers  Outliers  `yaml:"outliers" json:"outliers"`
	Rescaling Rescaling `yaml:"rescaling" json:"rescaling"`
	Run       Run       `yaml:"run" json:"run"`
}

// Meta 메타 정보
type Meta struct {
	PanelID string `yaml:"panel_id" json:"panel_id"`
	Version string `yaml:"version" json:"version"`
}

// Panel 기준 타깃과 오프타깃 목록
type Panel struct {
	Reference string `yaml:"reference" json:"reference"`

	// 결합 순서 = 이 배열 순서 (map 순회 순서에 절대 의존하지 않음)
	OffTargets []string `yaml:"off_targets" json:"off_targets"`
}

// Outliers 수동 큐레이션된 아웃라이어 컷오프
// 알고리즘이 아니라 외부에서 공급되는 상수: 감사/테스트가 가능해야 한다
type Outliers struct {
	// {off_target_name: cutoff} — 기준(reference) 활성도가 cutoff 이상인
	// overlap 행을 상관/기울기 적합에서 제외. 항목이 없는 타깃은 필터 없음.
	RefActivityMax map[string]float64 `yaml:"ref_activity_max" json:"ref_activity_max"`
}

// Rescaling 조건부 재척도 결정 규칙
type Rescaling struct {
	// Spearman 상관이 이 값 이상일 때만 기울기 적합 후 재척도
	MinCorrelation float64 `yaml:"min_correlation" json:"min_correlation"`
}

// Run 실행 파라미터
type Run struct {
	// 타깃별 처리 워커 수. 0이면 기본값 사용 (결합 순서는 워커 수와 무관)
	Workers int `yaml:"workers" json:"workers"`
}

const defaultWorkers = 4

// CombineOrder returns the explicit concatenation order: the reference
// first, then the off-targets as listed.
func (c *Config) CombineOrder() []string {
	order := make([]string, 0, len(c.Panel.OffTargets)+1)
	order = append(order, c.Panel.Reference)
	order = append(order, c.Panel.OffTargets...)
	return order
}

// IsReference reports whether name is the panel's reference target
func (c *Config) IsReference(name string) bool {
	return name == c.Panel.Reference
}

// OutlierCutoff returns the manual reference-activity cutoff for an
// off-target, if one was curated
func (c *Config) OutlierCutoff(target string) (float64, bool) {
	cutoff, ok := c.Outliers.RefActivityMax[target]
	return cutoff, ok
}

// WorkerCount returns the configured worker count, defaulted when unset
func (c *Config) WorkerCount() int {
	if c.Run.Workers <= 0 {
		return defaultWorkers
	}
	return c.Run.Workers
}

// PanelSnapshot 의사결정 스냅샷 (재현성용)
type PanelSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	PanelID    string    `json:"panel_id"`
	CreatedAt  time.Time `json:"created_at"`
}
