package contracts

// AssayRecord represents one measured compound against one target.
// Fingerprint is carried through the pipeline unchanged.
type AssayRecord struct {
	CompoundID  string    `json:"compound_id"`
	Activity    float64   `json:"activity_value"`
	IsActive    bool      `json:"is_active"`
	Fingerprint []float64 `json:"fingerprint"`
}

// AssayTable holds every record measured against a single target.
// ⭐ SSOT: 타깃 1개 = 테이블 1개, compound_id는 테이블 내에서 유일
type AssayTable struct {
	Target  string        `json:"target"`
	Records []AssayRecord `json:"records"`
}

// Len returns the number of records in the table
func (t *AssayTable) Len() int {
	return len(t.Records)
}

// Activities returns the raw activity column
func (t *AssayTable) Activities() []float64 {
	values := make([]float64, len(t.Records))
	for i, rec := range t.Records {
		values[i] = rec.Activity
	}
	return values
}

// IndexByCompound builds a compound_id lookup for join operations.
// compound_id가 중복되면 마지막 행이 남는다 (입력 불변식 위반 시에도 단정적으로 동작)
func (t *AssayTable) IndexByCompound() map[string]AssayRecord {
	index := make(map[string]AssayRecord, len(t.Records))
	for _, rec := range t.Records {
		index[rec.CompoundID] = rec
	}
	return index
}

// OverlapPair pairs the reference and off-target activity of one shared compound
type OverlapPair struct {
	CompoundID  string  `json:"compound_id"`
	RefActivity float64 `json:"ref_activity"`
	OffActivity float64 `json:"off_activity"`
}

// Overlap is the inner join of an off-target table against the reference table
// keyed on compound_id.
type Overlap struct {
	Target string        `json:"target"` // off-target name
	Pairs  []OverlapPair `json:"pairs"`
}

// Size returns the number of shared compounds
func (o *Overlap) Size() int {
	return len(o.Pairs)
}

// Empty reports whether the join produced zero rows
func (o *Overlap) Empty() bool {
	return len(o.Pairs) == 0
}

// RefActivities returns the reference-side activity column
func (o *Overlap) RefActivities() []float64 {
	values := make([]float64, len(o.Pairs))
	for i, p := range o.Pairs {
		values[i] = p.RefActivity
	}
	return values
}

// OffActivities returns the off-target-side activity column
func (o *Overlap) OffActivities() []float64 {
	values := make([]float64, len(o.Pairs))
	for i, p := range o.Pairs {
		values[i] = p.OffActivity
	}
	return values
}
