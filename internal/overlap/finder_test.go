package overlap

import (
	"testing"

	"github.com/wonny/chembridge/internal/contracts"
)

func TestFind(t *testing.T) {
	ref := &contracts.AssayTable{
		Target: "HTR2A",
		Records: []contracts.AssayRecord{
			{CompoundID: "1", Activity: 0.1},
			{CompoundID: "2", Activity: 0.3},
		},
	}
	off := &contracts.AssayTable{
		Target: "HTR2B",
		Records: []contracts.AssayRecord{
			{CompoundID: "1", Activity: 0.2},
			{CompoundID: "2", Activity: 0.6},
			{CompoundID: "3", Activity: 0.9}, // 기준에 없는 화합물
		},
	}

	got := Find(ref, off)

	if got.Target != "HTR2B" {
		t.Errorf("Target = %s, want HTR2B", got.Target)
	}
	if got.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", got.Size())
	}

	want := []contracts.OverlapPair{
		{CompoundID: "1", RefActivity: 0.1, OffActivity: 0.2},
		{CompoundID: "2", RefActivity: 0.3, OffActivity: 0.6},
	}
	for i, pair := range got.Pairs {
		if pair != want[i] {
			t.Errorf("Pairs[%d] = %+v, want %+v", i, pair, want[i])
		}
	}
}

// join 결과 크기는 min(|ref|, |off|)를 넘을 수 없다
func TestFind_SizeBound(t *testing.T) {
	tests := []struct {
		name    string
		refIDs  []string
		offIDs  []string
		maxSize int
	}{
		{"identical tables", []string{"a", "b", "c"}, []string{"a", "b", "c"}, 3},
		{"off-target larger", []string{"a", "b"}, []string{"a", "b", "c", "d"}, 2},
		{"reference larger", []string{"a", "b", "c", "d"}, []string{"b", "d"}, 2},
		{"disjoint", []string{"a", "b"}, []string{"x", "y", "z"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := tableWithIDs("HTR2A", tt.refIDs)
			off := tableWithIDs("DRD2", tt.offIDs)

			got := Find(ref, off)

			bound := min(len(tt.refIDs), len(tt.offIDs))
			if got.Size() > bound {
				t.Errorf("Size() = %d exceeds min(|ref|, |off|) = %d", got.Size(), bound)
			}
			if got.Size() != tt.maxSize {
				t.Errorf("Size() = %d, want %d", got.Size(), tt.maxSize)
			}
		})
	}
}

// 모든 join 행의 양쪽 활성도는 같은 화합물에서 나와야 한다
func TestFind_SameCompoundInvariant(t *testing.T) {
	ref := &contracts.AssayTable{
		Target: "HTR2A",
		Records: []contracts.AssayRecord{
			{CompoundID: "a", Activity: 1.0},
			{CompoundID: "b", Activity: 2.0},
			{CompoundID: "c", Activity: 3.0},
		},
	}
	off := &contracts.AssayTable{
		Target: "HTR2C",
		Records: []contracts.AssayRecord{
			{CompoundID: "c", Activity: 30.0},
			{CompoundID: "a", Activity: 10.0},
		},
	}

	refIndex := ref.IndexByCompound()
	offIndex := off.IndexByCompound()

	for _, pair := range Find(ref, off).Pairs {
		if refIndex[pair.CompoundID].Activity != pair.RefActivity {
			t.Errorf("pair %s: RefActivity %v does not match reference table", pair.CompoundID, pair.RefActivity)
		}
		if offIndex[pair.CompoundID].Activity != pair.OffActivity {
			t.Errorf("pair %s: OffActivity %v does not match off-target table", pair.CompoundID, pair.OffActivity)
		}
	}
}

func TestFind_EmptyOverlap(t *testing.T) {
	ref := tableWithIDs("HTR2A", []string{"a", "b"})
	off := tableWithIDs("DRD3", []string{"x", "y"})

	got := Find(ref, off)

	if !got.Empty() {
		t.Errorf("expected empty overlap for disjoint tables, got %d pairs", got.Size())
	}
}

// join 순서는 오프타깃 테이블의 행 순서를 따른다 (결정적)
func TestFind_Deterministic(t *testing.T) {
	ref := tableWithIDs("HTR2A", []string{"c", "a", "b"})
	off := tableWithIDs("HTR2B", []string{"b", "c", "a"})

	first := Find(ref, off)
	second := Find(ref, off)

	for i := range first.Pairs {
		if first.Pairs[i] != second.Pairs[i] {
			t.Fatalf("join order not deterministic at %d: %+v vs %+v", i, first.Pairs[i], second.Pairs[i])
		}
	}

	wantOrder := []string{"b", "c", "a"}
	for i, pair := range first.Pairs {
		if pair.CompoundID != wantOrder[i] {
			t.Errorf("Pairs[%d].CompoundID = %s, want %s (off-target row order)", i, pair.CompoundID, wantOrder[i])
		}
	}
}

func tableWithIDs(target string, ids []string) *contracts.AssayTable {
	table := &contracts.AssayTable{Target: target}
	for i, id := range ids {
		table.Records = append(table.Records, contracts.AssayRecord{
			CompoundID: id,
			Activity:   float64(i+1) * 0.5,
		})
	}
	return table
}
