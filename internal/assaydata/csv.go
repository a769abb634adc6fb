package assaydata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/wonny/chembridge/internal/contracts"
)

// 인제스트 CSV의 필수 컬럼. 누락은 SchemaError로 실행 중단.
var requiredColumns = []string{"compound_id", "activity_value", "is_active", "fingerprint"}

// ReadTableFile reads one target's assay table from a CSV file
func ReadTableFile(path, target string) (*contracts.AssayTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return ReadTable(f, target)
}

// ReadTable parses a per-target assay CSV. The header must carry the four
// required columns; extra columns are ignored. fingerprint 셀은 세미콜론으로
// 구분된 실수 목록이다 (예: "0;1;1;0").
func ReadTable(r io.Reader, target string) (*contracts.AssayTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &contracts.SchemaError{Target: target, Missing: requiredColumns}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &contracts.SchemaError{Target: target, Missing: missing}
	}

	table := &contracts.AssayTable{Target: target}
	row := 1
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		row++

		activity, err := strconv.ParseFloat(strings.TrimSpace(rec[index["activity_value"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse activity_value %q: %w", row, rec[index["activity_value"]], err)
		}

		isActive, err := strconv.ParseBool(strings.TrimSpace(rec[index["is_active"]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parse is_active %q: %w", row, rec[index["is_active"]], err)
		}

		fingerprint, err := parseFingerprint(rec[index["fingerprint"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse fingerprint: %w", row, err)
		}

		table.Records = append(table.Records, contracts.AssayRecord{
			CompoundID:  strings.TrimSpace(rec[index["compound_id"]]),
			Activity:    activity,
			IsActive:    isActive,
			Fingerprint: fingerprint,
		})
	}

	return table, nil
}

// parseFingerprint decodes a semicolon-separated float list.
// 빈 셀은 nil을 반환한다: 길이 드리프트는 preflight에서 보고된다.
func parseFingerprint(cell string) ([]float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}

	parts := strings.Split(cell, ";")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("parse fingerprint element %q: %w", part, err)
		}
		values = append(values, v)
	}
	return values, nil
}
