package importer

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Row is one spreadsheet data row keyed by header label.
type Row map[string]any

// column pairs the canonical field key with the header label people use in
// exported sheets.
type column struct {
	key   string
	alias string
}

var (
	colItemCode        = column{"itemCode", "Item Code"}
	colItemDescription = column{"itemDescription", "Item Description"}
	colUnit            = column{"unit", "Unit"}
	colMRP             = column{"mrp", "MRP"}
	colDP              = column{"dp", "DP"}
	colNLC             = column{"nlc", "NLC"}
	colPercentage      = column{"percentage", "Percentage"}
)

// lookup returns the first non-empty value found under the canonical key or its alias.
func (r Row) lookup(c column) (any, bool) {
	for _, k := range []string{c.key, c.alias} {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func (r Row) text(c column) string {
	v, ok := r.lookup(c)
	if !ok {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

// number resolves a numeric column. An absent column reads as 0; ok is false
// when a value is present but is not a finite number.
func (r Row) number(c column) (float64, bool) {
	v, present := r.lookup(c)
	if !present {
		return 0, true
	}
	if s, isString := v.(string); isString {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CollectItemCodes returns the distinct, non-empty item codes of rows in first-seen order.
func CollectItemCodes(rows []Row) []string {
	seen := make(map[string]bool, len(rows))
	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		code := row.text(colItemCode)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}
