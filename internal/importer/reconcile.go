package importer

import (
	"fmt"

	"github.com/rogerio-castellano/retail-inventory/internal/models"
)

const (
	ReasonDuplicateInFile  = "Duplicate in Excel file"
	ReasonDuplicateInStore = "Already exists in database"
)

// Skipped is a row left out of the import because its item code is a duplicate.
type Skipped struct {
	ItemCode string `json:"itemCode"`
	Reason   string `json:"reason"`
}

// Plan is the classification of every row of one submission.
type Plan struct {
	ToInsert []models.Product
	Skipped  []Skipped
	Errors   []string
}

// Reconcile classifies rows into accepted, skipped and errored buckets. existing
// holds the item codes already present in the store. Row numbers in error
// messages are 1-based positions among the data rows.
func Reconcile(rows []Row, existing map[string]bool) Plan {
	var plan Plan
	seen := make(map[string]bool, len(rows))

	for i, row := range rows {
		n := i + 1

		code := row.text(colItemCode)
		if code == "" {
			plan.Errors = append(plan.Errors, fmt.Sprintf("Row %d: Item Code is required", n))
			continue
		}
		if seen[code] {
			plan.Skipped = append(plan.Skipped, Skipped{ItemCode: code, Reason: ReasonDuplicateInFile})
			continue
		}
		if existing[code] {
			plan.Skipped = append(plan.Skipped, Skipped{ItemCode: code, Reason: ReasonDuplicateInStore})
			continue
		}

		product, msg := buildProduct(row, code)
		if msg != "" {
			plan.Errors = append(plan.Errors, fmt.Sprintf("Row %d: %s", n, msg))
			continue
		}

		seen[code] = true
		plan.ToInsert = append(plan.ToInsert, product)
	}
	return plan
}

// buildProduct validates the remaining fields of a row and returns the first
// failure message, or "" when the row is acceptable.
func buildProduct(row Row, code string) (models.Product, string) {
	mrp, ok := row.number(colMRP)
	if !ok || mrp < 0 {
		return models.Product{}, "Invalid MRP value"
	}
	dp, ok := row.number(colDP)
	if !ok || dp < 0 {
		return models.Product{}, "Invalid DP value"
	}
	nlc, ok := row.number(colNLC)
	if !ok || nlc < 0 {
		return models.Product{}, "Invalid NLC value"
	}
	pct, ok := row.number(colPercentage)
	if !ok || pct < 0 || pct > 100 {
		return models.Product{}, "Invalid Percentage value (must be between 0 and 100)"
	}

	p := models.Product{
		ItemCode:        code,
		ItemDescription: row.text(colItemDescription),
		Unit:            row.text(colUnit),
		MRP:             mrp,
		DP:              dp,
		NLC:             nlc,
		Percentage:      pct,
	}
	if p.ItemDescription == "" {
		return models.Product{}, "Item Description is required"
	}
	if p.Unit == "" {
		return models.Product{}, "Unit is required"
	}
	return p, ""
}
