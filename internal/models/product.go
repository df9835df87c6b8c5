package models

import "time"

// Product represents a catalog entry. ItemCode is the business key and is unique
// across the store.
type Product struct {
	ID              string    `json:"_id"`
	ItemCode        string    `json:"itemCode"`
	ItemDescription string    `json:"itemDescription"`
	Unit            string    `json:"unit"`
	MRP             float64   `json:"mrp"`
	DP              float64   `json:"dp"`
	NLC             float64   `json:"nlc"`
	Percentage      float64   `json:"percentage"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
