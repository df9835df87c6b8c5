package handlers

import (
	"time"

	"github.com/rogerio-castellano/retail-inventory/internal/http/ban"
	"github.com/rogerio-castellano/retail-inventory/internal/importer"
	"github.com/rogerio-castellano/retail-inventory/internal/models"
)

// ProductRequest is the body of create and update calls. Nil fields are left
// unchanged on update.
type ProductRequest struct {
	ItemCode        *string  `json:"itemCode,omitempty"`
	ItemDescription *string  `json:"itemDescription,omitempty"`
	Unit            *string  `json:"unit,omitempty"`
	MRP             *float64 `json:"mrp,omitempty"`
	DP              *float64 `json:"dp,omitempty"`
	NLC             *float64 `json:"nlc,omitempty"`
	Percentage      *float64 `json:"percentage,omitempty"`
}

type ProductResult struct {
	Success bool           `json:"success"`
	Data    models.Product `json:"data"`
}

type ProductsResult struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	Data    []models.Product `json:"data"`
}

type DeleteResult struct {
	Success bool     `json:"success"`
	Data    struct{} `json:"data"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type ValidationErrorResponse struct {
	Success bool     `json:"success"`
	Error   []string `json:"error"`
}

type ImportProductsResult struct {
	Success         bool               `json:"success"`
	Count           int                `json:"count"`
	Data            []models.Product   `json:"data"`
	Skipped         int                `json:"skipped"`
	SkippedDetails  []importer.Skipped `json:"skippedDetails"`
	Errors          []string           `json:"errors,omitempty"`
	FailedItemCodes []string           `json:"failedItemCodes,omitempty"`
}

type ImportValidationError struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

type ImportFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Password    string `json:"password,omitempty"`
	Role        string `json:"role"`
}

type LoginRequest struct {
	Email       string `json:"email,omitempty"`
	Password    string `json:"password,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type UserData struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        string `json:"role"`
	Token       string `json:"token"`
}

type AuthResult struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	UserData UserData `json:"userData"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type UserResult struct {
	Success bool         `json:"success"`
	Data    UserResponse `json:"data"`
}

type UsersResult struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Data    []UserResponse `json:"data"`
}

type BanEventsResult struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Data    []ban.BanLogEntry `json:"data"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResult struct {
	Success bool         `json:"success"`
	Data    HealthStatus `json:"data"`
}

type HealthStatus struct {
	Store string `json:"store"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email(),
		PhoneNumber: u.PhoneNumber(),
		Role:        string(u.Role()),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
