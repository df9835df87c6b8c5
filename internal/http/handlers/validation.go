package handlers

import (
	"math"
	"regexp"
	"strings"

	"github.com/rogerio-castellano/retail-inventory/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

const (
	minPasswordLength = 6
	// bcrypt rejects passwords longer than 72 bytes.
	maxPasswordLength = 72
)

// missingNumbers lists the numeric fields a create request must carry.
func (p ProductRequest) missingNumbers() []string {
	errs := []string{}
	if p.MRP == nil {
		errs = append(errs, "MRP is required")
	}
	if p.DP == nil {
		errs = append(errs, "DP is required")
	}
	if p.NLC == nil {
		errs = append(errs, "NLC is required")
	}
	if p.Percentage == nil {
		errs = append(errs, "Percentage is required")
	}
	return errs
}

// applyTo copies the fields present in p onto dst. Strings are trimmed.
func (p ProductRequest) applyTo(dst *models.Product) {
	if p.ItemCode != nil {
		dst.ItemCode = strings.TrimSpace(*p.ItemCode)
	}
	if p.ItemDescription != nil {
		dst.ItemDescription = strings.TrimSpace(*p.ItemDescription)
	}
	if p.Unit != nil {
		dst.Unit = strings.TrimSpace(*p.Unit)
	}
	if p.MRP != nil {
		dst.MRP = *p.MRP
	}
	if p.DP != nil {
		dst.DP = *p.DP
	}
	if p.NLC != nil {
		dst.NLC = *p.NLC
	}
	if p.Percentage != nil {
		dst.Percentage = *p.Percentage
	}
}

func validateProduct(p models.Product) []string {
	errs := []string{}
	if p.ItemCode == "" {
		errs = append(errs, "Item code is required")
	}
	if p.ItemDescription == "" {
		errs = append(errs, "Item description is required")
	}
	if p.Unit == "" {
		errs = append(errs, "Unit is required")
	}
	if !nonNegative(p.MRP) {
		errs = append(errs, "MRP cannot be negative")
	}
	if !nonNegative(p.DP) {
		errs = append(errs, "DP cannot be negative")
	}
	if !nonNegative(p.NLC) {
		errs = append(errs, "NLC cannot be negative")
	}
	if !nonNegative(p.Percentage) || p.Percentage > 100 {
		errs = append(errs, "Percentage must be between 0 and 100")
	}
	return errs
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// identityFromRegistration checks a registration request and builds the
// role-specific identity. The admin password hash is left for the caller to set.
func identityFromRegistration(req RegisterRequest) (models.Identity, string) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, "Name is required"
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, "Valid role (admin or user) is required"
	}

	if role == models.RoleAdmin {
		email := normalizeEmail(req.Email)
		if email == "" {
			return nil, "Email is required for admin accounts"
		}
		if req.Password == "" {
			return nil, "Password is required for admin accounts"
		}
		if len(req.Password) < minPasswordLength {
			return nil, "Password must be at least 6 characters long"
		}
		if len(req.Password) > maxPasswordLength {
			return nil, "Password must be at most 72 characters long"
		}
		if !emailPattern.MatchString(email) {
			return nil, "Invalid email format"
		}
		return models.AdminIdentity{Email: email}, ""
	}

	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		return nil, "Phone number is required for user accounts"
	}
	if !phonePattern.MatchString(phone) {
		return nil, "Phone number must be 10 digits"
	}
	return models.UserIdentity{PhoneNumber: phone}, ""
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
