package repo

import "github.com/rogerio-castellano/retail-inventory/internal/models"

// UserFilter selects a single account. Zero-valued fields are ignored, so an
// empty Role matches accounts of either role.
type UserFilter struct {
	Role        models.Role
	Email       string
	PhoneNumber string
}

func (f UserFilter) matches(u models.User) bool {
	if f.Role != "" && u.Role() != f.Role {
		return false
	}
	if f.Email != "" && u.Email() != f.Email {
		return false
	}
	if f.PhoneNumber != "" && u.PhoneNumber() != f.PhoneNumber {
		return false
	}
	return true
}
