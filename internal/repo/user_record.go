package repo

import (
	"time"

	"github.com/rogerio-castellano/retail-inventory/internal/models"
)

// userRecord is the flat storage shape shared by the Mongo and Postgres
// repositories. Only the fields of the account's identity variant are set.
type userRecord struct {
	ID           string
	Name         string
	Role         models.Role
	Email        string
	PhoneNumber  string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func flattenUser(u models.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Name:         u.Name,
		Role:         u.Role(),
		Email:        u.Email(),
		PhoneNumber:  u.PhoneNumber(),
		PasswordHash: u.PasswordHash(),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r userRecord) model() models.User {
	u := models.User{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	switch r.Role {
	case models.RoleAdmin:
		u.Identity = models.AdminIdentity{Email: r.Email, PasswordHash: r.PasswordHash}
	case models.RoleUser:
		u.Identity = models.UserIdentity{PhoneNumber: r.PhoneNumber}
	}
	return u
}
