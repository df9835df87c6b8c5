package models

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Identity is the role-specific authentication key of an account.
// It is either an AdminIdentity or a UserIdentity.
type Identity interface {
	Role() Role
	isIdentity()
}

// AdminIdentity authenticates with email and password.
type AdminIdentity struct {
	Email        string
	PasswordHash string
}

func (AdminIdentity) Role() Role { return RoleAdmin }
func (AdminIdentity) isIdentity() {}

// UserIdentity authenticates with a phone number only.
type UserIdentity struct {
	PhoneNumber string
}

func (UserIdentity) Role() Role { return RoleUser }
func (UserIdentity) isIdentity() {}

type User struct {
	ID        string
	Name      string
	Identity  Identity
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role returns the role implied by the user's identity.
func (u User) Role() Role {
	if u.Identity == nil {
		return ""
	}
	return u.Identity.Role()
}

// Email returns the admin email, or "" for user-role accounts.
func (u User) Email() string {
	if id, ok := u.Identity.(AdminIdentity); ok {
		return id.Email
	}
	return ""
}

// PhoneNumber returns the user phone number, or "" for admin accounts.
func (u User) PhoneNumber() string {
	if id, ok := u.Identity.(UserIdentity); ok {
		return id.PhoneNumber
	}
	return ""
}

// PasswordHash returns the stored bcrypt hash for admin accounts.
func (u User) PasswordHash() string {
	if id, ok := u.Identity.(AdminIdentity); ok {
		return id.PasswordHash
	}
	return ""
}
