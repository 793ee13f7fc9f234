package user

import (
	"time"

	"github.com/frahmantamala/org-admin/internal/core/fields"
)

const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusInactive  = "inactive"
)

// User is the profile of an account. The password hash lives on auth.Account and is never part of it.
type User struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Username       string    `json:"username" db:"username"`
	Status         string    `json:"status" db:"status"`
	OrganizationID *int64    `json:"organization_id" db:"organization_id"`
	RoleID         *int64    `json:"role_id" db:"role_id"`
	Phone          *string   `json:"phone" db:"phone"`
	Address        *string   `json:"address" db:"address"`
	City           *string   `json:"city" db:"city"`
	Country        *string   `json:"country" db:"country"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

var status = fields.OneOf(StatusActive, StatusSuspended, StatusInactive)

var (
	// Profile is what PATCH /users/{id} may change. Passwords only change through auth.
	Profile = fields.Set{
		"name":            {Column: "name", Coerce: fields.String},
		"email":           {Column: "email", Coerce: fields.String},
		"username":        {Column: "username", Coerce: fields.String},
		"status":          {Column: "status", Coerce: status},
		"organization_id": {Column: "organization_id", Coerce: fields.Int64},
		"role_id":         {Column: "role_id", Coerce: fields.Int64},
		"phone":           {Column: "phone", Coerce: fields.NullableString},
		"address":         {Column: "address", Coerce: fields.NullableString},
		"city":            {Column: "city", Coerce: fields.NullableString},
		"country":         {Column: "country", Coerce: fields.NullableString},
	}

	Filters = fields.Set{
		"status":          {Column: "status", Coerce: status},
		"role_id":         {Column: "role_id", Coerce: fields.Int64},
		"organization_id": {Column: "organization_id", Coerce: fields.Int64},
	}

	Sortable = fields.Set{
		"id":         {Column: "id"},
		"name":       {Column: "name"},
		"email":      {Column: "email"},
		"username":   {Column: "username"},
		"created_at": {Column: "created_at"},
		"updated_at": {Column: "updated_at"},
	}
)

// Insertable extends Profile with the hash column the service fills in.
func Insertable() fields.Set {
	s := make(fields.Set, len(Profile)+1)
	for k, v := range Profile {
		s[k] = v
	}
	s[PasswordHashField] = fields.Field{Column: "password_hash", Coerce: fields.String}
	return s
}

const (
	PasswordField     = "password"
	PasswordHashField = "password_hash"
	MinPasswordLength = 8
)
