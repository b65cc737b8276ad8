// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Roles a user can sign up with. Buyers browse, sellers list products.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// ValidRole reports whether role is one of the supported account roles.
func ValidRole(role string) bool {
	return role == RoleBuyer || role == RoleSeller
}

// User represents a profile row in this system's own store. The row is keyed
// by the identity provider's id and is inserted exactly once at signup; there
// is no profile-edit path.
type User struct {
	// ID is the provider-issued identity id (uuid).
	ID string `gorm:"type:uuid;primaryKey"`

	// Name is the display name shown next to the user's products.
	Name string `gorm:"size:255;not null"`

	// Phone is the seller contact number shown to buyers.
	Phone string `gorm:"size:32;not null"`

	// Email is unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Role is either "buyer" or "seller".
	Role string `gorm:"size:16;not null"`

	// CreatedAt is the timestamp when the profile row was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the profile row was last updated.
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}
