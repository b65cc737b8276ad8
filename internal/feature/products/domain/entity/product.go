// Package entity defines the domain entities for the products feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a listing owned by exactly one seller. Only the owning
// seller may mutate or delete it.
type Product struct {
	// ID is the store-generated product id (uuid).
	ID string `gorm:"type:uuid;primaryKey"`

	Name string `gorm:"size:255;not null"`

	// Price is non-negative, stored as decimal(10,2).
	Price float64 `gorm:"type:decimal(10,2);not null"`

	Description string `gorm:"type:text;not null"`

	// ImageURL is nil until an image upload succeeds.
	ImageURL *string `gorm:"size:512"`

	// SellerID references users.id and is always the verified caller
	// identity at creation, never client-supplied.
	SellerID string `gorm:"type:uuid;index;not null"`

	// CreatedAt is the default sort key, descending.
	CreatedAt time.Time `gorm:"not null;index"`

	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns a uuid when the store has not been given one.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProductWithSeller is the read model for listings joined with the seller's
// display fields. Seller fields are nil when the seller row is missing.
type ProductWithSeller struct {
	ID          string
	Name        string
	Price       float64
	Description string
	ImageURL    *string
	SellerID    string
	CreatedAt   time.Time

	SellerName  *string
	SellerPhone *string
}
