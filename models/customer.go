package models

import "time"

// Customer represents a laundry end-user, identified by phone number.
// A customer row is created (or its name/address refreshed) whenever an order
// is placed under that phone number. Customers are never deleted.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"uniqueIndex;not null" json:"phone"`
	Address   *string   `json:"address,omitempty"` // never exposed on the public tracking endpoint
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
