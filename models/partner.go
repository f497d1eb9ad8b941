package models

import (
	"time"

	"gorm.io/gorm"
)

// Partner represents a laundry shop, one-to-one with a partner login account.
// ShopName, Address, Phone and City are the shop's public contact details and
// are exposed on the public tracking endpoint.
type Partner struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"` // foreign key to users table
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	ShopName  string         `gorm:"not null" json:"shop_name"`
	Address   string         `gorm:"not null" json:"address"`
	Phone     string         `gorm:"not null" json:"phone"`
	City      string         `json:"city"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Partner model
func (Partner) TableName() string {
	return "partners"
}
