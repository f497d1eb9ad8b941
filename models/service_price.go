package models

import "time"

// ServicePrice is one row of a partner's price list: the unit price a shop
// charges for a service type. When a row exists for an order's partner and
// service type, the server recomputes the order total from it and rejects
// mismatched client-supplied totals.
type ServicePrice struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PartnerID   uint      `gorm:"not null;uniqueIndex:idx_partner_service" json:"partner_id"`
	Partner     Partner   `gorm:"foreignKey:PartnerID" json:"-"`
	ServiceType string    `gorm:"not null;uniqueIndex:idx_partner_service" json:"service_type"`
	Unit        string    `gorm:"not null" json:"unit"` // "kg" or "item"
	UnitPrice   float64   `gorm:"not null;check:unit_price >= 0" json:"unit_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the ServicePrice model
func (ServicePrice) TableName() string {
	return "service_prices"
}
