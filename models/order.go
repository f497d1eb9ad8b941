package models

import "time"

// Order statuses, in canonical forward order. PickedUp is terminal.
const (
	StatusReceived       = "Received"
	StatusWashing        = "Washing"
	StatusDrying         = "Drying"
	StatusIroning        = "Ironing"
	StatusReadyForPickup = "ReadyForPickup"
	StatusPickedUp       = "PickedUp"
)

// OrderStatuses lists every valid status in canonical forward order
var OrderStatuses = []string{
	StatusReceived,
	StatusWashing,
	StatusDrying,
	StatusIroning,
	StatusReadyForPickup,
	StatusPickedUp,
}

// Service units
const (
	UnitKg   = "kg"
	UnitItem = "item"
)

// serviceUnits maps each fixed service type to its billing unit
var serviceUnits = map[string]string{
	"Laundry Kiloan": UnitKg,
	"Laundry Satuan": UnitItem,
	"Dry Cleaning":   UnitItem,
	"Setrika":        UnitKg,
	"Cuci Sepatu":    UnitItem,
}

// Payment methods and statuses
const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentQRIS     = "qris"

	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// Order represents one laundry job placed at a partner shop
type Order struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	TrackingCode    string     `gorm:"uniqueIndex;not null" json:"tracking_code"` // immutable once assigned
	ServiceType     string     `gorm:"not null" json:"service_type"`
	WeightKg        *float64   `json:"weight_kg,omitempty"`  // set for kg-unit services
	ItemCount       *int       `json:"item_count,omitempty"` // set for item-unit services
	TotalPrice      float64    `gorm:"not null;check:total_price >= 0" json:"total_price"`
	PaymentMethod   *string    `json:"payment_method"` // nullable until chosen
	PaymentStatus   string     `gorm:"not null;default:'unpaid'" json:"payment_status"`
	Status          string     `gorm:"not null;default:'Received'" json:"status"`
	EstimatedDoneAt *time.Time `json:"estimated_done_at"`
	CompletedAt     *time.Time `json:"completed_at"` // set iff status is PickedUp
	ReceiptKey      *string    `json:"receipt_key,omitempty"`
	ReceiptURL      *string    `gorm:"-" json:"receipt_url,omitempty"` // computed, presigned URL for the receipt photo
	PartnerID       uint       `gorm:"not null;index" json:"partner_id"`
	Partner         Partner    `gorm:"foreignKey:PartnerID" json:"partner"`
	CustomerID      uint       `gorm:"not null;index" json:"customer_id"`
	Customer        Customer   `gorm:"foreignKey:CustomerID" json:"customer"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsValidStatus reports whether s is one of the fixed order statuses
func IsValidStatus(s string) bool {
	return StatusRank(s) >= 0
}

// StatusRank returns the position of s in the canonical forward order,
// or -1 if s is not a valid status
func StatusRank(s string) int {
	for i, status := range OrderStatuses {
		if status == s {
			return i
		}
	}
	return -1
}

// IsTerminalStatus reports whether s is the terminal status
func IsTerminalStatus(s string) bool {
	return s == StatusPickedUp
}

// ServiceUnit returns the billing unit ("kg" or "item") for a service type.
// The second return value is false for unknown service types.
func ServiceUnit(serviceType string) (string, bool) {
	unit, ok := serviceUnits[serviceType]
	return unit, ok
}

// IsValidPaymentMethod reports whether m is one of the fixed payment methods
func IsValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentTransfer || m == PaymentQRIS
}

// IsValidPaymentStatus reports whether s is a valid payment status
func IsValidPaymentStatus(s string) bool {
	return s == PaymentUnpaid || s == PaymentPaid
}
