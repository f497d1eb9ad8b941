package models

import "time"

// OrderStatusEvent is one append-only record of an order status change.
// Events are only ever inserted; the latest event's status always matches the
// owning order's current status field.
type OrderStatusEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"` // foreign key to orders table
	Order     Order     `gorm:"foreignKey:OrderID" json:"-"`    // don't include full order in JSON
	Status    string    `gorm:"not null" json:"status"`
	Note      string    `gorm:"type:text" json:"note"`
	ActorID   uint      `gorm:"not null;index" json:"actor_id"` // foreign key to users table
	Actor     User      `gorm:"foreignKey:ActorID" json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the OrderStatusEvent model
func (OrderStatusEvent) TableName() string {
	return "order_status_events"
}
