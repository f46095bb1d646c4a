// Package domain defines the persistence model for customer orders. The
// Order type is mapped with GORM and is shared across the repository and
// service layers. It is deliberately table-agnostic: the repository binds
// each operation to a concrete table ("orders" or "test_orders") chosen by
// the tenant router, so the same model serves both partitions.
package domain

import (
	"time"
)

// Order lifecycle statuses. An order is created as StatusPending (or
// StatusOutOfStock when the submission flagged the item unavailable);
// later transitions are performed by the fulfilment team outside this
// service and are not modelled here.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusOutOfStock = "out_of_stock"
)

// Metadata is an open extension map carried by specialized order variants
// (gift orders, scheduled deliveries) without schema churn. Values are
// strings only, which keeps serialization unambiguous; the validator
// enforces this before an Order is ever constructed.
//
// Recognized keys: gift_recipient, gift_relationship, gift_message,
// occasion, delivery_date. Additional string keys are allowed.
type Metadata map[string]string

// Order represents a single customer order collected from a product landing
// page and handed off to the WhatsApp sales flow.
//
// Fields:
//   - ID: stable UUID primary key (char(36)), assigned on write.
//   - FullName / Phone / Email / State / Address: customer contact and
//     delivery details. Email is optional (nil when absent).
//   - ProductName / Color / Quantity / Price / TotalPrice: the purchased
//     item. Color and State are members of closed enumerations enforced by
//     the validator, never free text.
//   - Discount / DiscountAmount: optional promotion label and value.
//   - Metadata: optional string-valued extension map, stored as JSON.
//   - Status: lifecycle status, see the Status* constants.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//
// An Order is immutable once constructed for the purposes of the intake
// pipeline: the pipeline only ever creates new Orders.
type Order struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	FullName       string    `json:"full_name"       gorm:"type:varchar(100);not null"`
	Phone          string    `json:"phone"           gorm:"type:varchar(20);not null;index"`
	Email          *string   `json:"email,omitempty" gorm:"type:varchar(254)"`
	State          string    `json:"state"           gorm:"type:varchar(32);not null"`
	Address        string    `json:"address"         gorm:"type:varchar(500);not null"`
	ProductName    string    `json:"product_name"    gorm:"type:varchar(200);not null"`
	Color          string    `json:"color"           gorm:"type:varchar(32);not null"`
	Quantity       int       `json:"quantity"        gorm:"not null"`
	Price          float64   `json:"price"           gorm:"not null"`
	TotalPrice     float64   `json:"total_price"     gorm:"not null"`
	Discount       *string   `json:"discount,omitempty"        gorm:"type:varchar(50)"`
	DiscountAmount *float64  `json:"discount_amount,omitempty"`
	Metadata       Metadata  `json:"metadata,omitempty" gorm:"serializer:json"`
	Status         string    `json:"status"          gorm:"type:varchar(16);not null;default:'pending'"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
