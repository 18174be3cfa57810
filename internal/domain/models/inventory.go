// internal/domain/models/inventory.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultLowStockThreshold applies when an item is created without a threshold.
const DefaultLowStockThreshold = 10

// InventoryItem is a tracked stock of relief supplies.
// IsLowStock is derived on every read and never stored.
type InventoryItem struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
	Name              string             `bson:"name" json:"name" yaml:"name"`
	Category          string             `bson:"category" json:"category" yaml:"category"`
	Quantity          int                `bson:"quantity" json:"quantity" yaml:"quantity"`
	Location          string             `bson:"location" json:"location" yaml:"location"`
	LowStockThreshold int                `bson:"low_stock_threshold" json:"lowStockThreshold" yaml:"lowStockThreshold"`
	IsLowStock        bool               `bson:"-" json:"isLowStock" yaml:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt" yaml:"-"`
}

// WithLowStock returns a copy with IsLowStock computed from quantity and threshold.
func (i InventoryItem) WithLowStock() InventoryItem {
	i.IsLowStock = i.Quantity <= i.LowStockThreshold
	return i
}

// InventoryUpdate carries the fields to change on an item. Nil means unchanged.
type InventoryUpdate struct {
	Name              *string
	Category          *string
	Location          *string
	Quantity          *int
	LowStockThreshold *int
}

// InventoryTotals summarises stock across all items.
type InventoryTotals struct {
	TotalQuantity int64
	ItemCount     int64
}
