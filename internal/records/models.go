// Package records stores what visitors submit: waitlist signups, legacy
// order posts, and the rows the direct database-REST surface inserts.
package records

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WaitlistEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string
	LastName  string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// OrderEntry is an order captured through the legacy backend write path.
type OrderEntry struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	VisitorID       string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	Items           int
	Total           int
	CreatedAt       time.Time
}

// Selection is a product pick recorded by the storefront.
type Selection struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	VisitorID string
	ProductID int
	Name      string
	Color     string
	Size      string
	Price     int
	Quantity  int
	CreatedAt time.Time
}

// ShippingDetail is a row inserted through the database-REST surface, the
// direct sink's system of record.
type ShippingDetail struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	VisitorID   string
	FirstName   string
	LastName    string
	Email       string
	Address     string
	HouseNumber string
	City        string
	State       string
	PinCode     string
	Phone       string
	Snapshot    string
	TotalAmount int
	CreatedAt   time.Time
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (e *WaitlistEntry) BeforeCreate(*gorm.DB) error  { ensureID(&e.ID); return nil }
func (e *OrderEntry) BeforeCreate(*gorm.DB) error     { ensureID(&e.ID); return nil }
func (e *Selection) BeforeCreate(*gorm.DB) error      { ensureID(&e.ID); return nil }
func (e *ShippingDetail) BeforeCreate(*gorm.DB) error { ensureID(&e.ID); return nil }
