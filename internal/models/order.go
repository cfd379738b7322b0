package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Platform identifies the external system an order was synced from.
type Platform string

const (
	PlatformGelato       Platform = "gelato"
	PlatformFastPlatform Platform = "fast_platform"
	PlatformShopworks    Platform = "shopworks"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPrinting   OrderStatus = "printing"
	StatusEmbroidery OrderStatus = "embroidery"
	StatusQC         OrderStatus = "qc"
	StatusPacking    OrderStatus = "packing"
	StatusShipped    OrderStatus = "shipped"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPrinting, StatusEmbroidery, StatusQC,
		StatusPacking, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type DecorationMethod string

const (
	DecorationScreenPrint  DecorationMethod = "screen_print"
	DecorationEmbroidery   DecorationMethod = "embroidery"
	DecorationDTG          DecorationMethod = "dtg"
	DecorationSublimation  DecorationMethod = "sublimation"
	DecorationHeatTransfer DecorationMethod = "heat_transfer"
	DecorationOther        DecorationMethod = "other"
)

// Order is the canonical representation of a manufacturing order. One row
// exists per (order_number, platform) pair; re-syncs update the row in place.
// Notes, AssignedTo and Priority are operator-owned and never written by the
// sync path.
type Order struct {
	ID               string           `json:"id" gorm:"type:uuid;primaryKey"`
	OrderNumber      string           `json:"order_number" gorm:"not null;uniqueIndex:idx_orders_number_platform"`
	Platform         Platform         `json:"platform" gorm:"type:varchar(50);not null;uniqueIndex:idx_orders_number_platform"`
	CustomerName     string           `json:"customer_name"`
	CustomerEmail    string           `json:"customer_email"`
	Quantity         int              `json:"quantity" gorm:"not null"`
	DecorationMethod DecorationMethod `json:"decoration_method" gorm:"type:varchar(50);not null"`
	DueDate          time.Time        `json:"due_date" gorm:"not null"`
	Status           OrderStatus      `json:"status" gorm:"type:varchar(50);not null"`
	Priority         bool             `json:"priority"`
	AssignedTo       *string          `json:"assigned_to" gorm:"type:uuid"`
	Notes            string           `json:"notes"`
	OrderDetails     string           `json:"order_details,omitempty" gorm:"type:jsonb"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	SyncedAt         time.Time        `json:"synced_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// OrderFilters narrows order reads. Nil fields are not applied.
type OrderFilters struct {
	Platform         *Platform
	Status           *OrderStatus
	DecorationMethod *DecorationMethod
	AssignedTo       *string
	Priority         *bool
	DateFrom         *time.Time
	DateTo           *time.Time
	Search           string
}

// OrderUpdate carries the operator-owned mutations applied outside the sync
// path. Nil fields are left unchanged.
type OrderUpdate struct {
	Status     *OrderStatus `json:"status"`
	AssignedTo *string      `json:"assigned_to"`
	Priority   *bool        `json:"priority"`
	Notes      *string      `json:"notes"`
}

// OrderStats summarizes the active (non-terminal) workload.
type OrderStats struct {
	Total        int64 `json:"total"`
	Pending      int64 `json:"pending"`
	InProduction int64 `json:"in_production"`
	InQC         int64 `json:"in_qc"`
	Packing      int64 `json:"packing"`
	Shipped      int64 `json:"shipped"`
	Priority     int64 `json:"priority"`
	Overdue      int64 `json:"overdue"`
}
