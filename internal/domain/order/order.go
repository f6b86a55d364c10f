package order

import (
	"fmt"
	"time"

	"github.com/erp/ordering/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an order. Any status may replace
// any other; no transition graph is enforced.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// AllStatuses lists the valid statuses in lifecycle order
var AllStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// Include tokens for Order navigations
const (
	IncludeItems shared.Include = "Items"
)

// Field tokens usable in conditions, sorts and update masks
const (
	FieldCustomerID  = "CustomerID"
	FieldStatus      = "Status"
	FieldTotalAmount = "TotalAmount"
	FieldOrderDate   = "OrderDate"
	FieldOrderID     = "OrderID"
	FieldProductID   = "ProductID"
	FieldQuantity    = "Quantity"
	FieldUnitPrice   = "UnitPrice"
)

// EntityName is used in NotFound errors
const EntityName = "Order"

// Order is the order aggregate root. It owns its items exclusively.
type Order struct {
	shared.BaseEntity
	CustomerID  string          `gorm:"type:varchar(100);not null;index" json:"customer_id"`
	Status      Status          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	OrderDate   time.Time       `gorm:"not null" json:"order_date"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order. UnitPrice is a snapshot taken when the
// order is created and is never refreshed.
type OrderItem struct {
	shared.BaseEntity
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// ItemEntityName is used in NotFound errors
const ItemEntityName = "OrderItem"

// LineTotal returns quantity x unit price
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewOrder creates a pending order. The total is the sum of the line
// extensions at creation time; it is not recomputed if items change later.
func NewOrder(customerID string, orderDate time.Time, items []OrderItem) (*Order, error) {
	if customerID == "" {
		return nil, shared.NewValidationError(shared.FieldError{Field: "customer_id", Message: "The CustomerId is required"})
	}
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, shared.NewValidationError(shared.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "The quantity must be greater than 0",
			})
		}
	}

	o := &Order{
		CustomerID: customerID,
		Status:     StatusPending,
		OrderDate:  orderDate,
		Items:      items,
	}
	o.TotalAmount = o.ComputeTotal()
	return o, nil
}

// ComputeTotal sums the line extensions of the current items
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// SetStatus replaces the status
func (o *Order) SetStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewValidationError(shared.FieldError{Field: "status", Message: "Unknown order status"})
	}
	o.Status = status
	return nil
}
