package order

import (
	"time"

	"github.com/erp/ordering/internal/domain/order"
	"github.com/shopspring/decimal"
)

// CreateOrderItem is one requested line of a new order
type CreateOrderItem struct {
	ProductID uint            `json:"product_id" validate:"gt=0"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrder creates a pending order. OrderDate defaults to the current
// time when zero.
type CreateOrder struct {
	CustomerID string            `json:"customer_id" validate:"required,max=100"`
	OrderDate  time.Time         `json:"order_date"`
	Items      []CreateOrderItem `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderStatus replaces the status of an existing order
type UpdateOrderStatus struct {
	ID     uint         `json:"id" validate:"gt=0"`
	Status order.Status `json:"status" validate:"oneof=pending confirmed processing shipped delivered cancelled"`
}

// GetOrder loads one order with its items
type GetOrder struct {
	ID uint `json:"id" validate:"gt=0"`
}

// GetOrders lists every order with its items
type GetOrders struct{}

// OrderItemView is the read model of an order line
type OrderItemView struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderView is the read model of an order
type OrderView struct {
	ID          uint            `json:"id"`
	CustomerID  string          `json:"customer_id"`
	Status      order.Status    `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   time.Time       `json:"order_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Items       []OrderItemView `json:"items"`
}

// ToOrderView converts a domain order to its read model
func ToOrderView(o *order.Order) OrderView {
	items := make([]OrderItemView, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return OrderView{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		OrderDate:   o.OrderDate,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Items:       items,
	}
}
