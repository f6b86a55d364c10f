package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/ordering/internal/domain/order"
	"github.com/erp/ordering/internal/domain/product"
	"github.com/shopspring/decimal"
)

// SeedProducts inserts the sample catalog when the products table is empty.
// It returns the number of rows written.
func SeedProducts(ctx context.Context, uow product.UnitOfWork) (int, error) {
	count, err := uow.Products().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	samples := []*product.Product{
		product.NewProduct("P1", decimal.RequireFromString("1500.00"), 10),
		product.NewProduct("P2", decimal.RequireFromString("999.99"), 25),
		product.NewProduct("P3", decimal.RequireFromString("199.99"), 50),
		product.NewProduct("P4", decimal.RequireFromString("199.99"), 50),
		product.NewProduct("P5", decimal.RequireFromString("199.99"), 50),
		product.NewProduct("P6", decimal.RequireFromString("199.99"), 50),
	}
	for _, p := range samples {
		if _, err := uow.Products().Add(ctx, p); err != nil {
			return 0, err
		}
	}
	return uow.SaveChanges(ctx)
}

// SeedOrders inserts the sample orders when the orders table is empty.
// It returns the number of rows written.
func SeedOrders(ctx context.Context, uow order.UnitOfWork, now time.Time) (int, error) {
	count, err := uow.Orders().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	line := func(productID uint, price string) order.OrderItem {
		return order.OrderItem{ProductID: productID, Quantity: 1, UnitPrice: decimal.RequireFromString(price)}
	}
	samples := []struct {
		customer string
		status   order.Status
		items    []order.OrderItem
	}{
		{"CUST001", order.StatusPending, []order.OrderItem{line(1, "1500.00"), line(3, "199.99")}},
		{"CUST002", order.StatusProcessing, []order.OrderItem{line(2, "999.99")}},
		{"CUST003", order.StatusCancelled, []order.OrderItem{line(2, "999.99")}},
		{"CUST004", order.StatusShipped, []order.OrderItem{line(2, "999.99")}},
		{"CUST005", order.StatusDelivered, []order.OrderItem{line(2, "999.99")}},
	}
	for _, s := range samples {
		o, err := order.NewOrder(s.customer, now, s.items)
		if err != nil {
			return 0, err
		}
		o.Status = s.status
		if _, err := uow.Orders().Add(ctx, o); err != nil {
			return 0, err
		}
	}
	return uow.SaveChanges(ctx)
}
