package service

import (
	"context"
	"log/slog"

	"github.com/phuc2705/Project-Sach/internal/core/domain"
	"github.com/phuc2705/Project-Sach/internal/port"
)

const defaultPaymentMethod = "COD"

type OrderService struct {
	orders port.OrderRepository
	cache  port.CacheRepository
}

func NewOrderService(orders port.OrderRepository, cache port.CacheRepository) *OrderService {
	return &OrderService{orders: orders, cache: cache}
}

// PlaceOrder validates the purchase request and commits it through the
// store's transaction. It returns the new order id and the total recomputed
// from stored prices. On any failure no stock is decremented and no order
// row is visible.
func (s *OrderService) PlaceOrder(
	ctx context.Context,
	buyerID int64,
	lines []domain.OrderLine,
	shippingAddress, phone, paymentMethod, notes string,
) (int64, float64, error) {
	if len(lines) == 0 {
		return 0, 0, domain.Validationf("order has no items")
	}
	for _, line := range lines {
		if line.BookID <= 0 {
			return 0, 0, domain.Validationf("invalid book id")
		}
		if line.Quantity <= 0 {
			return 0, 0, domain.Validationf("quantity must be positive")
		}
	}
	if shippingAddress == "" {
		return 0, 0, domain.Validationf("shipping address is required")
	}
	if phone == "" {
		return 0, 0, domain.Validationf("phone is required")
	}
	if paymentMethod == "" {
		paymentMethod = defaultPaymentMethod
	}

	order := domain.Order{
		BuyerID:         buyerID,
		Status:          domain.OrderStatusPending,
		ShippingAddress: shippingAddress,
		Phone:           phone,
		PaymentMethod:   paymentMethod,
		Notes:           notes,
	}

	orderID, total, err := s.orders.CreateOrder(ctx, order, lines)
	if err != nil {
		return 0, 0, domain.StoreError(err)
	}

	// Stock changed, so cached book payloads are stale. A failed delete is
	// bounded by the cache TTL and must not fail the committed order.
	keys := make([]string, 0, len(lines))
	seen := make(map[int64]bool, len(lines))
	for _, line := range lines {
		if !seen[line.BookID] {
			seen[line.BookID] = true
			keys = append(keys, bookCacheKey(line.BookID))
		}
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		slog.WarnContext(ctx, "failed to invalidate book cache", "order_id", orderID, "error", err)
	}

	return orderID, total, nil
}

func (s *OrderService) ListOrders(ctx context.Context, buyerID int64) ([]domain.Order, error) {
	orders, err := s.orders.ListOrdersByBuyer(ctx, buyerID)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	return orders, nil
}
