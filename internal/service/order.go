package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/repo"
	"github.com/parapharma/shop/internal/transport"
)

type OrderService struct {
	Repo  *repo.GormRepo
	Stock *StockService
}

// PlaceOrder persists the submitted payload verbatim as an immutable
// snapshot; prices are not recomputed. When the buyer is a pharmacist the
// order lines are then fed into their stock ledger as a separate best-effort
// step.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, role string, req transport.PlaceOrderRequest) (*models.Order, error) {
	if len(req.OrderItems) == 0 {
		return nil, fmt.Errorf("%w: no order items", ErrValidation)
	}

	order := &models.Order{
		UserID:          userID,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      req.ItemsPrice,
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
		TotalPrice:      req.TotalPrice,
	}
	for _, item := range req.OrderItems {
		if item.ProductID == uuid.Nil {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Qty:       item.Qty,
			Image:     item.Image,
			Price:     item.Price,
		})
	}

	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	if role == models.RolePharmacist {
		s.Stock.IncrementFromOrder(ctx, userID, order.Items)
	}

	return order, nil
}

// MarkPaid flips the payment flags and stores the opaque provider result.
// Re-marking an already-paid order overwrites the result and refreshes
// paidAt.
func (s *OrderService) MarkPaid(ctx context.Context, orderID uuid.UUID, result transport.PaymentResultRequest) (*models.Order, error) {
	order, err := s.Repo.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}

	now := time.Now().UTC()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = models.PaymentResult{
		ProviderID:   result.ID,
		Status:       result.Status,
		UpdateTime:   result.UpdateTime,
		EmailAddress: result.EmailAddress,
	}

	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}
