package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parapharma/shop/internal/logging"
	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/reconcile"
	"github.com/parapharma/shop/internal/repo"
	"github.com/parapharma/shop/internal/transport"
)

type StockService struct {
	Repo *repo.GormRepo
}

// GetStock projects the pharmacist's ledger down to product id, name and
// quantity; the full product is not exposed here.
func (s *StockService) GetStock(ctx context.Context, pharmacistID uuid.UUID) (*transport.StockView, error) {
	stock, err := s.Repo.StockByPharmacist(ctx, pharmacistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: stock", ErrNotFound)
		}
		return nil, err
	}
	return s.project(ctx, stock)
}

// SetItemQuantity replaces a ledger line's quantity; zero or below removes
// the line.
func (s *StockService) SetItemQuantity(ctx context.Context, pharmacistID, productID uuid.UUID, quantity int) (*transport.StockView, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}

	stock, err := s.Repo.MutateStock(ctx, pharmacistID, false, func(lines []reconcile.Line) ([]reconcile.Line, error) {
		updated, ok := reconcile.SetQuantity(lines, productID, quantity)
		if !ok {
			return nil, fmt.Errorf("%w: product not in stock", ErrNotFound)
		}
		return updated, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: stock", ErrNotFound)
		}
		return nil, err
	}
	return s.project(ctx, stock)
}

// IncrementFromOrder feeds a placed order's lines into the pharmacist's
// ledger, creating it on first use. The order is already durable when this
// runs: a line that fails to resolve or write is logged and skipped, never
// rolled back into the order.
func (s *StockService) IncrementFromOrder(ctx context.Context, pharmacistID uuid.UUID, items []models.OrderItem) {
	l := logging.FromContext(ctx).With("pharmacist_id", pharmacistID)

	for _, item := range items {
		if _, err := s.Repo.ProductByID(ctx, item.ProductID); err != nil {
			l.Warn("stock_increment_skipped", "product_id", item.ProductID, "error", err)
			continue
		}

		productID, qty := item.ProductID, item.Qty
		_, err := s.Repo.MutateStock(ctx, pharmacistID, true, func(lines []reconcile.Line) ([]reconcile.Line, error) {
			return reconcile.UpsertAdd(lines, productID, qty), nil
		})
		if err != nil {
			l.Error("stock_increment_failed", "product_id", item.ProductID, "error", err)
		}
	}
}

func (s *StockService) project(ctx context.Context, stock *models.Stock) (*transport.StockView, error) {
	ids := make([]uuid.UUID, 0, len(stock.Items))
	for _, item := range stock.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &transport.StockView{
		ID:           stock.ID,
		PharmacistID: stock.PharmacistID,
		Items:        make([]transport.StockLineView, 0, len(stock.Items)),
		CreatedAt:    stock.CreatedAt,
		UpdatedAt:    stock.UpdatedAt,
	}
	for _, item := range stock.Items {
		line := transport.StockLineView{ProductID: item.ProductID, Quantity: item.Quantity}
		if p, ok := products[item.ProductID]; ok {
			line.ProductName = p.Name
		}
		view.Items = append(view.Items, line)
	}
	return view, nil
}
