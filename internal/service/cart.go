package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/reconcile"
	"github.com/parapharma/shop/internal/repo"
	"github.com/parapharma/shop/internal/transport"
)

type CartService struct {
	Repo *repo.GormRepo
}

// GetCart returns the user's cart with every line's product expanded. A user
// without a cart is a NotFound, not an error condition.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID, role string) (*transport.CartView, error) {
	cart, err := s.Repo.CartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart", ErrNotFound)
		}
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &transport.CartView{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     make([]transport.CartLineView, 0, len(cart.Items)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			// product deleted after it was added; keep the line out of the view
			continue
		}
		view.Items = append(view.Items, transport.CartLineView{
			Product:  transport.NewProductView(product, role),
			Quantity: item.Quantity,
		})
	}
	return view, nil
}

// AddItem merges a quantity delta into the user's cart, creating the cart on
// first use. The product must exist; the quantity is not checked against the
// product's on-hand count.
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}

	if _, err := s.Repo.ProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}

	return s.Repo.MutateCart(ctx, userID, true, func(lines []reconcile.Line) ([]reconcile.Line, error) {
		return reconcile.UpsertAdd(lines, productID, quantity), nil
	})
}

// SetItemQuantity replaces a line's quantity; zero or below removes the line.
func (s *CartService) SetItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}

	cart, err := s.Repo.MutateCart(ctx, userID, false, func(lines []reconcile.Line) ([]reconcile.Line, error) {
		updated, ok := reconcile.SetQuantity(lines, productID, quantity)
		if !ok {
			return nil, fmt.Errorf("%w: product not in cart", ErrNotFound)
		}
		return updated, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart", ErrNotFound)
		}
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Repo.MutateCart(ctx, userID, false, func(lines []reconcile.Line) ([]reconcile.Line, error) {
		updated, ok := reconcile.Remove(lines, productID)
		if !ok {
			return nil, fmt.Errorf("%w: product not in cart", ErrNotFound)
		}
		return updated, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart", ErrNotFound)
		}
		return nil, err
	}
	return cart, nil
}
