package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/reconcile"
)

func (r *GormRepo) CartByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.position ASC")
		}).
		Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// MutateCart runs a reconcile step against the user's cart inside a single
// transaction, holding the cart row locked for the whole read-modify-write.
// With createMissing the cart is created on first use; otherwise a missing
// cart surfaces as gorm.ErrRecordNotFound.
func (r *GormRepo) MutateCart(ctx context.Context, userID uuid.UUID, createMissing bool, apply func([]reconcile.Line) ([]reconcile.Line, error)) (*models.Cart, error) {
	var out *models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := lockForUpdate(tx).Where("user_id = ?", userID).First(&cart).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) || !createMissing {
				return err
			}
			cart = models.Cart{UserID: userID}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		}

		var items []models.CartItem
		if err := tx.Where("cart_id = ?", cart.ID).Order("position ASC").Find(&items).Error; err != nil {
			return err
		}

		lines := make([]reconcile.Line, len(items))
		for i, it := range items {
			lines[i] = reconcile.Line{ProductID: it.ProductID, Quantity: it.Quantity}
		}

		updated, err := apply(lines)
		if err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		cart.Items = make([]models.CartItem, 0, len(updated))
		for i, line := range updated {
			item := models.CartItem{CartID: cart.ID, ProductID: line.ProductID, Quantity: line.Quantity, Position: i}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			cart.Items = append(cart.Items, item)
		}

		out = &cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
