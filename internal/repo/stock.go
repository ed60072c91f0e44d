package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/reconcile"
)

func (r *GormRepo) StockByPharmacist(ctx context.Context, pharmacistID uuid.UUID) (*models.Stock, error) {
	var stock models.Stock
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("stock_items.position ASC")
		}).
		Where("pharmacist_id = ?", pharmacistID).First(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

// MutateStock mirrors MutateCart for the pharmacist's ledger; the owner
// column additionally carries a storage-level uniqueness constraint.
func (r *GormRepo) MutateStock(ctx context.Context, pharmacistID uuid.UUID, createMissing bool, apply func([]reconcile.Line) ([]reconcile.Line, error)) (*models.Stock, error) {
	var out *models.Stock
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stock models.Stock
		err := lockForUpdate(tx).Where("pharmacist_id = ?", pharmacistID).First(&stock).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) || !createMissing {
				return err
			}
			stock = models.Stock{PharmacistID: pharmacistID}
			if err := tx.Create(&stock).Error; err != nil {
				return err
			}
		}

		var items []models.StockItem
		if err := tx.Where("stock_id = ?", stock.ID).Order("position ASC").Find(&items).Error; err != nil {
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

		if err := tx.Where("stock_id = ?", stock.ID).Delete(&models.StockItem{}).Error; err != nil {
			return err
		}
		stock.Items = make([]models.StockItem, 0, len(updated))
		for i, line := range updated {
			item := models.StockItem{StockID: stock.ID, ProductID: line.ProductID, Quantity: line.Quantity, Position: i}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			stock.Items = append(stock.Items, item)
		}

		out = &stock
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
