package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/parapharma/shop/internal/models"
)

func (r *GormRepo) CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error {
	return r.DB.WithContext(ctx).Create(method).Error
}

func (r *GormRepo) PaymentMethodsByUser(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&methods).Error
	if err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *GormRepo) PaymentMethodByProviderID(ctx context.Context, userID uuid.UUID, providerMethodID string) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND provider_method_id = ?", userID, providerMethodID).
		First(&method).Error
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *GormRepo) DeletePaymentMethod(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Delete(&models.PaymentMethod{}, "id = ?", id).Error
}
