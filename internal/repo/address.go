package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/parapharma/shop/internal/models"
)

func (r *GormRepo) CreateAddress(ctx context.Context, address *models.UserAddress) error {
	return r.DB.WithContext(ctx).Create(address).Error
}

func (r *GormRepo) SaveAddress(ctx context.Context, address *models.UserAddress) error {
	return r.DB.WithContext(ctx).Save(address).Error
}

func (r *GormRepo) AddressByID(ctx context.Context, id uuid.UUID) (*models.UserAddress, error) {
	var address models.UserAddress
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *GormRepo) AddressesByUser(ctx context.Context, userID uuid.UUID) ([]models.UserAddress, error) {
	var addresses []models.UserAddress
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *GormRepo) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Delete(&models.UserAddress{}, "id = ?", id).Error
}
