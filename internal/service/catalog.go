package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/repo"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

type ProductInput struct {
	Name            string
	Description     string
	LambdaUserPrice float64
	PharmacistPrice float64
	Size            string
	Datasheet       string
	Qty             int
	CategoryID      uuid.UUID
}

func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput, imagePaths []string) (*models.Product, error) {
	if input.Name == "" || input.Description == "" || input.Size == "" {
		return nil, fmt.Errorf("%w: name, description and size required", ErrValidation)
	}
	if input.CategoryID == uuid.Nil {
		return nil, fmt.Errorf("%w: category_id required", ErrValidation)
	}
	if _, err := s.Repo.CategoryByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category", ErrNotFound)
		}
		return nil, err
	}

	product := &models.Product{
		Name:            input.Name,
		Description:     input.Description,
		LambdaUserPrice: input.LambdaUserPrice,
		PharmacistPrice: input.PharmacistPrice,
		Size:            input.Size,
		Datasheet:       input.Datasheet,
		Qty:             input.Qty,
		CategoryID:      input.CategoryID,
	}
	for _, p := range imagePaths {
		product.Images = append(product.Images, models.Image{Path: p})
	}

	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies only the fields the caller supplied; new images
// replace the whole set.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput, imagePaths []string) (*models.Product, error) {
	product, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.LambdaUserPrice > 0 {
		product.LambdaUserPrice = input.LambdaUserPrice
	}
	if input.PharmacistPrice > 0 {
		product.PharmacistPrice = input.PharmacistPrice
	}
	if input.Size != "" {
		product.Size = input.Size
	}
	if input.Datasheet != "" {
		product.Datasheet = input.Datasheet
	}
	if input.Qty > 0 {
		product.Qty = input.Qty
	}
	if input.CategoryID != uuid.Nil {
		if _, err := s.Repo.CategoryByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: category", ErrNotFound)
			}
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	if len(imagePaths) > 0 {
		if err := s.Repo.ReplaceProductImages(ctx, product.ID, imagePaths); err != nil {
			return nil, err
		}
		product, err = s.Repo.ProductByID(ctx, product.ID)
		if err != nil {
			return nil, err
		}
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Repo.ProductByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product", ErrNotFound)
		}
		return err
	}
	return s.Repo.DeleteProduct(ctx, id)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	return s.Repo.ListProducts(ctx, offset, limit)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}

	if _, err := s.Repo.CategoryByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: category already exists", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &models.Category{Name: name}
	if err := s.Repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}

	category, err := s.Repo.CategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category", ErrNotFound)
		}
		return nil, err
	}

	category.Name = name
	if err := s.Repo.SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Repo.CategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category", ErrNotFound)
		}
		return err
	}
	return s.Repo.DeleteCategory(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}
