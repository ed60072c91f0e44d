package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate tables")

	return repo.New(db)
}

func seedCategory(t *testing.T, r *repo.GormRepo, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	require.NoError(t, r.CreateCategory(context.Background(), category))
	return category
}

func seedProduct(t *testing.T, r *repo.GormRepo, name string) *models.Product {
	t.Helper()

	category := seedCategory(t, r, "category for "+name)
	product := &models.Product{
		Name:            name,
		Description:     "description of " + name,
		LambdaUserPrice: 12.50,
		PharmacistPrice: 9.90,
		Size:            "250ml",
		Qty:             100,
		CategoryID:      category.ID,
	}
	require.NoError(t, r.CreateProduct(context.Background(), product))
	return product
}

func seedUser(t *testing.T, r *repo.GormRepo, email, role string) *models.User {
	t.Helper()

	user := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		Phone:        "0600000000",
		PasswordHash: "x",
		Role:         role,
		IsVerified:   true,
	}
	require.NoError(t, r.CreateUser(context.Background(), user))
	return user
}
