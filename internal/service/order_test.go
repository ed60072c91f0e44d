package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parapharma/shop/internal/models"
	"github.com/parapharma/shop/internal/transport"
)

func placeOrder(t *testing.T, svc *OrderService, user *models.User, product *models.Product, qty int) *models.Order {
	t.Helper()

	order, err := svc.PlaceOrder(context.Background(), user.ID, user.Role, transport.PlaceOrderRequest{
		OrderItems: []transport.OrderItemInput{
			{ProductID: product.ID, Name: product.Name, Qty: qty, Price: product.PharmacistPrice},
		},
		ShippingAddress: models.ShippingAddress{
			Address: "1 rue de la Paix", City: "Paris", PostalCode: "75002", Country: "FR",
		},
		PaymentMethod: "card",
		ItemsPrice:    product.PharmacistPrice * float64(qty),
		TotalPrice:    product.PharmacistPrice * float64(qty),
	})
	require.NoError(t, err)
	return order
}

func TestPlaceOrderEmptyItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r, Stock: &StockService{Repo: r}}
	user := seedUser(t, r, "order-empty@example.com", models.RoleVendor)

	_, err := svc.PlaceOrder(ctx, user.ID, user.Role, transport.PlaceOrderRequest{})
	require.ErrorIs(t, err, ErrValidation)

	orders, err := svc.ListMyOrders(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, orders, "a rejected order must not persist anything")
}

func TestPlaceOrderSnapshotsItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r, Stock: &StockService{Repo: r}}
	user := seedUser(t, r, "order-snapshot@example.com", models.RoleVendor)
	product := seedProduct(t, r, "thermal water")

	order := placeOrder(t, svc, user, product, 2)

	got, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, product.ID, got.Items[0].ProductID)
	assert.Equal(t, product.Name, got.Items[0].Name)
	assert.Equal(t, 2, got.Items[0].Qty)
	assert.False(t, got.IsPaid)
	assert.Nil(t, got.PaidAt)
}

func TestPlaceOrderPharmacistFeedsStock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	r := newTestRepo(t)
	stockSvc := &StockService{Repo: r}
	svc := &OrderService{Repo: r, Stock: stockSvc}
	pharmacist := seedUser(t, r, "order-pharmacist@example.com", models.RolePharmacist)
	product := seedProduct(t, r, "calendula cream")

	placeOrder(t, svc, pharmacist, product, 3)

	view, err := stockSvc.GetStock(ctx, pharmacist.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)

	// a second order for the same product increments the existing line
	placeOrder(t, svc, pharmacist, product, 4)

	view, err = stockSvc.GetStock(ctx, pharmacist.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 7, view.Items[0].Quantity)
}

func TestPlaceOrderVendorDoesNotTouchStock(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	stockSvc := &StockService{Repo: r}
	svc := &OrderService{Repo: r, Stock: stockSvc}
	vendor := seedUser(t, r, "order-vendor@example.com", models.RoleVendor)
	product := seedProduct(t, r, "sunscreen")

	placeOrder(t, svc, vendor, product, 2)

	_, err := stockSvc.GetStock(context.Background(), vendor.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMarkPaid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r, Stock: &StockService{Repo: r}}
	user := seedUser(t, r, "order-pay@example.com", models.RoleVendor)
	product := seedProduct(t, r, "lip balm")

	order := placeOrder(t, svc, user, product, 1)

	paid, err := svc.MarkPaid(ctx, order.ID, transport.PaymentResultRequest{
		ID: "pi_1", Status: "succeeded", EmailAddress: user.Email,
	})
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, "pi_1", paid.PaymentResult.ProviderID)

	// marking again overwrites the stored result
	paid, err = svc.MarkPaid(ctx, order.ID, transport.PaymentResultRequest{
		ID: "pi_2", Status: "succeeded", EmailAddress: user.Email,
	})
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.Equal(t, "pi_2", paid.PaymentResult.ProviderID)
}

func TestMarkPaidUnknownOrder(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &OrderService{Repo: r, Stock: &StockService{Repo: r}}

	_, err := svc.MarkPaid(context.Background(), uuid.New(), transport.PaymentResultRequest{ID: "pi_x"})
	require.ErrorIs(t, err, ErrNotFound)
}
