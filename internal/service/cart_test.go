package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parapharma/shop/internal/models"
)

func TestCartAddMergesSameProduct(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "cart-merge@example.com", models.RolePharmacist)
	product := seedProduct(t, r, "arnica gel")

	cart, err := svc.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	cart, err = svc.AddItem(ctx, user.ID, product.ID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "same product must merge into one line")
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, product.ID, cart.Items[0].ProductID)
}

func TestCartAddUnknownProduct(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "cart-unknown@example.com", models.RolePharmacist)

	_, err := svc.AddItem(ctx, user.ID, uuid.New(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCartSetQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "cart-zero@example.com", models.RolePharmacist)
	a := seedProduct(t, r, "vitamin c")
	b := seedProduct(t, r, "zinc")

	_, err := svc.AddItem(ctx, user.ID, a.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, user.ID, b.ID, 1)
	require.NoError(t, err)

	cart, err := svc.SetItemQuantity(ctx, user.ID, a.ID, 0)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, b.ID, cart.Items[0].ProductID)
}

func TestCartSetQuantityMissingLine(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "cart-missing@example.com", models.RolePharmacist)
	a := seedProduct(t, r, "magnesium")
	other := seedProduct(t, r, "melatonin")

	_, err := svc.AddItem(ctx, user.ID, a.ID, 1)
	require.NoError(t, err)

	_, err = svc.SetItemQuantity(ctx, user.ID, other.ID, 4)
	require.ErrorIs(t, err, ErrNotFound)

	// and without any cart at all
	stranger := seedUser(t, r, "cart-none@example.com", models.RolePharmacist)
	_, err = svc.SetItemQuantity(ctx, stranger.ID, a.ID, 4)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCartRemoveItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "cart-remove@example.com", models.RolePharmacist)
	a := seedProduct(t, r, "paracetamol")

	_, err := svc.AddItem(ctx, user.ID, a.ID, 3)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, user.ID, a.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = svc.RemoveItem(ctx, user.ID, a.ID)
	require.ErrorIs(t, err, ErrNotFound, "second remove must not succeed")
}

func TestCartViewSkipsDeletedProducts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	r := newTestRepo(t)
	cartSvc := &CartService{Repo: r}
	catalogSvc := &CatalogService{Repo: r}
	user := seedUser(t, r, "cart-view@example.com", models.RolePharmacist)
	a := seedProduct(t, r, "ibuprofen")
	b := seedProduct(t, r, "aspirin")

	_, err := cartSvc.AddItem(ctx, user.ID, a.ID, 1)
	require.NoError(t, err)
	_, err = cartSvc.AddItem(ctx, user.ID, b.ID, 2)
	require.NoError(t, err)

	require.NoError(t, catalogSvc.DeleteProduct(ctx, a.ID))

	view, err := cartSvc.GetCart(ctx, user.ID, models.RolePharmacist)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, b.ID, view.Items[0].Product.ID)
	assert.Equal(t, b.PharmacistPrice, view.Items[0].Product.Price)
}

func TestCartGetMissing(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	user := seedUser(t, r, "cart-get-missing@example.com", models.RolePharmacist)

	_, err := svc.GetCart(context.Background(), user.ID, models.RolePharmacist)
	require.ErrorIs(t, err, ErrNotFound)
}
